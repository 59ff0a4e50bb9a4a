package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorClass_String(t *testing.T) {
	assert.Equal(t, "transient", ErrorTransient.String())
	assert.Equal(t, "invalid", ErrorInvalid.String())
	assert.Equal(t, "fatal", ErrorFatal.String())
	assert.Equal(t, "unknown", ErrorClass(99).String())
}

func TestWrap(t *testing.T) {
	base := stderrors.New("boom")
	err := Wrap(base, "Registry", "RegisterCounter", "insert metric")

	require.Error(t, err)
	assert.Equal(t, "Registry.RegisterCounter: insert metric failed: boom", err.Error())
	assert.True(t, stderrors.Is(err, base))
}

func TestWrap_NilError(t *testing.T) {
	assert.NoError(t, Wrap(nil, "Registry", "RegisterCounter", "insert metric"))
	assert.NoError(t, WrapTransient(nil, "Bus", "Subscribe", "subscribe"))
	assert.NoError(t, WrapInvalid(nil, "Commands", "CounterIncrement", "parse"))
	assert.NoError(t, WrapFatal(nil, "Config", "FromEnv", "parse port"))
}

func TestWrapInvalid_Classification(t *testing.T) {
	err := WrapInvalid(fmt.Errorf("bad value"), "Commands", "GaugeSet", "parse value")

	assert.True(t, IsInvalid(err))
	assert.False(t, IsTransient(err))
	assert.False(t, IsFatal(err))
	assert.Equal(t, ErrorInvalid, Classify(err))
}

func TestWrapFatal_Classification(t *testing.T) {
	err := WrapFatal(ErrInvalidConfig, "Config", "FromEnv", "parse port")

	assert.True(t, IsFatal(err))
	assert.False(t, IsInvalid(err))
	assert.Equal(t, ErrorFatal, Classify(err))
}

func TestWrapTransient_Classification(t *testing.T) {
	err := WrapTransient(ErrNotConnected, "Bus", "Subscribe", "subscribe")

	assert.True(t, IsTransient(err))
	assert.Equal(t, ErrorTransient, Classify(err))
}

func TestSentinelClassification(t *testing.T) {
	// Unwrapped sentinels classify by their known class
	assert.True(t, IsInvalid(ErrInvalidValue))
	assert.True(t, IsInvalid(ErrDuplicateMetric))
	assert.True(t, IsInvalid(ErrMissingName))
	assert.True(t, IsFatal(ErrInvalidConfig))
	assert.True(t, IsTransient(ErrNotConnected))
}

func TestClassifiedError_Unwrap(t *testing.T) {
	err := WrapInvalid(ErrDuplicateMetric, "Registry", "RegisterGauge", "insert metric")

	var ce *ClassifiedError
	require.True(t, stderrors.As(err, &ce))
	assert.Equal(t, "Registry", ce.Component)
	assert.Equal(t, "RegisterGauge", ce.Operation)
	assert.True(t, stderrors.Is(err, ErrDuplicateMetric))
}

func TestClassify_NilAndUnknown(t *testing.T) {
	assert.Equal(t, ErrorTransient, Classify(nil))
	assert.Equal(t, ErrorTransient, Classify(stderrors.New("mystery")))
}

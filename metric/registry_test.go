package metric

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360/callmeter/errors"
)

func TestNewRegistry(t *testing.T) {
	registry := NewRegistry()

	assert.NotNil(t, registry)
	assert.NotNil(t, registry.PrometheusRegistry())
}

func TestRegistry_RegisterCounter(t *testing.T) {
	registry := NewRegistry()
	counter := NewCounter("calls_total", "Total calls")

	require.NoError(t, registry.RegisterCounter(counter))
	assert.True(t, registry.Has("calls_total"))

	counter.Inc()

	families, err := registry.Gather()
	require.NoError(t, err)

	found := false
	for _, mf := range families {
		if mf.GetName() == "calls_total" {
			found = true
			assert.Equal(t, 1.0, mf.GetMetric()[0].GetCounter().GetValue())
		}
	}
	assert.True(t, found, "counter should be gatherable after registration")
}

func TestRegistry_RegisterGauge(t *testing.T) {
	registry := NewRegistry()
	gauge := NewGauge("calls_active", "Active calls")

	require.NoError(t, registry.RegisterGauge(gauge))
	assert.True(t, registry.Has("calls_active"))
}

func TestRegistry_DuplicateName(t *testing.T) {
	registry := NewRegistry()

	require.NoError(t, registry.RegisterCounter(NewCounter("dup_total", "First")))

	err := registry.RegisterCounter(NewCounter("dup_total", "Second"))
	require.Error(t, err)
	assert.True(t, errors.IsInvalid(err))
}

func TestRegistry_NameSharedAcrossKinds(t *testing.T) {
	// The counter and gauge namespaces are combined: a gauge cannot reuse a
	// counter's name.
	registry := NewRegistry()

	require.NoError(t, registry.RegisterCounter(NewCounter("shared_name", "A counter")))

	err := registry.RegisterGauge(NewGauge("shared_name", "A gauge"))
	require.Error(t, err)
	assert.True(t, errors.IsInvalid(err))
}

func TestRegistry_EmptyName(t *testing.T) {
	registry := NewRegistry()

	err := registry.RegisterCounter(NewCounter("", "no name"))
	require.Error(t, err)
	assert.True(t, errors.IsInvalid(err))
}

func TestRegistry_Unregister(t *testing.T) {
	registry := NewRegistry()
	counter := NewCounter("gone_total", "Going away")

	require.NoError(t, registry.RegisterCounter(counter))
	assert.True(t, registry.Unregister("gone_total"))
	assert.False(t, registry.Has("gone_total"))
	assert.False(t, registry.Unregister("gone_total"))

	// Name is free again, but only for the same descriptor: the backing
	// prometheus registry remembers the name's help string past Unregister
	require.NoError(t, registry.RegisterCounter(NewCounter("gone_total", "Going away")))
}

func TestRegistry_ReregisterDifferentHelpRejected(t *testing.T) {
	registry := NewRegistry()

	require.NoError(t, registry.RegisterCounter(NewCounter("flip_total", "Original")))
	assert.True(t, registry.Unregister("flip_total"))

	err := registry.RegisterCounter(NewCounter("flip_total", "Changed"))
	require.Error(t, err)
	assert.True(t, errors.IsInvalid(err))
	assert.False(t, registry.Has("flip_total"))
}

func TestRegistry_SnapshotText(t *testing.T) {
	registry := NewRegistry()

	counter := NewCounter("snap_total", "Snapshot counter")
	gauge := NewGauge("snap_active", "Snapshot gauge")
	require.NoError(t, registry.RegisterCounter(counter))
	require.NoError(t, registry.RegisterGauge(gauge))

	counter.Add(3)
	gauge.Set(-2)

	text, err := registry.SnapshotText()
	require.NoError(t, err)

	assert.Contains(t, text, "# HELP snap_total Snapshot counter")
	assert.Contains(t, text, "# TYPE snap_total counter")
	assert.Contains(t, text, "snap_total 3")
	assert.Contains(t, text, "# TYPE snap_active gauge")
	assert.Contains(t, text, "snap_active -2")

	// Each metric appears exactly once
	assert.Equal(t, 1, strings.Count(text, "# TYPE snap_total "))
	assert.Equal(t, 1, strings.Count(text, "# TYPE snap_active "))
}

func TestRegistry_SnapshotDeterministicOrder(t *testing.T) {
	registry := NewRegistry()

	// Register out of lexical order; gather sorts by family name
	require.NoError(t, registry.RegisterCounter(NewCounter("zz_total", "Last")))
	require.NoError(t, registry.RegisterCounter(NewCounter("aa_total", "First")))

	text, err := registry.SnapshotText()
	require.NoError(t, err)

	assert.Less(t, strings.Index(text, "aa_total"), strings.Index(text, "zz_total"))
}

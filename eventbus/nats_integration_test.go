//go:build integration

package eventbus

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNATSBus_PublishSubscribeRoundTrip(t *testing.T) {
	tb := NewTestBus(t)
	bus := tb.Bus

	var created atomic.Int32
	var direction atomic.Value
	_, err := bus.Subscribe(KindChannelCreate, "", func(e *Event) {
		if d, ok := e.Header(HeaderCallDirection); ok {
			direction.Store(d)
		}
		created.Add(1)
	})
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, bus.Publish(ctx, &Event{
		Kind:    KindChannelCreate,
		Headers: map[string]string{HeaderCallDirection: DirectionInbound},
	}))
	require.NoError(t, bus.Flush())

	require.Eventually(t, func() bool {
		return created.Load() == 1
	}, 5*time.Second, 20*time.Millisecond)
	assert.Equal(t, DirectionInbound, direction.Load())
}

func TestNATSBus_CustomSubtypeIsolation(t *testing.T) {
	tb := NewTestBus(t)
	bus := tb.Bus

	var attempts, successes atomic.Int32
	_, err := bus.Subscribe(KindCustom, SubtypeRegisterAttempt, func(_ *Event) {
		attempts.Add(1)
	})
	require.NoError(t, err)
	_, err = bus.Subscribe(KindCustom, SubtypeRegister, func(_ *Event) {
		successes.Add(1)
	})
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, bus.Publish(ctx, &Event{Kind: KindCustom, Subtype: SubtypeRegisterAttempt}))
	require.NoError(t, bus.Publish(ctx, &Event{Kind: KindCustom, Subtype: SubtypeRegisterAttempt}))
	require.NoError(t, bus.Publish(ctx, &Event{Kind: KindCustom, Subtype: SubtypeRegister}))
	require.NoError(t, bus.Flush())

	require.Eventually(t, func() bool {
		return attempts.Load() == 2 && successes.Load() == 1
	}, 5*time.Second, 20*time.Millisecond)
}

func TestNATSBus_UnsubscribeStopsDelivery(t *testing.T) {
	tb := NewTestBus(t)
	bus := tb.Bus

	var got atomic.Int32
	handle, err := bus.Subscribe(KindHeartbeat, "", func(_ *Event) {
		got.Add(1)
	})
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, bus.Publish(ctx, &Event{Kind: KindHeartbeat}))
	require.NoError(t, bus.Flush())
	require.Eventually(t, func() bool { return got.Load() == 1 }, 5*time.Second, 20*time.Millisecond)

	require.NoError(t, bus.Unsubscribe(handle))
	require.NoError(t, bus.Publish(ctx, &Event{Kind: KindHeartbeat}))
	require.NoError(t, bus.Flush())

	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, int32(1), got.Load())
}

func TestNATSBus_CloseWithCancelledContext(t *testing.T) {
	tb := NewTestBus(t)

	// A cancelled context makes Close skip waiting for the drain goroutine
	// and tear the connection down immediately; the late-running drain must
	// not crash on the torn-down state.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := tb.Bus.Close(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "context")
	assert.False(t, tb.Bus.IsConnected())

	time.Sleep(200 * time.Millisecond) // let the drain goroutine finish
}

func TestNATSBus_CloseIsIdempotent(t *testing.T) {
	tb := NewTestBus(t)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	require.NoError(t, tb.Bus.Close(ctx))
	require.NoError(t, tb.Bus.Close(ctx))
	assert.False(t, tb.Bus.IsConnected())
}

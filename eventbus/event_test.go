package eventbus

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvent_Header(t *testing.T) {
	event := &Event{
		Kind: KindChannelCreate,
		Headers: map[string]string{
			HeaderCallDirection: DirectionInbound,
		},
	}

	direction, ok := event.Header(HeaderCallDirection)
	assert.True(t, ok)
	assert.Equal(t, DirectionInbound, direction)

	_, ok = event.Header(HeaderHangupCause)
	assert.False(t, ok)
}

func TestEvent_HeaderOnNilMap(t *testing.T) {
	event := &Event{Kind: KindHeartbeat}

	_, ok := event.Header(HeaderCallDirection)
	assert.False(t, ok)
}

func TestEvent_JSONRoundTrip(t *testing.T) {
	event := &Event{
		Kind:    KindChannelHangupComplete,
		Headers: map[string]string{HeaderBillSeconds: "30"},
		Body:    "raw event body",
	}

	data, err := json.Marshal(event)
	require.NoError(t, err)

	var decoded Event
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, event.Kind, decoded.Kind)
	assert.Equal(t, "30", decoded.Headers[HeaderBillSeconds])
	assert.Equal(t, event.Body, decoded.Body)
}

func TestSubjectFor(t *testing.T) {
	assert.Equal(t, "callmeter.events.HEARTBEAT", SubjectFor(KindHeartbeat, ""))
	assert.Equal(t, "callmeter.events.CHANNEL_CREATE", SubjectFor(KindChannelCreate, ""))

	// Subtype separators NATS cannot carry map to dots
	assert.Equal(t,
		"callmeter.events.CUSTOM.sofia.register_attempt",
		SubjectFor(KindCustom, SubtypeRegisterAttempt))

	// Non-custom kinds ignore subtype
	assert.Equal(t, "callmeter.events.HEARTBEAT", SubjectFor(KindHeartbeat, "ignored"))
}

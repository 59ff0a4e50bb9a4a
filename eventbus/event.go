package eventbus

// Kind identifies a lifecycle event category.
type Kind string

// Lifecycle event kinds the engine subscribes to.
const (
	KindHeartbeat             Kind = "HEARTBEAT"
	KindChannelCreate         Kind = "CHANNEL_CREATE"
	KindChannelAnswer         Kind = "CHANNEL_ANSWER"
	KindChannelHangup         Kind = "CHANNEL_HANGUP"
	KindChannelHangupComplete Kind = "CHANNEL_HANGUP_COMPLETE"
	KindChannelDestroy        Kind = "CHANNEL_DESTROY"
	KindCustom                Kind = "CUSTOM"
)

// Custom event subtypes for registration lifecycle.
const (
	SubtypeRegisterAttempt = "sofia::register_attempt"
	SubtypeRegisterFailure = "sofia::register_failure"
	SubtypeRegister        = "sofia::register"
	SubtypeUnregister      = "sofia::unregister"
	SubtypeExpire          = "sofia::expire"
)

// Header fields the engine reads from events.
const (
	HeaderCallDirection = "Call-Direction"
	HeaderUniqueID      = "Unique-ID"
	HeaderSIPCallID     = "variable_sip_call_id"
	HeaderAnsweredTime  = "Caller-Channel-Answered-Time"
	HeaderHangupCause   = "Hangup-Cause"
	HeaderBillSeconds   = "variable_billsec"
)

// Call-Direction values.
const (
	DirectionInbound  = "inbound"
	DirectionOutbound = "outbound"
)

// HangupCauseNormalClearing is the only hangup cause that contributes to
// call-duration accounting.
const HangupCauseNormalClearing = "NORMAL_CLEARING"

// Event is a single lifecycle event delivered by the host platform. Events
// are value snapshots: the engine reads direction and timing fresh from each
// event's own headers and carries no state between events for the same call.
type Event struct {
	Kind    Kind              `json:"kind"`
	Subtype string            `json:"subtype,omitempty"`
	Headers map[string]string `json:"headers,omitempty"`
	Body    string            `json:"body,omitempty"`
}

// Header returns the named header value and whether it was present.
func (e *Event) Header(name string) (string, bool) {
	v, ok := e.Headers[name]
	return v, ok
}

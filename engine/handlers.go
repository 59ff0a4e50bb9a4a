package engine

import (
	"strconv"

	"github.com/c360/callmeter/eventbus"
)

// handleHeartbeat counts host heartbeats.
func (e *Engine) handleHeartbeat(_ *eventbus.Event) {
	e.counters[Heartbeats].Inc()
}

// handleChannelCreate counts a new session and recomputes the direction's
// answer-seizure ratio.
func (e *Engine) handleChannelCreate(event *eventbus.Event) {
	e.counters[SessionsCreated].Inc()

	direction, ok := event.Header(eventbus.HeaderCallDirection)
	if !ok {
		e.logger.Warn("Received channel create event with no call direction", "body", event.Body)
		return
	}

	switch direction {
	case eventbus.DirectionInbound:
		e.gauges[SessionsActiveInbound].Inc()
		e.counters[SessionsInboundCreated].Inc()
		e.recomputeASR(eventbus.DirectionInbound)
	case eventbus.DirectionOutbound:
		e.gauges[SessionsActiveOutbound].Inc()
		e.counters[SessionsOutboundCreated].Inc()
		e.recomputeASR(eventbus.DirectionOutbound)
	}
}

// handleChannelAnswer counts an answered session and recomputes the
// direction's answer-seizure ratio.
func (e *Engine) handleChannelAnswer(event *eventbus.Event) {
	e.counters[SessionsAnswered].Inc()

	direction, ok := event.Header(eventbus.HeaderCallDirection)
	if !ok {
		e.logger.Warn("Received channel answer event with no call direction", "body", event.Body)
		return
	}

	switch direction {
	case eventbus.DirectionInbound:
		e.counters[SessionsInboundAnswered].Inc()
		e.recomputeASR(eventbus.DirectionInbound)
	case eventbus.DirectionOutbound:
		e.counters[SessionsOutboundAnswered].Inc()
		e.recomputeASR(eventbus.DirectionOutbound)
	}
}

// handleChannelHangup counts the hangup per direction and marks the call
// failed when it was never answered. A zero answer timestamp at hangup means
// the call failed.
func (e *Engine) handleChannelHangup(event *eventbus.Event) {
	direction, hasDirection := event.Header(eventbus.HeaderCallDirection)
	if hasDirection {
		// Any non-inbound direction counts as outbound here, matching the
		// per-direction hangup totals the exporter has always reported.
		if direction == eventbus.DirectionInbound {
			e.counters[SessionsInboundHangup].Inc()
		} else {
			e.counters[SessionsOutboundHangup].Inc()
		}
	}

	answeredTime, ok := event.Header(eventbus.HeaderAnsweredTime)
	if !ok {
		e.logger.Warn("Received channel hangup event with no call answer time information", "body", event.Body)
		return
	}

	timestamp, err := strconv.ParseInt(answeredTime, 10, 64)
	if err != nil {
		e.logger.Warn("Received channel hangup event with unparseable answer time",
			"answer_time", answeredTime, "error", err)
		return
	}
	if timestamp != 0 {
		return
	}

	if !hasDirection {
		e.logger.Warn("Received channel hangup event with no call direction", "body", event.Body)
		return
	}

	switch direction {
	case eventbus.DirectionInbound:
		e.counters[SessionsInboundFailed].Inc()
	case eventbus.DirectionOutbound:
		e.counters[SessionsOutboundFailed].Inc()
	default:
		e.logger.Warn("Received channel hangup event with unhandled direction", "direction", direction)
	}
	e.counters[SessionsFailed].Inc()
}

// handleChannelHangupComplete accounts billed duration for normally-cleared
// calls and recomputes the direction's average call duration.
func (e *Engine) handleChannelHangupComplete(event *eventbus.Event) {
	callID, _ := event.Header(eventbus.HeaderSIPCallID)
	uniqueID, _ := event.Header(eventbus.HeaderUniqueID)
	direction, _ := event.Header(eventbus.HeaderCallDirection)

	e.logger.Info("Channel hangup complete",
		"call_id", callID, "unique_id", uniqueID, "direction", direction)

	cause, ok := event.Header(eventbus.HeaderHangupCause)
	if !ok {
		e.logger.Error("Channel hangup complete without hangup cause",
			"call_id", callID, "unique_id", uniqueID, "direction", direction)
		return
	}
	if cause != eventbus.HangupCauseNormalClearing {
		return
	}

	billsec, ok := event.Header(eventbus.HeaderBillSeconds)
	if !ok {
		e.logger.Error("Channel hangup complete without billsec header",
			"call_id", callID, "unique_id", uniqueID, "direction", direction)
		return
	}

	seconds, err := strconv.ParseUint(billsec, 10, 64)
	if err != nil {
		e.logger.Error("Channel hangup complete with unparseable billsec header",
			"call_id", callID, "unique_id", uniqueID, "direction", direction,
			"billsec", billsec, "error", err)
		return
	}

	switch direction {
	case eventbus.DirectionOutbound:
		e.counters[SessionsOutboundDurationTotal].Add(float64(seconds))
		completed := e.counters[SessionsOutboundHangupComplete].Inc()
		e.recomputeACD(eventbus.DirectionOutbound)
		e.logger.Info("Outbound call duration accounted",
			"call_id", callID, "unique_id", uniqueID, "bill_seconds", seconds,
			"completed_hangups", completed, "acd", e.gauges[OutboundACD].Value())
	case eventbus.DirectionInbound:
		e.counters[SessionsInboundDurationTotal].Add(float64(seconds))
		completed := e.counters[SessionsInboundHangupComplete].Inc()
		e.recomputeACD(eventbus.DirectionInbound)
		e.logger.Info("Inbound call duration accounted",
			"call_id", callID, "unique_id", uniqueID, "bill_seconds", seconds,
			"completed_hangups", completed, "acd", e.gauges[InboundACD].Value())
	}
}

// handleChannelDestroy counts the destroyed session and releases its slot in
// the directional active gauge.
func (e *Engine) handleChannelDestroy(event *eventbus.Event) {
	e.counters[SessionsDestroyed].Inc()

	direction, ok := event.Header(eventbus.HeaderCallDirection)
	if !ok {
		return
	}
	switch direction {
	case eventbus.DirectionInbound:
		e.gauges[SessionsActiveInbound].Dec()
	case eventbus.DirectionOutbound:
		e.gauges[SessionsActiveOutbound].Dec()
	}
}

func (e *Engine) handleRegisterAttempt(_ *eventbus.Event) {
	e.counters[RegistrationAttempts].Inc()
}

func (e *Engine) handleRegisterFailure(_ *eventbus.Event) {
	e.counters[RegistrationFailures].Inc()
}

func (e *Engine) handleRegister(_ *eventbus.Event) {
	e.counters[Registrations].Inc()
	e.gauges[RegistrationsActive].Inc()
}

// handleUnregister serves both the unregister and expire subtypes.
func (e *Engine) handleUnregister(_ *eventbus.Event) {
	e.gauges[RegistrationsActive].Dec()
}

// recomputeASR sets the direction's answer-seizure ratio from the current
// answered and created counters. The two reads and the write are separate
// atomic operations; see the package comment for the consistency model.
func (e *Engine) recomputeASR(direction string) {
	var answered, created CounterID
	var gauge GaugeID
	switch direction {
	case eventbus.DirectionInbound:
		answered, created, gauge = SessionsInboundAnswered, SessionsInboundCreated, InboundASR
	case eventbus.DirectionOutbound:
		answered, created, gauge = SessionsOutboundAnswered, SessionsOutboundCreated, OutboundASR
	default:
		return
	}

	total := e.counters[created].Value()
	if total == 0 {
		// No seizures yet; leave the gauge untouched rather than divide by zero
		return
	}
	e.gauges[gauge].Set(e.counters[answered].Value() / total)
}

// recomputeACD sets the direction's average call duration from the current
// duration and completed-hangup counters.
func (e *Engine) recomputeACD(direction string) {
	var duration, completed CounterID
	var gauge GaugeID
	switch direction {
	case eventbus.DirectionInbound:
		duration, completed, gauge = SessionsInboundDurationTotal, SessionsInboundHangupComplete, InboundACD
	case eventbus.DirectionOutbound:
		duration, completed, gauge = SessionsOutboundDurationTotal, SessionsOutboundHangupComplete, OutboundACD
	default:
		return
	}

	count := e.counters[completed].Value()
	if count == 0 {
		return
	}
	e.gauges[gauge].Set(e.counters[duration].Value() / count)
}

package engine

import (
	"github.com/c360/callmeter/metric"
)

// CounterID identifies a built-in counter.
type CounterID int

// Built-in counters.
const (
	Heartbeats CounterID = iota
	SessionsCreated
	SessionsDestroyed
	SessionsAnswered
	SessionsFailed
	SessionsInboundCreated
	SessionsInboundAnswered
	SessionsInboundFailed
	SessionsOutboundCreated
	SessionsOutboundAnswered
	SessionsOutboundFailed
	Registrations
	RegistrationAttempts
	RegistrationFailures
	SessionsOutboundDurationTotal
	SessionsOutboundHangup
	SessionsOutboundHangupComplete
	SessionsInboundDurationTotal
	SessionsInboundHangup
	SessionsInboundHangupComplete
)

// GaugeID identifies a built-in gauge.
type GaugeID int

// Built-in gauges.
const (
	SessionsActiveInbound GaugeID = iota
	SessionsActiveOutbound
	OutboundASR
	RegistrationsActive
	OutboundACD
	InboundACD
	InboundASR
)

type metricDef struct {
	name string
	help string
}

// counterDefs maps every CounterID to its exposition name and help text.
// Keying by the enum keeps identifiers and definitions in sync by
// construction; there is no positional bookkeeping to get wrong.
var counterDefs = map[CounterID]metricDef{
	Heartbeats:      {"freeswitch_heartbeats_total", "FreeSWITCH heartbeat count"},
	SessionsCreated: {"freeswitch_sessions_created_total", "FreeSWITCH Session Created Count"},

	SessionsDestroyed: {"freeswitch_sessions_destroyed_total", "FreeSWITCH Session Destroyed Count"},
	SessionsAnswered:  {"freeswitch_sessions_answered_total", "FreeSWITCH Answered Sessions Count"},
	SessionsFailed:    {"freeswitch_sessions_failed_total", "FreeSWITCH Failed Sessions Count"},

	SessionsInboundCreated:  {"freeswitch_sessions_inbound_total", "FreeSWITCH Inbound Sessions Count"},
	SessionsInboundAnswered: {"freeswitch_sessions_inbound_answered_total", "FreeSWITCH Answered Inbound Sessions Count"},
	SessionsInboundFailed:   {"freeswitch_sessions_inbound_failed_total", "FreeSWITCH Failed Inbound Sessions Count"},

	SessionsOutboundCreated:  {"freeswitch_sessions_outbound_total", "FreeSWITCH Outbound Sessions Count"},
	SessionsOutboundAnswered: {"freeswitch_sessions_outbound_answered_total", "FreeSWITCH Answered Outbound Sessions Count"},
	SessionsOutboundFailed:   {"freeswitch_sessions_outbound_failed_total", "FreeSWITCH Failed Outbound Sessions Count"},

	Registrations:        {"freeswitch_registrations_total", "FreeSWITCH Registration Count"},
	RegistrationAttempts: {"freeswitch_registration_attempts_total", "FreeSWITCH Registration Attempts"},
	RegistrationFailures: {"freeswitch_registration_failures_total", "FreeSWITCH Registration Failures"},

	SessionsOutboundDurationTotal:  {"freeswitch_sessions_outbound_duration_total", "FreeSWITCH outbound Calls total duration"},
	SessionsOutboundHangup:         {"freeswitch_sessions_outbound_hangup", "FreeSWITCH outbound Calls hangup"},
	SessionsOutboundHangupComplete: {"freeswitch_sessions_outbound_hangup_complete", "FreeSWITCH outbound Calls hangup complete"},

	SessionsInboundDurationTotal:  {"freeswitch_sessions_inbound_duration_total", "FreeSWITCH inbound Calls total duration"},
	SessionsInboundHangup:         {"freeswitch_sessions_inbound_hangup", "FreeSWITCH inbound Calls hangup"},
	SessionsInboundHangupComplete: {"freeswitch_sessions_inbound_hangup_complete", "FreeSWITCH inbound Calls hangup complete"},
}

// gaugeDefs maps every GaugeID to its exposition name and help text.
var gaugeDefs = map[GaugeID]metricDef{
	SessionsActiveInbound:  {"freeswitch_sessions_active_inbound", "FreeSWITCH Active Sessions inbound"},
	SessionsActiveOutbound: {"freeswitch_sessions_active_outbound", "FreeSWITCH Active Sessions outbound"},
	OutboundASR:            {"freeswitch_outbound_asr", "FreeSWITCH outbound Answer Seizure Ratio"},
	RegistrationsActive:    {"freeswitch_registrations_active", "FreeSWITCH Active Registrations"},
	OutboundACD:            {"freeswitch_outbound_acd", "FreeSWITCH outbound Calls Average Duration"},
	InboundACD:             {"freeswitch_inbound_acd", "FreeSWITCH inbound Calls Average Duration"},
	InboundASR:             {"freeswitch_inbound_asr", "FreeSWITCH inbound Answer Seizure Ratio"},
}

// newBuiltinCounters instantiates the full built-in counter set.
func newBuiltinCounters() map[CounterID]*metric.Counter {
	counters := make(map[CounterID]*metric.Counter, len(counterDefs))
	for id, def := range counterDefs {
		counters[id] = metric.NewCounter(def.name, def.help)
	}
	return counters
}

// newBuiltinGauges instantiates the full built-in gauge set.
func newBuiltinGauges() map[GaugeID]*metric.Gauge {
	gauges := make(map[GaugeID]*metric.Gauge, len(gaugeDefs))
	for id, def := range gaugeDefs {
		gauges[id] = metric.NewGauge(def.name, def.help)
	}
	return gauges
}

// Package callmeter aggregates telephony lifecycle events into Prometheus
// metrics.
//
// # Overview
//
// Callmeter sits beside a FreeSWITCH-style telephony host and turns its
// event stream into scrapeable counters and gauges. Session and registration
// events arrive over NATS, handlers fold them into a built-in metric set
// (session counts per direction, registration counts, active-session and
// active-registration gauges), and two derived quality gauges are maintained
// from the raw counters: ASR (answer seizure ratio, answered/created) and
// ACD (average call duration, billed seconds/completed hangups). Operators
// create additional named counters and gauges at runtime through a NATS
// request/reply command surface.
//
// # Architecture
//
//	┌─────────────────────────────────────┐
//	│         Engine                      │  Event handlers,
//	│  (built-ins, ASR/ACD, ledger)       │  subscription ledger
//	└──────────────┬──────────────────────┘
//	               │ subscribes via
//	┌──────────────┴──────────────────────┐
//	│         Event Bus                   │  NATS delivery,
//	│  (callmeter.events.<KIND>)          │  in-memory for tests
//	└─────────────────────────────────────┘
//	┌─────────────────────────────────────┐
//	│         Metric Registry             │  Atomic counters/gauges,
//	│  (scrape endpoint, user store)      │  Prometheus exposition
//	└─────────────────────────────────────┘
//
// Handlers run directly on the bus delivery goroutines with no internal
// queueing. All metric state is lock-free atomic cells, so any mix of
// events, commands, and scrapes can run concurrently.
//
// # Packages
//
//   - eventbus: event model and subscription boundary (NATS and in-memory)
//   - engine: built-in metric set and event handlers
//   - metric: counters, gauges, registry, scrape server, dynamic store
//   - command: operator command surface over NATS request/reply
//   - config: environment/flag configuration
//   - errors: classified error handling (transient, invalid, fatal)
package callmeter

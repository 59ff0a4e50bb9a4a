// Package engine binds lifecycle event handlers to the metric registry.
//
// The engine owns the built-in counter and gauge set (keyed by closed
// CounterID/GaugeID enumerations built once at startup), one handler per
// subscribed event kind, and the ledger of subscription handles so Close can
// release them all in one pass.
//
// Handlers run synchronously inside the bus delivery context with no
// queueing. All shared state lives in the registry's atomic primitives, so
// concurrent invocation of any mix of handlers is safe.
//
// # Derived gauges
//
// ASR (answered/created) and ACD (total duration/completed hangups) are
// recomputed whenever a contributing counter changes. A recomputation reads
// two counters and writes one gauge as three independent atomic operations;
// a concurrent update between the reads can make the derived value
// momentarily inconsistent with the true instantaneous ratio. The gauge
// converges on the next contributing event, so the triple is not serialized
// under a combined lock.
package engine

// Package eventbus defines the lifecycle event model and the subscription
// boundary between the host telephony platform and the aggregation engine.
//
// The engine never owns a scheduler: the bus delivers events by invoking
// handlers directly on its own worker goroutines, concurrently and without
// ordering guarantees across events. Handlers must therefore be safe for
// arbitrary concurrent invocation and must not block.
//
// Two implementations are provided: NATSBus carries events over NATS
// subjects (one subject per event kind, custom registration events fan out
// per subtype), and MemoryBus delivers synchronously in-process for tests.
package eventbus

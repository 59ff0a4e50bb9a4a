// Package command implements the operator command surface for dynamically
// named metrics.
//
// Four commands mutate metrics in the dynamic store: counter_increment,
// gauge_set, gauge_increment and gauge_decrement. Each takes a raw argument
// string of the form "<name> [<value>]" and replies "+OK <value>" with the
// metric's resulting value, or an error when the name is missing, the value
// does not parse, or the store rejects the name. A fifth, fire-and-forget
// entry point mirrors gauge_increment for callers that cannot consume a
// reply; it logs failures instead of returning them.
//
// Responder exposes the commands over NATS request/reply. Command requests
// arrive on "callmeter.cmd.<command>" and are answered with the "+OK" line or
// an "-ERR <reason>" line; fire-and-forget increments arrive on
// "callmeter.app.gauge_increment" and are never answered.
package command

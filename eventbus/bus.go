package eventbus

// Handler processes a single delivered event. Handlers run synchronously
// inside the delivery context and may be invoked concurrently, including
// repeated concurrent invocations of the same handler for different calls.
type Handler func(*Event)

// Handle is the opaque identifier returned by Subscribe, held by the caller
// for later release.
type Handle string

// Bus is the subscription boundary consumed by the aggregation engine. The
// subtype argument is only meaningful for KindCustom and must be empty for
// every other kind.
type Bus interface {
	Subscribe(kind Kind, subtype string, handler Handler) (Handle, error)
	Unsubscribe(handle Handle) error
}

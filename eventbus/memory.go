package eventbus

import (
	"sync"

	"github.com/google/uuid"

	"github.com/c360/callmeter/errors"
)

// MemoryBus is an in-process Bus that delivers events synchronously to every
// matching subscriber. It exists for tests and for embedding the engine
// without a broker.
type MemoryBus struct {
	mu       sync.RWMutex
	handlers map[string]map[Handle]Handler // routing key -> handle -> handler
	keys     map[Handle]string             // handle -> routing key
}

// NewMemoryBus creates an empty in-process bus.
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{
		handlers: make(map[string]map[Handle]Handler),
		keys:     make(map[Handle]string),
	}
}

func routingKey(kind Kind, subtype string) string {
	if kind == KindCustom && subtype != "" {
		return string(kind) + "/" + subtype
	}
	return string(kind)
}

// Subscribe registers a handler for the given kind (and subtype for custom
// events) and returns its handle.
func (b *MemoryBus) Subscribe(kind Kind, subtype string, handler Handler) (Handle, error) {
	if handler == nil {
		return "", errors.WrapInvalid(errors.ErrSubscriptionFailed, "MemoryBus", "Subscribe", "nil handler")
	}

	key := routingKey(kind, subtype)
	handle := Handle(uuid.NewString())

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.handlers[key] == nil {
		b.handlers[key] = make(map[Handle]Handler)
	}
	b.handlers[key][handle] = handler
	b.keys[handle] = key
	return handle, nil
}

// Unsubscribe releases the subscription identified by handle.
func (b *MemoryBus) Unsubscribe(handle Handle) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	key, ok := b.keys[handle]
	if !ok {
		return errors.ErrUnknownHandle
	}
	delete(b.keys, handle)
	delete(b.handlers[key], handle)
	return nil
}

// Publish delivers the event synchronously to every subscriber matching its
// kind and subtype. The caller's goroutine is the delivery context.
func (b *MemoryBus) Publish(event *Event) {
	key := routingKey(event.Kind, event.Subtype)

	b.mu.RLock()
	matched := make([]Handler, 0, len(b.handlers[key]))
	for _, h := range b.handlers[key] {
		matched = append(matched, h)
	}
	b.mu.RUnlock()

	for _, h := range matched {
		h(event)
	}
}

// SubscriberCount reports how many handlers are registered for the given
// kind and subtype.
func (b *MemoryBus) SubscriberCount(kind Kind, subtype string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers[routingKey(kind, subtype)])
}

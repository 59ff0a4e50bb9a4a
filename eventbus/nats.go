package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"github.com/c360/callmeter/errors"
)

// SubjectPrefix is the root of the NATS subject space events travel on.
// A kind maps to "callmeter.events.<KIND>"; custom events append the
// sanitized subtype.
const SubjectPrefix = "callmeter.events"

// NATSBus delivers lifecycle events over NATS. Handlers run directly on the
// NATS delivery goroutines, which gives the engine exactly the concurrent,
// unordered invocation model it is specified against.
type NATSBus struct {
	url    string
	logger *slog.Logger

	conn *nats.Conn
	subs map[Handle]*nats.Subscription

	// Connection options
	clientName    string
	maxReconnects int
	reconnectWait time.Duration
	timeout       time.Duration
	drainTimeout  time.Duration

	mu     sync.Mutex
	closed atomic.Bool
}

// NewNATSBus creates a bus for the given NATS URL. Connect must be called
// before subscribing or publishing.
func NewNATSBus(url string, opts ...Option) (*NATSBus, error) {
	b := &NATSBus{
		url:    url,
		logger: slog.Default(),
		subs:   make(map[Handle]*nats.Subscription),
		// Sensible defaults
		clientName:    "callmeter-" + uuid.NewString()[:8],
		maxReconnects: -1, // infinite by default
		reconnectWait: 2 * time.Second,
		timeout:       5 * time.Second,
		drainTimeout:  30 * time.Second,
	}

	for _, opt := range opts {
		if err := opt(b); err != nil {
			return nil, errors.WrapInvalid(err, "NATSBus", "NewNATSBus", "apply option")
		}
	}

	return b, nil
}

// Connect establishes the NATS connection.
func (b *NATSBus) Connect(ctx context.Context) error {
	opts := []nats.Option{
		nats.Name(b.clientName),
		nats.MaxReconnects(b.maxReconnects),
		nats.ReconnectWait(b.reconnectWait),
		nats.Timeout(b.timeout),
		nats.DrainTimeout(b.drainTimeout),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			b.logger.Warn("NATS disconnected", "error", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			b.logger.Info("NATS reconnected", "url", nc.ConnectedUrl())
		}),
		nats.ErrorHandler(func(_ *nats.Conn, sub *nats.Subscription, err error) {
			subject := ""
			if sub != nil {
				subject = sub.Subject
			}
			b.logger.Error("NATS async error", "subject", subject, "error", err)
		}),
	}

	connectDone := make(chan error, 1)
	go func() {
		conn, err := nats.Connect(b.url, opts...)
		if err != nil {
			connectDone <- err
			return
		}
		b.mu.Lock()
		b.conn = conn
		b.mu.Unlock()
		connectDone <- nil
	}()

	select {
	case err := <-connectDone:
		if err != nil {
			return errors.WrapTransient(err, "NATSBus", "Connect", "establish connection")
		}
	case <-ctx.Done():
		return errors.WrapTransient(ctx.Err(), "NATSBus", "Connect", "connection cancelled")
	}

	b.logger.Info("Connected to NATS", "url", b.url, "client", b.clientName)
	return nil
}

// SubjectFor returns the NATS subject carrying events of the given kind and
// subtype. Subtype separators that NATS cannot carry ("::") map to dots.
func SubjectFor(kind Kind, subtype string) string {
	if kind == KindCustom && subtype != "" {
		sanitized := strings.ReplaceAll(subtype, "::", ".")
		sanitized = strings.ReplaceAll(sanitized, " ", "_")
		return fmt.Sprintf("%s.%s.%s", SubjectPrefix, kind, sanitized)
	}
	return fmt.Sprintf("%s.%s", SubjectPrefix, kind)
}

// Subscribe binds a handler to the subject for kind/subtype and records the
// subscription under a fresh handle.
func (b *NATSBus) Subscribe(kind Kind, subtype string, handler Handler) (Handle, error) {
	if handler == nil {
		return "", errors.WrapInvalid(errors.ErrSubscriptionFailed, "NATSBus", "Subscribe", "nil handler")
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.conn == nil || !b.conn.IsConnected() {
		return "", errors.ErrNotConnected
	}

	subject := SubjectFor(kind, subtype)
	sub, err := b.conn.Subscribe(subject, func(msg *nats.Msg) {
		var event Event
		if err := json.Unmarshal(msg.Data, &event); err != nil {
			b.logger.Warn("Dropping undecodable event", "subject", msg.Subject, "error", err)
			return
		}
		handler(&event)
	})
	if err != nil {
		return "", errors.WrapTransient(err, "NATSBus", "Subscribe",
			fmt.Sprintf("subscribe to %s", subject))
	}

	handle := Handle(uuid.NewString())
	b.subs[handle] = sub
	return handle, nil
}

// Unsubscribe releases the subscription identified by handle.
func (b *NATSBus) Unsubscribe(handle Handle) error {
	b.mu.Lock()
	sub, ok := b.subs[handle]
	if ok {
		delete(b.subs, handle)
	}
	b.mu.Unlock()

	if !ok {
		return errors.ErrUnknownHandle
	}
	if err := sub.Unsubscribe(); err != nil {
		return errors.WrapTransient(err, "NATSBus", "Unsubscribe", "release subscription")
	}
	return nil
}

// Publish sends an event on its subject. Producers and tests use this; the
// engine itself only consumes.
func (b *NATSBus) Publish(_ context.Context, event *Event) error {
	b.mu.Lock()
	conn := b.conn
	b.mu.Unlock()

	if conn == nil || !conn.IsConnected() {
		return errors.ErrNotConnected
	}

	data, err := json.Marshal(event)
	if err != nil {
		return errors.WrapInvalid(err, "NATSBus", "Publish", "encode event")
	}
	return conn.Publish(SubjectFor(event.Kind, event.Subtype), data)
}

// Flush blocks until all published messages have been processed by the
// server. Tests use it to make delivery deterministic.
func (b *NATSBus) Flush() error {
	b.mu.Lock()
	conn := b.conn
	b.mu.Unlock()

	if conn == nil || !conn.IsConnected() {
		return errors.ErrNotConnected
	}
	return conn.Flush()
}

// Conn exposes the underlying connection for collaborators that need
// request/reply semantics (the command responder).
func (b *NATSBus) Conn() *nats.Conn {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.conn
}

// IsConnected reports whether the bus currently holds a live connection.
func (b *NATSBus) IsConnected() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.conn != nil && b.conn.IsConnected()
}

// Close unsubscribes everything and drains the connection. It is safe to
// call more than once.
func (b *NATSBus) Close(ctx context.Context) error {
	if !b.closed.CompareAndSwap(false, true) {
		return nil // Already closed
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	var errs []error
	for handle, sub := range b.subs {
		if err := sub.Unsubscribe(); err != nil {
			errs = append(errs, errors.Wrap(err, "NATSBus", "Close", "unsubscribe"))
		}
		delete(b.subs, handle)
	}

	// Capture the connection into a local: the drain goroutine may outlive
	// the timeout/cancel branches below, which null out the field.
	if conn := b.conn; conn != nil {
		drainTimeout := b.drainTimeout
		if deadline, ok := ctx.Deadline(); ok {
			if remaining := time.Until(deadline); remaining > 0 && remaining < drainTimeout {
				drainTimeout = remaining
			}
		}

		drainDone := make(chan error, 1)
		go func() {
			drainDone <- conn.Drain()
		}()

		select {
		case err := <-drainDone:
			if err != nil {
				errs = append(errs, errors.Wrap(err, "NATSBus", "Close", "drain connection"))
			}
		case <-time.After(drainTimeout):
			errs = append(errs, errors.WrapTransient(
				fmt.Errorf("drain timeout after %v", drainTimeout),
				"NATSBus", "Close", "drain timeout"))
		case <-ctx.Done():
			errs = append(errs, errors.Wrap(ctx.Err(), "NATSBus", "Close", "context cancelled during drain"))
		}

		conn.Close()
		b.conn = nil
	}

	if len(errs) > 0 {
		errMsg := "cleanup errors:"
		for i, err := range errs {
			errMsg += fmt.Sprintf("\n  [%d] %v", i+1, err)
		}
		return fmt.Errorf("%s", errMsg)
	}
	return nil
}

package eventbus

import (
	"fmt"
	"log/slog"
	"time"
)

// Option configures a NATSBus at construction time.
type Option func(*NATSBus) error

// WithLogger sets the logger used for connection lifecycle messages.
func WithLogger(logger *slog.Logger) Option {
	return func(b *NATSBus) error {
		if logger == nil {
			return fmt.Errorf("logger cannot be nil")
		}
		b.logger = logger
		return nil
	}
}

// WithClientName sets the NATS connection name.
func WithClientName(name string) Option {
	return func(b *NATSBus) error {
		if name == "" {
			return fmt.Errorf("client name cannot be empty")
		}
		b.clientName = name
		return nil
	}
}

// WithMaxReconnects limits reconnection attempts. Negative means infinite.
func WithMaxReconnects(n int) Option {
	return func(b *NATSBus) error {
		b.maxReconnects = n
		return nil
	}
}

// WithReconnectWait sets the wait between reconnection attempts.
func WithReconnectWait(d time.Duration) Option {
	return func(b *NATSBus) error {
		if d <= 0 {
			return fmt.Errorf("reconnect wait must be positive, got %v", d)
		}
		b.reconnectWait = d
		return nil
	}
}

// WithTimeout sets the connection timeout.
func WithTimeout(d time.Duration) Option {
	return func(b *NATSBus) error {
		if d <= 0 {
			return fmt.Errorf("timeout must be positive, got %v", d)
		}
		b.timeout = d
		return nil
	}
}

// WithDrainTimeout bounds how long Close waits for in-flight deliveries.
func WithDrainTimeout(d time.Duration) Option {
	return func(b *NATSBus) error {
		if d <= 0 {
			return fmt.Errorf("drain timeout must be positive, got %v", d)
		}
		b.drainTimeout = d
		return nil
	}
}

// Package-level testcontainers NATS infrastructure for integration testing.
package eventbus

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestBus provides a testcontainers-backed NATS bus for integration tests.
type TestBus struct {
	container testcontainers.Container
	Bus       *NATSBus
	URL       string
	cleanup   func()
}

// NewTestBus starts a NATS container and returns a connected bus. Cleanup is
// registered on the test automatically.
func NewTestBus(t testing.TB) *TestBus {
	t.Helper()

	tb, err := NewSharedTestBus()
	if err != nil {
		t.Fatalf("failed to start test bus: %v", err)
	}
	t.Cleanup(tb.Cleanup)
	return tb
}

// NewSharedTestBus creates a NATS test container for use in TestMain.
// Unlike NewTestBus, this doesn't require testing.TB and returns errors.
func NewSharedTestBus() (*TestBus, error) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "nats:2.11.7-alpine",
		ExposedPorts: []string{"4222/tcp", "8222/tcp"},
		Cmd:          []string{"--port", "4222", "--http_port", "8222"},
		WaitingFor: wait.ForAll(
			wait.ForListeningPort("4222/tcp"),
			wait.ForHTTP("/").WithPort("8222/tcp").WithStartupTimeout(30*time.Second),
		),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start NATS container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("failed to get container host: %w", err)
	}

	port, err := container.MappedPort(ctx, "4222")
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("failed to get mapped port: %w", err)
	}

	url := fmt.Sprintf("nats://%s:%s", host, port.Port())

	bus, err := NewNATSBus(url,
		WithTimeout(5*time.Second),
		WithMaxReconnects(0), // No reconnects in tests
		WithDrainTimeout(5*time.Second),
	)
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("failed to create NATS bus: %w", err)
	}

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := bus.Connect(connectCtx); err != nil {
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	return &TestBus{
		container: container,
		Bus:       bus,
		URL:       url,
		cleanup: func() {
			_ = bus.Close(context.Background())           // Best effort test cleanup
			_ = container.Terminate(context.Background()) // Best effort test cleanup
		},
	}, nil
}

// Cleanup tears down the bus and the container.
func (tb *TestBus) Cleanup() {
	if tb.cleanup != nil {
		tb.cleanup()
	}
}

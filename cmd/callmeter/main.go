// Package main implements the entry point for the callmeter daemon.
// Callmeter subscribes to telephony lifecycle events, aggregates them into
// counters and gauges, and exposes them on a Prometheus scrape endpoint.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/c360/callmeter/command"
	"github.com/c360/callmeter/engine"
	"github.com/c360/callmeter/eventbus"
	"github.com/c360/callmeter/metric"
)

// Build information constants
const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "callmeter"
)

func main() {
	// Add panic recovery
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := run(); err != nil {
		slog.Error("Application failed", "error", err, "exit_code", 1)
		os.Exit(1)
	}
}

func run() error {
	opts := parseFlags()

	if opts.showVersion {
		fmt.Printf("%s version %s\n", appName, Version)
		return nil
	}
	if opts.showHelp {
		printDetailedHelp()
		return nil
	}

	cfg := opts.cfg
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger := setupLogger(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)

	slog.Info("Starting callmeter",
		"version", Version,
		"build_time", BuildTime,
		"metrics_port", cfg.MetricsPort,
		"nats_url", cfg.NATSURL)

	ctx := context.Background()

	// Event transport
	bus, err := eventbus.NewNATSBus(cfg.NATSURL, eventbus.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("create event bus: %w", err)
	}

	connectCtx, connectCancel := context.WithTimeout(ctx, 10*time.Second)
	defer connectCancel()
	if err := bus.Connect(connectCtx); err != nil {
		return fmt.Errorf("connect to NATS: %w", err)
	}
	defer func() {
		closeCtx, closeCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer closeCancel()
		if err := bus.Close(closeCtx); err != nil {
			slog.Error("Error closing event bus", "error", err)
		}
	}()

	// Metric surface
	registry := metric.NewRegistry()
	agg, err := engine.New(registry, logger)
	if err != nil {
		return fmt.Errorf("create aggregation engine: %w", err)
	}
	if err := agg.Attach(bus); err != nil {
		return fmt.Errorf("attach aggregation engine: %w", err)
	}
	defer func() {
		if err := agg.Close(); err != nil {
			slog.Error("Error detaching aggregation engine", "error", err)
		}
	}()

	// Operator command surface
	store := metric.NewUserStore(registry)
	defer store.Close()

	responder := command.NewResponder(bus.Conn(), command.NewCommands(store, logger), logger)
	if err := responder.Start(); err != nil {
		return fmt.Errorf("start command responder: %w", err)
	}
	defer func() {
		if err := responder.Stop(); err != nil {
			slog.Error("Error stopping command responder", "error", err)
		}
	}()

	// Scrape endpoint
	server := metric.NewServer(cfg.MetricsPort, cfg.MetricsPath, registry)
	serverErr := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()
	defer func() {
		if err := server.Stop(); err != nil {
			slog.Error("Error stopping metrics server", "error", err)
		}
	}()

	slog.Info("Callmeter started", "scrape_url", server.Address())

	signalCtx, signalCancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer signalCancel()

	select {
	case <-signalCtx.Done():
		slog.Info("Received shutdown signal")
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("metrics server failed: %w", err)
		}
	}

	slog.Info("Callmeter shutting down", "timeout", cfg.ShutdownTimeout)
	return nil
}

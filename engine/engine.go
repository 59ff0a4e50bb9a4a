package engine

import (
	"log/slog"
	"sync"

	"github.com/c360/callmeter/errors"
	"github.com/c360/callmeter/eventbus"
	"github.com/c360/callmeter/metric"
)

// Engine aggregates host lifecycle events into the metric registry.
type Engine struct {
	registry *metric.Registry
	counters map[CounterID]*metric.Counter
	gauges   map[GaugeID]*metric.Gauge
	logger   *slog.Logger

	mu       sync.Mutex
	bus      eventbus.Bus
	handles  []eventbus.Handle // subscription ledger, released in bulk on Close
	attached bool
}

// New creates an engine and registers the full built-in metric set with the
// registry. Every built-in starts at zero.
func New(registry *metric.Registry, logger *slog.Logger) (*Engine, error) {
	if logger == nil {
		logger = slog.Default()
	}

	e := &Engine{
		registry: registry,
		counters: newBuiltinCounters(),
		gauges:   newBuiltinGauges(),
		logger:   logger,
	}

	for _, c := range e.counters {
		if err := registry.RegisterCounter(c); err != nil {
			return nil, errors.Wrap(err, "Engine", "New", "register built-in counter")
		}
	}
	for _, g := range e.gauges {
		if err := registry.RegisterGauge(g); err != nil {
			return nil, errors.Wrap(err, "Engine", "New", "register built-in gauge")
		}
	}

	return e, nil
}

// Counter returns the built-in counter for id.
func (e *Engine) Counter(id CounterID) *metric.Counter {
	return e.counters[id]
}

// Gauge returns the built-in gauge for id.
func (e *Engine) Gauge(id GaugeID) *metric.Gauge {
	return e.gauges[id]
}

// Attach subscribes all event handlers on the bus and records their handles.
// On any subscription failure the handles created so far are released and
// the engine stays detached.
func (e *Engine) Attach(bus eventbus.Bus) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.attached {
		return errors.ErrAlreadyStarted
	}

	subscriptions := []struct {
		kind    eventbus.Kind
		subtype string
		handler eventbus.Handler
	}{
		{eventbus.KindHeartbeat, "", e.handleHeartbeat},
		{eventbus.KindChannelCreate, "", e.handleChannelCreate},
		{eventbus.KindChannelAnswer, "", e.handleChannelAnswer},
		{eventbus.KindChannelHangup, "", e.handleChannelHangup},
		{eventbus.KindChannelHangupComplete, "", e.handleChannelHangupComplete},
		{eventbus.KindChannelDestroy, "", e.handleChannelDestroy},
		{eventbus.KindCustom, eventbus.SubtypeRegisterAttempt, e.handleRegisterAttempt},
		{eventbus.KindCustom, eventbus.SubtypeRegisterFailure, e.handleRegisterFailure},
		{eventbus.KindCustom, eventbus.SubtypeRegister, e.handleRegister},
		{eventbus.KindCustom, eventbus.SubtypeUnregister, e.handleUnregister},
		{eventbus.KindCustom, eventbus.SubtypeExpire, e.handleUnregister},
	}

	handles := make([]eventbus.Handle, 0, len(subscriptions))
	for _, s := range subscriptions {
		handle, err := bus.Subscribe(s.kind, s.subtype, s.handler)
		if err != nil {
			for _, h := range handles {
				if uerr := bus.Unsubscribe(h); uerr != nil {
					e.logger.Error("Failed to release subscription during rollback", "error", uerr)
				}
			}
			return errors.Wrap(err, "Engine", "Attach",
				"subscribe to "+string(s.kind)+" "+s.subtype)
		}
		handles = append(handles, handle)
	}

	e.bus = bus
	e.handles = handles
	e.attached = true
	e.logger.Info("Event aggregation engine attached", "subscriptions", len(handles))
	return nil
}

// Close releases every recorded subscription handle. It is idempotent;
// closing a never-attached engine is a no-op.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.attached {
		return nil
	}

	var firstErr error
	for _, handle := range e.handles {
		if err := e.bus.Unsubscribe(handle); err != nil && firstErr == nil {
			firstErr = errors.Wrap(err, "Engine", "Close", "release subscription")
		}
	}

	e.handles = nil
	e.bus = nil
	e.attached = false
	e.logger.Debug("Event aggregation engine detached")
	return firstErr
}

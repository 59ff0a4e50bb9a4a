package metric

import (
	"sync"

	"github.com/c360/callmeter/errors"
)

// UserStore holds operator-created metrics keyed by name. Metrics are
// created lazily on first use and registered into the backing Registry at
// creation time.
//
// The whole check-create-register-insert sequence runs under a single lock
// per metric kind. That closes the race where two concurrent first uses of
// the same name would otherwise create duplicate metrics or double-register
// with the registry.
//
// Names are not namespaced away from the built-in set: a user metric that
// collides with a built-in name (or a user metric of the other kind) is
// rejected by the registry rather than shadowing it.
type UserStore struct {
	registry *Registry

	countersMu sync.Mutex
	counters   map[string]*Counter

	gaugesMu sync.Mutex
	gauges   map[string]*Gauge

	closedMu sync.Mutex
	closed   bool
}

// NewUserStore creates an empty store backed by the given registry.
func NewUserStore(registry *Registry) *UserStore {
	return &UserStore{
		registry: registry,
		counters: make(map[string]*Counter),
		gauges:   make(map[string]*Gauge),
	}
}

// GetOrCreateCounter returns the counter registered under name, creating and
// registering a zero-valued one (name doubles as help text) if it does not
// exist yet.
func (s *UserStore) GetOrCreateCounter(name string) (*Counter, error) {
	if name == "" {
		return nil, errors.WrapInvalid(errors.ErrMissingName, "UserStore", "GetOrCreateCounter", "validate name")
	}
	if s.isClosed() {
		return nil, errors.ErrStoreClosed
	}

	s.countersMu.Lock()
	defer s.countersMu.Unlock()

	if counter, ok := s.counters[name]; ok {
		return counter, nil
	}

	counter := NewCounter(name, name)
	if err := s.registry.RegisterCounter(counter); err != nil {
		return nil, err
	}
	s.counters[name] = counter
	return counter, nil
}

// GetOrCreateGauge returns the gauge registered under name, creating and
// registering a zero-valued one if it does not exist yet.
func (s *UserStore) GetOrCreateGauge(name string) (*Gauge, error) {
	if name == "" {
		return nil, errors.WrapInvalid(errors.ErrMissingName, "UserStore", "GetOrCreateGauge", "validate name")
	}
	if s.isClosed() {
		return nil, errors.ErrStoreClosed
	}

	s.gaugesMu.Lock()
	defer s.gaugesMu.Unlock()

	if gauge, ok := s.gauges[name]; ok {
		return gauge, nil
	}

	gauge := NewGauge(name, name)
	if err := s.registry.RegisterGauge(gauge); err != nil {
		return nil, err
	}
	s.gauges[name] = gauge
	return gauge, nil
}

// Close marks the store closed and drops all entries. Subsequent
// get-or-create calls fail with ErrStoreClosed instead of touching torn-down
// state. Close is idempotent.
func (s *UserStore) Close() {
	s.closedMu.Lock()
	if s.closed {
		s.closedMu.Unlock()
		return
	}
	s.closed = true
	s.closedMu.Unlock()

	s.countersMu.Lock()
	s.counters = make(map[string]*Counter)
	s.countersMu.Unlock()

	s.gaugesMu.Lock()
	s.gauges = make(map[string]*Gauge)
	s.gaugesMu.Unlock()
}

func (s *UserStore) isClosed() bool {
	s.closedMu.Lock()
	defer s.closedMu.Unlock()
	return s.closed
}

package metric

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"

	"github.com/c360/callmeter/errors"
)

// Registry owns every registered Counter and Gauge and guarantees a name is
// registered at most once across the combined counter/gauge namespace. It is
// backed by a prometheus.Registry so the standard scrape tooling works
// unchanged.
type Registry struct {
	prometheusRegistry *prometheus.Registry
	registeredMetrics  map[string]prometheus.Collector
	mu                 sync.Mutex
}

// NewRegistry creates an empty registry with Go runtime and process
// collectors pre-registered.
func NewRegistry() *Registry {
	r := &Registry{
		prometheusRegistry: prometheus.NewRegistry(),
		registeredMetrics:  make(map[string]prometheus.Collector),
	}

	r.prometheusRegistry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return r
}

// PrometheusRegistry returns the underlying Prometheus registry.
func (r *Registry) PrometheusRegistry() *prometheus.Registry {
	return r.prometheusRegistry
}

// RegisterCounter registers a counter under its name.
func (r *Registry) RegisterCounter(counter *Counter) error {
	return r.register(counter.Name(), counter, "RegisterCounter")
}

// RegisterGauge registers a gauge under its name.
func (r *Registry) RegisterGauge(gauge *Gauge) error {
	return r.register(gauge.Name(), gauge, "RegisterGauge")
}

// register performs the check-and-insert under the registry lock so two
// concurrent registrations of the same name cannot both succeed.
func (r *Registry) register(name string, collector prometheus.Collector, op string) error {
	if name == "" {
		return errors.WrapInvalid(errors.ErrMissingName, "Registry", op, "validate name")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.registeredMetrics[name]; exists {
		return errors.WrapInvalid(
			fmt.Errorf("%w: %s", errors.ErrDuplicateMetric, name),
			"Registry", op, "duplicate metric registration")
	}

	if err := r.prometheusRegistry.Register(collector); err != nil {
		var alreadyRegErr prometheus.AlreadyRegisteredError
		if stderrors.As(err, &alreadyRegErr) {
			return errors.WrapInvalid(err, "Registry", op,
				fmt.Sprintf("prometheus conflict for metric %s", name))
		}
		return errors.WrapInvalid(err, "Registry", op,
			fmt.Sprintf("register metric %s with prometheus", name))
	}

	r.registeredMetrics[name] = collector
	return nil
}

// Unregister removes a metric from the registry. It reports whether the
// metric was present.
//
// The backing prometheus registry remembers the name's descriptor after
// removal, so the name can only be reused by a metric with an identical help
// string; re-registering with a different descriptor fails.
func (r *Registry) Unregister(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	collector, exists := r.registeredMetrics[name]
	if !exists {
		return false
	}

	success := r.prometheusRegistry.Unregister(collector)
	if success {
		delete(r.registeredMetrics, name)
	}
	return success
}

// Has reports whether a metric name is currently registered.
func (r *Registry) Has(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.registeredMetrics[name]
	return ok
}

// Gather collects the current value of every registered metric. Families
// come back sorted by name, which makes the snapshot deterministic.
func (r *Registry) Gather() ([]*dto.MetricFamily, error) {
	return r.prometheusRegistry.Gather()
}

// SnapshotText serializes every registered metric in the Prometheus text
// exposition format (HELP line, TYPE line, value line per metric).
func (r *Registry) SnapshotText() (string, error) {
	families, err := r.Gather()
	if err != nil {
		return "", errors.Wrap(err, "Registry", "SnapshotText", "gather metrics")
	}

	var buf bytes.Buffer
	enc := expfmt.NewEncoder(&buf, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, family := range families {
		if err := enc.Encode(family); err != nil {
			return "", errors.Wrap(err, "Registry", "SnapshotText", "encode metric family")
		}
	}
	return buf.String(), nil
}

package metric

import (
	"math"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
)

// Counter is a monotonic, non-negative accumulator. All mutation is a
// compare-and-swap over the float64 bit pattern, so counters are safe to
// increment from any number of event-delivery goroutines without locking.
//
// Counter implements prometheus.Collector so it can be registered directly
// with a Registry and scraped with its live value.
type Counter struct {
	name string
	help string
	bits atomic.Uint64
	desc *prometheus.Desc
}

// NewCounter creates a zero-valued counter with the given name and help text.
func NewCounter(name, help string) *Counter {
	return &Counter{
		name: name,
		help: help,
		desc: prometheus.NewDesc(name, help, nil, nil),
	}
}

// Name returns the counter's registered name.
func (c *Counter) Name() string { return c.name }

// Help returns the counter's help text.
func (c *Counter) Help() string { return c.help }

// Inc adds 1 and returns the new value.
func (c *Counter) Inc() float64 {
	return c.Add(1)
}

// Add adds delta and returns the new value. Delta must be non-negative;
// enforcing that is the caller's contract, not this layer's (the engine
// only ever feeds non-negative deltas).
func (c *Counter) Add(delta float64) float64 {
	for {
		old := c.bits.Load()
		next := math.Float64frombits(old) + delta
		if c.bits.CompareAndSwap(old, math.Float64bits(next)) {
			return next
		}
	}
}

// Value returns the current value.
func (c *Counter) Value() float64 {
	return math.Float64frombits(c.bits.Load())
}

// Describe implements prometheus.Collector.
func (c *Counter) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.desc
}

// Collect implements prometheus.Collector.
func (c *Counter) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(c.desc, prometheus.CounterValue, c.Value())
}

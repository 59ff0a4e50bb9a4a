package metric

import (
	"math"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
)

// Gauge is an arbitrary-valued metric that can be set or adjusted in either
// direction. Like Counter it is an atomic float64 cell and a
// prometheus.Collector.
//
// Gauges have no floor: a gauge goes negative if callers decrement past
// zero. Active-session gauges rely on this to make unmatched destroy events
// visible instead of silently clamping them away.
type Gauge struct {
	name string
	help string
	bits atomic.Uint64
	desc *prometheus.Desc
}

// NewGauge creates a zero-valued gauge with the given name and help text.
func NewGauge(name, help string) *Gauge {
	return &Gauge{
		name: name,
		help: help,
		desc: prometheus.NewDesc(name, help, nil, nil),
	}
}

// Name returns the gauge's registered name.
func (g *Gauge) Name() string { return g.name }

// Help returns the gauge's help text.
func (g *Gauge) Help() string { return g.help }

// Set replaces the value and returns it. Concurrent sets are last-write-wins.
func (g *Gauge) Set(v float64) float64 {
	g.bits.Store(math.Float64bits(v))
	return v
}

// Inc adds 1 and returns the new value.
func (g *Gauge) Inc() float64 { return g.Add(1) }

// Add adds delta and returns the new value.
func (g *Gauge) Add(delta float64) float64 {
	for {
		old := g.bits.Load()
		next := math.Float64frombits(old) + delta
		if g.bits.CompareAndSwap(old, math.Float64bits(next)) {
			return next
		}
	}
}

// Dec subtracts 1 and returns the new value.
func (g *Gauge) Dec() float64 { return g.Add(-1) }

// Sub subtracts delta and returns the new value.
func (g *Gauge) Sub(delta float64) float64 { return g.Add(-delta) }

// Value returns the current value.
func (g *Gauge) Value() float64 {
	return math.Float64frombits(g.bits.Load())
}

// Describe implements prometheus.Collector.
func (g *Gauge) Describe(ch chan<- *prometheus.Desc) {
	ch <- g.desc
}

// Collect implements prometheus.Collector.
func (g *Gauge) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(g.desc, prometheus.GaugeValue, g.Value())
}

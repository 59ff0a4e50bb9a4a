package metric

import (
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounter_StartsAtZero(t *testing.T) {
	c := NewCounter("test_total", "A test counter")

	assert.Equal(t, "test_total", c.Name())
	assert.Equal(t, "A test counter", c.Help())
	assert.Equal(t, 0.0, c.Value())
}

func TestCounter_Inc(t *testing.T) {
	c := NewCounter("test_total", "A test counter")

	assert.Equal(t, 1.0, c.Inc())
	assert.Equal(t, 2.0, c.Inc())
	assert.Equal(t, 2.0, c.Value())
}

func TestCounter_Add(t *testing.T) {
	c := NewCounter("test_total", "A test counter")

	assert.Equal(t, 3.5, c.Add(3.5))
	assert.Equal(t, 4.5, c.Add(1.0))
	assert.Equal(t, 4.5, c.Value())
}

func TestCounter_ValueEqualsSumOfDeltas(t *testing.T) {
	c := NewCounter("test_total", "A test counter")

	deltas := []float64{1, 0.5, 2, 0, 30}
	var sum float64
	for _, d := range deltas {
		c.Add(d)
		sum += d
	}

	assert.Equal(t, sum, c.Value())
}

func TestCounter_ConcurrentIncrements(t *testing.T) {
	c := NewCounter("test_total", "A test counter")

	const goroutines = 50
	const perGoroutine = 200

	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < perGoroutine; j++ {
				c.Inc()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, float64(goroutines*perGoroutine), c.Value())
}

func TestCounter_CollectsLiveValue(t *testing.T) {
	c := NewCounter("test_total", "A test counter")
	c.Add(7)

	reg := prometheus.NewRegistry()
	require.NoError(t, reg.Register(c))

	families, err := reg.Gather()
	require.NoError(t, err)
	require.Len(t, families, 1)
	require.Len(t, families[0].GetMetric(), 1)
	assert.Equal(t, "test_total", families[0].GetName())
	assert.Equal(t, 7.0, families[0].GetMetric()[0].GetCounter().GetValue())
}

// Package metrics provides lightweight, zero-dependency metrics
// primitives for the zkasm toolchain. Counter and Gauge use atomic
// operations for lock-free concurrent access; Histogram uses a mutex.
// Recording is opt-in: the compiler only touches a Compilation
// instance the caller injects.
package metrics

import (
	"sync"
	"sync/atomic"
	"time"
)

// Counter is a monotonically incrementing counter.
type Counter struct {
	name  string
	value atomic.Int64
}

// NewCounter returns a new Counter with the given name.
func NewCounter(name string) *Counter {
	return &Counter{name: name}
}

// Inc increments the counter by 1.
func (c *Counter) Inc() { c.value.Add(1) }

// Add increments the counter by n. Negative values are ignored because
// counters are monotonically increasing.
func (c *Counter) Add(n int64) {
	if n > 0 {
		c.value.Add(n)
	}
}

// Value returns the current counter value.
func (c *Counter) Value() int64 { return c.value.Load() }

// Name returns the metric name.
func (c *Counter) Name() string { return c.name }

// Gauge is a value that can go up and down.
type Gauge struct {
	name  string
	value atomic.Int64
}

// NewGauge returns a new Gauge with the given name.
func NewGauge(name string) *Gauge {
	return &Gauge{name: name}
}

// Set sets the gauge to the given value.
func (g *Gauge) Set(v int64) { g.value.Store(v) }

// Value returns the current gauge value.
func (g *Gauge) Value() int64 { return g.value.Load() }

// Name returns the metric name.
func (g *Gauge) Name() string { return g.name }

// Histogram accumulates observations and reports count, sum, min and
// max. It is safe for concurrent use.
type Histogram struct {
	name string

	mu    sync.Mutex
	count int64
	sum   int64
	min   int64
	max   int64
}

// NewHistogram returns a new Histogram with the given name.
func NewHistogram(name string) *Histogram {
	return &Histogram{name: name}
}

// Observe records one observation.
func (h *Histogram) Observe(v int64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.count == 0 || v < h.min {
		h.min = v
	}
	if h.count == 0 || v > h.max {
		h.max = v
	}
	h.count++
	h.sum += v
}

// Snapshot returns the accumulated count, sum, min and max.
func (h *Histogram) Snapshot() (count, sum, min, max int64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.count, h.sum, h.min, h.max
}

// Name returns the metric name.
func (h *Histogram) Name() string { return h.name }

// Compilation aggregates the metrics of one or more compiler runs.
// Inject it with compiler.WithMetrics; a nil Compilation records
// nothing.
type Compilation struct {
	// Runs counts completed compilations.
	Runs *Counter
	// Failures counts aborted compilations.
	Failures *Counter
	// Leaves records the leaf count per compiled program.
	Leaves *Histogram
	// HashDuration records nanoseconds spent hashing and folding the
	// Merkle tree per compilation.
	HashDuration *Histogram
}

// NewCompilation returns a Compilation with all instruments allocated.
func NewCompilation() *Compilation {
	return &Compilation{
		Runs:         NewCounter("compiler.runs"),
		Failures:     NewCounter("compiler.failures"),
		Leaves:       NewHistogram("compiler.leaves"),
		HashDuration: NewHistogram("compiler.hash_duration_ns"),
	}
}

// RecordRun notes one successful compilation.
func (m *Compilation) RecordRun(leaves int, hashTime time.Duration) {
	if m == nil {
		return
	}
	m.Runs.Inc()
	m.Leaves.Observe(int64(leaves))
	m.HashDuration.Observe(hashTime.Nanoseconds())
}

// RecordFailure notes one aborted compilation.
func (m *Compilation) RecordFailure() {
	if m == nil {
		return
	}
	m.Failures.Inc()
}

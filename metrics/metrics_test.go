package metrics

import (
	"sync"
	"testing"
	"time"
)

func TestCounter(t *testing.T) {
	c := NewCounter("test.counter")
	c.Inc()
	c.Add(5)
	c.Add(-3) // ignored
	if got := c.Value(); got != 6 {
		t.Fatalf("expected 6, got %d", got)
	}
	if c.Name() != "test.counter" {
		t.Fatalf("wrong name: %q", c.Name())
	}
}

func TestCounterConcurrent(t *testing.T) {
	c := NewCounter("test.concurrent")
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				c.Inc()
			}
		}()
	}
	wg.Wait()
	if got := c.Value(); got != 8000 {
		t.Fatalf("expected 8000, got %d", got)
	}
}

func TestGauge(t *testing.T) {
	g := NewGauge("test.gauge")
	g.Set(42)
	if got := g.Value(); got != 42 {
		t.Fatalf("expected 42, got %d", got)
	}
	g.Set(-7)
	if got := g.Value(); got != -7 {
		t.Fatalf("expected -7, got %d", got)
	}
}

func TestHistogram(t *testing.T) {
	h := NewHistogram("test.histogram")
	for _, v := range []int64{5, 1, 9, 3} {
		h.Observe(v)
	}
	count, sum, min, max := h.Snapshot()
	if count != 4 || sum != 18 || min != 1 || max != 9 {
		t.Fatalf("wrong snapshot: count=%d sum=%d min=%d max=%d", count, sum, min, max)
	}
}

func TestCompilationNilSafe(t *testing.T) {
	var m *Compilation
	m.RecordRun(4, time.Millisecond) // must not panic
	m.RecordFailure()
}

func TestCompilationRecords(t *testing.T) {
	m := NewCompilation()
	m.RecordRun(4, time.Millisecond)
	m.RecordRun(16, 2*time.Millisecond)
	m.RecordFailure()

	if got := m.Runs.Value(); got != 2 {
		t.Fatalf("expected 2 runs, got %d", got)
	}
	if got := m.Failures.Value(); got != 1 {
		t.Fatalf("expected 1 failure, got %d", got)
	}
	count, _, min, max := m.Leaves.Snapshot()
	if count != 2 || min != 4 || max != 16 {
		t.Fatalf("wrong leaf histogram: count=%d min=%d max=%d", count, min, max)
	}
}

package slo

import (
	"context"
	"sort"
	"sync"
	"time"
)

// DefaultReportInterval is how often the tracker flushes its window into
// the SLO gauges.
const DefaultReportInterval = time.Minute

// maxLatencySamples bounds the per-window latency buffer. Once full,
// new samples overwrite old ones round-robin so a traffic spike cannot
// grow memory.
const maxLatencySamples = 8192

// Tracker accumulates request outcomes over a window and computes the
// SLO gauges from them. Observe is safe for concurrent use.
type Tracker struct {
	mu      sync.Mutex
	total   int64
	errors  int64
	samples []float64
	next    int
}

// NewTracker returns an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{}
}

// Observe records one request outcome. Status codes >= 500 count
// against availability and error rate.
func (t *Tracker) Observe(status int, duration time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.total++
	if status >= 500 {
		t.errors++
	}

	seconds := duration.Seconds()
	if len(t.samples) < maxLatencySamples {
		t.samples = append(t.samples, seconds)
		return
	}
	t.samples[t.next] = seconds
	t.next = (t.next + 1) % maxLatencySamples
}

// Flush computes the SLO gauges from the current window and resets it.
// An empty window leaves the gauges untouched.
func (t *Tracker) Flush() {
	t.mu.Lock()
	total, errors := t.total, t.errors
	samples := t.samples
	t.total, t.errors = 0, 0
	t.samples = nil
	t.next = 0
	t.mu.Unlock()

	if total == 0 {
		return
	}

	UpdateAvailability(float64(total-errors) / float64(total))
	UpdateErrorRate(float64(errors) / float64(total))

	if len(samples) > 0 {
		sort.Float64s(samples)
		UpdateLatencyP95(quantile(samples, 0.95))
		UpdateLatencyP99(quantile(samples, 0.99))
	}
}

// Start flushes the tracker every interval until ctx is cancelled. A
// non-positive interval uses DefaultReportInterval.
func (t *Tracker) Start(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultReportInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.Flush()
		}
	}
}

// quantile returns the q-th quantile of sorted samples using
// nearest-rank interpolation.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := int(q * float64(len(sorted)-1))
	return sorted[idx]
}

// defaultTracker backs the package-level helpers used by the HTTP
// middleware.
var defaultTracker = NewTracker()

// Observe records one request outcome on the default tracker.
func Observe(status int, duration time.Duration) {
	defaultTracker.Observe(status, duration)
}

// StartReporter runs the default tracker's flush loop until ctx is
// cancelled.
func StartReporter(ctx context.Context, interval time.Duration) {
	defaultTracker.Start(ctx, interval)
}

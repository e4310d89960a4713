package scrape

import (
	"sort"
	"sync"
	"time"
)

// DefaultUnhealthyAfter is how many consecutive failed runs mark a
// source unhealthy. The flag is advisory; unhealthy sources still run.
const DefaultUnhealthyAfter = 3

// SourceHealth is the advisory health state of one source, derived from
// its consecutive scrape failures.
type SourceHealth struct {
	Source            string
	Healthy           bool
	ConsecutiveErrors int
	LastError         string
	LastSuccess       time.Time
	LastAttempt       time.Time
}

// healthTracker keeps per-source health state across scrape runs.
// Safe for concurrent use.
type healthTracker struct {
	mu             sync.Mutex
	unhealthyAfter int
	state          map[string]*SourceHealth
}

func (t *healthTracker) threshold() int {
	if t.unhealthyAfter <= 0 {
		return DefaultUnhealthyAfter
	}
	return t.unhealthyAfter
}

func (t *healthTracker) get(key string) *SourceHealth {
	if t.state == nil {
		t.state = make(map[string]*SourceHealth)
	}
	h, ok := t.state[key]
	if !ok {
		h = &SourceHealth{Source: key, Healthy: true}
		t.state[key] = h
	}
	return h
}

func (t *healthTracker) recordSuccess(key string, at time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()

	h := t.get(key)
	h.Healthy = true
	h.ConsecutiveErrors = 0
	h.LastError = ""
	h.LastSuccess = at
	h.LastAttempt = at
}

func (t *healthTracker) recordFailure(key string, at time.Time, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	h := t.get(key)
	h.ConsecutiveErrors++
	if err != nil {
		h.LastError = err.Error()
	}
	h.LastAttempt = at
	h.Healthy = h.ConsecutiveErrors < t.threshold()
}

// Health returns per-source health snapshots sorted by source key.
func (s *Service) Health() []SourceHealth {
	s.health.mu.Lock()
	defer s.health.mu.Unlock()

	out := make([]SourceHealth, 0, len(s.health.state))
	for _, h := range s.health.state {
		out = append(out, *h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Source < out[j].Source })
	return out
}

// ResetHealth clears the error state for one source. Reports whether the
// source had any recorded state.
func (s *Service) ResetHealth(key string) bool {
	s.health.mu.Lock()
	defer s.health.mu.Unlock()

	h, ok := s.health.state[key]
	if !ok {
		return false
	}
	h.Healthy = true
	h.ConsecutiveErrors = 0
	h.LastError = ""
	return true
}

// ResetAllHealth clears the error state for every tracked source.
func (s *Service) ResetAllHealth() {
	s.health.mu.Lock()
	defer s.health.mu.Unlock()

	for _, h := range s.health.state {
		h.Healthy = true
		h.ConsecutiveErrors = 0
		h.LastError = ""
	}
}

package worker

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// JobState is the persisted form of one job's run state.
type JobState struct {
	Name            string     `json:"name"`
	IntervalMinutes int        `json:"interval_minutes"`
	Enabled         bool       `json:"enabled"`
	MaxRetries      int        `json:"max_retries"`
	LastRun         *time.Time `json:"last_run,omitempty"`
	NextRun         *time.Time `json:"next_run,omitempty"`
	TotalRuns       int64      `json:"total_runs"`
	SuccessfulRuns  int64      `json:"successful_runs"`
	FailedRuns      int64      `json:"failed_runs"`
	LastError       string     `json:"last_error,omitempty"`
}

// SchedulerState is the on-disk scheduler snapshot, written after each
// run and restored on startup.
type SchedulerState struct {
	CheckInterval int                 `json:"check_interval"`
	Jobs          map[string]JobState `json:"jobs"`
}

// LoadState reads a scheduler state file. A missing file yields an
// empty state, not an error.
func LoadState(path string) (SchedulerState, error) {
	state := SchedulerState{Jobs: map[string]JobState{}}

	data, err := os.ReadFile(path) // #nosec G304 -- operator-configured path.
	if errors.Is(err, os.ErrNotExist) {
		return state, nil
	}
	if err != nil {
		return state, fmt.Errorf("read scheduler state: %w", err)
	}
	if err := json.Unmarshal(data, &state); err != nil {
		return state, fmt.Errorf("parse scheduler state: %w", err)
	}
	if state.Jobs == nil {
		state.Jobs = map[string]JobState{}
	}
	return state, nil
}

// SetStatePath makes the scheduler persist its state to path after
// every run and state mutation. An empty path disables persistence.
func (s *Scheduler) SetStatePath(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statePath = path
}

// ExportState snapshots the scheduler in its persisted form.
func (s *Scheduler) ExportState() SchedulerState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.exportStateLocked()
}

func (s *Scheduler) exportStateLocked() SchedulerState {
	state := SchedulerState{Jobs: make(map[string]JobState, len(s.jobs))}
	for name, j := range s.jobs {
		js := JobState{
			Name:            name,
			IntervalMinutes: intervalMinutes(j.spec),
			Enabled:         j.enabled,
			MaxRetries:      s.MaxAttempts,
			TotalRuns:       j.runs,
			SuccessfulRuns:  j.successes,
			FailedRuns:      j.failures,
			LastError:       j.lastErr,
		}
		if !j.lastRun.IsZero() {
			t := j.lastRun
			js.LastRun = &t
		}
		if next := s.cron.Entry(j.entryID).Next; !next.IsZero() {
			js.NextRun = &next
		}
		state.Jobs[name] = js
	}
	return state
}

// RestoreState applies a loaded snapshot to the registered jobs:
// enabled flags, run counters and persisted interval overrides.
// Jobs in the snapshot that are no longer registered are ignored.
func (s *Scheduler) RestoreState(state SchedulerState) {
	s.mu.Lock()
	for name, js := range state.Jobs {
		j, ok := s.jobs[name]
		if !ok {
			continue
		}
		j.enabled = js.Enabled
		j.runs = js.TotalRuns
		j.successes = js.SuccessfulRuns
		j.failures = js.FailedRuns
		j.lastErr = js.LastError
		if js.LastRun != nil {
			j.lastRun = *js.LastRun
		}
	}
	s.mu.Unlock()

	for name, js := range state.Jobs {
		if js.IntervalMinutes < 1 {
			continue
		}
		s.mu.Lock()
		j, ok := s.jobs[name]
		differs := ok && intervalMinutes(j.spec) != js.IntervalMinutes
		s.mu.Unlock()
		if differs {
			if err := s.SetJobInterval(name, js.IntervalMinutes); err != nil {
				slog.Warn("persisted interval not applied",
					slog.String("job", name),
					slog.Any("error", err))
			}
		}
	}
}

// saveStateLocked writes the state file via a temp-file rename. Callers
// must hold s.mu. Failures are logged, never fatal.
func (s *Scheduler) saveStateLocked() {
	if s.statePath == "" {
		return
	}

	data, err := json.MarshalIndent(s.exportStateLocked(), "", "  ")
	if err != nil {
		slog.Warn("scheduler state encode failed", slog.Any("error", err))
		return
	}

	tmp := s.statePath + ".tmp"
	if err := os.MkdirAll(filepath.Dir(s.statePath), 0o750); err != nil {
		slog.Warn("scheduler state dir failed", slog.Any("error", err))
		return
	}
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		slog.Warn("scheduler state write failed", slog.Any("error", err))
		return
	}
	if err := os.Rename(tmp, s.statePath); err != nil {
		slog.Warn("scheduler state rename failed", slog.Any("error", err))
	}
}

// intervalMinutes extracts the minute count from an "@every Nm" spec.
// Other spec forms (cron expressions, hour intervals) yield 0.
func intervalMinutes(spec string) int {
	rest, ok := strings.CutPrefix(spec, "@every ")
	if !ok {
		return 0
	}
	d, err := time.ParseDuration(rest)
	if err != nil || d < time.Minute {
		return 0
	}
	return int(d / time.Minute)
}

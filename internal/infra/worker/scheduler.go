// Package worker runs the scheduled pipeline jobs: scraping, bias
// analysis, metrics collection and retention pruning. It wraps robfig/cron
// with per-job retry, enable/disable switches and status snapshots, and
// exposes health and Prometheus metrics endpoints.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Sentinel errors for scheduler operations.
var (
	// ErrUnknownJob indicates the named job is not registered.
	ErrUnknownJob = errors.New("unknown job")

	// ErrDuplicateJob indicates a job with the same name is already registered.
	ErrDuplicateJob = errors.New("job already registered")
)

// Retry defaults for failed job runs.
const (
	DefaultMaxAttempts = 3
	DefaultRetryDelay  = 5 * time.Minute
)

// JobFunc is one scheduled pipeline job. The context carries the job timeout.
type JobFunc func(ctx context.Context) error

// JobStatus is a point-in-time snapshot of one registered job.
type JobStatus struct {
	Name         string
	Spec         string
	Enabled      bool
	Runs         int64
	Successes    int64
	Failures     int64
	LastRun      time.Time
	LastError    string
	LastDuration time.Duration
	NextRun      time.Time
}

// job holds the registration and run state for one scheduled job.
type job struct {
	name    string
	spec    string
	fn      JobFunc
	entryID cron.EntryID

	enabled      bool
	runs         int64
	successes    int64
	failures     int64
	lastRun      time.Time
	lastErr      string
	lastDuration time.Duration
}

// Scheduler runs registered jobs on cron schedules with retry and
// per-job enable/disable. Safe for concurrent use.
type Scheduler struct {
	// MaxAttempts is the number of attempts per run (including the first).
	MaxAttempts int

	// RetryDelay is the pause between attempts of a failed run.
	RetryDelay time.Duration

	cron    *cron.Cron
	metrics *WorkerMetrics
	timeout time.Duration

	mu        sync.Mutex
	jobs      map[string]*job
	order     []string
	statePath string
}

// NewScheduler creates a Scheduler running in the given location.
// jobTimeout bounds each attempt of each job run.
func NewScheduler(loc *time.Location, metrics *WorkerMetrics, jobTimeout time.Duration) *Scheduler {
	return &Scheduler{
		MaxAttempts: DefaultMaxAttempts,
		RetryDelay:  DefaultRetryDelay,
		cron:        cron.New(cron.WithLocation(loc)),
		metrics:     metrics,
		timeout:     jobTimeout,
		jobs:        map[string]*job{},
	}
}

// AddJob registers a job under the given cron spec. Jobs start enabled.
// Returns ErrDuplicateJob if the name is taken, or an error for an
// invalid spec.
func (s *Scheduler) AddJob(name, spec string, fn JobFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.jobs[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateJob, name)
	}

	entryID, err := s.cron.AddFunc(spec, func() {
		_ = s.execute(name)
	})
	if err != nil {
		return fmt.Errorf("add job %s: %w", name, err)
	}

	s.jobs[name] = &job{
		name:    name,
		spec:    spec,
		fn:      fn,
		entryID: entryID,
		enabled: true,
	}
	s.order = append(s.order, name)
	return nil
}

// Start begins running the schedules.
func (s *Scheduler) Start() {
	s.cron.Start()
	slog.Info("scheduler started", slog.Int("jobs", len(s.jobs)))
}

// Stop halts the schedules and waits for running jobs to finish, or for
// the context to expire.
func (s *Scheduler) Stop(ctx context.Context) error {
	slog.Info("scheduler stopping")
	stopped := s.cron.Stop()
	select {
	case <-stopped.Done():
		slog.Info("scheduler stopped")
		return nil
	case <-ctx.Done():
		slog.Warn("scheduler stop timeout")
		return ctx.Err()
	}
}

// EnableJob re-enables a disabled job.
func (s *Scheduler) EnableJob(name string) error {
	return s.setEnabled(name, true)
}

// DisableJob keeps a job registered but skips its runs.
func (s *Scheduler) DisableJob(name string) error {
	return s.setEnabled(name, false)
}

func (s *Scheduler) setEnabled(name string, enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	j, ok := s.jobs[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownJob, name)
	}
	j.enabled = enabled
	slog.Info("job toggled", slog.String("job", name), slog.Bool("enabled", enabled))
	s.saveStateLocked()
	return nil
}

// SetJobInterval reschedules a job to run every minutes minutes.
// Returns ErrUnknownJob for unregistered names.
func (s *Scheduler) SetJobInterval(name string, minutes int) error {
	if minutes < 1 {
		return fmt.Errorf("set interval for %s: minutes must be positive", name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	j, ok := s.jobs[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownJob, name)
	}

	spec := fmt.Sprintf("@every %dm", minutes)
	entryID, err := s.cron.AddFunc(spec, func() {
		_ = s.execute(name)
	})
	if err != nil {
		return fmt.Errorf("set interval for %s: %w", name, err)
	}
	s.cron.Remove(j.entryID)
	j.entryID = entryID
	j.spec = spec
	slog.Info("job rescheduled", slog.String("job", name), slog.Int("interval_minutes", minutes))
	s.saveStateLocked()
	return nil
}

// RunNow executes a job immediately in the calling goroutine, with the
// same timeout and retry behavior as a scheduled run.
// Returns ErrUnknownJob for unregistered names.
func (s *Scheduler) RunNow(name string) error {
	s.mu.Lock()
	_, ok := s.jobs[name]
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownJob, name)
	}
	return s.execute(name)
}

// Status returns a snapshot of all registered jobs in registration order.
func (s *Scheduler) Status() []JobStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	statuses := make([]JobStatus, 0, len(s.order))
	for _, name := range s.order {
		j := s.jobs[name]
		statuses = append(statuses, JobStatus{
			Name:         j.name,
			Spec:         j.spec,
			Enabled:      j.enabled,
			Runs:         j.runs,
			Successes:    j.successes,
			Failures:     j.failures,
			LastRun:      j.lastRun,
			LastError:    j.lastErr,
			LastDuration: j.lastDuration,
			NextRun:      s.cron.Entry(j.entryID).Next,
		})
	}
	return statuses
}

// JobNames returns the registered job names sorted alphabetically.
func (s *Scheduler) JobNames() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	names := make([]string, 0, len(s.jobs))
	for name := range s.jobs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// execute runs one job with retry, recording metrics and run state.
func (s *Scheduler) execute(name string) error {
	s.mu.Lock()
	j, ok := s.jobs[name]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrUnknownJob, name)
	}
	if !j.enabled {
		s.mu.Unlock()
		slog.Debug("job skipped: disabled", slog.String("job", name))
		return nil
	}
	fn := j.fn
	s.mu.Unlock()

	start := time.Now()
	slog.Info("job started", slog.String("job", name))

	var err error
	for attempt := 1; attempt <= s.MaxAttempts; attempt++ {
		err = s.runAttempt(fn)
		if err == nil {
			break
		}
		slog.Warn("job attempt failed",
			slog.String("job", name),
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", s.MaxAttempts),
			slog.Any("error", err))
		if attempt < s.MaxAttempts {
			time.Sleep(s.RetryDelay)
		}
	}
	duration := time.Since(start)

	s.mu.Lock()
	j.runs++
	j.lastRun = start.UTC()
	j.lastDuration = duration
	if err != nil {
		j.failures++
		j.lastErr = err.Error()
	} else {
		j.successes++
		j.lastErr = ""
	}
	s.saveStateLocked()
	s.mu.Unlock()

	s.metrics.RecordJobDuration(name, duration.Seconds())
	if err != nil {
		s.metrics.RecordJobRun(name, "failure")
		slog.Error("job failed",
			slog.String("job", name),
			slog.Duration("duration", duration),
			slog.Any("error", err))
		return err
	}

	s.metrics.RecordJobRun(name, "success")
	s.metrics.RecordLastSuccess(name)
	slog.Info("job completed",
		slog.String("job", name),
		slog.Duration("duration", duration))
	return nil
}

// runAttempt runs one attempt under the job timeout, converting panics
// into errors so a bad job cannot kill the worker.
func (s *Scheduler) runAttempt(fn JobFunc) (err error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("job panic: %v", r)
		}
	}()
	return fn(ctx)
}

// Package scrapectl provides HTTP control over the scrape pipeline:
// triggering runs and inspecting run state. Runs execute asynchronously;
// only one run is in flight at a time.
package scrapectl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	scrapeUC "github.com/perashanid/Media-bias/internal/usecase/scrape"
)

// ErrRunInProgress indicates a scrape run is already executing.
var ErrRunInProgress = errors.New("scrape run already in progress")

// DefaultRunTimeout bounds one triggered scrape run.
const DefaultRunTimeout = 30 * time.Minute

// Controller serializes triggered scrape runs and remembers the outcome
// of the last one.
type Controller struct {
	Svc *scrapeUC.Service

	// RunTimeout bounds each run. Zero means DefaultRunTimeout.
	RunTimeout time.Duration

	mu           sync.Mutex
	running      bool
	startedAt    time.Time
	finishedAt   time.Time
	lastReports  []scrapeUC.RunReport
	lastRunError error
}

// RunState is a point-in-time snapshot of the controller.
type RunState struct {
	Running      bool
	StartedAt    time.Time
	FinishedAt   time.Time
	LastReports  []scrapeUC.RunReport
	LastRunError error
}

// TriggerAll starts a scrape run over all enabled sources.
// Returns ErrRunInProgress when a run is already executing.
func (c *Controller) TriggerAll() error {
	return c.start(func(ctx context.Context) ([]scrapeUC.RunReport, error) {
		return c.Svc.ScrapeAll(ctx)
	})
}

// TriggerSource starts a scrape run for a single source key.
// Source errors surface in the run state, not here: the run is
// asynchronous.
func (c *Controller) TriggerSource(key string) error {
	return c.start(func(ctx context.Context) ([]scrapeUC.RunReport, error) {
		report, err := c.Svc.ScrapeSource(ctx, key)
		if err != nil {
			return nil, err
		}
		return []scrapeUC.RunReport{report}, nil
	})
}

// State returns a snapshot of the controller.
func (c *Controller) State() RunState {
	c.mu.Lock()
	defer c.mu.Unlock()
	reports := make([]scrapeUC.RunReport, len(c.lastReports))
	copy(reports, c.lastReports)
	return RunState{
		Running:      c.running,
		StartedAt:    c.startedAt,
		FinishedAt:   c.finishedAt,
		LastReports:  reports,
		LastRunError: c.lastRunError,
	}
}

func (c *Controller) start(run func(ctx context.Context) ([]scrapeUC.RunReport, error)) error {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return ErrRunInProgress
	}
	c.running = true
	c.startedAt = time.Now().UTC()
	c.mu.Unlock()

	go c.execute(run)
	return nil
}

func (c *Controller) execute(run func(ctx context.Context) ([]scrapeUC.RunReport, error)) {
	timeout := c.RunTimeout
	if timeout <= 0 {
		timeout = DefaultRunTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	var (
		reports []scrapeUC.RunReport
		err     error
	)
	func() {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("scrape run panic: %v", r)
				slog.Error("scrape run panicked",
					slog.Any("panic", r),
					slog.String("stack", string(debug.Stack())))
			}
		}()
		reports, err = run(ctx)
	}()

	c.mu.Lock()
	c.running = false
	c.finishedAt = time.Now().UTC()
	c.lastReports = reports
	c.lastRunError = err
	c.mu.Unlock()

	if err != nil {
		slog.Error("triggered scrape run failed", slog.Any("error", err))
		return
	}
	slog.Info("triggered scrape run finished", slog.Int("sources", len(reports)))
}

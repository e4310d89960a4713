package worker

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/perashanid/Media-bias/internal/pkg/config"
)

// WorkerConfig holds the configuration for the pipeline worker component.
// It controls how often each background job runs, the scheduling timezone,
// job timeout, and the health check port.
//
// Configuration sources:
//   - Environment variables (loaded via LoadConfigFromEnv)
//   - Default values (provided by DefaultConfig)
//
// All fields have sensible defaults and validation rules so the worker can
// operate safely even with invalid or missing configuration.
type WorkerConfig struct {
	// ScrapeIntervalMinutes is how often the scrape-all job runs.
	// Range: 5-1440
	// Default: 60
	ScrapeIntervalMinutes int

	// AnalyzeIntervalMinutes is how often pending articles are analyzed.
	// Range: 5-1440
	// Default: 30
	AnalyzeIntervalMinutes int

	// MetricsIntervalMinutes is how often system metrics are collected.
	// Range: 1-1440
	// Default: 15
	MetricsIntervalMinutes int

	// PruneSchedule is the cron expression for the retention prune job.
	// Format: "minute hour day month weekday"
	// Default: "30 3 * * *" (every day at 3:30)
	PruneSchedule string

	// Timezone is the IANA timezone name for cron scheduling.
	// Default: "Asia/Dhaka"
	Timezone string

	// JobTimeout is the maximum duration for a single job run.
	// After this timeout the job context is cancelled.
	// Default: 30 minutes
	JobTimeout time.Duration

	// HealthPort is the port number for the health check HTTP server.
	// Range: 1024-65535
	// Default: 9091
	HealthPort int

	// StateFile is where the scheduler persists job state across
	// restarts. An empty value disables persistence.
	// Default: "scheduler_state.json"
	StateFile string
}

// DefaultConfig returns a WorkerConfig with production default values:
// hourly scraping, analysis every 30 minutes, metrics every 15 minutes,
// and a nightly prune at 3:30 local time.
func DefaultConfig() WorkerConfig {
	return WorkerConfig{
		ScrapeIntervalMinutes:  60,
		AnalyzeIntervalMinutes: 30,
		MetricsIntervalMinutes: 15,
		PruneSchedule:          "30 3 * * *",
		Timezone:               "Asia/Dhaka",
		JobTimeout:             30 * time.Minute,
		HealthPort:             9091,
		StateFile:              "scheduler_state.json",
	}
}

// ScrapeSpec returns the cron spec for the scrape-all job.
func (c *WorkerConfig) ScrapeSpec() string {
	return fmt.Sprintf("@every %dm", c.ScrapeIntervalMinutes)
}

// AnalyzeSpec returns the cron spec for the analyze-pending job.
func (c *WorkerConfig) AnalyzeSpec() string {
	return fmt.Sprintf("@every %dm", c.AnalyzeIntervalMinutes)
}

// MetricsSpec returns the cron spec for the collect-metrics job.
func (c *WorkerConfig) MetricsSpec() string {
	return fmt.Sprintf("@every %dm", c.MetricsIntervalMinutes)
}

// Validate checks if the configuration values are valid.
// If multiple fields are invalid, all errors are collected and returned together.
func (c *WorkerConfig) Validate() error {
	var errs []error

	if err := config.ValidateIntRange(c.ScrapeIntervalMinutes, 5, 1440); err != nil {
		errs = append(errs, fmt.Errorf("scrape interval: %w", err))
	}
	if err := config.ValidateIntRange(c.AnalyzeIntervalMinutes, 5, 1440); err != nil {
		errs = append(errs, fmt.Errorf("analyze interval: %w", err))
	}
	if err := config.ValidateIntRange(c.MetricsIntervalMinutes, 1, 1440); err != nil {
		errs = append(errs, fmt.Errorf("metrics interval: %w", err))
	}
	if err := config.ValidateCronSchedule(c.PruneSchedule); err != nil {
		errs = append(errs, fmt.Errorf("prune schedule: %w", err))
	}
	if err := config.ValidateTimezone(c.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("timezone: %w", err))
	}
	if err := config.ValidatePositiveDuration(c.JobTimeout); err != nil {
		errs = append(errs, fmt.Errorf("job timeout: %w", err))
	}
	if err := config.ValidateIntRange(c.HealthPort, 1024, 65535); err != nil {
		errs = append(errs, fmt.Errorf("health port: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed: %v", errs)
	}
	return nil
}

// LoadConfigFromEnv loads worker configuration from environment variables
// with validation and automatic fallback to default values on failure.
//
// This function implements the fail-open strategy:
//  1. Start with DefaultConfig() as base
//  2. Load each field from environment variables
//  3. Validate each loaded value
//  4. If validation fails: use default value, log warning, increment metrics
//  5. Never return error - always return a valid configuration
//
// Environment variables:
//   - SCRAPING_INTERVAL_MINUTES: Integer 5-1440 (default: 60)
//   - ANALYZE_INTERVAL_MINUTES: Integer 5-1440 (default: 30)
//   - METRICS_INTERVAL_MINUTES: Integer 1-1440 (default: 15)
//   - PRUNE_SCHEDULE: Cron expression (default: "30 3 * * *")
//   - WORKER_TIMEZONE: IANA timezone name (default: "Asia/Dhaka")
//   - JOB_TIMEOUT: Duration string, e.g., "30m" (default: 30 minutes)
//   - WORKER_HEALTH_PORT: Integer 1024-65535 (default: 9091)
//   - SCHEDULER_STATE_FILE: Path for persisted job state; empty disables
//     persistence (default: "scheduler_state.json")
func LoadConfigFromEnv(logger *slog.Logger, metrics *WorkerMetrics) (*WorkerConfig, error) {
	cfg := DefaultConfig()
	fallbackApplied := false

	loadInt := func(envKey, field string, target *int, min, max int) {
		result := config.LoadEnvInt(envKey, *target, func(v int) error {
			return config.ValidateIntRange(v, min, max)
		})
		*target = result.Value.(int)
		if result.FallbackApplied {
			fallbackApplied = true
			metrics.RecordValidationError(field)
			metrics.RecordFallback(field, "default")
			for _, warning := range result.Warnings {
				logger.Warn("Configuration fallback applied",
					slog.String("field", field),
					slog.String("warning", warning))
			}
		}
	}

	loadInt("SCRAPING_INTERVAL_MINUTES", "scrape_interval", &cfg.ScrapeIntervalMinutes, 5, 1440)
	loadInt("ANALYZE_INTERVAL_MINUTES", "analyze_interval", &cfg.AnalyzeIntervalMinutes, 5, 1440)
	loadInt("METRICS_INTERVAL_MINUTES", "metrics_interval", &cfg.MetricsIntervalMinutes, 1, 1440)
	loadInt("WORKER_HEALTH_PORT", "health_port", &cfg.HealthPort, 1024, 65535)

	result := config.LoadEnvWithFallback("PRUNE_SCHEDULE", cfg.PruneSchedule, config.ValidateCronSchedule)
	cfg.PruneSchedule = result.Value.(string)
	if result.FallbackApplied {
		fallbackApplied = true
		metrics.RecordValidationError("prune_schedule")
		metrics.RecordFallback("prune_schedule", "default")
		for _, warning := range result.Warnings {
			logger.Warn("Configuration fallback applied",
				slog.String("field", "prune_schedule"),
				slog.String("warning", warning))
		}
	}

	result = config.LoadEnvWithFallback("WORKER_TIMEZONE", cfg.Timezone, config.ValidateTimezone)
	cfg.Timezone = result.Value.(string)
	if result.FallbackApplied {
		fallbackApplied = true
		metrics.RecordValidationError("timezone")
		metrics.RecordFallback("timezone", "default")
		for _, warning := range result.Warnings {
			logger.Warn("Configuration fallback applied",
				slog.String("field", "timezone"),
				slog.String("warning", warning))
		}
	}

	result = config.LoadEnvDuration("JOB_TIMEOUT", cfg.JobTimeout, func(d time.Duration) error {
		return config.ValidateDuration(d, 1*time.Minute, 4*time.Hour)
	})
	cfg.JobTimeout = result.Value.(time.Duration)
	if result.FallbackApplied {
		fallbackApplied = true
		metrics.RecordValidationError("job_timeout")
		metrics.RecordFallback("job_timeout", "default")
		for _, warning := range result.Warnings {
			logger.Warn("Configuration fallback applied",
				slog.String("field", "job_timeout"),
				slog.String("warning", warning))
		}
	}

	// Any path is acceptable, including empty to disable persistence.
	if v, ok := os.LookupEnv("SCHEDULER_STATE_FILE"); ok {
		cfg.StateFile = v
	}

	metrics.SetFallbackActive("", fallbackApplied)
	metrics.RecordLoadTimestamp()

	// Always return valid config (fail-open strategy)
	return &cfg, nil
}

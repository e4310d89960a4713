package worker

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/perashanid/Media-bias/internal/pkg/config"
)

// WorkerMetrics provides Prometheus metrics for the pipeline worker.
// It embeds the standard ConfigMetrics for configuration monitoring and adds
// job-level metrics for the scheduled pipeline jobs.
//
// Embedded metrics (from ConfigMetrics):
//   - worker_config_load_timestamp: Unix timestamp of last configuration load
//   - worker_config_validation_errors_total: Total validation errors by field
//   - worker_config_fallbacks_total: Total fallback operations by field
//   - worker_config_fallback_active: 1 if any fallback active, 0 otherwise
//
// Job metrics:
//   - worker_job_runs_total: Total job runs by job name and status
//   - worker_job_duration_seconds: Duration histogram per job
//   - worker_articles_processed_total: Articles processed across scrape runs
//   - worker_job_last_success_timestamp: Unix timestamp of last success per job
type WorkerMetrics struct {
	*config.ConfigMetrics

	// JobRunsTotal counts job runs by job name and status (success/failure).
	JobRunsTotal *prometheus.CounterVec

	// JobDurationSeconds measures job execution duration per job.
	// Buckets: 1s, 5s, 30s, 1m, 5m, 15m, 30m (typical scrape run durations)
	JobDurationSeconds *prometheus.HistogramVec

	// ArticlesProcessedTotal counts articles stored across scrape runs.
	ArticlesProcessedTotal prometheus.Counter

	// JobLastSuccessTimestamp records the Unix timestamp of the last
	// successful run per job.
	JobLastSuccessTimestamp *prometheus.GaugeVec
}

// NewWorkerMetrics creates a new WorkerMetrics instance with all metrics initialized.
func NewWorkerMetrics() *WorkerMetrics {
	return &WorkerMetrics{
		ConfigMetrics: config.NewConfigMetrics("worker"),

		JobRunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "worker_job_runs_total",
			Help: "Total number of job runs by job name and status",
		}, []string{"job", "status"}),

		JobDurationSeconds: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "worker_job_duration_seconds",
			Help:    "Duration of job execution in seconds",
			Buckets: []float64{1, 5, 30, 60, 300, 900, 1800},
		}, []string{"job"}),

		ArticlesProcessedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "worker_articles_processed_total",
			Help: "Total number of articles stored across scrape runs",
		}),

		JobLastSuccessTimestamp: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "worker_job_last_success_timestamp",
			Help: "Unix timestamp of the last successful run per job",
		}, []string{"job"}),
	}
}

// MustRegister is a no-op method for API compatibility.
// Metrics are automatically registered via promauto when created in NewWorkerMetrics.
func (m *WorkerMetrics) MustRegister() {
	// No-op: metrics are auto-registered via promauto
}

// RecordJobRun increments the job run counter for the given job and status.
// Status should be either "success" or "failure".
func (m *WorkerMetrics) RecordJobRun(job, status string) {
	m.JobRunsTotal.WithLabelValues(job, status).Inc()
}

// RecordJobDuration observes the duration of a job execution in seconds.
func (m *WorkerMetrics) RecordJobDuration(job string, seconds float64) {
	m.JobDurationSeconds.WithLabelValues(job).Observe(seconds)
}

// RecordArticlesProcessed adds the number of articles stored in a scrape run.
func (m *WorkerMetrics) RecordArticlesProcessed(count int) {
	m.ArticlesProcessedTotal.Add(float64(count))
}

// RecordLastSuccess records the current time as the job's last successful run.
func (m *WorkerMetrics) RecordLastSuccess(job string) {
	m.JobLastSuccessTimestamp.WithLabelValues(job).SetToCurrentTime()
}

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Inventory gauges reflect the current state of the store.
var (
	// ArticlesTotal tracks total number of articles in the database
	ArticlesTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "articles_total",
			Help: "Total number of articles in the database",
		},
	)

	// ArticlesAnalyzedGauge tracks how many stored articles carry bias scores
	ArticlesAnalyzedGauge = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "articles_analyzed",
			Help: "Number of stored articles with bias scores",
		},
	)

	// SourcesTotal tracks total number of registered sources
	SourcesTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sources_total",
			Help: "Total number of sources in the registry",
		},
	)
)

// Scrape metrics track article collection per outlet.
var (
	// ArticlesScrapedTotal counts articles stored per source
	ArticlesScrapedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "articles_scraped_total",
			Help: "Total number of articles stored per source",
		},
		[]string{"source"},
	)

	// ScrapeDuration measures one source's scrape run duration
	ScrapeDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "scrape_duration_seconds",
			Help:    "Time taken to scrape one source",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		},
		[]string{"source"},
	)

	// ScrapeErrors counts failed scrape runs per source
	ScrapeErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scrape_errors_total",
			Help: "Total number of scrape errors per source",
		},
		[]string{"source", "error_type"},
	)
)

// Analysis metrics track the bias scoring stage.
var (
	// ArticlesAnalyzedTotal counts analysis runs by status
	ArticlesAnalyzedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "articles_analyzed_total",
			Help: "Total number of article analyses by status",
		},
		[]string{"status"},
	)

	// AnalysisDuration measures time to analyze one article
	AnalysisDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "analysis_duration_seconds",
			Help:    "Time taken to analyze one article",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		},
	)

	// ComparisonReportsTotal counts generated comparison reports
	ComparisonReportsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "comparison_reports_total",
			Help: "Total number of comparison reports generated",
		},
	)
)

// Content fetch metrics track the readability fallback.
var (
	// ContentFetchAttemptsTotal counts content fetch attempts by result
	ContentFetchAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "content_fetch_attempts_total",
			Help: "Total number of content fetch attempts",
		},
		[]string{"result"}, // result: success, failure, skipped
	)

	// ContentFetchDuration measures time to fetch article content
	ContentFetchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "content_fetch_duration_seconds",
			Help:    "Time taken to fetch article content",
			Buckets: []float64{0.1, 0.2, 0.4, 0.8, 1.6, 3.2, 6.4, 12.8},
		},
	)

	// ContentFetchSize measures fetched content size in bytes
	ContentFetchSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "content_fetch_size_bytes",
			Help: "Fetched article content size in bytes",
			Buckets: []float64{
				100, 200, 400, 800, 1600, 3200, 6400, 12800,
				25600, 51200, 102400, 204800, 409600, 819200,
				1638400, 3276800, 6553600, 10485760, // up to 10MB
			},
		},
	)
)

// Database metrics track database performance
var (
	// DBQueryDuration measures database query duration
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 10),
		},
		[]string{"operation"},
	)

	// DBConnectionsActive tracks active database connections
	DBConnectionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "db_connections_active",
			Help: "Number of active database connections",
		},
	)

	// DBConnectionsIdle tracks idle database connections
	DBConnectionsIdle = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "db_connections_idle",
			Help: "Number of idle database connections",
		},
	)
)

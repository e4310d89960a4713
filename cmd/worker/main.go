package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/perashanid/Media-bias/internal/analysis/bias"
	"github.com/perashanid/Media-bias/internal/domain/entity"
	pgRepo "github.com/perashanid/Media-bias/internal/infra/adapter/persistence/postgres"
	"github.com/perashanid/Media-bias/internal/infra/db"
	"github.com/perashanid/Media-bias/internal/infra/fetcher"
	"github.com/perashanid/Media-bias/internal/infra/notifier"
	"github.com/perashanid/Media-bias/internal/infra/scraper"
	workerPkg "github.com/perashanid/Media-bias/internal/infra/worker"
	obsmetrics "github.com/perashanid/Media-bias/internal/observability/metrics"
	"github.com/perashanid/Media-bias/internal/repository"
	analyzeUC "github.com/perashanid/Media-bias/internal/usecase/analyze"
	artUC "github.com/perashanid/Media-bias/internal/usecase/article"
	monitorUC "github.com/perashanid/Media-bias/internal/usecase/monitor"
	"github.com/perashanid/Media-bias/internal/usecase/notify"
	scrapeUC "github.com/perashanid/Media-bias/internal/usecase/scrape"
)

// defaultNotifyConcurrency bounds simultaneous alert deliveries.
const defaultNotifyConcurrency = 4

// defaultArticleRetentionDays is how long scraped articles are kept
// before the nightly prune removes them.
const defaultArticleRetentionDays = 180

func main() {
	logger := initLogger()
	database := initDatabase(logger)
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	workerMetrics := workerPkg.NewWorkerMetrics()
	workerMetrics.MustRegister()
	workerConfig, err := workerPkg.LoadConfigFromEnv(logger, workerMetrics)
	if err != nil {
		logger.Error("failed to load worker configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("worker configuration loaded",
		slog.Int("scrape_interval_minutes", workerConfig.ScrapeIntervalMinutes),
		slog.Int("analyze_interval_minutes", workerConfig.AnalyzeIntervalMinutes),
		slog.Int("metrics_interval_minutes", workerConfig.MetricsIntervalMinutes),
		slog.String("prune_schedule", workerConfig.PruneSchedule),
		slog.String("timezone", workerConfig.Timezone),
		slog.Duration("job_timeout", workerConfig.JobTimeout),
		slog.Int("health_port", workerConfig.HealthPort))

	notifyService := setupNotifyService(logger)
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := notifyService.Shutdown(shutdownCtx); err != nil {
			logger.Error("notify service shutdown failed", slog.Any("error", err))
		}
	}()

	startMetricsServer(ctx, logger, notifyService)

	pipeline := setupPipeline(logger, database, notifyService)

	scheduler, err := setupScheduler(logger, database, pipeline, workerConfig, workerMetrics)
	if err != nil {
		logger.Error("failed to set up scheduler", slog.Any("error", err))
		os.Exit(1)
	}

	if workerConfig.StateFile != "" {
		state, err := workerPkg.LoadState(workerConfig.StateFile)
		if err != nil {
			logger.Warn("scheduler state not restored", slog.Any("error", err))
		} else if len(state.Jobs) > 0 {
			scheduler.RestoreState(state)
			logger.Info("scheduler state restored",
				slog.String("file", workerConfig.StateFile),
				slog.Int("jobs", len(state.Jobs)))
		}
		scheduler.SetStatePath(workerConfig.StateFile)
	}

	healthAddr := fmt.Sprintf(":%d", workerConfig.HealthPort)
	healthServer := workerPkg.NewHealthServer(healthAddr, logger)
	healthServer.AttachScheduler(scheduler)
	go func() {
		if err := healthServer.Start(ctx); err != nil && err != http.ErrServerClosed {
			logger.Error("health server failed", slog.Any("error", err))
		}
	}()
	logger.Info("health check server started", slog.String("addr", healthAddr))

	scheduler.Start()
	healthServer.SetReady(true)
	logger.Info("worker started",
		slog.String("timezone", workerConfig.Timezone),
		slog.Int("jobs", len(scheduler.Status())))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down worker...")

	cancel()
	stopCtx, stopCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer stopCancel()
	if err := scheduler.Stop(stopCtx); err != nil {
		logger.Error("scheduler stop failed", slog.Any("error", err))
	}
	logger.Info("worker stopped")
}

// initLogger initializes and returns a structured logger based on environment configuration.
func initLogger() *slog.Logger {
	logLevel := slog.LevelInfo
	if os.Getenv("LOG_LEVEL") == "debug" {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)
	return logger
}

// initDatabase opens the database connection and waits for migrations to complete.
// The API process runs the migrations; the worker only probes for them.
func initDatabase(logger *slog.Logger) *sql.DB {
	database := db.Open()
	waitForMigrations(logger, database)
	return database
}

func waitForMigrations(logger *slog.Logger, db *sql.DB) {
	const probe = "SELECT 1 FROM sources LIMIT 1"
	for i := 0; i < 10; i++ {
		if _, err := db.Exec(probe); err == nil {
			return
		}
		logger.Info("waiting for migrations, retrying in 3s", slog.Int("attempt", i+1))
		time.Sleep(3 * time.Second)
	}
	logger.Error("migrations did not complete in time")
	os.Exit(1)
}

// setupNotifyService wires the alert dispatch service. The webhook
// channel is enabled when ALERT_WEBHOOK_URL is set; without it alerts
// still land in the database but go nowhere else.
func setupNotifyService(logger *slog.Logger) notify.Service {
	webhookConfig := notifier.LoadWebhookConfigFromEnv()

	var channels []notify.Channel
	if webhookConfig.Enabled {
		webhook := notifier.NewWebhookNotifier(webhookConfig)
		channels = append(channels, notify.NewWebhookChannel(webhook, true))
		logger.Info("webhook alert channel enabled",
			slog.Duration("timeout", webhookConfig.Timeout))
	} else {
		logger.Info("webhook alert channel disabled")
	}

	return notify.NewService(channels, defaultNotifyConcurrency)
}

// pipelineServices bundles the use case services the scheduled jobs run.
type pipelineServices struct {
	articles *artUC.Service
	sources  repository.SourceRepository
	scrape   *scrapeUC.Service
	analyze  *analyzeUC.Service
	monitor  *monitorUC.Service

	stats *pipelineStats
}

// setupPipeline creates the repositories and use case services shared
// by the scheduled jobs.
func setupPipeline(logger *slog.Logger, database *sql.DB, notifyService notify.Service) *pipelineServices {
	srcRepo := pgRepo.NewSourceRepo(database)
	artRepo := pgRepo.NewArticleRepo(database)
	metricsRepo := pgRepo.NewMetricsRepo(database)
	alertRepo := pgRepo.NewAlertRepo(database)

	articleSvc := &artUC.Service{Repo: artRepo}

	scraperConfig, err := scraper.LoadConfigFromEnv()
	if err != nil {
		logger.Error("failed to load scraper configuration", slog.Any("error", err))
		os.Exit(1)
	}

	var enhancer scrapeUC.ContentFetcher
	fetchConfig, err := fetcher.LoadConfigFromEnv()
	if err != nil {
		logger.Warn("content fetch configuration invalid, fallback disabled", slog.Any("error", err))
	} else if fetchConfig.Enabled {
		enhancer = fetcher.NewReadabilityFetcher(fetchConfig)
		logger.Info("content fetch fallback enabled",
			slog.Int("threshold", fetchConfig.Threshold),
			slog.Int("parallelism", fetchConfig.Parallelism))
	} else {
		logger.Info("content fetch fallback disabled")
	}

	factory := scraper.NewFactory(scraperConfig, enhancer)
	scrapeSvc := &scrapeUC.Service{
		Sources:        srcRepo,
		Factory:        factory,
		Store:          articleSvc,
		MaxConcurrent:  scrapeUC.MaxConcurrentFromEnv(),
		ArticlesPerRun: scraperConfig.ArticlesPerSource,
	}

	analyzeSvc := &analyzeUC.Service{
		Repo:     artRepo,
		Analyzer: bias.NewAnalyzer(),
	}

	monitorSvc := &monitorUC.Service{
		Articles:   artRepo,
		Metrics:    metricsRepo,
		Alerts:     alertRepo,
		Notifier:   notifyService,
		Thresholds: monitorUC.DefaultThresholds(),
	}

	return &pipelineServices{
		articles: articleSvc,
		sources:  srcRepo,
		scrape:   scrapeSvc,
		analyze:  analyzeSvc,
		monitor:  monitorSvc,
		stats:    &pipelineStats{},
	}
}

// setupScheduler registers the four pipeline jobs on the cron scheduler.
func setupScheduler(
	logger *slog.Logger,
	database *sql.DB,
	pipeline *pipelineServices,
	cfg *workerPkg.WorkerConfig,
	metrics *workerPkg.WorkerMetrics,
) (*workerPkg.Scheduler, error) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Error("invalid timezone, using UTC",
			slog.String("timezone", cfg.Timezone),
			slog.Any("error", err))
		loc = time.UTC
	}

	scheduler := workerPkg.NewScheduler(loc, metrics, cfg.JobTimeout)

	jobs := []struct {
		name string
		spec string
		fn   workerPkg.JobFunc
	}{
		{"scrape_all", cfg.ScrapeSpec(), func(ctx context.Context) error {
			reports, err := pipeline.scrape.ScrapeAll(ctx)
			if err != nil {
				pipeline.stats.recordScrapeFailure()
				return err
			}
			stored := 0
			for _, r := range reports {
				stored += r.Stored
			}
			metrics.RecordArticlesProcessed(stored)
			pipeline.stats.recordScrapeRun(reports)
			if failed := failedSources(reports); failed*2 > len(reports) {
				if err := pipeline.monitor.RaiseAlert(ctx, entity.AlertLevelError,
					"Majority of sources failed",
					fmt.Sprintf("%d of %d sources failed in the last scrape run", failed, len(reports))); err != nil {
					logger.Warn("scrape failure alert not raised", slog.Any("error", err))
				}
			}
			return nil
		}},
		{"analyze_pending", cfg.AnalyzeSpec(), func(ctx context.Context) error {
			result, err := pipeline.analyze.ProcessPending(ctx)
			if err != nil {
				pipeline.stats.recordAnalyzeFailure()
				return err
			}
			pipeline.stats.recordAnalyzeRun(result)
			return nil
		}},
		{"collect_metrics", cfg.MetricsSpec(), func(ctx context.Context) error {
			updateInventoryGauges(ctx, pipeline, database)
			daily := pipeline.stats.dailySnapshot()
			logger.Info("daily pipeline statistics",
				slog.String("date", daily.Date),
				slog.Int("articles_scraped_today", daily.ArticlesScraped),
				slog.Int("articles_analyzed_today", daily.ArticlesAnalyzed),
				slog.Int("scraping_errors_today", daily.ScrapingErrors),
				slog.Int("analysis_errors_today", daily.AnalysisErrors))
			runStats := pipeline.stats.snapshot()
			runStats.DatabaseSizeMB = databaseSizeMB(ctx, database)
			_, err := pipeline.monitor.Record(ctx, runStats)
			return err
		}},
		{"prune", cfg.PruneSchedule, func(ctx context.Context) error {
			cutoff := time.Now().UTC().AddDate(0, 0, -articleRetentionDays())
			deleted, err := pipeline.articles.DeleteOlderThan(ctx, cutoff)
			if err != nil {
				return err
			}
			if deleted > 0 {
				logger.Info("old articles pruned", slog.Int64("deleted", deleted))
			}
			return pipeline.monitor.Prune(ctx)
		}},
	}

	for _, j := range jobs {
		if err := scheduler.AddJob(j.name, j.spec, j.fn); err != nil {
			return nil, fmt.Errorf("register job %s: %w", j.name, err)
		}
	}
	return scheduler, nil
}

// articleRetentionDays reads ARTICLE_RETENTION_DAYS, falling back to
// the default for unset or invalid values.
func articleRetentionDays() int {
	if v := os.Getenv("ARTICLE_RETENTION_DAYS"); v != "" {
		if days, err := strconv.Atoi(v); err == nil && days > 0 {
			return days
		}
	}
	return defaultArticleRetentionDays
}

// updateInventoryGauges refreshes the corpus and connection pool gauges
// on /metrics. Failures are logged and skipped; the monitor snapshot
// does not depend on them.
func updateInventoryGauges(ctx context.Context, pipeline *pipelineServices, database *sql.DB) {
	if stats, err := pipeline.articles.Stats(ctx); err != nil {
		slog.Warn("article stats query failed", slog.Any("error", err))
	} else {
		obsmetrics.UpdateArticlesTotal(int(stats.TotalArticles))
		obsmetrics.UpdateArticlesAnalyzed(int(stats.AnalyzedArticles))
	}

	if sources, err := pipeline.sources.List(ctx); err != nil {
		slog.Warn("source list query failed", slog.Any("error", err))
	} else {
		obsmetrics.UpdateSourcesTotal(len(sources))
	}

	pool := database.Stats()
	obsmetrics.UpdateDBConnectionStats(pool.InUse, pool.Idle)
}

// databaseSizeMB reports the current database size. Failures degrade to
// zero; the metric is informational.
func databaseSizeMB(ctx context.Context, database *sql.DB) float64 {
	var sizeMB float64
	row := database.QueryRowContext(ctx,
		"SELECT pg_database_size(current_database()) / 1024.0 / 1024.0")
	if err := row.Scan(&sizeMB); err != nil {
		slog.Warn("database size query failed", slog.Any("error", err))
		return 0
	}
	return sizeMB
}

// failedSources counts the per-source runs that ended in an error.
func failedSources(reports []scrapeUC.RunReport) int {
	failed := 0
	for _, r := range reports {
		if r.Err != nil {
			failed++
		}
	}
	return failed
}

// dailyStats are the pipeline counters for one UTC day.
type dailyStats struct {
	Date             string
	ArticlesScraped  int
	ArticlesAnalyzed int
	ScrapingErrors   int
	AnalysisErrors   int
}

// pipelineStats accumulates success rates and error counts between
// metric collections, plus running counters for the current UTC day.
// Rates reflect the most recent run of each job.
type pipelineStats struct {
	mu sync.Mutex

	// now overrides the clock in tests; nil means time.Now.
	now func() time.Time

	scrapeSuccessRate  float64
	analyzeSuccessRate float64
	errorCount         int
	hasScrape          bool
	hasAnalyze         bool

	daily dailyStats
}

func (p *pipelineStats) clock() time.Time {
	if p.now != nil {
		return p.now()
	}
	return time.Now()
}

// rollDailyLocked resets the daily counters when the UTC day changed.
// Callers must hold the mutex.
func (p *pipelineStats) rollDailyLocked() {
	day := p.clock().UTC().Format("2006-01-02")
	if p.daily.Date != day {
		p.daily = dailyStats{Date: day}
	}
}

func (p *pipelineStats) recordScrapeRun(reports []scrapeUC.RunReport) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.rollDailyLocked()

	succeeded := 0
	for _, r := range reports {
		if r.Err == nil {
			succeeded++
		} else {
			p.errorCount++
			p.daily.ScrapingErrors++
		}
		p.daily.ArticlesScraped += r.Stored
	}
	if len(reports) > 0 {
		p.scrapeSuccessRate = float64(succeeded) / float64(len(reports)) * 100
	}
	p.hasScrape = true
}

func (p *pipelineStats) recordScrapeFailure() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.rollDailyLocked()
	p.scrapeSuccessRate = 0
	p.errorCount++
	p.daily.ScrapingErrors++
	p.hasScrape = true
}

func (p *pipelineStats) recordAnalyzeRun(result analyzeUC.BatchResult) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.rollDailyLocked()

	total := result.Analyzed + result.Failed
	if total > 0 {
		p.analyzeSuccessRate = float64(result.Analyzed) / float64(total) * 100
	}
	p.errorCount += result.Failed
	p.daily.ArticlesAnalyzed += result.Analyzed
	p.daily.AnalysisErrors += result.Failed
	p.hasAnalyze = true
}

func (p *pipelineStats) recordAnalyzeFailure() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.rollDailyLocked()
	p.analyzeSuccessRate = 0
	p.errorCount++
	p.daily.AnalysisErrors++
	p.hasAnalyze = true
}

// dailySnapshot returns a copy of the current day's counters.
func (p *pipelineStats) dailySnapshot() dailyStats {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.rollDailyLocked()
	return p.daily
}

// snapshot returns the accumulated stats and resets the error counter.
// Until a job has run its success rate reports 100 to avoid alerting on
// a freshly started worker.
func (p *pipelineStats) snapshot() monitorUC.RunStats {
	p.mu.Lock()
	defer p.mu.Unlock()

	stats := monitorUC.RunStats{
		ScrapingSuccessRate: 100,
		AnalysisSuccessRate: 100,
		ErrorCountLastHr:    p.errorCount,
	}
	if p.hasScrape {
		stats.ScrapingSuccessRate = p.scrapeSuccessRate
	}
	if p.hasAnalyze {
		stats.AnalysisSuccessRate = p.analyzeSuccessRate
	}
	p.errorCount = 0
	return stats
}

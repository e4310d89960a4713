package monitor

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/perashanid/Media-bias/internal/domain/entity"
	"github.com/perashanid/Media-bias/internal/repository"
)

// Health status labels, rolled up from the active alerts.
const (
	HealthHealthy  = "healthy"
	HealthWarning  = "warning"
	HealthDegraded = "degraded"
	HealthCritical = "critical"
)

// Retention windows for monitoring data.
const (
	DefaultAlertRetention   = 30 * 24 * time.Hour
	DefaultMetricsRetention = 7 * 24 * time.Hour
)

// Thresholds define when a metric snapshot raises alerts.
type Thresholds struct {
	MinScrapingSuccessRate float64
	MinAnalysisSuccessRate float64
	MaxResponseTimeMS      float64
	MaxErrorsPerHour       int
	MaxDatabaseSizeMB      float64
}

// DefaultThresholds returns the production alerting thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MinScrapingSuccessRate: 80,
		MinAnalysisSuccessRate: 90,
		MaxResponseTimeMS:      5000,
		MaxErrorsPerHour:       50,
		MaxDatabaseSizeMB:      10 * 1024, // 10GB
	}
}

// Notifier delivers alerts to an external channel.
type Notifier interface {
	Notify(ctx context.Context, alert *entity.Alert) error
}

// RunStats carries the measurements the monitor cannot derive from the
// article store: success rates of the last runs and system-level gauges.
type RunStats struct {
	ScrapingSuccessRate float64
	AnalysisSuccessRate float64
	ResponseTimeMS      float64
	DatabaseSizeMB      float64
	ErrorCountLastHr    int
}

// Service records metric snapshots, raises threshold alerts and rolls
// up a health status.
type Service struct {
	Articles repository.ArticleRepository
	Metrics  repository.MetricsRepository
	Alerts   repository.AlertRepository

	// Notifier is optional; nil disables external delivery.
	Notifier Notifier

	Thresholds Thresholds

	// Retention overrides; zero values mean the defaults.
	AlertRetention   time.Duration
	MetricsRetention time.Duration
}

// Record builds a metric snapshot from the article store and the given
// run stats, persists it, and raises alerts for any crossed thresholds.
func (s *Service) Record(ctx context.Context, stats RunStats) (*entity.SystemMetrics, error) {
	now := time.Now().UTC()
	hourAgo := now.Add(-time.Hour)

	scraped, err := s.Articles.CountScrapedSince(ctx, hourAgo)
	if err != nil {
		return nil, fmt.Errorf("count scraped articles: %w", err)
	}
	analyzed, err := s.Articles.CountAnalyzedSince(ctx, hourAgo)
	if err != nil {
		return nil, fmt.Errorf("count analyzed articles: %w", err)
	}

	snapshot := &entity.SystemMetrics{
		Timestamp:              now,
		ArticlesScrapedLastHr:  int(scraped),
		ArticlesAnalyzedLastHr: int(analyzed),
		ScrapingSuccessRate:    stats.ScrapingSuccessRate,
		AnalysisSuccessRate:    stats.AnalysisSuccessRate,
		DatabaseSizeMB:         stats.DatabaseSizeMB,
		ResponseTimeMS:         stats.ResponseTimeMS,
		ErrorCountLastHr:       stats.ErrorCountLastHr,
	}
	if err := s.Metrics.Insert(ctx, snapshot); err != nil {
		return nil, fmt.Errorf("insert metrics: %w", err)
	}

	for _, alert := range s.CheckThresholds(snapshot) {
		if err := s.raise(ctx, alert); err != nil {
			slog.Warn("alert creation failed",
				slog.String("title", alert.Title),
				slog.Any("error", err))
		}
	}
	return snapshot, nil
}

// CheckThresholds evaluates a snapshot against the thresholds and
// returns the alerts it would raise, without persisting anything.
func (s *Service) CheckThresholds(m *entity.SystemMetrics) []*entity.Alert {
	var alerts []*entity.Alert
	add := func(level, title, message string) {
		alerts = append(alerts, &entity.Alert{
			ID:        uuid.NewString(),
			Level:     level,
			Title:     title,
			Message:   message,
			Source:    "monitor",
			CreatedAt: time.Now().UTC(),
		})
	}

	if m.ScrapingSuccessRate < s.Thresholds.MinScrapingSuccessRate {
		add(entity.AlertLevelWarning, "Scraping success rate low",
			fmt.Sprintf("scraping success rate %.1f%% is below %.1f%%",
				m.ScrapingSuccessRate, s.Thresholds.MinScrapingSuccessRate))
	}
	if m.AnalysisSuccessRate < s.Thresholds.MinAnalysisSuccessRate {
		add(entity.AlertLevelWarning, "Analysis success rate low",
			fmt.Sprintf("analysis success rate %.1f%% is below %.1f%%",
				m.AnalysisSuccessRate, s.Thresholds.MinAnalysisSuccessRate))
	}
	if m.ResponseTimeMS > s.Thresholds.MaxResponseTimeMS {
		add(entity.AlertLevelError, "Slow responses",
			fmt.Sprintf("response time %.0fms exceeds %.0fms",
				m.ResponseTimeMS, s.Thresholds.MaxResponseTimeMS))
	}
	if m.ErrorCountLastHr > s.Thresholds.MaxErrorsPerHour {
		add(entity.AlertLevelError, "Error rate high",
			fmt.Sprintf("%d errors in the last hour exceeds %d",
				m.ErrorCountLastHr, s.Thresholds.MaxErrorsPerHour))
	}
	if m.DatabaseSizeMB > s.Thresholds.MaxDatabaseSizeMB {
		add(entity.AlertLevelCritical, "Database size limit",
			fmt.Sprintf("database size %.0fMB exceeds %.0fMB",
				m.DatabaseSizeMB, s.Thresholds.MaxDatabaseSizeMB))
	}
	return alerts
}

// RaiseAlert creates and dispatches an alert on behalf of a pipeline
// job, outside the threshold checks.
func (s *Service) RaiseAlert(ctx context.Context, level, title, message string) error {
	return s.raise(ctx, &entity.Alert{
		ID:        uuid.NewString(),
		Level:     level,
		Title:     title,
		Message:   message,
		Source:    "monitor",
		CreatedAt: time.Now().UTC(),
	})
}

func (s *Service) raise(ctx context.Context, alert *entity.Alert) error {
	if err := s.Alerts.Create(ctx, alert); err != nil {
		return fmt.Errorf("create alert: %w", err)
	}
	slog.Warn("alert raised",
		slog.String("level", alert.Level),
		slog.String("title", alert.Title))

	if s.Notifier != nil {
		if err := s.Notifier.Notify(ctx, alert); err != nil {
			slog.Warn("alert notification failed",
				slog.String("alert_id", alert.ID),
				slog.Any("error", err))
		}
	}
	return nil
}

// HealthStatus rolls the active alerts up into a single status label:
// any critical alert wins, then error, then warning.
func (s *Service) HealthStatus(ctx context.Context) (string, error) {
	active, err := s.Alerts.ListActive(ctx)
	if err != nil {
		return "", fmt.Errorf("list active alerts: %w", err)
	}

	status := HealthHealthy
	for _, alert := range active {
		switch alert.Level {
		case entity.AlertLevelCritical:
			return HealthCritical, nil
		case entity.AlertLevelError:
			status = HealthDegraded
		case entity.AlertLevelWarning:
			if status == HealthHealthy {
				status = HealthWarning
			}
		}
	}
	return status, nil
}

// LatestMetrics returns the newest snapshot.
// Returns ErrNoMetrics when nothing has been recorded yet.
func (s *Service) LatestMetrics(ctx context.Context) (*entity.SystemMetrics, error) {
	latest, err := s.Metrics.Latest(ctx)
	if err != nil {
		return nil, fmt.Errorf("latest metrics: %w", err)
	}
	if latest == nil {
		return nil, ErrNoMetrics
	}
	return latest, nil
}

// MetricsHistory returns snapshots within the window, oldest first.
func (s *Service) MetricsHistory(ctx context.Context, window time.Duration) ([]*entity.SystemMetrics, error) {
	history, err := s.Metrics.ListSince(ctx, time.Now().UTC().Add(-window))
	if err != nil {
		return nil, fmt.Errorf("metrics history: %w", err)
	}
	return history, nil
}

// ActiveAlerts returns the unresolved alerts, newest first.
func (s *Service) ActiveAlerts(ctx context.Context) ([]*entity.Alert, error) {
	alerts, err := s.Alerts.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list active alerts: %w", err)
	}
	return alerts, nil
}

// ResolveAlert marks an alert resolved.
// Returns ErrAlertNotFound when no such alert exists.
func (s *Service) ResolveAlert(ctx context.Context, id string) error {
	alert, err := s.Alerts.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("get alert: %w", err)
	}
	if alert == nil {
		return ErrAlertNotFound
	}
	if alert.Resolved {
		return nil
	}
	if err := s.Alerts.Resolve(ctx, id, time.Now().UTC()); err != nil {
		return fmt.Errorf("resolve alert: %w", err)
	}
	return nil
}

// Prune removes alerts and metric snapshots past their retention.
func (s *Service) Prune(ctx context.Context) error {
	alertRetention := s.AlertRetention
	if alertRetention <= 0 {
		alertRetention = DefaultAlertRetention
	}
	metricsRetention := s.MetricsRetention
	if metricsRetention <= 0 {
		metricsRetention = DefaultMetricsRetention
	}

	now := time.Now().UTC()
	alertsDeleted, err := s.Alerts.DeleteOlderThan(ctx, now.Add(-alertRetention))
	if err != nil {
		return fmt.Errorf("prune alerts: %w", err)
	}
	metricsDeleted, err := s.Metrics.DeleteOlderThan(ctx, now.Add(-metricsRetention))
	if err != nil {
		return fmt.Errorf("prune metrics: %w", err)
	}

	if alertsDeleted > 0 || metricsDeleted > 0 {
		slog.Info("monitoring data pruned",
			slog.Int64("alerts", alertsDeleted),
			slog.Int64("metrics", metricsDeleted))
	}
	return nil
}

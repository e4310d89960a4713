// Package monitor provides HTTP handlers for pipeline health: metric
// snapshots, active alerts and the rolled-up health status.
package monitor

import (
	"time"

	"github.com/perashanid/Media-bias/internal/domain/entity"
)

// MetricsDTO is one system metrics snapshot.
type MetricsDTO struct {
	Timestamp              time.Time `json:"timestamp"`
	ArticlesScrapedLastHr  int       `json:"articles_scraped_last_hour"`
	ArticlesAnalyzedLastHr int       `json:"articles_analyzed_last_hour"`
	ScrapingSuccessRate    float64   `json:"scraping_success_rate"`
	AnalysisSuccessRate    float64   `json:"analysis_success_rate"`
	DatabaseSizeMB         float64   `json:"database_size_mb"`
	ResponseTimeMS         float64   `json:"response_time_ms"`
	ErrorCountLastHr       int       `json:"error_count_last_hour"`
}

func toMetricsDTO(m *entity.SystemMetrics) MetricsDTO {
	return MetricsDTO{
		Timestamp:              m.Timestamp,
		ArticlesScrapedLastHr:  m.ArticlesScrapedLastHr,
		ArticlesAnalyzedLastHr: m.ArticlesAnalyzedLastHr,
		ScrapingSuccessRate:    m.ScrapingSuccessRate,
		AnalysisSuccessRate:    m.AnalysisSuccessRate,
		DatabaseSizeMB:         m.DatabaseSizeMB,
		ResponseTimeMS:         m.ResponseTimeMS,
		ErrorCountLastHr:       m.ErrorCountLastHr,
	}
}

// AlertDTO is one monitoring alert.
type AlertDTO struct {
	ID         string     `json:"id"`
	Level      string     `json:"level" example:"warning"`
	Title      string     `json:"title"`
	Message    string     `json:"message"`
	Source     string     `json:"source"`
	CreatedAt  time.Time  `json:"created_at"`
	Resolved   bool       `json:"resolved"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`
}

func toAlertDTO(a *entity.Alert) AlertDTO {
	return AlertDTO{
		ID:         a.ID,
		Level:      a.Level,
		Title:      a.Title,
		Message:    a.Message,
		Source:     a.Source,
		CreatedAt:  a.CreatedAt,
		Resolved:   a.Resolved,
		ResolvedAt: a.ResolvedAt,
	}
}

// HealthStatusDTO is the rolled-up pipeline health.
type HealthStatusDTO struct {
	Status       string `json:"status" example:"healthy"`
	ActiveAlerts int    `json:"active_alerts"`
}

package entity

import "time"

// Alert severity levels, ordered from least to most severe.
const (
	AlertLevelInfo     = "info"
	AlertLevelWarning  = "warning"
	AlertLevelError    = "error"
	AlertLevelCritical = "critical"
)

// Alert represents a system alert raised by the monitoring service.
type Alert struct {
	ID         string
	Level      string
	Title      string
	Message    string
	Source     string
	CreatedAt  time.Time
	Resolved   bool
	ResolvedAt *time.Time
}

// SystemMetrics is one sample of pipeline health recorded by the monitor.
type SystemMetrics struct {
	Timestamp              time.Time
	ArticlesScrapedLastHr  int
	ArticlesAnalyzedLastHr int
	ScrapingSuccessRate    float64
	AnalysisSuccessRate    float64
	DatabaseSizeMB         float64
	ResponseTimeMS         float64
	ErrorCountLastHr       int
}

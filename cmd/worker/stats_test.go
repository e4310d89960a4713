package main

import (
	"errors"
	"testing"
	"time"

	analyzeUC "github.com/perashanid/Media-bias/internal/usecase/analyze"
	scrapeUC "github.com/perashanid/Media-bias/internal/usecase/scrape"
)

func TestFailedSources(t *testing.T) {
	reports := []scrapeUC.RunReport{
		{Source: "prothom_alo", Stored: 5},
		{Source: "daily_star", Err: errors.New("fetch failed")},
		{Source: "ekattor_tv", Err: errors.New("fetch failed")},
	}
	if got := failedSources(reports); got != 2 {
		t.Fatalf("failedSources = %d, want 2", got)
	}
	if failed := failedSources(reports); failed*2 <= len(reports) {
		t.Fatal("two of three failures should count as a majority")
	}

	ok := []scrapeUC.RunReport{
		{Source: "prothom_alo", Stored: 5},
		{Source: "daily_star", Err: errors.New("fetch failed")},
	}
	if failed := failedSources(ok); failed*2 > len(ok) {
		t.Fatal("half the sources failing is not a majority")
	}
}

func TestPipelineStats_DailyCounters(t *testing.T) {
	stats := &pipelineStats{
		now: func() time.Time {
			return time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC)
		},
	}

	stats.recordScrapeRun([]scrapeUC.RunReport{
		{Source: "prothom_alo", Stored: 4},
		{Source: "daily_star", Stored: 3},
		{Source: "ekattor_tv", Err: errors.New("fetch failed")},
	})
	stats.recordAnalyzeRun(analyzeUC.BatchResult{Analyzed: 6, Failed: 2})
	stats.recordAnalyzeFailure()

	daily := stats.dailySnapshot()
	if daily.Date != "2026-08-25" {
		t.Fatalf("date = %s, want 2026-08-25", daily.Date)
	}
	if daily.ArticlesScraped != 7 {
		t.Fatalf("articles scraped = %d, want 7", daily.ArticlesScraped)
	}
	if daily.ArticlesAnalyzed != 6 {
		t.Fatalf("articles analyzed = %d, want 6", daily.ArticlesAnalyzed)
	}
	if daily.ScrapingErrors != 1 {
		t.Fatalf("scraping errors = %d, want 1", daily.ScrapingErrors)
	}
	if daily.AnalysisErrors != 3 {
		t.Fatalf("analysis errors = %d, want 3", daily.AnalysisErrors)
	}
}

func TestPipelineStats_DailyRollover(t *testing.T) {
	current := time.Date(2026, 8, 25, 23, 0, 0, 0, time.UTC)
	stats := &pipelineStats{now: func() time.Time { return current }}

	stats.recordScrapeRun([]scrapeUC.RunReport{{Source: "prothom_alo", Stored: 9}})
	if daily := stats.dailySnapshot(); daily.ArticlesScraped != 9 {
		t.Fatalf("articles scraped = %d, want 9", daily.ArticlesScraped)
	}

	current = current.Add(2 * time.Hour) // past midnight UTC
	stats.recordScrapeRun([]scrapeUC.RunReport{{Source: "prothom_alo", Stored: 2}})

	daily := stats.dailySnapshot()
	if daily.Date != "2026-08-26" {
		t.Fatalf("date = %s, want 2026-08-26", daily.Date)
	}
	if daily.ArticlesScraped != 2 || daily.ScrapingErrors != 0 {
		t.Fatalf("counters not reset at midnight: %+v", daily)
	}
}

func TestPipelineStats_SnapshotResetsErrors(t *testing.T) {
	stats := &pipelineStats{}

	runStats := stats.snapshot()
	if runStats.ScrapingSuccessRate != 100 || runStats.AnalysisSuccessRate != 100 {
		t.Fatalf("fresh worker should report full success, got %+v", runStats)
	}

	stats.recordScrapeFailure()
	stats.recordAnalyzeFailure()
	runStats = stats.snapshot()
	if runStats.ScrapingSuccessRate != 0 || runStats.AnalysisSuccessRate != 0 {
		t.Fatalf("failures should zero the rates, got %+v", runStats)
	}
	if runStats.ErrorCountLastHr != 2 {
		t.Fatalf("error count = %d, want 2", runStats.ErrorCountLastHr)
	}
	if stats.snapshot().ErrorCountLastHr != 0 {
		t.Fatal("snapshot should reset the error counter")
	}
}

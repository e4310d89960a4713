package metrics

import (
	"time"
)

// RecordArticlesScraped records the number of new articles stored for a source.
func RecordArticlesScraped(sourceKey string, count int) {
	if count <= 0 {
		return
	}
	ArticlesScrapedTotal.WithLabelValues(sourceKey).Add(float64(count))
}

// RecordScrapeDuration records the time taken to scrape one source.
func RecordScrapeDuration(sourceKey string, duration time.Duration) {
	ScrapeDuration.WithLabelValues(sourceKey).Observe(duration.Seconds())
}

// RecordScrapeError records a failed scrape run for a source.
// ErrorType should describe the failure class (e.g., "fetch", "parse", "store").
func RecordScrapeError(sourceKey, errorType string) {
	ScrapeErrors.WithLabelValues(sourceKey, errorType).Inc()
}

// RecordArticleAnalyzed records the result of one article analysis.
// Status should be either "success" or "failure".
func RecordArticleAnalyzed(success bool) {
	status := "success"
	if !success {
		status = "failure"
	}
	ArticlesAnalyzedTotal.WithLabelValues(status).Inc()
}

// RecordAnalysisDuration records the time taken to score one article.
func RecordAnalysisDuration(duration time.Duration) {
	AnalysisDuration.Observe(duration.Seconds())
}

// RecordComparisonReport records a generated comparison report.
func RecordComparisonReport() {
	ComparisonReportsTotal.Inc()
}

// UpdateArticlesTotal updates the total count of articles in the database.
// This gauge should be updated periodically to reflect the current state.
func UpdateArticlesTotal(count int) {
	ArticlesTotal.Set(float64(count))
}

// UpdateArticlesAnalyzed updates the count of articles carrying bias scores.
func UpdateArticlesAnalyzed(count int) {
	ArticlesAnalyzedGauge.Set(float64(count))
}

// UpdateSourcesTotal updates the total count of sources in the registry.
// This gauge should be updated periodically to reflect the current state.
func UpdateSourcesTotal(count int) {
	SourcesTotal.Set(float64(count))
}

// RecordContentFetchSuccess records a successful content fetch operation.
// This tracks both the duration and size of fetched content.
//
// Example:
//
//	start := time.Now()
//	content, err := fetcher.FetchContent(ctx, url)
//	if err == nil {
//	    RecordContentFetchSuccess(time.Since(start), len(content))
//	}
func RecordContentFetchSuccess(duration time.Duration, size int) {
	ContentFetchAttemptsTotal.WithLabelValues("success").Inc()
	ContentFetchDuration.Observe(duration.Seconds())
	ContentFetchSize.Observe(float64(size))
}

// RecordContentFetchFailed records a failed content fetch operation.
func RecordContentFetchFailed(duration time.Duration) {
	ContentFetchAttemptsTotal.WithLabelValues("failure").Inc()
	ContentFetchDuration.Observe(duration.Seconds())
}

// RecordContentFetchSkipped records a skipped content fetch. This occurs
// when the scraped content is already long enough and fetching is
// unnecessary.
func RecordContentFetchSkipped() {
	ContentFetchAttemptsTotal.WithLabelValues("skipped").Inc()
}

// RecordDBQuery records the duration of a database query operation.
// Operation should describe the query type (e.g., "select_articles", "insert_article").
func RecordDBQuery(operation string, duration time.Duration) {
	DBQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// UpdateDBConnectionStats updates database connection pool statistics.
func UpdateDBConnectionStats(active, idle int) {
	DBConnectionsActive.Set(float64(active))
	DBConnectionsIdle.Set(float64(idle))
}

// Package metrics provides Prometheus metrics registry and recording
// utilities for the ingestion and analysis pipeline.
//
// This package centralizes pipeline metrics including:
//   - Scrape metrics (articles stored, run duration, errors per source)
//   - Analysis metrics (scored articles, scoring duration)
//   - Content fetch metrics (readability fallback attempts, size)
//   - Database query metrics and connection pool gauges
//
// HTTP surface metrics (request counts, latency, sizes) are recorded by
// the handler layer, not here.
//
// All metrics are automatically registered with the Prometheus default
// registry and exposed via the /metrics endpoint.
//
// Example usage:
//
//	import "github.com/perashanid/Media-bias/internal/observability/metrics"
//
//	func scrapeSource(key string) {
//	    start := time.Now()
//	    // ... scrape and store articles ...
//	    stored := 10
//
//	    metrics.RecordArticlesScraped(key, stored)
//	    metrics.RecordScrapeDuration(key, time.Since(start))
//	}
package metrics

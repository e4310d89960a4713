package scrape

import "errors"

// Sentinel errors for scrape use case operations.
var (
	// ErrSourceNotFound indicates the requested source is not registered.
	ErrSourceNotFound = errors.New("source not found")

	// ErrSourceDisabled indicates the source exists but is disabled.
	ErrSourceDisabled = errors.New("source is disabled")

	// ErrNoEnabledSources indicates a scrape-all run found nothing to do.
	ErrNoEnabledSources = errors.New("no enabled sources")

	// ErrURLScrapeUnsupported indicates the configured factory cannot
	// build scrapers for arbitrary URLs.
	ErrURLScrapeUnsupported = errors.New("single-URL scraping not supported")
)

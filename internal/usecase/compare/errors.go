// Package compare provides use cases for cross-outlet coverage
// comparison: matching related articles, quantifying bias differences
// and building comparison reports.
package compare

import "errors"

// Sentinel errors for comparison use case operations.
var (
	// ErrArticleNotFound indicates a referenced article was not found.
	ErrArticleNotFound = errors.New("article not found")

	// ErrReportNotFound indicates the requested report was not found.
	ErrReportNotFound = errors.New("report not found")

	// ErrNotEnoughArticles indicates a comparison needs at least two
	// articles.
	ErrNotEnoughArticles = errors.New("comparison requires at least two articles")

	// ErrNoRelatedCoverage indicates no other outlet covered the story
	// within the window.
	ErrNoRelatedCoverage = errors.New("no related coverage found")
)

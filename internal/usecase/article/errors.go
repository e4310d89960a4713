// Package article provides use cases for storing and querying scraped
// articles, including duplicate detection and collection statistics.
package article

import "errors"

// Sentinel errors for article use case operations.
var (
	// ErrArticleNotFound indicates that the requested article was not found.
	ErrArticleNotFound = errors.New("article not found")

	// ErrInvalidArticleID indicates that the provided article ID is invalid.
	// Article IDs must be positive integers.
	ErrInvalidArticleID = errors.New("invalid article ID")

	// ErrDuplicateArticle indicates that an article with the same URL or
	// content hash is already stored.
	ErrDuplicateArticle = errors.New("article already stored")
)

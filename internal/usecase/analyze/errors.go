// Package analyze provides use cases for running bias analysis over
// stored articles and recording the resulting scores.
package analyze

import "errors"

// Sentinel errors for analysis use case operations.
var (
	// ErrArticleNotFound indicates the article to analyze was not found.
	ErrArticleNotFound = errors.New("article not found")

	// ErrEmptyText indicates there was no text to analyze.
	ErrEmptyText = errors.New("no text to analyze")

	// ErrNoArticleIDs indicates a batch request named no articles.
	ErrNoArticleIDs = errors.New("no article ids")

	// ErrTooManyArticleIDs indicates a batch request exceeded the ID cap.
	ErrTooManyArticleIDs = errors.New("too many article ids")
)

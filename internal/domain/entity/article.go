// Package entity defines the core domain entities and validation logic for the application.
// It contains the fundamental business objects such as Article, BiasScore and
// ComparisonReport, along with their validation rules and domain-specific errors.
package entity

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Canonical language identifiers used across the analysis pipeline.
const (
	LanguageEnglish = "english"
	LanguageBengali = "bengali"
	LanguageMixed   = "mixed"
	LanguageUnknown = "unknown"
)

// Article represents a scraped news article in the system.
// ContentHash is a hex SHA-256 digest over title, content and source name,
// used together with the URL for duplicate detection.
type Article struct {
	ID              int64
	URL             string
	Title           string
	Content         string
	Author          string
	Source          string
	Language        string
	ContentHash     string
	Topics          []string
	PublicationDate time.Time
	ScrapedAt       time.Time
	BiasScores      *BiasScore
}

// ComputeContentHash returns the hex SHA-256 digest of the article's
// title, content and source name concatenated in that order.
func (a *Article) ComputeContentHash() string {
	h := sha256.Sum256([]byte(a.Title + a.Content + a.Source))
	return hex.EncodeToString(h[:])
}

// EnsureContentHash fills ContentHash if it has not been set yet.
func (a *Article) EnsureContentHash() {
	if a.ContentHash == "" {
		a.ContentHash = a.ComputeContentHash()
	}
}

// Validate checks that the article carries the minimum fields required
// before it may be persisted.
func (a *Article) Validate() error {
	if err := ValidateURL(a.URL); err != nil {
		return err
	}
	if a.Title == "" {
		return &ValidationError{Field: "title", Message: "title is required"}
	}
	if a.Source == "" {
		return &ValidationError{Field: "source", Message: "source is required"}
	}
	return nil
}

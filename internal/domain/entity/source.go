package entity

import (
	"fmt"
	"time"
)

// Source types supported by the scraper factory.
const (
	SourceTypeHTML = "html"
	SourceTypeRSS  = "rss"
)

// Source describes a news outlet the scraper framework knows how to crawl.
// Key is the stable registry identifier (e.g. "prothom_alo"), Name the
// human-readable outlet name stored on articles.
type Source struct {
	ID            int64
	Key           string
	Name          string
	BaseURL       string
	FeedURL       string
	Language      string
	SourceType    string
	Enabled       bool
	LastCrawledAt *time.Time
}

// Validate validates the Source entity fields.
func (s *Source) Validate() error {
	if s.SourceType == "" {
		s.SourceType = SourceTypeHTML
	}
	if s.SourceType != SourceTypeHTML && s.SourceType != SourceTypeRSS {
		return fmt.Errorf("invalid source_type: %s (must be html or rss)", s.SourceType)
	}
	if s.Key == "" {
		return &ValidationError{Field: "key", Message: "source key is required"}
	}
	if s.SourceType == SourceTypeRSS && s.FeedURL == "" {
		return &ValidationError{Field: "feed_url", Message: "feed_url is required for RSS sources"}
	}
	if err := ValidateURL(s.BaseURL); err != nil {
		return err
	}
	return nil
}

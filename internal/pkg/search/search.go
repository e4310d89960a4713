// Package search holds shared helpers for keyword search queries.
package search

import (
	"errors"
	"strings"
	"time"
)

// DefaultSearchTimeout bounds keyword search queries.
const DefaultSearchTimeout = 5 * time.Second

// Limits applied to parsed keyword lists.
const (
	DefaultMaxKeywordCount  = 10
	DefaultMaxKeywordLength = 100
)

// Keyword parsing errors.
var (
	ErrNoKeywords      = errors.New("no keywords provided")
	ErrTooManyKeywords = errors.New("too many keywords")
	ErrKeywordTooLong  = errors.New("keyword too long")
)

// ParseKeywords splits a raw comma-separated keyword string, trims
// whitespace and drops empty entries. Returns an error when the list is
// empty, exceeds maxCount, or any keyword exceeds maxLength.
func ParseKeywords(raw string, maxCount, maxLength int) ([]string, error) {
	parts := strings.Split(raw, ",")
	keywords := make([]string, 0, len(parts))
	for _, p := range parts {
		kw := strings.TrimSpace(p)
		if kw == "" {
			continue
		}
		if len(kw) > maxLength {
			return nil, ErrKeywordTooLong
		}
		keywords = append(keywords, kw)
	}
	if len(keywords) == 0 {
		return nil, ErrNoKeywords
	}
	if len(keywords) > maxCount {
		return nil, ErrTooManyKeywords
	}
	return keywords, nil
}

// EscapeILIKE escapes LIKE wildcards in a keyword and wraps it for a
// contains match.
func EscapeILIKE(keyword string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + replacer.Replace(keyword) + "%"
}

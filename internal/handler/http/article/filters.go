package article

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/perashanid/Media-bias/internal/repository"
)

// parseDate accepts RFC 3339 timestamps and bare dates (2006-01-02).
func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: use RFC 3339 or YYYY-MM-DD", value)
	}
	return t, nil
}

// parseFilters reads the optional source, topic, from and to query
// parameters shared by the list and search endpoints.
func parseFilters(r *http.Request) (repository.ArticleFilters, error) {
	var filters repository.ArticleFilters
	q := r.URL.Query()

	if source := q.Get("source"); source != "" {
		filters.Source = &source
	}
	if topic := q.Get("topic"); topic != "" {
		filters.Topic = &topic
	}
	if fromStr := q.Get("from"); fromStr != "" {
		from, err := parseDate(fromStr)
		if err != nil {
			return filters, fmt.Errorf("invalid from date: %w", err)
		}
		filters.From = &from
	}
	if toStr := q.Get("to"); toStr != "" {
		to, err := parseDate(toStr)
		if err != nil {
			return filters, fmt.Errorf("invalid to date: %w", err)
		}
		filters.To = &to
	}
	if filters.From != nil && filters.To != nil && filters.From.After(*filters.To) {
		return filters, errors.New("invalid date range: from must not be after to")
	}
	return filters, nil
}

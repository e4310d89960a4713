// Package scrape provides use cases for collecting articles from the
// supported news outlets and storing them for analysis.
package scrape

import (
	"context"
	"errors"

	"github.com/perashanid/Media-bias/internal/domain/entity"
)

// ArticleScraper collects articles from one news outlet.
//
// Implementations must rate-limit their own requests and tolerate partial
// failure: a page that cannot be parsed is skipped, not fatal.
type ArticleScraper interface {
	// Source returns the outlet key this scraper serves.
	Source() string

	// DiscoverURLs finds up to limit candidate article URLs from the
	// outlet's landing pages, category pages or sitemaps.
	DiscoverURLs(ctx context.Context, limit int) ([]string, error)

	// ScrapeArticle fetches and extracts a single article.
	ScrapeArticle(ctx context.Context, url string) (*entity.Article, error)

	// ScrapeLatest discovers and scrapes up to limit fresh articles.
	ScrapeLatest(ctx context.Context, limit int) ([]*entity.Article, error)
}

// ContentFetcher extracts full article text from a URL. Used as a
// fallback when selector-based extraction yields thin content.
//
// Implementations must prevent SSRF, enforce body size limits and
// validate redirect targets.
type ContentFetcher interface {
	FetchContent(ctx context.Context, url string) (string, error)
}

// Sentinel errors shared by scraper implementations.
var (
	// ErrInvalidURL indicates the URL is malformed or uses a scheme other
	// than http/https.
	ErrInvalidURL = errors.New("invalid URL or unsupported scheme")

	// ErrPrivateIP indicates the URL resolves to a private address.
	ErrPrivateIP = errors.New("private IP access denied (SSRF prevention)")

	// ErrTooManyRedirects indicates the redirect chain exceeded the
	// configured maximum.
	ErrTooManyRedirects = errors.New("too many redirects")

	// ErrBodyTooLarge indicates the response exceeded the size limit.
	ErrBodyTooLarge = errors.New("response body too large")

	// ErrTimeout indicates the request exceeded its deadline.
	ErrTimeout = errors.New("request timeout")

	// ErrNoContent indicates a page yielded no usable article text.
	ErrNoContent = errors.New("no article content extracted")

	// ErrUnknownSource indicates no scraper is registered for a source key.
	ErrUnknownSource = errors.New("unknown source")

	// ErrReadabilityFailed indicates fallback content extraction failed.
	ErrReadabilityFailed = errors.New("content extraction failed")
)

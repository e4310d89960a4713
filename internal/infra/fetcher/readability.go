package fetcher

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	readability "github.com/go-shiori/go-readability"

	"github.com/perashanid/Media-bias/internal/observability/metrics"
	"github.com/perashanid/Media-bias/internal/resilience/circuitbreaker"
	"github.com/perashanid/Media-bias/internal/usecase/scrape"
)

// ReadabilityFetcher implements scrape.ContentFetcher using the Mozilla
// Readability algorithm. Requests go through a circuit breaker and every
// redirect target is re-validated against the SSRF policy.
//
// Safe for concurrent use.
type ReadabilityFetcher struct {
	client *http.Client
	cb     *circuitbreaker.CircuitBreaker
	config ContentFetchConfig
}

// NewReadabilityFetcher creates a fetcher with the given configuration.
func NewReadabilityFetcher(config ContentFetchConfig) *ReadabilityFetcher {
	f := &ReadabilityFetcher{
		cb: circuitbreaker.New(circuitbreaker.Config{
			Name:             "content-fetch",
			MaxRequests:      5,
			Interval:         60 * time.Second,
			Timeout:          60 * time.Second,
			FailureThreshold: 0.6,
			MinRequests:      5,
		}),
		config: config,
	}

	f.client = &http.Client{
		Timeout: 30 * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= f.config.MaxRedirects {
				return fmt.Errorf("%w: %d redirects", scrape.ErrTooManyRedirects, len(via))
			}
			if err := validateURL(req.URL.String(), f.config.DenyPrivateIPs); err != nil {
				return fmt.Errorf("redirect target validation failed: %w", err)
			}
			return nil
		},
	}
	return f
}

// FetchContent fetches a page and extracts its readable article text.
func (f *ReadabilityFetcher) FetchContent(ctx context.Context, urlStr string) (string, error) {
	if err := validateURL(urlStr, f.config.DenyPrivateIPs); err != nil {
		return "", err
	}

	start := time.Now()
	result, err := f.cb.Execute(func() (interface{}, error) {
		return f.doFetch(ctx, urlStr)
	})
	if err != nil {
		metrics.RecordContentFetchFailed(time.Since(start))
		return "", err
	}
	content := result.(string)
	metrics.RecordContentFetchSuccess(time.Since(start), len(content))
	return content, nil
}

func (f *ReadabilityFetcher) doFetch(ctx context.Context, urlStr string) (interface{}, error) {
	reqCtx, cancel := context.WithTimeout(ctx, f.config.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, urlStr, nil)
	if err != nil {
		return "", fmt.Errorf("%w: failed to create request: %v", scrape.ErrInvalidURL, err)
	}
	req.Header.Set("User-Agent", "MediaBiasBot/1.0")

	resp, err := f.client.Do(req)
	if err != nil {
		if errors.Is(reqCtx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("%w: request exceeded %v", scrape.ErrTimeout, f.config.Timeout)
		}
		var urlErr *url.Error
		if errors.As(err, &urlErr) && urlErr.Err != nil {
			return "", urlErr.Err
		}
		return "", fmt.Errorf("HTTP request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	limited := io.LimitReader(resp.Body, f.config.MaxBodySize+1)
	htmlBytes, err := io.ReadAll(limited)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}
	if int64(len(htmlBytes)) > f.config.MaxBodySize {
		return "", fmt.Errorf("%w: response size %d bytes exceeds limit %d bytes",
			scrape.ErrBodyTooLarge, len(htmlBytes), f.config.MaxBodySize)
	}

	// Redirects may have moved the page; readability resolves relative
	// links against the final URL.
	finalURL, err := url.Parse(urlStr)
	if err != nil {
		finalURL = nil
	}
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL
	}

	article, err := readability.FromReader(bytes.NewReader(htmlBytes), finalURL)
	if err != nil {
		return "", fmt.Errorf("%w: %v", scrape.ErrReadabilityFailed, err)
	}

	if article.TextContent == "" {
		if article.Content == "" {
			return "", fmt.Errorf("%w: no readable content found", scrape.ErrReadabilityFailed)
		}
		return article.Content, nil
	}
	return article.TextContent, nil
}

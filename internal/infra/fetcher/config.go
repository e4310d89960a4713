// Package fetcher extracts full article text from web pages using the
// Mozilla Readability algorithm. The scrapers use it as a fallback when
// selector-based extraction yields thin content.
package fetcher

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// ContentFetchConfig controls the readability fetcher.
type ContentFetchConfig struct {
	// Enabled toggles the fallback without redeployment. When false the
	// scrapers keep whatever their selectors extracted.
	Enabled bool

	// Threshold is the content length below which the fallback kicks in.
	Threshold int

	// Timeout bounds a single fetch request.
	Timeout time.Duration

	// Parallelism caps concurrent fetches.
	Parallelism int

	// MaxBodySize rejects oversized responses.
	MaxBodySize int64

	// MaxRedirects bounds the redirect chain; each hop is re-validated.
	MaxRedirects int

	// DenyPrivateIPs blocks URLs resolving to private addresses.
	DenyPrivateIPs bool
}

// DefaultConfig returns production defaults for the readability fetcher.
func DefaultConfig() ContentFetchConfig {
	return ContentFetchConfig{
		Enabled:        true,
		Threshold:      1500,
		Timeout:        10 * time.Second,
		Parallelism:    10,
		MaxBodySize:    10 * 1024 * 1024, // 10MB
		MaxRedirects:   5,
		DenyPrivateIPs: true,
	}
}

// Validate checks the configuration for unsafe or broken values.
func (c *ContentFetchConfig) Validate() error {
	if c.Threshold < 0 {
		return fmt.Errorf("threshold must be non-negative, got %d", c.Threshold)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", c.Timeout)
	}
	if c.Parallelism < 1 || c.Parallelism > 50 {
		return fmt.Errorf("parallelism must be between 1 and 50, got %d", c.Parallelism)
	}
	if c.MaxBodySize < 1024 || c.MaxBodySize > 100*1024*1024 {
		return fmt.Errorf("max body size must be between 1KB and 100MB, got %d", c.MaxBodySize)
	}
	if c.MaxRedirects < 0 || c.MaxRedirects > 10 {
		return fmt.Errorf("max redirects must be between 0 and 10, got %d", c.MaxRedirects)
	}
	return nil
}

// LoadConfigFromEnv loads fetcher configuration from environment
// variables, falling back to defaults for unset values.
//
// Environment variables:
//   - CONTENT_FETCH_ENABLED: "true" or "false"
//   - CONTENT_FETCH_THRESHOLD: integer
//   - CONTENT_FETCH_TIMEOUT: duration, e.g. "10s"
//   - CONTENT_FETCH_PARALLELISM: integer
//   - CONTENT_FETCH_MAX_BODY_SIZE: bytes
//   - CONTENT_FETCH_MAX_REDIRECTS: integer
//   - CONTENT_FETCH_DENY_PRIVATE_IPS: "true" or "false"
func LoadConfigFromEnv() (ContentFetchConfig, error) {
	cfg := DefaultConfig()

	if val := os.Getenv("CONTENT_FETCH_ENABLED"); val != "" {
		cfg.Enabled = val == "true"
	}
	if val := os.Getenv("CONTENT_FETCH_THRESHOLD"); val != "" {
		parsed, err := strconv.Atoi(val)
		if err != nil {
			return cfg, fmt.Errorf("invalid CONTENT_FETCH_THRESHOLD: %v", err)
		}
		cfg.Threshold = parsed
	}
	if val := os.Getenv("CONTENT_FETCH_TIMEOUT"); val != "" {
		parsed, err := time.ParseDuration(val)
		if err != nil {
			return cfg, fmt.Errorf("invalid CONTENT_FETCH_TIMEOUT: %v", err)
		}
		cfg.Timeout = parsed
	}
	if val := os.Getenv("CONTENT_FETCH_PARALLELISM"); val != "" {
		parsed, err := strconv.Atoi(val)
		if err != nil {
			return cfg, fmt.Errorf("invalid CONTENT_FETCH_PARALLELISM: %v", err)
		}
		cfg.Parallelism = parsed
	}
	if val := os.Getenv("CONTENT_FETCH_MAX_BODY_SIZE"); val != "" {
		parsed, err := strconv.ParseInt(val, 10, 64)
		if err != nil {
			return cfg, fmt.Errorf("invalid CONTENT_FETCH_MAX_BODY_SIZE: %v", err)
		}
		cfg.MaxBodySize = parsed
	}
	if val := os.Getenv("CONTENT_FETCH_MAX_REDIRECTS"); val != "" {
		parsed, err := strconv.Atoi(val)
		if err != nil {
			return cfg, fmt.Errorf("invalid CONTENT_FETCH_MAX_REDIRECTS: %v", err)
		}
		cfg.MaxRedirects = parsed
	}
	if val := os.Getenv("CONTENT_FETCH_DENY_PRIVATE_IPS"); val != "" {
		cfg.DenyPrivateIPs = val == "true"
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

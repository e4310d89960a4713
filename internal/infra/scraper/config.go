// Package scraper implements article collection from the supported
// Bangladeshi news outlets. A config-driven HTML scraper covers the
// selector-based outlets; feed sources go through the RSS scraper.
package scraper

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds HTTP behavior shared by every scraper instance.
type Config struct {
	// Timeout is the per-request deadline.
	Timeout time.Duration

	// MaxRetries bounds retry attempts per request.
	MaxRetries int

	// MinDelay and MaxDelay bound the randomized politeness delay
	// between requests to the same outlet.
	MinDelay time.Duration
	MaxDelay time.Duration

	// MaxBodySize rejects oversized responses.
	MaxBodySize int64

	// MaxRedirects bounds the redirect chain.
	MaxRedirects int

	// DenyPrivateIPs blocks URLs resolving to private addresses.
	DenyPrivateIPs bool

	// ArticlesPerSource caps how many articles one scrape run collects.
	ArticlesPerSource int
}

// DefaultConfig returns production defaults. The generous timeout and
// slow request pacing match what the target sites tolerate.
func DefaultConfig() Config {
	return Config{
		Timeout:           45 * time.Second,
		MaxRetries:        3,
		MinDelay:          2 * time.Second,
		MaxDelay:          4 * time.Second,
		MaxBodySize:       10 * 1024 * 1024, // 10MB
		MaxRedirects:      5,
		DenyPrivateIPs:    true,
		ArticlesPerSource: 20,
	}
}

// Validate checks the configuration for values that would break
// scraping or hammer the target sites.
func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", c.Timeout)
	}
	if c.MaxRetries < 0 || c.MaxRetries > 10 {
		return fmt.Errorf("max retries must be between 0 and 10, got %d", c.MaxRetries)
	}
	if c.MinDelay < 0 || c.MaxDelay < c.MinDelay {
		return fmt.Errorf("delay range invalid: min=%v max=%v", c.MinDelay, c.MaxDelay)
	}
	if c.MaxBodySize < 1024 || c.MaxBodySize > 100*1024*1024 {
		return fmt.Errorf("max body size must be between 1KB and 100MB, got %d", c.MaxBodySize)
	}
	if c.MaxRedirects < 0 || c.MaxRedirects > 10 {
		return fmt.Errorf("max redirects must be between 0 and 10, got %d", c.MaxRedirects)
	}
	if c.ArticlesPerSource < 1 || c.ArticlesPerSource > 200 {
		return fmt.Errorf("articles per source must be between 1 and 200, got %d", c.ArticlesPerSource)
	}
	return nil
}

// LoadConfigFromEnv loads scraper configuration from environment
// variables, falling back to defaults for unset values.
//
// Environment variables:
//   - SCRAPER_TIMEOUT: duration, e.g. "45s"
//   - SCRAPER_MAX_RETRIES: integer
//   - SCRAPER_MIN_DELAY / SCRAPER_MAX_DELAY: durations
//   - SCRAPER_MAX_BODY_SIZE: bytes
//   - SCRAPER_MAX_REDIRECTS: integer
//   - SCRAPER_DENY_PRIVATE_IPS: "true" or "false"
//   - SCRAPER_ARTICLES_PER_SOURCE: integer
func LoadConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()

	if val := os.Getenv("SCRAPER_TIMEOUT"); val != "" {
		parsed, err := time.ParseDuration(val)
		if err != nil {
			return cfg, fmt.Errorf("invalid SCRAPER_TIMEOUT: %v", err)
		}
		cfg.Timeout = parsed
	}
	if val := os.Getenv("SCRAPER_MAX_RETRIES"); val != "" {
		parsed, err := strconv.Atoi(val)
		if err != nil {
			return cfg, fmt.Errorf("invalid SCRAPER_MAX_RETRIES: %v", err)
		}
		cfg.MaxRetries = parsed
	}
	if val := os.Getenv("SCRAPER_MIN_DELAY"); val != "" {
		parsed, err := time.ParseDuration(val)
		if err != nil {
			return cfg, fmt.Errorf("invalid SCRAPER_MIN_DELAY: %v", err)
		}
		cfg.MinDelay = parsed
	}
	if val := os.Getenv("SCRAPER_MAX_DELAY"); val != "" {
		parsed, err := time.ParseDuration(val)
		if err != nil {
			return cfg, fmt.Errorf("invalid SCRAPER_MAX_DELAY: %v", err)
		}
		cfg.MaxDelay = parsed
	}
	if val := os.Getenv("SCRAPER_MAX_BODY_SIZE"); val != "" {
		parsed, err := strconv.ParseInt(val, 10, 64)
		if err != nil {
			return cfg, fmt.Errorf("invalid SCRAPER_MAX_BODY_SIZE: %v", err)
		}
		cfg.MaxBodySize = parsed
	}
	if val := os.Getenv("SCRAPER_MAX_REDIRECTS"); val != "" {
		parsed, err := strconv.Atoi(val)
		if err != nil {
			return cfg, fmt.Errorf("invalid SCRAPER_MAX_REDIRECTS: %v", err)
		}
		cfg.MaxRedirects = parsed
	}
	if val := os.Getenv("SCRAPER_DENY_PRIVATE_IPS"); val != "" {
		cfg.DenyPrivateIPs = val == "true"
	}
	if val := os.Getenv("SCRAPER_ARTICLES_PER_SOURCE"); val != "" {
		parsed, err := strconv.Atoi(val)
		if err != nil {
			return cfg, fmt.Errorf("invalid SCRAPER_ARTICLES_PER_SOURCE: %v", err)
		}
		cfg.ArticlesPerSource = parsed
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

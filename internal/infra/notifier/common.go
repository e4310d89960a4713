package notifier

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const requestIDKey contextKey = "request_id"

// Webhook error types shared by the alert delivery implementations.

// RateLimitError represents a 429 rate limit error from a webhook endpoint.
type RateLimitError struct {
	RetryAfter time.Duration
	Message    string // Optional custom message
}

func (e *RateLimitError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s (retry after %v)", e.Message, e.RetryAfter)
	}
	return fmt.Sprintf("rate limit exceeded (retry after %v)", e.RetryAfter)
}

// ClientError represents a 4xx client error from a webhook endpoint.
type ClientError struct {
	StatusCode int
	Message    string
}

func (e *ClientError) Error() string {
	return e.Message
}

// ServerError represents a 5xx server error from a webhook endpoint.
type ServerError struct {
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string {
	return e.Message
}

// is429Error checks if the error is a rate limit error and extracts retry_after.
func is429Error(err error) (*RateLimitError, bool) {
	var rateLimitErr *RateLimitError
	if errors.As(err, &rateLimitErr) {
		return rateLimitErr, true
	}
	return nil, false
}

// isRetryableError checks if the error is worth retrying (5xx server errors, network errors).
// Client errors (4xx) are not retryable except for rate limits (429).
func isRetryableError(err error) bool {
	var serverErr *ServerError
	if errors.As(err, &serverErr) {
		return true
	}

	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return false
	}

	// Rate limit errors are handled separately by is429Error
	var rateLimitErr *RateLimitError
	if errors.As(err, &rateLimitErr) {
		return false
	}

	// Network errors, context errors, etc. are retryable
	return true
}

// retryAfterBody matches the retry_after field some webhook endpoints
// return in their 429 response body.
type retryAfterBody struct {
	RetryAfter float64 `json:"retry_after"`
}

// extractRetryAfter determines the backoff for a 429 response: the JSON
// retry_after field first, then the Retry-After header, then a 5s default.
func extractRetryAfter(resp *http.Response, body []byte) time.Duration {
	var parsed retryAfterBody
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.RetryAfter > 0 {
		return time.Duration(parsed.RetryAfter * float64(time.Second))
	}

	if retryAfterHeader := resp.Header.Get("Retry-After"); retryAfterHeader != "" {
		if seconds, err := strconv.Atoi(retryAfterHeader); err == nil && seconds > 0 {
			return time.Duration(seconds) * time.Second
		}
	}

	return 5 * time.Second
}

// truncateMessage truncates text to maxLength characters.
// If truncated, appends suffix to indicate continuation.
func truncateMessage(text string, maxLength int, suffix string) string {
	if len(text) <= maxLength {
		return text
	}

	truncateAt := maxLength - len(suffix)
	if truncateAt < 0 {
		truncateAt = 0
	}

	return text[:truncateAt] + suffix
}

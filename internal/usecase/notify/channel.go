// Package notify dispatches monitoring alerts across delivery channels.
// It fans an alert out to every enabled channel with a worker pool,
// per-channel circuit breakers and Prometheus metrics.
package notify

import (
	"context"

	"github.com/perashanid/Media-bias/internal/domain/entity"
)

// Channel represents an alert delivery channel (webhook, chat integration, etc.).
// Each channel implementation handles its own rate limiting, retries, and
// error handling.
//
// Retry Policy Contract:
//   - Transient failures (5xx, network errors): Retry with backoff (max 2 attempts)
//   - Rate limits (429): Sleep for retry_after duration, then retry
//   - Client errors (4xx except 429): No retry
//   - Context timeout: No retry
//
// All methods must be safe for concurrent use by multiple goroutines.
type Channel interface {
	// Name returns the identifier of the channel (e.g., "webhook").
	// This is used for logging, metrics, and health check endpoints.
	Name() string

	// IsEnabled returns true if this channel is enabled via configuration.
	// Disabled channels are skipped during dispatching.
	IsEnabled() bool

	// Send delivers one alert to this channel.
	//
	// Implementations must respect context cancellation, apply rate
	// limiting, and retry transient failures according to the retry
	// policy. Returns a non-nil error if delivery failed after all
	// retries.
	Send(ctx context.Context, alert *entity.Alert) error
}

// Package notifier delivers monitoring alerts to external endpoints.
// It defines the AlertNotifier interface so different delivery mechanisms
// (generic webhooks, chat integrations, a no-op) can be swapped through
// dependency injection.
package notifier

import (
	"context"

	"github.com/perashanid/Media-bias/internal/domain/entity"
)

// AlertNotifier is an interface for delivering pipeline alerts.
// Implementations should handle rate limiting, retries, and error logging internally.
type AlertNotifier interface {
	// NotifyAlert delivers a single alert to the external endpoint.
	//
	// Implementations should:
	//   - Generate a unique request ID for tracing
	//   - Apply rate limiting to prevent endpoint abuse
	//   - Retry transient failures with backoff
	//   - Respect context cancellation
	//
	// Returns a non-nil error if delivery failed after all retry attempts.
	NotifyAlert(ctx context.Context, alert *entity.Alert) error
}

package notifier

import (
	"context"

	"github.com/perashanid/Media-bias/internal/domain/entity"
)

// NoOpNotifier is a no-operation implementation of the AlertNotifier interface.
// It is used when alert delivery is disabled to avoid null checks in the code.
// This follows the Null Object pattern.
type NoOpNotifier struct{}

// NewNoOpNotifier creates a new NoOpNotifier instance.
func NewNoOpNotifier() *NoOpNotifier {
	return &NoOpNotifier{}
}

// NotifyAlert does nothing and returns nil immediately.
// This allows alert delivery to be disabled without changing the code flow.
func (n *NoOpNotifier) NotifyAlert(ctx context.Context, alert *entity.Alert) error {
	// No-op: intentionally does nothing
	return nil
}

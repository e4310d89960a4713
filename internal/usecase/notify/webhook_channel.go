package notify

import (
	"context"
	"fmt"

	"github.com/perashanid/Media-bias/internal/domain/entity"
	"github.com/perashanid/Media-bias/internal/infra/notifier"
)

// WebhookChannel adapts a webhook AlertNotifier to the Channel interface.
type WebhookChannel struct {
	notifier notifier.AlertNotifier
	enabled  bool
}

// NewWebhookChannel creates a Channel backed by the given notifier.
func NewWebhookChannel(n notifier.AlertNotifier, enabled bool) *WebhookChannel {
	return &WebhookChannel{notifier: n, enabled: enabled}
}

// Name implements Channel.Name.
func (c *WebhookChannel) Name() string {
	return "webhook"
}

// IsEnabled implements Channel.IsEnabled.
func (c *WebhookChannel) IsEnabled() bool {
	return c.enabled
}

// Send implements Channel.Send.
func (c *WebhookChannel) Send(ctx context.Context, alert *entity.Alert) error {
	if !c.enabled {
		return ErrChannelDisabled
	}
	if alert == nil {
		return ErrInvalidAlert
	}
	if err := c.notifier.NotifyAlert(ctx, alert); err != nil {
		return fmt.Errorf("webhook delivery: %w", err)
	}
	return nil
}

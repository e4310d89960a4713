package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/perashanid/Media-bias/internal/domain/entity"
)

// WebhookConfig contains configuration for generic webhook alert delivery.
type WebhookConfig struct {
	// Enabled indicates whether webhook delivery is enabled
	Enabled bool

	// WebhookURL is the endpoint alerts are POSTed to
	WebhookURL string

	// Timeout is the HTTP request timeout for webhook calls
	Timeout time.Duration
}

// LoadWebhookConfigFromEnv builds a WebhookConfig from environment
// variables. Delivery is enabled when ALERT_WEBHOOK_URL is set.
//
// Environment variables:
//   - ALERT_WEBHOOK_URL: webhook endpoint
//   - ALERT_WEBHOOK_TIMEOUT_SECONDS: request timeout (default 10)
func LoadWebhookConfigFromEnv() WebhookConfig {
	cfg := WebhookConfig{
		WebhookURL: os.Getenv("ALERT_WEBHOOK_URL"),
		Timeout:    10 * time.Second,
	}
	cfg.Enabled = cfg.WebhookURL != ""

	if v := os.Getenv("ALERT_WEBHOOK_TIMEOUT_SECONDS"); v != "" {
		if seconds, err := strconv.Atoi(v); err == nil && seconds > 0 {
			cfg.Timeout = time.Duration(seconds) * time.Second
		}
	}
	return cfg
}

// WebhookNotifier delivers alerts to a generic JSON webhook endpoint.
type WebhookNotifier struct {
	config      WebhookConfig
	httpClient  *http.Client
	rateLimiter *RateLimiter
}

// NewWebhookNotifier creates a new WebhookNotifier with the specified configuration.
//
// The notifier is initialized with:
//   - HTTP client with configured timeout
//   - Rate limiter set to 1 request/second with burst of 1
func NewWebhookNotifier(config WebhookConfig) *WebhookNotifier {
	return &WebhookNotifier{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		rateLimiter: NewRateLimiter(1.0, 1),
	}
}

const (
	maxAlertMessageLength  = 2000
	webhookTruncationMark  = "..."
	webhookDeliveryRetries = 2
	webhookRetryBaseDelay  = 5 * time.Second
)

// alertPayload is the JSON body POSTed to the webhook endpoint.
type alertPayload struct {
	Level     string `json:"level"`
	Title     string `json:"title"`
	Message   string `json:"message"`
	Source    string `json:"source"`
	AlertID   string `json:"alert_id"`
	CreatedAt string `json:"created_at"`
}

func buildAlertPayload(alert *entity.Alert) alertPayload {
	return alertPayload{
		Level:     alert.Level,
		Title:     alert.Title,
		Message:   truncateMessage(alert.Message, maxAlertMessageLength, webhookTruncationMark),
		Source:    alert.Source,
		AlertID:   alert.ID,
		CreatedAt: alert.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// sendWebhookRequest POSTs the alert payload once.
//
// Error types:
//   - 429: Rate limit error (retryable, contains retry_after duration)
//   - 4xx (non-429): Client error (non-retryable)
//   - 5xx: Server error (retryable)
//   - Network error: Connection/timeout error (retryable)
func (w *WebhookNotifier) sendWebhookRequest(ctx context.Context, alert *entity.Alert) error {
	jsonData, err := json.Marshal(buildAlertPayload(alert))
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.config.WebhookURL, bytes.NewReader(jsonData))
	if err != nil {
		return fmt.Errorf("create http request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute http request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return &RateLimitError{
			Message:    "webhook rate limit exceeded",
			RetryAfter: extractRetryAfter(resp, body),
		}
	}

	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		return &ClientError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("webhook client error: %s", string(body)),
		}
	}

	if resp.StatusCode >= 500 {
		return &ServerError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("webhook server error: %s", string(body)),
		}
	}

	return fmt.Errorf("unexpected status code %d: %s", resp.StatusCode, string(body))
}

// sendWebhookRequestWithRetry delivers the alert with retry logic.
//
// Retry strategy:
//   - Max attempts: 2
//   - Base delay: 5 seconds
//   - 429 errors: Sleep for retry_after from the response, then retry
//   - Server errors (5xx): Exponential backoff (5s, 10s)
//   - Client errors (4xx): No retry, fail immediately
func (w *WebhookNotifier) sendWebhookRequestWithRetry(ctx context.Context, alert *entity.Alert) error {
	requestID, _ := ctx.Value(requestIDKey).(string)

	var lastErr error
	for attempt := 1; attempt <= webhookDeliveryRetries; attempt++ {
		err := w.sendWebhookRequest(ctx, alert)
		if err == nil {
			slog.Info("Alert webhook delivered",
				slog.String("request_id", requestID),
				slog.String("alert_id", alert.ID),
				slog.String("level", alert.Level),
				slog.Int("attempt", attempt))
			return nil
		}

		lastErr = err

		if rateLimitErr, ok := is429Error(err); ok {
			slog.Warn("Webhook rate limit hit, backing off",
				slog.String("request_id", requestID),
				slog.String("alert_id", alert.ID),
				slog.Duration("retry_after", rateLimitErr.RetryAfter),
				slog.Int("attempt", attempt))

			select {
			case <-time.After(rateLimitErr.RetryAfter):
				continue
			case <-ctx.Done():
				return fmt.Errorf("context canceled during rate limit backoff: %w", ctx.Err())
			}
		}

		if !isRetryableError(err) {
			slog.Error("Alert webhook failed with non-retryable error",
				slog.String("request_id", requestID),
				slog.String("alert_id", alert.ID),
				slog.Any("error", err),
				slog.Int("attempt", attempt))
			return err
		}

		if attempt < webhookDeliveryRetries {
			delay := webhookRetryBaseDelay * time.Duration(attempt)
			slog.Warn("Alert webhook request failed, retrying",
				slog.String("request_id", requestID),
				slog.String("alert_id", alert.ID),
				slog.Any("error", err),
				slog.Int("attempt", attempt),
				slog.Duration("delay", delay))

			select {
			case <-time.After(delay):
				continue
			case <-ctx.Done():
				return fmt.Errorf("context canceled during retry backoff: %w", ctx.Err())
			}
		}
	}

	slog.Error("Alert webhook failed after all retries",
		slog.String("request_id", requestID),
		slog.String("alert_id", alert.ID),
		slog.Any("error", lastErr),
		slog.Int("max_attempts", webhookDeliveryRetries))

	return fmt.Errorf("webhook delivery failed after %d attempts: %w", webhookDeliveryRetries, lastErr)
}

// NotifyAlert implements the AlertNotifier interface.
//
// It performs the following steps:
//  1. Generate unique request_id for tracing
//  2. Apply rate limiting (1 req/s, burst of 1)
//  3. POST the alert with retry logic
func (w *WebhookNotifier) NotifyAlert(ctx context.Context, alert *entity.Alert) error {
	requestID := uuid.New().String()
	ctx = context.WithValue(ctx, requestIDKey, requestID)

	slog.Info("Starting alert webhook delivery",
		slog.String("request_id", requestID),
		slog.String("alert_id", alert.ID),
		slog.String("level", alert.Level),
		slog.String("title", alert.Title))

	if err := w.rateLimiter.Allow(ctx); err != nil {
		slog.Error("Rate limiter error",
			slog.String("request_id", requestID),
			slog.String("alert_id", alert.ID),
			slog.Any("error", err))
		return fmt.Errorf("rate limiter error: %w", err)
	}

	return w.sendWebhookRequestWithRetry(ctx, alert)
}

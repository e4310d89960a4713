package notify

import (
	"context"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/perashanid/Media-bias/internal/domain/entity"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const requestIDKey contextKey = "request_id"

// Circuit breaker constants
const (
	circuitBreakerThreshold = 5                // Number of consecutive failures before opening
	circuitBreakerTimeout   = 5 * time.Minute  // Duration to keep circuit breaker open
	workerPoolTimeout       = 5 * time.Second  // Timeout for acquiring worker slot
	notificationTimeout     = 30 * time.Second // Timeout for individual notification
)

// Service dispatches alerts to multiple channels. It sends asynchronously
// without blocking the caller; failures are logged, not propagated. The
// Notify method satisfies the monitoring use case's notifier port.
type Service interface {
	// Notify dispatches an alert to all enabled channels.
	//
	// This method is non-blocking and returns immediately. Deliveries
	// run in background goroutines; failures are logged but never
	// propagate errors to the caller.
	Notify(ctx context.Context, alert *entity.Alert) error

	// GetChannelHealth returns the health status of all channels,
	// including circuit breaker states, for monitoring endpoints.
	GetChannelHealth() []ChannelHealthStatus

	// Shutdown gracefully stops the service, waiting for in-flight
	// deliveries to complete or the context to expire.
	Shutdown(ctx context.Context) error
}

// ChannelHealthStatus represents the health status of a delivery channel.
type ChannelHealthStatus struct {
	Name               string     // Channel name (e.g., "webhook")
	Enabled            bool       // Whether the channel is enabled
	CircuitBreakerOpen bool       // Whether the circuit breaker is currently open
	DisabledUntil      *time.Time // Time until circuit breaker remains open (nil if closed)
}

// service is the concrete implementation of Service interface.
type service struct {
	channels       []Channel                 // Delivery channels
	workerPool     chan struct{}             // Semaphore for limiting concurrent deliveries
	channelHealth  map[string]*channelHealth // Circuit breaker state per channel
	healthMu       sync.RWMutex              // Protects channelHealth map
	wg             sync.WaitGroup            // Track in-flight deliveries
	shutdownCtx    context.Context           // Context for signaling shutdown
	shutdownCancel context.CancelFunc        // Cancel function for shutdown
}

// channelHealth tracks circuit breaker state for a channel
type channelHealth struct {
	consecutiveFailures int        // Number of consecutive failures
	disabledUntil       time.Time  // Time until circuit breaker is open
	mu                  sync.Mutex // Protects this struct's fields
}

// NewService creates an alert dispatch service over the given channels.
// maxConcurrent bounds the number of simultaneous deliveries.
func NewService(channels []Channel, maxConcurrent int) Service {
	shutdownCtx, shutdownCancel := context.WithCancel(context.Background())

	svc := &service{
		channels:       channels,
		workerPool:     make(chan struct{}, maxConcurrent),
		channelHealth:  make(map[string]*channelHealth),
		shutdownCtx:    shutdownCtx,
		shutdownCancel: shutdownCancel,
	}

	for _, ch := range channels {
		svc.channelHealth[ch.Name()] = &channelHealth{}
	}

	return svc
}

// Notify implements Service.Notify.
func (s *service) Notify(ctx context.Context, alert *entity.Alert) error {
	// Validate input before spawning goroutines
	if alert == nil {
		slog.Warn("Invalid alert dispatch input: nil alert")
		return nil
	}

	// Generate unique request ID for tracing, inheriting from the
	// parent context when present.
	requestID, ok := ctx.Value(requestIDKey).(string)
	if !ok || requestID == "" {
		requestID = uuid.New().String()
	}

	enabledCount := 0
	for _, ch := range s.channels {
		if ch.IsEnabled() {
			enabledCount++
		}
	}
	SetChannelsEnabled(float64(enabledCount))

	if enabledCount == 0 {
		slog.Debug("No alert channels enabled",
			slog.String("request_id", requestID),
			slog.String("alert_id", alert.ID))
		return nil
	}

	slog.Info("Dispatching alert",
		slog.String("request_id", requestID),
		slog.String("alert_id", alert.ID),
		slog.String("level", alert.Level),
		slog.Int("enabled_channels", enabledCount))

	for _, ch := range s.channels {
		if ch.IsEnabled() {
			channel := ch // Capture for goroutine
			s.wg.Add(1)
			go s.notifyChannel(requestID, channel, alert)
		}
	}

	return nil
}

// notifyChannel sends an alert to a single channel in a goroutine.
func (s *service) notifyChannel(requestID string, channel Channel, alert *entity.Alert) {
	defer s.wg.Done()

	IncrementActiveGoroutines()
	defer DecrementActiveGoroutines()

	defer func() {
		if r := recover(); r != nil {
			slog.Error("Panic in alert channel",
				slog.String("request_id", requestID),
				slog.String("channel", channel.Name()),
				slog.Any("panic", r),
				slog.String("stack", string(debug.Stack())))
		}
	}()

	// Acquire worker slot (with timeout to prevent blocking)
	select {
	case s.workerPool <- struct{}{}:
		defer func() { <-s.workerPool }() // Release slot
	case <-time.After(workerPoolTimeout):
		slog.Warn("Alert dropped: worker pool full",
			slog.String("request_id", requestID),
			slog.String("channel", channel.Name()))
		RecordDropped(channel.Name(), "pool_full")
		return
	}

	// Check circuit breaker
	health := s.getChannelHealth(channel.Name())
	health.mu.Lock()
	if time.Now().Before(health.disabledUntil) {
		slog.Warn("Channel temporarily disabled due to circuit breaker",
			slog.String("request_id", requestID),
			slog.String("channel", channel.Name()),
			slog.Time("disabled_until", health.disabledUntil))
		health.mu.Unlock()
		RecordDropped(channel.Name(), "circuit_open")
		return
	}
	health.mu.Unlock()

	// Use the shutdown context so Shutdown cancels in-flight sends
	ctx, cancel := context.WithTimeout(s.shutdownCtx, notificationTimeout)
	defer cancel()
	ctx = context.WithValue(ctx, requestIDKey, requestID)

	startTime := time.Now()
	RecordDispatch(channel.Name())

	err := channel.Send(ctx, alert)
	duration := time.Since(startTime)

	// Update circuit breaker state
	health.mu.Lock()
	if err != nil {
		health.consecutiveFailures++
		if health.consecutiveFailures >= circuitBreakerThreshold {
			health.disabledUntil = time.Now().Add(circuitBreakerTimeout)
			slog.Error("Circuit breaker opened for channel",
				slog.String("request_id", requestID),
				slog.String("channel", channel.Name()),
				slog.Int("consecutive_failures", health.consecutiveFailures))
			RecordCircuitBreakerOpen(channel.Name())
		}
	} else {
		health.consecutiveFailures = 0 // Reset on success
	}
	health.mu.Unlock()

	if err != nil {
		RecordFailure(channel.Name(), duration)
		slog.Warn("Channel alert delivery failed",
			slog.String("request_id", requestID),
			slog.String("channel", channel.Name()),
			slog.String("alert_id", alert.ID),
			slog.Duration("send_duration", duration),
			slog.Any("error", err))
	} else {
		RecordSuccess(channel.Name(), duration)
		slog.Info("Channel alert delivered",
			slog.String("request_id", requestID),
			slog.String("channel", channel.Name()),
			slog.String("alert_id", alert.ID),
			slog.String("title", alert.Title),
			slog.Duration("send_duration", duration))
	}
}

// getChannelHealth returns circuit breaker state for a channel
func (s *service) getChannelHealth(channelName string) *channelHealth {
	s.healthMu.RLock()
	defer s.healthMu.RUnlock()
	return s.channelHealth[channelName]
}

// GetChannelHealth implements Service.GetChannelHealth.
func (s *service) GetChannelHealth() []ChannelHealthStatus {
	s.healthMu.RLock()
	defer s.healthMu.RUnlock()

	statuses := make([]ChannelHealthStatus, 0, len(s.channels))

	for _, ch := range s.channels {
		health := s.channelHealth[ch.Name()]

		health.mu.Lock()

		var disabledUntil *time.Time
		circuitBreakerOpen := false
		if time.Now().Before(health.disabledUntil) {
			circuitBreakerOpen = true
			until := health.disabledUntil
			disabledUntil = &until
		}

		health.mu.Unlock()

		statuses = append(statuses, ChannelHealthStatus{
			Name:               ch.Name(),
			Enabled:            ch.IsEnabled(),
			CircuitBreakerOpen: circuitBreakerOpen,
			DisabledUntil:      disabledUntil,
		})
	}

	return statuses
}

// Shutdown implements Service.Shutdown.
func (s *service) Shutdown(ctx context.Context) error {
	slog.Info("Shutting down alert dispatch service")

	s.shutdownCancel()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		slog.Info("Alert dispatch service shutdown complete")
		return nil
	case <-ctx.Done():
		slog.Warn("Alert dispatch service shutdown timeout")
		return ctx.Err()
	}
}

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/perashanid/Media-bias/internal/usecase/notify"
)

// channelHealthResponse reports the alert channel health on
// /health/channels.
type channelHealthResponse struct {
	Healthy  bool            `json:"healthy"`
	Channels []channelStatus `json:"channels"`
}

type channelStatus struct {
	Name               string     `json:"name"`
	Enabled            bool       `json:"enabled"`
	CircuitBreakerOpen bool       `json:"circuit_breaker_open"`
	DisabledUntil      *time.Time `json:"disabled_until,omitempty"`
}

// startMetricsServer serves the Prometheus scrape endpoint plus the
// alert channel health endpoint. The server shuts down when ctx is
// cancelled; in-flight requests get 5 seconds to finish.
//
// Endpoints:
//   - GET /metrics          Prometheus metrics
//   - GET /health           liveness probe, always 200
//   - GET /health/channels  alert channel health, 503 if a breaker is open
func startMetricsServer(ctx context.Context, logger *slog.Logger, notifyService notify.Service) *http.Server {
	port := metricsPort()

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
	})
	mux.HandleFunc("/health/channels", channelHealthHandler(notifyService))

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("metrics server starting", slog.Int("port", port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("metrics server error", slog.Any("error", err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("metrics server shutdown error", slog.Any("error", err))
		} else {
			logger.Info("metrics server stopped")
		}
	}()

	return server
}

// metricsPort reads METRICS_PORT, defaulting to 9090.
func metricsPort() int {
	port, err := strconv.Atoi(os.Getenv("METRICS_PORT"))
	if err != nil || port <= 0 || port > 65535 {
		return 9090
	}
	return port
}

// channelHealthHandler reports per-channel circuit breaker state.
// Any enabled channel with an open breaker makes the rollup unhealthy.
func channelHealthHandler(notifyService notify.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		statuses := notifyService.GetChannelHealth()

		healthy := true
		channels := make([]channelStatus, 0, len(statuses))
		for _, s := range statuses {
			channels = append(channels, channelStatus{
				Name:               s.Name,
				Enabled:            s.Enabled,
				CircuitBreakerOpen: s.CircuitBreakerOpen,
				DisabledUntil:      s.DisabledUntil,
			})
			if s.Enabled && s.CircuitBreakerOpen {
				healthy = false
			}
		}

		code := http.StatusOK
		if !healthy {
			code = http.StatusServiceUnavailable
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(channelHealthResponse{
			Healthy:  healthy,
			Channels: channels,
		})
	}
}

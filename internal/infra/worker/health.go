package worker

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"
)

// HealthServer provides HTTP endpoints for health checks.
// It implements two endpoints:
//   - /health: Liveness probe (always returns 200 OK)
//   - /health/ready: Readiness probe (returns 200 if ready, 503 if not)
//
// The server supports graceful shutdown via context cancellation.
//
// Example usage:
//
//	healthServer := NewHealthServer(":9091", logger)
//	go func() {
//	    if err := healthServer.Start(ctx); err != nil && err != http.ErrServerClosed {
//	        logger.Error("health server failed", slog.Any("error", err))
//	    }
//	}()
//	healthServer.SetReady(true)  // Mark as ready after initialization
type HealthServer struct {
	addr      string
	logger    *slog.Logger
	isReady   *atomic.Bool
	server    *http.Server
	scheduler *Scheduler
}

// healthResponse is the JSON response format for health check endpoints.
type healthResponse struct {
	Status string `json:"status"`
}

// NewHealthServer creates a new health check server.
//
// Parameters:
//   - addr: Server listen address (e.g., ":9091", "localhost:9091")
//   - logger: Structured logger for logging server events
//
// Returns:
//   - *HealthServer: Initialized health server (not started yet)
//
// Example:
//
//	server := NewHealthServer(":9091", logger)
//	// Call Start() to begin serving requests
func NewHealthServer(addr string, logger *slog.Logger) *HealthServer {
	isReady := &atomic.Bool{}
	isReady.Store(false) // Start as not ready

	return &HealthServer{
		addr:    addr,
		logger:  logger,
		isReady: isReady,
	}
}

// Start starts the health check HTTP server.
// This is a blocking call that runs until the context is cancelled or an error occurs.
// It supports graceful shutdown with a 5-second timeout.
//
// Endpoints:
//   - GET /health: Liveness probe (always 200 OK)
//   - GET /health/ready: Readiness probe (200 if ready, 503 if not)
//
// Parameters:
//   - ctx: Context for cancellation and shutdown
//
// Returns:
//   - error: http.ErrServerClosed on graceful shutdown, other errors on failure
//
// Example:
//
//	healthServer := NewHealthServer(":9091", logger)
//	go func() {
//	    if err := healthServer.Start(ctx); err != nil && err != http.ErrServerClosed {
//	        logger.Error("health server failed", slog.Any("error", err))
//	    }
//	}()
func (h *HealthServer) Start(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", h.handleLiveness)
	mux.HandleFunc("/health/ready", h.handleReadiness)
	if h.scheduler != nil {
		mux.HandleFunc("GET /jobs", h.handleListJobs)
		mux.HandleFunc("PATCH /jobs/{name}", h.handleUpdateJob)
	}

	h.server = &http.Server{
		Addr:         h.addr,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in background
	errChan := make(chan error, 1)
	go func() {
		h.logger.Info("health server starting", slog.String("addr", h.addr))
		if err := h.server.ListenAndServe(); err != nil {
			errChan <- err
		}
	}()

	// Wait for context cancellation or server error
	select {
	case <-ctx.Done():
		// Graceful shutdown
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		h.logger.Info("health server shutting down")
		if err := h.server.Shutdown(shutdownCtx); err != nil {
			h.logger.Error("health server shutdown failed", slog.Any("error", err))
			return err
		}
		h.logger.Info("health server stopped")
		return http.ErrServerClosed

	case err := <-errChan:
		if err == http.ErrServerClosed {
			return err
		}
		h.logger.Error("health server failed", slog.Any("error", err))
		return err
	}
}

// SetReady sets the readiness state of the server.
// This affects the response of the /health/ready endpoint.
//
// Parameters:
//   - ready: true to mark as ready, false to mark as not ready
//
// Example:
//
//	// After initialization is complete
//	healthServer.SetReady(true)
//
//	// Before shutdown
//	healthServer.SetReady(false)
func (h *HealthServer) SetReady(ready bool) {
	h.isReady.Store(ready)
	h.logger.Info("health server readiness changed", slog.Bool("ready", ready))
}

// handleLiveness handles the /health endpoint (liveness probe).
// Always returns 200 OK with {"status":"ok"}.
//
// This endpoint is used by Kubernetes liveness probes to determine if the
// container should be restarted. It always returns success unless the server
// is completely dead (in which case it won't respond at all).
func (h *HealthServer) handleLiveness(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(healthResponse{Status: "ok"}); err != nil {
		h.logger.Error("failed to encode liveness response", slog.Any("error", err))
	}
}

// AttachScheduler exposes scheduler job administration on this server:
// GET /jobs lists job state, PATCH /jobs/{name} toggles a job or
// reschedules its interval. Must be called before Start.
func (h *HealthServer) AttachScheduler(s *Scheduler) {
	h.scheduler = s
}

// jobDTO is the JSON shape for one scheduled job.
type jobDTO struct {
	Name         string `json:"name"`
	Spec         string `json:"spec"`
	Enabled      bool   `json:"enabled"`
	TotalRuns    int64  `json:"total_runs"`
	Successes    int64  `json:"successful_runs"`
	Failures     int64  `json:"failed_runs"`
	LastRun      string `json:"last_run,omitempty"`
	LastError    string `json:"last_error,omitempty"`
	LastDuration string `json:"last_duration,omitempty"`
	NextRun      string `json:"next_run,omitempty"`
}

func toJobDTO(s JobStatus) jobDTO {
	dto := jobDTO{
		Name:      s.Name,
		Spec:      s.Spec,
		Enabled:   s.Enabled,
		TotalRuns: s.Runs,
		Successes: s.Successes,
		Failures:  s.Failures,
		LastError: s.LastError,
	}
	if !s.LastRun.IsZero() {
		dto.LastRun = s.LastRun.Format(time.RFC3339)
		dto.LastDuration = s.LastDuration.String()
	}
	if !s.NextRun.IsZero() {
		dto.NextRun = s.NextRun.Format(time.RFC3339)
	}
	return dto
}

// updateJobRequest mutates one job. Nil fields are left unchanged.
type updateJobRequest struct {
	Enabled         *bool `json:"enabled,omitempty"`
	IntervalMinutes *int  `json:"interval_minutes,omitempty"`
}

func (h *HealthServer) handleListJobs(w http.ResponseWriter, r *http.Request) {
	statuses := h.scheduler.Status()
	out := make([]jobDTO, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, toJobDTO(s))
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(out); err != nil {
		h.logger.Error("failed to encode job list", slog.Any("error", err))
	}
}

func (h *HealthServer) handleUpdateJob(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	var req updateJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	if req.Enabled == nil && req.IntervalMinutes == nil {
		http.Error(w, "nothing to update", http.StatusBadRequest)
		return
	}

	if req.Enabled != nil {
		var err error
		if *req.Enabled {
			err = h.scheduler.EnableJob(name)
		} else {
			err = h.scheduler.DisableJob(name)
		}
		if err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
	}
	if req.IntervalMinutes != nil {
		if err := h.scheduler.SetJobInterval(name, *req.IntervalMinutes); err != nil {
			code := http.StatusBadRequest
			if errors.Is(err, ErrUnknownJob) {
				code = http.StatusNotFound
			}
			http.Error(w, err.Error(), code)
			return
		}
	}

	for _, s := range h.scheduler.Status() {
		if s.Name == name {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			if err := json.NewEncoder(w).Encode(toJobDTO(s)); err != nil {
				h.logger.Error("failed to encode job", slog.Any("error", err))
			}
			return
		}
	}
	http.Error(w, "job not found", http.StatusNotFound)
}

// handleReadiness handles the /health/ready endpoint (readiness probe).
// Returns 200 OK if ready, 503 Service Unavailable if not ready.
//
// This endpoint is used by Kubernetes readiness probes to determine if the
// container should receive traffic. It returns success only when the worker
// is fully initialized and ready to process jobs.
func (h *HealthServer) handleReadiness(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if h.isReady.Load() {
		w.WriteHeader(http.StatusOK)
		if err := json.NewEncoder(w).Encode(healthResponse{Status: "ok"}); err != nil {
			h.logger.Error("failed to encode readiness response", slog.Any("error", err))
		}
	} else {
		w.WriteHeader(http.StatusServiceUnavailable)
		if err := json.NewEncoder(w).Encode(healthResponse{Status: "not ready"}); err != nil {
			h.logger.Error("failed to encode not ready response", slog.Any("error", err))
		}
	}
}

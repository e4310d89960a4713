package monitor

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/perashanid/Media-bias/internal/handler/http/respond"
	monitorUC "github.com/perashanid/Media-bias/internal/usecase/monitor"
)

// Bounds for the metrics history window.
const (
	defaultHistoryWindow = 24 * time.Hour
	maxHistoryHours      = 24 * 7
)

type LatestMetricsHandler struct{ Svc *monitorUC.Service }

// ServeHTTP returns the newest metrics snapshot.
// @Summary      Latest system metrics
// @Tags         monitoring
// @Produce      json
// @Success      200 {object} MetricsDTO "Latest snapshot"
// @Failure      404 {string} string "Not found - nothing recorded yet"
// @Failure      500 {string} string "Server error"
// @Router       /monitor/metrics [get]
func (h LatestMetricsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	latest, err := h.Svc.LatestMetrics(r.Context())
	if err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, monitorUC.ErrNoMetrics) {
			code = http.StatusNotFound
		}
		respond.SafeError(w, code, err)
		return
	}
	respond.JSON(w, http.StatusOK, toMetricsDTO(latest))
}

type MetricsHistoryHandler struct{ Svc *monitorUC.Service }

// ServeHTTP returns metric snapshots within the window, oldest first.
// @Summary      System metrics history
// @Tags         monitoring
// @Produce      json
// @Param        hours query int false "History window in hours" default(24)
// @Success      200 {array} MetricsDTO "Snapshots"
// @Failure      400 {string} string "Bad request"
// @Failure      500 {string} string "Server error"
// @Router       /monitor/metrics/history [get]
func (h MetricsHistoryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	window := defaultHistoryWindow
	if raw := r.URL.Query().Get("hours"); raw != "" {
		hours, err := strconv.Atoi(raw)
		if err != nil || hours < 1 || hours > maxHistoryHours {
			respond.SafeError(w, http.StatusBadRequest,
				fmt.Errorf("invalid hours: must be 1-%d", maxHistoryHours))
			return
		}
		window = time.Duration(hours) * time.Hour
	}

	history, err := h.Svc.MetricsHistory(r.Context(), window)
	if err != nil {
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}

	out := make([]MetricsDTO, 0, len(history))
	for _, m := range history {
		out = append(out, toMetricsDTO(m))
	}
	respond.JSON(w, http.StatusOK, out)
}

type ActiveAlertsHandler struct{ Svc *monitorUC.Service }

// ServeHTTP lists unresolved alerts, newest first.
// @Summary      Active alerts
// @Tags         monitoring
// @Produce      json
// @Success      200 {array} AlertDTO "Unresolved alerts"
// @Failure      500 {string} string "Server error"
// @Router       /monitor/alerts [get]
func (h ActiveAlertsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	alerts, err := h.Svc.ActiveAlerts(r.Context())
	if err != nil {
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}

	out := make([]AlertDTO, 0, len(alerts))
	for _, a := range alerts {
		out = append(out, toAlertDTO(a))
	}
	respond.JSON(w, http.StatusOK, out)
}

type ResolveAlertHandler struct{ Svc *monitorUC.Service }

// ServeHTTP marks an alert resolved. Resolving twice is a no-op.
// @Summary      Resolve alert
// @Tags         monitoring
// @Security     BearerAuth
// @Param        id path string true "Alert ID"
// @Success      204 "No Content"
// @Failure      400 {string} string "Bad request - missing alert ID"
// @Failure      401 {string} string "Authentication required"
// @Failure      404 {string} string "Not found - alert not found"
// @Failure      500 {string} string "Server error"
// @Router       /monitor/alerts/{id}/resolve [post]
func (h ResolveAlertHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respond.SafeError(w, http.StatusBadRequest, errors.New("alert ID required"))
		return
	}

	if err := h.Svc.ResolveAlert(r.Context(), id); err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, monitorUC.ErrAlertNotFound) {
			code = http.StatusNotFound
		}
		respond.SafeError(w, code, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type HealthStatusHandler struct{ Svc *monitorUC.Service }

// ServeHTTP reports the rolled-up pipeline health.
// @Summary      Pipeline health status
// @Description  Rolls active alerts up to one of healthy, warning, degraded or critical.
// @Tags         monitoring
// @Produce      json
// @Success      200 {object} HealthStatusDTO "Health rollup"
// @Failure      500 {string} string "Server error"
// @Router       /monitor/status [get]
func (h HealthStatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	status, err := h.Svc.HealthStatus(r.Context())
	if err != nil {
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}
	active, err := h.Svc.ActiveAlerts(r.Context())
	if err != nil {
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}
	respond.JSON(w, http.StatusOK, HealthStatusDTO{
		Status:       status,
		ActiveAlerts: len(active),
	})
}

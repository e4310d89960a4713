package monitor

import (
	"net/http"

	"github.com/perashanid/Media-bias/internal/handler/http/auth"
	monitorUC "github.com/perashanid/Media-bias/internal/usecase/monitor"
)

// Register registers the monitoring endpoints with the given mux.
// Reading metrics and alerts is public; resolving alerts requires
// authentication.
func Register(mux *http.ServeMux, svc *monitorUC.Service) {
	mux.Handle("GET    /monitor/metrics", LatestMetricsHandler{Svc: svc})
	mux.Handle("GET    /monitor/metrics/history", MetricsHistoryHandler{Svc: svc})
	mux.Handle("GET    /monitor/alerts", ActiveAlertsHandler{Svc: svc})
	mux.Handle("GET    /monitor/status", HealthStatusHandler{Svc: svc})

	mux.Handle("POST   /monitor/alerts/{id}/resolve", auth.Authz(ResolveAlertHandler{Svc: svc}))
}

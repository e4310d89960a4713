package scrapectl

import (
	"net/http"

	"github.com/perashanid/Media-bias/internal/handler/http/auth"
	srcUC "github.com/perashanid/Media-bias/internal/usecase/source"
)

// Register registers the scrape control endpoints with the given mux.
// Triggering runs requires authentication; status is public.
func Register(mux *http.ServeMux, ctl *Controller, sources *srcUC.Service) {
	mux.Handle("GET    /scraper/status", StatusHandler{Ctl: ctl})
	mux.Handle("GET    /scraper/health", SourceHealthHandler{Svc: ctl.Svc})

	mux.Handle("POST   /scraper/run", auth.Authz(TriggerAllHandler{Ctl: ctl}))
	mux.Handle("POST   /scraper/run/{key}", auth.Authz(TriggerSourceHandler{Ctl: ctl, Sources: sources}))
	mux.Handle("POST   /scraper/url", auth.Authz(ScrapeURLHandler{Svc: ctl.Svc}))
	mux.Handle("POST   /scraper/health/reset", auth.Authz(ResetHealthHandler{Svc: ctl.Svc}))
}

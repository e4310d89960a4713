package article

import (
	"log/slog"
	"net/http"

	"github.com/perashanid/Media-bias/internal/common/pagination"
	artUC "github.com/perashanid/Media-bias/internal/usecase/article"
)

// Register registers the article read endpoints with the given mux.
// All article endpoints are public: articles only enter and leave the
// system through the scrape pipeline and retention cleanup.
func Register(mux *http.ServeMux, svc *artUC.Service, paginationCfg pagination.Config, logger *slog.Logger) {
	mux.Handle("GET    /articles", ListHandler{
		Svc:           svc,
		PaginationCfg: paginationCfg,
		Logger:        logger,
	})
	mux.Handle("GET    /articles/search", SearchHandler{Svc: svc, PaginationCfg: paginationCfg})
	mux.Handle("GET    /articles/stats", StatsHandler{Svc: svc})
	mux.Handle("GET    /articles/", GetHandler{Svc: svc})
}

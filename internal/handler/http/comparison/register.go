package comparison

import (
	"net/http"

	"github.com/perashanid/Media-bias/internal/common/pagination"
	"github.com/perashanid/Media-bias/internal/handler/http/auth"
	compareUC "github.com/perashanid/Media-bias/internal/usecase/compare"
)

// Register registers the comparison endpoints with the given mux.
// Reading reports and aggregates is public; building new reports writes
// to the store and requires authentication.
func Register(mux *http.ServeMux, svc *compareUC.Service, paginationCfg pagination.Config) {
	mux.Handle("GET    /comparison/articles/{id}/related", RelatedHandler{Svc: svc})
	mux.Handle("GET    /comparison/reports", ListReportsHandler{Svc: svc, PaginationCfg: paginationCfg})
	mux.Handle("GET    /comparison/reports/{id}", GetReportHandler{Svc: svc})
	mux.Handle("GET    /comparison/stories/{story_id}", GetStoryReportHandler{Svc: svc})
	mux.Handle("GET    /comparison/sources", SourcePatternsHandler{Svc: svc})
	mux.Handle("GET    /comparison/clusters", StoryClustersHandler{Svc: svc})

	mux.Handle("POST   /comparison/articles", auth.Authz(CompareArticlesHandler{Svc: svc}))
	mux.Handle("POST   /comparison/articles/{id}/story", auth.Authz(CompareStoryHandler{Svc: svc}))
}

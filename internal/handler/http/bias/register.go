package bias

import (
	"net/http"

	"github.com/perashanid/Media-bias/internal/handler/http/auth"
	analyzeUC "github.com/perashanid/Media-bias/internal/usecase/analyze"
	artUC "github.com/perashanid/Media-bias/internal/usecase/article"
)

// Register registers the bias analysis endpoints with the given mux.
// Reading scores and analyzing ad-hoc text is public; operations that
// write to the store require authentication.
func Register(mux *http.ServeMux, analyzeSvc *analyzeUC.Service, articleSvc *artUC.Service) {
	mux.Handle("POST   /bias/analyze", AnalyzeTextHandler{Svc: analyzeSvc})
	mux.Handle("GET    /bias/articles/{id}", ArticleScoresHandler{Articles: articleSvc})
	mux.Handle("GET    /bias/distribution", DistributionHandler{Svc: analyzeSvc})
	mux.Handle("GET    /bias/trends", TrendsHandler{Svc: analyzeSvc})

	mux.Handle("POST   /bias/articles/{id}/analyze", auth.Authz(AnalyzeArticleHandler{Svc: analyzeSvc}))
	mux.Handle("POST   /bias/batch", auth.Authz(BatchAnalyzeHandler{Svc: analyzeSvc}))
	mux.Handle("POST   /bias/process", auth.Authz(ProcessPendingHandler{Svc: analyzeSvc}))
}

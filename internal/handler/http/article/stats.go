package article

import (
	"net/http"

	"github.com/perashanid/Media-bias/internal/handler/http/respond"
	artUC "github.com/perashanid/Media-bias/internal/usecase/article"
)

type StatsHandler struct{ Svc *artUC.Service }

// ServeHTTP returns corpus statistics.
// @Summary      Article statistics
// @Description  Returns totals, analysis backlog and per-source article counts.
// @Tags         articles
// @Produce      json
// @Success      200 {object} StatsDTO "Corpus statistics"
// @Failure      500 {string} string "Server error"
// @Router       /articles/stats [get]
func (h StatsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Svc.Stats(r.Context())
	if err != nil {
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}

	respond.JSON(w, http.StatusOK, StatsDTO{
		TotalArticles:    stats.TotalArticles,
		AnalyzedArticles: stats.AnalyzedArticles,
		PendingAnalysis:  stats.PendingAnalysis,
		BySource:         stats.BySource,
		LatestScrapedAt:  stats.LatestScrapedAt,
	})
}

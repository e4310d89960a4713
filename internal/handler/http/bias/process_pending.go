package bias

import (
	"net/http"

	"github.com/perashanid/Media-bias/internal/handler/http/respond"
	analyzeUC "github.com/perashanid/Media-bias/internal/usecase/analyze"
)

type ProcessPendingHandler struct{ Svc *analyzeUC.Service }

// ServeHTTP drains one batch of the analysis backlog.
// @Summary      Process pending analyses
// @Description  Analyzes the oldest unanalyzed articles, up to the configured batch size.
// @Tags         bias
// @Security     BearerAuth
// @Produce      json
// @Success      200 {object} BatchDTO "Batch result"
// @Failure      401 {string} string "Authentication required"
// @Failure      500 {string} string "Server error"
// @Router       /bias/process [post]
func (h ProcessPendingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	result, err := h.Svc.ProcessPending(r.Context())
	if err != nil {
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}

	respond.JSON(w, http.StatusOK, BatchDTO{
		Analyzed:   result.Analyzed,
		Failed:     result.Failed,
		DurationMS: result.Duration.Milliseconds(),
		Status:     "completed",
	})
}

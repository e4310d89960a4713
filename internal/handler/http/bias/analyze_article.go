package bias

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/perashanid/Media-bias/internal/handler/http/respond"
	analyzeUC "github.com/perashanid/Media-bias/internal/usecase/analyze"
)

type AnalyzeArticleHandler struct{ Svc *analyzeUC.Service }

// ServeHTTP analyzes one stored article and persists the scores.
// Re-running is safe: analysis is deterministic.
// @Summary      Analyze article
// @Tags         bias
// @Security     BearerAuth
// @Produce      json
// @Param        id path int true "Article ID"
// @Success      200 {object} ScoreDTO "Bias scores"
// @Failure      400 {string} string "Bad request - invalid article ID"
// @Failure      401 {string} string "Authentication required"
// @Failure      404 {string} string "Not found - article not found"
// @Failure      500 {string} string "Server error"
// @Router       /bias/articles/{id}/analyze [post]
func (h AnalyzeArticleHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest,
			errors.New("invalid article ID"))
		return
	}

	score, err := h.Svc.AnalyzeArticle(r.Context(), id)
	if err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, analyzeUC.ErrArticleNotFound) {
			code = http.StatusNotFound
		}
		respond.SafeError(w, code, err)
		return
	}

	respond.JSON(w, http.StatusOK, toScoreDTO(score, ""))
}

package bias

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/perashanid/Media-bias/internal/handler/http/respond"
	analyzeUC "github.com/perashanid/Media-bias/internal/usecase/analyze"
)

// BatchAnalyzeRequest names the articles to analyze.
type BatchAnalyzeRequest struct {
	ArticleIDs []int64 `json:"article_ids"`
}

type BatchAnalyzeHandler struct{ Svc *analyzeUC.Service }

// ServeHTTP analyzes a caller-selected set of articles.
// @Summary      Analyze articles by ID
// @Description  Runs bias analysis over up to 50 named articles. Unknown IDs count as failed.
// @Tags         bias
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request body BatchAnalyzeRequest true "Article IDs"
// @Success      200 {object} BatchDTO "Batch result"
// @Failure      400 {string} string "Bad request"
// @Failure      401 {string} string "Authentication required"
// @Failure      500 {string} string "Server error"
// @Router       /bias/batch [post]
func (h BatchAnalyzeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req BatchAnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.SafeError(w, http.StatusBadRequest, errors.New("invalid JSON body"))
		return
	}

	result, err := h.Svc.AnalyzeBatch(r.Context(), req.ArticleIDs)
	if err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, analyzeUC.ErrNoArticleIDs) || errors.Is(err, analyzeUC.ErrTooManyArticleIDs) {
			code = http.StatusBadRequest
		}
		respond.SafeError(w, code, err)
		return
	}

	respond.JSON(w, http.StatusOK, BatchDTO{
		Analyzed:   result.Analyzed,
		Failed:     result.Failed,
		DurationMS: result.Duration.Milliseconds(),
		Status:     "completed",
	})
}

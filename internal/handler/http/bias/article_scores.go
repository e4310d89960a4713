package bias

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/perashanid/Media-bias/internal/handler/http/respond"
	artUC "github.com/perashanid/Media-bias/internal/usecase/article"
)

type ArticleScoresHandler struct{ Articles *artUC.Service }

// ServeHTTP returns the stored bias scores of one article.
// @Summary      Article bias scores
// @Description  Returns the persisted scores for an already-analyzed article. Unanalyzed articles yield 404.
// @Tags         bias
// @Produce      json
// @Param        id path int true "Article ID"
// @Success      200 {object} ScoreDTO "Bias scores"
// @Failure      400 {string} string "Bad request - invalid article ID"
// @Failure      404 {string} string "Not found - article missing or not analyzed yet"
// @Failure      500 {string} string "Server error"
// @Router       /bias/articles/{id} [get]
func (h ArticleScoresHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest,
			errors.New("invalid article ID"))
		return
	}

	art, err := h.Articles.Get(r.Context(), id)
	if err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, artUC.ErrInvalidArticleID) {
			code = http.StatusBadRequest
		} else if errors.Is(err, artUC.ErrArticleNotFound) {
			code = http.StatusNotFound
		}
		respond.SafeError(w, code, err)
		return
	}
	if art.BiasScores == nil {
		respond.SafeError(w, http.StatusNotFound,
			errors.New("article not analyzed yet"))
		return
	}

	respond.JSON(w, http.StatusOK, toScoreDTO(art.BiasScores, art.Language))
}

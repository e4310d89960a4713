package article

import (
	"errors"
	"net/http"

	"github.com/perashanid/Media-bias/internal/handler/http/pathutil"
	"github.com/perashanid/Media-bias/internal/handler/http/respond"
	artUC "github.com/perashanid/Media-bias/internal/usecase/article"
)

type GetHandler struct{ Svc *artUC.Service }

// ServeHTTP returns one article with its full content.
// @Summary      Get article
// @Description  Returns the article with the given ID, including content and bias scores when present.
// @Tags         articles
// @Produce      json
// @Param        id path int true "Article ID"
// @Success      200 {object} DTO "Article detail"
// @Failure      400 {string} string "Bad request - invalid article ID"
// @Failure      404 {string} string "Not found - article not found"
// @Failure      500 {string} string "Server error"
// @Router       /articles/{id} [get]
func (h GetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.ExtractID(r.URL.Path, "/articles/")
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	art, err := h.Svc.Get(r.Context(), id)
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

	respond.JSON(w, http.StatusOK, toDTO(art, true))
}

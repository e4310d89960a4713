package source

import (
	"errors"
	"net/http"

	"github.com/perashanid/Media-bias/internal/domain/entity"
	"github.com/perashanid/Media-bias/internal/handler/http/pathutil"
	"github.com/perashanid/Media-bias/internal/handler/http/respond"
	srcUC "github.com/perashanid/Media-bias/internal/usecase/source"
)

type DeleteHandler struct{ Svc *srcUC.Service }

// ServeHTTP removes a source from the registry.
// @Summary      Delete source
// @Tags         sources
// @Security     BearerAuth
// @Param        id path int true "Source ID"
// @Success      204 "No Content"
// @Failure      400 {string} string "Bad request - invalid source ID"
// @Failure      401 {string} string "Authentication required"
// @Failure      500 {string} string "Server error"
// @Router       /sources/{id} [delete]
func (h DeleteHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.ExtractID(r.URL.Path, "/sources/")
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}
	if err := h.Svc.Delete(r.Context(), id); err != nil {
		code := http.StatusInternalServerError
		var vErr *entity.ValidationError
		if errors.As(err, &vErr) {
			code = http.StatusBadRequest
		}
		respond.SafeError(w, code, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

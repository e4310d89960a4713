package source

import (
	"errors"
	"net/http"

	"github.com/perashanid/Media-bias/internal/handler/http/pathutil"
	"github.com/perashanid/Media-bias/internal/handler/http/respond"
	srcUC "github.com/perashanid/Media-bias/internal/usecase/source"
)

type GetHandler struct{ Svc *srcUC.Service }

// ServeHTTP returns one source by ID.
// @Summary      Get source
// @Tags         sources
// @Produce      json
// @Param        id path int true "Source ID"
// @Success      200 {object} DTO "Source detail"
// @Failure      400 {string} string "Bad request - invalid source ID"
// @Failure      404 {string} string "Not found - source not found"
// @Failure      500 {string} string "Server error"
// @Router       /sources/{id} [get]
func (h GetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.ExtractID(r.URL.Path, "/sources/")
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	src, err := h.Svc.Get(r.Context(), id)
	if err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, srcUC.ErrSourceNotFound) {
			code = http.StatusNotFound
		}
		respond.SafeError(w, code, err)
		return
	}

	respond.JSON(w, http.StatusOK, toDTO(src))
}

package source

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/perashanid/Media-bias/internal/handler/http/respond"
	srcUC "github.com/perashanid/Media-bias/internal/usecase/source"
)

type SetEnabledHandler struct{ Svc *srcUC.Service }

// ServeHTTP toggles whether a source is included in scrape runs.
// @Summary      Enable or disable source
// @Tags         sources
// @Security     BearerAuth
// @Accept       json
// @Param        key path string true "Source key"
// @Success      204 "No Content"
// @Failure      400 {string} string "Bad request - invalid payload"
// @Failure      401 {string} string "Authentication required"
// @Failure      404 {string} string "Not found - source not found"
// @Failure      500 {string} string "Server error"
// @Router       /sources/{key}/enabled [put]
func (h SetEnabledHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	if key == "" {
		respond.SafeError(w, http.StatusBadRequest, errors.New("source key required"))
		return
	}

	var req struct {
		Enabled *bool `json:"enabled"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}
	if req.Enabled == nil {
		respond.SafeError(w, http.StatusBadRequest, errors.New("enabled field required"))
		return
	}

	if err := h.Svc.SetEnabled(r.Context(), key, *req.Enabled); err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, srcUC.ErrSourceNotFound) {
			code = http.StatusNotFound
		}
		respond.SafeError(w, code, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

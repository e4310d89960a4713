package source

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/perashanid/Media-bias/internal/domain/entity"
	"github.com/perashanid/Media-bias/internal/handler/http/pathutil"
	"github.com/perashanid/Media-bias/internal/handler/http/respond"
	srcUC "github.com/perashanid/Media-bias/internal/usecase/source"
)

type UpdateHandler struct{ Svc *srcUC.Service }

// ServeHTTP partially updates a source. Omitted fields keep their value.
// @Summary      Update source
// @Tags         sources
// @Security     BearerAuth
// @Accept       json
// @Param        id path int true "Source ID"
// @Success      204 "No Content"
// @Failure      400 {string} string "Bad request - invalid payload"
// @Failure      401 {string} string "Authentication required"
// @Failure      404 {string} string "Not found - source not found"
// @Failure      500 {string} string "Server error"
// @Router       /sources/{id} [put]
func (h UpdateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.ExtractID(r.URL.Path, "/sources/")
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	var req struct {
		Name     string `json:"name"`
		BaseURL  string `json:"base_url"`
		FeedURL  string `json:"feed_url"`
		Language string `json:"language"`
		Enabled  *bool  `json:"enabled"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	err = h.Svc.Update(r.Context(), srcUC.UpdateInput{
		ID:       id,
		Name:     req.Name,
		BaseURL:  req.BaseURL,
		FeedURL:  req.FeedURL,
		Language: req.Language,
		Enabled:  req.Enabled,
	})
	if err != nil {
		code := http.StatusInternalServerError
		var vErr *entity.ValidationError
		if errors.Is(err, srcUC.ErrSourceNotFound) {
			code = http.StatusNotFound
		} else if errors.As(err, &vErr) {
			code = http.StatusBadRequest
		}
		respond.SafeError(w, code, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

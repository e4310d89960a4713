package source

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/perashanid/Media-bias/internal/domain/entity"
	"github.com/perashanid/Media-bias/internal/handler/http/respond"
	srcUC "github.com/perashanid/Media-bias/internal/usecase/source"
)

type CreateHandler struct{ Svc *srcUC.Service }

// ServeHTTP registers a new source.
// @Summary      Create source
// @Tags         sources
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Success      201 {object} DTO "Created source"
// @Failure      400 {string} string "Bad request - invalid payload"
// @Failure      401 {string} string "Authentication required"
// @Failure      409 {string} string "Conflict - source key already registered"
// @Failure      500 {string} string "Server error"
// @Router       /sources [post]
func (h CreateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Key        string `json:"key"`
		Name       string `json:"name"`
		BaseURL    string `json:"base_url"`
		FeedURL    string `json:"feed_url"`
		Language   string `json:"language"`
		SourceType string `json:"source_type"`
		Enabled    bool   `json:"enabled"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}
	if req.Key == "" || req.Name == "" || req.BaseURL == "" {
		respond.SafeError(w, http.StatusBadRequest,
			errors.New("key, name and base_url required"))
		return
	}

	src, err := h.Svc.Create(r.Context(), srcUC.CreateInput{
		Key:        req.Key,
		Name:       req.Name,
		BaseURL:    req.BaseURL,
		FeedURL:    req.FeedURL,
		Language:   req.Language,
		SourceType: req.SourceType,
		Enabled:    req.Enabled,
	})
	if err != nil {
		code := http.StatusInternalServerError
		var vErr *entity.ValidationError
		if errors.Is(err, srcUC.ErrDuplicateSource) {
			code = http.StatusConflict
		} else if errors.As(err, &vErr) {
			code = http.StatusBadRequest
		}
		respond.SafeError(w, code, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toDTO(src))
}

package comparison

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/perashanid/Media-bias/internal/handler/http/respond"
	compareUC "github.com/perashanid/Media-bias/internal/usecase/compare"
)

// maxWindowHours bounds the hours query parameter on windowed endpoints.
const maxWindowHours = 24 * 30

// parseWindowHours reads the optional hours parameter, defaulting to the
// given window.
func parseWindowHours(r *http.Request, def time.Duration) (time.Duration, error) {
	raw := r.URL.Query().Get("hours")
	if raw == "" {
		return def, nil
	}
	hours, err := strconv.Atoi(raw)
	if err != nil || hours < 1 || hours > maxWindowHours {
		return 0, fmt.Errorf("invalid hours: must be 1-%d", maxWindowHours)
	}
	return time.Duration(hours) * time.Hour, nil
}

type RelatedHandler struct{ Svc *compareUC.Service }

// ServeHTTP finds coverage of the same story by other outlets.
// @Summary      Related coverage
// @Description  Returns articles from other sources covering the same story, ranked by similarity.
// @Tags         comparison
// @Produce      json
// @Param        id    path   int  true   "Article ID"
// @Param        hours query  int  false  "Coverage window in hours" default(72)
// @Success      200 {array} MatchDTO "Related articles"
// @Failure      400 {string} string "Bad request"
// @Failure      404 {string} string "Not found - article not found"
// @Failure      500 {string} string "Server error"
// @Router       /comparison/articles/{id}/related [get]
func (h RelatedHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest,
			errors.New("invalid article ID"))
		return
	}

	window, err := parseWindowHours(r, compareUC.DefaultCoverageWindow)
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	matches, err := h.Svc.FindRelatedCoverage(r.Context(), id, window)
	if err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, compareUC.ErrArticleNotFound) {
			code = http.StatusNotFound
		}
		respond.SafeError(w, code, err)
		return
	}

	respond.JSON(w, http.StatusOK, toMatchDTOs(matches))
}

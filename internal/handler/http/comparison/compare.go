package comparison

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/perashanid/Media-bias/internal/handler/http/respond"
	compareUC "github.com/perashanid/Media-bias/internal/usecase/compare"
)

type CompareStoryHandler struct{ Svc *compareUC.Service }

// ServeHTTP builds and stores a comparison report for the story the
// given article belongs to.
// @Summary      Compare story coverage
// @Tags         comparison
// @Security     BearerAuth
// @Produce      json
// @Param        id    path   int  true   "Article ID"
// @Param        hours query  int  false  "Coverage window in hours" default(72)
// @Success      200 {object} ReportDTO "Comparison report"
// @Failure      400 {string} string "Bad request"
// @Failure      401 {string} string "Authentication required"
// @Failure      404 {string} string "Not found - article or related coverage not found"
// @Failure      500 {string} string "Server error"
// @Router       /comparison/articles/{id}/story [post]
func (h CompareStoryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
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

	report, err := h.Svc.CompareStory(r.Context(), id, window)
	if err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, compareUC.ErrArticleNotFound) ||
			errors.Is(err, compareUC.ErrNoRelatedCoverage) {
			code = http.StatusNotFound
		}
		respond.SafeError(w, code, err)
		return
	}

	respond.JSON(w, http.StatusOK, toReportDTO(report))
}

type CompareArticlesHandler struct{ Svc *compareUC.Service }

// ServeHTTP builds and stores a comparison report over an explicit set
// of articles.
// @Summary      Compare articles
// @Tags         comparison
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Success      200 {object} ReportDTO "Comparison report"
// @Failure      400 {string} string "Bad request - fewer than two article IDs"
// @Failure      401 {string} string "Authentication required"
// @Failure      404 {string} string "Not found - article not found"
// @Failure      500 {string} string "Server error"
// @Router       /comparison/articles [post]
func (h CompareArticlesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IDs []int64 `json:"ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	report, err := h.Svc.CompareArticles(r.Context(), req.IDs)
	if err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, compareUC.ErrNotEnoughArticles) {
			code = http.StatusBadRequest
		} else if errors.Is(err, compareUC.ErrArticleNotFound) {
			code = http.StatusNotFound
		}
		respond.SafeError(w, code, err)
		return
	}

	respond.JSON(w, http.StatusOK, toReportDTO(report))
}

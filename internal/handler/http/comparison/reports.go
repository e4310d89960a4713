package comparison

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/perashanid/Media-bias/internal/common/pagination"
	"github.com/perashanid/Media-bias/internal/handler/http/respond"
	compareUC "github.com/perashanid/Media-bias/internal/usecase/compare"
)

// defaultReportWindow is how far back the report listing looks.
const defaultReportWindow = 7 * 24 * time.Hour

type ListReportsHandler struct {
	Svc           *compareUC.Service
	PaginationCfg pagination.Config
}

// ServeHTTP lists recent comparison reports, newest first.
// @Summary      List comparison reports
// @Tags         comparison
// @Produce      json
// @Param        hours query  int  false  "Listing window in hours" default(168)
// @Param        page  query  int  false  "Page number (1-based)" default(1)
// @Param        limit query  int  false  "Items per page" default(20)
// @Success      200 {array} ReportDTO "Comparison reports"
// @Failure      400 {string} string "Bad request"
// @Failure      500 {string} string "Server error"
// @Router       /comparison/reports [get]
func (h ListReportsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	window, err := parseWindowHours(r, defaultReportWindow)
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	params, err := pagination.ParseQueryParams(r, h.PaginationCfg)
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}
	offset := pagination.CalculateOffset(params.Page, params.Limit)

	reports, err := h.Svc.ListRecentReports(r.Context(), window, offset, params.Limit)
	if err != nil {
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}

	out := make([]ReportDTO, 0, len(reports))
	for _, rep := range reports {
		out = append(out, toReportDTO(rep))
	}
	respond.JSON(w, http.StatusOK, out)
}

type GetReportHandler struct{ Svc *compareUC.Service }

// ServeHTTP returns one comparison report by ID.
// @Summary      Get comparison report
// @Tags         comparison
// @Produce      json
// @Param        id path int true "Report ID"
// @Success      200 {object} ReportDTO "Comparison report"
// @Failure      400 {string} string "Bad request - invalid report ID"
// @Failure      404 {string} string "Not found - report not found"
// @Failure      500 {string} string "Server error"
// @Router       /comparison/reports/{id} [get]
func (h GetReportHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest,
			errors.New("invalid report ID"))
		return
	}

	report, err := h.Svc.GetReport(r.Context(), id)
	if err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, compareUC.ErrReportNotFound) {
			code = http.StatusNotFound
		}
		respond.SafeError(w, code, err)
		return
	}

	respond.JSON(w, http.StatusOK, toReportDTO(report))
}

type GetStoryReportHandler struct{ Svc *compareUC.Service }

// ServeHTTP returns the stored report for a story ID.
// @Summary      Get report by story
// @Tags         comparison
// @Produce      json
// @Param        story_id path string true "Story ID (YYYYMMDD_NNNN)"
// @Success      200 {object} ReportDTO "Comparison report"
// @Failure      400 {string} string "Bad request - missing story ID"
// @Failure      404 {string} string "Not found - no report for this story"
// @Failure      500 {string} string "Server error"
// @Router       /comparison/stories/{story_id} [get]
func (h GetStoryReportHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	storyID := r.PathValue("story_id")
	if storyID == "" {
		respond.SafeError(w, http.StatusBadRequest,
			errors.New("story ID required"))
		return
	}

	report, err := h.Svc.GetReportByStory(r.Context(), storyID)
	if err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, compareUC.ErrReportNotFound) {
			code = http.StatusNotFound
		}
		respond.SafeError(w, code, err)
		return
	}

	respond.JSON(w, http.StatusOK, toReportDTO(report))
}

package article

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/perashanid/Media-bias/internal/common/pagination"
	"github.com/perashanid/Media-bias/internal/handler/http/requestid"
	"github.com/perashanid/Media-bias/internal/handler/http/respond"
	"github.com/perashanid/Media-bias/internal/observability/logging"
	artUC "github.com/perashanid/Media-bias/internal/usecase/article"
)

type ListHandler struct {
	Svc           *artUC.Service
	PaginationCfg pagination.Config
	Logger        *slog.Logger
}

// ServeHTTP lists stored articles.
// @Summary      List articles (paginated)
// @Description  Returns stored articles newest first. Supports filtering by source key, topic and publication date range.
// @Tags         articles
// @Produce      json
// @Param        page    query  int     false  "Page number (1-based)" default(1) minimum(1)
// @Param        limit   query  int     false  "Items per page" default(20) minimum(1) maximum(100)
// @Param        source  query  string  false  "Filter by source key"
// @Param        topic   query  string  false  "Filter by assigned topic"
// @Param        from    query  string  false  "Publication date lower bound (RFC 3339 or YYYY-MM-DD)"
// @Param        to      query  string  false  "Publication date upper bound (RFC 3339 or YYYY-MM-DD)"
// @Success      200 {object} pagination.Response[DTO] "Paginated article list"
// @Failure      400 {string} string "Invalid query parameters"
// @Failure      500 {string} string "Server error"
// @Router       /articles [get]
func (h ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	startTime := time.Now()

	reqID := requestid.FromContext(ctx)
	logger := logging.WithRequestID(ctx, h.Logger)

	params, err := pagination.ParseQueryParams(r, h.PaginationCfg)
	if err != nil {
		logger.Warn("invalid pagination parameters",
			"error", err.Error(),
			"request_id", reqID)
		pagination.RecordError("validation")
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	filters, err := parseFilters(r)
	if err != nil {
		pagination.RecordError("validation")
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	result, err := h.Svc.List(ctx, filters, params)
	if err != nil {
		logger.Error("failed to list articles",
			"error", err.Error(),
			"page", params.Page,
			"limit", params.Limit,
			"request_id", reqID)
		pagination.RecordError("database")
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}

	response := pagination.NewResponse(toDTOs(result.Data), result.Pagination)

	duration := time.Since(startTime)
	pagination.RecordRequest(http.StatusOK, params.Page)
	pagination.RecordDuration("handler", duration.Seconds())
	pagination.UpdateTotalCount(result.Pagination.Total)

	logger.Info("article list served",
		"page", params.Page,
		"limit", params.Limit,
		"returned_count", len(result.Data),
		"duration_ms", duration.Milliseconds(),
		"request_id", reqID)

	respond.JSON(w, http.StatusOK, response)
}

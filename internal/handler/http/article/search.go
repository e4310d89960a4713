package article

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/perashanid/Media-bias/internal/common/pagination"
	"github.com/perashanid/Media-bias/internal/handler/http/respond"
	"github.com/perashanid/Media-bias/internal/pkg/search"
	artUC "github.com/perashanid/Media-bias/internal/usecase/article"
)

type SearchHandler struct {
	Svc           *artUC.Service
	PaginationCfg pagination.Config
}

// ServeHTTP searches stored articles by keyword.
// @Summary      Search articles
// @Description  Case-insensitive substring match over title and content, combined with the same filters as the list endpoint.
// @Tags         articles
// @Produce      json
// @Param        keyword query  string  true   "Search keyword"
// @Param        source  query  string  false  "Filter by source key"
// @Param        topic   query  string  false  "Filter by assigned topic"
// @Param        from    query  string  false  "Publication date lower bound"
// @Param        to      query  string  false  "Publication date upper bound"
// @Param        page    query  int     false  "Page number (1-based)" default(1)
// @Param        limit   query  int     false  "Items per page" default(20)
// @Success      200 {array} DTO "Matching articles"
// @Failure      400 {string} string "Bad request"
// @Failure      500 {string} string "Server error"
// @Router       /articles/search [get]
func (h SearchHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	kw := r.URL.Query().Get("keyword")
	if kw == "" {
		respond.SafeError(w, http.StatusBadRequest,
			errors.New("keyword query param required"))
		return
	}
	keywords, err := search.ParseKeywords(kw, 1, search.DefaultMaxKeywordLength)
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest,
			fmt.Errorf("invalid keyword: %w", err))
		return
	}

	filters, err := parseFilters(r)
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	params, err := pagination.ParseQueryParams(r, h.PaginationCfg)
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	list, err := h.Svc.Search(r.Context(), keywords[0], filters, params)
	if err != nil {
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}

	respond.JSON(w, http.StatusOK, toDTOs(list))
}

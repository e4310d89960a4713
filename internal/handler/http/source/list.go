package source

import (
	"net/http"

	"github.com/perashanid/Media-bias/internal/domain/entity"
	"github.com/perashanid/Media-bias/internal/handler/http/respond"
	srcUC "github.com/perashanid/Media-bias/internal/usecase/source"
)

type ListHandler struct{ Svc *srcUC.Service }

// ServeHTTP lists registered sources.
// @Summary      List sources
// @Description  Returns the registered news outlets. Pass enabled=true to list only outlets included in scrape runs.
// @Tags         sources
// @Produce      json
// @Param        enabled query bool false "Only enabled sources"
// @Success      200 {array} DTO "Registered sources"
// @Failure      500 {string} string "Server error"
// @Router       /sources [get]
func (h ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var (
		list []*entity.Source
		err  error
	)
	if r.URL.Query().Get("enabled") == "true" {
		list, err = h.Svc.ListEnabled(r.Context())
	} else {
		list, err = h.Svc.List(r.Context())
	}
	if err != nil {
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}

	out := make([]DTO, 0, len(list))
	for _, e := range list {
		out = append(out, toDTO(e))
	}
	respond.JSON(w, http.StatusOK, out)
}

package comparison

import (
	"fmt"
	"net/http"
	"sort"
	"strconv"

	"github.com/perashanid/Media-bias/internal/handler/http/respond"
	compareUC "github.com/perashanid/Media-bias/internal/usecase/compare"
)

// maxPatternDays bounds the days query parameter.
const maxPatternDays = 365

func parseDays(r *http.Request, def int) (int, error) {
	raw := r.URL.Query().Get("days")
	if raw == "" {
		return def, nil
	}
	days, err := strconv.Atoi(raw)
	if err != nil || days < 1 || days > maxPatternDays {
		return 0, fmt.Errorf("invalid days: must be 1-%d", maxPatternDays)
	}
	return days, nil
}

type SourcePatternsHandler struct{ Svc *compareUC.Service }

// ServeHTTP aggregates average bias scores per source.
// @Summary      Source bias patterns
// @Description  Averages the bias dimensions of each source's analyzed articles over the window.
// @Tags         comparison
// @Produce      json
// @Param        days query int false "Aggregation window in days" default(30)
// @Success      200 {array} ProfileDTO "Per-source bias profiles"
// @Failure      400 {string} string "Bad request"
// @Failure      500 {string} string "Server error"
// @Router       /comparison/sources [get]
func (h SourcePatternsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	days, err := parseDays(r, compareUC.DefaultPatternDays)
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	profiles, err := h.Svc.SourcePatterns(r.Context(), days)
	if err != nil {
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}

	out := make([]ProfileDTO, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, toProfileDTO(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Source < out[j].Source })
	respond.JSON(w, http.StatusOK, out)
}

type StoryClustersHandler struct{ Svc *compareUC.Service }

// ServeHTTP groups recent articles into multi-source story clusters.
// @Summary      Story clusters
// @Tags         comparison
// @Produce      json
// @Param        days query int false "Clustering window in days" default(7)
// @Success      200 {array} ClusterDTO "Story clusters, largest first"
// @Failure      400 {string} string "Bad request"
// @Failure      500 {string} string "Server error"
// @Router       /comparison/clusters [get]
func (h StoryClustersHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	days, err := parseDays(r, compareUC.DefaultClusterDays)
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	clusters, err := h.Svc.StoryClusters(r.Context(), days)
	if err != nil {
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}

	out := make([]ClusterDTO, 0, len(clusters))
	for _, c := range clusters {
		out = append(out, toClusterDTO(c))
	}
	respond.JSON(w, http.StatusOK, out)
}

package bias

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/perashanid/Media-bias/internal/handler/http/respond"
	analyzeUC "github.com/perashanid/Media-bias/internal/usecase/analyze"
)

func parseWindow(r *http.Request) (days int, source string, err error) {
	source = r.URL.Query().Get("source")
	raw := r.URL.Query().Get("days")
	if raw == "" {
		return analyzeUC.DefaultWindowDays, source, nil
	}
	days, convErr := strconv.Atoi(raw)
	if convErr != nil || days < 1 || days > analyzeUC.MaxWindowDays {
		return 0, "", fmt.Errorf("invalid days: must be 1-%d", analyzeUC.MaxWindowDays)
	}
	return days, source, nil
}

type DistributionHandler struct{ Svc *analyzeUC.Service }

// ServeHTTP builds score histograms over the analyzed corpus.
// @Summary      Bias score distribution
// @Description  Ten-bucket histograms with mean/min/max per score component, over a recent window.
// @Tags         bias
// @Produce      json
// @Param        days   query int    false "Window in days" default(30)
// @Param        source query string false "Limit to one source"
// @Success      200 {object} analyzeUC.Distribution "Per-component histograms"
// @Failure      400 {string} string "Bad request"
// @Failure      500 {string} string "Server error"
// @Router       /bias/distribution [get]
func (h DistributionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	days, source, err := parseWindow(r)
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	dist, err := h.Svc.ScoreDistribution(r.Context(), days, source)
	if err != nil {
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}
	respond.JSON(w, http.StatusOK, dist)
}

type TrendsHandler struct{ Svc *analyzeUC.Service }

// ServeHTTP reports daily average bias scores.
// @Summary      Bias trends
// @Description  Per-day average scores over a recent window, oldest day first.
// @Tags         bias
// @Produce      json
// @Param        days   query int    false "Window in days" default(30)
// @Param        source query string false "Limit to one source"
// @Success      200 {array} analyzeUC.TrendPoint "Daily averages"
// @Failure      400 {string} string "Bad request"
// @Failure      500 {string} string "Server error"
// @Router       /bias/trends [get]
func (h TrendsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	days, source, err := parseWindow(r)
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	points, err := h.Svc.BiasTrends(r.Context(), days, source)
	if err != nil {
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}
	respond.JSON(w, http.StatusOK, points)
}

package scrapectl

import (
	"net/http"
	"time"

	"github.com/perashanid/Media-bias/internal/handler/http/respond"
	scrapeUC "github.com/perashanid/Media-bias/internal/usecase/scrape"
)

// SourceHealthDTO is the advisory health state of one source.
type SourceHealthDTO struct {
	Source            string     `json:"source"`
	Healthy           bool       `json:"healthy"`
	ConsecutiveErrors int        `json:"consecutive_errors"`
	LastError         string     `json:"last_error,omitempty"`
	LastSuccess       *time.Time `json:"last_success,omitempty"`
	LastAttempt       *time.Time `json:"last_attempt,omitempty"`
}

func toSourceHealthDTOs(states []scrapeUC.SourceHealth) []SourceHealthDTO {
	out := make([]SourceHealthDTO, 0, len(states))
	for _, h := range states {
		dto := SourceHealthDTO{
			Source:            h.Source,
			Healthy:           h.Healthy,
			ConsecutiveErrors: h.ConsecutiveErrors,
			LastError:         h.LastError,
		}
		if !h.LastSuccess.IsZero() {
			t := h.LastSuccess
			dto.LastSuccess = &t
		}
		if !h.LastAttempt.IsZero() {
			t := h.LastAttempt
			dto.LastAttempt = &t
		}
		out = append(out, dto)
	}
	return out
}

type SourceHealthHandler struct{ Svc *scrapeUC.Service }

// ServeHTTP reports per-source scrape health.
// @Summary      Source scrape health
// @Description  Per-source consecutive error counts from recent scrape runs. Sources with no runs yet are absent.
// @Tags         scraper
// @Produce      json
// @Success      200 {array} SourceHealthDTO "Health per source"
// @Router       /scraper/health [get]
func (h SourceHealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, toSourceHealthDTOs(h.Svc.Health()))
}

type ResetHealthHandler struct{ Svc *scrapeUC.Service }

// ServeHTTP clears recorded scrape errors, for one source when the
// source query parameter is set, otherwise for all of them.
// @Summary      Reset source scrape health
// @Tags         scraper
// @Security     BearerAuth
// @Produce      json
// @Param        source query string false "Source key to reset; omit for all"
// @Success      200 {array} SourceHealthDTO "Health after reset"
// @Failure      401 {string} string "Authentication required"
// @Failure      404 {string} string "Not found - source has no recorded state"
// @Router       /scraper/health/reset [post]
func (h ResetHealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if key := r.URL.Query().Get("source"); key != "" {
		if !h.Svc.ResetHealth(key) {
			respond.SafeError(w, http.StatusNotFound, scrapeUC.ErrSourceNotFound)
			return
		}
	} else {
		h.Svc.ResetAllHealth()
	}
	respond.JSON(w, http.StatusOK, toSourceHealthDTOs(h.Svc.Health()))
}

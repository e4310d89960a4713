package scrapectl

import (
	"errors"
	"net/http"

	"github.com/perashanid/Media-bias/internal/handler/http/respond"
	srcUC "github.com/perashanid/Media-bias/internal/usecase/source"
)

type TriggerAllHandler struct{ Ctl *Controller }

// ServeHTTP starts a scrape run over all enabled sources.
// @Summary      Trigger scrape run
// @Description  Starts an asynchronous scrape of all enabled sources. Poll the status endpoint for the outcome.
// @Tags         scraper
// @Security     BearerAuth
// @Success      202 {object} StatusDTO "Run started"
// @Failure      401 {string} string "Authentication required"
// @Failure      409 {string} string "Conflict - a run is already in progress"
// @Router       /scraper/run [post]
func (h TriggerAllHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := h.Ctl.TriggerAll(); err != nil {
		respond.SafeError(w, http.StatusConflict, err)
		return
	}
	respond.JSON(w, http.StatusAccepted, toStatusDTO(h.Ctl.State()))
}

type TriggerSourceHandler struct {
	Ctl     *Controller
	Sources *srcUC.Service
}

// ServeHTTP starts a scrape run for one source.
// @Summary      Trigger single-source scrape
// @Tags         scraper
// @Security     BearerAuth
// @Param        key path string true "Source key"
// @Success      202 {object} StatusDTO "Run started"
// @Failure      400 {string} string "Bad request - missing source key"
// @Failure      401 {string} string "Authentication required"
// @Failure      404 {string} string "Not found - source not registered"
// @Failure      409 {string} string "Conflict - a run is already in progress"
// @Router       /scraper/run/{key} [post]
func (h TriggerSourceHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	if key == "" {
		respond.SafeError(w, http.StatusBadRequest, errors.New("source key required"))
		return
	}

	// Reject unknown keys before starting an async run.
	if _, err := h.Sources.GetByKey(r.Context(), key); err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, srcUC.ErrSourceNotFound) {
			code = http.StatusNotFound
		}
		respond.SafeError(w, code, err)
		return
	}

	if err := h.Ctl.TriggerSource(key); err != nil {
		respond.SafeError(w, http.StatusConflict, err)
		return
	}
	respond.JSON(w, http.StatusAccepted, toStatusDTO(h.Ctl.State()))
}

type StatusHandler struct{ Ctl *Controller }

// ServeHTTP reports the scrape control state.
// @Summary      Scrape run status
// @Tags         scraper
// @Produce      json
// @Success      200 {object} StatusDTO "Run state and last reports"
// @Router       /scraper/status [get]
func (h StatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, toStatusDTO(h.Ctl.State()))
}

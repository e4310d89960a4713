package bias

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/perashanid/Media-bias/internal/handler/http/respond"
	analyzeUC "github.com/perashanid/Media-bias/internal/usecase/analyze"
)

// maxAnalyzeTextBytes bounds the analyze request body. Articles rarely
// exceed a few hundred kilobytes of text.
const maxAnalyzeTextBytes = 1 << 20

type AnalyzeTextHandler struct{ Svc *analyzeUC.Service }

// ServeHTTP analyzes raw text without persisting anything.
// @Summary      Analyze text
// @Description  Runs the bias pipeline over the submitted text. Language is detected when omitted.
// @Tags         bias
// @Accept       json
// @Produce      json
// @Success      200 {object} ScoreDTO "Bias scores"
// @Failure      400 {string} string "Bad request - empty or oversized text"
// @Failure      500 {string} string "Server error"
// @Router       /bias/analyze [post]
func (h AnalyzeTextHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxAnalyzeTextBytes)

	var req struct {
		Text     string `json:"text"`
		Language string `json:"language"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	score, err := h.Svc.AnalyzeText(req.Text, req.Language)
	if err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, analyzeUC.ErrEmptyText) {
			code = http.StatusBadRequest
		}
		respond.SafeError(w, code, err)
		return
	}

	respond.JSON(w, http.StatusOK, toScoreDTO(score, req.Language))
}

package scrapectl

import (
	"time"

	scrapeUC "github.com/perashanid/Media-bias/internal/usecase/scrape"
)

// RunReportDTO summarizes one source's scrape run.
type RunReportDTO struct {
	Source     string `json:"source"`
	Discovered int    `json:"discovered"`
	Stored     int    `json:"stored"`
	Duplicates int    `json:"duplicates"`
	Failed     int    `json:"failed"`
	DurationMS int64  `json:"duration_ms"`
	Error      string `json:"error,omitempty"`
}

func toRunReportDTOs(reports []scrapeUC.RunReport) []RunReportDTO {
	out := make([]RunReportDTO, 0, len(reports))
	for _, r := range reports {
		dto := RunReportDTO{
			Source:     r.Source,
			Discovered: r.Discovered,
			Stored:     r.Stored,
			Duplicates: r.Duplicates,
			Failed:     r.Failed,
			DurationMS: r.Duration.Milliseconds(),
		}
		if r.Err != nil {
			dto.Error = r.Err.Error()
		}
		out = append(out, dto)
	}
	return out
}

// StatusDTO is the scrape control status document.
type StatusDTO struct {
	Running      bool           `json:"running"`
	StartedAt    *time.Time     `json:"started_at,omitempty"`
	FinishedAt   *time.Time     `json:"finished_at,omitempty"`
	LastReports  []RunReportDTO `json:"last_reports"`
	LastRunError string         `json:"last_run_error,omitempty"`
}

func toStatusDTO(state RunState) StatusDTO {
	dto := StatusDTO{
		Running:     state.Running,
		LastReports: toRunReportDTOs(state.LastReports),
	}
	if !state.StartedAt.IsZero() {
		t := state.StartedAt
		dto.StartedAt = &t
	}
	if !state.FinishedAt.IsZero() {
		t := state.FinishedAt
		dto.FinishedAt = &t
	}
	if state.LastRunError != nil {
		dto.LastRunError = state.LastRunError.Error()
	}
	return dto
}

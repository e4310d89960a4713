// Package bias provides HTTP handlers for bias analysis: on-demand text
// analysis, stored article scores and analysis triggers.
package bias

import (
	"github.com/perashanid/Media-bias/internal/domain/entity"
)

// ScoreDTO carries one bias measurement with its coarse label.
type ScoreDTO struct {
	entity.BiasScore
	BiasLevel string `json:"bias_level" example:"moderate"`
	Language  string `json:"language,omitempty" example:"bengali"`
}

func toScoreDTO(score *entity.BiasScore, language string) ScoreDTO {
	return ScoreDTO{
		BiasScore: *score,
		BiasLevel: entity.BiasLevel(score.OverallBias),
		Language:  language,
	}
}

// BatchDTO summarizes a pending-analysis batch run.
type BatchDTO struct {
	Analyzed   int    `json:"analyzed"`
	Failed     int    `json:"failed"`
	DurationMS int64  `json:"duration_ms"`
	Status     string `json:"status" example:"completed"`
}

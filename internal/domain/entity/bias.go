package entity

import "time"

// BiasScore holds the per-dimension bias measurements for one article.
//
// Score ranges:
//   - Sentiment: -1 (negative) to 1 (positive)
//   - PoliticalBias: -1 (left leaning) to 1 (right leaning)
//   - EmotionalLanguage: 0 (neutral) to 1 (highly emotional)
//   - FactualVsOpinion: 0 (opinion) to 1 (factual)
//   - OverallBias: 0 (unbiased) to 1 (highly biased)
type BiasScore struct {
	Sentiment         float64   `json:"sentiment_score"`
	PoliticalBias     float64   `json:"political_bias_score"`
	EmotionalLanguage float64   `json:"emotional_language_score"`
	FactualVsOpinion  float64   `json:"factual_vs_opinion_score"`
	OverallBias       float64   `json:"overall_bias_score"`
	AnalyzedAt        time.Time `json:"analyzed_at"`
}

// Bias level labels derived from the overall bias score.
const (
	BiasLevelLow      = "low"
	BiasLevelModerate = "moderate"
	BiasLevelHigh     = "high"
	BiasLevelVeryHigh = "very_high"
)

// BiasLevel maps an overall bias score onto a coarse label.
func BiasLevel(overall float64) string {
	switch {
	case overall < 0.2:
		return BiasLevelLow
	case overall < 0.4:
		return BiasLevelModerate
	case overall < 0.6:
		return BiasLevelHigh
	default:
		return BiasLevelVeryHigh
	}
}

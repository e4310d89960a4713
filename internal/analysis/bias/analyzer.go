// Package bias combines the sentiment, political, emotional and factual
// analyzers into a single per-article bias score.
package bias

import (
	"time"

	"github.com/perashanid/Media-bias/internal/analysis/factual"
	"github.com/perashanid/Media-bias/internal/analysis/lang"
	"github.com/perashanid/Media-bias/internal/analysis/political"
	"github.com/perashanid/Media-bias/internal/analysis/sentiment"
	"github.com/perashanid/Media-bias/internal/domain/entity"
)

// Component weights for the overall bias score. Political leaning carries
// the most weight.
const (
	sentimentWeight = 0.2
	politicalWeight = 0.3
	emotionalWeight = 0.25
	opinionWeight   = 0.25
)

// languageConfidenceThreshold gates when the detected language overrides
// the language recorded on the article.
const languageConfidenceThreshold = 0.6

// Analyzer orchestrates the individual analysis modules.
type Analyzer struct {
	detector   *lang.Detector
	sentiment  *sentiment.Analyzer
	political  *political.Detector
	classifier *factual.Classifier
}

// NewAnalyzer returns a bias analyzer with all modules wired.
func NewAnalyzer() *Analyzer {
	return &Analyzer{
		detector:   lang.NewDetector(),
		sentiment:  sentiment.NewAnalyzer(),
		political:  political.NewDetector(),
		classifier: factual.NewClassifier(),
	}
}

// Analyze scores an article across every bias dimension. It always
// returns a usable score; an article that cannot be analyzed comes back
// with neutral values.
func (a *Analyzer) Analyze(article *entity.Article) *entity.BiasScore {
	if article == nil {
		return NeutralScore()
	}

	fullText := article.Title + " " + article.Content

	detected, confidence := a.detector.Confidence(fullText)
	language := article.Language
	if confidence > languageConfidenceThreshold {
		language = detected
	}

	return a.AnalyzeText(fullText, language)
}

// AnalyzeText scores raw text in the given language. An empty language
// triggers detection first.
func (a *Analyzer) AnalyzeText(text, language string) *entity.BiasScore {
	if language == "" {
		language = a.detector.Detect(text)
	}

	sentimentScore := a.sentiment.Score(text, language)
	politicalScore := a.political.Score(text, language)
	emotionalScore := a.sentiment.EmotionalIntensity(text, language)
	factualScore := a.classifier.Score(text, language)

	return &entity.BiasScore{
		Sentiment:         sentimentScore,
		PoliticalBias:     politicalScore,
		EmotionalLanguage: emotionalScore,
		FactualVsOpinion:  factualScore,
		OverallBias:       overallBias(sentimentScore, politicalScore, emotionalScore, factualScore),
		AnalyzedAt:        time.Now().UTC(),
	}
}

// NeutralScore is the fallback when analysis cannot run.
func NeutralScore() *entity.BiasScore {
	return &entity.BiasScore{
		Sentiment:         0.0,
		PoliticalBias:     0.0,
		EmotionalLanguage: 0.0,
		FactualVsOpinion:  0.5,
		OverallBias:       0.0,
		AnalyzedAt:        time.Now().UTC(),
	}
}

// overallBias folds the component scores into a 0 (unbiased) to 1
// (highly biased) magnitude. Sentiment and political leaning contribute
// by absolute value; a low factual score contributes as opinion bias.
func overallBias(sentimentScore, politicalScore, emotionalScore, factualScore float64) float64 {
	overall := abs(sentimentScore)*sentimentWeight +
		abs(politicalScore)*politicalWeight +
		emotionalScore*emotionalWeight +
		(1.0-factualScore)*opinionWeight

	if overall < 0.0 {
		return 0.0
	}
	if overall > 1.0 {
		return 1.0
	}
	return overall
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

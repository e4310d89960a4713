package analyze

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/perashanid/Media-bias/internal/domain/entity"
)

// Distribution defaults and bounds.
const (
	DistributionBuckets = 10
	DefaultWindowDays   = 30
	MaxWindowDays       = 365
)

// Score component names used as distribution and trend keys.
const (
	ComponentSentiment = "sentiment_score"
	ComponentPolitical = "political_bias_score"
	ComponentEmotional = "emotional_language_score"
	ComponentFactual   = "factual_vs_opinion_score"
	ComponentOverall   = "overall_bias_score"
)

// Bucket is one histogram cell over [Low, High). The last bucket of a
// distribution is inclusive on both ends.
type Bucket struct {
	Low   float64 `json:"low"`
	High  float64 `json:"high"`
	Count int     `json:"count"`
}

// ComponentDistribution is the histogram and summary statistics for one
// score component.
type ComponentDistribution struct {
	Buckets []Bucket `json:"buckets"`
	Mean    float64  `json:"mean"`
	Min     float64  `json:"min"`
	Max     float64  `json:"max"`
	Count   int      `json:"count"`
}

// Distribution is the per-component score histogram over a time window.
type Distribution struct {
	Days       int                              `json:"days"`
	Source     string                           `json:"source,omitempty"`
	Articles   int                              `json:"articles"`
	Components map[string]ComponentDistribution `json:"components"`
}

// TrendPoint aggregates one day's analyzed articles.
type TrendPoint struct {
	Date              string  `json:"date"`
	Articles          int     `json:"articles"`
	Sentiment         float64 `json:"sentiment_score"`
	PoliticalBias     float64 `json:"political_bias_score"`
	EmotionalLanguage float64 `json:"emotional_language_score"`
	FactualVsOpinion  float64 `json:"factual_vs_opinion_score"`
	OverallBias       float64 `json:"overall_bias_score"`
}

// ScoreDistribution builds per-component histograms over the analyzed
// articles of the last days days, optionally limited to one source.
// Each component gets ten buckets spanning its observed [min, max].
func (s *Service) ScoreDistribution(ctx context.Context, days int, source string) (*Distribution, error) {
	days = clampDays(days)
	scored, err := s.scoredArticles(ctx, days, source)
	if err != nil {
		return nil, err
	}

	dist := &Distribution{
		Days:       days,
		Source:     source,
		Articles:   len(scored),
		Components: make(map[string]ComponentDistribution, 5),
	}
	for name, extract := range componentExtractors() {
		values := make([]float64, 0, len(scored))
		for _, art := range scored {
			values = append(values, extract(art.BiasScores))
		}
		dist.Components[name] = buildHistogram(values)
	}
	return dist, nil
}

// BiasTrends averages the analyzed articles' scores per publication day
// over the last days days, oldest day first.
func (s *Service) BiasTrends(ctx context.Context, days int, source string) ([]TrendPoint, error) {
	days = clampDays(days)
	scored, err := s.scoredArticles(ctx, days, source)
	if err != nil {
		return nil, err
	}

	byDay := make(map[string][]*entity.BiasScore)
	for _, art := range scored {
		day := art.PublicationDate.UTC().Format("2006-01-02")
		byDay[day] = append(byDay[day], art.BiasScores)
	}

	points := make([]TrendPoint, 0, len(byDay))
	for day, scores := range byDay {
		p := TrendPoint{Date: day, Articles: len(scores)}
		for _, sc := range scores {
			p.Sentiment += sc.Sentiment
			p.PoliticalBias += sc.PoliticalBias
			p.EmotionalLanguage += sc.EmotionalLanguage
			p.FactualVsOpinion += sc.FactualVsOpinion
			p.OverallBias += sc.OverallBias
		}
		n := float64(len(scores))
		p.Sentiment /= n
		p.PoliticalBias /= n
		p.EmotionalLanguage /= n
		p.FactualVsOpinion /= n
		p.OverallBias /= n
		points = append(points, p)
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Date < points[j].Date })
	return points, nil
}

// scoredArticles loads the window's articles that carry bias scores.
func (s *Service) scoredArticles(ctx context.Context, days int, source string) ([]*entity.Article, error) {
	since := time.Now().UTC().AddDate(0, 0, -days)
	articles, err := s.Repo.ListRecent(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("list recent articles: %w", err)
	}

	scored := make([]*entity.Article, 0, len(articles))
	for _, art := range articles {
		if art.BiasScores == nil {
			continue
		}
		if source != "" && art.Source != source {
			continue
		}
		scored = append(scored, art)
	}
	return scored, nil
}

func clampDays(days int) int {
	if days <= 0 {
		return DefaultWindowDays
	}
	if days > MaxWindowDays {
		return MaxWindowDays
	}
	return days
}

func componentExtractors() map[string]func(*entity.BiasScore) float64 {
	return map[string]func(*entity.BiasScore) float64{
		ComponentSentiment: func(b *entity.BiasScore) float64 { return b.Sentiment },
		ComponentPolitical: func(b *entity.BiasScore) float64 { return b.PoliticalBias },
		ComponentEmotional: func(b *entity.BiasScore) float64 { return b.EmotionalLanguage },
		ComponentFactual:   func(b *entity.BiasScore) float64 { return b.FactualVsOpinion },
		ComponentOverall:   func(b *entity.BiasScore) float64 { return b.OverallBias },
	}
}

// buildHistogram splits values into DistributionBuckets equal-width
// buckets across [min, max]. The last bucket includes the maximum.
func buildHistogram(values []float64) ComponentDistribution {
	if len(values) == 0 {
		return ComponentDistribution{Buckets: []Bucket{}}
	}

	lo, hi, sum := values[0], values[0], 0.0
	for _, v := range values {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
		sum += v
	}

	dist := ComponentDistribution{
		Buckets: make([]Bucket, DistributionBuckets),
		Mean:    sum / float64(len(values)),
		Min:     lo,
		Max:     hi,
		Count:   len(values),
	}
	width := (hi - lo) / DistributionBuckets
	for i := range dist.Buckets {
		dist.Buckets[i].Low = lo + float64(i)*width
		dist.Buckets[i].High = lo + float64(i+1)*width
	}
	dist.Buckets[DistributionBuckets-1].High = hi

	for _, v := range values {
		idx := 0
		if width > 0 {
			idx = int((v - lo) / width)
			if idx >= DistributionBuckets {
				idx = DistributionBuckets - 1
			}
		}
		dist.Buckets[idx].Count++
	}
	return dist
}

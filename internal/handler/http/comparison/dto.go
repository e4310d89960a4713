// Package comparison provides HTTP handlers for cross-outlet coverage
// comparison: related articles, comparison reports, per-source bias
// patterns and story clusters.
package comparison

import (
	"time"

	"github.com/perashanid/Media-bias/internal/analysis/similarity"
	"github.com/perashanid/Media-bias/internal/domain/entity"
	compareUC "github.com/perashanid/Media-bias/internal/usecase/compare"
)

// ArticleRef is the compact article representation carried inside
// comparison responses.
type ArticleRef struct {
	ID              int64             `json:"id"`
	Title           string            `json:"title"`
	URL             string            `json:"url"`
	Source          string            `json:"source"`
	Language        string            `json:"language"`
	PublicationDate time.Time         `json:"publication_date"`
	BiasScores      *entity.BiasScore `json:"bias_scores,omitempty"`
}

func toArticleRef(e *entity.Article) ArticleRef {
	return ArticleRef{
		ID:              e.ID,
		Title:           e.Title,
		URL:             e.URL,
		Source:          e.Source,
		Language:        e.Language,
		PublicationDate: e.PublicationDate,
		BiasScores:      e.BiasScores,
	}
}

// MatchDTO is one related article with its similarity score.
type MatchDTO struct {
	Article ArticleRef `json:"article"`
	Score   float64    `json:"score"`
}

func toMatchDTOs(matches []similarity.Match) []MatchDTO {
	out := make([]MatchDTO, 0, len(matches))
	for _, m := range matches {
		out = append(out, MatchDTO{Article: toArticleRef(m.Article), Score: m.Score})
	}
	return out
}

// ReportDTO represents a stored comparison report.
type ReportDTO struct {
	ID               int64              `json:"id"`
	StoryID          string             `json:"story_id"`
	Articles         []ArticleRef       `json:"articles"`
	BiasDifferences  map[string]float64 `json:"bias_differences"`
	KeyDifferences   []string           `json:"key_differences"`
	SimilarityScores map[string]float64 `json:"similarity_scores"`
	CreatedAt        time.Time          `json:"created_at"`
}

func toReportDTO(r *entity.ComparisonReport) ReportDTO {
	articles := make([]ArticleRef, 0, len(r.Articles))
	for _, a := range r.Articles {
		articles = append(articles, toArticleRef(a))
	}
	return ReportDTO{
		ID:               r.ID,
		StoryID:          r.StoryID,
		Articles:         articles,
		BiasDifferences:  r.BiasDifferences,
		KeyDifferences:   r.KeyDifferences,
		SimilarityScores: r.SimilarityScores,
		CreatedAt:        r.CreatedAt,
	}
}

// ProfileDTO aggregates average bias scores for one source.
type ProfileDTO struct {
	Source       string  `json:"source"`
	ArticleCount int     `json:"article_count"`
	AvgSentiment float64 `json:"avg_sentiment"`
	AvgPolitical float64 `json:"avg_political"`
	AvgEmotional float64 `json:"avg_emotional"`
	AvgFactual   float64 `json:"avg_factual"`
	AvgOverall   float64 `json:"avg_overall"`
	BiasLevel    string  `json:"bias_level"`
}

func toProfileDTO(p *compareUC.SourceProfile) ProfileDTO {
	return ProfileDTO{
		Source:       p.Source,
		ArticleCount: p.ArticleCount,
		AvgSentiment: p.AvgSentiment,
		AvgPolitical: p.AvgPolitical,
		AvgEmotional: p.AvgEmotional,
		AvgFactual:   p.AvgFactual,
		AvgOverall:   p.AvgOverall,
		BiasLevel:    entity.BiasLevel(p.AvgOverall),
	}
}

// ClusterDTO is a group of related articles from at least two sources.
type ClusterDTO struct {
	StoryID  string       `json:"story_id"`
	Sources  []string     `json:"sources"`
	Articles []ArticleRef `json:"articles"`
}

func toClusterDTO(c compareUC.StoryCluster) ClusterDTO {
	articles := make([]ArticleRef, 0, len(c.Articles))
	for _, a := range c.Articles {
		articles = append(articles, toArticleRef(a))
	}
	return ClusterDTO{StoryID: c.StoryID, Sources: c.Sources, Articles: articles}
}

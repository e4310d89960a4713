// Package article provides HTTP handlers for the article read surface:
// listing with filters, detail, keyword search and corpus statistics.
// Articles enter the system through the scrape pipeline, so there are
// no create or update endpoints.
package article

import (
	"time"

	"github.com/perashanid/Media-bias/internal/domain/entity"
)

// DTO represents the JSON structure for article data transfer. Content
// is only populated on the detail endpoint; list responses stay light.
type DTO struct {
	ID              int64             `json:"id" example:"1"`
	URL             string            `json:"url" example:"https://www.prothomalo.com/bangladesh/abc123"`
	Title           string            `json:"title" example:"National budget announced"`
	Content         string            `json:"content,omitempty"`
	Author          string            `json:"author,omitempty" example:"Staff Correspondent"`
	Source          string            `json:"source" example:"prothom_alo"`
	Language        string            `json:"language" example:"bengali"`
	Topics          []string          `json:"topics,omitempty"`
	PublicationDate time.Time         `json:"publication_date" example:"2026-08-20T10:00:00Z"`
	ScrapedAt       time.Time         `json:"scraped_at" example:"2026-08-20T11:00:00Z"`
	BiasScores      *entity.BiasScore `json:"bias_scores,omitempty"`
}

// toDTO converts an article entity. includeContent controls whether the
// full article body is carried in the response.
func toDTO(e *entity.Article, includeContent bool) DTO {
	out := DTO{
		ID:              e.ID,
		URL:             e.URL,
		Title:           e.Title,
		Author:          e.Author,
		Source:          e.Source,
		Language:        e.Language,
		Topics:          e.Topics,
		PublicationDate: e.PublicationDate,
		ScrapedAt:       e.ScrapedAt,
		BiasScores:      e.BiasScores,
	}
	if includeContent {
		out.Content = e.Content
	}
	return out
}

// toDTOs converts a list of article entities without content bodies.
func toDTOs(list []*entity.Article) []DTO {
	out := make([]DTO, 0, len(list))
	for _, e := range list {
		out = append(out, toDTO(e, false))
	}
	return out
}

// StatsDTO represents the JSON structure for corpus statistics.
type StatsDTO struct {
	TotalArticles    int64            `json:"total_articles"`
	AnalyzedArticles int64            `json:"analyzed_articles"`
	PendingAnalysis  int64            `json:"pending_analysis"`
	BySource         map[string]int64 `json:"by_source"`
	LatestScrapedAt  *time.Time       `json:"latest_scraped_at,omitempty"`
}

// Package source provides HTTP handlers for the news outlet registry.
// Listing is public; registry mutations require authentication.
package source

import (
	"time"

	"github.com/perashanid/Media-bias/internal/domain/entity"
)

// DTO represents the JSON structure for source data transfer.
type DTO struct {
	ID            int64      `json:"id" example:"1"`
	Key           string     `json:"key" example:"prothom_alo"`
	Name          string     `json:"name" example:"Prothom Alo"`
	BaseURL       string     `json:"base_url" example:"https://www.prothomalo.com"`
	FeedURL       string     `json:"feed_url,omitempty"`
	Language      string     `json:"language" example:"bengali"`
	SourceType    string     `json:"source_type" example:"html"`
	Enabled       bool       `json:"enabled"`
	LastCrawledAt *time.Time `json:"last_crawled_at,omitempty"`
}

func toDTO(e *entity.Source) DTO {
	return DTO{
		ID:            e.ID,
		Key:           e.Key,
		Name:          e.Name,
		BaseURL:       e.BaseURL,
		FeedURL:       e.FeedURL,
		Language:      e.Language,
		SourceType:    e.SourceType,
		Enabled:       e.Enabled,
		LastCrawledAt: e.LastCrawledAt,
	}
}

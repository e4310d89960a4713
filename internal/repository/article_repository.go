package repository

import (
	"context"
	"time"

	"github.com/perashanid/Media-bias/internal/domain/entity"
)

// ArticleFilters narrows article listings and searches. Nil fields are
// ignored.
type ArticleFilters struct {
	Source *string    // Optional: filter by source key
	Topic  *string    // Optional: filter by assigned topic
	From   *time.Time // Optional: publication date >= this instant
	To     *time.Time // Optional: publication date <= this instant
}

// ArticleStats summarizes the stored corpus for the stats endpoint and
// the system monitor.
type ArticleStats struct {
	TotalArticles    int64
	AnalyzedArticles int64
	PendingAnalysis  int64
	BySource         map[string]int64
	LatestScrapedAt  *time.Time
}

type ArticleRepository interface {
	// Put stores an article unless one with the same URL or content hash
	// already exists. It returns the stored article's ID and whether a
	// new row was created; a duplicate returns the existing ID with
	// created=false.
	Put(ctx context.Context, article *entity.Article) (id int64, created bool, err error)
	Get(ctx context.Context, id int64) (*entity.Article, error)
	GetByURL(ctx context.Context, url string) (*entity.Article, error)
	// List returns articles matching filters ordered by publication date
	// descending, using LIMIT/OFFSET pagination.
	List(ctx context.Context, filters ArticleFilters, offset, limit int) ([]*entity.Article, error)
	// Count returns how many articles match filters, for pagination
	// metadata.
	Count(ctx context.Context, filters ArticleFilters) (int64, error)
	// Search matches keyword case-insensitively against title and
	// content, combined with the same optional filters as List.
	Search(ctx context.Context, keyword string, filters ArticleFilters, offset, limit int) ([]*entity.Article, error)
	// ListRecent returns articles published at or after since, newest
	// first. Used for cross-source comparison windows.
	ListRecent(ctx context.Context, since time.Time) ([]*entity.Article, error)
	// PendingAnalysis returns articles without bias scores, oldest
	// scraped first.
	PendingAnalysis(ctx context.Context, limit int) ([]*entity.Article, error)
	UpdateBiasScores(ctx context.Context, id int64, scores *entity.BiasScore) error
	ExistsByURL(ctx context.Context, url string) (bool, error)
	ExistsByHash(ctx context.Context, hash string) (bool, error)
	// CountScrapedSince and CountAnalyzedSince feed hourly monitor
	// metrics.
	CountScrapedSince(ctx context.Context, since time.Time) (int64, error)
	CountAnalyzedSince(ctx context.Context, since time.Time) (int64, error)
	// DeleteOlderThan removes articles published before cutoff and
	// returns how many rows went away.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
	Stats(ctx context.Context) (*ArticleStats, error)
}

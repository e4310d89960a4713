package article

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/perashanid/Media-bias/internal/common/pagination"
	"github.com/perashanid/Media-bias/internal/domain/entity"
	"github.com/perashanid/Media-bias/internal/repository"
)

// Service provides article storage and query use cases. It handles
// duplicate detection and delegates persistence to the repository.
type Service struct {
	Repo repository.ArticleRepository
}

// PaginatedResult represents the result of a paginated article query.
type PaginatedResult struct {
	Data       []*entity.Article
	Pagination pagination.Metadata
}

// BatchResult summarizes a batch store operation.
type BatchResult struct {
	Stored     int
	Duplicates int
	Failed     int
}

// Store persists a scraped article. It returns false when the article
// was already stored under the same URL or content hash.
func (s *Service) Store(ctx context.Context, art *entity.Article) (bool, error) {
	if art == nil {
		return false, &entity.ValidationError{Field: "article", Message: "is required"}
	}
	if err := art.Validate(); err != nil {
		return false, fmt.Errorf("validate article: %w", err)
	}
	if art.ScrapedAt.IsZero() {
		art.ScrapedAt = time.Now().UTC()
	}
	if art.PublicationDate.IsZero() {
		art.PublicationDate = art.ScrapedAt
	}
	art.EnsureContentHash()

	id, created, err := s.Repo.Put(ctx, art)
	if err != nil {
		return false, fmt.Errorf("store article: %w", err)
	}
	art.ID = id
	return created, nil
}

// StoreBatch persists a batch of scraped articles. Individual failures
// are logged and counted, not fatal: one broken article must not sink a
// whole scrape run.
func (s *Service) StoreBatch(ctx context.Context, articles []*entity.Article) (BatchResult, error) {
	var result BatchResult
	for _, art := range articles {
		if ctx.Err() != nil {
			return result, ctx.Err()
		}
		created, err := s.Store(ctx, art)
		if err != nil {
			result.Failed++
			url := ""
			if art != nil {
				url = art.URL
			}
			slog.Warn("article store failed",
				slog.String("url", url),
				slog.Any("error", err))
			continue
		}
		if created {
			result.Stored++
		} else {
			result.Duplicates++
		}
	}
	return result, nil
}

// Get retrieves a single article by its ID.
// Returns ErrInvalidArticleID if the ID is not positive.
// Returns ErrArticleNotFound if the article does not exist.
func (s *Service) Get(ctx context.Context, id int64) (*entity.Article, error) {
	if id <= 0 {
		return nil, ErrInvalidArticleID
	}

	art, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get article: %w", err)
	}
	if art == nil {
		return nil, ErrArticleNotFound
	}
	return art, nil
}

// GetByURL retrieves a single article by its URL.
// Returns ErrArticleNotFound if no article with that URL is stored.
func (s *Service) GetByURL(ctx context.Context, url string) (*entity.Article, error) {
	if url == "" {
		return nil, &entity.ValidationError{Field: "url", Message: "is required"}
	}

	art, err := s.Repo.GetByURL(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("get article by URL: %w", err)
	}
	if art == nil {
		return nil, ErrArticleNotFound
	}
	return art, nil
}

// List retrieves articles matching the filters, newest first, with
// pagination metadata.
func (s *Service) List(ctx context.Context, filters repository.ArticleFilters, params pagination.Params) (*PaginatedResult, error) {
	offset := pagination.CalculateOffset(params.Page, params.Limit)

	total, err := s.Repo.Count(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("count articles: %w", err)
	}

	articles, err := s.Repo.List(ctx, filters, offset, params.Limit)
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}

	return &PaginatedResult{
		Data: articles,
		Pagination: pagination.Metadata{
			Total:      total,
			Page:       params.Page,
			Limit:      params.Limit,
			TotalPages: pagination.CalculateTotalPages(total, params.Limit),
		},
	}, nil
}

// Search finds articles whose title or content contains the keyword,
// case-insensitively, combined with the optional filters.
func (s *Service) Search(ctx context.Context, keyword string, filters repository.ArticleFilters, params pagination.Params) ([]*entity.Article, error) {
	offset := pagination.CalculateOffset(params.Page, params.Limit)

	articles, err := s.Repo.Search(ctx, keyword, filters, offset, params.Limit)
	if err != nil {
		return nil, fmt.Errorf("search articles: %w", err)
	}
	return articles, nil
}

// ListRecent retrieves articles published within the given window.
func (s *Service) ListRecent(ctx context.Context, window time.Duration) ([]*entity.Article, error) {
	if window <= 0 {
		return nil, &entity.ValidationError{Field: "window", Message: "must be positive"}
	}

	articles, err := s.Repo.ListRecent(ctx, time.Now().UTC().Add(-window))
	if err != nil {
		return nil, fmt.Errorf("list recent articles: %w", err)
	}
	return articles, nil
}

// Stats returns collection statistics across all stored articles.
func (s *Service) Stats(ctx context.Context) (*repository.ArticleStats, error) {
	stats, err := s.Repo.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("article stats: %w", err)
	}
	return stats, nil
}

// DeleteOlderThan removes articles published before the cutoff and
// returns how many were deleted.
func (s *Service) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	deleted, err := s.Repo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete old articles: %w", err)
	}
	if deleted > 0 {
		slog.Info("old articles deleted",
			slog.Int64("count", deleted),
			slog.Time("cutoff", cutoff))
	}
	return deleted, nil
}

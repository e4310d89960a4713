package analyze

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// MaxBatchIDs caps how many articles one AnalyzeBatch call accepts.
const MaxBatchIDs = 50

// AnalyzeBatch analyzes the named articles and persists their scores.
// Unknown IDs and per-article persistence failures are counted as
// failed, not fatal. Returns ErrNoArticleIDs or ErrTooManyArticleIDs
// for unusable requests.
func (s *Service) AnalyzeBatch(ctx context.Context, ids []int64) (BatchResult, error) {
	if len(ids) == 0 {
		return BatchResult{}, ErrNoArticleIDs
	}
	if len(ids) > MaxBatchIDs {
		return BatchResult{}, fmt.Errorf("%w: %d (max %d)", ErrTooManyArticleIDs, len(ids), MaxBatchIDs)
	}

	start := time.Now()
	var result BatchResult
	for _, id := range ids {
		if ctx.Err() != nil {
			result.Duration = time.Since(start)
			return result, ctx.Err()
		}
		if _, err := s.AnalyzeArticle(ctx, id); err != nil {
			result.Failed++
			slog.Warn("batch analysis failed for article",
				slog.Int64("article_id", id),
				slog.Any("error", err))
			continue
		}
		result.Analyzed++
	}
	result.Duration = time.Since(start)

	slog.Info("id batch analysis complete",
		slog.Int("analyzed", result.Analyzed),
		slog.Int("failed", result.Failed),
		slog.Duration("duration", result.Duration))
	return result, nil
}

package analyze

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/perashanid/Media-bias/internal/analysis/bias"
	"github.com/perashanid/Media-bias/internal/domain/entity"
	"github.com/perashanid/Media-bias/internal/observability/metrics"
	"github.com/perashanid/Media-bias/internal/repository"
)

// DefaultBatchSize is how many pending articles one ProcessPending call
// analyzes.
const DefaultBatchSize = 50

// Service runs bias analysis over stored articles. Analysis is
// deterministic, so re-running it on the same text yields the same
// scores.
type Service struct {
	Repo     repository.ArticleRepository
	Analyzer *bias.Analyzer

	// BatchSize caps one ProcessPending run. Zero means DefaultBatchSize.
	BatchSize int
}

// BatchResult summarizes one analysis batch.
type BatchResult struct {
	Analyzed int
	Failed   int
	Duration time.Duration
}

// AnalyzeArticle analyzes one stored article and persists its scores.
// Returns ErrArticleNotFound if the article does not exist.
func (s *Service) AnalyzeArticle(ctx context.Context, id int64) (*entity.BiasScore, error) {
	art, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get article: %w", err)
	}
	if art == nil {
		return nil, ErrArticleNotFound
	}

	start := time.Now()
	score := s.Analyzer.Analyze(art)
	if err := s.Repo.UpdateBiasScores(ctx, id, score); err != nil {
		metrics.RecordArticleAnalyzed(false)
		return nil, fmt.Errorf("store bias scores: %w", err)
	}
	metrics.RecordArticleAnalyzed(true)
	metrics.RecordAnalysisDuration(time.Since(start))
	return score, nil
}

// AnalyzeText analyzes raw text without persisting anything. When
// language is empty it is detected from the text.
func (s *Service) AnalyzeText(text, language string) (*entity.BiasScore, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}
	return s.Analyzer.AnalyzeText(text, language), nil
}

// ProcessPending analyzes the oldest articles still waiting for
// analysis, up to the batch size. A failure on one article is counted
// and skipped so the backlog keeps draining.
func (s *Service) ProcessPending(ctx context.Context) (BatchResult, error) {
	batchSize := s.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	start := time.Now()
	pending, err := s.Repo.PendingAnalysis(ctx, batchSize)
	if err != nil {
		return BatchResult{}, fmt.Errorf("load pending articles: %w", err)
	}

	var result BatchResult
	for _, art := range pending {
		if ctx.Err() != nil {
			result.Duration = time.Since(start)
			return result, ctx.Err()
		}
		itemStart := time.Now()
		score := s.Analyzer.Analyze(art)
		if err := s.Repo.UpdateBiasScores(ctx, art.ID, score); err != nil {
			result.Failed++
			metrics.RecordArticleAnalyzed(false)
			slog.Warn("bias score update failed",
				slog.Int64("article_id", art.ID),
				slog.Any("error", err))
			continue
		}
		result.Analyzed++
		metrics.RecordArticleAnalyzed(true)
		metrics.RecordAnalysisDuration(time.Since(itemStart))
	}
	result.Duration = time.Since(start)

	if result.Analyzed > 0 || result.Failed > 0 {
		slog.Info("analysis batch complete",
			slog.Int("analyzed", result.Analyzed),
			slog.Int("failed", result.Failed),
			slog.Duration("duration", result.Duration))
	}
	return result, nil
}

package scrape

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/perashanid/Media-bias/internal/domain/entity"
	"github.com/perashanid/Media-bias/internal/observability/metrics"
	"github.com/perashanid/Media-bias/internal/repository"
	"github.com/perashanid/Media-bias/internal/usecase/article"
)

// DefaultMaxConcurrent bounds how many sources are scraped in parallel.
// Each scraper already rate-limits its own outlet; this caps total
// outbound pressure.
const DefaultMaxConcurrent = 3

// ScraperFactory builds the scraper for a source.
type ScraperFactory interface {
	ForSource(source entity.Source) (ArticleScraper, error)
}

// URLScraperFactory builds a generic scraper for an arbitrary URL.
// Factories that only serve registered sources need not implement it.
type URLScraperFactory interface {
	ForURL(rawURL string) (ArticleScraper, error)
}

// ArticleStore persists scraped article batches.
type ArticleStore interface {
	StoreBatch(ctx context.Context, articles []*entity.Article) (article.BatchResult, error)
}

// RunReport summarizes one source's scrape run.
type RunReport struct {
	Source     string
	Discovered int
	Stored     int
	Duplicates int
	Failed     int
	Duration   time.Duration
	Err        error
}

// Service coordinates scrape runs across the registered sources.
type Service struct {
	Sources repository.SourceRepository
	Factory ScraperFactory
	Store   ArticleStore

	// MaxConcurrent caps parallel source runs. Zero means
	// DefaultMaxConcurrent.
	MaxConcurrent int

	// ArticlesPerRun caps how many articles each source run collects.
	// Zero lets the scraper use its own default.
	ArticlesPerRun int

	health healthTracker
}

// MaxConcurrentFromEnv reads MAX_CONCURRENT_SCRAPERS, falling back to
// the default for unset or invalid values.
func MaxConcurrentFromEnv() int {
	if val := os.Getenv("MAX_CONCURRENT_SCRAPERS"); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil && parsed > 0 {
			return parsed
		}
	}
	return DefaultMaxConcurrent
}

// ScrapeSource runs one source end to end: discover, scrape, store,
// stamp last_crawled_at.
// Returns ErrSourceNotFound or ErrSourceDisabled for unusable sources.
func (s *Service) ScrapeSource(ctx context.Context, key string) (RunReport, error) {
	src, err := s.Sources.GetByKey(ctx, key)
	if err != nil {
		return RunReport{Source: key}, fmt.Errorf("get source: %w", err)
	}
	if src == nil {
		return RunReport{Source: key}, ErrSourceNotFound
	}
	if !src.Enabled {
		return RunReport{Source: key}, ErrSourceDisabled
	}
	return s.run(ctx, *src), nil
}

// ScrapeAll runs every enabled source with bounded concurrency and
// returns a report per source. Individual source failures land in their
// report, not in the returned error.
func (s *Service) ScrapeAll(ctx context.Context) ([]RunReport, error) {
	sources, err := s.Sources.ListEnabled(ctx)
	if err != nil {
		return nil, fmt.Errorf("list enabled sources: %w", err)
	}
	if len(sources) == 0 {
		return nil, ErrNoEnabledSources
	}

	maxConcurrent := s.MaxConcurrent
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrent
	}

	reports := make([]RunReport, len(sources))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrent)

	for i, src := range sources {
		g.Go(func() error {
			reports[i] = s.run(gctx, *src)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return reports, err
	}

	var stored, failed int
	for _, r := range reports {
		stored += r.Stored
		if r.Err != nil {
			failed++
		}
	}
	slog.Info("scrape run complete",
		slog.Int("sources", len(sources)),
		slog.Int("stored", stored),
		slog.Int("failed_sources", failed))
	return reports, nil
}

// ScrapeURL scrapes one arbitrary URL with the generic extractor. When
// store is true the article goes through the usual dedup path and the
// returned flag reports whether a new row was created.
func (s *Service) ScrapeURL(ctx context.Context, rawURL string, store bool) (*entity.Article, bool, error) {
	urlFactory, ok := s.Factory.(URLScraperFactory)
	if !ok {
		return nil, false, ErrURLScrapeUnsupported
	}

	scraper, err := urlFactory.ForURL(rawURL)
	if err != nil {
		return nil, false, fmt.Errorf("build URL scraper: %w", err)
	}

	art, err := scraper.ScrapeArticle(ctx, rawURL)
	if err != nil {
		return nil, false, fmt.Errorf("scrape %s: %w", rawURL, err)
	}
	if !store {
		return art, false, nil
	}

	result, err := s.Store.StoreBatch(ctx, []*entity.Article{art})
	if err != nil {
		return nil, false, fmt.Errorf("store article from %s: %w", rawURL, err)
	}
	return art, result.Stored > 0, nil
}

func (s *Service) run(ctx context.Context, src entity.Source) RunReport {
	report := RunReport{Source: src.Key}
	start := time.Now()
	defer func() {
		report.Duration = time.Since(start)
		metrics.RecordScrapeDuration(src.Key, report.Duration)
		if report.Err != nil {
			s.health.recordFailure(src.Key, time.Now().UTC(), report.Err)
		} else {
			s.health.recordSuccess(src.Key, time.Now().UTC())
		}
	}()

	scraper, err := s.Factory.ForSource(src)
	if err != nil {
		report.Err = fmt.Errorf("build scraper: %w", err)
		metrics.RecordScrapeError(src.Key, "config")
		return report
	}

	articles, err := scraper.ScrapeLatest(ctx, s.ArticlesPerRun)
	if err != nil && len(articles) == 0 {
		report.Err = fmt.Errorf("scrape %s: %w", src.Key, err)
		metrics.RecordScrapeError(src.Key, "fetch")
		return report
	}
	report.Discovered = len(articles)

	result, err := s.Store.StoreBatch(ctx, articles)
	if err != nil {
		report.Err = fmt.Errorf("store batch for %s: %w", src.Key, err)
		metrics.RecordScrapeError(src.Key, "store")
		return report
	}
	report.Stored = result.Stored
	report.Duplicates = result.Duplicates
	report.Failed = result.Failed
	metrics.RecordArticlesScraped(src.Key, report.Stored)

	if err := s.Sources.TouchCrawledAt(ctx, src.Key, time.Now().UTC()); err != nil {
		slog.Warn("last_crawled_at update failed",
			slog.String("source", src.Key),
			slog.Any("error", err))
	}

	slog.Info("source scraped",
		slog.String("source", src.Key),
		slog.Int("discovered", report.Discovered),
		slog.Int("stored", report.Stored),
		slog.Int("duplicates", report.Duplicates),
		slog.Duration("duration", report.Duration))
	return report
}

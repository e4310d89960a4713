package scraper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/sony/gobreaker"

	"github.com/perashanid/Media-bias/internal/analysis/lang"
	"github.com/perashanid/Media-bias/internal/analysis/topic"
	"github.com/perashanid/Media-bias/internal/domain/entity"
	"github.com/perashanid/Media-bias/internal/observability/metrics"
	"github.com/perashanid/Media-bias/internal/resilience/circuitbreaker"
	"github.com/perashanid/Media-bias/internal/resilience/retry"
	"github.com/perashanid/Media-bias/internal/usecase/scrape"
)

// RSSScraper collects articles from a source's feed. Feed items carry
// only summaries, so full text goes through the content fetcher when one
// is configured.
type RSSScraper struct {
	source   entity.Source
	cfg      Config
	parser   *gofeed.Parser
	cb       *circuitbreaker.CircuitBreaker
	retryCfg retry.Config
	detector *lang.Detector
	topics   *topic.Extractor
	enhancer scrape.ContentFetcher
}

// NewRSSScraper builds a feed scraper for the given source. The source
// must carry a feed URL.
func NewRSSScraper(source entity.Source, cfg Config, enhancer scrape.ContentFetcher) *RSSScraper {
	parser := gofeed.NewParser()
	parser.UserAgent = randomUserAgent()

	retryCfg := retry.FeedFetchConfig()
	if cfg.MaxRetries > 0 {
		retryCfg.MaxAttempts = cfg.MaxRetries
	}

	return &RSSScraper{
		source:   source,
		cfg:      cfg,
		parser:   parser,
		cb:       circuitbreaker.New(circuitbreaker.FeedFetchConfig()),
		retryCfg: retryCfg,
		detector: lang.NewDetector(),
		topics:   topic.NewExtractor(),
		enhancer: enhancer,
	}
}

// Source implements scrape.ArticleScraper.
func (s *RSSScraper) Source() string {
	return s.source.Key
}

// DiscoverURLs returns article links from the feed, newest first.
func (s *RSSScraper) DiscoverURLs(ctx context.Context, limit int) ([]string, error) {
	feed, err := s.fetchFeed(ctx)
	if err != nil {
		return nil, fmt.Errorf("DiscoverURLs: %w", err)
	}
	if limit <= 0 {
		limit = s.cfg.ArticlesPerSource
	}

	seen := make(map[string]struct{}, limit)
	urls := make([]string, 0, limit)
	for _, item := range feed.Items {
		if len(urls) >= limit {
			break
		}
		if item.Link == "" {
			continue
		}
		if _, ok := seen[item.Link]; ok {
			continue
		}
		seen[item.Link] = struct{}{}
		urls = append(urls, item.Link)
	}
	return urls, nil
}

// ScrapeArticle builds an article from the matching feed item, pulling
// full text through the content fetcher when the item only carries a
// summary.
func (s *RSSScraper) ScrapeArticle(ctx context.Context, articleURL string) (*entity.Article, error) {
	if err := validateURL(articleURL, s.cfg.DenyPrivateIPs); err != nil {
		return nil, fmt.Errorf("ScrapeArticle: %w", err)
	}

	feed, err := s.fetchFeed(ctx)
	if err != nil {
		return nil, fmt.Errorf("ScrapeArticle: %w", err)
	}
	for _, item := range feed.Items {
		if item.Link == articleURL {
			return s.itemToArticle(ctx, item)
		}
	}
	return nil, fmt.Errorf("ScrapeArticle: %w: %s not in feed", scrape.ErrNoContent, articleURL)
}

// ScrapeLatest converts up to limit feed items into articles.
func (s *RSSScraper) ScrapeLatest(ctx context.Context, limit int) ([]*entity.Article, error) {
	feed, err := s.fetchFeed(ctx)
	if err != nil {
		return nil, fmt.Errorf("ScrapeLatest: %w", err)
	}
	if limit <= 0 {
		limit = s.cfg.ArticlesPerSource
	}

	articles := make([]*entity.Article, 0, limit)
	for _, item := range feed.Items {
		if len(articles) >= limit {
			break
		}
		if ctx.Err() != nil {
			return articles, ctx.Err()
		}
		article, err := s.itemToArticle(ctx, item)
		if err != nil {
			slog.Warn("feed item conversion failed",
				slog.String("source", s.source.Key),
				slog.String("url", item.Link),
				slog.Any("error", err))
			continue
		}
		articles = append(articles, article)
	}
	return articles, nil
}

func (s *RSSScraper) fetchFeed(ctx context.Context) (*gofeed.Feed, error) {
	if s.source.FeedURL == "" {
		return nil, fmt.Errorf("%w: source %s has no feed URL", scrape.ErrInvalidURL, s.source.Key)
	}
	if err := validateURL(s.source.FeedURL, s.cfg.DenyPrivateIPs); err != nil {
		return nil, err
	}

	result, err := s.cb.Execute(func() (interface{}, error) {
		var feed *gofeed.Feed
		err := retry.WithBackoff(ctx, s.retryCfg, func() error {
			var parseErr error
			feed, parseErr = s.parser.ParseURLWithContext(s.source.FeedURL, ctx)
			return parseErr
		})
		return feed, err
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) {
			return nil, fmt.Errorf("fetchFeed: circuit open for %s: %w", s.source.Key, err)
		}
		return nil, fmt.Errorf("fetchFeed: %w", err)
	}
	return result.(*gofeed.Feed), nil
}

func (s *RSSScraper) itemToArticle(ctx context.Context, item *gofeed.Item) (*entity.Article, error) {
	if item.Link == "" || item.Title == "" {
		return nil, fmt.Errorf("itemToArticle: %w: item missing link or title", scrape.ErrNoContent)
	}

	content := item.Content
	if content == "" {
		content = item.Description
	}
	if s.enhancer != nil {
		if len(content) < finalContentThreshold {
			fetched, err := s.enhancer.FetchContent(ctx, item.Link)
			if err == nil && len(fetched) > len(content) {
				content = fetched
			}
		} else {
			metrics.RecordContentFetchSkipped()
		}
	}
	content = CleanText(content)
	if len(content) < finalContentThreshold {
		return nil, fmt.Errorf("itemToArticle: %w: %s", scrape.ErrNoContent, item.Link)
	}

	author := ""
	if item.Author != nil {
		author = item.Author.Name
	}

	published := time.Now().UTC()
	if item.PublishedParsed != nil {
		published = item.PublishedParsed.UTC()
	} else if item.UpdatedParsed != nil {
		published = item.UpdatedParsed.UTC()
	}

	title := CleanText(item.Title)
	language := s.detector.Detect(title + " " + content)
	if language == entity.LanguageUnknown && s.source.Language != "" {
		language = s.source.Language
	}

	article := &entity.Article{
		URL:             item.Link,
		Title:           title,
		Content:         content,
		Author:          author,
		Source:          s.source.Key,
		Language:        language,
		Topics:          s.topics.Extract(title, content),
		PublicationDate: published,
		ScrapedAt:       time.Now().UTC(),
	}
	article.EnsureContentHash()
	return article, nil
}

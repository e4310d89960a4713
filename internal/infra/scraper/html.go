package scraper

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/perashanid/Media-bias/internal/analysis/lang"
	"github.com/perashanid/Media-bias/internal/analysis/topic"
	"github.com/perashanid/Media-bias/internal/domain/entity"
	"github.com/perashanid/Media-bias/internal/observability/metrics"
	"github.com/perashanid/Media-bias/internal/resilience/circuitbreaker"
	"github.com/perashanid/Media-bias/internal/resilience/retry"
	"github.com/perashanid/Media-bias/internal/usecase/scrape"
)

// finalContentThreshold is the absolute minimum article length after all
// fallbacks; anything shorter is treated as an extraction failure.
const finalContentThreshold = 50

// HTMLScraper scrapes one outlet using its selector configuration.
// All requests to the outlet go through a shared circuit breaker and a
// politeness rate limiter.
type HTMLScraper struct {
	outlet   OutletConfig
	cfg      Config
	client   *http.Client
	cb       *circuitbreaker.CircuitBreaker
	retryCfg retry.Config
	limiter  *rate.Limiter
	detector *lang.Detector
	topics   *topic.Extractor
	enhancer scrape.ContentFetcher
}

// NewHTMLScraper builds a scraper for the given outlet. enhancer may be
// nil; when set it is used as a content fallback for thin extractions.
func NewHTMLScraper(outlet OutletConfig, cfg Config, enhancer scrape.ContentFetcher) *HTMLScraper {
	retryCfg := retry.WebScraperConfig()
	if cfg.MaxRetries > 0 {
		retryCfg.MaxAttempts = cfg.MaxRetries
	}

	client := &http.Client{
		Timeout: cfg.Timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= cfg.MaxRedirects {
				return scrape.ErrTooManyRedirects
			}
			return nil
		},
	}

	minDelay := cfg.MinDelay
	if minDelay <= 0 {
		minDelay = time.Second
	}

	return &HTMLScraper{
		outlet:   outlet,
		cfg:      cfg,
		client:   client,
		cb:       circuitbreaker.New(circuitbreaker.WebScraperConfig()),
		retryCfg: retryCfg,
		limiter:  rate.NewLimiter(rate.Every(minDelay), 1),
		detector: lang.NewDetector(),
		topics:   topic.NewExtractor(),
		enhancer: enhancer,
	}
}

// Source implements scrape.ArticleScraper.
func (s *HTMLScraper) Source() string {
	return s.outlet.Key
}

// DiscoverURLs collects candidate article URLs from the outlet's
// category pages and, when configured, its daily sitemaps.
func (s *HTMLScraper) DiscoverURLs(ctx context.Context, limit int) ([]string, error) {
	if limit <= 0 {
		limit = s.cfg.ArticlesPerSource
	}

	seen := make(map[string]struct{}, limit)
	urls := make([]string, 0, limit)
	add := func(u string) {
		if len(urls) >= limit {
			return
		}
		if _, ok := seen[u]; ok {
			return
		}
		seen[u] = struct{}{}
		urls = append(urls, u)
	}

	if s.outlet.SitemapPattern != "" {
		sitemapURLs, err := s.discoverFromSitemaps(ctx, limit)
		if err != nil {
			slog.Warn("sitemap discovery failed",
				slog.String("source", s.outlet.Key),
				slog.Any("error", err))
		}
		for _, u := range sitemapURLs {
			add(u)
		}
	}

	base, err := url.Parse(s.outlet.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("DiscoverURLs: %w", err)
	}

	for _, path := range s.outlet.CategoryPaths {
		if len(urls) >= limit {
			break
		}
		pageURL := s.outlet.BaseURL + path
		doc, err := s.fetchDocument(ctx, pageURL)
		if err != nil {
			slog.Warn("category page fetch failed",
				slog.String("source", s.outlet.Key),
				slog.String("url", pageURL),
				slog.Any("error", err))
			continue
		}
		doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
			href, _ := sel.Attr("href")
			resolved, ok := normalizeURL(base, href)
			if !ok {
				return
			}
			if resolved == s.outlet.BaseURL || resolved == s.outlet.BaseURL+"/" {
				return
			}
			if !strings.HasPrefix(resolved, s.outlet.BaseURL) {
				return
			}
			if s.isArticleURL(resolved) {
				add(resolved)
			}
		})
	}

	if len(urls) == 0 && s.outlet.SitemapPattern == "" && len(s.outlet.CategoryPaths) == 0 {
		return nil, fmt.Errorf("DiscoverURLs: outlet %s has no discovery strategy", s.outlet.Key)
	}
	return urls, nil
}

// ScrapeArticle fetches and extracts a single article.
func (s *HTMLScraper) ScrapeArticle(ctx context.Context, articleURL string) (*entity.Article, error) {
	if err := validateURL(articleURL, s.cfg.DenyPrivateIPs); err != nil {
		return nil, fmt.Errorf("ScrapeArticle: %w", err)
	}

	doc, err := s.fetchDocument(ctx, articleURL)
	if err != nil {
		return nil, fmt.Errorf("ScrapeArticle: %w", err)
	}

	title := s.extractTitle(doc)
	if title == "" {
		return nil, fmt.Errorf("ScrapeArticle: %w: no title at %s", scrape.ErrNoContent, articleURL)
	}

	content := s.extractContent(doc)
	if s.enhancer != nil {
		if len(content) < s.outlet.MinContentLength {
			enhanced, enhErr := s.enhancer.FetchContent(ctx, articleURL)
			if enhErr == nil && len(enhanced) > len(content) {
				content = enhanced
			}
		} else {
			metrics.RecordContentFetchSkipped()
		}
	}
	content = CleanText(content)
	if len(content) < finalContentThreshold {
		return nil, fmt.Errorf("ScrapeArticle: %w: %s", scrape.ErrNoContent, articleURL)
	}

	language := s.detector.Detect(title + " " + content)
	if language == entity.LanguageUnknown && s.outlet.Language != "" {
		language = s.outlet.Language
	}

	article := &entity.Article{
		URL:             articleURL,
		Title:           title,
		Content:         content,
		Author:          s.extractAuthor(doc),
		Source:          s.outlet.Key,
		Language:        language,
		Topics:          s.topics.Extract(title, content),
		PublicationDate: s.extractDate(doc),
		ScrapedAt:       time.Now().UTC(),
	}
	article.EnsureContentHash()
	return article, nil
}

// ScrapeLatest discovers fresh article URLs and scrapes them. Pages that
// fail extraction are skipped and logged.
func (s *HTMLScraper) ScrapeLatest(ctx context.Context, limit int) ([]*entity.Article, error) {
	if limit <= 0 {
		limit = s.cfg.ArticlesPerSource
	}

	urls, err := s.DiscoverURLs(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("ScrapeLatest: %w", err)
	}

	articles := make([]*entity.Article, 0, len(urls))
	for _, u := range urls {
		if ctx.Err() != nil {
			return articles, ctx.Err()
		}
		article, err := s.ScrapeArticle(ctx, u)
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) {
				slog.Warn("circuit open, aborting scrape run",
					slog.String("source", s.outlet.Key))
				break
			}
			slog.Warn("article scrape failed",
				slog.String("source", s.outlet.Key),
				slog.String("url", u),
				slog.Any("error", err))
			continue
		}
		articles = append(articles, article)
	}
	return articles, nil
}

// fetchDocument downloads and parses a page, going through the circuit
// breaker and retry policy. It also applies the politeness delay.
func (s *HTMLScraper) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	if err := s.politenessDelay(ctx); err != nil {
		return nil, err
	}

	result, err := s.cb.Execute(func() (interface{}, error) {
		var doc *goquery.Document
		err := retry.WithBackoff(ctx, s.retryCfg, func() error {
			var fetchErr error
			doc, fetchErr = s.fetchOnce(ctx, pageURL)
			return fetchErr
		})
		return doc, err
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) {
			return nil, fmt.Errorf("fetchDocument: circuit open for %s: %w", s.outlet.Key, err)
		}
		return nil, fmt.Errorf("fetchDocument: %w", err)
	}
	return result.(*goquery.Document), nil
}

func (s *HTMLScraper) fetchOnce(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", randomUserAgent())
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "bn-BD,bn;q=0.9,en;q=0.8")

	resp, err := s.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %s", scrape.ErrTimeout, pageURL)
		}
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, &retry.HTTPError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("unexpected status fetching %s", pageURL),
		}
	}

	body := io.LimitReader(resp.Body, s.cfg.MaxBodySize+1)
	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, fmt.Errorf("parse HTML: %w", err)
	}
	return doc, nil
}

// politenessDelay waits for the rate limiter and adds random jitter so
// request timing does not look mechanical.
func (s *HTMLScraper) politenessDelay(ctx context.Context) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return err
	}
	spread := s.cfg.MaxDelay - s.cfg.MinDelay
	if spread <= 0 {
		return nil
	}
	// #nosec G404 -- jitter only.
	jitter := time.Duration(rand.Int63n(int64(spread)))
	select {
	case <-time.After(jitter):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// isArticleURL reports whether a URL looks like an article page for this
// outlet.
func (s *HTMLScraper) isArticleURL(rawURL string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	path := strings.ToLower(parsed.Path)

	for _, pattern := range s.outlet.ExcludePatterns {
		if strings.Contains(path, pattern) {
			return false
		}
	}
	for _, pattern := range s.outlet.ArticlePatterns {
		if strings.Contains(path, pattern) {
			return true
		}
	}
	if s.outlet.DeepURLFallback {
		segments := strings.Split(strings.Trim(path, "/"), "/")
		return len(segments) >= 4
	}
	return false
}

// sitemapURLSet mirrors the <urlset> structure of a sitemap file.
type sitemapURLSet struct {
	URLs []struct {
		Loc string `xml:"loc"`
	} `xml:"url"`
}

// discoverFromSitemaps walks the outlet's daily sitemaps, newest first.
func (s *HTMLScraper) discoverFromSitemaps(ctx context.Context, limit int) ([]string, error) {
	urls := make([]string, 0, limit)
	now := time.Now().UTC()

	for day := 0; day < s.outlet.SitemapDays && len(urls) < limit; day++ {
		date := now.AddDate(0, 0, -day).Format("2006-01-02")
		sitemapURL := fmt.Sprintf(s.outlet.SitemapPattern, date)

		entries, err := s.fetchSitemap(ctx, sitemapURL)
		if err != nil {
			slog.Debug("sitemap fetch failed",
				slog.String("source", s.outlet.Key),
				slog.String("url", sitemapURL),
				slog.Any("error", err))
			continue
		}
		for _, entry := range entries {
			if len(urls) >= limit {
				break
			}
			if s.isArticleURL(entry) {
				urls = append(urls, entry)
			}
		}
	}
	return urls, nil
}

func (s *HTMLScraper) fetchSitemap(ctx context.Context, sitemapURL string) ([]string, error) {
	if err := s.politenessDelay(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sitemapURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", randomUserAgent())

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, &retry.HTTPError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("unexpected status fetching sitemap %s", sitemapURL),
		}
	}

	var parsed sitemapURLSet
	decoder := xml.NewDecoder(io.LimitReader(resp.Body, s.cfg.MaxBodySize))
	if err := decoder.Decode(&parsed); err != nil {
		return nil, fmt.Errorf("parse sitemap: %w", err)
	}

	entries := make([]string, 0, len(parsed.URLs))
	for _, u := range parsed.URLs {
		loc := strings.TrimSpace(u.Loc)
		if loc != "" {
			entries = append(entries, loc)
		}
	}
	return entries, nil
}

func (s *HTMLScraper) extractTitle(doc *goquery.Document) string {
	for _, selector := range s.outlet.TitleSelectors {
		if text := strings.TrimSpace(doc.Find(selector).First().Text()); text != "" {
			return stripSiteName(text)
		}
	}
	if og, ok := doc.Find(`meta[property="og:title"]`).Attr("content"); ok {
		if text := strings.TrimSpace(og); text != "" {
			return stripSiteName(text)
		}
	}
	return ""
}

// stripSiteName removes a trailing " - Site Name" or " | Site Name"
// suffix that outlets append to page titles.
func stripSiteName(title string) string {
	for _, sep := range []string{" - ", " | "} {
		if idx := strings.LastIndex(title, sep); idx > 0 {
			head := title[:idx]
			// Only strip short suffixes; a long tail is part of the headline.
			if len(title)-idx-len(sep) <= 40 && len(head) >= 10 {
				title = head
			}
		}
	}
	return strings.TrimSpace(title)
}

func (s *HTMLScraper) extractContent(doc *goquery.Document) string {
	for _, selector := range s.outlet.ContentSelectors {
		sel := doc.Find(selector).First()
		if sel.Length() == 0 {
			continue
		}
		sel.Find("script, style, .advertisement, .ad, .social-share, .related-news").Remove()
		text := strings.TrimSpace(sel.Text())
		if len(text) >= s.outlet.MinContentLength {
			return text
		}
	}

	// Paragraph fallback: join substantial <p> elements.
	var paragraphs []string
	doc.Find("p").Each(func(_ int, sel *goquery.Selection) {
		if text := strings.TrimSpace(sel.Text()); len(text) > 30 {
			paragraphs = append(paragraphs, text)
		}
	})
	if joined := strings.Join(paragraphs, " "); len(joined) >= s.outlet.MinContentLength {
		return joined
	}

	if desc, ok := doc.Find(`meta[name="description"]`).Attr("content"); ok {
		return strings.TrimSpace(desc)
	}
	return ""
}

func (s *HTMLScraper) extractAuthor(doc *goquery.Document) string {
	for _, selector := range s.outlet.AuthorSelectors {
		if text := strings.TrimSpace(doc.Find(selector).First().Text()); text != "" {
			return text
		}
	}
	if author, ok := doc.Find(`meta[name="author"]`).Attr("content"); ok {
		return strings.TrimSpace(author)
	}
	return ""
}

func (s *HTMLScraper) extractDate(doc *goquery.Document) time.Time {
	for _, selector := range s.outlet.DateSelectors {
		sel := doc.Find(selector).First()
		if sel.Length() == 0 {
			continue
		}
		if datetime, ok := sel.Attr("datetime"); ok && strings.TrimSpace(datetime) != "" {
			return parseDate(datetime)
		}
		if text := strings.TrimSpace(sel.Text()); text != "" {
			return parseDate(text)
		}
	}
	if published, ok := doc.Find(`meta[property="article:published_time"]`).Attr("content"); ok {
		return parseDate(published)
	}
	return time.Now().UTC()
}

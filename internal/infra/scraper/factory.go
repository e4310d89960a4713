package scraper

import (
	"fmt"
	"net/url"
	"sort"
	"sync"

	"github.com/perashanid/Media-bias/internal/domain/entity"
	"github.com/perashanid/Media-bias/internal/usecase/scrape"
)

// Factory builds and caches scraper instances per source. Caching keeps
// each outlet's circuit breaker and rate limiter state alive across
// scrape runs.
type Factory struct {
	cfg      Config
	enhancer scrape.ContentFetcher

	mu       sync.Mutex
	scrapers map[string]scrape.ArticleScraper
}

// NewFactory creates a scraper factory. enhancer may be nil.
func NewFactory(cfg Config, enhancer scrape.ContentFetcher) *Factory {
	return &Factory{
		cfg:      cfg,
		enhancer: enhancer,
		scrapers: make(map[string]scrape.ArticleScraper),
	}
}

// ForSource returns the scraper for a source, building it on first use.
// RSS sources get a feed scraper; HTML sources need a built-in outlet
// configuration.
func (f *Factory) ForSource(source entity.Source) (scrape.ArticleScraper, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if s, ok := f.scrapers[source.Key]; ok {
		return s, nil
	}

	var s scrape.ArticleScraper
	switch source.SourceType {
	case entity.SourceTypeRSS:
		s = NewRSSScraper(source, f.cfg, f.enhancer)
	case entity.SourceTypeHTML, "":
		outlet, ok := OutletByKey(source.Key)
		if !ok {
			return nil, fmt.Errorf("ForSource: %w: no outlet config for %s", scrape.ErrUnknownSource, source.Key)
		}
		s = NewHTMLScraper(outlet, f.cfg, f.enhancer)
	default:
		return nil, fmt.Errorf("ForSource: %w: source type %q", scrape.ErrUnknownSource, source.SourceType)
	}

	f.scrapers[source.Key] = s
	return s, nil
}

// ForURL returns a generic scraper for an arbitrary URL, cached per
// host so breaker and rate-limiter state persists across requests to
// the same site.
func (f *Factory) ForURL(rawURL string) (scrape.ArticleScraper, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return nil, fmt.Errorf("ForURL: %w: %s", scrape.ErrInvalidURL, rawURL)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("ForURL: %w: scheme %q", scrape.ErrInvalidURL, parsed.Scheme)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	cacheKey := "url:" + parsed.Host
	if s, ok := f.scrapers[cacheKey]; ok {
		return s, nil
	}

	outlet := GenericOutlet(parsed.Host, parsed.Scheme+"://"+parsed.Host)
	s := NewHTMLScraper(outlet, f.cfg, f.enhancer)
	f.scrapers[cacheKey] = s
	return s, nil
}

// SupportedOutlets lists the source keys with built-in HTML configs.
func (f *Factory) SupportedOutlets() []string {
	outlets := Outlets()
	keys := make([]string, 0, len(outlets))
	for _, outlet := range outlets {
		keys = append(keys, outlet.Key)
	}
	sort.Strings(keys)
	return keys
}

package scraper

import "github.com/perashanid/Media-bias/internal/domain/entity"

// OutletConfig describes how to crawl one news outlet: where to find
// article links and which selectors extract the article fields. Selector
// slices are cascades tried in order; the first non-empty match wins.
type OutletConfig struct {
	Key      string
	Name     string
	BaseURL  string
	Language string

	// CategoryPaths are appended to BaseURL for URL discovery. An empty
	// string means the homepage.
	CategoryPaths []string

	// ArticlePatterns mark a URL as an article when any of them occurs
	// in its path. ExcludePatterns reject a URL outright.
	ArticlePatterns []string
	ExcludePatterns []string

	// DeepURLFallback accepts pattern-less URLs with at least four path
	// segments. Outlets with slug-only article URLs need this.
	DeepURLFallback bool

	// SitemapPattern, when set, is a daily sitemap URL with a %s
	// placeholder for a YYYY-MM-DD date. SitemapDays controls how many
	// days back discovery walks.
	SitemapPattern string
	SitemapDays    int

	TitleSelectors   []string
	ContentSelectors []string
	AuthorSelectors  []string
	DateSelectors    []string

	// MinContentLength is the extraction quality bar; shorter content
	// triggers the paragraph and readability fallbacks.
	MinContentLength int
}

// commonExcludePatterns reject media files and non-article sections
// shared across outlets.
var commonExcludePatterns = []string{
	"/live/", "/video/", "/photo/", "/gallery/", "/tag/", "/author/",
	"/search", "/sitemap/", "/rss/", "/feed/",
	".jpg", ".png", ".gif", ".pdf", ".mp4",
	"/assets/", "/images/", "/css/", "/js/",
}

// genericTitleSelectors and friends are the shared tail of every
// selector cascade.
var (
	genericTitleSelectors = []string{
		"h1.title", "h1.headline", ".story-title h1", ".news-title h1",
		".article-title h1", ".page-title h1", "h1",
	}
	genericContentSelectors = []string{
		".story-content", ".news-content", ".article-content",
		".content-body", ".article-body", ".post-content",
		".entry-content", ".news-details", "article",
	}
	genericAuthorSelectors = []string{
		".author-name", ".byline .author", ".story-author", ".author",
		".byline", ".reporter",
	}
	genericDateSelectors = []string{
		"time[datetime]", ".publish-date", ".story-date", ".news-date", ".date",
	}
)

// Outlets returns the built-in outlet registry.
func Outlets() []OutletConfig {
	return []OutletConfig{
		{
			Key:      "prothom_alo",
			Name:     "Prothom Alo",
			BaseURL:  "https://www.prothomalo.com",
			Language: entity.LanguageBengali,
			CategoryPaths: []string{
				"", "/bangladesh", "/politics", "/international",
				"/business", "/sports", "/entertainment",
			},
			ArticlePatterns: []string{
				"/bangladesh/", "/politics/", "/international/", "/business/",
				"/sports/", "/entertainment/", "/opinion/", "/lifestyle/",
			},
			ExcludePatterns:  commonExcludePatterns,
			TitleSelectors:   genericTitleSelectors,
			ContentSelectors: append([]string{"[data-story-content]"}, genericContentSelectors...),
			AuthorSelectors:  genericAuthorSelectors,
			DateSelectors:    genericDateSelectors,
			MinContentLength: 200,
		},
		{
			Key:      "daily_star",
			Name:     "The Daily Star",
			BaseURL:  "https://www.thedailystar.net",
			Language: entity.LanguageEnglish,
			CategoryPaths: []string{
				"", "/news/bangladesh", "/news/world", "/business", "/sports",
			},
			ArticlePatterns: []string{
				"/news/", "/business/", "/sports/", "/lifestyle/", "/opinion/",
				"/editorial/", "/city/", "/health/", "/star-youth/", "/showbiz/",
			},
			ExcludePatterns:  commonExcludePatterns,
			TitleSelectors:   genericTitleSelectors,
			ContentSelectors: genericContentSelectors,
			AuthorSelectors:  genericAuthorSelectors,
			DateSelectors:    genericDateSelectors,
			MinContentLength: 200,
		},
		{
			Key:           "bd_pratidin",
			Name:          "BD Pratidin",
			BaseURL:       "https://www.bd-pratidin.com",
			Language:      entity.LanguageBengali,
			CategoryPaths: []string{""},
			ArticlePatterns: []string{
				"/bangladesh/", "/politics/", "/international/", "/economics/",
				"/sports/", "/entertainment/", "/opinion/", "/lifestyle/",
				"/country/", "/national/", "/city/",
			},
			ExcludePatterns:  commonExcludePatterns,
			DeepURLFallback:  true,
			TitleSelectors:   genericTitleSelectors,
			ContentSelectors: genericContentSelectors,
			AuthorSelectors:  genericAuthorSelectors,
			DateSelectors:    genericDateSelectors,
			MinContentLength: 200,
		},
		{
			Key:           "ekattor_tv",
			Name:          "Ekattor TV",
			BaseURL:       "https://ekattor.tv",
			Language:      entity.LanguageBengali,
			CategoryPaths: []string{""},
			ArticlePatterns: []string{
				"/news/", "/national/", "/politics/", "/international/",
				"/capital/", "/business/", "/sports/", "/entertainment/",
				"/lifestyle/", "/country/",
			},
			ExcludePatterns:  commonExcludePatterns,
			TitleSelectors:   genericTitleSelectors,
			ContentSelectors: genericContentSelectors,
			AuthorSelectors:  genericAuthorSelectors,
			DateSelectors:    genericDateSelectors,
			MinContentLength: 200,
		},
		{
			Key:      "atn_news",
			Name:     "ATN News",
			BaseURL:  "https://www.atnnewstv.com",
			Language: entity.LanguageBengali,
			// Landing pages render articles client-side; discovery goes
			// through the daily sitemaps instead.
			ArticlePatterns:  []string{"/details/"},
			ExcludePatterns:  commonExcludePatterns,
			SitemapPattern:   "https://www.atnnewstv.com/sitemap/sitemap-daily-%s.xml",
			SitemapDays:      5,
			TitleSelectors:   genericTitleSelectors,
			ContentSelectors: genericContentSelectors,
			AuthorSelectors:  genericAuthorSelectors,
			DateSelectors:    genericDateSelectors,
			MinContentLength: 100,
		},
		{
			Key:      "jamuna_tv",
			Name:     "Jamuna TV",
			BaseURL:  "https://jamuna.tv",
			Language: entity.LanguageBengali,
			CategoryPaths: []string{
				"", "/news", "/politics", "/international",
				"/business", "/sports", "/entertainment",
			},
			ArticlePatterns: []string{
				"/news/", "/politics/", "/international/", "/business/",
				"/sports/", "/entertainment/", "/lifestyle/", "/technology/",
				"/opinion/", "/bangladesh/", "/world/", "/economy/",
			},
			ExcludePatterns:  commonExcludePatterns,
			DeepURLFallback:  true,
			TitleSelectors:   genericTitleSelectors,
			ContentSelectors: genericContentSelectors,
			AuthorSelectors:  genericAuthorSelectors,
			DateSelectors:    genericDateSelectors,
			MinContentLength: 200,
		},
	}
}

// GenericOutlet builds a permissive configuration for scraping a single
// URL on an outlet without a built-in config. Discovery is disabled;
// only direct article extraction works.
func GenericOutlet(host, baseURL string) OutletConfig {
	return OutletConfig{
		Key:              host,
		Name:             host,
		BaseURL:          baseURL,
		ExcludePatterns:  commonExcludePatterns,
		DeepURLFallback:  true,
		TitleSelectors:   genericTitleSelectors,
		ContentSelectors: genericContentSelectors,
		AuthorSelectors:  genericAuthorSelectors,
		DateSelectors:    genericDateSelectors,
		MinContentLength: 100,
	}
}

// OutletByKey looks up a built-in outlet configuration.
func OutletByKey(key string) (OutletConfig, bool) {
	for _, outlet := range Outlets() {
		if outlet.Key == key {
			return outlet, true
		}
	}
	return OutletConfig{}, false
}

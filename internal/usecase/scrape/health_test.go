package scrape_test

import (
	"context"
	"errors"
	"testing"

	"github.com/perashanid/Media-bias/internal/domain/entity"
	"github.com/perashanid/Media-bias/internal/usecase/scrape"
)

// fakeURLFactory supports both registered sources and arbitrary URLs.
type fakeURLFactory struct {
	fakeFactory
	urlScraper scrape.ArticleScraper
	urlErr     error
}

func (f *fakeURLFactory) ForURL(_ string) (scrape.ArticleScraper, error) {
	if f.urlErr != nil {
		return nil, f.urlErr
	}
	return f.urlScraper, nil
}

func healthByKey(svc *scrape.Service) map[string]scrape.SourceHealth {
	out := map[string]scrape.SourceHealth{}
	for _, h := range svc.Health() {
		out[h.Source] = h
	}
	return out
}

func TestService_Health_TracksConsecutiveErrors(t *testing.T) {
	src := enabledSource("jamuna_tv")
	failing := &fakeScraper{source: "jamuna_tv", err: errors.New("site unreachable")}
	svc := scrape.Service{
		Sources: newFakeSourceRepo(src),
		Factory: &fakeFactory{scrapers: map[string]scrape.ArticleScraper{"jamuna_tv": failing}},
		Store:   &fakeStore{},
	}

	for i := 0; i < scrape.DefaultUnhealthyAfter-1; i++ {
		if _, err := svc.ScrapeSource(context.Background(), "jamuna_tv"); err != nil {
			t.Fatalf("ScrapeSource err=%v", err)
		}
	}
	h := healthByKey(&svc)["jamuna_tv"]
	if !h.Healthy {
		t.Fatalf("source unhealthy too early: %+v", h)
	}
	if h.ConsecutiveErrors != scrape.DefaultUnhealthyAfter-1 {
		t.Fatalf("want %d consecutive errors, got %d", scrape.DefaultUnhealthyAfter-1, h.ConsecutiveErrors)
	}

	if _, err := svc.ScrapeSource(context.Background(), "jamuna_tv"); err != nil {
		t.Fatalf("ScrapeSource err=%v", err)
	}
	h = healthByKey(&svc)["jamuna_tv"]
	if h.Healthy {
		t.Fatalf("want unhealthy after %d failures: %+v", scrape.DefaultUnhealthyAfter, h)
	}
	if h.LastError == "" {
		t.Fatal("want last error recorded")
	}
}

func TestService_Health_SuccessResetsErrors(t *testing.T) {
	src := enabledSource("prothom_alo")
	scraper := &fakeScraper{source: "prothom_alo", err: errors.New("timeout")}
	svc := scrape.Service{
		Sources: newFakeSourceRepo(src),
		Factory: &fakeFactory{scrapers: map[string]scrape.ArticleScraper{"prothom_alo": scraper}},
		Store:   &fakeStore{},
	}

	for i := 0; i < scrape.DefaultUnhealthyAfter; i++ {
		_, _ = svc.ScrapeSource(context.Background(), "prothom_alo")
	}
	if healthByKey(&svc)["prothom_alo"].Healthy {
		t.Fatal("want unhealthy before recovery")
	}

	scraper.err = nil
	scraper.articles = sampleArticles("prothom_alo", 1)
	if _, err := svc.ScrapeSource(context.Background(), "prothom_alo"); err != nil {
		t.Fatalf("ScrapeSource err=%v", err)
	}

	h := healthByKey(&svc)["prothom_alo"]
	if !h.Healthy || h.ConsecutiveErrors != 0 || h.LastError != "" {
		t.Fatalf("want clean health after success: %+v", h)
	}
	if h.LastSuccess.IsZero() {
		t.Fatal("want last success stamped")
	}
}

func TestService_ResetHealth(t *testing.T) {
	src := enabledSource("atn_news")
	svc := scrape.Service{
		Sources: newFakeSourceRepo(src),
		Factory: &fakeFactory{scrapers: map[string]scrape.ArticleScraper{
			"atn_news": &fakeScraper{source: "atn_news", err: errors.New("boom")},
		}},
		Store: &fakeStore{},
	}

	for i := 0; i < scrape.DefaultUnhealthyAfter; i++ {
		_, _ = svc.ScrapeSource(context.Background(), "atn_news")
	}

	if svc.ResetHealth("unknown") {
		t.Fatal("reset of untracked source should report false")
	}
	if !svc.ResetHealth("atn_news") {
		t.Fatal("reset of tracked source should report true")
	}

	h := healthByKey(&svc)["atn_news"]
	if !h.Healthy || h.ConsecutiveErrors != 0 {
		t.Fatalf("want reset health: %+v", h)
	}
}

func TestService_ResetAllHealth(t *testing.T) {
	sources := []*entity.Source{enabledSource("prothom_alo"), enabledSource("daily_star")}
	scrapers := map[string]scrape.ArticleScraper{
		"prothom_alo": &fakeScraper{source: "prothom_alo", err: errors.New("boom")},
		"daily_star":  &fakeScraper{source: "daily_star", err: errors.New("boom")},
	}
	svc := scrape.Service{
		Sources: newFakeSourceRepo(sources...),
		Factory: &fakeFactory{scrapers: scrapers},
		Store:   &fakeStore{},
	}

	for i := 0; i < scrape.DefaultUnhealthyAfter; i++ {
		_, _ = svc.ScrapeAll(context.Background())
	}
	svc.ResetAllHealth()

	for key, h := range healthByKey(&svc) {
		if !h.Healthy || h.ConsecutiveErrors != 0 {
			t.Fatalf("source %s not reset: %+v", key, h)
		}
	}
}

func TestService_ScrapeURL(t *testing.T) {
	art := &entity.Article{
		URL:     "https://news.example.com/story/1",
		Title:   "Story",
		Content: "Body",
		Source:  "news.example.com",
	}
	store := &fakeStore{}
	svc := scrape.Service{
		Sources: newFakeSourceRepo(),
		Factory: &fakeURLFactory{urlScraper: &fakeScraper{source: "news.example.com", articles: []*entity.Article{art}}},
		Store:   store,
	}

	got, created, err := svc.ScrapeURL(context.Background(), art.URL, true)
	if err != nil {
		t.Fatalf("ScrapeURL err=%v", err)
	}
	if got.Title != "Story" || !created {
		t.Fatalf("unexpected result: %+v created=%v", got, created)
	}
	if len(store.stored) != 1 {
		t.Fatalf("want 1 stored article, got %d", len(store.stored))
	}
}

func TestService_ScrapeURL_DryRun(t *testing.T) {
	art := &entity.Article{URL: "https://news.example.com/story/2", Title: "Dry"}
	store := &fakeStore{}
	svc := scrape.Service{
		Sources: newFakeSourceRepo(),
		Factory: &fakeURLFactory{urlScraper: &fakeScraper{articles: []*entity.Article{art}}},
		Store:   store,
	}

	_, created, err := svc.ScrapeURL(context.Background(), art.URL, false)
	if err != nil {
		t.Fatalf("ScrapeURL err=%v", err)
	}
	if created {
		t.Fatal("dry run must not report a stored article")
	}
	if len(store.stored) != 0 {
		t.Fatalf("dry run stored %d articles", len(store.stored))
	}
}

func TestService_ScrapeURL_Unsupported(t *testing.T) {
	svc := scrape.Service{
		Sources: newFakeSourceRepo(),
		Factory: &fakeFactory{},
		Store:   &fakeStore{},
	}

	_, _, err := svc.ScrapeURL(context.Background(), "https://example.com/a", true)
	if !errors.Is(err, scrape.ErrURLScrapeUnsupported) {
		t.Fatalf("want ErrURLScrapeUnsupported, got %v", err)
	}
}

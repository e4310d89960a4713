package scrapectl_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/perashanid/Media-bias/internal/domain/entity"
	"github.com/perashanid/Media-bias/internal/handler/http/scrapectl"
	"github.com/perashanid/Media-bias/internal/usecase/article"
	scrapeUC "github.com/perashanid/Media-bias/internal/usecase/scrape"
	srcUC "github.com/perashanid/Media-bias/internal/usecase/source"
)

type stubSourceRepo struct {
	sources []*entity.Source
}

func (s *stubSourceRepo) Get(ctx context.Context, id int64) (*entity.Source, error) {
	for _, src := range s.sources {
		if src.ID == id {
			return src, nil
		}
	}
	return nil, nil
}

func (s *stubSourceRepo) GetByKey(ctx context.Context, key string) (*entity.Source, error) {
	for _, src := range s.sources {
		if src.Key == key {
			return src, nil
		}
	}
	return nil, nil
}

func (s *stubSourceRepo) List(ctx context.Context) ([]*entity.Source, error) {
	return s.sources, nil
}

func (s *stubSourceRepo) ListEnabled(ctx context.Context) ([]*entity.Source, error) {
	out := make([]*entity.Source, 0, len(s.sources))
	for _, src := range s.sources {
		if src.Enabled {
			out = append(out, src)
		}
	}
	return out, nil
}

func (s *stubSourceRepo) Create(ctx context.Context, src *entity.Source) error { return nil }
func (s *stubSourceRepo) Update(ctx context.Context, src *entity.Source) error { return nil }
func (s *stubSourceRepo) Delete(ctx context.Context, id int64) error           { return nil }
func (s *stubSourceRepo) SetEnabled(ctx context.Context, key string, enabled bool) error {
	return nil
}
func (s *stubSourceRepo) TouchCrawledAt(ctx context.Context, key string, t time.Time) error {
	return nil
}

type stubScraper struct{ source string }

func (s stubScraper) Source() string { return s.source }

func (s stubScraper) DiscoverURLs(ctx context.Context, limit int) ([]string, error) {
	return nil, nil
}

func (s stubScraper) ScrapeArticle(ctx context.Context, url string) (*entity.Article, error) {
	return nil, nil
}

func (s stubScraper) ScrapeLatest(ctx context.Context, limit int) ([]*entity.Article, error) {
	return []*entity.Article{{
		URL:    "https://example.com/" + s.source + "/1",
		Title:  "Example article",
		Source: s.source,
	}}, nil
}

type stubFactory struct{}

func (stubFactory) ForSource(src entity.Source) (scrapeUC.ArticleScraper, error) {
	return stubScraper{source: src.Key}, nil
}

type stubStore struct{}

func (stubStore) StoreBatch(ctx context.Context, articles []*entity.Article) (article.BatchResult, error) {
	return article.BatchResult{Stored: len(articles)}, nil
}

func testSources() *stubSourceRepo {
	return &stubSourceRepo{sources: []*entity.Source{
		{ID: 1, Key: "prothom_alo", Name: "Prothom Alo", Enabled: true},
		{ID: 2, Key: "daily_star", Name: "The Daily Star", Enabled: true},
	}}
}

func newController(repo *stubSourceRepo) *scrapectl.Controller {
	return &scrapectl.Controller{
		Svc: &scrapeUC.Service{
			Sources: repo,
			Factory: stubFactory{},
			Store:   stubStore{},
		},
		RunTimeout: 5 * time.Second,
	}
}

func waitForIdle(t *testing.T, ctl *scrapectl.Controller) scrapectl.RunState {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		state := ctl.State()
		if !state.Running && !state.FinishedAt.IsZero() {
			return state
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("run did not finish in time")
	return scrapectl.RunState{}
}

func TestController_TriggerAll(t *testing.T) {
	ctl := newController(testSources())

	if err := ctl.TriggerAll(); err != nil {
		t.Fatalf("TriggerAll err=%v", err)
	}

	state := waitForIdle(t, ctl)
	if state.LastRunError != nil {
		t.Fatalf("run error: %v", state.LastRunError)
	}
	if len(state.LastReports) != 2 {
		t.Fatalf("want 2 reports, got %d", len(state.LastReports))
	}
	for _, r := range state.LastReports {
		if r.Stored != 1 {
			t.Errorf("source %s stored = %d, want 1", r.Source, r.Stored)
		}
	}
}

func TestController_TriggerSource_Unknown(t *testing.T) {
	ctl := newController(testSources())

	if err := ctl.TriggerSource("missing"); err != nil {
		t.Fatalf("TriggerSource err=%v", err)
	}

	state := waitForIdle(t, ctl)
	if state.LastRunError == nil {
		t.Fatal("want run error for unknown source")
	}
}

func TestTriggerAllHandler(t *testing.T) {
	ctl := newController(testSources())
	h := scrapectl.TriggerAllHandler{Ctl: ctl}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/scraper/run", nil))

	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202; body: %s", rec.Code, rec.Body.String())
	}
	waitForIdle(t, ctl)
}

func TestTriggerSourceHandler_NotFound(t *testing.T) {
	repo := testSources()
	ctl := newController(repo)

	mux := http.NewServeMux()
	mux.Handle("POST /scraper/run/{key}", scrapectl.TriggerSourceHandler{
		Ctl:     ctl,
		Sources: &srcUC.Service{Repo: repo},
	})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/scraper/run/missing", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestStatusHandler(t *testing.T) {
	ctl := newController(testSources())
	if err := ctl.TriggerAll(); err != nil {
		t.Fatalf("TriggerAll err=%v", err)
	}
	waitForIdle(t, ctl)

	h := scrapectl.StatusHandler{Ctl: ctl}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/scraper/status", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var dto scrapectl.StatusDTO
	if err := json.Unmarshal(rec.Body.Bytes(), &dto); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if dto.Running || len(dto.LastReports) != 2 || dto.FinishedAt == nil {
		t.Fatalf("unexpected status: %+v", dto)
	}
}

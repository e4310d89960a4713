package compare_test

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/perashanid/Media-bias/internal/analysis/bias"
	"github.com/perashanid/Media-bias/internal/analysis/similarity"
	"github.com/perashanid/Media-bias/internal/domain/entity"
	"github.com/perashanid/Media-bias/internal/repository"
	"github.com/perashanid/Media-bias/internal/usecase/compare"
)

type stubArticleRepo struct {
	articles map[int64]*entity.Article
	recent   []*entity.Article
}

func (s *stubArticleRepo) Put(_ context.Context, _ *entity.Article) (int64, bool, error) {
	return 0, false, nil
}
func (s *stubArticleRepo) Get(_ context.Context, id int64) (*entity.Article, error) {
	return s.articles[id], nil
}
func (s *stubArticleRepo) GetByURL(_ context.Context, _ string) (*entity.Article, error) {
	return nil, nil
}
func (s *stubArticleRepo) List(_ context.Context, _ repository.ArticleFilters, _, _ int) ([]*entity.Article, error) {
	return nil, nil
}
func (s *stubArticleRepo) Count(_ context.Context, _ repository.ArticleFilters) (int64, error) {
	return 0, nil
}
func (s *stubArticleRepo) Search(_ context.Context, _ string, _ repository.ArticleFilters, _, _ int) ([]*entity.Article, error) {
	return nil, nil
}
func (s *stubArticleRepo) ListRecent(_ context.Context, _ time.Time) ([]*entity.Article, error) {
	return s.recent, nil
}
func (s *stubArticleRepo) PendingAnalysis(_ context.Context, _ int) ([]*entity.Article, error) {
	return nil, nil
}
func (s *stubArticleRepo) UpdateBiasScores(_ context.Context, _ int64, _ *entity.BiasScore) error {
	return nil
}
func (s *stubArticleRepo) ExistsByURL(_ context.Context, _ string) (bool, error)  { return false, nil }
func (s *stubArticleRepo) ExistsByHash(_ context.Context, _ string) (bool, error) { return false, nil }
func (s *stubArticleRepo) CountScrapedSince(_ context.Context, _ time.Time) (int64, error) {
	return 0, nil
}
func (s *stubArticleRepo) CountAnalyzedSince(_ context.Context, _ time.Time) (int64, error) {
	return 0, nil
}
func (s *stubArticleRepo) DeleteOlderThan(_ context.Context, _ time.Time) (int64, error) {
	return 0, nil
}
func (s *stubArticleRepo) Stats(_ context.Context) (*repository.ArticleStats, error) {
	return nil, nil
}

type stubReportRepo struct {
	created []*entity.ComparisonReport
	nextID  int64
}

func (s *stubReportRepo) Create(_ context.Context, report *entity.ComparisonReport) error {
	s.nextID++
	report.ID = s.nextID
	s.created = append(s.created, report)
	return nil
}
func (s *stubReportRepo) Get(_ context.Context, id int64) (*entity.ComparisonReport, error) {
	for _, r := range s.created {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, nil
}
func (s *stubReportRepo) GetByStoryID(_ context.Context, storyID string) (*entity.ComparisonReport, error) {
	for i := len(s.created) - 1; i >= 0; i-- {
		if s.created[i].StoryID == storyID {
			return s.created[i], nil
		}
	}
	return nil, nil
}
func (s *stubReportRepo) ListRecent(_ context.Context, _ time.Time, _, _ int) ([]*entity.ComparisonReport, error) {
	return s.created, nil
}
func (s *stubReportRepo) Count(_ context.Context) (int64, error) {
	return int64(len(s.created)), nil
}
func (s *stubReportRepo) DeleteOlderThan(_ context.Context, _ time.Time) (int64, error) {
	return 0, nil
}

func storyArticle(id int64, source, title, content string, overall float64) *entity.Article {
	return &entity.Article{
		ID:              id,
		URL:             "https://example.com/" + source,
		Title:           title,
		Content:         content,
		Source:          source,
		PublicationDate: time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC).Add(time.Duration(id) * time.Hour),
		BiasScores: &entity.BiasScore{
			OverallBias: overall,
			AnalyzedAt:  time.Date(2026, 8, 21, 0, 0, 0, 0, time.UTC),
		},
	}
}

func newService(articleRepo *stubArticleRepo, reportRepo *stubReportRepo) compare.Service {
	return compare.Service{
		Articles: articleRepo,
		Reports:  reportRepo,
		Matcher:  similarity.NewMatcher(),
	}
}

func TestPercentageDifference(t *testing.T) {
	tests := []struct {
		name string
		a, b float64
		want float64
	}{
		{name: "both zero", a: 0, b: 0, want: 0},
		{name: "equal values", a: 0.4, b: 0.4, want: 0},
		{name: "half difference", a: 0.6, b: 0.2, want: 100},
		{name: "order independent", a: 0.2, b: 0.6, want: 100},
		{name: "negative average", a: -0.5, b: 0.1, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := compare.PercentageDifference(tt.a, tt.b)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Fatalf("want %f, got %f", tt.want, got)
			}
		})
	}
}

func TestStoryID_Deterministic(t *testing.T) {
	articles := []*entity.Article{
		storyArticle(1, "prothom_alo", "Budget passed in parliament", "content", 0.1),
		storyArticle(2, "daily_star", "Parliament passes budget", "content", 0.2),
	}
	reversed := []*entity.Article{articles[1], articles[0]}

	first := compare.StoryID(articles)
	second := compare.StoryID(reversed)
	if first != second {
		t.Fatalf("story ID depends on order: %s vs %s", first, second)
	}
	if len(first) != len("20260820_0000") {
		t.Fatalf("unexpected story ID format: %s", first)
	}
	if first[:8] != "20260820" {
		t.Fatalf("want earliest publication date prefix, got %s", first)
	}
}

func TestService_CompareArticles(t *testing.T) {
	longContent := "The government announced the national budget on Thursday with major allocations " +
		"for infrastructure, education and health, drawing mixed reactions from economists and " +
		"opposition lawmakers who questioned the revenue projections behind the plan in detail."
	a1 := storyArticle(1, "prothom_alo", "Budget passed in parliament", longContent, 0.1)
	a1.BiasScores.Sentiment = -0.2
	a2 := storyArticle(2, "daily_star", "Parliament passes budget", "Parliament passed the budget on Thursday.", 0.6)
	a2.BiasScores.Sentiment = 0.3
	articleRepo := &stubArticleRepo{articles: map[int64]*entity.Article{1: a1, 2: a2}}
	reportRepo := &stubReportRepo{}
	svc := newService(articleRepo, reportRepo)

	report, err := svc.CompareArticles(context.Background(), []int64{1, 2})
	if err != nil {
		t.Fatalf("CompareArticles err=%v", err)
	}

	if report.ID == 0 {
		t.Fatal("want report persisted with ID")
	}
	diff, ok := report.BiasDifferences["prothom_alo vs daily_star"]
	if !ok {
		t.Fatalf("missing bias difference, got %v", report.BiasDifferences)
	}
	// |0.1-0.6| / 0.35 * 100
	if math.Abs(diff-142.857142857) > 0.001 {
		t.Fatalf("unexpected bias difference: %f", diff)
	}
	if _, ok := report.SimilarityScores["prothom_alo_daily_star"]; !ok {
		t.Fatalf("missing similarity score, got %v", report.SimilarityScores)
	}
	// Sentiment spread 0.5 > 0.3 and depth ratio > 2 should both be
	// flagged.
	if len(report.KeyDifferences) != 2 {
		t.Fatalf("want 2 key differences, got %v", report.KeyDifferences)
	}
}

func TestService_CompareArticles_AnalyzesUnscored(t *testing.T) {
	a1 := storyArticle(1, "prothom_alo", "Budget passed in parliament",
		"The government announced the national budget on Thursday with allocations for education and health.", 0)
	a1.BiasScores = nil
	a2 := storyArticle(2, "daily_star", "Parliament passes budget",
		"Parliament passed the national budget on Thursday after a heated debate over revenue projections.", 0)
	a2.BiasScores = nil

	articleRepo := &stubArticleRepo{articles: map[int64]*entity.Article{1: a1, 2: a2}}
	svc := compare.Service{
		Articles: articleRepo,
		Reports:  &stubReportRepo{},
		Matcher:  similarity.NewMatcher(),
		Analyzer: bias.NewAnalyzer(),
	}

	report, err := svc.CompareArticles(context.Background(), []int64{1, 2})
	if err != nil {
		t.Fatalf("CompareArticles err=%v", err)
	}
	if _, ok := report.BiasDifferences["prothom_alo vs daily_star"]; !ok {
		t.Fatalf("unscored members not analyzed, got %v", report.BiasDifferences)
	}
	for _, art := range report.Articles {
		if art.BiasScores == nil {
			t.Fatalf("article %d still unscored", art.ID)
		}
	}
}

func TestService_CompareArticles_FlagsDimensionSpreads(t *testing.T) {
	content := "Parliament passed the national budget on Thursday after debate."
	a1 := storyArticle(1, "prothom_alo", "Budget passed in parliament", content, 0.1)
	a1.BiasScores.Sentiment = -0.3
	a1.BiasScores.PoliticalBias = -0.25
	a1.BiasScores.FactualVsOpinion = 0.9
	a2 := storyArticle(2, "daily_star", "Parliament passes budget", content, 0.1)
	a2.BiasScores.Sentiment = 0.2
	a2.BiasScores.PoliticalBias = 0.15
	a2.BiasScores.FactualVsOpinion = 0.5

	articleRepo := &stubArticleRepo{articles: map[int64]*entity.Article{1: a1, 2: a2}}
	svc := newService(articleRepo, &stubReportRepo{})

	report, err := svc.CompareArticles(context.Background(), []int64{1, 2})
	if err != nil {
		t.Fatalf("CompareArticles err=%v", err)
	}
	// Spreads: sentiment 0.5, political 0.4, factual 0.4, all above the
	// threshold. Equal content lengths, so no depth finding.
	if len(report.KeyDifferences) != 3 {
		t.Fatalf("want 3 key differences, got %v", report.KeyDifferences)
	}
	for _, label := range []string{"sentiment", "political bias", "factual content"} {
		found := false
		for _, d := range report.KeyDifferences {
			if strings.Contains(d, label) {
				found = true
			}
		}
		if !found {
			t.Fatalf("no finding for %s in %v", label, report.KeyDifferences)
		}
	}
}

func TestService_CompareArticles_NotEnough(t *testing.T) {
	svc := newService(&stubArticleRepo{}, &stubReportRepo{})

	_, err := svc.CompareArticles(context.Background(), []int64{1})
	if !errors.Is(err, compare.ErrNotEnoughArticles) {
		t.Fatalf("want ErrNotEnoughArticles, got %v", err)
	}
}

func TestService_FindRelatedCoverage_ExcludesSameSource(t *testing.T) {
	target := storyArticle(1, "prothom_alo", "Floods hit northern districts hard", "Rising waters displaced thousands of families across the northern districts as rivers broke danger levels.", 0.2)
	sameSource := storyArticle(2, "prothom_alo", "Floods hit northern districts hard", target.Content, 0.2)
	otherSource := storyArticle(3, "daily_star", "Northern districts flooded, thousands displaced", "Thousands of families were displaced as flood waters rose across the northern districts, officials said.", 0.3)
	unrelated := storyArticle(4, "ekattor_tv", "Cricket team wins series", "The national cricket team clinched the series with a five wicket win in the final match.", 0.1)

	articleRepo := &stubArticleRepo{
		articles: map[int64]*entity.Article{1: target},
		recent:   []*entity.Article{target, sameSource, otherSource, unrelated},
	}
	svc := newService(articleRepo, &stubReportRepo{})

	matches, err := svc.FindRelatedCoverage(context.Background(), 1, 0)
	if err != nil {
		t.Fatalf("FindRelatedCoverage err=%v", err)
	}
	for _, m := range matches {
		if m.Article.Source == "prothom_alo" {
			t.Fatal("same-source article included in related coverage")
		}
		if m.Article.ID == 4 {
			t.Fatal("unrelated article matched")
		}
	}
	if len(matches) != 1 || matches[0].Article.ID != 3 {
		t.Fatalf("want the daily_star article, got %+v", matches)
	}
}

func TestService_FindRelatedCoverage_WindowIsTwoSided(t *testing.T) {
	target := storyArticle(1, "prothom_alo", "Floods hit northern districts hard", "Rising waters displaced thousands of families across the northern districts as rivers broke danger levels.", 0.2)
	near := storyArticle(2, "daily_star", "Northern districts flooded, thousands displaced", "Thousands of families were displaced as flood waters rose across the northern districts, officials said.", 0.3)
	near.PublicationDate = target.PublicationDate.Add(6 * time.Hour)
	late := storyArticle(3, "ekattor_tv", "Flooding in northern districts displaces thousands", "Flood waters across the northern districts displaced thousands of families, according to local officials.", 0.1)
	late.PublicationDate = target.PublicationDate.Add(48 * time.Hour)

	articleRepo := &stubArticleRepo{
		articles: map[int64]*entity.Article{1: target},
		recent:   []*entity.Article{target, near, late},
	}
	svc := newService(articleRepo, &stubReportRepo{})

	matches, err := svc.FindRelatedCoverage(context.Background(), 1, 24*time.Hour)
	if err != nil {
		t.Fatalf("FindRelatedCoverage err=%v", err)
	}
	for _, m := range matches {
		if m.Article.ID == 3 {
			t.Fatal("article published outside the window matched")
		}
	}
	if len(matches) != 1 || matches[0].Article.ID != 2 {
		t.Fatalf("want only the in-window article, got %+v", matches)
	}
}

func TestService_CompareStory_NoCoverage(t *testing.T) {
	target := storyArticle(1, "prothom_alo", "Local festival draws record crowd", "The annual festival drew a record crowd this year according to organizers.", 0.1)
	articleRepo := &stubArticleRepo{
		articles: map[int64]*entity.Article{1: target},
		recent:   []*entity.Article{target},
	}
	svc := newService(articleRepo, &stubReportRepo{})

	_, err := svc.CompareStory(context.Background(), 1, 0)
	if !errors.Is(err, compare.ErrNoRelatedCoverage) {
		t.Fatalf("want ErrNoRelatedCoverage, got %v", err)
	}
}

func TestService_SourcePatterns(t *testing.T) {
	pending := storyArticle(4, "daily_star", "Pending article", "content", 0)
	pending.BiasScores = nil

	articleRepo := &stubArticleRepo{recent: []*entity.Article{
		storyArticle(1, "prothom_alo", "A", "content", 0.2),
		storyArticle(2, "prothom_alo", "B", "content", 0.4),
		storyArticle(3, "daily_star", "C", "content", 0.1),
		pending,
	}}
	svc := newService(articleRepo, &stubReportRepo{})

	profiles, err := svc.SourcePatterns(context.Background(), 30)
	if err != nil {
		t.Fatalf("SourcePatterns err=%v", err)
	}
	if len(profiles) != 2 {
		t.Fatalf("want 2 profiles, got %d", len(profiles))
	}
	pa := profiles["prothom_alo"]
	if pa.ArticleCount != 2 || math.Abs(pa.AvgOverall-0.3) > 1e-9 {
		t.Fatalf("unexpected profile: %+v", pa)
	}
	if profiles["daily_star"].ArticleCount != 1 {
		t.Fatalf("pending article counted: %+v", profiles["daily_star"])
	}
}

func TestService_StoryClusters_RequiresTwoSources(t *testing.T) {
	a := storyArticle(1, "prothom_alo", "Floods displace thousands in north", "Rising waters displaced thousands of families across the northern districts as rivers broke danger levels on Monday.", 0.2)
	b := storyArticle(2, "daily_star", "Thousands displaced by northern floods", "Thousands of families were displaced as flood waters rose across the northern districts, officials said on Monday.", 0.3)
	soloSource := storyArticle(3, "ekattor_tv", "Cricket team wins series", "The national cricket team clinched the series with a five wicket win in the final match on Tuesday.", 0.1)

	articleRepo := &stubArticleRepo{recent: []*entity.Article{a, b, soloSource}}
	svc := newService(articleRepo, &stubReportRepo{})

	clusters, err := svc.StoryClusters(context.Background(), 7)
	if err != nil {
		t.Fatalf("StoryClusters err=%v", err)
	}
	if len(clusters) != 1 {
		t.Fatalf("want 1 cluster, got %d", len(clusters))
	}
	if len(clusters[0].Sources) != 2 {
		t.Fatalf("want 2 sources, got %v", clusters[0].Sources)
	}
	if clusters[0].StoryID == "" {
		t.Fatal("want story ID assigned")
	}
}

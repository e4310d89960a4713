package compare

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/perashanid/Media-bias/internal/analysis/bias"
	"github.com/perashanid/Media-bias/internal/analysis/similarity"
	"github.com/perashanid/Media-bias/internal/domain/entity"
	"github.com/perashanid/Media-bias/internal/observability/metrics"
	"github.com/perashanid/Media-bias/internal/repository"
)

// Defaults for the comparison windows.
const (
	// DefaultCoverageWindow is how far back related-coverage matching
	// looks.
	DefaultCoverageWindow = 72 * time.Hour

	// DefaultPatternDays is the window for source-level bias patterns.
	DefaultPatternDays = 30

	// DefaultClusterDays is the window for story clustering.
	DefaultClusterDays = 7

	// biasSpreadThreshold is the per-dimension spread above which a key
	// difference is reported.
	biasSpreadThreshold = 0.3

	// depthRatioThreshold flags coverage depth differences when the
	// longest article is at least this many times the shortest.
	depthRatioThreshold = 2.0
)

// SourceProfile aggregates average bias scores for one source.
type SourceProfile struct {
	Source       string
	ArticleCount int
	AvgSentiment float64
	AvgPolitical float64
	AvgEmotional float64
	AvgFactual   float64
	AvgOverall   float64
}

// StoryCluster is a group of related articles from at least two sources.
type StoryCluster struct {
	StoryID  string
	Articles []*entity.Article
	Sources  []string
}

// Service builds cross-outlet comparisons over stored articles.
type Service struct {
	Articles repository.ArticleRepository
	Reports  repository.ReportRepository
	Matcher  *similarity.Matcher

	// Analyzer scores report members that have no stored bias scores
	// yet, so every report carries bias differences.
	Analyzer *bias.Analyzer
}

// PercentageDifference returns |a-b| relative to their average, as a
// percentage. Returns 0 when the average is not positive.
func PercentageDifference(a, b float64) float64 {
	avg := (a + b) / 2
	if avg <= 0 {
		return 0
	}
	return math.Abs(a-b) / avg * 100
}

// FindRelatedCoverage finds articles from other sources covering the
// same story as the given article. Only articles published within the
// window of the target, in either direction, are considered.
func (s *Service) FindRelatedCoverage(ctx context.Context, articleID int64, window time.Duration) ([]similarity.Match, error) {
	if window <= 0 {
		window = DefaultCoverageWindow
	}

	target, err := s.Articles.Get(ctx, articleID)
	if err != nil {
		return nil, fmt.Errorf("get article: %w", err)
	}
	if target == nil {
		return nil, ErrArticleNotFound
	}

	recent, err := s.Articles.ListRecent(ctx, target.PublicationDate.Add(-window))
	if err != nil {
		return nil, fmt.Errorf("list recent articles: %w", err)
	}

	candidates := make([]*entity.Article, 0, len(recent))
	for _, art := range recent {
		if art.ID == target.ID || art.Source == target.Source {
			continue
		}
		gap := art.PublicationDate.Sub(target.PublicationDate)
		if gap < 0 {
			gap = -gap
		}
		if gap > window {
			continue
		}
		candidates = append(candidates, art)
	}

	return s.Matcher.FindSimilar(target, candidates, similarity.DefaultSimilarityThreshold), nil
}

// CompareStory builds and persists a comparison report for an article
// and its related coverage from other outlets.
// Returns ErrNoRelatedCoverage when no other outlet covered the story.
func (s *Service) CompareStory(ctx context.Context, articleID int64, window time.Duration) (*entity.ComparisonReport, error) {
	target, err := s.Articles.Get(ctx, articleID)
	if err != nil {
		return nil, fmt.Errorf("get article: %w", err)
	}
	if target == nil {
		return nil, ErrArticleNotFound
	}

	matches, err := s.FindRelatedCoverage(ctx, articleID, window)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, ErrNoRelatedCoverage
	}

	// One article per source: keep the best match for each outlet.
	articles := []*entity.Article{target}
	bySource := map[string]struct{}{target.Source: {}}
	for _, m := range matches {
		if _, ok := bySource[m.Article.Source]; ok {
			continue
		}
		bySource[m.Article.Source] = struct{}{}
		articles = append(articles, m.Article)
	}

	return s.buildReport(ctx, articles)
}

// CompareArticles builds and persists a comparison report for an
// explicit set of stored articles.
func (s *Service) CompareArticles(ctx context.Context, ids []int64) (*entity.ComparisonReport, error) {
	if len(ids) < 2 {
		return nil, ErrNotEnoughArticles
	}

	articles := make([]*entity.Article, 0, len(ids))
	for _, id := range ids {
		art, err := s.Articles.Get(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("get article %d: %w", id, err)
		}
		if art == nil {
			return nil, fmt.Errorf("%w: id %d", ErrArticleNotFound, id)
		}
		articles = append(articles, art)
	}

	return s.buildReport(ctx, articles)
}

func (s *Service) buildReport(ctx context.Context, articles []*entity.Article) (*entity.ComparisonReport, error) {
	if len(articles) < 2 {
		return nil, ErrNotEnoughArticles
	}

	if s.Analyzer != nil {
		for _, art := range articles {
			if art.BiasScores == nil {
				art.BiasScores = s.Analyzer.Analyze(art)
			}
		}
	}

	report := &entity.ComparisonReport{
		StoryID:          StoryID(articles),
		Articles:         articles,
		BiasDifferences:  map[string]float64{},
		SimilarityScores: map[string]float64{},
		KeyDifferences:   keyDifferences(articles),
		CreatedAt:        time.Now().UTC(),
	}

	for i := 0; i < len(articles); i++ {
		for j := i + 1; j < len(articles); j++ {
			a, b := articles[i], articles[j]
			report.SimilarityScores[a.Source+"_"+b.Source] = s.Matcher.Score(a, b)
			if a.BiasScores != nil && b.BiasScores != nil {
				report.BiasDifferences[a.Source+" vs "+b.Source] =
					PercentageDifference(a.BiasScores.OverallBias, b.BiasScores.OverallBias)
			}
		}
	}

	if err := s.Reports.Create(ctx, report); err != nil {
		return nil, fmt.Errorf("store report: %w", err)
	}
	metrics.RecordComparisonReport()
	return report, nil
}

// StoryID derives a stable identifier for a set of articles covering
// one story: the earliest publication date plus a hash of the sorted
// titles. The same articles always produce the same ID.
func StoryID(articles []*entity.Article) string {
	titles := make([]string, 0, len(articles))
	earliest := time.Now().UTC()
	for _, art := range articles {
		titles = append(titles, art.Title)
		if !art.PublicationDate.IsZero() && art.PublicationDate.Before(earliest) {
			earliest = art.PublicationDate
		}
	}
	sort.Strings(titles)

	h := fnv.New32a()
	_, _ = h.Write([]byte(strings.Join(titles, "\x00")))
	return fmt.Sprintf("%s_%04d", earliest.UTC().Format("20060102"), h.Sum32()%10000)
}

// biasDimensions are the score components keyDifferences compares
// across a report's members.
var biasDimensions = []struct {
	label string
	score func(*entity.BiasScore) float64
}{
	{"sentiment", func(b *entity.BiasScore) float64 { return b.Sentiment }},
	{"political bias", func(b *entity.BiasScore) float64 { return b.PoliticalBias }},
	{"factual content", func(b *entity.BiasScore) float64 { return b.FactualVsOpinion }},
}

// keyDifferences derives human-readable findings: large spreads on
// individual bias dimensions and big coverage depth gaps.
func keyDifferences(articles []*entity.Article) []string {
	var diffs []string

	var scored []*entity.Article
	for _, art := range articles {
		if art.BiasScores != nil {
			scored = append(scored, art)
		}
	}
	if len(scored) >= 2 {
		for _, dim := range biasDimensions {
			minArt, maxArt := scored[0], scored[0]
			for _, art := range scored[1:] {
				if dim.score(art.BiasScores) < dim.score(minArt.BiasScores) {
					minArt = art
				}
				if dim.score(art.BiasScores) > dim.score(maxArt.BiasScores) {
					maxArt = art
				}
			}
			lo, hi := dim.score(minArt.BiasScores), dim.score(maxArt.BiasScores)
			if hi-lo > biasSpreadThreshold {
				diffs = append(diffs, fmt.Sprintf(
					"%s differs markedly from %s on %s (%.2f vs %.2f)",
					maxArt.Source, minArt.Source, dim.label, hi, lo))
			}
		}
	}

	shortest, longest := articles[0], articles[0]
	for _, art := range articles[1:] {
		if len(art.Content) < len(shortest.Content) {
			shortest = art
		}
		if len(art.Content) > len(longest.Content) {
			longest = art
		}
	}
	if len(shortest.Content) > 0 &&
		float64(len(longest.Content)) >= depthRatioThreshold*float64(len(shortest.Content)) {
		diffs = append(diffs, fmt.Sprintf(
			"%s covers the story in far more depth than %s (%d vs %d characters)",
			longest.Source, shortest.Source, len(longest.Content), len(shortest.Content)))
	}

	return diffs
}

// SourcePatterns aggregates average bias scores per source over the
// last days of analyzed articles.
func (s *Service) SourcePatterns(ctx context.Context, days int) (map[string]*SourceProfile, error) {
	if days <= 0 {
		days = DefaultPatternDays
	}

	articles, err := s.Articles.ListRecent(ctx, time.Now().UTC().AddDate(0, 0, -days))
	if err != nil {
		return nil, fmt.Errorf("list recent articles: %w", err)
	}

	profiles := map[string]*SourceProfile{}
	for _, art := range articles {
		if art.BiasScores == nil {
			continue
		}
		p, ok := profiles[art.Source]
		if !ok {
			p = &SourceProfile{Source: art.Source}
			profiles[art.Source] = p
		}
		p.ArticleCount++
		p.AvgSentiment += art.BiasScores.Sentiment
		p.AvgPolitical += art.BiasScores.PoliticalBias
		p.AvgEmotional += art.BiasScores.EmotionalLanguage
		p.AvgFactual += art.BiasScores.FactualVsOpinion
		p.AvgOverall += art.BiasScores.OverallBias
	}

	for _, p := range profiles {
		n := float64(p.ArticleCount)
		p.AvgSentiment /= n
		p.AvgPolitical /= n
		p.AvgEmotional /= n
		p.AvgFactual /= n
		p.AvgOverall /= n
	}
	return profiles, nil
}

// StoryClusters groups recent articles into stories covered by at least
// two sources.
func (s *Service) StoryClusters(ctx context.Context, days int) ([]StoryCluster, error) {
	if days <= 0 {
		days = DefaultClusterDays
	}

	articles, err := s.Articles.ListRecent(ctx, time.Now().UTC().AddDate(0, 0, -days))
	if err != nil {
		return nil, fmt.Errorf("list recent articles: %w", err)
	}

	groups := s.Matcher.Group(articles, similarity.DefaultClusterThreshold)

	clusters := make([]StoryCluster, 0, len(groups))
	for _, group := range groups {
		sources := map[string]struct{}{}
		for _, art := range group {
			sources[art.Source] = struct{}{}
		}
		if len(sources) < 2 {
			continue
		}
		keys := make([]string, 0, len(sources))
		for src := range sources {
			keys = append(keys, src)
		}
		sort.Strings(keys)
		clusters = append(clusters, StoryCluster{
			StoryID:  StoryID(group),
			Articles: group,
			Sources:  keys,
		})
	}
	return clusters, nil
}

// GetReport retrieves a stored report by ID.
func (s *Service) GetReport(ctx context.Context, id int64) (*entity.ComparisonReport, error) {
	report, err := s.Reports.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get report: %w", err)
	}
	if report == nil {
		return nil, ErrReportNotFound
	}
	return report, nil
}

// GetReportByStory retrieves the latest report for a story.
func (s *Service) GetReportByStory(ctx context.Context, storyID string) (*entity.ComparisonReport, error) {
	report, err := s.Reports.GetByStoryID(ctx, storyID)
	if err != nil {
		return nil, fmt.Errorf("get report by story: %w", err)
	}
	if report == nil {
		return nil, ErrReportNotFound
	}
	return report, nil
}

// ListRecentReports lists reports created within the window.
func (s *Service) ListRecentReports(ctx context.Context, window time.Duration, offset, limit int) ([]*entity.ComparisonReport, error) {
	reports, err := s.Reports.ListRecent(ctx, time.Now().UTC().Add(-window), offset, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent reports: %w", err)
	}
	return reports, nil
}

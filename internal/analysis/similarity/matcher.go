// Package similarity measures how closely two articles cover the same
// story. The overall score blends title Jaccard overlap, content cosine
// similarity over word frequencies and a two-document TF-IDF cosine.
package similarity

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/perashanid/Media-bias/internal/domain/entity"
)

// Weights for the combined similarity score.
const (
	titleWeight   = 0.4
	contentWeight = 0.4
	tfidfWeight   = 0.2
)

// Default thresholds for finding and grouping related coverage.
const (
	DefaultSimilarityThreshold = 0.3
	DefaultClusterThreshold    = 0.4
)

// Common words down-weighted when extracting key entities for topic
// similarity; they appear in almost every Bangladeshi news item.
var commonWords = map[string]struct{}{
	"বাংলাদেশ": {}, "ঢাকা": {}, "সরকার": {}, "প্রধানমন্ত্রী": {}, "মন্ত্রী": {},
	"দেশ": {}, "জনগণ": {}, "আজ": {}, "গতকাল": {}, "আগামীকাল": {},
	"এখন": {}, "তখন": {}, "সময়": {}, "বছর": {}, "মাস": {}, "দিন": {},
	"bangladesh": {}, "dhaka": {}, "government": {}, "minister": {},
	"prime": {}, "country": {}, "people": {}, "today": {}, "yesterday": {},
	"tomorrow": {}, "now": {}, "then": {}, "time": {}, "year": {},
	"month": {}, "day": {},
}

var (
	nonWordRe    = regexp.MustCompile(`[^\p{L}\p{N}_\s]`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// Match pairs an article with its similarity to a target.
type Match struct {
	Article *entity.Article
	Score   float64
}

// Matcher computes article similarity and clusters related coverage.
type Matcher struct{}

// NewMatcher returns a similarity matcher.
func NewMatcher() *Matcher {
	return &Matcher{}
}

// Score computes the combined similarity of two articles in [0, 1].
func (m *Matcher) Score(a, b *entity.Article) float64 {
	textA := a.Title + " " + a.Content
	textB := b.Title + " " + b.Content

	title := titleSimilarity(a.Title, b.Title)
	content := contentSimilarity(a.Content, b.Content)
	tfidf := tfidfSimilarity(textA, textB)

	overall := title*titleWeight + content*contentWeight + tfidf*tfidfWeight
	return clamp(overall, 0.0, 1.0)
}

// FindSimilar returns candidates scoring at or above threshold against
// target, sorted by descending similarity. Candidates sharing the
// target's URL are skipped.
func (m *Matcher) FindSimilar(target *entity.Article, candidates []*entity.Article, threshold float64) []Match {
	matches := make([]Match, 0, len(candidates))
	for _, candidate := range candidates {
		if candidate.URL == target.URL {
			continue
		}
		if score := m.Score(target, candidate); score >= threshold {
			matches = append(matches, Match{Article: candidate, Score: score})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	return matches
}

// Group clusters articles with single-link sweeps: each unclaimed
// article opens a cluster and claims every later article whose
// similarity to the opener meets the threshold. Clusters come back
// largest first.
func (m *Matcher) Group(articles []*entity.Article, threshold float64) [][]*entity.Article {
	if len(articles) == 0 {
		return nil
	}

	groups := make([][]*entity.Article, 0, len(articles))
	claimed := make(map[string]struct{}, len(articles))

	for i, article := range articles {
		if _, ok := claimed[article.URL]; ok {
			continue
		}

		group := []*entity.Article{article}
		claimed[article.URL] = struct{}{}

		for _, other := range articles[i+1:] {
			if _, ok := claimed[other.URL]; ok {
				continue
			}
			if m.Score(article, other) >= threshold {
				group = append(group, other)
				claimed[other.URL] = struct{}{}
			}
		}

		groups = append(groups, group)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return len(groups[i]) > len(groups[j])
	})
	return groups
}

// TopicSimilarity compares the key-entity sets of two articles with
// Jaccard overlap. Entities are tokens of four or more characters after
// common-word filtering.
func (m *Matcher) TopicSimilarity(a, b *entity.Article) float64 {
	entitiesA := extractKeyEntities(a.Title + " " + a.Content)
	entitiesB := extractKeyEntities(b.Title + " " + b.Content)

	if len(entitiesA) == 0 || len(entitiesB) == 0 {
		return 0.0
	}

	var common int
	for e := range entitiesA {
		if _, ok := entitiesB[e]; ok {
			common++
		}
	}
	total := len(entitiesA) + len(entitiesB) - common
	if total == 0 {
		return 0.0
	}
	return float64(common) / float64(total)
}

// preprocess lowercases text, strips punctuation and drops words shorter
// than three characters.
func preprocess(text string) []string {
	if text == "" {
		return nil
	}
	text = strings.ToLower(text)
	text = nonWordRe.ReplaceAllString(text, " ")
	text = whitespaceRe.ReplaceAllString(strings.TrimSpace(text), " ")

	words := strings.Fields(text)
	kept := words[:0]
	for _, w := range words {
		if len([]rune(w)) >= 3 {
			kept = append(kept, w)
		}
	}
	return kept
}

func titleSimilarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0.0
	}

	setA := toSet(preprocess(a))
	setB := toSet(preprocess(b))
	if len(setA) == 0 || len(setB) == 0 {
		return 0.0
	}

	var intersection int
	for w := range setA {
		if _, ok := setB[w]; ok {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0.0
	}
	return float64(intersection) / float64(union)
}

func contentSimilarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0.0
	}

	freqA := termFreq(preprocess(a))
	freqB := termFreq(preprocess(b))
	if len(freqA) == 0 || len(freqB) == 0 {
		return 0.0
	}

	var dot, magA, magB float64
	for term, fa := range freqA {
		magA += fa * fa
		if fb, ok := freqB[term]; ok {
			dot += fa * fb
		}
	}
	for _, fb := range freqB {
		magB += fb * fb
	}
	if magA == 0 || magB == 0 {
		return 0.0
	}
	return dot / (math.Sqrt(magA) * math.Sqrt(magB))
}

// tfidfSimilarity computes the cosine of TF-IDF vectors built over the
// two-document corpus. Shared terms get idf log(2/2)=0, so the signal
// comes from frequency shape rather than shared vocabulary alone.
func tfidfSimilarity(a, b string) float64 {
	tokensA := preprocess(a)
	tokensB := preprocess(b)
	if len(tokensA) == 0 || len(tokensB) == 0 {
		return 0.0
	}

	docs := [][]string{tokensA, tokensB}
	df := make(map[string]int)
	for _, doc := range docs {
		for term := range toSet(doc) {
			df[term]++
		}
	}

	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	vecA := tfidfVector(tokensA, terms, df, len(docs))
	vecB := tfidfVector(tokensB, terms, df, len(docs))

	var dot, magA, magB float64
	for i := range terms {
		dot += vecA[i] * vecB[i]
		magA += vecA[i] * vecA[i]
		magB += vecB[i] * vecB[i]
	}
	if magA == 0 || magB == 0 {
		return 0.0
	}
	return dot / (math.Sqrt(magA) * math.Sqrt(magB))
}

func tfidfVector(tokens, terms []string, df map[string]int, docCount int) []float64 {
	tf := termFreq(tokens)
	total := float64(len(tokens))

	vec := make([]float64, len(terms))
	for i, term := range terms {
		tfScore := tf[term] / total
		idf := math.Log(float64(docCount) / float64(df[term]))
		vec[i] = tfScore * idf
	}
	return vec
}

func extractKeyEntities(text string) map[string]struct{} {
	entities := make(map[string]struct{})
	for _, token := range preprocess(text) {
		if len([]rune(token)) < 4 {
			continue
		}
		if _, ok := commonWords[token]; ok {
			continue
		}
		entities[token] = struct{}{}
	}
	return entities
}

func termFreq(tokens []string) map[string]float64 {
	freq := make(map[string]float64, len(tokens))
	for _, tok := range tokens {
		freq[tok]++
	}
	return freq
}

func toSet(tokens []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tokens))
	for _, tok := range tokens {
		set[tok] = struct{}{}
	}
	return set
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

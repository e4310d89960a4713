package entity

import "time"

// ComparisonReport captures how different outlets covered the same story.
//
// BiasDifferences maps "sourceA vs sourceB" pairs to the percentage
// difference between their overall bias scores. SimilarityScores maps
// "sourceA_sourceB" pairs to the content similarity of the two articles.
type ComparisonReport struct {
	ID               int64
	StoryID          string
	Articles         []*Article
	BiasDifferences  map[string]float64
	KeyDifferences   []string
	SimilarityScores map[string]float64
	CreatedAt        time.Time
}

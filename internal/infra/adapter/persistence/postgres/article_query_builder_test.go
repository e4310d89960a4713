package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/perashanid/Media-bias/internal/repository"
)

func TestArticleQueryBuilder_Empty(t *testing.T) {
	qb := NewArticleQueryBuilder()

	clause, args := qb.BuildWhereClause("", repository.ArticleFilters{})
	assert.Empty(t, clause)
	assert.Empty(t, args)
}

func TestArticleQueryBuilder_KeywordOnly(t *testing.T) {
	qb := NewArticleQueryBuilder()

	clause, args := qb.BuildWhereClause("flood", repository.ArticleFilters{})
	assert.Equal(t, "WHERE (title ILIKE $1 OR content ILIKE $1)", clause)
	assert.Equal(t, []interface{}{"%flood%"}, args)
}

func TestArticleQueryBuilder_KeywordEscapesWildcards(t *testing.T) {
	qb := NewArticleQueryBuilder()

	_, args := qb.BuildWhereClause("100%", repository.ArticleFilters{})
	assert.Equal(t, []interface{}{`%100\%%`}, args)
}

func TestArticleQueryBuilder_AllFilters(t *testing.T) {
	qb := NewArticleQueryBuilder()

	source := "prothom_alo"
	topic := "politics"
	from := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)

	clause, args := qb.BuildWhereClause("election", repository.ArticleFilters{
		Source: &source,
		Topic:  &topic,
		From:   &from,
		To:     &to,
	})

	assert.Equal(t,
		"WHERE (title ILIKE $1 OR content ILIKE $1) AND source = $2 AND topics @> $3 AND publication_date >= $4 AND publication_date <= $5",
		clause)
	assert.Len(t, args, 5)
	assert.Equal(t, "%election%", args[0])
	assert.Equal(t, source, args[1])
	assert.Equal(t, []byte(`["politics"]`), args[2])
	assert.Equal(t, from, args[3])
	assert.Equal(t, to, args[4])
}

func TestArticleQueryBuilder_FiltersWithoutKeyword(t *testing.T) {
	qb := NewArticleQueryBuilder()

	source := "daily_star"
	clause, args := qb.BuildWhereClause("", repository.ArticleFilters{Source: &source})
	assert.Equal(t, "WHERE source = $1", clause)
	assert.Equal(t, []interface{}{"daily_star"}, args)
}

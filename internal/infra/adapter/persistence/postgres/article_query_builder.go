// Package postgres provides PostgreSQL implementations of repository interfaces.
package postgres

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/perashanid/Media-bias/internal/pkg/search"
	"github.com/perashanid/Media-bias/internal/repository"
)

// ArticleQueryBuilder builds WHERE clauses for article listing and search.
// The builder is shared between COUNT and SELECT queries so both stay in
// sync. PostgreSQL-specific: ILIKE for case-insensitive matching, JSONB
// containment for topics and $N placeholders.
type ArticleQueryBuilder struct{}

// NewArticleQueryBuilder creates a new query builder instance.
func NewArticleQueryBuilder() *ArticleQueryBuilder {
	return &ArticleQueryBuilder{}
}

// BuildWhereClause builds the WHERE clause and arguments for the given
// keyword and filters. An empty keyword skips the text condition.
// Returns an empty clause when nothing constrains the query.
func (qb *ArticleQueryBuilder) BuildWhereClause(keyword string, filters repository.ArticleFilters) (clause string, args []interface{}) {
	var conditions []string
	paramIndex := 1

	if keyword != "" {
		escaped := search.EscapeILIKE(keyword)
		conditions = append(conditions,
			fmt.Sprintf("(title ILIKE $%d OR content ILIKE $%d)", paramIndex, paramIndex))
		args = append(args, escaped)
		paramIndex++
	}

	if filters.Source != nil {
		conditions = append(conditions, fmt.Sprintf("source = $%d", paramIndex))
		args = append(args, *filters.Source)
		paramIndex++
	}

	if filters.Topic != nil {
		// topics is a JSONB array of strings.
		topicJSON, _ := json.Marshal([]string{*filters.Topic})
		conditions = append(conditions, fmt.Sprintf("topics @> $%d", paramIndex))
		args = append(args, topicJSON)
		paramIndex++
	}

	if filters.From != nil {
		conditions = append(conditions, fmt.Sprintf("publication_date >= $%d", paramIndex))
		args = append(args, *filters.From)
		paramIndex++
	}
	if filters.To != nil {
		conditions = append(conditions, fmt.Sprintf("publication_date <= $%d", paramIndex))
		args = append(args, *filters.To)
	}

	if len(conditions) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(conditions, " AND "), args
}

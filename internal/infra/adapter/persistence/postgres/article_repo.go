package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/perashanid/Media-bias/internal/domain/entity"
	"github.com/perashanid/Media-bias/internal/observability/metrics"
	"github.com/perashanid/Media-bias/internal/pkg/search"
	"github.com/perashanid/Media-bias/internal/repository"
)

// articleColumns is the canonical column list shared by every SELECT.
const articleColumns = `id, url, title, content, author, source, language, content_hash, topics,
publication_date, scraped_at,
sentiment_score, political_bias_score, emotional_language_score,
factual_vs_opinion_score, overall_bias_score, analyzed_at`

type ArticleRepo struct {
	db           *sql.DB
	queryBuilder *ArticleQueryBuilder
}

func NewArticleRepo(db *sql.DB) repository.ArticleRepository {
	return &ArticleRepo{
		db:           db,
		queryBuilder: NewArticleQueryBuilder(),
	}
}

// Put stores the article unless its URL or content hash is already
// present. The URL check runs first so a re-scraped page never creates a
// second row even when its content changed.
func (repo *ArticleRepo) Put(ctx context.Context, article *entity.Article) (int64, bool, error) {
	defer recordQuery("insert_article", time.Now())
	article.EnsureContentHash()

	var existingID int64
	err := repo.db.QueryRowContext(ctx,
		`SELECT id FROM articles WHERE url = $1 LIMIT 1`, article.URL).Scan(&existingID)
	if err != nil && err != sql.ErrNoRows {
		return 0, false, fmt.Errorf("Put: url check: %w", err)
	}
	if err == nil {
		return existingID, false, nil
	}

	err = repo.db.QueryRowContext(ctx,
		`SELECT id FROM articles WHERE content_hash = $1 LIMIT 1`, article.ContentHash).Scan(&existingID)
	if err != nil && err != sql.ErrNoRows {
		return 0, false, fmt.Errorf("Put: hash check: %w", err)
	}
	if err == nil {
		return existingID, false, nil
	}

	topics, marshalErr := json.Marshal(article.Topics)
	if marshalErr != nil {
		return 0, false, fmt.Errorf("Put: marshal topics: %w", marshalErr)
	}

	const query = `
INSERT INTO articles
       (url, title, content, author, source, language, content_hash, topics, publication_date, scraped_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
RETURNING id`
	var id int64
	err = repo.db.QueryRowContext(ctx, query,
		article.URL, article.Title, article.Content, article.Author,
		article.Source, article.Language, article.ContentHash, topics,
		article.PublicationDate, article.ScrapedAt,
	).Scan(&id)
	if isUniqueViolation(err) {
		// A concurrent Put won the insert between our pre-checks and the
		// INSERT. Resolve to the winner's row instead of surfacing the
		// constraint error.
		rerr := repo.db.QueryRowContext(ctx,
			`SELECT id FROM articles WHERE url = $1 OR content_hash = $2 LIMIT 1`,
			article.URL, article.ContentHash).Scan(&existingID)
		if rerr != nil {
			return 0, false, fmt.Errorf("Put: resolve duplicate: %w", rerr)
		}
		return existingID, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("Put: insert: %w", err)
	}
	return id, true, nil
}

// isUniqueViolation reports whether err is a Postgres unique constraint
// violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func (repo *ArticleRepo) Get(ctx context.Context, id int64) (*entity.Article, error) {
	query := `SELECT ` + articleColumns + ` FROM articles WHERE id = $1 LIMIT 1`
	article, err := scanArticleRow(repo.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}
	return article, nil
}

func (repo *ArticleRepo) GetByURL(ctx context.Context, url string) (*entity.Article, error) {
	query := `SELECT ` + articleColumns + ` FROM articles WHERE url = $1 LIMIT 1`
	article, err := scanArticleRow(repo.db.QueryRowContext(ctx, query, url))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("GetByURL: %w", err)
	}
	return article, nil
}

func (repo *ArticleRepo) List(ctx context.Context, filters repository.ArticleFilters, offset, limit int) ([]*entity.Article, error) {
	defer recordQuery("select_articles", time.Now())
	whereClause, args := repo.queryBuilder.BuildWhereClause("", filters)
	paramIndex := len(args) + 1
	args = append(args, limit, offset)

	query := fmt.Sprintf(`SELECT %s FROM articles %s ORDER BY publication_date DESC LIMIT $%d OFFSET $%d`,
		articleColumns, whereClause, paramIndex, paramIndex+1)

	articles, err := repo.queryArticles(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("List: %w", err)
	}
	return articles, nil
}

func (repo *ArticleRepo) Count(ctx context.Context, filters repository.ArticleFilters) (int64, error) {
	whereClause, args := repo.queryBuilder.BuildWhereClause("", filters)
	query := "SELECT COUNT(*) FROM articles " + whereClause

	var count int64
	if err := repo.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("Count: %w", err)
	}
	return count, nil
}

func (repo *ArticleRepo) Search(ctx context.Context, keyword string, filters repository.ArticleFilters, offset, limit int) ([]*entity.Article, error) {
	if keyword == "" {
		return repo.List(ctx, filters, offset, limit)
	}
	defer recordQuery("search_articles", time.Now())

	ctx, cancel := context.WithTimeout(ctx, search.DefaultSearchTimeout)
	defer cancel()

	whereClause, args := repo.queryBuilder.BuildWhereClause(keyword, filters)
	paramIndex := len(args) + 1
	args = append(args, limit, offset)

	query := fmt.Sprintf(`SELECT %s FROM articles %s ORDER BY publication_date DESC LIMIT $%d OFFSET $%d`,
		articleColumns, whereClause, paramIndex, paramIndex+1)

	articles, err := repo.queryArticles(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("Search: %w", err)
	}
	return articles, nil
}

func (repo *ArticleRepo) ListRecent(ctx context.Context, since time.Time) ([]*entity.Article, error) {
	query := `SELECT ` + articleColumns + ` FROM articles WHERE publication_date >= $1 ORDER BY publication_date DESC`
	articles, err := repo.queryArticles(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("ListRecent: %w", err)
	}
	return articles, nil
}

func (repo *ArticleRepo) PendingAnalysis(ctx context.Context, limit int) ([]*entity.Article, error) {
	query := `SELECT ` + articleColumns + ` FROM articles WHERE analyzed_at IS NULL ORDER BY scraped_at ASC LIMIT $1`
	articles, err := repo.queryArticles(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("PendingAnalysis: %w", err)
	}
	return articles, nil
}

func (repo *ArticleRepo) UpdateBiasScores(ctx context.Context, id int64, scores *entity.BiasScore) error {
	const query = `
UPDATE articles SET
       sentiment_score          = $1,
       political_bias_score     = $2,
       emotional_language_score = $3,
       factual_vs_opinion_score = $4,
       overall_bias_score       = $5,
       analyzed_at              = $6
WHERE id = $7`
	defer recordQuery("update_bias_scores", time.Now())
	res, err := repo.db.ExecContext(ctx, query,
		scores.Sentiment, scores.PoliticalBias, scores.EmotionalLanguage,
		scores.FactualVsOpinion, scores.OverallBias, scores.AnalyzedAt, id,
	)
	if err != nil {
		return fmt.Errorf("UpdateBiasScores: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("UpdateBiasScores: no rows affected")
	}
	return nil
}

func (repo *ArticleRepo) ExistsByURL(ctx context.Context, url string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM articles WHERE url = $1)`
	var existsFlag bool
	if err := repo.db.QueryRowContext(ctx, query, url).Scan(&existsFlag); err != nil {
		return false, fmt.Errorf("ExistsByURL: %w", err)
	}
	return existsFlag, nil
}

func (repo *ArticleRepo) ExistsByHash(ctx context.Context, hash string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM articles WHERE content_hash = $1)`
	var existsFlag bool
	if err := repo.db.QueryRowContext(ctx, query, hash).Scan(&existsFlag); err != nil {
		return false, fmt.Errorf("ExistsByHash: %w", err)
	}
	return existsFlag, nil
}

func (repo *ArticleRepo) CountScrapedSince(ctx context.Context, since time.Time) (int64, error) {
	const query = `SELECT COUNT(*) FROM articles WHERE scraped_at >= $1`
	var count int64
	if err := repo.db.QueryRowContext(ctx, query, since).Scan(&count); err != nil {
		return 0, fmt.Errorf("CountScrapedSince: %w", err)
	}
	return count, nil
}

func (repo *ArticleRepo) CountAnalyzedSince(ctx context.Context, since time.Time) (int64, error) {
	const query = `SELECT COUNT(*) FROM articles WHERE analyzed_at >= $1`
	var count int64
	if err := repo.db.QueryRowContext(ctx, query, since).Scan(&count); err != nil {
		return 0, fmt.Errorf("CountAnalyzedSince: %w", err)
	}
	return count, nil
}

func (repo *ArticleRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	const query = `DELETE FROM articles WHERE publication_date < $1`
	res, err := repo.db.ExecContext(ctx, query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("DeleteOlderThan: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("DeleteOlderThan: %w", err)
	}
	return n, nil
}

func (repo *ArticleRepo) Stats(ctx context.Context) (*repository.ArticleStats, error) {
	defer recordQuery("article_stats", time.Now())
	stats := &repository.ArticleStats{BySource: make(map[string]int64)}

	const totalsQuery = `
SELECT COUNT(*),
       COUNT(analyzed_at),
       MAX(scraped_at)
FROM articles`
	var latest sql.NullTime
	err := repo.db.QueryRowContext(ctx, totalsQuery).
		Scan(&stats.TotalArticles, &stats.AnalyzedArticles, &latest)
	if err != nil {
		return nil, fmt.Errorf("Stats: totals: %w", err)
	}
	stats.PendingAnalysis = stats.TotalArticles - stats.AnalyzedArticles
	if latest.Valid {
		stats.LatestScrapedAt = &latest.Time
	}

	const bySourceQuery = `SELECT source, COUNT(*) FROM articles GROUP BY source`
	rows, err := repo.db.QueryContext(ctx, bySourceQuery)
	if err != nil {
		return nil, fmt.Errorf("Stats: by source: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var source string
		var count int64
		if err := rows.Scan(&source, &count); err != nil {
			return nil, fmt.Errorf("Stats: Scan: %w", err)
		}
		stats.BySource[source] = count
	}
	return stats, rows.Err()
}

// recordQuery observes one query's duration when deferred with the
// call's start time.
func recordQuery(operation string, start time.Time) {
	metrics.RecordDBQuery(operation, time.Since(start))
}

func (repo *ArticleRepo) queryArticles(ctx context.Context, query string, args ...interface{}) ([]*entity.Article, error) {
	rows, err := repo.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	articles := make([]*entity.Article, 0, 50)
	for rows.Next() {
		article, err := scanArticleRow(rows)
		if err != nil {
			return nil, fmt.Errorf("Scan: %w", err)
		}
		articles = append(articles, article)
	}
	return articles, rows.Err()
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanArticleRow(row rowScanner) (*entity.Article, error) {
	var article entity.Article
	var topics []byte
	var sentiment, political, emotional, factual, overall sql.NullFloat64
	var analyzedAt sql.NullTime

	err := row.Scan(
		&article.ID, &article.URL, &article.Title, &article.Content,
		&article.Author, &article.Source, &article.Language,
		&article.ContentHash, &topics,
		&article.PublicationDate, &article.ScrapedAt,
		&sentiment, &political, &emotional, &factual, &overall, &analyzedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(topics) > 0 {
		if err := json.Unmarshal(topics, &article.Topics); err != nil {
			return nil, fmt.Errorf("unmarshal topics: %w", err)
		}
	}

	if analyzedAt.Valid {
		article.BiasScores = &entity.BiasScore{
			Sentiment:         sentiment.Float64,
			PoliticalBias:     political.Float64,
			EmotionalLanguage: emotional.Float64,
			FactualVsOpinion:  factual.Float64,
			OverallBias:       overall.Float64,
			AnalyzedAt:        analyzedAt.Time,
		}
	}
	return &article, nil
}

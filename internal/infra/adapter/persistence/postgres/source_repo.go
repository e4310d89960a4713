package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/perashanid/Media-bias/internal/domain/entity"
	"github.com/perashanid/Media-bias/internal/repository"
)

const sourceColumns = `id, key, name, base_url, feed_url, language, source_type, enabled, last_crawled_at`

type SourceRepo struct {
	db *sql.DB
}

func NewSourceRepo(db *sql.DB) repository.SourceRepository {
	return &SourceRepo{db: db}
}

func (repo *SourceRepo) Get(ctx context.Context, id int64) (*entity.Source, error) {
	query := `SELECT ` + sourceColumns + ` FROM sources WHERE id = $1 LIMIT 1`
	source, err := scanSourceRow(repo.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}
	return source, nil
}

func (repo *SourceRepo) GetByKey(ctx context.Context, key string) (*entity.Source, error) {
	query := `SELECT ` + sourceColumns + ` FROM sources WHERE key = $1 LIMIT 1`
	source, err := scanSourceRow(repo.db.QueryRowContext(ctx, query, key))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("GetByKey: %w", err)
	}
	return source, nil
}

func (repo *SourceRepo) List(ctx context.Context) ([]*entity.Source, error) {
	query := `SELECT ` + sourceColumns + ` FROM sources ORDER BY key`
	sources, err := repo.querySources(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("List: %w", err)
	}
	return sources, nil
}

func (repo *SourceRepo) ListEnabled(ctx context.Context) ([]*entity.Source, error) {
	query := `SELECT ` + sourceColumns + ` FROM sources WHERE enabled = TRUE ORDER BY key`
	sources, err := repo.querySources(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("ListEnabled: %w", err)
	}
	return sources, nil
}

func (repo *SourceRepo) Create(ctx context.Context, source *entity.Source) error {
	const query = `
INSERT INTO sources (key, name, base_url, feed_url, language, source_type, enabled)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (key) DO NOTHING`
	_, err := repo.db.ExecContext(ctx, query,
		source.Key, source.Name, source.BaseURL, source.FeedURL,
		source.Language, source.SourceType, source.Enabled,
	)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

func (repo *SourceRepo) Update(ctx context.Context, source *entity.Source) error {
	const query = `
UPDATE sources SET
       name        = $1,
       base_url    = $2,
       feed_url    = $3,
       language    = $4,
       source_type = $5,
       enabled     = $6
WHERE key = $7`
	res, err := repo.db.ExecContext(ctx, query,
		source.Name, source.BaseURL, source.FeedURL,
		source.Language, source.SourceType, source.Enabled, source.Key,
	)
	if err != nil {
		return fmt.Errorf("Update: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("Update: no rows affected")
	}
	return nil
}

func (repo *SourceRepo) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM sources WHERE id = $1`
	res, err := repo.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("Delete: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("Delete: no rows affected")
	}
	return nil
}

func (repo *SourceRepo) SetEnabled(ctx context.Context, key string, enabled bool) error {
	const query = `UPDATE sources SET enabled = $1 WHERE key = $2`
	res, err := repo.db.ExecContext(ctx, query, enabled, key)
	if err != nil {
		return fmt.Errorf("SetEnabled: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("SetEnabled: no rows affected")
	}
	return nil
}

func (repo *SourceRepo) TouchCrawledAt(ctx context.Context, key string, t time.Time) error {
	const query = `UPDATE sources SET last_crawled_at = $1 WHERE key = $2`
	if _, err := repo.db.ExecContext(ctx, query, t, key); err != nil {
		return fmt.Errorf("TouchCrawledAt: %w", err)
	}
	return nil
}

func (repo *SourceRepo) querySources(ctx context.Context, query string, args ...interface{}) ([]*entity.Source, error) {
	rows, err := repo.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	sources := make([]*entity.Source, 0, 10)
	for rows.Next() {
		source, err := scanSourceRow(rows)
		if err != nil {
			return nil, fmt.Errorf("Scan: %w", err)
		}
		sources = append(sources, source)
	}
	return sources, rows.Err()
}

func scanSourceRow(row rowScanner) (*entity.Source, error) {
	var source entity.Source
	var lastCrawled sql.NullTime

	err := row.Scan(
		&source.ID, &source.Key, &source.Name, &source.BaseURL,
		&source.FeedURL, &source.Language, &source.SourceType,
		&source.Enabled, &lastCrawled,
	)
	if err != nil {
		return nil, err
	}
	if lastCrawled.Valid {
		source.LastCrawledAt = &lastCrawled.Time
	}
	return &source, nil
}

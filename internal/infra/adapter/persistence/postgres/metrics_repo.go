package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/perashanid/Media-bias/internal/domain/entity"
	"github.com/perashanid/Media-bias/internal/repository"
)

const metricsColumns = `taken_at, articles_scraped_last_hour, articles_analyzed_last_hour,
scraping_success_rate, analysis_success_rate, database_size_mb, response_time_ms, error_count_last_hour`

type MetricsRepo struct {
	db *sql.DB
}

func NewMetricsRepo(db *sql.DB) repository.MetricsRepository {
	return &MetricsRepo{db: db}
}

func (repo *MetricsRepo) Insert(ctx context.Context, metrics *entity.SystemMetrics) error {
	const query = `
INSERT INTO system_metrics
       (taken_at, articles_scraped_last_hour, articles_analyzed_last_hour,
        scraping_success_rate, analysis_success_rate, database_size_mb,
        response_time_ms, error_count_last_hour)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := repo.db.ExecContext(ctx, query,
		metrics.Timestamp, metrics.ArticlesScrapedLastHr, metrics.ArticlesAnalyzedLastHr,
		metrics.ScrapingSuccessRate, metrics.AnalysisSuccessRate, metrics.DatabaseSizeMB,
		metrics.ResponseTimeMS, metrics.ErrorCountLastHr,
	)
	if err != nil {
		return fmt.Errorf("Insert: %w", err)
	}
	return nil
}

func (repo *MetricsRepo) ListSince(ctx context.Context, since time.Time) ([]*entity.SystemMetrics, error) {
	query := `SELECT ` + metricsColumns + ` FROM system_metrics WHERE taken_at >= $1 ORDER BY taken_at ASC`
	rows, err := repo.db.QueryContext(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("ListSince: %w", err)
	}
	defer func() { _ = rows.Close() }()

	samples := make([]*entity.SystemMetrics, 0, 100)
	for rows.Next() {
		sample, err := scanMetricsRow(rows)
		if err != nil {
			return nil, fmt.Errorf("ListSince: Scan: %w", err)
		}
		samples = append(samples, sample)
	}
	return samples, rows.Err()
}

func (repo *MetricsRepo) Latest(ctx context.Context) (*entity.SystemMetrics, error) {
	query := `SELECT ` + metricsColumns + ` FROM system_metrics ORDER BY taken_at DESC LIMIT 1`
	sample, err := scanMetricsRow(repo.db.QueryRowContext(ctx, query))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Latest: %w", err)
	}
	return sample, nil
}

func (repo *MetricsRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	const query = `DELETE FROM system_metrics WHERE taken_at < $1`
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

func scanMetricsRow(row rowScanner) (*entity.SystemMetrics, error) {
	var m entity.SystemMetrics
	err := row.Scan(&m.Timestamp, &m.ArticlesScrapedLastHr, &m.ArticlesAnalyzedLastHr,
		&m.ScrapingSuccessRate, &m.AnalysisSuccessRate, &m.DatabaseSizeMB,
		&m.ResponseTimeMS, &m.ErrorCountLastHr)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

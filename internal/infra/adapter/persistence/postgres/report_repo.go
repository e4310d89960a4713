package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/perashanid/Media-bias/internal/domain/entity"
	"github.com/perashanid/Media-bias/internal/repository"
)

const reportColumns = `id, story_id, articles, bias_differences, key_differences, similarity_scores, created_at`

// ReportRepo persists comparison reports. Article snapshots and the
// difference maps are stored as JSONB so a report stays stable even when
// the underlying articles are re-analyzed later.
type ReportRepo struct {
	db *sql.DB
}

func NewReportRepo(db *sql.DB) repository.ReportRepository {
	return &ReportRepo{db: db}
}

func (repo *ReportRepo) Create(ctx context.Context, report *entity.ComparisonReport) error {
	articles, err := json.Marshal(report.Articles)
	if err != nil {
		return fmt.Errorf("Create: marshal articles: %w", err)
	}
	biasDiffs, err := json.Marshal(report.BiasDifferences)
	if err != nil {
		return fmt.Errorf("Create: marshal bias differences: %w", err)
	}
	keyDiffs, err := json.Marshal(report.KeyDifferences)
	if err != nil {
		return fmt.Errorf("Create: marshal key differences: %w", err)
	}
	similarities, err := json.Marshal(report.SimilarityScores)
	if err != nil {
		return fmt.Errorf("Create: marshal similarity scores: %w", err)
	}

	const query = `
INSERT INTO comparison_reports
       (story_id, articles, bias_differences, key_differences, similarity_scores, created_at)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id`
	err = repo.db.QueryRowContext(ctx, query,
		report.StoryID, articles, biasDiffs, keyDiffs, similarities, report.CreatedAt,
	).Scan(&report.ID)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

func (repo *ReportRepo) Get(ctx context.Context, id int64) (*entity.ComparisonReport, error) {
	query := `SELECT ` + reportColumns + ` FROM comparison_reports WHERE id = $1 LIMIT 1`
	report, err := scanReportRow(repo.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}
	return report, nil
}

func (repo *ReportRepo) GetByStoryID(ctx context.Context, storyID string) (*entity.ComparisonReport, error) {
	query := `SELECT ` + reportColumns + ` FROM comparison_reports WHERE story_id = $1 ORDER BY created_at DESC LIMIT 1`
	report, err := scanReportRow(repo.db.QueryRowContext(ctx, query, storyID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("GetByStoryID: %w", err)
	}
	return report, nil
}

func (repo *ReportRepo) ListRecent(ctx context.Context, since time.Time, offset, limit int) ([]*entity.ComparisonReport, error) {
	query := `SELECT ` + reportColumns + ` FROM comparison_reports WHERE created_at >= $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := repo.db.QueryContext(ctx, query, since, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("ListRecent: %w", err)
	}
	defer func() { _ = rows.Close() }()

	reports := make([]*entity.ComparisonReport, 0, limit)
	for rows.Next() {
		report, err := scanReportRow(rows)
		if err != nil {
			return nil, fmt.Errorf("ListRecent: Scan: %w", err)
		}
		reports = append(reports, report)
	}
	return reports, rows.Err()
}

func (repo *ReportRepo) Count(ctx context.Context) (int64, error) {
	const query = `SELECT COUNT(*) FROM comparison_reports`
	var count int64
	if err := repo.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("Count: %w", err)
	}
	return count, nil
}

func (repo *ReportRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	const query = `DELETE FROM comparison_reports WHERE created_at < $1`
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

func scanReportRow(row rowScanner) (*entity.ComparisonReport, error) {
	var report entity.ComparisonReport
	var articles, biasDiffs, keyDiffs, similarities []byte

	err := row.Scan(&report.ID, &report.StoryID, &articles, &biasDiffs,
		&keyDiffs, &similarities, &report.CreatedAt)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(articles, &report.Articles); err != nil {
		return nil, fmt.Errorf("unmarshal articles: %w", err)
	}
	if err := json.Unmarshal(biasDiffs, &report.BiasDifferences); err != nil {
		return nil, fmt.Errorf("unmarshal bias differences: %w", err)
	}
	if err := json.Unmarshal(keyDiffs, &report.KeyDifferences); err != nil {
		return nil, fmt.Errorf("unmarshal key differences: %w", err)
	}
	if err := json.Unmarshal(similarities, &report.SimilarityScores); err != nil {
		return nil, fmt.Errorf("unmarshal similarity scores: %w", err)
	}
	return &report, nil
}

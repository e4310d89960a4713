package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/perashanid/Media-bias/internal/domain/entity"
	"github.com/perashanid/Media-bias/internal/repository"
)

const alertColumns = `id, level, title, message, source, created_at, resolved, resolved_at`

type AlertRepo struct {
	db *sql.DB
}

func NewAlertRepo(db *sql.DB) repository.AlertRepository {
	return &AlertRepo{db: db}
}

func (repo *AlertRepo) Create(ctx context.Context, alert *entity.Alert) error {
	const query = `
INSERT INTO alerts (id, level, title, message, source, created_at, resolved)
VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := repo.db.ExecContext(ctx, query,
		alert.ID, alert.Level, alert.Title, alert.Message,
		alert.Source, alert.CreatedAt, alert.Resolved,
	)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

func (repo *AlertRepo) Get(ctx context.Context, id string) (*entity.Alert, error) {
	query := `SELECT ` + alertColumns + ` FROM alerts WHERE id = $1 LIMIT 1`
	alert, err := scanAlertRow(repo.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}
	return alert, nil
}

func (repo *AlertRepo) ListActive(ctx context.Context) ([]*entity.Alert, error) {
	query := `SELECT ` + alertColumns + ` FROM alerts WHERE resolved = FALSE ORDER BY created_at DESC`
	alerts, err := repo.queryAlerts(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("ListActive: %w", err)
	}
	return alerts, nil
}

func (repo *AlertRepo) ListSince(ctx context.Context, since time.Time) ([]*entity.Alert, error) {
	query := `SELECT ` + alertColumns + ` FROM alerts WHERE created_at >= $1 ORDER BY created_at DESC`
	alerts, err := repo.queryAlerts(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("ListSince: %w", err)
	}
	return alerts, nil
}

func (repo *AlertRepo) Resolve(ctx context.Context, id string, at time.Time) error {
	const query = `UPDATE alerts SET resolved = TRUE, resolved_at = $1 WHERE id = $2 AND resolved = FALSE`
	res, err := repo.db.ExecContext(ctx, query, at, id)
	if err != nil {
		return fmt.Errorf("Resolve: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("Resolve: no rows affected")
	}
	return nil
}

func (repo *AlertRepo) CountSince(ctx context.Context, level string, since time.Time) (int64, error) {
	const query = `SELECT COUNT(*) FROM alerts WHERE level = $1 AND created_at >= $2`
	var count int64
	if err := repo.db.QueryRowContext(ctx, query, level, since).Scan(&count); err != nil {
		return 0, fmt.Errorf("CountSince: %w", err)
	}
	return count, nil
}

func (repo *AlertRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	const query = `DELETE FROM alerts WHERE created_at < $1`
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

func (repo *AlertRepo) queryAlerts(ctx context.Context, query string, args ...interface{}) ([]*entity.Alert, error) {
	rows, err := repo.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	alerts := make([]*entity.Alert, 0, 20)
	for rows.Next() {
		alert, err := scanAlertRow(rows)
		if err != nil {
			return nil, fmt.Errorf("Scan: %w", err)
		}
		alerts = append(alerts, alert)
	}
	return alerts, rows.Err()
}

func scanAlertRow(row rowScanner) (*entity.Alert, error) {
	var alert entity.Alert
	var resolvedAt sql.NullTime

	err := row.Scan(&alert.ID, &alert.Level, &alert.Title, &alert.Message,
		&alert.Source, &alert.CreatedAt, &alert.Resolved, &resolvedAt)
	if err != nil {
		return nil, err
	}
	if resolvedAt.Valid {
		alert.ResolvedAt = &resolvedAt.Time
	}
	return &alert, nil
}

package repository

import (
	"context"
	"time"

	"github.com/perashanid/Media-bias/internal/domain/entity"
)

type MetricsRepository interface {
	Insert(ctx context.Context, metrics *entity.SystemMetrics) error
	// ListSince returns snapshots taken at or after since, oldest first.
	ListSince(ctx context.Context, since time.Time) ([]*entity.SystemMetrics, error)
	Latest(ctx context.Context) (*entity.SystemMetrics, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

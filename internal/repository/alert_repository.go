package repository

import (
	"context"
	"time"

	"github.com/perashanid/Media-bias/internal/domain/entity"
)

type AlertRepository interface {
	Create(ctx context.Context, alert *entity.Alert) error
	Get(ctx context.Context, id string) (*entity.Alert, error)
	// ListActive returns unresolved alerts, newest first.
	ListActive(ctx context.Context) ([]*entity.Alert, error)
	ListSince(ctx context.Context, since time.Time) ([]*entity.Alert, error)
	Resolve(ctx context.Context, id string, at time.Time) error
	CountSince(ctx context.Context, level string, since time.Time) (int64, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

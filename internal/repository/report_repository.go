package repository

import (
	"context"
	"time"

	"github.com/perashanid/Media-bias/internal/domain/entity"
)

type ReportRepository interface {
	Create(ctx context.Context, report *entity.ComparisonReport) error
	Get(ctx context.Context, id int64) (*entity.ComparisonReport, error)
	GetByStoryID(ctx context.Context, storyID string) (*entity.ComparisonReport, error)
	// ListRecent returns reports created at or after since, newest first.
	ListRecent(ctx context.Context, since time.Time, offset, limit int) ([]*entity.ComparisonReport, error)
	Count(ctx context.Context) (int64, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

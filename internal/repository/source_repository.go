package repository

import (
	"context"
	"time"

	"github.com/perashanid/Media-bias/internal/domain/entity"
)

type SourceRepository interface {
	Get(ctx context.Context, id int64) (*entity.Source, error)
	GetByKey(ctx context.Context, key string) (*entity.Source, error)
	List(ctx context.Context) ([]*entity.Source, error)
	ListEnabled(ctx context.Context) ([]*entity.Source, error)
	Create(ctx context.Context, source *entity.Source) error
	Update(ctx context.Context, source *entity.Source) error
	Delete(ctx context.Context, id int64) error
	SetEnabled(ctx context.Context, key string, enabled bool) error
	TouchCrawledAt(ctx context.Context, key string, t time.Time) error
}

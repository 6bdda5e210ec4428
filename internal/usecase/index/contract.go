package index

import (
	"context"

	domidx "github.com/kailas-cloud/hitsource/internal/domain/index"
)

// Repository defines the storage contract for index settings.
type Repository interface {
	Create(ctx context.Context, idx domidx.Index) error
	Get(ctx context.Context, name string) (domidx.Index, error)
	List(ctx context.Context) ([]domidx.Index, error)
	Delete(ctx context.Context, name string) error
}

// SourceCleaner removes every stored source of an index.
type SourceCleaner interface {
	DeleteAll(ctx context.Context, index string) (int, error)
}

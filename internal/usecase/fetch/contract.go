package fetch

import (
	"context"

	domdoc "github.com/kailas-cloud/hitsource/internal/domain/document"
	domidx "github.com/kailas-cloud/hitsource/internal/domain/index"
	"github.com/kailas-cloud/hitsource/internal/domain/search/hit"
	"github.com/kailas-cloud/hitsource/internal/domain/source/filter"
	"github.com/kailas-cloud/hitsource/internal/usecase/fetchsource"
)

// IndexReader reads index settings.
type IndexReader interface {
	Get(ctx context.Context, name string) (domidx.Index, error)
}

// SourceReader loads stored document sources.
type SourceReader interface {
	Get(ctx context.Context, index, id string) (domdoc.Document, error)
	GetMulti(ctx context.Context, index string, ids []string) ([]domdoc.Document, error)
}

// Projector attaches projected sources to hits.
type Projector interface {
	Execute(ctx context.Context, h *hit.Hit, spec filter.Spec, lk *fetchsource.Lookup) error
	Project(ctx context.Context, h *hit.Hit, spec filter.Spec, lk *fetchsource.Lookup) ([]byte, error)
	NestedLookup(ctx context.Context, h *hit.Hit, root *fetchsource.Lookup) (*fetchsource.Lookup, error)
}

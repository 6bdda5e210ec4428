package document

import (
	"context"

	domdoc "github.com/kailas-cloud/hitsource/internal/domain/document"
	domidx "github.com/kailas-cloud/hitsource/internal/domain/index"
	"github.com/kailas-cloud/hitsource/internal/domain/source/codec"
	"github.com/kailas-cloud/hitsource/internal/domain/source/tree"
)

// Repository defines the storage contract for document sources.
type Repository interface {
	Upsert(ctx context.Context, index string, doc *domdoc.Document) (created bool, err error)
	Get(ctx context.Context, index, id string) (domdoc.Document, error)
	Delete(ctx context.Context, index, id string) error
}

// IndexReader reads index settings for existence and content type.
type IndexReader interface {
	Get(ctx context.Context, name string) (domidx.Index, error)
}

// Decoder parses raw source bytes, used to reject malformed payloads.
type Decoder interface {
	Decode(data []byte, ct codec.ContentType) (*tree.Mapping, error)
}

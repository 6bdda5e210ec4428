package hitsource

import (
	"context"
	"encoding/json"
	"fmt"
)

// TypedIndex is a JSON index whose sources are values of T.
type TypedIndex[T any] struct {
	client *Client
	name   string
}

// TypedHit is a fetched hit. Item holds the decoded source of a top-level
// hit; nested hits carry the matched inner object in Raw only.
type TypedHit[T any] struct {
	ID     string
	Score  float64
	Nested []NestedLevel
	Item   T
	Raw    json.RawMessage
}

// NewTypedIndex binds T to a JSON index.
func NewTypedIndex[T any](client *Client, name string) *TypedIndex[T] {
	return &TypedIndex[T]{client: client, name: name}
}

// Name returns the index name.
func (ti *TypedIndex[T]) Name() string { return ti.name }

// Ensure creates the JSON index if it does not exist. An existing index
// with another content type is rejected.
func (ti *TypedIndex[T]) Ensure(ctx context.Context) error {
	info, err := ti.client.Indices().Ensure(ctx, ti.name, WithContentType(ContentTypeJSON))
	if err != nil {
		return err
	}
	if info.ContentType != ContentTypeJSON {
		return fmt.Errorf("index %s stores %s sources: %w", ti.name, info.ContentType, ErrUnsupportedContentType)
	}
	return nil
}

// Put stores item as the document's source. Returns true if created.
func (ti *TypedIndex[T]) Put(ctx context.Context, id string, item T) (bool, error) {
	raw, err := json.Marshal(item)
	if err != nil {
		return false, fmt.Errorf("marshal %s: %w", id, err)
	}
	return ti.client.Documents(ti.name).Put(ctx, id, raw)
}

// Get returns the decoded source of a document. Field patterns leave the
// fields they drop at their zero value.
func (ti *TypedIndex[T]) Get(ctx context.Context, id string, opts ...SourceOption) (T, error) {
	var item T
	raw, _, err := ti.client.Documents(ti.name).Source(ctx, id, opts...)
	if err != nil {
		return item, err
	}
	if err := json.Unmarshal(raw, &item); err != nil {
		return item, fmt.Errorf("unmarshal %s: %w", id, err)
	}
	return item, nil
}

// Fetch loads a page of hits and decodes top-level sources into T.
func (ti *TypedIndex[T]) Fetch(ctx context.Context, refs []HitRef, opts ...SourceOption) ([]TypedHit[T], error) {
	res, err := ti.client.Fetch(ti.name).Hits(ctx, refs, opts...)
	if err != nil {
		return nil, err
	}
	return decodeHits[T](res)
}

func decodeHits[T any](res FetchResult) ([]TypedHit[T], error) {
	if res.ContentType != ContentTypeJSON {
		return nil, fmt.Errorf("typed fetch needs a json index, got %s: %w", res.ContentType, ErrUnsupportedContentType)
	}
	out := make([]TypedHit[T], len(res.Hits))
	for i, h := range res.Hits {
		th := TypedHit[T]{ID: h.ID, Score: h.Score, Nested: h.Nested, Raw: h.Source}
		if h.Source != nil && len(h.Nested) == 0 {
			if err := json.Unmarshal(h.Source, &th.Item); err != nil {
				return nil, fmt.Errorf("unmarshal hit %s: %w", h.ID, err)
			}
		}
		out[i] = th
	}
	return out, nil
}

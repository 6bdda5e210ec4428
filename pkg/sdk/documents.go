package hitsource

import (
	"context"
	"fmt"
	"time"

	"github.com/kailas-cloud/hitsource/internal/domain"
)

// DocumentService manages documents within a single index.
type DocumentService struct {
	index    string
	docSvc   documentUseCase
	fetchSvc fetchUseCase
	obs      *observer
}

// Put stores a source in the index content type. Returns true if created.
func (s *DocumentService) Put(ctx context.Context, id string, source []byte) (_ bool, err error) {
	start := time.Now()
	defer func() { s.obs.observe("document.put", start, err, "index", s.index) }()

	created, err := s.docSvc.Put(ctx, s.index, id, source, "")
	if err != nil {
		return false, fmt.Errorf("put document: %w", err)
	}
	return created, nil
}

// Get retrieves document metadata by ID.
func (s *DocumentService) Get(ctx context.Context, id string) (_ DocumentInfo, err error) {
	start := time.Now()
	defer func() { s.obs.observe("document.get", start, err, "index", s.index) }()

	d, err := s.docSvc.Get(ctx, s.index, id)
	if err != nil {
		return DocumentInfo{}, fmt.Errorf("get document: %w", err)
	}
	return fromInternalDocument(&d), nil
}

// Source returns the document's _source, optionally narrowed by field
// patterns, together with its content type.
func (s *DocumentService) Source(
	ctx context.Context, id string, opts ...SourceOption,
) (_ []byte, _ ContentType, err error) {
	start := time.Now()
	defer func() { s.obs.observe("document.source", start, err, "index", s.index) }()

	spec, err := buildSpec(opts)
	if err != nil {
		return nil, "", fmt.Errorf("get source: %w", err)
	}
	if !spec.FetchSource() {
		return nil, "", fmt.Errorf("get source: %w: NoSource is not allowed here", domain.ErrInvalidRequest)
	}
	b, ct, err := s.fetchSvc.FetchSource(ctx, s.index, id, spec)
	if err != nil {
		return nil, "", fmt.Errorf("get source: %w", err)
	}
	return b, ContentType(ct), nil
}

// Delete removes a document by ID.
func (s *DocumentService) Delete(ctx context.Context, id string) (err error) {
	start := time.Now()
	defer func() { s.obs.observe("document.delete", start, err, "index", s.index) }()

	if err = s.docSvc.Delete(ctx, s.index, id); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	return nil
}

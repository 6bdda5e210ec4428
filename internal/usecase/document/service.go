package document

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/hitsource/internal/domain"
	domdoc "github.com/kailas-cloud/hitsource/internal/domain/document"
	"github.com/kailas-cloud/hitsource/internal/domain/source/codec"
)

// Service stores and removes document sources.
type Service struct {
	repo          Repository
	indices       IndexReader
	dec           Decoder
	maxSourceSize int
}

// New creates a document service.
func New(repo Repository, indices IndexReader, dec Decoder) *Service {
	return &Service{
		repo:          repo,
		indices:       indices,
		dec:           dec,
		maxSourceSize: domdoc.DefaultMaxSourceSize,
	}
}

// WithMaxSourceSize bounds accepted source payloads.
func (s *Service) WithMaxSourceSize(n int) *Service {
	if n > 0 {
		s.maxSourceSize = n
	}
	return s
}

// Put validates and stores a document source in the index's content type.
// declared is the content type the client sent, empty when unknown.
// Indices with source disabled only record the document's existence.
// Returns true if the document was created, false if replaced.
func (s *Service) Put(ctx context.Context, indexName, id string, raw []byte, declared codec.ContentType) (bool, error) {
	idx, err := s.indices.Get(ctx, indexName)
	if err != nil {
		return false, fmt.Errorf("get index: %w", err)
	}
	if declared != "" && declared != idx.ContentType() {
		return false, fmt.Errorf("%w: index [%s] stores %s sources, got %s",
			domain.ErrUnsupportedContentType, indexName, idx.ContentType(), declared)
	}

	doc, err := domdoc.New(id, raw, s.maxSourceSize)
	if err != nil {
		return false, fmt.Errorf("validate document: %w: %w", domain.ErrInvalidRequest, err)
	}

	if _, err := s.dec.Decode(doc.Source(), idx.ContentType()); err != nil {
		return false, fmt.Errorf("parse %s source: %w: %w", idx.ContentType(), domain.ErrInvalidRequest, err)
	}

	if !idx.SourceEnabled() {
		doc = doc.WithoutSource()
	}

	created, err := s.repo.Upsert(ctx, indexName, &doc)
	if err != nil {
		return false, fmt.Errorf("upsert document: %w", err)
	}
	return created, nil
}

// Get returns a stored document. Its source is nil when the index does not
// keep sources.
func (s *Service) Get(ctx context.Context, indexName, id string) (domdoc.Document, error) {
	if _, err := s.indices.Get(ctx, indexName); err != nil {
		return domdoc.Document{}, fmt.Errorf("get index: %w", err)
	}
	doc, err := s.repo.Get(ctx, indexName, id)
	if err != nil {
		return domdoc.Document{}, fmt.Errorf("get document: %w", err)
	}
	return doc, nil
}

// Delete removes a document.
func (s *Service) Delete(ctx context.Context, indexName, id string) error {
	if _, err := s.indices.Get(ctx, indexName); err != nil {
		return fmt.Errorf("get index: %w", err)
	}
	if err := s.repo.Delete(ctx, indexName, id); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	return nil
}

package hitsource

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kailas-cloud/hitsource/internal/domain"
)

// IndexOption configures index creation.
type IndexOption interface {
	applyIndex(*indexConfig)
}

type indexOptionFunc func(*indexConfig)

func (f indexOptionFunc) applyIndex(c *indexConfig) { f(c) }

type indexConfig struct {
	sourceEnabled bool
	contentType   ContentType
}

// WithContentType sets the content type sources are stored in. Default: JSON.
func WithContentType(ct ContentType) IndexOption {
	return indexOptionFunc(func(c *indexConfig) {
		c.contentType = ct
	})
}

// WithoutSource creates an index that keeps only document metadata.
// Hits from it never carry a _source.
func WithoutSource() IndexOption {
	return indexOptionFunc(func(c *indexConfig) {
		c.sourceEnabled = false
	})
}

// IndexService manages indices.
type IndexService struct {
	svc indexUseCase
	obs *observer
}

// Create creates a new index.
func (s *IndexService) Create(ctx context.Context, name string, opts ...IndexOption) (_ IndexInfo, err error) {
	start := time.Now()
	defer func() { s.obs.observe("index.create", start, err, "index", name) }()

	idx, err := s.create(ctx, name, opts)
	if err != nil {
		return IndexInfo{}, fmt.Errorf("create index: %w", err)
	}
	return idx, nil
}

// Ensure creates an index if it does not exist.
// If it already exists, returns its info unchanged.
func (s *IndexService) Ensure(ctx context.Context, name string, opts ...IndexOption) (_ IndexInfo, err error) {
	start := time.Now()
	defer func() { s.obs.observe("index.ensure", start, err, "index", name) }()

	idx, err := s.create(ctx, name, opts)
	if err == nil {
		return idx, nil
	}
	if !errors.Is(err, domain.ErrAlreadyExists) {
		return IndexInfo{}, fmt.Errorf("ensure index: %w", err)
	}

	existing, err := s.svc.Get(ctx, name)
	if err != nil {
		return IndexInfo{}, fmt.Errorf("ensure index: %w", err)
	}
	return fromInternalIndex(existing), nil
}

func (s *IndexService) create(ctx context.Context, name string, opts []IndexOption) (IndexInfo, error) {
	cfg := &indexConfig{sourceEnabled: true}
	for _, o := range opts {
		o.applyIndex(cfg)
	}
	ct, err := toInternalContentType(cfg.contentType)
	if err != nil {
		return IndexInfo{}, err
	}
	idx, err := s.svc.Create(ctx, name, cfg.sourceEnabled, ct)
	if err != nil {
		return IndexInfo{}, err
	}
	return fromInternalIndex(idx), nil
}

// Get retrieves index metadata by name.
func (s *IndexService) Get(ctx context.Context, name string) (_ IndexInfo, err error) {
	start := time.Now()
	defer func() { s.obs.observe("index.get", start, err, "index", name) }()

	idx, err := s.svc.Get(ctx, name)
	if err != nil {
		return IndexInfo{}, fmt.Errorf("get index: %w", err)
	}
	return fromInternalIndex(idx), nil
}

// List returns all indices.
func (s *IndexService) List(ctx context.Context) (_ []IndexInfo, err error) {
	start := time.Now()
	defer func() { s.obs.observe("index.list", start, err) }()

	indices, err := s.svc.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list indices: %w", err)
	}
	out := make([]IndexInfo, len(indices))
	for i, idx := range indices {
		out[i] = fromInternalIndex(idx)
	}
	return out, nil
}

// Delete removes an index and all of its documents.
func (s *IndexService) Delete(ctx context.Context, name string) (err error) {
	start := time.Now()
	defer func() { s.obs.observe("index.delete", start, err, "index", name) }()

	if err = s.svc.Delete(ctx, name); err != nil {
		return fmt.Errorf("delete index: %w", err)
	}
	return nil
}

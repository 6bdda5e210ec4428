package index

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/hitsource/internal/domain"
	domidx "github.com/kailas-cloud/hitsource/internal/domain/index"
	"github.com/kailas-cloud/hitsource/internal/domain/source/codec"
	"github.com/kailas-cloud/hitsource/internal/logger"
)

// Service handles index CRUD operations.
type Service struct {
	repo    Repository
	sources SourceCleaner
}

// New creates an index service.
func New(repo Repository, sources SourceCleaner) *Service {
	return &Service{repo: repo, sources: sources}
}

// Create validates and stores a new index.
func (s *Service) Create(ctx context.Context, name string, sourceEnabled bool, ct codec.ContentType) (domidx.Index, error) {
	idx, err := domidx.New(name, sourceEnabled, ct)
	if err != nil {
		return domidx.Index{}, fmt.Errorf("validate index: %w: %w", domain.ErrInvalidRequest, err)
	}

	if err := s.repo.Create(ctx, idx); err != nil {
		return domidx.Index{}, fmt.Errorf("create index: %w", err)
	}

	return idx, nil
}

// Get retrieves an index by name.
func (s *Service) Get(ctx context.Context, name string) (domidx.Index, error) {
	idx, err := s.repo.Get(ctx, name)
	if err != nil {
		return domidx.Index{}, fmt.Errorf("get index: %w", err)
	}
	return idx, nil
}

// List returns all indices.
func (s *Service) List(ctx context.Context) ([]domidx.Index, error) {
	indices, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list indices: %w", err)
	}
	return indices, nil
}

// Delete removes an index together with its stored sources.
func (s *Service) Delete(ctx context.Context, name string) error {
	if err := s.repo.Delete(ctx, name); err != nil {
		return fmt.Errorf("delete index: %w", err)
	}

	n, err := s.sources.DeleteAll(ctx, name)
	if err != nil {
		return fmt.Errorf("delete sources of %s: %w", name, err)
	}
	logger.FromContext(ctx).Info("index deleted",
		zap.String("index", name),
		zap.Int("documents", n),
	)
	return nil
}

package fetch

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/hitsource/internal/domain"
	domdoc "github.com/kailas-cloud/hitsource/internal/domain/document"
	domidx "github.com/kailas-cloud/hitsource/internal/domain/index"
	"github.com/kailas-cloud/hitsource/internal/domain/search/hit"
	"github.com/kailas-cloud/hitsource/internal/domain/source/codec"
	"github.com/kailas-cloud/hitsource/internal/domain/source/filter"
	"github.com/kailas-cloud/hitsource/internal/domain/source/nested"
	"github.com/kailas-cloud/hitsource/internal/usecase/fetchsource"
)

const (
	defaultWorkers = 8
	defaultMaxHits = 1000
)

// HitRef points at a document (and optionally one of its nested objects)
// produced by a search.
type HitRef struct {
	ID     string
	Score  float64
	Nested nested.Identity
}

// Result is a fetched page of hits in request order.
type Result struct {
	Hits        []hit.Hit
	ContentType codec.ContentType
}

// Service runs the fetch phase: it loads the sources of a page of hits and
// projects them.
type Service struct {
	indices   IndexReader
	sources   SourceReader
	projector Projector
	dec       fetchsource.Decoder
	workers   int
	maxHits   int
}

// New creates a fetch service.
func New(indices IndexReader, sources SourceReader, projector Projector, dec fetchsource.Decoder) *Service {
	return &Service{
		indices:   indices,
		sources:   sources,
		projector: projector,
		dec:       dec,
		workers:   defaultWorkers,
		maxHits:   defaultMaxHits,
	}
}

// WithLimits sets the worker pool size and the maximum number of hits per
// request. Non-positive values keep the defaults.
func (s *Service) WithLimits(workers, maxHits int) *Service {
	if workers > 0 {
		s.workers = workers
	}
	if maxHits > 0 {
		s.maxHits = maxHits
	}
	return s
}

// Fetch builds hits for refs in the same order and attaches their projected
// sources. Hits of the same document share one decoded tree.
func (s *Service) Fetch(ctx context.Context, indexName string, refs []HitRef, spec filter.Spec) (Result, error) {
	if len(refs) > s.maxHits {
		return Result{}, fmt.Errorf("%w: too many hits (%d > %d)", domain.ErrInvalidRequest, len(refs), s.maxHits)
	}

	idx, err := s.indices.Get(ctx, indexName)
	if err != nil {
		return Result{}, fmt.Errorf("get index: %w", err)
	}
	if len(refs) == 0 {
		return Result{Hits: []hit.Hit{}, ContentType: idx.ContentType()}, nil
	}

	ids := uniqueIDs(refs)
	docs, err := s.sources.GetMulti(ctx, indexName, ids)
	if err != nil {
		return Result{}, fmt.Errorf("load sources: %w", err)
	}

	lookups := make(map[string]*fetchsource.Lookup, len(docs))
	for i := range docs {
		lookups[ids[i]] = s.lookup(idx, &docs[i])
	}

	hits := make([]hit.Hit, len(refs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, ref := range refs {
		hits[i] = hit.New(indexName, ref.ID, ref.Score, ref.Nested)
		h := &hits[i]
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return s.execute(gctx, h, spec, lookups[ref.ID])
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}
	return Result{Hits: hits, ContentType: idx.ContentType()}, nil
}

// FetchSource projects a single document's source, the way the _source
// endpoint serves it.
func (s *Service) FetchSource(ctx context.Context, indexName, id string, spec filter.Spec) ([]byte, codec.ContentType, error) {
	idx, err := s.indices.Get(ctx, indexName)
	if err != nil {
		return nil, "", fmt.Errorf("get index: %w", err)
	}
	doc, err := s.sources.Get(ctx, indexName, id)
	if err != nil {
		return nil, "", fmt.Errorf("load source: %w", err)
	}

	h := hit.New(indexName, id, 0, nested.Identity{})
	b, err := s.projector.Project(ctx, &h, spec, s.lookup(idx, &doc))
	if err != nil {
		return nil, "", fmt.Errorf("project %s/%s: %w", indexName, id, err)
	}
	if b == nil {
		return nil, "", fmt.Errorf("%w: document [%s] has no stored _source in index [%s]",
			domain.ErrSourceDisabled, id, indexName)
	}
	return b, idx.ContentType(), nil
}

func (s *Service) execute(ctx context.Context, h *hit.Hit, spec filter.Spec, root *fetchsource.Lookup) error {
	lk := root
	if h.IsNested() && spec.FetchSource() {
		var err error
		if lk, err = s.projector.NestedLookup(ctx, h, root); err != nil {
			return fmt.Errorf("hit %s: %w", h.ID(), err)
		}
	}
	if err := s.projector.Execute(ctx, h, spec, lk); err != nil {
		return fmt.Errorf("hit %s: %w", h.ID(), err)
	}
	return nil
}

func (s *Service) lookup(idx domidx.Index, doc *domdoc.Document) *fetchsource.Lookup {
	var raw []byte
	if idx.SourceEnabled() && doc.SourceStored() {
		raw = doc.Source()
	}
	return fetchsource.NewLookup(raw, idx.ContentType(), s.dec)
}

func uniqueIDs(refs []HitRef) []string {
	seen := make(map[string]struct{}, len(refs))
	ids := make([]string, 0, len(refs))
	for _, r := range refs {
		if _, ok := seen[r.ID]; ok {
			continue
		}
		seen[r.ID] = struct{}{}
		ids = append(ids, r.ID)
	}
	return ids
}

package hitsource

import (
	"context"
	"fmt"
	"time"
)

// FetchService runs the fetch phase for a single index.
type FetchService struct {
	index string
	svc   fetchUseCase
	obs   *observer
}

// Hits loads the _source of each hit. Hits come back in the order given;
// nested hits get the inner object they matched.
func (s *FetchService) Hits(ctx context.Context, refs []HitRef, opts ...SourceOption) (_ FetchResult, err error) {
	start := time.Now()
	defer func() { s.obs.observe("fetch.hits", start, err, "index", s.index, "hits", len(refs)) }()

	spec, err := buildSpec(opts)
	if err != nil {
		return FetchResult{}, fmt.Errorf("fetch: %w", err)
	}
	internal, err := toInternalRefs(refs)
	if err != nil {
		return FetchResult{}, fmt.Errorf("fetch: %w", err)
	}

	res, err := s.svc.Fetch(ctx, s.index, internal, spec)
	if err != nil {
		return FetchResult{}, fmt.Errorf("fetch: %w", err)
	}

	hits := make([]Hit, len(res.Hits))
	for i := range res.Hits {
		hits[i] = fromInternalHit(&res.Hits[i])
	}
	return FetchResult{ContentType: ContentType(res.ContentType), Hits: hits}, nil
}

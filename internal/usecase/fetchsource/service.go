package fetchsource

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/hitsource/internal/domain"
	"github.com/kailas-cloud/hitsource/internal/domain/search/hit"
	"github.com/kailas-cloud/hitsource/internal/domain/source/codec"
	"github.com/kailas-cloud/hitsource/internal/domain/source/filter"
	"github.com/kailas-cloud/hitsource/internal/domain/source/nested"
	"github.com/kailas-cloud/hitsource/internal/domain/source/tree"
	"github.com/kailas-cloud/hitsource/internal/logger"
)

// Compile-time check: codec.Codec serves as both collaborators.
var (
	_ Encoder = codec.Codec{}
	_ Decoder = codec.Codec{}
)

// NestedOrder decides whether field patterns apply to the whole pinned
// document or to the resolved nested object.
type NestedOrder int

const (
	// FilterThenResolve matches patterns against full paths from the
	// document root, then extracts the nested object.
	FilterThenResolve NestedOrder = iota
	// ResolveThenFilter extracts the nested object first and matches
	// patterns relative to it.
	ResolveThenFilter
)

// ParseNestedOrder parses the configuration spelling. Empty means
// FilterThenResolve.
func ParseNestedOrder(s string) (NestedOrder, error) {
	switch s {
	case "", "filter_then_resolve":
		return FilterThenResolve, nil
	case "resolve_then_filter":
		return ResolveThenFilter, nil
	default:
		return 0, fmt.Errorf("unknown nested filter order %q", s)
	}
}

func (o NestedOrder) String() string {
	if o == ResolveThenFilter {
		return "resolve_then_filter"
	}
	return "filter_then_resolve"
}

// Service produces the _source bytes of search hits.
type Service struct {
	enc      Encoder
	order    NestedOrder
	recorder Recorder
}

// New creates a projection service.
func New(enc Encoder) *Service {
	return &Service{enc: enc, order: FilterThenResolve, recorder: nopRecorder{}}
}

// WithNestedOrder sets the nested filter order.
func (s *Service) WithNestedOrder(o NestedOrder) *Service {
	s.order = o
	return s
}

// WithRecorder sets the outcome recorder.
func (s *Service) WithRecorder(r Recorder) *Service {
	if r != nil {
		s.recorder = r
	}
	return s
}

// Execute projects the hit's source and attaches it to the hit. Nothing is
// attached when the source was not requested or projection fails.
func (s *Service) Execute(ctx context.Context, h *hit.Hit, spec filter.Spec, lk *Lookup) error {
	if !spec.FetchSource() {
		s.recorder.RecordProjection(PathSkipped, lk.ContentType(), 0)
		return nil
	}
	b, err := s.Project(ctx, h, spec, lk)
	if err != nil {
		return err
	}
	h.SetSource(b)
	return nil
}

// Project returns the _source bytes for h. Top-level hits without field
// patterns get the stored bytes verbatim; everything else is decoded,
// filtered, resolved to the nested object if any, and re-encoded.
func (s *Service) Project(ctx context.Context, h *hit.Hit, spec filter.Spec, lk *Lookup) ([]byte, error) {
	if !spec.FetchSource() {
		return nil, nil
	}
	ct := lk.ContentType()

	if !h.IsNested() {
		if !spec.Active() {
			s.recorder.RecordProjection(PathRaw, ct, len(lk.RawBytes()))
			return lk.RawBytes(), nil
		}
		if !lk.HasRaw() {
			err := fmt.Errorf("%w: unable to fetch fields from _source field: _source is disabled in the mappings for index [%s]",
				domain.ErrSourceDisabled, h.Index())
			return nil, s.fail(ctx, h, ReasonSourceDisabled, err)
		}
	}

	root, err := lk.Tree()
	if err != nil {
		return nil, s.fail(ctx, h, treeReason(err), fmt.Errorf("load source: %w", err))
	}

	path := PathFiltered
	sizeHint := len(lk.RawBytes())
	var value tree.Value
	if h.IsNested() {
		path = PathNested
		sizeHint = 0
		value, err = s.projectNested(root, h.NestedIdentity(), spec)
		if err != nil {
			return nil, s.fail(ctx, h, ReasonNestedPath, err)
		}
	} else {
		value = filter.Apply(root, spec)
	}

	out, err := s.enc.Encode(value, ct, sizeHint)
	if err != nil {
		return nil, s.fail(ctx, h, ReasonEncoding, domain.NewEncodingError(ct.String(), err))
	}
	s.recorder.RecordProjection(path, ct, len(out))
	return out, nil
}

// NestedLookup returns a lookup seeded with the tree a nested hit sees: the
// root document with every nested array narrowed to the hit's element.
func (s *Service) NestedLookup(ctx context.Context, h *hit.Hit, root *Lookup) (*Lookup, error) {
	doc, err := root.Tree()
	if err != nil {
		return nil, s.fail(ctx, h, treeReason(err), fmt.Errorf("load source: %w", err))
	}
	pinned, err := nested.Pin(doc, h.NestedIdentity())
	if err != nil {
		return nil, s.fail(ctx, h, ReasonNestedPath, err)
	}
	return NewNestedLookup(pinned, root.ContentType()), nil
}

func treeReason(err error) Reason {
	if errors.Is(err, domain.ErrSourceDisabled) {
		return ReasonSourceDisabled
	}
	return ReasonDecode
}

func (s *Service) projectNested(root *tree.Mapping, id nested.Identity, spec filter.Spec) (tree.Value, error) {
	if s.order == ResolveThenFilter {
		inner, err := nested.Resolve(root, id)
		if err != nil {
			return tree.Value{}, err
		}
		return filter.Apply(inner, spec), nil
	}

	// Shape is checked on the unfiltered tree; a filter that prunes the
	// nested object yields an empty object.
	if _, err := nested.Resolve(root, id); err != nil {
		return tree.Value{}, err
	}
	if filtered, ok := filter.Apply(root, spec).AsMapping(); ok {
		if inner, err := nested.Resolve(filtered, id); err == nil {
			return tree.Map(inner), nil
		}
	}
	return tree.Map(nil), nil
}

func (s *Service) fail(ctx context.Context, h *hit.Hit, reason Reason, err error) error {
	s.recorder.RecordProjectionError(reason)
	logger.FromContext(ctx).Debug("source projection failed",
		zap.String("index", h.Index()),
		zap.String("id", h.ID()),
		zap.String("nested", h.NestedIdentity().Path()),
		zap.String("reason", string(reason)),
		zap.Error(err),
	)
	return err
}

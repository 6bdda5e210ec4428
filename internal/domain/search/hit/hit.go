package hit

import "github.com/kailas-cloud/hitsource/internal/domain/source/nested"

// Hit is a single search hit. Its source is attached during fetch.
type Hit struct {
	index  string
	id     string
	score  float64
	nested nested.Identity
	source []byte
}

// New creates a hit. A zero identity means a top-level document hit.
func New(index, id string, score float64, nid nested.Identity) Hit {
	return Hit{index: index, id: id, score: score, nested: nid}
}

// Index returns the name of the index the hit came from.
func (h *Hit) Index() string { return h.index }

// ID returns the document identifier.
func (h *Hit) ID() string { return h.id }

// Score returns the relevance score.
func (h *Hit) Score() float64 { return h.score }

// NestedIdentity returns the nested identity, zero for top-level hits.
func (h *Hit) NestedIdentity() nested.Identity { return h.nested }

// IsNested reports whether the hit addresses a nested object.
func (h *Hit) IsNested() bool { return !h.nested.IsZero() }

// Source returns the attached source bytes, nil until set.
func (h *Hit) Source() []byte { return h.source }

// HasSource reports whether source bytes were attached.
func (h *Hit) HasSource() bool { return h.source != nil }

// SetSource attaches the source bytes.
func (h *Hit) SetSource(b []byte) { h.source = b }

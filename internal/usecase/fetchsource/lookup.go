package fetchsource

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/kailas-cloud/hitsource/internal/domain"
	"github.com/kailas-cloud/hitsource/internal/domain/source/codec"
	"github.com/kailas-cloud/hitsource/internal/domain/source/tree"
)

// Lookup gives access to one document's source during projection: the raw
// stored bytes, their content type and the decoded tree. Decoding happens at
// most once and is safe to trigger from several goroutines.
type Lookup struct {
	raw []byte
	ct  codec.ContentType
	dec Decoder

	once    sync.Once
	tree    *tree.Mapping
	err     error
	decodes atomic.Int32
}

// NewLookup creates a lookup over raw stored bytes. raw is nil when the
// index does not store sources.
func NewLookup(raw []byte, ct codec.ContentType, dec Decoder) *Lookup {
	return &Lookup{raw: raw, ct: ct, dec: dec}
}

// NewNestedLookup creates a lookup seeded with an already pinned tree. It has
// no raw bytes and never decodes.
func NewNestedLookup(pinned *tree.Mapping, ct codec.ContentType) *Lookup {
	l := &Lookup{ct: ct, tree: pinned}
	l.once.Do(func() {})
	return l
}

// RawBytes returns the stored bytes, nil when not stored.
func (l *Lookup) RawBytes() []byte { return l.raw }

// HasRaw reports whether raw bytes are available.
func (l *Lookup) HasRaw() bool { return l.raw != nil }

// ContentType returns the source content type.
func (l *Lookup) ContentType() codec.ContentType { return l.ct }

// Tree returns the decoded source, decoding the raw bytes on first use.
func (l *Lookup) Tree() (*tree.Mapping, error) {
	l.once.Do(func() {
		if l.raw == nil {
			l.err = fmt.Errorf("%w: no stored source to decode", domain.ErrSourceDisabled)
			return
		}
		l.decodes.Add(1)
		l.tree, l.err = l.dec.Decode(l.raw, l.ct)
	})
	return l.tree, l.err
}

// Decodes returns how many times the raw bytes were decoded (0 or 1).
func (l *Lookup) Decodes() int { return int(l.decodes.Load()) }

package hitsource

import (
	"fmt"

	domdoc "github.com/kailas-cloud/hitsource/internal/domain/document"
	domidx "github.com/kailas-cloud/hitsource/internal/domain/index"
	"github.com/kailas-cloud/hitsource/internal/domain/search/hit"
	"github.com/kailas-cloud/hitsource/internal/domain/source/codec"
	"github.com/kailas-cloud/hitsource/internal/domain/source/nested"
	fetchuc "github.com/kailas-cloud/hitsource/internal/usecase/fetch"
)

func fromInternalIndex(idx domidx.Index) IndexInfo {
	return IndexInfo{
		Name:          idx.Name(),
		SourceEnabled: idx.SourceEnabled(),
		ContentType:   ContentType(idx.ContentType()),
		CreatedAt:     idx.CreatedAt(),
		Revision:      idx.Revision(),
	}
}

func fromInternalDocument(d *domdoc.Document) DocumentInfo {
	return DocumentInfo{
		ID:           d.ID(),
		Revision:     d.Revision(),
		SourceStored: d.SourceStored(),
	}
}

func toInternalRefs(refs []HitRef) ([]fetchuc.HitRef, error) {
	out := make([]fetchuc.HitRef, len(refs))
	for i, r := range refs {
		levels := make([]nested.Level, len(r.Nested))
		for j, l := range r.Nested {
			levels[j] = nested.Level{Field: l.Field, Offset: l.Offset}
		}
		nid, err := nested.NewIdentity(levels...)
		if err != nil {
			return nil, fmt.Errorf("hit %d: %w", i, err)
		}
		out[i] = fetchuc.HitRef{ID: r.ID, Score: r.Score, Nested: nid}
	}
	return out, nil
}

func fromInternalHit(h *hit.Hit) Hit {
	var levels []NestedLevel
	for _, l := range h.NestedIdentity().Levels() {
		levels = append(levels, NestedLevel{Field: l.Field, Offset: l.Offset})
	}
	return Hit{
		Index:  h.Index(),
		ID:     h.ID(),
		Score:  h.Score(),
		Nested: levels,
		Source: h.Source(),
	}
}

func toInternalContentType(ct ContentType) (codec.ContentType, error) {
	if ct == "" {
		return "", nil
	}
	return codec.Parse(string(ct))
}

package nested

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/hitsource/internal/domain"
	"github.com/kailas-cloud/hitsource/internal/domain/source/tree"
)

// Resolve descends a pinned tree along the identity's fields and returns the
// mapping addressed by the last level. Every field must hold a mapping (the
// element already selected for that level, see Pin); anything else fails with
// domain.ErrMalformedNestedPath.
func Resolve(m *tree.Mapping, id Identity) (*tree.Mapping, error) {
	cur := m
	for i, l := range id.levels {
		v, ok := cur.Get(l.Field)
		if !ok {
			return nil, fmt.Errorf("%w: field [%s] not found", domain.ErrMalformedNestedPath, id.pathTo(i))
		}
		next, ok := v.AsMapping()
		if !ok {
			return nil, fmt.Errorf("%w: field [%s] is a %s, not an object",
				domain.ErrMalformedNestedPath, id.pathTo(i), v.Kind())
		}
		cur = next
	}
	return cur, nil
}

// Pin builds the tree a nested hit sees from its full document: at every
// level the nested field holds only the element at Offset instead of the
// whole array. The top level keeps only the nested chain; inner elements keep
// their own sibling fields. doc is not modified.
func Pin(doc *tree.Mapping, id Identity) (*tree.Mapping, error) {
	root := tree.NewMapping(1)
	parent := root
	src := doc
	for i, l := range id.levels {
		v, err := extract(src, l.Field)
		if err != nil {
			return nil, fmt.Errorf("%w: field [%s]: %w", domain.ErrMalformedNestedPath, id.pathTo(i), err)
		}
		elem, err := element(v, l.Offset)
		if err != nil {
			return nil, fmt.Errorf("%w: field [%s]: %w", domain.ErrMalformedNestedPath, id.pathTo(i), err)
		}
		pinned := elem.Clone()
		parent.Set(l.Field, tree.Map(pinned))
		parent = pinned
		src = elem
	}
	return root, nil
}

// extract follows a dotted field path through mappings.
func extract(m *tree.Mapping, field string) (tree.Value, error) {
	cur := tree.Map(m)
	for seg := range strings.SplitSeq(field, ".") {
		mm, ok := cur.AsMapping()
		if !ok {
			return tree.Value{}, fmt.Errorf("segment %q is below a %s", seg, cur.Kind())
		}
		v, ok := mm.Get(seg)
		if !ok {
			return tree.Value{}, fmt.Errorf("not found")
		}
		cur = v
	}
	return cur, nil
}

// element selects the object at offset. A single object (not wrapped in an
// array) is accepted at offset 0.
func element(v tree.Value, offset int) (*tree.Mapping, error) {
	switch v.Kind() {
	case tree.KindSequence:
		items := v.Sequence()
		if offset >= len(items) {
			return nil, fmt.Errorf("offset %d out of range (len %d)", offset, len(items))
		}
		m, ok := items[offset].AsMapping()
		if !ok {
			return nil, fmt.Errorf("element %d is a %s, not an object", offset, items[offset].Kind())
		}
		return m, nil
	case tree.KindMapping:
		if offset != 0 {
			return nil, fmt.Errorf("offset %d on a single object", offset)
		}
		return v.Mapping(), nil
	default:
		return nil, fmt.Errorf("value is a %s, not an array of objects", v.Kind())
	}
}

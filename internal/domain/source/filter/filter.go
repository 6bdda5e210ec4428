package filter

import "github.com/kailas-cloud/hitsource/internal/domain/source/tree"

// Apply filters m with spec and returns a mapping value. With an inactive
// spec m is returned as is. The input is never modified; unfiltered subtrees
// may be shared with the result.
//
// A key is kept when its path matches an include (or includes are empty) and
// no exclude. Objects and arrays on the way to a deeper include are kept as
// long as something below them survives. An exclude match drops the whole
// subtree. Array indices are not part of paths.
func Apply(m *tree.Mapping, spec Spec) tree.Value {
	if !spec.Active() {
		return tree.Map(m)
	}
	w := walker{include: spec.include, exclude: spec.exclude}
	return tree.Map(w.mapping(m, w.include.Start(), w.exclude.Start()))
}

type walker struct {
	include *Matcher
	exclude *Matcher
}

func (w walker) mapping(m *tree.Mapping, inc, exc State) *tree.Mapping {
	out := tree.NewMapping(0)
	for key, val := range m.All() {
		incKey := w.include.StepString(inc, key)
		if !w.include.Alive(incKey) {
			continue
		}
		excKey := w.exclude.StepString(exc, key)
		if w.exclude.Accepts(excKey) {
			continue
		}
		included := w.include.Accepts(incKey)

		// Nothing below can be excluded: keep the subtree untouched.
		if included && !w.exclude.Alive(excKey) {
			out.Set(key, val)
			continue
		}

		switch val.Kind() {
		case tree.KindMapping:
			sub := w.mapping(val.Mapping(), w.descend(incKey, included), w.exclude.Step(excKey, '.'))
			if included || sub.Len() > 0 {
				out.Set(key, tree.Map(sub))
			}
		case tree.KindSequence:
			items := w.sequence(val.Sequence(), incKey, excKey, included)
			if included || len(items) > 0 {
				out.Set(key, tree.Seq(items...))
			}
		default:
			if included {
				out.Set(key, val)
			}
		}
	}
	return out
}

func (w walker) sequence(items []tree.Value, inc, exc State, included bool) []tree.Value {
	out := make([]tree.Value, 0, len(items))
	for _, item := range items {
		switch item.Kind() {
		case tree.KindMapping:
			subExc := w.exclude.Step(exc, '.')
			if w.exclude.Accepts(subExc) {
				continue
			}
			sub := w.mapping(item.Mapping(), w.descend(inc, included), subExc)
			if sub.Len() > 0 {
				out = append(out, tree.Map(sub))
			}
		case tree.KindSequence:
			sub := w.sequence(item.Sequence(), inc, exc, included)
			if len(sub) > 0 {
				out = append(out, tree.Seq(sub...))
			}
		default:
			if included {
				out = append(out, item)
			}
		}
	}
	return out
}

// descend moves the include state below an object key. Once a key is fully
// included, everything beneath it is.
func (w walker) descend(inc State, included bool) State {
	if included {
		return w.include.All()
	}
	return w.include.Step(inc, '.')
}

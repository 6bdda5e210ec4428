// Package filter applies include/exclude field patterns to a source tree.
package filter

import (
	"fmt"
	"strings"
)

// MaxPatterns is the maximum number of include or exclude patterns.
const MaxPatterns = 128

// Spec is the _source part of a request: whether the source is fetched at
// all, and which field patterns to include or exclude (immutable value object,
// safe for concurrent use).
type Spec struct {
	fetch    bool
	includes []string
	excludes []string
	include  *Matcher
	exclude  *Matcher
}

// NewSpec validates and creates a Spec. Any include or exclude pattern turns
// fetching on regardless of fetch.
func NewSpec(fetch bool, includes, excludes []string) (Spec, error) {
	inc, err := normalizePatterns("includes", includes)
	if err != nil {
		return Spec{}, err
	}
	exc, err := normalizePatterns("excludes", excludes)
	if err != nil {
		return Spec{}, err
	}

	s := Spec{
		fetch:    fetch || len(inc) > 0 || len(exc) > 0,
		includes: inc,
		excludes: exc,
		include:  MatchAll(),
		exclude:  NewMatcher(exc),
	}
	if len(inc) > 0 {
		s.include = NewMatcher(inc)
	}
	return s, nil
}

// FetchAll returns a Spec that fetches the whole source.
func FetchAll() Spec {
	s, _ := NewSpec(true, nil, nil)
	return s
}

// NoSource returns a Spec that does not fetch the source.
func NoSource() Spec {
	s, _ := NewSpec(false, nil, nil)
	return s
}

// FetchSource reports whether the source was requested.
func (s Spec) FetchSource() bool { return s.fetch }

// Includes returns a copy of the include patterns.
func (s Spec) Includes() []string { return append([]string(nil), s.includes...) }

// Excludes returns a copy of the exclude patterns.
func (s Spec) Excludes() []string { return append([]string(nil), s.excludes...) }

// Active reports whether any include or exclude pattern is set.
func (s Spec) Active() bool { return len(s.includes) > 0 || len(s.excludes) > 0 }

func normalizePatterns(name string, patterns []string) ([]string, error) {
	if len(patterns) > MaxPatterns {
		return nil, fmt.Errorf("too many %s patterns (max %d)", name, MaxPatterns)
	}
	out := make([]string, 0, len(patterns))
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p == "" {
			return nil, fmt.Errorf("%s pattern must not be empty", name)
		}
		out = append(out, p)
	}
	return out, nil
}

package filter

// Matcher is a compiled set of glob patterns over dot-joined field paths.
// '*' matches any run of characters, dots included. A pattern p also
// matches "p.<anything>" so that field names containing dots are covered.
//
// Matching is incremental: a State is stepped one character at a time, which
// lets callers tell "path matches" (Accepts) apart from "some longer path
// could still match" (Alive).
type Matcher struct {
	patterns []string
	all      bool
}

// State is a position in a Matcher after consuming a path prefix.
// The zero State is dead.
type State struct {
	pos []cursor
	all bool
}

type cursor struct {
	pattern int
	offset  int
}

// NewMatcher compiles patterns. An empty pattern list matches nothing.
func NewMatcher(patterns []string) *Matcher {
	m := &Matcher{patterns: make([]string, 0, 2*len(patterns))}
	for _, p := range patterns {
		m.patterns = append(m.patterns, p, p+".*")
	}
	return m
}

// MatchAll returns a matcher that accepts every path.
func MatchAll() *Matcher {
	return &Matcher{all: true}
}

// Start returns the state before any character has been consumed.
func (m *Matcher) Start() State {
	if m.all {
		return State{all: true}
	}
	s := State{pos: make([]cursor, 0, len(m.patterns))}
	for i := range m.patterns {
		s.pos = m.advance(s.pos, cursor{pattern: i})
	}
	return s
}

// All returns the state that accepts every continuation.
func (m *Matcher) All() State {
	return State{all: true}
}

// Step consumes a single character.
func (m *Matcher) Step(s State, c byte) State {
	if s.all {
		return s
	}
	if len(s.pos) == 0 {
		return State{}
	}
	next := State{pos: make([]cursor, 0, len(s.pos))}
	for _, cur := range s.pos {
		p := m.patterns[cur.pattern]
		if cur.offset >= len(p) {
			continue
		}
		switch {
		case p[cur.offset] == '*':
			next.pos = m.advance(next.pos, cur)
		case p[cur.offset] == c:
			next.pos = m.advance(next.pos, cursor{pattern: cur.pattern, offset: cur.offset + 1})
		}
	}
	return next
}

// StepString consumes every character of str.
func (m *Matcher) StepString(s State, str string) State {
	for i := 0; i < len(str); i++ {
		if !s.all && len(s.pos) == 0 {
			return s
		}
		s = m.Step(s, str[i])
	}
	return s
}

// Accepts reports whether the consumed path matches a pattern.
func (m *Matcher) Accepts(s State) bool {
	if s.all {
		return true
	}
	for _, cur := range s.pos {
		if cur.offset == len(m.patterns[cur.pattern]) {
			return true
		}
	}
	return false
}

// Alive reports whether the consumed path, or some extension of it, can
// still match a pattern.
func (m *Matcher) Alive(s State) bool {
	return s.all || len(s.pos) > 0
}

// Match reports whether the full path matches a pattern.
func (m *Matcher) Match(path string) bool {
	return m.Accepts(m.StepString(m.Start(), path))
}

// advance adds cur and every position reachable from it through '*'
// (which may match the empty string), skipping duplicates.
func (m *Matcher) advance(set []cursor, cur cursor) []cursor {
	p := m.patterns[cur.pattern]
	for {
		if !contains(set, cur) {
			set = append(set, cur)
		}
		if cur.offset >= len(p) || p[cur.offset] != '*' {
			return set
		}
		cur.offset++
	}
}

func contains(set []cursor, c cursor) bool {
	for _, x := range set {
		if x == c {
			return true
		}
	}
	return false
}

// Package nested addresses inner elements of array-of-objects fields.
package nested

import (
	"fmt"
	"strings"
)

// MaxDepth is the maximum number of levels in an identity.
const MaxDepth = 20

// Level is one step of a nested identity: the nested field (relative to the
// enclosing nested object, may contain dots) and the element offset in it.
type Level struct {
	Field  string
	Offset int
}

// Identity is an immutable chain of levels from outermost to innermost.
// The zero Identity addresses the root document (not a nested hit).
type Identity struct {
	levels []Level
}

// NewIdentity validates and creates an Identity.
func NewIdentity(levels ...Level) (Identity, error) {
	if len(levels) > MaxDepth {
		return Identity{}, fmt.Errorf("nested identity too deep (max %d)", MaxDepth)
	}
	for i, l := range levels {
		if strings.TrimSpace(l.Field) == "" {
			return Identity{}, fmt.Errorf("nested level %d: field is required", i)
		}
		if l.Offset < 0 {
			return Identity{}, fmt.Errorf("nested level %d: offset must be non-negative", i)
		}
	}
	return Identity{levels: append([]Level(nil), levels...)}, nil
}

// IsZero reports whether the identity has no levels.
func (id Identity) IsZero() bool { return len(id.levels) == 0 }

// Depth returns the number of levels.
func (id Identity) Depth() int { return len(id.levels) }

// Levels returns a copy of the levels.
func (id Identity) Levels() []Level { return append([]Level(nil), id.levels...) }

// Fields returns the field names from outermost to innermost.
func (id Identity) Fields() []string {
	out := make([]string, len(id.levels))
	for i, l := range id.levels {
		out[i] = l.Field
	}
	return out
}

// Path returns the dot-joined field chain, e.g. "user.comments".
func (id Identity) Path() string { return strings.Join(id.Fields(), ".") }

func (id Identity) pathTo(i int) string {
	return strings.Join(id.Fields()[:i+1], ".")
}

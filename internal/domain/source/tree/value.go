// Package tree holds the in-memory representation of a decoded source
// document: null, scalars, ordered sequences and insertion-ordered mappings.
package tree

import (
	"strconv"
	"strings"
)

// Kind identifies the variant held by a Value.
type Kind uint8

const (
	// KindNull is the null value (also the zero Value).
	KindNull Kind = iota
	// KindString is a text scalar.
	KindString
	// KindNumber is a numeric scalar kept in its textual form.
	KindNumber
	// KindBool is a boolean scalar.
	KindBool
	// KindSequence is an ordered list of values.
	KindSequence
	// KindMapping is an ordered string-keyed collection of values.
	KindMapping
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindSequence:
		return "sequence"
	case KindMapping:
		return "mapping"
	default:
		return "unknown"
	}
}

// Value is an immutable tagged union over the document variants.
// The zero Value is null.
type Value struct {
	kind Kind
	text string
	b    bool
	seq  []Value
	m    *Mapping
}

// Null returns the null value.
func Null() Value { return Value{} }

// String returns a text scalar.
func String(s string) Value { return Value{kind: KindString, text: s} }

// Number returns a numeric scalar from its textual form (e.g. "42", "-1.5e3").
// The text is kept verbatim so integer and float spellings survive re-encoding.
func Number(text string) Value { return Value{kind: KindNumber, text: text} }

// Int returns a numeric scalar holding a signed integer.
func Int(i int64) Value { return Number(strconv.FormatInt(i, 10)) }

// Uint returns a numeric scalar holding an unsigned integer.
func Uint(u uint64) Value { return Number(strconv.FormatUint(u, 10)) }

// Float returns a numeric scalar holding a float. Integral floats keep a
// fractional part (2 -> "2.0") so they are not re-encoded as integers.
func Float(f float64) Value {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}
	return Number(s)
}

// Bool returns a boolean scalar.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Seq returns a sequence of the given values.
func Seq(items ...Value) Value {
	if items == nil {
		items = []Value{}
	}
	return Value{kind: KindSequence, seq: items}
}

// Map wraps a mapping into a Value. A nil mapping becomes an empty mapping.
func Map(m *Mapping) Value {
	if m == nil {
		m = NewMapping(0)
	}
	return Value{kind: KindMapping, m: m}
}

// Kind returns the variant of v.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Text returns the text of a string or number scalar, "" otherwise.
func (v Value) Text() string { return v.text }

// Bool returns the boolean payload (false for non-bool values).
func (v Value) Bool() bool { return v.b }

// Sequence returns the items of a sequence (nil for other kinds).
// Callers must not modify the returned slice.
func (v Value) Sequence() []Value {
	if v.kind != KindSequence {
		return nil
	}
	return v.seq
}

// Mapping returns the mapping payload (nil for other kinds).
func (v Value) Mapping() *Mapping {
	if v.kind != KindMapping {
		return nil
	}
	return v.m
}

// AsMapping returns the mapping payload and whether v is a mapping.
func (v Value) AsMapping() (*Mapping, bool) {
	if v.kind != KindMapping {
		return nil, false
	}
	return v.m, true
}

// IsInteger reports whether v is a number spelled as an integer.
func (v Value) IsInteger() bool {
	if v.kind != KindNumber || v.text == "" {
		return false
	}
	s := v.text
	if s[0] == '-' || s[0] == '+' {
		s = s[1:]
	}
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// Equal reports whether a and b are structurally equal, including mapping
// key order.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindNull:
		return true
	case KindString, KindNumber:
		return a.text == b.text
	case KindBool:
		return a.b == b.b
	case KindSequence:
		if len(a.seq) != len(b.seq) {
			return false
		}
		for i := range a.seq {
			if !Equal(a.seq[i], b.seq[i]) {
				return false
			}
		}
		return true
	case KindMapping:
		return a.m.Equal(b.m)
	default:
		return false
	}
}

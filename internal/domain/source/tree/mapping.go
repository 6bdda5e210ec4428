package tree

import "iter"

// Mapping is a string-keyed collection that preserves insertion order.
// Keys are unique; setting an existing key replaces its value in place.
type Mapping struct {
	keys  []string
	vals  []Value
	index map[string]int
}

// NewMapping creates an empty mapping with room for capacity entries.
func NewMapping(capacity int) *Mapping {
	if capacity < 0 {
		capacity = 0
	}
	return &Mapping{
		keys:  make([]string, 0, capacity),
		vals:  make([]Value, 0, capacity),
		index: make(map[string]int, capacity),
	}
}

// Set stores v under key, keeping the original position of an existing key.
func (m *Mapping) Set(key string, v Value) {
	if i, ok := m.index[key]; ok {
		m.vals[i] = v
		return
	}
	m.index[key] = len(m.keys)
	m.keys = append(m.keys, key)
	m.vals = append(m.vals, v)
}

// Get returns the value stored under key.
func (m *Mapping) Get(key string) (Value, bool) {
	if m == nil {
		return Value{}, false
	}
	i, ok := m.index[key]
	if !ok {
		return Value{}, false
	}
	return m.vals[i], true
}

// Len returns the number of entries.
func (m *Mapping) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Keys returns a copy of the keys in insertion order.
func (m *Mapping) Keys() []string {
	if m == nil {
		return nil
	}
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// All iterates over entries in insertion order.
func (m *Mapping) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		if m == nil {
			return
		}
		for i, k := range m.keys {
			if !yield(k, m.vals[i]) {
				return
			}
		}
	}
}

// Clone returns a shallow copy: entries are copied, nested values are shared.
func (m *Mapping) Clone() *Mapping {
	c := NewMapping(m.Len())
	for k, v := range m.All() {
		c.Set(k, v)
	}
	return c
}

// Equal reports whether m and o hold equal entries in the same order.
func (m *Mapping) Equal(o *Mapping) bool {
	if m.Len() != o.Len() {
		return false
	}
	for i := 0; i < m.Len(); i++ {
		if m.keys[i] != o.keys[i] || !Equal(m.vals[i], o.vals[i]) {
			return false
		}
	}
	return true
}

package value

import (
	"iter"
	"slices"
)

// Map is an insertion-ordered mapping with unique string keys.
//
// The zero value is not usable; create maps with [NewMap].
// A Map handed to the composer is treated as read-only.
type Map struct {
	keys []string
	vals map[string]Node
}

// NewMap returns an empty map with room for size entries.
func NewMap(size int) *Map {
	return &Map{
		keys: make([]string, 0, size),
		vals: make(map[string]Node, size),
	}
}

// MapOf builds a map from alternating key/value arguments.
// It panics if a key is not a string or the argument count is odd.
func MapOf(kv ...any) *Map {
	if len(kv)%2 != 0 {
		panic("value: MapOf requires key/value pairs")
	}

	m := NewMap(len(kv) / 2)

	for i := 0; i < len(kv); i += 2 {
		k, ok := kv[i].(string)
		if !ok {
			panic("value: MapOf key must be a string")
		}

		m.Set(k, FromPlain(kv[i+1]))
	}

	return m
}

// Len returns the number of entries.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}

	return len(m.keys)
}

// Get returns the value stored under key.
func (m *Map) Get(key string) (Node, bool) {
	if m == nil {
		return nil, false
	}

	n, ok := m.vals[key]

	return n, ok
}

// Has reports whether key is present.
func (m *Map) Has(key string) bool {
	_, ok := m.Get(key)

	return ok
}

// Set stores n under key. A new key is appended; an existing key keeps its
// position.
func (m *Map) Set(key string, n Node) {
	if _, ok := m.vals[key]; !ok {
		m.keys = append(m.keys, key)
	}

	m.vals[key] = n
}

// Delete removes key, preserving the order of the remaining entries.
func (m *Map) Delete(key string) {
	if _, ok := m.vals[key]; !ok {
		return
	}

	delete(m.vals, key)
	m.keys = slices.DeleteFunc(m.keys, func(k string) bool { return k == key })
}

// Keys returns the keys in insertion order.
func (m *Map) Keys() []string {
	if m == nil {
		return nil
	}

	return slices.Clone(m.keys)
}

// All iterates over the entries in insertion order.
func (m *Map) All() iter.Seq2[string, Node] {
	return func(yield func(string, Node) bool) {
		if m == nil {
			return
		}

		for _, k := range m.keys {
			if !yield(k, m.vals[k]) {
				return
			}
		}
	}
}

// Clone returns a shallow copy of m.
func (m *Map) Clone() *Map {
	c := NewMap(m.Len())

	for k, v := range m.All() {
		c.Set(k, v)
	}

	return c
}

// Overlay returns a new map holding the entries of m followed by the entries
// of over. Keys present in both keep the position from m and the value from
// over. Neither input is modified.
func (m *Map) Overlay(over *Map) *Map {
	c := NewMap(m.Len() + over.Len())

	for k, v := range m.All() {
		c.Set(k, v)
	}

	for k, v := range over.All() {
		c.Set(k, v)
	}

	return c
}

// Package salad is the runtime support library imported by generated
// loaders. It provides the document model, the composable loaders and the
// URI helpers the generated parse and save routines call.
package salad

import (
	"bytes"

	"github.com/goccy/go-json"
)

// Pos is a 1-based source position
type Pos struct {
	Line int
	Col  int
}

// Map is an ordered mapping that remembers where each key was read from.
// Sequences in the document model are []any; scalars are string, int,
// float64, bool or nil.
type Map struct {
	keys   []string
	values map[string]any
	pos    map[string]Pos

	// Filename is the URI of the document the mapping was read from
	Filename string
	// Start is the position of the mapping itself
	Start Pos
}

// NewMap creates an empty mapping
func NewMap() *Map {
	return &Map{
		values: make(map[string]any),
		pos:    make(map[string]Pos),
	}
}

// MapOf builds a mapping from alternating keys and values
func MapOf(kv ...any) *Map {
	m := NewMap()
	for i := 0; i+1 < len(kv); i += 2 {
		k, _ := kv[i].(string)
		m.Set(k, kv[i+1])
	}
	return m
}

// Len returns the number of keys
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Keys returns the keys in insertion order
func (m *Map) Keys() []string {
	if m == nil {
		return nil
	}
	return append([]string(nil), m.keys...)
}

// Get returns the value stored under k
func (m *Map) Get(k string) (any, bool) {
	if m == nil {
		return nil, false
	}
	v, ok := m.values[k]
	return v, ok
}

// Has reports whether k is present
func (m *Map) Has(k string) bool {
	_, ok := m.Get(k)
	return ok
}

// Set stores v under k, keeping the original position of an existing key
func (m *Map) Set(k string, v any) {
	if _, ok := m.values[k]; !ok {
		m.keys = append(m.keys, k)
	}
	m.values[k] = v
}

// Delete removes k
func (m *Map) Delete(k string) {
	if _, ok := m.values[k]; !ok {
		return
	}
	delete(m.values, k)
	delete(m.pos, k)
	for i, key := range m.keys {
		if key == k {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
}

// SetPos records the source position of k
func (m *Map) SetPos(k string, p Pos) {
	m.pos[k] = p
}

// Pos returns the source position of k
func (m *Map) Pos(k string) (Pos, bool) {
	if m == nil {
		return Pos{}, false
	}
	p, ok := m.pos[k]
	return p, ok
}

// Copy returns a shallow copy that shares values but not key order
func (m *Map) Copy() *Map {
	if m == nil {
		return nil
	}
	c := &Map{
		keys:     append([]string(nil), m.keys...),
		values:   make(map[string]any, len(m.values)),
		pos:      make(map[string]Pos, len(m.pos)),
		Filename: m.Filename,
		Start:    m.Start,
	}
	for k, v := range m.values {
		c.values[k] = v
	}
	for k, p := range m.pos {
		c.pos[k] = p
	}
	return c
}

// MarshalJSON encodes the mapping with its keys in insertion order
func (m *Map) MarshalJSON() ([]byte, error) {
	if m == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(m.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

package models

import (
	"bytes"
	"encoding/json"
	"slices"
)

type Entry struct {
	Key   string
	Value Value
}

// Mapping is an insertion ordered, copy-on-write map from string keys to
// Values. Overwriting a key keeps its original position.
type Mapping struct {
	keys   []string
	values map[string]Value
}

func NewMapping(entries ...Entry) Mapping {
	m := Mapping{
		keys:   make([]string, 0, len(entries)),
		values: make(map[string]Value, len(entries)),
	}
	for _, e := range entries {
		m.set(e.Key, e.Value)
	}
	return m
}

// Pairs builds a mapping of text values from alternating keys and values.
// It panics if given an odd number of arguments.
func Pairs(kv ...string) Mapping {
	if len(kv)%2 == 1 {
		panic("models.Pairs: odd argument count")
	}
	entries := make([]Entry, 0, len(kv)/2)
	for i := 0; i < len(kv); i += 2 {
		entries = append(entries, Entry{Key: kv[i], Value: Text(kv[i+1])})
	}
	return NewMapping(entries...)
}

func (m *Mapping) set(key string, v Value) {
	if m.values == nil {
		m.values = make(map[string]Value)
	}
	if _, exists := m.values[key]; !exists {
		m.keys = append(m.keys, key)
	}
	m.values[key] = v
}

func (m Mapping) Len() int {
	return len(m.keys)
}

func (m Mapping) Keys() []string {
	return slices.Clone(m.keys)
}

func (m Mapping) Get(key string) (Value, bool) {
	v, ok := m.values[key]
	return v, ok
}

func (m Mapping) Has(key string) bool {
	_, ok := m.values[key]
	return ok
}

func (m Mapping) Values() []Value {
	ret := make([]Value, 0, len(m.keys))
	for _, k := range m.keys {
		ret = append(ret, m.values[k])
	}
	return ret
}

func (m Mapping) Entries() []Entry {
	ret := make([]Entry, 0, len(m.keys))
	for _, k := range m.keys {
		ret = append(ret, Entry{Key: k, Value: m.values[k]})
	}
	return ret
}

func (m Mapping) clone() Mapping {
	cpy := Mapping{
		keys:   slices.Clone(m.keys),
		values: make(map[string]Value, len(m.values)),
	}
	for k, v := range m.values {
		cpy.values[k] = v
	}
	return cpy
}

// With returns a copy with key bound to v.
func (m Mapping) With(key string, v Value) Mapping {
	cpy := m.clone()
	cpy.set(key, v)
	return cpy
}

// Merge returns a copy where every entry of other is applied in order,
// overwriting existing keys.
func (m Mapping) Merge(other Mapping) Mapping {
	cpy := m.clone()
	for _, e := range other.Entries() {
		cpy.set(e.Key, e.Value)
	}
	return cpy
}

// Pick returns the entries whose keys are listed, in the order of keys.
// Absent keys are skipped.
func (m Mapping) Pick(keys []string) Mapping {
	ret := NewMapping()
	for _, k := range keys {
		if v, ok := m.values[k]; ok {
			ret.set(k, v)
		}
	}
	return ret
}

func (m Mapping) Equal(o Mapping) bool {
	if !slices.Equal(m.keys, o.keys) {
		return false
	}
	for _, k := range m.keys {
		if !m.values[k].Equal(o.values[k]) {
			return false
		}
	}
	return true
}

func (m Mapping) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(m.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

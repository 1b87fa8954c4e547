package prompt

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
)

// Value is one node of a configuration tree. The set of implementations is
// closed: Null, String, Number, Bool, Array and *Mapping.
type Value interface {
	isValue()
}

// Null is an explicit null leaf.
type Null struct{}

// String is a text leaf.
type String string

// Bool is a boolean leaf.
type Bool bool

// Array is an opaque leaf. Its elements are never traversed.
type Array []Value

// Number is a numeric leaf. Literal keeps the textual form the number was
// read from so integers survive a round trip unchanged.
type Number struct {
	Float   float64
	Literal string
}

func (Null) isValue()     {}
func (String) isValue()   {}
func (Bool) isValue()     {}
func (Array) isValue()    {}
func (Number) isValue()   {}
func (*Mapping) isValue() {}

// Int returns a Number holding n.
func Int(n int64) Number {
	return Number{Float: float64(n), Literal: strconv.FormatInt(n, 10)}
}

// Uint returns a Number holding n.
func Uint(n uint64) Number {
	return Number{Float: float64(n), Literal: strconv.FormatUint(n, 10)}
}

// Float returns a Number holding f.
func Float(f float64) Number {
	return Number{Float: f, Literal: formatFloat(f)}
}

// ParseNumber parses a JSON number literal.
func ParseNumber(literal string) (Number, error) {
	f, err := strconv.ParseFloat(literal, 64)
	if err != nil {
		return Number{}, fmt.Errorf("prompt: invalid number %q: %w", literal, err)
	}
	return Number{Float: f, Literal: literal}, nil
}

func formatFloat(f float64) string {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return ""
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func (Null) MarshalJSON() ([]byte, error) {
	return []byte("null"), nil
}

func (n Number) MarshalJSON() ([]byte, error) {
	if n.Literal != "" {
		return []byte(n.Literal), nil
	}
	s := formatFloat(n.Float)
	if s == "" {
		return nil, fmt.Errorf("prompt: number %v has no JSON representation", n.Float)
	}
	return []byte(s), nil
}

func (a Array) MarshalJSON() ([]byte, error) {
	if a == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]Value(a))
}

// Entry is one key/value pair of a Mapping.
type Entry struct {
	Key   string
	Value Value
}

// Mapping is an ordered string-keyed collection with unique keys. Entries
// are enumerated in insertion order. The zero value is an empty mapping.
type Mapping struct {
	entries []Entry
	index   map[string]int
}

// NewMapping returns an empty Mapping.
func NewMapping() *Mapping {
	return &Mapping{}
}

// Set stores v under key. Setting an existing key replaces its value and
// keeps its position. A nil v, including a nil *Mapping, is stored as Null.
func (m *Mapping) Set(key string, v Value) *Mapping {
	if nested, ok := v.(*Mapping); v == nil || (ok && nested == nil) {
		v = Null{}
	}
	if m.index == nil {
		m.index = make(map[string]int)
	}
	if i, ok := m.index[key]; ok {
		m.entries[i].Value = v
		return m
	}
	m.index[key] = len(m.entries)
	m.entries = append(m.entries, Entry{Key: key, Value: v})
	return m
}

// Get returns the value stored under key.
func (m *Mapping) Get(key string) (Value, bool) {
	if m == nil {
		return nil, false
	}
	i, ok := m.index[key]
	if !ok {
		return nil, false
	}
	return m.entries[i].Value, true
}

// Len returns the number of entries.
func (m *Mapping) Len() int {
	if m == nil {
		return 0
	}
	return len(m.entries)
}

// Keys returns the keys in enumeration order.
func (m *Mapping) Keys() []string {
	keys := make([]string, 0, m.Len())
	if m == nil {
		return keys
	}
	for _, e := range m.entries {
		keys = append(keys, e.Key)
	}
	return keys
}

// Entries returns a copy of the entries in enumeration order.
func (m *Mapping) Entries() []Entry {
	if m == nil {
		return nil
	}
	out := make([]Entry, len(m.entries))
	copy(out, m.entries)
	return out
}

// MarshalJSON encodes the mapping as a JSON object in enumeration order.
func (m *Mapping) MarshalJSON() ([]byte, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range m.entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(e.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		v, err := json.Marshal(e.Value)
		if err != nil {
			return nil, fmt.Errorf("prompt: encode %q: %w", e.Key, err)
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object keeping key order.
func (m *Mapping) UnmarshalJSON(data []byte) error {
	decoded, err := DecodeJSON(data)
	if err != nil {
		return err
	}
	*m = *decoded
	return nil
}

// ErrNotMapping is returned by the decoders when the document root is not
// an object.
var ErrNotMapping = errors.New("prompt: document root is not a mapping")

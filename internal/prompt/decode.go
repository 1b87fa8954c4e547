package prompt

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"reflect"
	"sort"
	"strconv"

	"gopkg.in/yaml.v3"
)

// DecodeJSON decodes a JSON object into a Mapping, keeping the key order of
// the document. Duplicate keys keep their first position and their last
// value.
func DecodeJSON(data []byte) (*Mapping, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("prompt: decode json: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, ErrNotMapping
	}
	m, err := decodeJSONObject(dec)
	if err != nil {
		return nil, fmt.Errorf("prompt: decode json: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("prompt: decode json: unexpected data after top-level object")
	}
	return m, nil
}

func decodeJSONObject(dec *json.Decoder) (*Mapping, error) {
	m := NewMapping()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected object key %v", tok)
		}
		v, err := decodeJSONValue(dec)
		if err != nil {
			return nil, err
		}
		m.Set(key, v)
	}
	// closing brace
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return m, nil
}

func decodeJSONArray(dec *json.Decoder) (Array, error) {
	arr := Array{}
	for dec.More() {
		v, err := decodeJSONValue(dec)
		if err != nil {
			return nil, err
		}
		arr = append(arr, v)
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return arr, nil
}

func decodeJSONValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			m, err := decodeJSONObject(dec)
			if err != nil {
				return nil, err
			}
			return m, nil
		case '[':
			arr, err := decodeJSONArray(dec)
			if err != nil {
				return nil, err
			}
			return arr, nil
		}
		return nil, fmt.Errorf("unexpected delimiter %q", rune(t))
	case nil:
		return Null{}, nil
	case bool:
		return Bool(t), nil
	case string:
		return String(t), nil
	case json.Number:
		return ParseNumber(string(t))
	}
	return nil, fmt.Errorf("unexpected token %v", tok)
}

// ErrDocumentTooComplex is returned when expanding YAML aliases would build
// far more values than the document itself holds.
var ErrDocumentTooComplex = errors.New("prompt: document expands too many aliases")

// ErrNonFiniteNumber is returned for NaN and infinite numbers, which have no
// JSON representation.
var ErrNonFiniteNumber = errors.New("prompt: number is not finite")

const (
	minYAMLBudget = 10000
	maxYAMLBudget = 1 << 20
	// values allowed per input byte once aliases are expanded
	yamlBudgetPerByte = 64
)

// DecodeYAML decodes a YAML document into a Mapping, keeping the key order
// of the document. An empty document decodes to an empty mapping. Aliases
// are expanded and merge keys ("<<") are applied without overriding keys
// set explicitly. An alias to an enclosing node yields
// ErrCyclicConfiguration; alias expansion past a size budget derived from
// the document length yields ErrDocumentTooComplex.
func DecodeYAML(data []byte) (*Mapping, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("prompt: decode yaml: %w", err)
	}
	node := &doc
	if node.Kind == yaml.DocumentNode {
		if len(node.Content) == 0 {
			return NewMapping(), nil
		}
		node = node.Content[0]
	}
	if node.Kind == 0 {
		return NewMapping(), nil
	}
	node = resolveAlias(node)
	if node.Kind != yaml.MappingNode {
		return nil, ErrNotMapping
	}

	d := yamlDecoder{
		active: make(map[*yaml.Node]struct{}),
		budget: min(max(len(data)*yamlBudgetPerByte, minYAMLBudget), maxYAMLBudget),
	}
	m, err := d.mapping(node)
	if err != nil {
		return nil, fmt.Errorf("prompt: decode yaml: %w", err)
	}
	return m, nil
}

func resolveAlias(n *yaml.Node) *yaml.Node {
	for n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}

type yamlDecoder struct {
	// collection nodes on the current descent path
	active map[*yaml.Node]struct{}
	// values left to build before the document counts as too complex
	budget int
}

func (d *yamlDecoder) enter(n *yaml.Node) (func(), error) {
	if _, ok := d.active[n]; ok {
		return nil, fmt.Errorf("line %d: %w: alias refers back to an enclosing node", n.Line, ErrCyclicConfiguration)
	}
	d.active[n] = struct{}{}
	return func() { delete(d.active, n) }, nil
}

func (d *yamlDecoder) spend() error {
	d.budget--
	if d.budget < 0 {
		return ErrDocumentTooComplex
	}
	return nil
}

func (d *yamlDecoder) mapping(n *yaml.Node) (*Mapping, error) {
	leave, err := d.enter(n)
	if err != nil {
		return nil, err
	}
	defer leave()

	m := NewMapping()
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, val := n.Content[i], n.Content[i+1]
		if key.ShortTag() == "!!merge" {
			if err := d.merge(m, resolveAlias(val)); err != nil {
				return nil, err
			}
			continue
		}
		key = resolveAlias(key)
		if key.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("line %d: mapping keys must be scalars", key.Line)
		}
		v, err := d.value(val)
		if err != nil {
			return nil, err
		}
		m.Set(key.Value, v)
	}
	return m, nil
}

// merge copies the entries of a merged mapping (or sequence of mappings)
// into m, skipping keys m already holds.
func (d *yamlDecoder) merge(m *Mapping, src *yaml.Node) error {
	var sources []*yaml.Node
	switch src.Kind {
	case yaml.MappingNode:
		sources = []*yaml.Node{src}
	case yaml.SequenceNode:
		for _, c := range src.Content {
			sources = append(sources, resolveAlias(c))
		}
	default:
		return fmt.Errorf("line %d: merge value must be a mapping", src.Line)
	}
	for _, s := range sources {
		if s.Kind != yaml.MappingNode {
			return fmt.Errorf("line %d: merge value must be a mapping", s.Line)
		}
		merged, err := d.mapping(s)
		if err != nil {
			return err
		}
		for _, e := range merged.entries {
			if _, exists := m.Get(e.Key); !exists {
				m.Set(e.Key, e.Value)
			}
		}
	}
	return nil
}

func (d *yamlDecoder) value(n *yaml.Node) (Value, error) {
	if err := d.spend(); err != nil {
		return nil, err
	}
	n = resolveAlias(n)
	switch n.Kind {
	case yaml.MappingNode:
		m, err := d.mapping(n)
		if err != nil {
			return nil, err
		}
		return m, nil
	case yaml.SequenceNode:
		leave, err := d.enter(n)
		if err != nil {
			return nil, err
		}
		defer leave()
		arr := make(Array, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := d.value(c)
			if err != nil {
				return nil, err
			}
			arr = append(arr, v)
		}
		return arr, nil
	case yaml.ScalarNode:
		return decodeYAMLScalar(n)
	}
	return nil, fmt.Errorf("line %d: unsupported yaml node", n.Line)
}

func decodeYAMLScalar(n *yaml.Node) (Value, error) {
	switch n.ShortTag() {
	case "!!null":
		return Null{}, nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, err
		}
		return Bool(b), nil
	case "!!int":
		var i int64
		if err := n.Decode(&i); err == nil {
			return Int(i), nil
		}
		var u uint64
		if err := n.Decode(&u); err == nil {
			return Uint(u), nil
		}
		fallthrough
	case "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return nil, err
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, fmt.Errorf("line %d: %w: %s", n.Line, ErrNonFiniteNumber, n.Value)
		}
		return Float(f), nil
	}
	return String(n.Value), nil
}

// FromAny converts a Go map into a Mapping. Go maps have no order, so keys
// are sorted. Nested map[string]any values become mappings, slices and
// arrays become Array leaves, and numbers of every Go kind become Number.
// A map that contains itself yields ErrCyclicConfiguration.
func FromAny(data map[string]any) (*Mapping, error) {
	c := anyConverter{active: make(map[uintptr]struct{})}
	v, err := c.convert(reflect.ValueOf(data), "")
	if err != nil {
		return nil, err
	}
	if m, ok := v.(*Mapping); ok {
		return m, nil
	}
	return NewMapping(), nil
}

type anyConverter struct {
	active map[uintptr]struct{}
}

var (
	valueType      = reflect.TypeOf((*Value)(nil)).Elem()
	jsonNumberType = reflect.TypeOf(json.Number(""))
)

func (c *anyConverter) enter(rv reflect.Value, path string) (func(), error) {
	p := rv.Pointer()
	if p == 0 {
		return func() {}, nil
	}
	if _, ok := c.active[p]; ok {
		return nil, fmt.Errorf("%w: %s refers back to an enclosing value", ErrCyclicConfiguration, path)
	}
	c.active[p] = struct{}{}
	return func() { delete(c.active, p) }, nil
}

func (c *anyConverter) convert(rv reflect.Value, path string) (Value, error) {
	if !rv.IsValid() {
		return Null{}, nil
	}
	if rv.Type() == jsonNumberType {
		return ParseNumber(rv.String())
	}
	if rv.Type().Implements(valueType) && rv.Kind() != reflect.Interface {
		if rv.Kind() == reflect.Pointer && rv.IsNil() {
			return Null{}, nil
		}
		return rv.Interface().(Value), nil
	}

	switch rv.Kind() {
	case reflect.Interface:
		if rv.IsNil() {
			return Null{}, nil
		}
		return c.convert(rv.Elem(), path)
	case reflect.Pointer:
		if rv.IsNil() {
			return Null{}, nil
		}
		leave, err := c.enter(rv, path)
		if err != nil {
			return nil, err
		}
		defer leave()
		return c.convert(rv.Elem(), path)
	case reflect.String:
		return String(rv.String()), nil
	case reflect.Bool:
		return Bool(rv.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Int(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return Uint(rv.Uint()), nil
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, fmt.Errorf("%w: %s is %v", ErrNonFiniteNumber, displayPath(path), f)
		}
		return Float(f), nil
	case reflect.Slice:
		if rv.IsNil() {
			return Null{}, nil
		}
		leave, err := c.enter(rv, path)
		if err != nil {
			return nil, err
		}
		defer leave()
		return c.convertSeq(rv, path)
	case reflect.Array:
		return c.convertSeq(rv, path)
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, fmt.Errorf("prompt: %s: map keys must be strings, got %s", displayPath(path), rv.Type().Key())
		}
		if rv.IsNil() {
			return Null{}, nil
		}
		leave, err := c.enter(rv, path)
		if err != nil {
			return nil, err
		}
		defer leave()
		return c.convertMap(rv, path)
	}
	return nil, fmt.Errorf("prompt: %s: unsupported value of type %s", displayPath(path), rv.Type())
}

func (c *anyConverter) convertSeq(rv reflect.Value, path string) (Value, error) {
	arr := make(Array, 0, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		v, err := c.convert(rv.Index(i), path+"["+strconv.Itoa(i)+"]")
		if err != nil {
			return nil, err
		}
		arr = append(arr, v)
	}
	return arr, nil
}

func (c *anyConverter) convertMap(rv reflect.Value, path string) (Value, error) {
	keys := make([]string, 0, rv.Len())
	for _, k := range rv.MapKeys() {
		keys = append(keys, k.String())
	}
	sort.Strings(keys)

	m := NewMapping()
	for _, k := range keys {
		name := k
		if path != "" {
			name = path + "." + k
		}
		v, err := c.convert(rv.MapIndex(reflect.ValueOf(k).Convert(rv.Type().Key())), name)
		if err != nil {
			return nil, err
		}
		m.Set(k, v)
	}
	return m, nil
}

func displayPath(path string) string {
	if path == "" {
		return "<root>"
	}
	return path
}

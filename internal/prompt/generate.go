// Package prompt turns a nested configuration mapping into a flat list of
// prompt descriptors, one per leaf, named by the dotted path of the leaf.
//
// Traversal is depth-first and follows the enumeration order of each
// mapping. Nested mappings are descended into and never produce a
// descriptor of their own. Everything else is a leaf, including arrays,
// which are passed through whole as the default value.
//
//	cfg := prompt.NewMapping().
//		Set("name", prompt.String("demo")).
//		Set("author", prompt.NewMapping().Set("email", prompt.Null{}))
//	descs, err := prompt.Generate(cfg)
//	// descs[0].Name == "name", descs[1].Name == "author.email"
package prompt

import (
	"errors"
	"fmt"
)

// ErrCyclicConfiguration is returned when a mapping contains itself.
var ErrCyclicConfiguration = errors.New("prompt: cyclic configuration")

// Option configures a Generate call.
type Option func(*options)

type options struct {
	prefix    string
	formatter Formatter
}

// WithPrefix prepends prefix and a "." to every generated name.
func WithPrefix(prefix string) Option {
	return func(o *options) {
		o.prefix = prefix
	}
}

// WithFormatter sets the message formatter. A nil formatter selects
// DefaultFormatter.
func WithFormatter(f Formatter) Option {
	return func(o *options) {
		o.formatter = f
	}
}

// WithFormatterFunc is WithFormatter for a plain function.
func WithFormatterFunc(fn func(t Type, name string) string) Option {
	return func(o *options) {
		if fn == nil {
			o.formatter = nil
			return
		}
		o.formatter = FormatterFunc(fn)
	}
}

// Generate returns one descriptor per leaf of data in depth-first,
// enumeration order. A nil data is treated as an empty mapping. The result
// is never nil.
//
// The formatter is called exactly once per leaf; if it panics the panic
// propagates to the caller.
func Generate(data *Mapping, opts ...Option) ([]Descriptor, error) {
	o := options{formatter: DefaultFormatter{}}
	for _, opt := range opts {
		opt(&o)
	}
	if o.formatter == nil {
		o.formatter = DefaultFormatter{}
	}

	g := generator{
		format: o.formatter,
		active: make(map[*Mapping]struct{}),
	}
	out, err := g.walk(make([]Descriptor, 0, data.Len()), data, o.prefix)
	if err != nil {
		return nil, err
	}
	return out, nil
}

type generator struct {
	format Formatter
	// mappings on the current descent path
	active map[*Mapping]struct{}
}

func (g *generator) walk(out []Descriptor, m *Mapping, prefix string) ([]Descriptor, error) {
	if m == nil {
		return out, nil
	}
	if _, ok := g.active[m]; ok {
		return nil, fmt.Errorf("%w: %s refers back to an enclosing mapping", ErrCyclicConfiguration, prefix)
	}
	g.active[m] = struct{}{}
	defer delete(g.active, m)

	for _, e := range m.entries {
		name := e.Key
		if prefix != "" {
			name = prefix + "." + e.Key
		}

		if nested, ok := e.Value.(*Mapping); ok {
			var err error
			if out, err = g.walk(out, nested, name); err != nil {
				return nil, err
			}
			continue
		}

		t := InferType(e.Value)
		out = append(out, Descriptor{
			Type:    t,
			Name:    name,
			Message: g.format.FormatMessage(t, name),
			Default: e.Value,
		})
	}
	return out, nil
}

// InferType maps a leaf to its prompt type. Strings, nulls and arrays are
// text, booleans are confirm and numbers are number. Mappings are not
// leaves; they report text like any other unmatched value.
func InferType(v Value) Type {
	switch v.(type) {
	case String:
		return TypeText
	case Bool:
		return TypeConfirm
	case Number:
		return TypeNumber
	case Null, Array:
		return TypeText
	default:
		return TypeText
	}
}

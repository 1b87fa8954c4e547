package prompt

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

// Type is the input type of a prompt as understood by prompt renderers.
type Type string

const (
	TypeText    Type = "text"
	TypeNumber  Type = "number"
	TypeConfirm Type = "confirm"
)

// Descriptor describes one question to ask the user. Name is the dotted
// path of the leaf in the source mapping and can be used directly as the
// answer key.
type Descriptor struct {
	Type    Type   `json:"type"`
	Name    string `json:"name"`
	Message string `json:"message"`
	Default Value  `json:"default"`
}

// Formatter builds the display message for a prompt.
type Formatter interface {
	FormatMessage(t Type, name string) string
}

// FormatterFunc adapts a plain function to Formatter.
type FormatterFunc func(t Type, name string) string

func (f FormatterFunc) FormatMessage(t Type, name string) string {
	return f(t, name)
}

// DefaultFormatter produces "Confirm NAME (yes/no)?" for confirm prompts and
// "Please enter a TYPE value for NAME:" for everything else.
type DefaultFormatter struct{}

func (DefaultFormatter) FormatMessage(t Type, name string) string {
	if t == TypeConfirm {
		return "Confirm " + name + " (yes/no)?"
	}
	return "Please enter a " + string(t) + " value for " + name + ":"
}

// TemplateFormatter renders messages from a text/template. The template sees
// .Type and .Name and has the sprig function set available.
type TemplateFormatter struct {
	tmpl *template.Template
}

// NewTemplateFormatter parses text into a TemplateFormatter.
func NewTemplateFormatter(text string) (*TemplateFormatter, error) {
	tmpl, err := template.New("message").Funcs(sprig.TxtFuncMap()).Option("missingkey=error").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("prompt: parse message template: %w", err)
	}
	return &TemplateFormatter{tmpl: tmpl}, nil
}

// FormatMessage executes the template. Execution errors panic: a Formatter
// has no error return and the generator does not recover from failures.
func (f *TemplateFormatter) FormatMessage(t Type, name string) string {
	var b strings.Builder
	data := struct {
		Type string
		Name string
	}{Type: string(t), Name: name}
	if err := f.tmpl.Execute(&b, data); err != nil {
		panic(fmt.Errorf("prompt: execute message template for %s: %w", name, err))
	}
	return b.String()
}

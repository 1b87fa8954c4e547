package jsonsource

import (
	"github.com/akave-ai/confprompt/internal/infrastructure/sources"
	"github.com/akave-ai/confprompt/internal/prompt"
)

func init() {
	sources.GlobalRegistry.Register(&Decoder{})
}

// Decoder reads JSON documents. Registers as "json".
type Decoder struct{}

func (d *Decoder) Name() string {
	return "json"
}

func (d *Decoder) Info() sources.FormatInfo {
	return sources.FormatInfo{
		Name:         "json",
		Description:  "JSON object. Key order of the document is kept; duplicate keys keep their first position and last value.",
		ContentTypes: []string{"application/json", "text/json"},
		Extensions:   []string{".json"},
	}
}

func (d *Decoder) Decode(data []byte) (*prompt.Mapping, error) {
	return prompt.DecodeJSON(data)
}

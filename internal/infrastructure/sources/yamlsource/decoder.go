package yamlsource

import (
	"github.com/akave-ai/confprompt/internal/infrastructure/sources"
	"github.com/akave-ai/confprompt/internal/prompt"
)

func init() {
	sources.GlobalRegistry.Register(&Decoder{})
}

// Decoder reads YAML documents. Registers as "yaml".
type Decoder struct{}

func (d *Decoder) Name() string {
	return "yaml"
}

func (d *Decoder) Info() sources.FormatInfo {
	return sources.FormatInfo{
		Name:         "yaml",
		Description:  "YAML mapping. Anchors and merge keys are expanded; an empty document is an empty mapping.",
		ContentTypes: []string{"application/yaml", "application/x-yaml", "text/yaml", "text/x-yaml"},
		Extensions:   []string{".yaml", ".yml"},
	}
}

func (d *Decoder) Decode(data []byte) (*prompt.Mapping, error) {
	return prompt.DecodeYAML(data)
}

package sources

import "github.com/akave-ai/confprompt/internal/prompt"

// Decoder turns a raw configuration document into an ordered mapping.
// Each document format (json, yaml, ...) implements and registers a Decoder.
// Info declares which content types and file extensions the format claims.
type Decoder interface {
	Name() string
	Info() FormatInfo
	Decode(data []byte) (*prompt.Mapping, error)
}

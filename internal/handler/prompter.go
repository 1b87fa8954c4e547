package handler

import (
	"errors"
	"fmt"
	"io"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/akave-ai/confprompt/internal/infrastructure/sources"
	"github.com/akave-ai/confprompt/internal/prompt"
	"github.com/akave-ai/confprompt/internal/response"
)

// MaxDocumentBytes bounds the size of an uploaded configuration document.
const MaxDocumentBytes = 1 << 20

var errDocumentTooLarge = errors.New("document exceeds 1 MiB")

// Prompter holds what every prompt-producing endpoint shares: the format
// registry, the fallback format and the message formatter.
type Prompter struct {
	Sources       *sources.Registry
	DefaultFormat string
	Formatter     prompt.Formatter
	Logger        zerolog.Logger
}

// PromptsResponse is the payload of every prompt-producing endpoint.
type PromptsResponse struct {
	Prompts []prompt.Descriptor `json:"prompts"`
	Count   int                 `json:"count"`
}

// Decoder picks a decoder: an explicit format wins, then the extension of
// name, then the content type, then the default format.
func (p *Prompter) Decoder(format, name, contentType string) (sources.Decoder, error) {
	if format != "" {
		d, ok := p.Sources.Get(format)
		if !ok {
			return nil, fmt.Errorf("%w: %s", sources.ErrUnknownFormat, format)
		}
		return d, nil
	}
	if name != "" {
		if d, ok := p.Sources.ForPath(name); ok {
			return d, nil
		}
	}
	if contentType != "" {
		if d, ok := p.Sources.ForContentType(contentType); ok {
			return d, nil
		}
	}
	d, ok := p.Sources.Get(p.DefaultFormat)
	if !ok {
		return nil, fmt.Errorf("%w: %s", sources.ErrUnknownFormat, p.DefaultFormat)
	}
	return d, nil
}

// Generate runs the descriptor generator over m.
func (p *Prompter) Generate(m *prompt.Mapping, prefix string) (PromptsResponse, error) {
	descs, err := prompt.Generate(m, prompt.WithPrefix(prefix), prompt.WithFormatter(p.Formatter))
	if err != nil {
		return PromptsResponse{}, err
	}
	return PromptsResponse{Prompts: descs, Count: len(descs)}, nil
}

// Respond decodes data with d, generates the prompts and writes them.
func (p *Prompter) Respond(c echo.Context, d sources.Decoder, data []byte) error {
	m, err := d.Decode(data)
	if err != nil {
		return response.Unprocessable(c, "invalid "+d.Name()+" document", err.Error())
	}
	out, err := p.Generate(m, c.QueryParam("prefix"))
	if err != nil {
		return response.Unprocessable(c, "cannot generate prompts", err.Error())
	}
	p.Logger.Debug().Str("format", d.Name()).Int("count", out.Count).Msg("generated prompts")
	return response.OK(c, out, "")
}

func readDocument(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxDocumentBytes+1))
	if err != nil {
		return nil, err
	}
	if len(data) > MaxDocumentBytes {
		return nil, errDocumentTooLarge
	}
	return data, nil
}

// documentError maps a body read failure to a response.
func documentError(c echo.Context, err error) error {
	if errors.Is(err, errDocumentTooLarge) {
		return response.TooLarge(c, "document too large", err.Error())
	}
	return response.BadRequest(c, "could not read body", err.Error())
}

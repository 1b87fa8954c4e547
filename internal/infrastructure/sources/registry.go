package sources

import (
	"errors"
	"fmt"
	"mime"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/akave-ai/confprompt/internal/prompt"
)

// ErrUnknownFormat is returned when no decoder is registered for a format.
var ErrUnknownFormat = errors.New("sources: unknown format")

// GlobalRegistry is populated by the format packages (jsonsource,
// yamlsource) in their init().
var GlobalRegistry = NewRegistry()

// Registry holds registered decoders keyed by format name.
type Registry struct {
	mu       sync.RWMutex
	decoders map[string]Decoder
}

// NewRegistry returns a new Registry.
func NewRegistry() *Registry {
	return &Registry{
		decoders: make(map[string]Decoder),
	}
}

// Register adds a decoder. A later registration for the same name wins.
func (r *Registry) Register(d Decoder) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.decoders[strings.ToLower(d.Name())] = d
}

// Get returns the decoder registered under name.
func (r *Registry) Get(name string) (Decoder, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.decoders[strings.ToLower(strings.TrimSpace(name))]
	return d, ok
}

// Decode parses data with the decoder registered under name.
func (r *Registry) Decode(name string, data []byte) (*prompt.Mapping, error) {
	d, ok := r.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, name)
	}
	return d.Decode(data)
}

// ForContentType returns the decoder claiming the media type of ct.
// Parameters such as charset are ignored.
func (r *Registry) ForContentType(ct string) (Decoder, bool) {
	mediaType, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, d := range r.decoders {
		for _, c := range d.Info().ContentTypes {
			if strings.EqualFold(c, mediaType) {
				return d, true
			}
		}
	}
	return nil, false
}

// ForPath returns the decoder claiming the file extension of p.
func (r *Registry) ForPath(p string) (Decoder, bool) {
	ext := strings.ToLower(path.Ext(p))
	if ext == "" {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, d := range r.decoders {
		for _, e := range d.Info().Extensions {
			if strings.EqualFold(e, ext) {
				return d, true
			}
		}
	}
	return nil, false
}

// ListRegistered returns all registered format names, sorted.
func (r *Registry) ListRegistered() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.decoders))
	for name := range r.decoders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AllFormatsInfo returns the info of every registered format, sorted by name.
func (r *Registry) AllFormatsInfo() []FormatInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]FormatInfo, 0, len(r.decoders))
	for _, d := range r.decoders {
		out = append(out, d.Info())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

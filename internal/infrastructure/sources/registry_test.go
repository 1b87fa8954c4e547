package sources

import (
	"errors"
	"reflect"
	"testing"

	"github.com/akave-ai/confprompt/internal/prompt"
)

type stubDecoder struct {
	name string
	info FormatInfo
}

func (d stubDecoder) Name() string    { return d.name }
func (d stubDecoder) Info() FormatInfo { return d.info }
func (d stubDecoder) Decode(data []byte) (*prompt.Mapping, error) {
	return prompt.NewMapping().Set("raw", prompt.String(string(data))), nil
}

func newStubRegistry() *Registry {
	reg := NewRegistry()
	reg.Register(stubDecoder{name: "toml", info: FormatInfo{Name: "toml", ContentTypes: []string{"application/toml"}, Extensions: []string{".toml"}}})
	reg.Register(stubDecoder{name: "INI", info: FormatInfo{Name: "ini", ContentTypes: []string{"text/plain"}, Extensions: []string{".ini", ".cfg"}}})
	return reg
}

func TestRegistry_DecodeByName(t *testing.T) {
	reg := newStubRegistry()

	m, err := reg.Decode("ini", []byte("a=1"))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	v, _ := m.Get("raw")
	if v != prompt.String("a=1") {
		t.Fatalf("expected raw value, got %#v", v)
	}

	if _, err := reg.Decode("xml", nil); !errors.Is(err, ErrUnknownFormat) {
		t.Fatalf("expected ErrUnknownFormat, got %v", err)
	}
}

func TestRegistry_Lookups(t *testing.T) {
	reg := newStubRegistry()

	if d, ok := reg.ForContentType("application/toml; charset=utf-8"); !ok || d.Name() != "toml" {
		t.Fatalf("content type lookup failed: %v %v", d, ok)
	}
	if _, ok := reg.ForContentType("application/json"); ok {
		t.Fatalf("unexpected decoder for application/json")
	}
	if _, ok := reg.ForContentType(""); ok {
		t.Fatalf("unexpected decoder for empty content type")
	}
	if d, ok := reg.ForPath("configs/app.CFG"); !ok || d.Name() != "INI" {
		t.Fatalf("path lookup failed: %v %v", d, ok)
	}
	if _, ok := reg.ForPath("Makefile"); ok {
		t.Fatalf("unexpected decoder for path without extension")
	}
}

func TestRegistry_Listing(t *testing.T) {
	reg := newStubRegistry()

	if got := reg.ListRegistered(); !reflect.DeepEqual(got, []string{"ini", "toml"}) {
		t.Fatalf("ListRegistered = %v", got)
	}
	infos := reg.AllFormatsInfo()
	if len(infos) != 2 || infos[0].Name != "ini" || infos[1].Name != "toml" {
		t.Fatalf("AllFormatsInfo = %+v", infos)
	}
}

package jsonsource

import (
	"testing"

	"github.com/akave-ai/confprompt/internal/infrastructure/sources"
	"github.com/akave-ai/confprompt/internal/prompt"
)

func TestJSONDecoder_RegisteredAndOrdered(t *testing.T) {
	reg := sources.NewRegistry()
	reg.Register(&Decoder{})

	d, ok := reg.ForContentType("application/json; charset=utf-8")
	if !ok {
		t.Fatalf("json decoder not found by content type")
	}
	m, err := d.Decode([]byte(`{"b": {"y": 1, "x": true}, "a": "z"}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	descs, err := prompt.Generate(m)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	want := []string{"b.y", "b.x", "a"}
	if len(descs) != len(want) {
		t.Fatalf("expected %d descriptors, got %d", len(want), len(descs))
	}
	for i, name := range want {
		if descs[i].Name != name {
			t.Fatalf("descriptor %d: expected %q, got %q", i, name, descs[i].Name)
		}
	}
}

func TestJSONDecoder_InGlobalRegistry(t *testing.T) {
	if _, ok := sources.GlobalRegistry.Get("json"); !ok {
		t.Fatalf("json decoder not registered in init")
	}
	if d, ok := sources.GlobalRegistry.ForPath("app.json"); !ok || d.Name() != "json" {
		t.Fatalf("json decoder not found by extension")
	}
}

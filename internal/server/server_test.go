package server

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/akave-ai/confprompt/internal/config"
	"github.com/akave-ai/confprompt/internal/infrastructure/sources"
	"github.com/akave-ai/confprompt/internal/infrastructure/sources/jsonsource"
	"github.com/akave-ai/confprompt/internal/prompt"
)

func testConfig() *config.Config {
	return &config.Config{
		Primary: config.Primary{Env: "test"},
		Server: config.ServerConfig{
			Port:               "0",
			ReadTimeout:        1,
			WriteTimeout:       1,
			IdleTimeout:        1,
			CORSAllowedOrigins: []string{"https://ui.example"},
		},
		Prompt: &config.PromptConfig{DefaultFormat: "json"},
	}
}

func TestServer_PromptsRoute(t *testing.T) {
	reg := sources.NewRegistry()
	reg.Register(&jsonsource.Decoder{})
	formatter, err := prompt.NewTemplateFormatter(`Enter {{ .Name }} ({{ .Type }}):`)
	if err != nil {
		t.Fatalf("formatter: %v", err)
	}

	srv := New(testConfig(), Deps{Logger: zerolog.Nop(), Sources: reg, Formatter: formatter})
	ts := httptest.NewServer(srv.Echo)
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/prompts", "application/json", strings.NewReader(`{"db":{"port":5432}}`))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected %d, got %d", http.StatusOK, resp.StatusCode)
	}

	var body bytes.Buffer
	if _, err := body.ReadFrom(resp.Body); err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(body.String(), `"message":"Enter db.port (number):"`) {
		t.Fatalf("custom formatter not applied: %s", body.String())
	}
}

func TestServer_OptionalRoutesNotMounted(t *testing.T) {
	srv := New(testConfig(), Deps{Logger: zerolog.Nop()})

	for _, path := range []string{"/templates", "/objects"} {
		rec := httptest.NewRecorder()
		srv.Echo.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusNotFound {
			t.Fatalf("%s: expected %d, got %d", path, http.StatusNotFound, rec.Code)
		}
	}

	rec := httptest.NewRecorder()
	srv.Echo.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"templates":false`) {
		t.Fatalf("healthz: %d %s", rec.Code, rec.Body.String())
	}
}

func TestServer_CORS(t *testing.T) {
	srv := New(testConfig(), Deps{Logger: zerolog.Nop()})

	req := httptest.NewRequest(http.MethodOptions, "/prompts", nil)
	req.Header.Set("Origin", "https://ui.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	srv.Echo.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://ui.example" {
		t.Fatalf("expected CORS origin header, got %q", got)
	}
}

package config

import (
	"os"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("CONFPROMPT_PRIMARY__ENV", "development")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Primary.Env)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 10, cfg.Server.ReadTimeout)
	assert.Nil(t, cfg.Database)
	assert.Nil(t, cfg.Storage)
	require.NotNil(t, cfg.Prompt)
	assert.Equal(t, "json", cfg.Prompt.DefaultFormat)
	require.NotNil(t, cfg.Observability)
	assert.Equal(t, DefaultServiceName, cfg.Observability.ServiceName)
	assert.Equal(t, "development", cfg.Observability.Environment)
	assert.Equal(t, zerolog.InfoLevel, cfg.Observability.GetLogLevel())
}

func TestLoadConfig_FromEnv(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("CONFPROMPT_PRIMARY__ENV", "production")
	t.Setenv("CONFPROMPT_SERVER__PORT", "9090")
	t.Setenv("CONFPROMPT_SERVER__CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("CONFPROMPT_DATABASE__HOST", "db")
	t.Setenv("CONFPROMPT_DATABASE__PORT", "5432")
	t.Setenv("CONFPROMPT_DATABASE__USER", "app")
	t.Setenv("CONFPROMPT_DATABASE__PASSWORD", "s3cr3t")
	t.Setenv("CONFPROMPT_DATABASE__NAME", "confprompt")
	t.Setenv("CONFPROMPT_DATABASE__SSL_MODE", "disable")
	t.Setenv("CONFPROMPT_DATABASE__MAX_OPEN_CONNS", "10")
	t.Setenv("CONFPROMPT_DATABASE__MAX_IDLE_CONNS", "2")
	t.Setenv("CONFPROMPT_DATABASE__CONN_MAX_LIFETIME", "300")
	t.Setenv("CONFPROMPT_DATABASE__CONN_MAX_IDLE_TIME", "60")
	t.Setenv("CONFPROMPT_PROMPT__DEFAULT_FORMAT", "yaml")
	t.Setenv("CONFPROMPT_OBSERVABILITY__LOGGING__LEVEL", "debug")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CORSAllowedOrigins)
	require.NotNil(t, cfg.Database)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "postgres://app:s3cr3t@db:5432/confprompt?sslmode=disable", cfg.Database.DSN())
	assert.Equal(t, "yaml", cfg.Prompt.DefaultFormat)
	assert.Equal(t, zerolog.DebugLevel, cfg.Observability.GetLogLevel())
	assert.True(t, cfg.Observability.IsProduction())
	assert.False(t, cfg.Observability.NewRelicEnabled())
}

func TestLoadConfig_InvalidDatabase(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("CONFPROMPT_DATABASE__HOST", "db")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestLoadConfig_InvalidLogLevel(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("CONFPROMPT_OBSERVABILITY__LOGGING__LEVEL", "loud")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestObservabilityConfig_Validate(t *testing.T) {
	c := DefaultObservabilityConfig()
	c.Logging.Level = ""
	require.NoError(t, c.Validate())
	assert.Equal(t, "info", c.Logging.Level)

	c.Logging.Level = "chatty"
	assert.Error(t, c.Validate())
}

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}

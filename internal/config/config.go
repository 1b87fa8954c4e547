package config

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "CONFPROMPT_"

type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	Server        ServerConfig         `koanf:"server" validate:"required"`
	Database      *DatabaseConfig      `koanf:"database" validate:"omitempty"`
	Storage       *StorageConfig       `koanf:"storage" validate:"omitempty"`
	Prompt        *PromptConfig        `koanf:"prompt" validate:"omitempty"`
	Observability *ObservabilityConfig `koanf:"observability" validate:"omitempty"`
}

type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

type ServerConfig struct {
	Port               string   `koanf:"port" validate:"required"`
	ReadTimeout        int      `koanf:"read_timeout" validate:"required,min=1"`
	WriteTimeout       int      `koanf:"write_timeout" validate:"required,min=1"`
	IdleTimeout        int      `koanf:"idle_timeout" validate:"required,min=1"`
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins"`
}

// DatabaseConfig is optional. Without it the template API is not mounted.
type DatabaseConfig struct {
	Host            string `koanf:"host" validate:"required"`
	Port            int    `koanf:"port" validate:"required"`
	User            string `koanf:"user" validate:"required"`
	Password        string `koanf:"password"`
	Name            string `koanf:"name" validate:"required"`
	SSLMode         string `koanf:"ssl_mode" validate:"required,oneof=disable allow prefer require verify-ca verify-full"`
	MaxOpenConns    int    `koanf:"max_open_conns" validate:"required"`
	MaxIdleConns    int    `koanf:"max_idle_conns" validate:"required"`
	ConnMaxLifetime int    `koanf:"conn_max_lifetime" validate:"required"`
	ConnMaxIdleTime int    `koanf:"conn_max_idle_time" validate:"required"`
}

// StorageConfig is optional. Without it the object API is not mounted.
type StorageConfig struct {
	O3 *O3Config `koanf:"o3" validate:"omitempty"`
}

// O3Config points at an S3-compatible bucket holding configuration documents.
type O3Config struct {
	Endpoint  string `koanf:"endpoint" validate:"required,url"`
	Region    string `koanf:"region"`
	AccessKey string `koanf:"access_key" validate:"required"`
	SecretKey string `koanf:"secret_key" validate:"required"`
	Bucket    string `koanf:"bucket" validate:"required"`
}

type PromptConfig struct {
	// DefaultFormat is used when a request names no format and sends no
	// recognised Content-Type.
	DefaultFormat string `koanf:"default_format" validate:"required"`
	// MessageTemplate replaces the built-in messages when set. It is a
	// text/template over .Type and .Name.
	MessageTemplate string `koanf:"message_template"`
}

// DSN returns a postgres connection URL.
func (c *DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.User, c.Password),
		Host:   net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
		Path:   "/" + c.Name,
	}
	q := u.Query()
	q.Set("sslmode", c.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}

// LoadConfig loads an optional .env file, then CONFPROMPT_* environment
// variables. A double underscore separates nesting levels, e.g.
// CONFPROMPT_SERVER__PORT or CONFPROMPT_DATABASE__SSL_MODE.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	err := k.Load(env.ProviderWithValue(envPrefix, ".", func(key, value string) (string, interface{}) {
		key = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(key, envPrefix)), "__", ".")
		if strings.HasSuffix(key, "cors_allowed_origins") {
			return key, splitList(value)
		}
		return key, value
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("could not load env variables: %w", err)
	}

	mainConfig := &Config{}
	if err := k.Unmarshal("", mainConfig); err != nil {
		return nil, fmt.Errorf("could not unmarshal config: %w", err)
	}
	mainConfig.applyDefaults()

	if err := validator.New().Struct(mainConfig); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	// Observability is a pointer so an absent section can be told apart
	// from an empty one.
	if mainConfig.Observability == nil {
		mainConfig.Observability = DefaultObservabilityConfig()
	}
	if mainConfig.Observability.ServiceName == "" {
		mainConfig.Observability.ServiceName = DefaultServiceName
	}
	mainConfig.Observability.Environment = mainConfig.Primary.Env

	if err := mainConfig.Observability.Validate(); err != nil {
		return nil, fmt.Errorf("invalid observability config: %w", err)
	}
	return mainConfig, nil
}

func (c *Config) applyDefaults() {
	if c.Primary.Env == "" {
		c.Primary.Env = "local"
	}
	if c.Server.Port == "" {
		c.Server.Port = "8080"
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 10
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 10
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 60
	}
	if c.Prompt == nil {
		c.Prompt = &PromptConfig{}
	}
	if c.Prompt.DefaultFormat == "" {
		c.Prompt.DefaultFormat = "json"
	}
	if c.Storage != nil && c.Storage.O3 != nil && c.Storage.O3.Region == "" {
		c.Storage.O3.Region = "us-east-1"
	}
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

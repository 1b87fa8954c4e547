package config

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

const DefaultServiceName = "confprompt"

type ObservabilityConfig struct {
	ServiceName string         `koanf:"service_name"`
	Environment string         `koanf:"environment"`
	Logging     LoggingConfig  `koanf:"logging"`
	NewRelic    NewRelicConfig `koanf:"new_relic"`
}

type LoggingConfig struct {
	Level string `koanf:"level"`
}

type NewRelicConfig struct {
	LicenseKey              string `koanf:"license_key"`
	AppLogForwardingEnabled bool   `koanf:"app_log_forwarding_enabled"`
}

func DefaultObservabilityConfig() *ObservabilityConfig {
	return &ObservabilityConfig{
		ServiceName: DefaultServiceName,
		Environment: "local",
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Validate fills an empty log level and rejects unknown ones.
func (c *ObservabilityConfig) Validate() error {
	if c.ServiceName == "" {
		return fmt.Errorf("service_name is required")
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if _, err := zerolog.ParseLevel(strings.ToLower(c.Logging.Level)); err != nil {
		return fmt.Errorf("invalid logging level %q: %w", c.Logging.Level, err)
	}
	return nil
}

func (c *ObservabilityConfig) GetLogLevel() zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(c.Logging.Level))
	if err != nil || c.Logging.Level == "" {
		return zerolog.InfoLevel
	}
	return lvl
}

func (c *ObservabilityConfig) IsProduction() bool {
	return c.Environment == "production"
}

// NewRelicEnabled reports whether a New Relic license key is configured.
func (c *ObservabilityConfig) NewRelicEnabled() bool {
	return c.NewRelic.LicenseKey != ""
}

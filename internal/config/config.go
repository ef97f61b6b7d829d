// Package config reads the service configuration from the environment.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds every knob of the HTTP service. Command-line flags override
// the parsed values.
type Config struct {
	Addr         string        `env:"LEADFORM_ADDR" envDefault:":8080"`
	BasePath     string        `env:"LEADFORM_BASE_PATH" envDefault:"/"`
	LogLevel     string        `env:"LEADFORM_LOG_LEVEL" envDefault:"INFO"`
	LogFormat    string        `env:"LEADFORM_LOG_FORMAT" envDefault:"CONSOLE"`
	UISchemaDir  string        `env:"LEADFORM_UI_SCHEMA_DIR"`
	SessionTTL   time.Duration `env:"LEADFORM_SESSION_TTL" envDefault:"30m"`
	MaxSessions  int           `env:"LEADFORM_MAX_SESSIONS" envDefault:"10000"`
	MaxPending   int           `env:"LEADFORM_MAX_PENDING_SESSIONS" envDefault:"10000"`
	ThemeVariant string        `env:"LEADFORM_THEME_VARIANT"`
	MetricsPath  string        `env:"LEADFORM_METRICS_PATH" envDefault:"/metrics"`
}

// ParseEnv populates target from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load parses Config from the environment and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects values the service cannot start with.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return fmt.Errorf("config: LEADFORM_ADDR is required")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("config: LEADFORM_SESSION_TTL must be positive, got %s", c.SessionTTL)
	}
	if c.MaxSessions <= 0 {
		return fmt.Errorf("config: LEADFORM_MAX_SESSIONS must be positive, got %d", c.MaxSessions)
	}
	if c.MaxPending <= 0 {
		return fmt.Errorf("config: LEADFORM_MAX_PENDING_SESSIONS must be positive, got %d", c.MaxPending)
	}
	if c.MetricsPath != "" && !strings.HasPrefix(c.MetricsPath, "/") {
		return fmt.Errorf("config: LEADFORM_METRICS_PATH must start with /, got %q", c.MetricsPath)
	}
	return nil
}

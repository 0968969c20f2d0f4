// Package config reads runtime settings from the environment.
package config

import (
	"fmt"
	"log/slog"

	"github.com/caarlos0/env/v11"
)

// Config holds the settings shared by the CLI and the TUI. Command-line
// flags override them in cmd/stoneend.
type Config struct {
	LogLevel  slog.Level `env:"STONEEND_LOG_LEVEL" envDefault:"warn"`
	LogFormat string     `env:"STONEEND_LOG_FORMAT" envDefault:"text"`
	LineWidth int        `env:"STONEEND_LINE_WIDTH" envDefault:"90"`
	Indent    int        `env:"STONEEND_INDENT" envDefault:"4"`
	Debug     bool       `env:"STONEEND_DEBUG" envDefault:"false"`
}

// Load parses the process environment.
func Load() (*Config, error) {
	return parse(env.Options{})
}

// LoadFrom parses the given variables instead of the process environment.
func LoadFrom(environ map[string]string) (*Config, error) {
	return parse(env.Options{Environment: environ})
}

func parse(opts env.Options) (*Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the values env cannot check by type alone.
func (c *Config) Validate() error {
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("STONEEND_LOG_FORMAT must be text or json, got %q", c.LogFormat)
	}
	if c.LineWidth < 20 {
		return fmt.Errorf("STONEEND_LINE_WIDTH must be at least 20, got %d", c.LineWidth)
	}
	if c.Indent < 0 || c.Indent > c.LineWidth/2 {
		return fmt.Errorf("STONEEND_INDENT must be between 0 and %d, got %d", c.LineWidth/2, c.Indent)
	}
	return nil
}

// Package config reads process configuration from the environment.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds the settings shared by every command.
type Config struct {
	LogLevel       string `env:"KRIPKE_LOG_LEVEL"        envDefault:"info"`
	LogFormat      string `env:"KRIPKE_LOG_FORMAT"       envDefault:"console"`
	TraceExporter  string `env:"KRIPKE_TRACE_EXPORTER"   envDefault:"none"`
	DBPath         string `env:"KRIPKE_DB"`
	MaxSolveWorlds int    `env:"KRIPKE_MAX_SOLVE_WORLDS" envDefault:"16"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load returns the environment configuration, validated.
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

// Validate rejects values no command can work with.
func (c Config) Validate() error {
	switch c.LogFormat {
	case "console", "json":
	default:
		return fmt.Errorf("invalid log format %q", c.LogFormat)
	}
	switch c.TraceExporter {
	case "none", "stdout":
	default:
		return fmt.Errorf("invalid trace exporter %q", c.TraceExporter)
	}
	if c.MaxSolveWorlds < 0 {
		return fmt.Errorf("max solve worlds must not be negative, got %d", c.MaxSolveWorlds)
	}
	return nil
}

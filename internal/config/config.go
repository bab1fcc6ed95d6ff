// Package config loads process-wide defaults from the environment.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"

	"github.com/roach88/lottery/internal/evaluate"
)

// LogConfig controls diagnostic logging.
type LogConfig struct {
	Level    string `env:"LEVEL" envDefault:"warn" validate:"oneof=debug info warn error"`
	Encoding string `env:"ENCODING" envDefault:"console" validate:"oneof=console json"`
}

// Config holds evaluation defaults. Command-line flags override it.
type Config struct {
	Tolerance     float64   `env:"LOTTERY_TOLERANCE" envDefault:"1e-6" validate:"gt=0,lt=1"`
	Precision     float64   `env:"LOTTERY_PRECISION" envDefault:"0.1" validate:"gt=0"`
	MaxIterations int       `env:"LOTTERY_MAX_ITERATIONS" envDefault:"200" validate:"gte=1"`
	Log           LogConfig `envPrefix:"LOTTERY_LOG_"`
}

var validate = validator.New()

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load reads Config from the environment and validates it.
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

// Validate checks value ranges.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Evaluator returns an evaluator using the configured tolerances.
func (c Config) Evaluator() evaluate.Evaluator {
	return evaluate.Evaluator{
		Tolerance:     c.Tolerance,
		Precision:     c.Precision,
		MaxIterations: c.MaxIterations,
	}
}

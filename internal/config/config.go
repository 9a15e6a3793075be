// Package config loads settings for the comparison tool from a YAML file
// and EXRNG_* environment variables.
package config

import (
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"exrng"
	"exrng/internal/generator"
)

// Config holds benchmark settings. Later sources override earlier ones:
// defaults, file, environment, then command-line flags applied by the
// caller.
type Config struct {
	Runs        int      `yaml:"runs" env:"EXRNG_RUNS"`
	SizeBytes   int      `yaml:"size_bytes" env:"EXRNG_SIZE_BYTES"`
	Concurrency int      `yaml:"concurrency" env:"EXRNG_CONCURRENCY"`
	OutputDir   string   `yaml:"output_dir" env:"EXRNG_OUTPUT_DIR"`
	SampleRuns  int      `yaml:"sample_runs" env:"EXRNG_SAMPLE_RUNS"`
	SampleBytes int      `yaml:"sample_bytes" env:"EXRNG_SAMPLE_BYTES"`
	Generators  []string `yaml:"generators" env:"EXRNG_GENERATORS" envSeparator:","`

	// SeedHex is the hex-encoded buffer handed to seeded generators,
	// including the external buffer. At most exrng.Capacity bytes.
	SeedHex string `yaml:"seed_hex" env:"EXRNG_SEED_HEX"`

	LogLevel string `yaml:"log_level" env:"EXRNG_LOG_LEVEL"`
}

// Default returns the built-in settings: 1000 runs of 1 MiB per generator.
func Default() *Config {
	return &Config{
		Runs:        1000,
		SizeBytes:   1024 * 1024,
		Concurrency: 10,
		OutputDir:   "output",
		SampleRuns:  10,
		SampleBytes: 10000,
		Generators:  generator.Names(),
		SeedHex:     strings.Repeat("01", exrng.Capacity),
		LogLevel:    "info",
	}
}

// Load returns defaults overlaid with the file at path (skipped when path
// is empty) and the environment.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if err := cfg.LoadFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile overlays the YAML file at path. Environment variables in the
// file are expanded before parsing.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	data = []byte(os.ExpandEnv(string(data)))

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	return nil
}

// ApplyEnv overlays EXRNG_* environment variables.
func (c *Config) ApplyEnv() error {
	if err := env.Parse(c); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Seed decodes SeedHex.
func (c *Config) Seed() ([]byte, error) {
	seed, err := hex.DecodeString(strings.TrimSpace(c.SeedHex))
	if err != nil {
		return nil, fmt.Errorf("decoding seed_hex: %w", err)
	}
	return seed, nil
}

// Level parses LogLevel.
func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("invalid log_level %q: %w", c.LogLevel, err)
	}
	return level, nil
}

// Validate reports every invalid setting.
func (c *Config) Validate() error {
	var errs []error
	if c.Runs <= 0 {
		errs = append(errs, fmt.Errorf("runs must be positive, got %d", c.Runs))
	}
	if c.SizeBytes <= 0 {
		errs = append(errs, fmt.Errorf("size_bytes must be positive, got %d", c.SizeBytes))
	}
	if c.Concurrency <= 0 {
		errs = append(errs, fmt.Errorf("concurrency must be positive, got %d", c.Concurrency))
	}
	if c.SampleRuns < 0 || c.SampleBytes < 0 {
		errs = append(errs, errors.New("sample_runs and sample_bytes must not be negative"))
	}
	if len(c.Generators) == 0 {
		errs = append(errs, errors.New("at least one generator is required"))
	}
	for _, name := range c.Generators {
		if !generator.Known(name) {
			errs = append(errs, fmt.Errorf("unknown generator %q (known: %s)", name, strings.Join(generator.Names(), ", ")))
		}
	}
	if seed, err := c.Seed(); err != nil {
		errs = append(errs, err)
	} else if len(seed) > exrng.Capacity {
		errs = append(errs, fmt.Errorf("seed_hex holds %d bytes: %w", len(seed), exrng.ErrLengthExceedsCapacity))
	}
	if _, err := c.Level(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

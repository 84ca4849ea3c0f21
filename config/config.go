// Package config loads the runtime configuration of the hit tester and the
// paint cascades from a YAML file and MAPSTYLE_* environment variables.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/gogpu/mapstyle/query"
	"github.com/gogpu/mapstyle/style"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "MAPSTYLE_"

// ErrInvalidConfig is returned when the configuration cannot be read or
// fails validation.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config is the runtime configuration.
type Config struct {
	// Workers is the hit-test pool size; 0 selects GOMAXPROCS.
	Workers int `yaml:"workers" env:"WORKERS" validate:"gte=0,lte=1024"`

	// ChunkSize is the number of features tested per unit of pool work.
	ChunkSize int `yaml:"chunk_size" env:"CHUNK_SIZE" validate:"gte=1"`

	// SnapshotCacheSize bounds the converged snapshots kept per layer; 0
	// keeps only the latest one.
	SnapshotCacheSize int `yaml:"snapshot_cache_size" env:"SNAPSHOT_CACHE_SIZE" validate:"gte=0"`

	// TransitionDuration and TransitionDelay apply to properties whose
	// document sets no transition.
	TransitionDuration time.Duration `yaml:"transition_duration" env:"TRANSITION_DURATION" validate:"gte=0"`
	TransitionDelay    time.Duration `yaml:"transition_delay" env:"TRANSITION_DELAY" validate:"gte=0"`

	LogLevel string `yaml:"log_level" env:"LOG_LEVEL" validate:"oneof=debug info warn error"`
}

var validate = validator.New()

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		ChunkSize:          query.DefaultChunkSize,
		SnapshotCacheSize:  style.DefaultSnapshotCacheSize,
		TransitionDuration: style.DefaultTransition.Duration,
		TransitionDelay:    style.DefaultTransition.Delay,
		LogLevel:           "warn",
	}
}

// Load reads the file at path (skipped when path is empty) over the
// defaults, then applies environment overrides and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
		if err := decode(data, &cfg); err != nil {
			return Config{}, err
		}
	}
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return Config{}, fmt.Errorf("%w: parse env: %w", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func decode(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// Validate checks field ranges.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// Transition returns the default transition.
func (c Config) Transition() style.TransitionSpec {
	return style.TransitionSpec{Duration: c.TransitionDuration, Delay: c.TransitionDelay}
}

// CascadeOptions returns the options for every layer's cascade.
func (c Config) CascadeOptions() []style.CascadeOption {
	return []style.CascadeOption{
		style.WithDefaultTransition(c.Transition()),
		style.WithSnapshotCacheSize(c.SnapshotCacheSize),
	}
}

// HitTesterOptions returns the options for query.NewHitTester.
func (c Config) HitTesterOptions() []query.Option {
	return []query.Option{
		query.WithWorkers(c.Workers),
		query.WithChunkSize(c.ChunkSize),
	}
}

// Level returns LogLevel as a slog level.
func (c Config) Level() slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelWarn
	}
	return l
}

// NewLogger returns a text logger writing to w at the configured level.
func (c Config) NewLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: c.Level()}))
}

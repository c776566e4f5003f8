// Package options provides functional options for configuring Tracker instances.
package options

import (
	"errors"
	"io"
	"log/slog"

	"github.com/botirk38/rankturbulence/backends"
	"github.com/botirk38/rankturbulence/divergence"
	"github.com/botirk38/rankturbulence/tokenizer"
	"github.com/botirk38/rankturbulence/types"
)

// DefaultAlpha is the inverse temperature used when none is configured.
const DefaultAlpha = 1.0

// Option represents a configuration option for Tracker
type Option[E comparable] func(*Config[E]) error

// Config holds the configuration for building a Tracker
type Config[E comparable] struct {
	Backend   types.SnapshotBackend[E]
	Tokenizer types.Tokenizer
	Alpha     float64
	Logger    *slog.Logger
}

// NewConfig creates a new configuration with default values
func NewConfig[E comparable]() *Config[E] {
	return &Config[E]{
		Tokenizer: tokenizer.NewWordTokenizer(),
		Alpha:     DefaultAlpha,
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// Apply applies all the given options to the config
func (c *Config[E]) Apply(opts ...Option[E]) error {
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks if the configuration is valid
func (c *Config[E]) Validate() error {
	if c.Backend == nil {
		return errors.New("backend is required - use WithLRUBackend, WithRedisBackend, etc.")
	}
	if err := divergence.ValidateAlpha(c.Alpha); err != nil {
		return err
	}
	if c.Logger == nil {
		return errors.New("logger cannot be nil")
	}
	return nil
}

// WithLRUBackend keeps up to capacity snapshots in memory
func WithLRUBackend[E comparable](capacity int) Option[E] {
	return func(cfg *Config[E]) error {
		backend, err := backends.NewLRUBackend[E](types.BackendConfig{
			Capacity: capacity,
		})
		if err != nil {
			return err
		}
		cfg.Backend = backend
		return nil
	}
}

// WithRedisBackend stores snapshots as Redis sorted sets
func WithRedisBackend[E comparable](addr string, db int) Option[E] {
	return func(cfg *Config[E]) error {
		backend, err := backends.NewRedisBackend[E](types.BackendConfig{
			ConnectionString: addr,
			Database:         db,
		})
		if err != nil {
			return err
		}
		cfg.Backend = backend
		return nil
	}
}

// WithBackendConfig builds the backend through the factory
func WithBackendConfig[E comparable](backendType types.BackendType, config types.BackendConfig) Option[E] {
	return func(cfg *Config[E]) error {
		factory := &backends.BackendFactory[E]{}
		backend, err := factory.NewBackend(backendType, config)
		if err != nil {
			return err
		}
		cfg.Backend = backend
		return nil
	}
}

// WithCustomBackend allows using a pre-configured backend
func WithCustomBackend[E comparable](backend types.SnapshotBackend[E]) Option[E] {
	return func(cfg *Config[E]) error {
		if backend == nil {
			return errors.New("backend cannot be nil")
		}
		cfg.Backend = backend
		return nil
	}
}

// WithAlpha sets the default inverse temperature used by Compare
func WithAlpha[E comparable](alpha float64) Option[E] {
	return func(cfg *Config[E]) error {
		if err := divergence.ValidateAlpha(alpha); err != nil {
			return err
		}
		cfg.Alpha = alpha
		return nil
	}
}

// WithWordTokenizer splits recorded text into words
func WithWordTokenizer[E comparable](preserveCase bool) Option[E] {
	return func(cfg *Config[E]) error {
		tok := tokenizer.NewWordTokenizer()
		tok.PreserveCase = preserveCase
		cfg.Tokenizer = tok
		return nil
	}
}

// WithTiktokenTokenizer splits recorded text into BPE tokens
func WithTiktokenTokenizer[E comparable](encoding string) Option[E] {
	return func(cfg *Config[E]) error {
		tok, err := tokenizer.NewTiktokenTokenizer(encoding)
		if err != nil {
			return err
		}
		cfg.Tokenizer = tok
		return nil
	}
}

// WithCustomTokenizer allows using any Tokenizer
func WithCustomTokenizer[E comparable](tok types.Tokenizer) Option[E] {
	return func(cfg *Config[E]) error {
		if tok == nil {
			return errors.New("tokenizer cannot be nil")
		}
		cfg.Tokenizer = tok
		return nil
	}
}

// WithLogger sets the logger for backend operations
func WithLogger[E comparable](logger *slog.Logger) Option[E] {
	return func(cfg *Config[E]) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		cfg.Logger = logger
		return nil
	}
}

// Package config loads Tracker settings from a YAML file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/botirk38/rankturbulence/options"
	"github.com/botirk38/rankturbulence/types"
)

// DefaultCapacity is the LRU capacity used when the file does not set one.
const DefaultCapacity = 128

// File is the top-level structure of a rankturbulence YAML file.
type File struct {
	Alpha     float64         `yaml:"alpha"`
	Backend   BackendConfig   `yaml:"backend"`
	Tokenizer TokenizerConfig `yaml:"tokenizer"`
}

// BackendConfig selects and configures the snapshot backend.
type BackendConfig struct {
	Type             types.BackendType `yaml:"type"`
	Capacity         int               `yaml:"capacity"`
	ConnectionString string            `yaml:"connection_string"`
	Username         string            `yaml:"username"`
	Password         string            `yaml:"password"`
	Database         int               `yaml:"database"`
	Prefix           string            `yaml:"prefix"`
}

// TokenizerConfig selects the tokenizer used by RecordText.
type TokenizerConfig struct {
	Type         types.TokenizerType `yaml:"type"`
	Encoding     string              `yaml:"encoding"`
	PreserveCase bool                `yaml:"preserve_case"`
}

// Default returns the settings used for anything a file leaves unset.
func Default() *File {
	return &File{
		Alpha: options.DefaultAlpha,
		Backend: BackendConfig{
			Type:     types.BackendLRU,
			Capacity: DefaultCapacity,
		},
		Tokenizer: TokenizerConfig{
			Type: types.TokenizerWords,
		},
	}
}

// Load reads and parses the YAML file at path.
func Load(path string) (*File, error) {
	// #nosec G304 -- path is supplied by the caller
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse parses YAML config data and fills in defaults.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return mergeWithDefaults(&f), nil
}

// mergeWithDefaults fills in missing values from Default.
func mergeWithDefaults(f *File) *File {
	def := Default()

	if f.Alpha == 0 {
		f.Alpha = def.Alpha
	}
	if f.Backend.Type == "" {
		f.Backend.Type = def.Backend.Type
	}
	if f.Backend.Type == types.BackendLRU && f.Backend.Capacity == 0 {
		f.Backend.Capacity = def.Backend.Capacity
	}
	if f.Tokenizer.Type == "" {
		f.Tokenizer.Type = def.Tokenizer.Type
	}

	return f
}

// Options converts the file into Tracker options.
func Options[E comparable](f *File) ([]options.Option[E], error) {
	if f == nil {
		f = Default()
	}

	backendCfg := types.BackendConfig{
		Capacity:         f.Backend.Capacity,
		ConnectionString: f.Backend.ConnectionString,
		Username:         f.Backend.Username,
		Password:         f.Backend.Password,
		Database:         f.Backend.Database,
	}
	if f.Backend.Prefix != "" {
		backendCfg.Options = map[string]any{"prefix": f.Backend.Prefix}
	}

	opts := []options.Option[E]{
		options.WithAlpha[E](f.Alpha),
		options.WithBackendConfig[E](f.Backend.Type, backendCfg),
	}

	switch f.Tokenizer.Type {
	case types.TokenizerWords:
		opts = append(opts, options.WithWordTokenizer[E](f.Tokenizer.PreserveCase))
	case types.TokenizerTiktoken:
		opts = append(opts, options.WithTiktokenTokenizer[E](f.Tokenizer.Encoding))
	default:
		return nil, fmt.Errorf("unsupported tokenizer type %q", f.Tokenizer.Type)
	}

	return opts, nil
}

// Package config loads and saves asciiwipe configuration files.
//
// A file is TOML or YAML, chosen by its extension. Keys missing from the
// file keep the values of [Default], so a file only needs to name what it
// changes:
//
//	# asciiwipe.toml
//	cache = "redis://localhost:6379/0"
//
//	[animation]
//	text = ["hello", "world"]
//	direction = "down"
//	loop = true
package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/asciiwipe/pkg/errors"
	"github.com/matzehuels/asciiwipe/pkg/pipeline"
)

// Format is a configuration file encoding.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// DefaultAddr is the listen address of the HTTP server.
const DefaultAddr = ":8080"

// Config is the contents of a configuration file.
type Config struct {
	// Animation holds the pipeline and playback settings.
	Animation pipeline.Options `toml:"animation" yaml:"animation"`

	// Cache is a cache target as accepted by cache.Open. Empty means the
	// default file cache.
	Cache string `toml:"cache,omitempty" yaml:"cache,omitempty"`

	// FontDirs are searched for .flf files before the built-in fonts.
	FontDirs []string `toml:"font_dirs,omitempty" yaml:"font_dirs,omitempty"`

	// Addr is the listen address used by serve.
	Addr string `toml:"addr,omitempty" yaml:"addr,omitempty"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Animation: pipeline.Options{
			Direction:        pipeline.DefaultDirection,
			Characters:       pipeline.DefaultCharacters,
			CharacterSpacing: pipeline.DefaultSpacing,
			DelayMS:          pipeline.DefaultDelayMS,
			IntervalMS:       pipeline.DefaultIntervalMS,
			SpeedMS:          pipeline.DefaultSpeedMS,
			Iterations:       pipeline.DefaultIterations,
		},
		Addr: DefaultAddr,
	}
}

// FormatOf returns the format implied by the file extension of path.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", errors.New(errors.ErrCodeInvalidConfig, "unsupported config file %q (want .toml, .yaml or .yml)", path)
}

// Load reads the file at path over Default.
func Load(path string) (*Config, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file not found: %s", path)
		}
		return nil, err
	}
	return Decode(data, format)
}

// Decode parses data over Default.
func Decode(data []byte, format Format) (*Config, error) {
	cfg := Default()
	var err error
	switch format {
	case FormatTOML:
		_, err = toml.Decode(string(data), cfg)
	case FormatYAML:
		err = yaml.Unmarshal(data, cfg)
	default:
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown config format %q", format)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s config", format)
	}
	return cfg, nil
}

// Encode serializes cfg in the given format.
func Encode(cfg *Config, format Format) ([]byte, error) {
	switch format {
	case FormatTOML:
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case FormatYAML:
		return yaml.Marshal(cfg)
	}
	return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown config format %q", format)
}

// Save writes cfg to path in the format implied by its extension.
func Save(path string, cfg *Config) error {
	format, err := FormatOf(path)
	if err != nil {
		return err
	}
	data, err := Encode(cfg, format)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}

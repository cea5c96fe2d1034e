package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/typestub/typestub/internal/version"
)

// ConfigFileName is looked up in the working directory when no explicit
// config path is given.
const ConfigFileName = "typestub.yaml"

// SourceFileExtensions are all recognized stub file extensions
var SourceFileExtensions = []string{".pyi", ".pytd"}

// DefaultTargetVersion is used when neither the config file nor the
// command line names a target.
var DefaultTargetVersion = version.Version{3, 8}

// Config holds the tool-level settings loaded from typestub.yaml.
type Config struct {
	// TargetVersion is the version the conditional resolver evaluates
	// guards against, e.g. "3.8".
	TargetVersion string `yaml:"target_version"`

	// Extensions overrides SourceFileExtensions when non-empty.
	Extensions []string `yaml:"extensions"`

	Cache CacheConfig `yaml:"cache"`
}

// CacheConfig controls the parse cache.
type CacheConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		TargetVersion: DefaultTargetVersion.String(),
		Cache: CacheConfig{
			Path: ".typestub-cache.db",
		},
	}
}

// Load reads a config file, falling back to Default when the file does
// not exist.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if _, err := cfg.Target(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Target parses the configured target version.
func (c *Config) Target() (version.Version, error) {
	if c.TargetVersion == "" {
		return DefaultTargetVersion, nil
	}
	return version.Parse(c.TargetVersion)
}

// IsSourceFile checks if a file has a recognized stub extension.
func (c *Config) IsSourceFile(path string) bool {
	exts := c.Extensions
	if len(exts) == 0 {
		exts = SourceFileExtensions
	}
	for _, ext := range exts {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/gnana997/jsxtract/pkg/parser"
	"github.com/gnana997/jsxtract/pkg/refactor"
)

// DefaultPath is where project configuration is looked up, relative to the
// working directory.
const DefaultPath = ".jsxtract/config.yaml"

// Config holds the contents of .jsxtract/config.yaml.
type Config struct {
	Version string `yaml:"version"`

	// Plugins lists the syntax dialects the parser should accept.
	Plugins []string `yaml:"plugins"`

	// Style selects the generated component shape: function,
	// arrowFunction or class.
	Style string `yaml:"style"`

	// Include and Exclude override workspace scan patterns.
	Include []string `yaml:"include"`
	Exclude []string `yaml:"exclude"`

	LogLevel string `yaml:"log_level"`
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	dialects := parser.DefaultDialects()
	plugins := make([]string, len(dialects))
	for i, d := range dialects {
		plugins[i] = string(d)
	}
	return &Config{
		Plugins: plugins,
		Style:   string(refactor.StyleFunction),
	}
}

// Load reads a config file. A missing file is not an error; it returns
// (nil, nil) so callers can fall back to Default.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	return &cfg, nil
}

// LoadOrDefault reads path, falling back to Default when the file is absent.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return Default(), nil
	}
	return cfg, nil
}

// Dialects maps the configured plugin names to parser dialects. Unknown
// names are returned separately so the caller can log them; they never
// abort loading.
func (c *Config) Dialects() ([]parser.Dialect, []string) {
	var dialects []parser.Dialect
	var unknown []string
	for _, name := range c.Plugins {
		d, ok := parser.ParseDialect(name)
		if !ok {
			unknown = append(unknown, name)
			continue
		}
		dialects = append(dialects, d)
	}
	return dialects, unknown
}

// ComponentStyle returns the configured output style, defaulting to
// function components.
func (c *Config) ComponentStyle() refactor.Style {
	return refactor.ParseStyle(c.Style)
}

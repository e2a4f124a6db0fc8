// Package config loads .ftc.yaml.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/chriserin/ftc/internal/outline"
	"github.com/chriserin/ftc/internal/source"
)

// FileName is looked up in the working directory.
const FileName = ".ftc.yaml"

type Config struct {
	FeaturesDir      string   `yaml:"features_dir"`
	Include          []string `yaml:"include"`
	Exclude          []string `yaml:"exclude,omitempty"`
	Tags             string   `yaml:"tags,omitempty"`
	MaxExamples      int      `yaml:"max_examples"`
	FormatDocStrings *bool    `yaml:"format_docstrings"`
	Database         string   `yaml:"database,omitempty"`
	StrictKeywords   bool     `yaml:"strict_keywords,omitempty"`
}

func Default() *Config {
	format := true
	return &Config{
		FeaturesDir:      "features",
		Include:          []string{source.DefaultInclude},
		MaxExamples:      outline.DefaultMaxScenarios,
		FormatDocStrings: &format,
	}
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.FeaturesDir == "" {
		return errors.New("features_dir must not be empty")
	}
	if c.MaxExamples < 0 {
		return fmt.Errorf("max_examples must not be negative, got %d", c.MaxExamples)
	}
	if len(c.Include) == 0 {
		c.Include = []string{source.DefaultInclude}
	}
	return nil
}

// DatabasePath is the catalog location, defaulting to ftc.db in the
// features directory.
func (c *Config) DatabasePath() string {
	if c.Database != "" {
		return c.Database
	}
	return filepath.Join(c.FeaturesDir, "ftc.db")
}

// FormatsDocStrings reports whether doc string content is reformatted.
func (c *Config) FormatsDocStrings() bool {
	return c.FormatDocStrings == nil || *c.FormatDocStrings
}

// Write saves c to path as YAML.
func (c *Config) Write(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

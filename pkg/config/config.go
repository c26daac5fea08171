package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config holds all configuration options for classpairs.
type Config struct {
	// Analysis settings
	Analysis AnalysisConfig `koanf:"analysis"`

	// File exclusion patterns
	Exclude ExcludeConfig `koanf:"exclude"`

	// Output settings
	Output OutputConfig `koanf:"output"`
}

// AnalysisConfig controls how source units are processed.
type AnalysisConfig struct {
	// MaxFileSize skips files larger than this many bytes. Zero disables
	// the size filter.
	MaxFileSize int64 `koanf:"max_file_size"`

	// Workers caps parallel parsing. Zero picks a default from CPU count.
	Workers int `koanf:"workers"`
}

// ExcludeConfig defines file exclusion patterns.
type ExcludeConfig struct {
	Patterns   []string `koanf:"patterns"`
	Extensions []string `koanf:"extensions"`
	Dirs       []string `koanf:"dirs"`
	Gitignore  bool     `koanf:"gitignore"`
}

// OutputConfig controls report placement and formatting.
type OutputConfig struct {
	Dir     string `koanf:"dir"`
	Format  string `koanf:"format"` // text, json, markdown
	Color   bool   `koanf:"color"`
	Verbose bool   `koanf:"verbose"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Analysis: AnalysisConfig{
			MaxFileSize: 0,
			Workers:     0,
		},
		Exclude: ExcludeConfig{
			Patterns: []string{
				"*.min.js",
			},
			Extensions: []string{
				".lock",
			},
			Dirs: []string{
				"vendor",
				"node_modules",
				".git",
				"dist",
				"build",
				"__pycache__",
			},
			Gitignore: true,
		},
		Output: OutputConfig{
			Dir:     "class_pairs",
			Format:  "text",
			Color:   true,
			Verbose: false,
		},
	}
}

// Load loads configuration from a file.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	// Determine parser based on extension
	var parser koanf.Parser
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".toml":
		parser = toml.Parser()
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		parser = toml.Parser()
	}

	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadOrDefault tries to load config from standard locations or returns defaults.
func LoadOrDefault() *Config {
	configNames := []string{
		"classpairs.toml",
		"classpairs.yaml",
		"classpairs.yml",
		"classpairs.json",
		".classpairs.toml",
		".classpairs.yaml",
		".classpairs.yml",
		".classpairs.json",
	}

	for _, name := range configNames {
		if _, err := os.Stat(name); err == nil {
			cfg, err := Load(name)
			if err == nil {
				return cfg
			}
		}
	}

	return DefaultConfig()
}

// ShouldExclude checks if a path should be excluded from analysis.
func (c *Config) ShouldExclude(path string) bool {
	for _, dir := range c.Exclude.Dirs {
		if strings.Contains(path, string(filepath.Separator)+dir+string(filepath.Separator)) ||
			strings.HasPrefix(path, dir+string(filepath.Separator)) {
			return true
		}
	}

	ext := filepath.Ext(path)
	for _, excludeExt := range c.Exclude.Extensions {
		if ext == excludeExt {
			return true
		}
	}

	base := filepath.Base(path)
	for _, pattern := range c.Exclude.Patterns {
		if matched, _ := filepath.Match(pattern, base); matched {
			return true
		}
	}

	return false
}

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config holds all configuration options for tsorder.
type Config struct {
	// Which files count as source units
	Source SourceConfig `koanf:"source" toml:"source"`

	// How class declarations are found
	Extract ExtractConfig `koanf:"extract" toml:"extract"`

	// File exclusion patterns
	Exclude ExcludeConfig `koanf:"exclude" toml:"exclude"`

	// Reference manifest rendering
	Manifest ManifestConfig `koanf:"manifest" toml:"manifest"`

	// Downstream compiler invocation
	Build BuildConfig `koanf:"build" toml:"build"`

	// Descriptor cache settings
	Cache CacheConfig `koanf:"cache" toml:"cache"`

	// Output settings
	Output OutputConfig `koanf:"output" toml:"output"`

	// Watch mode settings
	Watch WatchConfig `koanf:"watch" toml:"watch"`
}

// SourceConfig selects source units.
type SourceConfig struct {
	Extensions []string `koanf:"extensions" toml:"extensions"`
}

// ExtractConfig controls class extraction.
type ExtractConfig struct {
	Mode string `koanf:"mode" toml:"mode"` // scan, syntax
}

// ExcludeConfig defines file exclusion patterns.
type ExcludeConfig struct {
	Patterns  []string `koanf:"patterns" toml:"patterns"`
	Dirs      []string `koanf:"dirs" toml:"dirs"`
	Gitignore bool     `koanf:"gitignore" toml:"gitignore"`
}

// ManifestConfig controls the reference manifest.
type ManifestConfig struct {
	// Relative writes paths relative to the manifest's directory with forward slashes.
	Relative bool `koanf:"relative" toml:"relative"`
}

// BuildConfig controls the compiler invocation.
type BuildConfig struct {
	Command string   `koanf:"command" toml:"command"`
	Args    []string `koanf:"args" toml:"args"`
	Output  string   `koanf:"output" toml:"output"`
}

// CacheConfig controls caching behavior.
type CacheConfig struct {
	Enabled bool   `koanf:"enabled" toml:"enabled"`
	Dir     string `koanf:"dir" toml:"dir"`
	TTL     int    `koanf:"ttl" toml:"ttl"` // TTL in hours
}

// OutputConfig controls output formatting.
type OutputConfig struct {
	Format string `koanf:"format" toml:"format"` // text, json, yaml, markdown, toon
	Color  bool   `koanf:"color" toml:"color"`
}

// WatchConfig controls watch mode.
type WatchConfig struct {
	DebounceMS int `koanf:"debounce_ms" toml:"debounce_ms"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Source: SourceConfig{
			Extensions: []string{".ts"},
		},
		Extract: ExtractConfig{
			Mode: "scan",
		},
		Exclude: ExcludeConfig{
			Patterns: []string{},
			Dirs: []string{
				"node_modules",
				".git",
				".tsorder",
			},
			Gitignore: true,
		},
		Manifest: ManifestConfig{
			Relative: false,
		},
		Build: BuildConfig{
			Command: "tsc",
			Args:    []string{"--target", "ES5"},
			Output:  "script.js",
		},
		Cache: CacheConfig{
			Enabled: true,
			Dir:     ".tsorder/cache",
			TTL:     24,
		},
		Output: OutputConfig{
			Format: "text",
			Color:  true,
		},
		Watch: WatchConfig{
			DebounceMS: 500,
		},
	}
}

// parserFor picks a koanf parser from the file extension, defaulting to TOML.
func parserFor(path string) koanf.Parser {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Parser()
	case ".json":
		return json.Parser()
	default:
		return toml.Parser()
	}
}

// Load loads configuration from a file on top of the defaults.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	if err := k.Load(file.Provider(path), parserFor(path)); err != nil {
		return nil, fmt.Errorf("failed to load config %s: %w", path, err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config %s: %w", path, err)
	}

	// Unmarshal writes file lists over the default slices element by element,
	// so a shorter list would keep the default's tail.
	for key, dst := range map[string]*[]string{
		"source.extensions": &cfg.Source.Extensions,
		"exclude.patterns":  &cfg.Exclude.Patterns,
		"exclude.dirs":      &cfg.Exclude.Dirs,
		"build.args":        &cfg.Build.Args,
	} {
		if k.Exists(key) {
			*dst = k.Strings(key)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// LoadResult is a loaded configuration and the file it came from.
type LoadResult struct {
	Config *Config
	// Source is empty when no file was found and defaults are in effect.
	Source string
}

type loadOptions struct {
	path string
	dirs []string
}

// LoadOption configures LoadConfig.
type LoadOption func(*loadOptions)

// WithPath loads exactly the given file instead of searching.
func WithPath(path string) LoadOption {
	return func(o *loadOptions) {
		o.path = path
	}
}

// WithSearchDirs overrides the directories searched for a config file.
func WithSearchDirs(dirs ...string) LoadOption {
	return func(o *loadOptions) {
		o.dirs = dirs
	}
}

// configNames are the file names searched for, in priority order.
var configNames = []string{
	"tsorder.toml",
	"tsorder.yaml",
	"tsorder.yml",
	"tsorder.json",
	".tsorder.toml",
	".tsorder.yaml",
	".tsorder.yml",
	".tsorder.json",
}

// FindConfigFile returns the first config file in dirs, or "".
func FindConfigFile(dirs ...string) string {
	for _, dir := range dirs {
		for _, name := range configNames {
			path := filepath.Join(dir, name)
			if info, err := os.Stat(path); err == nil && !info.IsDir() {
				return path
			}
		}
	}
	return ""
}

// LoadConfig loads the explicit file from WithPath, or the first file found in the
// search directories, or the defaults. A file that exists but fails to load is an error.
func LoadConfig(opts ...LoadOption) (*LoadResult, error) {
	o := &loadOptions{dirs: []string{".", ".tsorder"}}
	for _, opt := range opts {
		opt(o)
	}

	path := o.path
	if path == "" {
		path = FindConfigFile(o.dirs...)
	}
	if path == "" {
		return &LoadResult{Config: DefaultConfig()}, nil
	}

	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	return &LoadResult{Config: cfg, Source: path}, nil
}

// LoadOrDefault tries to load config from standard locations or returns defaults.
func LoadOrDefault() *Config {
	result, err := LoadConfig()
	if err != nil {
		return DefaultConfig()
	}
	return result.Config
}

var (
	validModes   = map[string]bool{"scan": true, "syntax": true}
	validFormats = map[string]bool{"text": true, "json": true, "yaml": true, "markdown": true, "md": true, "toon": true}
)

// Validate checks values the type system cannot.
func (c *Config) Validate() error {
	if len(c.Source.Extensions) == 0 {
		return fmt.Errorf("source.extensions must not be empty")
	}
	for _, ext := range c.Source.Extensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("source.extensions: %q must start with a dot", ext)
		}
	}
	if !validModes[strings.ToLower(c.Extract.Mode)] {
		return fmt.Errorf("extract.mode: unknown mode %q (want scan or syntax)", c.Extract.Mode)
	}
	if strings.TrimSpace(c.Build.Command) == "" {
		return fmt.Errorf("build.command must not be empty")
	}
	if c.Output.Format != "" && !validFormats[strings.ToLower(c.Output.Format)] {
		return fmt.Errorf("output.format: unknown format %q", c.Output.Format)
	}
	if c.Cache.TTL < 0 {
		return fmt.Errorf("cache.ttl must not be negative")
	}
	return nil
}

// HasSourceExtension reports whether path has one of the configured source extensions.
func (c *Config) HasSourceExtension(path string) bool {
	lower := strings.ToLower(path)
	for _, ext := range c.Source.Extensions {
		if strings.HasSuffix(lower, strings.ToLower(ext)) {
			return true
		}
	}
	return false
}

// ShouldExclude checks if a path should be excluded from scanning.
func (c *Config) ShouldExclude(path string) bool {
	// Check directory exclusions
	for _, dir := range c.Exclude.Dirs {
		if strings.Contains(path, string(filepath.Separator)+dir+string(filepath.Separator)) ||
			strings.HasPrefix(path, dir+string(filepath.Separator)) {
			return true
		}
	}

	// Check pattern exclusions
	base := filepath.Base(path)
	for _, pattern := range c.Exclude.Patterns {
		if matched, _ := filepath.Match(pattern, base); matched {
			return true
		}
	}

	return false
}

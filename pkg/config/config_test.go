package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg == nil {
		t.Fatal("DefaultConfig() returned nil")
	}

	if len(cfg.Source.Extensions) != 1 || cfg.Source.Extensions[0] != ".ts" {
		t.Errorf("Source.Extensions = %v, want [.ts]", cfg.Source.Extensions)
	}
	if cfg.Extract.Mode != "scan" {
		t.Errorf("Extract.Mode = %s, want scan", cfg.Extract.Mode)
	}
	if !cfg.Exclude.Gitignore {
		t.Error("Exclude.Gitignore should be true by default")
	}
	if cfg.Build.Command != "tsc" {
		t.Errorf("Build.Command = %s, want tsc", cfg.Build.Command)
	}
	if cfg.Build.Output != "script.js" {
		t.Errorf("Build.Output = %s, want script.js", cfg.Build.Output)
	}
	if !cfg.Cache.Enabled {
		t.Error("Cache.Enabled should be true by default")
	}
	if cfg.Cache.TTL != 24 {
		t.Errorf("Cache.TTL = %d, want 24", cfg.Cache.TTL)
	}
	if cfg.Output.Format != "text" {
		t.Errorf("Output.Format = %s, want text", cfg.Output.Format)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() error: %v", err)
	}
}

func TestLoadTOML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "tsorder.toml")
	writeFile(t, configPath, `
[source]
extensions = [".ts", ".tsx"]

[extract]
mode = "syntax"

[exclude]
dirs = ["node_modules", "generated"]

[build]
args = ["--target", "ES2015"]

[cache]
enabled = false
`)

	cfg, err := Load(configPath)
	require.NoError(t, err)

	assert.Equal(t, []string{".ts", ".tsx"}, cfg.Source.Extensions)
	assert.Equal(t, "syntax", cfg.Extract.Mode)
	assert.Equal(t, []string{"node_modules", "generated"}, cfg.Exclude.Dirs)
	assert.Equal(t, []string{"--target", "ES2015"}, cfg.Build.Args)
	assert.False(t, cfg.Cache.Enabled)

	// Untouched sections keep their defaults.
	assert.Equal(t, "tsc", cfg.Build.Command)
	assert.Equal(t, "text", cfg.Output.Format)
}

func TestLoadYAML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "tsorder.yaml")
	writeFile(t, configPath, `
manifest:
  relative: true
output:
  format: json
watch:
  debounce_ms: 250
`)

	cfg, err := Load(configPath)
	require.NoError(t, err)
	assert.True(t, cfg.Manifest.Relative)
	assert.Equal(t, "json", cfg.Output.Format)
	assert.Equal(t, 250, cfg.Watch.DebounceMS)
}

func TestLoadJSON(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "tsorder.json")
	writeFile(t, configPath, `{
  "build": {"command": "npx", "args": ["tsc"], "output": "dist/app.js"},
  "cache": {"ttl": 1}
}`)

	cfg, err := Load(configPath)
	require.NoError(t, err)
	assert.Equal(t, "npx", cfg.Build.Command)
	assert.Equal(t, []string{"tsc"}, cfg.Build.Args)
	assert.Equal(t, "dist/app.js", cfg.Build.Output)
	assert.Equal(t, 1, cfg.Cache.TTL)
}

func TestLoadNonExistentFile(t *testing.T) {
	_, err := Load("/nonexistent/path/tsorder.toml")
	if err == nil {
		t.Error("Load() should return error for non-existent file")
	}
}

func TestLoadInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad mode", "[extract]\nmode = \"regex\"\n"},
		{"extension without dot", "[source]\nextensions = [\"ts\"]\n"},
		{"empty command", "[build]\ncommand = \"\"\n"},
		{"bad format", "[output]\nformat = \"xml\"\n"},
		{"negative ttl", "[cache]\nttl = -1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configPath := filepath.Join(t.TempDir(), "tsorder.toml")
			writeFile(t, configPath, tt.content)
			_, err := Load(configPath)
			assert.Error(t, err)
		})
	}
}

func TestLoadConfigSearch(t *testing.T) {
	dir := t.TempDir()

	result, err := LoadConfig(WithSearchDirs(dir))
	require.NoError(t, err)
	assert.Empty(t, result.Source)
	assert.Equal(t, DefaultConfig(), result.Config)

	hidden := filepath.Join(dir, ".tsorder", "tsorder.yaml")
	writeFile(t, hidden, "extract:\n  mode: syntax\n")

	result, err = LoadConfig(WithSearchDirs(dir, filepath.Join(dir, ".tsorder")))
	require.NoError(t, err)
	assert.Equal(t, hidden, result.Source)
	assert.Equal(t, "syntax", result.Config.Extract.Mode)

	// A file in the first directory wins.
	top := filepath.Join(dir, "tsorder.toml")
	writeFile(t, top, "[output]\nformat = \"toon\"\n")
	result, err = LoadConfig(WithSearchDirs(dir, filepath.Join(dir, ".tsorder")))
	require.NoError(t, err)
	assert.Equal(t, top, result.Source)
	assert.Equal(t, "toon", result.Config.Output.Format)
}

func TestLoadConfigWithPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.toml")
	writeFile(t, path, "[build]\noutput = \"out.js\"\n")

	result, err := LoadConfig(WithPath(path))
	require.NoError(t, err)
	assert.Equal(t, path, result.Source)
	assert.Equal(t, "out.js", result.Config.Build.Output)

	_, err = LoadConfig(WithPath(filepath.Join(t.TempDir(), "missing.toml")))
	assert.Error(t, err)
}

func TestHasSourceExtension(t *testing.T) {
	cfg := DefaultConfig()
	assert.True(t, cfg.HasSourceExtension("src/app.ts"))
	assert.True(t, cfg.HasSourceExtension("src/APP.TS"))
	assert.True(t, cfg.HasSourceExtension("types/lib.d.ts"))
	assert.False(t, cfg.HasSourceExtension("src/app.tsx"))
	assert.False(t, cfg.HasSourceExtension("src/app.js"))

	cfg.Source.Extensions = []string{".tsx"}
	assert.True(t, cfg.HasSourceExtension("src/app.tsx"))
}

func TestShouldExclude(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Exclude.Patterns = []string{"*.spec.ts"}

	tests := []struct {
		path string
		want bool
	}{
		{"node_modules/lib/index.ts", true},
		{filepath.Join("src", "node_modules", "x.ts"), true},
		{"src/app.spec.ts", true},
		{"src/app.ts", false},
		{"src/node_modules_extra/app.ts", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, cfg.ShouldExclude(filepath.FromSlash(tt.path)))
		})
	}
}

func TestValidateFile(t *testing.T) {
	dir := t.TempDir()

	good := filepath.Join(dir, "good.toml")
	writeFile(t, good, "[extract]\nmode = \"scan\"\n[cache]\nttl = 12\n")
	assert.NoError(t, ValidateFile(good))

	unknown := filepath.Join(dir, "unknown.yaml")
	writeFile(t, unknown, "extract:\n  mode: scan\n  strict: true\n")
	assert.Error(t, ValidateFile(unknown))

	wrongType := filepath.Join(dir, "wrong.json")
	writeFile(t, wrongType, `{"cache": {"enabled": "yes"}}`)
	assert.Error(t, ValidateFile(wrongType))

	assert.Error(t, ValidateFile(filepath.Join(dir, "missing.toml")))
}

func TestValidateDocument(t *testing.T) {
	assert.NoError(t, ValidateDocument(map[string]any{}))
	assert.NoError(t, ValidateDocument(map[string]any{
		"source": map[string]any{"extensions": []any{".ts", ".d.ts"}},
	}))
	assert.Error(t, ValidateDocument(map[string]any{
		"source": map[string]any{"extensions": []any{"ts"}},
	}))
	assert.Error(t, ValidateDocument(map[string]any{"unknown": 1}))
}

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg := NewConfig()

	assert.Equal(t, 1, cfg.Version)
	assert.Equal(t, "library", cfg.Library.Root)
	assert.Equal(t, 75, cfg.Library.MaxFileSizeMB)
	assert.Equal(t, "grimoire.db", cfg.Index.DBPath)
	assert.True(t, cfg.Index.UseCleaner)
	assert.True(t, cfg.Search.LikeFallback)
	assert.Equal(t, 100, cfg.Search.MaxResults)
	assert.Equal(t, 8385, cfg.Server.Port)
}

func TestLoad_NoConfigFileUsesDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, NewConfig(), cfg)
}

func TestLoad_MergesYAMLOverDefaults(t *testing.T) {
	dir := t.TempDir()
	yaml := `
library:
  root: /books
search:
  max_results: 25
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".grimoire.yaml"), []byte(yaml), 0o644))

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "/books", cfg.Library.Root)
	assert.Equal(t, 25, cfg.Search.MaxResults)
	// Untouched keys keep defaults
	assert.Equal(t, "grimoire.db", cfg.Index.DBPath)
	assert.True(t, cfg.Index.UseCleaner)
}

func TestLoad_ExplicitFalseToggleWins(t *testing.T) {
	// An absent key keeps the default true; explicit false must stick
	dir := t.TempDir()
	yaml := `
index:
  use_cleaner: false
search:
  like_fallback: false
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".grimoire.yaml"), []byte(yaml), 0o644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.False(t, cfg.Index.UseCleaner)
	assert.False(t, cfg.Search.LikeFallback)
}

func TestLoad_YmlExtensionAccepted(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".grimoire.yml"),
		[]byte("library:\n  root: elsewhere\n"), 0o644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "elsewhere", cfg.Library.Root)
}

func TestLoad_MalformedYAMLFails(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".grimoire.yaml"),
		[]byte("library: ["), 0o644))

	_, err := Load(dir)
	assert.Error(t, err)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("GRIMOIRE_LIBRARY_ROOT", "/env/books")
	t.Setenv("GRIMOIRE_USE_CLEANER", "false")
	t.Setenv("GRIMOIRE_PORT", "9000")

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "/env/books", cfg.Library.Root)
	assert.False(t, cfg.Index.UseCleaner)
	assert.Equal(t, 9000, cfg.Server.Port)
}

func TestValidate_RejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty library root", func(c *Config) { c.Library.Root = "" }},
		{"zero max file size", func(c *Config) { c.Library.MaxFileSizeMB = 0 }},
		{"empty db path", func(c *Config) { c.Index.DBPath = "" }},
		{"zero max results", func(c *Config) { c.Search.MaxResults = 0 }},
		{"port out of range", func(c *Config) { c.Server.Port = 70000 }},
		{"unknown log level", func(c *Config) { c.Server.LogLevel = "verbose" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestMaxFileSizeBytes(t *testing.T) {
	cfg := NewConfig()
	cfg.Library.MaxFileSizeMB = 2
	assert.Equal(t, int64(2*1024*1024), cfg.Library.MaxFileSizeBytes())
}

// Package config loads and validates Grimoire configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config represents the complete Grimoire configuration.
type Config struct {
	Version int           `yaml:"version" json:"version"`
	Library LibraryConfig `yaml:"library" json:"library"`
	Index   IndexConfig   `yaml:"index" json:"index"`
	Search  SearchConfig  `yaml:"search" json:"search"`
	Server  ServerConfig  `yaml:"server" json:"server"`
}

// LibraryConfig configures the watched document tree.
type LibraryConfig struct {
	// Root is the directory tree holding the documents.
	Root string `yaml:"root" json:"root"`
	// MaxFileSizeMB skips files larger than this during a sync (default: 75).
	MaxFileSizeMB int `yaml:"max_file_size_mb" json:"max_file_size_mb"`
}

// MaxFileSizeBytes returns the scan size cap in bytes.
func (l LibraryConfig) MaxFileSizeBytes() int64 {
	return int64(l.MaxFileSizeMB) * 1024 * 1024
}

// IndexConfig configures the persistent index.
type IndexConfig struct {
	// DBPath is the SQLite database location.
	// Defaults to <library root>/../grimoire.db.
	DBPath string `yaml:"db_path" json:"db_path"`
	// UseCleaner applies the text normalization pipeline before indexing.
	UseCleaner bool `yaml:"use_cleaner" json:"use_cleaner"`
}

// SearchConfig configures query execution.
type SearchConfig struct {
	// LikeFallback enables the raw substring scan when the
	// structured query yields nothing.
	LikeFallback bool `yaml:"like_fallback" json:"like_fallback"`
	// MaxResults caps search result lists (default: 100).
	MaxResults int `yaml:"max_results" json:"max_results"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Host     string `yaml:"host" json:"host"`
	Port     int    `yaml:"port" json:"port"`
	LogLevel string `yaml:"log_level" json:"log_level"`
}

// NewConfig returns a Config with all defaults applied.
func NewConfig() *Config {
	return &Config{
		Version: 1,
		Library: LibraryConfig{
			Root:          "library",
			MaxFileSizeMB: 75,
		},
		Index: IndexConfig{
			DBPath:     "grimoire.db",
			UseCleaner: true,
		},
		Search: SearchConfig{
			LikeFallback: true,
			MaxResults:   100,
		},
		Server: ServerConfig{
			Host:     "127.0.0.1",
			Port:     8385,
			LogLevel: "info",
		},
	}
}

// Load builds the configuration for a working directory:
// defaults, then .grimoire.yaml if present, then environment overrides.
func Load(dir string) (*Config, error) {
	cfg := NewConfig()

	if err := cfg.loadFromFile(dir); err != nil {
		return nil, err
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// loadFromFile attempts to load configuration from .grimoire.yaml or .grimoire.yml.
func (c *Config) loadFromFile(dir string) error {
	yamlPath := filepath.Join(dir, ".grimoire.yaml")
	if _, err := os.Stat(yamlPath); err == nil {
		return c.loadYAML(yamlPath)
	}

	ymlPath := filepath.Join(dir, ".grimoire.yml")
	if _, err := os.Stat(ymlPath); err == nil {
		return c.loadYAML(ymlPath)
	}

	// No config file is fine - use defaults
	return nil
}

// loadYAML loads and merges configuration from a YAML file.
func (c *Config) loadYAML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var parsed Config
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	c.mergeWith(&parsed)

	// Booleans are re-parsed through pointer shadows so an absent key keeps
	// the default while an explicit false is honored.
	var t toggles
	if err := yaml.Unmarshal(data, &t); err == nil {
		if t.Index.UseCleaner != nil {
			c.Index.UseCleaner = *t.Index.UseCleaner
		}
		if t.Search.LikeFallback != nil {
			c.Search.LikeFallback = *t.Search.LikeFallback
		}
	}
	return nil
}

// mergeWith merges non-zero values from other into c.
func (c *Config) mergeWith(other *Config) {
	if other.Version != 0 {
		c.Version = other.Version
	}
	if other.Library.Root != "" {
		c.Library.Root = other.Library.Root
	}
	if other.Library.MaxFileSizeMB != 0 {
		c.Library.MaxFileSizeMB = other.Library.MaxFileSizeMB
	}
	if other.Index.DBPath != "" {
		c.Index.DBPath = other.Index.DBPath
	}
	if other.Search.MaxResults != 0 {
		c.Search.MaxResults = other.Search.MaxResults
	}
	if other.Server.Host != "" {
		c.Server.Host = other.Server.Host
	}
	if other.Server.Port != 0 {
		c.Server.Port = other.Server.Port
	}
	if other.Server.LogLevel != "" {
		c.Server.LogLevel = other.Server.LogLevel
	}
}

// toggles mirrors the two boolean switches with pointers so an absent key
// keeps the default while an explicit false is honored.
type toggles struct {
	Index struct {
		UseCleaner *bool `yaml:"use_cleaner"`
	} `yaml:"index"`
	Search struct {
		LikeFallback *bool `yaml:"like_fallback"`
	} `yaml:"search"`
}

// applyEnvOverrides applies GRIMOIRE_* environment variables.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("GRIMOIRE_LIBRARY_ROOT"); v != "" {
		c.Library.Root = v
	}
	if v := os.Getenv("GRIMOIRE_DB_PATH"); v != "" {
		c.Index.DBPath = v
	}
	if v := os.Getenv("GRIMOIRE_USE_CLEANER"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Index.UseCleaner = b
		}
	}
	if v := os.Getenv("GRIMOIRE_LIKE_FALLBACK"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Search.LikeFallback = b
		}
	}
	if v := os.Getenv("GRIMOIRE_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			c.Server.Port = p
		}
	}
}

// Validate checks the final configuration for consistency.
func (c *Config) Validate() error {
	if c.Library.Root == "" {
		return fmt.Errorf("library.root must not be empty")
	}
	if c.Library.MaxFileSizeMB <= 0 {
		return fmt.Errorf("library.max_file_size_mb must be positive, got %d", c.Library.MaxFileSizeMB)
	}
	if c.Index.DBPath == "" {
		return fmt.Errorf("index.db_path must not be empty")
	}
	if c.Search.MaxResults <= 0 {
		return fmt.Errorf("search.max_results must be positive, got %d", c.Search.MaxResults)
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	switch c.Server.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("server.log_level must be one of debug, info, warn, error; got %q", c.Server.LogLevel)
	}
	return nil
}

// ABOUTME: healthlog configuration: data directory, log level and page size.
// ABOUTME: Loaded from YAML with environment overrides; opens repositories and preferences.

package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v6"
	"github.com/charmbracelet/log"
	"github.com/harperreed/healthlog/internal/logging"
	"github.com/harperreed/healthlog/internal/prefs"
	"github.com/harperreed/healthlog/internal/storage"
	"gopkg.in/yaml.v3"
)

// DefaultPageSize is the number of records listed when no count is given.
const DefaultPageSize = 20

// prefsDir is the badger directory inside the data directory.
const prefsDir = "prefs"

// Config stores healthlog configuration.
type Config struct {
	// DataDir is the root directory for the widget databases and preferences.
	// Supports ~ expansion for home directory. Defaults to ~/.local/share/healthlog.
	DataDir string `yaml:"data_dir,omitempty" env:"HEALTHLOG_DATA_DIR"`

	// LogLevel is one of debug, info, warn or error. Defaults to warn.
	LogLevel string `yaml:"log_level,omitempty" env:"HEALTHLOG_LOG_LEVEL"`

	// PageSize is the default number of records per list page.
	PageSize int `yaml:"page_size,omitempty" env:"HEALTHLOG_PAGE_SIZE"`
}

// GetDataDir returns the configured data directory with ~ expanded,
// defaulting to the standard XDG data directory.
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return storage.DataDir()
	}
	return ExpandPath(c.DataDir)
}

// GetPageSize returns the configured page size, defaulting to DefaultPageSize.
func (c *Config) GetPageSize() int {
	if c.PageSize <= 0 {
		return DefaultPageSize
	}
	return c.PageSize
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" {
		home, _ := os.UserHomeDir()
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// Logger builds the logger described by LogLevel, writing to w.
func (c *Config) Logger(w io.Writer) (*log.Logger, error) {
	return logging.New(w, c.LogLevel)
}

// OpenRepositories returns the widget repositories under the data directory.
func (c *Config) OpenRepositories(logger *log.Logger) *storage.Repositories {
	return storage.OpenAll(c.GetDataDir(), storage.WithLogger(logger))
}

// OpenPreferences opens the preference store under the data directory.
func (c *Config) OpenPreferences(logger *log.Logger) (*prefs.Store, error) {
	return prefs.Open(filepath.Join(c.GetDataDir(), prefsDir), logger)
}

// GetConfigPath returns the config file path.
func GetConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "healthlog", "config.yaml")
}

// Load reads config from disk, then applies HEALTHLOG_* environment overrides.
func Load() (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(GetConfigPath())
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, err
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}
	return &cfg, nil
}

// Save writes config to disk.
func (c *Config) Save() error {
	path := GetConfigPath()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

// Package config handles the XDG configuration directory, the optional
// config.yaml settings file and .env secrets.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"taskcal/internal/storage"
)

const (
	// AppName is the application directory name.
	AppName = "taskcal"

	// OAuthClientFile is the OAuth client credentials filename.
	OAuthClientFile = "oauth_client.json"

	// TokenFile is the stored OAuth token filename.
	TokenFile = "token.json"

	// SettingsFile is the optional YAML settings filename.
	SettingsFile = "config.yaml"

	// EnvFile holds secrets loaded into the environment.
	EnvFile = ".env"

	// DataDirName is the default data directory inside the config directory.
	DataDirName = "data"
)

// Environment variables that override config.yaml.
const (
	EnvBackend       = "TASKCAL_BACKEND"
	EnvDSN           = "TASKCAL_DSN"
	EnvNeo4jPassword = "TASKCAL_NEO4J_PASSWORD"
)

// Settings is the content of config.yaml.
type Settings struct {
	Backend           string               `yaml:"backend"`
	DataDir           string               `yaml:"data_dir"`
	DSN               string               `yaml:"dsn"`
	Neo4j             storage.Neo4jOptions `yaml:"neo4j"`
	WeekStart         string               `yaml:"week_start"`
	Timezone          string               `yaml:"timezone"`
	CascadeListDelete bool                 `yaml:"cascade_list_delete"`
}

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool

	// Logger receives diagnostics. Nil means slog.Default().
	Logger *slog.Logger

	// Settings from config.yaml with environment overrides applied.
	Settings Settings
}

// New creates a Config for the default or specified config directory.
// If configDir is empty, uses XDG_CONFIG_HOME/taskcal or $HOME/.config/taskcal.
// A missing config.yaml or .env is not an error.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	c := &Config{Dir: dir}

	if err := loadEnvFile(filepath.Join(dir, EnvFile)); err != nil {
		return nil, err
	}
	settings, err := LoadSettings(c.SettingsPath())
	if err != nil {
		return nil, err
	}
	settings.applyEnv()
	c.Settings = settings
	return c, nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// LoadSettings reads a YAML settings file. A missing file yields zero Settings.
func LoadSettings(path string) (Settings, error) {
	var s Settings
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return s, fmt.Errorf("read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("parse %s: %w", path, err)
	}
	return s, nil
}

// loadEnvFile loads KEY=value pairs without overriding variables that are
// already set.
func loadEnvFile(path string) error {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func (s *Settings) applyEnv() {
	if v := os.Getenv(EnvBackend); v != "" {
		s.Backend = v
	}
	if v := os.Getenv(EnvDSN); v != "" {
		s.DSN = v
	}
	if v := os.Getenv(EnvNeo4jPassword); v != "" {
		s.Neo4j.Password = v
	}
}

// SettingsPath returns the path to config.yaml.
func (c *Config) SettingsPath() string {
	return filepath.Join(c.Dir, SettingsFile)
}

// DataDir returns the data directory, defaulting to <config dir>/data.
func (c *Config) DataDir() string {
	if c.Settings.DataDir != "" {
		return c.Settings.DataDir
	}
	return filepath.Join(c.Dir, DataDirName)
}

// StorageOptions returns the options for storage.Open.
func (c *Config) StorageOptions() storage.Options {
	return storage.Options{
		Backend: c.Settings.Backend,
		Dir:     c.DataDir(),
		DSN:     c.Settings.DSN,
		Neo4j:   c.Settings.Neo4j,
	}
}

// WeekStart returns the first day of the week. Defaults to Sunday.
func (c *Config) WeekStart() (time.Weekday, error) {
	switch strings.ToLower(strings.TrimSpace(c.Settings.WeekStart)) {
	case "", "sunday", "sun":
		return time.Sunday, nil
	case "monday", "mon":
		return time.Monday, nil
	}
	return time.Sunday, fmt.Errorf("invalid week_start: %q (want sunday or monday)", c.Settings.WeekStart)
}

// Location returns the configured time zone, or time.Local.
func (c *Config) Location() (*time.Location, error) {
	if c.Settings.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Settings.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone: %w", err)
	}
	return loc, nil
}

// Log returns the configured logger or the default one.
func (c *Config) Log() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

// OAuthClientPath returns the path to the OAuth client credentials file.
func (c *Config) OAuthClientPath() string {
	return filepath.Join(c.Dir, OAuthClientFile)
}

// TokenPath returns the path to the stored OAuth token file.
func (c *Config) TokenPath() string {
	return filepath.Join(c.Dir, TokenFile)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// HasOAuthClient checks if the OAuth client credentials file exists.
func (c *Config) HasOAuthClient() bool {
	_, err := os.Stat(c.OAuthClientPath())
	return err == nil
}

// HasToken checks if the token file exists.
func (c *Config) HasToken() bool {
	_, err := os.Stat(c.TokenPath())
	return err == nil
}

// RemoveToken deletes the token file.
func (c *Config) RemoveToken() error {
	return os.Remove(c.TokenPath())
}

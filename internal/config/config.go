// Package config handles the configuration directory and config.yaml.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const (
	// AppName is the application directory name.
	AppName = "ltask"

	// ConfigFile is the optional YAML settings filename.
	ConfigFile = "config.yaml"

	// BadgerDir is the default BadgerDB directory inside the config dir.
	BadgerDir = "data"

	// SQLiteFile is the default SQLite filename inside the config dir.
	SQLiteFile = "tasks.db"
)

// Store backends.
const (
	BackendBadger = "badger"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// ErrInvalid is returned when config.yaml cannot be parsed or validated.
var ErrInvalid = errors.New("invalid config")

var validate = validator.New()

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool

	// Ephemeral forces the in-memory store regardless of config.yaml.
	Ephemeral bool

	// File holds the settings read from config.yaml.
	File File
}

// File mirrors config.yaml.
type File struct {
	Store   StoreConfig   `yaml:"store"`
	Log     LogConfig     `yaml:"log"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// StoreConfig selects the persistent store.
type StoreConfig struct {
	Backend string `yaml:"backend" validate:"omitempty,oneof=badger sqlite memory"`
	Path    string `yaml:"path"`
}

// LogConfig controls logging.
type LogConfig struct {
	Level string `yaml:"level" validate:"omitempty,oneof=debug info warn error"`
	File  string `yaml:"file"`
}

// MetricsConfig controls the prometheus textfile dump.
type MetricsConfig struct {
	Textfile string `yaml:"textfile"`
}

// New creates a new Config with the default or specified config directory.
// If configDir is empty, uses XDG_CONFIG_HOME/ltask or $HOME/.config/ltask.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	return &Config{Dir: dir}, nil
}

// Load creates a Config and reads config.yaml from its directory, if present.
func Load(configDir string) (*Config, error) {
	cfg, err := New(configDir)
	if err != nil {
		return nil, err
	}
	if err := cfg.ReadFile(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// ConfigPath returns the path to config.yaml.
func (c *Config) ConfigPath() string {
	return filepath.Join(c.Dir, ConfigFile)
}

// ReadFile parses config.yaml into c.File. A missing file is not an error.
func (c *Config) ReadFile() error {
	data, err := os.ReadFile(c.ConfigPath())
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", c.ConfigPath(), err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalid, c.ConfigPath(), err)
	}
	if err := validate.Struct(f); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalid, c.ConfigPath(), err)
	}
	c.File = f
	return nil
}

// StoreBackend returns the effective store backend.
func (c *Config) StoreBackend() string {
	if c.Ephemeral {
		return BackendMemory
	}
	if c.File.Store.Backend == "" {
		return BackendBadger
	}
	return c.File.Store.Backend
}

// StorePath returns the effective store location for the backend.
// Relative paths in config.yaml are resolved against the config directory.
func (c *Config) StorePath() string {
	if p := c.File.Store.Path; p != "" {
		if filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(c.Dir, p)
	}
	switch c.StoreBackend() {
	case BackendSQLite:
		return filepath.Join(c.Dir, SQLiteFile)
	case BackendMemory:
		return ""
	default:
		return filepath.Join(c.Dir, BadgerDir)
	}
}

// LogLevel returns the configured level name; --debug wins.
func (c *Config) LogLevel() string {
	if c.Debug {
		return "debug"
	}
	if c.File.Log.Level == "" {
		return "warn"
	}
	return c.File.Log.Level
}

// Package config handles the configuration directory, settings file and
// persisted preferences.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// AppName is the application directory name.
	AppName = "dotask"

	// TokenFile is the stored session token filename.
	TokenFile = "token.json"

	// SettingsFile is the optional settings filename.
	SettingsFile = "config.yml"

	// ThemeFile holds the persisted theme preference.
	ThemeFile = "theme"

	// DefaultTimeout is the per-request timeout used when the settings
	// file does not override it.
	DefaultTimeout = 5 * time.Second
)

// Themes accepted by the theme preference.
const (
	ThemeLight  = "light"
	ThemeDark   = "dark"
	ThemeSystem = "system"
)

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// APIURL is the base URL of the task API, without trailing slash.
	APIURL string

	// Timeout is the per-request timeout.
	Timeout time.Duration

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool
}

// settingsYAML is the on-disk shape of config.yml. Timeout is a
// time.ParseDuration string ("5s", "1m30s").
type settingsYAML struct {
	APIURL  string `yaml:"api_url"`
	Timeout string `yaml:"timeout"`
	Debug   bool   `yaml:"debug"`
}

// New creates a Config rooted at configDir (default XDG location when
// empty), then layers config.yml and environment overrides on top.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}

	cfg := &Config{Dir: dir, Timeout: DefaultTimeout}

	if err := cfg.loadSettings(); err != nil {
		return nil, err
	}
	cfg.loadEnv()

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

func (c *Config) loadSettings() error {
	data, err := os.ReadFile(c.SettingsPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read %s: %w", SettingsFile, err)
	}

	var s settingsYAML
	if err := yaml.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("invalid %s: %w", SettingsFile, err)
	}

	if s.APIURL != "" {
		c.APIURL = strings.TrimRight(s.APIURL, "/")
	}
	if s.Timeout != "" {
		d, err := time.ParseDuration(s.Timeout)
		if err != nil || d <= 0 {
			return fmt.Errorf("invalid timeout in %s: %q", SettingsFile, s.Timeout)
		}
		c.Timeout = d
	}
	if s.Debug {
		c.Debug = true
	}
	return nil
}

// loadEnv applies DOTASK_* environment overrides. Environment wins over
// the settings file.
func (c *Config) loadEnv() {
	if v := os.Getenv("DOTASK_API_URL"); v != "" {
		c.APIURL = strings.TrimRight(v, "/")
	}
	if v := os.Getenv("DOTASK_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			c.Timeout = d
		}
	}
	if v := os.Getenv("DOTASK_DEBUG"); v == "1" || v == "true" {
		c.Debug = true
	}
}

// TokenPath returns the path to the stored session token file.
func (c *Config) TokenPath() string {
	return filepath.Join(c.Dir, TokenFile)
}

// SettingsPath returns the path to the settings file.
func (c *Config) SettingsPath() string {
	return filepath.Join(c.Dir, SettingsFile)
}

// ThemePath returns the path to the theme preference file.
func (c *Config) ThemePath() string {
	return filepath.Join(c.Dir, ThemeFile)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// HasToken checks if the session token file exists.
func (c *Config) HasToken() bool {
	_, err := os.Stat(c.TokenPath())
	return err == nil
}

// Theme returns the persisted theme preference, defaulting to "system".
func (c *Config) Theme() string {
	data, err := os.ReadFile(c.ThemePath())
	if err != nil {
		return ThemeSystem
	}
	theme := strings.TrimSpace(string(data))
	switch theme {
	case ThemeLight, ThemeDark, ThemeSystem:
		return theme
	}
	return ThemeSystem
}

// SaveTheme persists the theme preference.
func (c *Config) SaveTheme(theme string) error {
	switch theme {
	case ThemeLight, ThemeDark, ThemeSystem:
	default:
		return fmt.Errorf("unknown theme: %s", theme)
	}
	if err := c.EnsureDir(); err != nil {
		return err
	}
	return os.WriteFile(c.ThemePath(), []byte(theme+"\n"), 0644)
}

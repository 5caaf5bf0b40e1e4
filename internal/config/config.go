// ABOUTME: Configuration management for gridsync with YAML config loading.
// ABOUTME: Handles retention policies, SuperNote settings, paths, and ~ expansion.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/subosito/gotenv"
	"gopkg.in/yaml.v3"

	"github.com/2389-research/gridsync/internal/storage"
	"github.com/2389-research/gridsync/internal/supernote"
)

// Environment variables and the secrets file that carry cloud credentials.
const (
	EnvFile     = ".env"
	EnvEmail    = "SUPERNOTE_EMAIL"
	EnvPassword = "SUPERNOTE_PASSWORD"
)

// Default retention limits, roughly 30 and 90 days of puzzles with generous
// count fallbacks.
const (
	DefaultLocalMaxAgeDays  = 30
	DefaultLocalMaxFiles    = 150
	DefaultRemoteMaxAgeDays = 90
	DefaultRemoteMaxFiles   = 400
)

// Config stores gridsync configuration loaded from ~/.config/gridsync/config.yaml.
type Config struct {
	DownloadsDir string          `yaml:"downloads_dir"`
	LogsDir      string          `yaml:"logs_dir"`
	Timezone     string          `yaml:"timezone"`
	Local        RetentionConfig `yaml:"local"`
	Remote       RetentionConfig `yaml:"remote"`
	Supernote    SupernoteConfig `yaml:"supernote"`
}

// RetentionConfig holds the age and count limits for one store. A zero value
// means unset and takes the default; -1 disables that limit entirely.
type RetentionConfig struct {
	MaxAgeDays int `yaml:"max_age_days"`
	MaxFiles   int `yaml:"max_files"`
}

// Policy converts the YAML values into a storage retention policy, mapping the
// -1 sentinel onto the policy's zero (disabled) value.
func (r RetentionConfig) Policy() storage.RetentionPolicy {
	p := storage.RetentionPolicy{MaxAgeDays: r.MaxAgeDays, MaxFiles: r.MaxFiles}
	if p.MaxAgeDays < 0 {
		p.MaxAgeDays = 0
	}
	if p.MaxFiles < 0 {
		p.MaxFiles = 0
	}
	return p
}

// SupernoteConfig holds SuperNote cloud settings. Email and password may also
// come from the environment, which takes precedence.
type SupernoteConfig struct {
	APIURL   string `yaml:"api_url"`
	Dir      string `yaml:"dir"`
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
}

// applyDefaults fills in every unset field.
func (c *Config) applyDefaults() {
	if c.DownloadsDir == "" {
		c.DownloadsDir = "downloads"
	}
	if c.LogsDir == "" {
		c.LogsDir = "logs"
	}
	if c.Local.MaxAgeDays == 0 {
		c.Local.MaxAgeDays = DefaultLocalMaxAgeDays
	}
	if c.Local.MaxFiles == 0 {
		c.Local.MaxFiles = DefaultLocalMaxFiles
	}
	if c.Remote.MaxAgeDays == 0 {
		c.Remote.MaxAgeDays = DefaultRemoteMaxAgeDays
	}
	if c.Remote.MaxFiles == 0 {
		c.Remote.MaxFiles = DefaultRemoteMaxFiles
	}
	if c.Supernote.APIURL == "" {
		c.Supernote.APIURL = supernote.DefaultAPIURL
	}
	if c.Supernote.Dir == "" {
		c.Supernote.Dir = storage.DefaultRemoteDir
	}
}

// GetDownloadsDir resolves the downloads directory, preferring the override
// when given. Supports ~ expansion.
func (c *Config) GetDownloadsDir(override string) (string, error) {
	dir := c.DownloadsDir
	if override != "" {
		dir = override
	}
	return ExpandPath(dir)
}

// Location resolves the configured timezone for "today" computation. An empty
// timezone means the system's local zone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Credentials returns the SuperNote email and password, reading the optional
// .env secrets file first. Environment variables win over config values.
func (c *Config) Credentials() (email, password string, err error) {
	_ = gotenv.Load(EnvFile)

	email = os.Getenv(EnvEmail)
	if email == "" {
		email = c.Supernote.Email
	}
	password = os.Getenv(EnvPassword)
	if password == "" {
		password = c.Supernote.Password
	}
	if email == "" || password == "" {
		return "", "", fmt.Errorf("SuperNote credentials not set: provide %s and %s (env or %s), or run setup", EnvEmail, EnvPassword, EnvFile)
	}
	return email, password, nil
}

// GetConfigPath returns the config file path.
func GetConfigPath() (string, error) {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, ".config")
	}
	return filepath.Join(configDir, "gridsync", "config.yaml"), nil
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	if path == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		return home, nil
	}
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		return filepath.Join(home, path[2:]), nil
	}
	return path, nil
}

// Load reads config from disk. Returns default config if file doesn't exist.
func Load() (*Config, error) {
	path, err := GetConfigPath()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := &Config{}
			cfg.applyDefaults()
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return &cfg, nil
}

// Save writes config to disk. The file may carry credentials, so it is
// created user-readable only.
func (c *Config) Save() error {
	path, err := GetConfigPath()
	if err != nil {
		return err
	}
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

// ABOUTME: Configuration management for folio with YAML config loading.
// ABOUTME: Handles API endpoint, user identity, log level, drafts directory, and ~ expansion.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/2389-research/folio/internal/blogapi"
	"github.com/2389-research/folio/internal/models"
)

// Config stores folio configuration loaded from ~/.config/folio/config.yaml.
type Config struct {
	API    APIConfig    `yaml:"api"`
	User   UserConfig   `yaml:"user"`
	Log    LogConfig    `yaml:"log"`
	Drafts DraftsConfig `yaml:"drafts"`
}

// APIConfig holds the blog API endpoint settings.
type APIConfig struct {
	URL     string `yaml:"url,omitempty"`
	Timeout string `yaml:"timeout,omitempty"`
}

// UserConfig identifies the local user for comments.
type UserConfig struct {
	ID string `yaml:"id,omitempty"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `yaml:"level,omitempty"`
}

// DraftsConfig holds where post drafts are written.
type DraftsConfig struct {
	Dir string `yaml:"dir,omitempty"`
}

// APIURL returns the configured API base URL, or the build default.
func (c *Config) APIURL() string {
	if u := strings.TrimSpace(c.API.URL); u != "" {
		return u
	}
	return blogapi.DefaultAPIURL
}

// Timeout returns the configured request timeout. Unset or unparsable values
// yield the default.
func (c *Config) Timeout() time.Duration {
	if c.API.Timeout == "" {
		return blogapi.DefaultTimeout
	}
	d, err := time.ParseDuration(c.API.Timeout)
	if err != nil || d <= 0 {
		return blogapi.DefaultTimeout
	}
	return d
}

// UserID returns the configured user id, defaulting to anonymous.
func (c *Config) UserID() string {
	if id := strings.TrimSpace(c.User.ID); id != "" {
		return id
	}
	return models.AnonymousUserID
}

// LogLevel returns the configured log level, defaulting to info.
func (c *Config) LogLevel() string {
	if c.Log.Level == "" {
		return "info"
	}
	return c.Log.Level
}

// DraftsDir returns the drafts directory, defaulting to the working directory.
func (c *Config) DraftsDir() (string, error) {
	if c.Drafts.Dir != "" {
		return ExpandPath(c.Drafts.Dir)
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}
	return cwd, nil
}

// Validate reports settings that are present but unusable.
func (c *Config) Validate() error {
	if c.API.Timeout != "" {
		if d, err := time.ParseDuration(c.API.Timeout); err != nil || d <= 0 {
			return fmt.Errorf("invalid api.timeout %q", c.API.Timeout)
		}
	}
	return nil
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
	return filepath.Join(configDir, "folio", "config.yaml"), nil
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		if path == "~" {
			return home, nil
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
			return &Config{}, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &cfg, nil
}

// Save writes config to disk.
func (c *Config) Save() error {
	path, err := GetConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

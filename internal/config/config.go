package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"chatbox/internal/logging"

	"gopkg.in/yaml.v3"
)

// Config holds all chatbox configuration.
type Config struct {
	// Chat service
	Endpoint EndpointConfig `yaml:"endpoint"`

	// Terminal UI
	UI UIConfig `yaml:"ui"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// EndpointConfig configures the outbound chat service call.
type EndpointConfig struct {
	BaseURL string `yaml:"base_url"`
	// Timeout is a duration string; empty or "0" means no timeout.
	Timeout string `yaml:"timeout"`
}

// UIConfig configures the chat screen.
type UIConfig struct {
	Theme       string `yaml:"theme"`    // auto, light, dark
	Markdown    bool   `yaml:"markdown"` // render bot replies as markdown
	Placeholder string `yaml:"placeholder"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level      string          `yaml:"level"`  // debug, info, warn, error
	Format     string          `yaml:"format"` // json, text
	File       string          `yaml:"file"`   // relative paths resolve against the config dir
	Categories map[string]bool `yaml:"categories,omitempty"`
}

// Valid theme names.
var ValidThemes = []string{"auto", "light", "dark"}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Endpoint: EndpointConfig{
			BaseURL: "http://localhost:8000",
			Timeout: "0",
		},
		UI: UIConfig{
			Theme:       "auto",
			Markdown:    true,
			Placeholder: "Type a message",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			File:   "chatbox.log",
		},
	}
}

// DefaultConfigDir returns ~/.config/chatbox (or the platform equivalent).
func DefaultConfigDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "chatbox")
	}
	return ".chatbox"
}

// DefaultConfigPath returns the default config file location.
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.yaml")
}

// Load loads configuration from a YAML file.
// A missing file yields the defaults; env overrides apply either way.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
		logging.ConfigDebug("loaded config from %s", path)
	} else {
		logging.ConfigDebug("no config at %s, using defaults", path)
	}

	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("CHATBOX_ENDPOINT"); v != "" {
		c.Endpoint.BaseURL = v
		logging.ConfigDebug("CHATBOX_ENDPOINT overrides endpoint: %s", v)
	}
	if v := os.Getenv("CHATBOX_TIMEOUT"); v != "" {
		c.Endpoint.Timeout = v
		logging.ConfigDebug("CHATBOX_TIMEOUT overrides timeout: %s", v)
	}
	if v := os.Getenv("CHATBOX_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
		logging.ConfigDebug("CHATBOX_LOG_LEVEL overrides level: %s", v)
	}
	if os.Getenv("CHATBOX_DARK_MODE") == "1" {
		c.UI.Theme = "dark"
		logging.ConfigDebug("CHATBOX_DARK_MODE forces the dark theme")
	}
}

// GetTimeout returns the chat request timeout. Zero means none.
func (c *Config) GetTimeout() time.Duration {
	t := strings.TrimSpace(c.Endpoint.Timeout)
	if t == "" {
		return 0
	}
	d, err := time.ParseDuration(t)
	if err != nil || d < 0 {
		logging.ConfigWarn("ignoring invalid endpoint timeout %q, running without one", t)
		return 0
	}
	return d
}

// LogPath resolves the log file against dir when it is relative.
func (c *Config) LogPath(dir string) string {
	file := c.Logging.File
	if file == "" {
		file = "chatbox.log"
	}
	if filepath.IsAbs(file) {
		return file
	}
	return filepath.Join(dir, file)
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Endpoint.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid endpoint base_url %q: %w", c.Endpoint.BaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid endpoint base_url %q: scheme must be http or https", c.Endpoint.BaseURL)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid endpoint base_url %q: missing host", c.Endpoint.BaseURL)
	}

	if t := strings.TrimSpace(c.Endpoint.Timeout); t != "" {
		d, err := time.ParseDuration(t)
		if err != nil {
			return fmt.Errorf("invalid endpoint timeout %q: %w", t, err)
		}
		if d < 0 {
			return fmt.Errorf("invalid endpoint timeout %q: must not be negative", t)
		}
	}

	validTheme := false
	for _, th := range ValidThemes {
		if c.UI.Theme == th {
			validTheme = true
			break
		}
	}
	if !validTheme {
		return fmt.Errorf("invalid ui theme: %s (valid: %v)", c.UI.Theme, ValidThemes)
	}

	switch c.Logging.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("invalid logging format: %s (valid: text, json)", c.Logging.Format)
	}

	return nil
}

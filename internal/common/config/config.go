// Package config loads and persists the storewatch application configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

var (
	ErrSlackTokenNotSet   = errors.New("slack token is not configured: set slack.token or the SLACK_BOT_TOKEN environment variable")
	ErrSlackChannelNotSet = errors.New("slack channel is not configured: set slack.channel")
)

// DefaultInterval is the default delay between monitor cycles.
const DefaultInterval = 4 * time.Hour

// envVarPattern matches ${VAR_NAME} syntax for environment variable substitution
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// Config represents the application configuration
type Config struct {
	Slack   SlackConfig   `yaml:"slack"`
	Monitor MonitorConfig `yaml:"monitor"`
	Log     LogConfig     `yaml:"log"`
}

// LogConfig holds logging settings
type LogConfig struct {
	// Verbose enables debug output without the --verbose flag
	Verbose bool `yaml:"verbose"`
}

// SlackConfig holds the notification channel settings
type SlackConfig struct {
	// Token is the bot token; supports ${VAR} environment substitution
	Token   string `yaml:"token"`
	Channel string `yaml:"channel"`
}

// MonitorConfig holds scheduling and state settings
type MonitorConfig struct {
	// Interval is the delay between cycles (default: 4h)
	Interval Duration `yaml:"interval"`
	// NotifyFirstSeen controls whether a never-before-seen app triggers a
	// notification on first observation (default: false, to avoid a
	// notification storm on the first run)
	NotifyFirstSeen bool `yaml:"notify_first_seen"`
	// StateDir overrides the directory holding versions.json (default: config dir)
	StateDir string `yaml:"state_dir,omitempty"`
	// Watchlist overrides the path to apps.toml (default: config dir)
	Watchlist string `yaml:"watchlist,omitempty"`
}

// Duration wraps time.Duration for YAML encoding as a string like "4h".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	dur, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(dur)
	return nil
}

// MarshalYAML implements yaml.Marshaler
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// ConfigPaths returns all possible config file paths in priority order
// 1. ~/.config/storewatch/config.yaml (XDG standard - priority)
// 2. ~/.storewatch/config.yaml (legacy fallback)
func ConfigPaths() ([]string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	// Check XDG_CONFIG_HOME first, fallback to ~/.config
	xdgConfig := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfig == "" {
		xdgConfig = filepath.Join(home, ".config")
	}

	return []string{
		filepath.Join(xdgConfig, "storewatch", "config.yaml"),
		filepath.Join(home, ".storewatch", "config.yaml"),
	}, nil
}

// DefaultConfigPath returns the default config file path (XDG standard)
func DefaultConfigPath() (string, error) {
	paths, err := ConfigPaths()
	if err != nil {
		return "", err
	}
	return paths[0], nil
}

// FindConfigPath returns the first existing config file path
// Returns the default path if no config file exists yet
func FindConfigPath() (string, error) {
	paths, err := ConfigPaths()
	if err != nil {
		return "", err
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	// No config exists, return default (XDG) path for creation
	return paths[0], nil
}

// Default returns a configuration populated with defaults
func Default() *Config {
	return &Config{
		Slack: SlackConfig{
			Token: "${SLACK_BOT_TOKEN}",
		},
		Monitor: MonitorConfig{
			Interval:        Duration(DefaultInterval),
			NotifyFirstSeen: false,
		},
	}
}

// Load reads configuration from the first available config file
// Priority: ~/.config/storewatch/config.yaml > ~/.storewatch/config.yaml
func Load() (*Config, error) {
	configPath, err := FindConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(configPath)
}

// LoadFrom reads configuration from a specific file path.
// A missing file is replaced with a default configuration which is saved
// for the user to edit.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := Default()
			if saveErr := cfg.SaveTo(path); saveErr != nil {
				return nil, saveErr
			}
			return cfg, nil
		}
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	return cfg, nil
}

// Save writes configuration to the default config file
func (c *Config) Save() error {
	configPath, err := DefaultConfigPath()
	if err != nil {
		return err
	}
	return c.SaveTo(configPath)
}

// SaveTo writes configuration to a specific file path
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600)
}

// SlackToken returns the token with environment variables substituted.
func (c *Config) SlackToken() (string, error) {
	token := SubstituteEnvVars(c.Slack.Token)
	if token == "" {
		return "", ErrSlackTokenNotSet
	}
	return token, nil
}

// SlackChannel returns the configured destination channel.
func (c *Config) SlackChannel() (string, error) {
	if c.Slack.Channel == "" {
		return "", ErrSlackChannelNotSet
	}
	return c.Slack.Channel, nil
}

// Interval returns the configured cycle interval, falling back to the default.
func (c *Config) Interval() time.Duration {
	if c.Monitor.Interval <= 0 {
		return DefaultInterval
	}
	return time.Duration(c.Monitor.Interval)
}

// StateDir returns the directory holding the persisted version state.
func (c *Config) StateDir() (string, error) {
	if c.Monitor.StateDir != "" {
		return expandHome(c.Monitor.StateDir)
	}
	configPath, err := DefaultConfigPath()
	if err != nil {
		return "", err
	}
	return filepath.Dir(configPath), nil
}

// WatchlistPath returns the path to the tracked apps file.
func (c *Config) WatchlistPath() (string, error) {
	if c.Monitor.Watchlist != "" {
		return expandHome(c.Monitor.Watchlist)
	}
	dir, err := c.StateDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "apps.toml"), nil
}

// expandHome expands a leading ~ in a path
func expandHome(path string) (string, error) {
	if len(path) > 0 && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, path[1:]), nil
	}
	return path, nil
}

// SubstituteEnvVars replaces ${VAR_NAME} patterns in a string with
// the corresponding environment variable values.
// If an environment variable is not set, the pattern is replaced with an empty string.
func SubstituteEnvVars(value string) string {
	return envVarPattern.ReplaceAllStringFunc(value, func(match string) string {
		varName := match[2 : len(match)-1]
		return os.Getenv(varName)
	})
}

package shared

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	API           APIConfig           `toml:"api"`
	Store         StoreConfig         `toml:"store"`
	Favorites     FavoritesConfig     `toml:"favorites"`
	Notifications NotificationsConfig `toml:"notifications"`
	Server        ServerConfig        `toml:"server"`
}

// APIConfig contains settings for the remote events backend.
type APIConfig struct {
	BaseURL        string  `toml:"base_url"`
	TimeoutSeconds int     `toml:"timeout_seconds"`
	RateLimit      float64 `toml:"rate_limit"`
	Token          string  `toml:"token"`
}

// StoreConfig contains durable store (SQLite) settings.
type StoreConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// FavoritesConfig tunes the favorites cache and heart tap behavior.
type FavoritesConfig struct {
	StaleAfterMS int `toml:"stale_after_ms"`
	NavDelayMS   int `toml:"nav_delay_ms"`
}

// NotificationsConfig controls where toasts are delivered.
type NotificationsConfig struct {
	Desktop bool `toml:"desktop"`
}

// ServerConfig contains settings for the local development backend.
type ServerConfig struct {
	Host         string `toml:"host"`
	Port         int    `toml:"port"`
	DatabasePath string `toml:"database_path"`
}

// Timeout returns the HTTP timeout for backend requests.
func (c APIConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// StaleAfter returns the favorites cache freshness window.
func (c FavoritesConfig) StaleAfter() time.Duration {
	return time.Duration(c.StaleAfterMS) * time.Millisecond
}

// NavDelay returns the delay between a heart tap and the profile navigation.
func (c FavoritesConfig) NavDelay() time.Duration {
	return time.Duration(c.NavDelayMS) * time.Millisecond
}

// Addr returns host:port for the development backend.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Validate reports configuration values that would break the client.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("%w: api.base_url is required", ErrInvalidConfig)
	}
	if c.API.TimeoutSeconds < 0 {
		return fmt.Errorf("%w: api.timeout_seconds must not be negative", ErrInvalidConfig)
	}
	if c.API.RateLimit < 0 {
		return fmt.Errorf("%w: api.rate_limit must not be negative", ErrInvalidConfig)
	}
	if c.Store.Path == "" {
		return fmt.Errorf("%w: store.path is required", ErrInvalidConfig)
	}
	if c.Favorites.StaleAfterMS < 0 || c.Favorites.NavDelayMS < 0 {
		return fmt.Errorf("%w: favorites durations must not be negative", ErrInvalidConfig)
	}
	return nil
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys missing from the file keep their embedded defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

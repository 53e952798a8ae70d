package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration.
type Config struct {
	// Scryfall API access
	Scryfall ScryfallConfig `toml:"scryfall"`

	// Local state database
	Storage StorageConfig `toml:"storage"`

	// Card browser behavior
	Browser BrowserConfig `toml:"browser"`

	// REST/WebSocket server
	Server ServerConfig `toml:"server"`

	// CSV drop folder
	Import ImportConfig `toml:"import"`

	// Application configuration
	App AppConfig `toml:"app"`
}

// ScryfallConfig contains remote search settings.
type ScryfallConfig struct {
	BaseURL        string `toml:"base_url"`        // API root
	UserAgent      string `toml:"user_agent"`      // Sent with every request
	RateLimit      string `toml:"rate_limit"`      // Minimum gap between requests (e.g., "100ms")
	InitialQuery   string `toml:"initial_query"`   // Query for the startup card load
	InitialPages   int    `toml:"initial_pages"`   // Pages fetched at startup (0 = skip)
	RequestTimeout string `toml:"request_timeout"` // HTTP timeout (e.g., "15s")
}

// StorageConfig contains database settings.
type StorageConfig struct {
	Path        string `toml:"path"`         // SQLite file; empty uses the config directory
	BusyTimeout int    `toml:"busy_timeout"` // Milliseconds
}

// BrowserConfig contains card browser settings.
type BrowserConfig struct {
	Debounce string `toml:"debounce"` // Delay before a facet change fetches (e.g., "300ms")
}

// ServerConfig contains API server settings.
type ServerConfig struct {
	Port           int      `toml:"port"`
	AllowedOrigins []string `toml:"allowed_origins"` // CORS origins
}

// ImportConfig contains the CSV watch folder settings.
type ImportConfig struct {
	WatchDir     string `toml:"watch_dir"`     // Empty disables watching
	Pattern      string `toml:"pattern"`       // Glob matched against file names (e.g., "**/*.csv")
	CollectionID string `toml:"collection_id"` // Target collection; empty creates one per file
}

// AppConfig contains general application settings.
type AppConfig struct {
	DebugMode bool `toml:"debug_mode"` // Enable debug logging
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Scryfall: ScryfallConfig{
			BaseURL:        "https://api.scryfall.com",
			UserAgent:      "MTG-Collection/1.0",
			RateLimit:      "100ms",
			InitialQuery:   "game:paper",
			InitialPages:   3,
			RequestTimeout: "15s",
		},
		Storage: StorageConfig{
			Path:        "",
			BusyTimeout: 5000,
		},
		Browser: BrowserConfig{
			Debounce: "300ms",
		},
		Server: ServerConfig{
			Port:           8080,
			AllowedOrigins: []string{"http://localhost:*", "http://127.0.0.1:*"},
		},
		Import: ImportConfig{
			WatchDir: "",
			Pattern:  "**/*.csv",
		},
		App: AppConfig{
			DebugMode: false,
		},
	}
}

// Dir returns the configuration directory, creating it if needed.
func Dir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}

	configDir := filepath.Join(homeDir, ".mtg-collection")
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return "", fmt.Errorf("create config directory: %w", err)
	}

	return configDir, nil
}

// configPath returns the path to the configuration file.
func configPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load loads the configuration from the default location. Returns default
// config if the file doesn't exist.
func Load() (*Config, error) {
	path, err := configPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom loads the configuration from path. Keys missing from the file
// keep their default values.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	// Parse TOML over the defaults
	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	return config, nil
}

// Save saves the configuration to the default location.
func (c *Config) Save() error {
	path, err := configPath()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo writes the configuration to path.
func (c *Config) SaveTo(path string) error {
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate validates the configuration values.
func (c *Config) Validate() error {
	if _, err := time.ParseDuration(c.Scryfall.RateLimit); err != nil {
		return fmt.Errorf("invalid rate limit %q: %w", c.Scryfall.RateLimit, err)
	}

	if _, err := time.ParseDuration(c.Scryfall.RequestTimeout); err != nil {
		return fmt.Errorf("invalid request timeout %q: %w", c.Scryfall.RequestTimeout, err)
	}

	if c.Scryfall.InitialPages < 0 {
		return fmt.Errorf("initial pages cannot be negative: %d", c.Scryfall.InitialPages)
	}

	if _, err := time.ParseDuration(c.Browser.Debounce); err != nil {
		return fmt.Errorf("invalid debounce %q: %w", c.Browser.Debounce, err)
	}

	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Storage.BusyTimeout < 0 {
		return fmt.Errorf("busy timeout cannot be negative: %d", c.Storage.BusyTimeout)
	}

	return nil
}

// DatabasePath returns the configured database file, defaulting to
// state.db in the config directory.
func (c *Config) DatabasePath() (string, error) {
	if c.Storage.Path != "" {
		return c.Storage.Path, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "state.db"), nil
}

// GetRateLimit returns the Scryfall request gap as a duration.
func (c *Config) GetRateLimit() (time.Duration, error) {
	return time.ParseDuration(c.Scryfall.RateLimit)
}

// GetRequestTimeout returns the HTTP timeout as a duration.
func (c *Config) GetRequestTimeout() (time.Duration, error) {
	return time.ParseDuration(c.Scryfall.RequestTimeout)
}

// GetDebounce returns the browser debounce delay as a duration.
func (c *Config) GetDebounce() (time.Duration, error) {
	return time.ParseDuration(c.Browser.Debounce)
}

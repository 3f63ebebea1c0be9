// ABOUTME: Configuration loading and parsing for homestore
// ABOUTME: Supports YAML, TOML and JSON-with-comments files with environment variable expansion

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/tailscale/hujson"
	"gopkg.in/yaml.v3"
)

// Config represents the complete homestore configuration
type Config struct {
	Database DatabaseConfig `yaml:"database" toml:"database" json:"database"`
	Logging  LoggingConfig  `yaml:"logging" toml:"logging" json:"logging"`
	Defaults DefaultsConfig `yaml:"defaults" toml:"defaults" json:"defaults"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Path   string `yaml:"path" toml:"path" json:"path"`
	Driver string `yaml:"driver" toml:"driver" json:"driver"` // sqlite (pure Go) or sqlite3 (cgo)

	BusyTimeout time.Duration `yaml:"-" toml:"-" json:"-"`

	// Raw string value for unmarshaling
	BusyTimeoutRaw string `yaml:"busy_timeout" toml:"busy_timeout" json:"busy_timeout"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level" toml:"level" json:"level"`
	Format string `yaml:"format" toml:"format" json:"format"`
}

// DefaultsConfig is the layout seeded into a freshly created store
type DefaultsConfig struct {
	Pages     [][]AppConfig    `yaml:"pages" toml:"pages" json:"pages"`
	Dock      []AppConfig      `yaml:"dock" toml:"dock" json:"dock"`
	Bookmarks []BookmarkConfig `yaml:"bookmarks" toml:"bookmarks" json:"bookmarks"`
}

// IsEmpty reports whether no default content is configured.
func (d DefaultsConfig) IsEmpty() bool {
	return len(d.Pages) == 0 && len(d.Dock) == 0 && len(d.Bookmarks) == 0
}

// AppConfig references an app in the default layout
type AppConfig struct {
	Origin     string `yaml:"origin" toml:"origin" json:"origin"`
	EntryPoint string `yaml:"entry_point" toml:"entry_point" json:"entry_point"`
	Bookmark   bool   `yaml:"bookmark" toml:"bookmark" json:"bookmark"`
}

// BookmarkConfig is a bookmark in the default layout
type BookmarkConfig struct {
	URL  string `yaml:"url" toml:"url" json:"url"`
	Name string `yaml:"name" toml:"name" json:"name"`
	Icon string `yaml:"icon" toml:"icon" json:"icon"`
}

const (
	defaultDriver      = "sqlite"
	defaultBusyTimeout = 5 * time.Second
	databaseFile       = "homescreen.db"
)

var (
	validDrivers  = []string{"sqlite", "sqlite3"}
	validLevels   = []string{"debug", "info", "warn", "error"}
	validFormats  = []string{"text", "json"}
	envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)
	supportedExts = ".yaml, .yml, .toml, .json, .jsonc, .hujson"
)

// DataDir returns the homestore data directory.
// Priority: XDG_DATA_HOME/homestore > ~/.local/share/homestore
func DataDir() string {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "data" // fallback
		}
		dataDir = filepath.Join(homeDir, ".local", "share")
	}
	return filepath.Join(dataDir, "homestore")
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path:        filepath.Join(DataDir(), databaseFile),
			Driver:      defaultDriver,
			BusyTimeout: defaultBusyTimeout,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads a configuration file from the given path and returns a parsed Config.
// The format follows the file extension. Environment variables in the format
// ${VAR_NAME} are expanded and duration strings are parsed into time.Duration values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Expand environment variables in the raw content
	expanded := expandEnvVars(string(data))

	var cfg Config
	if err := decode(path, []byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := parseDurations(&cfg); err != nil {
		return nil, fmt.Errorf("parsing durations: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// decode unmarshals data according to the extension of path.
func decode(path string, data []byte, cfg *Config) error {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, cfg)
	case ".toml":
		_, err := toml.Decode(string(data), cfg)
		return err
	case ".json", ".jsonc", ".hujson":
		std, err := hujson.Standardize(data)
		if err != nil {
			return err
		}
		return json.Unmarshal(std, cfg)
	default:
		return fmt.Errorf("unsupported config format %q (want one of %s)", ext, supportedExts)
	}
}

// expandEnvVars replaces ${VAR_NAME} patterns with the corresponding environment variable values.
// If the environment variable is not set, it is replaced with an empty string.
func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		varName := envVarPattern.FindStringSubmatch(match)[1]
		return os.Getenv(varName)
	})
}

// expandHome replaces a leading ~/ with the user's home directory.
func expandHome(path string) string {
	rest, ok := strings.CutPrefix(path, "~/")
	if !ok {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, rest)
}

// applyDefaults fills in unset optional fields.
func applyDefaults(cfg *Config) {
	cfg.Database.Path = expandHome(cfg.Database.Path)
	if cfg.Database.Driver == "" {
		cfg.Database.Driver = defaultDriver
	}
	if cfg.Database.BusyTimeout == 0 {
		cfg.Database.BusyTimeout = defaultBusyTimeout
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}
}

// Validate checks that all required configuration fields are present and valid.
// Returns an error describing the first validation failure encountered.
func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	if !contains(validDrivers, c.Database.Driver) {
		return fmt.Errorf("database.driver %q is invalid (want one of %v)", c.Database.Driver, validDrivers)
	}
	if c.Database.BusyTimeout < 0 {
		return fmt.Errorf("database.busy_timeout must not be negative")
	}
	if !contains(validLevels, c.Logging.Level) {
		return fmt.Errorf("logging.level %q is invalid (want one of %v)", c.Logging.Level, validLevels)
	}
	if !contains(validFormats, c.Logging.Format) {
		return fmt.Errorf("logging.format %q is invalid (want one of %v)", c.Logging.Format, validFormats)
	}

	for i, page := range c.Defaults.Pages {
		for j, app := range page {
			if app.Origin == "" {
				return fmt.Errorf("defaults.pages[%d][%d].origin is required", i, j)
			}
		}
	}
	for i, app := range c.Defaults.Dock {
		if app.Origin == "" {
			return fmt.Errorf("defaults.dock[%d].origin is required", i)
		}
	}
	for i, b := range c.Defaults.Bookmarks {
		if b.URL == "" {
			return fmt.Errorf("defaults.bookmarks[%d].url is required", i)
		}
	}

	return nil
}

// parseDurations converts the raw duration strings into time.Duration values
func parseDurations(cfg *Config) error {
	if cfg.Database.BusyTimeoutRaw != "" {
		d, err := time.ParseDuration(cfg.Database.BusyTimeoutRaw)
		if err != nil {
			return fmt.Errorf("parsing busy_timeout %q: %w", cfg.Database.BusyTimeoutRaw, err)
		}
		cfg.Database.BusyTimeout = d
	}
	return nil
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}

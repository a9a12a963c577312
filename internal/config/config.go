// Package config handles sift configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/aidanlsb/sift/internal/atomicfile"
)

// Config represents the sift configuration file.
type Config struct {
	Database Database `toml:"database"`
	Search   Search   `toml:"search"`
	Log      Log      `toml:"log"`

	// UI controls optional CLI theming preferences.
	UI UIConfig `toml:"ui"`
}

// Database configures the backing store and its connection pool.
type Database struct {
	// Driver is "sqlite" (default) or "mysql".
	Driver string `toml:"driver"`

	// DSN is a file path for sqlite, or a go-sql-driver DSN for mysql.
	// An empty sqlite DSN uses sift.db next to the config file.
	DSN string `toml:"dsn"`

	MaxOpen int `toml:"max_open"`
	MaxIdle int `toml:"max_idle"`

	// ConnMaxLifetime is a Go duration string such as "5m".
	ConnMaxLifetime string `toml:"conn_max_lifetime"`
}

// Search configures query compilation.
type Search struct {
	// DefaultLimit bounds searches without a _limit (default 20).
	DefaultLimit int `toml:"default_limit"`

	// NearLimit bounds near: searches without a _limit (default 20).
	NearLimit int `toml:"near_limit"`

	// StrictLimit rejects non-numeric _limit values instead of ignoring them.
	StrictLimit bool `toml:"strict_limit"`
}

// Log configures diagnostic logging.
type Log struct {
	// Level is a zap level name: debug, info, warn, error.
	Level string `toml:"level"`

	// Format is "console" (default) or "json".
	Format string `toml:"format"`
}

// UIConfig represents optional CLI theming preferences.
type UIConfig struct {
	// Accent is an optional accent color for CLI output and markdown rendering.
	// Supported values are ANSI color codes ("0" to "255") or hex colors ("#RRGGBB").
	Accent string `toml:"accent"`

	// CodeTheme sets the Glamour/Chroma theme used for rendered markdown code blocks.
	CodeTheme string `toml:"code_theme"`
}

const (
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
)

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Database: Database{Driver: DriverSQLite},
		Search:   Search{DefaultLimit: 20, NearLimit: 20},
		Log:      Log{Level: "warn", Format: "console"},
	}
}

// Load loads the configuration from the default location.
// Returns a default config if the file doesn't exist.
func Load() (*Config, error) {
	configPath := DefaultPath()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return Default(), nil
	}

	return LoadFrom(configPath)
}

// LoadFrom loads the configuration from a specific path. Unset values keep
// their defaults.
func LoadFrom(path string) (*Config, error) {
	config := Default()
	if _, err := toml.DecodeFile(path, config); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return config, nil
}

// Validate checks values that cannot be caught by decoding alone.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Database.Driver) {
	case "", DriverSQLite, DriverMySQL:
	default:
		return fmt.Errorf("database.driver must be %q or %q, got %q", DriverSQLite, DriverMySQL, c.Database.Driver)
	}
	if strings.EqualFold(c.Database.Driver, DriverMySQL) && strings.TrimSpace(c.Database.DSN) == "" {
		return fmt.Errorf("database.dsn is required for mysql")
	}
	if _, err := c.Database.Lifetime(); err != nil {
		return err
	}
	if c.Search.DefaultLimit < 0 || c.Search.NearLimit < 0 {
		return fmt.Errorf("search limits must not be negative")
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "console", "json":
	default:
		return fmt.Errorf("log.format must be \"console\" or \"json\", got %q", c.Log.Format)
	}
	return nil
}

// DriverName returns the normalized driver name.
func (d Database) DriverName() string {
	if d.Driver == "" {
		return DriverSQLite
	}
	return strings.ToLower(d.Driver)
}

// Lifetime parses ConnMaxLifetime. Empty means connections are reused
// forever.
func (d Database) Lifetime() (time.Duration, error) {
	if strings.TrimSpace(d.ConnMaxLifetime) == "" {
		return 0, nil
	}
	lifetime, err := time.ParseDuration(d.ConnMaxLifetime)
	if err != nil {
		return 0, fmt.Errorf("database.conn_max_lifetime: %w", err)
	}
	return lifetime, nil
}

// ResolveDSN returns the DSN to open. A relative sqlite path is resolved
// against the config file's directory.
func (d Database) ResolveDSN(configPath string) string {
	if d.DriverName() != DriverSQLite {
		return d.DSN
	}
	dsn := strings.TrimSpace(d.DSN)
	if dsn == "" {
		return filepath.Join(filepath.Dir(configPath), "sift.db")
	}
	if dsn == ":memory:" || strings.HasPrefix(dsn, "file:") || filepath.IsAbs(dsn) {
		return dsn
	}
	return filepath.Join(filepath.Dir(configPath), dsn)
}

// ResolveConfigPath resolves the effective config path from an optional override.
func ResolveConfigPath(explicitConfigPath string) string {
	if strings.TrimSpace(explicitConfigPath) != "" {
		return explicitConfigPath
	}
	return DefaultPath()
}

// DefaultPath returns the default config file path.
// Checks ~/.config/sift/config.toml first (XDG style),
// then falls back to OS-specific location.
func DefaultPath() string {
	if home, err := os.UserHomeDir(); err == nil {
		xdgPath := filepath.Join(home, ".config", "sift", "config.toml")
		if _, err := os.Stat(xdgPath); err == nil {
			return xdgPath
		}
	}

	if configDir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(configDir, "sift", "config.toml")
	}

	return filepath.Join(".", "config.toml")
}

// CreateDefault creates a default config file at path if it doesn't exist.
func CreateDefault(path string) (string, error) {
	configPath := ResolveConfigPath(path)

	if _, err := os.Stat(configPath); err == nil {
		return configPath, nil // Already exists
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	defaultConfig := `# sift configuration

[database]
# "sqlite" or "mysql"
driver = "sqlite"
# sqlite: database file, relative to this config file
# mysql:  user:password@tcp(host:3306)/sift?parseTime=true
# dsn = "sift.db"
# max_open = 4
# max_idle = 2
# conn_max_lifetime = "5m"

[search]
# Results returned when a query has no _limit.
default_limit = 20
# Results returned for near: queries without a _limit.
near_limit = 20
# Reject _limit values that are not positive integers.
strict_limit = false

[log]
# debug, info, warn, error
level = "warn"
# console or json
format = "console"

# Optional UI accent color for headers in terminal output.
# Supports ANSI color codes (0-255) or hex (#RRGGBB).
# [ui]
# accent = "39"
# code_theme = "monokai"
`

	if err := atomicfile.WriteFile(configPath, []byte(defaultConfig), 0644); err != nil {
		return "", fmt.Errorf("failed to write config file: %w", err)
	}

	return configPath, nil
}

// Package config handles persistent user configuration for covidash.
//
// Configuration is stored as JSON at ~/.config/covidash/config.json (or the
// platform-equivalent path returned by os.UserConfigDir).
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	appDir   = "covidash"
	fileName = "config.json"

	// DefaultBaseURL is used when base-url is not set.
	DefaultBaseURL = "https://disease.sh"
	// DefaultRequestTimeout is used when request-timeout is not set.
	DefaultRequestTimeout = 30 * time.Second
	// DefaultRetryAttempts is used when retry-attempts is not set.
	DefaultRetryAttempts = 1
	// DefaultLogLevel is used when log-level is not set.
	DefaultLogLevel = "info"
)

// pathOverride, when non-empty, replaces the default config file path.
// Intended for testing. Use SetPath / ResetPath to manage.
var pathOverride string

// SetPath overrides the config file path. Intended for testing.
func SetPath(p string) { pathOverride = p }

// ResetPath clears the path override, reverting to the default. Intended for testing.
func ResetPath() { pathOverride = "" }

// Config holds user preferences that persist across invocations. Values
// are stored as the strings the user typed; the typed accessors below
// apply defaults and parsing.
type Config struct {
	BaseURL        string `json:"base_url,omitempty"`
	DefaultCountry string `json:"default_country,omitempty"`
	RequestTimeout string `json:"request_timeout,omitempty"`
	RetryAttempts  string `json:"retry_attempts,omitempty"`
	LogLevel       string `json:"log_level,omitempty"`
	LogFile        string `json:"log_file,omitempty"`
}

// APIBaseURL returns the configured API host or the public default.
func (c *Config) APIBaseURL() string {
	if c == nil || strings.TrimSpace(c.BaseURL) == "" {
		return DefaultBaseURL
	}
	return strings.TrimSpace(c.BaseURL)
}

// Timeout returns the HTTP request timeout. Invalid values fall back to
// the default; "0" disables the timeout.
func (c *Config) Timeout() time.Duration {
	if c == nil || c.RequestTimeout == "" {
		return DefaultRequestTimeout
	}
	d, err := ParseTimeout(c.RequestTimeout)
	if err != nil {
		return DefaultRequestTimeout
	}
	return d
}

// Attempts returns how many times each request may be tried.
func (c *Config) Attempts() int {
	if c == nil || c.RetryAttempts == "" {
		return DefaultRetryAttempts
	}
	n, err := ParseAttempts(c.RetryAttempts)
	if err != nil {
		return DefaultRetryAttempts
	}
	return n
}

// Level returns the configured log level name.
func (c *Config) Level() string {
	if c == nil || strings.TrimSpace(c.LogLevel) == "" {
		return DefaultLogLevel
	}
	return strings.TrimSpace(c.LogLevel)
}

// ParseTimeout parses a request-timeout value such as "30s" or "0".
func ParseTimeout(v string) (time.Duration, error) {
	v = strings.TrimSpace(v)
	if v == "0" {
		return 0, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", v, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("duration %q must not be negative", v)
	}
	return d, nil
}

// ParseAttempts parses a retry-attempts value (1-10).
func ParseAttempts(v string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, fmt.Errorf("invalid attempt count %q: %w", v, err)
	}
	if n < 1 || n > 10 {
		return 0, fmt.Errorf("attempt count must be between 1 and 10, got %d", n)
	}
	return n, nil
}

// Path returns the absolute path to the config file.
// If SetPath has been called, that value is returned instead.
// Otherwise it uses os.UserConfigDir which resolves to
// ~/Library/Application Support on macOS, ~/.config on Linux, and
// %AppData% on Windows.
func Path() (string, error) {
	if pathOverride != "" {
		return pathOverride, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("config: unable to determine config directory: %w", err)
	}
	return filepath.Join(base, appDir, fileName), nil
}

// Load reads the config file from disk and returns the parsed Config.
// If the file does not exist, a zero-value Config is returned (not an error).
func Load() (*Config, error) {
	return loadFrom("")
}

func loadFrom(path string) (*Config, error) {
	if path == "" {
		var err error
		path, err = Path()
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("config: failed to read %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse %s: %w", path, err)
	}

	return &cfg, nil
}

// Save writes the config to disk, creating the parent directory if needed.
func (c *Config) Save() error {
	return c.saveTo("")
}

func (c *Config) saveTo(path string) error {
	if path == "" {
		var err error
		path, err = Path()
		if err != nil {
			return err
		}
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("config: failed to create directory %s: %w", dir, err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("config: failed to marshal config: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: failed to write %s: %w", path, err)
	}

	return nil
}

// LoadFrom reads the config from the given path. Intended for testing.
func LoadFrom(path string) (*Config, error) {
	return loadFrom(path)
}

// SaveTo writes the config to the given path. Intended for testing.
func (c *Config) SaveTo(path string) error {
	return c.saveTo(path)
}

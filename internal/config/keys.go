package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
)

// KeySpec describes a single configuration key.
type KeySpec struct {
	// Name is the CLI-facing key name (e.g. "default-country").
	Name string

	// Description is a short human-readable explanation shown in help text.
	Description string

	// Get returns the current value for this key from a loaded Config.
	Get func(cfg *Config) string

	// Set applies a value for this key to the given Config (in memory only;
	// the caller is responsible for calling Save).
	Set func(cfg *Config, value string)

	// Validate rejects malformed values before they are saved. Nil means
	// any value is accepted.
	Validate func(value string) error

	// CaseSensitive keeps the value's case when saving.
	CaseSensitive bool

	// Default is the effective value shown while the key is unset.
	Default string
}

// Keys is the authoritative list of all supported configuration keys.
// To add a new option: add a field to Config and append a KeySpec here.
var Keys = []KeySpec{
	{
		Name:        "default-country",
		Description: "Country shown on start-up when --country is not given (empty = worldwide)",
		Default:     "worldwide",
		Get:         func(cfg *Config) string { return cfg.DefaultCountry },
		Set:         func(cfg *Config, v string) { cfg.DefaultCountry = v },

		CaseSensitive: true,
	},
	{
		Name:        "base-url",
		Description: "Statistics API host (default " + DefaultBaseURL + ")",
		Default:     DefaultBaseURL,
		Get:         func(cfg *Config) string { return cfg.BaseURL },
		Set:         func(cfg *Config, v string) { cfg.BaseURL = v },
		Validate:    validateURL,

		CaseSensitive: true,
	},
	{
		Name:        "request-timeout",
		Description: "Per-request HTTP timeout, e.g. 30s (0 disables)",
		Default:     DefaultRequestTimeout.String(),
		Get:         func(cfg *Config) string { return cfg.RequestTimeout },
		Set:         func(cfg *Config, v string) { cfg.RequestTimeout = v },
		Validate: func(v string) error {
			_, err := ParseTimeout(v)
			return err
		},
	},
	{
		Name:        "retry-attempts",
		Description: "Attempts per request for transient failures (default 1, no retry)",
		Default:     strconv.Itoa(DefaultRetryAttempts),
		Get:         func(cfg *Config) string { return cfg.RetryAttempts },
		Set:         func(cfg *Config, v string) { cfg.RetryAttempts = v },
		Validate: func(v string) error {
			_, err := ParseAttempts(v)
			return err
		},
	},
	{
		Name:        "log-level",
		Description: "Log verbosity: debug, info, warn or error",
		Default:     DefaultLogLevel,
		Get:         func(cfg *Config) string { return cfg.LogLevel },
		Set:         func(cfg *Config, v string) { cfg.LogLevel = v },
		Validate: func(v string) error {
			_, err := log.ParseLevel(v)
			return err
		},
	},
	{
		Name:        "log-file",
		Description: "File the dashboard writes logs to while the TUI is open",
		Get:         func(cfg *Config) string { return cfg.LogFile },
		Set:         func(cfg *Config, v string) { cfg.LogFile = v },

		CaseSensitive: true,
	},
}

// Effective returns the key's value in cfg, or its default when unset.
// isDefault reports which one was returned.
func (k KeySpec) Effective(cfg *Config) (value string, isDefault bool) {
	if cfg != nil {
		if v := k.Get(cfg); v != "" {
			return v, false
		}
	}
	return k.Default, true
}

func validateURL(v string) error {
	u, err := url.Parse(strings.TrimSpace(v))
	if err != nil {
		return fmt.Errorf("invalid URL %q: %w", v, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid URL %q: scheme must be http or https", v)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid URL %q: missing host", v)
	}
	return nil
}

// Lookup returns the KeySpec for the given name, or nil if not found.
// The name is matched case-insensitively after trimming whitespace.
func Lookup(name string) *KeySpec {
	normalized := strings.ToLower(strings.TrimSpace(name))
	for i := range Keys {
		if Keys[i].Name == normalized {
			return &Keys[i]
		}
	}
	return nil
}

// KeyNames returns the names of all registered keys.
func KeyNames() []string {
	names := make([]string, len(Keys))
	for i, k := range Keys {
		names[i] = k.Name
	}
	return names
}

// KeysHelp builds a formatted block listing all available keys and their
// descriptions, suitable for inclusion in Cobra Long help text.
func KeysHelp() string {
	if len(Keys) == 0 {
		return ""
	}

	// Find the longest key name for alignment.
	maxLen := 0
	for _, k := range Keys {
		if len(k.Name) > maxLen {
			maxLen = len(k.Name)
		}
	}

	var b strings.Builder
	b.WriteString("Available keys:\n")
	for _, k := range Keys {
		fmt.Fprintf(&b, "  %-*s   %s\n", maxLen, k.Name, k.Description)
	}
	return b.String()
}

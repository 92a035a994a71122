// Package stats implements the non-interactive statistics commands:
// summary, countries and history.
package stats

import (
	"fmt"
	"strings"

	"nathanbeddoewebdev/covidash/internal/config"
	"nathanbeddoewebdev/covidash/internal/dashboard"
	"nathanbeddoewebdev/covidash/internal/domain"
	"nathanbeddoewebdev/covidash/internal/providers"

	"github.com/spf13/cobra"
)

// newService loads the configuration and builds the dashboard service on
// the default statistics provider.
func newService() (*dashboard.Service, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	provider, err := providers.Get(providers.Default, cfg)
	if err != nil {
		return nil, nil, err
	}
	return dashboard.NewService(provider), cfg, nil
}

// ResolveScope returns the --country flag when set, otherwise the
// default-country setting, otherwise worldwide.
func ResolveScope(cmd *cobra.Command, cfg *config.Config) domain.Scope {
	if f := cmd.Flags().Lookup("country"); f != nil && f.Changed {
		return domain.ParseScope(f.Value.String())
	}
	if cfg != nil {
		return domain.ParseScope(cfg.DefaultCountry)
	}
	return domain.ScopeWorldwide
}

// outputFormat validates the -o flag.
func outputFormat(cmd *cobra.Command) (string, error) {
	output, _ := cmd.Flags().GetString("output")
	output = strings.ToLower(strings.TrimSpace(output))
	switch output {
	case "", "table":
		return "table", nil
	case "json":
		return "json", nil
	case "yaml", "yml":
		return "yaml", nil
	}
	return "", fmt.Errorf("unsupported output format %q (use table, json or yaml)", output)
}

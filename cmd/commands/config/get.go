package config

import (
	"fmt"
	"strings"

	"nathanbeddoewebdev/covidash/internal/config"

	"github.com/jedib0t/go-pretty/table"
	"github.com/spf13/cobra"
)

// GetCommand returns the "config get" command.
func GetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get [key]",
		Short: "Print a setting, or all of them",
		Long: "Print the effective value of a setting. Unset keys print their\n" +
			"default followed by \"(default)\".\n\n" +
			"Without a key, opens the interactive editor in a terminal and prints\n" +
			"a table of every setting otherwise.\n\n" +
			config.KeysHelp() +
			"\nExamples:\n" +
			"  covidash config get\n" +
			"  covidash config get default-country\n" +
			"  covidash config get --key request-timeout",
		Args:         cobra.MaximumNArgs(1),
		RunE:         runGet,
		SilenceUsage: true,
	}

	cmd.Flags().String("key", "", "Setting to print (same as the positional key)")

	return cmd
}

func runGet(cmd *cobra.Command, args []string) error {
	name, _ := cmd.Flags().GetString("key")
	if strings.TrimSpace(name) == "" && len(args) == 1 {
		name = args[0]
	}

	if strings.TrimSpace(name) == "" {
		return runConfig(cmd, nil)
	}

	spec := config.Lookup(name)
	if spec == nil {
		return fmt.Errorf("unknown configuration key %q (valid: %s)", strings.TrimSpace(name), strings.Join(config.KeyNames(), ", "))
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	value, isDefault := spec.Effective(cfg)
	fmt.Fprintln(cmd.OutOrStdout(), effectiveText(value, isDefault))
	return nil
}

// listSettings prints every key with its effective value and where the
// value comes from.
func listSettings(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.AppendHeader(table.Row{"Key", "Value", "Source"})
	for _, spec := range config.Keys {
		value, isDefault := spec.Effective(cfg)
		source := "config"
		if isDefault {
			source = "default"
		}
		t.AppendRow(table.Row{spec.Name, value, source})
	}
	t.Render()
	return nil
}

func effectiveText(value string, isDefault bool) string {
	if isDefault {
		return value + " (default)"
	}
	return value
}

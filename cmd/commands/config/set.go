package config

import (
	"fmt"
	"strings"

	"nathanbeddoewebdev/covidash/internal/config"
	"nathanbeddoewebdev/covidash/internal/util"

	"github.com/spf13/cobra"
)

// SetCommand returns the "config set" command.
func SetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Long: "Set a persistent configuration value. An empty value resets the key\n" +
			"to its default.\n\n" +
			config.KeysHelp() +
			"\nExamples:\n" +
			"  covidash config set default-country Italy\n" +
			"  covidash config set request-timeout 10s\n" +
			"  covidash config set default-country \"\"",
		Args: cobra.ExactArgs(2),
		Run:  runSet,
	}

	return cmd
}

func runSet(cmd *cobra.Command, args []string) {
	key := util.NormalizeKey(args[0])
	value := strings.TrimSpace(args[1])

	spec := config.Lookup(key)
	if spec == nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: unknown configuration key %q\n", args[0])
		fmt.Fprintf(cmd.ErrOrStderr(), "Valid keys: %s\n", strings.Join(config.KeyNames(), ", "))
		return
	}

	if !spec.CaseSensitive {
		value = util.NormalizeKey(value)
	}

	if value != "" && spec.Validate != nil {
		if err := spec.Validate(value); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: invalid value for %s: %v\n", spec.Name, err)
			return
		}
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		return
	}

	spec.Set(cfg, value)
	if err := cfg.Save(); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		return
	}

	if value == "" {
		fmt.Fprintf(cmd.OutOrStdout(), "%s reset to default\n", spec.Name)
		return
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s set to %q\n", spec.Name, value)
}

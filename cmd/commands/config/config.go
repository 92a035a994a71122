// Package config implements "covidash config" and its subcommands on top
// of the KeySpec registry in internal/config.
package config

import (
	"fmt"
	"os"

	"nathanbeddoewebdev/covidash/internal/config"
	"nathanbeddoewebdev/covidash/internal/tui"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// NewCommand returns the "config" command. Run bare in a terminal it opens
// the interactive editor; otherwise it prints every setting.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "View and change covidash settings",
		Long: "View and change persistent covidash settings. Unset keys use the\n" +
			"default shown next to them. Run 'covidash config path' to see where\n" +
			"the settings file lives.\n\n" +
			config.KeysHelp(),
		Args:         cobra.NoArgs,
		RunE:         runConfig,
		SilenceUsage: true,
	}

	cmd.AddCommand(GetCommand())
	cmd.AddCommand(SetCommand())
	cmd.AddCommand(PathCommand())

	return cmd
}

func runConfig(cmd *cobra.Command, args []string) error {
	if term.IsTerminal(int(os.Stdout.Fd())) {
		if err := tui.RunConfigView(); err != nil {
			return fmt.Errorf("config view failed: %w", err)
		}
		return nil
	}
	return listSettings(cmd)
}

// PathCommand returns the "config path" command.
func PathCommand() *cobra.Command {
	return &cobra.Command{
		Use:          "path",
		Short:        "Print the location of the settings file",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.Path()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}

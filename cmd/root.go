package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	cfgcmd "nathanbeddoewebdev/covidash/cmd/commands/config"
	"nathanbeddoewebdev/covidash/cmd/commands/stats"
	"nathanbeddoewebdev/covidash/internal/config"
	"nathanbeddoewebdev/covidash/internal/dashboard"
	"nathanbeddoewebdev/covidash/internal/logging"
	"nathanbeddoewebdev/covidash/internal/providers"
	"nathanbeddoewebdev/covidash/internal/tui"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// rootCmd represents the base command when called without any subcommands.
func rootCmd() *cobra.Command {
	var logCloser io.Closer

	var cmd = &cobra.Command{
		Use:   "covidash",
		Short: "A terminal dashboard for COVID-19 statistics",
		Long: `covidash shows COVID-19 statistics, worldwide or per country, in a
full-screen terminal dashboard: case, death and recovery totals plus a
chart of the daily series. Data comes from the public disease.sh API.

Run without a subcommand to open the dashboard.

Quick start:
  covidash                          # Open the dashboard (worldwide)
  covidash --country Italy          # Open the dashboard on Italy
  covidash summary --country Japan  # Print totals without the TUI
  covidash countries                # List selectable countries
  covidash config set default-country Germany`,
		Args:         cobra.NoArgs,
		RunE:         runDashboard,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			closer, err := setupLogging(cmd)
			logCloser = closer
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logCloser != nil {
				logCloser.Close()
			}
		},
	}

	cmd.Flags().String("country", "", "Country to show on start-up (default: default-country setting, else worldwide)")
	cmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error (overrides log-level setting)")

	cmd.AddCommand(cfgcmd.NewCommand())
	cmd.AddCommand(stats.SummaryCommand())
	cmd.AddCommand(stats.CountriesCommand())
	cmd.AddCommand(stats.HistoryCommand())

	return cmd
}

// setupLogging configures logrus from the config file and --log-level.
// The dashboard logs to a file; every other command logs to stderr.
func setupLogging(cmd *cobra.Command) (io.Closer, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	level := cfg.Level()
	if f := cmd.Flags().Lookup("log-level"); f != nil && f.Changed {
		level = f.Value.String()
	}

	opts := logging.Options{
		Level: level,
		File:  cfg.LogFile,
		TUI:   cmd.Root() == cmd,
	}
	closer, err := logging.Setup(opts)
	if err != nil && opts.TUI && errors.Is(err, logging.ErrLogFile) {
		// The dashboard runs without logs when the file cannot be opened.
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v\n", err)
		return closer, nil
	}
	return closer, err
}

func runDashboard(cmd *cobra.Command, args []string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("the dashboard needs an interactive terminal; try 'covidash summary' instead")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	provider, err := providers.Get(providers.Default, cfg)
	if err != nil {
		return err
	}

	scope := stats.ResolveScope(cmd, cfg)
	log.WithFields(log.Fields{
		"scope":    scope.DisplayName(),
		"base_url": cfg.APIBaseURL(),
	}).Info("starting dashboard")

	return tui.RunDashboard(dashboard.NewService(provider), scope)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	providers.RegisterDiseaseSh()

	var root = rootCmd()
	err := root.Execute()
	if err != nil {
		os.Exit(1)
	}
}

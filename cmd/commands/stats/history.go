package stats

import (
	"fmt"

	"github.com/spf13/cobra"
)

// defaultHistoryDays is the --days default; 0 asks for the full history.
const defaultHistoryDays = 30

// HistoryCommand returns the "history" command.
func HistoryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Print the daily series for a country or worldwide",
		Long: `Print the cumulative daily series the dashboard charts: cases for
worldwide, or cases, deaths and recovered for a country.

Examples:
  covidash history
  covidash history --country Italy --days 14
  covidash history --days 0 -o json   # full history`,
		Args:         cobra.NoArgs,
		RunE:         runHistory,
		SilenceUsage: true,
	}

	cmd.Flags().String("country", "", "Country to show (default: worldwide)")
	cmd.Flags().Int("days", defaultHistoryDays, "Number of most recent days to show (0 for all)")
	cmd.Flags().StringP("output", "o", "table", "Output format: table, json or yaml")

	return cmd
}

func runHistory(cmd *cobra.Command, args []string) error {
	output, err := outputFormat(cmd)
	if err != nil {
		return err
	}

	days, _ := cmd.Flags().GetInt("days")
	if days < 0 {
		return fmt.Errorf("--days must not be negative, got %d", days)
	}

	svc, cfg, err := newService()
	if err != nil {
		return err
	}
	scope := ResolveScope(cmd, cfg)

	ctx := cmd.Context()

	s, err := svc.LoadHistory(ctx, scope, days)
	if err != nil {
		return fmt.Errorf("failed to fetch history for %s: %w", scope.DisplayName(), err)
	}

	if output != "table" {
		return printStructured(cmd, output, toSeriesJSON(s))
	}

	if s.Len() == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "No history for %s.\n", scope.DisplayName())
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "History for %s\n", scope.DisplayName())
	printSeriesTable(cmd.OutOrStdout(), s)
	return nil
}

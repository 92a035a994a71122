package stats

import (
	"errors"
	"fmt"
	"os"

	"nathanbeddoewebdev/covidash/internal/domain"
	"nathanbeddoewebdev/covidash/internal/series"
	"nathanbeddoewebdev/covidash/internal/tui"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"
)

// recentDays is how much history the summary shows below the totals.
const recentDays = 7

// SummaryCommand returns the "summary" command.
func SummaryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show current totals for a country or worldwide",
		Long: `Print the cases, deaths and recovered totals for a scope together with
the last 7 days of its history.

The scope is --country, else the default-country setting, else worldwide.
With --pick in a terminal, choose the country interactively.

Examples:
  covidash summary
  covidash summary --country Italy
  covidash summary --pick
  covidash summary --country Japan -o json`,
		Args:         cobra.NoArgs,
		RunE:         runSummary,
		SilenceUsage: true,
	}

	cmd.Flags().String("country", "", "Country to summarize (default: worldwide)")
	cmd.Flags().Bool("pick", false, "Choose the country interactively")
	cmd.Flags().StringP("output", "o", "table", "Output format: table, json or yaml")

	return cmd
}

func runSummary(cmd *cobra.Command, args []string) error {
	output, err := outputFormat(cmd)
	if err != nil {
		return err
	}

	svc, cfg, err := newService()
	if err != nil {
		return err
	}

	scope := ResolveScope(cmd, cfg)
	pick, _ := cmd.Flags().GetBool("pick")
	if pick && !cmd.Flags().Changed("country") {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			return fmt.Errorf("--pick needs an interactive terminal; use --country instead")
		}
		scope, err = tui.SelectScopeForm(svc)
		if err != nil {
			if errors.Is(err, tui.ErrAborted) {
				fmt.Fprintln(cmd.ErrOrStderr(), "Selection cancelled.")
				return nil
			}
			return err
		}
	}

	ctx := cmd.Context()

	var (
		snap   *domain.Snapshot
		recent *domain.HistoricalSeries
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		snap, err = svc.LoadSnapshot(gctx, scope)
		if err != nil {
			return fmt.Errorf("failed to fetch totals for %s: %w", scope.DisplayName(), err)
		}
		return nil
	})
	g.Go(func() error {
		s, err := svc.LoadHistory(gctx, scope, recentDays)
		if err != nil {
			return fmt.Errorf("failed to fetch history for %s: %w", scope.DisplayName(), err)
		}
		recent = series.Tail(s, recentDays)
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	if output != "table" {
		return printStructured(cmd, output, toSummaryJSON(snap, recent))
	}

	w := cmd.OutOrStdout()
	printSnapshotTable(w, snap)
	if recent.Len() > 0 {
		fmt.Fprintf(w, "\nLast %d days\n", recent.Len())
		printSeriesTable(w, recent)
	}
	return nil
}

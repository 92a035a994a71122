package stats

import (
	"fmt"
	"strings"

	"nathanbeddoewebdev/covidash/internal/domain"

	"github.com/spf13/cobra"
)

// CountriesCommand returns the "countries" command.
func CountriesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "countries",
		Short: "List the countries that can be selected",
		Long: `List every country the statistics API reports on.

Examples:
  covidash countries
  covidash countries --continent Europe
  covidash countries -o json
  covidash countries --continent Asia -o yaml`,
		Args:         cobra.NoArgs,
		RunE:         runCountries,
		SilenceUsage: true,
	}

	cmd.Flags().String("continent", "", "Only list countries on this continent")
	cmd.Flags().StringP("output", "o", "table", "Output format: table, json or yaml")

	return cmd
}

func runCountries(cmd *cobra.Command, args []string) error {
	output, err := outputFormat(cmd)
	if err != nil {
		return err
	}

	svc, _, err := newService()
	if err != nil {
		return err
	}

	ctx := cmd.Context()

	countries, err := svc.LoadCountryList(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch countries: %w", err)
	}

	continent, _ := cmd.Flags().GetString("continent")
	countries = filterContinent(countries, continent)

	if output != "table" {
		if countries == nil {
			countries = []domain.CountrySummary{}
		}
		return printStructured(cmd, output, countries)
	}

	if len(countries) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No countries found.")
		return nil
	}
	printCountriesTable(cmd.OutOrStdout(), countries)
	return nil
}

// filterContinent keeps countries on continent, compared case-insensitively.
// An empty continent keeps everything.
func filterContinent(countries []domain.CountrySummary, continent string) []domain.CountrySummary {
	continent = strings.TrimSpace(continent)
	if continent == "" {
		return countries
	}
	var out []domain.CountrySummary
	for _, c := range countries {
		if strings.EqualFold(c.Continent, continent) {
			out = append(out, c)
		}
	}
	return out
}

package stats

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"nathanbeddoewebdev/covidash/internal/domain"
	"nathanbeddoewebdev/covidash/internal/series"
	"nathanbeddoewebdev/covidash/internal/util"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/table"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// printStructured writes v to stdout as indented JSON or YAML.
func printStructured(cmd *cobra.Command, format string, v any) error {
	w := cmd.OutOrStdout()
	if format == "yaml" {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to encode YAML: %w", err)
		}
		return enc.Close()
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	return t
}

// printSnapshotTable prints the three headline figures with today's
// deltas, plus the secondary totals the API reports.
func printSnapshotTable(w io.Writer, snap *domain.Snapshot) {
	name := snap.Scope.DisplayName()

	fmt.Fprintln(w, "Covid-19 Dashboard for "+name)
	t := newTable(w)
	t.AppendHeader(table.Row{"Metric", "Total", "Today"})
	t.AppendRows([]table.Row{
		{"Cases for " + name, humanize.Comma(snap.Cases), util.SignedComma(snap.TodayCases)},
		{"Deaths for " + name, humanize.Comma(snap.Deaths), util.SignedComma(snap.TodayDeaths)},
		{"Recovered for " + name, humanize.Comma(snap.Recovered), util.SignedComma(snap.TodayRecovered)},
		{"Active", humanize.Comma(snap.Active), ""},
		{"Critical", humanize.Comma(snap.Critical), ""},
	})
	if snap.Population > 0 {
		t.AppendRow(table.Row{"Population", humanize.Comma(snap.Population), ""})
	}
	if snap.AffectedCountries > 0 {
		t.AppendRow(table.Row{"Affected countries", humanize.Comma(snap.AffectedCountries), ""})
	}
	if !snap.UpdatedAt.IsZero() {
		t.AppendFooter(table.Row{"Updated", snap.UpdatedAt.UTC().Format("2006-01-02 15:04 UTC"), ""})
	}
	t.Render()
}

// printSeriesTable prints one row per date and one column per dataset,
// followed by a latest/min/max footer.
func printSeriesTable(w io.Writer, s *domain.HistoricalSeries) {
	t := newTable(w)

	header := make(table.Row, 0, len(s.Datasets)+1)
	header = append(header, "Date")
	for _, ds := range s.Datasets {
		header = append(header, ds.Label)
	}
	t.AppendHeader(header)

	rows := make([]table.Row, 0, s.Len())
	for i, label := range s.Labels {
		row := make(table.Row, 0, len(s.Datasets)+1)
		row = append(row, label)
		for _, ds := range s.Datasets {
			row = append(row, humanize.Comma(int64(ds.Values[i])))
		}
		rows = append(rows, row)
	}
	t.AppendRows(rows)

	for _, name := range []string{"Min", "Max"} {
		footer := make(table.Row, 0, len(s.Datasets)+1)
		footer = append(footer, name)
		for _, ds := range s.Datasets {
			st := series.Summarize(ds.Values)
			v := st.Min
			if name == "Max" {
				v = st.Max
			}
			footer = append(footer, humanize.Comma(int64(v)))
		}
		t.AppendFooter(footer)
	}
	t.Render()
}

// printCountriesTable prints the country list with a total footer.
func printCountriesTable(w io.Writer, countries []domain.CountrySummary) {
	t := newTable(w)
	t.AppendHeader(table.Row{"Country", "ISO2", "ISO3", "Continent"})
	for _, c := range countries {
		t.AppendRow(table.Row{c.Country, c.ISO2, c.ISO3, c.Continent})
	}
	t.AppendFooter(table.Row{"Total", humanize.Comma(int64(len(countries))), "", ""})
	t.Render()
}

// seriesJSON is the JSON/YAML shape of a series: dates as labels, no colors.
type seriesJSON struct {
	Scope    string        `json:"scope" yaml:"scope"`
	Labels   []string      `json:"labels" yaml:"labels"`
	Datasets []datasetJSON `json:"datasets" yaml:"datasets"`
}

type datasetJSON struct {
	Label  string        `json:"label" yaml:"label"`
	Values []float64     `json:"values" yaml:"values"`
	Stats  *series.Stats `json:"stats,omitempty" yaml:"stats,omitempty"`
}

func toSeriesJSON(s *domain.HistoricalSeries) seriesJSON {
	out := seriesJSON{
		Scope:    s.Scope.DisplayName(),
		Labels:   s.Labels,
		Datasets: make([]datasetJSON, 0, len(s.Datasets)),
	}
	if out.Labels == nil {
		out.Labels = []string{}
	}
	for _, ds := range s.Datasets {
		st := series.Summarize(ds.Values)
		values := ds.Values
		if values == nil {
			values = []float64{}
		}
		out.Datasets = append(out.Datasets, datasetJSON{Label: ds.Label, Values: values, Stats: &st})
	}
	return out
}

// summaryJSON is the JSON/YAML shape of the summary command.
type summaryJSON struct {
	Scope     string      `json:"scope" yaml:"scope"`
	Cases     int64       `json:"cases" yaml:"cases"`
	Deaths    int64       `json:"deaths" yaml:"deaths"`
	Recovered int64       `json:"recovered" yaml:"recovered"`
	Today     todayJSON   `json:"today" yaml:"today"`
	Active    int64       `json:"active" yaml:"active"`
	Critical  int64       `json:"critical" yaml:"critical"`
	UpdatedAt *time.Time  `json:"updated_at,omitempty" yaml:"updated_at,omitempty"`
	Recent    *seriesJSON `json:"recent,omitempty" yaml:"recent,omitempty"`
}

type todayJSON struct {
	Cases     int64 `json:"cases" yaml:"cases"`
	Deaths    int64 `json:"deaths" yaml:"deaths"`
	Recovered int64 `json:"recovered" yaml:"recovered"`
}

func toSummaryJSON(snap *domain.Snapshot, recent *domain.HistoricalSeries) summaryJSON {
	out := summaryJSON{
		Scope:     snap.Scope.DisplayName(),
		Cases:     snap.Cases,
		Deaths:    snap.Deaths,
		Recovered: snap.Recovered,
		Today: todayJSON{
			Cases:     snap.TodayCases,
			Deaths:    snap.TodayDeaths,
			Recovered: snap.TodayRecovered,
		},
		Active:   snap.Active,
		Critical: snap.Critical,
	}
	if !snap.UpdatedAt.IsZero() {
		updated := snap.UpdatedAt.UTC()
		out.UpdatedAt = &updated
	}
	if recent != nil {
		rs := toSeriesJSON(recent)
		out.Recent = &rs
	}
	return out
}

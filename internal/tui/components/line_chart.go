package components

import (
	"fmt"
	"strings"
	"time"

	"nathanbeddoewebdev/covidash/internal/domain"
	"nathanbeddoewebdev/covidash/internal/series"
	"nathanbeddoewebdev/covidash/internal/tui/styles"

	tslc "github.com/NimbleMarkets/ntcharts/linechart/timeserieslinechart"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

const (
	minPlotWidth  = 20
	minPlotHeight = 5
)

// LineChart renders every dataset in s as one braille line on a shared
// time axis, followed by a legend and a latest/min/max line per dataset.
func LineChart(title string, s *domain.HistoricalSeries, width, height int) string {
	header := styles.Label.Render(title)
	if s.Len() == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, header, styles.MutedText.Render("No data for "+s.Scope.DisplayName()))
	}

	legend := chartLegend(s)
	summary := chartSummary(s)

	plotW := max(width, minPlotWidth)
	plotH := max(height-lipgloss.Height(header)-lipgloss.Height(legend)-lipgloss.Height(summary), minPlotHeight)

	top := 0.0
	for _, ds := range s.Datasets {
		top = max(top, series.Summarize(ds.Values).Max)
	}
	if top <= 0 {
		top = 1
	}

	first, last := s.Dates[0], s.Dates[len(s.Dates)-1]
	if !last.After(first) {
		last = first.Add(24 * time.Hour)
	}

	chart := tslc.New(plotW, plotH,
		tslc.WithTimeRange(first, last),
		tslc.WithYRange(0, top),
		tslc.WithXLabelFormatter(dateAxisLabel),
		tslc.WithYLabelFormatter(countAxisLabel),
	)
	for _, ds := range s.Datasets {
		chart.SetDataSetStyle(ds.Label, styles.SeriesStyle(ds.Color))
		for i, v := range ds.Values {
			chart.PushDataSet(ds.Label, tslc.TimePoint{Time: s.Dates[i], Value: v})
		}
	}
	chart.DrawBrailleAll()

	return lipgloss.JoinVertical(lipgloss.Left, header, chart.View(), legend, summary)
}

func chartLegend(s *domain.HistoricalSeries) string {
	entries := make([]string, len(s.Datasets))
	for i, ds := range s.Datasets {
		entries[i] = styles.LegendEntry(ds.Label, ds.Color)
	}
	return strings.Join(entries, "   ")
}

func chartSummary(s *domain.HistoricalSeries) string {
	lines := make([]string, 0, len(s.Datasets))
	for _, ds := range s.Datasets {
		st := series.Summarize(ds.Values)
		lines = append(lines, fmt.Sprintf("  %s  cur: %s  min: %s  max: %s",
			ds.Label,
			humanize.Comma(int64(st.Latest)),
			humanize.Comma(int64(st.Min)),
			humanize.Comma(int64(st.Max)),
		))
	}
	return styles.MutedText.Render(strings.Join(lines, "\n"))
}

// dateAxisLabel formats the X axis, whose values are unix seconds.
func dateAxisLabel(_ int, v float64) string {
	return time.Unix(int64(v), 0).UTC().Format("Jan 06")
}

func countAxisLabel(_ int, v float64) string {
	return compactCount(v)
}

// compactCount renders large counts with a K/M/G suffix.
func compactCount(v float64) string {
	switch {
	case v >= 1_000_000_000:
		return fmt.Sprintf("%.1fG", v/1_000_000_000)
	case v >= 1_000_000:
		return fmt.Sprintf("%.1fM", v/1_000_000)
	case v >= 1_000:
		return fmt.Sprintf("%.1fK", v/1_000)
	default:
		return fmt.Sprintf("%.0f", v)
	}
}

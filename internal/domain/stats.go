package domain

import "time"

// CountrySummary is the subset of per-country data used to populate the
// country selection list.
type CountrySummary struct {
	Country   string `json:"country"`
	ISO2      string `json:"iso2,omitempty"`
	ISO3      string `json:"iso3,omitempty"`
	Continent string `json:"continent,omitempty"`
}

// Snapshot holds the current cumulative totals for a scope.
type Snapshot struct {
	Scope             Scope     `json:"scope"`
	Cases             int64     `json:"cases"`
	Deaths            int64     `json:"deaths"`
	Recovered         int64     `json:"recovered"`
	TodayCases        int64     `json:"today_cases"`
	TodayDeaths       int64     `json:"today_deaths"`
	TodayRecovered    int64     `json:"today_recovered"`
	Active            int64     `json:"active"`
	Critical          int64     `json:"critical"`
	Population        int64     `json:"population,omitempty"`
	AffectedCountries int64     `json:"affected_countries,omitempty"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// RawTimeline is the date-keyed cumulative counts returned by the
// historical endpoints. Keys are formatted M/D/YY.
type RawTimeline struct {
	Cases     map[string]float64 `json:"cases"`
	Deaths    map[string]float64 `json:"deaths"`
	Recovered map[string]float64 `json:"recovered"`
}

// Dataset is one line of a chart.
type Dataset struct {
	Label  string    `json:"label"`
	Values []float64 `json:"values"`
	Color  string    `json:"color"`
}

// HistoricalSeries is the chart-ready view of a scope's history. Labels,
// Dates and every dataset's Values share the same length and ordering.
type HistoricalSeries struct {
	Scope    Scope       `json:"scope"`
	Labels   []string    `json:"labels"`
	Dates    []time.Time `json:"dates"`
	Datasets []Dataset   `json:"datasets"`
}

// Len returns the number of points on the label axis.
func (h *HistoricalSeries) Len() int {
	if h == nil {
		return 0
	}
	return len(h.Labels)
}

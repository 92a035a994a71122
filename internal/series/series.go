// Package series turns the API's date-keyed timelines into chart-ready
// HistoricalSeries values.
package series

import (
	"fmt"
	"sort"
	"time"

	"nathanbeddoewebdev/covidash/internal/domain"
)

// dateLayout is the key format used by the historical endpoints (1/22/20).
const dateLayout = "1/2/06"

// LabelLayout is the format used for rendered labels.
const LabelLayout = "2006-01-02"

// Dataset labels and colors.
const (
	LabelCases     = "Daily Cases"
	LabelDeaths    = "Daily Deaths"
	LabelRecovered = "Daily Recovered"

	ColorCases     = "#FF6384"
	ColorDeaths    = "#FFC784"
	ColorRecovered = "#19C78E"
)

// source pairs a dataset's presentation with its raw date mapping.
type source struct {
	label  string
	color  string
	values map[string]float64
}

// Worldwide builds the single-dataset (cases) series for the global scope.
func Worldwide(raw *domain.RawTimeline) (*domain.HistoricalSeries, error) {
	if raw == nil {
		raw = &domain.RawTimeline{}
	}
	return build(domain.ScopeWorldwide, []source{
		{label: LabelCases, color: ColorCases, values: raw.Cases},
	})
}

// Country builds the three-dataset (cases, deaths, recovered) series for a
// single country.
func Country(scope domain.Scope, raw *domain.RawTimeline) (*domain.HistoricalSeries, error) {
	if raw == nil {
		raw = &domain.RawTimeline{}
	}
	return build(scope, []source{
		{label: LabelCases, color: ColorCases, values: raw.Cases},
		{label: LabelDeaths, color: ColorDeaths, values: raw.Deaths},
		{label: LabelRecovered, color: ColorRecovered, values: raw.Recovered},
	})
}

// For dispatches on the scope: worldwide gets one dataset, a country three.
func For(scope domain.Scope, raw *domain.RawTimeline) (*domain.HistoricalSeries, error) {
	if scope.IsWorldwide() {
		return Worldwide(raw)
	}
	return Country(scope, raw)
}

// build parses every date key, orders the union of dates chronologically
// and lays each source out along that axis. A date absent from one source
// repeats that source's previous value since the counts are cumulative.
func build(scope domain.Scope, sources []source) (*domain.HistoricalSeries, error) {
	parsed := make([]map[time.Time]float64, len(sources))
	axis := make(map[time.Time]struct{})

	for i, src := range sources {
		parsed[i] = make(map[time.Time]float64, len(src.values))
		for key, v := range src.values {
			d, err := ParseDate(key)
			if err != nil {
				return nil, err
			}
			parsed[i][d] = v
			axis[d] = struct{}{}
		}
	}

	dates := make([]time.Time, 0, len(axis))
	for d := range axis {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	labels := make([]string, len(dates))
	for i, d := range dates {
		labels[i] = d.Format(LabelLayout)
	}

	datasets := make([]domain.Dataset, len(sources))
	for i, src := range sources {
		values := make([]float64, len(dates))
		var prev float64
		for j, d := range dates {
			if v, ok := parsed[i][d]; ok {
				prev = v
			}
			values[j] = prev
		}
		datasets[i] = domain.Dataset{Label: src.label, Values: values, Color: src.color}
	}

	return &domain.HistoricalSeries{
		Scope:    scope,
		Labels:   labels,
		Dates:    dates,
		Datasets: datasets,
	}, nil
}

// ParseDate parses an API date key such as "1/22/20" into a UTC date.
func ParseDate(key string) (time.Time, error) {
	d, err := time.Parse(dateLayout, key)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date key %q: %w", key, domain.ErrMalformedResponse)
	}
	return d, nil
}

// Tail returns a copy of s limited to its last n points. n <= 0 returns
// the whole series.
func Tail(s *domain.HistoricalSeries, n int) *domain.HistoricalSeries {
	if s == nil {
		return nil
	}
	start := 0
	if n > 0 && n < len(s.Labels) {
		start = len(s.Labels) - n
	}

	out := &domain.HistoricalSeries{
		Scope:  s.Scope,
		Labels: append([]string(nil), s.Labels[start:]...),
		Dates:  append([]time.Time(nil), s.Dates[start:]...),
	}
	for _, ds := range s.Datasets {
		out.Datasets = append(out.Datasets, domain.Dataset{
			Label:  ds.Label,
			Color:  ds.Color,
			Values: append([]float64(nil), ds.Values[start:]...),
		})
	}
	return out
}

// Stats summarizes one dataset.
type Stats struct {
	Latest float64 `json:"latest" yaml:"latest"`
	Min    float64 `json:"min" yaml:"min"`
	Max    float64 `json:"max" yaml:"max"`
}

// Summarize returns the latest, minimum and maximum values of values.
func Summarize(values []float64) Stats {
	if len(values) == 0 {
		return Stats{}
	}
	st := Stats{Latest: values[len(values)-1], Min: values[0], Max: values[0]}
	for _, v := range values[1:] {
		if v < st.Min {
			st.Min = v
		}
		if v > st.Max {
			st.Max = v
		}
	}
	return st
}

// Package dashboard holds the dashboard's view-model: an explicit state
// value, pure transitions for each event, and the service that issues the
// underlying API loads.
//
// Every refresh is tagged with a Request carrying a generation number.
// Responses whose generation is no longer current are discarded, so the
// most recent selection always wins even when an older load finishes last.
package dashboard

import (
	"fmt"

	"nathanbeddoewebdev/covidash/internal/domain"
)

// ChartStatus is the lifecycle of the chart panel.
type ChartStatus int

const (
	// ChartLoading means no series has arrived yet.
	ChartLoading ChartStatus = iota
	// ChartError means every load so far failed and nothing can be drawn.
	ChartError
	// ChartPopulated means a series has been received. It is terminal:
	// later failures keep the last good series on screen.
	ChartPopulated
)

func (c ChartStatus) String() string {
	switch c {
	case ChartLoading:
		return "loading"
	case ChartError:
		return "error"
	case ChartPopulated:
		return "populated"
	}
	return fmt.Sprintf("ChartStatus(%d)", int(c))
}

// Request identifies one in-flight refresh.
type Request struct {
	Scope      domain.Scope
	Generation uint64
}

// State is the complete dashboard view-model. Transitions return a new
// State and never mutate the receiver's slices or pointers.
type State struct {
	Countries      []domain.CountrySummary
	CountriesReady bool

	Selection domain.Scope

	Snapshot        *domain.Snapshot
	SnapshotErr     error
	SnapshotLoading bool

	Chart         ChartStatus
	Series        *domain.HistoricalSeries
	SeriesErr     error
	SeriesLoading bool

	snapshotGen uint64
	seriesGen   uint64
}

// New returns the initial state for scope (worldwide when empty).
func New(scope domain.Scope) State {
	return State{
		Selection: domain.ParseScope(string(scope)),
		Chart:     ChartLoading,
	}
}

// Start returns the initial state together with the snapshot and series
// requests that must be issued on mount.
func Start(scope domain.Scope) (State, Request, Request) {
	return New(scope).SelectionChanged(scope)
}

// SelectionChanged switches the dashboard to scope and returns the
// snapshot and series requests to issue for it. Earlier requests become
// stale. The country list is not reloaded.
func (s State) SelectionChanged(scope domain.Scope) (State, Request, Request) {
	s.Selection = domain.ParseScope(string(scope))
	s.snapshotGen++
	s.seriesGen++
	s.SnapshotLoading = true
	s.SeriesLoading = true

	snapReq := Request{Scope: s.Selection, Generation: s.snapshotGen}
	seriesReq := Request{Scope: s.Selection, Generation: s.seriesGen}
	return s, snapReq, seriesReq
}

// Refresh re-issues both refreshes for the current selection.
func (s State) Refresh() (State, Request, Request) {
	return s.SelectionChanged(s.Selection)
}

// CountriesLoaded records the country list. On failure the list stays
// empty and nothing is surfaced.
func (s State) CountriesLoaded(countries []domain.CountrySummary, err error) State {
	s.CountriesReady = true
	if err != nil {
		return s
	}
	s.Countries = countries
	return s
}

// SnapshotLoaded applies a snapshot response. It reports false when the
// response belongs to a superseded request and was dropped. A failure
// keeps the previous snapshot and records the error.
func (s State) SnapshotLoaded(req Request, snap *domain.Snapshot, err error) (State, bool) {
	if req.Generation != s.snapshotGen {
		return s, false
	}
	s.SnapshotLoading = false
	if err != nil {
		s.SnapshotErr = err
		return s, true
	}
	s.Snapshot = snap
	s.SnapshotErr = nil
	return s, true
}

// SeriesLoaded applies a historical series response. It reports false when
// the response was stale. Once the chart is populated a failure only
// records SeriesErr; before that it moves the chart to ChartError.
func (s State) SeriesLoaded(req Request, series *domain.HistoricalSeries, err error) (State, bool) {
	if req.Generation != s.seriesGen {
		return s, false
	}
	s.SeriesLoading = false
	if err != nil {
		s.SeriesErr = err
		if s.Chart != ChartPopulated {
			s.Chart = ChartError
		}
		return s, true
	}
	s.Series = series
	s.SeriesErr = nil
	s.Chart = ChartPopulated
	return s, true
}

// Loading reports whether any refresh for the selection is outstanding.
func (s State) Loading() bool {
	return s.SnapshotLoading || s.SeriesLoading
}

// Title is the dashboard heading for the current selection.
func (s State) Title() string {
	return "Covid-19 Dashboard for " + s.Selection.DisplayName()
}

// Card is one summary tile.
type Card struct {
	Label string
	Value int64
	Today int64
	// Known is false until a snapshot has been received.
	Known bool
}

// Cards returns the cases, deaths and recovered tiles. Labels follow the
// selection immediately; values come from the latest applied snapshot.
func (s State) Cards() []Card {
	name := s.Selection.DisplayName()
	cards := []Card{
		{Label: "Cases for " + name},
		{Label: "Deaths for " + name},
		{Label: "Recovered for " + name},
	}
	if s.Snapshot == nil {
		return cards
	}

	cards[0].Value, cards[0].Today = s.Snapshot.Cases, s.Snapshot.TodayCases
	cards[1].Value, cards[1].Today = s.Snapshot.Deaths, s.Snapshot.TodayDeaths
	cards[2].Value, cards[2].Today = s.Snapshot.Recovered, s.Snapshot.TodayRecovered
	for i := range cards {
		cards[i].Known = true
	}
	return cards
}

// ScopeOptions returns the selection list: worldwide first, then every
// loaded country in API order.
func (s State) ScopeOptions() []domain.Scope {
	opts := make([]domain.Scope, 0, len(s.Countries)+1)
	opts = append(opts, domain.ScopeWorldwide)
	for _, c := range s.Countries {
		opts = append(opts, domain.Scope(c.Country))
	}
	return opts
}

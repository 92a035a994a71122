package tui

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"nathanbeddoewebdev/covidash/internal/dashboard"
	"nathanbeddoewebdev/covidash/internal/domain"

	tea "github.com/charmbracelet/bubbletea"
)

// fakeLoader returns canned results and records every call.
type fakeLoader struct {
	mu    sync.Mutex
	calls []string

	snapshotErr error
	seriesErr   error
}

func (f *fakeLoader) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeLoader) count(call string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == call {
			n++
		}
	}
	return n
}

func (f *fakeLoader) LoadCountryList(_ context.Context) ([]domain.CountrySummary, error) {
	f.record("countries")
	return []domain.CountrySummary{
		{Country: "Germany", ISO2: "DE", Continent: "Europe"},
		{Country: "Italy", ISO2: "IT", Continent: "Europe"},
		{Country: "Japan", ISO2: "JP", Continent: "Asia"},
	}, nil
}

func (f *fakeLoader) LoadSnapshot(_ context.Context, scope domain.Scope) (*domain.Snapshot, error) {
	f.record("snapshot:" + scope.DisplayName())
	if f.snapshotErr != nil {
		return nil, f.snapshotErr
	}
	if scope.IsWorldwide() {
		return &domain.Snapshot{Scope: scope, Cases: 678801612, Deaths: 6791786, Recovered: 651560209}, nil
	}
	return &domain.Snapshot{Scope: scope, Cases: 25603510, Deaths: 190357, Recovered: 25290304}, nil
}

func (f *fakeLoader) LoadHistoricalSeries(_ context.Context, scope domain.Scope) (*domain.HistoricalSeries, error) {
	f.record("series:" + scope.DisplayName())
	if f.seriesErr != nil {
		return nil, f.seriesErr
	}
	day := time.Date(2023, 3, 7, 0, 0, 0, 0, time.UTC)
	s := &domain.HistoricalSeries{
		Scope:  scope,
		Labels: []string{"2023-03-07", "2023-03-08", "2023-03-09"},
		Dates:  []time.Time{day, day.AddDate(0, 0, 1), day.AddDate(0, 0, 2)},
		Datasets: []domain.Dataset{
			{Label: "Daily Cases", Values: []float64{100, 200, 300}, Color: "#FF6384"},
		},
	}
	return s, nil
}

// runCmd executes cmd and any batched commands, returning the load
// results they produce. Everything else (spinner ticks) is dropped.
func runCmd(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	switch msg := msg.(type) {
	case tea.BatchMsg:
		var out []tea.Msg
		for _, c := range msg {
			out = append(out, runCmd(c)...)
		}
		return out
	case nil:
		return nil
	}
	switch msg.(type) {
	case snapshotLoadedMsg, seriesLoadedMsg, countriesLoadedMsg:
		return []tea.Msg{msg}
	}
	return nil
}

// feed applies msgs to m in order and returns the resulting model.
func feed(t *testing.T, m dashboardModel, msgs ...tea.Msg) dashboardModel {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(dashboardModel)
	}
	return m
}

// send delivers a key and discards the returned command. Used for keys
// that only drive the picker, whose cursor blink commands block.
func send(t *testing.T, m dashboardModel, key tea.KeyMsg) dashboardModel {
	t.Helper()
	next, _ := m.Update(key)
	return next.(dashboardModel)
}

// press sends a key and runs whatever load commands it returns.
func press(t *testing.T, m dashboardModel, key tea.KeyMsg) (dashboardModel, []tea.Msg) {
	t.Helper()
	next, cmd := m.Update(key)
	return next.(dashboardModel), runCmd(cmd)
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func startedModel(t *testing.T, loader Loader) dashboardModel {
	t.Helper()
	m := newDashboardModel(loader, domain.ScopeWorldwide)
	m = feed(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	return feed(t, m, runCmd(m.Init())...)
}

func TestDashboard_InitialViewShowsLoading(t *testing.T) {
	m := newDashboardModel(&fakeLoader{}, domain.ScopeWorldwide)
	m = feed(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})

	view := m.View()
	if !strings.Contains(view, "Loading chart...") {
		t.Errorf("expected loading indicator, got:\n%s", view)
	}
	if strings.Contains(view, ChartTitle) {
		t.Errorf("chart must not render before the first series:\n%s", view)
	}
	if !strings.Contains(view, "Covid-19 Dashboard for Worldwide") {
		t.Errorf("expected worldwide title:\n%s", view)
	}
}

func TestDashboard_InitIssuesAllThreeLoads(t *testing.T) {
	loader := &fakeLoader{}
	startedModel(t, loader)

	for _, call := range []string{"countries", "snapshot:Worldwide", "series:Worldwide"} {
		if got := loader.count(call); got != 1 {
			t.Errorf("%s called %d times, want 1", call, got)
		}
	}
}

func TestDashboard_WorldwideCards(t *testing.T) {
	m := startedModel(t, &fakeLoader{})

	view := m.View()
	for _, want := range []string{
		"Cases for Worldwide", "678,801,612",
		"Deaths for Worldwide", "6,791,786",
		"Recovered for Worldwide", "651,560,209",
		ChartTitle,
	} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestDashboard_PickerSelectsCountry(t *testing.T) {
	loader := &fakeLoader{}
	m := startedModel(t, loader)

	m = send(t, m, runes("c"))
	if !m.picker.open {
		t.Fatal("expected picker to open on c")
	}
	m = send(t, m, runes("ita"))
	if got, ok := m.picker.Selected(); !ok || got != "Italy" {
		t.Fatalf("highlighted option = %q, want Italy", got)
	}

	m, msgs := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.picker.open {
		t.Error("expected picker to close after selection")
	}
	m = feed(t, m, msgs...)

	view := m.View()
	for _, want := range []string{
		"Covid-19 Dashboard for Italy",
		"Cases for Italy", "Deaths for Italy", "Recovered for Italy",
		"25,603,510",
	} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
	if loader.count("snapshot:Italy") != 1 || loader.count("series:Italy") != 1 {
		t.Errorf("expected one snapshot and one series load for Italy, calls: %v", loader.calls)
	}
	if loader.count("countries") != 1 {
		t.Errorf("country list must not be re-fetched on selection, calls: %v", loader.calls)
	}
}

func TestDashboard_SelectionsAlwaysRefetch(t *testing.T) {
	loader := &fakeLoader{}
	m := startedModel(t, loader)

	m, msgs := m.selectAndRun(t, "Italy")
	m = feed(t, m, msgs...)
	m, msgs = press(t, m, runes("w"))
	m = feed(t, m, msgs...)
	m, msgs = m.selectAndRun(t, "Italy")
	feed(t, m, msgs...)

	if got := loader.count("snapshot:Italy"); got != 2 {
		t.Errorf("snapshot:Italy called %d times, want 2", got)
	}
	if got := loader.count("snapshot:Worldwide"); got != 2 {
		t.Errorf("snapshot:Worldwide called %d times, want 2", got)
	}
}

func (m dashboardModel) selectAndRun(t *testing.T, scope domain.Scope) (dashboardModel, []tea.Msg) {
	t.Helper()
	next, cmd := m.selectScope(scope)
	return next.(dashboardModel), runCmd(cmd)
}

func TestDashboard_SameScopeIsNoop(t *testing.T) {
	m := startedModel(t, &fakeLoader{})
	_, cmd := m.selectScope("WORLDWIDE")
	if cmd != nil {
		t.Error("selecting the current scope should not issue loads")
	}
}

func TestDashboard_ChartPersistsAfterFailure(t *testing.T) {
	loader := &fakeLoader{}
	m := startedModel(t, loader)
	if m.state.Chart != dashboard.ChartPopulated {
		t.Fatalf("chart = %v, want populated", m.state.Chart)
	}

	loader.seriesErr = errors.New("upstream down")
	m, msgs := press(t, m, runes("r"))
	m = feed(t, m, msgs...)

	view := m.View()
	if !strings.Contains(view, ChartTitle) {
		t.Errorf("chart must stay on screen after a failed refresh:\n%s", view)
	}
	if !strings.Contains(view, "Chart update failed: upstream down") {
		t.Errorf("expected failure in status bar:\n%s", view)
	}
}

func TestDashboard_ErrorBeforeFirstSeries(t *testing.T) {
	loader := &fakeLoader{seriesErr: errors.New("bad gateway")}
	m := startedModel(t, loader)

	view := m.View()
	if !strings.Contains(view, "Error in Data") {
		t.Errorf("expected error state, got:\n%s", view)
	}
	if strings.Contains(view, "Loading chart...") {
		t.Errorf("error state must not look like loading:\n%s", view)
	}

	loader.seriesErr = nil
	m, msgs := press(t, m, runes("r"))

	pending := m.View()
	if !strings.Contains(pending, "Retrying chart...") {
		t.Errorf("expected retry indicator while the series reloads:\n%s", pending)
	}
	if strings.Contains(pending, "Error in Data") {
		t.Errorf("stale error shown during retry:\n%s", pending)
	}

	m = feed(t, m, msgs...)
	if !strings.Contains(m.View(), ChartTitle) {
		t.Error("expected chart after a successful retry")
	}
}

func TestDashboard_SnapshotFailureKeepsCards(t *testing.T) {
	loader := &fakeLoader{}
	m := startedModel(t, loader)

	loader.snapshotErr = errors.New("timeout")
	m, msgs := press(t, m, runes("r"))
	m = feed(t, m, msgs...)

	view := m.View()
	if !strings.Contains(view, "678,801,612") {
		t.Errorf("previous numbers should stay visible:\n%s", view)
	}
	if !strings.Contains(view, "Summary unavailable: timeout") {
		t.Errorf("expected snapshot error in status bar:\n%s", view)
	}
}

func TestDashboard_StaleResponseDiscarded(t *testing.T) {
	m := startedModel(t, &fakeLoader{})

	m, italy := m.selectAndRun(t, "Italy")
	m, germany := m.selectAndRun(t, "Germany")

	// Germany finishes first, then the superseded Italy loads arrive.
	m = feed(t, m, germany...)
	m = feed(t, m, italy...)

	if m.state.Selection != "Germany" {
		t.Fatalf("selection = %q, want Germany", m.state.Selection)
	}
	if m.state.Snapshot == nil || m.state.Snapshot.Scope != "Germany" {
		t.Errorf("snapshot scope = %+v, want Germany", m.state.Snapshot)
	}
	if m.state.Series == nil || m.state.Series.Scope != "Germany" {
		t.Errorf("series scope = %+v, want Germany", m.state.Series)
	}
}

func TestDashboard_PickerEscCloses(t *testing.T) {
	m := startedModel(t, &fakeLoader{})

	m = send(t, m, runes("/"))
	if !m.picker.open {
		t.Fatal("expected picker to open on /")
	}
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = next.(dashboardModel)
	if m.picker.open {
		t.Error("expected picker to close on esc")
	}
	if cmd != nil {
		t.Error("esc should not issue loads")
	}
	if m.state.Selection != domain.ScopeWorldwide {
		t.Errorf("selection changed to %q", m.state.Selection)
	}
}

func TestDashboard_Quit(t *testing.T) {
	m := startedModel(t, &fakeLoader{})
	next, cmd := m.Update(runes("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
	if next.(dashboardModel).View() != "" {
		t.Error("expected empty view after quitting")
	}
}

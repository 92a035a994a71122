package tui

import (
	"context"
	"fmt"
	"time"

	"nathanbeddoewebdev/covidash/internal/dashboard"
	"nathanbeddoewebdev/covidash/internal/domain"
	"nathanbeddoewebdev/covidash/internal/series"
	"nathanbeddoewebdev/covidash/internal/tui/components"
	"nathanbeddoewebdev/covidash/internal/tui/styles"
	"nathanbeddoewebdev/covidash/internal/util"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ChartTitle heads the chart panel regardless of how many datasets it shows.
const ChartTitle = "Covid-19 Daily Cases"

// Loader issues the three dashboard loads. *dashboard.Service implements it.
type Loader interface {
	LoadCountryList(ctx context.Context) ([]domain.CountrySummary, error)
	LoadSnapshot(ctx context.Context, scope domain.Scope) (*domain.Snapshot, error)
	LoadHistoricalSeries(ctx context.Context, scope domain.Scope) (*domain.HistoricalSeries, error)
}

// --- Messages ---

type countriesLoadedMsg struct {
	countries []domain.CountrySummary
	err       error
}

type snapshotLoadedMsg struct {
	req  dashboard.Request
	snap *domain.Snapshot
	err  error
}

type seriesLoadedMsg struct {
	req    dashboard.Request
	series *domain.HistoricalSeries
	err    error
}

// --- Dashboard model ---

type dashboardModel struct {
	loader Loader
	state  dashboard.State

	picker countryPicker
	keys   dashboardKeyMap

	spinner  spinner.Model
	spinning bool

	// Cancels the in-flight loads of the previous selection.
	cancelSnapshot context.CancelFunc
	cancelSeries   context.CancelFunc

	initCmd tea.Cmd

	width  int
	height int

	quitting bool
}

// RunDashboard starts the full-window dashboard on scope.
func RunDashboard(loader Loader, scope domain.Scope) error {
	m := newDashboardModel(loader, scope)

	p := tea.NewProgram(m, tea.WithAltScreen())
	final, err := p.Run()
	if fm, ok := final.(dashboardModel); ok {
		fm.cancelLoads()
	}
	if err != nil {
		return fmt.Errorf("failed to run dashboard: %w", err)
	}
	return nil
}

func newDashboardModel(loader Loader, scope domain.Scope) dashboardModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(styles.Blue)

	state, snapReq, seriesReq := dashboard.Start(scope)
	m := dashboardModel{
		loader:   loader,
		state:    state,
		picker:   newCountryPicker(),
		keys:     defaultDashboardKeys(),
		spinner:  s,
		spinning: true, // Init starts the first tick
	}
	m.initCmd = m.issue(snapReq, seriesReq)
	return m
}

func (m dashboardModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadCountries(), m.initCmd)
}

func (m dashboardModel) loadCountries() tea.Cmd {
	loader := m.loader
	return func() tea.Msg {
		countries, err := loader.LoadCountryList(context.Background())
		return countriesLoadedMsg{countries: countries, err: err}
	}
}

// issue starts the snapshot and series loads for the given requests,
// cancelling whatever the previous selection still had in flight.
func (m *dashboardModel) issue(snapReq, seriesReq dashboard.Request) tea.Cmd {
	m.cancelLoads()

	snapCtx, cancelSnap := context.WithCancel(context.Background())
	seriesCtx, cancelSeries := context.WithCancel(context.Background())
	m.cancelSnapshot, m.cancelSeries = cancelSnap, cancelSeries

	loader := m.loader
	return tea.Batch(
		func() tea.Msg {
			snap, err := loader.LoadSnapshot(snapCtx, snapReq.Scope)
			return snapshotLoadedMsg{req: snapReq, snap: snap, err: err}
		},
		func() tea.Msg {
			s, err := loader.LoadHistoricalSeries(seriesCtx, seriesReq.Scope)
			return seriesLoadedMsg{req: seriesReq, series: s, err: err}
		},
	)
}

func (m *dashboardModel) cancelLoads() {
	if m.cancelSnapshot != nil {
		m.cancelSnapshot()
	}
	if m.cancelSeries != nil {
		m.cancelSeries()
	}
}

// tick keeps a single spinner loop alive while something is loading.
func (m *dashboardModel) tick() tea.Cmd {
	if m.spinning {
		return nil
	}
	m.spinning = true
	return m.spinner.Tick
}

func (m dashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if m.picker.open {
			return m.handlePickerKey(msg)
		}
		return m.handleKey(msg)

	case countriesLoadedMsg:
		m.state = m.state.CountriesLoaded(msg.countries, msg.err)
		if m.picker.open {
			m.picker = m.picker.SetOptions(m.state.ScopeOptions())
		}
		return m, nil

	case snapshotLoadedMsg:
		m.state, _ = m.state.SnapshotLoaded(msg.req, msg.snap, msg.err)
		return m, nil

	case seriesLoadedMsg:
		m.state, _ = m.state.SeriesLoaded(msg.req, msg.series, msg.err)
		return m, nil

	case spinner.TickMsg:
		if !m.state.Loading() {
			m.spinning = false
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	if m.picker.open {
		var cmd tea.Cmd
		m.picker, _, cmd = m.picker.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m dashboardModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		m.cancelLoads()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Pick):
		var cmd tea.Cmd
		m.picker, cmd = m.picker.Open(m.state.ScopeOptions(), m.state.Selection)
		return m, cmd

	case key.Matches(msg, m.keys.Worldwide):
		return m.selectScope(domain.ScopeWorldwide)

	case key.Matches(msg, m.keys.Refresh):
		state, snapReq, seriesReq := m.state.Refresh()
		m.state = state
		load := m.issue(snapReq, seriesReq)
		return m, tea.Batch(load, m.tick())
	}

	return m, nil
}

func (m dashboardModel) handlePickerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.quitting = true
		m.cancelLoads()
		return m, tea.Quit
	}

	var (
		chosen *domain.Scope
		cmd    tea.Cmd
	)
	m.picker, chosen, cmd = m.picker.Update(msg)
	if chosen == nil {
		return m, cmd
	}
	return m.selectScope(*chosen)
}

// selectScope switches the dashboard to scope. Choosing the scope that is
// already shown does nothing; use refresh to reload it.
func (m dashboardModel) selectScope(scope domain.Scope) (tea.Model, tea.Cmd) {
	if sameScope(scope, m.state.Selection) {
		return m, nil
	}
	state, snapReq, seriesReq := m.state.SelectionChanged(scope)
	m.state = state
	load := m.issue(snapReq, seriesReq)
	return m, tea.Batch(load, m.tick())
}

func sameScope(a, b domain.Scope) bool {
	if a.IsWorldwide() || b.IsWorldwide() {
		return a.IsWorldwide() && b.IsWorldwide()
	}
	return util.SameKey(string(a), string(b))
}

func (m dashboardModel) View() string {
	if m.quitting || m.width == 0 || m.height == 0 {
		return ""
	}

	var updated time.Time
	if m.state.Snapshot != nil {
		updated = m.state.Snapshot.UpdatedAt
	}
	header := components.Header(m.width, "dashboard", m.state.Selection.DisplayName(), updated)
	footer := components.Footer(m.width, m.footerBindings())
	statusBar := components.StatusBar(m.width, m.statuses()...)

	contentH := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer)-lipgloss.Height(statusBar), 1)

	var content string
	if m.picker.open {
		content = lipgloss.Place(m.width, contentH, lipgloss.Center, lipgloss.Center, m.picker.View())
	} else {
		content = m.renderContent(contentH)
	}

	sections := []string{header, content}
	if statusBar != "" {
		sections = append(sections, statusBar)
	}
	sections = append(sections, footer)
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m dashboardModel) footerBindings() []components.KeyBinding {
	if m.picker.open {
		return []components.KeyBinding{
			{Key: "↑/↓", Desc: "navigate"},
			{Key: "enter", Desc: "select"},
			{Key: "esc", Desc: "close"},
		}
	}
	return m.keys.footer()
}

func (m dashboardModel) statuses() []components.Status {
	st := m.state
	name := st.Selection.DisplayName()
	var out []components.Status

	switch {
	case st.SnapshotLoading:
		out = append(out, components.Status{Text: "Loading summary for " + name + "..."})
	case st.SnapshotErr != nil:
		out = append(out, components.Status{Text: "Summary unavailable: " + st.SnapshotErr.Error(), IsError: true})
	}

	// Before the first series the chart panel reports its own state.
	if st.Chart == dashboard.ChartPopulated {
		switch {
		case st.SeriesLoading:
			out = append(out, components.Status{Text: "Refreshing chart..."})
		case st.SeriesErr != nil:
			out = append(out, components.Status{Text: "Chart update failed: " + st.SeriesErr.Error(), IsError: true})
		}
	}
	return out
}

func (m dashboardModel) renderContent(height int) string {
	innerW := max(m.width-4, 20)

	title := styles.Title.Render(m.state.Title())

	cards := m.state.Cards()
	accents := []string{series.ColorCases, series.ColorDeaths, series.ColorRecovered}
	cardW := innerW / len(cards)
	tiles := make([]string, len(cards))
	for i, c := range cards {
		tiles[i] = components.SummaryCard(cardW, c.Label, c.Value, c.Today, c.Known, accents[i])
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top, tiles...)

	chartH := max(height-lipgloss.Height(title)-lipgloss.Height(row)-3, 8)
	chart := m.renderChart(innerW-2, chartH)

	body := lipgloss.JoinVertical(lipgloss.Left, title, "", row, chart)
	return lipgloss.NewStyle().Padding(0, 2).Height(height).Render(body)
}

func (m dashboardModel) renderChart(width, height int) string {
	panel := styles.Card.Padding(0, 1).Width(width)
	innerW := width - 4
	innerH := height - 2

	switch m.state.Chart {
	case dashboard.ChartPopulated:
		return panel.Render(components.LineChart(ChartTitle, m.state.Series, innerW, innerH))

	case dashboard.ChartError:
		if m.state.SeriesLoading {
			retrying := styles.MutedText.Render(m.spinner.View() + "  Retrying chart...")
			return panel.Render(lipgloss.Place(innerW, innerH, lipgloss.Center, lipgloss.Center, retrying))
		}
		msg := styles.ErrorText.Render("Error in Data")
		if m.state.SeriesErr != nil {
			msg += "\n\n" + styles.MutedText.Render(m.state.SeriesErr.Error())
		}
		msg += "\n\n" + styles.MutedText.Render("Press r to retry.")
		return panel.Render(lipgloss.Place(innerW, innerH, lipgloss.Center, lipgloss.Center, msg))

	default:
		loading := styles.MutedText.Render(m.spinner.View() + "  Loading chart...")
		return panel.Render(lipgloss.Place(innerW, innerH, lipgloss.Center, lipgloss.Center, loading))
	}
}

package tui

import (
	"fmt"
	"strings"
	"time"

	"nathanbeddoewebdev/covidash/internal/config"
	"nathanbeddoewebdev/covidash/internal/tui/components"
	"nathanbeddoewebdev/covidash/internal/tui/styles"
	"nathanbeddoewebdev/covidash/internal/util"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	configCardWidth  = 68
	configLabelWidth = 18
)

type configSavedMsg struct {
	status string
}

type configSaveErrorMsg struct {
	err error
}

type configKeyMap struct {
	Up    key.Binding
	Down  key.Binding
	Edit  key.Binding
	Reset key.Binding
	Quit  key.Binding
}

func defaultConfigKeys() configKeyMap {
	return configKeyMap{
		Up:    key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:  key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Edit:  key.NewBinding(key.WithKeys("enter", "e"), key.WithHelp("e", "edit")),
		Reset: key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "reset")),
		Quit:  key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// configViewModel browses and edits the settings in config.Keys. Unset
// keys show their effective default.
type configViewModel struct {
	cfg  *config.Config
	path string
	save func(*config.Config) error

	specs []config.KeySpec
	keys  configKeyMap

	cursor  int
	editing bool
	editor  textinput.Model

	width  int
	height int

	status  string
	isError bool
}

// RunConfigView starts the interactive config viewer/editor.
func RunConfigView() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	path, _ := config.Path()

	m := newConfigViewModel(cfg, path, (*config.Config).Save)
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

func newConfigViewModel(cfg *config.Config, path string, save func(*config.Config) error) configViewModel {
	return configViewModel{
		cfg:   cfg,
		path:  path,
		save:  save,
		specs: config.Keys,
		keys:  defaultConfigKeys(),
	}
}

func (m configViewModel) Init() tea.Cmd {
	return nil
}

func (m configViewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if m.editing {
			return m.handleEditKey(msg)
		}
		return m.handleKey(msg)

	case configSavedMsg:
		m.editing = false
		m.status, m.isError = msg.status, false
		return m, nil

	case configSaveErrorMsg:
		m.status, m.isError = "Error: "+msg.err.Error(), true
		return m, nil
	}

	if m.editing {
		var cmd tea.Cmd
		m.editor, cmd = m.editor.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m configViewModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if len(m.specs) == 0 {
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		m.cursor = max(m.cursor-1, 0)
	case key.Matches(msg, m.keys.Down):
		m.cursor = min(m.cursor+1, len(m.specs)-1)
	case key.Matches(msg, m.keys.Edit):
		spec := m.specs[m.cursor]
		ti := textinput.New()
		ti.SetValue(spec.Get(m.cfg))
		ti.Placeholder = spec.Default
		ti.Width = configCardWidth - configLabelWidth - 8
		m.editor = ti
		m.editing = true
		m.status = ""
		cmd := m.editor.Focus()
		return m, cmd
	case key.Matches(msg, m.keys.Reset):
		spec := m.specs[m.cursor]
		if spec.Get(m.cfg) == "" {
			return m, nil
		}
		spec.Set(m.cfg, "")
		return m, m.saveConfig(spec.Name + " reset to default")
	}
	return m, nil
}

func (m configViewModel) handleEditKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.editing = false
		return m, nil
	case "enter":
		spec := m.specs[m.cursor]
		value := strings.TrimSpace(m.editor.Value())
		if value != "" && spec.Validate != nil {
			if err := spec.Validate(value); err != nil {
				m.status, m.isError = "Error: "+err.Error(), true
				return m, nil
			}
		}
		if !spec.CaseSensitive {
			value = util.NormalizeKey(value)
		}
		spec.Set(m.cfg, value)

		status := spec.Name + " saved"
		if value == "" {
			status = spec.Name + " reset to default"
		}
		return m, m.saveConfig(status)
	}

	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	return m, cmd
}

func (m configViewModel) saveConfig(status string) tea.Cmd {
	cfg, save := m.cfg, m.save
	return func() tea.Msg {
		if err := save(cfg); err != nil {
			return configSaveErrorMsg{err: err}
		}
		return configSavedMsg{status: status}
	}
}

func (m configViewModel) footerBindings() []components.KeyBinding {
	if m.editing {
		return []components.KeyBinding{
			{Key: "enter", Desc: "save"},
			{Key: "esc", Desc: "cancel"},
		}
	}
	var out []components.KeyBinding
	for _, b := range []key.Binding{m.keys.Up, m.keys.Down, m.keys.Edit, m.keys.Reset, m.keys.Quit} {
		h := b.Help()
		out = append(out, components.KeyBinding{Key: h.Key, Desc: h.Desc})
	}
	return out
}

func (m configViewModel) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	header := components.Header(m.width, "config", "", time.Time{})
	footer := components.Footer(m.width, m.footerBindings())

	var statusBar string
	if m.status != "" {
		statusBar = components.StatusBar(m.width, components.Status{Text: m.status, IsError: m.isError})
	}

	contentH := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer)-lipgloss.Height(statusBar), 1)

	sections := []string{header, m.renderContent(contentH)}
	if statusBar != "" {
		sections = append(sections, statusBar)
	}
	sections = append(sections, footer)
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m configViewModel) renderContent(height int) string {
	title := styles.Title.Render("Configuration")

	if len(m.specs) == 0 {
		body := lipgloss.JoinVertical(lipgloss.Center, title, "", styles.MutedText.Render("No configuration keys defined."))
		return lipgloss.Place(m.width, height, lipgloss.Center, lipgloss.Center, body)
	}

	rows := make([]string, 0, len(m.specs)+1)
	for i, spec := range m.specs {
		rows = append(rows, m.renderRow(spec, i == m.cursor))
		if i == m.cursor && !m.editing {
			rows = append(rows, "    "+styles.MutedText.Italic(true).Render(spec.Description))
		}
	}

	card := styles.Card.Width(configCardWidth).Render(strings.Join(rows, "\n"))

	parts := []string{title, "", card}
	if m.path != "" {
		parts = append(parts, styles.MutedText.Render(m.path))
	}
	return lipgloss.Place(m.width, height, lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center, parts...))
}

func (m configViewModel) renderRow(spec config.KeySpec, selected bool) string {
	if !selected {
		value, isDefault := spec.Effective(m.cfg)
		name := styles.MutedText.Width(configLabelWidth).Render(spec.Name)
		return "  " + name + styles.MutedText.Render(configValueText(value, isDefault))
	}

	prefix := styles.AccentText.Render("> ")
	name := styles.Label.Width(configLabelWidth).Render(spec.Name)
	if m.editing {
		return prefix + name + m.editor.View()
	}

	value, isDefault := spec.Effective(m.cfg)
	if isDefault {
		return prefix + name + styles.MutedText.Render(configValueText(value, true))
	}
	return prefix + name + styles.Value.Bold(true).Render(value)
}

func configValueText(value string, isDefault bool) string {
	switch {
	case !isDefault:
		return value
	case value == "":
		return "(default)"
	}
	return value + " (default)"
}

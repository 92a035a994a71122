package tui

import (
	"fmt"
	"strings"

	"nathanbeddoewebdev/covidash/internal/domain"
	"nathanbeddoewebdev/covidash/internal/tui/styles"
	"nathanbeddoewebdev/covidash/internal/util"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

const (
	pickerWidth       = 44
	pickerVisibleRows = 12
)

// countryPicker is the scope selection overlay. It is a plain value owned
// by the dashboard model rather than a tea.Model of its own.
type countryPicker struct {
	open    bool
	options []domain.Scope
	matches []domain.Scope
	cursor  int
	offset  int
	filter  textinput.Model
}

func newCountryPicker() countryPicker {
	ti := textinput.New()
	ti.Placeholder = "type to filter"
	ti.Prompt = "/ "
	ti.CharLimit = 64
	ti.Width = pickerWidth - 8
	return countryPicker{filter: ti}
}

// Open shows the picker with options and the cursor on current.
func (p countryPicker) Open(options []domain.Scope, current domain.Scope) (countryPicker, tea.Cmd) {
	p.open = true
	p.options = options
	p.filter.SetValue("")
	p.applyFilter()
	p.highlight(current)
	cmd := p.filter.Focus()
	return p, cmd
}

// SetOptions replaces the option list while keeping the filter text and
// the highlighted scope, when it is still listed.
func (p countryPicker) SetOptions(options []domain.Scope) countryPicker {
	prev, hadSelection := p.Selected()
	p.options = options
	p.applyFilter()
	if hadSelection {
		p.highlight(prev)
	}
	return p
}

func (p countryPicker) Close() countryPicker {
	p.open = false
	p.filter.Blur()
	return p
}

// Selected returns the highlighted option.
func (p countryPicker) Selected() (domain.Scope, bool) {
	if p.cursor < 0 || p.cursor >= len(p.matches) {
		return "", false
	}
	return p.matches[p.cursor], true
}

// Update handles navigation and filter input. chosen is set when the user
// confirms a selection; the picker closes on confirm and on esc.
func (p countryPicker) Update(msg tea.Msg) (picker countryPicker, chosen *domain.Scope, cmd tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		p.filter, cmd = p.filter.Update(msg)
		return p, nil, cmd
	}

	switch key.String() {
	case "esc":
		return p.Close(), nil, nil
	case "enter":
		sel, ok := p.Selected()
		if !ok {
			return p, nil, nil
		}
		return p.Close(), &sel, nil
	case "up", "ctrl+p", "ctrl+k":
		p.move(-1)
		return p, nil, nil
	case "down", "ctrl+n", "ctrl+j":
		p.move(1)
		return p, nil, nil
	case "pgup":
		p.move(-pickerVisibleRows)
		return p, nil, nil
	case "pgdown":
		p.move(pickerVisibleRows)
		return p, nil, nil
	}

	before := p.filter.Value()
	p.filter, cmd = p.filter.Update(msg)
	if p.filter.Value() != before {
		p.applyFilter()
	}
	return p, nil, cmd
}

// highlight moves the cursor onto scope if it is among the matches.
func (p *countryPicker) highlight(scope domain.Scope) {
	for i, o := range p.matches {
		if util.SameKey(string(o), string(scope)) {
			p.cursor = i
			break
		}
	}
	p.scrollToCursor()
}

func (p *countryPicker) move(delta int) {
	if len(p.matches) == 0 {
		return
	}
	p.cursor = min(max(p.cursor+delta, 0), len(p.matches)-1)
	p.scrollToCursor()
}

func (p *countryPicker) scrollToCursor() {
	if p.cursor < p.offset {
		p.offset = p.cursor
	}
	if p.cursor >= p.offset+pickerVisibleRows {
		p.offset = p.cursor - pickerVisibleRows + 1
	}
}

// applyFilter keeps options whose display name contains the filter text,
// case-insensitively, and resets the cursor.
func (p *countryPicker) applyFilter() {
	needle := util.NormalizeKey(p.filter.Value())
	matches := make([]domain.Scope, 0, len(p.options))
	for _, o := range p.options {
		if needle == "" || strings.Contains(strings.ToLower(o.DisplayName()), needle) {
			matches = append(matches, o)
		}
	}
	p.matches = matches
	p.cursor = 0
	p.offset = 0
}

func (p countryPicker) View() string {
	title := styles.Title.Render("Select a country")
	input := styles.InputFocused.Width(pickerWidth - 6).Render(p.filter.View())

	rowWidth := pickerWidth - 6
	var rows []string
	if len(p.matches) == 0 {
		rows = append(rows, styles.MutedText.Render("No matches"))
	}
	end := min(p.offset+pickerVisibleRows, len(p.matches))
	for i := p.offset; i < end; i++ {
		name := ansi.Truncate(p.matches[i].DisplayName(), rowWidth-4, "…")
		if i == p.cursor {
			rows = append(rows, styles.TableSelectedRow.Width(rowWidth).Render("> "+name))
		} else {
			rows = append(rows, styles.TableCell.Width(rowWidth).Render("  "+name))
		}
	}

	count := styles.MutedText.Render(fmt.Sprintf("%d of %d", len(p.matches), len(p.options)))
	body := lipgloss.JoinVertical(lipgloss.Left, title, "", input, "", strings.Join(rows, "\n"), "", count)
	return styles.CardActive.Width(pickerWidth).Render(body)
}

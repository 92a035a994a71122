package tui

import (
	"nathanbeddoewebdev/covidash/internal/tui/components"

	"github.com/charmbracelet/bubbles/key"
)

// dashboardKeyMap holds the dashboard's top-level bindings. The picker
// handles its own keys while it is open.
type dashboardKeyMap struct {
	Pick      key.Binding
	Worldwide key.Binding
	Refresh   key.Binding
	Quit      key.Binding
}

func defaultDashboardKeys() dashboardKeyMap {
	return dashboardKeyMap{
		Pick: key.NewBinding(
			key.WithKeys("c", "/"),
			key.WithHelp("c", "choose country"),
		),
		Worldwide: key.NewBinding(
			key.WithKeys("w"),
			key.WithHelp("w", "worldwide"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// footer converts the enabled bindings into footer hints.
func (k dashboardKeyMap) footer() []components.KeyBinding {
	bindings := []key.Binding{k.Pick, k.Worldwide, k.Refresh, k.Quit}
	out := make([]components.KeyBinding, 0, len(bindings))
	for _, b := range bindings {
		if !b.Enabled() {
			continue
		}
		h := b.Help()
		out = append(out, components.KeyBinding{Key: h.Key, Desc: h.Desc})
	}
	return out
}

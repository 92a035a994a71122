package components

import (
	"strings"

	"nathanbeddoewebdev/covidash/internal/tui/styles"

	"github.com/charmbracelet/lipgloss"
)

// Status is one message shown in the status bar.
type Status struct {
	Text    string
	IsError bool
}

// StatusBar renders status messages on a single line between the content
// and the footer. Empty messages are skipped; with none left it renders
// nothing.
func StatusBar(width int, statuses ...Status) string {
	parts := make([]string, 0, len(statuses))
	for _, s := range statuses {
		if s.Text == "" {
			continue
		}
		style := styles.MutedText
		if s.IsError {
			style = styles.ErrorText
		}
		parts = append(parts, style.Render(s.Text))
	}
	if len(parts) == 0 {
		return ""
	}

	return lipgloss.NewStyle().
		Width(width).
		Padding(0, 2).
		Render(strings.Join(parts, styles.KeySepStyle.Render("  │  ")))
}

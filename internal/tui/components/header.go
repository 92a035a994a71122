// Package components holds the render-only pieces the dashboard and the
// config viewer are assembled from. None of them is a tea.Model.
package components

import (
	"strings"
	"time"

	"nathanbeddoewebdev/covidash/internal/tui/styles"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

const brand = "covidash"

// Header renders the top bar: brand and section on the left, the scope and
// the age of its data on the right. A zero updated time omits the age.
//
//	covidash > dashboard             Italy · updated 2 hours ago
//	────────────────────────────────────────────────────────────
func Header(width int, section, scope string, updated time.Time) string {
	if width < 10 {
		return ""
	}

	left := styles.Title.Foreground(styles.Blue).Render(brand)
	if section != "" {
		left += styles.MutedText.Render(" > ") + styles.Title.Render(section)
	}

	inner := width - 4
	room := inner - lipgloss.Width(left) - 1

	var right string
	if scope != "" {
		right = styles.Subtitle.Render(scope)
	}
	if !updated.IsZero() {
		age := styles.MutedText.Render(" · updated " + humanize.Time(updated))
		if lipgloss.Width(right)+lipgloss.Width(age) <= room {
			right += age
		}
	}
	if lipgloss.Width(right) > room {
		right = ""
	}

	gap := max(inner-lipgloss.Width(left)-lipgloss.Width(right), 1)

	return lipgloss.NewStyle().
		Width(width).
		Padding(0, 2).
		BorderStyle(lipgloss.Border{Bottom: "─"}).
		BorderBottom(true).
		BorderForeground(styles.DimGray).
		Render(left + strings.Repeat(" ", gap) + right)
}

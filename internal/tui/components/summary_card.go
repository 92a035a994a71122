package components

import (
	"nathanbeddoewebdev/covidash/internal/tui/styles"
	"nathanbeddoewebdev/covidash/internal/util"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"
)

// SummaryCard renders one headline statistic as a bordered tile.
//
//	╭─────────────────────────╮
//	│  Cases for Worldwide    │
//	│  678,801,612            │
//	│  +1,204 today           │
//	╰─────────────────────────╯
//
// When known is false the value has not been fetched yet and a muted
// placeholder is shown instead.
func SummaryCard(width int, title string, value, today int64, known bool, accent string) string {
	width = max(width, 16)
	inner := width - 6 // border + padding

	label := styles.SeriesStyle(accent).Bold(true).Render(ansi.Truncate(title, inner, "…"))

	number := styles.MutedText.Render("...")
	delta := styles.MutedText.Render(" ")
	if known {
		number = styles.BigNumber.Render(humanize.Comma(value))
		delta = styles.DeltaStyle(today).Render(util.SignedComma(today) + " today")
	}

	body := lipgloss.JoinVertical(lipgloss.Left, label, number, delta)
	return styles.StatCard.Width(width - 2).Render(body)
}

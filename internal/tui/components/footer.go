package components

import (
	"strings"

	"nathanbeddoewebdev/covidash/internal/tui/styles"

	"github.com/charmbracelet/lipgloss"
)

// KeyBinding is one key hint in the footer.
type KeyBinding struct {
	Key  string
	Desc string
}

// Footer renders the key hints on one line. Hints that do not fit are
// dropped from the right as whole entries and replaced by an ellipsis.
func Footer(width int, bindings []KeyBinding) string {
	if width < 10 || len(bindings) == 0 {
		return ""
	}

	inner := width - 4
	sep := styles.KeySepStyle.Render("  ")
	more := styles.KeySepStyle.Render("  …")

	var b strings.Builder
	for i, kb := range bindings {
		hint := styles.FormatKeyBinding(kb.Key, kb.Desc)
		if i > 0 {
			hint = sep + hint
		}

		reserve := 0
		if i < len(bindings)-1 {
			reserve = lipgloss.Width(more)
		}
		if lipgloss.Width(b.String())+lipgloss.Width(hint)+reserve > inner {
			if lipgloss.Width(b.String())+lipgloss.Width(more) <= inner {
				b.WriteString(more)
			}
			break
		}
		b.WriteString(hint)
	}

	return lipgloss.NewStyle().
		Width(width).
		Padding(0, 2).
		BorderStyle(lipgloss.Border{Top: "─"}).
		BorderTop(true).
		BorderForeground(styles.DimGray).
		Render(b.String())
}

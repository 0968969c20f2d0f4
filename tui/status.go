package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
)

// renderStatusBar produces a full-width inverted status line showing the
// room title, its exits, what the player carries and the turn count.
func (m Model) renderStatusBar() string {
	title := "Nowhere"
	if room := m.engine.Room(); room != nil {
		title = room.Title
	}
	turn := m.engine.State.Turn

	left := fmt.Sprintf(" %s | %s", title, m.engine.ExitsLine())
	right := fmt.Sprintf("T:%d ", turn)
	if m.engine.State.Over {
		right = "ENDED | " + right
	}

	// The full inventory when it fits, otherwise as much as fits.
	inv := "Inv: " + m.engine.InventorySummary() + " | "
	space := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if space > len("Inv: … | ") {
		if lipgloss.Width(inv) > space {
			inv = truncate.StringWithTail(inv[:len(inv)-3], uint(space-3), "…") + " | "
		}
		right = inv + right
	}

	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(right), 0)
	bar := left + strings.Repeat(" ", gap) + right
	return styleStatusBar.Width(m.width).Render(bar)
}

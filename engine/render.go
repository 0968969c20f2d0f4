package engine

import (
	"fmt"
	"strings"

	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"

	"github.com/nathoo/stoneend/engine/effects"
	"github.com/nathoo/stoneend/engine/resolve"
	"github.com/nathoo/stoneend/types"
)

// Describe renders the active room: title, description paragraphs, the
// items lying here, the coordinate in debug mode and the exits line.
func (e *Engine) Describe() []string {
	room := e.Room()
	if room == nil {
		return []string{"You are somewhere unknown."}
	}

	out := []string{room.Title, ""}
	desc := room.Description
	if room.IsPlaceholder() {
		desc = "This place has not been written yet."
	}
	out = append(out, e.wrap(desc)...)
	out = append(out, "")

	pile := e.State.RoomItems[room.Coord]
	for _, it := range pile {
		out = append(out, resolve.RoomItemName(e.World, it))
	}
	if len(pile) > 0 {
		out = append(out, "")
	}

	if e.State.Debug {
		out = append(out, fmt.Sprintf("Coord: %s  Room: %s", e.State.Position, room.ID))
	}
	out = append(out, e.ExitsLine())
	return out
}

// ExitsLine renders the four compass exits, "_" for blocked ones:
// "Exits: n _ s _".
func (e *Engine) ExitsLine() string {
	exits := e.World.Grid.Exits(e.State.Position)
	var b strings.Builder
	b.WriteString("Exits:")
	for _, dir := range types.Directions {
		if exits[dir] {
			b.WriteString(" " + dir.Short())
		} else {
			b.WriteString(" _")
		}
	}
	return b.String()
}

// inventory renders the boxed inventory listing.
func (e *Engine) inventory() []string {
	out := box("Your inventory:")
	ids := e.State.InventoryIDs()
	if len(ids) == 0 {
		out = append(out, "    (empty)")
	}
	for _, id := range ids {
		it, _ := e.World.Item(id)
		if it.MaxQuantity > 0 {
			out = append(out, fmt.Sprintf("  ‣ %s (%d)", e.World.ItemName(id), e.State.Quantity(id)))
			continue
		}
		out = append(out, "  ‣ "+e.World.ItemName(id))
	}
	return out
}

// InventorySummary is the one-line inventory used by status bars.
func (e *Engine) InventorySummary() string {
	return effects.FormatInventory(e.State, e.World)
}

// wrap splits text into paragraphs on blank lines, joins the lines of each
// paragraph, word-wraps it to the engine width and indents it.
func (e *Engine) wrap(text string) []string {
	var out []string
	for i, para := range strings.Split(strings.TrimSpace(text), "\n\n") {
		if i > 0 {
			out = append(out, "")
		}
		para = strings.Join(strings.Fields(para), " ")
		wrapped := wordwrap.String(para, e.width-e.indent)
		wrapped = indent.String(wrapped, uint(e.indent))
		out = append(out, strings.Split(wrapped, "\n")...)
	}
	return out
}

func box(text string) []string {
	bar := strings.Repeat("═", len([]rune(text))+2)
	return []string{
		"╔" + bar + "╗",
		"║ " + text + " ║",
		"╚" + bar + "╝",
	}
}

// Package shop implements buying from NPCs on top of the modifier executor.
// A purchase is two declared modifiers, RemoveItem(currency) then
// AddItem(item), so it shows up in traces like any scripted action.
package shop

import (
	"errors"
	"fmt"

	"github.com/nathoo/stoneend/engine/effects"
	"github.com/nathoo/stoneend/engine/resolve"
	"github.com/nathoo/stoneend/engine/state"
	"github.com/nathoo/stoneend/engine/world"
	"github.com/nathoo/stoneend/types"
)

// Receipt describes the outcome of a purchase attempt. Modifiers and
// Events are empty unless OK is true.
type Receipt struct {
	OK        bool
	Text      string
	Sale      resolve.Sale
	Modifiers []types.Modifier
	Events    []types.Event
}

// Purchase buys one unit of the item named by phrase from an NPC in the
// room. On any failure the state is left untouched.
func Purchase(w *world.World, s *state.State, room *types.Room, phrase string) Receipt {
	if phrase == "" {
		return Receipt{Text: "Buy what?"}
	}

	sale, err := resolve.ShopItem(w, s, room, phrase)
	if err != nil {
		var amb *resolve.AmbiguityError
		if errors.As(err, &amb) {
			return Receipt{Text: fmt.Sprintf("Which one do you want to buy? %s", amb.Error())}
		}
		return Receipt{Text: fmt.Sprintf("Nobody here sells a %s.", phrase)}
	}

	currency := w.ItemName(w.Currency)
	if have := s.Quantity(w.Currency); have < sale.Line.Cost {
		return Receipt{
			Sale: sale,
			Text: fmt.Sprintf("The %s costs %d %s. You only have %d.",
				sale.Item.Name, sale.Line.Cost, currency, have),
		}
	}

	mods := []types.Modifier{
		{Kind: types.RemoveItem, Item: w.Currency, Quantity: sale.Line.Cost},
		{Kind: types.AddItem, Item: sale.Line.ItemID, Quantity: 1},
	}
	if sale.Line.Cost == 0 {
		mods = mods[1:]
	}
	events := effects.Apply(s, w, mods)
	s.TakeStock(sale.NPC.ID, sale.Line.ItemID)

	return Receipt{
		OK:        true,
		Sale:      sale,
		Modifiers: mods,
		Events:    events,
		Text: fmt.Sprintf("You hand %d %s to the %s and receive the %s.",
			sale.Line.Cost, currency, sale.NPC.Name, sale.Item.Name),
	}
}

// Listing renders what an NPC still has for sale, one line per item.
func Listing(w *world.World, s *state.State, npc types.NPC) []string {
	sales := resolve.NPCSales(w, s, npc)
	lines := make([]string, 0, len(sales))
	for _, sale := range sales {
		lines = append(lines, fmt.Sprintf("  ‣ %s (%d gp)", sale.Item.Name, sale.Line.Cost))
	}
	return lines
}

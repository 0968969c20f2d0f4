// Package effects implements centralized state mutation via the Apply function.
// Every modifier kind is one atomic operation. No logic in effects.
package effects

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/nathoo/stoneend/engine/state"
	"github.com/nathoo/stoneend/engine/world"
	"github.com/nathoo/stoneend/types"
)

// Execute runs a matched action: every modifier in declared order, then
// the response text. A terminal outcome still applies all modifiers before
// the session is marked over.
func Execute(s *state.State, w *world.World, a *types.Action) (events []types.Event, output []string, terminal bool) {
	events = Apply(s, w, a.Modifiers)

	if text := Interpolate(a.Text, s, w); text != "" {
		output = append(output, text)
	}

	if a.Outcome.Terminal() {
		s.Over = true
		events = append(events, types.Event{
			Type: "session_ended",
			Data: map[string]any{"outcome": string(a.Outcome)},
		})
		terminal = true
	}
	return events, output, terminal
}

// Apply applies a list of modifiers to the game state, mutating it.
// Returns the events emitted.
func Apply(s *state.State, w *world.World, mods []types.Modifier) []types.Event {
	var events []types.Event

	for _, m := range mods {
		switch m.Kind {
		case types.ChangeState:
			s.SetFlag(m.Flag, m.Value)
			if m.Value == "" {
				events = append(events, types.Event{
					Type: "flag_cleared",
					Data: map[string]any{"flag": m.Flag},
				})
				continue
			}
			events = append(events, types.Event{
				Type: "flag_changed",
				Data: map[string]any{"flag": m.Flag, "value": m.Value},
			})

		case types.ChangeRoom:
			room, ok := w.Room(m.Room)
			if !ok {
				// Rejected at world construction; nothing to switch to.
				continue
			}
			from := ""
			if prev := w.ActiveRoom(room.Coord, s); prev != nil {
				from = prev.ID
			}
			s.SetVariant(room.Coord, room.ID)
			events = append(events, types.Event{
				Type: "room_changed",
				Data: map[string]any{"room": room.ID, "from": from, "coord": room.Coord.String()},
			})

		case types.AddItem:
			n := quantity(m)
			total := s.AddItem(m.Item, n)
			events = append(events, types.Event{
				Type: "item_added",
				Data: map[string]any{"item": m.Item, "quantity": n, "total": total},
			})

		case types.RemoveItem:
			removed := s.RemoveItem(m.Item, quantity(m))
			events = append(events, types.Event{
				Type: "item_removed",
				Data: map[string]any{"item": m.Item, "quantity": removed, "total": s.Quantity(m.Item)},
			})

		default:
			// Unknown modifier kinds are rejected at load.
		}
	}

	return events
}

// quantity defaults an omitted modifier quantity to one.
func quantity(m types.Modifier) int {
	if m.Quantity <= 0 {
		return 1
	}
	return m.Quantity
}

var flagRef = regexp.MustCompile(`\{flag:([^}]+)\}`)

// Interpolate replaces template variables in response text:
// {inventory} and {flag:name}.
func Interpolate(text string, s *state.State, w *world.World) string {
	if strings.Contains(text, "{inventory}") {
		text = strings.ReplaceAll(text, "{inventory}", FormatInventory(s, w))
	}
	if strings.Contains(text, "{flag:") {
		text = flagRef.ReplaceAllStringFunc(text, func(ref string) string {
			v, _ := s.Flag(flagRef.FindStringSubmatch(ref)[1])
			return v
		})
	}
	return text
}

// FormatInventory creates a human-readable inventory list.
func FormatInventory(s *state.State, w *world.World) string {
	ids := s.InventoryIDs()
	if len(ids) == 0 {
		return "nothing"
	}
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		name := w.ItemName(id)
		if n := s.Quantity(id); n > 1 {
			name = fmt.Sprintf("%s (%d)", name, n)
		}
		names = append(names, name)
	}
	return strings.Join(names, ", ")
}

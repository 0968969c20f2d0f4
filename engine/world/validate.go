package world

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/nathoo/stoneend/engine/parser"
	"github.com/nathoo/stoneend/types"
)

// ValidationError collects all content-authoring errors and warnings found
// while building a world.
type ValidationError struct {
	Errors   []string
	Warnings []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed with %d error(s):\n  %s",
		len(e.Errors), strings.Join(e.Errors, "\n  "))
}

func (e *ValidationError) add(format string, args ...any) {
	e.Errors = append(e.Errors, fmt.Sprintf(format, args...))
}

func (e *ValidationError) warn(format string, args ...any) {
	e.Warnings = append(e.Warnings, fmt.Sprintf(format, args...))
}

// validate checks referential integrity once all entities are registered.
func (w *World) validate(ve *ValidationError) {
	for _, st := range w.inventory {
		w.checkItem(ve, "starting inventory", st.ItemID)
	}

	for _, id := range slices.Sorted(maps.Keys(w.npcs)) {
		npc := w.npcs[id]
		for _, line := range npc.Shop {
			w.checkItem(ve, fmt.Sprintf("npc %q shop", id), line.ItemID)
			if line.Cost < 0 {
				ve.add("npc %q sells %q at negative cost %d", id, line.ItemID, line.Cost)
			}
		}
		if len(npc.Shop) > 0 {
			if _, ok := w.items[w.Currency]; !ok {
				ve.add("npc %q runs a shop but currency item %q is not defined", id, w.Currency)
			}
		}
	}

	for _, id := range slices.Sorted(maps.Keys(w.regions)) {
		region := w.regions[id]
		w.checkActions(ve, fmt.Sprintf("region %q", id), region.Actions)
	}

	for _, room := range w.rooms {
		where := fmt.Sprintf("room %q at %s", room.ID, room.Coord)
		for _, id := range room.Regions {
			if _, ok := w.regions[id]; !ok {
				ve.add("%s references undefined region %q", where, id)
			}
		}
		for _, id := range room.NPCs {
			if _, ok := w.npcs[id]; !ok {
				ve.add("%s references undefined npc %q", where, id)
			}
		}
		for _, it := range room.Items {
			w.checkItem(ve, where, it.ItemID)
		}
		w.checkActions(ve, where, room.Actions)

		if room.IsPlaceholder() {
			ve.warn("%s has no description yet", where)
		}
		if w.Grid != nil && !w.Grid.Passable(room.Coord) {
			ve.warn("%s is not on a floor cell and cannot be walked to", where)
		}
	}

	if w.Grid == nil {
		return
	}

	if _, ok := w.variants[w.Entry]; !ok {
		ve.add("entry %s has no room", w.Entry)
	}

	// Every floor cell needs a room; list stubs the author can paste in.
	var missing []string
	for _, c := range w.Grid.FloorCells() {
		if _, ok := w.variants[c]; !ok {
			missing = append(missing, c.String())
		}
	}
	if len(missing) > 0 {
		ve.add("floor cells without a room: %s", strings.Join(missing, ", "))
	}
}

func (w *World) checkActions(ve *ValidationError, where string, actions []types.Action) {
	for i, a := range actions {
		at := fmt.Sprintf("%s action %d (%s)", where, i+1, a.Verb)
		if a.Verb.IsZero() {
			ve.add("%s has no verb", at)
		}
		if a.Verb.Kind == types.VerbCustom {
			if means, ok := parser.Shadowed(a.Verb.Alias); ok {
				ve.add("%s can never match: players typing %q get %s", at, a.Verb.Alias, means)
			}
		}
		if a.Outcome != types.OutcomeNone && !a.Outcome.Terminal() {
			ve.add("%s has unknown outcome %q", at, a.Outcome)
		}
		for _, m := range a.Modifiers {
			w.checkModifier(ve, at, m)
		}
		w.checkConditions(ve, at, a.Requires)
	}
}

func (w *World) checkModifier(ve *ValidationError, where string, m types.Modifier) {
	switch m.Kind {
	case types.ChangeState:
		if m.Flag == "" {
			ve.add("%s: change_state without a flag", where)
		}
	case types.ChangeRoom:
		if _, ok := w.byID[m.Room]; !ok {
			ve.add("%s: change_room references undefined room %q", where, m.Room)
		}
	case types.AddItem, types.RemoveItem:
		w.checkItem(ve, where+": "+m.Kind.String(), m.Item)
		if m.Quantity < 0 {
			ve.add("%s: %s with negative quantity %d", where, m.Kind, m.Quantity)
		}
	default:
		ve.add("%s: unknown modifier kind %d", where, m.Kind)
	}
}

func (w *World) checkConditions(ve *ValidationError, where string, conds []types.Condition) {
	for _, c := range conds {
		switch c.Kind {
		case types.FlagSet, types.FlagNot, types.FlagIs:
			if c.Flag == "" {
				ve.add("%s: flag condition without a flag", where)
			}
		case types.HasItem:
			w.checkItem(ve, where+": has_item", c.Item)
		case types.Not:
			if c.Inner == nil {
				ve.add("%s: not() without a condition", where)
				continue
			}
			w.checkConditions(ve, where, []types.Condition{*c.Inner})
		default:
			ve.add("%s: unknown condition kind %d", where, c.Kind)
		}
	}
}

func (w *World) checkItem(ve *ValidationError, where, id string) {
	if _, ok := w.items[id]; !ok {
		ve.add("%s references undefined item %q", where, id)
	}
}

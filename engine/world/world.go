// Package world is the static registry built from a level: rooms and their
// variants, regions, NPCs, items and the map grid. It is immutable after
// New; the only dynamic query is ActiveRoom, which reads the variant
// overrides recorded in the session state.
package world

import (
	"fmt"
	"maps"
	"slices"

	"github.com/nathoo/stoneend/engine/grid"
	"github.com/nathoo/stoneend/engine/parser"
	"github.com/nathoo/stoneend/engine/state"
	"github.com/nathoo/stoneend/types"
)

// DefaultCurrency is the item id used for shop purchases when the level
// names no currency and declares no money item.
const DefaultCurrency = "gold"

// World owns every static entity of a level.
type World struct {
	Title    string
	Author   string
	Version  string
	Intro    string
	Help     string
	Entry    types.Coord
	Currency string
	Grid     *grid.Grid

	// Warnings collects non-fatal content problems found by New.
	Warnings []string

	rooms     []*types.Room
	byID      map[string]*types.Room
	variants  map[types.Coord][]*types.Room
	regions   map[string]types.Region
	npcs      map[string]types.NPC
	items     map[string]types.Item
	inventory []types.ItemStack
}

// New builds a World from a level and validates every reference in it.
// All content-authoring errors are reported together as a
// *ValidationError.
func New(level *types.Level) (*World, error) {
	ve := &ValidationError{}

	w := &World{
		Title:     level.Title,
		Author:    level.Author,
		Version:   level.Version,
		Intro:     level.Intro,
		Help:      level.Help,
		Entry:     level.Entry,
		Currency:  level.Currency,
		byID:      map[string]*types.Room{},
		variants:  map[types.Coord][]*types.Room{},
		regions:   make(map[string]types.Region, len(level.Regions)),
		npcs:      make(map[string]types.NPC, len(level.NPCs)),
		items:     make(map[string]types.Item, len(level.Items)),
		inventory: slices.Clone(level.Inventory),
	}

	g, err := grid.Parse(level.Maps)
	if err != nil {
		ve.add("malformed map: %v", err)
	}
	w.Grid = g

	for id, it := range level.Items {
		if it.ID == "" {
			it.ID = id
		}
		it.Targets = normalizeAll(it.Targets)
		w.items[id] = it
	}
	if w.Currency == "" {
		w.Currency = w.defaultCurrency()
	}
	for id, npc := range level.NPCs {
		if npc.ID == "" {
			npc.ID = id
		}
		npc.Targets = normalizeAll(npc.Targets)
		npc.Shop = slices.Clone(npc.Shop)
		for j, line := range npc.Shop {
			// A sale line without a price sells at the item's own cost.
			if line.Cost == 0 {
				npc.Shop[j].Cost = w.items[line.ItemID].Cost
			}
		}
		w.npcs[id] = npc
	}
	for id, region := range level.Regions {
		if region.ID == "" {
			region.ID = id
		}
		region.Actions = normalizeActions(region.Actions)
		w.regions[id] = region
	}

	anonymous := map[types.Coord]int{}
	for i := range level.Rooms {
		room := level.Rooms[i]
		if room.ID == "" {
			anonymous[room.Coord]++
			room.ID = implicitID(room.Coord, anonymous[room.Coord])
		}
		if prev, ok := w.byID[room.ID]; ok {
			ve.add("room %q declared twice (at %s and %s)", room.ID, prev.Coord, room.Coord)
			continue
		}
		room.Actions = normalizeActions(room.Actions)
		room.Items = slices.Clone(room.Items)
		for j := range room.Items {
			room.Items[j].Targets = normalizeAll(room.Items[j].Targets)
			if room.Items[j].Pickup == "" {
				room.Items[j].Pickup = w.items[room.Items[j].ItemID].Pickup
			}
		}
		w.rooms = append(w.rooms, &room)
		w.byID[room.ID] = &room
		w.variants[room.Coord] = append(w.variants[room.Coord], &room)
	}

	w.validate(ve)

	if len(ve.Errors) > 0 {
		return nil, ve
	}
	w.Warnings = ve.Warnings
	return w, nil
}

// defaultCurrency picks the currency of a level that names none: the first
// money item by id, else DefaultCurrency.
func (w *World) defaultCurrency() string {
	for _, id := range slices.Sorted(maps.Keys(w.items)) {
		if w.items[id].Variant == types.Money {
			return id
		}
	}
	return DefaultCurrency
}

// implicitID derives a room identifier from its coordinate. The n-th
// anonymous variant at one coordinate (n > 1) gets a numeric suffix.
func implicitID(c types.Coord, n int) string {
	if n <= 1 {
		return fmt.Sprintf("room:%d:%d:%d", c.X, c.Y, c.Z)
	}
	return fmt.Sprintf("room:%d:%d:%d:%d", c.X, c.Y, c.Z, n)
}

func normalizeAll(targets []string) []string {
	out := make([]string, 0, len(targets))
	for _, t := range targets {
		if n := parser.Normalize(t); n != "" {
			out = append(out, n)
		}
	}
	return out
}

func normalizeActions(actions []types.Action) []types.Action {
	out := make([]types.Action, len(actions))
	for i, a := range actions {
		a.Targets = normalizeAll(a.Targets)
		out[i] = a
	}
	return out
}

// ActiveRoom returns the variant at c selected by the session state: the
// recorded override if any, else the first-declared variant. It returns
// nil for cells without rooms.
func (w *World) ActiveRoom(c types.Coord, s *state.State) *types.Room {
	variants := w.variants[c]
	if len(variants) == 0 {
		return nil
	}
	if id, ok := s.ActiveVariant(c); ok {
		for _, r := range variants {
			if r.ID == id {
				return r
			}
		}
	}
	return variants[0]
}

// EffectiveActions returns the room's own actions followed by the actions
// of each of its regions, in the room's region order. The result is a new
// slice; regions are never copied onto rooms.
func (w *World) EffectiveActions(room *types.Room) []types.Action {
	if room == nil {
		return nil
	}
	out := make([]types.Action, 0, len(room.Actions))
	out = append(out, room.Actions...)
	for _, id := range room.Regions {
		out = append(out, w.regions[id].Actions...)
	}
	return out
}

// Room looks up a room by identifier.
func (w *World) Room(id string) (*types.Room, bool) {
	r, ok := w.byID[id]
	return r, ok
}

// Rooms returns every room in declaration order.
func (w *World) Rooms() []*types.Room {
	return slices.Clone(w.rooms)
}

// Variants returns the rooms declared at c in declaration order.
func (w *World) Variants(c types.Coord) []*types.Room {
	return slices.Clone(w.variants[c])
}

// Region looks up a region by identifier.
func (w *World) Region(id string) (types.Region, bool) {
	r, ok := w.regions[id]
	return r, ok
}

// NPC looks up an NPC by identifier.
func (w *World) NPC(id string) (types.NPC, bool) {
	n, ok := w.npcs[id]
	return n, ok
}

// NPCsIn returns the NPCs referenced by a room, in the room's order.
func (w *World) NPCsIn(room *types.Room) []types.NPC {
	if room == nil {
		return nil
	}
	out := make([]types.NPC, 0, len(room.NPCs))
	for _, id := range room.NPCs {
		if npc, ok := w.npcs[id]; ok {
			out = append(out, npc)
		}
	}
	return out
}

// Item looks up an item by identifier.
func (w *World) Item(id string) (types.Item, bool) {
	it, ok := w.items[id]
	return it, ok
}

// ItemIDs returns every item identifier, sorted.
func (w *World) ItemIDs() []string {
	return slices.Sorted(maps.Keys(w.items))
}

// ItemName returns the display name of an item, falling back to its id.
func (w *World) ItemName(id string) string {
	if it, ok := w.items[id]; ok && it.Name != "" {
		return it.Name
	}
	return id
}

// Seed builds the starting state of a session: entry position, starting
// inventory, each room's flag defaults (first declaration wins), room item
// piles and tracked shop stock.
func (w *World) Seed() state.Seed {
	seed := state.Seed{
		Entry:     w.Entry,
		Flags:     map[string]string{},
		RoomItems: map[types.Coord][]types.RoomItem{},
		Stock:     map[string]int{},
	}
	for _, st := range w.inventory {
		seed.Inventory = append(seed.Inventory, types.ItemStack{
			ItemID:   st.ItemID,
			Quantity: w.defaultQuantity(st.ItemID, st.Quantity),
		})
	}
	for _, room := range w.rooms {
		for _, flag := range slices.Sorted(maps.Keys(room.State)) {
			if _, seen := seed.Flags[flag]; !seen && room.State[flag] != "" {
				seed.Flags[flag] = room.State[flag]
			}
		}
		// Every variant at a coordinate contributes to the one pile there,
		// in declaration order.
		for _, it := range room.Items {
			it.Quantity = w.defaultQuantity(it.ItemID, it.Quantity)
			seed.RoomItems[room.Coord] = append(seed.RoomItems[room.Coord], it)
		}
	}
	for id, npc := range w.npcs {
		for _, line := range npc.Shop {
			if line.Stock > 0 {
				seed.Stock[state.StockKey(id, line.ItemID)] = line.Stock
			}
		}
	}
	return seed
}

// NewState starts a session in this world.
func (w *World) NewState() *state.State {
	return state.New(w.Seed())
}

func (w *World) defaultQuantity(itemID string, n int) int {
	if n > 0 {
		return n
	}
	if it, ok := w.items[itemID]; ok && it.Quantity > 0 {
		return it.Quantity
	}
	return 1
}

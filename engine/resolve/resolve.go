// Package resolve maps target phrases from parsed intents to the NPCs and
// items the built-in commands act on.
package resolve

import (
	"fmt"
	"strings"

	"github.com/nathoo/stoneend/engine/parser"
	"github.com/nathoo/stoneend/engine/state"
	"github.com/nathoo/stoneend/engine/world"
	"github.com/nathoo/stoneend/types"
)

// AmbiguityError indicates multiple things partially matched a phrase.
type AmbiguityError struct {
	Name       string
	Candidates []string
}

func (e *AmbiguityError) Error() string {
	names := strings.Join(e.Candidates, ", ")
	return fmt.Sprintf("which %s? (%s)", e.Name, names)
}

// NotFoundError indicates nothing matched a phrase.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("you don't see %q here", e.Name)
}

// NPC finds an NPC in the room by alias, name or id.
func NPC(w *world.World, room *types.Room, phrase string) (types.NPC, error) {
	npcs := w.NPCsIn(room)
	i, err := pick(phrase, len(npcs),
		func(i int) []string { return keys(npcs[i].ID, npcs[i].Name, npcs[i].Targets) },
		func(i int) string { return npcs[i].Name })
	if err != nil {
		return types.NPC{}, err
	}
	return npcs[i], nil
}

// RoomItem finds an item lying in the room's pile.
func RoomItem(w *world.World, s *state.State, room *types.Room, phrase string) (types.RoomItem, error) {
	if room == nil {
		return types.RoomItem{}, &NotFoundError{Name: phrase}
	}
	pile := s.RoomItems[room.Coord]
	i, err := pick(phrase, len(pile),
		func(i int) []string { return roomItemKeys(w, pile[i]) },
		func(i int) string { return RoomItemName(w, pile[i]) })
	if err != nil {
		return types.RoomItem{}, err
	}
	return pile[i], nil
}

// Sale is one purchasable line of a shop in the current room.
type Sale struct {
	NPC  types.NPC
	Line types.SaleItem
	Item types.Item
}

// ShopItem finds an item sold by an NPC in the room. Lines whose tracked
// stock has run out are skipped.
func ShopItem(w *world.World, s *state.State, room *types.Room, phrase string) (Sale, error) {
	sales := Sales(w, s, room)
	i, err := pick(phrase, len(sales),
		func(i int) []string { return keys(sales[i].Item.ID, sales[i].Item.Name, sales[i].Item.Targets) },
		func(i int) string { return sales[i].Item.Name })
	if err != nil {
		return Sale{}, err
	}
	return sales[i], nil
}

// Sales lists every line still for sale in the room, NPC by NPC.
func Sales(w *world.World, s *state.State, room *types.Room) []Sale {
	var out []Sale
	for _, npc := range w.NPCsIn(room) {
		out = append(out, NPCSales(w, s, npc)...)
	}
	return out
}

// NPCSales lists the lines an NPC still has for sale.
func NPCSales(w *world.World, s *state.State, npc types.NPC) []Sale {
	var out []Sale
	for _, line := range npc.Shop {
		if left, tracked := s.StockLeft(npc.ID, line.ItemID); tracked && left <= 0 {
			continue
		}
		it, ok := w.Item(line.ItemID)
		if !ok {
			continue
		}
		out = append(out, Sale{NPC: npc, Line: line, Item: it})
	}
	return out
}

// InventoryItem finds a held item and returns its id.
func InventoryItem(w *world.World, s *state.State, phrase string) (string, error) {
	ids := s.InventoryIDs()
	i, err := pick(phrase, len(ids),
		func(i int) []string {
			it, _ := w.Item(ids[i])
			return keys(ids[i], it.Name, it.Targets)
		},
		func(i int) string { return w.ItemName(ids[i]) })
	if err != nil {
		return "", err
	}
	return ids[i], nil
}

// Kind says what a visible target resolved to.
type Kind int

const (
	KindNPC Kind = iota + 1
	KindShopItem
	KindRoomItem
	KindInventory
)

// Target is anything the player can see from where they stand.
type Target struct {
	Kind   Kind
	NPC    types.NPC
	ItemID string
}

// Visible searches, in order, the NPCs in the room, the items they sell,
// the items lying here and the items carried. An exact key anywhere beats
// a partial one, so "apple" finds the apple before the apple farmer.
func Visible(w *world.World, s *state.State, room *types.Room, phrase string) (Target, error) {
	var (
		targets []Target
		keyList [][]string
		labels  []string
	)
	add := func(t Target, k []string, label string) {
		targets = append(targets, t)
		keyList = append(keyList, k)
		labels = append(labels, label)
	}

	for _, npc := range w.NPCsIn(room) {
		add(Target{Kind: KindNPC, NPC: npc}, keys(npc.ID, npc.Name, npc.Targets), npc.Name)
	}
	for _, sale := range Sales(w, s, room) {
		add(Target{Kind: KindShopItem, NPC: sale.NPC, ItemID: sale.Item.ID},
			keys(sale.Item.ID, sale.Item.Name, sale.Item.Targets), sale.Item.Name)
	}
	if room != nil {
		for _, it := range s.RoomItems[room.Coord] {
			add(Target{Kind: KindRoomItem, ItemID: it.ItemID}, roomItemKeys(w, it), RoomItemName(w, it))
		}
	}
	for _, id := range s.InventoryIDs() {
		def, _ := w.Item(id)
		add(Target{Kind: KindInventory, ItemID: id}, keys(id, def.Name, def.Targets), w.ItemName(id))
	}

	i, err := pick(phrase, len(targets),
		func(i int) []string { return keyList[i] },
		func(i int) string { return labels[i] })
	if err != nil {
		return Target{}, err
	}
	return targets[i], nil
}

// RoomItemName is the display name of a room item.
func RoomItemName(w *world.World, it types.RoomItem) string {
	if it.Name != "" {
		return it.Name
	}
	return w.ItemName(it.ItemID)
}

func roomItemKeys(w *world.World, it types.RoomItem) []string {
	def, _ := w.Item(it.ItemID)
	k := keys(it.ItemID, RoomItemName(w, it), it.Targets)
	return append(k, def.Targets...)
}

// keys collects the normalized strings a phrase is compared with.
func keys(id, name string, aliases []string) []string {
	out := make([]string, 0, len(aliases)+2)
	out = append(out, id)
	if name != "" {
		out = append(out, parser.Normalize(name))
	}
	return append(out, aliases...)
}

// pick returns the first candidate with an exact key, else the single
// candidate with a key containing the phrase.
func pick(phrase string, n int, keysOf func(int) []string, label func(int) string) (int, error) {
	phrase = parser.Normalize(phrase)
	if phrase == "" {
		return -1, &NotFoundError{Name: phrase}
	}

	var partial []int
	for i := range n {
		matched := false
		for _, k := range keysOf(i) {
			if k == phrase {
				return i, nil
			}
			if !matched && strings.Contains(k, phrase) {
				matched = true
			}
		}
		if matched {
			partial = append(partial, i)
		}
	}

	switch len(partial) {
	case 0:
		return -1, &NotFoundError{Name: phrase}
	case 1:
		return partial[0], nil
	default:
		names := make([]string, len(partial))
		for j, i := range partial {
			names[j] = label(i)
		}
		return -1, &AmbiguityError{Name: phrase, Candidates: names}
	}
}

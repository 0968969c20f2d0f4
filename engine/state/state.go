// Package state holds the mutable game state of one session: position,
// active room variants, flags, inventory, room item piles and shop stock.
package state

import (
	"maps"
	"slices"

	"github.com/google/uuid"

	"github.com/nathoo/stoneend/types"
)

// Seed is everything needed to start a session. The world package builds
// it from a validated level.
type Seed struct {
	Entry     types.Coord
	Inventory []types.ItemStack
	Flags     map[string]string
	RoomItems map[types.Coord][]types.RoomItem
	Stock     map[string]int
}

// State is the complete mutable game state.
type State struct {
	ID        uuid.UUID
	Position  types.Coord
	Variants  map[types.Coord]string // coordinate -> active variant override
	Flags     map[string]string
	Inventory map[string]int
	RoomItems map[types.Coord][]types.RoomItem // coordinate -> items lying there
	Stock     map[string]int              // StockKey -> remaining
	Turn      int
	Over      bool
	Debug     bool
}

// New creates a fresh session state from a seed.
func New(seed Seed) *State {
	s := &State{
		ID:        uuid.New(),
		Position:  seed.Entry,
		Variants:  map[types.Coord]string{},
		Flags:     map[string]string{},
		Inventory: map[string]int{},
		RoomItems: map[types.Coord][]types.RoomItem{},
		Stock:     map[string]int{},
	}
	for _, st := range seed.Inventory {
		s.AddItem(st.ItemID, st.Quantity)
	}
	maps.Copy(s.Flags, seed.Flags)
	for c, items := range seed.RoomItems {
		s.RoomItems[c] = slices.Clone(items)
	}
	maps.Copy(s.Stock, seed.Stock)
	return s
}

// Flag returns the value of a flag and whether it is set.
func (s *State) Flag(name string) (string, bool) {
	v, ok := s.Flags[name]
	return v, ok
}

// FlagSet reports whether a flag holds a value other than "false".
func (s *State) FlagSet(name string) bool {
	v, ok := s.Flags[name]
	return ok && v != "false"
}

// SetFlag overwrites a flag. An empty value clears it.
func (s *State) SetFlag(name, value string) {
	if value == "" {
		delete(s.Flags, name)
		return
	}
	s.Flags[name] = value
}

// Quantity returns how many of an item the player holds.
func (s *State) Quantity(itemID string) int {
	return s.Inventory[itemID]
}

// AddItem adds n of an item to the inventory and returns the new quantity.
// Non-positive n is ignored.
func (s *State) AddItem(itemID string, n int) int {
	if n > 0 {
		s.Inventory[itemID] += n
	}
	return s.Inventory[itemID]
}

// RemoveItem takes up to n of an item out of the inventory, clamping at
// zero. It returns how many were actually removed.
func (s *State) RemoveItem(itemID string, n int) int {
	held := s.Inventory[itemID]
	if n <= 0 || held == 0 {
		return 0
	}
	if n >= held {
		delete(s.Inventory, itemID)
		return held
	}
	s.Inventory[itemID] = held - n
	return n
}

// InventoryIDs returns the held item ids in sorted order.
func (s *State) InventoryIDs() []string {
	return slices.Sorted(maps.Keys(s.Inventory))
}

// ActiveVariant returns the recorded variant override for a coordinate.
func (s *State) ActiveVariant(c types.Coord) (string, bool) {
	id, ok := s.Variants[c]
	return id, ok
}

// SetVariant records roomID as the active variant at c.
func (s *State) SetVariant(c types.Coord, roomID string) {
	s.Variants[c] = roomID
}

// TakeRoomItem removes the first item in the pile at c accepted by match.
// Piles belong to the coordinate, so they survive variant switches.
func (s *State) TakeRoomItem(c types.Coord, match func(types.RoomItem) bool) (types.RoomItem, bool) {
	pile := s.RoomItems[c]
	for i, it := range pile {
		if match(it) {
			s.RoomItems[c] = slices.Delete(slices.Clone(pile), i, i+1)
			return it, true
		}
	}
	return types.RoomItem{}, false
}

// DropRoomItem adds an item to the pile at c, merging with an existing
// plain stack of the same item.
func (s *State) DropRoomItem(c types.Coord, item types.RoomItem) {
	pile := s.RoomItems[c]
	for i, it := range pile {
		if it.ItemID == item.ItemID && it.Pickup == "" && it.Name == "" {
			pile[i].Quantity += item.Quantity
			return
		}
	}
	s.RoomItems[c] = append(pile, item)
}

// StockKey identifies one shop line.
func StockKey(npcID, itemID string) string {
	return npcID + "/" + itemID
}

// StockLeft returns the remaining stock of a tracked shop line.
func (s *State) StockLeft(npcID, itemID string) (int, bool) {
	n, ok := s.Stock[StockKey(npcID, itemID)]
	return n, ok
}

// TakeStock decrements a tracked shop line. Untracked lines are unlimited.
func (s *State) TakeStock(npcID, itemID string) {
	key := StockKey(npcID, itemID)
	if n, ok := s.Stock[key]; ok && n > 0 {
		s.Stock[key] = n - 1
	}
}

// Clone returns a deep copy of the state.
func (s *State) Clone() *State {
	c := *s
	c.Variants = maps.Clone(s.Variants)
	c.Flags = maps.Clone(s.Flags)
	c.Inventory = maps.Clone(s.Inventory)
	c.Stock = maps.Clone(s.Stock)
	c.RoomItems = make(map[types.Coord][]types.RoomItem, len(s.RoomItems))
	for at, items := range s.RoomItems {
		c.RoomItems[at] = slices.Clone(items)
	}
	return &c
}

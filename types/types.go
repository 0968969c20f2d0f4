// Package types defines the shared data structures for the Stone End engine.
// This package contains type definitions and small value helpers only.
package types

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
)

// Coord identifies a grid cell on one map level.
type Coord struct {
	X int
	Y int
	Z int
}

func (c Coord) String() string {
	return fmt.Sprintf("[%d, %d, %d]", c.X, c.Y, c.Z)
}

// Direction is a compass direction on a single z-level.
type Direction int

const (
	North Direction = iota
	East
	South
	West
)

// Directions lists every direction in exit-display order.
var Directions = []Direction{North, East, South, West}

func (d Direction) String() string {
	switch d {
	case North:
		return "north"
	case East:
		return "east"
	case South:
		return "south"
	case West:
		return "west"
	default:
		return "nowhere"
	}
}

// Short returns the one-letter form used on the exits line.
func (d Direction) Short() string {
	return d.String()[:1]
}

// ParseDirection accepts full names and one-letter abbreviations.
func ParseDirection(s string) (Direction, bool) {
	switch strings.ToLower(s) {
	case "north", "n":
		return North, true
	case "east", "e":
		return East, true
	case "south", "s":
		return South, true
	case "west", "w":
		return West, true
	}
	return 0, false
}

// VerbKind is the closed set of verbs an Action can answer to.
type VerbKind int

const (
	VerbNone VerbKind = iota
	VerbLook
	VerbTalk
	VerbHelp
	VerbAttack
	VerbMove
	VerbCustom
)

// Verb is a tagged verb. Alias is only meaningful for VerbCustom.
type Verb struct {
	Kind  VerbKind
	Alias string
}

var (
	Look   = Verb{Kind: VerbLook}
	Talk   = Verb{Kind: VerbTalk}
	Help   = Verb{Kind: VerbHelp}
	Attack = Verb{Kind: VerbAttack}
	Move   = Verb{Kind: VerbMove}

	// Take and Drop are the verbs content uses to intercept the built-in
	// take and drop commands.
	Take = Custom("take")
	Drop = Custom("drop")
)

// Custom returns a content-defined verb such as "pull" or "buy". The alias
// is case-folded the way the parser folds player input.
func Custom(alias string) Verb {
	return Verb{Kind: VerbCustom, Alias: cases.Fold().String(strings.TrimSpace(alias))}
}

// ParseVerb maps a verb name from level content to a Verb.
// Names outside the built-in vocabulary become Custom verbs.
func ParseVerb(name string) Verb {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "look":
		return Look
	case "talk":
		return Talk
	case "help":
		return Help
	case "attack":
		return Attack
	case "move", "go":
		return Move
	case "", "custom":
		return Verb{}
	default:
		return Custom(name)
	}
}

func (v Verb) String() string {
	switch v.Kind {
	case VerbLook:
		return "look"
	case VerbTalk:
		return "talk"
	case VerbHelp:
		return "help"
	case VerbAttack:
		return "attack"
	case VerbMove:
		return "move"
	case VerbCustom:
		return v.Alias
	default:
		return ""
	}
}

// IsZero reports whether the verb is unset.
func (v Verb) IsZero() bool {
	return v.Kind == VerbNone
}

// ModifierKind is the fixed modifier vocabulary.
type ModifierKind int

const (
	ChangeState ModifierKind = iota + 1
	ChangeRoom
	AddItem
	RemoveItem
)

func (k ModifierKind) String() string {
	switch k {
	case ChangeState:
		return "change_state"
	case ChangeRoom:
		return "change_room"
	case AddItem:
		return "add_item"
	case RemoveItem:
		return "remove_item"
	default:
		return "unknown"
	}
}

// Modifier is a single declared state mutation attached to an Action.
// ChangeState uses Flag/Value (an empty Value clears the flag), ChangeRoom
// uses Room, AddItem and RemoveItem use Item/Quantity.
type Modifier struct {
	Kind     ModifierKind
	Flag     string
	Value    string
	Room     string
	Item     string
	Quantity int
}

func (m Modifier) String() string {
	switch m.Kind {
	case ChangeState:
		if m.Value == "" {
			return fmt.Sprintf("change_state %s (clear)", m.Flag)
		}
		return fmt.Sprintf("change_state %s=%s", m.Flag, m.Value)
	case ChangeRoom:
		return "change_room " + m.Room
	case AddItem, RemoveItem:
		return fmt.Sprintf("%s %s x%d", m.Kind, m.Item, m.Quantity)
	default:
		return m.Kind.String()
	}
}

// ConditionKind enumerates the requirement predicates an Action may carry.
type ConditionKind int

const (
	FlagSet ConditionKind = iota + 1
	FlagNot
	FlagIs
	HasItem
	Not
)

// Condition is a predicate over game state that gates an Action's match.
type Condition struct {
	Kind     ConditionKind
	Flag     string
	Value    string
	Item     string
	Quantity int
	Inner    *Condition // for Not
}

// Outcome tags the result of an Action. The zero value is a normal turn.
type Outcome string

const (
	OutcomeNone  Outcome = ""
	OutcomeDeath Outcome = "death"
)

// Terminal reports whether the outcome ends the session.
func (o Outcome) Terminal() bool {
	return o == OutcomeDeath
}

// Action is a rule mapping a verb and target phrase to narration and
// modifiers.
type Action struct {
	Verb      Verb
	Targets   []string
	Text      string
	Modifiers []Modifier
	Requires  []Condition
	Outcome   Outcome
}

// Placeholder marks a room description that has not been written yet.
const Placeholder = "TODO"

// Room is one variant at a coordinate.
type Room struct {
	ID          string
	Coord       Coord
	Title       string
	Description string
	Regions     []string
	NPCs        []string
	Items       []RoomItem
	Actions     []Action
	State       map[string]string // flag defaults
}

// IsPlaceholder reports whether the room's content is not written yet.
func (r *Room) IsPlaceholder() bool {
	return strings.TrimSpace(r.Description) == Placeholder
}

// Region is a reusable bundle of actions shared by member rooms.
type Region struct {
	ID      string
	Actions []Action
}

// SaleItem is an item an NPC sells. A zero Stock means unlimited.
type SaleItem struct {
	ItemID string
	Cost   int
	Stock  int
}

// NPC is a non-player character placed in rooms by reference.
type NPC struct {
	ID          string
	Name        string
	Description string
	Talk        string
	Targets     []string
	Shop        []SaleItem
}

// ItemVariant classifies items.
type ItemVariant string

const (
	Consumable ItemVariant = "consumable"
	Weapon     ItemVariant = "weapon"
	Money      ItemVariant = "money"
)

// Item is an entry of the item database.
type Item struct {
	ID          string
	Name        string
	Description string
	Targets     []string
	Quantity    int // default quantity when granted without one
	MaxQuantity int // non-zero marks a stackable item
	Pickup      string
	Cost        int
	Sticky      bool
	Variant     ItemVariant
}

// RoomItem is an item instance lying in a room.
type RoomItem struct {
	ItemID   string
	Quantity int
	Name     string // display override
	Targets  []string
	Pickup   string
}

// ItemStack is an item id with a quantity.
type ItemStack struct {
	ItemID   string
	Quantity int
}

// Level is the declarative level description handed over by a loader.
type Level struct {
	Title     string
	Author    string
	Version   string
	Intro     string
	Help      string
	Maps      [][]string
	Entry     Coord
	Currency  string
	Inventory []ItemStack
	Rooms     []Room
	Regions   map[string]Region
	NPCs      map[string]NPC
	Items     map[string]Item
}

// Command is the shape of a parsed player line.
type Command int

const (
	CommandNone Command = iota // empty input
	CommandVerb                // verb + optional target, goes through the resolver
	CommandMove
	CommandInventory
	CommandTake
	CommandDrop
	CommandDebug
	CommandMessage // parser answered directly
)

// Intent is the parsed representation of a player command.
type Intent struct {
	Command   Command
	Verb      Verb
	Target    string
	Direction Direction
	Message   string
}

// Event is emitted when a modifier or built-in command changes state.
type Event struct {
	Type string
	Data map[string]any
}

// Result is the output of a single game step.
type Result struct {
	Output    []string
	Modifiers []Modifier
	Events    []Event
	Terminal  bool
}

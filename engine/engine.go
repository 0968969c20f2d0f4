// Package engine provides the Step() orchestrator that wires together
// parsing, resolution, rules, effects and the shop into a single turn.
package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nathoo/stoneend/engine/effects"
	"github.com/nathoo/stoneend/engine/grid"
	"github.com/nathoo/stoneend/engine/parser"
	"github.com/nathoo/stoneend/engine/resolve"
	"github.com/nathoo/stoneend/engine/rules"
	"github.com/nathoo/stoneend/engine/shop"
	"github.com/nathoo/stoneend/engine/state"
	"github.com/nathoo/stoneend/engine/world"
	"github.com/nathoo/stoneend/logger"
	"github.com/nathoo/stoneend/types"
)

// Default text layout, matching the classic terminal version.
const (
	DefaultWidth  = 90
	DefaultIndent = 4
)

// EndedText answers every command once the story is over.
const EndedText = "Your story has ended. Type /restart to play again or /quit to exit."

// Engine holds the world and the mutable session state.
type Engine struct {
	World *world.World
	State *state.State

	width  int
	indent int
	debug  bool
	base   *slog.Logger
	log    *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLayout sets the wrap width and paragraph indent for descriptions.
func WithLayout(width, indent int) Option {
	return func(e *Engine) {
		if width > 0 {
			e.width = width
		}
		if indent >= 0 {
			e.indent = indent
		}
	}
}

// WithDebug starts sessions with coordinate display on.
func WithDebug(on bool) Option {
	return func(e *Engine) { e.debug = on }
}

// WithLogger sets the logger used for turn tracing. Each session logs
// through it with its session id attached.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.base = l }
}

// New creates a new engine and starts a session in w.
func New(w *world.World, opts ...Option) *Engine {
	e := &Engine{
		World:  w,
		width:  DefaultWidth,
		indent: DefaultIndent,
		base:   slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.Restart()
	return e
}

// Restart discards the session and starts a fresh one from the world.
func (e *Engine) Restart() {
	e.State = e.World.NewState()
	e.State.Debug = e.debug
	e.log = logger.WithSession(e.base, e.State.ID.String())
	e.log.Info("session started", "entry", e.State.Position.String())
}

// Room returns the active room at the player's position.
func (e *Engine) Room() *types.Room {
	return e.World.ActiveRoom(e.State.Position, e.State)
}

// Intro returns the level intro followed by the first room description.
func (e *Engine) Intro() []string {
	var out []string
	if e.World.Intro != "" {
		out = append(out, e.wrap(e.World.Intro)...)
		out = append(out, "")
	}
	return append(out, e.Describe()...)
}

// Step processes one player command and returns the result.
func (e *Engine) Step(input string) types.Result {
	var result types.Result

	// 0. Story over: block everything until a restart.
	if e.State.Over {
		result.Output = append(result.Output, EndedText)
		result.Terminal = true
		return result
	}

	// 1. Parse input.
	intent := parser.Parse(input)

	// 2. Dispatch on the command shape.
	switch intent.Command {
	case types.CommandNone:
		result.Output = e.Describe()

	case types.CommandMessage:
		result.Output = append(result.Output, intent.Message)

	case types.CommandDebug:
		e.State.Debug = !e.State.Debug
		if e.State.Debug {
			result.Output = append(result.Output, "Debug mode activated.")
		} else {
			result.Output = append(result.Output, "Debug mode de-activated.")
		}

	case types.CommandInventory:
		result.Output = e.inventory()

	case types.CommandTake:
		e.take(intent.Target, &result)

	case types.CommandDrop:
		e.drop(intent.Target, &result)

	case types.CommandMove:
		e.move(intent.Direction, &result)

	case types.CommandVerb:
		e.verb(intent, &result)
	}

	// 3. Increment turn count.
	e.State.Turn++

	for _, ev := range result.Events {
		e.log.Debug("event", "turn", e.State.Turn, "type", ev.Type, "data", ev.Data)
	}
	return result
}

// verb runs a verb through the resolver, falling back to the verb's
// built-in behavior when no action matched.
func (e *Engine) verb(intent types.Intent, result *types.Result) {
	if intent.Verb.Kind == types.VerbLook && intent.Target == "" {
		result.Output = e.Describe()
		return
	}

	room := e.Room()
	m := rules.Resolve(e.World, e.State, room, intent.Verb, intent.Target)
	e.log.Debug("resolved",
		"verb", intent.Verb.String(), "target", intent.Target,
		"room", roomID(room), "matched", m.Understood())

	if m.Understood() {
		e.execute(m.Action, result)
		return
	}

	switch intent.Verb.Kind {
	case types.VerbLook:
		result.Output = append(result.Output, e.lookAt(room, intent.Target, m.Fallback)...)
	case types.VerbTalk:
		result.Output = append(result.Output, e.talkTo(room, intent.Target, m.Fallback))
	case types.VerbHelp:
		if intent.Target == "" {
			result.Output = append(result.Output, e.help()...)
			return
		}
		result.Output = append(result.Output, m.Fallback)
	case types.VerbCustom:
		if intent.Verb.Alias == "buy" {
			r := shop.Purchase(e.World, e.State, room, intent.Target)
			result.Output = append(result.Output, r.Text)
			result.Modifiers = append(result.Modifiers, r.Modifiers...)
			result.Events = append(result.Events, r.Events...)
			return
		}
		result.Output = append(result.Output, m.Fallback)
	default:
		result.Output = append(result.Output, m.Fallback)
	}
}

// execute applies a matched action through the modifier executor.
func (e *Engine) execute(a *types.Action, result *types.Result) {
	events, output, terminal := effects.Execute(e.State, e.World, a)
	result.Modifiers = append(result.Modifiers, a.Modifiers...)
	result.Events = append(result.Events, events...)
	result.Output = append(result.Output, output...)
	if terminal {
		result.Terminal = true
		e.log.Info("session ended", "outcome", string(a.Outcome), "turn", e.State.Turn)
	}
}

// move lets the room intercept movement with a Move action before
// stepping the grid.
func (e *Engine) move(dir types.Direction, result *types.Result) {
	if e.intercept(types.Move, dir.String(), result) {
		return
	}

	next, err := e.World.Grid.Move(e.State.Position, dir)
	if errors.Is(err, grid.ErrBlocked) {
		result.Output = append(result.Output, fmt.Sprintf("You cannot move %s.", dir))
		return
	}
	if e.World.ActiveRoom(next, e.State) == nil {
		// Rejected at world construction; treat like a wall.
		result.Output = append(result.Output, fmt.Sprintf("You cannot move %s.", dir))
		return
	}

	from := e.State.Position
	e.State.Position = next
	result.Events = append(result.Events, types.Event{
		Type: "player_moved",
		Data: map[string]any{"from": from.String(), "to": next.String(), "direction": dir.String()},
	})
	result.Output = append(result.Output, e.Describe()...)
}

// intercept gives the actions declared for verb in the active room and its
// regions the first chance at a built-in command.
func (e *Engine) intercept(verb types.Verb, target string, result *types.Result) bool {
	m := rules.Resolve(e.World, e.State, e.Room(), verb, target)
	if !m.Understood() {
		return false
	}
	e.execute(m.Action, result)
	return true
}

func (e *Engine) take(target string, result *types.Result) {
	if e.intercept(types.Take, target, result) {
		return
	}
	room := e.Room()
	item, err := resolve.RoomItem(e.World, e.State, room, target)
	if err != nil {
		result.Output = append(result.Output, fmt.Sprintf("You couldn't find a %s to take.", target))
		return
	}
	e.State.TakeRoomItem(room.Coord, func(it types.RoomItem) bool {
		return it.ItemID == item.ItemID && it.Name == item.Name && it.Pickup == item.Pickup
	})

	mods := []types.Modifier{{Kind: types.AddItem, Item: item.ItemID, Quantity: item.Quantity}}
	result.Modifiers = append(result.Modifiers, mods...)
	result.Events = append(result.Events, effects.Apply(e.State, e.World, mods)...)

	if item.Pickup != "" {
		result.Output = append(result.Output, item.Pickup)
		return
	}
	result.Output = append(result.Output, fmt.Sprintf("You place the %s in your inventory.", target))
}

func (e *Engine) drop(target string, result *types.Result) {
	if e.intercept(types.Drop, target, result) {
		return
	}
	id, err := resolve.InventoryItem(e.World, e.State, target)
	if err != nil {
		result.Output = append(result.Output, fmt.Sprintf("It does not look like you have a %s.", target))
		return
	}
	if it, _ := e.World.Item(id); it.Sticky {
		result.Output = append(result.Output, fmt.Sprintf("The %s appear(s) to be sticking to your hand.", target))
		return
	}

	room := e.Room()
	qty := e.State.Quantity(id)
	mods := []types.Modifier{{Kind: types.RemoveItem, Item: id, Quantity: qty}}
	result.Modifiers = append(result.Modifiers, mods...)
	result.Events = append(result.Events, effects.Apply(e.State, e.World, mods)...)
	if room != nil {
		e.State.DropRoomItem(room.Coord, types.RoomItem{ItemID: id, Quantity: qty})
	}
	result.Output = append(result.Output, fmt.Sprintf("You dropped the %s.", e.World.ItemName(id)))
}

// lookAt is the built-in look: an NPC with its shop listing, an item for
// sale, an item lying here, or an item the player carries.
func (e *Engine) lookAt(room *types.Room, target, fallback string) []string {
	found, err := resolve.Visible(e.World, e.State, room, target)
	if err != nil {
		var amb *resolve.AmbiguityError
		if errors.As(err, &amb) {
			return []string{fmt.Sprintf("Which %s do you mean? (%s)", amb.Name, strings.Join(amb.Candidates, ", "))}
		}
		return []string{fallback}
	}

	if found.Kind == resolve.KindNPC {
		out := e.wrap(found.NPC.Description)
		if listing := shop.Listing(e.World, e.State, found.NPC); len(listing) > 0 {
			out = append(out, "")
			out = append(out, listing...)
		}
		return out
	}
	def, _ := e.World.Item(found.ItemID)
	return e.wrap(def.Description)
}

func (e *Engine) talkTo(room *types.Room, target, fallback string) string {
	if target == "" {
		return fallback
	}
	npc, err := resolve.NPC(e.World, room, target)
	if err != nil {
		return fallback
	}
	if npc.Talk == "" {
		return fmt.Sprintf("The %s has nothing to say.", npc.Name)
	}
	return npc.Talk
}

func (e *Engine) help() []string {
	if e.World.Help != "" {
		return e.wrap(e.World.Help)
	}
	return []string{
		"Commands: look [thing], talk [to someone], help [someone], take <thing>,",
		"drop <thing>, buy <thing>, inventory, north/east/south/west, debug.",
	}
}

func roomID(room *types.Room) string {
	if room == nil {
		return ""
	}
	return room.ID
}

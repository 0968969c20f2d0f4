package engine

import (
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nathoo/stoneend/engine/world"
	"github.com/nathoo/stoneend/engine/worldtest"
	"github.com/nathoo/stoneend/types"
)

func newTestEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(worldtest.World(t), append([]Option{WithLogger(quiet)}, opts...)...)
}

func newLevelEngine(t *testing.T, level *types.Level) *Engine {
	t.Helper()
	w, err := world.New(level)
	require.NoError(t, err)
	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(w, WithLogger(quiet))
}

func marketRoom(t *testing.T, level *types.Level) *types.Room {
	t.Helper()
	for i := range level.Rooms {
		if level.Rooms[i].ID == "market" {
			return &level.Rooms[i]
		}
	}
	t.Fatal("fixture has no market room")
	return nil
}

// step runs one command and returns its output joined into one string.
func step(t *testing.T, e *Engine, input string) (string, types.Result) {
	t.Helper()
	r := e.Step(input)
	return strings.Join(r.Output, "\n"), r
}

func TestNew_StartsAtEntry(t *testing.T) {
	e := newTestEngine(t)
	assert.Equal(t, worldtest.Market, e.State.Position)
	assert.Equal(t, "market", e.Room().ID)
	assert.Equal(t, 1, e.State.Quantity("gold"))
	assert.Equal(t, 1, e.State.Quantity("sword"))
}

func TestScenario_GuardsWarning(t *testing.T) {
	e := newTestEngine(t)

	out, _ := step(t, e, "south")
	require.Contains(t, out, "City Gate")
	require.Equal(t, worldtest.Gate, e.State.Position)

	out, _ = step(t, e, "talk to the guards")
	assert.Equal(t, worldtest.GuardsAngryText, out)
	assert.True(t, e.State.FlagSet("death-if-move"))

	out, r := step(t, e, "look guards")
	assert.Equal(t, worldtest.GuardsFreeText, out)
	assert.False(t, e.State.FlagSet("death-if-move"), "look clears the flag")
	assert.Equal(t, "guards-guarding", e.Room().ID)
	assert.Equal(t, []types.Modifier{
		{Kind: types.ChangeState, Flag: "death-if-move"},
		{Kind: types.ChangeRoom, Room: "guards-guarding"},
	}, r.Modifiers)
	assert.False(t, r.Terminal)

	// The variant switch is visible to the very next resolution.
	out, _ = step(t, e, "look guards")
	assert.Equal(t, "The guards watch you, hands resting on their spears.", out)

	out, _ = step(t, e, "s")
	assert.Contains(t, out, "South Road")
	assert.Equal(t, worldtest.Road, e.State.Position)
}

func TestScenario_GuardsDeath(t *testing.T) {
	e := newTestEngine(t)
	step(t, e, "s")
	step(t, e, "talk guards")

	out, r := step(t, e, "s")
	assert.Equal(t, worldtest.GuardsDeathText, out)
	assert.True(t, r.Terminal)
	assert.True(t, e.State.Over)
	assert.True(t, e.State.FlagSet("dead"), "modifiers apply before the session ends")
	assert.Equal(t, worldtest.Gate, e.State.Position)

	out, r = step(t, e, "look")
	assert.Equal(t, EndedText, out)
	assert.True(t, r.Terminal)

	e.Restart()
	assert.False(t, e.State.Over)
	assert.Equal(t, worldtest.Market, e.State.Position)
	assert.Equal(t, "guards-blocking", e.World.ActiveRoom(worldtest.Gate, e.State).ID)
}

func TestScenario_GuardsBlockWithoutFlag(t *testing.T) {
	e := newTestEngine(t)
	step(t, e, "s")

	out, r := step(t, e, "go south")
	assert.Equal(t, worldtest.GuardsBlockText, out)
	assert.False(t, r.Terminal)
	assert.Equal(t, worldtest.Gate, e.State.Position)
}

func TestScenario_Apple(t *testing.T) {
	e := newTestEngine(t)

	out, r := step(t, e, "buy apple")
	assert.Equal(t, "You hand 1 Gold to the Apple Farmer and receive the Apple.", out)
	assert.Equal(t, 0, e.State.Quantity("gold"))
	assert.Equal(t, 1, e.State.Quantity("apple"))
	assert.Len(t, r.Modifiers, 2)

	out, r = step(t, e, "purchase an apple")
	assert.Equal(t, "The Apple costs 1 Gold. You only have 0.", out)
	assert.Equal(t, 0, e.State.Quantity("gold"))
	assert.Equal(t, 1, e.State.Quantity("apple"))
	assert.Empty(t, r.Modifiers)
}

func TestScenario_MarketGoldOnce(t *testing.T) {
	e := newTestEngine(t)

	out, _ := step(t, e, "look gold")
	assert.Equal(t, worldtest.MarketGoldText, out)
	assert.Equal(t, 4, e.State.Quantity("gold"))
	assert.Equal(t, "market-picked", e.Room().ID)

	// Second look describes the coins in hand and grants nothing.
	out, r := step(t, e, "look gold")
	assert.Equal(t, "    Stamped with the seal of Stone End.", out)
	assert.Equal(t, 4, e.State.Quantity("gold"))
	assert.Empty(t, r.Modifiers)
}

func TestTakeAndDrop(t *testing.T) {
	e := newTestEngine(t)
	for range 3 {
		step(t, e, "n")
	}
	require.Equal(t, worldtest.Alley, e.State.Position)

	out, _ := step(t, e, "look")
	assert.Contains(t, out, "Rope")

	out, r := step(t, e, "pick up the rope")
	assert.Equal(t, worldtest.RopePickupText, out)
	assert.Equal(t, 1, e.State.Quantity("rope"))
	require.Len(t, r.Events, 1)
	assert.Equal(t, "item_added", r.Events[0].Type)

	out, _ = step(t, e, "take rope")
	assert.Equal(t, "You couldn't find a rope to take.", out)
	assert.Equal(t, 1, e.State.Quantity("rope"))

	out, _ = step(t, e, "drop rope")
	assert.Equal(t, "You dropped the Rope.", out)
	assert.Equal(t, 0, e.State.Quantity("rope"))

	out, _ = step(t, e, "grab rope")
	assert.Equal(t, "You place the rope in your inventory.", out)

	out, _ = step(t, e, "drop sword")
	assert.Equal(t, "The sword appear(s) to be sticking to your hand.", out)
	assert.Equal(t, 1, e.State.Quantity("sword"))

	out, _ = step(t, e, "drop lantern")
	assert.Equal(t, "It does not look like you have a lantern.", out)
}

func TestDrop_PileOutlivesVariantSwitch(t *testing.T) {
	e := newTestEngine(t)

	out, _ := step(t, e, "drop gold")
	assert.Equal(t, "You dropped the Gold.", out)
	assert.Equal(t, 0, e.State.Quantity("gold"))

	step(t, e, "look cobblestones")
	require.Equal(t, "market-picked", e.Room().ID)
	assert.Equal(t, 3, e.State.Quantity("gold"))

	out, _ = step(t, e, "take gold")
	assert.Equal(t, "You place the gold in your inventory.", out)
	assert.Equal(t, 4, e.State.Quantity("gold"))
}

func TestDrop_CarriedAcrossRooms(t *testing.T) {
	e := newTestEngine(t)
	for range 3 {
		step(t, e, "n")
	}
	step(t, e, "take rope")
	for range 3 {
		step(t, e, "s")
	}
	require.Equal(t, worldtest.Market, e.State.Position)

	step(t, e, "drop rope")
	step(t, e, "look cobblestones")
	require.Equal(t, "market-picked", e.Room().ID)

	out, _ := step(t, e, "take rope")
	assert.Equal(t, "You place the rope in your inventory.", out)
	assert.Equal(t, 1, e.State.Quantity("rope"))
}

func TestTakeAndDrop_ContentActionsComeFirst(t *testing.T) {
	level := worldtest.Level()
	market := marketRoom(t, level)
	market.Actions = append(market.Actions,
		types.Action{
			Verb: types.Take, Targets: []string{"gold", "coins"},
			Text:      "You pry a few coins from between the cobblestones.",
			Modifiers: []types.Modifier{{Kind: types.AddItem, Item: "gold", Quantity: 2}},
		},
		types.Action{
			Verb: types.Drop, Targets: []string{"apple"},
			Text: "The farmer snatches the apple back before it hits the ground.",
		},
	)
	e := newLevelEngine(t, level)

	out, r := step(t, e, "take gold")
	assert.Equal(t, "You pry a few coins from between the cobblestones.", out)
	assert.Equal(t, 3, e.State.Quantity("gold"))
	assert.Len(t, r.Modifiers, 1)

	step(t, e, "buy apple")
	require.Equal(t, 1, e.State.Quantity("apple"))
	out, _ = step(t, e, "drop apple")
	assert.Equal(t, "The farmer snatches the apple back before it hits the ground.", out)
	assert.Equal(t, 1, e.State.Quantity("apple"))

	// Targets the actions do not name still reach the built-in.
	out, _ = step(t, e, "drop gold")
	assert.Equal(t, "You dropped the Gold.", out)
}

func TestTake_ItemPickupFallback(t *testing.T) {
	level := worldtest.Level()
	rope := level.Items["rope"]
	rope.Pickup = "The rope is heavier than it looks."
	level.Items["rope"] = rope
	for i := range level.Rooms {
		for j := range level.Rooms[i].Items {
			level.Rooms[i].Items[j].Pickup = ""
		}
	}
	e := newLevelEngine(t, level)
	for range 3 {
		step(t, e, "n")
	}

	out, _ := step(t, e, "take rope")
	assert.Equal(t, "The rope is heavier than it looks.", out)
	assert.Equal(t, 1, e.State.Quantity("rope"))
}

func TestBuy_ItemCostFallback(t *testing.T) {
	level := worldtest.Level()
	apple := level.Items["apple"]
	apple.Cost = 1
	level.Items["apple"] = apple
	farmer := level.NPCs["apple-farmer"]
	farmer.Shop[0].Cost = 0
	level.NPCs["apple-farmer"] = farmer
	e := newLevelEngine(t, level)

	out, _ := step(t, e, "buy apple")
	assert.Equal(t, "You hand 1 Gold to the Apple Farmer and receive the Apple.", out)
	assert.Equal(t, 0, e.State.Quantity("gold"))
}

func TestMovement(t *testing.T) {
	e := newTestEngine(t)

	out, r := step(t, e, "w")
	assert.Equal(t, "You cannot move west.", out)
	assert.Equal(t, worldtest.Market, e.State.Position)
	assert.Empty(t, r.Events)

	out, r = step(t, e, "go east")
	assert.Contains(t, out, "Stalls")
	assert.Equal(t, worldtest.Stalls, e.State.Position)
	require.Len(t, r.Events, 1)
	assert.Equal(t, "player_moved", r.Events[0].Type)
}

func TestDescribe(t *testing.T) {
	e := newTestEngine(t)

	lines := e.Describe()
	want := []string{
		"Stone End Market",
		"",
		"    Stalls crowd the square.",
		"",
		"    An apple farmer hawks his wares.",
		"",
		"Exits: n e s _",
	}
	assert.Equal(t, want, lines)

	out, _ := step(t, e, "debug")
	assert.Equal(t, "Debug mode activated.", out)
	assert.Contains(t, strings.Join(e.Describe(), "\n"), "Coord: [15, 13, 0]")

	out, _ = step(t, e, "debug")
	assert.Equal(t, "Debug mode de-activated.", out)

	// Empty input and bare look both describe the room.
	out, _ = step(t, e, "")
	assert.Equal(t, strings.Join(want, "\n"), out)
	out, _ = step(t, e, "look")
	assert.Equal(t, strings.Join(want, "\n"), out)
}

func TestDescribe_Placeholder(t *testing.T) {
	e := newTestEngine(t)
	e.State.Position = worldtest.Alley
	e.State.SetVariant(worldtest.Alley, "dark-alleyway-rope")

	assert.Contains(t, e.Describe(), "    This place has not been written yet.")
}

func TestWrap(t *testing.T) {
	e := newTestEngine(t, WithLayout(20, 2))
	got := e.wrap("The quick brown fox\njumps over the lazy dog.\n\nSecond.")
	want := []string{
		"  The quick brown",
		"  fox jumps over the",
		"  lazy dog.",
		"",
		"  Second.",
	}
	assert.Equal(t, want, got)
}

func TestInventory(t *testing.T) {
	e := newTestEngine(t)

	out, _ := step(t, e, "inventory")
	want := strings.Join([]string{
		"╔═════════════════╗",
		"║ Your inventory: ║",
		"╚═════════════════╝",
		"  ‣ Gold (1)",
		"  ‣ Sword",
	}, "\n")
	assert.Equal(t, want, out)

	e.State.RemoveItem("gold", 1)
	e.State.RemoveItem("sword", 1)
	out, _ = step(t, e, "i")
	assert.True(t, strings.HasSuffix(out, "    (empty)"), out)
}

func TestLookFallbacks(t *testing.T) {
	e := newTestEngine(t)

	tests := []struct {
		input string
		want  string
	}{
		{"look farmer", "    A weathered farmer stands behind a cart of apples.\n\n  ‣ Apple (1 gp)\n  ‣ Pear (2 gp)"},
		{"look apple", "    A crisp red apple."},
		{"look sword", "    Your trusty sword."},
		{"look dragon", "You don't see a dragon."},
		{"look wall", worldtest.MarketWallText},
		{"look stalls", worldtest.StallsText},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			out, _ := step(t, e, tt.input)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestTalkAndHelp(t *testing.T) {
	e := newTestEngine(t)

	tests := []struct {
		input string
		want  string
	}{
		{"talk to farmer", worldtest.FarmerTalkText},
		{"talk", "You talk out loud for a bit and feel much better, thank you."},
		{"talk to the moon", `You can't talk to "moon".`},
		{"help beggar", "You can't help beggar."},
		{"help", "    Try looking at things."},
		{"dance", `You don't know how to "dance". Type "help" for help.`},
		{"go", "Where do you want to go?"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			out, _ := step(t, e, tt.input)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestStep_NotUnderstoodLeavesState(t *testing.T) {
	e := newTestEngine(t)
	before := e.State.Clone()

	_, r := step(t, e, "pull the lever")
	assert.Empty(t, r.Modifiers)
	assert.Empty(t, r.Events)

	before.Turn = e.State.Turn
	assert.Equal(t, before, e.State)
}

func TestStep_CountsTurns(t *testing.T) {
	e := newTestEngine(t)
	step(t, e, "look")
	step(t, e, "n")
	assert.Equal(t, 2, e.State.Turn)
}

func TestIntro(t *testing.T) {
	e := newTestEngine(t)
	lines := e.Intro()
	require.NotEmpty(t, lines)
	assert.Equal(t, "    You arrive at the market.", lines[0])
	assert.Equal(t, "Stone End Market", lines[2])
}

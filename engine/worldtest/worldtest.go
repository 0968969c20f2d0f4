// Package worldtest provides a small Stone End market level for tests.
package worldtest

import (
	"testing"

	"github.com/nathoo/stoneend/engine/world"
	"github.com/nathoo/stoneend/types"
)

// Coordinates of the fixture rooms.
var (
	Alley  = types.Coord{X: 15, Y: 10, Z: 0}
	Street = types.Coord{X: 15, Y: 12, Z: 0}
	Market = types.Coord{X: 15, Y: 13, Z: 0}
	Gate   = types.Coord{X: 15, Y: 14, Z: 0}
	Road   = types.Coord{X: 15, Y: 15, Z: 0}
	Stalls = types.Coord{X: 16, Y: 13, Z: 0}
)

// Narration used by the fixture actions.
const (
	GuardsFreeText   = "The guards look you over and step aside. 'You're free to go,' one says, 'but one wrong move and we'll be back for you.'"
	GuardsAngryText  = "'Move along,' the taller guard growls. 'One more step and it will be your last.'"
	GuardsDeathText  = "You take a step and the guards run you through. Your adventure ends here."
	GuardsBlockText  = "The guards cross their spears in front of you."
	MarketGoldText   = "Something glints between the cobblestones. You pry loose 3 gold coins."
	MarketWallText   = "The market wall is plastered with faded notices about apple prices."
	RegionWallText   = "A plain wall of grey stone."
	StallsText       = "Rows of stalls sell everything from turnips to tin cups."
	RopePickupText   = "You coil the rope over your shoulder."
	FarmerTalkText   = "'Apples! Crisp apples, one gold apiece!'"
)

// Maps returns the fixture map: a single z-level with the floor cells used
// by the fixture rooms.
func Maps() [][]string {
	floors := []types.Coord{Alley, {X: 15, Y: 11}, Street, Market, Gate, Road, Stalls}
	rows := make([]string, 16)
	for y := range rows {
		row := []byte("#################")
		for _, c := range floors {
			if c.Y == y {
				row[c.X] = '.'
			}
		}
		rows[y] = string(row)
	}
	return [][]string{rows}
}

// Level returns a fresh copy of the fixture level.
func Level() *types.Level {
	return &types.Level{
		Title:    "Stone End Test Market",
		Intro:    "You arrive at the market.",
		Help:     "Try looking at things.",
		Maps:     Maps(),
		Entry:    Market,
		Currency: "gold",
		Inventory: []types.ItemStack{
			{ItemID: "sword", Quantity: 1},
			{ItemID: "gold", Quantity: 1},
		},
		Items: map[string]types.Item{
			"gold": {
				Name: "Gold", Targets: []string{"gold", "coins", "coin"},
				Description: "Stamped with the seal of Stone End.",
				MaxQuantity: 999, Variant: types.Money,
			},
			"apple": {
				Name: "Apple", Targets: []string{"apple"},
				Description: "A crisp red apple.", Variant: types.Consumable,
			},
			"pear": {
				Name: "Pear", Targets: []string{"pear"},
				Description: "A slightly bruised pear.", Variant: types.Consumable,
			},
			"sword": {
				Name: "Sword", Targets: []string{"sword", "blade"},
				Description: "Your trusty sword.", Sticky: true, Variant: types.Weapon,
			},
			"rope": {
				Name: "Rope", Targets: []string{"rope"},
				Description: "Thirty feet of hemp rope.",
			},
		},
		NPCs: map[string]types.NPC{
			"apple-farmer": {
				Name:        "Apple Farmer",
				Description: "A weathered farmer stands behind a cart of apples.",
				Talk:        FarmerTalkText,
				Targets:     []string{"farmer", "apple farmer"},
				Shop: []types.SaleItem{
					{ItemID: "apple", Cost: 1},
					{ItemID: "pear", Cost: 2, Stock: 1},
				},
			},
		},
		Regions: map[string]types.Region{
			"market": {
				Actions: []types.Action{
					{Verb: types.Look, Targets: []string{"wall", "stone wall"}, Text: RegionWallText},
					{Verb: types.Look, Targets: []string{"stalls", "market stalls"}, Text: StallsText},
				},
			},
		},
		Rooms: []types.Room{
			{
				Coord: Alley, Title: "Dark Alleyway",
				Description: "A narrow alley, dark even at noon.",
				Items:       []types.RoomItem{{ItemID: "rope", Pickup: RopePickupText}},
			},
			{
				ID: "dark-alleyway-rope", Coord: Alley, Title: "Dark Alleyway",
				Description: types.Placeholder,
			},
			{
				Coord: types.Coord{X: 15, Y: 11}, Title: "Market Street",
				Description: "The street widens toward the market.",
				Regions:     []string{"market"},
			},
			{
				Coord: Street, Title: "Market Street",
				Description: "Carts rattle past.",
				Regions:     []string{"market"},
			},
			{
				ID: "market", Coord: Market, Title: "Stone End Market",
				Description: "Stalls crowd the square.\n\nAn apple farmer hawks his wares.",
				Regions:     []string{"market"},
				NPCs:        []string{"apple-farmer"},
				Actions: []types.Action{
					{Verb: types.Look, Targets: []string{"wall"}, Text: MarketWallText},
					{
						Verb: types.Look, Targets: []string{"gold", "cobblestones"}, Text: MarketGoldText,
						Modifiers: []types.Modifier{
							{Kind: types.AddItem, Item: "gold", Quantity: 3},
							{Kind: types.ChangeRoom, Room: "market-picked"},
						},
					},
				},
			},
			{
				ID: "market-picked", Coord: Market, Title: "Stone End Market",
				Description: "Stalls crowd the square.",
				Regions:     []string{"market"},
				NPCs:        []string{"apple-farmer"},
				Actions: []types.Action{
					{Verb: types.Look, Targets: []string{"wall"}, Text: MarketWallText},
				},
			},
			{
				Coord: Stalls, Title: "Stalls",
				Description: "Awnings flap overhead.",
				Regions:     []string{"market"},
			},
			{
				ID: "guards-blocking", Coord: Gate, Title: "City Gate",
				Description: "Two guards block the gate south.",
				Actions: []types.Action{
					{
						Verb: types.Look, Targets: []string{"guards", "guard"}, Text: GuardsFreeText,
						Modifiers: []types.Modifier{
							{Kind: types.ChangeState, Flag: "death-if-move"},
							{Kind: types.ChangeRoom, Room: "guards-guarding"},
						},
					},
					{
						Verb: types.Talk, Targets: []string{"guards", "guard"}, Text: GuardsAngryText,
						Modifiers: []types.Modifier{
							{Kind: types.ChangeState, Flag: "death-if-move", Value: "true"},
						},
					},
					{
						Verb: types.Move, Targets: []string{"south", "north"}, Text: GuardsDeathText,
						Requires: []types.Condition{{Kind: types.FlagSet, Flag: "death-if-move"}},
						Outcome:  types.OutcomeDeath,
						Modifiers: []types.Modifier{
							{Kind: types.ChangeState, Flag: "dead", Value: "true"},
						},
					},
					{Verb: types.Move, Targets: []string{"south"}, Text: GuardsBlockText},
				},
			},
			{
				ID: "guards-guarding", Coord: Gate, Title: "City Gate",
				Description: "The guards lean on their spears and watch you.",
				Actions: []types.Action{
					{Verb: types.Look, Targets: []string{"guards"}, Text: "The guards watch you, hands resting on their spears."},
				},
			},
			{
				Coord: Road, Title: "South Road",
				Description: "The road leads away from Stone End.",
			},
		},
	}
}

// World builds the fixture world, failing the test on validation errors.
func World(t testing.TB) *world.World {
	t.Helper()
	w, err := world.New(Level())
	if err != nil {
		t.Fatalf("building fixture world: %v", err)
	}
	return w
}

package loader

import (
	"reflect"
	"strings"
	"testing"

	"github.com/nathoo/stoneend/types"
)

func TestParseYAML_Market(t *testing.T) {
	level, err := LoadYAML("testdata/market.yml")
	if err != nil {
		t.Fatalf("LoadYAML failed: %v", err)
	}

	if level.Title != "Market Test" || level.Intro != "Welcome to the market." {
		t.Errorf("Title/Intro = %q/%q", level.Title, level.Intro)
	}
	if level.Entry != (types.Coord{X: 1, Y: 1}) {
		t.Errorf("Entry = %v", level.Entry)
	}

	// Inventory keys are sorted.
	wantInv := []types.ItemStack{{ItemID: "gold", Quantity: 1}, {ItemID: "sword", Quantity: 1}}
	if !reflect.DeepEqual(level.Inventory, wantInv) {
		t.Errorf("Inventory = %+v, want %+v", level.Inventory, wantInv)
	}

	if got := level.Items["gold"].Variant; got != types.Money {
		t.Errorf("gold variant = %q, want money", got)
	}
	if got := level.Regions["market"].Actions[0].Text; got != "The market wall is old." {
		t.Errorf("region text = %q, value should fill in for text", got)
	}

	alley := level.Rooms[2]
	if alley.ID != "" || alley.Coord != (types.Coord{X: 2, Y: 1}) {
		t.Errorf("alley = %q at %v", alley.ID, alley.Coord)
	}

	gate := level.Rooms[3]
	wantMods := []types.Modifier{
		{Kind: types.ChangeState, Flag: "death-if-move"},
		{Kind: types.ChangeRoom, Room: "guards-guarding"},
	}
	if !reflect.DeepEqual(gate.Actions[0].Modifiers, wantMods) {
		t.Errorf("look guards modifiers = %+v, want %+v", gate.Actions[0].Modifiers, wantMods)
	}
	if gate.Actions[1].Verb != types.Move || gate.Actions[1].Outcome != types.OutcomeDeath {
		t.Errorf("move action = %+v", gate.Actions[1])
	}

	salute := gate.Actions[2]
	if salute.Verb != types.Custom("salute") {
		t.Errorf("Verb = %+v", salute.Verb)
	}
	if salute.Modifiers[0].Value != "true" {
		t.Errorf("change_state value = %q, want true", salute.Modifiers[0].Value)
	}
	if salute.Requires[1].Kind != types.Not || salute.Requires[1].Inner.Item != "apple" {
		t.Errorf("not condition = %+v", salute.Requires[1])
	}
}

func TestParseYAML_Coords(t *testing.T) {
	tests := []struct {
		coord string
		want  types.Coord
	}{
		{"{x: 1, y: 2, z: 3}", types.Coord{X: 1, Y: 2, Z: 3}},
		{"{x: 4, y: 5}", types.Coord{X: 4, Y: 5}},
		{"[6, 7, 8]", types.Coord{X: 6, Y: 7, Z: 8}},
		{"[9, 10]", types.Coord{X: 9, Y: 10}},
	}
	for _, tt := range tests {
		t.Run(tt.coord, func(t *testing.T) {
			level, err := ParseYAML([]byte("maps: [['.']]\nentry: " + tt.coord + "\n"))
			if err != nil {
				t.Fatal(err)
			}
			if level.Entry != tt.want {
				t.Errorf("Entry = %v, want %v", level.Entry, tt.want)
			}
		})
	}
}

func TestParseYAML_FlagValues(t *testing.T) {
	doc := `
maps: [['.']]
entry: [0, 0]
rooms:
  - coord: [0, 0]
    state:
      armed: true
      count: 3
      mood: calm
      quoted: "false"
      unset: ~
`
	level, err := ParseYAML([]byte(doc))
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]string{"armed": "true", "count": "3", "mood": "calm", "quoted": "false", "unset": ""}
	if got := level.Rooms[0].State; !reflect.DeepEqual(got, want) {
		t.Errorf("State = %v, want %v", got, want)
	}
}

func TestParseYAML_ModifiersAndConditions(t *testing.T) {
	doc := `
maps: [['.']]
entry: [0, 0]
regions:
  town:
    actions:
      - verb: pull
        targets: [lever]
        modifiers:
          - change_state: {flag: lever, value: down}
          - clear_state: alarm
          - change_room: town-open
          - add_item: {item: key, quantity: 2}
          - remove_item: {item: gold, quantity: 1}
        requires:
          - flag_set: powered
          - flag_not: jammed
          - flag_is: {flag: mode, value: manual}
          - has_item: {item: glove}
          - not: {flag_set: broken}
`
	level, err := ParseYAML([]byte(doc))
	if err != nil {
		t.Fatal(err)
	}
	a := level.Regions["town"].Actions[0]

	wantMods := []types.Modifier{
		{Kind: types.ChangeState, Flag: "lever", Value: "down"},
		{Kind: types.ChangeState, Flag: "alarm"},
		{Kind: types.ChangeRoom, Room: "town-open"},
		{Kind: types.AddItem, Item: "key", Quantity: 2},
		{Kind: types.RemoveItem, Item: "gold", Quantity: 1},
	}
	if !reflect.DeepEqual(a.Modifiers, wantMods) {
		t.Errorf("Modifiers = %+v, want %+v", a.Modifiers, wantMods)
	}

	inner := types.Condition{Kind: types.FlagSet, Flag: "broken"}
	wantConds := []types.Condition{
		{Kind: types.FlagSet, Flag: "powered"},
		{Kind: types.FlagNot, Flag: "jammed"},
		{Kind: types.FlagIs, Flag: "mode", Value: "manual"},
		{Kind: types.HasItem, Item: "glove"},
		{Kind: types.Not, Inner: &inner},
	}
	if !reflect.DeepEqual(a.Requires, wantConds) {
		t.Errorf("Requires = %+v, want %+v", a.Requires, wantConds)
	}
}

func TestParseYAML_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"no maps", "entry: [0, 0]\n", "missing maps"},
		{"short coord", "maps: [['.']]\nentry: [1]\n", "coordinate must be"},
		{"unknown field", "maps: [['.']]\nexits: {}\n", "field exits not found"},
		{"item without id", "maps: [['.']]\nitems:\n  - name: Ghost\n", "has no id"},
		{"duplicate item", "maps: [['.']]\nitems:\n  - id: a\n  - id: a\n", "defined twice"},
		{"bad variant", "maps: [['.']]\nitems:\n  - id: a\n    variant: magic\n", "unknown variant"},
		{"no verb", "maps: [['.']]\nrooms:\n  - coord: [0, 0]\n    actions:\n      - targets: [x]\n", "missing verb"},
		{"bad outcome", "maps: [['.']]\nrooms:\n  - coord: [0, 0]\n    actions:\n      - verb: look\n        outcome: victory\n", "unknown outcome"},
		{"empty modifier", "maps: [['.']]\nregions:\n  r:\n    actions:\n      - verb: look\n        modifiers: [{}]\n", "empty modifier"},
		{"empty condition", "maps: [['.']]\nregions:\n  r:\n    actions:\n      - verb: look\n        requires: [{}]\n", "empty condition"},
		{"map flag value", "maps: [['.']]\nrooms:\n  - coord: [0, 0]\n    state:\n      f: {a: b}\n", "must be a scalar"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseYAML([]byte(tt.doc))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want containing %q", err, tt.want)
			}
		})
	}
}

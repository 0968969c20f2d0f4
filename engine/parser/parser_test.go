package parser

import (
	"testing"

	"github.com/nathoo/stoneend/types"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  types.Intent
	}{
		// Empty / whitespace
		{
			name:  "empty string",
			input: "",
			want:  types.Intent{Command: types.CommandNone},
		},
		{
			name:  "whitespace only",
			input: "   \t ",
			want:  types.Intent{Command: types.CommandNone},
		},

		// Resolver verbs
		{
			name:  "bare look",
			input: "look",
			want:  types.Intent{Command: types.CommandVerb, Verb: types.Look},
		},
		{
			name:  "look with target",
			input: "look wall",
			want:  types.Intent{Command: types.CommandVerb, Verb: types.Look, Target: "wall"},
		},
		{
			name:  "look at the guards",
			input: "Look at the Guards",
			want:  types.Intent{Command: types.CommandVerb, Verb: types.Look, Target: "guards"},
		},
		{
			name:  "l alias",
			input: "l stalls",
			want:  types.Intent{Command: types.CommandVerb, Verb: types.Look, Target: "stalls"},
		},
		{
			name:  "talk to farmer",
			input: "talk to apple farmer",
			want:  types.Intent{Command: types.CommandVerb, Verb: types.Talk, Target: "apple farmer"},
		},
		{
			name:  "help target",
			input: "help  beggar",
			want:  types.Intent{Command: types.CommandVerb, Verb: types.Help, Target: "beggar"},
		},
		{
			name:  "attack alias",
			input: "hit guard",
			want:  types.Intent{Command: types.CommandVerb, Verb: types.Attack, Target: "guard"},
		},
		{
			name:  "buy is custom",
			input: "buy an apple",
			want:  types.Intent{Command: types.CommandVerb, Verb: types.Custom("buy"), Target: "apple"},
		},
		{
			name:  "purchase maps to buy",
			input: "purchase apple",
			want:  types.Intent{Command: types.CommandVerb, Verb: types.Custom("buy"), Target: "apple"},
		},
		{
			name:  "unknown word becomes custom verb",
			input: "climb rope",
			want:  types.Intent{Command: types.CommandVerb, Verb: types.Custom("climb"), Target: "rope"},
		},
		{
			name:  "dangling filler",
			input: "look at",
			want:  types.Intent{Command: types.CommandMessage, Message: "look at... what?"},
		},

		// Movement
		{
			name:  "bare n",
			input: "n",
			want:  types.Intent{Command: types.CommandMove, Verb: types.Move, Direction: types.North},
		},
		{
			name:  "bare west",
			input: "WEST",
			want:  types.Intent{Command: types.CommandMove, Verb: types.Move, Direction: types.West},
		},
		{
			name:  "go south",
			input: "go south",
			want:  types.Intent{Command: types.CommandMove, Verb: types.Move, Direction: types.South},
		},
		{
			name:  "go nowhere",
			input: "go",
			want:  types.Intent{Command: types.CommandMessage, Message: "Where do you want to go?"},
		},
		{
			name:  "go somewhere odd",
			input: "go sideways",
			want:  types.Intent{Command: types.CommandMessage, Message: `You don't know how to go "sideways".`},
		},

		// Built-ins
		{
			name:  "inventory",
			input: "i",
			want:  types.Intent{Command: types.CommandInventory},
		},
		{
			name:  "pick up",
			input: "pick up the gold",
			want:  types.Intent{Command: types.CommandTake, Verb: types.Take, Target: "gold"},
		},
		{
			name:  "grab",
			input: "grab apple",
			want:  types.Intent{Command: types.CommandTake, Verb: types.Take, Target: "apple"},
		},
		{
			name:  "bare pick",
			input: "pick",
			want:  types.Intent{Command: types.CommandMessage, Message: "You pick your nose. Gross."},
		},
		{
			name:  "bare take",
			input: "take",
			want:  types.Intent{Command: types.CommandMessage, Message: "This relationship is on the rocks, all you do is take take take."},
		},
		{
			name:  "drop",
			input: "drop sword",
			want:  types.Intent{Command: types.CommandDrop, Verb: types.Drop, Target: "sword"},
		},
		{
			name:  "bare drop",
			input: "drop",
			want:  types.Intent{Command: types.CommandMessage, Message: "You stop, drop and roll."},
		},
		{
			name:  "debug",
			input: "debug",
			want:  types.Intent{Command: types.CommandDebug},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.input)
			if got != tt.want {
				t.Errorf("Parse(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"  Wall ", "wall"},
		{"Stone   WALL", "stone wall"},
		{"STRASSE", "strasse"},
		{"Straße", "strasse"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestShadowed(t *testing.T) {
	tests := []struct {
		alias string
		want  bool
	}{
		{"take", false},
		{"drop", false},
		{"buy", false},
		{"salute", false},
		{"grab", true},
		{"discard", true},
		{"inventory", true},
		{"go", true},
		{"north", true},
		{"debug", true},
		{"examine", true},
		{"purchase", true},
		{"Hit", true},
	}
	for _, tt := range tests {
		if _, got := Shadowed(tt.alias); got != tt.want {
			t.Errorf("Shadowed(%q) = %v, want %v", tt.alias, got, tt.want)
		}
	}
}

func TestParse_CustomVerbMatchesContentAlias(t *testing.T) {
	// Content declares "Grüßen"; the player types "GRÜSSEN".
	got := Parse("GRÜSSEN guards")
	if got.Verb != types.Custom("Grüßen") {
		t.Errorf("Verb = %+v, want %+v", got.Verb, types.Custom("Grüßen"))
	}
}

package rules

import (
	"testing"

	"github.com/nathoo/stoneend/engine/state"
	"github.com/nathoo/stoneend/types"
)

func testState() *state.State {
	return state.New(state.Seed{
		Inventory: []types.ItemStack{{ItemID: "gold", Quantity: 3}},
		Flags:     map[string]string{"door-open": "true", "mood": "grumpy", "lamp": "false"},
	})
}

func TestEvalCondition(t *testing.T) {
	s := testState()
	flagSet := types.Condition{Kind: types.FlagSet, Flag: "door-open"}

	tests := []struct {
		name string
		cond types.Condition
		want bool
	}{
		{"flag set", flagSet, true},
		{"flag missing", types.Condition{Kind: types.FlagSet, Flag: "nope"}, false},
		{"flag false is unset", types.Condition{Kind: types.FlagSet, Flag: "lamp"}, false},
		{"flag not on missing", types.Condition{Kind: types.FlagNot, Flag: "nope"}, true},
		{"flag not on set", types.Condition{Kind: types.FlagNot, Flag: "door-open"}, false},
		{"flag is match", types.Condition{Kind: types.FlagIs, Flag: "mood", Value: "grumpy"}, true},
		{"flag is mismatch", types.Condition{Kind: types.FlagIs, Flag: "mood", Value: "happy"}, false},
		{"flag is empty on missing", types.Condition{Kind: types.FlagIs, Flag: "nope"}, true},
		{"has item default quantity", types.Condition{Kind: types.HasItem, Item: "gold"}, true},
		{"has enough", types.Condition{Kind: types.HasItem, Item: "gold", Quantity: 3}, true},
		{"has too few", types.Condition{Kind: types.HasItem, Item: "gold", Quantity: 4}, false},
		{"has none", types.Condition{Kind: types.HasItem, Item: "apple"}, false},
		{"not", types.Condition{Kind: types.Not, Inner: &flagSet}, false},
		{"not without inner", types.Condition{Kind: types.Not}, true},
		{"unknown kind", types.Condition{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EvalCondition(tt.cond, s); got != tt.want {
				t.Errorf("EvalCondition(%+v) = %v, want %v", tt.cond, got, tt.want)
			}
		})
	}
}

func TestEvalAllConditions(t *testing.T) {
	s := testState()

	if !EvalAllConditions(nil, s) {
		t.Error("empty condition list should pass")
	}

	both := []types.Condition{
		{Kind: types.FlagSet, Flag: "door-open"},
		{Kind: types.HasItem, Item: "gold", Quantity: 2},
	}
	if !EvalAllConditions(both, s) {
		t.Error("all passing conditions should pass")
	}

	oneFails := append(both, types.Condition{Kind: types.HasItem, Item: "apple"})
	if EvalAllConditions(oneFails, s) {
		t.Error("one failing condition should fail the list")
	}
}

package rules

import (
	"github.com/nathoo/stoneend/engine/state"
	"github.com/nathoo/stoneend/types"
)

// EvalCondition evaluates a single requirement against the current state.
func EvalCondition(c types.Condition, s *state.State) bool {
	switch c.Kind {
	case types.FlagSet:
		return s.FlagSet(c.Flag)
	case types.FlagNot:
		return !s.FlagSet(c.Flag)
	case types.FlagIs:
		v, _ := s.Flag(c.Flag)
		return v == c.Value
	case types.HasItem:
		need := c.Quantity
		if need <= 0 {
			need = 1
		}
		return s.Quantity(c.Item) >= need
	case types.Not:
		if c.Inner == nil {
			return true
		}
		return !EvalCondition(*c.Inner, s)
	default:
		return false
	}
}

// EvalAllConditions returns true if all conditions pass (AND logic).
// An empty condition list is vacuously true.
func EvalAllConditions(conditions []types.Condition, s *state.State) bool {
	for _, c := range conditions {
		if !EvalCondition(c, s) {
			return false
		}
	}
	return true
}

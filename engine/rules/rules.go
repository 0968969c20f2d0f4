// Package rules resolves a parsed command against the current room's
// effective action list. Resolution is read-only: it never touches the
// session state or the world.
package rules

import (
	"fmt"
	"strings"

	"github.com/nathoo/stoneend/engine/parser"
	"github.com/nathoo/stoneend/engine/state"
	"github.com/nathoo/stoneend/engine/world"
	"github.com/nathoo/stoneend/types"
)

// Match is the outcome of a resolution. Action is nil for the
// not-understood sentinel, in which case Fallback holds the generic
// response for the verb.
type Match struct {
	Action   *types.Action
	Fallback string
}

// Understood reports whether an action was matched.
func (m Match) Understood() bool {
	return m.Action != nil
}

// NotUnderstood builds the sentinel for a verb and target phrase.
func NotUnderstood(verb types.Verb, target string) Match {
	return Match{Fallback: fallbackText(verb, target)}
}

// Resolve scans the room's effective actions (room actions first, then
// each region's actions in the room's region order) and returns the first
// one matching verb and target whose requirements hold. Declaration order
// is the priority: a room can override a region-wide action by declaring
// the same verb and target itself.
func Resolve(w *world.World, s *state.State, room *types.Room, verb types.Verb, target string) Match {
	phrase := parser.Normalize(target)
	actions := w.EffectiveActions(room)
	for i := range actions {
		a := &actions[i]
		if !MatchesVerb(a.Verb, verb) || !MatchesTarget(a.Targets, phrase) {
			continue
		}
		if !EvalAllConditions(a.Requires, s) {
			continue
		}
		return Match{Action: a}
	}
	return NotUnderstood(verb, phrase)
}

// MatchesVerb compares verbs. Custom verbs must also agree on their alias.
func MatchesVerb(declared, parsed types.Verb) bool {
	if declared.Kind != parsed.Kind {
		return false
	}
	if declared.Kind == types.VerbCustom {
		return declared.Alias == parsed.Alias
	}
	return true
}

// MatchesTarget reports whether a normalized phrase equals or is contained
// in one of the aliases. An empty phrase only matches an action without
// targets.
func MatchesTarget(aliases []string, phrase string) bool {
	if phrase == "" {
		return len(aliases) == 0
	}
	for _, alias := range aliases {
		if alias == phrase || strings.Contains(alias, phrase) {
			return true
		}
	}
	return false
}

func fallbackText(verb types.Verb, target string) string {
	switch verb.Kind {
	case types.VerbLook:
		if target == "" {
			return "Nothing happens here."
		}
		return fmt.Sprintf("You don't see a %s.", target)
	case types.VerbTalk:
		if target == "" {
			return "You talk out loud for a bit and feel much better, thank you."
		}
		return fmt.Sprintf("You can't talk to %q.", target)
	case types.VerbHelp:
		return fmt.Sprintf("You can't help %s.", target)
	case types.VerbAttack:
		return "Violence won't solve this one."
	case types.VerbMove:
		return "You can't go that way."
	case types.VerbCustom:
		if target == "" {
			return fmt.Sprintf("You don't know how to %q. Type \"help\" for help.", verb.Alias)
		}
		return fmt.Sprintf("You can't %s the %s.", verb.Alias, target)
	default:
		return "I don't understand."
	}
}

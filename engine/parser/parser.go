// Package parser converts command strings into Intent structs.
// Intentionally dumb: no NLP, just a verb word and a target phrase.
package parser

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"

	"github.com/nathoo/stoneend/types"
)

var verbWords = map[string]types.Verb{
	"look":    types.Look,
	"l":       types.Look,
	"examine": types.Look,
	"x":       types.Look,
	"inspect": types.Look,
	"check":   types.Look,

	"talk":  types.Talk,
	"t":     types.Talk,
	"speak": types.Talk,
	"chat":  types.Talk,
	"ask":   types.Talk,

	"help": types.Help,
	"h":    types.Help,

	"attack": types.Attack,
	"hit":    types.Attack,
	"kill":   types.Attack,
	"fight":  types.Attack,
	"strike": types.Attack,

	"buy":      types.Custom("buy"),
	"purchase": types.Custom("buy"),
}

var moveWords = map[string]bool{
	"go": true, "walk": true, "run": true, "head": true,
}

var takeWords = map[string]bool{
	"take": true, "pick": true, "pickup": true, "grab": true, "get": true,
}

var dropWords = map[string]bool{
	"drop": true, "discard": true,
}

var inventoryWords = map[string]bool{
	"inventory": true, "inv": true, "i": true, "items": true,
}

// Filler words allowed in front of a target ("look at", "talk to").
var fillers = map[string]bool{
	"at": true, "to": true, "in": true, "up": true, "with": true,
}

var articles = map[string]bool{
	"the": true, "a": true, "an": true,
}

// Normalize case-folds s, trims it and collapses inner whitespace. Target
// phrases and content aliases are both compared in this form.
func Normalize(s string) string {
	return strings.Join(strings.Fields(cases.Fold().String(s)), " ")
}

// Parse converts a raw command string into an Intent.
func Parse(input string) types.Intent {
	words := strings.Fields(Normalize(input))
	if len(words) == 0 {
		return types.Intent{Command: types.CommandNone}
	}

	word, rest := words[0], words[1:]

	// Bare direction: "n", "south".
	if dir, ok := types.ParseDirection(word); ok && len(rest) == 0 {
		return types.Intent{Command: types.CommandMove, Verb: types.Move, Direction: dir}
	}

	switch {
	case moveWords[word]:
		return parseMove(word, rest)
	case inventoryWords[word]:
		return types.Intent{Command: types.CommandInventory}
	case word == "debug":
		return types.Intent{Command: types.CommandDebug}
	case takeWords[word]:
		target, msg := parseTarget(word, rest)
		if msg != "" {
			return message(msg)
		}
		if target == "" {
			if word == "pick" {
				return message("You pick your nose. Gross.")
			}
			return message("This relationship is on the rocks, all you do is take take take.")
		}
		return types.Intent{Command: types.CommandTake, Verb: types.Take, Target: target}
	case dropWords[word]:
		target, msg := parseTarget(word, rest)
		if msg != "" {
			return message(msg)
		}
		if target == "" {
			return message("You stop, drop and roll.")
		}
		return types.Intent{Command: types.CommandDrop, Verb: types.Drop, Target: target}
	}

	verb, ok := verbWords[word]
	if !ok {
		verb = types.Custom(word)
	}
	target, msg := parseTarget(word, rest)
	if msg != "" {
		return message(msg)
	}
	return types.Intent{Command: types.CommandVerb, Verb: verb, Target: target}
}

// Shadowed reports what a custom verb alias turns into when a player types
// it, for aliases the parser claims for something else. An action declared
// with such a verb could never match.
func Shadowed(alias string) (string, bool) {
	word := Normalize(alias)
	if _, ok := types.ParseDirection(word); ok {
		return "movement", true
	}
	switch {
	case moveWords[word]:
		return "movement", true
	case inventoryWords[word]:
		return "the inventory command", true
	case word == "debug":
		return "the debug command", true
	case takeWords[word] && word != "take":
		return `"take"`, true
	case dropWords[word] && word != "drop":
		return `"drop"`, true
	}
	if v, ok := verbWords[word]; ok && (v.Kind != types.VerbCustom || v.Alias != word) {
		return fmt.Sprintf("%q", v), true
	}
	return "", false
}

func parseMove(word string, rest []string) types.Intent {
	target, msg := parseTarget(word, rest)
	if msg != "" {
		return message(msg)
	}
	if target == "" {
		return message("Where do you want to go?")
	}
	dir, ok := types.ParseDirection(target)
	if !ok {
		return message(fmt.Sprintf("You don't know how to go %q.", target))
	}
	return types.Intent{Command: types.CommandMove, Verb: types.Move, Direction: dir}
}

// parseTarget joins the words after the verb into a target phrase. A
// leading filler word is dropped; a filler with nothing after it is a
// question back to the player. Articles are stripped.
func parseTarget(verb string, words []string) (target, msg string) {
	if len(words) == 0 {
		return "", ""
	}
	if fillers[words[0]] {
		if len(words) == 1 {
			return "", fmt.Sprintf("%s %s... what?", verb, words[0])
		}
		words = words[1:]
	}
	kept := make([]string, 0, len(words))
	for _, w := range words {
		if !articles[w] {
			kept = append(kept, w)
		}
	}
	return strings.Join(kept, " "), ""
}

func message(text string) types.Intent {
	return types.Intent{Command: types.CommandMessage, Message: text}
}

package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles used throughout the TUI.
var (
	styleStatusBar = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252")).
			Bold(true)

	styleInputPrompt = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	styleNarration = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	styleTitle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255")).
			Bold(true)

	styleListing = lipgloss.NewStyle().
			Foreground(lipgloss.Color("180"))

	styleBox = lipgloss.NewStyle().
			Foreground(lipgloss.Color("110"))

	styleExits = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	styleDialogue = lipgloss.NewStyle().
			Foreground(lipgloss.Color("228"))

	styleSystem = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	styleError = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	stylePlayerInput = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	styleTrace = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

// lineKind identifies the type of an output line for styling.
type lineKind int

const (
	kindNarration lineKind = iota
	kindTitle
	kindListing
	kindBox
	kindExits
	kindDialogue
	kindSystem
	kindError
	kindTrace
)

var boxEdges = []string{"╔", "║", "╚"}

// Refusals the engine answers with when a command goes nowhere.
var errorPrefixes = []string{
	"You can't",
	"You cannot",
	"You don't",
	"I don't understand",
	"Nobody here sells",
	"Which one",
}

// classifyLine determines what kind of output line this is. Room titles
// are not recognizable on their own; the caller marks them.
func classifyLine(line string) lineKind {
	switch {
	case strings.HasPrefix(line, "[trace]"):
		return kindTrace
	case strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]"):
		return kindSystem
	case strings.HasPrefix(line, "Exits:"), strings.HasPrefix(line, "Coord:"):
		return kindExits
	case strings.HasPrefix(line, "  ‣"):
		return kindListing
	case hasPrefixAny(line, boxEdges):
		return kindBox
	case hasPrefixAny(line, errorPrefixes):
		return kindError
	case containsQuotedSpeech(line):
		return kindDialogue
	default:
		return kindNarration
	}
}

func hasPrefixAny(line string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(line, p) {
			return true
		}
	}
	return false
}

// containsQuotedSpeech reports whether a line carries NPC speech: a
// single-quoted run that opens at the start of the line or after a space.
// Apostrophes inside words ("You're") never open a quote.
func containsQuotedSpeech(line string) bool {
	open := -1
	prev := ' '
	for i, r := range line {
		if r == '\'' {
			switch {
			case open < 0 && prev == ' ':
				open = i
			case open >= 0 && i-open > 5:
				return true
			}
		}
		prev = r
	}
	return false
}

// renderLineKind applies the style for a given lineKind.
func renderLineKind(line string, kind lineKind) string {
	switch kind {
	case kindTitle:
		return styleTitle.Render(line)
	case kindListing:
		return styleListing.Render(line)
	case kindBox:
		return styleBox.Render(line)
	case kindExits:
		return styleExits.Render(line)
	case kindDialogue:
		return styleDialogue.Render(line)
	case kindSystem:
		return styleSystem.Render(line)
	case kindError:
		return styleError.Render(line)
	case kindTrace:
		return styleTrace.Render(line)
	default:
		return styleNarration.Render(line)
	}
}

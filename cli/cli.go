// Package cli provides terminal I/O, output formatting, and meta-command
// dispatch for the Stone End engine.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/nathoo/stoneend/engine"
	"github.com/nathoo/stoneend/engine/events"
	"github.com/nathoo/stoneend/types"
)

// CLI handles terminal interaction with the player.
type CLI struct {
	Engine    *engine.Engine
	In        io.Reader
	Out       io.Writer
	Trace     bool
	EchoInput bool   // echo each input line after the prompt (for script playback)
	lastCmd   string // for "again"/"g" repeat
}

// New creates a CLI wired to the given engine.
func New(eng *engine.Engine) *CLI {
	return &CLI{
		Engine: eng,
		In:     os.Stdin,
		Out:    os.Stdout,
	}
}

// Run starts the game loop. It shows the intro and the starting room,
// then loops: prompt → input → dispatch → output.
func (c *CLI) Run() {
	c.printLines(c.Engine.Intro())

	scanner := bufio.NewScanner(c.In)
	for {
		c.print("> ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		// Skip comment lines (for script files).
		if strings.HasPrefix(input, "#") {
			continue
		}
		if c.EchoInput {
			c.printLine(input)
		}

		// Meta-commands start with '/'.
		if strings.HasPrefix(input, "/") {
			if c.handleMeta(input) {
				return // /quit
			}
			continue
		}

		// "again" / "g" repeats the last game command.
		lower := strings.ToLower(input)
		if lower == "again" || lower == "g" {
			if c.lastCmd == "" {
				c.printLine("Nothing to repeat.")
				continue
			}
			input = c.lastCmd
		} else if input != "" {
			c.lastCmd = input
		}

		wasOver := c.Engine.State.Over
		result := c.Engine.Step(input)
		c.printLines(result.Output)

		if c.Trace {
			c.printTrace(result)
		}
		if result.Terminal && !wasOver {
			c.printLine("")
			c.printSystem(engine.EndedText)
		}
	}
}

// handleMeta dispatches meta-commands. Returns true if the game should exit.
func (c *CLI) handleMeta(input string) bool {
	cmd := strings.Fields(input)[0]

	switch cmd {
	case "/quit", "/exit":
		c.printSystem("Goodbye.")
		return true

	case "/restart":
		c.Engine.Restart()
		c.lastCmd = ""
		c.printSystem("Starting over.")
		c.printLines(c.Engine.Intro())

	case "/help":
		c.cmdHelp()

	case "/state":
		c.cmdState()

	case "/trace":
		c.Trace = !c.Trace
		if c.Trace {
			c.printSystem("Trace output enabled.")
		} else {
			c.printSystem("Trace output disabled.")
		}

	default:
		c.printSystem(fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd))
	}

	return false
}

// HelpLines lists the meta-commands and the game commands. The TUI shows
// the same text.
var HelpLines = []string{
	"System:",
	"  /quit         Exit game",
	"  /restart      Start the story over",
	"  /help         Show this help",
	"  /state        Debug: dump current state",
	"  /trace        Toggle modifier and event trace output",
	"",
	"Game commands:",
	"  look (l)              Describe the room",
	"  look <thing>          Look closely at something or someone",
	"  go <dir> (n/e/s/w)    Move",
	"  take <item>           Pick something up",
	"  drop <item>           Put something down",
	"  talk <npc>            Talk to someone",
	"  buy <item>            Buy from a merchant here",
	"  help <npc>            Offer someone a hand",
	"  inventory (i)         Check what you're carrying",
	"  debug                 Toggle coordinates in room descriptions",
	"  again (g)             Repeat your last command",
}

func (c *CLI) cmdHelp() {
	c.printLines(HelpLines)
}

func (c *CLI) cmdState() {
	for _, line := range StateLines(c.Engine) {
		c.printSystem(line)
	}
}

// StateLines dumps the session state in a stable order.
func StateLines(eng *engine.Engine) []string {
	s := eng.State
	lines := []string{
		fmt.Sprintf("Session: %s", s.ID),
		fmt.Sprintf("Turn: %d", s.Turn),
		fmt.Sprintf("Position: %s", s.Position),
	}
	if room := eng.Room(); room != nil {
		lines = append(lines, fmt.Sprintf("Room: %s", room.ID))
	}
	lines = append(lines, fmt.Sprintf("Inventory: %s", pairs(s.Inventory)))
	if len(s.Flags) > 0 {
		lines = append(lines, fmt.Sprintf("Flags: %s", pairs(s.Flags)))
	}
	if len(s.Variants) > 0 {
		var vs []string
		for _, coord := range slices.SortedFunc(maps.Keys(s.Variants), compareCoords) {
			vs = append(vs, fmt.Sprintf("%s=%s", coord, s.Variants[coord]))
		}
		lines = append(lines, "Variants: "+strings.Join(vs, " "))
	}
	if s.Over {
		lines = append(lines, "Over: true")
	}
	return lines
}

func pairs[V any](m map[string]V) string {
	if len(m) == 0 {
		return "(none)"
	}
	var out []string
	for _, k := range slices.Sorted(maps.Keys(m)) {
		out = append(out, fmt.Sprintf("%s=%v", k, m[k]))
	}
	return strings.Join(out, " ")
}

func compareCoords(a, b types.Coord) int {
	if a.Z != b.Z {
		return a.Z - b.Z
	}
	if a.Y != b.Y {
		return a.Y - b.Y
	}
	return a.X - b.X
}

func (c *CLI) printTrace(result types.Result) {
	for _, line := range events.Trace(result) {
		c.printSystem(line)
	}
}

func (c *CLI) printLines(lines []string) {
	for _, line := range lines {
		c.printLine(line)
	}
}

func (c *CLI) printLine(text string) {
	fmt.Fprintln(c.Out, text)
}

func (c *CLI) print(text string) {
	fmt.Fprint(c.Out, text)
}

func (c *CLI) printSystem(text string) {
	fmt.Fprintf(c.Out, "[%s]\n", text)
}

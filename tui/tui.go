package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/reflow/wordwrap"

	"github.com/nathoo/stoneend/cli"
	"github.com/nathoo/stoneend/engine"
	"github.com/nathoo/stoneend/engine/events"
)

// rawLine stores an unstyled output line with its classification,
// so we can re-wrap and re-style when the terminal is resized.
type rawLine struct {
	text     string
	kind     lineKind
	isInput  bool
	isSystem bool
}

// Model is the Bubble Tea model for the Stone End TUI.
type Model struct {
	engine *engine.Engine

	viewport viewport.Model
	input    textinput.Model
	history  *History

	rawLines []rawLine

	width    int
	height   int
	ready    bool
	trace    bool
	quitting bool
	lastCmd  string
}

// Options tweak a TUI session.
type Options struct {
	Trace bool
}

// gameOutputMsg carries output from the engine into the Update loop.
type gameOutputMsg struct {
	input    string
	echo     bool
	lines    []string
	title    string // room title to highlight among lines
	isSystem bool
}

// New creates a TUI model wired to the given engine.
func New(eng *engine.Engine, opts Options) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Focus()
	ti.CharLimit = 256
	ti.PromptStyle = styleInputPrompt

	return Model{
		engine:  eng,
		input:   ti,
		history: NewHistory(100),
		trace:   opts.Trace,
	}
}

// Run starts the Bubble Tea program.
func Run(eng *engine.Engine, opts Options) error {
	m := New(eng, opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}

// Init returns the initial command that shows the level header, the intro
// and the first room.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.initialOutput())
}

func (m Model) initialOutput() tea.Cmd {
	return func() tea.Msg {
		return gameOutputMsg{lines: m.introLines(), title: m.roomTitle()}
	}
}

func (m Model) introLines() []string {
	w := m.engine.World
	var lines []string
	if header := levelHeader(w.Title, w.Version, w.Author); header != "" {
		lines = append(lines, header, "")
	}
	return append(lines, m.engine.Intro()...)
}

// levelHeader renders "Title v1.0 by Author", leaving out what the level
// does not declare.
func levelHeader(title, version, author string) string {
	header := title
	if version != "" {
		header += " v" + version
	}
	if author != "" {
		header += " by " + author
	}
	return strings.TrimSpace(header)
}

func (m Model) roomTitle() string {
	if room := m.engine.Room(); room != nil {
		return room.Title
	}
	return ""
}

// Update handles messages (key presses, window resize, game output).
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		vpHeight := max(m.height-2, 1) // 1 status bar + 1 input line

		if !m.ready {
			m.viewport = viewport.New(m.width, vpHeight)
			m.viewport.KeyMap = viewportKeyMap()
			m.ready = true
		} else {
			m.viewport.Width = m.width
			m.viewport.Height = vpHeight
		}
		m.refreshViewport()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.quitting = true
			return m, tea.Quit

		case "enter":
			return m.handleEnter()

		case "up":
			if prev, ok := m.history.Prev(m.input.Value()); ok {
				m.input.SetValue(prev)
				m.input.CursorEnd()
			}
			return m, nil

		case "down":
			if next, ok := m.history.Next(); ok {
				m.input.SetValue(next)
				m.input.CursorEnd()
			}
			return m, nil

		case "pgup", "pgdown", "ctrl+u", "ctrl+d":
			var vpCmd tea.Cmd
			m.viewport, vpCmd = m.viewport.Update(msg)
			return m, vpCmd
		}

	case tea.MouseMsg:
		var vpCmd tea.Cmd
		m.viewport, vpCmd = m.viewport.Update(msg)
		return m, vpCmd

	case gameOutputMsg:
		m = m.appendOutput(msg)
	}

	var inputCmd tea.Cmd
	m.input, inputCmd = m.input.Update(msg)
	return m, inputCmd
}

// handleEnter processes the submitted input line.
func (m Model) handleEnter() (tea.Model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	m.input.SetValue("")
	if input != "" {
		m.history.Push(input)
	} else {
		m.history.Reset()
	}

	if strings.HasPrefix(input, "/") {
		output, quit := m.handleMeta(input)
		m = m.appendOutput(gameOutputMsg{
			input: input, echo: true, lines: output, title: m.roomTitle(), isSystem: true,
		})
		if quit {
			m.quitting = true
			return m, tea.Quit
		}
		if strings.HasPrefix(input, "/restart") {
			m = m.appendOutput(gameOutputMsg{lines: m.introLines(), title: m.roomTitle()})
		}
		return m, nil
	}

	echoed := input
	switch strings.ToLower(input) {
	case "again", "g":
		if m.lastCmd == "" {
			m = m.appendOutput(gameOutputMsg{
				input: echoed, echo: true, lines: []string{"Nothing to repeat."}, isSystem: true,
			})
			return m, nil
		}
		input = m.lastCmd
	case "":
	default:
		m.lastCmd = input
	}

	wasOver := m.engine.State.Over
	result := m.engine.Step(input)
	output := result.Output
	if m.trace {
		output = append(output, events.Trace(result)...)
	}
	if result.Terminal && !wasOver {
		output = append(output, "", "["+engine.EndedText+"]")
	}
	m = m.appendOutput(gameOutputMsg{
		input: echoed, echo: true, lines: output, title: m.roomTitle(),
	})
	return m, nil
}

// handleMeta dispatches meta-commands. Returns output lines and whether
// the program should quit.
func (m *Model) handleMeta(input string) ([]string, bool) {
	cmd := strings.Fields(input)[0]

	switch cmd {
	case "/quit", "/exit":
		return []string{"Goodbye."}, true

	case "/restart":
		m.engine.Restart()
		m.lastCmd = ""
		m.rawLines = nil
		return []string{"Starting over."}, false

	case "/help":
		out := append([]string(nil), cli.HelpLines...)
		return append(out, "", "Navigation: PgUp/PgDn to scroll, Up/Down for command history"), false

	case "/state":
		return cli.StateLines(m.engine), false

	case "/trace":
		m.trace = !m.trace
		if m.trace {
			return []string{"Trace output enabled."}, false
		}
		return []string{"Trace output disabled."}, false

	default:
		return []string{fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd)}, false
	}
}

// appendOutput adds lines to the narrative and refreshes the viewport.
func (m Model) appendOutput(msg gameOutputMsg) Model {
	if msg.echo {
		m.rawLines = append(m.rawLines, rawLine{text: "> " + msg.input, isInput: true})
	}

	for _, line := range msg.lines {
		rl := rawLine{text: line, isSystem: msg.isSystem}
		if !msg.isSystem {
			rl.kind = classifyLine(line)
			if msg.title != "" && line == msg.title {
				rl.kind = kindTitle
			}
		}
		m.rawLines = append(m.rawLines, rl)
	}

	// Blank line separator between turns.
	m.rawLines = append(m.rawLines, rawLine{})

	m.refreshViewport()
	return m
}

// refreshViewport re-wraps and re-styles all raw lines at the current width
// and updates the viewport content.
func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}

	width := max(m.width, 10)

	var styled []string
	for _, rl := range m.rawLines {
		if rl.text == "" {
			styled = append(styled, "")
			continue
		}

		switch {
		case rl.isInput:
			styled = append(styled, stylePlayerInput.Render(wordwrap.String(rl.text, width)))
		case rl.isSystem:
			styled = append(styled, styleSystem.Render(wordwrap.String("["+rl.text+"]", width)))
		default:
			styled = append(styled, renderLineKind(wordwrap.String(rl.text, width), rl.kind))
		}
	}

	m.viewport.SetContent(strings.Join(styled, "\n"))
	m.viewport.GotoBottom()
}

// View renders the status bar, the narrative and the input line.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Loading..."
	}
	return m.renderStatusBar() + "\n" + m.viewport.View() + "\n" + m.input.View()
}

// viewportKeyMap returns a viewport keymap with Up/Down disabled; those
// keys walk the command history.
func viewportKeyMap() viewport.KeyMap {
	return viewport.KeyMap{
		PageDown:     key.NewBinding(key.WithKeys("pgdown")),
		PageUp:       key.NewBinding(key.WithKeys("pgup")),
		HalfPageDown: key.NewBinding(key.WithKeys("ctrl+d")),
		HalfPageUp:   key.NewBinding(key.WithKeys("ctrl+u")),
		Up:           key.NewBinding(key.WithDisabled()),
		Down:         key.NewBinding(key.WithDisabled()),
	}
}

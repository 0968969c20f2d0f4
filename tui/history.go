// Package tui provides a Bubble Tea terminal UI for the Stone End engine.
package tui

// History keeps the commands the player typed, oldest first, and walks
// them with Up/Down. Whatever was in the input box when browsing started
// is kept as a draft and handed back when the player walks past the
// newest entry.
type History struct {
	entries []string
	limit   int
	cursor  int // len(entries) when not browsing
	draft   string
}

// NewHistory creates a history that remembers at most limit commands.
func NewHistory(limit int) *History {
	if limit < 1 {
		limit = 1
	}
	return &History{limit: limit}
}

// Len reports how many commands are remembered.
func (h *History) Len() int { return len(h.entries) }

// Push records a command and stops browsing. Repeating the newest entry
// is not recorded twice.
func (h *History) Push(cmd string) {
	if n := len(h.entries); n == 0 || h.entries[n-1] != cmd {
		h.entries = append(h.entries, cmd)
		if len(h.entries) > h.limit {
			h.entries = h.entries[len(h.entries)-h.limit:]
		}
	}
	h.Reset()
}

// Prev steps to the next older command. current is the text in the input
// box; it becomes the draft when browsing starts. Prev stays on the oldest
// entry once it is reached.
func (h *History) Prev(current string) (string, bool) {
	if len(h.entries) == 0 {
		return "", false
	}
	if !h.browsing() {
		h.draft = current
	}
	if h.cursor > 0 {
		h.cursor--
	}
	return h.entries[h.cursor], true
}

// Next steps to the next newer command. Walking past the newest entry
// returns the draft and stops browsing; ok is false when not browsing.
func (h *History) Next() (string, bool) {
	if !h.browsing() {
		return "", false
	}
	h.cursor++
	if h.cursor == len(h.entries) {
		draft := h.draft
		h.draft = ""
		return draft, true
	}
	return h.entries[h.cursor], true
}

// Reset stops browsing and forgets the draft.
func (h *History) Reset() {
	h.cursor = len(h.entries)
	h.draft = ""
}

func (h *History) browsing() bool {
	return h.cursor < len(h.entries)
}

// Package events renders the modifiers and events of a turn as trace lines.
// The CLI and the TUI both print these when tracing is on.
package events

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/nathoo/stoneend/types"
)

// Describe renders one event as its type followed by its data in key
// order: "item_added item=gold quantity=3 total=4".
func Describe(ev types.Event) string {
	var b strings.Builder
	b.WriteString(ev.Type)
	for _, k := range slices.Sorted(maps.Keys(ev.Data)) {
		fmt.Fprintf(&b, " %s=%v", k, ev.Data[k])
	}
	return b.String()
}

// Trace renders a turn result. A turn that changed nothing renders no
// lines.
func Trace(r types.Result) []string {
	var lines []string
	if len(r.Modifiers) > 0 {
		lines = append(lines, fmt.Sprintf("[trace] Modifiers: %d", len(r.Modifiers)))
		for _, m := range r.Modifiers {
			lines = append(lines, "[trace]   "+m.String())
		}
	}
	if len(r.Events) > 0 {
		lines = append(lines, fmt.Sprintf("[trace] Events: %d", len(r.Events)))
		for _, ev := range r.Events {
			lines = append(lines, "[trace]   "+Describe(ev))
		}
	}
	if r.Terminal {
		lines = append(lines, "[trace] Terminal")
	}
	return lines
}

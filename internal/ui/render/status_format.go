package render

import (
	"fmt"
	"strings"

	statepkg "github.com/kk-code-lab/some/internal/state"
	"github.com/kk-code-lab/some/internal/textutil"
)

const (
	defaultHint = "Press q to quit, / to search, : for commands"
	followHint  = "Waiting for data... (press Esc or q to stop)"
	visualHint  = "-- VISUAL -- j/k extend, y yank, Esc cancel"
)

// formatStatus returns the left and right halves of the status bar.
func formatStatus(state *statepkg.AppState) (string, string) {
	buf := state.ActiveBuffer()

	var left strings.Builder
	left.WriteString(" ")
	left.WriteString(textutil.SanitizeTerminalText(buf.Name))
	if n := len(state.Buffers); n > 1 {
		fmt.Fprintf(&left, " [%d/%d]", state.Active+1, n)
	}
	if name := state.Mode.Name(); name != "" {
		fmt.Fprintf(&left, " [%s]", name)
	}
	if buf.IsBinary() {
		left.WriteString(" [HEX]")
	}
	if state.Filter != nil {
		fmt.Fprintf(&left, " [~%s %dL]", textutil.SanitizeTerminalText(state.Filter.Query), state.Filter.Len())
	}
	left.WriteString(" ")

	var right strings.Builder
	if state.Search.HasPattern() {
		dir := "/"
		if !state.Search.Forward {
			dir = "?"
		}
		fmt.Fprintf(&right, " %s%s (%d matches)", dir, textutil.SanitizeTerminalText(state.Search.Query()), state.Search.Count())
		if state.Search.Searching() {
			right.WriteString(" [searching…]")
		}
		right.WriteString(" │")
	}
	total := state.TotalLines()
	top := state.Viewport.Top + 1
	bottom := min(state.Viewport.Top+state.Viewport.Height, total)
	fmt.Fprintf(&right, "  %d-%d/%d │ %d%% ", top, bottom, total, state.ScrollPercent())

	return left.String(), right.String()
}

// formatInputBar returns the bottom row text and whether it is an active
// prompt that takes a cursor.
func formatInputBar(state *statepkg.AppState) (string, bool) {
	if prompt, ok := statepkg.Prompt(state.Mode); ok {
		return textutil.SanitizeTerminalText(prompt), true
	}
	if state.Status != "" {
		return textutil.SanitizeTerminalText(state.Status), false
	}
	switch state.Mode.(type) {
	case statepkg.FollowMode:
		return followHint, false
	case statepkg.VisualMode:
		return visualHint, false
	}
	return defaultHint, false
}

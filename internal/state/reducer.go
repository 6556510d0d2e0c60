package state

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/kk-code-lab/some/internal/keymap"
)

// mouseScrollLines is how far one wheel notch scrolls.
const mouseScrollLines = 3

// Clipboard receives yanked text.
type Clipboard interface {
	WriteAll(text string) error
}

// StateReducer applies actions to an AppState.
type StateReducer struct {
	clipboard Clipboard
}

// NewStateReducer creates a reducer; a nil clipboard makes yanks fail
// with a status message.
func NewStateReducer(clipboard Clipboard) *StateReducer {
	return &StateReducer{clipboard: clipboard}
}

// Reduce applies action to state. Errors are never fatal: the state stays
// consistent and the error is also reflected in the status message.
func (r *StateReducer) Reduce(state *AppState, action Action) (*AppState, error) {
	switch a := action.(type) {
	case QuitAction:
		state.Quit = true
	case ResizeAction:
		state.Resize(a.Width, a.Height)
	case MouseScrollAction:
		if a.Delta < 0 {
			state.ScrollUp(-a.Delta * mouseScrollLines)
		} else {
			state.ScrollDown(a.Delta * mouseScrollLines)
		}
	case SearchBatchAction:
		state.ApplySearchBatch(a.Batch)
	case ContentChangedAction:
		return state, r.contentChanged(state, a.Path)
	case BindingAction:
		if _, ok := state.Mode.(NormalMode); ok {
			r.applyBinding(state, a.Action)
		}
	case PendingKeyAction:
		r.resolvePendingKey(state, a.Char)
	case InputCharAction:
		r.editInput(state, func(text string) string { return text + string(a.Char) })
	case InputBackspaceAction:
		r.editInput(state, func(text string) string {
			runes := []rune(text)
			if len(runes) == 0 {
				return text
			}
			return string(runes[:len(runes)-1])
		})
	case InputSubmitAction:
		r.submitInput(state)
	case InputCancelAction:
		r.cancelInput(state)
	case VisualMoveAction:
		r.moveVisual(state, a.Delta)
	case VisualYankAction:
		return state, r.yankVisual(state)
	case ExitModeAction:
		switch state.Mode.(type) {
		case FollowMode:
			state.Mode = NormalMode{}
			state.Status = ""
		case VisualMode:
			state.Mode = NormalMode{}
		}
	}
	return state, nil
}

func (r *StateReducer) applyBinding(state *AppState, action keymap.Action) {
	switch action {
	case keymap.ActionQuit:
		state.Quit = true
	case keymap.ActionScrollDown:
		state.ScrollDown(1)
	case keymap.ActionScrollUp:
		state.ScrollUp(1)
	case keymap.ActionHalfPageDown:
		state.HalfPageDown()
	case keymap.ActionHalfPageUp:
		state.HalfPageUp()
	case keymap.ActionFullPageDown:
		state.PageDown()
	case keymap.ActionFullPageUp:
		state.PageUp()
	case keymap.ActionGotoTop:
		state.GotoTop()
	case keymap.ActionGotoBottom:
		state.GotoBottom()
	case keymap.ActionPrevBuffer:
		state.SwitchBuffer(-1)
	case keymap.ActionNextBuffer:
		state.SwitchBuffer(1)
	case keymap.ActionSearchForward:
		state.Mode = SearchInputMode{Forward: true}
	case keymap.ActionSearchBackward:
		state.Mode = SearchInputMode{Forward: false}
	case keymap.ActionNextMatch:
		state.StepMatch(false)
	case keymap.ActionPrevMatch:
		state.StepMatch(true)
	case keymap.ActionToggleLineNumbers:
		state.ShowLineNumbers = !state.ShowLineNumbers
	case keymap.ActionToggleWrap:
		state.Wrap = !state.Wrap
	case keymap.ActionFollowMode:
		state.EnterFollow()
	case keymap.ActionEnterCommand:
		state.Mode = CommandInputMode{}
	case keymap.ActionFilter:
		state.Mode = FilterInputMode{}
	case keymap.ActionVisual:
		top := state.Viewport.Top
		state.Mode = VisualMode{Anchor: top, Cursor: top}
	case keymap.ActionSetMark:
		state.PendingKey = 'm'
		state.Status = "m: press a letter to set mark"
	case keymap.ActionJumpMark:
		state.PendingKey = '\''
		state.Status = "': press a letter to jump to mark"
	case keymap.ActionScrollRight:
		state.ScrollRight()
	case keymap.ActionScrollLeft:
		state.ScrollLeft()
	}
}

// EnterFollow switches to follow mode at the end of the content.
func (s *AppState) EnterFollow() {
	s.Mode = FollowMode{}
	s.GotoBottom()
	s.Status = ""
}

// SwitchBuffer rotates the active buffer by delta. The viewport and any
// filter reset; a committed search is re-run on the new buffer.
func (s *AppState) SwitchBuffer(delta int) {
	n := len(s.Buffers)
	if n < 2 {
		return
	}
	s.Active = ((s.Active+delta)%n + n) % n
	s.Filter = nil
	s.Viewport.Top = 0
	s.Viewport.Left = 0
	s.Search.ClearPreview()
	s.runSearch(false)
	s.Status = fmt.Sprintf("Buffer %d/%d: %s", s.Active+1, n, s.ActiveBuffer().Name)
}

func (r *StateReducer) resolvePendingKey(state *AppState, ch rune) {
	pending := state.PendingKey
	state.PendingKey = 0
	if pending == 0 || ch == 0 {
		return
	}
	switch pending {
	case 'm':
		state.Marks[ch] = state.Viewport.Top
		state.Status = fmt.Sprintf("Mark '%c' set", ch)
	case '\'':
		pos, ok := state.Marks[ch]
		if !ok {
			state.Status = fmt.Sprintf("No mark '%c'", ch)
			return
		}
		state.SetTop(pos)
		state.Status = fmt.Sprintf("Jumped to mark '%c'", ch)
	}
}

func (r *StateReducer) editInput(state *AppState, edit func(string) string) {
	switch m := state.Mode.(type) {
	case SearchInputMode:
		m.Text = edit(m.Text)
		state.Mode = m
		state.UpdatePreview(m.Text)
	case CommandInputMode:
		m.Text = edit(m.Text)
		state.Mode = m
	case FilterInputMode:
		m.Text = edit(m.Text)
		state.Mode = m
	}
}

func (r *StateReducer) submitInput(state *AppState) {
	switch m := state.Mode.(type) {
	case SearchInputMode:
		state.Mode = NormalMode{}
		state.CommitSearch(m.Text, m.Forward)
	case CommandInputMode:
		state.Mode = NormalMode{}
		state.ExecuteCommand(m.Text)
	case FilterInputMode:
		state.Mode = NormalMode{}
		state.ApplyFilter(m.Text)
	}
}

func (r *StateReducer) cancelInput(state *AppState) {
	switch state.Mode.(type) {
	case SearchInputMode:
		state.Search.ClearPreview()
	case FilterInputMode:
		state.ClearFilter()
	case CommandInputMode:
	default:
		return
	}
	state.Mode = NormalMode{}
	state.Status = ""
}

// ExecuteCommand runs a ":" command line.
func (s *AppState) ExecuteCommand(cmd string) {
	cmd = strings.TrimSpace(cmd)
	switch cmd {
	case "q", "quit":
		s.Quit = true
	case "n", "next":
		s.SwitchBuffer(1)
	case "p", "prev":
		s.SwitchBuffer(-1)
	default:
		line, err := strconv.Atoi(cmd)
		if err != nil || line < 0 {
			s.Status = "Unknown command: " + cmd
			return
		}
		s.GotoAbsolute(max(0, line-1))
	}
}

func (r *StateReducer) moveVisual(state *AppState, delta int) {
	m, ok := state.Mode.(VisualMode)
	if !ok {
		return
	}
	last := max(0, state.TotalLines()-1)
	m.Cursor = min(max(0, m.Cursor+delta), last)
	state.Mode = m

	vp := &state.Viewport
	if m.Cursor < vp.Top {
		state.SetTop(m.Cursor)
	} else if vp.Height > 0 && m.Cursor >= vp.Top+vp.Height {
		state.SetTop(m.Cursor - vp.Height + 1)
	}
}

// SelectedText joins the displayed lines of the visual selection.
func (s *AppState) SelectedText() (string, int) {
	m, ok := s.Mode.(VisualMode)
	if !ok {
		return "", 0
	}
	lo, hi := m.Range()
	buf := s.ActiveBuffer()
	if s.Filter == nil && !buf.IsBinary() {
		hi = min(hi, buf.LineCount()-1)
		if hi < lo {
			return "", 0
		}
		return buf.Text(lo, hi), hi - lo + 1
	}
	var parts []string
	for pos := lo; pos <= hi; pos++ {
		line, ok := s.LineAt(pos)
		if !ok {
			break
		}
		if buf.IsBinary() {
			parts = append(parts, buf.HexRow(line))
			continue
		}
		text, _ := buf.Line(line)
		parts = append(parts, text)
	}
	return strings.Join(parts, "\n"), len(parts)
}

var errNoClipboard = errors.New("clipboard not available")

func (r *StateReducer) yankVisual(state *AppState) error {
	if _, ok := state.Mode.(VisualMode); !ok {
		return nil
	}
	text, n := state.SelectedText()
	state.Mode = NormalMode{}

	err := errNoClipboard
	if r.clipboard != nil {
		err = r.clipboard.WriteAll(text)
	}
	if err != nil {
		state.Status = fmt.Sprintf("Clipboard error: %v", err)
		state.LastError = err
		return fmt.Errorf("yank: %w", err)
	}
	if n == 1 {
		state.Status = "Yanked 1 line"
	} else {
		state.Status = fmt.Sprintf("Yanked %d lines", n)
	}
	return nil
}

// contentChanged reloads the active buffer when following it and path
// backs it, then re-runs the search and filter and sticks to the bottom.
func (r *StateReducer) contentChanged(state *AppState, path string) error {
	if _, ok := state.Mode.(FollowMode); !ok {
		return nil
	}
	buf := state.ActiveBuffer()
	if !buf.Reloadable() || !samePath(buf.Path, path) {
		return nil
	}
	if err := buf.Reload(); err != nil {
		state.Status = fmt.Sprintf("Reload failed: %v", err)
		state.LastError = err
		return err
	}
	if state.Search.HasPattern() {
		state.runSearch(false)
	}
	state.refreshFilter()
	state.GotoBottom()
	return nil
}

func samePath(a, b string) bool {
	return absPath(a) == absPath(b)
}

func absPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return filepath.Clean(p)
}

package input

import (
	"github.com/gdamore/tcell/v2"

	"github.com/kk-code-lab/some/internal/keymap"
	statepkg "github.com/kk-code-lab/some/internal/state"
)

// InputHandler converts tcell events to Actions
type InputHandler struct {
	actionChan chan statepkg.Action
	state      *statepkg.AppState // Reference to current state for mode checking
	keys       *keymap.Table
}

// NewInputHandler creates a new input handler resolving normal-mode keys
// through keys.
func NewInputHandler(actionChan chan statepkg.Action, keys *keymap.Table) *InputHandler {
	if keys == nil {
		keys = keymap.Default()
	}
	return &InputHandler{
		actionChan: actionChan,
		keys:       keys,
	}
}

// SetState sets the state reference for mode checking
func (ih *InputHandler) SetState(state *statepkg.AppState) {
	ih.state = state
}

// ProcessEvent converts a tcell event into an Action. It returns false
// once the event asks the application to quit.
func (ih *InputHandler) ProcessEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return ih.processKeyEvent(ev)
	case *tcell.EventResize:
		w, h := ev.Size()
		ih.actionChan <- statepkg.ResizeAction{Width: w, Height: h}
		return true
	case *tcell.EventMouse:
		ih.processMouseEvent(ev)
		return true
	default:
		return true
	}
}

func (ih *InputHandler) mode() statepkg.Mode {
	if ih.state == nil || ih.state.Mode == nil {
		return statepkg.NormalMode{}
	}
	return ih.state.Mode
}

// processKeyEvent handles keyboard input
func (ih *InputHandler) processKeyEvent(ev *tcell.EventKey) bool {
	if ev.Key() == tcell.KeyCtrlC {
		ih.actionChan <- statepkg.QuitAction{}
		return false
	}

	switch ih.mode().(type) {
	case statepkg.SearchInputMode, statepkg.CommandInputMode, statepkg.FilterInputMode:
		ih.processLineInput(ev)
		return true
	case statepkg.FollowMode:
		if ev.Key() == tcell.KeyEscape || (ev.Key() == tcell.KeyRune && ev.Rune() == 'q') {
			ih.actionChan <- statepkg.ExitModeAction{}
		}
		return true
	case statepkg.VisualMode:
		ih.processVisual(ev)
		return true
	}

	if ev.Key() == tcell.KeyCtrlZ {
		ih.actionChan <- statepkg.SuspendAction{}
		return true
	}

	if ih.state != nil && ih.state.PendingKey != 0 {
		// Any non-character key abandons the pending mark command.
		var ch rune
		if ev.Key() == tcell.KeyRune {
			ch = ev.Rune()
		}
		ih.actionChan <- statepkg.PendingKeyAction{Char: ch}
		return true
	}

	action, ok := ih.keys.ResolveEvent(ev)
	if !ok {
		return true
	}
	ih.actionChan <- statepkg.BindingAction{Action: action}
	return action != keymap.ActionQuit
}

func (ih *InputHandler) processLineInput(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEnter:
		ih.actionChan <- statepkg.InputSubmitAction{}
	case tcell.KeyEscape:
		ih.actionChan <- statepkg.InputCancelAction{}
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		ih.actionChan <- statepkg.InputBackspaceAction{}
	case tcell.KeyRune:
		ih.actionChan <- statepkg.InputCharAction{Char: ev.Rune()}
	}
}

func (ih *InputHandler) processVisual(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyDown:
		ih.actionChan <- statepkg.VisualMoveAction{Delta: 1}
	case tcell.KeyUp:
		ih.actionChan <- statepkg.VisualMoveAction{Delta: -1}
	case tcell.KeyEscape:
		ih.actionChan <- statepkg.ExitModeAction{}
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'j':
			ih.actionChan <- statepkg.VisualMoveAction{Delta: 1}
		case 'k':
			ih.actionChan <- statepkg.VisualMoveAction{Delta: -1}
		case 'y':
			ih.actionChan <- statepkg.VisualYankAction{}
		case 'q':
			ih.actionChan <- statepkg.ExitModeAction{}
		}
	}
}

func (ih *InputHandler) processMouseEvent(ev *tcell.EventMouse) {
	buttons := ev.Buttons()
	switch {
	case buttons&tcell.WheelUp != 0:
		ih.actionChan <- statepkg.MouseScrollAction{Delta: -1}
	case buttons&tcell.WheelDown != 0:
		ih.actionChan <- statepkg.MouseScrollAction{Delta: 1}
	}
}

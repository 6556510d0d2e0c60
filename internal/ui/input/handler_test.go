package input

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kk-code-lab/some/internal/buffer"
	"github.com/kk-code-lab/some/internal/keymap"
	statepkg "github.com/kk-code-lab/some/internal/state"
)

func newHandler(t *testing.T, mode statepkg.Mode) (*InputHandler, *statepkg.AppState, chan statepkg.Action) {
	t.Helper()
	state, err := statepkg.NewAppState([]*buffer.Buffer{buffer.FromBytes("t", []byte("a\nb\n"))}, statepkg.Options{})
	require.NoError(t, err)
	if mode != nil {
		state.Mode = mode
	}
	actionChan := make(chan statepkg.Action, 4)
	handler := NewInputHandler(actionChan, keymap.Default())
	handler.SetState(state)
	return handler, state, actionChan
}

func runeEvent(r rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

func keyEvent(k tcell.Key) *tcell.EventKey {
	return tcell.NewEventKey(k, 0, tcell.ModNone)
}

func expectAction(t *testing.T, ch chan statepkg.Action) statepkg.Action {
	t.Helper()
	select {
	case action := <-ch:
		return action
	default:
		t.Fatal("expected an action")
		return nil
	}
}

func expectNone(t *testing.T, ch chan statepkg.Action) {
	t.Helper()
	select {
	case action := <-ch:
		t.Fatalf("unexpected action %T", action)
	default:
	}
}

func TestNormalModeResolvesBindings(t *testing.T) {
	tests := []struct {
		name string
		ev   *tcell.EventKey
		want keymap.Action
	}{
		{"j scrolls down", runeEvent('j'), keymap.ActionScrollDown},
		{"down arrow scrolls down", keyEvent(tcell.KeyDown), keymap.ActionScrollDown},
		{"slash searches", runeEvent('/'), keymap.ActionSearchForward},
		{"ctrl+d half page", keyEvent(tcell.KeyCtrlD), keymap.ActionHalfPageDown},
		{"space pages", runeEvent(' '), keymap.ActionFullPageDown},
		{"G goes to bottom", runeEvent('G'), keymap.ActionGotoBottom},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, _, ch := newHandler(t, nil)
			assert.True(t, handler.ProcessEvent(tt.ev))
			assert.Equal(t, statepkg.BindingAction{Action: tt.want}, expectAction(t, ch))
		})
	}
}

func TestNormalModeQuitStopsLoop(t *testing.T) {
	handler, _, ch := newHandler(t, nil)
	assert.False(t, handler.ProcessEvent(runeEvent('q')))
	assert.Equal(t, statepkg.BindingAction{Action: keymap.ActionQuit}, expectAction(t, ch))
}

func TestUnboundKeyEmitsNothing(t *testing.T) {
	handler, _, ch := newHandler(t, nil)
	assert.True(t, handler.ProcessEvent(runeEvent('Z')))
	expectNone(t, ch)
}

func TestOverriddenBindingIsUsed(t *testing.T) {
	keys := keymap.Default()
	keys.ApplyOverrides(map[keymap.Action]string{keymap.ActionQuit: "x"})
	ch := make(chan statepkg.Action, 1)
	handler := NewInputHandler(ch, keys)

	assert.False(t, handler.ProcessEvent(runeEvent('x')))
	assert.Equal(t, statepkg.BindingAction{Action: keymap.ActionQuit}, expectAction(t, ch))

	assert.True(t, handler.ProcessEvent(runeEvent('q')))
	expectNone(t, ch)
}

func TestPendingKeyConsumesNextRune(t *testing.T) {
	handler, state, ch := newHandler(t, nil)
	state.PendingKey = 'm'

	handler.ProcessEvent(runeEvent('q'))
	assert.Equal(t, statepkg.PendingKeyAction{Char: 'q'}, expectAction(t, ch))

	handler.ProcessEvent(keyEvent(tcell.KeyEscape))
	assert.Equal(t, statepkg.PendingKeyAction{Char: 0}, expectAction(t, ch))
}

func TestLineInputModes(t *testing.T) {
	modes := []statepkg.Mode{
		statepkg.SearchInputMode{Forward: true},
		statepkg.CommandInputMode{},
		statepkg.FilterInputMode{},
	}
	for _, mode := range modes {
		t.Run(mode.Name(), func(t *testing.T) {
			handler, _, ch := newHandler(t, mode)

			assert.True(t, handler.ProcessEvent(runeEvent('q')))
			assert.Equal(t, statepkg.InputCharAction{Char: 'q'}, expectAction(t, ch))

			handler.ProcessEvent(keyEvent(tcell.KeyBackspace2))
			assert.Equal(t, statepkg.InputBackspaceAction{}, expectAction(t, ch))

			handler.ProcessEvent(keyEvent(tcell.KeyBackspace))
			assert.Equal(t, statepkg.InputBackspaceAction{}, expectAction(t, ch))

			handler.ProcessEvent(keyEvent(tcell.KeyEnter))
			assert.Equal(t, statepkg.InputSubmitAction{}, expectAction(t, ch))

			handler.ProcessEvent(keyEvent(tcell.KeyEscape))
			assert.Equal(t, statepkg.InputCancelAction{}, expectAction(t, ch))
		})
	}
}

func TestCtrlCQuitsFromAnyMode(t *testing.T) {
	modes := []statepkg.Mode{
		statepkg.NormalMode{},
		statepkg.SearchInputMode{},
		statepkg.FollowMode{},
		statepkg.VisualMode{},
	}
	for _, mode := range modes {
		handler, _, ch := newHandler(t, mode)
		assert.False(t, handler.ProcessEvent(keyEvent(tcell.KeyCtrlC)))
		assert.Equal(t, statepkg.QuitAction{}, expectAction(t, ch))
	}
}

func TestFollowModeExits(t *testing.T) {
	handler, _, ch := newHandler(t, statepkg.FollowMode{})

	handler.ProcessEvent(runeEvent('q'))
	assert.Equal(t, statepkg.ExitModeAction{}, expectAction(t, ch))

	handler.ProcessEvent(keyEvent(tcell.KeyEscape))
	assert.Equal(t, statepkg.ExitModeAction{}, expectAction(t, ch))

	handler.ProcessEvent(runeEvent('j'))
	expectNone(t, ch)
}

func TestVisualModeKeys(t *testing.T) {
	handler, _, ch := newHandler(t, statepkg.VisualMode{})

	tests := []struct {
		ev   *tcell.EventKey
		want statepkg.Action
	}{
		{runeEvent('j'), statepkg.VisualMoveAction{Delta: 1}},
		{keyEvent(tcell.KeyDown), statepkg.VisualMoveAction{Delta: 1}},
		{runeEvent('k'), statepkg.VisualMoveAction{Delta: -1}},
		{keyEvent(tcell.KeyUp), statepkg.VisualMoveAction{Delta: -1}},
		{runeEvent('y'), statepkg.VisualYankAction{}},
		{runeEvent('q'), statepkg.ExitModeAction{}},
		{keyEvent(tcell.KeyEscape), statepkg.ExitModeAction{}},
	}
	for _, tt := range tests {
		assert.True(t, handler.ProcessEvent(tt.ev))
		assert.Equal(t, tt.want, expectAction(t, ch))
	}
}

func TestResizeAndMouse(t *testing.T) {
	handler, _, ch := newHandler(t, nil)

	handler.ProcessEvent(tcell.NewEventResize(100, 40))
	assert.Equal(t, statepkg.ResizeAction{Width: 100, Height: 40}, expectAction(t, ch))

	handler.ProcessEvent(tcell.NewEventMouse(0, 0, tcell.WheelDown, tcell.ModNone))
	assert.Equal(t, statepkg.MouseScrollAction{Delta: 1}, expectAction(t, ch))

	handler.ProcessEvent(tcell.NewEventMouse(0, 0, tcell.WheelUp, tcell.ModNone))
	assert.Equal(t, statepkg.MouseScrollAction{Delta: -1}, expectAction(t, ch))

	handler.ProcessEvent(tcell.NewEventMouse(0, 0, tcell.Button1, tcell.ModNone))
	expectNone(t, ch)
}

func TestCtrlZSuspendsInNormalMode(t *testing.T) {
	handler, _, ch := newHandler(t, nil)
	assert.True(t, handler.ProcessEvent(keyEvent(tcell.KeyCtrlZ)))
	assert.Equal(t, statepkg.SuspendAction{}, expectAction(t, ch))
}

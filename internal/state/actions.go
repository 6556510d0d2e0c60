package state

import (
	"github.com/kk-code-lab/some/internal/keymap"
	"github.com/kk-code-lab/some/internal/search"
)

// Action is the base interface for all state mutations
type Action interface{}

// ===== NORMAL MODE =====

// BindingAction carries a key-table action resolved in normal mode.
type BindingAction struct {
	Action keymap.Action
}

// PendingKeyAction is the character following a mark prefix (m or ').
type PendingKeyAction struct {
	Char rune
}

// ===== LINE INPUT (search, command, filter) =====

type InputCharAction struct {
	Char rune
}
type InputBackspaceAction struct{}
type InputSubmitAction struct{}
type InputCancelAction struct{}

// ===== VISUAL & FOLLOW =====

type VisualMoveAction struct {
	Delta int
}
type VisualYankAction struct{}

// ExitModeAction leaves follow or visual mode without side effects.
type ExitModeAction struct{}

// ===== VIEW =====

type ResizeAction struct {
	Width  int
	Height int
}

// MouseScrollAction scrolls by Delta lines; negative is up.
type MouseScrollAction struct {
	Delta int
}

// ===== BACKGROUND =====

// ContentChangedAction reports a write to a file backing a buffer.
type ContentChangedAction struct {
	Path string
}

// SearchBatchAction delivers one report from a background search.
type SearchBatchAction struct {
	Batch search.Batch
}

// ===== APPLICATION =====

type QuitAction struct{}

// SuspendAction hands the terminal back to the shell until resumed.
type SuspendAction struct{}

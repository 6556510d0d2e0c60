package keymap

// Action is a user-level command a key can be bound to.
type Action int

const (
	ActionNone Action = iota
	ActionQuit
	ActionScrollDown
	ActionScrollUp
	ActionHalfPageDown
	ActionHalfPageUp
	ActionFullPageDown
	ActionFullPageUp
	ActionGotoTop
	ActionGotoBottom
	ActionPrevBuffer
	ActionNextBuffer
	ActionSearchForward
	ActionSearchBackward
	ActionNextMatch
	ActionPrevMatch
	ActionToggleLineNumbers
	ActionToggleWrap
	ActionFollowMode
	ActionEnterCommand
	ActionFilter
	ActionVisual
	ActionSetMark
	ActionJumpMark
	ActionScrollRight
	ActionScrollLeft
)

var actionNames = map[Action]string{
	ActionQuit:              "quit",
	ActionScrollDown:        "scroll_down",
	ActionScrollUp:          "scroll_up",
	ActionHalfPageDown:      "half_page_down",
	ActionHalfPageUp:        "half_page_up",
	ActionFullPageDown:      "full_page_down",
	ActionFullPageUp:        "full_page_up",
	ActionGotoTop:           "goto_top",
	ActionGotoBottom:        "goto_bottom",
	ActionPrevBuffer:        "prev_buffer",
	ActionNextBuffer:        "next_buffer",
	ActionSearchForward:     "search_forward",
	ActionSearchBackward:    "search_backward",
	ActionNextMatch:         "next_match",
	ActionPrevMatch:         "prev_match",
	ActionToggleLineNumbers: "toggle_numbers",
	ActionToggleWrap:        "toggle_wrap",
	ActionFollowMode:        "follow_mode",
	ActionEnterCommand:      "enter_command",
	ActionFilter:            "filter",
	ActionVisual:            "visual",
	ActionSetMark:           "set_mark",
	ActionJumpMark:          "jump_mark",
	ActionScrollRight:       "scroll_right",
	ActionScrollLeft:        "scroll_left",
}

// String returns the configuration name of the action.
func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "none"
}

// ActionFromName resolves a configuration key such as "scroll_down".
func ActionFromName(name string) (Action, bool) {
	for action, n := range actionNames {
		if n == name {
			return action, true
		}
	}
	return ActionNone, false
}

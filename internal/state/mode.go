package state

// Mode is the interaction mode. Exactly one is active; per-mode data
// travels with the mode value.
type Mode interface {
	isMode()
	// Name is the status-bar tag, empty for normal viewing.
	Name() string
}

type NormalMode struct{}

type SearchInputMode struct {
	Text    string
	Forward bool
}

type CommandInputMode struct {
	Text string
}

type FilterInputMode struct {
	Text string
}

type FollowMode struct{}

// VisualMode selects the inclusive range between Anchor and Cursor, both
// positions in the displayed line sequence.
type VisualMode struct {
	Anchor int
	Cursor int
}

func (NormalMode) isMode()       {}
func (SearchInputMode) isMode()  {}
func (CommandInputMode) isMode() {}
func (FilterInputMode) isMode()  {}
func (FollowMode) isMode()       {}
func (VisualMode) isMode()       {}

func (NormalMode) Name() string       { return "" }
func (SearchInputMode) Name() string  { return "SEARCH" }
func (CommandInputMode) Name() string { return "COMMAND" }
func (FilterInputMode) Name() string  { return "FILTER" }
func (FollowMode) Name() string       { return "FOLLOW" }
func (VisualMode) Name() string       { return "VISUAL" }

// Prompt returns the input-bar text for modes that read a line of input.
func Prompt(m Mode) (string, bool) {
	switch m := m.(type) {
	case SearchInputMode:
		if m.Forward {
			return "/" + m.Text, true
		}
		return "?" + m.Text, true
	case CommandInputMode:
		return ":" + m.Text, true
	case FilterInputMode:
		return "&" + m.Text, true
	}
	return "", false
}

// Range returns the selection ordered low to high.
func (v VisualMode) Range() (int, int) {
	if v.Anchor <= v.Cursor {
		return v.Anchor, v.Cursor
	}
	return v.Cursor, v.Anchor
}

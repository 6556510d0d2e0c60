package state

// horizontalStep is how many columns a left or right scroll moves.
const horizontalStep = 4

// Viewport is the visible window. Top is a position in the displayed
// sequence and stays within [0, max(0, total-Height)].
type Viewport struct {
	Top    int
	Left   int
	Height int
	Width  int
}

// MaxTop is the largest Top that still fills the viewport.
func (s *AppState) MaxTop() int {
	return max(0, s.TotalLines()-s.Viewport.Height)
}

func (s *AppState) clampTop() {
	s.Viewport.Top = min(max(0, s.Viewport.Top), s.MaxTop())
}

func (s *AppState) ScrollDown(n int) {
	s.Viewport.Top = min(s.Viewport.Top+n, s.MaxTop())
	s.clampTop()
}

func (s *AppState) ScrollUp(n int) {
	s.Viewport.Top = max(0, s.Viewport.Top-n)
}

func (s *AppState) HalfPageDown() { s.ScrollDown(s.Viewport.Height / 2) }
func (s *AppState) HalfPageUp()   { s.ScrollUp(s.Viewport.Height / 2) }
func (s *AppState) PageDown()     { s.ScrollDown(s.Viewport.Height) }
func (s *AppState) PageUp()       { s.ScrollUp(s.Viewport.Height) }

func (s *AppState) GotoTop() { s.Viewport.Top = 0 }

func (s *AppState) GotoBottom() { s.Viewport.Top = s.MaxTop() }

// GotoLine centers the displayed position pos, clamped.
func (s *AppState) GotoLine(pos int) {
	s.Viewport.Top = max(0, pos-s.Viewport.Height/2)
	s.clampTop()
}

// GotoAbsolute centers an absolute line, translating it into the filtered
// sequence when a filter is active.
func (s *AppState) GotoAbsolute(line int) {
	s.GotoLine(s.PositionOf(line))
}

// SetTop places pos at the top of the viewport, clamped.
func (s *AppState) SetTop(pos int) {
	s.Viewport.Top = pos
	s.clampTop()
}

func (s *AppState) ScrollRight() { s.Viewport.Left += horizontalStep }

func (s *AppState) ScrollLeft() { s.Viewport.Left = max(0, s.Viewport.Left-horizontalStep) }

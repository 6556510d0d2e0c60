package state

import (
	"errors"
	"strconv"

	"github.com/kk-code-lab/some/internal/buffer"
	"github.com/kk-code-lab/some/internal/search"
)

// ErrNoBuffers is returned when a session is started without content.
var ErrNoBuffers = errors.New("no buffers to display")

// Options carries the resolved display settings the core needs.
type Options struct {
	LineNumbers bool
	Wrap        bool
	SmartCase   bool
}

// AppState is the single source of truth
type AppState struct {
	// Buffers is append-only; Active always indexes into it.
	Buffers []*buffer.Buffer
	Active  int

	Mode     Mode
	Viewport Viewport

	Search *search.Engine
	// Filter is nil when no filter is active; Viewport.Top then addresses
	// absolute lines instead of filtered positions.
	Filter *search.FilterView

	Marks      map[rune]int
	PendingKey rune

	ShowLineNumbers bool
	Wrap            bool
	SmartCase       bool

	// Status is the transient message shown in the input bar.
	Status string

	ScreenWidth  int
	ScreenHeight int

	Quit      bool
	LastError error

	batches        <-chan search.Batch
	announceSearch bool
}

// NewAppState starts a session over buffers with the first one active.
func NewAppState(buffers []*buffer.Buffer, opts Options) (*AppState, error) {
	if len(buffers) == 0 {
		return nil, ErrNoBuffers
	}
	return &AppState{
		Buffers:         buffers,
		Mode:            NormalMode{},
		Viewport:        Viewport{Height: 24, Width: 80},
		Search:          search.NewEngine(),
		Marks:           make(map[rune]int),
		ShowLineNumbers: opts.LineNumbers,
		Wrap:            opts.Wrap,
		SmartCase:       opts.SmartCase,
	}, nil
}

// ActiveBuffer returns the buffer being viewed.
func (s *AppState) ActiveBuffer() *buffer.Buffer {
	return s.Buffers[s.Active]
}

// HasTabBar reports whether a buffer tab row is shown.
func (s *AppState) HasTabBar() bool {
	return len(s.Buffers) > 1
}

// TotalLines is the length of the displayed sequence: filtered positions
// while a filter is active, hex rows for binary content, text lines
// otherwise.
func (s *AppState) TotalLines() int {
	if s.Filter != nil {
		return s.Filter.Len()
	}
	return s.ActiveBuffer().DisplayLineCount()
}

// LineAt maps a displayed position to an absolute line or hex row.
func (s *AppState) LineAt(pos int) (int, bool) {
	if s.Filter != nil {
		return s.Filter.Line(pos)
	}
	if pos < 0 || pos >= s.TotalLines() {
		return 0, false
	}
	return pos, true
}

// PositionOf maps an absolute line to its displayed position.
func (s *AppState) PositionOf(line int) int {
	if s.Filter != nil {
		return s.Filter.Position(line)
	}
	return line
}

// TopLine is the absolute line at the top of the viewport.
func (s *AppState) TopLine() int {
	line, ok := s.LineAt(s.Viewport.Top)
	if !ok {
		return 0
	}
	return line
}

// VisibleLines returns the absolute lines currently on screen.
func (s *AppState) VisibleLines() []int {
	end := min(s.Viewport.Top+s.Viewport.Height, s.TotalLines())
	lines := make([]int, 0, max(0, end-s.Viewport.Top))
	for pos := s.Viewport.Top; pos < end; pos++ {
		if line, ok := s.LineAt(pos); ok {
			lines = append(lines, line)
		}
	}
	return lines
}

// GutterWidth is the line-number column width including padding, or 0
// when line numbers are hidden.
func (s *AppState) GutterWidth() int {
	if !s.ShowLineNumbers {
		return 0
	}
	return len(strconv.Itoa(s.ActiveBuffer().DisplayLineCount())) + 2
}

// ScrollPercent is how far through the displayed sequence the bottom of
// the viewport is.
func (s *AppState) ScrollPercent() int {
	total := s.TotalLines()
	if total == 0 {
		return 100
	}
	bottom := min(s.Viewport.Top+s.Viewport.Height, total)
	return bottom * 100 / total
}

// SearchBatches is the channel of the outstanding background search, or
// nil when none is running.
func (s *AppState) SearchBatches() <-chan search.Batch {
	return s.batches
}

// SearchFinished drops the batch channel once it has been closed.
func (s *AppState) SearchFinished() {
	s.batches = nil
}

// MatchesOnLine returns the committed and preview matches for an absolute
// line, for the highlighter.
func (s *AppState) MatchesOnLine(line int) (committed, preview []search.Match) {
	return s.Search.MatchesOnLine(line), s.Search.PreviewOnLine(line)
}

// Resize recomputes the content area from the terminal size: two rows for
// the status and input bars and one for the tab bar when shown.
func (s *AppState) Resize(width, height int) {
	s.ScreenWidth = width
	s.ScreenHeight = height
	reserved := 2
	if s.HasTabBar() {
		reserved++
	}
	s.Viewport.Width = max(0, width)
	s.Viewport.Height = max(0, height-reserved)
	s.clampTop()
}

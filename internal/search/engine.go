package search

import "sort"

// AsyncLineThreshold is the line count above which committed searches run
// in the background.
const AsyncLineThreshold = 100_000

// Engine owns the committed pattern, its match set and cursor, plus the
// preview matches shown while a query is being typed.
type Engine struct {
	pattern *Pattern
	matches []Match
	current int
	preview []Match

	// Forward is false after a backward search; next/prev then invert.
	Forward bool

	generation uint64
	searching  bool
}

func NewEngine() *Engine {
	return &Engine{Forward: true}
}

// SetPattern replaces the committed pattern. An empty query clears the
// pattern and its matches. A query that fails to compile returns an error
// wrapping ErrInvalidPattern and leaves the previous pattern in place.
func (e *Engine) SetPattern(query string, smartCase bool) error {
	if query == "" {
		e.Clear()
		return nil
	}
	p, err := Compile(query, smartCase)
	if err != nil {
		return err
	}
	e.pattern = p
	return nil
}

// Clear drops the pattern, committed matches, and any running search.
func (e *Engine) Clear() {
	e.pattern = nil
	e.matches = nil
	e.current = 0
	e.generation++
	e.searching = false
}

func (e *Engine) Pattern() *Pattern { return e.pattern }

func (e *Engine) HasPattern() bool { return e.pattern != nil }

// Query returns the committed query text or "".
func (e *Engine) Query() string {
	if e.pattern == nil {
		return ""
	}
	return e.pattern.Query
}

// SearchBuffer scans every line synchronously and resets the cursor.
func (e *Engine) SearchBuffer(lines LineSource) {
	e.generation++
	e.searching = false
	e.current = 0
	e.matches = nil
	if e.pattern == nil {
		return
	}
	e.matches = scanLines(e.pattern, lines, 0, lines.LineCount(), nil)
}

func (e *Engine) Matches() []Match { return e.matches }

func (e *Engine) Count() int { return len(e.matches) }

// CurrentIndex is the cursor position into the match set.
func (e *Engine) CurrentIndex() int { return e.current }

// Current returns the match under the cursor.
func (e *Engine) Current() (Match, bool) {
	if len(e.matches) == 0 {
		return Match{}, false
	}
	return e.matches[e.current], true
}

// NextMatch advances the cursor with wrap-around.
func (e *Engine) NextMatch() (Match, bool) {
	if len(e.matches) == 0 {
		return Match{}, false
	}
	e.current = (e.current + 1) % len(e.matches)
	return e.matches[e.current], true
}

// PrevMatch moves the cursor back with wrap-around.
func (e *Engine) PrevMatch() (Match, bool) {
	if len(e.matches) == 0 {
		return Match{}, false
	}
	e.current = (e.current - 1 + len(e.matches)) % len(e.matches)
	return e.matches[e.current], true
}

// JumpToLine moves the cursor to the first match on or after line. When
// none follows the cursor is left where it was.
func (e *Engine) JumpToLine(line int) (Match, bool) {
	idx := e.firstAtOrAfter(line)
	if idx == len(e.matches) {
		return Match{}, false
	}
	e.current = idx
	return e.matches[idx], true
}

// MatchesOnLine returns the committed matches on line, in column order.
func (e *Engine) MatchesOnLine(line int) []Match {
	return matchesOn(e.matches, line)
}

func (e *Engine) firstAtOrAfter(line int) int {
	return sort.Search(len(e.matches), func(i int) bool {
		return e.matches[i].Line >= line
	})
}

func matchesOn(matches []Match, line int) []Match {
	lo := sort.Search(len(matches), func(i int) bool { return matches[i].Line >= line })
	hi := lo
	for hi < len(matches) && matches[hi].Line == line {
		hi++
	}
	if lo == hi {
		return nil
	}
	return matches[lo:hi]
}

// SearchVisibleLines replaces the preview set with the matches of p over
// the absolute line range [start, end). A nil pattern clears the preview.
func (e *Engine) SearchVisibleLines(p *Pattern, lines LineSource, start, end int) {
	e.preview = e.preview[:0]
	if p == nil {
		return
	}
	if start < 0 {
		start = 0
	}
	if end > lines.LineCount() {
		end = lines.LineCount()
	}
	e.preview = scanLines(p, lines, start, end, e.preview)
}

// SearchLineSet is SearchVisibleLines over an explicit ascending list of
// line indices, used when a filter decides which lines are on screen.
func (e *Engine) SearchLineSet(p *Pattern, lines LineSource, indices []int) {
	e.preview = e.preview[:0]
	if p == nil {
		return
	}
	for _, i := range indices {
		e.preview = scanLines(p, lines, i, i+1, e.preview)
	}
}

func (e *Engine) ClearPreview() { e.preview = nil }

func (e *Engine) Preview() []Match { return e.preview }

// PreviewOnLine returns the preview matches on line.
func (e *Engine) PreviewOnLine(line int) []Match {
	return matchesOn(e.preview, line)
}

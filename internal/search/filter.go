package search

import (
	"fmt"
	"regexp"
	"sort"
)

// FilterView is the ordered subset of lines matching a filter query.
type FilterView struct {
	Query string
	Lines []int
}

// ApplyFilter compiles query case-insensitively and collects every matching
// line. An empty query returns a nil view, which clears the filter.
func ApplyFilter(query string, lines LineSource) (*FilterView, error) {
	if query == "" {
		return nil, nil
	}
	re, err := regexp.Compile("(?i)" + query)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPattern, err)
	}
	view := &FilterView{Query: query, Lines: []int{}}
	for i := 0; i < lines.LineCount(); i++ {
		text, ok := lines.Line(i)
		if ok && re.MatchString(text) {
			view.Lines = append(view.Lines, i)
		}
	}
	return view, nil
}

func (f *FilterView) Len() int {
	if f == nil {
		return 0
	}
	return len(f.Lines)
}

// Line maps a position in the filtered sequence to an absolute line.
func (f *FilterView) Line(pos int) (int, bool) {
	if f == nil || pos < 0 || pos >= len(f.Lines) {
		return 0, false
	}
	return f.Lines[pos], true
}

// Position returns the first filtered position whose line is at or after
// line, clamped to the last position.
func (f *FilterView) Position(line int) int {
	if f.Len() == 0 {
		return 0
	}
	pos := sort.SearchInts(f.Lines, line)
	if pos >= len(f.Lines) {
		pos = len(f.Lines) - 1
	}
	return pos
}

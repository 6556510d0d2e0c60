package state

import (
	"fmt"

	"github.com/kk-code-lab/some/internal/search"
)

const binarySearchStatus = "Search is not available for binary content"

// CommitSearch sets the committed pattern from query and searches the
// active buffer, jumping to the first match at or after the top line.
func (s *AppState) CommitSearch(query string, forward bool) {
	s.Search.ClearPreview()
	s.Search.Forward = forward
	if s.ActiveBuffer().IsBinary() {
		s.Status = binarySearchStatus
		return
	}
	if err := s.Search.SetPattern(query, s.SmartCase); err != nil {
		s.Status = "Invalid regex: " + query
		return
	}
	if query == "" {
		s.stopSearch()
		s.Status = ""
		return
	}
	s.runSearch(true)
}

// runSearch scans the active buffer for the committed pattern, in the
// background for large buffers. announce reports the result and moves the
// viewport to the first match once the scan completes.
func (s *AppState) runSearch(announce bool) {
	buf := s.ActiveBuffer()
	if !s.Search.HasPattern() || buf.IsBinary() {
		s.Search.SearchBuffer(emptyLines{})
		s.stopSearch()
		return
	}
	if buf.LineCount() > search.AsyncLineThreshold {
		s.batches = s.Search.SearchAsync(buf.Snapshot())
		s.announceSearch = announce
		if announce {
			s.Status = fmt.Sprintf("Searching for %s...", s.Search.Query())
		}
		return
	}
	s.stopSearch()
	s.Search.SearchBuffer(buf)
	if announce {
		s.reportSearch()
	}
}

func (s *AppState) stopSearch() {
	s.batches = nil
	s.announceSearch = false
}

func (s *AppState) reportSearch() {
	query := s.Search.Query()
	if s.Search.Count() == 0 {
		s.Status = "Pattern not found: " + query
		return
	}
	m, ok := s.Search.JumpToLine(s.TopLine())
	if !ok {
		m, ok = s.Search.Current()
	}
	if ok {
		s.GotoAbsolute(m.Line)
	}
	s.Status = fmt.Sprintf("/%s (%d matches)", query, s.Search.Count())
}

// ApplySearchBatch installs a background search report. Stale reports
// are ignored.
func (s *AppState) ApplySearchBatch(b search.Batch) {
	if !s.Search.ApplyBatch(b) {
		return
	}
	if !s.announceSearch {
		return
	}
	if b.Done {
		s.announceSearch = false
		s.reportSearch()
		return
	}
	s.Status = fmt.Sprintf("/%s (%d matches, searching...)", s.Search.Query(), s.Search.Count())
}

// StepMatch moves to the next match in the search direction, or the
// previous one when reverse is set, and centers it.
func (s *AppState) StepMatch(reverse bool) {
	if !s.Search.HasPattern() {
		return
	}
	var (
		m  search.Match
		ok bool
	)
	if s.Search.Forward != reverse {
		m, ok = s.Search.NextMatch()
	} else {
		m, ok = s.Search.PrevMatch()
	}
	if !ok {
		return
	}
	s.GotoAbsolute(m.Line)
	s.Status = fmt.Sprintf("Match %d/%d", s.Search.CurrentIndex()+1, s.Search.Count())
}

// UpdatePreview re-runs the live preview for partially typed text over the
// lines currently on screen. Text that does not compile clears it.
func (s *AppState) UpdatePreview(text string) {
	buf := s.ActiveBuffer()
	if text == "" || buf.IsBinary() {
		s.Search.ClearPreview()
		return
	}
	p, err := search.Compile(text, s.SmartCase)
	if err != nil {
		s.Search.ClearPreview()
		return
	}
	if s.Filter != nil {
		s.Search.SearchLineSet(p, buf, s.VisibleLines())
		return
	}
	top := s.Viewport.Top
	s.Search.SearchVisibleLines(p, buf, top, top+s.Viewport.Height)
}

// ApplyFilter restricts the view to lines matching query. An empty query
// clears the filter. An invalid query keeps the current filter.
func (s *AppState) ApplyFilter(query string) {
	buf := s.ActiveBuffer()
	if buf.IsBinary() {
		s.Status = "Filter is not available for binary content"
		return
	}
	view, err := search.ApplyFilter(query, buf)
	if err != nil {
		s.Status = "Invalid regex: " + query
		return
	}
	s.Filter = view
	s.Viewport.Top = 0
	if view == nil {
		s.Status = "Filter cleared"
		return
	}
	s.Status = fmt.Sprintf("Filter: %s (%d lines)", query, view.Len())
}

// ClearFilter drops the active filter and returns to the first line.
func (s *AppState) ClearFilter() {
	s.Filter = nil
	s.Viewport.Top = 0
}

// refreshFilter re-applies the active filter query to changed content.
func (s *AppState) refreshFilter() {
	if s.Filter == nil {
		return
	}
	if view, err := search.ApplyFilter(s.Filter.Query, s.ActiveBuffer()); err == nil {
		s.Filter = view
	}
	s.clampTop()
}

type emptyLines struct{}

func (emptyLines) LineCount() int          { return 0 }
func (emptyLines) Line(int) (string, bool) { return "", false }

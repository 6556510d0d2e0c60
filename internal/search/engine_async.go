package search

import "github.com/kk-code-lab/some/internal/buffer"

// BatchLines is how many lines the background scan covers between reports.
const BatchLines = 10_000

// Batch is one progress report of a background search. Matches is the
// cumulative, ordered result so far; the final report has Done set.
type Batch struct {
	Generation uint64
	Matches    []Match
	Scanned    int
	Done       bool
}

// SearchAsync scans a snapshot of the buffer on a separate goroutine and
// reports through the returned channel, which is closed after the final
// batch. The channel is buffered for every batch, so an abandoned search
// never blocks its producer.
func (e *Engine) SearchAsync(snap buffer.Snapshot) <-chan Batch {
	e.generation++
	gen := e.generation
	e.matches = nil
	e.current = 0

	ch := make(chan Batch, snap.LineCount()/BatchLines+2)
	if e.pattern == nil {
		e.searching = false
		ch <- Batch{Generation: gen, Done: true}
		close(ch)
		return ch
	}
	e.searching = true

	go func(p *Pattern) {
		defer close(ch)
		var found []Match
		total := snap.LineCount()
		for start := 0; start < total; start += BatchLines {
			end := min(start+BatchLines, total)
			found = scanLines(p, snap, start, end, found)
			if end < total {
				ch <- Batch{Generation: gen, Matches: found[:len(found):len(found)], Scanned: end}
			}
		}
		ch <- Batch{Generation: gen, Matches: found, Scanned: total, Done: true}
	}(e.pattern)

	return ch
}

// ApplyBatch installs a progress report. Reports from a search that has
// since been superseded are dropped and ApplyBatch returns false.
func (e *Engine) ApplyBatch(b Batch) bool {
	if b.Generation != e.generation {
		return false
	}
	e.matches = b.Matches
	if e.current >= len(e.matches) {
		e.current = 0
	}
	if b.Done {
		e.searching = false
	}
	return true
}

// Searching reports whether a background search is still outstanding.
func (e *Engine) Searching() bool { return e.searching }

// Generation identifies the most recent search.
func (e *Engine) Generation() uint64 { return e.generation }

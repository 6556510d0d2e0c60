package state

import (
	"strings"
	"testing"

	"github.com/kk-code-lab/some/internal/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func largeContent() string {
	return strings.Repeat("hay\n", search.AsyncLineThreshold) + "needle\n"
}

func TestLargeBufferSearchesInBackground(t *testing.T) {
	state := newTestState(t, largeContent())
	r := NewStateReducer(nil)

	state.CommitSearch("needle", true)
	ch := state.SearchBatches()
	require.NotNil(t, ch)
	assert.Equal(t, "Searching for needle...", state.Status)
	assert.True(t, state.Search.Searching())

	for b := range ch {
		reduce(t, r, state, SearchBatchAction{Batch: b})
	}
	state.SearchFinished()

	assert.Nil(t, state.SearchBatches())
	assert.False(t, state.Search.Searching())
	assert.Equal(t, "/needle (1 matches)", state.Status)
	assert.Equal(t, state.MaxTop(), state.Viewport.Top)
}

func TestSupersededBackgroundSearchIsIgnored(t *testing.T) {
	state := newTestState(t, largeContent())

	state.CommitSearch("needle", true)
	stale := state.SearchBatches()
	state.CommitSearch("hay", true)
	fresh := state.SearchBatches()

	for b := range stale {
		state.ApplySearchBatch(b)
	}
	assert.Equal(t, 0, state.Search.Count())

	for b := range fresh {
		state.ApplySearchBatch(b)
	}
	assert.Equal(t, search.AsyncLineThreshold, state.Search.Count())
	assert.Equal(t, "/hay (100000 matches)", state.Status)
}

func TestMatchesOnLineSplitsCommittedAndPreview(t *testing.T) {
	state := newTestState(t, "foo bar\n")
	state.CommitSearch("foo", true)
	state.UpdatePreview("bar")

	committed, preview := state.MatchesOnLine(0)
	assert.Equal(t, []search.Match{{Line: 0, Start: 0, End: 3}}, committed)
	assert.Equal(t, []search.Match{{Line: 0, Start: 4, End: 7}}, preview)
}

func TestPreviewFollowsFilteredLines(t *testing.T) {
	state := newTestState(t, numbered(100))
	state.ApplyFilter("5$")
	state.UpdatePreview("line")

	assert.Len(t, state.Search.Preview(), 10)
	for _, m := range state.Search.Preview() {
		assert.Equal(t, 5, m.Line%10)
	}
}

func TestEmptySearchClearsPattern(t *testing.T) {
	state := newTestState(t, "a\n")
	state.CommitSearch("a", true)
	require.True(t, state.Search.HasPattern())

	state.CommitSearch("", true)
	assert.False(t, state.Search.HasPattern())
	assert.Equal(t, "", state.Status)
}

func TestVisibleLinesAndLineAt(t *testing.T) {
	state := newTestState(t, numbered(15))
	state.SetTop(10)
	assert.Equal(t, []int{5, 6, 7, 8, 9, 10, 11, 12, 13, 14}, state.VisibleLines())

	_, ok := state.LineAt(15)
	assert.False(t, ok)

	state.ApplyFilter("1")
	assert.Equal(t, []int{1, 10, 11, 12, 13, 14}, state.VisibleLines())
	assert.Equal(t, 2, state.PositionOf(11))
}

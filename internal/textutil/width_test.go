package textutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisplayWidth(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{"ascii", "hello", 5},
		{"cjk", "日本", 4},
		{"emoji with VS16", "\u26a0\ufe0f", 2},
		{"family zwj", "\U0001f468‍\U0001f469‍\U0001f467", 2},
		{"flag", "\U0001f1f5\U0001f1f1", 2},
		{"combining accent", "e\u0301", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DisplayWidth(tt.text))
		})
	}
}

func TestLayoutExpandsTabsToStops(t *testing.T) {
	cells, next := Layout("a\tb", 0, 4)
	require.Len(t, cells, 5)
	assert.Equal(t, 5, next)
	assert.Equal(t, Cell{Text: "a", Col: 0, Width: 1}, cells[0])
	for i := 1; i <= 3; i++ {
		assert.Equal(t, " ", cells[i].Text)
		assert.Equal(t, i, cells[i].Col)
	}
	assert.Equal(t, Cell{Text: "b", Col: 4, Width: 1}, cells[4])
}

func TestLayoutContinuesFromColumn(t *testing.T) {
	cells, next := Layout("\tx", 6, 4)
	require.Len(t, cells, 3)
	assert.Equal(t, 6, cells[0].Col)
	assert.Equal(t, Cell{Text: "x", Col: 8, Width: 1}, cells[2])
	assert.Equal(t, 9, next)
}

func TestLayoutWideAndCombined(t *testing.T) {
	cells, next := Layout("日e\u0301", 0, 4)
	require.Len(t, cells, 2)
	assert.Equal(t, Cell{Text: "日", Col: 0, Width: 2}, cells[0])
	assert.Equal(t, Cell{Text: "e\u0301", Col: 2, Width: 1}, cells[1])
	assert.Equal(t, 3, next)
}

func TestLayoutReplacesControls(t *testing.T) {
	cells, _ := Layout("a\x1bb", 0, 4)
	require.Len(t, cells, 3)
	assert.Equal(t, "?", cells[1].Text)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "hello", Truncate("hello", 5))
	assert.Equal(t, "hel…", Truncate("hello", 4))
	assert.Equal(t, "…", Truncate("hello", 1))
	assert.Equal(t, "", Truncate("hello", 0))
	assert.Equal(t, "日…", Truncate("日本語", 4))
}

func TestDisplayWidthSingleRunes(t *testing.T) {
	assert.Equal(t, 2, DisplayWidth("\U0001f600"))
	assert.Equal(t, 1, DisplayWidth("\u0301"), "a lone combining mark still takes a cell")
}

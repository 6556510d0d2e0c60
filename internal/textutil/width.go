package textutil

import (
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

const (
	DefaultTabWidth = 4
	ellipsis        = "…"
)

// Cell is one grapheme cluster placed on the terminal grid.
type Cell struct {
	Text  string
	Col   int
	Width int
}

// DisplayWidth reports the number of terminal columns text occupies.
func DisplayWidth(text string) int {
	width := 0
	g := uniseg.NewGraphemes(text)
	for g.Next() {
		width += clusterWidth(g)
	}
	return width
}

// clusterWidth measures single runes with runewidth, which honours the
// East Asian ambiguous-width setting of the locale the way tcell does, and
// multi-rune clusters (emoji sequences, flags, combining marks) with uniseg.
func clusterWidth(g *uniseg.Graphemes) int {
	var w int
	cluster := g.Str()
	if _, size := utf8.DecodeRuneInString(cluster); size == len(cluster) {
		w = runewidth.StringWidth(cluster)
	} else {
		w = g.Width()
	}
	if w > 0 {
		return w
	}
	return 1
}

// Layout splits text into cells starting at column col. Tabs advance to the
// next multiple of tabWidth and control or invisible formatting characters
// are replaced by printable stand-ins. It returns the cells and the column
// following the last one.
func Layout(text string, col, tabWidth int) ([]Cell, int) {
	if tabWidth <= 0 {
		tabWidth = DefaultTabWidth
	}
	text = sanitize(text, true)
	cells := make([]Cell, 0, len(text))
	g := uniseg.NewGraphemes(text)
	for g.Next() {
		cluster := g.Str()
		if cluster == "\t" {
			for n := tabWidth - col%tabWidth; n > 0; n-- {
				cells = append(cells, Cell{Text: " ", Col: col, Width: 1})
				col++
			}
			continue
		}
		w := clusterWidth(g)
		cells = append(cells, Cell{Text: cluster, Col: col, Width: w})
		col += w
	}
	return cells, col
}

// Truncate shortens text to at most width columns, ending with an ellipsis
// when anything was cut.
func Truncate(text string, width int) string {
	if width <= 0 {
		return ""
	}
	if DisplayWidth(text) <= width {
		return text
	}
	if width == 1 {
		return ellipsis
	}

	target := width - 1
	var b strings.Builder
	current := 0
	g := uniseg.NewGraphemes(text)
	for g.Next() {
		w := clusterWidth(g)
		if current+w > target {
			break
		}
		b.WriteString(g.Str())
		current += w
	}
	b.WriteString(ellipsis)
	return b.String()
}

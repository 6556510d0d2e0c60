package render

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/kk-code-lab/some/internal/buffer"
	"github.com/kk-code-lab/some/internal/highlight"
	statepkg "github.com/kk-code-lab/some/internal/state"
	"github.com/kk-code-lab/some/internal/textutil"
)

const gutterSeparator = " │"

// Renderer handles all UI rendering
type Renderer struct {
	screen      tcell.Screen
	theme       ColorTheme
	highlighter *highlight.Highlighter
	tabWidth    int
}

// NewRenderer creates a new renderer. A nil highlighter paints content
// without syntax colours.
func NewRenderer(screen tcell.Screen, theme ColorTheme, highlighter *highlight.Highlighter, tabWidth int) *Renderer {
	if tabWidth <= 0 {
		tabWidth = textutil.DefaultTabWidth
	}
	if highlighter == nil {
		highlighter = highlight.New(theme.HighlightOptions("", false))
	}
	return &Renderer{
		screen:      screen,
		theme:       theme,
		highlighter: highlighter,
		tabWidth:    tabWidth,
	}
}

// Render draws the entire UI based on state
func (r *Renderer) Render(state *statepkg.AppState) {
	r.screen.Clear()
	r.screen.HideCursor()

	w, h := r.screen.Size()
	top := 0
	if state.HasTabBar() && h > 0 {
		r.drawTabBar(state, w)
		top = 1
	}
	rows := max(0, h-top-2)
	r.drawContent(state, top, w, rows)
	if h >= 2 {
		r.drawStatusBar(state, h-2, w)
	}
	if h >= 1 {
		r.drawInputBar(state, h-1, w)
	}

	r.screen.Show()
}

func (r *Renderer) drawTabBar(state *statepkg.AppState, w int) {
	r.fillRow(0, 0, w, r.theme.TabInactive)
	x := 0
	for i, buf := range state.Buffers {
		style := r.theme.TabInactive
		if i == state.Active {
			style = r.theme.TabActive
		}
		label := fmt.Sprintf(" %d:%s ", i+1, textutil.SanitizeTerminalText(buf.Name))
		label = textutil.Truncate(label, w-x)
		x = r.drawText(x, 0, w, label, style)
		if x >= w {
			return
		}
	}
}

func (r *Renderer) drawContent(state *statepkg.AppState, top, w, rows int) {
	buf := state.ActiveBuffer()
	gutter := state.GutterWidth()
	markerWidth := 0
	if len(buf.Changes) > 0 {
		markerWidth = 1
	}
	textX := min(w, gutter+markerWidth)
	textW := w - textX

	selLo, selHi := -1, -2
	if v, ok := state.Mode.(statepkg.VisualMode); ok {
		selLo, selHi = v.Range()
	}

	bottom := top + rows
	y := top
	for pos := state.Viewport.Top; y < bottom; pos++ {
		line, ok := state.LineAt(pos)
		if !ok {
			break
		}
		selected := pos >= selLo && pos <= selHi
		used := r.drawLine(state, buf, line, y, bottom, textX, textW, selected)
		for row := 0; row < used; row++ {
			number := line + 1
			if row > 0 {
				number = 0
			}
			r.drawGutter(y+row, gutter, number)
		}
		if markerWidth > 0 {
			r.drawChangeMarker(gutter, y, buf.Changes[line])
		}
		y += used
	}
	for ; y < bottom; y++ {
		r.drawGutter(y, gutter, 0)
		if textX < w {
			r.screen.SetContent(textX, y, '~', nil, r.theme.Tilde)
		}
	}
}

func (r *Renderer) lineSegments(state *statepkg.AppState, buf *buffer.Buffer, line int) []highlight.Segment {
	if buf.IsBinary() {
		return []highlight.Segment{{Text: buf.HexRow(line), Style: r.theme.Text}}
	}
	text, _ := buf.Line(line)
	committed, preview := state.MatchesOnLine(line)
	return r.highlighter.Line(buf, text, committed, preview)
}

// drawLine paints one content line starting at row y and returns how many
// rows it took: always 1 unless wrapping.
func (r *Renderer) drawLine(state *statepkg.AppState, buf *buffer.Buffer, line, y, bottom, textX, textW int, selected bool) int {
	if textW <= 0 {
		return 1
	}
	if selected {
		r.fillRow(y, textX, textX+textW, r.theme.Selection)
	}

	left := state.Viewport.Left
	if state.Wrap {
		left = 0
	}
	row, rowStart, col := 0, 0, 0
	for _, seg := range r.lineSegments(state, buf, line) {
		var cells []textutil.Cell
		cells, col = textutil.Layout(seg.Text, col, r.tabWidth)
		style := seg.Style
		if selected {
			style = r.theme.Selection
		}
		for _, cell := range cells {
			if state.Wrap {
				if cell.Col+cell.Width-rowStart > textW {
					if y+row+1 >= bottom {
						return row + 1
					}
					row++
					rowStart = cell.Col
					if selected {
						r.fillRow(y+row, textX, textX+textW, r.theme.Selection)
					}
				}
			} else {
				if cell.Col < left {
					continue
				}
				if cell.Col+cell.Width > left+textW {
					return 1
				}
			}
			x := textX + cell.Col - rowStart - left
			runes := []rune(cell.Text)
			r.screen.SetContent(x, y+row, runes[0], runes[1:], style)
		}
	}
	return row + 1
}

// drawGutter paints the line-number column; number 0 leaves it blank.
func (r *Renderer) drawGutter(y, gutter, number int) {
	if gutter <= 0 {
		return
	}
	digits := gutter - len([]rune(gutterSeparator))
	label := strings.Repeat(" ", digits)
	if number > 0 {
		label = fmt.Sprintf("%*d", digits, number)
	}
	x := r.drawText(0, y, gutter, label, r.theme.Gutter)
	r.drawText(x, y, gutter, gutterSeparator, r.theme.GutterSeparator)
}

func (r *Renderer) drawChangeMarker(x, y int, kind buffer.ChangeKind) {
	switch kind {
	case buffer.ChangeAdded:
		r.screen.SetContent(x, y, '▎', nil, r.theme.Added)
	case buffer.ChangeModified:
		r.screen.SetContent(x, y, '▎', nil, r.theme.Modified)
	case buffer.ChangeDeleted:
		r.screen.SetContent(x, y, '▁', nil, r.theme.Deleted)
	}
}

func (r *Renderer) drawStatusBar(state *statepkg.AppState, y, w int) {
	r.fillRow(y, 0, w, r.theme.StatusBar)
	left, right := formatStatus(state)
	rightW := textutil.DisplayWidth(right)
	if rightW > w {
		right = textutil.Truncate(right, w)
		rightW = textutil.DisplayWidth(right)
	}
	left = textutil.Truncate(left, w-rightW)
	r.drawText(0, y, w, left, r.theme.StatusBar)
	r.drawText(w-rightW, y, w, right, r.theme.StatusBar)
}

func (r *Renderer) drawInputBar(state *statepkg.AppState, y, w int) {
	text, active := formatInputBar(state)
	style := r.theme.Input
	if active {
		style = r.theme.InputActive
		r.fillRow(y, 0, w, style)
	}
	// Keep the end of a long prompt visible, that is where typing happens.
	if active && textutil.DisplayWidth(text) >= w {
		cells, _ := textutil.Layout(text, 0, r.tabWidth)
		drop := textutil.DisplayWidth(text) - w + 1
		for len(cells) > 0 && drop > 0 {
			drop -= cells[0].Width
			cells = cells[1:]
		}
		var b strings.Builder
		for _, c := range cells {
			b.WriteString(c.Text)
		}
		text = b.String()
	} else {
		text = textutil.Truncate(text, w)
	}
	x := r.drawText(0, y, w, text, style)
	if active && x < w {
		r.screen.ShowCursor(x, y)
	}
}

// drawText paints text from x, clipped at maxX, and returns the column
// after the last cell.
func (r *Renderer) drawText(x, y, maxX int, text string, style tcell.Style) int {
	cells, _ := textutil.Layout(text, 0, r.tabWidth)
	for _, cell := range cells {
		if x+cell.Width > maxX {
			break
		}
		runes := []rune(cell.Text)
		r.screen.SetContent(x, y, runes[0], runes[1:], style)
		x += cell.Width
	}
	return x
}

func (r *Renderer) fillRow(y, from, to int, style tcell.Style) {
	for x := from; x < to; x++ {
		r.screen.SetContent(x, y, ' ', nil, style)
	}
}

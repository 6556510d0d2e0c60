package render

import (
	"github.com/gdamore/tcell/v2"

	"github.com/kk-code-lab/some/internal/config"
	"github.com/kk-code-lab/some/internal/highlight"
)

// ColorTheme defines application styles.
type ColorTheme struct {
	Text            tcell.Style
	StatusBar       tcell.Style
	Match           tcell.Style
	Preview         tcell.Style
	Gutter          tcell.Style
	GutterSeparator tcell.Style
	Tilde           tcell.Style
	Input           tcell.Style
	InputActive     tcell.Style
	TabActive       tcell.Style
	TabInactive     tcell.Style
	Selection       tcell.Style
	Added           tcell.Style
	Modified        tcell.Style
	Deleted         tcell.Style
}

// NewColorTheme builds the styles from configured colours. Colours that
// do not parse fall back to the terminal default.
func NewColorTheme(colors config.Colors) ColorTheme {
	statusFg := tcell.GetColor(colors.StatusBarFg)
	statusBg := tcell.GetColor(colors.StatusBarBg)
	matchFg := tcell.GetColor(colors.SearchMatchFg)
	matchBg := tcell.GetColor(colors.SearchMatchBg)
	base := tcell.StyleDefault

	return ColorTheme{
		Text:            base,
		StatusBar:       base.Foreground(statusFg).Background(statusBg),
		Match:           base.Foreground(matchFg).Background(matchBg).Bold(true),
		Preview:         base.Foreground(matchBg).Underline(true),
		Gutter:          base.Foreground(tcell.GetColor(colors.LineNumberFg)),
		GutterSeparator: base.Foreground(tcell.NewRGBColor(60, 60, 60)),
		Tilde:           base.Foreground(tcell.ColorDarkGray),
		Input:           base.Foreground(tcell.ColorDarkGray),
		InputActive:     base.Foreground(tcell.ColorWhite).Background(tcell.ColorDarkGray),
		TabActive:       base.Foreground(statusBg).Background(statusFg).Bold(true),
		TabInactive:     base.Foreground(statusFg).Background(statusBg),
		Selection:       base.Foreground(tcell.ColorWhite).Background(tcell.Color33),
		Added:           base.Foreground(tcell.ColorGreen),
		Modified:        base.Foreground(tcell.ColorYellow),
		Deleted:         base.Foreground(tcell.ColorRed),
	}
}

// HighlightOptions configures a highlighter that paints matches in this
// theme's styles.
func (t ColorTheme) HighlightOptions(syntaxTheme string, enabled bool) highlight.Options {
	return highlight.Options{
		Theme:   syntaxTheme,
		Enabled: enabled,
		Base:    t.Text,
		Match:   t.Match,
		Preview: t.Preview,
	}
}

package highlight

import (
	"sort"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/gdamore/tcell/v2"

	"github.com/kk-code-lab/some/internal/buffer"
	"github.com/kk-code-lab/some/internal/search"
)

const (
	maxCachedLines = 2000
	sampleLines    = 64
)

// Segment is a run of text painted with one style.
type Segment struct {
	Text  string
	Style tcell.Style
}

// Options configures a Highlighter.
type Options struct {
	Theme   string
	Enabled bool
	// Base is the style for text no token rule colours.
	Base tcell.Style
	// Match paints committed search matches, Preview paints the live
	// matches shown while a query is typed.
	Match   tcell.Style
	Preview tcell.Style
}

// Highlighter turns content lines into styled segments using chroma
// lexers, with search matches overlaid on top.
type Highlighter struct {
	opts   Options
	style  *chroma.Style
	lexers map[*buffer.Buffer]chroma.Lexer
	cache  map[cacheKey][]Segment
}

type cacheKey struct {
	lexer string
	text  string
}

func New(opts Options) *Highlighter {
	style := styles.Get(opts.Theme)
	if style == nil {
		style = styles.Fallback
	}
	return &Highlighter{
		opts:   opts,
		style:  style,
		lexers: make(map[*buffer.Buffer]chroma.Lexer),
		cache:  make(map[cacheKey][]Segment),
	}
}

// ThemeExists reports whether name is a registered chroma style.
func ThemeExists(name string) bool {
	_, ok := styles.Registry[name]
	return ok
}

// Line returns the segments for text, which is line content of b.
// Matches are byte ranges into text; committed matches win over preview
// matches where both overlap.
func (h *Highlighter) Line(b *buffer.Buffer, text string, committed, preview []search.Match) []Segment {
	var segs []Segment
	if h.opts.Enabled && b != nil && !b.IsBinary() {
		segs = h.tokens(h.lexerFor(b), text)
	} else {
		segs = []Segment{{Text: text, Style: h.opts.Base}}
	}
	if len(preview) > 0 {
		segs = overlay(segs, preview, h.opts.Preview)
	}
	if len(committed) > 0 {
		segs = overlay(segs, committed, h.opts.Match)
	}
	return segs
}

func (h *Highlighter) lexerFor(b *buffer.Buffer) chroma.Lexer {
	if lexer, ok := h.lexers[b]; ok {
		return lexer
	}
	lexer := selectLexer(b)
	h.lexers[b] = lexer
	return lexer
}

func selectLexer(b *buffer.Buffer) chroma.Lexer {
	var lexer chroma.Lexer
	switch {
	case b.IsDiff:
		lexer = lexers.Get("diff")
	case b.Path != "":
		lexer = lexers.Match(b.Path)
	}
	if lexer == nil && b.LineCount() > 0 {
		lexer = lexers.Analyse(b.Text(0, min(b.LineCount(), sampleLines)-1))
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	return chroma.Coalesce(lexer)
}

func (h *Highlighter) tokens(lexer chroma.Lexer, text string) []Segment {
	key := cacheKey{lexer: lexer.Config().Name, text: text}
	if segs, ok := h.cache[key]; ok {
		return segs
	}

	it, err := lexer.Tokenise(nil, text)
	if err != nil {
		return []Segment{{Text: text, Style: h.opts.Base}}
	}
	var segs []Segment
	consumed := 0
	for _, tok := range it.Tokens() {
		value := tok.Value
		// Lexers may append a newline the line never had.
		if remaining := len(text) - consumed; len(value) > remaining {
			value = value[:remaining]
		}
		if value == "" {
			continue
		}
		consumed += len(value)
		style := h.tokenStyle(tok.Type)
		if n := len(segs); n > 0 && segs[n-1].Style == style {
			segs[n-1].Text += value
			continue
		}
		segs = append(segs, Segment{Text: value, Style: style})
	}
	if consumed < len(text) {
		segs = append(segs, Segment{Text: text[consumed:], Style: h.opts.Base})
	}

	if len(h.cache) >= maxCachedLines {
		clear(h.cache)
	}
	h.cache[key] = segs
	return segs
}

func (h *Highlighter) tokenStyle(t chroma.TokenType) tcell.Style {
	entry := h.style.Get(t)
	style := h.opts.Base
	if entry.Colour.IsSet() {
		style = style.Foreground(tcell.NewRGBColor(
			int32(entry.Colour.Red()), int32(entry.Colour.Green()), int32(entry.Colour.Blue())))
	}
	if entry.Bold == chroma.Yes {
		style = style.Bold(true)
	}
	if entry.Italic == chroma.Yes {
		style = style.Italic(true)
	}
	if entry.Underline == chroma.Yes {
		style = style.Underline(true)
	}
	return style
}

// overlay repaints the byte ranges of matches in segs with style.
func overlay(segs []Segment, matches []search.Match, style tcell.Style) []Segment {
	sorted := append([]search.Match(nil), matches...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })

	out := make([]Segment, 0, len(segs)+2*len(sorted))
	offset := 0
	for _, seg := range segs {
		start, end := offset, offset+len(seg.Text)
		offset = end
		pos := start
		for _, m := range sorted {
			if m.End <= pos || m.Start >= end || m.Start == m.End {
				continue
			}
			lo, hi := max(m.Start, pos), min(m.End, end)
			if lo > pos {
				out = append(out, Segment{Text: seg.Text[pos-start : lo-start], Style: seg.Style})
			}
			out = append(out, Segment{Text: seg.Text[lo-start : hi-start], Style: style})
			pos = hi
		}
		if pos < end {
			out = append(out, Segment{Text: seg.Text[pos-start:], Style: seg.Style})
		}
	}
	return out
}

package search

import (
	"errors"
	"fmt"
	"regexp"
	"unicode"
)

// ErrInvalidPattern wraps regular expression compile failures.
var ErrInvalidPattern = errors.New("invalid pattern")

// LineSource is the read side of a buffer the engines scan.
type LineSource interface {
	LineCount() int
	Line(i int) (string, bool)
}

// Pattern is a compiled search query.
type Pattern struct {
	Query           string
	Regexp          *regexp.Regexp
	CaseInsensitive bool
}

// Compile builds a Pattern. With smartCase the match is case-insensitive
// unless the query contains an upper-case letter; without it matching is
// case-sensitive.
func Compile(query string, smartCase bool) (*Pattern, error) {
	insensitive := smartCase && smartCaseInsensitive(query)
	expr := query
	if insensitive {
		expr = "(?i)" + query
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPattern, err)
	}
	return &Pattern{Query: query, Regexp: re, CaseInsensitive: insensitive}, nil
}

func smartCaseInsensitive(query string) bool {
	for _, r := range query {
		if unicode.IsUpper(r) {
			return false
		}
	}
	return true
}

// Match is a byte range [Start, End) on a single line.
type Match struct {
	Line  int
	Start int
	End   int
}

func scanLines(p *Pattern, lines LineSource, start, end int, out []Match) []Match {
	for i := start; i < end; i++ {
		text, ok := lines.Line(i)
		if !ok {
			continue
		}
		for _, loc := range p.Regexp.FindAllStringIndex(text, -1) {
			out = append(out, Match{Line: i, Start: loc[0], End: loc[1]})
		}
	}
	return out
}

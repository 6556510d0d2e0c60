package buffer

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

const diffContextLines = 3

// NewDiff builds a unified diff of pathA against pathB as a synthetic,
// non-reloadable buffer.
func NewDiff(pathA, pathB string) (*Buffer, error) {
	a, err := readText(pathA)
	if err != nil {
		return nil, err
	}
	b, err := readText(pathB)
	if err != nil {
		return nil, err
	}

	out := UnifiedDiff(pathA, pathB, a, b)
	buf := FromBytes(fmt.Sprintf("%s → %s", filepath.Base(pathA), filepath.Base(pathB)), out)
	buf.IsDiff = true
	return buf, nil
}

func readText(path string) (string, error) {
	if open := decompressorFor(path); open != nil {
		data, err := readCompressed(path, open)
		if err != nil {
			return "", err
		}
		return string(normalizeEncoding(data)), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(normalizeEncoding(data)), nil
}

// UnifiedDiff renders the differences between a and b with three lines of
// context and "@@ -a,b +c,d @@" hunk headers.
func UnifiedDiff(nameA, nameB, a, b string) []byte {
	linesA := splitLines(a)
	linesB := splitLines(b)

	var out bytes.Buffer
	fmt.Fprintf(&out, "--- %s\n+++ %s\n", nameA, nameB)

	matcher := difflib.NewMatcher(linesA, linesB)
	for _, group := range matcher.GetGroupedOpCodes(diffContextLines) {
		first := group[0]
		oldLen, newLen := 0, 0
		for _, op := range group {
			oldLen += op.I2 - op.I1
			newLen += op.J2 - op.J1
		}
		fmt.Fprintf(&out, "@@ -%d,%d +%d,%d @@\n", first.I1+1, oldLen, first.J1+1, newLen)

		for _, op := range group {
			switch op.Tag {
			case 'e':
				writeDiffLines(&out, ' ', linesA[op.I1:op.I2])
			case 'd':
				writeDiffLines(&out, '-', linesA[op.I1:op.I2])
			case 'i':
				writeDiffLines(&out, '+', linesB[op.J1:op.J2])
			case 'r':
				writeDiffLines(&out, '-', linesA[op.I1:op.I2])
				writeDiffLines(&out, '+', linesB[op.J1:op.J2])
			}
		}
	}
	return out.Bytes()
}

func writeDiffLines(out *bytes.Buffer, prefix byte, lines []string) {
	for _, line := range lines {
		out.WriteByte(prefix)
		out.WriteString(line)
		if !strings.HasSuffix(line, "\n") {
			out.WriteByte('\n')
		}
	}
}

// splitLines keeps each line's terminator so a missing final newline still
// counts as a difference.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.SplitAfter(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

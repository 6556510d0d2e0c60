package textutil

import "strings"

// Invisible formatting characters are shown by name so bidi overrides and
// zero-width characters cannot disguise content.
var formattingLabels = map[rune]string{
	0x00AD: "⟪SHY⟫",
	0x061C: "⟪ALM⟫",
	0x180E: "⟪MVS⟫",
	0x200B: "⟪ZWSP⟫",
	0x200C: "⟪ZWNJ⟫",
	0x200D: "⟪ZWJ⟫",
	0x200E: "⟪LRM⟫",
	0x200F: "⟪RLM⟫",
	0x2028: "⟪LSEP⟫",
	0x2029: "⟪PSEP⟫",
	0x202A: "⟪LRE⟫",
	0x202B: "⟪RLE⟫",
	0x202C: "⟪PDF⟫",
	0x202D: "⟪LRO⟫",
	0x202E: "⟪RLO⟫",
	0x2060: "⟪WJ⟫",
	0x2066: "⟪LRI⟫",
	0x2067: "⟪RLI⟫",
	0x2068: "⟪FSI⟫",
	0x2069: "⟪PDI⟫",
	0xFEFF: "⟪BOM⟫",
}

// SanitizeTerminalText makes text safe to paint: control characters become
// '?', line breaks and tabs become spaces and formatting characters are
// labelled. Used for file names and prompts.
func SanitizeTerminalText(text string) string {
	return sanitize(text, false)
}

func sanitize(text string, keepTabs bool) string {
	if !needsSanitizing(text, keepTabs) {
		return text
	}
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		switch {
		case r == '\t' && keepTabs:
			b.WriteRune(r)
		case r == '\t', r == '\n', r == '\r':
			b.WriteByte(' ')
		case r < 0x20 || r == 0x7f:
			b.WriteByte('?')
		default:
			if label, ok := formattingLabels[r]; ok {
				b.WriteString(label)
				continue
			}
			b.WriteRune(r)
		}
	}
	return b.String()
}

func needsSanitizing(text string, keepTabs bool) bool {
	for _, r := range text {
		if r == '\t' && keepTabs {
			continue
		}
		if r < 0x20 || r == 0x7f {
			return true
		}
		if _, ok := formattingLabels[r]; ok {
			return true
		}
	}
	return false
}

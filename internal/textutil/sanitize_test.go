package textutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeTerminalText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"safe input untouched", "safe-file.txt", "safe-file.txt"},
		{"escape sequence", "bad\x1b[31m\npath", "bad?[31m path"},
		{"tab becomes space", "a\tb", "a b"},
		{"bidi override labelled", "a\u202eb", "a⟪RLO⟫b"},
		{"zero width space labelled", "x\u200by", "x⟪ZWSP⟫y"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeTerminalText(tt.in))
		})
	}
}

func TestSanitizeKeepsTabsForLayout(t *testing.T) {
	assert.Equal(t, "a\tb?", sanitize("a\tb\x00", true))
}

//go:build unix

package buffer

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFileMapsAboveThreshold(t *testing.T) {
	path := writeFile(t, "big.log", []byte("\xEF\xBB\xBFalpha\nbeta\n"))

	buf, err := LoadFile(path, LoadOptions{MmapThreshold: 4})
	require.NoError(t, err)

	assert.True(t, buf.Mapped())
	line, _ := buf.Line(0)
	assert.Equal(t, "alpha", line, "UTF-8 BOM is skipped in the mapped view")

	require.NoError(t, os.WriteFile(path, []byte("x\n"), 0o644))
	require.NoError(t, buf.Reload())
	assert.False(t, buf.Mapped(), "reload re-selects the source by size")
	assert.Equal(t, 1, buf.LineCount())

	require.NoError(t, buf.Close())
	assert.Equal(t, 0, buf.LineCount())
}

func TestEmptyFileIsNeverMapped(t *testing.T) {
	path := writeFile(t, "empty.log", nil)

	buf, err := LoadFile(path, LoadOptions{MmapThreshold: 1})
	require.NoError(t, err)
	assert.False(t, buf.Mapped())
	assert.Equal(t, 0, buf.LineCount())
}

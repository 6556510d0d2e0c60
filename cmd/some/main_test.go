package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apppkg "github.com/kk-code-lab/some/internal/app"
	"github.com/kk-code-lab/some/internal/buffer"
)

// stubPager records the options the pager would start with.
func stubPager(t *testing.T, tty bool) *apppkg.Options {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	var got apppkg.Options
	prevStart, prevTTY := startPager, isTerminal
	startPager = func(_ context.Context, opts apppkg.Options) error {
		got = opts
		return nil
	}
	isTerminal = func(*os.File) bool { return tty }
	t.Cleanup(func() {
		startPager, isTerminal = prevStart, prevTTY
	})
	return &got
}

func runSome(t *testing.T, stdin *os.File, args ...string) (int, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), append([]string{"some"}, args...), stdin, &stdout, &stderr)
	return code, stderr.String()
}

func TestRunWithoutInputPrintsUsage(t *testing.T) {
	stubPager(t, true)

	code, stderr := runSome(t, os.Stdin)
	assert.Equal(t, 1, code)
	assert.Equal(t, "Usage: some [OPTIONS] [FILE]...\nTry 'some --help' for more information.\n", stderr)
}

func TestRunDiffRequiresFile(t *testing.T) {
	stubPager(t, true)

	code, stderr := runSome(t, os.Stdin, "--diff", "b.txt")
	assert.Equal(t, 1, code)
	assert.Equal(t, "some: --diff requires a FILE argument\n", stderr)
}

func TestRunReportsEveryUnreadableFile(t *testing.T) {
	stubPager(t, true)
	dir := t.TempDir()
	missingA := filepath.Join(dir, "a.txt")
	missingB := filepath.Join(dir, "b.txt")

	code, stderr := runSome(t, os.Stdin, missingA, missingB)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "some: "+missingA+": ")
	assert.Contains(t, stderr, "some: "+missingB+": ")
	assert.Contains(t, stderr, "some: no files could be opened\n")
}

func TestRunSkipsUnreadableFiles(t *testing.T) {
	got := stubPager(t, true)
	dir := t.TempDir()
	good := filepath.Join(dir, "good.txt")
	require.NoError(t, os.WriteFile(good, []byte("one\ntwo\n"), 0o644))

	code, stderr := runSome(t, os.Stdin, filepath.Join(dir, "missing.txt"), good)
	assert.Equal(t, 0, code)
	assert.Contains(t, stderr, "missing.txt")
	require.Len(t, got.Buffers, 1)
	assert.Equal(t, good, got.Buffers[0].Path)
}

func TestRunMergesConfigAndFlags(t *testing.T) {
	got := stubPager(t, true)
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("[general]\ntab_width = 8\nwrap = true\n"), 0o644))
	file := filepath.Join(dir, "main.go")
	require.NoError(t, os.WriteFile(file, []byte("package main\n"), 0o644))

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{
		"some", "--config", cfgPath, "-n", "-f", "-N", "12", "-p", "main", "--no-syntax", file,
	}, os.Stdin, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())

	general := got.Settings.General
	assert.True(t, general.LineNumbers)
	assert.True(t, general.Wrap)
	assert.False(t, general.Syntax)
	assert.Equal(t, 8, general.TabWidth)
	assert.Equal(t, 12, got.StartLine)
	assert.Equal(t, "main", got.Pattern)
	assert.True(t, got.Follow)
	assert.NotNil(t, got.Clipboard)
}

func TestRunReadsPipedStdin(t *testing.T) {
	got := stubPager(t, false)
	r, w, err := os.Pipe()
	require.NoError(t, err)
	_, err = w.WriteString("alpha\nbeta\n")
	require.NoError(t, err)
	require.NoError(t, w.Close())
	defer func() { _ = r.Close() }()

	code, stderr := runSome(t, r)
	require.Equal(t, 0, code, stderr)
	require.Len(t, got.Buffers, 1)
	assert.Equal(t, "[stdin]", got.Buffers[0].Name)
	assert.Equal(t, 2, got.Buffers[0].LineCount())
	assert.False(t, got.Buffers[0].Reloadable())
}

func TestRunBadConfigFails(t *testing.T) {
	stubPager(t, true)
	cfgPath := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("[general\n"), 0o644))

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"some", "--config", cfgPath, "x"}, os.Stdin, &stdout, &stderr)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "some: load config:")
}

func TestOpenBuffersDiff(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.txt")
	b := filepath.Join(dir, "b.txt")
	require.NoError(t, os.WriteFile(a, []byte("one\ntwo\n"), 0o644))
	require.NoError(t, os.WriteFile(b, []byte("one\nthree\n"), 0o644))

	var stderr bytes.Buffer
	bufs, err := openBuffers([]string{a}, source{diffPath: b}, &stderr)
	require.NoError(t, err)
	require.Len(t, bufs, 1)
	assert.True(t, bufs[0].IsDiff)
	assert.False(t, bufs[0].Reloadable())

	_, err = openBuffers([]string{filepath.Join(dir, "missing")}, source{diffPath: b}, &stderr)
	assert.Error(t, err)
}

func TestOpenBuffersKeepsArgumentOrder(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for _, name := range []string{"z.log", "a.log", "m.log"} {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte(name+"\n"), 0o644))
		paths = append(paths, p)
	}

	var stderr bytes.Buffer
	bufs, err := openBuffers(paths, source{load: buffer.LoadOptions{}}, &stderr)
	require.NoError(t, err)
	require.Len(t, bufs, 3)
	for i, buf := range bufs {
		assert.Equal(t, paths[i], buf.Path)
	}
	assert.Empty(t, stderr.String())
}

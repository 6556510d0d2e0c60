package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitEvent(t *testing.T, w *Watcher, path string) Event {
	t.Helper()
	timeout := time.After(5 * time.Second)
	for {
		select {
		case ev, ok := <-w.Events():
			require.True(t, ok, "event channel closed")
			if ev.Path == path {
				return ev
			}
		case <-timeout:
			t.Fatalf("no event for %s", path)
			return Event{}
		}
	}
}

func TestWatcherReportsWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.log")
	require.NoError(t, os.WriteFile(path, []byte("one\n"), 0o644))

	w, err := New([]string{path}, zerolog.Nop())
	require.NoError(t, err)
	defer func() { _ = w.Close() }()

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString("two\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	abs, err := filepath.Abs(path)
	require.NoError(t, err)
	ev := waitEvent(t, w, abs)
	assert.Equal(t, abs, ev.Path)
}

func TestWatcherIgnoresUntrackedSiblings(t *testing.T) {
	dir := t.TempDir()
	tracked := filepath.Join(dir, "tracked.log")
	other := filepath.Join(dir, "other.log")
	require.NoError(t, os.WriteFile(tracked, nil, 0o644))

	w, err := New([]string{tracked}, zerolog.Nop())
	require.NoError(t, err)
	defer func() { _ = w.Close() }()

	require.NoError(t, os.WriteFile(other, []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(tracked, []byte("y"), 0o644))

	abs, err := filepath.Abs(tracked)
	require.NoError(t, err)
	for {
		ev := waitEvent(t, w, abs)
		assert.NotEqual(t, other, ev.Path)
		if ev.Path == abs {
			break
		}
	}
}

func TestCloseClosesEvents(t *testing.T) {
	w, err := New(nil, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, w.Close())

	_, ok := <-w.Events()
	assert.False(t, ok)
	assert.ErrorIs(t, w.Add(filepath.Join(t.TempDir(), "late.log")), ErrClosed)
}

func TestAddMissingDirectory(t *testing.T) {
	w, err := New(nil, zerolog.Nop())
	require.NoError(t, err)
	defer func() { _ = w.Close() }()

	err = w.Add(filepath.Join(t.TempDir(), "missing", "file.log"))
	assert.Error(t, err)
}

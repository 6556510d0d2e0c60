package watch

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// ErrClosed is returned when adding paths to a closed watcher.
var ErrClosed = errors.New("watcher closed")

const eventBuffer = 64

// Event reports that a watched file was written or created.
type Event struct {
	Path string
	Op   fsnotify.Op
}

// Watcher tracks a set of files by watching their parent directories, so
// files replaced by rename or recreated after truncation keep reporting.
type Watcher struct {
	mu      sync.Mutex
	watcher *fsnotify.Watcher
	files   map[string]bool
	dirs    map[string]bool
	closed  bool

	events chan Event
	done   chan struct{}
	wg     sync.WaitGroup
	log    zerolog.Logger
}

// New starts a watcher over paths. Paths that cannot be watched are
// logged and skipped.
func New(paths []string, log zerolog.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	w := &Watcher{
		watcher: fsw,
		files:   make(map[string]bool),
		dirs:    make(map[string]bool),
		events:  make(chan Event, eventBuffer),
		done:    make(chan struct{}),
		log:     log,
	}
	for _, p := range paths {
		if err := w.Add(p); err != nil {
			w.log.Warn().Err(err).Str("path", p).Msg("cannot watch file")
		}
	}
	w.wg.Add(1)
	go w.loop()
	return w, nil
}

// Add starts reporting changes to path.
func (w *Watcher) Add(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrClosed
	}
	dir := filepath.Dir(abs)
	if !w.dirs[dir] {
		if err := w.watcher.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
		w.dirs[dir] = true
	}
	w.files[abs] = true
	return nil
}

// Events delivers change notifications. It is closed by Close.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Close stops watching and closes the event channel.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	w.mu.Unlock()

	close(w.done)
	err := w.watcher.Close()
	w.wg.Wait()
	close(w.events)
	return err
}

func (w *Watcher) loop() {
	defer w.wg.Done()
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handle(ev)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Error().Err(err).Msg("watcher error")
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event) {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
		return
	}
	path := filepath.Clean(ev.Name)
	w.mu.Lock()
	tracked := w.files[path]
	w.mu.Unlock()
	if !tracked {
		return
	}

	w.log.Debug().Str("path", path).Str("op", ev.Op.String()).Msg("file system event")
	select {
	case w.events <- Event{Path: path, Op: ev.Op}:
	default:
		// The consumer reloads on any event, so a full queue already
		// holds one for this change.
		w.log.Debug().Str("path", path).Msg("event queue full, dropping")
	}
}

//go:build unix

package buffer

import (
	"fmt"
	"math"
	"os"

	"golang.org/x/sys/unix"
)

// mappedSource is a shared read-only mapping of a live file. A file
// truncated underneath it (copytruncate log rotation, for one) faults with
// SIGBUS when bytes past the new end are touched; follow mode reloads on
// change and remaps.
type mappedSource struct {
	mapping []byte
	data    []byte
}

func (s *mappedSource) Bytes() []byte { return s.data }
func (s *mappedSource) Len() int      { return len(s.data) }
func (s *mappedSource) Mapped() bool  { return true }

func (s *mappedSource) Close() error {
	if s.mapping == nil {
		return nil
	}
	err := unix.Munmap(s.mapping)
	s.mapping = nil
	s.data = nil
	return err
}

// mapFile maps size bytes of path read-only. The caller guarantees size > 0.
func mapFile(path string, size int64) (Source, error) {
	if size > math.MaxInt {
		return nil, fmt.Errorf("mmap %s: file too large (%d bytes)", path, size)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()

	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("mmap %s: %w", path, err)
	}
	src := &mappedSource{mapping: data, data: data}
	if hasUTF8BOM(data) {
		src.data = data[len(utf8BOM):]
	}
	return src, nil
}

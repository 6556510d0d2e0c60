//go:build !unix

package buffer

import "os"

// mapFile falls back to a heap copy where mmap is not available.
func mapFile(path string, _ int64) (Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return newHeapSource(normalizeEncoding(data)), nil
}

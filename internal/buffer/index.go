package buffer

import "bytes"

// LineIndex holds the byte offset of every line start, strictly increasing.
type LineIndex []int

// Index builds the line index of data: offset 0 plus the offset following
// every '\n' that is not the final byte. Empty data has zero lines.
func Index(data []byte) LineIndex {
	if len(data) == 0 {
		return nil
	}
	offsets := make(LineIndex, 1, len(data)/64+1)
	pos := 0
	for {
		rel := bytes.IndexByte(data[pos:], '\n')
		if rel == -1 {
			break
		}
		next := pos + rel + 1
		if next >= len(data) {
			break
		}
		offsets = append(offsets, next)
		pos = next
	}
	return offsets
}

// span returns the byte range of line i, including its terminator.
func (idx LineIndex) span(i, total int) (int, int, bool) {
	if i < 0 || i >= len(idx) {
		return 0, 0, false
	}
	end := total
	if i+1 < len(idx) {
		end = idx[i+1]
	}
	return idx[i], end, true
}

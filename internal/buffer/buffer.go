package buffer

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

const (
	// DefaultMmapThreshold is the file size from which content is mapped
	// instead of copied onto the heap.
	DefaultMmapThreshold int64 = 10 * 1024 * 1024

	binarySniffSize = 8 * 1024
	stdinName       = "[stdin]"
)

// ErrNotReloadable is returned when reloading content that has no backing file.
var ErrNotReloadable = errors.New("buffer is not reloadable")

// ChangeKind marks how a line differs from the version-control base.
type ChangeKind int

const (
	ChangeNone ChangeKind = iota
	ChangeAdded
	ChangeModified
	ChangeDeleted
)

func (k ChangeKind) String() string {
	switch k {
	case ChangeAdded:
		return "added"
	case ChangeModified:
		return "modified"
	case ChangeDeleted:
		return "deleted"
	default:
		return "none"
	}
}

// LoadOptions controls how file content is brought into memory.
type LoadOptions struct {
	MmapThreshold int64
}

func (o LoadOptions) threshold() int64 {
	if o.MmapThreshold <= 0 {
		return DefaultMmapThreshold
	}
	return o.MmapThreshold
}

// Buffer is one open document: its content, the line index over that
// content, and display metadata.
type Buffer struct {
	source Source
	index  LineIndex
	binary bool
	opts   LoadOptions

	// Path is the backing file; empty for stdin and synthetic content.
	Path string
	// Name is shown in the status bar.
	Name string
	// Changes maps 0-indexed lines to their version-control change kind.
	Changes map[int]ChangeKind
	// IsDiff is set for synthesized unified diffs.
	IsDiff bool
}

// LoadFile opens path, decompressing recognised encodings and mapping the
// file when it is at least opts.MmapThreshold bytes.
func LoadFile(path string, opts LoadOptions) (*Buffer, error) {
	src, err := loadSource(path, opts)
	if err != nil {
		return nil, err
	}
	b := &Buffer{
		opts:    opts,
		Path:    path,
		Name:    displayName(path),
		Changes: map[int]ChangeKind{},
	}
	b.setSource(src)
	return b, nil
}

// LoadReader reads r to the end into a heap buffer. Used for stdin.
func LoadReader(name string, r io.Reader) (*Buffer, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	if name == "" {
		name = stdinName
	}
	return FromBytes(name, normalizeEncoding(data)), nil
}

// FromBytes wraps data in a heap buffer without a backing file.
func FromBytes(name string, data []byte) *Buffer {
	b := &Buffer{
		Name:    name,
		Changes: map[int]ChangeKind{},
	}
	b.setSource(newHeapSource(data))
	return b
}

func loadSource(path string, opts LoadOptions) (Source, error) {
	if open := decompressorFor(path); open != nil {
		data, err := readCompressed(path, open)
		if err != nil {
			return nil, err
		}
		return newHeapSource(normalizeEncoding(data)), nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s: is a directory", path)
	}

	if size := info.Size(); size > 0 && size >= opts.threshold() {
		src, err := mapFile(path, size)
		if err != nil {
			return nil, err
		}
		if !isUTF16(src.Bytes()) {
			return src, nil
		}
		data := normalizeEncoding(src.Bytes())
		_ = src.Close()
		return newHeapSource(data), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return newHeapSource(normalizeEncoding(data)), nil
}

func (b *Buffer) setSource(src Source) {
	data := src.Bytes()
	b.source = src
	b.index = Index(data)
	b.binary = detectBinary(data)
}

func detectBinary(data []byte) bool {
	if len(data) > binarySniffSize {
		data = data[:binarySniffSize]
	}
	return bytes.IndexByte(data, 0) != -1
}

func displayName(path string) string {
	if name := filepath.Base(path); name != "." && name != string(filepath.Separator) {
		return name
	}
	return path
}

// Reload re-runs the load procedure for the backing file and swaps in the
// new content and index together. Buffers read from stdin keep their
// content; synthesized diffs cannot be reloaded.
func (b *Buffer) Reload() error {
	if b.IsDiff {
		return ErrNotReloadable
	}
	if b.Path == "" {
		return nil
	}
	src, err := loadSource(b.Path, b.opts)
	if err != nil {
		return fmt.Errorf("reload %s: %w", b.Path, err)
	}
	old := b.source
	b.setSource(src)
	if old != nil {
		_ = old.Close()
	}
	return nil
}

// Reloadable reports whether Reload can pick up new content.
func (b *Buffer) Reloadable() bool {
	return b.Path != "" && !b.IsDiff
}

// Close releases the content source.
func (b *Buffer) Close() error {
	if b.source == nil {
		return nil
	}
	err := b.source.Close()
	b.source = nil
	b.index = nil
	return err
}

// Mapped reports whether the content is memory-mapped.
func (b *Buffer) Mapped() bool {
	return b.source != nil && b.source.Mapped()
}

// Size is the content length in bytes.
func (b *Buffer) Size() int {
	if b.source == nil {
		return 0
	}
	return b.source.Len()
}

// LineCount is the number of text lines.
func (b *Buffer) LineCount() int {
	return len(b.index)
}

// IsBinary reports whether a NUL byte occurs in the first 8 KiB.
func (b *Buffer) IsBinary() bool {
	return b.binary
}

// DisplayLineCount is the number of rows the viewport scrolls over: hex rows
// for binary content, text lines otherwise.
func (b *Buffer) DisplayLineCount() int {
	if b.binary {
		return b.HexRowCount()
	}
	return b.LineCount()
}

// LineBytes returns line i without its trailing "\n" and "\r". The slice
// aliases the content and must not be modified or retained across Reload.
func (b *Buffer) LineBytes(i int) ([]byte, bool) {
	if b.source == nil {
		return nil, false
	}
	data := b.source.Bytes()
	start, end, ok := b.index.span(i, len(data))
	if !ok {
		return nil, false
	}
	line := data[start:end]
	line = bytes.TrimSuffix(line, []byte{'\n'})
	line = bytes.TrimSuffix(line, []byte{'\r'})
	if !utf8.Valid(line) {
		return nil, false
	}
	return line, true
}

// Line returns line i as text. ok is false when i is out of range or the
// line is not valid UTF-8.
func (b *Buffer) Line(i int) (string, bool) {
	line, ok := b.LineBytes(i)
	if !ok {
		return "", false
	}
	return string(line), true
}

// Snapshot copies every line so a background scan is unaffected by a later
// Reload. Undecodable lines become empty strings to keep numbering aligned.
func (b *Buffer) Snapshot() Snapshot {
	lines := make(Snapshot, b.LineCount())
	for i := range lines {
		lines[i], _ = b.Line(i)
	}
	return lines
}

// Text joins the inclusive line range [start, end] with newlines.
func (b *Buffer) Text(start, end int) string {
	if start > end {
		start, end = end, start
	}
	if start < 0 {
		start = 0
	}
	if end >= b.LineCount() {
		end = b.LineCount() - 1
	}
	var sb strings.Builder
	for i := start; i <= end; i++ {
		if i > start {
			sb.WriteByte('\n')
		}
		line, _ := b.Line(i)
		sb.WriteString(line)
	}
	return sb.String()
}

// Snapshot is an immutable line-wise copy of a buffer.
type Snapshot []string

func (s Snapshot) LineCount() int { return len(s) }

func (s Snapshot) Line(i int) (string, bool) {
	if i < 0 || i >= len(s) {
		return "", false
	}
	return s[i], true
}

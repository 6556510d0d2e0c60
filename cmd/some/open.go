package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/kk-code-lab/some/internal/buffer"
)

var (
	errUsage       = errors.New("no input")
	errNoFiles     = errors.New("no files could be opened")
	errDiffNeedsIn = errors.New("--diff requires a FILE argument")
)

// source describes where buffers come from besides the file arguments.
type source struct {
	diffPath string
	stdin    io.Reader
	stdinTTY bool
	load     buffer.LoadOptions
}

// openBuffers loads the buffers to page. Files that fail to open are
// reported on stderr and skipped.
func openBuffers(files []string, src source, stderr io.Writer) ([]*buffer.Buffer, error) {
	if src.diffPath != "" {
		if len(files) == 0 {
			return nil, errDiffNeedsIn
		}
		buf, err := buffer.NewDiff(files[0], src.diffPath)
		if err != nil {
			return nil, fmt.Errorf("diff %s against %s: %w", files[0], src.diffPath, err)
		}
		return []*buffer.Buffer{buf}, nil
	}

	if len(files) == 0 {
		if src.stdinTTY || src.stdin == nil {
			return nil, errUsage
		}
		buf, err := buffer.LoadReader("", src.stdin)
		if err != nil {
			return nil, err
		}
		return []*buffer.Buffer{buf}, nil
	}

	bufs := make([]*buffer.Buffer, 0, len(files))
	for _, path := range files {
		buf, err := buffer.LoadFile(path, src.load)
		if err != nil {
			fmt.Fprintf(stderr, "some: %s: %v\n", path, err)
			continue
		}
		bufs = append(bufs, buf)
	}
	if len(bufs) == 0 {
		return nil, errNoFiles
	}
	return bufs, nil
}

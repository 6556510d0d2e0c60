package vcs

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/bluekeyes/go-gitdiff/gitdiff"

	"github.com/kk-code-lab/some/internal/buffer"
)

const gitTimeout = 5 * time.Second

var runGit = func(ctx context.Context, dir string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		if msg := bytes.TrimSpace(stderr.Bytes()); len(msg) > 0 {
			return nil, fmt.Errorf("git %s: %w: %s", args[0], err, msg)
		}
		return nil, fmt.Errorf("git %s: %w", args[0], err)
	}
	return out, nil
}

// Changes reports the working-tree changes of path against HEAD, keyed by
// 0-indexed line in the current file. Files outside a repository yield an
// error; untracked or unchanged files yield an empty map.
func Changes(ctx context.Context, path string) (map[int]buffer.ChangeKind, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, gitTimeout)
	defer cancel()

	out, err := runGit(ctx, filepath.Dir(abs), "diff", "HEAD", "--no-color", "--no-ext-diff", "--unified=0", "--", filepath.Base(abs))
	if err != nil {
		return nil, err
	}
	return parse(bytes.NewReader(out))
}

func parse(r io.Reader) (map[int]buffer.ChangeKind, error) {
	files, _, err := gitdiff.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse diff: %w", err)
	}
	changes := make(map[int]buffer.ChangeKind)
	for _, f := range files {
		for _, frag := range f.TextFragments {
			markFragment(changes, frag)
		}
	}
	return changes, nil
}

func markFragment(changes map[int]buffer.ChangeKind, frag *gitdiff.TextFragment) {
	start := int(frag.NewPosition) - 1
	if frag.NewLines == 0 {
		// Removed lines sit after NewPosition; lines removed from the top
		// of the file have no line to mark.
		if start >= 0 {
			mark(changes, start, buffer.ChangeDeleted)
		}
		return
	}
	kind := buffer.ChangeModified
	if frag.OldLines == 0 {
		kind = buffer.ChangeAdded
	}
	for i := 0; i < int(frag.NewLines); i++ {
		mark(changes, start+i, kind)
	}
}

// mark records kind for line unless an earlier hunk already did.
func mark(changes map[int]buffer.ChangeKind, line int, kind buffer.ChangeKind) {
	if line < 0 {
		return
	}
	if _, ok := changes[line]; !ok {
		changes[line] = kind
	}
}

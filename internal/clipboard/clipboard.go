package clipboard

import (
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/atotto/clipboard"
)

// ErrUnavailable is returned when no clipboard mechanism works.
var ErrUnavailable = errors.New("clipboard unavailable")

// Clipboard accepts text to copy.
type Clipboard interface {
	WriteAll(text string) error
}

var (
	lookPath    = exec.LookPath
	execCommand = exec.Command
	unsupported = func() bool { return clipboard.Unsupported }
	writeNative = clipboard.WriteAll
)

// System writes through the platform clipboard, falling back to a copy
// command found on PATH when the native backend is unsupported or fails.
type System struct {
	fallback []string
}

func New() *System {
	cmd, _ := detectCommand(runtime.GOOS, lookPath)
	return &System{fallback: cmd}
}

// Available reports whether any clipboard backend exists.
func (s *System) Available() bool {
	return !unsupported() || len(s.fallback) > 0
}

func (s *System) WriteAll(text string) error {
	var nativeErr error
	if !unsupported() {
		if nativeErr = writeNative(text); nativeErr == nil {
			return nil
		}
	}
	if len(s.fallback) == 0 {
		if nativeErr != nil {
			return fmt.Errorf("%w: %w", ErrUnavailable, nativeErr)
		}
		return ErrUnavailable
	}
	cmd := execCommand(s.fallback[0], s.fallback[1:]...)
	cmd.Stdin = strings.NewReader(text)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w", filepath.Base(s.fallback[0]), err)
	}
	return nil
}

func detectCommand(goos string, lookPath func(string) (string, error)) ([]string, bool) {
	trySingle := func(candidates ...string) ([]string, bool) {
		for _, candidate := range candidates {
			if path, err := lookPath(candidate); err == nil && path != "" {
				return []string{path}, true
			}
		}
		return nil, false
	}

	if strings.EqualFold(goos, "windows") {
		if cmd, ok := trySingle("clip.exe", "clip"); ok {
			return cmd, true
		}
		for _, ps := range []string{"powershell", "powershell.exe", "pwsh"} {
			if path, err := lookPath(ps); err == nil && path != "" {
				return []string{path, "-NoLogo", "-NoProfile", "-Command", "Set-Clipboard"}, true
			}
		}
		return nil, false
	}

	if cmd, ok := trySingle("pbcopy", "wl-copy"); ok {
		return cmd, true
	}
	if path, err := lookPath("xclip"); err == nil && path != "" {
		return []string{path, "-selection", "clipboard"}, true
	}
	if path, err := lookPath("xsel"); err == nil && path != "" {
		return []string{path, "--clipboard", "--input"}, true
	}
	return nil, false
}

package clipboard

import (
	"errors"
	"os"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func only(name, path string) func(string) (string, error) {
	return func(cmd string) (string, error) {
		if cmd == name {
			return path, nil
		}
		return "", errors.New("not found")
	}
}

func TestDetectCommand(t *testing.T) {
	tests := []struct {
		name     string
		goos     string
		lookPath func(string) (string, error)
		want     []string
	}{
		{"pbcopy", "darwin", only("pbcopy", "/usr/bin/pbcopy"), []string{"/usr/bin/pbcopy"}},
		{"wayland", "linux", only("wl-copy", "/usr/bin/wl-copy"), []string{"/usr/bin/wl-copy"}},
		{"xclip", "linux", only("xclip", "/usr/bin/xclip"), []string{"/usr/bin/xclip", "-selection", "clipboard"}},
		{"xsel", "linux", only("xsel", "/usr/bin/xsel"), []string{"/usr/bin/xsel", "--clipboard", "--input"}},
		{"clip", "windows", only("clip.exe", `C:\Windows\System32\clip.exe`), []string{`C:\Windows\System32\clip.exe`}},
		{"powershell", "windows", only("powershell", `C:\ps.exe`), []string{`C:\ps.exe`, "-NoLogo", "-NoProfile", "-Command", "Set-Clipboard"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := detectCommand(tt.goos, tt.lookPath)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	_, ok := detectCommand("linux", only("nothing", ""))
	assert.False(t, ok)
}

func stubNative(t *testing.T, isUnsupported bool, write func(string) error) {
	t.Helper()
	prevUnsupported, prevWrite := unsupported, writeNative
	unsupported = func() bool { return isUnsupported }
	writeNative = write
	t.Cleanup(func() {
		unsupported, writeNative = prevUnsupported, prevWrite
	})
}

func TestWriteAllUsesNativeBackend(t *testing.T) {
	var got string
	stubNative(t, false, func(text string) error {
		got = text
		return nil
	})

	s := &System{}
	require.True(t, s.Available())
	require.NoError(t, s.WriteAll("hello"))
	assert.Equal(t, "hello", got)
}

func TestWriteAllUnavailable(t *testing.T) {
	stubNative(t, true, nil)

	s := &System{}
	assert.False(t, s.Available())
	assert.ErrorIs(t, s.WriteAll("x"), ErrUnavailable)
}

func TestWriteAllWrapsNativeFailure(t *testing.T) {
	stubNative(t, false, func(string) error { return errors.New("no display") })

	err := (&System{}).WriteAll("x")
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Contains(t, err.Error(), "no display")
}

func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}
	if os.Getenv("HELPER_PROCESS_FAIL") == "1" {
		os.Exit(3)
	}
	os.Exit(0)
}

func helperCommand(fail bool) func(string, ...string) *exec.Cmd {
	return func(name string, args ...string) *exec.Cmd {
		cmd := exec.Command(os.Args[0], "-test.run=TestHelperProcess", "--")
		cmd.Env = append(os.Environ(), "GO_WANT_HELPER_PROCESS=1")
		if fail {
			cmd.Env = append(cmd.Env, "HELPER_PROCESS_FAIL=1")
		}
		return cmd
	}
}

func TestWriteAllFallsBackToCommand(t *testing.T) {
	stubNative(t, true, nil)
	prev := execCommand
	t.Cleanup(func() { execCommand = prev })

	s := &System{fallback: []string{"/usr/bin/xclip", "-selection", "clipboard"}}
	require.True(t, s.Available())

	execCommand = helperCommand(false)
	assert.NoError(t, s.WriteAll("text"))

	execCommand = helperCommand(true)
	err := s.WriteAll("text")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "xclip")
}

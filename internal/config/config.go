package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/pelletier/go-toml/v2"

	"github.com/kk-code-lab/some/internal/keymap"
)

const (
	DefaultTheme    = "monokai"
	DefaultTabWidth = 4
	appDir          = "some"
	fileName        = "config.toml"
)

// Config is the resolved configuration: built-in defaults overlaid by the
// TOML file and then by command-line flags.
type Config struct {
	General General           `toml:"general"`
	Colors  Colors            `toml:"colors"`
	Keys    map[string]string `toml:"keys"`
}

type General struct {
	Theme         string `toml:"theme"`
	LineNumbers   bool   `toml:"line_numbers"`
	Wrap          bool   `toml:"wrap"`
	TabWidth      int    `toml:"tab_width"`
	Mouse         bool   `toml:"mouse"`
	SmartCase     bool   `toml:"smart_case"`
	Syntax        bool   `toml:"syntax"`
	MmapThreshold int64  `toml:"mmap_threshold"`
}

// Colors holds "#rrggbb" strings for the chrome around the content.
type Colors struct {
	StatusBarFg   string `toml:"status_bar_fg"`
	StatusBarBg   string `toml:"status_bar_bg"`
	SearchMatchFg string `toml:"search_match_fg"`
	SearchMatchBg string `toml:"search_match_bg"`
	LineNumberFg  string `toml:"line_number_fg"`
}

// Flags carries the command-line values that override the file.
type Flags struct {
	LineNumbers bool
	Wrap        bool
	Plain       bool
	NoSyntax    bool
	TabWidth    int
	Theme       string
}

func Default() Config {
	return Config{
		General: General{
			Theme:         DefaultTheme,
			TabWidth:      DefaultTabWidth,
			Mouse:         true,
			SmartCase:     true,
			Syntax:        true,
			MmapThreshold: 10 * 1024 * 1024,
		},
		Colors: Colors{
			StatusBarFg:   "#cdd6f4",
			StatusBarBg:   "#1e1e2e",
			SearchMatchFg: "#1e1e2e",
			SearchMatchBg: "#f9e2af",
			LineNumberFg:  "#6c7086",
		},
		Keys: map[string]string{},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/some/config.toml, falling back to
// the platform configuration directory.
func DefaultPath() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appDir, fileName), nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate config dir: %w", err)
	}
	return filepath.Join(dir, appDir, fileName), nil
}

// Load reads path over the defaults. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	return parse(path, data)
}

func parse(source string, data []byte) (Config, error) {
	cfg := Default()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return Default(), fmt.Errorf("parse config %s:%d:%d: %w", source, row, col, err)
		}
		return Default(), fmt.Errorf("parse config %s: %w", source, err)
	}
	if cfg.General.TabWidth <= 0 {
		cfg.General.TabWidth = DefaultTabWidth
	}
	if cfg.General.Theme == "" {
		cfg.General.Theme = DefaultTheme
	}
	if cfg.Keys == nil {
		cfg.Keys = map[string]string{}
	}
	return cfg, nil
}

// MergeFlags applies command-line overrides. Boolean toggles only switch
// features on; --plain turns line numbers and syntax colouring off.
func (c *Config) MergeFlags(f Flags) {
	if f.LineNumbers {
		c.General.LineNumbers = true
	}
	if f.Wrap {
		c.General.Wrap = true
	}
	if f.NoSyntax {
		c.General.Syntax = false
	}
	if f.Plain {
		c.General.LineNumbers = false
		c.General.Syntax = false
	}
	if f.TabWidth > 0 && f.TabWidth != DefaultTabWidth {
		c.General.TabWidth = f.TabWidth
	}
	if f.Theme != "" && f.Theme != DefaultTheme {
		c.General.Theme = f.Theme
	}
}

// KeyOverrides resolves the [keys] table. Names that are not actions are
// returned sorted in unknown.
func (c Config) KeyOverrides() (overrides map[keymap.Action]string, unknown []string) {
	overrides = make(map[keymap.Action]string, len(c.Keys))
	for name, spec := range c.Keys {
		action, ok := keymap.ActionFromName(name)
		if !ok {
			unknown = append(unknown, name)
			continue
		}
		overrides[action] = spec
	}
	sort.Strings(unknown)
	return overrides, unknown
}

package keymap

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"
)

// Key identifies a key press independent of tcell event details. Rune is
// set only for printable keys (Code == tcell.KeyRune).
type Key struct {
	Code tcell.Key
	Rune rune
}

func RuneKey(r rune) Key { return Key{Code: tcell.KeyRune, Rune: r} }

// FromEvent normalizes a tcell key event. Control letters arrive from
// terminals as KeyCtrlA..KeyCtrlZ; tcell also reports some of them as
// Enter, Tab or Backspace, which are kept as such.
func FromEvent(ev *tcell.EventKey) Key {
	if ev == nil {
		return Key{}
	}
	if ev.Key() == tcell.KeyRune {
		return RuneKey(ev.Rune())
	}
	return Key{Code: ev.Key()}
}

func (k Key) String() string {
	if k.Code == tcell.KeyRune {
		if k.Rune == ' ' {
			return "space"
		}
		return string(k.Rune)
	}
	for name, code := range namedKeys {
		if code == k.Code && canonicalNames[name] {
			return name
		}
	}
	if k.Code >= tcell.KeyCtrlA && k.Code <= tcell.KeyCtrlZ {
		return fmt.Sprintf("ctrl+%c", 'a'+rune(k.Code-tcell.KeyCtrlA))
	}
	return fmt.Sprintf("key(%d)", k.Code)
}

var namedKeys = map[string]tcell.Key{
	"enter":     tcell.KeyEnter,
	"return":    tcell.KeyEnter,
	"tab":       tcell.KeyTab,
	"pagedown":  tcell.KeyPgDn,
	"pgdn":      tcell.KeyPgDn,
	"pageup":    tcell.KeyPgUp,
	"pgup":      tcell.KeyPgUp,
	"home":      tcell.KeyHome,
	"end":       tcell.KeyEnd,
	"up":        tcell.KeyUp,
	"down":      tcell.KeyDown,
	"left":      tcell.KeyLeft,
	"right":     tcell.KeyRight,
	"backspace": tcell.KeyBackspace2,
	"delete":    tcell.KeyDelete,
	"del":       tcell.KeyDelete,
	"escape":    tcell.KeyEscape,
	"esc":       tcell.KeyEscape,
}

var canonicalNames = map[string]bool{
	"enter": true, "tab": true, "pagedown": true, "pageup": true, "home": true,
	"end": true, "up": true, "down": true, "left": true, "right": true,
	"backspace": true, "delete": true, "escape": true,
}

// ParseKeySpec parses a binding such as "j", "G", "ctrl+d", "pgdn" or
// "space". Names are case-insensitive; a single other character is taken
// literally and keeps its case.
func ParseKeySpec(spec string) (Key, bool) {
	if spec == "" {
		return Key{}, false
	}
	lower := strings.ToLower(spec)
	if rest, ok := strings.CutPrefix(lower, "ctrl+"); ok {
		if len(rest) != 1 || rest[0] < 'a' || rest[0] > 'z' {
			return Key{}, false
		}
		return Key{Code: tcell.KeyCtrlA + tcell.Key(rest[0]-'a')}, true
	}
	if lower == "space" {
		return RuneKey(' '), true
	}
	if code, ok := namedKeys[lower]; ok {
		return Key{Code: code}, true
	}
	if utf8.RuneCountInString(spec) == 1 {
		r, _ := utf8.DecodeRuneInString(spec)
		return RuneKey(r), true
	}
	return Key{}, false
}

// Table maps keys to actions. Primary bindings come from defaults plus user
// overrides; secondary bindings are fixed and consulted second.
type Table struct {
	primary   map[Key]Action
	secondary map[Key]Action
}

var defaultPrimary = map[Action][]string{
	ActionQuit:              {"q"},
	ActionScrollDown:        {"j"},
	ActionScrollUp:          {"k"},
	ActionHalfPageDown:      {"d", "ctrl+d"},
	ActionHalfPageUp:        {"u", "ctrl+u"},
	ActionFullPageDown:      {"space"},
	ActionFullPageUp:        {"b"},
	ActionGotoTop:           {"g"},
	ActionGotoBottom:        {"G"},
	ActionPrevBuffer:        {"["},
	ActionNextBuffer:        {"]"},
	ActionSearchForward:     {"/"},
	ActionSearchBackward:    {"?"},
	ActionNextMatch:         {"n"},
	ActionPrevMatch:         {"N"},
	ActionToggleLineNumbers: {"l"},
	ActionToggleWrap:        {"w"},
	ActionFollowMode:        {"F"},
	ActionEnterCommand:      {":"},
	ActionFilter:            {"&"},
	ActionVisual:            {"v"},
	ActionSetMark:           {"m"},
	ActionJumpMark:          {"'"},
	ActionScrollRight:       {"right"},
	ActionScrollLeft:        {"left"},
}

var defaultSecondary = map[string]Action{
	"down":   ActionScrollDown,
	"enter":  ActionScrollDown,
	"up":     ActionScrollUp,
	"pgdn":   ActionFullPageDown,
	"pgup":   ActionFullPageUp,
	"home":   ActionGotoTop,
	"end":    ActionGotoBottom,
	"ctrl+c": ActionQuit,
}

// Default returns the built-in binding table.
func Default() *Table {
	t := &Table{
		primary:   make(map[Key]Action),
		secondary: make(map[Key]Action),
	}
	for action, specs := range defaultPrimary {
		for _, spec := range specs {
			if key, ok := ParseKeySpec(spec); ok {
				t.primary[key] = action
			}
		}
	}
	for spec, action := range defaultSecondary {
		if key, ok := ParseKeySpec(spec); ok {
			t.secondary[key] = action
		}
	}
	return t
}

// Resolve looks a key up in the primary then the secondary table.
func (t *Table) Resolve(key Key) (Action, bool) {
	if action, ok := t.primary[key]; ok {
		return action, true
	}
	action, ok := t.secondary[key]
	return action, ok
}

// ResolveEvent is Resolve for a raw tcell event.
func (t *Table) ResolveEvent(ev *tcell.EventKey) (Action, bool) {
	return t.Resolve(FromEvent(ev))
}

// ApplyOverrides rebinds each action to the given spec. For every override
// the action's previous primary keys are removed before the new key is
// installed. Specs that do not parse leave the table untouched and are
// returned so the caller can report them.
func (t *Table) ApplyOverrides(overrides map[Action]string) []string {
	var rejected []string
	for action, spec := range overrides {
		key, ok := ParseKeySpec(spec)
		if !ok {
			rejected = append(rejected, fmt.Sprintf("%s = %q", action, spec))
			continue
		}
		for k, a := range t.primary {
			if a == action {
				delete(t.primary, k)
			}
		}
		t.primary[key] = action
	}
	return rejected
}

// Bindings lists the primary keys bound to action.
func (t *Table) Bindings(action Action) []Key {
	var keys []Key
	for k, a := range t.primary {
		if a == action {
			keys = append(keys, k)
		}
	}
	return keys
}

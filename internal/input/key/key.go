// Package key parses hotkey chord specifications into a canonical form
// used for binding commands. It accepts "Ctrl+Shift+B" style specs as
// well as Vim-style "<C-S-b>" notation and common key-name aliases.
package key

import "strings"

// Key identifies a non-character key.
type Key int

const (
	// KeyRune is a printable character key; the Chord's Rune field holds it.
	KeyRune Key = iota
	KeyEnter
	KeyEscape
	KeyTab
	KeyBackspace
	KeyDelete
	KeySpace
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyHome
	KeyEnd
)

// String returns the canonical key name.
func (k Key) String() string {
	switch k {
	case KeyRune:
		return ""
	case KeyEnter:
		return "enter"
	case KeyEscape:
		return "esc"
	case KeyTab:
		return "tab"
	case KeyBackspace:
		return "backspace"
	case KeyDelete:
		return "delete"
	case KeySpace:
		return "space"
	case KeyUp:
		return "up"
	case KeyDown:
		return "down"
	case KeyLeft:
		return "left"
	case KeyRight:
		return "right"
	case KeyHome:
		return "home"
	case KeyEnd:
		return "end"
	default:
		return "unknown"
	}
}

// keyNameMap maps lowercase key-name aliases to Keys.
var keyNameMap = map[string]Key{
	"enter":  KeyEnter,
	"return": KeyEnter,
	"cr":     KeyEnter,
	"esc":    KeyEscape,
	"escape": KeyEscape,
	"tab":    KeyTab,
	"bs":     KeyBackspace,
	"backspace": KeyBackspace,
	"del":    KeyDelete,
	"delete": KeyDelete,
	"space":  KeySpace,
	"up":     KeyUp,
	"down":   KeyDown,
	"left":   KeyLeft,
	"right":  KeyRight,
	"home":   KeyHome,
	"end":    KeyEnd,
}

// Modifier represents keyboard modifier keys as a bit set.
type Modifier uint8

const (
	// ModNone indicates no modifiers.
	ModNone Modifier = 0

	// ModShift indicates the Shift key.
	ModShift Modifier = 1 << iota

	// ModCtrl indicates the Control key.
	ModCtrl

	// ModAlt indicates the Alt key.
	ModAlt

	// ModMeta indicates the Meta key (Cmd on macOS, Win on Windows).
	ModMeta
)

// Has returns true if m contains the specified modifier.
func (m Modifier) Has(mod Modifier) bool {
	return m&mod != 0
}

// With returns a new Modifier with the specified modifier added.
func (m Modifier) With(mod Modifier) Modifier {
	return m | mod
}

// String returns the canonical modifier prefix, e.g. "ctrl+shift".
// Modifiers appear in the fixed order ctrl, alt, shift, meta so the
// result is usable as a map key.
func (m Modifier) String() string {
	if m == ModNone {
		return ""
	}
	var parts []string
	if m.Has(ModCtrl) {
		parts = append(parts, "ctrl")
	}
	if m.Has(ModAlt) {
		parts = append(parts, "alt")
	}
	if m.Has(ModShift) {
		parts = append(parts, "shift")
	}
	if m.Has(ModMeta) {
		parts = append(parts, "meta")
	}
	return strings.Join(parts, "+")
}

// modifierNameMap maps lowercase modifier aliases to Modifier values.
var modifierNameMap = map[string]Modifier{
	"ctrl":    ModCtrl,
	"control": ModCtrl,
	"c":       ModCtrl,
	"alt":     ModAlt,
	"a":       ModAlt,
	"option":  ModAlt,
	"opt":     ModAlt,
	"shift":   ModShift,
	"s":       ModShift,
	"meta":    ModMeta,
	"m":       ModMeta,
	"cmd":     ModMeta,
	"command": ModMeta,
	"super":   ModMeta,
	"win":     ModMeta,
}

// Chord is a single key press with modifiers.
type Chord struct {
	// Key identifies the key; KeyRune for character keys.
	Key Key

	// Rune is the character for KeyRune chords, lowercased.
	Rune rune

	// Modifiers contains the active modifier keys.
	Modifiers Modifier
}

// String returns the canonical normalized form of the chord, e.g.
// "ctrl+b" or "ctrl+shift+enter". Two specs that denote the same key
// combination always normalize to the same string, which is what the
// command registry uses as its rebind key.
func (c Chord) String() string {
	var name string
	if c.Key == KeyRune {
		name = string(c.Rune)
	} else {
		name = c.Key.String()
	}
	if mods := c.Modifiers.String(); mods != "" {
		return mods + "+" + name
	}
	return name
}

// Equals returns true if two chords denote the same key combination.
func (c Chord) Equals(other Chord) bool {
	return c.Key == other.Key && c.Rune == other.Rune && c.Modifiers == other.Modifiers
}

// Package mode implements the display-mode state machine: the rich
// rendered view, the raw source view, and the side-by-side split view,
// with optional persistence of the last mode across sessions.
package mode

import "strings"

// Mode is a display mode. The zero value is invalid; anything invalid
// observed at the API boundary is corrected to Wysiwyg.
type Mode int

const (
	// Wysiwyg shows the rendered rich view.
	Wysiwyg Mode = iota + 1
	// Source shows the raw markup view.
	Source
	// Split shows both views side by side.
	Split
)

// Valid reports whether m is one of the defined modes.
func (m Mode) Valid() bool {
	return m >= Wysiwyg && m <= Split
}

// String returns the persisted form of the mode.
func (m Mode) String() string {
	switch m {
	case Wysiwyg:
		return "wysiwyg"
	case Source:
		return "source"
	case Split:
		return "split"
	default:
		return "invalid"
	}
}

// Parse maps a persisted form back to a mode. Unknown values, including
// anything hand-edited in a settings store, correct to Wysiwyg.
func Parse(s string) Mode {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "wysiwyg":
		return Wysiwyg
	case "source":
		return Source
	case "split":
		return Split
	default:
		return Wysiwyg
	}
}

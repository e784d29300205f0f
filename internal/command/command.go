// Package command implements the dispatch pipeline for editing
// commands: a per-instance registry of named handlers layered over the
// platform's native executor, with hotkey bindings and the
// beforeCommand/afterCommand event envelope.
package command

import "errors"

// Package errors.
var (
	// ErrEmptyName is returned when a command is registered without a name.
	ErrEmptyName = errors.New("empty command name")

	// ErrNilFunc is returned when a command is registered without a handler.
	ErrNilFunc = errors.New("nil command func")

	// ErrValueType is returned by Exec when the value argument is neither
	// nil nor a string. Misconfigured callers fail fast instead of having
	// a stringified value reach the native executor.
	ErrValueType = errors.New("command value must be a string")
)

// Func is a command handler. It receives the lowercased command name,
// the native showUI flag, and the caller-supplied value. A non-nil
// return becomes the dispatch result (last one wins); returning exactly
// false additionally suppresses native execution.
type Func func(name string, showUI bool, value any) any

// Described is the full registration form: a handler plus hotkey
// chords bound to it and a readonly exemption.
type Described struct {
	Exec          Func
	Hotkeys       []string
	AllowReadonly bool
}

// entry is the resolved internal record a registration collapses to.
type entry struct {
	fn            Func
	allowReadonly bool
}

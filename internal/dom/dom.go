// Package dom abstracts the mutable document-tree substrate the engine
// edits, and the externally owned source element it keeps in sync. The
// engine never assumes a concrete rendering platform; everything it
// needs is expressed through these interfaces. Memory provides an
// in-process reference implementation for embedders without a real
// rendering substrate, and for tests.
package dom

import "errors"

// InvisibleSpace is the zero-width marker sequence some platforms leave
// in serialized markup. The engine strips it from any value it exposes.
const InvisibleSpace = "\uFEFF"

// Substrate errors.
var (
	// ErrUnsupportedCommand is returned by native executors for command
	// names they do not implement.
	ErrUnsupportedCommand = errors.New("unsupported native command")

	// ErrOffsetRange is returned when an offset lies outside the document.
	ErrOffsetRange = errors.New("offset out of range")
)

// Range is a span of the serialized document, in bytes. Start == End is
// a collapsed range (a caret).
type Range struct {
	Start int
	End   int
}

// Collapsed returns true if the range is a caret.
func (r Range) Collapsed() bool {
	return r.Start == r.End
}

// Document is the live, mutable structured representation of editable
// content. The engine owns its document exclusively.
type Document interface {
	// Markup returns the serialized form of the document.
	Markup() string

	// SetMarkup replaces the whole document content.
	SetMarkup(markup string)

	// InsertMarkup splices a fragment into the serialized form at the
	// given byte offset, preserving the selection around it.
	InsertMarkup(offset int, fragment string) error

	// Len returns the length of the serialized form in bytes.
	Len() int

	// Selection returns the current selection range, if any.
	Selection() (Range, bool)

	// SetSelection applies a selection range, clamped to the document.
	SetSelection(r Range)

	// SelectAll selects the whole document root.
	SelectAll()

	// Focus gives the rendered region input focus.
	Focus()

	// Blur removes input focus from the rendered region.
	Blur()

	// Focused reports whether the rendered region holds focus.
	Focused() bool
}

// Native is implemented by documents that expose the platform's native
// command-execution primitive. Native commands are best-effort: callers
// swallow failures.
type Native interface {
	// ExecNative runs a platform editing command against the current
	// selection. Unknown commands return ErrUnsupportedCommand.
	ExecNative(name string, showUI bool, value string) error
}

// SourceElement is the externally owned element whose value the engine
// keeps synchronized with the document's serialized content. The engine
// holds a non-owning reference and must never assume control over its
// lifecycle.
type SourceElement interface {
	// Value returns the element's current value.
	Value() string

	// SetValue writes the element's value.
	SetValue(value string)

	// Attribute returns a named attribute, if set.
	Attribute(name string) (string, bool)

	// SetAttribute sets a named attribute.
	SetAttribute(name, value string)

	// RemoveAttribute removes a named attribute.
	RemoveAttribute(name string)
}

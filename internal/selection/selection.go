// Package selection persists and restores the editing cursor across
// operations that temporarily disturb the document tree: locking,
// dialogs, programmatic mutation. Capture works by inserting inert
// marker nodes at the range boundaries and finding them again later.
package selection

import (
	"strings"

	"github.com/tbraden/inkstone/internal/dom"
)

// Snapshot is an opaque marker-based capture of a cursor or range
// position. It records the exact marker markup inserted into the tree,
// which is enough to find the markers again at restore time.
type Snapshot struct {
	startMarker string
	endMarker   string
	collapsed   bool
}

// Collapsed reports whether the snapshot captured a caret.
func (s Snapshot) Collapsed() bool {
	return s.collapsed
}

// Coordinator captures and restores selection state for one document.
type Coordinator struct {
	doc dom.Document
}

// New creates a coordinator for the given document.
func New(doc dom.Document) *Coordinator {
	return &Coordinator{doc: doc}
}

// Save inserts marker nodes at the current range boundaries and returns
// a snapshot that can re-locate them. With no selection, a caret at the
// document start is captured. The end marker is inserted first so the
// start offset stays valid.
func (c *Coordinator) Save() Snapshot {
	r, ok := c.doc.Selection()
	if !ok {
		r = dom.Range{}
	}

	if r.Collapsed() {
		marker := markerMarkup("collapsed", newMarkerID())
		c.doc.InsertMarkup(r.Start, marker)
		return Snapshot{startMarker: marker, collapsed: true}
	}

	start := markerMarkup("start", newMarkerID())
	end := markerMarkup("end", newMarkerID())
	c.doc.InsertMarkup(r.End, end)
	c.doc.InsertMarkup(r.Start, start)
	return Snapshot{startMarker: start, endMarker: end}
}

// Restore locates the snapshot's markers, removes them, and applies the
// range they spanned as the active selection. If the markers cannot be
// found (the tree was replaced wholesale) restoration is a soft no-op.
func (c *Coordinator) Restore(snap Snapshot) {
	if snap.startMarker == "" {
		return
	}

	markup := c.doc.Markup()
	si := strings.Index(markup, snap.startMarker)
	if si < 0 {
		return
	}
	markup = markup[:si] + markup[si+len(snap.startMarker):]

	if snap.collapsed {
		c.doc.SetMarkup(markup)
		c.doc.SetSelection(dom.Range{Start: si, End: si})
		return
	}

	ei := strings.Index(markup, snap.endMarker)
	if ei < 0 {
		// End marker lost; degrade to a caret at the start position.
		c.doc.SetMarkup(markup)
		c.doc.SetSelection(dom.Range{Start: si, End: si})
		return
	}
	markup = markup[:ei] + markup[ei+len(snap.endMarker):]
	c.doc.SetMarkup(markup)
	c.doc.SetSelection(dom.Range{Start: si, End: ei})
}

// RemoveMarkers unconditionally strips any leftover marker nodes from
// the tree. Every Save that is never Restored must still leave the tree
// marker-free by the next value read; the host invokes this on the
// removeMarkers bus event and before serialization.
func (c *Coordinator) RemoveMarkers() {
	markup := c.doc.Markup()
	stripped := StripMarkers(markup)
	if stripped != markup {
		c.doc.SetMarkup(stripped)
	}
}

// IsCollapsed reports whether the current selection is a caret. A
// missing selection counts as collapsed.
func (c *Coordinator) IsCollapsed() bool {
	r, ok := c.doc.Selection()
	return !ok || r.Collapsed()
}

// HTML returns the serialized markup of the current selection.
func (c *Coordinator) HTML() string {
	r, ok := c.doc.Selection()
	if !ok {
		return ""
	}
	markup := c.doc.Markup()
	if r.Start < 0 || r.End > len(markup) || r.Start > r.End {
		return ""
	}
	return markup[r.Start:r.End]
}

// Focus gives the rendered region input focus.
func (c *Coordinator) Focus() {
	c.doc.Focus()
}

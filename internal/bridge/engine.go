// Package bridge keeps the document tree and the externally owned
// source element convergent. All value traffic between the two flows
// through one Engine, which applies the rewrite hooks, scrubs marker
// and invisible-space artifacts, and bounds change-event recursion.
package bridge

import (
	"strings"
	"sync/atomic"

	"github.com/tbraden/inkstone/internal/dom"
	"github.com/tbraden/inkstone/internal/event"
	"github.com/tbraden/inkstone/internal/log"
	"github.com/tbraden/inkstone/internal/selection"
)

// DefaultRecursionLimit bounds how deep change handlers may re-enter
// the engine by setting values from inside a change notification.
const DefaultRecursionLimit = 10

// Engine synchronizes one document with one source element.
//
// The document is looked up through a function because it does not
// exist for the engine's whole life: before initialization completes
// (and after destruction begins) the lookup returns nil and the engine
// degrades to operating on the source element alone.
type Engine struct {
	bus    *event.Bus
	source dom.SourceElement
	docFn  func() dom.Document

	limit       int32
	changeDepth atomic.Int32
	log         *log.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithRecursionLimit overrides the change-recursion bound. Values
// below one fall back to the default.
func WithRecursionLimit(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.limit = int32(n)
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		e.log = l
	}
}

// New creates an engine bridging the source element and the document
// returned by docFn.
func New(bus *event.Bus, source dom.SourceElement, docFn func() dom.Document, opts ...Option) *Engine {
	e := &Engine{
		bus:    bus,
		source: source,
		docFn:  docFn,
		limit:  DefaultRecursionLimit,
		log:    log.Discard(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SourceValue returns the source element's current value.
func (e *Engine) SourceValue() string {
	return e.source.Value()
}

// SetSourceValue is the source-side half of the bridge. When the
// document's scrubbed value would actually change it routes through
// SetEditorValue so the document stays authoritative; otherwise it
// writes the source element and fires a change event carrying the new
// and previous values. Writing an identical value is a no-op: no
// write, no event. Change handlers that set values again re-enter
// here; once the recursion limit is exceeded both the write and the
// event are dropped, so a handler loop converges at the value written
// at the limit instead of overflowing. The counter resets when the
// outermost call unwinds, even if a handler panics.
func (e *Engine) SetSourceValue(value string) {
	if doc := e.docFn(); doc != nil && e.EditorValue(true) != value {
		e.SetEditorValue(value)
		return
	}

	old := e.source.Value()
	if old == value {
		return
	}

	depth := e.changeDepth.Add(1)
	if depth == 1 {
		defer e.changeDepth.Store(0)
	}
	if depth > e.limit {
		e.log.Error("change recursion limit reached (%d), dropping write", e.limit)
		return
	}
	e.source.SetValue(value)
	e.bus.Fire(event.Change, value, old)
}

// EditorValue returns the document's serialized content, scrubbed for
// external consumption: selection markers (when stripMarkers is set)
// and invisible-space artifacts are removed, and a tree holding only a
// placeholder break collapses to the empty string.
//
// A beforeGetValueFromEditor handler returning a string replaces the
// read entirely. Otherwise the scrubbed value is threaded through the
// afterGetValueFromEditor chain before being returned. With no
// document attached the source element's value is returned as is.
func (e *Engine) EditorValue(stripMarkers bool) string {
	if v, ok := e.bus.Fire(event.BeforeGetValueFromEditor).FirstString(); ok {
		return v
	}

	doc := e.docFn()
	if doc == nil {
		return e.source.Value()
	}

	value := doc.Markup()
	if stripMarkers {
		value = selection.StripMarkers(value)
	}
	value = strings.ReplaceAll(value, dom.InvisibleSpace, "")
	if value == "<br>" {
		value = ""
	}

	if out, ok := e.bus.Reduce(event.AfterGetValueFromEditor, value).(string); ok {
		value = out
	}
	return value
}

// SetEditorValue replaces the document content and pushes the result
// to the source element. The beforeSetValueToEditor event fires first:
// a handler returning false vetoes the whole write, and the last
// handler to return a string rewrites the incoming value. With no
// document attached only the source element is written.
func (e *Engine) SetEditorValue(value string) {
	res := e.bus.Fire(event.BeforeSetValueToEditor, value)
	if res.Cancelled() {
		return
	}
	if v, ok := res.LastString(); ok {
		value = v
	}

	doc := e.docFn()
	if doc == nil {
		e.SetSourceValue(value)
		return
	}

	if doc.Markup() != value {
		doc.SetMarkup(value)
	}
	e.Sync()
}

// Sync pushes the document's scrubbed value to the source element.
// When the two already agree this is a no-op, so repeated syncs fire
// no extra change events.
func (e *Engine) Sync() {
	doc := e.docFn()
	if doc == nil {
		return
	}
	e.SetSourceValue(e.EditorValue(true))
}

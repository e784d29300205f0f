package dom

import (
	"fmt"
	"strings"
	"sync"
)

// Memory is an in-process Document implementation backed by a markup
// string plus a byte-offset selection. It implements Native for a small
// set of editing commands so the command pipeline can be exercised end
// to end without a rendering platform.
type Memory struct {
	mu      sync.RWMutex
	markup  string
	sel     Range
	hasSel  bool
	focused bool
}

// NewMemory creates a memory document with the given initial markup.
func NewMemory(markup string) *Memory {
	return &Memory{markup: markup}
}

// Markup returns the serialized content.
func (m *Memory) Markup() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.markup
}

// SetMarkup replaces the content. The selection is clamped to the new
// length; a wholesale replacement keeps the caret rather than dropping it.
func (m *Memory) SetMarkup(markup string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.markup = markup
	if m.hasSel {
		m.sel = m.clamp(m.sel)
	}
}

// InsertMarkup splices a fragment at the given byte offset. Selection
// offsets at or beyond the insertion point shift right so the logical
// selection is preserved.
func (m *Memory) InsertMarkup(offset int, fragment string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if offset < 0 || offset > len(m.markup) {
		return fmt.Errorf("%w: %d (len %d)", ErrOffsetRange, offset, len(m.markup))
	}
	m.markup = m.markup[:offset] + fragment + m.markup[offset:]
	if m.hasSel {
		if m.sel.Start >= offset {
			m.sel.Start += len(fragment)
		}
		if m.sel.End >= offset {
			m.sel.End += len(fragment)
		}
	}
	return nil
}

// Len returns the byte length of the serialized content.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.markup)
}

// Selection returns the current selection, if any.
func (m *Memory) Selection() (Range, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sel, m.hasSel
}

// SetSelection applies a selection, clamped to the document.
func (m *Memory) SetSelection(r Range) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sel = m.clamp(r)
	m.hasSel = true
}

// ClearSelection drops the selection entirely.
func (m *Memory) ClearSelection() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hasSel = false
	m.sel = Range{}
}

// SelectAll selects the whole document.
func (m *Memory) SelectAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sel = Range{Start: 0, End: len(m.markup)}
	m.hasSel = true
}

// Focus gives the region focus.
func (m *Memory) Focus() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.focused = true
}

// Blur removes focus.
func (m *Memory) Blur() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.focused = false
}

// Focused reports whether the region holds focus.
func (m *Memory) Focused() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.focused
}

// ExecNative implements Native. Supported commands: bold, italic,
// underline (wrap the selection in the corresponding tag) and inserthtml
// (replace the selection with the value). Everything else returns
// ErrUnsupportedCommand.
func (m *Memory) ExecNative(name string, showUI bool, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch strings.ToLower(name) {
	case "bold":
		return m.wrapSelection("b")
	case "italic":
		return m.wrapSelection("i")
	case "underline":
		return m.wrapSelection("u")
	case "inserthtml":
		return m.replaceSelection(value)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedCommand, name)
	}
}

// wrapSelection wraps the selected span in <tag>...</tag>. A collapsed
// or missing selection is a no-op, matching platform behavior.
func (m *Memory) wrapSelection(tag string) error {
	if !m.hasSel || m.sel.Collapsed() {
		return nil
	}
	r := m.clamp(m.sel)
	opening, closing := "<"+tag+">", "</"+tag+">"
	m.markup = m.markup[:r.Start] + opening + m.markup[r.Start:r.End] + closing + m.markup[r.End:]
	m.sel = Range{Start: r.Start, End: r.End + len(opening) + len(closing)}
	return nil
}

// replaceSelection replaces the selection (or inserts at the caret,
// or appends when there is no selection) with the fragment.
func (m *Memory) replaceSelection(fragment string) error {
	r := Range{Start: len(m.markup), End: len(m.markup)}
	if m.hasSel {
		r = m.clamp(m.sel)
	}
	m.markup = m.markup[:r.Start] + fragment + m.markup[r.End:]
	caret := r.Start + len(fragment)
	m.sel = Range{Start: caret, End: caret}
	m.hasSel = true
	return nil
}

func (m *Memory) clamp(r Range) Range {
	if r.Start < 0 {
		r.Start = 0
	}
	if r.End < 0 {
		r.End = 0
	}
	if r.Start > len(m.markup) {
		r.Start = len(m.markup)
	}
	if r.End > len(m.markup) {
		r.End = len(m.markup)
	}
	if r.End < r.Start {
		r.Start, r.End = r.End, r.Start
	}
	return r
}

// MemorySource is an in-process SourceElement.
type MemorySource struct {
	mu    sync.RWMutex
	value string
	attrs map[string]string
}

// NewMemorySource creates a source element with the given initial value.
func NewMemorySource(value string) *MemorySource {
	return &MemorySource{value: value, attrs: make(map[string]string)}
}

// Value returns the element's value.
func (s *MemorySource) Value() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value
}

// SetValue writes the element's value.
func (s *MemorySource) SetValue(value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.value = value
}

// Attribute returns a named attribute, if set.
func (s *MemorySource) Attribute(name string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.attrs[name]
	return v, ok
}

// SetAttribute sets a named attribute.
func (s *MemorySource) SetAttribute(name, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attrs[name] = value
}

// RemoveAttribute removes a named attribute.
func (s *MemorySource) RemoveAttribute(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.attrs, name)
}

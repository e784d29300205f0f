package bridge

import (
	"strings"
	"testing"

	"github.com/tbraden/inkstone/internal/dom"
	"github.com/tbraden/inkstone/internal/event"
)

func newTestEngine(markup string, opts ...Option) (*Engine, *dom.Memory, *dom.MemorySource, *event.Bus) {
	bus := event.NewBus()
	doc := dom.NewMemory(markup)
	src := dom.NewMemorySource("")
	eng := New(bus, src, func() dom.Document { return doc }, opts...)
	return eng, doc, src, bus
}

func TestEditorValue_Scrubbing(t *testing.T) {
	tests := []struct {
		name   string
		markup string
		strip  bool
		want   string
	}{
		{"plain", "<p>hi</p>", true, "<p>hi</p>"},
		{"invisible space removed", "a" + dom.InvisibleSpace + "b", true, "ab"},
		{"lone br collapses", "<br>", true, ""},
		{"br with content kept", "<p>a</p><br>", true, "<p>a</p><br>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eng, _, _, _ := newTestEngine(tt.markup)
			if got := eng.EditorValue(tt.strip); got != tt.want {
				t.Errorf("EditorValue() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEditorValue_BeforeGetOverride(t *testing.T) {
	eng, _, _, bus := newTestEngine("<p>real</p>")
	bus.On(event.BeforeGetValueFromEditor, func(args ...any) any {
		return "<p>override</p>"
	})

	if got := eng.EditorValue(true); got != "<p>override</p>" {
		t.Errorf("EditorValue() = %q, want override", got)
	}
}

func TestEditorValue_AfterGetRewrite(t *testing.T) {
	eng, _, _, bus := newTestEngine("<p>x</p>")
	bus.On(event.AfterGetValueFromEditor, func(args ...any) any {
		return strings.ToUpper(args[0].(string))
	})

	if got := eng.EditorValue(true); got != "<P>X</P>" {
		t.Errorf("EditorValue() = %q, want rewritten value", got)
	}
}

func TestSetEditorValue_WritesDocAndSource(t *testing.T) {
	eng, doc, src, _ := newTestEngine("")

	eng.SetEditorValue("<p>hello</p>")

	if doc.Markup() != "<p>hello</p>" {
		t.Errorf("doc = %q", doc.Markup())
	}
	if src.Value() != "<p>hello</p>" {
		t.Errorf("source = %q", src.Value())
	}
}

func TestSetEditorValue_Cancelled(t *testing.T) {
	eng, doc, src, bus := newTestEngine("<p>old</p>")
	bus.On(event.BeforeSetValueToEditor, func(args ...any) any {
		return false
	})

	eng.SetEditorValue("<p>new</p>")

	if doc.Markup() != "<p>old</p>" {
		t.Errorf("vetoed write reached the document: %q", doc.Markup())
	}
	if src.Value() != "" {
		t.Errorf("vetoed write reached the source: %q", src.Value())
	}
}

func TestSetEditorValue_Rewrite(t *testing.T) {
	eng, doc, _, bus := newTestEngine("")
	bus.On(event.BeforeSetValueToEditor, func(args ...any) any {
		return "<p>first</p>"
	})
	bus.On(event.BeforeSetValueToEditor, func(args ...any) any {
		return "<p>last</p>"
	})

	eng.SetEditorValue("<p>in</p>")

	if doc.Markup() != "<p>last</p>" {
		t.Errorf("doc = %q, want last rewrite to win", doc.Markup())
	}
}

func TestSync_Idempotent(t *testing.T) {
	eng, _, src, bus := newTestEngine("<p>v</p>")

	var changes int
	bus.On(event.Change, func(args ...any) any {
		changes++
		return nil
	})

	eng.Sync()
	eng.Sync()
	eng.Sync()

	if src.Value() != "<p>v</p>" {
		t.Errorf("source = %q", src.Value())
	}
	if changes != 1 {
		t.Errorf("change fired %d times, want 1", changes)
	}
}

func TestSetSourceValue_ChangeCarriesOldAndNew(t *testing.T) {
	eng, _, _, bus := newTestEngine("")
	eng.SetSourceValue("one")

	var gotNew, gotOld string
	bus.On(event.Change, func(args ...any) any {
		gotNew = args[0].(string)
		gotOld = args[1].(string)
		return nil
	})

	eng.SetSourceValue("two")

	if gotNew != "two" || gotOld != "one" {
		t.Errorf("change args = (%q, %q), want (two, one)", gotNew, gotOld)
	}
}

func TestSetSourceValue_UpdatesDocument(t *testing.T) {
	eng, doc, src, _ := newTestEngine("<p>old</p>")

	eng.SetSourceValue("<p>new</p>")

	if doc.Markup() != "<p>new</p>" {
		t.Errorf("doc = %q, want document to follow the source write", doc.Markup())
	}
	if src.Value() != "<p>new</p>" {
		t.Errorf("source = %q", src.Value())
	}
}

func TestSetSourceValue_RecursionBounded(t *testing.T) {
	eng, _, src, bus := newTestEngine("", WithRecursionLimit(2))

	var fires int
	bus.On(event.Change, func(args ...any) any {
		fires++
		// A handler that always writes a fresh value would loop forever
		// without the recursion bound.
		eng.SetSourceValue(src.Value() + "x")
		return nil
	})

	eng.SetSourceValue("seed")

	if fires != 2 {
		t.Errorf("change fired %d times, want exactly the limit (2)", fires)
	}
	// Past the limit the write is dropped along with the event, so the
	// last value to land is the one written at the limit.
	if src.Value() != "seedx" {
		t.Errorf("source = %q, want %q", src.Value(), "seedx")
	}
}

func TestSetSourceValue_DepthResetsBetweenCalls(t *testing.T) {
	eng, _, _, bus := newTestEngine("", WithRecursionLimit(2))

	var fires int
	bus.On(event.Change, func(args ...any) any {
		fires++
		return nil
	})

	for i := 0; i < 5; i++ {
		eng.SetSourceValue(strings.Repeat("a", i+1))
	}

	if fires != 5 {
		t.Errorf("change fired %d times, want 5: depth must reset after each top-level set", fires)
	}
}

func TestNilDocument_DegradesToSource(t *testing.T) {
	bus := event.NewBus()
	src := dom.NewMemorySource("initial")
	eng := New(bus, src, func() dom.Document { return nil })

	if got := eng.EditorValue(true); got != "initial" {
		t.Errorf("EditorValue() = %q, want source value", got)
	}

	eng.SetEditorValue("updated")
	if src.Value() != "updated" {
		t.Errorf("source = %q, want updated", src.Value())
	}

	// Sync with no document must not clobber the source.
	eng.Sync()
	if src.Value() != "updated" {
		t.Errorf("source after Sync = %q", src.Value())
	}
}

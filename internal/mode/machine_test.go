package mode

import (
	"testing"

	"github.com/tbraden/inkstone/internal/event"
	"github.com/tbraden/inkstone/internal/settings"
)

func TestParseString_RoundTrip(t *testing.T) {
	for _, m := range []Mode{Wysiwyg, Source, Split} {
		if got := Parse(m.String()); got != m {
			t.Errorf("Parse(%q) = %v, want %v", m.String(), got, m)
		}
	}
}

func TestParse_UnknownCorrectsToWysiwyg(t *testing.T) {
	for _, s := range []string{"", "markdown", "WYSIWYG ", "3"} {
		got := Parse(s)
		switch s {
		case "WYSIWYG ":
			if got != Wysiwyg {
				t.Errorf("Parse(%q) = %v", s, got)
			}
		default:
			if got != Wysiwyg {
				t.Errorf("Parse(%q) = %v, want Wysiwyg", s, got)
			}
		}
	}
}

func TestSet_FiresEventsOnChange(t *testing.T) {
	bus := event.NewBus()
	m := New(bus, Wysiwyg)

	var before, after int
	var gotNew, gotPrev Mode
	bus.On(event.BeforeSetMode, func(args ...any) any {
		before++
		return nil
	})
	bus.On(event.AfterSetMode, func(args ...any) any {
		after++
		gotNew = args[0].(Mode)
		gotPrev = args[1].(Mode)
		return nil
	})

	if got := m.Set(Source); got != Source {
		t.Fatalf("Set(Source) = %v", got)
	}
	if before != 1 || after != 1 {
		t.Errorf("events fired before=%d after=%d, want 1/1", before, after)
	}
	if gotNew != Source || gotPrev != Wysiwyg {
		t.Errorf("afterSetMode args = (%v, %v)", gotNew, gotPrev)
	}

	// Same-mode set: no actual change, afterSetMode stays quiet.
	m.Set(Source)
	if after != 1 {
		t.Errorf("afterSetMode fired on no-op transition")
	}
}

func TestSet_Cancelled(t *testing.T) {
	bus := event.NewBus()
	m := New(bus, Wysiwyg)
	bus.On(event.BeforeSetMode, func(args ...any) any {
		return false
	})

	if got := m.Set(Source); got != Wysiwyg {
		t.Errorf("cancelled Set returned %v, want Wysiwyg", got)
	}
	if m.Current() != Wysiwyg {
		t.Errorf("mode changed despite veto: %v", m.Current())
	}
}

func TestSet_HandlerRedirects(t *testing.T) {
	bus := event.NewBus()
	m := New(bus, Wysiwyg)
	bus.On(event.BeforeSetMode, func(args ...any) any {
		args[0].(*Request).Mode = Split
		return nil
	})

	if got := m.Set(Source); got != Split {
		t.Errorf("Set = %v, want handler redirect to Split", got)
	}
}

func TestSet_InvalidCorrectsToWysiwyg(t *testing.T) {
	bus := event.NewBus()
	m := New(bus, Source)

	if got := m.Set(Mode(42)); got != Wysiwyg {
		t.Errorf("Set(invalid) = %v, want Wysiwyg", got)
	}
}

func TestSet_Persists(t *testing.T) {
	bus := event.NewBus()
	store := settings.NewMemory()
	m := New(bus, Wysiwyg, WithStore(store, "mode"))

	m.Set(Split)

	if v, ok := store.Get("mode"); !ok || v != "split" {
		t.Errorf("persisted mode = %q (%v), want split", v, ok)
	}
}

func TestToggle_Cycle(t *testing.T) {
	bus := event.NewBus()
	m := New(bus, Wysiwyg, WithSplit(true))

	want := []Mode{Source, Split, Wysiwyg, Source}
	for i, w := range want {
		if got := m.Toggle(); got != w {
			t.Fatalf("toggle %d = %v, want %v", i, got, w)
		}
	}
}

func TestToggle_SkipsSplitWhenDisabled(t *testing.T) {
	bus := event.NewBus()
	m := New(bus, Wysiwyg, WithSplit(false))

	want := []Mode{Source, Wysiwyg, Source}
	for i, w := range want {
		if got := m.Toggle(); got != w {
			t.Fatalf("toggle %d = %v, want %v", i, got, w)
		}
	}
}

func TestReal_SplitResolvesFromFocus(t *testing.T) {
	bus := event.NewBus()
	focused := false
	m := New(bus, Split, WithFocus(func() bool { return focused }))

	if got := m.Real(); got != Source {
		t.Errorf("Real() = %v with region blurred, want Source", got)
	}
	focused = true
	if got := m.Real(); got != Wysiwyg {
		t.Errorf("Real() = %v with region focused, want Wysiwyg", got)
	}

	// Non-split modes pass through untouched.
	m.Set(Source)
	if got := m.Real(); got != Source {
		t.Errorf("Real() = %v, want Source", got)
	}
}

func TestResolve(t *testing.T) {
	bus := event.NewBus()
	store := settings.NewMemory()

	// Persistence off: fallback wins.
	m := New(bus, Wysiwyg)
	if got := m.Resolve(Source); got != Source {
		t.Errorf("Resolve = %v, want fallback Source", got)
	}

	// Persistence on, nothing stored: fallback wins.
	m = New(bus, Wysiwyg, WithStore(store, "mode"))
	if got := m.Resolve(Split); got != Split {
		t.Errorf("Resolve = %v, want fallback Split", got)
	}

	// Stored value wins over fallback; garbage corrects to Wysiwyg.
	store.Set("mode", "source")
	if got := m.Resolve(Split); got != Source {
		t.Errorf("Resolve = %v, want persisted Source", got)
	}
	store.Set("mode", "garbage")
	if got := m.Resolve(Split); got != Wysiwyg {
		t.Errorf("Resolve = %v, want corrected Wysiwyg", got)
	}

	// Invalid fallback corrects too.
	m = New(bus, Wysiwyg)
	if got := m.Resolve(Mode(0)); got != Wysiwyg {
		t.Errorf("Resolve = %v, want Wysiwyg", got)
	}
}

func TestApplyHook(t *testing.T) {
	bus := event.NewBus()
	var applied []Mode
	m := New(bus, Wysiwyg, WithApply(func(next Mode) {
		applied = append(applied, next)
	}))

	m.Set(Source)
	m.Set(Source) // no change, no hook
	m.Set(Wysiwyg)

	if len(applied) != 2 || applied[0] != Source || applied[1] != Wysiwyg {
		t.Errorf("apply hook saw %v, want [Source Wysiwyg]", applied)
	}
}

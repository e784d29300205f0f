package mode

import (
	"sync"

	"github.com/tbraden/inkstone/internal/event"
	"github.com/tbraden/inkstone/internal/log"
	"github.com/tbraden/inkstone/internal/settings"
)

// DefaultStorageKey is the settings key the last mode persists under.
const DefaultStorageKey = "mode"

// Request is the mutable payload carried by the beforeSetMode event.
// Handlers may redirect the transition by overwriting Mode, or veto it
// by returning false.
type Request struct {
	Mode Mode
}

// Machine holds the current display mode for one editor instance and
// arbitrates every transition through the event bus.
type Machine struct {
	bus     *event.Bus
	store   settings.Store
	key     string
	persist bool
	split   bool
	focused func() bool
	apply   func(Mode)
	log     *log.Logger

	mu      sync.Mutex
	current Mode
}

// Option configures a Machine.
type Option func(*Machine)

// WithStore enables last-mode persistence in the given settings store.
func WithStore(store settings.Store, key string) Option {
	return func(m *Machine) {
		m.store = store
		m.persist = store != nil
		if key != "" {
			m.key = key
		}
	}
}

// WithSplit enables the split mode in the Toggle cycle.
func WithSplit(enabled bool) Option {
	return func(m *Machine) {
		m.split = enabled
	}
}

// WithFocus supplies the live focus probe Real consults to resolve
// Split to one of the two concrete views.
func WithFocus(focused func() bool) Option {
	return func(m *Machine) {
		m.focused = focused
	}
}

// WithApply registers a presentation hook invoked after every actual
// transition, before afterSetMode fires. Hosts use it to toggle
// container class hooks.
func WithApply(apply func(Mode)) Option {
	return func(m *Machine) {
		m.apply = apply
	}
}

// WithLogger attaches a logger.
func WithLogger(l *log.Logger) Option {
	return func(m *Machine) {
		m.log = l
	}
}

// New creates a machine starting in the given mode. An invalid start
// mode corrects to Wysiwyg.
func New(bus *event.Bus, start Mode, opts ...Option) *Machine {
	if !start.Valid() {
		start = Wysiwyg
	}
	m := &Machine{
		bus:     bus,
		key:     DefaultStorageKey,
		split:   true,
		current: start,
		log:     log.Discard(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Current returns the stored mode. For Split this is Split itself; use
// Real for the effective concrete view.
func (m *Machine) Current() Mode {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Real derives the effective concrete mode. Split resolves to Wysiwyg
// exactly when the rendered region holds focus, Source otherwise. The
// result is computed from live focus on every call, never cached.
func (m *Machine) Real() Mode {
	cur := m.Current()
	if cur != Split {
		return cur
	}
	if m.focused != nil && m.focused() {
		return Wysiwyg
	}
	return Source
}

// Set transitions to the requested mode. Invalid requests correct to
// Wysiwyg. beforeSetMode fires with a mutable Request; a false return
// aborts the transition wholly, and handlers may redirect it by
// rewriting the payload. On an actual change the presentation hook
// runs, the mode persists when enabled, and afterSetMode fires with
// the new and previous modes. Returns the mode in effect afterwards.
func (m *Machine) Set(requested Mode) Mode {
	if !requested.Valid() {
		requested = Wysiwyg
	}

	m.mu.Lock()
	prev := m.current
	m.mu.Unlock()

	req := &Request{Mode: requested}
	if m.bus.Fire(event.BeforeSetMode, req).Cancelled() {
		return prev
	}
	next := req.Mode
	if !next.Valid() {
		next = Wysiwyg
	}
	if next == prev {
		return prev
	}

	m.mu.Lock()
	m.current = next
	m.mu.Unlock()

	if m.apply != nil {
		m.apply(next)
	}
	if m.persist {
		if err := m.store.Set(m.key, next.String()); err != nil {
			m.log.Warn("persisting mode %q: %v", next, err)
		}
	}
	m.bus.Fire(event.AfterSetMode, next, prev)
	return next
}

// Toggle advances to the next mode in the Wysiwyg, Source, Split cycle,
// skipping Split when it is disabled, and returns the resulting mode.
func (m *Machine) Toggle() Mode {
	var next Mode
	switch m.Current() {
	case Wysiwyg:
		next = Source
	case Source:
		if m.split {
			next = Split
		} else {
			next = Wysiwyg
		}
	default:
		next = Wysiwyg
	}
	return m.Set(next)
}

// Resolve determines the starting mode for initialization: the
// persisted mode when persistence is enabled and a value is stored,
// the fallback otherwise. Invalid values in either position correct
// to Wysiwyg.
func (m *Machine) Resolve(fallback Mode) Mode {
	if m.persist {
		if s, ok := m.store.Get(m.key); ok {
			return Parse(s)
		}
	}
	if !fallback.Valid() {
		return Wysiwyg
	}
	return fallback
}

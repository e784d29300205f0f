package command

import (
	"strings"
	"sync"

	"github.com/tbraden/inkstone/internal/dom"
	"github.com/tbraden/inkstone/internal/event"
	"github.com/tbraden/inkstone/internal/input/key"
	"github.com/tbraden/inkstone/internal/log"
)

// selectAllName bypasses the readonly guard unconditionally: selecting
// content never mutates it.
const selectAllName = "selectall"

// Registry dispatches editing commands for one editor instance. Custom
// handlers accumulate per lowercased name and run before the platform
// native executor; hotkey chords map onto command names through the
// same pipeline.
type Registry struct {
	bus    *event.Bus
	native dom.Native
	log    *log.Logger

	focus     func()
	selectAll func()
	readonly  func() bool
	push      func()
	hotkeyTab func(original, lowered string) []string

	mu      sync.RWMutex
	entries map[string][]entry
	hotkeys map[string]string // canonical chord -> lowercased command name
}

// Option configures a Registry.
type Option func(*Registry)

// WithNative supplies the platform native executor. Without one, the
// native phase of dispatch is skipped.
func WithNative(n dom.Native) Option {
	return func(r *Registry) { r.native = n }
}

// WithFocus supplies the focus re-acquisition hook run before native
// execution.
func WithFocus(f func()) Option {
	return func(r *Registry) { r.focus = f }
}

// WithSelectAll supplies the whole-root selection primitive.
func WithSelectAll(f func()) Option {
	return func(r *Registry) { r.selectAll = f }
}

// WithReadonly supplies the live readonly probe.
func WithReadonly(f func() bool) Option {
	return func(r *Registry) { r.readonly = f }
}

// WithPush supplies the post-execution value push to the source
// element.
func WithPush(f func()) Option {
	return func(r *Registry) { r.push = f }
}

// WithHotkeyTable supplies the configuration hotkey lookup consulted at
// registration time, keyed by the original and lowercased command name.
func WithHotkeyTable(f func(original, lowered string) []string) Option {
	return func(r *Registry) { r.hotkeyTab = f }
}

// WithLogger attaches a logger.
func WithLogger(l *log.Logger) Option {
	return func(r *Registry) { r.log = l }
}

// New creates an empty registry bound to the bus.
func New(bus *event.Bus, opts ...Option) *Registry {
	r := &Registry{
		bus:     bus,
		log:     log.Discard(),
		entries: make(map[string][]entry),
		hotkeys: make(map[string]string),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds a handler under the lowercased name. Handlers
// accumulate in registration order; registering is never a
// replacement.
func (r *Registry) Register(name string, fn Func) error {
	return r.RegisterDescribed(name, Described{Exec: fn})
}

// RegisterDescribed adds a handler with hotkeys and a readonly
// exemption. Hotkeys declared on the command and hotkeys configured
// for the name are both bound; binding a chord that is already bound
// rebinds it to this command.
func (r *Registry) RegisterDescribed(name string, cmd Described) error {
	if name == "" {
		return ErrEmptyName
	}
	if cmd.Exec == nil {
		return ErrNilFunc
	}
	lowered := strings.ToLower(name)

	r.mu.Lock()
	r.entries[lowered] = append(r.entries[lowered], entry{
		fn:            cmd.Exec,
		allowReadonly: cmd.AllowReadonly,
	})
	r.mu.Unlock()

	hotkeys := cmd.Hotkeys
	if r.hotkeyTab != nil {
		hotkeys = append(hotkeys, r.hotkeyTab(name, lowered)...)
	}
	if len(hotkeys) > 0 {
		if err := r.BindHotkeys(hotkeys, lowered); err != nil {
			return err
		}
	}
	return nil
}

// BindHotkeys normalizes each chord spec and binds it to the command.
// Two specs normalizing to the same canonical chord are the same
// binding; the later one wins.
func (r *Registry) BindHotkeys(hotkeys []string, commandName string) error {
	lowered := strings.ToLower(commandName)

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, spec := range hotkeys {
		canonical, err := key.Normalize(spec)
		if err != nil {
			return err
		}
		r.hotkeys[canonical] = lowered
	}
	return nil
}

// HandleKey dispatches the command bound to the chord, if any. The
// boolean reports whether a binding existed.
func (r *Registry) HandleKey(c key.Chord) (any, bool) {
	r.mu.RLock()
	name, ok := r.hotkeys[c.String()]
	r.mu.RUnlock()
	if !ok {
		return nil, false
	}
	return r.Exec(name, false, nil), true
}

// Exec runs a command through the full pipeline.
//
// Readonly instances execute nothing unless the command is selectall
// or registered with AllowReadonly; the call returns nil without
// firing events. A non-nil, non-string value returns ErrValueType.
//
// Otherwise beforeCommand fires; a false from that chain skips the
// execution phase entirely, but afterCommand still fires. In the
// execution phase every registered handler runs in order, the last
// non-nil return becomes the result, and any handler returning exactly
// false suppresses the native phase. The native phase re-acquires
// focus and either selects the whole root (selectall) or invokes the
// platform executor, swallowing its error. Unknown names simply have
// zero handlers and fall through to the native attempt. Finally the
// editor value is pushed to the source element.
func (r *Registry) Exec(name string, showUI bool, value any) any {
	lowered := strings.ToLower(name)

	r.mu.RLock()
	entries := r.entries[lowered]
	r.mu.RUnlock()

	if r.readonly != nil && r.readonly() && !r.execAllowed(lowered, entries) {
		return nil
	}

	valueStr := ""
	if value != nil {
		s, ok := value.(string)
		if !ok {
			r.log.Error("command %q: value is %T, want string", lowered, value)
			return ErrValueType
		}
		valueStr = s
	}

	skip := r.bus.Fire(event.BeforeCommand, lowered, showUI, value).Cancelled()

	var result any
	if !skip {
		suppressNative := false
		for _, e := range entries {
			res := e.fn(lowered, showUI, value)
			if res != nil {
				result = res
			}
			if b, ok := res.(bool); ok && !b {
				suppressNative = true
			}
		}

		if !suppressNative {
			if r.focus != nil {
				r.focus()
			}
			if lowered == selectAllName {
				if r.selectAll != nil {
					r.selectAll()
				}
			} else if r.native != nil {
				if err := r.native.ExecNative(lowered, showUI, valueStr); err != nil {
					r.log.Debug("native %q: %v", lowered, err)
				}
			}
		}
	}

	r.bus.Fire(event.AfterCommand, lowered, showUI, value)

	if r.push != nil {
		r.push()
	}
	return result
}

// execAllowed reports whether the command may run on a readonly
// instance.
func (r *Registry) execAllowed(lowered string, entries []entry) bool {
	if lowered == selectAllName {
		return true
	}
	for _, e := range entries {
		if e.allowReadonly {
			return true
		}
	}
	return false
}

// Registered reports whether at least one handler exists for the name.
func (r *Registry) Registered(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries[strings.ToLower(name)]) > 0
}

// HotkeyFor returns the command bound to a canonical chord string.
func (r *Registry) HotkeyFor(canonical string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	name, ok := r.hotkeys[canonical]
	return name, ok
}

// Package editor is the lifecycle coordinator: it assembles the event
// bus, command registry, selection coordinator, synchronization engine,
// mode machine and plugin system into one editor instance, and drives
// the instance through its initialization and teardown sequences.
package editor

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/tbraden/inkstone/internal/bridge"
	"github.com/tbraden/inkstone/internal/command"
	"github.com/tbraden/inkstone/internal/config"
	"github.com/tbraden/inkstone/internal/dom"
	"github.com/tbraden/inkstone/internal/event"
	"github.com/tbraden/inkstone/internal/log"
	"github.com/tbraden/inkstone/internal/mode"
	"github.com/tbraden/inkstone/internal/plugin"
	"github.com/tbraden/inkstone/internal/selection"
	"github.com/tbraden/inkstone/internal/settings"
)

// Package errors.
var (
	// ErrNilSource is returned when an editor is created without a
	// source element.
	ErrNilSource = errors.New("nil source element")

	// ErrAlreadyInitialized is returned by Init on an instance past the
	// uninitialized state.
	ErrAlreadyInitialized = errors.New("editor already initialized")

	// ErrDestructed is returned when initialization is aborted because
	// the instance was destructed, or when Init is called on a
	// destructed instance.
	ErrDestructed = errors.New("editor destructed")
)

// busNamespace scopes the instance's own bus bindings so teardown can
// detach them as a group.
const busNamespace = "inkstone"

// modeAttr is the source-element attribute reflecting the current
// mode for embedders that style around it.
const modeAttr = "data-ink-mode"

// savedAttr remembers a source-element attribute's state before the
// editor overrode it, so Destruct can put it back.
type savedAttr struct {
	value   string
	present bool
}

// Editor is one editor instance. Create it with New, bring it to life
// with Init, and release it with Destruct. The zero value is not
// usable.
type Editor struct {
	id   string
	opts config.Options

	bus       *event.Bus
	source    dom.SourceElement
	store     settings.Store
	logger    *log.Logger
	pluginReg *plugin.Registry
	instances *Registry

	docFactory func(initial string) dom.Document

	engine *bridge.Engine
	sel    *selection.Coordinator
	modes  *mode.Machine
	cmds   *command.Registry
	system *plugin.System

	status atomic.Int32

	mu  sync.RWMutex
	doc dom.Document

	readonly atomic.Bool
	disabled atomic.Bool

	lock        selection.Locker
	lockSnap    selection.Snapshot
	hasLockSnap bool

	savedAttrs map[string]savedAttr

	preInit  func(*Editor)
	postInit func(*Editor)
}

// Option configures an Editor at construction.
type Option func(*Editor)

// WithID fixes the instance identifier. Without it, the configured ID
// or a generated UUID is used.
func WithID(id string) Option {
	return func(e *Editor) { e.id = id }
}

// WithOptions supplies the instance configuration.
func WithOptions(opts config.Options) Option {
	return func(e *Editor) { e.opts = opts }
}

// WithStore supplies the settings store. Defaults to an in-memory one.
func WithStore(store settings.Store) Option {
	return func(e *Editor) { e.store = store }
}

// WithLogger attaches a logger.
func WithLogger(l *log.Logger) Option {
	return func(e *Editor) { e.logger = l }
}

// WithPluginRegistry overrides the plugin registry. Defaults to
// plugin.Default.
func WithPluginRegistry(r *plugin.Registry) Option {
	return func(e *Editor) { e.pluginReg = r }
}

// WithInstanceRegistry overrides the instance registry the editor
// registers itself in. Defaults to Instances.
func WithInstanceRegistry(r *Registry) Option {
	return func(e *Editor) { e.instances = r }
}

// WithDocumentFactory supplies the function that builds the rendered
// document region during Init. Defaults to dom.NewMemory.
func WithDocumentFactory(f func(initial string) dom.Document) Option {
	return func(e *Editor) { e.docFactory = f }
}

// WithPreInit registers the extension hook run before the
// initialization sequence starts.
func WithPreInit(f func(*Editor)) Option {
	return func(e *Editor) { e.preInit = f }
}

// WithPostInit registers the extension hook run after the
// initialization sequence completes.
func WithPostInit(f func(*Editor)) Option {
	return func(e *Editor) { e.postInit = f }
}

// New assembles an editor instance around an externally owned source
// element. Nothing observable happens until Init.
func New(source dom.SourceElement, opts ...Option) (*Editor, error) {
	if source == nil {
		return nil, ErrNilSource
	}

	e := &Editor{
		source:     source,
		opts:       config.Default(),
		pluginReg:  plugin.Default,
		instances:  Instances,
		savedAttrs: make(map[string]savedAttr),
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.id == "" {
		e.id = e.opts.ID
	}
	if e.id == "" {
		e.id = uuid.NewString()
	}
	if e.store == nil {
		e.store = settings.NewMemory()
	}
	if e.logger == nil {
		e.logger = log.Discard()
	}
	e.logger = e.logger.WithField("editor", e.id)
	if e.docFactory == nil {
		e.docFactory = func(initial string) dom.Document {
			return dom.NewMemory(initial)
		}
	}

	e.bus = event.NewBus()
	e.engine = bridge.New(e.bus, e.source, e.document,
		bridge.WithRecursionLimit(e.opts.RecursionLimit),
		bridge.WithLogger(e.logger),
	)

	modeOpts := []mode.Option{
		mode.WithSplit(e.opts.UseSplitMode),
		mode.WithFocus(e.regionFocused),
		mode.WithApply(func(m mode.Mode) {
			e.overrideAttr(modeAttr, m.String())
		}),
		mode.WithLogger(e.logger),
	}
	if e.opts.SaveModeInStorage {
		modeOpts = append(modeOpts, mode.WithStore(e.store, mode.DefaultStorageKey))
	}
	e.modes = mode.New(e.bus, mode.Parse(e.opts.DefaultMode), modeOpts...)

	e.cmds = command.New(e.bus,
		command.WithNative(nativeProxy{e}),
		command.WithFocus(e.Focus),
		command.WithSelectAll(e.selectAll),
		command.WithReadonly(e.effectiveReadonly),
		command.WithPush(e.engine.Sync),
		command.WithHotkeyTable(e.opts.HotkeysFor),
		command.WithLogger(e.logger),
	)

	e.system = plugin.NewSystem(e.pluginReg, e.opts.Plugins, e.logger)
	return e, nil
}

// ID returns the instance identifier.
func (e *Editor) ID() string { return e.id }

// Bus returns the instance's event bus.
func (e *Editor) Bus() *event.Bus { return e.bus }

// Commands returns the instance's command registry.
func (e *Editor) Commands() *command.Registry { return e.cmds }

// Modes returns the instance's mode machine.
func (e *Editor) Modes() *mode.Machine { return e.modes }

// Selection returns the selection coordinator, nil before Init builds
// the document region.
func (e *Editor) Selection() *selection.Coordinator {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.sel
}

// Settings returns the instance's settings store.
func (e *Editor) Settings() settings.Store { return e.store }

// Logger returns the instance's logger.
func (e *Editor) Logger() *log.Logger { return e.logger }

// Source returns the externally owned source element.
func (e *Editor) Source() dom.SourceElement { return e.source }

// Document returns the rendered document region, nil before Init and
// after Destruct.
func (e *Editor) Document() dom.Document { return e.document() }

func (e *Editor) document() dom.Document {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.doc
}

func (e *Editor) setDocument(doc dom.Document, sel *selection.Coordinator) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.doc = doc
	e.sel = sel
}

// Value returns the current editor value, markers stripped. Before
// initialization this degrades to the source element's value.
func (e *Editor) Value() string {
	return e.engine.EditorValue(true)
}

// SetValue replaces the editor value through the synchronization
// engine, honoring the beforeSetValueToEditor hooks.
func (e *Editor) SetValue(value string) {
	e.engine.SetEditorValue(value)
}

// Exec dispatches a command through the instance pipeline.
func (e *Editor) Exec(name string, showUI bool, value any) any {
	return e.cmds.Exec(name, showUI, value)
}

// RegisterCommand adds a command handler on this instance.
func (e *Editor) RegisterCommand(name string, fn command.Func) error {
	return e.cmds.Register(name, fn)
}

// OnEvent subscribes a handler on the instance bus.
func (e *Editor) OnEvent(spec string, handler event.Handler) error {
	return e.bus.On(spec, handler)
}

// Focus gives the rendered region input focus, if it exists.
func (e *Editor) Focus() {
	if doc := e.document(); doc != nil {
		doc.Focus()
	}
}

func (e *Editor) selectAll() {
	if doc := e.document(); doc != nil {
		doc.SelectAll()
	}
}

func (e *Editor) regionFocused() bool {
	doc := e.document()
	return doc != nil && doc.Focused()
}

// Readonly reports the readonly flag.
func (e *Editor) Readonly() bool { return e.readonly.Load() }

// SetReadonly flips the readonly flag, firing the readonly event on an
// actual change.
func (e *Editor) SetReadonly(v bool) {
	if e.readonly.Swap(v) == v {
		return
	}
	e.bus.Fire(event.Readonly, v)
}

// Disabled reports the disabled flag.
func (e *Editor) Disabled() bool { return e.disabled.Load() }

// SetDisabled flips the disabled flag, firing the disabled event on an
// actual change. Disabled instances are also readonly for command
// dispatch.
func (e *Editor) SetDisabled(v bool) {
	if e.disabled.Swap(v) == v {
		return
	}
	e.bus.Fire(event.Disabled, v)
}

func (e *Editor) effectiveReadonly() bool {
	return e.readonly.Load() || e.disabled.Load()
}

// Lock locks the instance for the named holder, saving the current
// selection as the lock snapshot. A new snapshot overwrites a pending
// one. Returns false when already locked.
func (e *Editor) Lock(holder string) bool {
	if !e.lock.Lock(holder) {
		return false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.sel != nil {
		e.lockSnap = e.sel.Save()
		e.hasLockSnap = true
	}
	return true
}

// Unlock releases the lock and restores the pending lock snapshot.
// Returns false when not locked.
func (e *Editor) Unlock() bool {
	if !e.lock.Unlock() {
		return false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.hasLockSnap && e.sel != nil {
		e.sel.Restore(e.lockSnap)
		e.hasLockSnap = false
	}
	return true
}

// IsLocked reports whether the instance is locked.
func (e *Editor) IsLocked() bool { return e.lock.IsLocked() }

// FullSize reports whether the instance is in full-size presentation.
func (e *Editor) FullSize() bool { return e.lock.FullSize() }

// SetFullSize flips the full-size presentation flag, firing the resize
// event on an actual change so embedders can relayout around it.
func (e *Editor) SetFullSize(v bool) {
	if e.lock.FullSize() == v {
		return
	}
	e.lock.SetFullSize(v)
	e.bus.Fire(event.Resize, v)
}

// overrideAttr sets a source-element attribute, remembering its prior
// state the first time so Destruct can restore it.
func (e *Editor) overrideAttr(name, value string) {
	e.mu.Lock()
	if _, seen := e.savedAttrs[name]; !seen {
		prev, present := e.source.Attribute(name)
		e.savedAttrs[name] = savedAttr{value: prev, present: present}
	}
	e.mu.Unlock()
	e.source.SetAttribute(name, value)
}

// restoreAttrs puts every overridden source-element attribute back to
// its pre-init state.
func (e *Editor) restoreAttrs() {
	e.mu.Lock()
	saved := e.savedAttrs
	e.savedAttrs = make(map[string]savedAttr)
	e.mu.Unlock()

	for name, s := range saved {
		if s.present {
			e.source.SetAttribute(name, s.value)
		} else {
			e.source.RemoveAttribute(name)
		}
	}
}

// tryApply runs a platform editing behavior best-effort: failures are
// logged and never abort initialization.
func (e *Editor) tryApply(name, value string) {
	if err := (nativeProxy{e}).ExecNative(name, false, value); err != nil {
		e.logger.Debug("platform behavior %q: %v", name, err)
	}
}

// nativeProxy routes native command execution to the live document, if
// it exists and exposes the platform primitive. Degraded instances
// silently no-op.
type nativeProxy struct {
	e *Editor
}

func (p nativeProxy) ExecNative(name string, showUI bool, value string) error {
	doc := p.e.document()
	if doc == nil {
		return nil
	}
	n, ok := doc.(dom.Native)
	if !ok {
		return nil
	}
	return n.ExecNative(name, showUI, value)
}

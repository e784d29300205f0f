package editor

import (
	"context"
	"fmt"

	"github.com/tbraden/inkstone/internal/command"
	"github.com/tbraden/inkstone/internal/event"
	"github.com/tbraden/inkstone/internal/mode"
	"github.com/tbraden/inkstone/internal/selection"
)

// Status is the lifecycle state of an instance.
type Status int32

const (
	// StatusNew is the state before Init.
	StatusNew Status = iota
	// StatusInitializing is the state while Init runs.
	StatusInitializing
	// StatusReady is the live state; entered exactly once.
	StatusReady
	// StatusDestructing is the state while Destruct runs its teardown,
	// including the beforeDestruct event.
	StatusDestructing
	// StatusDestructed is terminal.
	StatusDestructed
)

// String returns a readable form of the status.
func (s Status) String() string {
	switch s {
	case StatusNew:
		return "new"
	case StatusInitializing:
		return "initializing"
	case StatusReady:
		return "ready"
	case StatusDestructing:
		return "destructing"
	case StatusDestructed:
		return "destructed"
	default:
		return "unknown"
	}
}

// Status returns the instance's lifecycle state.
func (e *Editor) Status() Status {
	return Status(e.status.Load())
}

// IsReady reports whether initialization completed and the instance is
// live.
func (e *Editor) IsReady() bool {
	return e.Status() == StatusReady
}

// platformBehaviors are the native editing behaviors applied
// best-effort at the end of initialization. Substrates that do not
// implement them report unsupported, which is logged and ignored.
var platformBehaviors = [...]struct{ name, value string }{
	{"stylewithcss", "false"},
	{"enableobjectresizing", "false"},
	{"enableinlinetableediting", "false"},
}

// Init runs the initialization sequence. Every step checks afterwards
// whether the instance was destructed in the meantime (a plugin or
// event handler may destruct it mid-init) and aborts with
// ErrDestructed without touching the half-destructed instance further.
// The context covers the whole sequence; its cancellation aborts the
// same way.
//
// Sequence: pre-init hook, beforeInit, plugin initialization (failures
// logged, never fatal), document region construction and event
// wiring, first value synchronization, instance registration, starting
// mode resolution, persisted readonly/disabled state, platform editing
// behaviors, then afterInit, afterConstructor and the post-init hook.
func (e *Editor) Init(ctx context.Context) error {
	if !e.status.CompareAndSwap(int32(StatusNew), int32(StatusInitializing)) {
		if e.Status() == StatusDestructed {
			return ErrDestructed
		}
		return ErrAlreadyInitialized
	}

	step := func(f func()) error {
		f()
		return e.checkAlive(ctx)
	}

	if e.preInit != nil {
		if err := step(func() { e.preInit(e) }); err != nil {
			return err
		}
	}

	if err := step(func() { e.bus.Fire(event.BeforeInit, e) }); err != nil {
		return err
	}

	if err := step(func() {
		if err := e.system.Init(e); err != nil {
			e.logger.Warn("plugin system: %v", err)
		}
	}); err != nil {
		return err
	}

	if err := step(e.buildRegion); err != nil {
		return err
	}

	if err := step(func() { e.engine.SetEditorValue(e.source.Value()) }); err != nil {
		return err
	}

	if err := step(func() {
		if err := e.instances.Register(e.id, e); err != nil {
			e.logger.Warn("instance registry: %v", err)
		}
	}); err != nil {
		return err
	}

	if err := step(func() {
		e.modes.Set(e.modes.Resolve(mode.Parse(e.opts.DefaultMode)))
	}); err != nil {
		return err
	}

	if err := step(func() {
		e.SetReadonly(e.opts.Readonly)
		e.SetDisabled(e.opts.Disabled)
	}); err != nil {
		return err
	}

	if err := step(func() {
		for _, b := range platformBehaviors {
			e.tryApply(b.name, b.value)
		}
	}); err != nil {
		return err
	}

	if !e.status.CompareAndSwap(int32(StatusInitializing), int32(StatusReady)) {
		return ErrDestructed
	}

	e.bus.Fire(event.AfterInit, e)
	e.bus.Fire(event.AfterConstructor, e)
	if e.postInit != nil {
		e.postInit(e)
	}
	e.logger.Info("editor initialized")
	return nil
}

// buildRegion constructs the rendered document region from the source
// value and wires the instance's internal event proxies under the
// instance namespace.
func (e *Editor) buildRegion() {
	doc := e.docFactory(e.source.Value())
	sel := selection.New(doc)
	e.setDocument(doc, sel)

	e.bus.On(event.RemoveMarkers+"."+busNamespace, func(args ...any) any {
		sel.RemoveMarkers()
		return nil
	})

	// Copying never mutates, so it stays available on readonly
	// instances. Headless environments without a clipboard fail the
	// write; that is logged and swallowed.
	if err := e.cmds.RegisterDescribed("copyhtml", command.Described{
		Exec: func(name string, showUI bool, value any) any {
			if err := sel.CopyHTML(); err != nil {
				e.logger.Debug("clipboard: %v", err)
			}
			return false
		},
		AllowReadonly: true,
	}); err != nil {
		e.logger.Warn("register copyhtml: %v", err)
	}

	e.overrideAttr("data-ink-editor", e.id)
	e.bus.Fire(event.CreateEditor, e)
}

// checkAlive reports destruction or context cancellation that occurred
// since the previous step.
func (e *Editor) checkAlive(ctx context.Context) error {
	if e.Status() == StatusDestructed {
		return ErrDestructed
	}
	if err := ctx.Err(); err != nil {
		e.Destruct()
		return fmt.Errorf("init aborted: %w", err)
	}
	return nil
}

// Destruct tears the instance down. It is synchronous and idempotent:
// a second call is a no-op, including a re-entrant call made from a
// beforeDestruct handler. The beforeDestruct event fires first and a
// false return aborts the whole call, leaving the instance live in its
// previous state. Otherwise the final value is captured into the
// source element, overridden source attributes are restored, plugins
// destruct in reverse init order, instance-scoped bus bindings detach,
// the owned document region is released and the instance deregisters.
func (e *Editor) Destruct() {
	var prev int32
	for {
		s := e.status.Load()
		if s == int32(StatusDestructing) || s == int32(StatusDestructed) {
			return
		}
		if e.status.CompareAndSwap(s, int32(StatusDestructing)) {
			prev = s
			break
		}
	}

	if e.bus.Fire(event.BeforeDestruct, e).Cancelled() {
		e.status.Store(prev)
		return
	}
	e.status.Store(int32(StatusDestructed))

	if doc := e.document(); doc != nil {
		e.source.SetValue(e.engine.EditorValue(true))
	}

	e.system.Destruct(e)
	e.restoreAttrs()

	e.bus.Off("." + busNamespace)
	e.bus.RemoveAll()

	e.setDocument(nil, nil)
	e.instances.Unregister(e.id)
	e.logger.Info("editor destructed")
}

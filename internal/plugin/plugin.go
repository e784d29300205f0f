// Package plugin implements the extension system: a process-wide
// registry of named plugins with dependency-ordered resolution, and a
// per-instance runner that initializes and tears them down around the
// editor lifecycle. A plugin that fails to initialize is logged and
// skipped; it never takes the instance down with it.
package plugin

import (
	"errors"

	"github.com/tbraden/inkstone/internal/command"
	"github.com/tbraden/inkstone/internal/event"
	"github.com/tbraden/inkstone/internal/log"
	"github.com/tbraden/inkstone/internal/settings"
)

// Package errors.
var (
	// ErrEmptyName is returned when a plugin is registered without a name.
	ErrEmptyName = errors.New("empty plugin name")

	// ErrNilPlugin is returned when a nil plugin is registered.
	ErrNilPlugin = errors.New("nil plugin")

	// ErrDuplicate is returned when a plugin name is registered twice.
	ErrDuplicate = errors.New("plugin already registered")

	// ErrUnknown is returned when resolution references an unregistered
	// plugin.
	ErrUnknown = errors.New("unknown plugin")

	// ErrCycle is returned when plugin requirements form a cycle.
	ErrCycle = errors.New("plugin requirement cycle")
)

// Instance is the surface a plugin sees of the editor it is attached
// to. The lifecycle coordinator implements it; tests may substitute a
// fake.
type Instance interface {
	// ID returns the instance identifier.
	ID() string

	// Value returns the current editor value.
	Value() string

	// SetValue replaces the editor value.
	SetValue(value string)

	// Exec dispatches a command through the instance's pipeline.
	Exec(name string, showUI bool, value any) any

	// RegisterCommand adds a command handler on the instance.
	RegisterCommand(name string, fn command.Func) error

	// OnEvent subscribes to the instance's event bus.
	OnEvent(spec string, handler event.Handler) error

	// Settings returns the instance's settings store.
	Settings() settings.Store

	// Logger returns the instance's logger.
	Logger() *log.Logger
}

// Plugin is the minimal extension contract: attach behavior to an
// instance during initialization.
type Plugin interface {
	Init(inst Instance) error
}

// Destructor is implemented by plugins that hold per-instance
// resources to release at teardown.
type Destructor interface {
	Destruct(inst Instance)
}

// Requirer is implemented by plugins that must initialize after
// others. Requirements resolve transitively; cycles are rejected at
// resolution time.
type Requirer interface {
	Requires() []string
}

// Func adapts a plain function to the Plugin interface.
type Func func(inst Instance) error

// Init implements Plugin.
func (f Func) Init(inst Instance) error { return f(inst) }

package lua

import (
	"fmt"
	"sync"

	"github.com/tbraden/inkstone/internal/plugin"
	lua "github.com/yuin/gopher-lua"
)

// Script is a plugin defined by Lua source. Attaching it to an editor
// instance compiles the source in a fresh sandboxed state, exposes the
// "editor" module, and calls the script's optional init() global; at
// teardown the optional destruct() global runs before the state
// closes.
//
// gopher-lua states are not goroutine-safe, so every entry into a
// state (command handlers, event handlers, lifecycle calls) is
// serialized through one mutex per attachment.
type Script struct {
	name   string
	source string

	mu     sync.Mutex
	states map[string]*attachment // instance ID -> state
}

type attachment struct {
	mu sync.Mutex
	L  *lua.LState
}

// NewScript creates a script plugin from source.
func NewScript(name, source string) (*Script, error) {
	if source == "" {
		return nil, ErrNoSource
	}
	return &Script{
		name:   name,
		source: source,
		states: make(map[string]*attachment),
	}, nil
}

// Name returns the script's plugin name.
func (s *Script) Name() string { return s.name }

// Init implements plugin.Plugin. Compilation or init() failure closes
// the state and reports the error; the plugin system logs and skips.
func (s *Script) Init(inst plugin.Instance) error {
	att := &attachment{L: newSandboxedState()}
	s.installEditorModule(att, inst)

	att.mu.Lock()
	defer att.mu.Unlock()

	if err := att.L.DoString(s.source); err != nil {
		att.L.Close()
		return fmt.Errorf("script %q: %w", s.name, err)
	}
	if err := callGlobal(att.L, "init"); err != nil {
		att.L.Close()
		return fmt.Errorf("script %q init: %w", s.name, err)
	}

	s.mu.Lock()
	s.states[inst.ID()] = att
	s.mu.Unlock()
	return nil
}

// Destruct implements plugin.Destructor. The script's destruct()
// global runs best-effort before the state closes.
func (s *Script) Destruct(inst plugin.Instance) {
	s.mu.Lock()
	att, ok := s.states[inst.ID()]
	delete(s.states, inst.ID())
	s.mu.Unlock()
	if !ok {
		return
	}

	att.mu.Lock()
	defer att.mu.Unlock()
	if err := callGlobal(att.L, "destruct"); err != nil {
		inst.Logger().Warn("script %q destruct: %v", s.name, err)
	}
	att.L.Close()
}

// callGlobal calls a no-argument global function if it exists.
func callGlobal(L *lua.LState, name string) error {
	fn := L.GetGlobal(name)
	if fn.Type() != lua.LTFunction {
		return nil
	}
	return L.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true})
}

// installEditorModule preloads the "editor" module and sets it as a
// global, so scripts can use it directly or require it.
func (s *Script) installEditorModule(att *attachment, inst plugin.Instance) {
	L := att.L

	funcs := map[string]lua.LGFunction{
		"get_value": func(L *lua.LState) int {
			L.Push(lua.LString(inst.Value()))
			return 1
		},
		"set_value": func(L *lua.LState) int {
			inst.SetValue(L.CheckString(1))
			return 0
		},
		"exec": func(L *lua.LState) int {
			name := L.CheckString(1)
			var value any
			if L.GetTop() >= 2 {
				value = luaToGo(L.Get(2))
			}
			res := inst.Exec(name, false, value)
			L.Push(goToLua(L, res))
			return 1
		},
		"register_command": func(L *lua.LState) int {
			name := L.CheckString(1)
			fn := L.CheckFunction(2)
			err := inst.RegisterCommand(name, s.commandBridge(att, fn))
			if err != nil {
				L.RaiseError("register_command %q: %s", name, err.Error())
			}
			return 0
		},
		"on": func(L *lua.LState) int {
			spec := L.CheckString(1)
			fn := L.CheckFunction(2)
			err := inst.OnEvent(spec, s.eventBridge(att, fn))
			if err != nil {
				L.RaiseError("on %q: %s", spec, err.Error())
			}
			return 0
		},
		"log": func(L *lua.LState) int {
			inst.Logger().Info("[%s] %s", s.name, L.CheckString(1))
			return 0
		},
	}

	mod := L.SetFuncs(L.NewTable(), funcs)
	L.SetGlobal("editor", mod)
	L.PreloadModule("editor", func(L *lua.LState) int {
		L.Push(mod)
		return 1
	})
}

// commandBridge wraps a Lua function as a command handler. The Lua
// function receives (name, value) and its return value flows back
// into dispatch, so a script can produce results or suppress native
// execution by returning false.
func (s *Script) commandBridge(att *attachment, fn *lua.LFunction) func(name string, showUI bool, value any) any {
	return func(name string, showUI bool, value any) any {
		att.mu.Lock()
		defer att.mu.Unlock()

		err := att.L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true},
			lua.LString(name), goToLua(att.L, value))
		if err != nil {
			return nil
		}
		ret := att.L.Get(-1)
		att.L.Pop(1)
		return luaToGo(ret)
	}
}

// eventBridge wraps a Lua function as an event handler. Arguments are
// converted best-effort; unconvertible ones arrive as nil.
func (s *Script) eventBridge(att *attachment, fn *lua.LFunction) func(args ...any) any {
	return func(args ...any) any {
		att.mu.Lock()
		defer att.mu.Unlock()

		largs := make([]lua.LValue, len(args))
		for i, a := range args {
			largs[i] = goToLua(att.L, a)
		}
		err := att.L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, largs...)
		if err != nil {
			return nil
		}
		ret := att.L.Get(-1)
		att.L.Pop(1)
		return luaToGo(ret)
	}
}

// Package lua runs scripted plugins in sandboxed gopher-lua states.
// Each editor instance a script attaches to gets its own state; the
// script talks back through a preloaded "editor" module.
package lua

import (
	"errors"

	lua "github.com/yuin/gopher-lua"
)

// Package errors.
var (
	// ErrStateClosed is returned when a closed state is used.
	ErrStateClosed = errors.New("lua state closed")

	// ErrNoSource is returned when a script is created without source.
	ErrNoSource = errors.New("empty script source")
)

// newSandboxedState creates an LState with only the safe standard
// libraries opened and the load-from-anywhere escape hatches removed.
func newSandboxedState() *lua.LState {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})

	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
	// io, os, debug and package stay closed: scripts extend the editor,
	// they do not touch the host system.

	for _, name := range []string{"dofile", "loadfile", "load", "loadstring"} {
		L.SetGlobal(name, lua.LNil)
	}
	return L
}

// goToLua converts the values the editor surface produces into Lua
// values. Unsupported types map to nil.
func goToLua(L *lua.LState, v any) lua.LValue {
	switch x := v.(type) {
	case nil:
		return lua.LNil
	case string:
		return lua.LString(x)
	case bool:
		return lua.LBool(x)
	case int:
		return lua.LNumber(x)
	case float64:
		return lua.LNumber(x)
	case error:
		return lua.LString(x.Error())
	default:
		return lua.LNil
	}
}

// luaToGo converts a Lua return value back to the any-typed world of
// the command and event pipelines. LNil maps to nil so a handler that
// returns nothing stays neutral in dispatch.
func luaToGo(v lua.LValue) any {
	switch x := v.(type) {
	case *lua.LNilType:
		return nil
	case lua.LString:
		return string(x)
	case lua.LBool:
		return bool(x)
	case lua.LNumber:
		return float64(x)
	default:
		return nil
	}
}

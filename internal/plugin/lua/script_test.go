package lua

import (
	"strings"
	"testing"

	"github.com/tbraden/inkstone/internal/command"
	"github.com/tbraden/inkstone/internal/event"
	"github.com/tbraden/inkstone/internal/log"
	"github.com/tbraden/inkstone/internal/plugin"
	"github.com/tbraden/inkstone/internal/settings"
)

// scriptHost wires a real bus and command registry behind the
// plugin.Instance surface, so scripts are exercised through the same
// dispatch pipeline an editor would use.
type scriptHost struct {
	bus   *event.Bus
	cmds  *command.Registry
	value string
}

func newScriptHost() *scriptHost {
	h := &scriptHost{bus: event.NewBus()}
	h.cmds = command.New(h.bus)
	return h
}

func (h *scriptHost) ID() string               { return "host" }
func (h *scriptHost) Value() string            { return h.value }
func (h *scriptHost) SetValue(v string)        { h.value = v }
func (h *scriptHost) Settings() settings.Store { return settings.NewMemory() }
func (h *scriptHost) Logger() *log.Logger      { return log.Discard() }

func (h *scriptHost) Exec(name string, showUI bool, value any) any {
	return h.cmds.Exec(name, showUI, value)
}

func (h *scriptHost) RegisterCommand(name string, fn command.Func) error {
	return h.cmds.Register(name, fn)
}

func (h *scriptHost) OnEvent(spec string, handler event.Handler) error {
	return h.bus.On(spec, handler)
}

func TestScript_RegistersCommand(t *testing.T) {
	src := `
		editor.register_command("shout", function(name, value)
			editor.set_value(string.upper(editor.get_value()))
			return "done"
		end)
	`
	s, err := NewScript("shouter", src)
	if err != nil {
		t.Fatal(err)
	}

	host := newScriptHost()
	host.value = "quiet"
	if err := s.Init(host); err != nil {
		t.Fatalf("init: %v", err)
	}
	defer s.Destruct(host)

	got := host.Exec("shout", false, nil)

	if host.value != "QUIET" {
		t.Errorf("value = %q, want QUIET", host.value)
	}
	if got != "done" {
		t.Errorf("result = %v, want script return", got)
	}
}

func TestScript_InitGlobalRuns(t *testing.T) {
	src := `
		function init()
			editor.set_value("from init")
		end
	`
	s, err := NewScript("initer", src)
	if err != nil {
		t.Fatal(err)
	}

	host := newScriptHost()
	if err := s.Init(host); err != nil {
		t.Fatalf("init: %v", err)
	}
	defer s.Destruct(host)

	if host.value != "from init" {
		t.Errorf("value = %q", host.value)
	}
}

func TestScript_DestructGlobalRuns(t *testing.T) {
	src := `
		function destruct()
			editor.set_value("gone")
		end
	`
	s, err := NewScript("closer", src)
	if err != nil {
		t.Fatal(err)
	}

	host := newScriptHost()
	if err := s.Init(host); err != nil {
		t.Fatalf("init: %v", err)
	}
	s.Destruct(host)

	if host.value != "gone" {
		t.Errorf("value = %q, want destruct to have run", host.value)
	}

	// Destructing again without an attachment is a no-op.
	s.Destruct(host)
}

func TestScript_EventSubscription(t *testing.T) {
	src := `
		editor.on("change", function(new, old)
			editor.set_value("saw " .. tostring(new))
		end)
	`
	s, err := NewScript("watcher", src)
	if err != nil {
		t.Fatal(err)
	}

	host := newScriptHost()
	if err := s.Init(host); err != nil {
		t.Fatalf("init: %v", err)
	}
	defer s.Destruct(host)

	host.bus.Fire(event.Change, "v2", "v1")

	if host.value != "saw v2" {
		t.Errorf("value = %q", host.value)
	}
}

func TestScript_CompileErrorReported(t *testing.T) {
	s, err := NewScript("broken", "this is not lua (")
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Init(newScriptHost()); err == nil {
		t.Error("broken script initialized without error")
	}
}

func TestScript_SandboxBlocksLoaders(t *testing.T) {
	for _, fn := range []string{"dofile", "loadfile", "load", "loadstring"} {
		src := `if ` + fn + ` ~= nil then error("escape hatch open") end`
		s, err := NewScript("sandbox", src)
		if err != nil {
			t.Fatal(err)
		}
		if err := s.Init(newScriptHost()); err != nil {
			if strings.Contains(err.Error(), "escape hatch open") {
				t.Errorf("%s is reachable from scripts", fn)
			} else {
				t.Errorf("check for %s failed unexpectedly: %v", fn, err)
			}
		}
	}
}

func TestScript_EmptySource(t *testing.T) {
	if _, err := NewScript("empty", ""); err != ErrNoSource {
		t.Errorf("NewScript(\"\") = %v, want ErrNoSource", err)
	}
}

func TestSystem_RunsScript(t *testing.T) {
	src := `
		editor.register_command("stamp", function()
			editor.set_value(editor.get_value() .. "!")
			return nil
		end)
	`
	s, err := NewScript("stamper", src)
	if err != nil {
		t.Fatal(err)
	}

	reg := plugin.NewRegistry()
	if err := reg.Register("stamper", s); err != nil {
		t.Fatal(err)
	}

	host := newScriptHost()
	host.value = "x"
	sys := plugin.NewSystem(reg, []string{"stamper"}, log.Discard())
	if err := sys.Init(host); err != nil {
		t.Fatalf("system init: %v", err)
	}

	host.Exec("stamp", false, nil)
	host.Exec("stamp", false, nil)

	if host.value != "x!!" {
		t.Errorf("value = %q, want x!!", host.value)
	}

	sys.Destruct(host)
}

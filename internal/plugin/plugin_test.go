package plugin

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/tbraden/inkstone/internal/command"
	"github.com/tbraden/inkstone/internal/event"
	"github.com/tbraden/inkstone/internal/log"
	"github.com/tbraden/inkstone/internal/settings"
)

// fakeInstance is a minimal Instance for exercising the system without
// a full editor.
type fakeInstance struct {
	value string
}

func (f *fakeInstance) ID() string                { return "test" }
func (f *fakeInstance) Value() string             { return f.value }
func (f *fakeInstance) SetValue(v string)         { f.value = v }
func (f *fakeInstance) Settings() settings.Store  { return settings.NewMemory() }
func (f *fakeInstance) Logger() *log.Logger       { return log.Discard() }
func (f *fakeInstance) Exec(name string, showUI bool, value any) any {
	return nil
}
func (f *fakeInstance) RegisterCommand(name string, fn command.Func) error {
	return nil
}
func (f *fakeInstance) OnEvent(spec string, handler event.Handler) error {
	return nil
}

// tracePlugin records init/destruct calls in a shared trace.
type tracePlugin struct {
	name     string
	requires []string
	initErr  error
	trace    *[]string
}

func (p *tracePlugin) Init(inst Instance) error {
	if p.initErr != nil {
		return p.initErr
	}
	*p.trace = append(*p.trace, "init:"+p.name)
	return nil
}

func (p *tracePlugin) Destruct(inst Instance) {
	*p.trace = append(*p.trace, "destruct:"+p.name)
}

func (p *tracePlugin) Requires() []string { return p.requires }

func TestRegister_Errors(t *testing.T) {
	r := NewRegistry()
	p := Func(func(inst Instance) error { return nil })

	if err := r.Register("", p); !errors.Is(err, ErrEmptyName) {
		t.Errorf("empty name: %v", err)
	}
	if err := r.Register("x", nil); !errors.Is(err, ErrNilPlugin) {
		t.Errorf("nil plugin: %v", err)
	}
	if err := r.Register("x", p); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := r.Register("x", p); !errors.Is(err, ErrDuplicate) {
		t.Errorf("duplicate: %v", err)
	}
}

func TestResolve_RequirementOrder(t *testing.T) {
	var trace []string
	r := NewRegistry()
	r.Register("c", &tracePlugin{name: "c", requires: []string{"b"}, trace: &trace})
	r.Register("a", &tracePlugin{name: "a", trace: &trace})
	r.Register("b", &tracePlugin{name: "b", requires: []string{"a"}, trace: &trace})

	resolved, err := r.Resolve([]string{"c"})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	var names []string
	for _, n := range resolved {
		names = append(names, n.Name)
	}
	if diff := cmp.Diff([]string{"a", "b", "c"}, names); diff != "" {
		t.Errorf("resolution order mismatch (-want +got):\n%s", diff)
	}
}

func TestResolve_EmptyRequestMeansAll(t *testing.T) {
	var trace []string
	r := NewRegistry()
	r.Register("one", &tracePlugin{name: "one", trace: &trace})
	r.Register("two", &tracePlugin{name: "two", trace: &trace})

	resolved, err := r.Resolve(nil)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(resolved) != 2 || resolved[0].Name != "one" || resolved[1].Name != "two" {
		t.Errorf("resolved %v, want registration order", resolved)
	}
}

func TestResolve_Cycle(t *testing.T) {
	var trace []string
	r := NewRegistry()
	r.Register("a", &tracePlugin{name: "a", requires: []string{"b"}, trace: &trace})
	r.Register("b", &tracePlugin{name: "b", requires: []string{"a"}, trace: &trace})

	if _, err := r.Resolve([]string{"a"}); !errors.Is(err, ErrCycle) {
		t.Errorf("cycle: %v", err)
	}
}

func TestResolve_Unknown(t *testing.T) {
	r := NewRegistry()
	if _, err := r.Resolve([]string{"ghost"}); !errors.Is(err, ErrUnknown) {
		t.Errorf("unknown: %v", err)
	}
}

func TestSystem_InitSkipsFailures(t *testing.T) {
	var trace []string
	r := NewRegistry()
	r.Register("good", &tracePlugin{name: "good", trace: &trace})
	r.Register("bad", &tracePlugin{name: "bad", initErr: errors.New("boom"), trace: &trace})
	r.Register("after", &tracePlugin{name: "after", trace: &trace})

	s := NewSystem(r, nil, log.Discard())
	if err := s.Init(&fakeInstance{}); err != nil {
		t.Fatalf("init: %v", err)
	}

	want := []string{"good", "after"}
	if diff := cmp.Diff(want, s.Initialized()); diff != "" {
		t.Errorf("initialized set mismatch (-want +got):\n%s", diff)
	}
}

func TestSystem_DestructReverseOrder(t *testing.T) {
	var trace []string
	r := NewRegistry()
	r.Register("first", &tracePlugin{name: "first", trace: &trace})
	r.Register("second", &tracePlugin{name: "second", trace: &trace})

	inst := &fakeInstance{}
	s := NewSystem(r, nil, log.Discard())
	s.Init(inst)
	s.Destruct(inst)

	want := []string{"init:first", "init:second", "destruct:second", "destruct:first"}
	if diff := cmp.Diff(want, trace); diff != "" {
		t.Errorf("lifecycle trace mismatch (-want +got):\n%s", diff)
	}

	// Second destruct is a no-op.
	s.Destruct(inst)
	if len(trace) != 4 {
		t.Errorf("destruct ran again on a torn-down system: %v", trace)
	}
}

func TestSystem_ResolutionFailureIsReturned(t *testing.T) {
	s := NewSystem(NewRegistry(), []string{"missing"}, log.Discard())
	if err := s.Init(&fakeInstance{}); !errors.Is(err, ErrUnknown) {
		t.Errorf("init with unknown plugin: %v", err)
	}
}

func TestFuncAdapter(t *testing.T) {
	called := false
	p := Func(func(inst Instance) error {
		called = true
		return nil
	})
	if err := p.Init(&fakeInstance{}); err != nil || !called {
		t.Errorf("Func adapter: err=%v called=%v", err, called)
	}
}

package event

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// Bus is a synchronous publish/subscribe channel owned by one editor
// instance. It performs pure dispatch: handlers may mutate whatever they
// close over, but the bus itself never touches the document.
type Bus struct {
	mu   sync.RWMutex
	subs map[string][]*subscription // event name -> handlers in registration order

	// Stats
	fired     atomic.Uint64
	delivered atomic.Uint64
	recovered atomic.Uint64
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[string][]*subscription)}
}

// On registers a handler for one or more events. The spec is a
// space-separated list of "name" or "name.namespace" tokens; the same
// handler is appended to each. Returns ErrNilHandler or ErrEmptySpec on
// invalid input.
func (b *Bus) On(spec string, handler Handler) error {
	if handler == nil {
		return ErrNilHandler
	}
	specs, err := ParseSpec(spec)
	if err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for _, s := range specs {
		if s.Name == "" {
			return ErrEmptySpec
		}
		b.subs[s.Name] = append(b.subs[s.Name], &subscription{
			id:        uuid.NewString(),
			name:      s.Name,
			namespace: s.Namespace,
			handler:   handler,
		})
	}
	return nil
}

// Off removes subscriptions. Each token of the spec removes:
//
//	"name"           every handler for the event
//	"name.namespace" handlers for the event registered under the namespace
//	".namespace"     handlers under the namespace across all events
func (b *Bus) Off(spec string) error {
	specs, err := ParseSpec(spec)
	if err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for _, s := range specs {
		b.removeLocked(s)
	}
	return nil
}

// RemoveAll detaches every subscription on the bus.
func (b *Bus) RemoveAll() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs = make(map[string][]*subscription)
}

func (b *Bus) removeLocked(s Spec) {
	if s.Name != "" {
		if s.Namespace == "" {
			delete(b.subs, s.Name)
			return
		}
		b.subs[s.Name] = filterOut(b.subs[s.Name], s.Namespace)
		if len(b.subs[s.Name]) == 0 {
			delete(b.subs, s.Name)
		}
		return
	}
	// Bare ".namespace": filtered bulk removal across all names.
	for name, subs := range b.subs {
		subs = filterOut(subs, s.Namespace)
		if len(subs) == 0 {
			delete(b.subs, name)
		} else {
			b.subs[name] = subs
		}
	}
}

func filterOut(subs []*subscription, namespace string) []*subscription {
	kept := subs[:0]
	for _, sub := range subs {
		if sub.namespace != namespace {
			kept = append(kept, sub)
		}
	}
	return kept
}

// Fire invokes every handler registered for the event, in registration
// order, and returns their collected results. Handlers that panic are
// recovered and counted; their slot in the results is nil so one bad
// handler cannot abort delivery to the rest.
func (b *Bus) Fire(name string, args ...any) Results {
	handlers := b.snapshot(name)
	if len(handlers) == 0 {
		return Results{}
	}

	b.fired.Add(1)
	values := make([]any, len(handlers))
	for i, h := range handlers {
		values[i] = b.invoke(h, args...)
	}
	return Results{values: values}
}

// Reduce threads a value through the handler chain: each handler receives
// the current value followed by the extra args, and a non-nil return
// becomes the next value. Used for the mutable value-rewrite hooks.
func (b *Bus) Reduce(name string, value any, args ...any) any {
	handlers := b.snapshot(name)
	if len(handlers) == 0 {
		return value
	}

	b.fired.Add(1)
	callArgs := make([]any, 0, len(args)+1)
	for _, h := range handlers {
		callArgs = append(callArgs[:0], value)
		callArgs = append(callArgs, args...)
		if next := b.invoke(h, callArgs...); next != nil {
			value = next
		}
	}
	return value
}

// HandlerCount returns the number of handlers registered for an event.
func (b *Bus) HandlerCount(name string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[name])
}

// Stats reports dispatch counters for diagnostics.
func (b *Bus) Stats() (fired, delivered, recovered uint64) {
	return b.fired.Load(), b.delivered.Load(), b.recovered.Load()
}

func (b *Bus) snapshot(name string) []Handler {
	b.mu.RLock()
	defer b.mu.RUnlock()

	subs := b.subs[name]
	if len(subs) == 0 {
		return nil
	}
	handlers := make([]Handler, len(subs))
	for i, sub := range subs {
		handlers[i] = sub.handler
	}
	return handlers
}

func (b *Bus) invoke(h Handler, args ...any) (result any) {
	defer func() {
		if r := recover(); r != nil {
			b.recovered.Add(1)
			result = nil
		}
	}()
	result = h(args...)
	b.delivered.Add(1)
	return result
}

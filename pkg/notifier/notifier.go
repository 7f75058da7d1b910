package notifier

import (
	"sync"

	"github.com/google/uuid"
)

// Listener receives the event name and its payload.
type Listener[T any] func(name string, payload T)

// Notifier is the capability required by components that publish named events.
type Notifier[T any] interface {
	// On registers fn for events called name and returns a function removing it.
	On(name string, fn Listener[T]) func()
	// Emit synchronously invokes every listener registered for name.
	Emit(name string, payload T)
}

// Option configures an Emitter.
type Option func(*options)

type options struct {
	onError func(error)
}

// WithErrorHandler sets the function receiving recovered listener panics.
func WithErrorHandler(fn func(error)) Option {
	return func(o *options) {
		if fn != nil {
			o.onError = fn
		}
	}
}

type entry[T any] struct {
	id   string
	fn   Listener[T]
	once bool
}

// Emitter is the in-memory Notifier implementation.
// All methods are safe for concurrent use.
type Emitter[T any] struct {
	listeners map[string][]*entry[T]
	wildcard  []*entry[T]
	onError   func(error)
	mu        sync.RWMutex
}

// New creates an empty Emitter.
func New[T any](opts ...Option) *Emitter[T] {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	return &Emitter[T]{
		listeners: make(map[string][]*entry[T]),
		onError:   o.onError,
	}
}

// On registers fn for events called name. Nil listeners are ignored.
func (e *Emitter[T]) On(name string, fn Listener[T]) func() {
	return e.add(name, fn, false)
}

// Once registers fn to be invoked for the next event called name only.
func (e *Emitter[T]) Once(name string, fn Listener[T]) func() {
	return e.add(name, fn, true)
}

// OnAny registers fn for every event emitted.
func (e *Emitter[T]) OnAny(fn Listener[T]) func() {
	if fn == nil {
		return func() {}
	}

	ent := &entry[T]{id: uuid.New().String(), fn: fn}

	e.mu.Lock()
	e.wildcard = append(e.wildcard, ent)
	e.mu.Unlock()

	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		e.wildcard = without(e.wildcard, ent.id)
	}
}

// Emit invokes the listeners registered for name, then the wildcard listeners.
func (e *Emitter[T]) Emit(name string, payload T) {
	e.mu.Lock()
	named := e.listeners[name]
	snapshot := make([]*entry[T], 0, len(named)+len(e.wildcard))
	snapshot = append(snapshot, named...)
	snapshot = append(snapshot, e.wildcard...)

	// Once-listeners are removed before dispatch so a re-entrant Emit cannot fire them twice
	kept := named[:0:0]
	for _, ent := range named {
		if !ent.once {
			kept = append(kept, ent)
		}
	}
	if len(kept) == 0 {
		delete(e.listeners, name)
	} else {
		e.listeners[name] = kept
	}
	e.mu.Unlock()

	for _, ent := range snapshot {
		e.call(name, ent, payload)
	}
}

// ListenerCount returns the number of listeners registered for name,
// not counting wildcard listeners.
func (e *Emitter[T]) ListenerCount(name string) int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.listeners[name])
}

// Clear removes every listener.
func (e *Emitter[T]) Clear() {
	e.mu.Lock()
	defer e.mu.Unlock()
	clear(e.listeners)
	e.wildcard = nil
}

func (e *Emitter[T]) add(name string, fn Listener[T], once bool) func() {
	if fn == nil {
		return func() {}
	}

	ent := &entry[T]{id: uuid.New().String(), fn: fn, once: once}

	e.mu.Lock()
	e.listeners[name] = append(e.listeners[name], ent)
	e.mu.Unlock()

	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		rest := without(e.listeners[name], ent.id)
		if len(rest) == 0 {
			delete(e.listeners, name)
			return
		}
		e.listeners[name] = rest
	}
}

func (e *Emitter[T]) call(name string, ent *entry[T], payload T) {
	defer func() {
		if r := recover(); r != nil && e.onError != nil {
			e.onError(&ListenerPanicError{Event: name, ListenerID: ent.id, Value: r})
		}
	}()
	ent.fn(name, payload)
}

// without returns a copy of list without the entry with the given id.
func without[T any](list []*entry[T], id string) []*entry[T] {
	out := make([]*entry[T], 0, len(list))
	for _, ent := range list {
		if ent.id != id {
			out = append(out, ent)
		}
	}
	return out
}

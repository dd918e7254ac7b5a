// Package reduce is the type-reducer dispatch table. Registering a
// reducer for a type makes the snapshot codec decompose values of that
// type into a constructor callable plus an argument tuple, which is
// what gets serialized and later re-applied.
package reduce

import (
	"fmt"
	"reflect"
	"sync"

	"snaptrace/rep"
)

// Reducer decomposes a value into a constructor reference and the
// arguments it will be applied to at reconstruction time.
type Reducer func(v any) (rep.Callable, []any, error)

// Registry maps types to reducers. It is written during process
// initialization and read by the codec afterwards; registration is
// idempotent, and Reset exists for test isolation.
type Registry struct {
	mu     sync.RWMutex
	byType map[reflect.Type]Reducer
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byType: make(map[reflect.Type]Reducer)}
}

// Default is the process-wide registry the snapshot engine installs
// into.
var Default = NewRegistry()

// Register installs red for values of type t. Registering the same
// type again replaces the previous reducer, which is what makes a
// second engine initialization harmless.
func (r *Registry) Register(t reflect.Type, red Reducer) error {
	if t == nil {
		return fmt.Errorf("register reducer: nil type")
	}
	if red == nil {
		return fmt.Errorf("register reducer for %s: nil reducer", t)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byType[t] = red
	return nil
}

// Lookup returns the reducer for v's dynamic type.
func (r *Registry) Lookup(v any) (Reducer, bool) {
	if v == nil {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	red, ok := r.byType[reflect.TypeOf(v)]
	return red, ok
}

// Len returns the number of registered types.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byType)
}

// Reset drops every registration.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byType = make(map[reflect.Type]Reducer)
}

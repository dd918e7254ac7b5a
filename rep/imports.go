package rep

import (
	"context"
	"fmt"
	"io"
	"os"

	"snaptrace/internal/identity"
)

// ImportSet is the explicit safe-to-reference policy. A value found
// here during cleaning becomes an import-ref node instead of a mock,
// and the same set resolves the reference back to the live value at
// rebuild time. Nothing outside the set is ever re-imported or
// re-executed; unknown values degrade to opaque representations.
//
// Only pointer-shaped values can be registered, because membership is
// decided by object identity, not equality.
type ImportSet struct {
	byName map[string]any
	byID   map[identity.Key]ref
}

type ref struct {
	module string
	name   string
}

// NewImportSet returns an empty set.
func NewImportSet() *ImportSet {
	return &ImportSet{
		byName: make(map[string]any),
		byID:   make(map[identity.Key]ref),
	}
}

// Register adds v under (module, name). It fails for values without
// identity, which could not be matched during cleaning anyway.
func (s *ImportSet) Register(module, name string, v any) error {
	key, ok := identity.Of(v)
	if !ok {
		return fmt.Errorf("register %s.%s: value of type %T has no identity", module, name, v)
	}
	s.byName[module+"."+name] = v
	s.byID[key] = ref{module: module, name: name}
	return nil
}

// Lookup reports whether v is registered and under which reference.
func (s *ImportSet) Lookup(v any) (module, name string, ok bool) {
	if s == nil {
		return "", "", false
	}
	key, hasKey := identity.Of(v)
	if !hasKey {
		return "", "", false
	}
	r, ok := s.byID[key]
	return r.module, r.name, ok
}

// Resolve returns the live value registered under (module, name).
func (s *ImportSet) Resolve(module, name string) (any, bool) {
	if s == nil {
		return nil, false
	}
	v, ok := s.byName[module+"."+name]
	return v, ok
}

// Len returns the number of registered values.
func (s *ImportSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.byName)
}

// StdImports returns a set pre-populated with standard library
// sentinels that are always available in any Go process. Callers can
// extend the returned set; the stock entries are deliberately few,
// since the safe-to-reference decision is a policy, not a heuristic.
func StdImports() *ImportSet {
	s := NewImportSet()
	std := []struct {
		module string
		name   string
		value  any
	}{
		{"io", "EOF", io.EOF},
		{"io", "ErrUnexpectedEOF", io.ErrUnexpectedEOF},
		{"io", "ErrClosedPipe", io.ErrClosedPipe},
		{"os", "ErrNotExist", os.ErrNotExist},
		{"os", "ErrExist", os.ErrExist},
		{"os", "ErrPermission", os.ErrPermission},
		{"os", "ErrClosed", os.ErrClosed},
		{"context", "Canceled", context.Canceled},
	}
	for _, e := range std {
		if err := s.Register(e.module, e.name, e.value); err != nil {
			panic(fmt.Errorf("std import %s.%s: %w", e.module, e.name, err))
		}
	}
	return s
}

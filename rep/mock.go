package rep

import (
	"errors"
	"fmt"
	"sort"
)

// Mock is a rebuilt placeholder standing in for an opaque original.
// It reports the original's type name and repr string, and exposes the
// captured attribute mapping, without ever having run the original
// type's constructor.
type Mock struct {
	TypeName string
	Repr     string
	Attrs    map[string]any
}

// String returns the repr text captured from the original object.
func (m *Mock) String() string {
	return m.Repr
}

// Type returns the spoofed type identity of the original object.
func (m *Mock) Type() string {
	return m.TypeName
}

// Attr returns the captured attribute by name.
func (m *Mock) Attr(name string) (any, bool) {
	v, ok := m.Attrs[name]
	return v, ok
}

// AttrNames returns the captured attribute names, sorted.
func (m *Mock) AttrNames() []string {
	names := make([]string, 0, len(m.Attrs))
	for name := range m.Attrs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ErrStubInvoked is returned by every Stub call. Seeing it means
// reconstructed data was used as if it still held the original
// callable.
var ErrStubInvoked = errors.New("stub invoked: the original callable was not captured")

// Stub replaces a callable that could not be serialized.
type Stub struct {
	Name string
}

// Call always fails with the same descriptive error.
func (s *Stub) Call(...any) (any, error) {
	if s.Name != "" {
		return nil, fmt.Errorf("%w (original: %s)", ErrStubInvoked, s.Name)
	}
	return nil, ErrStubInvoked
}

// String returns a short placeholder description.
func (s *Stub) String() string {
	if s.Name != "" {
		return fmt.Sprintf("<stub %s>", s.Name)
	}
	return "<stub>"
}

package rep

import (
	"errors"
	"io"
	"testing"
)

func TestImportSet_RoundTrip(t *testing.T) {
	s := NewImportSet()
	sentinel := errors.New("boom")
	if err := s.Register("mypkg", "ErrBoom", sentinel); err != nil {
		t.Fatalf("Register() error: %v", err)
	}

	module, name, ok := s.Lookup(sentinel)
	if !ok || module != "mypkg" || name != "ErrBoom" {
		t.Errorf("Lookup() = %s.%s, %v; want mypkg.ErrBoom, true", module, name, ok)
	}
	v, ok := s.Resolve("mypkg", "ErrBoom")
	if !ok || v != sentinel {
		t.Errorf("Resolve() = %v, %v; want the registered value", v, ok)
	}
}

func TestImportSet_RejectsValuesWithoutIdentity(t *testing.T) {
	s := NewImportSet()
	if err := s.Register("pkg", "Answer", 42); err == nil {
		t.Error("Register() accepted a scalar")
	}
}

func TestImportSet_UnknownValues(t *testing.T) {
	s := NewImportSet()
	if _, _, ok := s.Lookup(errors.New("stranger")); ok {
		t.Error("Lookup() matched an unregistered value")
	}
	if _, ok := s.Resolve("io", "EOF"); ok {
		t.Error("Resolve() found a name in an empty set")
	}
}

func TestStdImports(t *testing.T) {
	s := StdImports()
	module, name, ok := s.Lookup(io.EOF)
	if !ok || module != "io" || name != "EOF" {
		t.Errorf("Lookup(io.EOF) = %s.%s, %v", module, name, ok)
	}
	if s.Len() == 0 {
		t.Error("StdImports() is empty")
	}
}

func TestImportSet_NilIsEmpty(t *testing.T) {
	var s *ImportSet
	if _, _, ok := s.Lookup(io.EOF); ok {
		t.Error("nil set matched a value")
	}
	if _, ok := s.Resolve("io", "EOF"); ok {
		t.Error("nil set resolved a name")
	}
	if s.Len() != 0 {
		t.Error("nil set has entries")
	}
}

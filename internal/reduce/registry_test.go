package reduce

import (
	"reflect"
	"testing"

	"snaptrace/rep"
)

type payload struct{ n int }

func TestRegistry_RegisterLookup(t *testing.T) {
	r := NewRegistry()
	red := func(v any) (rep.Callable, []any, error) {
		return rep.Ref("test", "ctor"), []any{v}, nil
	}
	if err := r.Register(reflect.TypeOf(payload{}), red); err != nil {
		t.Fatalf("Register() error: %v", err)
	}

	got, ok := r.Lookup(payload{n: 1})
	if !ok {
		t.Fatal("Lookup() missed a registered type")
	}
	ctor, args, err := got(payload{n: 1})
	if err != nil {
		t.Fatalf("reducer error: %v", err)
	}
	if ctor.Name != "ctor" || len(args) != 1 {
		t.Errorf("reducer returned %v, %v", ctor, args)
	}

	if _, ok := r.Lookup(&payload{}); ok {
		t.Error("Lookup() matched a pointer against a value registration")
	}
	if _, ok := r.Lookup(nil); ok {
		t.Error("Lookup(nil) matched")
	}
}

func TestRegistry_RegisterReplaces(t *testing.T) {
	r := NewRegistry()
	typ := reflect.TypeOf(payload{})
	first := func(v any) (rep.Callable, []any, error) {
		return rep.Ref("test", "first"), nil, nil
	}
	second := func(v any) (rep.Callable, []any, error) {
		return rep.Ref("test", "second"), nil, nil
	}
	if err := r.Register(typ, first); err != nil {
		t.Fatal(err)
	}
	if err := r.Register(typ, second); err != nil {
		t.Fatalf("re-register error: %v", err)
	}
	if r.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", r.Len())
	}
	red, _ := r.Lookup(payload{})
	ctor, _, _ := red(payload{})
	if ctor.Name != "second" {
		t.Errorf("active reducer is %q, want second", ctor.Name)
	}
}

func TestRegistry_RegisterRejectsNil(t *testing.T) {
	r := NewRegistry()
	red := func(v any) (rep.Callable, []any, error) {
		return rep.Callable{}, nil, nil
	}
	if err := r.Register(nil, red); err == nil {
		t.Error("Register(nil type) succeeded")
	}
	if err := r.Register(reflect.TypeOf(payload{}), nil); err == nil {
		t.Error("Register(nil reducer) succeeded")
	}
}

func TestRegistry_Reset(t *testing.T) {
	r := NewRegistry()
	red := func(v any) (rep.Callable, []any, error) {
		return rep.Callable{}, nil, nil
	}
	if err := r.Register(reflect.TypeOf(payload{}), red); err != nil {
		t.Fatal(err)
	}
	r.Reset()
	if r.Len() != 0 {
		t.Errorf("Len() after Reset = %d", r.Len())
	}
	if _, ok := r.Lookup(payload{}); ok {
		t.Error("Lookup() matched after Reset")
	}
}

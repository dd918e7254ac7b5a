package rep

import "fmt"

// Callable encodes "construct a value by applying a function to
// arguments" as plain data, so reconstruction never needs the defining
// package to be importable.
//
// Two forms exist. The reference form names a well-known function by
// (Module, Name) and is resolved against a namespace at rebuild time.
// The source-embedded form additionally carries the function's source
// text and origin so a reader can see exactly what will run; Go has no
// portable compiled-code representation, so the body is resolved by
// Name against a controlled table of load-time builtins rather than
// re-materialized from the text. The embedded form is reserved for
// pipeline machinery; user callables are always stubs.
type Callable struct {
	Module string `msgpack:"mod,omitempty"`
	Name   string `msgpack:"n"`
	Source string `msgpack:"src,omitempty"`
	File   string `msgpack:"f,omitempty"`
	Line   int    `msgpack:"l,omitempty"`
}

// Ref builds a reference-form callable.
func Ref(module, name string) Callable {
	return Callable{Module: module, Name: name}
}

// Embedded builds a source-embedded callable.
func Embedded(name, source, file string, line int) Callable {
	return Callable{Name: name, Source: source, File: file, Line: line}
}

// IsEmbedded reports whether the callable carries its own source text.
func (c Callable) IsEmbedded() bool {
	return c.Source != ""
}

func (c Callable) key() string {
	if c.Module != "" {
		return c.Module + "." + c.Name
	}
	return c.Name
}

// String returns a short human-readable form.
func (c Callable) String() string {
	if c.IsEmbedded() {
		return fmt.Sprintf("<embedded %s from %s:%d>", c.Name, c.File, c.Line)
	}
	return fmt.Sprintf("<ref %s>", c.key())
}

// BuiltinFunc is the shape of every function reachable from a rebuilt
// snapshot. Options flow in explicitly; the args come from the
// serialized payload.
type BuiltinFunc func(opts RebuildOptions, args ...any) (any, error)

// Namespace is the controlled table a Callable resolves against. It is
// populated at load time with pipeline builtins only; nothing from a
// snapshot can extend it.
type Namespace struct {
	funcs map[string]BuiltinFunc
}

// NewNamespace returns an empty namespace.
func NewNamespace() *Namespace {
	return &Namespace{funcs: make(map[string]BuiltinFunc)}
}

// Bind registers fn under name. Rebinding an existing name replaces it.
func (ns *Namespace) Bind(name string, fn BuiltinFunc) {
	ns.funcs[name] = fn
}

// Resolve looks the callable up in ns.
func (c Callable) Resolve(ns *Namespace) (BuiltinFunc, error) {
	if ns == nil {
		return nil, fmt.Errorf("resolve %s: nil namespace", c)
	}
	fn, ok := ns.funcs[c.key()]
	if !ok {
		return nil, fmt.Errorf("resolve %s: not a known builtin", c)
	}
	return fn, nil
}

var builtins = NewNamespace()

// Builtins returns the process-wide namespace of pipeline builtins.
func Builtins() *Namespace {
	return builtins
}

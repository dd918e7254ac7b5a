// Package identity derives stable per-object keys for cycle and
// deduplication tracking. Only pointer-shaped values have identity;
// plain scalars and value structs are copied on every reference, so
// a cycle can only ever pass through a pointer-shaped edge.
package identity

import "reflect"

// Key identifies one live object for the duration of a cleaning pass.
// The pointer alone is not enough: two objects of different types can
// share an address (a struct and its first field), so the dynamic type
// is part of the key.
type Key struct {
	ptr uintptr
	typ reflect.Type
}

// Of returns the identity key for v, and whether v has one.
func Of(v any) (Key, bool) {
	if v == nil {
		return Key{}, false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return Key{ptr: rv.Pointer(), typ: rv.Type()}, true
	default:
		return Key{}, false
	}
}

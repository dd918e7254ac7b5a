package cleaner

import (
	"reflect"
	"runtime"
	"sort"

	"snaptrace/internal/identity"
	"snaptrace/rep"
)

// cleanFallback handles every non-chain value by category. The outer
// Clean recover is the safety net, but this layer degrades internally
// wherever it can, to keep partial information instead of losing a
// whole subtree.
func (c *Cleaner) cleanFallback(v any, key identity.Key, hasKey bool, depth int) rep.NodeID {
	if v == nil {
		return c.nilNode()
	}

	// Well-known values become references, never copies. The policy
	// set is explicit: nothing outside it is ever re-imported.
	if module, name, ok := c.imports.Lookup(v); ok {
		return c.memoize(key, hasKey, rep.ImportNode(module, name))
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64,
		reflect.String:
		// Already safe for the wire codec: pass through unchanged.
		return c.memoize(key, hasKey, rep.LiteralNode(v))

	case reflect.Map:
		return c.cleanMap(rv, key, hasKey, depth)

	case reflect.Slice:
		if bs, ok := v.([]byte); ok {
			return c.memoize(key, hasKey, rep.LiteralNode(bs))
		}
		return c.cleanSeq(rv, "slice", key, hasKey, depth)

	case reflect.Array:
		return c.cleanSeq(rv, "array", key, hasKey, depth)

	case reflect.Func:
		return c.memoize(key, hasKey, rep.StubNode(funcName(rv)))

	case reflect.Pointer:
		if rv.IsNil() {
			return c.nilNode()
		}
		elem := rv.Elem()
		if elem.Kind() == reflect.Struct {
			return c.cleanMock(v, elem, key, hasKey, depth)
		}
		// Pointer to a non-struct: a mock with a single "value"
		// attribute, registered before the pointee is cleaned so
		// pointer cycles resolve.
		id := c.memoize(key, hasKey, rep.MockNode(formatValue(v), rv.Type().String()))
		valID := c.Clean(elem.Interface(), depth)
		c.tree.At(id).Attrs["value"] = valID
		return id

	case reflect.Struct:
		return c.cleanMock(v, rv, key, hasKey, depth)

	default:
		// Channels, complex numbers, unsafe pointers: nothing useful
		// to descend into.
		return c.memoize(key, hasKey, rep.TextNode(formatValue(v)))
	}
}

func (c *Cleaner) cleanMap(rv reflect.Value, key identity.Key, hasKey bool, depth int) rep.NodeID {
	id := c.memoize(key, hasKey, rep.Node{Kind: rep.KindMap})

	mapKeys := rv.MapKeys()
	sort.Slice(mapKeys, func(i, j int) bool {
		return formatValue(mapKeys[i].Interface()) < formatValue(mapKeys[j].Interface())
	})

	keys := make([]rep.NodeID, 0, len(mapKeys))
	vals := make([]rep.NodeID, 0, len(mapKeys))
	for _, mk := range mapKeys {
		keys = append(keys, c.Clean(mk.Interface(), depth))
		mv := rv.MapIndex(mk)
		if !mv.IsValid() {
			// Key deleted mid-walk; the engine must not fail over it.
			vals = append(vals, c.nilNode())
			continue
		}
		vals = append(vals, c.Clean(mv.Interface(), depth))
	}
	n := c.tree.At(id)
	n.Keys = keys
	n.Vals = vals
	return id
}

func (c *Cleaner) cleanSeq(rv reflect.Value, kind string, key identity.Key, hasKey bool, depth int) rep.NodeID {
	id := c.memoize(key, hasKey, rep.Node{Kind: rep.KindSeq, SeqKind: kind})

	elems := make([]rep.NodeID, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		elems[i] = c.Clean(rv.Index(i).Interface(), depth)
	}
	c.tree.At(id).Elems = elems
	return id
}

// cleanMock captures an opaque object as repr + type name + cleaned
// exported fields. If field introspection blows up partway, the node
// degrades in place to plain repr text.
func (c *Cleaner) cleanMock(v any, sv reflect.Value, key identity.Key, hasKey bool, depth int) rep.NodeID {
	id := c.memoize(key, hasKey, rep.MockNode(formatValue(v), reflect.TypeOf(v).String()))

	attrs := make(map[string]rep.NodeID)
	ok := func() (ok bool) {
		defer func() {
			if r := recover(); r != nil {
				ok = false
			}
		}()
		t := sv.Type()
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if !f.IsExported() {
				continue
			}
			attrs[f.Name] = c.Clean(sv.Field(i).Interface(), depth)
		}
		return true
	}()

	n := c.tree.At(id)
	if !ok {
		*n = rep.TextNode(formatValue(v))
		return id
	}
	n.Attrs = attrs
	return id
}

func funcName(rv reflect.Value) string {
	fn := runtime.FuncForPC(rv.Pointer())
	if fn == nil {
		return ""
	}
	return fn.Name()
}

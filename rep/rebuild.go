package rep

import (
	"fmt"
	"reflect"

	"snaptrace/linecache"
)

// RebuildOptions configures reconstruction of a tree.
type RebuildOptions struct {
	// Restorer is the inverse of the external serializer used at
	// capture time. When nil, restored nodes fall back to their
	// captured repr text.
	Restorer func([]byte) (any, error)

	// Imports resolves import-ref nodes. Defaults to StdImports.
	Imports *ImportSet

	// Cache receives snapshotted source files. Defaults to
	// linecache.Default.
	Cache *linecache.Cache
}

func (o RebuildOptions) imports() *ImportSet {
	if o.Imports != nil {
		return o.Imports
	}
	return StdImports()
}

func (o RebuildOptions) cache() *linecache.Cache {
	if o.Cache != nil {
		return o.Cache
	}
	return linecache.Default
}

// Rebuild materializes the arena into live values. Mocks and stubs
// become *Mock and *Stub; containers become []any and map[any]any.
// The same node id always rebuilds to the same value, so sharing in
// the tree survives as sharing in the output, and cycles resolve
// because container shells exist before their contents are filled.
func (t *Tree) Rebuild(opts RebuildOptions) (any, error) {
	if t == nil || t.Root == NoNode {
		return nil, nil
	}
	if !t.Valid(t.Root) {
		return nil, fmt.Errorf("rebuild: root id %d out of range", t.Root)
	}

	vals := make([]any, len(t.Nodes))

	// Shells first, so back-references land on something.
	for i := range t.Nodes {
		n := &t.Nodes[i]
		switch n.Kind {
		case KindMock:
			vals[i] = &Mock{TypeName: n.TypeName, Repr: n.Text, Attrs: make(map[string]any, len(n.Attrs))}
		case KindSeq:
			vals[i] = make([]any, len(n.Elems))
		case KindMap:
			vals[i] = make(map[any]any, len(n.Keys))
		}
	}

	// Leaves next; they reference nothing.
	imports := opts.imports()
	for i := range t.Nodes {
		n := &t.Nodes[i]
		switch n.Kind {
		case KindLiteral:
			vals[i] = n.Value
		case KindText:
			vals[i] = n.Text
		case KindStub:
			vals[i] = &Stub{Name: n.Name}
		case KindImport:
			if v, ok := imports.Resolve(n.Module, n.Name); ok {
				vals[i] = v
			} else {
				vals[i] = fmt.Sprintf("<unresolved import %s.%s>", n.Module, n.Name)
			}
		case KindRestored:
			vals[i] = restore(opts.Restorer, n.Data, n.Text)
		}
	}

	// Containers last; every child shell or leaf already exists.
	for i := range t.Nodes {
		n := &t.Nodes[i]
		switch n.Kind {
		case KindMock:
			m := vals[i].(*Mock)
			for name, child := range n.Attrs {
				v, err := t.childVal(vals, child)
				if err != nil {
					return nil, fmt.Errorf("rebuild mock attr %q: %w", name, err)
				}
				m.Attrs[name] = v
			}
		case KindSeq:
			elems := vals[i].([]any)
			for j, child := range n.Elems {
				v, err := t.childVal(vals, child)
				if err != nil {
					return nil, fmt.Errorf("rebuild seq elem %d: %w", j, err)
				}
				elems[j] = v
			}
		case KindMap:
			if len(n.Keys) != len(n.Vals) {
				return nil, fmt.Errorf("rebuild map node %d: %d keys, %d values", i, len(n.Keys), len(n.Vals))
			}
			m := vals[i].(map[any]any)
			for j := range n.Keys {
				k, err := t.childVal(vals, n.Keys[j])
				if err != nil {
					return nil, fmt.Errorf("rebuild map key %d: %w", j, err)
				}
				v, err := t.childVal(vals, n.Vals[j])
				if err != nil {
					return nil, fmt.Errorf("rebuild map value %d: %w", j, err)
				}
				m[hashable(k)] = v
			}
		case KindInvalid:
			return nil, fmt.Errorf("rebuild: node %d has invalid kind", i)
		}
	}

	return vals[t.Root], nil
}

func (t *Tree) childVal(vals []any, id NodeID) (any, error) {
	if id == NoNode {
		return nil, nil
	}
	if !t.Valid(id) {
		return nil, fmt.Errorf("child id %d out of range", id)
	}
	return vals[id], nil
}

// hashable folds rebuilt values that cannot be map keys (a rebuilt
// array becomes []any) down to their textual form.
func hashable(k any) any {
	if k == nil {
		return nil
	}
	if reflect.TypeOf(k).Comparable() {
		return k
	}
	return fmt.Sprintf("%v", k)
}

// restore applies the configured restorer, falling back to the
// captured repr on failure. The restorer may panic on foreign bytes;
// that is absorbed too.
func restore(restorer func([]byte) (any, error), data []byte, repr string) (out any) {
	if restorer == nil {
		return repr
	}
	defer func() {
		if r := recover(); r != nil {
			out = repr
		}
	}()
	v, err := restorer(data)
	if err != nil {
		return repr
	}
	return v
}

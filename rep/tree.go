package rep

import (
	"fmt"

	"fortio.org/safecast"
)

// NodeID addresses one node inside a Tree.
type NodeID int32

// NoNode is the null node id. Attribute slots that were never wired
// (and the root of an empty tree) hold NoNode.
const NoNode NodeID = -1

// Kind discriminates the representation variants.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindLiteral
	KindText
	KindSeq
	KindMap
	KindImport
	KindMock
	KindStub
	KindRestored
)

// String returns the string representation of Kind.
func (k Kind) String() string {
	switch k {
	case KindLiteral:
		return "literal"
	case KindText:
		return "text"
	case KindSeq:
		return "seq"
	case KindMap:
		return "map"
	case KindImport:
		return "import"
	case KindMock:
		return "mock"
	case KindStub:
		return "stub"
	case KindRestored:
		return "restored"
	default:
		return "invalid"
	}
}

// Node is one slot in the arena. Only the fields relevant to its Kind
// are populated; the rest stay at their zero value and are elided from
// the wire form.
type Node struct {
	Kind Kind `msgpack:"k"`

	// KindLiteral: the value itself, restricted to wire-safe scalars.
	Value any `msgpack:"v,omitempty"`

	// KindText: the textual rendering.
	// KindMock / KindRestored: the captured repr string.
	Text string `msgpack:"t,omitempty"`

	// KindMock: the spoofed type name reported after rebuild.
	TypeName string `msgpack:"tn,omitempty"`

	// KindSeq: original container kind ("slice" or "array") and elements.
	SeqKind string   `msgpack:"sk,omitempty"`
	Elems   []NodeID `msgpack:"el,omitempty"`

	// KindMap: parallel key/value node ids.
	Keys []NodeID `msgpack:"mk,omitempty"`
	Vals []NodeID `msgpack:"mv,omitempty"`

	// KindImport: module path and attribute name.
	// KindStub: Name carries the original callable's name.
	Module string `msgpack:"mod,omitempty"`
	Name   string `msgpack:"n,omitempty"`

	// KindMock: attribute name -> child node id.
	Attrs map[string]NodeID `msgpack:"a,omitempty"`

	// KindRestored: external serializer output.
	Data []byte `msgpack:"d,omitempty"`
}

// Tree is the arena holding one cleaned representation graph.
type Tree struct {
	Nodes []Node `msgpack:"nodes"`
	Root  NodeID `msgpack:"root"`
}

// NewTree returns an empty tree with no root.
func NewTree() *Tree {
	return &Tree{Root: NoNode}
}

// Alloc appends a node and returns its id.
func (t *Tree) Alloc(n Node) NodeID {
	id, err := safecast.Conv[int32](len(t.Nodes))
	if err != nil {
		panic(fmt.Errorf("node count overflow: %w", err))
	}
	t.Nodes = append(t.Nodes, n)
	return NodeID(id)
}

// At returns the node for the given id. The pointer stays valid only
// until the next Alloc.
func (t *Tree) At(id NodeID) *Node {
	if id < 0 || int(id) >= len(t.Nodes) {
		panic(fmt.Errorf("node id %d out of range (have %d nodes)", id, len(t.Nodes)))
	}
	return &t.Nodes[id]
}

// Valid reports whether id addresses a node in this tree.
func (t *Tree) Valid(id NodeID) bool {
	return id >= 0 && int(id) < len(t.Nodes)
}

// Len returns the number of allocated nodes.
func (t *Tree) Len() int {
	return len(t.Nodes)
}

// TextNode builds an opaque text node.
func TextNode(text string) Node {
	return Node{Kind: KindText, Text: text}
}

// LiteralNode builds a literal passthrough node.
func LiteralNode(v any) Node {
	return Node{Kind: KindLiteral, Value: v}
}

// MockNode builds an empty mock shell; attributes are wired in after
// the node is registered, so back-references hit the shell.
func MockNode(repr, typeName string) Node {
	return Node{Kind: KindMock, Text: repr, TypeName: typeName, Attrs: make(map[string]NodeID)}
}

// StubNode builds a placeholder for an uncaptured callable.
func StubNode(name string) Node {
	return Node{Kind: KindStub, Name: name}
}

// ImportNode builds a reference to a well-known value.
func ImportNode(module, name string) Node {
	return Node{Kind: KindImport, Module: module, Name: name}
}

// RestoredNode builds an external-serializer node with a repr fallback.
func RestoredNode(data []byte, repr string) Node {
	return Node{Kind: KindRestored, Data: data, Text: repr}
}

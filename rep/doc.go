// Package rep defines the sanitized representation tree produced by a
// capture and the primitives needed to turn it back into inspectable
// values in another process.
//
// # Arena
//
// The tree is an arena: a flat slice of nodes addressed by NodeID, with
// one distinguished root. Edges between nodes are indices, never Go
// pointers, so the serialized form can encode sharing and cycles
// directly. A node slot is allocated (and visible to back-references)
// before its fields are populated, which is what makes self-referential
// chains representable without infinite recursion.
//
// # Node kinds
//
//   - KindLiteral: a value the wire codec handles as-is
//   - KindText: an opaque textual rendering of something that could not
//     (or was not allowed to) be captured more faithfully
//   - KindSeq / KindMap: containers of child node ids, preserving the
//     original container kind
//   - KindImport: a reference to a well-known value, resolved by name at
//     rebuild time
//   - KindMock: repr text + spoofed type name + attribute mapping
//   - KindStub: a placeholder for an uncaptured callable
//   - KindRestored: bytes from an external serializer plus a repr
//     fallback used when the bytes cannot be restored
//
// # Rebuilding
//
// Tree.Rebuild materializes the arena into live values: mocks become
// *Mock, stubs become *Stub, containers become []any and map[any]any.
// Reconstruction never calls any original constructor; mocks receive
// the captured attribute mapping directly.
package rep

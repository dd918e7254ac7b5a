// Package cleaner turns a live, possibly cyclic, possibly
// unserializable object graph into a rep.Tree.
//
// The engine has one outer guarantee: it always produces a
// representation. Any failure while examining a value is absorbed and
// replaced with a textual rendering of that value; nothing in the
// cleaning path propagates an error or a panic to the caller.
//
// Two independent bounds shape the output. The fan-out depth limits
// how far the cleaner descends into nested values before degrading to
// text. The chain limit bounds how many trace links are walked; chains
// are flattened iteratively, so a chain longer than any safe call
// stack still cleans in constant stack space.
//
// Identity, not equality, drives cycle handling: each pointer-shaped
// object is cleaned at most once per pass, and its arena slot is
// registered before its attributes are computed, so a back-reference
// discovered mid-population resolves to the in-progress slot.
package cleaner

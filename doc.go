// Package snaptrace captures crash snapshots: it converts a live,
// possibly cyclic, possibly unserializable trace chain into a
// self-contained representation tree that can be stored and inspected
// in another process, without the defining code being importable
// there.
//
// Typical use installs the engine once at startup:
//
//	snaptrace.Init(snaptrace.DefaultConfig())
//
// after which any *chain.Trace handed to Dump (or anything going
// through the reducer registry) is cleaned and encoded. The capture
// path never fails: values that cannot be represented degrade to
// textual renderings, callables become stubs that error loudly when
// invoked, and opaque objects become mocks carrying their repr text,
// spoofed type name, and whatever attributes could be read.
//
// When source capture is enabled, the full text of every file
// referenced by the chain's frames rides along with the tree; Rebuild
// registers it into the line cache so debugging front ends can show
// source context with nothing on disk.
package snaptrace

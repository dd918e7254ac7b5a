// Package chain defines the runtime chain model a capture starts from:
// trace links, execution frames, and routine descriptors. Producers
// (an interpreter, a VM, a panic handler) build these from their own
// runtime state; the snapshot engine only reads them.
package chain

import "fmt"

// Code is the immutable descriptor of one compiled routine.
type Code struct {
	Name   string // routine name as the producer knows it
	File   string // path to the defining source file
	Consts []any  // nested constant values referenced by the routine
}

// String returns a short descriptor form.
func (c *Code) String() string {
	if c == nil {
		return "<code nil>"
	}
	return fmt.Sprintf("<code %s at %s>", c.Name, c.File)
}

// Frame is one execution context within a trace link. Back points at
// the caller frame; following Back repeatedly walks the call stack
// outward, and the chain is allowed to be cyclic.
type Frame struct {
	Code    *Code
	Back    *Frame
	Line    int
	Locals  map[string]any
	Globals map[string]any
	Hook    any // trace hook installed on the frame, if any
}

// String returns a short frame description.
func (f *Frame) String() string {
	if f == nil {
		return "<frame nil>"
	}
	if f.Code != nil {
		return fmt.Sprintf("<frame %s:%d in %s>", f.Code.File, f.Line, f.Code.Name)
	}
	return fmt.Sprintf("<frame line %d>", f.Line)
}

// Trace is one link in a propagation chain. Next points at the link
// the failure propagated to; the chain owns its links.
type Trace struct {
	Frame *Frame
	Next  *Trace
	Line  int
}

// String returns a short link description.
func (t *Trace) String() string {
	if t == nil {
		return "<trace nil>"
	}
	return fmt.Sprintf("<trace line %d>", t.Line)
}

// Len walks Next links and returns the chain length, stopping if the
// chain loops back on itself.
func (t *Trace) Len() int {
	seen := make(map[*Trace]bool)
	n := 0
	for cur := t; cur != nil && !seen[cur]; cur = cur.Next {
		seen[cur] = true
		n++
	}
	return n
}

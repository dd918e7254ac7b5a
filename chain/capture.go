package chain

import "runtime"

// maxHostFrames bounds how much of the host stack FromCallers reads.
const maxHostFrames = 128

// FromCallers builds a single-link chain from the host Go call stack,
// so a recover handler can snapshot a real crash. Host frames carry
// file, line, and function name; locals and globals are not reachable
// from the Go runtime and stay empty. skip counts frames to drop
// above the capture point, not including FromCallers itself.
func FromCallers(skip int) *Trace {
	pcs := make([]uintptr, maxHostFrames)
	n := runtime.Callers(skip+2, pcs)
	if n == 0 {
		return nil
	}
	frames := runtime.CallersFrames(pcs[:n])

	var top, prev *Frame
	line := 0
	for {
		fr, more := frames.Next()
		f := &Frame{
			Code: &Code{Name: fr.Function, File: fr.File},
			Line: fr.Line,
		}
		if top == nil {
			top = f
			line = fr.Line
		} else {
			prev.Back = f
		}
		prev = f
		if !more {
			break
		}
	}
	return &Trace{Frame: top, Line: line}
}

package chain

import (
	"strings"
	"testing"
)

func TestTrace_Len(t *testing.T) {
	t.Run("straight chain", func(t *testing.T) {
		t3 := &Trace{Line: 3}
		t2 := &Trace{Line: 2, Next: t3}
		t1 := &Trace{Line: 1, Next: t2}
		if got := t1.Len(); got != 3 {
			t.Errorf("Len() = %d, want 3", got)
		}
	})
	t.Run("cyclic chain terminates", func(t *testing.T) {
		t2 := &Trace{Line: 2}
		t1 := &Trace{Line: 1, Next: t2}
		t2.Next = t1
		if got := t1.Len(); got != 2 {
			t.Errorf("Len() = %d, want 2", got)
		}
	})
	t.Run("nil chain", func(t *testing.T) {
		var tr *Trace
		if got := tr.Len(); got != 0 {
			t.Errorf("Len() = %d, want 0", got)
		}
	})
}

func TestFromCallers(t *testing.T) {
	tr := FromCallers(0)
	if tr == nil || tr.Frame == nil {
		t.Fatal("FromCallers() returned no frames")
	}
	top := tr.Frame
	if top.Code == nil {
		t.Fatal("top frame has no code descriptor")
	}
	if !strings.Contains(top.Code.Name, "TestFromCallers") {
		t.Errorf("top frame = %q, want the calling test", top.Code.Name)
	}
	if !strings.HasSuffix(top.Code.File, "_test.go") {
		t.Errorf("top frame file = %q, want a test file", top.Code.File)
	}
	if top.Line <= 0 || tr.Line != top.Line {
		t.Errorf("line = %d (trace %d), want a positive shared line", top.Line, tr.Line)
	}
	if top.Back == nil {
		t.Error("expected caller frames below the test")
	}
}

func TestFromCallers_Skip(t *testing.T) {
	direct := FromCallers(0)
	skipped := FromCallers(1)
	if skipped == nil {
		t.Skip("stack too shallow to skip")
	}
	if direct.Frame.Code.Name == skipped.Frame.Code.Name {
		t.Errorf("skip had no effect: both start at %q", direct.Frame.Code.Name)
	}
}

func TestStringForms(t *testing.T) {
	code := &Code{Name: "run", File: "/src/app.sg"}
	fr := &Frame{Code: code, Line: 12}
	tr := &Trace{Frame: fr, Line: 12}

	if got := code.String(); !strings.Contains(got, "run") {
		t.Errorf("Code.String() = %q", got)
	}
	if got := fr.String(); !strings.Contains(got, "/src/app.sg:12") {
		t.Errorf("Frame.String() = %q", got)
	}
	if got := tr.String(); !strings.Contains(got, "12") {
		t.Errorf("Trace.String() = %q", got)
	}

	var nilCode *Code
	var nilFrame *Frame
	var nilTrace *Trace
	for _, s := range []string{nilCode.String(), nilFrame.String(), nilTrace.String()} {
		if !strings.Contains(s, "nil") {
			t.Errorf("nil String() = %q", s)
		}
	}
}

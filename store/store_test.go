package store

import (
	"errors"
	"testing"

	"snaptrace"
	"snaptrace/chain"
)

func testSnapshot(t *testing.T) *snaptrace.Snapshot {
	t.Helper()
	cfg := snaptrace.DefaultConfig()
	cfg.IncludeSource = false
	tr := &chain.Trace{
		Frame: &chain.Frame{
			Code:   &chain.Code{Name: "boot", File: "boot.sg"},
			Line:   4,
			Locals: map[string]any{"attempt": 3},
		},
		Line: 4,
	}
	return snaptrace.Capture(cfg, tr)
}

func TestStore_PutGet(t *testing.T) {
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	snap := testSnapshot(t)

	id, err := s.Put(snap)
	if err != nil {
		t.Fatalf("Put() error: %v", err)
	}
	if id == "" {
		t.Fatal("Put() returned an empty id")
	}

	got, err := s.Get(id)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if got.Tree.Len() != snap.Tree.Len() {
		t.Errorf("tree length = %d, want %d", got.Tree.Len(), snap.Tree.Len())
	}
	if got.Tree.Root != snap.Tree.Root {
		t.Errorf("root = %d, want %d", got.Tree.Root, snap.Tree.Root)
	}
	if got.Constructor.Name != snap.Constructor.Name {
		t.Errorf("constructor = %q, want %q", got.Constructor.Name, snap.Constructor.Name)
	}
}

func TestStore_List(t *testing.T) {
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	ids, err := s.List()
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(ids) != 0 {
		t.Fatalf("fresh store lists %v", ids)
	}

	snap := testSnapshot(t)
	want := make(map[string]bool)
	for i := 0; i < 3; i++ {
		id, err := s.Put(snap)
		if err != nil {
			t.Fatalf("Put() error: %v", err)
		}
		want[id] = true
	}

	ids, err = s.List()
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(ids) != len(want) {
		t.Fatalf("List() = %v, want %d ids", ids, len(want))
	}
	for _, id := range ids {
		if !want[id] {
			t.Errorf("List() returned unknown id %q", id)
		}
	}
}

func TestStore_Delete(t *testing.T) {
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	id, err := s.Put(testSnapshot(t))
	if err != nil {
		t.Fatalf("Put() error: %v", err)
	}

	if err := s.Delete(id); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if _, err := s.Get(id); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() after delete = %v, want ErrNotFound", err)
	}
	if err := s.Delete(id); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete() = %v, want ErrNotFound", err)
	}
}

func TestStore_GetUnknown(t *testing.T) {
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	if _, err := s.Get("no-such-id"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() = %v, want ErrNotFound", err)
	}
}

func TestStore_PutNil(t *testing.T) {
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	if _, err := s.Put(nil); err == nil {
		t.Error("Put(nil) succeeded")
	}
}

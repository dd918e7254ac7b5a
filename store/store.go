// Package store persists snapshots on disk so a crash dump survives
// the process that produced it. Entries are zstd-compressed msgpack
// payloads named by a random id, written atomically.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"

	"snaptrace"
)

const snapExt = ".snap.zst"

// ErrNotFound is returned by Get and Delete for unknown ids.
var ErrNotFound = errors.New("snapshot not found")

// Store holds snapshots under one directory.
// Safe for concurrent use.
type Store struct {
	mu  sync.RWMutex
	dir string
}

// Open initializes a store at dir, creating it if needed.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return &Store{dir: dir}, nil
}

// OpenDefault initializes a store at the standard per-user cache
// location for the given application name.
func OpenDefault(app string) (*Store, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("open store: %w", err)
		}
		base = filepath.Join(home, ".cache")
	}
	return Open(filepath.Join(base, app, "snapshots"))
}

// Dir returns the store directory.
func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) pathFor(id string) string {
	return filepath.Join(s.dir, id+snapExt)
}

// Put writes the snapshot and returns its new id.
func (s *Store) Put(snap *snaptrace.Snapshot) (string, error) {
	if snap == nil {
		return "", fmt.Errorf("put: nil snapshot")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.NewString()
	p := s.pathFor(id)

	f, err := os.CreateTemp(s.dir, "tmp-*")
	if err != nil {
		return "", fmt.Errorf("put: %w", err)
	}
	tmp := f.Name()
	defer func() {
		_ = os.Remove(tmp)
	}()

	zw, err := zstd.NewWriter(f)
	if err != nil {
		_ = f.Close()
		return "", fmt.Errorf("put: %w", err)
	}
	if err := snap.EncodeTo(zw); err != nil {
		_ = zw.Close()
		_ = f.Close()
		return "", fmt.Errorf("put: %w", err)
	}
	if err := zw.Close(); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("put: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("put: %w", err)
	}
	// Atomic replace keeps readers from ever seeing a partial dump.
	if err := os.Rename(tmp, p); err != nil {
		return "", fmt.Errorf("put: %w", err)
	}
	return id, nil
}

// Get reads the snapshot with the given id.
func (s *Store) Get(id string) (*snaptrace.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, err := os.Open(s.pathFor(id))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("get %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("get %s: %w", id, err)
	}
	defer func() {
		_ = f.Close()
	}()

	zr, err := zstd.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", id, err)
	}
	defer zr.Close()

	snap, err := snaptrace.DecodeFrom(zr)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", id, err)
	}
	return snap, nil
}

// List returns the stored snapshot ids, sorted.
func (s *Store) List() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("list: %w", err)
	}
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, snapExt) {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, snapExt))
	}
	sort.Strings(ids)
	return ids, nil
}

// Delete removes the snapshot with the given id.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.pathFor(id)); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("delete %s: %w", id, ErrNotFound)
		}
		return fmt.Errorf("delete %s: %w", id, err)
	}
	return nil
}

package snaptrace

import (
	"fmt"
	"io"
	"reflect"

	"github.com/vmihailenco/msgpack/v5"

	"snaptrace/chain"
	"snaptrace/internal/cleaner"
	"snaptrace/internal/reduce"
	"snaptrace/rep"
)

// Bump when the payload layout changes.
const snapshotSchemaVersion uint16 = 1

// Snapshot is one captured crash: the cleaned tree, the constructor
// that reassembles it, and optionally the text of every referenced
// source file.
type Snapshot struct {
	Constructor rep.Callable
	Tree        *rep.Tree
	Files       map[string]string
}

type snapshotPayload struct {
	Schema      uint16            `msgpack:"schema"`
	Constructor rep.Callable      `msgpack:"constructor"`
	Tree        *rep.Tree         `msgpack:"tree"`
	Files       map[string]string `msgpack:"files,omitempty"`
}

// Init installs the chain reducer into the process-wide registry.
// Calling it again is safe and simply replaces the configuration the
// reducer runs with.
func Init(cfg Config) {
	red := func(v any) (rep.Callable, []any, error) {
		tr, ok := v.(*chain.Trace)
		if !ok {
			return rep.Callable{}, nil, fmt.Errorf("reduce: got %T, want *chain.Trace", v)
		}
		snap := Capture(cfg, tr)
		return snap.Constructor, []any{snap.Tree, snap.Files}, nil
	}
	if err := reduce.Default.Register(reflect.TypeOf(&chain.Trace{}), red); err != nil {
		// Only reachable with nil arguments, which this path never passes.
		panic(err)
	}
}

// Reset removes every installed reducer. Intended for test isolation.
func Reset() {
	reduce.Default.Reset()
}

// Capture cleans a chain into a snapshot. It never fails: whatever
// cannot be represented faithfully degrades to text inside the tree.
func Capture(cfg Config, tr *chain.Trace) *Snapshot {
	cl := cleaner.New(cleaner.Config{
		Limit:      cfg.Limit,
		Serializer: cfg.Serializer,
		Imports:    cfg.Imports,
	})
	snap := &Snapshot{Tree: cl.Run(tr, cfg.Depth)}
	if cfg.IncludeSource {
		snap.Files = snapshotSourceFiles(tr)
		snap.Constructor = rep.CacheFilesCallable()
	} else {
		snap.Constructor = rep.RebuildChainCallable()
	}
	return snap
}

// Dump serializes v through the reducer registry. Init must have run
// for chain values to be accepted.
func Dump(v any, w io.Writer) error {
	red, ok := reduce.Default.Lookup(v)
	if !ok {
		return fmt.Errorf("dump: no reducer registered for %T (missing Init?)", v)
	}
	ctor, args, err := red(v)
	if err != nil {
		return fmt.Errorf("dump: reduce %T: %w", v, err)
	}
	snap, err := fromReduced(ctor, args)
	if err != nil {
		return fmt.Errorf("dump: %w", err)
	}
	return snap.EncodeTo(w)
}

func fromReduced(ctor rep.Callable, args []any) (*Snapshot, error) {
	if len(args) < 1 {
		return nil, fmt.Errorf("reduced payload has no arguments")
	}
	tree, ok := args[0].(*rep.Tree)
	if !ok {
		return nil, fmt.Errorf("reduced argument 0 is %T, want *rep.Tree", args[0])
	}
	snap := &Snapshot{Constructor: ctor, Tree: tree}
	if len(args) > 1 {
		files, ok := args[1].(map[string]string)
		if !ok {
			return nil, fmt.Errorf("reduced argument 1 is %T, want map[string]string", args[1])
		}
		snap.Files = files
	}
	return snap, nil
}

// EncodeTo writes the snapshot as a versioned msgpack payload.
func (s *Snapshot) EncodeTo(w io.Writer) error {
	enc := msgpack.NewEncoder(w)
	if err := enc.Encode(snapshotPayload{
		Schema:      snapshotSchemaVersion,
		Constructor: s.Constructor,
		Tree:        s.Tree,
		Files:       s.Files,
	}); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return nil
}

// DecodeFrom reads a snapshot previously written by EncodeTo.
func DecodeFrom(r io.Reader) (*Snapshot, error) {
	dec := msgpack.NewDecoder(r)
	var p snapshotPayload
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if p.Schema != snapshotSchemaVersion {
		return nil, fmt.Errorf("snapshot schema %d not supported (want %d)", p.Schema, snapshotSchemaVersion)
	}
	if p.Tree == nil {
		return nil, fmt.Errorf("snapshot has no tree")
	}
	return &Snapshot{Constructor: p.Constructor, Tree: p.Tree, Files: p.Files}, nil
}

// Rebuild applies the snapshot's constructor: source files go into the
// line cache, the tree materializes into mocks, stubs, containers, and
// literals.
func (s *Snapshot) Rebuild(opts rep.RebuildOptions) (any, error) {
	fn, err := s.Constructor.Resolve(rep.Builtins())
	if err != nil {
		return nil, fmt.Errorf("rebuild: %w", err)
	}
	return fn(opts, s.Tree, s.Files)
}

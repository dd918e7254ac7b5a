package rep

import "fmt"

// Source text carried by the embedded constructor forms. Go cannot
// embed compiled code the way the snapshot format would like, so the
// embedded form ships the text for display and resolves the body by
// name against the load-time builtin table.
const (
	rebuildChainSource = `tree := args[0].(*rep.Tree)
return tree.Rebuild(opts)`

	cacheFilesSource = `tree, files := args[0].(*rep.Tree), args[1].(map[string]string)
for name, text := range files {
	opts.Cache.Put(name, text)
}
return tree.Rebuild(opts)`
)

func init() {
	builtins.Bind("rebuildChain", rebuildChainBuiltin)
	builtins.Bind("cacheFiles", cacheFilesBuiltin)
}

// RebuildChainCallable returns the constructor used when no source
// snapshot accompanies the tree.
func RebuildChainCallable() Callable {
	return Embedded("rebuildChain", rebuildChainSource, "snaptrace/rep/builtins.go", 0)
}

// CacheFilesCallable returns the constructor that first registers the
// snapshotted source files into the line cache, then rebuilds the
// chain.
func CacheFilesCallable() Callable {
	return Embedded("cacheFiles", cacheFilesSource, "snaptrace/rep/builtins.go", 0)
}

func rebuildChainBuiltin(opts RebuildOptions, args ...any) (any, error) {
	tree, err := treeArg(args, 0)
	if err != nil {
		return nil, err
	}
	return tree.Rebuild(opts)
}

func cacheFilesBuiltin(opts RebuildOptions, args ...any) (any, error) {
	tree, err := treeArg(args, 0)
	if err != nil {
		return nil, err
	}
	if len(args) < 2 {
		return nil, fmt.Errorf("cacheFiles: want 2 args, got %d", len(args))
	}
	files, ok := args[1].(map[string]string)
	if !ok {
		return nil, fmt.Errorf("cacheFiles: arg 1 is %T, want map[string]string", args[1])
	}
	cache := opts.cache()
	for name, text := range files {
		cache.Put(name, text)
	}
	return tree.Rebuild(opts)
}

func treeArg(args []any, i int) (*Tree, error) {
	if i >= len(args) {
		return nil, fmt.Errorf("builtin: missing arg %d", i)
	}
	tree, ok := args[i].(*Tree)
	if !ok {
		return nil, fmt.Errorf("builtin: arg %d is %T, want *rep.Tree", i, args[i])
	}
	return tree, nil
}

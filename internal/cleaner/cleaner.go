package cleaner

import (
	"fmt"
	"math"

	"snaptrace/chain"
	"snaptrace/internal/identity"
	"snaptrace/rep"
)

// stackBudget is the engine's stand-in for the host's safe recursion
// ceiling. Go grows goroutine stacks dynamically, so there is no hard
// interpreter limit to read; this is a conservative budget for the
// recursive fan-out path.
const stackBudget = 10000

// unlimitedDepth replaces a configured depth of -1. Decrementing it
// once per level never reaches the exhaustion check in practice.
const unlimitedDepth = math.MaxInt32

// DefaultLimit returns the default chain iteration ceiling: the square
// root of the stack budget, leaving generous headroom for the nested
// fan-out each link triggers.
func DefaultLimit() int {
	return int(math.Sqrt(stackBudget))
}

// Config carries the knobs for one cleaning pass.
type Config struct {
	// Limit bounds how many trace links are walked. Zero picks
	// DefaultLimit.
	Limit int

	// Serializer, when set, is tried on every non-chain value before
	// fallback mocking. Its bytes are kept alongside a repr fallback;
	// its failures (errors or panics) are swallowed.
	Serializer func(any) ([]byte, error)

	// Imports is the safe-to-reference policy. Nil means
	// rep.StdImports.
	Imports *rep.ImportSet
}

// Cleaner runs one pass. The identity memo is scoped to the pass:
// a Cleaner must not be reused across captures.
type Cleaner struct {
	tree       *rep.Tree
	seen       map[identity.Key]rep.NodeID
	limit      int
	serializer func(any) ([]byte, error)
	imports    *rep.ImportSet
	nilID      rep.NodeID
}

// New returns a cleaner with a fresh tree and memo.
func New(cfg Config) *Cleaner {
	limit := cfg.Limit
	if limit <= 0 {
		limit = DefaultLimit()
	}
	imports := cfg.Imports
	if imports == nil {
		imports = rep.StdImports()
	}
	return &Cleaner{
		tree:       rep.NewTree(),
		seen:       make(map[identity.Key]rep.NodeID),
		limit:      limit,
		serializer: cfg.Serializer,
		imports:    imports,
		nilID:      rep.NoNode,
	}
}

// Tree returns the arena this pass populates.
func (c *Cleaner) Tree() *rep.Tree {
	return c.tree
}

// Run cleans v as the root of the tree. A configured depth of -1
// means unlimited fan-out.
func (c *Cleaner) Run(v any, depth int) *rep.Tree {
	if depth < 0 {
		depth = unlimitedDepth
	}
	c.tree.Root = c.Clean(v, depth)
	return c.tree
}

// Clean converts one value into a node id. It never fails: internal
// panics become text nodes. Depth is decremented on entry; chain
// values bypass the depth check entirely, because chain extent is
// governed by the iteration limit instead.
func (c *Cleaner) Clean(v any, depth int) (id rep.NodeID) {
	depth--

	key, hasKey := identity.Of(v)
	if hasKey {
		if prev, ok := c.seen[key]; ok {
			return prev
		}
	}

	defer func() {
		if r := recover(); r != nil {
			id = c.tree.Alloc(rep.TextNode(fmt.Sprintf("failed to clean value: %v", r)))
			if hasKey {
				c.seen[key] = id
			}
		}
	}()

	switch {
	case isChainValue(v):
		id = c.cleanChain(v, depth)
	case depth < 0:
		id = c.memoize(key, hasKey, rep.TextNode(formatValue(v)))
	case c.serializer != nil:
		data, err := c.trySerialize(v)
		if err == nil {
			id = c.memoize(key, hasKey, rep.RestoredNode(data, formatValue(v)))
		} else {
			id = c.cleanFallback(v, key, hasKey, depth)
		}
	default:
		id = c.cleanFallback(v, key, hasKey, depth)
	}
	return id
}

func isChainValue(v any) bool {
	switch v.(type) {
	case *chain.Trace, *chain.Frame, *chain.Code:
		return true
	}
	return false
}

func (c *Cleaner) memoize(key identity.Key, hasKey bool, n rep.Node) rep.NodeID {
	id := c.tree.Alloc(n)
	if hasKey {
		c.seen[key] = id
	}
	return id
}

// nilNode lazily allocates the one shared literal-nil node.
func (c *Cleaner) nilNode() rep.NodeID {
	if c.nilID == rep.NoNode {
		c.nilID = c.tree.Alloc(rep.LiteralNode(nil))
	}
	return c.nilID
}

func (c *Cleaner) trySerialize(v any) (data []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("serializer panic: %v", r)
		}
	}()
	return c.serializer(v)
}

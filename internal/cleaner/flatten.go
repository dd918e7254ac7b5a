package cleaner

import (
	"path/filepath"
	"sort"
	"strings"

	"snaptrace/chain"
	"snaptrace/internal/identity"
	"snaptrace/rep"
)

func (c *Cleaner) cleanChain(v any, depth int) rep.NodeID {
	switch node := v.(type) {
	case *chain.Trace:
		return c.flattenTrace(node, depth)
	case *chain.Frame:
		return c.flattenFrames(node, depth)
	case *chain.Code:
		return c.cleanCode(node, depth)
	}
	return c.tree.Alloc(rep.TextNode(formatValue(v)))
}

// flattenTrace walks trace links iteratively so chain length never
// translates into call-stack depth. At most limit links are resolved;
// a memo hit wires the previous link's "next" into the existing node
// and stops, which is how self-referential chains terminate. Otherwise
// the walk ends with an explicit nil "next".
func (c *Cleaner) flattenTrace(tr *chain.Trace, depth int) rep.NodeID {
	if tr == nil {
		return c.nilNode()
	}
	rootKey, _ := identity.Of(tr)
	prev := rep.NoNode
	cur := tr
	for i := 0; i < c.limit && cur != nil; i++ {
		key, _ := identity.Of(cur)
		if hit, ok := c.seen[key]; ok {
			if prev != rep.NoNode {
				c.tree.At(prev).Attrs["next"] = hit
			}
			return c.seen[rootKey]
		}

		// Register the shell before touching attributes, so a cycle
		// back to this link resolves to it.
		id := c.tree.Alloc(rep.MockNode(formatValue(cur), "chain.Trace"))
		c.seen[key] = id
		if prev != rep.NoNode {
			c.tree.At(prev).Attrs["next"] = id
		}

		lineID := c.Clean(cur.Line, depth)
		frameID := c.Clean(cur.Frame, depth+1)
		n := c.tree.At(id)
		n.Attrs["line"] = lineID
		n.Attrs["frame"] = frameID

		prev = id
		cur = cur.Next
	}
	if prev != rep.NoNode {
		c.tree.At(prev).Attrs["next"] = c.nilNode()
	}
	return c.seen[rootKey]
}

// flattenFrames walks caller frames iteratively to the end of the
// stack or the first memo hit.
func (c *Cleaner) flattenFrames(fr *chain.Frame, depth int) rep.NodeID {
	if fr == nil {
		return c.nilNode()
	}
	rootKey, _ := identity.Of(fr)
	prev := rep.NoNode
	cur := fr
	for cur != nil {
		key, _ := identity.Of(cur)
		if hit, ok := c.seen[key]; ok {
			if prev != rep.NoNode {
				c.tree.At(prev).Attrs["back"] = hit
			}
			return c.seen[rootKey]
		}

		id := c.tree.Alloc(rep.MockNode(formatValue(cur), "chain.Frame"))
		c.seen[key] = id
		if prev != rep.NoNode {
			c.tree.At(prev).Attrs["back"] = id
		}

		lineID := c.Clean(cur.Line, depth)
		localsID := c.cleanVars(cur.Locals, depth, false)
		globalsID := c.cleanVars(cur.Globals, depth, true)
		hookID := c.Clean(cur.Hook, depth)
		codeID := c.Clean(cur.Code, depth+1)
		n := c.tree.At(id)
		n.Attrs["line"] = lineID
		n.Attrs["locals"] = localsID
		n.Attrs["globals"] = globalsID
		n.Attrs["hook"] = hookID
		n.Attrs["code"] = codeID

		prev = id
		cur = cur.Back
	}
	c.tree.At(prev).Attrs["back"] = c.nilNode()
	return c.seen[rootKey]
}

// cleanCode captures a routine descriptor. Constants get two extra
// levels of fan-out: they are debug values and usually small.
func (c *Cleaner) cleanCode(code *chain.Code, depth int) rep.NodeID {
	if code == nil {
		return c.nilNode()
	}
	key, _ := identity.Of(code)
	id := c.tree.Alloc(rep.MockNode(formatValue(code), "chain.Code"))
	c.seen[key] = id

	nameID := c.tree.Alloc(rep.LiteralNode(code.Name))
	fileID := c.tree.Alloc(rep.LiteralNode(absPath(code.File)))
	constsID := c.Clean(code.Consts, depth+2)
	n := c.tree.At(id)
	n.Attrs["name"] = nameID
	n.Attrs["file"] = fileID
	n.Attrs["consts"] = constsID
	return id
}

// cleanVars captures a variable mapping in deterministic name order.
// Global mappings drop "__"-prefixed names, which producers use for
// runtime-internal bindings.
func (c *Cleaner) cleanVars(vars map[string]any, depth int, skipInternal bool) rep.NodeID {
	names := make([]string, 0, len(vars))
	for name := range vars {
		if skipInternal && strings.HasPrefix(name, "__") {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	keys := make([]rep.NodeID, 0, len(names))
	vals := make([]rep.NodeID, 0, len(names))
	for _, name := range names {
		keys = append(keys, c.tree.Alloc(rep.LiteralNode(name)))
		vals = append(vals, c.Clean(vars[name], depth))
	}
	return c.tree.Alloc(rep.Node{Kind: rep.KindMap, Keys: keys, Vals: vals})
}

func absPath(path string) string {
	if path == "" {
		return path
	}
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}

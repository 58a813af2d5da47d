package tree

import (
	"fmt"
	"strconv"
)

// Tree is a sealed display tree with stable node identifiers.
//
// The zero value is not usable - use New to create a valid Tree instance.
type Tree struct {
	root  *Node
	index map[string]*Node
	order []*Node // preorder
	meta  Metadata
}

// EdgeRef is a parent-child pair with the decoration of the child's incoming edge.
type EdgeRef struct {
	From string
	To   string
	Edge Edge
}

// New seals the structure below root into a Tree. Nodes without an ID receive
// "n<preorder index>". The metadata parameter can be nil, in which case an
// empty map is created.
//
// Returns ErrNilNode, ErrRootHasParent or ErrDuplicateNodeID.
func New(root *Node, meta Metadata) (*Tree, error) {
	if root == nil {
		return nil, ErrNilNode
	}
	if root.parent != nil {
		return nil, ErrRootHasParent
	}
	if meta == nil {
		meta = Metadata{}
	}

	t := &Tree{root: root, index: make(map[string]*Node), meta: meta}
	i := 0
	var err error
	t.walk(func(n *Node, _ int) bool {
		if n.ID == "" {
			n.ID = "n" + strconv.Itoa(i)
		}
		if n.Meta == nil {
			n.Meta = Metadata{}
		}
		if _, dup := t.index[n.ID]; dup {
			err = fmt.Errorf("%w: %s", ErrDuplicateNodeID, n.ID)
			return false
		}
		t.index[n.ID] = n
		t.order = append(t.order, n)
		i++
		return true
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

// Root returns the root node.
func (t *Tree) Root() *Node { return t.root }

// Meta returns the tree-level metadata map. It is never nil.
func (t *Tree) Meta() Metadata { return t.meta }

// Len returns the number of nodes.
func (t *Tree) Len() int { return len(t.order) }

// Node returns the node with the given ID.
func (t *Tree) Node(id string) (*Node, bool) {
	n, ok := t.index[id]
	return n, ok
}

// Nodes returns all nodes in preorder.
func (t *Tree) Nodes() []*Node {
	out := make([]*Node, len(t.order))
	copy(out, t.order)
	return out
}

// Edges returns one EdgeRef per non-root node, in preorder of the child.
func (t *Tree) Edges() []EdgeRef {
	out := make([]EdgeRef, 0, len(t.order))
	for _, n := range t.order {
		if n.parent == nil {
			continue
		}
		out = append(out, EdgeRef{From: n.parent.ID, To: n.ID, Edge: n.Edge})
	}
	return out
}

// Depth returns the number of edges on the longest root-to-leaf path.
func (t *Tree) Depth() int {
	maxDepth := 0
	t.walk(func(_ *Node, depth int) bool {
		maxDepth = max(maxDepth, depth)
		return true
	})
	return maxDepth
}

// MaxFanOut returns the largest number of direct children of any node.
func (t *Tree) MaxFanOut() int {
	fan := 0
	for _, n := range t.order {
		fan = max(fan, len(n.children))
	}
	return fan
}

// CountKind returns the number of nodes of the given kind.
func (t *Tree) CountKind(k NodeKind) int {
	c := 0
	for _, n := range t.order {
		if n.Kind == k {
			c++
		}
	}
	return c
}

// Walk visits nodes in preorder with their depth below the root.
// Returning false from fn stops the walk.
func (t *Tree) Walk(fn func(n *Node, depth int) bool) { t.walk(fn) }

// walk is an explicit-stack preorder traversal so that arbitrarily deep
// hand-built trees cannot exhaust the goroutine stack.
func (t *Tree) walk(fn func(n *Node, depth int) bool) {
	type frame struct {
		n     *Node
		depth int
	}
	stack := []frame{{t.root, 0}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !fn(f.n, f.depth) {
			return
		}
		for i := len(f.n.children) - 1; i >= 0; i-- {
			stack = append(stack, frame{f.n.children[i], f.depth + 1})
		}
	}
}

// Validate checks the structural invariants: every non-root node has exactly
// one parent that lists it as a child, no node is reachable twice, and IDs are
// unique.
func (t *Tree) Validate() error {
	if t.root == nil {
		return ErrNilNode
	}
	if t.root.parent != nil {
		return ErrRootHasParent
	}
	seen := make(map[*Node]bool)
	ids := make(map[string]bool)
	var err error
	t.walk(func(n *Node, _ int) bool {
		if seen[n] {
			err = ErrCycle
			return false
		}
		seen[n] = true
		if ids[n.ID] {
			err = fmt.Errorf("%w: %s", ErrDuplicateNodeID, n.ID)
			return false
		}
		ids[n.ID] = true
		for _, c := range n.children {
			if c.parent != n {
				err = fmt.Errorf("%w: %s", ErrAlreadyAttached, c.ID)
				return false
			}
		}
		return true
	})
	return err
}

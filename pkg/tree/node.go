package tree

import (
	"errors"
	"slices"
)

var (
	// ErrNilNode is returned when a nil node is attached or used as a root.
	ErrNilNode = errors.New("nil node")

	// ErrAlreadyAttached is returned by [Node.AddChild] when the child already
	// has a parent. Every node except the root has exactly one incoming edge.
	ErrAlreadyAttached = errors.New("node already has a parent")

	// ErrCycle is returned when attaching a node would make it its own ancestor.
	ErrCycle = errors.New("attachment would create a cycle")

	// ErrDuplicateNodeID is returned by [New] when two nodes share an ID.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrRootHasParent is returned by [New] when the root is attached somewhere.
	ErrRootHasParent = errors.New("root node has a parent")
)

// NoImage marks an unset image index.
const NoImage = -1

// Metadata stores arbitrary key-value pairs attached to nodes or the tree.
type Metadata map[string]any

// NodeKind distinguishes resolved concept nodes from synthetic ones.
type NodeKind int

const (
	// KindConcept is a node built from a resolved semantic graph node.
	KindConcept NodeKind = iota
	// KindMember is a member leaf of a concept whose members were not merged.
	KindMember
	// KindRelation stands for a relation between its parent and its children.
	KindRelation
	// KindGroup is a synthetic load-balancing group.
	KindGroup
	// KindTruncation is the marker for targets omitted by the fan-out cap.
	KindTruncation
)

var kindNames = map[NodeKind]string{
	KindConcept:    "concept",
	KindMember:     "member",
	KindRelation:   "relation",
	KindGroup:      "group",
	KindTruncation: "truncation",
}

// String returns the lowercase kind name.
func (k NodeKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// ParseKind returns the kind with the given name.
func ParseKind(s string) (NodeKind, bool) {
	for k, name := range kindNames {
		if name == s {
			return k, true
		}
	}
	return KindConcept, false
}

// IsSynthetic reports whether the kind is created by the conversion rather
// than resolved from the source graph.
func (k NodeKind) IsSynthetic() bool {
	return k == KindRelation || k == KindGroup || k == KindTruncation
}

// LineStyle is the stroke of an edge.
type LineStyle int

const (
	LineDefault LineStyle = iota
	LineSolid
	LineDashed
	LineDotted
)

var lineNames = []string{"default", "solid", "dashed", "dotted"}

// String returns the lowercase style name.
func (s LineStyle) String() string {
	if int(s) >= 0 && int(s) < len(lineNames) {
		return lineNames[s]
	}
	return "default"
}

// ParseLineStyle returns the style with the given name, or LineDefault.
func ParseLineStyle(s string) LineStyle {
	if i := slices.Index(lineNames, s); i >= 0 {
		return LineStyle(i)
	}
	return LineDefault
}

// Edge holds the decoration of the edge entering a node from its parent.
type Edge struct {
	Label      string    // Text drawn along the edge
	Color      string    // "#rrggbb", empty for the renderer default
	Line       LineStyle // Stroke style
	Arrow      bool      // Draw an arrow head at the child end
	ImageIndex int       // Edge image, NoImage if unset
}

// Node is a display tree node. Exported fields are presentation attributes;
// structure is only changed through the attachment methods.
//
// The zero value is usable but has image indices of 0; prefer [NewNode].
type Node struct {
	ID         string   // Unique within a tree, assigned by New when empty
	Kind       NodeKind // Concept, member, relation, group or truncation
	Label      string   // Display text
	Content    string   // Long-form tooltip text
	Link       string   // Scheme-prefixed link back to the semantic node
	Mount      string   // Lookup key for deferred expansion, empty if none
	Ref        string   // Source concept ID for concept and member nodes
	ImageIndex int      // Node image, NoImage if unset
	BackColor  string   // Node fill, empty for the renderer default
	ForeColor  string   // Label color, empty for the renderer default
	Omitted    int      // Number of targets summarized by a truncation marker
	Edge       Edge     // Incoming edge decoration
	Meta       Metadata // Arbitrary key-value metadata (never nil after NewNode)

	parent   *Node
	children []*Node
}

// NewNode creates a detached node with unset image indices.
func NewNode(kind NodeKind, label string) *Node {
	return &Node{
		Kind:       kind,
		Label:      label,
		ImageIndex: NoImage,
		Edge:       Edge{ImageIndex: NoImage},
		Meta:       Metadata{},
	}
}

// Parent returns the node's parent, or nil for detached nodes and roots.
func (n *Node) Parent() *Node { return n.parent }

// Children returns the node's children in insertion order.
// The returned slice should not be modified - use it as a read-only view.
func (n *Node) Children() []*Node { return n.children }

// ChildCount returns the number of direct children.
func (n *Node) ChildCount() int { return len(n.children) }

// IsLeaf reports whether the node has no children.
func (n *Node) IsLeaf() bool { return len(n.children) == 0 }

// AddChild attaches c as the last child of n.
// Returns ErrNilNode, ErrAlreadyAttached, or ErrCycle if c is n or one of
// its ancestors.
func (n *Node) AddChild(c *Node) error {
	if err := n.canAttach(c); err != nil {
		return err
	}
	c.parent = n
	n.children = append(n.children, c)
	return nil
}

// AddChildren attaches cs in order. Either all nodes are attached or none.
func (n *Node) AddChildren(cs ...*Node) error {
	seen := make(map[*Node]bool, len(cs))
	for _, c := range cs {
		if err := n.canAttach(c); err != nil {
			return err
		}
		if seen[c] {
			return ErrAlreadyAttached
		}
		seen[c] = true
	}
	for _, c := range cs {
		c.parent = n
	}
	n.children = append(n.children, cs...)
	return nil
}

// DetachChildren removes and returns all children of n, leaving them detached.
func (n *Node) DetachChildren() []*Node {
	cs := n.children
	n.children = nil
	for _, c := range cs {
		c.parent = nil
	}
	return cs
}

func (n *Node) canAttach(c *Node) error {
	if c == nil {
		return ErrNilNode
	}
	if c.parent != nil {
		return ErrAlreadyAttached
	}
	for a := n; a != nil; a = a.parent {
		if a == c {
			return ErrCycle
		}
	}
	return nil
}

// SetContent sets the tooltip text and returns n.
func (n *Node) SetContent(content string) *Node { n.Content = content; return n }

// SetLink sets the navigable link and returns n.
func (n *Node) SetLink(link string) *Node { n.Link = link; return n }

// SetMount sets the deferred expansion tag and returns n.
func (n *Node) SetMount(mount string) *Node { n.Mount = mount; return n }

// SetColors sets the fill and label colors and returns n.
func (n *Node) SetColors(back, fore string) *Node {
	n.BackColor, n.ForeColor = back, fore
	return n
}

// SetEdge sets the incoming edge label, color and stroke and returns n.
func (n *Node) SetEdge(label, color string, line LineStyle) *Node {
	n.Edge.Label, n.Edge.Color, n.Edge.Line = label, color, line
	return n
}

// Leaves returns the leaves below nodes in depth-first order. Nodes without
// children are returned themselves.
func Leaves(nodes []*Node) []*Node {
	var out []*Node
	stack := slices.Clone(nodes)
	slices.Reverse(stack)
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n.IsLeaf() {
			out = append(out, n)
			continue
		}
		for i := len(n.children) - 1; i >= 0; i-- {
			stack = append(stack, n.children[i])
		}
	}
	return out
}

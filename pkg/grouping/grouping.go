package grouping

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/matzehuels/semtree/pkg/tree"
)

// DefaultLabelTruncate is the number of runes kept from the first and last
// child labels when a group label is derived from its range.
const DefaultLabelTruncate = 12

// Policy configures load balancing of wide child lists.
// The zero value disables grouping.
type Policy struct {
	Threshold     int    // Max direct children before grouping kicks in; <= 0 disables
	ImageIndex    int    // Image index assigned to group nodes
	Label         string // Label hint; when empty a "first ... last" range is used
	LabelTruncate int    // Runes kept per range endpoint; <= 0 uses DefaultLabelTruncate
}

// Enabled reports whether the policy groups at all.
func (p Policy) Enabled() bool { return p.Threshold > 0 }

// Group returns children unchanged when their count does not exceed the
// threshold. Otherwise it returns a list of group nodes, each holding a
// contiguous run of at most Threshold children, layered until the top level
// also fits. Children must be detached.
func (p Policy) Group(children []*tree.Node) []*tree.Node {
	if !p.Enabled() || len(children) <= p.Threshold {
		return children
	}
	// A threshold of one can never shrink a level.
	if p.Threshold == 1 {
		return children
	}

	level := children
	for len(level) > p.Threshold {
		level = p.wrap(level)
	}
	return level
}

func (p Policy) wrap(nodes []*tree.Node) []*tree.Node {
	sizes := Partition(len(nodes), p.Threshold)
	groups := make([]*tree.Node, 0, len(sizes))
	start := 0
	for _, size := range sizes {
		run := nodes[start : start+size]
		start += size

		g := tree.NewNode(tree.KindGroup, p.label(run))
		g.ImageIndex = p.ImageIndex
		g.Edge.Line = tree.LineDashed
		g.Content = fmt.Sprintf("%d items", countItems(run))
		if err := g.AddChildren(run...); err != nil {
			// Children come from the caller's freshly built list; an attached
			// node here is a programming error.
			panic(err)
		}
		groups = append(groups, g)
	}
	return groups
}

// Partition returns the run lengths used to split n items with threshold t:
// ceil(n/t) runs whose lengths differ by at most one, longer runs first.
// It returns a single run of n when n <= t or t <= 0.
func Partition(n, t int) []int {
	if n <= 0 {
		return nil
	}
	if t <= 0 || n <= t {
		return []int{n}
	}
	groups := (n + t - 1) / t
	base, extra := n/groups, n%groups
	sizes := make([]int, groups)
	for i := range sizes {
		sizes[i] = base
		if i < extra {
			sizes[i]++
		}
	}
	return sizes
}

func (p Policy) label(run []*tree.Node) string {
	if p.Label != "" {
		return p.Label
	}
	first := firstLeaf(run[0]).Label
	last := lastLeaf(run[len(run)-1]).Label
	n := p.LabelTruncate
	if n <= 0 {
		n = DefaultLabelTruncate
	}
	first, last = truncate(firstLine(first), n), truncate(firstLine(last), n)
	if len(run) == 1 || first == last {
		return first
	}
	return first + " ... " + last
}

// Flatten undoes grouping: it expands group nodes recursively and returns the
// non-group nodes in order.
func Flatten(nodes []*tree.Node) []*tree.Node {
	var out []*tree.Node
	for _, n := range nodes {
		if n.Kind == tree.KindGroup {
			out = append(out, Flatten(n.Children())...)
			continue
		}
		out = append(out, n)
	}
	return out
}

func countItems(run []*tree.Node) int {
	return len(Flatten(run))
}

func firstLeaf(n *tree.Node) *tree.Node {
	for n.Kind == tree.KindGroup && !n.IsLeaf() {
		n = n.Children()[0]
	}
	return n
}

func lastLeaf(n *tree.Node) *tree.Node {
	for n.Kind == tree.KindGroup && !n.IsLeaf() {
		cs := n.Children()
		n = cs[len(cs)-1]
	}
	return n
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n]) + "…"
}

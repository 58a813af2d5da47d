package decorate

import (
	"sync"

	"github.com/matzehuels/semtree/pkg/tree"
)

// Role is the semantic role of a decorated node or edge.
type Role int

// Roles known to the walker.
const (
	RoleRoot Role = iota
	RoleConcept
	RoleMember
	RoleRelation
	RoleGroup
	RoleTruncation
	RoleEdge
)

var roleNames = [...]string{"root", "concept", "member", "relation", "group", "truncation", "edge"}

func (r Role) String() string {
	if r < 0 || int(r) >= len(roleNames) {
		return "unknown"
	}
	return roleNames[r]
}

// Index identifies what is being decorated. Key refines the role: the
// category for concepts, the relation kind for relation nodes and edges.
type Index struct {
	Role Role
	Key  string
}

// Name returns "role" or "role/key". It is the image name a renderer looks up.
func (i Index) Name() string {
	if i.Key == "" {
		return i.Role.String()
	}
	return i.Role.String() + "/" + i.Key
}

// Decorator assigns images to nodes and edges.
type Decorator interface {
	AssignNodeImage(n *tree.Node, idx Index)
	AssignEdgeImage(e *tree.Edge, idx Index)
}

// Table is a Decorator that numbers image names in order of first use.
// The resulting list, returned by Images, is handed to the renderer together
// with the tree. A Table is safe for concurrent use but is meant to serve a
// single conversion.
type Table struct {
	mu        sync.Mutex
	positions map[string]int
	images    []string
	keyed     map[Role]bool
}

// NewTable returns an empty table. Roles listed in keyed use their Index key
// as part of the image name; all other roles share one image per role.
// With no arguments, concepts are keyed by category and relations and edges
// by relation kind.
func NewTable(keyed ...Role) *Table {
	if len(keyed) == 0 {
		keyed = []Role{RoleConcept, RoleRelation, RoleEdge}
	}
	t := &Table{positions: make(map[string]int), keyed: make(map[Role]bool)}
	for _, r := range keyed {
		t.keyed[r] = true
	}
	return t
}

// Position returns the image position for idx, allocating one on first use.
func (t *Table) Position(idx Index) int {
	if !t.keyed[idx.Role] {
		idx.Key = ""
	}
	name := idx.Name()

	t.mu.Lock()
	defer t.mu.Unlock()
	if p, ok := t.positions[name]; ok {
		return p
	}
	p := len(t.images)
	t.positions[name] = p
	t.images = append(t.images, name)
	return p
}

// AssignNodeImage sets the node image.
func (t *Table) AssignNodeImage(n *tree.Node, idx Index) { n.ImageIndex = t.Position(idx) }

// AssignEdgeImage sets the edge image.
func (t *Table) AssignEdgeImage(e *tree.Edge, idx Index) { e.ImageIndex = t.Position(idx) }

// Images returns the image names by position.
func (t *Table) Images() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.images...)
}

// Nop is a Decorator that leaves images unset.
type Nop struct{}

func (Nop) AssignNodeImage(*tree.Node, Index) {}
func (Nop) AssignEdgeImage(*tree.Edge, Index) {}

var (
	_ Decorator = (*Table)(nil)
	_ Decorator = Nop{}
)

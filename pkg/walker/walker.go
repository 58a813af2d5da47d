package walker

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/semtree/pkg/decorate"
	"github.com/matzehuels/semtree/pkg/errors"
	"github.com/matzehuels/semtree/pkg/feature"
	"github.com/matzehuels/semtree/pkg/observability"
	"github.com/matzehuels/semtree/pkg/semantic"
	"github.com/matzehuels/semtree/pkg/tree"
)

// TruncationLabel is the label of truncation markers.
const TruncationLabel = "etc"

// Walker converts concepts of one source into display trees.
type Walker struct {
	src    semantic.Source
	cfg    Config
	dec    decorate.Decorator
	linker decorate.Linker
	diag   Diagnostics
	logger *log.Logger

	report Report
}

// Option configures a Walker.
type Option func(*Walker)

// WithDecorator sets the image decorator. The default leaves images unset.
func WithDecorator(d decorate.Decorator) Option { return func(w *Walker) { w.dec = d } }

// WithLinker sets the link resolver. The default uses decorate.DefaultScheme.
func WithLinker(l decorate.Linker) Option { return func(w *Walker) { w.linker = l } }

// WithDiagnostics sets the diagnostics sink.
func WithDiagnostics(d Diagnostics) Option { return func(w *Walker) { w.diag = d } }

// WithLogger sets the debug logger. The default discards output.
func WithLogger(l *log.Logger) Option { return func(w *Walker) { w.logger = l } }

// New returns a walker over src. The config is normalized.
func New(src semantic.Source, cfg Config, opts ...Option) *Walker {
	w := &Walker{
		src:    src,
		cfg:    cfg.Normalize(),
		dec:    decorate.Nop{},
		linker: decorate.NewSchemeLinker(""),
		diag:   NopDiagnostics{},
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Config returns the normalized configuration.
func (w *Walker) Config() Config { return w.cfg }

// Report returns the report of the current or last conversion.
func (w *Walker) Report() Report { return w.report }

// Build converts the concept rootID into a display tree.
//
// The root node represents the root concept itself. Every configured relation
// kind is expanded below it, under a relation node unless the
// forget-relation-node flag is set. A missing root is a NOT_FOUND error; any
// lookup failure other than a dangling target is SOURCE_UNAVAILABLE.
func (w *Walker) Build(ctx context.Context, rootID string) (*tree.Tree, Report, error) {
	w.report = Report{}

	c, err := w.lookup(ctx, rootID)
	if err != nil {
		if stderrors.Is(err, semantic.ErrNotFound) {
			return nil, w.report, errors.Wrap(errors.ErrCodeNotFound, err, "root concept %s", rootID)
		}
		return nil, w.report, errors.Wrap(errors.ErrCodeSourceUnavailable, err, "lookup %s", rootID)
	}

	root := w.conceptNode(c, 0)
	path := Path{}
	path.Push(c.ID)

	var children []*tree.Node
	if w.cfg.MaxRecurse == 0 {
		for _, kind := range w.cfg.Relations {
			if c.HasRelation(kind) {
				w.mount(root, c.ID, kind)
				break
			}
		}
		children = w.withMembers(root, c, nil, 0)
	} else if children, err = w.rootChildren(ctx, root, c, path); err != nil {
		return nil, w.report, err
	}
	mustAttach(root, children)

	t, err := tree.New(root, tree.Metadata{
		"root":      rootID,
		"relations": relationNames(w.cfg.Relations),
		"features":  w.cfg.Flags.String(),
	})
	if err != nil {
		return nil, w.report, errors.Wrap(errors.ErrCodeInternal, err, "assemble tree")
	}

	w.logger.Debug("built tree", "root", rootID, "nodes", t.Len(), "depth", t.Depth(),
		"skipped", len(w.report.Skipped), "cycles", w.report.Cycles, "omitted", w.report.Omitted)
	return t, w.report, nil
}

func (w *Walker) rootChildren(ctx context.Context, root *tree.Node, c *semantic.Concept, path Path) ([]*tree.Node, error) {
	var nodes []*tree.Node
	omitted := 0
	for _, kind := range w.cfg.Relations {
		targets, om, err := w.expand(ctx, c, kind, 0, path)
		if err != nil {
			return nil, err
		}
		if len(targets) == 0 && om == 0 {
			continue
		}
		if w.has(feature.ForgetRelationNode) {
			nodes = append(nodes, targets...)
			omitted += om
			continue
		}
		rn := w.relationNode(kind, tagMarker(w.finish(targets, om), c.ID, kind))
		nodes = append(nodes, w.simplify(rn))
	}
	var kind semantic.RelationKind
	if len(w.cfg.Relations) == 1 {
		kind = w.cfg.Relations[0]
	}
	return tagMarker(w.withMembers(root, c, nodes, omitted), c.ID, kind), nil
}

// Walk returns the display nodes for the targets of c's relations of kind,
// with c at the given level. The path must contain c. The result holds at
// most MaxLinks real nodes, grouped per the grouping policy, followed by a
// truncation marker when targets were omitted. Walk returns nil once level
// reaches MaxRecurse.
func (w *Walker) Walk(ctx context.Context, c *semantic.Concept, kind semantic.RelationKind, level int, path Path) ([]*tree.Node, error) {
	nodes, omitted, err := w.expand(ctx, c, kind, level, path)
	if err != nil {
		return nil, err
	}
	return tagMarker(w.finish(nodes, omitted), c.ID, kind), nil
}

// expand builds the ungrouped target nodes of c's kind relations and returns
// them with the number of targets left out by the MaxLinks cap.
func (w *Walker) expand(ctx context.Context, c *semantic.Concept, kind semantic.RelationKind, level int, path Path) ([]*tree.Node, int, error) {
	if level >= w.cfg.MaxRecurse {
		return nil, 0, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, 0, errors.Wrap(errors.ErrCodeSourceUnavailable, err, "conversion interrupted")
	}

	info := semantic.LookupRelation(kind)
	ids := c.Targets(kind)
	omitted := 0
	if len(ids) > w.cfg.MaxLinks {
		omitted = len(ids) - w.cfg.MaxLinks
		ids = ids[:w.cfg.MaxLinks]
	}
	w.logger.Debug("expand", "id", c.ID, "kind", kind, "level", level, "targets", len(ids), "omitted", omitted)

	var out []*tree.Node
	for _, id := range ids {
		if path.Contains(id) {
			w.report.Cycles++
			w.logger.Debug("cycle", "id", id, "from", c.ID)
			continue
		}
		tc, err := w.lookup(ctx, id)
		if err != nil {
			if stderrors.Is(err, semantic.ErrNotFound) {
				w.report.Skipped = append(w.report.Skipped, id)
				w.diag.Warn(fmt.Sprintf("skipped unresolved %s target %s of %s", kind, id, c.ID))
				continue
			}
			return nil, 0, errors.Wrap(errors.ErrCodeSourceUnavailable, err, "lookup %s", id)
		}

		n := w.conceptNode(tc, level+1)
		w.decorateEdge(n, info)
		siblings, om, err := w.expandTarget(ctx, n, tc, info, level+1, path)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, w.simplify(n))
		out = append(out, siblings...)
		omitted += om
	}
	return out, omitted, nil
}

// expandTarget fills n, the node of target tc at level, with tc's members and
// its relations of the kind that follows info. It returns nodes that belong
// next to n rather than under it.
func (w *Walker) expandTarget(ctx context.Context, n *tree.Node, tc *semantic.Concept, info semantic.RelationInfo, level int, path Path) ([]*tree.Node, int, error) {
	next := info.NextKind()

	if level >= w.cfg.MaxRecurse {
		if tc.HasRelation(next) {
			w.mount(n, tc.ID, next)
		}
		mustAttach(n, w.withMembers(n, tc, nil, 0))
		return nil, 0, nil
	}

	path.Push(tc.ID)
	sub, omitted, err := w.expand(ctx, tc, next, level, path)
	path.Pop(tc.ID)
	if err != nil {
		return nil, 0, err
	}

	switch {
	case next == info.Kind && w.has(feature.RaiseRecurseAsSibling):
		mustAttach(n, w.withMembers(n, tc, nil, 0))
		return sub, omitted, nil
	case next != info.Kind && !w.has(feature.ForgetRelationNode):
		var body []*tree.Node
		if len(sub) > 0 || omitted > 0 {
			rn := w.relationNode(next, tagMarker(w.finish(sub, omitted), tc.ID, next))
			body = append(body, w.simplify(rn))
		}
		mustAttach(n, w.withMembers(n, tc, body, 0))
	default:
		mustAttach(n, tagMarker(w.withMembers(n, tc, sub, omitted), tc.ID, next))
	}
	return nil, 0, nil
}

// withMembers puts c's member leaves ahead of body and finishes the list.
// Members never take a target's slot: when they do not fit beside body they
// are folded into n's label instead.
func (w *Walker) withMembers(n *tree.Node, c *semantic.Concept, body []*tree.Node, omitted int) []*tree.Node {
	members := w.memberLeaves(c)
	if len(members) > 0 && len(members)+len(body) > w.cfg.MaxLinks {
		n.Label = strings.Join(c.Members, "\n")
		members = nil
	}
	return w.finish(append(members, body...), omitted)
}

// tagMarker points a trailing truncation marker at the concept whose kind
// targets it stands for. An empty kind leaves the relation unset.
func tagMarker(nodes []*tree.Node, ref string, kind semantic.RelationKind) []*tree.Node {
	if k := len(nodes); k > 0 && nodes[k-1].Kind == tree.KindTruncation {
		m := nodes[k-1]
		m.Ref = ref
		if kind != "" {
			m.Meta["relation"] = string(kind)
		}
	}
	return nodes
}

// finish caps nodes at MaxLinks, groups them and appends a truncation marker
// for everything left out.
func (w *Walker) finish(nodes []*tree.Node, omitted int) []*tree.Node {
	if over := len(nodes) - w.cfg.MaxLinks; over > 0 {
		omitted += over
		nodes = nodes[:w.cfg.MaxLinks]
	}
	out := w.cfg.Grouping.Group(nodes)
	if len(out) != len(nodes) {
		out = w.simplifyGroups(out)
	}
	if omitted > 0 {
		out = append(out, w.marker(omitted))
	}
	return out
}

// simplify applies the single-child rewrites to a non-root node. A lone
// truncation marker is never raised; it only counts for its parent.
func (w *Walker) simplify(n *tree.Node) *tree.Node {
	if n.ChildCount() != 1 || n.Children()[0].Kind == tree.KindTruncation {
		return n
	}
	switch {
	case w.has(feature.RaiseSingleChildIfNotRoot):
		c := n.DetachChildren()[0]
		c.Edge = n.Edge
		return c
	case w.has(feature.CollapseIntermediate) && (n.Kind == tree.KindRelation || n.Kind == tree.KindGroup):
		c := n.DetachChildren()[0]
		if n.Kind == tree.KindRelation {
			if c.Edge.Label == "" {
				c.Edge.Label = n.Label
			}
			if c.Edge.Color == "" {
				c.Edge.Color = n.Edge.Color
			}
		}
		return c
	}
	return n
}

func (w *Walker) simplifyGroups(nodes []*tree.Node) []*tree.Node {
	if !w.has(feature.CollapseIntermediate) && !w.has(feature.RaiseSingleChildIfNotRoot) {
		return nodes
	}
	for i, n := range nodes {
		if n.Kind != tree.KindGroup {
			continue
		}
		mustAttach(n, w.simplifyGroups(n.DetachChildren()))
		nodes[i] = w.simplify(n)
	}
	return nodes
}

func (w *Walker) conceptNode(c *semantic.Concept, level int) *tree.Node {
	label := c.Head()
	if w.has(feature.MergeMembersIntoLabel) && len(c.Members) > 1 {
		label = strings.Join(c.Members, "\n")
	}
	n := tree.NewNode(tree.KindConcept, label)
	n.Ref = c.ID
	n.Content = c.Gloss
	n.Link = w.linker.Link(c.ID)
	if c.Category != "" {
		n.Meta["category"] = c.Category
	}

	role := decorate.RoleConcept
	if level == 0 {
		role = decorate.RoleRoot
	}
	w.dec.AssignNodeImage(n, decorate.Index{Role: role, Key: c.Category})
	return n
}

// memberLeaves returns one leaf per member after the head, unless members
// are merged into the concept label.
func (w *Walker) memberLeaves(c *semantic.Concept) []*tree.Node {
	if w.has(feature.MergeMembersIntoLabel) || len(c.Members) < 2 {
		return nil
	}
	leaves := make([]*tree.Node, 0, len(c.Members)-1)
	for _, m := range c.Members[1:] {
		n := tree.NewNode(tree.KindMember, m)
		n.Ref = c.ID
		n.Link = w.linker.Link(c.ID)
		n.Edge.Line = tree.LineDotted
		w.dec.AssignNodeImage(n, decorate.Index{Role: decorate.RoleMember})
		leaves = append(leaves, n)
	}
	return leaves
}

func (w *Walker) relationNode(kind semantic.RelationKind, children []*tree.Node) *tree.Node {
	info := semantic.LookupRelation(kind)
	n := tree.NewNode(tree.KindRelation, info.Label)
	n.Edge.Color = info.Color
	n.Meta["relation"] = string(kind)
	w.dec.AssignNodeImage(n, decorate.Index{Role: decorate.RoleRelation, Key: string(kind)})
	mustAttach(n, children)
	return n
}

func (w *Walker) decorateEdge(n *tree.Node, info semantic.RelationInfo) {
	n.Edge.Color = info.Color
	n.Edge.Arrow = true
	if w.has(feature.ForgetRelationNode) {
		n.Edge.Label = info.Label
	}
	w.dec.AssignEdgeImage(&n.Edge, decorate.Index{Role: decorate.RoleEdge, Key: string(info.Kind)})
}

func (w *Walker) marker(omitted int) *tree.Node {
	m := tree.NewNode(tree.KindTruncation, TruncationLabel)
	m.Omitted = omitted
	m.Content = fmt.Sprintf("%d more", omitted)
	m.Edge.Line = tree.LineDotted
	w.dec.AssignNodeImage(m, decorate.Index{Role: decorate.RoleTruncation})
	w.report.Truncated++
	w.report.Omitted += omitted
	return m
}

func (w *Walker) mount(n *tree.Node, id string, kind semantic.RelationKind) {
	n.SetMount(w.linker.Mount(id, kind))
	w.report.Mounts++
}

func (w *Walker) lookup(ctx context.Context, id string) (*semantic.Concept, error) {
	start := time.Now()
	c, err := w.src.Lookup(ctx, id)
	if err != nil {
		if stderrors.Is(err, semantic.ErrNotFound) {
			observability.Lookup().OnLookupMiss(ctx, id)
		}
		return nil, err
	}
	observability.Lookup().OnLookup(ctx, id, time.Since(start))
	w.report.Lookups++
	return c, nil
}

func (w *Walker) has(f feature.Flags) bool { return w.cfg.Flags.Has(f) }

// mustAttach attaches freshly built children. They are never attached
// elsewhere, so a failure is a bug in the walker.
func mustAttach(n *tree.Node, children []*tree.Node) {
	if err := n.AddChildren(children...); err != nil {
		panic(fmt.Sprintf("walker: attach to %q: %v", n.Label, err))
	}
}

func relationNames(kinds []semantic.RelationKind) []string {
	out := make([]string, len(kinds))
	for i, k := range kinds {
		out[i] = string(k)
	}
	return out
}

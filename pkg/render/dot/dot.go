package dot

import (
	"bytes"
	"context"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/semtree/pkg/tree"
	"github.com/matzehuels/semtree/pkg/treeio"
)

// Base sizes scaled by the display settings.
const (
	baseFontSize = 14.0
	baseEdgeFont = 11.0
	baseRankSep  = 0.6
	baseNodeSep  = 0.25
)

// Options configures DOT generation.
type Options struct {
	// Settings are the display parameters of the conversion.
	// The zero value is treated as treeio.DefaultSettings().
	Settings treeio.Settings

	// Images names image indices; when set, node tooltips include the
	// image name.
	Images []string

	// Detailed adds node IDs, mounts and metadata to labels.
	Detailed bool
}

// ToDOT converts a display tree to Graphviz DOT source.
// Nodes are emitted in preorder, so the output is stable for a given tree.
func ToDOT(t *tree.Tree, opts Options) string {
	s := opts.Settings
	if s == (treeio.Settings{}) {
		s = treeio.DefaultSettings()
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	writeLayout(&buf, s, t)
	fmt.Fprintf(&buf, "  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=%s, margin=\"0.15,0.06\"];\n",
		num(baseFontSize*factor(s.FontSizeFactor)))
	fmt.Fprintf(&buf, "  edge [arrowhead=none, fontsize=%s];\n", num(baseEdgeFont*factor(s.FontSizeFactor)))
	buf.WriteString("\n")

	if t == nil {
		buf.WriteString("}\n")
		return buf.String()
	}

	for _, n := range t.Nodes() {
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(nodeAttrs(n, opts), ", "))
	}

	buf.WriteString("\n")
	for _, e := range t.Edges() {
		attrs := edgeAttrs(e.Edge)
		if len(attrs) == 0 {
			fmt.Fprintf(&buf, "  %q -> %q;\n", e.From, e.To)
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", e.From, e.To, strings.Join(attrs, ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func writeLayout(buf *bytes.Buffer, s treeio.Settings, t *tree.Tree) {
	buf.WriteString("  bgcolor=\"transparent\";\n")
	ranksep := baseRankSep * factor(s.ExpansionFactor)
	nodesep := baseNodeSep * factor(s.SweepFactor)

	if s.Orientation == treeio.OrientationRadial || s.Orientation == "" {
		buf.WriteString("  layout=twopi;\n")
		if t != nil {
			fmt.Fprintf(buf, "  root=%q;\n", t.Root().ID)
		}
		fmt.Fprintf(buf, "  ranksep=%s;\n", num(2*ranksep))
		buf.WriteString("  overlap=false;\n")
		return
	}
	fmt.Fprintf(buf, "  rankdir=%s;\n", rankDir(s.Orientation))
	fmt.Fprintf(buf, "  ranksep=%s;\n", num(ranksep))
	fmt.Fprintf(buf, "  nodesep=%s;\n", num(nodesep))
}

// rankDir maps the side the root sits on to a Graphviz rankdir.
func rankDir(orientation string) string {
	switch orientation {
	case treeio.OrientationSouth:
		return "BT"
	case treeio.OrientationWest:
		return "LR"
	case treeio.OrientationEast:
		return "RL"
	default:
		return "TB"
	}
}

func factor(f float64) float64 {
	if f <= 0 {
		return 1
	}
	return f
}

func num(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }

func nodeAttrs(n *tree.Node, opts Options) []string {
	attrs := []string{fmt.Sprintf("label=%q", label(n, opts.Detailed))}

	switch n.Kind {
	case tree.KindMember:
		attrs = append(attrs, "shape=plaintext", "style=\"\"")
	case tree.KindRelation:
		attrs = append(attrs, "shape=note", "style=filled", "fillcolor=\"#f3f3f3\"", "fontname=\"Helvetica-Oblique\"")
	case tree.KindGroup:
		attrs = append(attrs, "shape=folder", "style=\"filled,dashed\"", "fillcolor=lightgrey")
	case tree.KindTruncation:
		attrs = append(attrs, "shape=plaintext", "style=\"\"", "fontcolor=grey40")
	}
	if n.Parent() == nil {
		attrs = append(attrs, "penwidth=2")
	}
	if n.Mount != "" {
		attrs = append(attrs, "peripheries=2")
	}
	if n.BackColor != "" {
		attrs = append(attrs, fmt.Sprintf("fillcolor=%q", n.BackColor))
	}
	if n.ForeColor != "" {
		attrs = append(attrs, fmt.Sprintf("fontcolor=%q", n.ForeColor))
	}
	if n.Link != "" {
		attrs = append(attrs, fmt.Sprintf("URL=%q", n.Link))
	}
	if tip := tooltip(n, opts.Images); tip != "" {
		attrs = append(attrs, fmt.Sprintf("tooltip=%q", tip))
	}
	return attrs
}

func label(n *tree.Node, detailed bool) string {
	text := n.Label
	if n.Kind == tree.KindTruncation && n.Omitted > 0 {
		text = fmt.Sprintf("%s (+%d)", n.Label, n.Omitted)
	}
	if !detailed {
		return text
	}

	parts := []string{"id: " + n.ID}
	if n.Ref != "" {
		parts = append(parts, "ref: "+n.Ref)
	}
	if n.Mount != "" {
		parts = append(parts, "mount: "+n.Mount)
	}
	for _, k := range slices.Sorted(maps.Keys(n.Meta)) {
		parts = append(parts, fmt.Sprintf("%s: %v", k, n.Meta[k]))
	}
	return text + "\n" + strings.Join(parts, "\n")
}

func tooltip(n *tree.Node, images []string) string {
	var parts []string
	if n.Content != "" {
		parts = append(parts, n.Content)
	}
	if n.ImageIndex >= 0 && n.ImageIndex < len(images) {
		parts = append(parts, "["+images[n.ImageIndex]+"]")
	}
	return strings.Join(parts, " ")
}

func edgeAttrs(e tree.Edge) []string {
	var attrs []string
	if e.Label != "" {
		attrs = append(attrs, fmt.Sprintf("label=%q", e.Label))
	}
	if e.Color != "" {
		attrs = append(attrs, fmt.Sprintf("color=%q", e.Color), fmt.Sprintf("fontcolor=%q", e.Color))
	}
	switch e.Line {
	case tree.LineDashed:
		attrs = append(attrs, "style=dashed")
	case tree.LineDotted:
		attrs = append(attrs, "style=dotted")
	}
	if e.Arrow {
		attrs = append(attrs, "arrowhead=normal")
	}
	return attrs
}

// RenderSVG lays out DOT source with Graphviz and returns the SVG.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces the point-based svg header with a zero-origin
// viewBox so the image scales with its container.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}
	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}
	header := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(header))
}

package treeio

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/semtree/pkg/tree"
	"github.com/matzehuels/semtree/pkg/walker"
)

// Version is the current format version.
const Version = 1

// Orientations understood by renderers.
const (
	OrientationRadial = "radial"
	OrientationNorth  = "north"
	OrientationSouth  = "south"
	OrientationEast   = "east"
	OrientationWest   = "west"
)

// Settings are display parameters forwarded verbatim to the renderer.
// The conversion never reads them.
type Settings struct {
	FontSizeFactor  float64 `json:"font_size_factor" mapstructure:"fontSizeFactor"`
	ExpansionFactor float64 `json:"expansion_factor" mapstructure:"expansion"`
	SweepFactor     float64 `json:"sweep_factor" mapstructure:"sweep"`
	Orientation     string  `json:"orientation,omitempty" mapstructure:"orientation"`
}

// DefaultSettings returns neutral factors and a radial orientation.
func DefaultSettings() Settings {
	return Settings{FontSizeFactor: 1, ExpansionFactor: 1, SweepFactor: 1, Orientation: OrientationRadial}
}

// Document is a tree with its rendering context.
type Document struct {
	Tree     *tree.Tree
	Settings Settings
	Images   []string
	Report   walker.Report
}

// =============================================================================
// Serialization API
// =============================================================================

// Marshal encodes a document as indented JSON.
func Marshal(doc Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write encodes a document to w.
func Write(w io.Writer, doc Document) error {
	if doc.Tree == nil {
		return fmt.Errorf("encode: %w", tree.ErrNilNode)
	}
	out := file{
		Version:  Version,
		Settings: doc.Settings,
		Images:   doc.Images,
		Report:   doc.Report,
		Meta:     doc.Tree.Meta(),
		Root:     fromNode(doc.Tree.Root()),
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteFile writes a document to path with 0644 permissions.
func WriteFile(path string, doc Document) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return Write(f, doc)
}

// Unmarshal decodes a document and rebuilds its tree.
func Unmarshal(data []byte) (Document, error) {
	return Read(bytes.NewReader(data))
}

// Read decodes a document from r.
func Read(r io.Reader) (Document, error) {
	var in file
	if err := json.NewDecoder(r).Decode(&in); err != nil {
		return Document{}, fmt.Errorf("decode: %w", err)
	}
	if in.Version != Version {
		return Document{}, fmt.Errorf("decode: unsupported version %d", in.Version)
	}
	if in.Root == nil {
		return Document{}, fmt.Errorf("decode: %w", tree.ErrNilNode)
	}
	root, err := toNode(in.Root)
	if err != nil {
		return Document{}, err
	}
	t, err := tree.New(root, in.Meta)
	if err != nil {
		return Document{}, fmt.Errorf("decode: %w", err)
	}
	return Document{Tree: t, Settings: in.Settings, Images: in.Images, Report: in.Report}, nil
}

// ReadFile reads a document from path.
func ReadFile(path string) (Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return Document{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f)
}

// =============================================================================
// Wire Types
// =============================================================================

type file struct {
	Version  int           `json:"version"`
	Settings Settings      `json:"settings"`
	Images   []string      `json:"images,omitempty"`
	Report   walker.Report `json:"report"`
	Meta     tree.Metadata `json:"meta,omitempty"`
	Root     *node         `json:"root"`
}

type node struct {
	ID        string        `json:"id"`
	Kind      string        `json:"kind"`
	Label     string        `json:"label"`
	Content   string        `json:"content,omitempty"`
	Link      string        `json:"link,omitempty"`
	Mount     string        `json:"mount,omitempty"`
	Ref       string        `json:"ref,omitempty"`
	Image     int           `json:"image"`
	BackColor string        `json:"back_color,omitempty"`
	ForeColor string        `json:"fore_color,omitempty"`
	Omitted   int           `json:"omitted,omitempty"`
	Edge      *edge         `json:"edge,omitempty"`
	Meta      tree.Metadata `json:"meta,omitempty"`
	Children  []*node       `json:"children,omitempty"`
}

type edge struct {
	Label string `json:"label,omitempty"`
	Color string `json:"color,omitempty"`
	Line  string `json:"line,omitempty"`
	Arrow bool   `json:"arrow,omitempty"`
	Image int    `json:"image"`
}

// fromNode and toNode recurse; display trees are depth-bounded by the walker.
func fromNode(n *tree.Node) *node {
	out := &node{
		ID:        n.ID,
		Kind:      n.Kind.String(),
		Label:     n.Label,
		Content:   n.Content,
		Link:      n.Link,
		Mount:     n.Mount,
		Ref:       n.Ref,
		Image:     n.ImageIndex,
		BackColor: n.BackColor,
		ForeColor: n.ForeColor,
		Omitted:   n.Omitted,
		Meta:      n.Meta,
	}
	if n.Parent() != nil {
		out.Edge = &edge{
			Label: n.Edge.Label,
			Color: n.Edge.Color,
			Line:  n.Edge.Line.String(),
			Arrow: n.Edge.Arrow,
			Image: n.Edge.ImageIndex,
		}
	}
	for _, c := range n.Children() {
		out.Children = append(out.Children, fromNode(c))
	}
	return out
}

func toNode(in *node) (*tree.Node, error) {
	kind, ok := tree.ParseKind(in.Kind)
	if !ok {
		return nil, fmt.Errorf("decode: node %s: unknown kind %q", in.ID, in.Kind)
	}
	n := tree.NewNode(kind, in.Label)
	n.ID = in.ID
	n.Content = in.Content
	n.Link = in.Link
	n.Mount = in.Mount
	n.Ref = in.Ref
	n.ImageIndex = in.Image
	n.BackColor = in.BackColor
	n.ForeColor = in.ForeColor
	n.Omitted = in.Omitted
	if in.Meta != nil {
		n.Meta = in.Meta
	}
	if e := in.Edge; e != nil {
		n.Edge = tree.Edge{
			Label:      e.Label,
			Color:      e.Color,
			Line:       tree.ParseLineStyle(e.Line),
			Arrow:      e.Arrow,
			ImageIndex: e.Image,
		}
	}

	children := make([]*tree.Node, 0, len(in.Children))
	for _, c := range in.Children {
		child, err := toNode(c)
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}
	if err := n.AddChildren(children...); err != nil {
		return nil, fmt.Errorf("decode: node %s: %w", in.ID, err)
	}
	return n, nil
}

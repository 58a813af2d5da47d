package treeio

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/semtree/pkg/decorate"
	"github.com/matzehuels/semtree/pkg/feature"
	"github.com/matzehuels/semtree/pkg/grouping"
	"github.com/matzehuels/semtree/pkg/semantic"
	"github.com/matzehuels/semtree/pkg/tree"
	"github.com/matzehuels/semtree/pkg/walker"
)

type flatNode struct {
	ID, Kind, Label, Content, Link, Mount, Ref string
	Image, Omitted                             int
	Back, Fore                                 string
	Edge                                       tree.Edge
	Parent                                     string
}

func flatten(t *tree.Tree) []flatNode {
	var out []flatNode
	for _, n := range t.Nodes() {
		f := flatNode{
			ID: n.ID, Kind: n.Kind.String(), Label: n.Label, Content: n.Content,
			Link: n.Link, Mount: n.Mount, Ref: n.Ref, Image: n.ImageIndex,
			Omitted: n.Omitted, Back: n.BackColor, Fore: n.ForeColor, Edge: n.Edge,
		}
		if p := n.Parent(); p != nil {
			f.Parent = p.ID
		}
		out = append(out, f)
	}
	return out
}

func sampleDocument(t *testing.T) Document {
	t.Helper()
	src, err := semantic.OpenFile(filepath.Join("..", "semantic", "testdata", "mini.toml"))
	if err != nil {
		t.Fatal(err)
	}
	tbl := decorate.NewTable()
	cfg := walker.Config{
		Flags:      feature.CollapseIntermediate,
		MaxRecurse: 1,
		MaxLinks:   1,
		Grouping:   grouping.Policy{Threshold: 4},
		Relations:  []semantic.RelationKind{semantic.Hypernym, semantic.PartMeronym},
	}
	tr, rep, err := walker.New(src, cfg, walker.WithDecorator(tbl)).Build(context.Background(), "n02084071")
	if err != nil {
		t.Fatal(err)
	}
	settings := DefaultSettings()
	settings.FontSizeFactor = 1.5
	return Document{Tree: tr, Settings: settings, Images: tbl.Images(), Report: rep}
}

func TestRoundTrip(t *testing.T) {
	doc := sampleDocument(t)

	data, err := Marshal(doc)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	back, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}

	if diff := cmp.Diff(flatten(doc.Tree), flatten(back.Tree)); diff != "" {
		t.Errorf("tree mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(doc.Settings, back.Settings); diff != "" {
		t.Errorf("settings mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(doc.Images, back.Images); diff != "" {
		t.Errorf("images mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(doc.Report, back.Report); diff != "" {
		t.Errorf("report mismatch (-want +got):\n%s", diff)
	}
	if back.Tree.Meta()["root"] != "n02084071" {
		t.Errorf("meta root = %v", back.Tree.Meta()["root"])
	}

	again, _ := Marshal(back)
	if !bytes.Equal(data, again) {
		t.Error("second Marshal() differs from the first")
	}
}

func TestReadErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"garbage", "{", "decode"},
		{"version", `{"version": 7, "root": {"id": "n0", "kind": "concept"}}`, "unsupported version"},
		{"no root", `{"version": 1}`, "nil node"},
		{"bad kind", `{"version": 1, "root": {"id": "n0", "kind": "planet"}}`, "unknown kind"},
		{"duplicate id", `{"version": 1, "root": {"id": "a", "kind": "concept", "children": [{"id": "a", "kind": "member"}]}}`, "duplicate"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.in))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Read() error = %v, want containing %q", err, tt.want)
			}
		})
	}
}

func TestWriteNilTree(t *testing.T) {
	if _, err := Marshal(Document{}); err == nil {
		t.Error("Marshal() of an empty document should fail")
	}
}

func TestFileRoundTrip(t *testing.T) {
	doc := sampleDocument(t)
	path := filepath.Join(t.TempDir(), "tree.json")
	if err := WriteFile(path, doc); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}
	back, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}
	if back.Tree.Len() != doc.Tree.Len() {
		t.Errorf("Len() = %d, want %d", back.Tree.Len(), doc.Tree.Len())
	}
}

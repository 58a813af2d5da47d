package semantic

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestReadDocumentFile_AllFormats(t *testing.T) {
	var docs []*Document
	for _, name := range []string{"mini.toml", "mini.json", "mini.yaml"} {
		doc, err := ReadDocumentFile(filepath.Join("testdata", name))
		if err != nil {
			t.Fatalf("ReadDocumentFile(%s) error: %v", name, err)
		}
		docs = append(docs, doc)
	}

	for i, doc := range docs[1:] {
		if diff := cmp.Diff(docs[0], doc); diff != "" {
			t.Errorf("document %d differs from toml (-toml +other):\n%s", i+1, diff)
		}
	}

	doc := docs[0]
	if doc.Name != "mini-wordnet" || doc.Scheme != "wordnet" {
		t.Errorf("header = %q/%q", doc.Name, doc.Scheme)
	}
	if len(doc.Concepts) != 5 {
		t.Errorf("len(Concepts) = %d, want 5", len(doc.Concepts))
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path    string
		want    string
		wantErr bool
	}{
		{"a.json", FormatJSON, false},
		{"a.TOML", FormatTOML, false},
		{"a.yml", FormatYAML, false},
		{"a.yaml", FormatYAML, false},
		{"a.xml", "", true},
	}
	for _, tt := range tests {
		got, err := FormatFromPath(tt.path)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("FormatFromPath(%q) = %q, %v", tt.path, got, err)
		}
	}
}

func TestDocumentValidate(t *testing.T) {
	tests := []struct {
		name string
		doc  Document
	}{
		{"missing id", Document{Concepts: []Concept{{}}}},
		{"duplicate id", Document{Concepts: []Concept{{ID: "a"}, {ID: "a"}}}},
		{"relation without kind", Document{Concepts: []Concept{{ID: "a", Relations: []Relation{{Targets: []string{"b"}}}}}}},
		{"unknown root", Document{Roots: []string{"x"}, Concepts: []Concept{{ID: "a"}}}},
	}
	for _, tt := range tests {
		if err := tt.doc.Validate(); !errors.Is(err, ErrInvalidDocument) {
			t.Errorf("%s: Validate() = %v, want ErrInvalidDocument", tt.name, err)
		}
	}

	ok := Document{Concepts: []Concept{{ID: "a", Relations: []Relation{{Kind: Hypernym, Targets: []string{"dangling"}}}}}}
	if err := ok.Validate(); err != nil {
		t.Errorf("dangling targets should be allowed: %v", err)
	}
}

func TestWriteDocumentRoundTrip(t *testing.T) {
	src, err := OpenFile(filepath.Join("testdata", "mini.toml"))
	if err != nil {
		t.Fatal(err)
	}
	doc := src.Document()

	for _, format := range []string{FormatJSON, FormatTOML, FormatYAML} {
		var buf bytes.Buffer
		if err := WriteDocument(&buf, doc, format); err != nil {
			t.Fatalf("WriteDocument(%s) error: %v", format, err)
		}
		back, err := ReadDocument(&buf, format)
		if err != nil {
			t.Fatalf("ReadDocument(%s) error: %v", format, err)
		}
		if diff := cmp.Diff(doc, back); diff != "" {
			t.Errorf("%s round trip mismatch (-want +got):\n%s", format, diff)
		}
	}
}

func TestMemorySourceLookup(t *testing.T) {
	ctx := context.Background()
	src, err := OpenFile(filepath.Join("testdata", "mini.toml"))
	if err != nil {
		t.Fatal(err)
	}
	defer src.Close()

	c, err := src.Lookup(ctx, "n02084071")
	if err != nil {
		t.Fatalf("Lookup() error: %v", err)
	}
	if c.Head() != "dog" {
		t.Errorf("Head() = %q, want dog", c.Head())
	}
	if got := c.Targets(Hypernym); !slices.Equal(got, []string{"n02083346", "n01317541"}) {
		t.Errorf("Targets(hypernym) = %v", got)
	}
	if !c.HasRelation(PartMeronym) || c.HasRelation(Hyponym) {
		t.Error("HasRelation() mismatch")
	}

	// Lookups return independent copies.
	c.Members[0] = "changed"
	again, _ := src.Lookup(ctx, "n02084071")
	if again.Head() != "dog" {
		t.Error("Lookup() should return a fresh copy")
	}

	if _, err := src.Lookup(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Lookup(missing) = %v, want ErrNotFound", err)
	}

	ids, _ := src.IDs(ctx)
	if len(ids) != 5 || ids[0] != "n02084071" {
		t.Errorf("IDs() = %v", ids)
	}
	if src.Name() != "mini-wordnet" || src.Scheme() != "wordnet" {
		t.Errorf("Name/Scheme = %q/%q", src.Name(), src.Scheme())
	}
	if !slices.Equal(src.Roots(), []string{"n02084071"}) {
		t.Errorf("Roots() = %v", src.Roots())
	}
}

func TestMemorySourcePut(t *testing.T) {
	src, _ := NewMemorySource(&Document{})
	src.Put(&Concept{ID: "x", Members: []string{"x"}})
	src.Put(&Concept{ID: "x", Members: []string{"y"}})

	c, err := src.Lookup(context.Background(), "x")
	if err != nil || c.Head() != "y" {
		t.Errorf("Lookup after Put = %v, %v", c, err)
	}
	ids, _ := src.IDs(context.Background())
	if len(ids) != 1 {
		t.Errorf("IDs() = %v, want one id", ids)
	}
}

func TestLookupRelation(t *testing.T) {
	info := LookupRelation(Hypernym)
	if info.Inverse != Hyponym || info.NextKind() != Hypernym {
		t.Errorf("hypernym info = %+v", info)
	}
	if LookupRelation(InstanceHypernym).NextKind() != Hypernym {
		t.Error("instance-hypernym should recurse into hypernym")
	}

	custom := LookupRelation("located-in")
	if custom.Label != "located in" || custom.NextKind() != "located-in" {
		t.Errorf("custom info = %+v", custom)
	}
	if IsKnown("located-in") || !IsKnown(SubClass) {
		t.Error("IsKnown() mismatch")
	}
}

func TestParseKinds(t *testing.T) {
	got := ParseKinds(" Hypernym, part-meronym,,")
	if !slices.Equal(got, []RelationKind{Hypernym, PartMeronym}) {
		t.Errorf("ParseKinds() = %v", got)
	}
}

func TestHeadFallsBackToID(t *testing.T) {
	c := &Concept{ID: "Thing"}
	if c.Head() != "Thing" {
		t.Errorf("Head() = %q", c.Head())
	}
	if !strings.Contains(LookupRelation(SubClass).Label, "subclass") {
		t.Error("subclass label")
	}
}

package provider

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/semtree/pkg/errors"
	"github.com/matzehuels/semtree/pkg/feature"
	"github.com/matzehuels/semtree/pkg/semantic"
)

func TestBuiltinVariants(t *testing.T) {
	want := []string{"compact", "full", "hypernyms", "hyponyms", "meronyms", "ontology"}
	if got := Builtin().Names(); !slices.Equal(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
	for _, v := range Builtin().All() {
		if !v.Features.Valid() || v.MaxLinks <= 0 || v.MaxRecurse <= 0 || len(v.Relations) == 0 {
			t.Errorf("variant %s is not well formed: %s", v.Name, v)
		}
	}
	if _, err := Builtin().Lookup(DefaultVariant); err != nil {
		t.Errorf("default variant missing: %v", err)
	}
}

func TestLoadVariants(t *testing.T) {
	want := []Variant{
		{
			Name:            "parts",
			Features:        feature.None,
			MaxRecurse:      2,
			MaxLinks:        10,
			BranchThreshold: 4,
			Relations:       []semantic.RelationKind{semantic.PartMeronym, semantic.MemberMeronym},
		},
		{
			Name:        "shallow",
			Description: "one level, no relation nodes",
			Features:    feature.ForgetRelationNode | feature.CollapseIntermediate,
			MaxRecurse:  1,
			MaxLinks:    5,
			Relations:   []semantic.RelationKind{semantic.Hypernym},
		},
	}
	for _, name := range []string{"variants.toml", "variants.yaml"} {
		t.Run(name, func(t *testing.T) {
			reg := NewRegistry()
			n, err := reg.LoadVariants(filepath.Join("testdata", name))
			if err != nil {
				t.Fatalf("LoadVariants() error: %v", err)
			}
			if n != 2 {
				t.Errorf("LoadVariants() = %d, want 2", n)
			}
			for _, w := range want {
				got, err := reg.Lookup(w.Name)
				if err != nil {
					t.Fatalf("Lookup(%s) error: %v", w.Name, err)
				}
				if diff := cmp.Diff(w, got); diff != "" {
					t.Errorf("variant %s mismatch (-want +got):\n%s", w.Name, diff)
				}
			}
			if _, err := Builtin().Lookup("shallow"); err == nil {
				t.Error("loading into a registry must not change the built-in one")
			}
		})
	}
}

func TestLoadVariantsErrors(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) string {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
		return p
	}

	tests := []struct {
		name string
		path string
		code errors.Code
	}{
		{"missing file", filepath.Join(dir, "none.toml"), errors.ErrCodeInvalidVariant},
		{"json", write("v.json", `{}`), errors.ErrCodeInvalidFormat},
		{"txt", write("v.txt", ``), errors.ErrCodeInvalidFormat},
		{"syntax", write("bad.toml", "[[variant]\nname="), errors.ErrCodeInvalidVariant},
		{"no name", write("anon.yaml", "variants:\n  - max_links: 3\n"), errors.ErrCodeInvalidVariant},
		{"bad feature", write("feat.toml", "[[variant]]\nname = \"x\"\nfeatures = \"sparkle\"\n"), errors.ErrCodeInvalidVariant},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewRegistry().LoadVariants(tt.path); !errors.Is(err, tt.code) {
				t.Errorf("LoadVariants() error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestVariantApplyKeepsSettings(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Settings.SweepFactor = 2
	v, _ := Builtin().Lookup("hyponyms")
	got := v.Apply(cfg)
	if got.Settings.SweepFactor != 2 {
		t.Errorf("SweepFactor = %v, want 2", got.Settings.SweepFactor)
	}
	if got.Variant != "hyponyms" || got.Features != v.Features {
		t.Errorf("Apply() = %+v", got)
	}
}

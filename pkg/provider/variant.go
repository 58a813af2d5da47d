package provider

import (
	"fmt"
	"os"
	"slices"
	"sort"
	"sync"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/semtree/pkg/errors"
	"github.com/matzehuels/semtree/pkg/feature"
	"github.com/matzehuels/semtree/pkg/semantic"
)

// DefaultVariant is used by the CLI and server when no variant is named.
const DefaultVariant = "hypernyms"

// Variant is a named conversion preset. Together with the relation kinds it
// walks, it fully defines the structural behavior of a conversion.
type Variant struct {
	Name            string                  `toml:"name" yaml:"name" json:"name"`
	Description     string                  `toml:"description" yaml:"description" json:"description,omitempty"`
	Features        feature.Flags           `toml:"features" yaml:"features" json:"features"`
	MaxRecurse      int                     `toml:"max_recurse" yaml:"max_recurse" json:"max_recurse"`
	MaxLinks        int                     `toml:"max_links" yaml:"max_links" json:"max_links"`
	BranchThreshold int                     `toml:"branch_threshold" yaml:"branch_threshold" json:"branch_threshold"`
	Relations       []semantic.RelationKind `toml:"relations" yaml:"relations" json:"relations"`
}

// Apply returns cfg with the variant's structural fields. Display settings
// are left alone.
func (v Variant) Apply(cfg Config) Config {
	cfg.Variant = v.Name
	cfg.Features = v.Features
	cfg.MaxRecurse = v.MaxRecurse
	cfg.MaxLinks = v.MaxLinks
	cfg.BranchThreshold = v.BranchThreshold
	cfg.Relations = slices.Clone(v.Relations)
	return cfg
}

var builtinVariants = []Variant{
	{
		Name:            "hypernyms",
		Description:     "generalization chain of a concept",
		Features:        feature.CollapseIntermediate,
		MaxRecurse:      3,
		MaxLinks:        32,
		BranchThreshold: 12,
		Relations:       []semantic.RelationKind{semantic.Hypernym, semantic.InstanceHypernym},
	},
	{
		Name:            "hyponyms",
		Description:     "specializations, flattened and load balanced",
		Features:        feature.ForgetRelationNode | feature.MergeMembersIntoLabel,
		MaxRecurse:      2,
		MaxLinks:        64,
		BranchThreshold: 10,
		Relations:       []semantic.RelationKind{semantic.Hyponym, semantic.InstanceHyponym},
	},
	{
		Name:            "meronyms",
		Description:     "parts, members and substances",
		Features:        feature.CollapseIntermediate,
		MaxRecurse:      2,
		MaxLinks:        16,
		BranchThreshold: 8,
		Relations:       []semantic.RelationKind{semantic.PartMeronym, semantic.MemberMeronym, semantic.SubstanceMeronym},
	},
	{
		Name:            "full",
		Description:     "every lexical relation, one relation node each",
		MaxRecurse:      2,
		MaxLinks:        16,
		BranchThreshold: 8,
		Relations: []semantic.RelationKind{
			semantic.Hypernym, semantic.Hyponym, semantic.InstanceHypernym, semantic.InstanceHyponym,
			semantic.PartMeronym, semantic.PartHolonym, semantic.MemberMeronym, semantic.MemberHolonym,
			semantic.SubstanceMeronym, semantic.SubstanceHolonym, semantic.Antonym, semantic.SimilarTo,
			semantic.AlsoSee, semantic.Entails, semantic.Causes, semantic.Domain,
		},
	},
	{
		Name:        "compact",
		Description: "smallest tree: merged labels, no relation or single-child nodes",
		Features: feature.CollapseIntermediate | feature.ForgetRelationNode |
			feature.RaiseSingleChildIfNotRoot | feature.MergeMembersIntoLabel,
		MaxRecurse:      5,
		MaxLinks:        8,
		BranchThreshold: 6,
		Relations:       []semantic.RelationKind{semantic.Hypernym},
	},
	{
		Name:            "ontology",
		Description:     "class hierarchy with instances",
		Features:        feature.ForgetRelationNode | feature.MergeMembersIntoLabel,
		MaxRecurse:      4,
		MaxLinks:        24,
		BranchThreshold: 10,
		Relations:       []semantic.RelationKind{semantic.SubClass, semantic.Instance},
	},
}

// Registry holds variants by name. It is safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	variants map[string]Variant
}

// NewRegistry returns a registry preloaded with the built-in variants.
func NewRegistry() *Registry {
	r := &Registry{variants: make(map[string]Variant)}
	for _, v := range builtinVariants {
		r.variants[v.Name] = v
	}
	return r
}

var (
	builtinOnce sync.Once
	builtin     *Registry
)

// Builtin returns a shared registry of the built-in variants.
// Do not register into it; use NewRegistry for a mutable copy.
func Builtin() *Registry {
	builtinOnce.Do(func() { builtin = NewRegistry() })
	return builtin
}

// Register adds or replaces a variant.
func (r *Registry) Register(v Variant) error {
	if v.Name == "" {
		return errors.New(errors.ErrCodeInvalidVariant, "variant without name")
	}
	if !v.Features.Valid() {
		return errors.New(errors.ErrCodeInvalidVariant, "variant %s: invalid features %d", v.Name, uint32(v.Features))
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.variants[v.Name] = v
	return nil
}

// Lookup returns the variant with the given name.
func (r *Registry) Lookup(name string) (Variant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.variants[name]
	if !ok {
		return Variant{}, errors.New(errors.ErrCodeInvalidVariant, "unknown variant %q", name)
	}
	return v, nil
}

// All returns the variants sorted by name.
func (r *Registry) All() []Variant {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Variant, 0, len(r.variants))
	for _, v := range r.variants {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Names returns the sorted variant names.
func (r *Registry) Names() []string {
	vs := r.All()
	names := make([]string, len(vs))
	for i, v := range vs {
		names[i] = v.Name
	}
	return names
}

type variantFile struct {
	Variants []Variant `toml:"variant" yaml:"variants"`
}

// LoadVariants registers the variants of a TOML or YAML file and returns how
// many were loaded.
//
// TOML files use [[variant]] tables, YAML files a "variants" list:
//
//	[[variant]]
//	name = "shallow"
//	features = "forget-relation-node,collapse-intermediate"
//	max_recurse = 1
//	relations = ["hypernym"]
func (r *Registry) LoadVariants(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInvalidVariant, err, "read variants")
	}
	format, err := semantic.FormatFromPath(path)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInvalidFormat, err, "variants file %s", path)
	}

	var f variantFile
	switch format {
	case semantic.FormatTOML:
		err = toml.Unmarshal(data, &f)
	case semantic.FormatYAML:
		err = yaml.Unmarshal(data, &f)
	default:
		return 0, errors.New(errors.ErrCodeInvalidFormat, "variants file %s: use TOML or YAML", path)
	}
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInvalidVariant, err, "parse %s", path)
	}

	for _, v := range f.Variants {
		if err := r.Register(v); err != nil {
			return 0, err
		}
	}
	return len(f.Variants), nil
}

func (v Variant) String() string {
	return fmt.Sprintf("%s (features=%s recurse=%d links=%d threshold=%d)",
		v.Name, v.Features, v.MaxRecurse, v.MaxLinks, v.BranchThreshold)
}

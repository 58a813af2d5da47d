package provider

import (
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/go-viper/mapstructure/v2"

	"github.com/matzehuels/semtree/pkg/cache"
	"github.com/matzehuels/semtree/pkg/errors"
	"github.com/matzehuels/semtree/pkg/feature"
	"github.com/matzehuels/semtree/pkg/grouping"
	"github.com/matzehuels/semtree/pkg/semantic"
	"github.com/matzehuels/semtree/pkg/treeio"
	"github.com/matzehuels/semtree/pkg/walker"
)

// Settings are the display parameters forwarded to the renderer.
type Settings = treeio.Settings

// Config is the decoded configuration of one conversion.
type Config struct {
	Variant         string                  `mapstructure:"variant"`
	Features        feature.Flags           `mapstructure:"features"`
	MaxRecurse      int                     `mapstructure:"maxRecurse"`
	MaxLinks        int                     `mapstructure:"maxLinks"`
	BranchThreshold int                     `mapstructure:"branchThreshold"`
	Relations       []semantic.RelationKind `mapstructure:"relations"`
	Scheme          string                  `mapstructure:"scheme"`
	Settings        Settings                `mapstructure:",squash"`
}

// DefaultConfig returns the configuration used for keys a map leaves out.
func DefaultConfig() Config {
	return Config{
		MaxRecurse: walker.DefaultMaxRecurse,
		MaxLinks:   walker.DefaultMaxLinks,
		Relations:  slices.Clone(walker.DefaultRelations),
		Settings:   treeio.DefaultSettings(),
	}
}

// DecodeConfig decodes a configuration map on top of DefaultConfig. When the
// map names a variant, the variant is looked up in reg (nil for the built-in
// registry) and applied first, so other keys override it. Unknown keys are
// ignored and returned so callers can log them.
func DecodeConfig(raw map[string]any, reg *Registry) (Config, []string, error) {
	if reg == nil {
		reg = Builtin()
	}
	cfg := DefaultConfig()

	if name, ok := raw["variant"]; ok {
		s, ok := name.(string)
		if !ok {
			return Config{}, nil, errors.New(errors.ErrCodeInvalidConfig, "variant must be a string, got %T", name)
		}
		v, err := reg.Lookup(s)
		if err != nil {
			return Config{}, nil, err
		}
		cfg = v.Apply(cfg)
	}

	var md mapstructure.Metadata
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			flagsHook,
			relationsHook,
			mapstructure.StringToSliceHookFunc(","),
		),
		WeaklyTypedInput: true,
		ZeroFields:       true,
		Metadata:         &md,
		Result:           &cfg,
	})
	if err != nil {
		return Config{}, nil, errors.Wrap(errors.ErrCodeInternal, err, "config decoder")
	}
	if err := dec.Decode(raw); err != nil {
		return Config{}, nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode config")
	}
	for i, k := range cfg.Relations {
		cfg.Relations[i] = semantic.RelationKind(strings.ToLower(strings.TrimSpace(string(k))))
	}
	slices.Sort(md.Unused)
	return cfg, md.Unused, nil
}

var (
	flagsType     = reflect.TypeOf(feature.Flags(0))
	relationsType = reflect.TypeOf([]semantic.RelationKind(nil))
)

// relationsHook accepts relation kinds as one comma-separated string.
func relationsHook(from, to reflect.Type, data any) (any, error) {
	s, ok := data.(string)
	if to != relationsType || !ok {
		return data, nil
	}
	return semantic.ParseKinds(s), nil
}

// flagsHook accepts feature flags as names, a list of names, or a number.
func flagsHook(from, to reflect.Type, data any) (any, error) {
	if to != flagsType {
		return data, nil
	}
	switch v := data.(type) {
	case string:
		return feature.Parse(v)
	case []string:
		return feature.Parse(strings.Join(v, ","))
	case []any:
		parts := make([]string, len(v))
		for i, p := range v {
			parts[i] = fmt.Sprint(p)
		}
		return feature.Parse(strings.Join(parts, ","))
	case int:
		return checkFlags(feature.Flags(v), v < 0)
	case int64:
		return checkFlags(feature.Flags(v), v < 0)
	case float64:
		return checkFlags(feature.Flags(v), v < 0 || v != float64(int64(v)))
	}
	return data, nil
}

func checkFlags(f feature.Flags, bad bool) (feature.Flags, error) {
	if bad || !f.Valid() {
		return 0, errors.New(errors.ErrCodeInvalidConfig, "invalid feature bits")
	}
	return f, nil
}

// Correct replaces out-of-range values with safe defaults. It returns the
// corrected config and one note per replaced value.
func (c Config) Correct() (Config, []string) {
	var notes []string
	note := func(key string, from, to any) {
		notes = append(notes, fmt.Sprintf("%s %v out of range, using %v", key, from, to))
	}
	if c.MaxRecurse < 0 {
		note("maxRecurse", c.MaxRecurse, walker.DefaultMaxRecurse)
		c.MaxRecurse = walker.DefaultMaxRecurse
	} else if c.MaxRecurse > walker.MaxRecurseLimit {
		note("maxRecurse", c.MaxRecurse, walker.MaxRecurseLimit)
		c.MaxRecurse = walker.MaxRecurseLimit
	}
	if c.MaxLinks <= 0 {
		note("maxLinks", c.MaxLinks, walker.DefaultMaxLinks)
		c.MaxLinks = walker.DefaultMaxLinks
	}
	if c.BranchThreshold < 0 {
		note("branchThreshold", c.BranchThreshold, 0)
		c.BranchThreshold = 0
	} else if c.BranchThreshold == 1 {
		note("branchThreshold", 1, 2)
		c.BranchThreshold = 2
	}
	if c.Settings.FontSizeFactor <= 0 {
		note("fontSizeFactor", c.Settings.FontSizeFactor, 1)
		c.Settings.FontSizeFactor = 1
	}
	if c.Settings.ExpansionFactor <= 0 {
		note("expansion", c.Settings.ExpansionFactor, 1)
		c.Settings.ExpansionFactor = 1
	}
	if c.Settings.SweepFactor <= 0 {
		note("sweep", c.Settings.SweepFactor, 1)
		c.Settings.SweepFactor = 1
	}
	if len(c.Relations) == 0 {
		note("relations", "[]", walker.DefaultRelations)
		c.Relations = slices.Clone(walker.DefaultRelations)
	}
	return c, notes
}

// WalkerConfig returns the structural part of the config. groupImage is the
// image index given to group nodes.
func (c Config) WalkerConfig(groupImage int) walker.Config {
	return walker.Config{
		Flags:      c.Features,
		MaxRecurse: c.MaxRecurse,
		MaxLinks:   c.MaxLinks,
		Grouping:   grouping.Policy{Threshold: c.BranchThreshold, ImageIndex: groupImage},
		Relations:  slices.Clone(c.Relations),
	}
}

// KeyOpts returns every field that changes the produced tree, for cache keys.
// Display settings are left out; a cached tree is served with the caller's.
func (c Config) KeyOpts(scheme string) cache.TreeKeyOpts {
	rels := make([]string, len(c.Relations))
	for i, r := range c.Relations {
		rels[i] = string(r)
	}
	return cache.TreeKeyOpts{
		Features:        uint32(c.Features),
		MaxRecurse:      c.MaxRecurse,
		MaxLinks:        c.MaxLinks,
		BranchThreshold: c.BranchThreshold,
		Relations:       rels,
		Scheme:          scheme,
	}
}

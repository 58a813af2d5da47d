package walker

import (
	"slices"

	"github.com/matzehuels/semtree/pkg/feature"
	"github.com/matzehuels/semtree/pkg/grouping"
	"github.com/matzehuels/semtree/pkg/semantic"
)

// Recursion and fan-out bounds.
const (
	DefaultMaxRecurse = 3
	MaxRecurseLimit   = 16
	DefaultMaxLinks   = 32
)

// DefaultRelations is walked when a config names no relation kinds.
var DefaultRelations = []semantic.RelationKind{semantic.Hypernym}

// Config fully defines the structural behavior of a conversion.
type Config struct {
	Flags      feature.Flags
	MaxRecurse int                     // Concept levels below the root
	MaxLinks   int                     // Targets considered per relation
	Grouping   grouping.Policy         // Load balancing of wide child lists
	Relations  []semantic.RelationKind // Kinds walked from the root, in order
}

// Normalize returns a copy of c with out-of-range values replaced by safe
// values. Relations are deduplicated, keeping the first occurrence.
func (c Config) Normalize() Config {
	if c.MaxRecurse < 0 {
		c.MaxRecurse = DefaultMaxRecurse
	}
	if c.MaxRecurse > MaxRecurseLimit {
		c.MaxRecurse = MaxRecurseLimit
	}
	if c.MaxLinks <= 0 {
		c.MaxLinks = DefaultMaxLinks
	}
	if c.Grouping.Threshold < 0 {
		c.Grouping.Threshold = 0
	}
	if c.Grouping.Threshold == 1 {
		c.Grouping.Threshold = 2
	}

	var kinds []semantic.RelationKind
	for _, k := range c.Relations {
		if k != "" && !slices.Contains(kinds, k) {
			kinds = append(kinds, k)
		}
	}
	if len(kinds) == 0 {
		kinds = slices.Clone(DefaultRelations)
	}
	c.Relations = kinds
	return c
}

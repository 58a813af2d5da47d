package semantic

import (
	"context"
	"errors"
	"slices"
)

var (
	// ErrNotFound is returned by Source.Lookup when the identifier does not
	// resolve. The walker treats it as a recoverable resolution miss.
	ErrNotFound = errors.New("concept not found")

	// ErrUnavailable is returned when the backing store cannot be opened or
	// read. It is fatal to a conversion.
	ErrUnavailable = errors.New("source unavailable")

	// ErrInvalidDocument is returned when a graph document is malformed.
	ErrInvalidDocument = errors.New("invalid graph document")
)

// Concept is one node of a semantic graph.
type Concept struct {
	ID        string     `json:"id" toml:"id" yaml:"id" bson:"_id"`
	Category  string     `json:"category,omitempty" toml:"category,omitempty" yaml:"category,omitempty" bson:"category,omitempty"`
	Members   []string   `json:"members,omitempty" toml:"members,omitempty" yaml:"members,omitempty" bson:"members,omitempty"`
	Gloss     string     `json:"gloss,omitempty" toml:"gloss,omitempty" yaml:"gloss,omitempty" bson:"gloss,omitempty"`
	Relations []Relation `json:"relations,omitempty" toml:"relations,omitempty" yaml:"relations,omitempty" bson:"relations,omitempty"`
}

// Relation is a typed edge from a concept to an ordered list of target IDs.
type Relation struct {
	Kind    RelationKind `json:"kind" toml:"kind" yaml:"kind" bson:"kind"`
	Targets []string     `json:"targets" toml:"targets" yaml:"targets" bson:"targets"`
}

// Head returns the first member, or the ID when the concept has no members.
func (c *Concept) Head() string {
	if len(c.Members) > 0 {
		return c.Members[0]
	}
	return c.ID
}

// Targets returns the targets of every relation of the given kind, in source
// order. A concept may list the same kind more than once; the lists are
// concatenated.
func (c *Concept) Targets(kind RelationKind) []string {
	var out []string
	for _, r := range c.Relations {
		if r.Kind == kind {
			out = append(out, r.Targets...)
		}
	}
	return out
}

// HasRelation reports whether the concept has at least one target of kind.
func (c *Concept) HasRelation(kind RelationKind) bool {
	for _, r := range c.Relations {
		if r.Kind == kind && len(r.Targets) > 0 {
			return true
		}
	}
	return false
}

// Clone returns a deep copy.
func (c *Concept) Clone() *Concept {
	out := *c
	out.Members = slices.Clone(c.Members)
	if c.Relations != nil {
		out.Relations = make([]Relation, len(c.Relations))
		for i, r := range c.Relations {
			out.Relations[i] = Relation{Kind: r.Kind, Targets: slices.Clone(r.Targets)}
		}
	}
	return &out
}

// Source resolves concept identifiers.
// Implementations must be safe for concurrent use by independent conversions.
type Source interface {
	// Lookup returns the concept with the given ID, ErrNotFound for a
	// dangling ID, or another error when the store cannot be read.
	Lookup(ctx context.Context, id string) (*Concept, error)

	// Close releases resources held by the source.
	Close() error
}

// Lister is implemented by sources that can enumerate their concepts.
type Lister interface {
	// IDs returns every concept ID in a stable order.
	IDs(ctx context.Context) ([]string, error)
}

// Named is implemented by sources that know their link scheme and a display
// name, typically from the graph document header.
type Named interface {
	Name() string
	Scheme() string
}

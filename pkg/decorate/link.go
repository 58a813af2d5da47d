package decorate

import (
	"fmt"
	"strings"

	"github.com/matzehuels/semtree/pkg/semantic"
)

// DefaultScheme is used when a source does not declare a link scheme.
const DefaultScheme = "concept"

// Linker resolves navigable links and mount tags for concept identifiers.
type Linker interface {
	// Link returns a link that navigates back to the concept.
	Link(id string) string

	// Mount returns a tag for expanding the concept's relations of kind later.
	Mount(id string, kind semantic.RelationKind) string
}

// SchemeLinker builds links of the form "scheme:id" and mount tags of the
// form "scheme:id#kind".
type SchemeLinker struct {
	Scheme string
}

// NewSchemeLinker returns a linker for scheme, or DefaultScheme if empty.
func NewSchemeLinker(scheme string) SchemeLinker {
	if scheme == "" {
		scheme = DefaultScheme
	}
	return SchemeLinker{Scheme: scheme}
}

func (l SchemeLinker) Link(id string) string { return l.Scheme + ":" + id }

func (l SchemeLinker) Mount(id string, kind semantic.RelationKind) string {
	return l.Link(id) + "#" + string(kind)
}

// Link is a parsed link or mount tag.
type Link struct {
	Scheme string
	ID     string
	Kind   semantic.RelationKind // Empty for plain links
}

// IsMount reports whether the link names a relation to expand.
func (l Link) IsMount() bool { return l.Kind != "" }

func (l Link) String() string {
	s := l.Scheme + ":" + l.ID
	if l.Kind != "" {
		s += "#" + string(l.Kind)
	}
	return s
}

// ParseLink parses "scheme:id" or "scheme:id#kind". The id may itself contain
// colons; only the first one separates the scheme.
func ParseLink(s string) (Link, error) {
	scheme, rest, ok := strings.Cut(s, ":")
	if !ok || scheme == "" || rest == "" {
		return Link{}, fmt.Errorf("invalid link %q", s)
	}
	id, kind, _ := strings.Cut(rest, "#")
	if id == "" {
		return Link{}, fmt.Errorf("invalid link %q: empty id", s)
	}
	return Link{Scheme: scheme, ID: id, Kind: semantic.RelationKind(kind)}, nil
}

var _ Linker = SchemeLinker{}

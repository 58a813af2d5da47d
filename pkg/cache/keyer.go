package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// keyVersion is mixed into tree keys; bump it when the serialized tree
// layout changes so old entries are never decoded.
const keyVersion = 3

// Keyer generates cache keys for the cached item types.
type Keyer interface {
	// TreeKey identifies a converted tree.
	TreeKey(source, root string, opts TreeKeyOpts) string

	// ConceptKey identifies a concept looked up from a source.
	ConceptKey(source, id string) string
}

// TreeKeyOpts holds every conversion parameter that changes tree structure
// or decoration. Any field added to the conversion config must be added here,
// otherwise stale trees would be served.
type TreeKeyOpts struct {
	Features        uint32   `json:"features"`
	MaxRecurse      int      `json:"max_recurse"`
	MaxLinks        int      `json:"max_links"`
	BranchThreshold int      `json:"branch_threshold"`
	Relations       []string `json:"relations"`
	Scheme          string   `json:"scheme"`
}

// DefaultKeyer generates unscoped keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// TreeKey hashes the source, root and options into "tree:<sha256>".
func (DefaultKeyer) TreeKey(source, root string, opts TreeKeyOpts) string {
	return hashKey("tree", keyVersion, source, root, opts)
}

// ConceptKey returns "concept:<source hash>:<id>" so that entries of one
// source can be recognized by prefix.
func (DefaultKeyer) ConceptKey(source, id string) string {
	return "concept:" + Hash([]byte(source))[:16] + ":" + id
}

var _ Keyer = DefaultKeyer{}

// ScopedKeyer prefixes every key of an inner keyer, so that several
// deployments or tools can share one Redis database.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner; a nil inner uses the default keyer.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

func (k *ScopedKeyer) TreeKey(source, root string, opts TreeKeyOpts) string {
	return k.prefix + k.inner.TreeKey(source, root, opts)
}

func (k *ScopedKeyer) ConceptKey(source, id string) string {
	return k.prefix + k.inner.ConceptKey(source, id)
}

// hashKey returns "prefix:" followed by the SHA-256 of the JSON-encoded parts.
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	return prefix + ":" + Hash(data)
}

// Hash returns the hex SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

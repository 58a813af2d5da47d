package semantic

import (
	"context"
	"encoding/json"

	"github.com/matzehuels/semtree/pkg/cache"
	"github.com/matzehuels/semtree/pkg/observability"
)

// CachedSource is a read-through cache in front of a Source. Concepts are
// cached in serialized form, so every Lookup still returns a fresh value.
// Resolution misses are not cached.
type CachedSource struct {
	inner Source
	cache cache.Cache
	keyer cache.Keyer
	name  string
}

// NewCachedSource wraps inner. The name identifies the source in cache keys
// and should be the URI the source was opened from. A nil keyer uses the
// default keyer.
func NewCachedSource(inner Source, c cache.Cache, keyer cache.Keyer, name string) *CachedSource {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	return &CachedSource{inner: inner, cache: c, keyer: keyer, name: name}
}

// Lookup serves from the cache when possible and fills it on a miss.
// Cache failures degrade to direct lookups.
func (s *CachedSource) Lookup(ctx context.Context, id string) (*Concept, error) {
	key := s.keyer.ConceptKey(s.name, id)
	if data, hit, err := s.cache.Get(ctx, key); err == nil && hit {
		var c Concept
		if err := json.Unmarshal(data, &c); err == nil {
			observability.Cache().OnCacheHit(ctx, "concept")
			return &c, nil
		}
	}
	observability.Cache().OnCacheMiss(ctx, "concept")

	c, err := s.inner.Lookup(ctx, id)
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(c); err == nil {
		if s.cache.Set(ctx, key, data, cache.TTLConcept) == nil {
			observability.Cache().OnCacheSet(ctx, "concept", len(data))
		}
	}
	return c, nil
}

// Close closes the wrapped source. The cache is owned by the caller.
func (s *CachedSource) Close() error { return s.inner.Close() }

// Unwrap returns the wrapped source.
func (s *CachedSource) Unwrap() Source { return s.inner }

var _ Source = (*CachedSource)(nil)

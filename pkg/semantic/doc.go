// Package semantic models the source side of a conversion: concepts, typed
// relations between them, and the lookup capability that resolves concept
// identifiers against an external store.
//
// # Concepts and Relations
//
// A [Concept] is a WordNet synset, an ontology class or any other node of a
// semantic graph. It has an identifier, a category, its members (lemmas or
// labels), a gloss, and outgoing [Relation] lists keyed by [RelationKind].
// Targets are kept in source order, which the walker relies on for stable
// truncation.
//
// # Lookup
//
// A [Source] resolves identifiers on demand:
//
//	c, err := src.Lookup(ctx, "n02084071")
//	if errors.Is(err, semantic.ErrNotFound) {
//	    // dangling identifier: skip it
//	}
//
// Sources may be backed by external storage, so callers must not hold on to a
// returned Concept across lookups; every Lookup returns a fresh value.
// Implementations in this module:
//
//   - [MemorySource]: an in-memory graph loaded from a JSON, TOML or YAML [Document]
//   - [CachedSource]: a read-through cache around any Source
//   - redisstore.Source and mongostore.Source for shared stores
//
// # Relation Table
//
// [LookupRelation] describes well-known relation kinds: display label,
// inverse, the kind the walker recurses into, and edge color. Unknown kinds
// are allowed; they recurse into themselves and use their name as label.
package semantic

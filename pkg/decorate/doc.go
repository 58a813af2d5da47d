// Package decorate provides the presentation capabilities the walker calls
// into: image assignment and link resolution.
//
// The walker never handles images. It passes a semantic [Index] (the role of
// a node or edge plus an optional key such as a category or relation kind) to
// a [Decorator], which owns the mapping to concrete image positions. [Table]
// is the stock implementation; one Table is constructed per conversion, so no
// image state is shared between conversions.
//
// A [Linker] turns concept identifiers into scheme-prefixed links such as
// "wordnet:n02084071", and into mount tags ("wordnet:n02084071#hypernym")
// that a renderer resolves later to expand a subtree on demand.
package decorate

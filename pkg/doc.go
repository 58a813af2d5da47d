// Package pkg holds the libraries behind semtree, which converts semantic
// graphs (WordNet-style synset networks, ontologies) into bounded display
// trees.
//
// # Overview
//
// A semantic graph may be cyclic and arbitrarily wide. Semtree walks it from
// a root concept and produces a finite tree whose depth is bounded by
// maxRecurse and whose fan-out is bounded by maxLinks, with a set of feature
// flags deciding how relations, members and single children are shaped.
//
// # Packages
//
// Conversion core:
//   - [feature]: the feature flag bit set and its rule table
//   - [grouping]: balances wide child lists into nested group nodes
//   - [tree]: the display tree model (nodes, edges, decoration)
//   - [walker]: the recursive graph-to-tree walker
//   - [decorate]: image and link decoration capabilities
//
// Sources and orchestration:
//   - [semantic]: concepts, relation kinds and graph sources (file, Redis, MongoDB)
//   - [provider]: variants, configuration decoding and cached conversion runs
//   - [cache]: file, Redis and null caches for trees and concepts
//
// Output and surfaces:
//   - [treeio]: the JSON tree document handed to renderers
//   - [render/dot]: Graphviz DOT and SVG rendering
//   - [server]: the HTTP API
//
// Supporting packages:
//   - [errors]: coded errors shared by the CLI and the server
//   - [observability]: conversion, cache and HTTP hooks
//   - [buildinfo]: version information
//
// # Data Flow
//
//	semantic.Source ──► walker.Walk ──► tree.Tree ──► treeio / dot
//	        ▲                 │
//	  provider.Config    feature.Flags, grouping.Policy
//
// A [provider.Runner] wraps conversions with the tree cache; the CLI and the
// HTTP server both go through it.
package pkg

// Package tree provides the display tree produced by a graph conversion.
//
// # Overview
//
// A display tree is the finite, acyclic, bounded-fanout rendition of a
// semantic graph that is handed to an external renderer. Each [Node] carries
// its presentation attributes (label, tooltip content, navigable link, colors,
// image index, optional mount tag) and the attributes of its incoming edge
// ([Edge]). Edges therefore never exist on their own: every node except the
// root has exactly one parent, and the edge into it lives on the child.
//
// # Building
//
// Nodes are created detached with [NewNode] and attached with [Node.AddChild]
// or [Node.AddChildren], which preserve insertion order and refuse to attach a
// node that already has a parent or that would close a cycle:
//
//	root := tree.NewNode(tree.KindConcept, "dog")
//	rel := tree.NewNode(tree.KindRelation, "hypernym")
//	_ = root.AddChild(rel)
//	_ = rel.AddChild(tree.NewNode(tree.KindConcept, "canine"))
//	t, err := tree.New(root, nil)
//
// [New] seals the structure: it assigns stable preorder identifiers and checks
// the structural invariants. Attribute validation (for example empty labels)
// is left to the caller.
//
// # Node Kinds
//
//   - [KindConcept]: a resolved semantic graph node
//   - [KindMember]: one member (lemma) of a concept that was not merged
//   - [KindRelation]: a node standing for a relation between concepts
//   - [KindGroup]: a synthetic load-balancing group
//   - [KindTruncation]: the "etc" marker for targets omitted by the fan-out cap
//
// # Concurrency
//
// Trees are not safe for concurrent mutation. A conversion owns its tree until
// it hands it to the consumer.
package tree

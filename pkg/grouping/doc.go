// Package grouping splits over-wide child lists into a balanced hierarchy of
// synthetic group nodes.
//
// # Overview
//
// A semantic node can have hundreds of related targets (all hyponyms of
// "animal", all instances of an ontology class). Rendering them as direct
// children makes the tree unreadable. [Policy.Group] keeps every fan-out at or
// below a threshold by wrapping contiguous runs of children into
// [tree.KindGroup] nodes, and wrapping those groups again when there are still
// too many of them.
//
// # Partitioning
//
// For n children and threshold T the policy uses g = ceil(n/T) runs. Run
// lengths differ by at most one; when n is not divisible by g the earlier runs
// take the remainder. The scheme is deterministic and order-preserving, so
// [Flatten] on the result always yields the input list.
//
//	12 children, T=5  ->  3 groups of 4, 4, 4
//	11 children, T=5  ->  3 groups of 4, 4, 3
//	26 children, T=5  ->  6 groups (5,5,4,4,4,4) -> 2 groups of 3, 3
package grouping

// Package walker converts a semantic graph into a bounded display tree.
//
// # Overview
//
// A [Walker] starts at a root concept and, for every configured relation
// kind, expands the root's targets depth-first. Each resolved target becomes
// a concept node whose children are the target's own relations of the kind
// the relation table says to follow next (a hypernym recurses into
// hypernyms, an instance-hypernym into hypernyms, and so on).
//
// The output is finite and acyclic for any input:
//
//   - recursion stops at [Config.MaxRecurse] (hard-capped at [MaxRecurseLimit]);
//     a target cut off there that still has relations to follow gets a mount
//     tag so a renderer can expand it later
//   - a target already on the current path is skipped; the visited set is
//     per path, so the same concept may appear under unrelated parents
//   - at most [Config.MaxLinks] targets are considered per relation, in source
//     order; the rest are summarized by one truncation marker
//
// Wide child lists are load balanced by the [grouping.Policy] in the config,
// and the [feature.Flags] select the structural rewrites applied on the way.
//
// # Failures
//
// A target that does not resolve is skipped and reported through
// [Diagnostics]. Any other lookup error, including cancellation of the
// context, aborts the conversion with a SOURCE_UNAVAILABLE error.
//
// A Walker keeps per-conversion state and must not be shared between
// concurrent conversions. Create one per conversion.
package walker

// Package feature defines the flag set that selects structural rewrite rules
// applied while a semantic graph is converted into a display tree.
//
// # Overview
//
// A provider variant is fully described by its [Flags] value, its recursion
// and fan-out limits, its grouping threshold and the relation kinds it walks.
// Flags are a plain bit set: they combine with bitwise OR and are compared by
// value, so a configured variant can never be mutated behind the walker's back.
//
//	f := feature.ForgetRelationNode | feature.MergeMembersIntoLabel
//	if f.Has(feature.ForgetRelationNode) {
//	    // attach targets directly under their source
//	}
//
// # Rule Table
//
// [Rules] lists every flag in bit order together with its canonical name and a
// one-line description. The names are the stable textual form used by the CLI,
// the HTTP API and variant files; [Parse] accepts either comma-separated names
// or an integer bit mask.
package feature

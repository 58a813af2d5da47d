// Package provider is the conversion boundary: it takes a source identifier
// and a configuration map, runs the walker and returns a typed [Result].
//
// # Configuration
//
// Recognized keys of the configuration map:
//
//	features         flag set, as an integer or names ("forget-relation-node,collapse-intermediate")
//	maxRecurse       concept levels below the root (default 3, at most 16)
//	maxLinks         targets considered per relation (default 32)
//	branchThreshold  children per node before grouping (0 disables)
//	relations        relation kinds walked from the root
//	variant          named preset applied before the other keys
//	fontSizeFactor, expansion, sweep, orientation
//	                 display settings forwarded to the renderer
//	scheme           link scheme, defaulting to the source's own
//
// Out-of-range values are corrected to safe defaults rather than rejected.
// Values of the wrong type are an INVALID_CONFIG error.
//
// # Results and Diagnostics
//
// No error or panic crosses the boundary as control flow. [Provider.Convert]
// always returns a [Result] whose [Status] is Success, Partial (some targets
// did not resolve) or Failed. Messages are delivered to a [Diagnostics]
// callback as they happen and are also collected on the result.
//
// # Sources
//
// [Open] resolves a source URI: a file path or file:// URI (JSON, TOML or
// YAML graph document), redis:// or mongodb://.
//
// # Caching
//
// A [Runner] puts a tree cache in front of conversions and converts several
// roots concurrently with [Runner.ConvertMany].
package provider

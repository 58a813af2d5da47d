// Package server exposes conversions over HTTP.
//
// Routes:
//
//	GET /healthz                 liveness, source name and version
//	GET /v1/features             the feature flag rule table
//	GET /v1/variants             registered variants
//	GET /v1/concepts/{id}        one concept of the source
//	GET /v1/trees/{root}         convert root; format=json|dot|svg
//
// Tree requests take the provider configuration keys as query parameters
// (variant, features, maxRecurse, maxLinks, branchThreshold, relations,
// fontSizeFactor, expansion, sweep, orientation, scheme) plus refresh=true
// to bypass the tree cache. Errors are JSON objects carrying the error code:
//
//	{"error": {"code": "NOT_FOUND", "message": "root concept n0: not found"}}
//
// Every response carries an X-Request-ID header; tree responses add
// X-Conversion-ID, X-Conversion-Status and X-Cache.
package server

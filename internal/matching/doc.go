// Package matching resolves request paths against endpoint path patterns.
//
// A path pattern is a route template such as "/users/:id/orders" or
// "/users/{id}/orders". Patterns are compiled once into a sequence of literal
// and parameter segments and cached by a Compiler, so resolving a request never
// re-parses pattern strings.
//
// Matching is structural and segment-based:
//
//   - literal segments must equal the request segment exactly
//   - parameter segments match any single non-empty segment and bind its value
//   - the pattern and the request must have the same number of segments
//
// When several endpoints match the same request, Select prefers the pattern with
// more literal segments (its specificity), then the most recently updated
// endpoint, then the most recently created one, then the larger (later issued)
// ID. The result is therefore a pure function of the candidate set, the method
// and the path.
//
// Patterns that cannot be compiled yield an error wrapping ErrMalformedPattern.
// Select skips such candidates and reports them through a callback instead of
// failing the whole resolution.
package matching

// Package insert implements the interval/split/join pipeline that
// extends the index so a subsequent search for the same query returns
// an exact full-token match.
//
// Insertion is driven by a leading search. A perfect match
// short-circuits to the existing token. Otherwise the matched range of
// the found root is materialized: interval construction traces which
// vertices must be split at which atom offsets (clean splits align with
// existing pattern boundaries, inner splits recurse into children); the
// split phase processes traced vertices bottom-up, producing left/right
// tokens per offset and registering each [left right] partition as an
// alternative decomposition; the join phase assembles the target token
// for the requested range, factoring the enclosing wrapper in place and
// stitching overlap-preserving alternates.
//
// When the query extends beyond the matched range, the remainder is
// inserted recursively and composed with the matched token, so
// [Insert.Insert] always returns a single token covering the whole
// query. The engine is memoryless across calls; idempotence comes from
// the leading search alone.
package insert

// Package search implements the bottom-up ancestor search over a
// hypergraph store.
//
// Given a query pattern, [Search.FindAncestor] locates the largest
// ancestor vertex whose decompositions contain the query as a
// contiguous subsequence. The engine drives a min-width priority queue
// of parent candidates: matching a smaller enclosing parent first
// yields a tighter match, and larger parents are preferred only when
// their smaller counterparts cannot accommodate the query. Each
// candidate runs the comparison state machine (Matched -> Candidate ->
// Matched/Mismatched) over leaf atoms, committing a checkpoint on every
// confirmed atom. When a candidate root is consumed but the query
// continues, the root's parent batch is pushed back onto the queue and
// the match is raised one level.
//
// Every traversal step contributes a directed edge to the per-operation
// [cache.TraceCache] carried by the [Response]; the insert engine
// consumes it to plan splits.
//
// Single-token queries are answered with [hypergraph.SingleIndexError]
// (the token itself is the result); an empty query is
// [hypergraph.ErrEmptyPatterns]; a query whose first leaf has no
// matching ancestor at all is [hypergraph.ErrNotFound].
package search

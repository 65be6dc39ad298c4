// Package hypergraph implements the vertex store at the heart of the
// hypercontext index.
//
// Every distinct subsequence observed by insertion becomes a vertex with
// a stable 64-bit index, a content-addressed key, an atom width, a set
// of parent back-edges, and zero or more alternative child
// decompositions (patterns). Atomic vertices represent single atoms and
// have width 1 and no decompositions.
//
// # Concurrency
//
// The store is safe for concurrent use. Vertices live in a sharded map
// keyed by content-addressed key; each vertex slot carries its own
// read-write lock, and the index maps are guarded separately. Readers
// obtain deep snapshots ([Vertex], [Pattern]); writers hold the
// per-vertex write lock for the duration of a mutation. Mutations that
// touch a parent and its children (e.g. [HyperGraph.ReplaceInPattern])
// acquire locks in a fixed order — parent first, then children in
// ascending vertex-index order — to preclude deadlock.
//
// # Errors
//
// Data errors are returned as [ErrorReason] values (matched with
// errors.Is) or typed errors carrying payloads. Internal faults (nil
// receiver misuse) are sentinel errors wrapping [ErrInternal].
// Invariant checking is available via [HyperGraph.Validate], which
// reports violations as a [diag.Result].
package hypergraph

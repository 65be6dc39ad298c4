// Package cache implements the per-operation trace cache: a record of
// every directed edge a search traversal visited, keyed by vertex and
// atom position.
//
// Each visited vertex owns a [PositionCache] per atom position inside
// it. A top-down step contributes a bottom edge (an incoming down-edge
// from the parent, addressed by [DirectedKey] and resolving to the
// sub-location that was entered); a bottom-up step contributes a top
// edge (an outgoing up-edge to the parent). The cache is insensitive to
// repetition: re-registering an (index, position, edge) triple is a
// no-op.
//
// Trace caches are value types produced per search operation; the
// insert engine's interval construction consumes them to decide which
// vertices must be split where. They do not outlive the operation that
// built them.
package cache

// Package path provides rooted, role-tagged addressing of contiguous
// spans inside the hypergraph, plus the cursor state machine used by
// the search and insert engines.
//
// A path names a span by a root (a literal query pattern or a
// decomposition location in the store) and one or two role paths: the
// Start role descends toward the span's first atom, the End role toward
// its last atom. Role paths are stacks of
// [hypergraph.ChildLocation] values; every structure here holds plain
// index triples rather than node references, so paths are trivially
// copyable and serializable, and no ownership cycles can arise.
//
// Movement is provided at two granularities. [RolePath.AdvanceLeaf] and
// [RolePath.RetractLeaf] move the deepest location by one child
// position and stop at pattern borders; [IndexRangePath.AdvanceEnd]
// raises across borders toward the root. The movement contract
//
//	CanAdvance(p) == true  <=>  Advance(p) advances
//
// is property-tested against a live store.
//
// Cursors pair a path with an atom position and a [State] marker.
// [Checkpointed] couples a frozen Matched cursor with an evolving
// Candidate and is the unit of commit/rollback during comparison.
package path

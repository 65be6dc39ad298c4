package path

// State is the comparison state marker carried by cursors.
//
// The machine is small and closed:
//
//	Matched --ToCandidate--> Candidate --ToMatched-->    Matched
//	                                   --ToMismatched--> Mismatched
//
// Exhausted marks a query cursor whose pattern has been fully consumed.
type State uint8

const (
	// Matched marks a confirmed position: every atom up to AtomPos has
	// been matched and committed.
	Matched State = iota

	// Candidate marks a speculative advance that has not been confirmed
	// by a leaf comparison yet.
	Candidate

	// Mismatched marks a failed comparison; the cursor's checkpoint is
	// the best confirmed match.
	Mismatched

	// Exhausted marks a query cursor whose pattern has been consumed.
	Exhausted
)

// String returns the lowercase state label.
func (s State) String() string {
	switch s {
	case Matched:
		return "matched"
	case Candidate:
		return "candidate"
	case Mismatched:
		return "mismatched"
	case Exhausted:
		return "exhausted"
	default:
		return "unknown"
	}
}

// Cursor wraps a path with an atom position and a state marker.
//
// The path type is either [PatternRangePath] (query side) or
// [IndexRangePath] (graph side); both sides of a comparison hold the
// same shape.
type Cursor[P interface{ Clone() P }] struct {
	Path    P
	AtomPos int
	State   State
}

// Clone returns an independent copy of the cursor.
func (c Cursor[P]) Clone() Cursor[P] {
	return Cursor[P]{Path: c.Path.Clone(), AtomPos: c.AtomPos, State: c.State}
}

// Checkpointed pairs a frozen Matched checkpoint with an evolving
// Candidate cursor. It is the unit of commit/rollback during
// comparison: Commit promotes the speculative cursor to the new
// checkpoint, Rollback discards it.
type Checkpointed[P interface{ Clone() P }] struct {
	// Committed is the last confirmed cursor; its state is Matched
	// (or Exhausted once the query ends).
	Committed Cursor[P]

	// Speculative is the evolving candidate.
	Speculative Cursor[P]
}

// NewCheckpointed starts a checkpointed pair from a confirmed cursor.
func NewCheckpointed[P interface{ Clone() P }](c Cursor[P]) Checkpointed[P] {
	c.State = Matched
	return Checkpointed[P]{Committed: c.Clone(), Speculative: c.Clone()}
}

// ToCandidate marks the speculative cursor as a candidate advance.
func (c *Checkpointed[P]) ToCandidate() {
	c.Speculative.State = Candidate
}

// Commit confirms the speculative cursor: it becomes the new
// checkpoint in state Matched.
func (c *Checkpointed[P]) Commit() {
	c.Speculative.State = Matched
	c.Committed = c.Speculative.Clone()
}

// Rollback discards the speculative cursor, restoring the checkpoint.
// The speculative side is marked Mismatched so callers can observe the
// transition before reusing the pair.
func (c *Checkpointed[P]) Rollback() {
	spec := c.Committed.Clone()
	spec.State = Mismatched
	c.Speculative = spec
}

// Exhaust marks both sides as exhausted (the query ended on a
// confirmed position).
func (c *Checkpointed[P]) Exhaust() {
	c.Speculative.State = Exhausted
	c.Committed = c.Speculative.Clone()
}

// Clone returns an independent copy of the pair.
func (c Checkpointed[P]) Clone() Checkpointed[P] {
	return Checkpointed[P]{Committed: c.Committed.Clone(), Speculative: c.Speculative.Clone()}
}

package hypergraph

import (
	"errors"
	"fmt"
)

// Error sentinels for internal store failures.
// These errors indicate programmer errors or internal faults, not data
// issues. Data issues are reported via [ErrorReason] values.
var (
	// ErrInternal is the base error for internal store failures.
	ErrInternal = errors.New("internal store failure")

	// ErrNilGraph indicates a method was called on a nil *HyperGraph receiver.
	ErrNilGraph = fmt.Errorf("%w: nil *HyperGraph receiver", ErrInternal)
)

// ErrorReason is a data error returned as a value and matched with
// errors.Is. Reasons are part of control flow: callers branch on them
// rather than treating them as faults.
type ErrorReason struct {
	name string
}

// Error implements the error interface.
func (e ErrorReason) Error() string {
	return e.name
}

// Enumerated data error reasons.
var (
	// ErrEmptyPatterns reports an operation over an empty pattern.
	ErrEmptyPatterns = ErrorReason{"empty pattern"}

	// ErrNoTokenPatterns reports that a vertex has no decomposition at
	// the addressed pattern id.
	ErrNoTokenPatterns = ErrorReason{"no pattern at id"}

	// ErrNoChildPatterns reports that a vertex has no decompositions at
	// all (it is atomic) where one is required.
	ErrNoChildPatterns = ErrorReason{"vertex has no child patterns"}

	// ErrUnknownAtom reports a lookup of an atom that was never interned.
	ErrUnknownAtom = ErrorReason{"unknown atom"}

	// ErrUnknownIndex reports a lookup of a vertex index that does not exist.
	ErrUnknownIndex = ErrorReason{"unknown vertex index"}

	// ErrInvalidPatternRange reports a sub-range escaping its pattern.
	ErrInvalidPatternRange = ErrorReason{"invalid pattern range"}

	// ErrEmptyRange reports a range factoring request over an empty slice.
	ErrEmptyRange = ErrorReason{"empty range"}

	// ErrUnnecessary reports a range factoring request that covers a full
	// pattern and would re-create the same vertex.
	ErrUnnecessary = ErrorReason{"range covers full pattern"}

	// ErrNotFound reports that a search exhausted its queue without a match.
	ErrNotFound = ErrorReason{"not found"}
)

// SingleIndexError reports a query consisting of a single token. The
// token itself is the answer; no ancestor search or insertion is
// required. Callers typically recover by using the carried token.
type SingleIndexError struct {
	Found IndexWithPath
}

// Error implements the error interface.
func (e *SingleIndexError) Error() string {
	return fmt.Sprintf("single index query: %s", e.Found.Index)
}

// WidthMismatchError reports an attempt to register or substitute a
// pattern whose total width differs from the required width.
type WidthMismatchError struct {
	Vertex Token
	Want   int
	Got    int
}

// Error implements the error interface.
func (e *WidthMismatchError) Error() string {
	return fmt.Sprintf("pattern width %d does not cover width %d of vertex %s", e.Got, e.Want, e.Vertex)
}

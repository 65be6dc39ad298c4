package search

import (
	"fmt"

	"github.com/simon-lentz/hypercontext/cache"
	"github.com/simon-lentz/hypercontext/hypergraph"
	"github.com/simon-lentz/hypercontext/path"
)

// Coverage describes where a match lies relative to its root
// decomposition.
type Coverage uint8

const (
	// EntireRoot: the match consumed the whole root decomposition; the
	// query exactly matched an existing vertex.
	EntireRoot Coverage = iota

	// Range: the match lies strictly inside the root, bordered on both
	// sides.
	Range

	// Prefix: the match starts at the root's left border and ends
	// inside it.
	Prefix

	// Postfix: the match starts inside the root and reaches its right
	// border.
	Postfix

	// Complete: the query reduced to a single pre-existing token with
	// no enclosing root context. No search or insert path in this module
	// produces it; IsFullToken treats it like EntireRoot.
	Complete
)

// String returns the coverage label.
func (c Coverage) String() string {
	switch c {
	case EntireRoot:
		return "entire_root"
	case Range:
		return "range"
	case Prefix:
		return "prefix"
	case Postfix:
		return "postfix"
	case Complete:
		return "complete"
	default:
		return "unknown"
	}
}

// Reason records why the comparison ended.
type Reason uint8

const (
	// QueryExhausted: every query atom was matched.
	QueryExhausted Reason = iota

	// Mismatch: a leaf comparison failed; the checkpoint is the match.
	Mismatch

	// ChildExhausted: the graph side ran out of root and no parent
	// could continue the comparison.
	ChildExhausted
)

// String returns the reason label.
func (r Reason) String() string {
	switch r {
	case QueryExhausted:
		return "query_exhausted"
	case Mismatch:
		return "mismatch"
	case ChildExhausted:
		return "child_exhausted"
	default:
		return "unknown"
	}
}

// MatchResult describes where the match lies: the coverage class, the
// graph-side path of the matched span, and the checkpointed query
// cursor (frozen checkpoint plus candidate advance) for consecutive
// searches.
type MatchResult struct {
	Coverage Coverage
	Reason   Reason

	// Path is the graph-side span of the committed match.
	Path path.IndexRangePath

	// Cursor is the checkpointed query cursor. Its committed side is
	// the confirmed match; its speculative side may have advanced one
	// leaf beyond it (the probe that ended the comparison).
	Cursor path.Checkpointed[path.PatternRangePath]
}

// Response is the result of a search: the trace cache of every directed
// edge visited, plus the end state describing where the match lies.
type Response struct {
	Cache *cache.TraceCache
	End   MatchResult
}

// QueryExhausted reports whether the checkpoint cursor consumed the
// whole query: its end role index reached the last pattern entry with
// an empty end path.
func (r *Response) QueryExhausted() bool {
	return r.End.Cursor.Committed.Path.Exhausted()
}

// IsFullToken reports whether the query exactly matched an existing
// vertex (the match covers its entire root decomposition).
func (r *Response) IsFullToken() bool {
	return r.End.Coverage == EntireRoot || r.End.Coverage == Complete
}

// RootToken returns the vertex owning the matched root decomposition.
func (r *Response) RootToken() hypergraph.Token {
	return r.End.Path.RootToken()
}

// CursorPosition returns the atom position of the candidate cursor if
// it advanced beyond the checkpoint, otherwise the checkpoint position.
// Useful for consecutive searches.
func (r *Response) CursorPosition() int {
	if r.End.Cursor.Speculative.AtomPos > r.End.Cursor.Committed.AtomPos {
		return r.End.Cursor.Speculative.AtomPos
	}
	return r.End.Cursor.Committed.AtomPos
}

// ErrorState wraps a search or insert failure with the best partial
// response available.
type ErrorState struct {
	Reason error
	Found  *Response
}

// Error implements the error interface.
func (e *ErrorState) Error() string {
	if e.Found != nil {
		return fmt.Sprintf("%v (best partial: %s)", e.Reason, e.Found.End.Coverage)
	}
	return e.Reason.Error()
}

// Unwrap exposes the underlying reason to errors.Is/errors.As.
func (e *ErrorState) Unwrap() error {
	return e.Reason
}

package hypergraph

import (
	"cmp"
	"fmt"
)

// Atom is an externally supplied leaf symbol, typically a character.
//
// Atoms are interned: inserting the same atom twice yields the same
// token.
type Atom rune

// String returns the atom as a quoted rune literal for diagnostics.
func (a Atom) String() string {
	return fmt.Sprintf("%q", rune(a))
}

// VertexIndex is the stable identity of a vertex within one store.
//
// Indices are allocated monotonically from an atomic counter and are
// never reused.
type VertexIndex uint64

// PatternID identifies one alternative decomposition within a vertex.
//
// Pattern ids are unique within a single parent vertex; 0 is the
// invalid zero value.
type PatternID uint32

// Token addresses a vertex together with its atom width.
//
// Two tokens are equal iff their vertex indices are equal; the width is
// carried for fast filtering and ordering. Callers must not compare
// tokens with ==: use [Token.Equal], which ignores the width field.
type Token struct {
	Index VertexIndex
	Width int
}

// Equal reports whether two tokens address the same vertex.
//
// Widths are intentionally ignored: a token's identity is its vertex
// index.
func (t Token) Equal(other Token) bool {
	return t.Index == other.Index
}

// Compare orders tokens by width, breaking ties by index.
//
// Smaller widths order first; this is the ordering used by the search
// queue's smallest-enclosing-ancestor preference.
func (t Token) Compare(other Token) int {
	if c := cmp.Compare(t.Width, other.Width); c != 0 {
		return c
	}
	return cmp.Compare(t.Index, other.Index)
}

// IsZero reports whether the token is the zero value.
//
// The zero token addresses no vertex: index 0 is never allocated.
func (t Token) IsZero() bool {
	return t.Index == 0 && t.Width == 0
}

// IsAtomic reports whether the token addresses an atomic vertex.
func (t Token) IsAtomic() bool {
	return t.Width == 1
}

// At pairs the token with a pattern id, addressing one of its
// decompositions.
func (t Token) At(id PatternID) PatternLocation {
	return PatternLocation{Parent: t, PatternID: id}
}

// ChildAt combines the token with a sub-location into a full child
// location.
func (t Token) ChildAt(sub SubLocation) ChildLocation {
	return ChildLocation{Parent: t, PatternID: sub.PatternID, SubIndex: sub.SubIndex}
}

// String renders the token as index@width for logs and test failures.
func (t Token) String() string {
	return fmt.Sprintf("%d@%d", t.Index, t.Width)
}

// IndexWithPath pairs a token with the query path that produced it.
//
// It is the payload of [SingleIndexError]: a single-token query needs no
// ancestor search, so the token itself is returned together with the
// original query.
type IndexWithPath struct {
	Index Token
	Path  []Token
}

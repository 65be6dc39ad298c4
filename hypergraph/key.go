package hypergraph

import (
	"encoding/binary"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Key is the content-addressed identity of a vertex, used by the
// external store map and by snapshot serialization.
//
// Keys are deterministic: an atom always maps to the same key in every
// store, and a pattern vertex's key is derived from its allocated index
// within a per-store namespace. Keys are opaque to callers; the only
// supported operations are equality and string rendering.
type Key = uuid.UUID

// Namespace UUIDs for content addressing. Fixed values so atom keys are
// stable across stores and process restarts.
var (
	nsAtom   = uuid.MustParse("5e8a1d2c-9f4b-4c1e-8a3d-7b6f2e9c0a41")
	nsVertex = uuid.MustParse("c3b7f8e1-2d5a-4e9c-b0f4-6a1d8c3e5b72")
)

// atomKey derives the content-addressed key for an atom.
func atomKey(a Atom) Key {
	buf := make([]byte, utf8.UTFMax)
	n := utf8.EncodeRune(buf, rune(a))
	return uuid.NewSHA1(nsAtom, buf[:n])
}

// vertexKey derives the content-addressed key for a pattern vertex from
// its allocated index.
func vertexKey(index VertexIndex) Key {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(index))
	return uuid.NewSHA1(nsVertex, buf[:])
}

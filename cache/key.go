package cache

import (
	"fmt"

	"github.com/simon-lentz/hypercontext/hypergraph"
)

// Direction distinguishes the two edge orientations of a traversal
// step: up toward a parent, down into a child.
type Direction uint8

const (
	// Up marks an edge from a child position toward a parent vertex.
	Up Direction = iota

	// Down marks an edge from a parent position into a child vertex.
	Down
)

// String returns "up" or "down".
func (d Direction) String() string {
	if d == Up {
		return "up"
	}
	return "down"
}

// DirectedKey is the canonical cache key: a token plus the atom
// position at which it was visited, oriented up or down.
type DirectedKey struct {
	Token     hypergraph.Token
	Pos       int
	Direction Direction
}

// UpKey builds an up-oriented key.
func UpKey(tok hypergraph.Token, pos int) DirectedKey {
	return DirectedKey{Token: tok, Pos: pos, Direction: Up}
}

// DownKey builds a down-oriented key.
func DownKey(tok hypergraph.Token, pos int) DirectedKey {
	return DirectedKey{Token: tok, Pos: pos, Direction: Down}
}

// String renders the key for logs and test failures.
func (k DirectedKey) String() string {
	return fmt.Sprintf("%s[%s@%d]", k.Direction, k.Token, k.Pos)
}

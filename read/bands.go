package read

import (
	"github.com/simon-lentz/hypercontext/hypergraph"
)

// Band is one covered stretch of the stream: the token covering it and
// the absolute atom offset just past it.
type Band struct {
	Token hypergraph.Token
	End   int
}

// BandChain is the ordered sequence of bands produced while folding
// block tokens, ordered by end bound.
type BandChain []Band

// Append extends the chain with a token, accumulating the end bound.
func (c BandChain) Append(tok hypergraph.Token) BandChain {
	end := tok.Width
	if len(c) > 0 {
		end += c[len(c)-1].End
	}
	return append(c, Band{Token: tok, End: end})
}

// Last returns the most recent band.
func (c BandChain) Last() (Band, bool) {
	if len(c) == 0 {
		return Band{}, false
	}
	return c[len(c)-1], true
}

// OverlapLink records one detected overlap: while folding band number
// Band, the complement token (start of root to overlap start) was found
// to already compose with the band's overlap head.
//
// Links are telemetry: the fold consumes the complement directly and
// nothing downstream reads them back.
type OverlapLink struct {
	Band       int
	Complement hypergraph.Token
	Overlap    hypergraph.Token
}

// Package json serializes hypergraph stores to a plain JSON snapshot
// format and rebuilds stores from it.
//
// The snapshot is a flat list of vertex records:
//
//	{
//	  "vertices": [
//	    {
//	      "key": "1e8f...-....",
//	      "index": 7,
//	      "width": 3,
//	      "atom": "a",                     // atomic vertices only
//	      "child_patterns": {"1": [2, 3]}, // pattern id -> child indices
//	      "parents": {"9": {"width": 5, "positions": [[1, 0]]}}
//	    }
//	  ]
//	}
//
// Input is tolerant: comments and trailing commas are stripped before
// decoding (JSONC). Decoding rebuilds the store bottom-up, so vertex
// indices and keys are reassigned by the new store; the structure
// (atoms, decompositions, parent back-edges, widths) round-trips
// exactly. Content-level problems — dangling child references, widths
// that do not close — are reported as diagnostics rather than aborting
// the decode.
package json

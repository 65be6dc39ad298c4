package diag

// Detail provides key-value context for diagnostic issues.
//
// Details are used to add structured information to issues that can be
// programmatically inspected by tools. Use the standard detail key
// constants to ensure consistent key naming across the codebase.
type Detail struct {
	Key   string
	Value string
}

// Standard detail keys for consistent diagnostic metadata.
//
// Use these constants to avoid stringly-typed drift and enable
// programmatic inspection of diagnostic details. Custom detail keys are
// permitted for domain-specific diagnostics; use lower_snake_case for
// custom keys.
const (
	// DetailKeyExpected is the expected value.
	DetailKeyExpected = "expected"

	// DetailKeyGot is the actual value received.
	DetailKeyGot = "got"

	// DetailKeyVertex is the vertex index involved in the diagnostic.
	DetailKeyVertex = "vertex"

	// DetailKeyPatternID is the decomposition id involved.
	DetailKeyPatternID = "pattern_id"

	// DetailKeySubIndex is the position within a decomposition.
	DetailKeySubIndex = "sub_index"

	// DetailKeyWidth is an atom width.
	DetailKeyWidth = "width"

	// DetailKeyAtom is an atom literal.
	DetailKeyAtom = "atom"

	// DetailKeyPosition is an absolute atom position.
	DetailKeyPosition = "position"

	// DetailKeyParent is the parent vertex index of a back-edge.
	DetailKeyParent = "parent"

	// DetailKeyReason is the failure reason discriminant.
	DetailKeyReason = "reason"

	// DetailKeyFormat is the adapter format identifier (e.g., "json").
	DetailKeyFormat = "format"

	// DetailKeyDetail is the specific error description (parse error,
	// decoding failure).
	DetailKeyDetail = "detail"
)

// ExpectedGot creates a pair of details for mismatch diagnostics.
//
// This is the standard pattern for reporting "expected X, got Y" errors.
func ExpectedGot(expected, got string) []Detail {
	return []Detail{
		{Key: DetailKeyExpected, Value: expected},
		{Key: DetailKeyGot, Value: got},
	}
}

// VertexPattern creates detail entries for vertex+decomposition diagnostics.
//
// Use for diagnostics involving a specific decomposition of a vertex.
func VertexPattern(vertex, patternID string) []Detail {
	return []Detail{
		{Key: DetailKeyVertex, Value: vertex},
		{Key: DetailKeyPatternID, Value: patternID},
	}
}

// ChildPosition creates detail entries for back-edge diagnostics.
//
// Use for diagnostics like E_PARENT_INCONSISTENT that address a child
// position inside a parent decomposition.
func ChildPosition(parent, patternID, subIndex string) []Detail {
	return []Detail{
		{Key: DetailKeyParent, Value: parent},
		{Key: DetailKeyPatternID, Value: patternID},
		{Key: DetailKeySubIndex, Value: subIndex},
	}
}

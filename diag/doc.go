// Package diag provides structured diagnostics with stable error codes
// for the hypercontext library.
//
// Diagnostics describe content-level findings about a store — invariant
// violations discovered by validation, snapshot decoding problems, and
// advisory notices from the read driver. They are distinct from error
// returns (data and system failures reported as Go error values) and
// from trace logging (developer observability via internal/trace).
//
// # Core Types
//
//   - [Issue]: a single immutable diagnostic with severity, code,
//     message, optional vertex/position provenance, and key-value details.
//   - [Code]: a stable programmatic identifier drawn from a closed set.
//   - [Collector]: thread-safe issue accumulation with O(1) severity
//     queries and an optional limit.
//   - [Result]: an immutable, deterministically sorted snapshot.
//
// # Construction
//
// Issues are built with [NewIssue] and the fluent [IssueBuilder]:
//
//	issue := diag.NewIssue(diag.Error, diag.E_WIDTH_MISMATCH,
//	    "child pattern width 4 does not cover vertex width 5").
//	    WithVertex(12).
//	    WithDetail(diag.DetailKeyPatternID, "2").
//	    Build()
//
// Direct struct literal construction bypasses validity checks and will
// cause panics when the issue is collected via [Collector.Collect].
package diag

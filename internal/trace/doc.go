// Package trace provides optional debug logging helpers for the
// hypercontext library.
//
// This package is an internal utility for developer observability. It is
// distinct from [diag.Result] (structured validation issues) and error
// returns (data and system failures).
//
// # Design Principles
//
//   - Near-zero cost when disabled: when the logger is nil, overhead is a
//     single nil check. The Lazy variants guarantee no allocation from
//     attribute construction when disabled.
//   - Stdlib only: uses [log/slog], preserving dependency hygiene.
//   - Logger injection: loggers are passed via options at API boundaries
//     (e.g. hypergraph.WithLogger), never stored in globals or read from
//     environment variables.
//
// # Usage Patterns
//
//   - [Begin]/[Op.End]: operation boundaries of public API calls, with
//     automatic duration measurement and cancellation capture.
//   - [Debug], [Info], [Warn]: simple, pre-computed attributes.
//   - [DebugLazy]: computed attributes; the function argument is not
//     called when logging is disabled.
//   - [Enabled]: for complex control flow mixing levels.
//
// # Operation Names
//
// Operation names follow the format hypercontext.<package>.<operation>:
//   - hypercontext.search.find_ancestor
//   - hypercontext.search.find_parent
//   - hypercontext.insert.insert
//   - hypercontext.read.read_sequence
//
// Operation names are implementation details and may change without
// notice. Tests should not depend on the exact set of operation names.
package trace

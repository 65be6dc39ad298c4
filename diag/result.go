package diag

import (
	"fmt"
	"iter"
	"strings"
)

// SeverityCounts provides counts by severity level without map allocation.
type SeverityCounts struct {
	Fatal    int
	Errors   int
	Warnings int
	Info     int
	Hints    int
}

// Result is an immutable snapshot of diagnostic issues with precomputed
// counts.
//
// Result provides O(1) severity queries and iterator-based access to
// issues. Results are obtained via [Collector.Result] or the [OK]
// function for empty success results.
//
// There is no public constructor accepting arbitrary issues; this
// ensures all issues in a Result are valid.
type Result struct {
	issues       []Issue
	limit        int
	limitReached bool
	droppedCount int

	// Precomputed counts (set at construction time)
	fatalCount   int
	errorCount   int
	warningCount int
	infoCount    int
	hintCount    int
}

// newResult creates a Result with precomputed counts.
//
// The issues slice is owned by the Result and must not be modified after
// this call. Callers must pass a fresh slice (not shared with other code).
func newResult(issues []Issue, limit int, limitReached bool, droppedCount int) Result {
	var fatalCount, errorCount, warningCount, infoCount, hintCount int

	for _, issue := range issues {
		switch issue.Severity() {
		case Fatal:
			fatalCount++
		case Error:
			errorCount++
		case Warning:
			warningCount++
		case Info:
			infoCount++
		case Hint:
			hintCount++
		}
	}

	return Result{
		issues:       issues,
		limit:        limit,
		limitReached: limitReached,
		droppedCount: droppedCount,
		fatalCount:   fatalCount,
		errorCount:   errorCount,
		warningCount: warningCount,
		infoCount:    infoCount,
		hintCount:    hintCount,
	}
}

// OK returns a Result representing success (no issues).
//
// This is the canonical way to construct a success Result in return
// statements. The returned Result has:
//   - OK() == true
//   - HasErrors() == false
//   - Len() == 0
//   - LimitReached() == false
func OK() Result {
	return newResult(nil, 0, false, 0)
}

// OK reports whether no Fatal or Error issues are present.
func (r Result) OK() bool {
	return r.fatalCount == 0 && r.errorCount == 0
}

// HasFatal reports whether any Fatal issue is present.
func (r Result) HasFatal() bool {
	return r.fatalCount > 0
}

// HasErrors reports whether any Fatal or Error issue is present.
func (r Result) HasErrors() bool {
	return r.fatalCount > 0 || r.errorCount > 0
}

// HasWarnings reports whether any Warning issue is present.
func (r Result) HasWarnings() bool {
	return r.warningCount > 0
}

// Len returns the number of issues.
func (r Result) Len() int {
	return len(r.issues)
}

// LimitReached reports whether the collection limit was reached.
func (r Result) LimitReached() bool {
	return r.limitReached
}

// DroppedCount returns how many issues were dropped after hitting the limit.
func (r Result) DroppedCount() int {
	return r.droppedCount
}

// Limit returns the configured issue limit (0 means unlimited).
// Use [Result.LimitReached] to check if the limit was actually reached.
func (r Result) Limit() int {
	return r.limit
}

// SeverityCounts returns counts by severity level.
func (r Result) SeverityCounts() SeverityCounts {
	return SeverityCounts{
		Fatal:    r.fatalCount,
		Errors:   r.errorCount,
		Warnings: r.warningCount,
		Info:     r.infoCount,
		Hints:    r.hintCount,
	}
}

// Issues returns an iterator over all issues without copying.
//
// The yielded issues must not be mutated. Use [Result.IssuesSlice] if
// you need a mutable slice.
func (r Result) Issues() iter.Seq[Issue] {
	return func(yield func(Issue) bool) {
		for _, issue := range r.issues {
			if !yield(issue) {
				return
			}
		}
	}
}

// IssuesSlice returns a deep copy of all issues.
//
// Prefer [Result.Issues] for read-only iteration to avoid allocation.
func (r Result) IssuesSlice() []Issue {
	if len(r.issues) == 0 {
		return nil
	}
	result := make([]Issue, len(r.issues))
	for i, issue := range r.issues {
		result[i] = issue.Clone()
	}
	return result
}

// Errors returns an iterator over Fatal and Error issues.
func (r Result) Errors() iter.Seq[Issue] {
	return func(yield func(Issue) bool) {
		for _, issue := range r.issues {
			if issue.Severity().IsFailure() {
				if !yield(issue) {
					return
				}
			}
		}
	}
}

// ErrorsSlice returns only Fatal and Error issues (deep copy).
func (r Result) ErrorsSlice() []Issue {
	if r.fatalCount+r.errorCount == 0 {
		return nil
	}
	result := make([]Issue, 0, r.fatalCount+r.errorCount)
	for _, issue := range r.issues {
		if issue.Severity().IsFailure() {
			result = append(result, issue.Clone())
		}
	}
	return result
}

// BySeverity returns an iterator over issues at exactly the given severity.
func (r Result) BySeverity(severity Severity) iter.Seq[Issue] {
	return func(yield func(Issue) bool) {
		for _, issue := range r.issues {
			if issue.Severity() == severity {
				if !yield(issue) {
					return
				}
			}
		}
	}
}

// Messages returns message strings from Fatal and Error issues.
//
// This is a convenience helper, not a collection accessor; no iterator
// variant.
func (r Result) Messages() []string {
	if r.fatalCount+r.errorCount == 0 {
		return nil
	}
	result := make([]string, 0, r.fatalCount+r.errorCount)
	for _, issue := range r.issues {
		if issue.Severity().IsFailure() {
			result = append(result, issue.Message())
		}
	}
	return result
}

// String returns a minimal multi-line representation suitable for quick
// debugging.
//
// String returns "OK" when OK() is true (no Fatal/Error issues),
// regardless of warnings or hints. Each error/fatal issue is printed on
// its own line (message only). Use [Result.SeverityCounts] for the full
// severity breakdown.
func (r Result) String() string {
	if r.OK() {
		return "OK"
	}

	var sb strings.Builder
	counts := r.SeverityCounts()

	fmt.Fprintf(&sb, "%d error(s)", counts.Fatal+counts.Errors)
	if counts.Warnings > 0 {
		fmt.Fprintf(&sb, ", %d warning(s)", counts.Warnings)
	}
	if r.limitReached {
		fmt.Fprintf(&sb, " [limit reached, %d dropped]", r.droppedCount)
	}
	sb.WriteString("\n")

	for _, issue := range r.issues {
		if issue.Severity().IsFailure() {
			fmt.Fprintf(&sb, "  %s: %s\n", issue.Code(), issue.Message())
		}
	}

	return sb.String()
}

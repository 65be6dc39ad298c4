package diag

import (
	"encoding/json"
)

// issueJSON is the wire representation of an Issue.
//
// Field order and names are part of the wire format stability guarantee.
// Optional fields are omitted when absent.
type issueJSON struct {
	Severity string            `json:"severity"`
	Code     string            `json:"code"`
	Message  string            `json:"message"`
	Hint     string            `json:"hint,omitempty"`
	Vertex   *uint64           `json:"vertex,omitempty"`
	Position *int              `json:"position,omitempty"`
	Details  map[string]string `json:"details,omitempty"`
}

// resultJSON is the wire representation of a Result.
type resultJSON struct {
	OK           bool        `json:"ok"`
	Issues       []issueJSON `json:"issues"`
	LimitReached bool        `json:"limit_reached,omitempty"`
	DroppedCount int         `json:"dropped_count,omitempty"`
}

// toWire converts an Issue to its wire form.
func toWire(i Issue) issueJSON {
	w := issueJSON{
		Severity: i.Severity().String(),
		Code:     i.Code().String(),
		Message:  i.Message(),
		Hint:     i.Hint(),
	}
	if v, ok := i.Vertex(); ok {
		w.Vertex = &v
	}
	if p, ok := i.Position(); ok {
		w.Position = &p
	}
	if details := i.Details(); len(details) > 0 {
		w.Details = make(map[string]string, len(details))
		for _, d := range details {
			w.Details[d.Key] = d.Value
		}
	}
	return w
}

// FormatIssueJSON renders a single issue as a JSON object.
//
// The output is stable: severity labels and code strings follow the
// package's wire format guarantee.
func FormatIssueJSON(issue Issue) ([]byte, error) {
	return json.Marshal(toWire(issue))
}

// FormatResultJSON renders a result as a JSON object with an "issues"
// array in the result's deterministic order.
//
// An empty result renders with "issues": [] rather than null so
// consumers can index unconditionally.
func FormatResultJSON(result Result) ([]byte, error) {
	issues := make([]issueJSON, 0, result.Len())
	for issue := range result.Issues() {
		issues = append(issues, toWire(issue))
	}
	return json.Marshal(resultJSON{
		OK:           result.OK(),
		Issues:       issues,
		LimitReached: result.LimitReached(),
		DroppedCount: result.DroppedCount(),
	})
}

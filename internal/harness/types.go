package harness

import "github.com/roach88/staticmodel/internal/value"

// TraceEvent records what one step did. It is the unit of golden
// comparison, so every field is deterministic.
type TraceEvent struct {
	Step int    `json:"step"`
	Op   string `json:"op"`
	Type string `json:"type"`

	// Args renders the step input: conditions, key or attribute.
	Args string `json:"args,omitempty"`

	// Count is the number of records, values or index entries returned.
	Count int `json:"count"`

	Keys   []value.Value          `json:"keys,omitempty"`
	Values []value.Value          `json:"values,omitempty"`
	Index  map[string]value.Value `json:"index,omitempty"`

	// Error is the error kind and Message its text, when the step failed.
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`

	// missing holds the keys reported by a not_found error.
	missing []value.Value
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true if every step met its expectation.
	Pass bool `json:"pass"`

	// Trace has one event per step, in order.
	Trace []TraceEvent `json:"trace"`

	// Errors contains expectation failures. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddTrace appends a step event.
func (r *Result) AddTrace(ev TraceEvent) {
	r.Trace = append(r.Trace, ev)
}

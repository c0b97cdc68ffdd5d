package harness

import (
	"fmt"
	"slices"

	"github.com/roach88/staticmodel/internal/value"
)

// checkStep compares a step's trace event against its expectation and
// returns one message per mismatch.
func checkStep(index int, step Step, ev TraceEvent) []string {
	prefix := fmt.Sprintf("steps[%d] %s %s", index, step.Op, step.Type)
	want := step.Expect

	if ev.Error == errorUnknownType {
		return []string{fmt.Sprintf("%s: %s", prefix, ev.Message)}
	}
	if want.Error != ev.Error {
		switch {
		case want.Error == "":
			return []string{fmt.Sprintf("%s: unexpected error: %s", prefix, ev.Message)}
		case ev.Error == "":
			return []string{fmt.Sprintf("%s: expected %s error, got none", prefix, want.Error)}
		default:
			return []string{fmt.Sprintf("%s: expected %s error, got %s: %s", prefix, want.Error, ev.Error, ev.Message)}
		}
	}

	var errs []string
	add := func(msg string) {
		if msg != "" {
			errs = append(errs, fmt.Sprintf("%s: %s", prefix, msg))
		}
	}

	if want.Missing != nil {
		add(compareValues("missing keys", want.Missing, ev.missing))
	}
	if want.Keys != nil {
		add(compareValues("keys", want.Keys, ev.Keys))
	}
	if want.Values != nil {
		add(compareValues("values", want.Values, ev.Values))
	}
	if want.Index != nil {
		add(compareIndex(want.Index, ev.Index))
	}
	if want.Count != nil && *want.Count != ev.Count {
		add(fmt.Sprintf("expected count %d, got %d", *want.Count, ev.Count))
	}
	return errs
}

// compareValues checks got against want element by element with strict
// equality: an expected "1" does not accept an integer 1.
func compareValues(label string, want []any, got []value.Value) string {
	expected, err := value.Of(want)
	if err != nil {
		return fmt.Sprintf("expected %s: %v", label, err)
	}
	list := expected.(value.List)
	if !slices.EqualFunc(list, got, value.Equal) {
		return fmt.Sprintf("expected %s [%s], got [%s]", label, list, value.List(got))
	}
	return ""
}

func compareIndex(want map[string]any, got map[string]value.Value) string {
	expected, err := value.ObjectOf(want)
	if err != nil {
		return fmt.Sprintf("expected index: %v", err)
	}
	same := len(expected) == len(got)
	for k, v := range expected {
		if g, ok := got[k]; !ok || !value.Equal(v, g) {
			same = false
			break
		}
	}
	if !same {
		return fmt.Sprintf("expected index %s, got %s", value.CanonicalObject(expected), value.CanonicalObject(got))
	}
	return ""
}

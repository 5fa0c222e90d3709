package harness

import (
	"fmt"
	"strings"
)

// AssertionError reports one failed trace assertion with enough
// context to debug it without re-running the scenario.
type AssertionError struct {
	Type     string
	Expected string
	Actual   string
	Trace    []TraceEvent
}

func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  actual: %s\n", e.Actual)
	buf.WriteString("\ntrace calls:\n")
	for _, event := range e.Trace {
		if event.Type == EventCall {
			fmt.Fprintf(&buf, "  [%d] %s %s %v\n", event.Seq, event.Op, event.Target, event.Args)
		}
	}
	return buf.String()
}

// EvaluateAssertion checks one assertion against a completed trace.
// Assertions inspect call events only; completions are covered by
// golden comparison.
func EvaluateAssertion(trace []TraceEvent, a Assertion) error {
	switch a.Type {
	case AssertTraceContains:
		return assertTraceContains(trace, a)
	case AssertTraceOrder:
		return assertTraceOrder(trace, a)
	case AssertTraceCount:
		return assertTraceCount(trace, a)
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
}

// matches reports whether a call event matches the assertion's op and
// optional target filter.
func matches(event TraceEvent, op, target string) bool {
	if event.Type != EventCall || event.Op != op {
		return false
	}
	return target == "" || event.Target == target
}

func assertTraceContains(trace []TraceEvent, a Assertion) error {
	for _, event := range trace {
		if matches(event, a.Op, a.Target) {
			return nil
		}
	}
	return &AssertionError{
		Type:     AssertTraceContains,
		Expected: describeOp(a.Op, a.Target),
		Actual:   "not found in trace",
		Trace:    trace,
	}
}

// assertTraceOrder verifies the ops appear in the given order among
// call events. Intervening calls are allowed; each op is matched at
// its first occurrence after the previous match.
func assertTraceOrder(trace []TraceEvent, a Assertion) error {
	next := 0
	for _, event := range trace {
		if next < len(a.Ops) && event.Type == EventCall && event.Op == a.Ops[next] {
			next++
		}
	}
	if next < len(a.Ops) {
		return &AssertionError{
			Type:     AssertTraceOrder,
			Expected: fmt.Sprintf("calls in order %v", a.Ops),
			Actual:   fmt.Sprintf("order broken at %q (%d of %d matched)", a.Ops[next], next, len(a.Ops)),
			Trace:    trace,
		}
	}
	return nil
}

func assertTraceCount(trace []TraceEvent, a Assertion) error {
	count := 0
	for _, event := range trace {
		if matches(event, a.Op, a.Target) {
			count++
		}
	}
	if count != a.Count {
		return &AssertionError{
			Type:     AssertTraceCount,
			Expected: fmt.Sprintf("%d calls of %s", a.Count, describeOp(a.Op, a.Target)),
			Actual:   fmt.Sprintf("%d calls", count),
			Trace:    trace,
		}
	}
	return nil
}

func describeOp(op, target string) string {
	if target == "" {
		return op
	}
	return fmt.Sprintf("%s targeting %q", op, target)
}

package harness

import (
	"fmt"
	"strings"
)

// AssertionError is returned when an assertion fails.
// It includes the trace to help debug the failure.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Trace    []TraceEvent // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nFull trace:\n")
		for i, event := range e.Trace {
			fmt.Fprintf(&buf, "  [%d] %s %s\n", i+1, event.Message, event.RequestID)
		}
	}
	return buf.String()
}

// EvaluateAssertions checks every assertion and returns failure messages.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var errs []string
	for i, a := range assertions {
		if err := evaluate(result, a); err != nil {
			errs = append(errs, fmt.Sprintf("assertion %d: %v", i, err))
		}
	}
	return errs
}

func evaluate(r *Result, a Assertion) error {
	switch a.Type {
	case AssertTitle:
		s, err := storyAt(r, a)
		if err != nil {
			return err
		}
		return expectString(a.Type, a.Value, s.Title, r.Trace)

	case AssertFileNameContains:
		s, err := storyAt(r, a)
		if err != nil {
			return err
		}
		if !strings.Contains(s.Name, a.Value) {
			return &AssertionError{Type: a.Type, Expected: fmt.Sprintf("name containing %q", a.Value), Actual: s.Name}
		}
		if !s.LinkOK {
			return &AssertionError{Type: a.Type, Expected: "genre link to " + s.Name, Actual: "missing or different"}
		}
		return nil

	case AssertThemaHeaders:
		s, err := storyAt(r, a)
		if err != nil {
			return err
		}
		return expectCount(a.Type, a.Count, strings.Count(DiceTable(s.Content), "*Thema*"))

	case AssertTokensOnce:
		s, err := storyAt(r, a)
		if err != nil {
			return err
		}
		return assertTokensOnce(s)

	case AssertRequestCount:
		return expectCount(a.Type, a.Count, int(r.Requests))

	case AssertAnsweredCount:
		return expectCount(a.Type, a.Count, int(r.Answered))

	case AssertStoryCount:
		return expectCount(a.Type, a.Count, len(r.Stories))

	case AssertErrorContains:
		if r.Err == nil {
			return &AssertionError{Type: a.Type, Expected: fmt.Sprintf("error containing %q", a.Value), Actual: "no error", Trace: r.Trace}
		}
		if !strings.Contains(r.Err.Error(), a.Value) {
			return &AssertionError{Type: a.Type, Expected: fmt.Sprintf("error containing %q", a.Value), Actual: r.Err.Error()}
		}
		return nil

	case AssertNoError:
		if r.Err != nil {
			return &AssertionError{Type: a.Type, Expected: "no error", Actual: r.Err.Error(), Trace: r.Trace}
		}
		return nil

	case AssertTraceOrder:
		return assertTraceOrder(r.Trace, a.Actions)

	case AssertTraceCount:
		n := 0
		for _, ev := range r.Trace {
			if ev.Message == a.Action {
				n++
			}
		}
		return expectCount(fmt.Sprintf("%s(%s)", a.Type, a.Action), a.Count, n)
	}
	return fmt.Errorf("unknown assertion type %q", a.Type)
}

func storyAt(r *Result, a Assertion) (StoryResult, error) {
	if a.Story >= len(r.Stories) {
		return StoryResult{}, &AssertionError{
			Type:     a.Type,
			Expected: fmt.Sprintf("story %d", a.Story),
			Actual:   fmt.Sprintf("%d stories completed", len(r.Stories)),
			Trace:    r.Trace,
		}
	}
	return r.Stories[a.Story], nil
}

func expectString(typ, want, got string, trace []TraceEvent) error {
	if want != got {
		return &AssertionError{Type: typ, Expected: fmt.Sprintf("%q", want), Actual: fmt.Sprintf("%q", got), Trace: trace}
	}
	return nil
}

func expectCount(typ string, want, got int) error {
	if want != got {
		return &AssertionError{Type: typ, Expected: fmt.Sprintf("%d", want), Actual: fmt.Sprintf("%d", got)}
	}
	return nil
}

// assertTokensOnce checks that every drawn token appears exactly once as an
// image in the dice table.
func assertTokensOnce(s StoryResult) error {
	table := DiceTable(s.Content)
	for _, d := range s.Draws {
		if n := strings.Count(table, "!["+d.Token+"]("); n != 1 {
			return &AssertionError{
				Type:     AssertTokensOnce,
				Expected: fmt.Sprintf("token %q once", d.Token),
				Actual:   fmt.Sprintf("%d times", n),
			}
		}
	}
	return nil
}

// assertTraceOrder checks that the messages appear in order.
// They need not be consecutive.
func assertTraceOrder(trace []TraceEvent, actions []string) error {
	next := 0
	for _, ev := range trace {
		if next < len(actions) && ev.Message == actions[next] {
			next++
		}
	}
	if next < len(actions) {
		return &AssertionError{
			Type:     AssertTraceOrder,
			Expected: strings.Join(actions, " -> "),
			Actual:   fmt.Sprintf("%q not found after %v", actions[next], actions[:next]),
			Trace:    trace,
		}
	}
	return nil
}

// DiceTable returns the "## Würfel" section of a document.
func DiceTable(content string) string {
	start := strings.Index(content, "## Würfel")
	if start < 0 {
		return ""
	}
	rest := content[start:]
	if end := strings.Index(rest, "## Anfrage an Ollama"); end >= 0 {
		rest = rest[:end]
	}
	return rest
}

package harness

// Trace event type constants. Every step contributes one call event
// when it starts and one completion event when it settles, so a trace
// always has even length and calls and completions alternate.
const (
	EventCall       = "call"
	EventCompletion = "completion"
)

// OutcomeOK marks a completion whose operation succeeded. Failed
// completions carry the operation's error code instead.
const OutcomeOK = "ok"

// TraceEvent is one entry in a scenario's execution trace. Field
// values are restricted to strings, integers, booleans, and nestings
// of those, so the trace always has a canonical JSON form.
type TraceEvent struct {
	// Seq is the 1-based position in the trace.
	Seq int64 `json:"seq"`

	// Type is EventCall or EventCompletion.
	Type string `json:"type"`

	// Op is the step kind name, present on both the call and its
	// completion.
	Op string `json:"op,omitempty"`

	// Target is the menu item id, ipc channel, or probe name the
	// operation addressed.
	Target string `json:"target,omitempty"`

	// Window is the 1-based window a renderer operation ran in.
	Window int `json:"window,omitempty"`

	// Args are the operation arguments, call events only.
	Args []any `json:"args,omitempty"`

	// Outcome is OutcomeOK or an error code, completion events only.
	Outcome string `json:"outcome,omitempty"`

	// Value is the operation's result, completion events only.
	Value any `json:"value,omitempty"`
}

// Result is the outcome of one scenario execution.
type Result struct {
	// Passed is true when every step and assertion succeeded.
	Passed bool `json:"passed"`

	// SessionToken identifies the execution, fixed by the scenario or
	// generated by the runner.
	SessionToken string `json:"session_token"`

	// Trace holds every call and completion in order.
	Trace []TraceEvent `json:"trace"`

	// Errors lists step failures and assertion failures. Empty when
	// Passed is true.
	Errors []string `json:"errors,omitempty"`
}

func newResult(sessionToken string) *Result {
	return &Result{Passed: true, SessionToken: sessionToken, Trace: []TraceEvent{}}
}

func (r *Result) addError(msg string) {
	r.Passed = false
	r.Errors = append(r.Errors, msg)
}

func (r *Result) nextSeq() int64 {
	return int64(len(r.Trace)) + 1
}

// eventMap flattens a TraceEvent for canonical serialization, dropping
// zero-valued optional fields the same way the JSON tags do.
func eventMap(e TraceEvent) map[string]any {
	m := map[string]any{
		"seq":  e.Seq,
		"type": e.Type,
	}
	if e.Op != "" {
		m["op"] = e.Op
	}
	if e.Target != "" {
		m["target"] = e.Target
	}
	if e.Window != 0 {
		m["window"] = e.Window
	}
	if e.Args != nil {
		m["args"] = e.Args
	}
	if e.Outcome != "" {
		m["outcome"] = e.Outcome
	}
	if e.Value != nil {
		m["value"] = e.Value
	}
	return m
}

// CanonicalEvent serializes one trace event as canonical JSON. The
// session store uses this form for content-addressed event identity.
func CanonicalEvent(e TraceEvent) ([]byte, error) {
	return MarshalCanonical(eventMap(e))
}

// CanonicalTrace serializes a whole result, including its trace, as
// canonical JSON. Two runs of a deterministic scenario produce
// byte-identical output.
func CanonicalTrace(scenarioName string, r *Result) ([]byte, error) {
	events := make([]any, len(r.Trace))
	for i, e := range r.Trace {
		events[i] = eventMap(e)
	}
	doc := map[string]any{
		"scenario":      scenarioName,
		"session_token": r.SessionToken,
		"passed":        r.Passed,
		"trace":         events,
	}
	if len(r.Errors) > 0 {
		errs := make([]any, len(r.Errors))
		for i, msg := range r.Errors {
			errs[i] = msg
		}
		doc["errors"] = errs
	}
	return MarshalCanonical(doc)
}

package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario is one executable test case loaded from a YAML file.
type Scenario struct {
	// Name identifies the scenario. Used as the golden file name and
	// recorded with the stored session.
	Name string `yaml:"name" json:"name"`

	// Description is free-form documentation. Not interpreted.
	Description string `yaml:"description,omitempty" json:"description,omitempty"`

	// SessionToken fixes the session identity for trace storage.
	// When empty the runner generates one.
	SessionToken string `yaml:"session_token,omitempty" json:"session_token,omitempty"`

	// Launch tells the runner what to start.
	Launch Launch `yaml:"launch" json:"launch"`

	// Steps execute in order against the launched application.
	Steps []Step `yaml:"steps" json:"steps"`

	// Assertions are evaluated against the completed trace.
	Assertions []Assertion `yaml:"assertions,omitempty" json:"assertions,omitempty"`
}

// Launch selects the application under test. Exactly one of
// Executable, BuildDir, or BuildRoot must be set: Executable skips
// bundle introspection entirely, BuildDir introspects one packager
// output directory, and BuildRoot picks the most recent build under an
// output root first.
type Launch struct {
	Executable string   `yaml:"executable,omitempty" json:"executable,omitempty"`
	BuildDir   string   `yaml:"build_dir,omitempty" json:"build_dir,omitempty"`
	BuildRoot  string   `yaml:"build_root,omitempty" json:"build_root,omitempty"`
	Args       []string `yaml:"args,omitempty" json:"args,omitempty"`

	// DirectIPC launches windows with the relaxed-isolation test
	// configuration so renderer ipc steps work.
	DirectIPC bool `yaml:"direct_ipc,omitempty" json:"direct_ipc,omitempty"`
}

// Step is a tagged union: exactly one field group is set per step,
// named by the YAML key. Kind reports which one.
type Step struct {
	// ClickMenu activates the menu item with this id.
	ClickMenu string `yaml:"click_menu,omitempty" json:"click_menu,omitempty"`

	// MenuAttribute reads a menu item attribute into the trace.
	MenuAttribute *MenuAttributeStep `yaml:"menu_attribute,omitempty" json:"menu_attribute,omitempty"`

	// IPCSend emits a fire-and-forget message from a renderer.
	IPCSend *IPCStep `yaml:"ipc_send,omitempty" json:"ipc_send,omitempty"`

	// IPCInvoke sends a renderer request and records the reply.
	IPCInvoke *IPCStep `yaml:"ipc_invoke,omitempty" json:"ipc_invoke,omitempty"`

	// IPCEmit synthesizes receipt of a message in the main process.
	IPCEmit *IPCStep `yaml:"ipc_emit,omitempty" json:"ipc_emit,omitempty"`

	// IPCInvokeMain invokes the first main-process listener directly.
	IPCInvokeMain *IPCStep `yaml:"ipc_invoke_main,omitempty" json:"ipc_invoke_main,omitempty"`

	// WaitFor polls the named main-process probe until it holds.
	WaitFor string `yaml:"wait_for,omitempty" json:"wait_for,omitempty"`

	// WaitWindow blocks until a window the harness has not yet
	// observed opens.
	WaitWindow bool `yaml:"wait_window,omitempty" json:"wait_window,omitempty"`

	// ExpectTitle checks a window title against an exact value.
	ExpectTitle *TitleExpectation `yaml:"expect_title,omitempty" json:"expect_title,omitempty"`

	// ExpectWindowCount checks the number of open windows.
	ExpectWindowCount *int `yaml:"expect_window_count,omitempty" json:"expect_window_count,omitempty"`
}

// MenuAttributeStep reads one attribute of a menu item.
type MenuAttributeStep struct {
	ID        string `yaml:"id" json:"id"`
	Attribute string `yaml:"attribute" json:"attribute"`
}

// IPCStep carries an ipc channel, optional arguments, and for
// renderer-side steps the 1-based window to run in (0 means window 1).
type IPCStep struct {
	Window  int    `yaml:"window,omitempty" json:"window,omitempty"`
	Channel string `yaml:"channel" json:"channel"`
	Args    []any  `yaml:"args,omitempty" json:"args,omitempty"`
}

// TitleExpectation names a 1-based window and its expected exact title.
type TitleExpectation struct {
	Window int    `yaml:"window,omitempty" json:"window,omitempty"`
	Equals string `yaml:"equals" json:"equals"`
}

// Step kind names, shared by Kind, the CUE schema, and trace events.
const (
	StepClickMenu         = "click_menu"
	StepMenuAttribute     = "menu_attribute"
	StepIPCSend           = "ipc_send"
	StepIPCInvoke         = "ipc_invoke"
	StepIPCEmit           = "ipc_emit"
	StepIPCInvokeMain     = "ipc_invoke_main"
	StepWaitFor           = "wait_for"
	StepWaitWindow        = "wait_window"
	StepExpectTitle       = "expect_title"
	StepExpectWindowCount = "expect_window_count"
)

// Kind returns the step's kind name, or an error when zero or more
// than one field group is set.
func (s Step) Kind() (string, error) {
	var kinds []string
	if s.ClickMenu != "" {
		kinds = append(kinds, StepClickMenu)
	}
	if s.MenuAttribute != nil {
		kinds = append(kinds, StepMenuAttribute)
	}
	if s.IPCSend != nil {
		kinds = append(kinds, StepIPCSend)
	}
	if s.IPCInvoke != nil {
		kinds = append(kinds, StepIPCInvoke)
	}
	if s.IPCEmit != nil {
		kinds = append(kinds, StepIPCEmit)
	}
	if s.IPCInvokeMain != nil {
		kinds = append(kinds, StepIPCInvokeMain)
	}
	if s.WaitFor != "" {
		kinds = append(kinds, StepWaitFor)
	}
	if s.WaitWindow {
		kinds = append(kinds, StepWaitWindow)
	}
	if s.ExpectTitle != nil {
		kinds = append(kinds, StepExpectTitle)
	}
	if s.ExpectWindowCount != nil {
		kinds = append(kinds, StepExpectWindowCount)
	}
	switch len(kinds) {
	case 0:
		return "", fmt.Errorf("step sets no operation")
	case 1:
		return kinds[0], nil
	default:
		return "", fmt.Errorf("step sets %d operations (%v), want exactly one", len(kinds), kinds)
	}
}

// Assertion is one post-run check against the trace.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type" json:"type"`

	// Op is the operation name (used by trace_contains, trace_count).
	Op string `yaml:"op,omitempty" json:"op,omitempty"`

	// Target is the expected operation target: a menu item id, ipc
	// channel, or probe name. Empty matches any target.
	Target string `yaml:"target,omitempty" json:"target,omitempty"`

	// Count is the expected number of matches (used by trace_count).
	Count int `yaml:"count,omitempty" json:"count,omitempty"`

	// Ops is the expected operation order (used by trace_order).
	// Intervening operations are allowed.
	Ops []string `yaml:"ops,omitempty" json:"ops,omitempty"`
}

// Assertion type constants.
const (
	AssertTraceContains = "trace_contains"
	AssertTraceOrder    = "trace_order"
	AssertTraceCount    = "trace_count"
)

// LoadScenario reads, parses, and validates a scenario YAML file.
// Unknown fields are rejected so typos surface as load errors, and
// the decoded document is checked against the embedded CUE schema
// before any structural validation of step unions.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses and validates scenario YAML from memory.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("parse scenario YAML: %w", err)
	}
	if err := ValidateScenario(&scenario); err != nil {
		return nil, err
	}
	return &scenario, nil
}

// ValidateScenario checks a decoded scenario against the embedded
// schema and the structural rules the schema cannot express.
func ValidateScenario(s *Scenario) error {
	if err := validateAgainstSchema(s); err != nil {
		return err
	}
	launchModes := 0
	for _, set := range []bool{s.Launch.Executable != "", s.Launch.BuildDir != "", s.Launch.BuildRoot != ""} {
		if set {
			launchModes++
		}
	}
	if launchModes != 1 {
		return fmt.Errorf("invalid scenario %q: launch must set exactly one of executable, build_dir, build_root", s.Name)
	}
	for i, step := range s.Steps {
		if _, err := step.Kind(); err != nil {
			return fmt.Errorf("invalid scenario %q: step %d: %w", s.Name, i+1, err)
		}
	}
	for i, a := range s.Assertions {
		if err := validateAssertion(a); err != nil {
			return fmt.Errorf("invalid scenario %q: assertion %d: %w", s.Name, i+1, err)
		}
	}
	return nil
}

func validateAssertion(a Assertion) error {
	switch a.Type {
	case AssertTraceContains:
		if a.Op == "" {
			return fmt.Errorf("trace_contains requires op")
		}
	case AssertTraceOrder:
		if len(a.Ops) < 2 {
			return fmt.Errorf("trace_order requires at least two ops")
		}
	case AssertTraceCount:
		if a.Op == "" {
			return fmt.Errorf("trace_count requires op")
		}
		if a.Count < 0 {
			return fmt.Errorf("trace_count requires count >= 0")
		}
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
	return nil
}

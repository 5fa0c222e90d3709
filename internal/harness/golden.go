package harness

import (
	"context"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// AssertGolden compares a result's canonical trace against the golden
// file testdata/golden/<name>.golden. Regenerate with go test -update.
func AssertGolden(t *testing.T, name string, result *Result) {
	t.Helper()

	data, err := CanonicalTrace(name, result)
	if err != nil {
		t.Fatalf("canonical trace for %s: %v", name, err)
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"))
	g.Assert(t, name, data)
}

// RunWithGolden executes a scenario and compares its trace against the
// scenario's golden file. Structural failures fail the test
// immediately; trace differences fail through goldie's diff output.
func RunWithGolden(t *testing.T, r *Runner, scenario *Scenario) *Result {
	t.Helper()

	result, err := r.Run(context.Background(), scenario)
	if err != nil {
		t.Fatalf("run scenario %s: %v", scenario.Name, err)
	}
	AssertGolden(t, scenario.Name, result)
	return result
}

package harness

import (
	_ "embed"
	"fmt"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
)

//go:embed schema.cue
var schemaSource string

var (
	schemaOnce  sync.Once
	schemaValue cue.Value
	schemaErr   error
)

// scenarioSchema compiles the embedded schema once and returns the
// #Scenario definition.
func scenarioSchema() (cue.Value, error) {
	schemaOnce.Do(func() {
		ctx := cuecontext.New()
		compiled := ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
		if err := compiled.Err(); err != nil {
			schemaErr = fmt.Errorf("compile scenario schema: %w", err)
			return
		}
		schemaValue = compiled.LookupPath(cue.ParsePath("#Scenario"))
		if err := schemaValue.Err(); err != nil {
			schemaErr = fmt.Errorf("lookup #Scenario: %w", err)
		}
	})
	return schemaValue, schemaErr
}

// validateAgainstSchema unifies the decoded scenario with the embedded
// schema and reports all constraint violations.
func validateAgainstSchema(s *Scenario) error {
	schema, err := scenarioSchema()
	if err != nil {
		return err
	}
	doc := schema.Context().Encode(s)
	if err := doc.Err(); err != nil {
		return fmt.Errorf("encode scenario for validation: %w", err)
	}
	unified := schema.Unify(doc)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		var msgs []string
		for _, e := range errors.Errors(err) {
			msgs = append(msgs, e.Error())
		}
		return fmt.Errorf("invalid scenario %q: %s", s.Name, joinLines(msgs))
	}
	return nil
}

func joinLines(msgs []string) string {
	if len(msgs) == 1 {
		return msgs[0]
	}
	out := ""
	for _, m := range msgs {
		out += "\n  " + m
	}
	return out
}

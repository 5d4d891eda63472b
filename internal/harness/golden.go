package harness

import (
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// Snapshot renders a scenario result as deterministic text for golden
// comparison. Queries appear sorted by label. Each query block carries
// its binding names so a golden diff shows parameter regressions, not
// just SQL text changes.
func Snapshot(result *Result) []byte {
	var b strings.Builder

	b.WriteString("-- scenario: " + result.Scenario + "\n")
	b.WriteString("-- dialect: " + result.Dialect + "\n")

	for _, gen := range result.Queries {
		b.WriteString("\n-- query: " + gen.Name + "\n")
		if gen.Err != "" {
			b.WriteString("-- error: " + gen.Err + "\n")
			continue
		}
		if len(gen.Params) > 0 {
			b.WriteString("-- params: @" + strings.Join(gen.Params, ", @") + "\n")
		}
		b.WriteString(gen.SQL + "\n")
	}

	return []byte(b.String())
}

// RunWithGolden executes a scenario and compares its snapshot against a
// golden file at testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Expectation mismatches fail the test; infrastructure problems
// (unreadable files, malformed CUE, unknown dialect) are returned.
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return err
	}
	for _, failure := range result.Failures {
		t.Errorf("expectation failed: %s", failure)
	}

	AssertGolden(t, scenario.Name, result)
	return nil
}

// AssertGolden compares an already-produced result against a golden
// file without re-running the scenario.
func AssertGolden(t *testing.T, scenarioName string, result *Result) {
	t.Helper()

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, Snapshot(result))
}

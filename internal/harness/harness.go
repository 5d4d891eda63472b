package harness

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	"github.com/roach88/sqlgen/internal/compiler"
	"github.com/roach88/sqlgen/internal/queryir"
	"github.com/roach88/sqlgen/internal/querysql"
)

// GeneratedQuery is one statement's generation outcome.
type GeneratedQuery struct {
	Name   string
	SQL    string
	Params []string // binding names in first-use order
	Err    string   // non-empty when generation failed
}

// Result holds everything a scenario run produced.
type Result struct {
	Scenario string
	Dialect  string
	Queries  []GeneratedQuery
	Failures []string // expectation mismatches, empty on success
}

// Run executes a scenario: compiles every query file, generates SQL for
// each statement with the scenario's dialect, and checks the expect
// clauses. Infrastructure problems (unreadable files, malformed CUE,
// unknown dialect) return an error; expectation mismatches land in
// Result.Failures.
func Run(scenario *Scenario) (*Result, error) {
	dialectName := scenario.Dialect
	if dialectName == "" {
		dialectName = "standard"
	}
	newDialect, ok := querysql.Dialects[dialectName]
	if !ok {
		return nil, fmt.Errorf("unknown dialect %q", dialectName)
	}
	dialect := newDialect()

	statements, err := loadStatements(scenario.Queries)
	if err != nil {
		return nil, err
	}

	result := &Result{Scenario: scenario.Name, Dialect: dialectName}
	for _, named := range statements {
		gen := GeneratedQuery{Name: named.name}
		cmd, genErr := querysql.Generate(dialect, named.stmt)
		if genErr != nil {
			gen.Err = genErr.Error()
		} else {
			gen.SQL = cmd.Text
			for _, p := range cmd.Params {
				gen.Params = append(gen.Params, p.Name)
			}
		}
		result.Queries = append(result.Queries, gen)
	}

	result.Failures = checkExpectations(scenario, result)
	return result, nil
}

type namedStatement struct {
	name string
	stmt queryir.Statement
}

// loadStatements compiles the scenario's CUE files and collects every
// statement under their "query" structs, sorted by label.
func loadStatements(paths []string) ([]namedStatement, error) {
	ctx := cuecontext.New()
	var statements []namedStatement

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read query file: %w", err)
		}
		value := ctx.CompileString(string(data), cue.Filename(path))
		if err := value.Err(); err != nil {
			return nil, fmt.Errorf("compiling %s: %w", path, err)
		}

		queriesVal := value.LookupPath(cue.ParsePath("query"))
		if !queriesVal.Exists() {
			return nil, fmt.Errorf("%s: no \"query\" struct found", path)
		}
		iter, err := queriesVal.Fields()
		if err != nil {
			return nil, fmt.Errorf("%s: iterating queries: %w", path, err)
		}
		for iter.Next() {
			stmt, compileErr := compiler.CompileStatement(iter.Value())
			if compileErr != nil {
				return nil, fmt.Errorf("%s: query %s: %w", path, iter.Label(), compileErr)
			}
			statements = append(statements, namedStatement{name: iter.Label(), stmt: stmt})
		}
	}

	sort.Slice(statements, func(i, j int) bool {
		return statements[i].name < statements[j].name
	})
	return statements, nil
}

// checkExpectations validates the expect clauses against the generation
// outcomes and returns a description of every mismatch.
func checkExpectations(scenario *Scenario, result *Result) []string {
	byName := make(map[string]*GeneratedQuery, len(result.Queries))
	for i := range result.Queries {
		byName[result.Queries[i].Name] = &result.Queries[i]
	}

	expected := make(map[string]bool, len(scenario.Expect))
	var failures []string

	for _, clause := range scenario.Expect {
		expected[clause.Query] = true
		gen, ok := byName[clause.Query]
		if !ok {
			failures = append(failures, fmt.Sprintf("expect %s: no such query in scenario", clause.Query))
			continue
		}

		if clause.Error != "" {
			if gen.Err == "" {
				failures = append(failures, fmt.Sprintf("%s: expected error containing %q, generation succeeded", clause.Query, clause.Error))
			} else if !strings.Contains(gen.Err, clause.Error) {
				failures = append(failures, fmt.Sprintf("%s: error %q does not contain %q", clause.Query, gen.Err, clause.Error))
			}
			continue
		}

		if gen.Err != "" {
			failures = append(failures, fmt.Sprintf("%s: unexpected generation error: %s", clause.Query, gen.Err))
			continue
		}
		if clause.Params != nil && !equalStrings(gen.Params, clause.Params) {
			failures = append(failures, fmt.Sprintf("%s: params %v, expected %v", clause.Query, gen.Params, clause.Params))
		}
	}

	// Queries without an expect clause still must generate cleanly.
	for i := range result.Queries {
		gen := &result.Queries[i]
		if !expected[gen.Name] && gen.Err != "" {
			failures = append(failures, fmt.Sprintf("%s: generation error: %s", gen.Name, gen.Err))
		}
	}

	return failures
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

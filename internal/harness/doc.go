// Package harness provides conformance testing for SQL generation.
//
// The harness loads query definitions from CUE files, generates SQL for
// every statement with a chosen dialect, and validates the output
// against expectations and golden snapshots.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	queries:
//	  - path/to/queries.cue
//	dialect: sqlite
//	expect:
//	  - query: listUsers
//	    params: [id, limit]
//	  - query: badUpdate
//	    error: "unsupported statement shape"
//
// Query paths are resolved relative to the scenario file. Queries
// without an expect clause only need to generate without error.
//
// # Golden Snapshots
//
// RunWithGolden renders the generated SQL and binding names as a text
// snapshot and compares it against testdata/golden/{name}.golden.
// Generation is deterministic, so identical inputs always produce
// byte-identical snapshots.
//
// # Usage
//
// Load and run a scenario:
//
//	scenario, err := harness.LoadScenario("testdata/scenarios/paging.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := harness.Run(scenario)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, failure := range result.Failures {
//	    log.Println(failure)
//	}
package harness

package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Scenario defines a generation conformance scenario.
// Scenarios compile a set of CUE query files, generate SQL for every
// statement, and validate the output against expectations and golden
// files.
type Scenario struct {
	// Name uniquely identifies this scenario. It also names the golden
	// file the snapshot is compared against.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Queries lists paths to CUE query files to compile.
	// Paths are relative to the scenario file location.
	Queries []string `yaml:"queries"`

	// Dialect selects the generation dialect ("standard", "sqlite").
	// Empty defaults to "standard".
	Dialect string `yaml:"dialect,omitempty"`

	// Expect holds optional per-query expectations. Queries without an
	// expect entry only need to generate without error.
	Expect []ExpectClause `yaml:"expect,omitempty"`
}

// ExpectClause specifies expected generation behavior for one query.
type ExpectClause struct {
	// Query is the statement label the clause applies to.
	Query string `yaml:"query"`

	// Params lists the expected binding names in first-use order.
	// If nil, bindings are not validated.
	Params []string `yaml:"params,omitempty"`

	// Error is a substring the generation error must contain. When set
	// the query is expected to fail.
	Error string `yaml:"error,omitempty"`
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Parse YAML with strict field validation (catches typos like "expects:" vs "expect:")
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	// Resolve query paths relative to the scenario file
	basePath := filepath.Dir(path)
	for i, queryPath := range scenario.Queries {
		if !filepath.IsAbs(queryPath) {
			scenario.Queries[i] = filepath.Join(basePath, queryPath)
		}
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if len(s.Queries) == 0 {
		return fmt.Errorf("queries list is required and must be non-empty")
	}

	// Validate query paths exist
	for _, queryPath := range s.Queries {
		if _, err := os.Stat(queryPath); os.IsNotExist(err) {
			return fmt.Errorf("query file not found: %s", queryPath)
		}
	}

	// Validate expect clauses
	for i, clause := range s.Expect {
		if clause.Query == "" {
			return fmt.Errorf("expect[%d]: query is required", i)
		}
		if clause.Error != "" && clause.Params != nil {
			return fmt.Errorf("expect[%d]: error and params are mutually exclusive", i)
		}
	}

	return nil
}

package querysql

import "github.com/roach88/sqlgen/internal/queryir"

// Command is the finished product of one generation call: literal SQL text
// plus the ordered parameter bindings it references.
//
// Commands are immutable once built. Generating twice from the same tree
// yields byte-identical text and an identical binding list.
type Command struct {
	// Text is the generated SQL.
	Text string

	// Params lists the parameter bindings in first-use order.
	Params []Param
}

// Param is one parameter binding of a Command.
type Param struct {
	// Name is the binding name the execution layer registers the value
	// under (after dialect-specific name mangling).
	Name string

	// Placeholder is the literal placeholder text embedded in the SQL.
	Placeholder string

	// Type is the store-type mapping the value binds with.
	Type queryir.TypeMapping

	// Nullable reports whether the bound value may be NULL.
	Nullable bool
}

package queryir

// Node is the root of the IR type hierarchy. Every statement, table-source,
// and expression node implements it, which lets the generator accept any
// subtree as an entry point.
//
// Sealed: only types in this package implement Node.
type Node interface {
	irNode() // Marker method - seals interface to this package
}

// Statement represents a top-level relational statement.
//
// Statement types:
//   - Select: projection over table sources with filtering, grouping,
//     ordering, and pagination
//   - Update: target table, set-clauses, and an embedded source Select
//   - Delete: target table and an embedded source Select
//
// Sealed: only types in this package implement Statement.
type Statement interface {
	Node
	statementNode() // Marker method - seals interface to this package
}

// Projection is one output column of a Select: an expression and the name
// it is exposed under. An empty Alias means the expression's natural name
// (for columns) or no name at all.
type Projection struct {
	Expr  Expr
	Alias string
}

// Ordering is one ORDER BY term. Ascending is the default direction;
// descending terms render with an explicit DESC.
type Ordering struct {
	Expr      Expr
	Ascending bool
}

// Select represents a SELECT statement or subquery.
//
// When Alias is non-empty the Select is being used as a table source
// (subquery) and the generator wraps its body in parentheses followed by
// "AS <alias>".
//
// The zero value of every optional field means "clause absent": nil Where,
// nil Having, nil Limit/Offset, empty slices. An empty Projection renders
// as the literal projection "1".
type Select struct {
	Alias      string
	Distinct   bool
	Projection []Projection
	Tables     []TableSource
	Where      Expr
	GroupBy    []Expr
	Having     Expr
	OrderBy    []Ordering
	Limit      Expr
	Offset     Expr

	// Tags are free-text annotations attached by the upstream compiler.
	// They surface as a leading comment block in the generated SQL.
	Tags []string
}

func (*Select) irNode()        {}
func (*Select) statementNode() {}

// Assignment is one SET clause of an Update: a bare column name on the
// target table and the value expression assigned to it.
type Assignment struct {
	Column string
	Value  Expr
}

// Update represents an UPDATE statement.
//
// Source describes the rows being updated: its Tables carry the target
// table (possibly joined to others) and its Where carries the filter.
// Source must have an empty projection and no grouping, ordering, or
// pagination; the generator validates this shape and rejects trees that
// cannot be expressed as a plain UPDATE.
type Update struct {
	Table  *BaseTable
	Set    []Assignment
	Source *Select
}

func (*Update) irNode()        {}
func (*Update) statementNode() {}

// Delete represents a DELETE statement.
//
// Source must reference exactly the target table and may carry a filter;
// any richer shape is rejected at generation time.
type Delete struct {
	Table  *BaseTable
	Source *Select
}

func (*Delete) irNode()        {}
func (*Delete) statementNode() {}

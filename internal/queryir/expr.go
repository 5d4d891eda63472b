package queryir

// Expr represents a scalar or boolean expression node.
//
// Sealed: only types in this package implement Expr. The generator's
// expression dispatch has one case per type below; JSONScalar is the one
// kind with no generic textual form and must be handled by a dialect
// override.
type Expr interface {
	Node
	exprNode() // Marker method - seals interface to this package
}

// Column references a column of an aliased table source.
type Column struct {
	// Table is the alias of the table source the column belongs to.
	Table string
	Name  string
	Type  TypeMapping
}

func (*Column) irNode()   {}
func (*Column) exprNode() {}

// Constant is a literal value carrying the mapping used to format it.
type Constant struct {
	Value any
	Type  TypeMapping
}

func (*Constant) irNode()   {}
func (*Constant) exprNode() {}

// Parameter is a named placeholder bound at execution time.
//
// Names need not be unique within a tree: the parameter registry renames
// repeated occurrences whose store type or converter differ.
type Parameter struct {
	Name     string
	Type     TypeMapping
	Nullable bool
}

func (*Parameter) irNode()   {}
func (*Parameter) exprNode() {}

// BinaryOp enumerates binary operators.
type BinaryOp int

const (
	OpEqual BinaryOp = iota
	OpNotEqual
	OpGreaterThan
	OpGreaterOrEqual
	OpLessThan
	OpLessOrEqual
	OpAnd
	OpOr
	OpAdd
	OpSubtract
	OpMultiply
	OpDivide
	OpModulo
	OpBitAnd
	OpBitOr
)

// Logical reports whether the operator is AND or OR.
func (op BinaryOp) Logical() bool {
	return op == OpAnd || op == OpOr
}

// Comparison reports whether the operator compares its operands.
func (op BinaryOp) Comparison() bool {
	return op >= OpEqual && op <= OpLessOrEqual
}

// Binary is an infix binary operation.
type Binary struct {
	Op    BinaryOp
	Left  Expr
	Right Expr
}

func (*Binary) irNode()   {}
func (*Binary) exprNode() {}

// And combines two predicates into a fresh conjunction node. Used by the
// UPDATE translator when lifting a join predicate into the WHERE clause;
// neither operand is modified.
func And(left, right Expr) *Binary {
	return &Binary{Op: OpAnd, Left: left, Right: right}
}

// UnaryOp enumerates unary operation kinds.
type UnaryOp int

const (
	OpNot UnaryOp = iota
	OpNegate
	OpConvert
	OpIsNull
	OpIsNotNull
)

// Unary is a unary operation. Target carries the destination mapping for
// OpConvert and is ignored for the other kinds.
//
// OpNot renders as logical NOT when the operand is boolean-typed and as
// bitwise complement otherwise.
type Unary struct {
	Op      UnaryOp
	Operand Expr
	Target  TypeMapping
}

func (*Unary) irNode()   {}
func (*Unary) exprNode() {}

// Function is a scalar function call.
//
// Built-in functions print their name verbatim; non-built-in functions are
// schema-qualified and identifier-quoted. Niladic functions omit the
// argument-list parentheses entirely. A non-nil Instance prints as a
// receiver: "<instance>.<name>(...)".
type Function struct {
	Schema   string
	Name     string
	BuiltIn  bool
	Niladic  bool
	Instance Expr
	Args     []Expr
	Type     TypeMapping
}

func (*Function) irNode()   {}
func (*Function) exprNode() {}

// WhenClause is one WHEN/THEN branch of a Case.
type WhenClause struct {
	When Expr
	Then Expr
}

// Case is a CASE expression, with or without an operand.
type Case struct {
	Operand Expr
	Whens   []WhenClause
	Else    Expr
}

func (*Case) irNode()   {}
func (*Case) exprNode() {}

// Like is a LIKE predicate with an optional ESCAPE clause.
type Like struct {
	Match   Expr
	Pattern Expr
	Escape  Expr
}

func (*Like) irNode()   {}
func (*Like) exprNode() {}

// Collate applies a collation to its operand.
type Collate struct {
	Operand   Expr
	Collation string
}

func (*Collate) irNode()   {}
func (*Collate) exprNode() {}

// Distinct wraps an operand in DISTINCT, typically inside an aggregate.
type Distinct struct {
	Operand Expr
}

func (*Distinct) irNode()   {}
func (*Distinct) exprNode() {}

// Exists tests a subquery for row existence.
type Exists struct {
	Subquery *Select
	Negated  bool
}

func (*Exists) irNode()   {}
func (*Exists) exprNode() {}

// In tests membership of Item in either a literal value list or a
// subquery. Exactly one of Values and Subquery is set.
type In struct {
	Item     Expr
	Values   []Expr
	Subquery *Select
	Negated  bool
}

func (*In) irNode()   {}
func (*In) exprNode() {}

// RowNumber is the ROW_NUMBER() window function. PARTITION BY is omitted
// when Partitions is empty; an empty Orderings list falls back to the
// constant ordering term.
type RowNumber struct {
	Partitions []Expr
	Orderings  []Ordering
}

func (*RowNumber) irNode()   {}
func (*RowNumber) exprNode() {}

// AtTimeZone converts a temporal operand to a target time zone.
type AtTimeZone struct {
	Operand Expr
	Zone    Expr
}

func (*AtTimeZone) irNode()   {}
func (*AtTimeZone) exprNode() {}

// Subquery is a scalar subquery yielding a single value.
type Subquery struct {
	Select *Select
}

func (*Subquery) irNode()   {}
func (*Subquery) exprNode() {}

// Fragment is literal SQL text spliced into the output as-is.
type Fragment struct {
	SQL string
}

func (*Fragment) irNode()   {}
func (*Fragment) exprNode() {}

// JSONScalar is a scalar access into a JSON document. It has no generic
// SQL form; dialects that support it must handle it themselves, and the
// base generator rejects it.
type JSONScalar struct {
	Target Expr
	Path   []string
	Type   TypeMapping
}

func (*JSONScalar) irNode()   {}
func (*JSONScalar) exprNode() {}

package queryir

// TableSource represents a table-producing node in a Select's FROM list.
//
// TableSource types:
//   - BaseTable: a named table (schema, name, alias)
//   - Join: a join over another table source
//   - SetOperation: UNION/INTERSECT/EXCEPT of two Selects
//   - TableFunction: a table-valued function call
//   - RawTable: literal SQL text with positional arguments
//
// Sealed: only types in this package implement TableSource.
type TableSource interface {
	Node
	tableSource() // Marker method - seals interface to this package

	// SourceAlias returns the alias the source is referenced by within
	// the enclosing Select. Aliases are assumed unique per table list;
	// uniqueness is established upstream and not re-checked here.
	SourceAlias() string
}

// BaseTable references a named table.
type BaseTable struct {
	Schema string
	Name   string
	Alias  string
}

func (*BaseTable) irNode()      {}
func (*BaseTable) tableSource() {}

// SourceAlias implements TableSource.
func (t *BaseTable) SourceAlias() string { return t.Alias }

// JoinKind enumerates the supported join flavors.
type JoinKind int

const (
	JoinInner JoinKind = iota
	JoinLeft
	JoinCross
	JoinCrossApply
	JoinOuterApply
)

// PredicateBearing reports whether the join kind carries an explicit
// ON-condition. Cross joins and the apply forms do not.
func (k JoinKind) PredicateBearing() bool {
	return k == JoinInner || k == JoinLeft
}

// Join attaches a table source to the preceding entries of a FROM list.
// On is required for predicate-bearing kinds and ignored otherwise.
type Join struct {
	Kind  JoinKind
	Table TableSource
	On    Expr
}

func (*Join) irNode()      {}
func (*Join) tableSource() {}

// SourceAlias implements TableSource.
func (j *Join) SourceAlias() string {
	if j.Table == nil {
		return ""
	}
	return j.Table.SourceAlias()
}

// SetOpKind enumerates set-operation flavors.
type SetOpKind int

const (
	SetUnion SetOpKind = iota
	SetIntersect
	SetExcept
)

// SetOperation combines two Selects with UNION, INTERSECT, or EXCEPT.
// Distinct selects the deduplicating form; the default renders ALL.
type SetOperation struct {
	Kind     SetOpKind
	Distinct bool
	Left     *Select
	Right    *Select
	Alias    string
}

func (*SetOperation) irNode()      {}
func (*SetOperation) tableSource() {}

// SourceAlias implements TableSource.
func (s *SetOperation) SourceAlias() string { return s.Alias }

// TableFunction is a table-valued function call used as a table source.
type TableFunction struct {
	Schema string
	Name   string
	Args   []Expr
	Alias  string
}

func (*TableFunction) irNode()      {}
func (*TableFunction) tableSource() {}

// SourceAlias implements TableSource.
func (t *TableFunction) SourceAlias() string { return t.Alias }

// RawArgs is the argument source for a RawTable.
//
// RawArgs types:
//   - CompositeParam: one runtime parameter expanding to N placeholders
//   - ArgList: explicit per-slot parameters and inline constants
//
// Sealed: only types in this package implement RawArgs.
type RawArgs interface {
	rawArgs() // Marker method - seals interface to this package
}

// CompositeParam is a single composite parameter object whose elements
// fill the fragment's positional slots. Slot i binds as "<Name>_<i>".
type CompositeParam struct {
	Name  string
	Slots []TypeMapping
}

func (*CompositeParam) rawArgs() {}

// ArgList supplies one expression per positional slot. Each element must
// be a *Parameter (bound at execution) or a *Constant (inlined as a
// literal); anything else is rejected at generation time.
type ArgList struct {
	Items []Expr
}

func (*ArgList) rawArgs() {}

// RawTable embeds literal SQL text as a table source. Positional slots
// ("{0}", "{1}", ...) in SQL are substituted from Args. A nil Args leaves
// the text untouched.
//
// When used as a subquery the text must be composable: after stripping
// leading whitespace and comments it has to start with SELECT or WITH.
type RawTable struct {
	SQL   string
	Args  RawArgs
	Alias string
}

func (*RawTable) irNode()      {}
func (*RawTable) tableSource() {}

// SourceAlias implements TableSource.
func (t *RawTable) SourceAlias() string { return t.Alias }

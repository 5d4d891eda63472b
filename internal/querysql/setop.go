package querysql

import "github.com/roach88/sqlgen/internal/queryir"

// Keywords for SetOpKind values.
var setOpKindSQL = map[queryir.SetOpKind]string{
	queryir.SetUnion:     "UNION",
	queryir.SetIntersect: "INTERSECT",
	queryir.SetExcept:    "EXCEPT",
}

// visitSetOperation renders a set operation:
//
//	<operand1>
//	{UNION|INTERSECT|EXCEPT} [ALL]
//	<operand2>
//
// ALL is emitted unless the operation is distinct.
func (g *Generator) visitSetOperation(s *queryir.SetOperation) error {
	keyword, ok := setOpKindSQL[s.Kind]
	if !ok {
		return newNodeError(ErrCodeUnknownSetOp, s, "unknown set operation kind %d", s.Kind)
	}
	if err := g.visitSetOperand(s, s.Left); err != nil {
		return err
	}
	g.sql.Line()
	g.sql.Append(keyword)
	if !s.Distinct {
		g.sql.Append(" ALL")
	}
	g.sql.Line()
	return g.visitSetOperand(s, s.Right)
}

// visitSetOperand renders one operand of a set operation. An operand that
// is itself a naked set operation of a different kind is parenthesized
// and indented: not strictly required by operator precedence, but it keeps
// mixed UNION/INTERSECT/EXCEPT chains unambiguous to read.
func (g *Generator) visitSetOperand(parent *queryir.SetOperation, operand *queryir.Select) error {
	nested, ok := passThroughSetOperation(operand)
	if !ok || nested.Kind == parent.Kind {
		return g.visitSelect(operand)
	}
	g.sql.Append("(")
	release := g.sql.Indent()
	defer release()
	g.sql.Line()
	if err := g.visitSelect(operand); err != nil {
		return err
	}
	release()
	g.sql.Line()
	g.sql.Append(")")
	return nil
}

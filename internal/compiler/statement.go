package compiler

import (
	"fmt"

	"cuelang.org/go/cue"

	"github.com/roach88/sqlgen/internal/queryir"
)

// CompileStatement parses a CUE value into a queryir statement.
// Uses CUE SDK's Go API directly (not CLI subprocess).
//
// The CUE value should be the statement struct itself, e.g.:
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(`query: listUsers: { kind: "select", ... }`)
//	stmt, err := CompileStatement(v.LookupPath(cue.ParsePath("query.listUsers")))
func CompileStatement(v cue.Value) (queryir.Statement, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	kind, err := requiredString(v, "kind")
	if err != nil {
		return nil, err
	}

	switch kind {
	case "select":
		return compileSelect(v)
	case "update":
		return compileUpdate(v)
	case "delete":
		return compileDelete(v)
	default:
		return nil, &CompileError{
			Field:   "kind",
			Message: fmt.Sprintf("unknown statement kind %q", kind),
			Pos:     v.Pos(),
		}
	}
}

// compileSelect parses a select struct. The same shape (minus the kind
// discriminator) is reused for set-operation operands and for the source
// of update/delete statements.
func compileSelect(v cue.Value) (*queryir.Select, error) {
	sel := &queryir.Select{}

	var err error
	if sel.Alias, err = optionalString(v, "alias"); err != nil {
		return nil, err
	}
	if sel.Distinct, err = optionalBool(v, "distinct"); err != nil {
		return nil, err
	}

	projVal := v.LookupPath(cue.ParsePath("projection"))
	if projVal.Exists() {
		iter, iterErr := projVal.List()
		if iterErr != nil {
			return nil, formatCUEError(iterErr)
		}
		for iter.Next() {
			p, pErr := compileProjection(iter.Value())
			if pErr != nil {
				return nil, pErr
			}
			sel.Projection = append(sel.Projection, p)
		}
	}

	fromVal := v.LookupPath(cue.ParsePath("from"))
	if fromVal.Exists() {
		iter, iterErr := fromVal.List()
		if iterErr != nil {
			return nil, formatCUEError(iterErr)
		}
		for iter.Next() {
			t, tErr := compileTableSource(iter.Value())
			if tErr != nil {
				return nil, tErr
			}
			sel.Tables = append(sel.Tables, t)
		}
	}

	if sel.Where, err = optionalExpr(v, "where"); err != nil {
		return nil, err
	}

	groupVal := v.LookupPath(cue.ParsePath("group_by"))
	if groupVal.Exists() {
		iter, iterErr := groupVal.List()
		if iterErr != nil {
			return nil, formatCUEError(iterErr)
		}
		for iter.Next() {
			e, eErr := compileExpr(iter.Value())
			if eErr != nil {
				return nil, eErr
			}
			sel.GroupBy = append(sel.GroupBy, e)
		}
	}

	if sel.Having, err = optionalExpr(v, "having"); err != nil {
		return nil, err
	}

	orderVal := v.LookupPath(cue.ParsePath("order_by"))
	if orderVal.Exists() {
		iter, iterErr := orderVal.List()
		if iterErr != nil {
			return nil, formatCUEError(iterErr)
		}
		for iter.Next() {
			o, oErr := compileOrdering(iter.Value())
			if oErr != nil {
				return nil, oErr
			}
			sel.OrderBy = append(sel.OrderBy, o)
		}
	}

	if sel.Limit, err = optionalExpr(v, "limit"); err != nil {
		return nil, err
	}
	if sel.Offset, err = optionalExpr(v, "offset"); err != nil {
		return nil, err
	}

	tagsVal := v.LookupPath(cue.ParsePath("tags"))
	if tagsVal.Exists() {
		iter, iterErr := tagsVal.List()
		if iterErr != nil {
			return nil, formatCUEError(iterErr)
		}
		for iter.Next() {
			tag, tagErr := iter.Value().String()
			if tagErr != nil {
				return nil, formatCUEError(tagErr)
			}
			sel.Tags = append(sel.Tags, tag)
		}
	}

	return sel, nil
}

func compileUpdate(v cue.Value) (*queryir.Update, error) {
	u := &queryir.Update{}

	tableVal := v.LookupPath(cue.ParsePath("table"))
	if !tableVal.Exists() {
		return nil, &CompileError{
			Field:   "table",
			Message: "update target table is required",
			Pos:     v.Pos(),
		}
	}
	target, err := compileBaseTable(tableVal)
	if err != nil {
		return nil, err
	}
	u.Table = target

	setVal := v.LookupPath(cue.ParsePath("set"))
	if !setVal.Exists() {
		return nil, &CompileError{
			Field:   "set",
			Message: "at least one set clause is required",
			Pos:     v.Pos(),
		}
	}
	iter, iterErr := setVal.List()
	if iterErr != nil {
		return nil, formatCUEError(iterErr)
	}
	for iter.Next() {
		item := iter.Value()
		column, cErr := requiredString(item, "column")
		if cErr != nil {
			return nil, cErr
		}
		valueVal := item.LookupPath(cue.ParsePath("value"))
		if !valueVal.Exists() {
			return nil, &CompileError{
				Field:   "set.value",
				Message: fmt.Sprintf("assignment to %q has no value", column),
				Pos:     item.Pos(),
			}
		}
		value, vErr := compileExpr(valueVal)
		if vErr != nil {
			return nil, vErr
		}
		u.Set = append(u.Set, queryir.Assignment{Column: column, Value: value})
	}

	u.Source, err = compileModifySource(v, target)
	return u, err
}

func compileDelete(v cue.Value) (*queryir.Delete, error) {
	d := &queryir.Delete{}

	tableVal := v.LookupPath(cue.ParsePath("table"))
	if !tableVal.Exists() {
		return nil, &CompileError{
			Field:   "table",
			Message: "delete target table is required",
			Pos:     v.Pos(),
		}
	}
	target, err := compileBaseTable(tableVal)
	if err != nil {
		return nil, err
	}
	d.Table = target

	d.Source, err = compileModifySource(v, target)
	return d, err
}

// compileModifySource assembles the source Select of an update or delete
// from the statement's from/where fields. When no from list is given the
// source defaults to the target table alone.
func compileModifySource(v cue.Value, target *queryir.BaseTable) (*queryir.Select, error) {
	source := &queryir.Select{}

	fromVal := v.LookupPath(cue.ParsePath("from"))
	if fromVal.Exists() {
		iter, iterErr := fromVal.List()
		if iterErr != nil {
			return nil, formatCUEError(iterErr)
		}
		for iter.Next() {
			t, tErr := compileTableSource(iter.Value())
			if tErr != nil {
				return nil, tErr
			}
			source.Tables = append(source.Tables, t)
		}
	} else {
		source.Tables = []queryir.TableSource{target}
	}

	var err error
	source.Where, err = optionalExpr(v, "where")
	return source, err
}

func compileProjection(v cue.Value) (queryir.Projection, error) {
	exprVal := v.LookupPath(cue.ParsePath("expr"))
	if !exprVal.Exists() {
		return queryir.Projection{}, &CompileError{
			Field:   "projection.expr",
			Message: "projection entry has no expression",
			Pos:     v.Pos(),
		}
	}
	expr, err := compileExpr(exprVal)
	if err != nil {
		return queryir.Projection{}, err
	}
	alias, err := optionalString(v, "alias")
	if err != nil {
		return queryir.Projection{}, err
	}
	return queryir.Projection{Expr: expr, Alias: alias}, nil
}

func compileOrdering(v cue.Value) (queryir.Ordering, error) {
	exprVal := v.LookupPath(cue.ParsePath("expr"))
	if !exprVal.Exists() {
		return queryir.Ordering{}, &CompileError{
			Field:   "order_by.expr",
			Message: "ordering entry has no expression",
			Pos:     v.Pos(),
		}
	}
	expr, err := compileExpr(exprVal)
	if err != nil {
		return queryir.Ordering{}, err
	}
	desc, err := optionalBool(v, "desc")
	if err != nil {
		return queryir.Ordering{}, err
	}
	return queryir.Ordering{Expr: expr, Ascending: !desc}, nil
}

// Small lookup helpers shared by the statement/expr/table compilers.

func requiredString(v cue.Value, field string) (string, error) {
	fieldVal := v.LookupPath(cue.ParsePath(field))
	if !fieldVal.Exists() {
		return "", &CompileError{
			Field:   field,
			Message: field + " is required",
			Pos:     v.Pos(),
		}
	}
	s, err := fieldVal.String()
	if err != nil {
		return "", formatCUEError(err)
	}
	return s, nil
}

func optionalString(v cue.Value, field string) (string, error) {
	fieldVal := v.LookupPath(cue.ParsePath(field))
	if !fieldVal.Exists() {
		return "", nil
	}
	s, err := fieldVal.String()
	if err != nil {
		return "", formatCUEError(err)
	}
	return s, nil
}

func optionalBool(v cue.Value, field string) (bool, error) {
	fieldVal := v.LookupPath(cue.ParsePath(field))
	if !fieldVal.Exists() {
		return false, nil
	}
	b, err := fieldVal.Bool()
	if err != nil {
		return false, formatCUEError(err)
	}
	return b, nil
}

func optionalExpr(v cue.Value, field string) (queryir.Expr, error) {
	fieldVal := v.LookupPath(cue.ParsePath(field))
	if !fieldVal.Exists() {
		return nil, nil
	}
	return compileExpr(fieldVal)
}

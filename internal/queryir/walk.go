package queryir

// Walk traverses the tree rooted at n in depth-first, parent-before-child
// order, calling fn for every non-nil node. If fn returns false the node's
// children are skipped.
//
// Walk covers statements, table sources, and expressions uniformly; it is
// used by tooling (schema derivation, diagnostics) rather than by the
// generator itself, which dispatches node kinds directly.
func Walk(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	switch x := n.(type) {
	case *Select:
		for _, p := range x.Projection {
			Walk(p.Expr, fn)
		}
		for _, t := range x.Tables {
			Walk(t, fn)
		}
		Walk(x.Where, fn)
		for _, e := range x.GroupBy {
			Walk(e, fn)
		}
		Walk(x.Having, fn)
		for _, o := range x.OrderBy {
			Walk(o.Expr, fn)
		}
		Walk(x.Limit, fn)
		Walk(x.Offset, fn)
	case *Update:
		Walk(x.Table, fn)
		for _, a := range x.Set {
			Walk(a.Value, fn)
		}
		walkSelect(x.Source, fn)
	case *Delete:
		Walk(x.Table, fn)
		walkSelect(x.Source, fn)
	case *BaseTable:
		// Leaf.
	case *Join:
		Walk(x.Table, fn)
		Walk(x.On, fn)
	case *SetOperation:
		walkSelect(x.Left, fn)
		walkSelect(x.Right, fn)
	case *TableFunction:
		for _, e := range x.Args {
			Walk(e, fn)
		}
	case *RawTable:
		if list, ok := x.Args.(*ArgList); ok {
			for _, e := range list.Items {
				Walk(e, fn)
			}
		}
	case *Column, *Constant, *Parameter, *Fragment:
		// Leaves.
	case *Binary:
		Walk(x.Left, fn)
		Walk(x.Right, fn)
	case *Unary:
		Walk(x.Operand, fn)
	case *Function:
		Walk(x.Instance, fn)
		for _, e := range x.Args {
			Walk(e, fn)
		}
	case *Case:
		Walk(x.Operand, fn)
		for _, w := range x.Whens {
			Walk(w.When, fn)
			Walk(w.Then, fn)
		}
		Walk(x.Else, fn)
	case *Like:
		Walk(x.Match, fn)
		Walk(x.Pattern, fn)
		Walk(x.Escape, fn)
	case *Collate:
		Walk(x.Operand, fn)
	case *Distinct:
		Walk(x.Operand, fn)
	case *Exists:
		walkSelect(x.Subquery, fn)
	case *In:
		Walk(x.Item, fn)
		for _, e := range x.Values {
			Walk(e, fn)
		}
		walkSelect(x.Subquery, fn)
	case *RowNumber:
		for _, e := range x.Partitions {
			Walk(e, fn)
		}
		for _, o := range x.Orderings {
			Walk(o.Expr, fn)
		}
	case *AtTimeZone:
		Walk(x.Operand, fn)
		Walk(x.Zone, fn)
	case *Subquery:
		walkSelect(x.Select, fn)
	case *JSONScalar:
		Walk(x.Target, fn)
	}
}

// walkSelect guards against typed-nil *Select children.
func walkSelect(s *Select, fn func(Node) bool) {
	if s != nil {
		Walk(s, fn)
	}
}

package sqlcheck

import (
	"sort"

	"github.com/roach88/sqlgen/internal/queryir"
)

// TableStub describes the minimal table shape a statement needs to
// prepare: the base table plus every column the tree references through
// its alias.
type TableStub struct {
	Schema  string
	Name    string
	Columns []ColumnStub
}

// ColumnStub is one referenced column and its store type.
type ColumnStub struct {
	Name string
	Type queryir.TypeMapping
}

// DeriveTables walks a statement tree and reconstructs the table stubs it
// references. Columns are attributed to tables through the alias they are
// qualified with; unqualified columns and aliases that resolve to derived
// sources (set operations, raw fragments) are skipped. Output is sorted
// for determinism.
func DeriveTables(stmt queryir.Node) []TableStub {
	byAlias := map[string]*TableStub{}
	columns := map[string]map[string]queryir.TypeMapping{}

	record := func(alias, name string, mapping queryir.TypeMapping) {
		if alias == "" || name == "" {
			return
		}
		cols, ok := columns[alias]
		if !ok {
			cols = map[string]queryir.TypeMapping{}
			columns[alias] = cols
		}
		if _, seen := cols[name]; !seen {
			cols[name] = mapping
		}
	}

	queryir.Walk(stmt, func(n queryir.Node) bool {
		switch x := n.(type) {
		case *queryir.BaseTable:
			alias := x.Alias
			if alias == "" {
				alias = x.Name
			}
			if _, seen := byAlias[alias]; !seen {
				byAlias[alias] = &TableStub{Schema: x.Schema, Name: x.Name}
			}
		case *queryir.Column:
			record(x.Table, x.Name, x.Type)
		}
		return true
	})

	// Assignment columns are not expression nodes; attribute them to the
	// modify target directly.
	if u, ok := stmt.(*queryir.Update); ok && u.Table != nil {
		alias := u.Table.Alias
		if alias == "" {
			alias = u.Table.Name
		}
		for _, a := range u.Set {
			record(alias, a.Column, queryir.TypeOf(a.Value))
		}
	}

	stubs := make([]TableStub, 0, len(byAlias))
	for alias, stub := range byAlias {
		cols := columns[alias]
		names := make([]string, 0, len(cols))
		for name := range cols {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			stub.Columns = append(stub.Columns, ColumnStub{Name: name, Type: cols[name]})
		}
		stubs = append(stubs, *stub)
	}
	sort.Slice(stubs, func(i, j int) bool {
		if stubs[i].Schema != stubs[j].Schema {
			return stubs[i].Schema < stubs[j].Schema
		}
		return stubs[i].Name < stubs[j].Name
	})
	return stubs
}

// sqliteColumnType maps a store type onto SQLite's affinity names. SQLite
// accepts arbitrary type names, so unknown store types pass through.
func sqliteColumnType(mapping queryir.TypeMapping) string {
	switch mapping.StoreType {
	case "boolean", "integer":
		return "INTEGER"
	case "real":
		return "REAL"
	case "blob":
		return "BLOB"
	case "text", "timestamp":
		return "TEXT"
	case "":
		return "TEXT"
	default:
		return mapping.StoreType
	}
}

// Package queryir defines the relational intermediate representation (IR)
// consumed by the SQL generation back end.
//
// The IR is a tree of statement, table-source, and scalar-expression nodes
// built by an upstream compiler stage. This package owns only the node
// shapes; translation to SQL text lives in internal/querysql.
//
// SEALED INTERFACES:
//
// Statement, TableSource, and Expr are sealed interfaces using the marker
// method pattern. Only types in this package implement them, which makes
// type switches in the generator exhaustive by construction: adding a node
// kind here is a compile-time obligation to handle it in every backend
// switch.
//
// Example:
//
//	switch s := stmt.(type) {
//	case *Select:
//	    // SELECT translation
//	case *Update:
//	    // UPDATE translation
//	case *Delete:
//	    // DELETE translation
//	}
//
// IMMUTABILITY:
//
// Nodes are immutable once constructed. The generator never modifies a node
// in place; the one composite operation it performs (combining a lifted
// join predicate with an existing filter) allocates a fresh Binary node via
// And() rather than touching either operand.
//
// Nodes hold no back-references. All relations are parent-to-child, so a
// subtree can be shared between trees safely.
package queryir

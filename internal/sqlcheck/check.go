// Package sqlcheck verifies generated SQL against a real database engine.
//
// The generator is a pure text transformation and never talks to a
// database; sqlcheck closes that gap as tooling. It derives stub tables
// from a statement tree, creates them in a throwaway in-memory SQLite
// database, and asks SQLite to prepare the generated text. A statement
// that prepares cleanly is syntactically valid and references only tables
// and columns the tree declares.
//
// Verification is best-effort for raw fragments: tables referenced only
// inside raw SQL are invisible to the tree walk and need ExtraDDL.
package sqlcheck

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/roach88/sqlgen/internal/queryir"
	"github.com/roach88/sqlgen/internal/querysql"
)

// Checker prepares generated statements against an in-memory SQLite
// database.
type Checker struct {
	db *sql.DB
}

// Result reports one successful verification.
type Result struct {
	Command *querysql.Command
	Tables  []TableStub
}

// Open creates a checker backed by a fresh in-memory database.
func Open() (*Checker, error) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// A single connection keeps every statement on the same in-memory
	// database; a second connection would see an empty one.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	return &Checker{db: db}, nil
}

// Close closes the database connection.
func (c *Checker) Close() error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}

// Check generates SQL for the statement with the SQLite dialect, creates
// the stub tables the tree references, and prepares the text. ExtraDDL
// statements run after the stubs, for tables only raw fragments mention.
func (c *Checker) Check(ctx context.Context, stmt queryir.Statement, extraDDL ...string) (*Result, error) {
	cmd, err := querysql.Generate(querysql.SQLite{}, stmt)
	if err != nil {
		return nil, fmt.Errorf("generating SQL: %w", err)
	}

	tables := DeriveTables(stmt)
	if err := c.createStubs(ctx, tables); err != nil {
		return nil, err
	}
	for _, ddl := range extraDDL {
		if _, err := c.db.ExecContext(ctx, ddl); err != nil {
			return nil, fmt.Errorf("applying extra DDL: %w", err)
		}
	}

	prepared, err := c.db.PrepareContext(ctx, cmd.Text)
	if err != nil {
		return nil, fmt.Errorf("preparing generated SQL: %w", err)
	}
	prepared.Close()

	return &Result{Command: cmd, Tables: tables}, nil
}

// createStubs materializes the derived tables. Existing stubs are dropped
// first so repeated checks against one checker never see a stale shape.
func (c *Checker) createStubs(ctx context.Context, tables []TableStub) error {
	for _, stub := range tables {
		if stub.Schema != "" {
			if err := c.attachSchema(ctx, stub.Schema); err != nil {
				return err
			}
		}
		name := qualifiedStubName(stub)
		if _, err := c.db.ExecContext(ctx, "DROP TABLE IF EXISTS "+name); err != nil {
			return fmt.Errorf("dropping stub %s: %w", name, err)
		}
		if _, err := c.db.ExecContext(ctx, stubDDL(stub)); err != nil {
			return fmt.Errorf("creating stub %s: %w", name, err)
		}
	}
	return nil
}

// attachSchema makes a schema-qualified name resolvable by attaching an
// in-memory database under that schema. Attaching twice is an error, so
// already-attached schemas are skipped.
func (c *Checker) attachSchema(ctx context.Context, schema string) error {
	rows, err := c.db.QueryContext(ctx, "PRAGMA database_list")
	if err != nil {
		return fmt.Errorf("listing attached databases: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var seq int
		var name, file sql.NullString
		if err := rows.Scan(&seq, &name, &file); err != nil {
			return fmt.Errorf("scanning database list: %w", err)
		}
		if name.String == schema {
			return nil
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("listing attached databases: %w", err)
	}

	quoted := querysql.SQLite{}.DelimitIdentifier(schema)
	if _, err := c.db.ExecContext(ctx, "ATTACH DATABASE ':memory:' AS "+quoted); err != nil {
		return fmt.Errorf("attaching schema %s: %w", schema, err)
	}
	return nil
}

func qualifiedStubName(stub TableStub) string {
	d := querysql.SQLite{}
	return d.DelimitQualified(stub.Schema, stub.Name)
}

func stubDDL(stub TableStub) string {
	var sb strings.Builder
	sb.WriteString("CREATE TABLE ")
	sb.WriteString(qualifiedStubName(stub))
	sb.WriteString(" (")
	d := querysql.SQLite{}
	for i, col := range stub.Columns {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(d.DelimitIdentifier(col.Name))
		sb.WriteString(" ")
		sb.WriteString(sqliteColumnType(col.Type))
	}
	if len(stub.Columns) == 0 {
		// SQLite rejects empty column lists.
		sb.WriteString(`"placeholder" INTEGER`)
	}
	sb.WriteString(")")
	return sb.String()
}

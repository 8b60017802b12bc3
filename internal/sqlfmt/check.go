package sqlfmt

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"
)

// ErrSyntax is wrapped by every error Check reports for malformed SQL.
var ErrSyntax = errors.New("sql syntax error")

// SyntaxError describes a statement SQLite could not parse.
type SyntaxError struct {
	// Statement is the 1-based index of the offending statement.
	Statement int
	SQL       string
	Msg       string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("statement %d: %s", e.Statement, e.Msg)
}

func (e *SyntaxError) Unwrap() error { return ErrSyntax }

// syntaxMarkers identify parser failures in SQLite error text. Anything else
// (unknown tables, columns, functions) is a semantic error against the empty
// in-memory schema and is ignored.
var syntaxMarkers = []string{
	"syntax error",
	"incomplete input",
	"unrecognized token",
}

// Check parses every statement in query with an in-memory SQLite database
// and returns the first syntax error. Statements are compiled through
// EXPLAIN, never executed.
func Check(ctx context.Context, query string) error {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return fmt.Errorf("failed to open sqlite: %w", err)
	}
	defer db.Close()

	for i, stmt := range Split(query) {
		if onlyComments(stmt) {
			continue
		}
		err := compile(ctx, db, stmt)
		if err == nil {
			continue
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		msg := err.Error()
		for _, marker := range syntaxMarkers {
			if strings.Contains(msg, marker) {
				return &SyntaxError{Statement: i + 1, SQL: stmt, Msg: msg}
			}
		}
	}
	return nil
}

// compile makes SQLite parse stmt. The driver defers sqlite3_prepare until
// the first query, so a bare Prepare reports nothing; EXPLAIN compiles the
// statement and only returns its bytecode listing.
func compile(ctx context.Context, db *sql.DB, stmt string) error {
	if !explains(stmt) {
		stmt = "EXPLAIN " + stmt
	}
	rows, err := db.QueryContext(ctx, stmt)
	if rows != nil {
		rows.Close()
	}
	return err
}

// explains reports whether stmt already starts with EXPLAIN, which SQLite
// does not accept twice.
func explains(stmt string) bool {
	for _, t := range significant(scan(stmt)) {
		if strings.HasPrefix(t.value, "--") || strings.HasPrefix(t.value, "/*") {
			continue
		}
		return strings.EqualFold(t.value, "explain")
	}
	return false
}

func onlyComments(stmt string) bool {
	for _, t := range significant(scan(stmt)) {
		switch {
		case t.punct(";"):
		case strings.HasPrefix(t.value, "--"), strings.HasPrefix(t.value, "/*"):
		default:
			return false
		}
	}
	return true
}

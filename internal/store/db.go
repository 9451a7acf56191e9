package store

import (
	"context"
	"database/sql"
)

// DBTX is the slice of database/sql's execution surface the shelfmark stores
// depend on. Both *sql.DB and *sql.Tx satisfy it, so the same store can run
// its queries against the shared pool (the task workers' usual mode) or
// inside a caller-managed transaction without knowing which it was handed.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

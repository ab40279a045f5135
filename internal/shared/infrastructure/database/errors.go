package database

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// IsNoRows returns true if the error indicates no rows were found.
// This handles both pgx.ErrNoRows and sql.ErrNoRows.
func IsNoRows(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, pgx.ErrNoRows) || errors.Is(err, sql.ErrNoRows)
}

// SQLSTATE classes that mean the server could not run the statement at all:
// connection exceptions, insufficient resources and operator intervention.
var unavailableClasses = map[string]bool{
	"08": true,
	"53": true,
	"57": true,
}

// IsStatementError reports whether err is a PostgreSQL error raised while
// running a statement on a reachable server.
func IsStatementError(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || len(pgErr.Code) < 2 {
		return false
	}
	return !unavailableClasses[pgErr.Code[:2]]
}

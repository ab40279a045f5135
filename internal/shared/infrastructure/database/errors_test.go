package database

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsNoRows(t *testing.T) {
	assert.True(t, IsNoRows(pgx.ErrNoRows))
	assert.True(t, IsNoRows(fmt.Errorf("load project: %w", sql.ErrNoRows)))
	assert.False(t, IsNoRows(errors.New("boom")))
	assert.False(t, IsNoRows(nil))
}

func TestIsStatementError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"undefined table", &pgconn.PgError{Code: "42P01"}, true},
		{"wrapped serialization failure", fmt.Errorf("query: %w", &pgconn.PgError{Code: "40001"}), true},
		{"connection failure", &pgconn.PgError{Code: "08006"}, false},
		{"too many connections", &pgconn.PgError{Code: "53300"}, false},
		{"admin shutdown", &pgconn.PgError{Code: "57P01"}, false},
		{"empty code", &pgconn.PgError{}, false},
		{"plain error", errors.New("dial tcp: connection refused"), false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsStatementError(tt.err))
		})
	}
}

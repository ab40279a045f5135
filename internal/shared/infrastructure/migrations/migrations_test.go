package migrations_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/doable/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/doable/internal/shared/infrastructure/database/sqlite"
	"github.com/felixgeelhaar/doable/internal/shared/infrastructure/migrations"
)

func TestFiles(t *testing.T) {
	for _, driver := range []database.Driver{database.DriverSQLite, database.DriverPostgres} {
		files, err := migrations.Files(driver)
		require.NoError(t, err)
		assert.Equal(t, []string{"001_reporting_schema.up.sql", "002_reporting_indexes.up.sql"}, files, driver)
	}

	_, err := migrations.Files("mysql")
	assert.Error(t, err)
}

func TestRun_SQLite(t *testing.T) {
	ctx := context.Background()
	conn, err := sqlite.NewConnection(ctx, database.Config{SQLitePath: filepath.Join(t.TempDir(), "doable.db")})
	require.NoError(t, err)
	defer conn.Close()

	applied, err := migrations.Run(ctx, conn)
	require.NoError(t, err)
	assert.Equal(t, []string{"001_reporting_schema", "002_reporting_indexes"}, applied)

	for _, table := range []string{"employees", "projects", "tasks", "task_assignments", "time_entries"} {
		var name string
		err := conn.QueryRow(ctx, `SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		require.NoError(t, err, table)
	}

	again, err := migrations.Run(ctx, conn)
	require.NoError(t, err)
	assert.Empty(t, again)
}

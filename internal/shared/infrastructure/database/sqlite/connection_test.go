package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/doable/internal/shared/application"
	"github.com/felixgeelhaar/doable/internal/shared/infrastructure/database"
)

func openTestConnection(t *testing.T) database.Connection {
	t.Helper()

	conn, err := NewConnection(context.Background(), database.Config{
		Driver:     database.DriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "doable-test.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	_, err = conn.Exec(context.Background(), `CREATE TABLE employees (id TEXT PRIMARY KEY, first_name TEXT)`)
	require.NoError(t, err)
	return conn
}

func countEmployees(t *testing.T, conn database.Connection) int {
	t.Helper()
	var count int
	require.NoError(t, conn.QueryRow(context.Background(), `SELECT COUNT(*) FROM employees`).Scan(&count))
	return count
}

func TestNewConnection(t *testing.T) {
	conn := openTestConnection(t)

	assert.NoError(t, conn.Ping(context.Background()))
	assert.Equal(t, database.DriverSQLite, conn.Driver())
}

func TestNewConnection_FromURL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "reports.db")

	conn, err := database.NewConnection(context.Background(), database.Config{URL: "sqlite://" + path})
	require.NoError(t, err)
	defer conn.Close()

	assert.Equal(t, database.DriverSQLite, conn.Driver())
	assert.FileExists(t, path)
}

func TestConnection_ExecAndQuery(t *testing.T) {
	ctx := context.Background()
	conn := openTestConnection(t)

	result, err := conn.Exec(ctx, `INSERT INTO employees (id, first_name) VALUES (?, ?)`, "e1", "Ada")
	require.NoError(t, err)
	affected, err := result.RowsAffected()
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	_, err = conn.Exec(ctx, `INSERT INTO employees (id, first_name) VALUES (?, ?)`, "e2", "Grace")
	require.NoError(t, err)

	var name string
	require.NoError(t, conn.QueryRow(ctx, `SELECT first_name FROM employees WHERE id = ?`, "e1").Scan(&name))
	assert.Equal(t, "Ada", name)

	rows, err := conn.Query(ctx, `SELECT first_name FROM employees ORDER BY id`)
	require.NoError(t, err)
	defer rows.Close()

	var names []string
	for rows.Next() {
		var n string
		require.NoError(t, rows.Scan(&n))
		names = append(names, n)
	}
	require.NoError(t, rows.Err())
	assert.Equal(t, []string{"Ada", "Grace"}, names)
}

func TestConnection_Transaction(t *testing.T) {
	ctx := context.Background()
	conn := openTestConnection(t)

	tx, err := conn.BeginTx(ctx, database.TxOptions{})
	require.NoError(t, err)
	_, err = tx.Exec(ctx, `INSERT INTO employees (id, first_name) VALUES (?, ?)`, "e1", "Ada")
	require.NoError(t, err)
	require.NoError(t, tx.Commit(ctx))
	assert.Equal(t, 1, countEmployees(t, conn))

	tx, err = conn.BeginTx(ctx, database.TxOptions{ReadOnly: true})
	require.NoError(t, err)
	_, err = tx.Exec(ctx, `INSERT INTO employees (id, first_name) VALUES (?, ?)`, "e2", "Grace")
	require.NoError(t, err)
	require.NoError(t, tx.Rollback(ctx))
	assert.Equal(t, 1, countEmployees(t, conn))
}

func TestUnitOfWork(t *testing.T) {
	ctx := context.Background()
	conn := openTestConnection(t)
	uow := database.NewUnitOfWork(conn)

	insert := func(id string) func(ctx context.Context) error {
		return func(ctx context.Context) error {
			_, err := database.ExecutorFromContext(ctx, conn).
				Exec(ctx, `INSERT INTO employees (id, first_name) VALUES (?, ?)`, id, id)
			return err
		}
	}

	t.Run("commits on success", func(t *testing.T) {
		require.NoError(t, application.WithUnitOfWork(ctx, uow, insert("e1")))
		assert.Equal(t, 1, countEmployees(t, conn))
	})

	t.Run("rolls back on error", func(t *testing.T) {
		boom := errors.New("boom")
		err := application.WithUnitOfWork(ctx, uow, func(ctx context.Context) error {
			if err := insert("e2")(ctx); err != nil {
				return err
			}
			return boom
		})
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, 1, countEmployees(t, conn))
	})

	t.Run("nested units share the outer transaction", func(t *testing.T) {
		err := application.WithUnitOfWork(ctx, uow, func(ctx context.Context) error {
			return application.WithUnitOfWork(ctx, database.NewReadOnlyUnitOfWork(conn), insert("e3"))
		})
		require.NoError(t, err)
		assert.Equal(t, 2, countEmployees(t, conn))
	})

	t.Run("commit without transaction", func(t *testing.T) {
		assert.ErrorIs(t, uow.Commit(ctx), database.ErrNoTransaction)
		assert.ErrorIs(t, uow.Rollback(ctx), database.ErrNoTransaction)
	})
}

func TestNewConnection_RejectsUnsafePath(t *testing.T) {
	_, err := NewConnection(context.Background(), database.Config{
		Driver:     database.DriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "reports;rm -rf.db"),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid SQLite path")
}

func TestBuildDSN(t *testing.T) {
	const pragmaSuffix = "_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"

	tests := []struct {
		name string
		path string
		want string
	}{
		{"plain file", "/tmp/doable.db", "/tmp/doable.db?" + pragmaSuffix},
		{"existing query", "/tmp/doable.db?mode=ro", "/tmp/doable.db?mode=ro&" + pragmaSuffix},
		{"memory", ":memory:", ":memory:?" + pragmaSuffix},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, buildDSN(tt.path))
		})
	}
}

package persistence

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/doable/internal/reporting/domain"
	"github.com/felixgeelhaar/doable/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/doable/internal/shared/infrastructure/database/sqlite"
	"github.com/felixgeelhaar/doable/internal/shared/infrastructure/migrations"
)

func setupTestDB(t *testing.T) database.Connection {
	t.Helper()
	ctx := context.Background()

	conn, err := sqlite.NewConnection(ctx, database.Config{
		Driver:     database.DriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "reports.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	_, err = migrations.Run(ctx, conn)
	require.NoError(t, err)
	return conn
}

type fixture struct {
	conn      database.Connection
	projectID uuid.UUID
	design    uuid.UUID
	build     uuid.UUID
	archived  uuid.UUID
}

func exec(t *testing.T, conn database.Connection, query string, args ...any) {
	t.Helper()
	_, err := conn.Exec(context.Background(), query, args...)
	require.NoError(t, err)
}

func at(s string) string {
	t, _ := time.Parse(time.RFC3339, s)
	return formatTime(t)
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	f := fixture{
		conn:      setupTestDB(t),
		projectID: uuid.New(),
		design:    uuid.New(),
		build:     uuid.New(),
		archived:  uuid.New(),
	}

	exec(t, f.conn, `INSERT INTO employees (id, first_name, last_name) VALUES (?, ?, ?), (?, ?, ?), (?, ?, ?)`,
		"emp-ada", "Ada", "Lovelace", "emp-grace", "Grace", "Hopper", "emp-alan", "Alan", "")
	exec(t, f.conn, `INSERT INTO projects (id, name, status, start_date, end_date, is_archived) VALUES (?, ?, ?, ?, ?, ?)`,
		f.projectID.String(), "Website Redesign", "In Progress", at("2026-01-05T00:00:00Z"), nil, false)

	tasks := []struct {
		id       uuid.UUID
		title    string
		status   string
		archived bool
		created  string
	}{
		{f.design, "Design", "completed", false, "2026-01-05T10:00:00Z"},
		{f.build, "Build", "In Progress", false, "2026-01-05T11:00:00Z"},
		{f.archived, "Old spike", "completed", true, "2026-01-05T09:00:00Z"},
	}
	for _, task := range tasks {
		exec(t, f.conn, `
			INSERT INTO tasks (id, project_id, title, status, priority, due_date, is_archived, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			task.id.String(), f.projectID.String(), task.title, task.status, "high",
			at("2026-02-01T00:00:00Z"), task.archived, at(task.created))
	}

	exec(t, f.conn, `INSERT INTO task_assignments (task_id, employee_id, assigned_at) VALUES (?, ?, ?), (?, ?, ?), (?, ?, ?)`,
		f.build.String(), "emp-grace", at("2026-01-06T10:00:00Z"),
		f.build.String(), "emp-ada", at("2026-01-06T11:00:00Z"),
		f.design.String(), "emp-ada", at("2026-01-05T12:00:00Z"))

	entries := []struct {
		task       uuid.UUID
		employee   string
		start, end string
	}{
		{f.design, "emp-ada", "2026-01-10T09:00:00Z", "2026-01-10T11:30:00Z"},
		{f.build, "emp-grace", "2026-01-20T09:00:00Z", "2026-01-20T17:00:00Z"},
		{f.build, "emp-alan", "2026-01-31T22:00:00Z", "2026-02-01T01:00:00Z"},
		{f.archived, "emp-ada", "2026-01-12T09:00:00Z", "2026-01-12T10:00:00Z"},
	}
	for _, e := range entries {
		exec(t, f.conn, `
			INSERT INTO time_entries (id, task_id, employee_id, start_time, end_time, description)
			VALUES (?, ?, ?, ?, ?, ?)`,
			uuid.NewString(), e.task.String(), e.employee, at(e.start), at(e.end), "work")
	}
	return f
}

func TestSQLiteDataSource_LoadProjectWithTasks(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	ds := NewSQLiteDataSource(f.conn)

	t.Run("loads project and active tasks in insertion order", func(t *testing.T) {
		project, err := ds.LoadProjectWithTasks(ctx, f.projectID)
		require.NoError(t, err)

		assert.Equal(t, "Website Redesign", project.Name)
		assert.Equal(t, "In Progress", project.Status)
		assert.Nil(t, project.EndDate)
		assert.Equal(t, time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC), project.StartDate)

		require.Len(t, project.Tasks, 2)
		assert.Equal(t, f.design, project.Tasks[0].ID)
		assert.Equal(t, domain.TaskStatusCompleted, project.Tasks[0].Status)
		assert.Equal(t, f.build, project.Tasks[1].ID)
		assert.Equal(t, domain.TaskStatusInProgress, project.Tasks[1].Status)
		assert.Equal(t, domain.PriorityHigh, project.Tasks[1].Priority)
	})

	t.Run("unknown project", func(t *testing.T) {
		_, err := ds.LoadProjectWithTasks(ctx, uuid.New())
		assert.ErrorIs(t, err, domain.ErrProjectNotFound)
	})
}

func TestSQLiteDataSource_LoadTimeEntries(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	ds := NewSQLiteDataSource(f.conn)
	taskIDs := []uuid.UUID{f.design, f.build}

	day := func(s string) *time.Time {
		d, err := time.Parse("2006-01-02", s)
		require.NoError(t, err)
		return &d
	}

	tests := []struct {
		name     string
		window   domain.TimeWindow
		expected []string
	}{
		{"unbounded", domain.TimeWindow{}, []string{"Ada Lovelace", "Grace Hopper", "Alan"}},
		{"start bound is inclusive", domain.TimeWindow{Start: day("2026-01-20")}, []string{"Grace Hopper", "Alan"}},
		{"end bound compares end date", domain.TimeWindow{End: day("2026-01-31")}, []string{"Ada Lovelace", "Grace Hopper"}},
		{"both bounds", domain.TimeWindow{Start: day("2026-01-11"), End: day("2026-02-01")}, []string{"Grace Hopper", "Alan"}},
		{"empty window range", domain.TimeWindow{Start: day("2026-03-01")}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries, err := ds.LoadTimeEntries(ctx, taskIDs, tt.window)
			require.NoError(t, err)

			names := make([]string, len(entries))
			for i, e := range entries {
				names[i] = e.EmployeeName
			}
			assert.Equal(t, tt.expected, names)
		})
	}

	t.Run("no tasks", func(t *testing.T) {
		entries, err := ds.LoadTimeEntries(ctx, nil, domain.TimeWindow{})
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("durations", func(t *testing.T) {
		entries, err := ds.LoadTimeEntries(ctx, []uuid.UUID{f.design}, domain.TimeWindow{})
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "2.5", entries[0].Hours().String())
		assert.Equal(t, "emp-ada", entries[0].EmployeeID)
	})
}

func TestSQLiteDataSource_LoadTaskAssignments(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	ds := NewSQLiteDataSource(f.conn)

	assignments, err := ds.LoadTaskAssignments(ctx, []uuid.UUID{f.build, f.design})
	require.NoError(t, err)
	require.Len(t, assignments, 3)

	assert.Equal(t, f.design, assignments[0].TaskID)
	assert.Equal(t, "Ada Lovelace", assignments[0].EmployeeName)
	assert.Equal(t, "Grace Hopper", assignments[1].EmployeeName)
	assert.Equal(t, "Ada Lovelace", assignments[2].EmployeeName)
	assert.Equal(t, f.build, assignments[2].TaskID)
}

func TestSQLiteDataSource_ListProjects(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	exec(t, f.conn, `INSERT INTO projects (id, name, status, start_date, is_archived) VALUES (?, ?, ?, ?, ?), (?, ?, ?, ?, ?)`,
		uuid.NewString(), "Archived Project", "Completed", at("2025-01-01T00:00:00Z"), true,
		uuid.NewString(), "Admin Test Project", "In Progress", at("2026-01-01T00:00:00Z"), false)

	projects, err := NewSQLiteDataSource(f.conn).ListProjects(ctx)
	require.NoError(t, err)
	require.Len(t, projects, 2)
	assert.Equal(t, "Admin Test Project", projects[0].Name)
	assert.Equal(t, "Website Redesign", projects[1].Name)
	assert.Equal(t, f.projectID, projects[1].ID)
}

func TestSeeder_Seed(t *testing.T) {
	ctx := context.Background()
	conn := setupTestDB(t)
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	result, err := NewSeeder(conn).Seed(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, SeedResult{
		Employees:   4,
		Projects:    3,
		Tasks:       11,
		Assignments: 12,
		TimeEntries: 11,
	}, result)

	again, err := NewSeeder(conn).Seed(ctx, now)
	require.NoError(t, err)
	assert.True(t, again.Skipped)

	ds := NewSQLiteDataSource(conn)
	projects, err := ds.ListProjects(ctx)
	require.NoError(t, err)
	require.Len(t, projects, 3)
	assert.Equal(t, "Admin Test Project", projects[0].Name)

	website := seedID("project", "Website Redesign")
	project, err := ds.LoadProjectWithTasks(ctx, website)
	require.NoError(t, err)
	assert.Len(t, project.Tasks, 7)
	require.NotNil(t, project.EndDate)
	assert.Equal(t, time.Date(2026, 4, 14, 0, 0, 0, 0, time.UTC), *project.EndDate)

	entries, err := ds.LoadTimeEntries(ctx, project.TaskIDs(), domain.TimeWindow{})
	require.NoError(t, err)
	assert.Len(t, entries, 8)
}

package persistence

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/doable/internal/reporting/domain"
	"github.com/felixgeelhaar/doable/internal/shared/infrastructure/database"
)

// SQLiteDataSource implements domain.DataSource on the local SQLite store.
// Timestamps are RFC 3339 UTC text.
type SQLiteDataSource struct {
	conn database.Connection
}

var _ domain.DataSource = (*SQLiteDataSource)(nil)

// NewSQLiteDataSource creates a new SQLite data source.
func NewSQLiteDataSource(conn database.Connection) *SQLiteDataSource {
	return &SQLiteDataSource{conn: conn}
}

func (s *SQLiteDataSource) executor(ctx context.Context) database.Executor {
	return database.ExecutorFromContext(ctx, s.conn)
}

// LoadProjectWithTasks loads a project and its non-archived tasks in insertion order.
func (s *SQLiteDataSource) LoadProjectWithTasks(ctx context.Context, projectID uuid.UUID) (*domain.Project, error) {
	exec := s.executor(ctx)

	var (
		project   = &domain.Project{ID: projectID}
		startDate string
		endDate   sql.NullString
	)
	err := exec.QueryRow(ctx, `
		SELECT name, status, start_date, end_date, is_archived
		FROM projects WHERE id = ?`, projectID.String(),
	).Scan(&project.Name, &project.Status, &startDate, &endDate, &project.IsArchived)
	if err != nil {
		if database.IsNoRows(err) {
			return nil, domain.ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	if project.StartDate, err = parseTime("start_date", startDate); err != nil {
		return nil, err
	}
	if project.EndDate, err = parseNullTime("end_date", endDate); err != nil {
		return nil, err
	}

	rows, err := exec.Query(ctx, `
		SELECT id, title, status, priority, due_date, completed_at
		FROM tasks
		WHERE project_id = ? AND is_archived = 0
		ORDER BY created_at, rowid`, projectID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to get tasks: %w", err)
	}
	defer rows.Close()

	project.Tasks = make([]domain.Task, 0)
	for rows.Next() {
		var (
			id, status, priority, dueDate string
			completedAt                   sql.NullString
			task                          = domain.Task{ProjectID: projectID}
		)
		if err := rows.Scan(&id, &task.Title, &status, &priority, &dueDate, &completedAt); err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		if task.ID, err = parseUUID("task id", id); err != nil {
			return nil, err
		}
		if task.DueDate, err = parseTime("due_date", dueDate); err != nil {
			return nil, err
		}
		if task.CompletedAt, err = parseNullTime("completed_at", completedAt); err != nil {
			return nil, err
		}
		task.Status = domain.ParseTaskStatus(status)
		task.Priority = domain.ParsePriority(priority)
		project.Tasks = append(project.Tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tasks: %w", err)
	}

	return project, nil
}

// LoadTimeEntries loads time entries for the tasks whose start date and end
// date fall inside the window.
func (s *SQLiteDataSource) LoadTimeEntries(ctx context.Context, taskIDs []uuid.UUID, window domain.TimeWindow) ([]domain.TimeEntry, error) {
	if len(taskIDs) == 0 {
		return []domain.TimeEntry{}, nil
	}

	query := `
		SELECT te.id, te.task_id, te.employee_id, COALESCE(e.first_name, ''), COALESCE(e.last_name, ''),
		       te.start_time, te.end_time, te.description
		FROM time_entries te
		LEFT JOIN employees e ON e.id = te.employee_id
		WHERE te.task_id IN (` + placeholders(len(taskIDs)) + `)`
	args := make([]any, 0, len(taskIDs)+2)
	for _, id := range uuidStrings(taskIDs) {
		args = append(args, id)
	}

	from, to := windowBounds(window)
	if from != "" {
		query += ` AND substr(te.start_time, 1, 10) >= ?`
		args = append(args, from)
	}
	if to != "" {
		query += ` AND substr(te.end_time, 1, 10) <= ?`
		args = append(args, to)
	}
	query += ` ORDER BY te.start_time, te.id`

	rows, err := s.executor(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get time entries: %w", err)
	}
	defer rows.Close()

	entries := make([]domain.TimeEntry, 0)
	for rows.Next() {
		var (
			id, taskID, first, last, start, end string
			entry                               domain.TimeEntry
		)
		if err := rows.Scan(&id, &taskID, &entry.EmployeeID, &first, &last, &start, &end, &entry.Description); err != nil {
			return nil, fmt.Errorf("failed to scan time entry: %w", err)
		}
		if entry.ID, err = parseUUID("time entry id", id); err != nil {
			return nil, err
		}
		if entry.TaskID, err = parseUUID("task id", taskID); err != nil {
			return nil, err
		}
		if entry.StartTime, err = parseTime("start_time", start); err != nil {
			return nil, err
		}
		if entry.EndTime, err = parseTime("end_time", end); err != nil {
			return nil, err
		}
		entry.EmployeeName = domain.FullName(first, last)
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate time entries: %w", err)
	}
	return entries, nil
}

// LoadTaskAssignments loads assignments for the tasks, oldest first.
func (s *SQLiteDataSource) LoadTaskAssignments(ctx context.Context, taskIDs []uuid.UUID) ([]domain.TaskAssignment, error) {
	if len(taskIDs) == 0 {
		return []domain.TaskAssignment{}, nil
	}

	args := make([]any, 0, len(taskIDs))
	for _, id := range uuidStrings(taskIDs) {
		args = append(args, id)
	}

	rows, err := s.executor(ctx).Query(ctx, `
		SELECT ta.task_id, ta.employee_id, COALESCE(e.first_name, ''), COALESCE(e.last_name, ''), ta.assigned_at
		FROM task_assignments ta
		LEFT JOIN employees e ON e.id = ta.employee_id
		WHERE ta.task_id IN (`+placeholders(len(taskIDs))+`)
		ORDER BY ta.assigned_at, ta.rowid`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get task assignments: %w", err)
	}
	defer rows.Close()

	assignments := make([]domain.TaskAssignment, 0)
	for rows.Next() {
		var (
			taskID, first, last, assignedAt string
			a                               domain.TaskAssignment
		)
		if err := rows.Scan(&taskID, &a.EmployeeID, &first, &last, &assignedAt); err != nil {
			return nil, fmt.Errorf("failed to scan task assignment: %w", err)
		}
		if a.TaskID, err = parseUUID("task id", taskID); err != nil {
			return nil, err
		}
		if a.AssignedAt, err = parseTime("assigned_at", assignedAt); err != nil {
			return nil, err
		}
		a.EmployeeName = domain.FullName(first, last)
		assignments = append(assignments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate task assignments: %w", err)
	}
	return assignments, nil
}

// ListProjects returns the non-archived projects ordered by name.
func (s *SQLiteDataSource) ListProjects(ctx context.Context) ([]domain.ProjectSummary, error) {
	rows, err := s.executor(ctx).Query(ctx, `
		SELECT id, name, status FROM projects
		WHERE is_archived = 0
		ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	projects := make([]domain.ProjectSummary, 0)
	for rows.Next() {
		var (
			id      string
			summary domain.ProjectSummary
		)
		if err := rows.Scan(&id, &summary.Name, &summary.Status); err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		if summary.ID, err = parseUUID("project id", id); err != nil {
			return nil, err
		}
		projects = append(projects, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate projects: %w", err)
	}
	return projects, nil
}

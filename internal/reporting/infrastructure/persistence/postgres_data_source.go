package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/felixgeelhaar/doable/internal/reporting/domain"
	"github.com/felixgeelhaar/doable/internal/shared/infrastructure/database"
)

// PostgresDataSource implements domain.DataSource on PostgreSQL. Window
// bounds are compared on UTC dates.
type PostgresDataSource struct {
	conn database.Connection
}

var _ domain.DataSource = (*PostgresDataSource)(nil)

// NewPostgresDataSource creates a new PostgreSQL data source.
func NewPostgresDataSource(conn database.Connection) *PostgresDataSource {
	return &PostgresDataSource{conn: conn}
}

func (s *PostgresDataSource) executor(ctx context.Context) database.Executor {
	return database.ExecutorFromContext(ctx, s.conn)
}

// LoadProjectWithTasks loads a project and its non-archived tasks in insertion order.
func (s *PostgresDataSource) LoadProjectWithTasks(ctx context.Context, projectID uuid.UUID) (*domain.Project, error) {
	exec := s.executor(ctx)

	project := &domain.Project{ID: projectID}
	err := exec.QueryRow(ctx, `
		SELECT name, status, start_date, end_date, is_archived
		FROM projects WHERE id = $1`, projectID,
	).Scan(&project.Name, &project.Status, &project.StartDate, &project.EndDate, &project.IsArchived)
	if err != nil {
		if database.IsNoRows(err) {
			return nil, domain.ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	project.StartDate = project.StartDate.UTC()
	project.EndDate = utcPtr(project.EndDate)

	rows, err := exec.Query(ctx, `
		SELECT id, title, status, priority, due_date, completed_at
		FROM tasks
		WHERE project_id = $1 AND NOT is_archived
		ORDER BY created_at, id`, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to get tasks: %w", err)
	}
	defer rows.Close()

	project.Tasks = make([]domain.Task, 0)
	for rows.Next() {
		var (
			status, priority string
			task             = domain.Task{ProjectID: projectID}
		)
		if err := rows.Scan(&task.ID, &task.Title, &status, &priority, &task.DueDate, &task.CompletedAt); err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		task.Status = domain.ParseTaskStatus(status)
		task.Priority = domain.ParsePriority(priority)
		task.DueDate = task.DueDate.UTC()
		task.CompletedAt = utcPtr(task.CompletedAt)
		project.Tasks = append(project.Tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tasks: %w", err)
	}

	return project, nil
}

// LoadTimeEntries loads time entries for the tasks whose start date and end
// date fall inside the window.
func (s *PostgresDataSource) LoadTimeEntries(ctx context.Context, taskIDs []uuid.UUID, window domain.TimeWindow) ([]domain.TimeEntry, error) {
	if len(taskIDs) == 0 {
		return []domain.TimeEntry{}, nil
	}

	query := `
		SELECT te.id, te.task_id, te.employee_id::text, COALESCE(e.first_name, ''), COALESCE(e.last_name, ''),
		       te.start_time, te.end_time, te.description
		FROM time_entries te
		LEFT JOIN employees e ON e.id = te.employee_id
		WHERE te.task_id = ANY($1::uuid[])`
	args := []any{pq.Array(uuidStrings(taskIDs))}

	from, to := windowBounds(window)
	if from != "" {
		args = append(args, from)
		query += fmt.Sprintf(` AND (te.start_time AT TIME ZONE 'UTC')::date >= $%d::date`, len(args))
	}
	if to != "" {
		args = append(args, to)
		query += fmt.Sprintf(` AND (te.end_time AT TIME ZONE 'UTC')::date <= $%d::date`, len(args))
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
			first, last string
			entry       domain.TimeEntry
		)
		if err := rows.Scan(&entry.ID, &entry.TaskID, &entry.EmployeeID, &first, &last,
			&entry.StartTime, &entry.EndTime, &entry.Description); err != nil {
			return nil, fmt.Errorf("failed to scan time entry: %w", err)
		}
		entry.StartTime = entry.StartTime.UTC()
		entry.EndTime = entry.EndTime.UTC()
		entry.EmployeeName = domain.FullName(first, last)
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate time entries: %w", err)
	}
	return entries, nil
}

// LoadTaskAssignments loads assignments for the tasks, oldest first.
func (s *PostgresDataSource) LoadTaskAssignments(ctx context.Context, taskIDs []uuid.UUID) ([]domain.TaskAssignment, error) {
	if len(taskIDs) == 0 {
		return []domain.TaskAssignment{}, nil
	}

	rows, err := s.executor(ctx).Query(ctx, `
		SELECT ta.task_id, ta.employee_id::text, COALESCE(e.first_name, ''), COALESCE(e.last_name, ''), ta.assigned_at
		FROM task_assignments ta
		LEFT JOIN employees e ON e.id = ta.employee_id
		WHERE ta.task_id = ANY($1::uuid[])
		ORDER BY ta.assigned_at, ta.task_id, ta.employee_id`, pq.Array(uuidStrings(taskIDs)))
	if err != nil {
		return nil, fmt.Errorf("failed to get task assignments: %w", err)
	}
	defer rows.Close()

	assignments := make([]domain.TaskAssignment, 0)
	for rows.Next() {
		var (
			first, last string
			a           domain.TaskAssignment
		)
		if err := rows.Scan(&a.TaskID, &a.EmployeeID, &first, &last, &a.AssignedAt); err != nil {
			return nil, fmt.Errorf("failed to scan task assignment: %w", err)
		}
		a.AssignedAt = a.AssignedAt.UTC()
		a.EmployeeName = domain.FullName(first, last)
		assignments = append(assignments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate task assignments: %w", err)
	}
	return assignments, nil
}

// ListProjects returns the non-archived projects ordered by name.
func (s *PostgresDataSource) ListProjects(ctx context.Context) ([]domain.ProjectSummary, error) {
	rows, err := s.executor(ctx).Query(ctx, `
		SELECT id, name, status FROM projects
		WHERE NOT is_archived
		ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	projects := make([]domain.ProjectSummary, 0)
	for rows.Next() {
		var summary domain.ProjectSummary
		if err := rows.Scan(&summary.ID, &summary.Name, &summary.Status); err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate projects: %w", err)
	}
	return projects, nil
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

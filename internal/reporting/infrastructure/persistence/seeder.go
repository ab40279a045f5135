package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/doable/internal/reporting/domain"
	sharedApplication "github.com/felixgeelhaar/doable/internal/shared/application"
	"github.com/felixgeelhaar/doable/internal/shared/infrastructure/database"
)

// seedNamespace derives stable ids so seeding twice yields the same records.
var seedNamespace = uuid.MustParse("6f1c54c4-2b1e-4f0e-9a43-5d2f0b6c9e11")

func seedID(kind, name string) uuid.UUID {
	return uuid.NewSHA1(seedNamespace, []byte(kind+"/"+name))
}

// SeedResult counts the records written by Seed.
type SeedResult struct {
	Employees   int
	Projects    int
	Tasks       int
	Assignments int
	TimeEntries int
	Skipped     bool
}

// Seeder writes a demo dataset for local use.
type Seeder struct {
	conn database.Connection
	uow  sharedApplication.UnitOfWork
}

// NewSeeder creates a seeder writing through conn in one transaction.
func NewSeeder(conn database.Connection) *Seeder {
	return &Seeder{conn: conn, uow: database.NewUnitOfWork(conn)}
}

type seedEmployee struct{ first, last string }

type seedTask struct {
	title     string
	status    domain.TaskStatus
	priority  domain.Priority
	dueInDays int
	assignees []int
	hours     []float64
}

type seedProject struct {
	name      string
	startDays int
	endDays   *int
	tasks     []seedTask
}

var (
	demoEmployees = []seedEmployee{
		{"Test", "ProjectManager"},
		{"Ada", "Lovelace"},
		{"Grace", "Hopper"},
		{"Alan", "Turing"},
	}

	websiteEnd = 30

	demoProjects = []seedProject{
		{
			name:      "Website Redesign",
			startDays: -60,
			endDays:   &websiteEnd,
			tasks: []seedTask{
				{"Gather requirements", domain.TaskStatusCompleted, domain.PriorityHigh, -45, []int{0}, []float64{6, 3.5}},
				{"Wireframes", domain.TaskStatusCompleted, domain.PriorityMedium, -30, []int{1}, []float64{8, 4.25}},
				{"Visual design", domain.TaskStatusInProgress, domain.PriorityHigh, -5, []int{1, 2}, []float64{7.5}},
				{"Frontend build", domain.TaskStatusInProgress, domain.PriorityCritical, 10, []int{2}, []float64{5, 6}},
				{"Content migration", domain.TaskStatusNotStarted, domain.PriorityMedium, -2, []int{3}, nil},
				{"Accessibility review", domain.TaskStatusForReview, domain.PriorityLow, 20, []int{1}, []float64{2}},
				{"Launch checklist", domain.TaskStatusNotStarted, domain.PriorityHigh, 28, nil, nil},
			},
		},
		{
			name:      "Mobile App Development",
			startDays: -20,
			tasks: []seedTask{
				{"API contract", domain.TaskStatusCompleted, domain.PriorityHigh, -10, []int{3}, []float64{4}},
				{"Authentication screens", domain.TaskStatusInProgress, domain.PriorityHigh, 5, []int{2, 3}, []float64{3.75}},
				{"Offline sync", domain.TaskStatusNeedsRevision, domain.PriorityCritical, -1, []int{3}, []float64{9}},
				{"Store listing", domain.TaskStatusPendingApproval, domain.PriorityLow, 40, []int{0}, nil},
			},
		},
		{
			name:      "Admin Test Project",
			startDays: -5,
		},
	}
)

// Seed writes the demo dataset relative to now. It does nothing when any
// project already exists.
func (s *Seeder) Seed(ctx context.Context, now time.Time) (SeedResult, error) {
	var result SeedResult
	driver := s.conn.Driver()
	day := domain.Day(now)

	err := sharedApplication.WithUnitOfWork(ctx, s.uow, func(ctx context.Context) error {
		exec := database.ExecutorFromContext(ctx, s.conn)
		exec = rebindExecutor{Executor: exec, driver: driver}

		var count int
		if err := exec.QueryRow(ctx, `SELECT COUNT(*) FROM projects`).Scan(&count); err != nil {
			return fmt.Errorf("failed to count projects: %w", err)
		}
		if count > 0 {
			result.Skipped = true
			return nil
		}

		employeeIDs := make([]uuid.UUID, len(demoEmployees))
		for i, e := range demoEmployees {
			employeeIDs[i] = seedID("employee", e.first+" "+e.last)
			if _, err := exec.Exec(ctx, `INSERT INTO employees (id, first_name, last_name) VALUES (?, ?, ?)`,
				employeeIDs[i].String(), e.first, e.last); err != nil {
				return fmt.Errorf("failed to seed employee: %w", err)
			}
			result.Employees++
		}

		for _, p := range demoProjects {
			projectID := seedID("project", p.name)
			var endDate sql.NullString
			if p.endDays != nil {
				endDate = formatNullTime(ptrTime(day.AddDate(0, 0, *p.endDays)))
			}
			if _, err := exec.Exec(ctx, `
				INSERT INTO projects (id, name, status, start_date, end_date, is_archived, created_at)
				VALUES (?, ?, ?, ?, ?, ?, ?)`,
				projectID.String(), p.name, "In Progress", formatTime(day.AddDate(0, 0, p.startDays)),
				endDate, false, formatTime(day.AddDate(0, 0, p.startDays))); err != nil {
				return fmt.Errorf("failed to seed project %s: %w", p.name, err)
			}
			result.Projects++

			for i, t := range p.tasks {
				if err := s.seedTask(ctx, exec, day, projectID, p, i, t, employeeIDs, &result); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return SeedResult{}, err
	}
	return result, nil
}

func (s *Seeder) seedTask(
	ctx context.Context,
	exec database.Executor,
	day time.Time,
	projectID uuid.UUID,
	p seedProject,
	index int,
	t seedTask,
	employeeIDs []uuid.UUID,
	result *SeedResult,
) error {
	taskID := seedID("task", p.name+"/"+t.title)
	created := day.AddDate(0, 0, p.startDays).Add(time.Duration(index) * time.Minute)

	var completedAt sql.NullString
	if t.status == domain.TaskStatusCompleted {
		completedAt = formatNullTime(ptrTime(day.AddDate(0, 0, t.dueInDays-1)))
	}
	if _, err := exec.Exec(ctx, `
		INSERT INTO tasks (id, project_id, title, status, priority, due_date, completed_at, is_archived, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		taskID.String(), projectID.String(), t.title, t.status.String(), t.priority.String(),
		formatTime(day.AddDate(0, 0, t.dueInDays)), completedAt, false, formatTime(created)); err != nil {
		return fmt.Errorf("failed to seed task %s: %w", t.title, err)
	}
	result.Tasks++

	for n, e := range t.assignees {
		if _, err := exec.Exec(ctx, `INSERT INTO task_assignments (task_id, employee_id, assigned_at) VALUES (?, ?, ?)`,
			taskID.String(), employeeIDs[e].String(), formatTime(created.Add(time.Duration(n)*time.Second))); err != nil {
			return fmt.Errorf("failed to seed assignment for %s: %w", t.title, err)
		}
		result.Assignments++
	}

	for n, hours := range t.hours {
		if len(t.assignees) == 0 {
			break
		}
		start := day.AddDate(0, 0, -(n*3 + index + 1)).Add(9 * time.Hour)
		end := start.Add(time.Duration(hours * float64(time.Hour)))
		employee := employeeIDs[t.assignees[n%len(t.assignees)]]
		if _, err := exec.Exec(ctx, `
			INSERT INTO time_entries (id, task_id, employee_id, start_time, end_time, description, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			seedID("time_entry", fmt.Sprintf("%s/%d", taskID, n)).String(), taskID.String(), employee.String(),
			formatTime(start), formatTime(end), "Worked on "+t.title, formatTime(end)); err != nil {
			return fmt.Errorf("failed to seed time entry for %s: %w", t.title, err)
		}
		result.TimeEntries++
	}
	return nil
}

// rebindExecutor rewrites '?' placeholders for the connection's driver.
type rebindExecutor struct {
	database.Executor
	driver database.Driver
}

func (e rebindExecutor) Exec(ctx context.Context, query string, args ...any) (database.Result, error) {
	return e.Executor.Exec(ctx, database.Rebind(e.driver, query), args...)
}

func (e rebindExecutor) QueryRow(ctx context.Context, query string, args ...any) database.Row {
	return e.Executor.QueryRow(ctx, database.Rebind(e.driver, query), args...)
}

func (e rebindExecutor) Query(ctx context.Context, query string, args ...any) (database.Rows, error) {
	return e.Executor.Query(ctx, database.Rebind(e.driver, query), args...)
}

func ptrTime(t time.Time) *time.Time {
	return &t
}

package domain

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Project is the reporting view of a project and its tasks.
type Project struct {
	ID         uuid.UUID
	Name       string
	Status     string
	StartDate  time.Time
	EndDate    *time.Time
	IsArchived bool
	Tasks      []Task
}

// ActiveTasks returns the non-archived tasks in stored order.
func (p *Project) ActiveTasks() []Task {
	active := make([]Task, 0, len(p.Tasks))
	for _, t := range p.Tasks {
		if !t.IsArchived {
			active = append(active, t)
		}
	}
	return active
}

// TaskIDs returns the IDs of the non-archived tasks.
func (p *Project) TaskIDs() []uuid.UUID {
	active := p.ActiveTasks()
	ids := make([]uuid.UUID, len(active))
	for i, t := range active {
		ids[i] = t.ID
	}
	return ids
}

// ProjectSummary identifies a project that reports can be generated for.
type ProjectSummary struct {
	ID     uuid.UUID `json:"id" yaml:"id"`
	Name   string    `json:"name" yaml:"name"`
	Status string    `json:"status" yaml:"status"`
}

// TaskAssignment links an employee to a task.
type TaskAssignment struct {
	TaskID       uuid.UUID
	EmployeeID   string
	EmployeeName string
	AssignedAt   time.Time
}

// FullName joins first and last name the way employee names are displayed.
func FullName(first, last string) string {
	return strings.TrimSpace(first + " " + last)
}

// DataSource loads the raw records reports are computed from.
// Implementations must exclude archived tasks from LoadProjectWithTasks.
type DataSource interface {
	// LoadProjectWithTasks returns the project and its non-archived tasks,
	// or ErrProjectNotFound.
	LoadProjectWithTasks(ctx context.Context, projectID uuid.UUID) (*Project, error)

	// LoadTimeEntries returns time entries for the given tasks within the window.
	LoadTimeEntries(ctx context.Context, taskIDs []uuid.UUID, window TimeWindow) ([]TimeEntry, error)

	// LoadTaskAssignments returns assignments for the given tasks with employee names resolved.
	LoadTaskAssignments(ctx context.Context, taskIDs []uuid.UUID) ([]TaskAssignment, error)

	// ListProjects returns the non-archived projects.
	ListProjects(ctx context.Context) ([]ProjectSummary, error)
}

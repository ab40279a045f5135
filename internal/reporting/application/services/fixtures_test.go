package services

import (
	"time"

	"github.com/felixgeelhaar/doable/internal/reporting/domain"
	"github.com/google/uuid"
)

var testNow = time.Date(2024, 6, 12, 12, 0, 0, 0, time.UTC)

type projectBuilder struct {
	project *domain.Project
}

func newProject(name string) *projectBuilder {
	return &projectBuilder{project: &domain.Project{
		ID:        uuid.New(),
		Name:      name,
		Status:    "In Progress",
		StartDate: testNow.AddDate(0, -2, 0),
	}}
}

func (b *projectBuilder) task(title string, status domain.TaskStatus, due time.Time) *projectBuilder {
	t := domain.Task{
		ID:        uuid.New(),
		ProjectID: b.project.ID,
		Title:     title,
		Status:    status,
		Priority:  domain.PriorityMedium,
		DueDate:   due,
	}
	if status == domain.TaskStatusCompleted {
		c := due.Add(-time.Hour)
		t.CompletedAt = &c
	}
	b.project.Tasks = append(b.project.Tasks, t)
	return b
}

func (b *projectBuilder) archived(title string, status domain.TaskStatus) *projectBuilder {
	b.task(title, status, testNow.AddDate(0, 0, -30))
	b.project.Tasks[len(b.project.Tasks)-1].IsArchived = true
	return b
}

func (b *projectBuilder) build() *domain.Project {
	return b.project
}

func future(days int) time.Time { return testNow.AddDate(0, 0, days) }
func past(days int) time.Time   { return testNow.AddDate(0, 0, -days) }

func assign(task domain.Task, employeeID, name string) domain.TaskAssignment {
	return domain.TaskAssignment{
		TaskID:       task.ID,
		EmployeeID:   employeeID,
		EmployeeName: name,
		AssignedAt:   testNow.AddDate(0, 0, -7),
	}
}

func entry(task domain.Task, employeeID, name string, start time.Time, d time.Duration) domain.TimeEntry {
	return domain.TimeEntry{
		ID:           uuid.New(),
		TaskID:       task.ID,
		EmployeeID:   employeeID,
		EmployeeName: name,
		StartTime:    start,
		EndTime:      start.Add(d),
	}
}

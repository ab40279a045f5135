package services

import (
	"strings"
	"time"

	"github.com/felixgeelhaar/doable/internal/reporting/domain"
	"github.com/google/uuid"
)

// BuildStatusReport partitions the project's active tasks into completed,
// in-progress and upcoming (not started) lists. Tasks in review, revision or
// approval states are counted in TotalTasks but listed nowhere.
func BuildStatusReport(project *domain.Project, assignments []domain.TaskAssignment, now time.Time) *domain.StatusReport {
	if project == nil {
		return domain.EmptyStatusReport(uuid.Nil, now)
	}

	report := domain.EmptyStatusReport(project.ID, now)
	report.ProjectName = project.Name

	assignees := assigneeNames(assignments)
	tasks := project.ActiveTasks()
	completed := 0

	for _, task := range tasks {
		item := toStatusItem(task, assignees[task.ID])
		switch task.Status {
		case domain.TaskStatusCompleted:
			completed++
			report.CompletedTasks = append(report.CompletedTasks, item)
		case domain.TaskStatusInProgress:
			report.InProgressTasks = append(report.InProgressTasks, item)
		case domain.TaskStatusNotStarted:
			report.UpcomingTasks = append(report.UpcomingTasks, item)
		}
	}

	report.TotalTasks = len(tasks)
	report.CompletionPercentage = percentOf(completed, len(tasks))
	return report
}

func toStatusItem(task domain.Task, names []string) domain.TaskStatusItem {
	assignedTo := domain.Unassigned
	if len(names) > 0 {
		assignedTo = strings.Join(names, ", ")
	}
	return domain.TaskStatusItem{
		TaskID:      task.ID,
		Title:       task.Title,
		Priority:    task.Priority.String(),
		DueDate:     task.DueDate,
		CompletedAt: task.CompletedAt,
		AssignedTo:  assignedTo,
		Status:      task.Status.DisplayName(),
	}
}

// assigneeNames groups employee names by task in assignment order,
// skipping repeated employees on the same task.
func assigneeNames(assignments []domain.TaskAssignment) map[uuid.UUID][]string {
	names := make(map[uuid.UUID][]string)
	seen := make(map[uuid.UUID]map[string]bool)
	for _, a := range assignments {
		if seen[a.TaskID] == nil {
			seen[a.TaskID] = make(map[string]bool)
		}
		if seen[a.TaskID][a.EmployeeID] {
			continue
		}
		seen[a.TaskID][a.EmployeeID] = true
		names[a.TaskID] = append(names[a.TaskID], a.EmployeeName)
	}
	return names
}

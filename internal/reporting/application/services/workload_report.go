package services

import (
	"fmt"
	"sort"
	"time"

	"github.com/felixgeelhaar/doable/internal/reporting/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BuildWorkloadReport counts each employee's assignments on the project's
// active tasks and flags employees with overdue or too much in-progress work.
// Employees are accumulated in task order, then by assignment order.
func BuildWorkloadReport(project *domain.Project, assignments []domain.TaskAssignment, now time.Time) *domain.WorkloadReport {
	if project == nil {
		return domain.EmptyWorkloadReport(uuid.Nil, now)
	}

	report := domain.EmptyWorkloadReport(project.ID, now)
	report.ProjectName = project.Name

	byTask := make(map[uuid.UUID][]domain.TaskAssignment)
	for _, a := range assignments {
		byTask[a.TaskID] = append(byTask[a.TaskID], a)
	}

	var employees []*domain.EmployeeWorkloadItem
	index := make(map[string]*domain.EmployeeWorkloadItem)

	for _, task := range project.ActiveTasks() {
		overdue := task.IsOverdue(now)
		seen := make(map[string]bool)
		for _, a := range byTask[task.ID] {
			if seen[a.EmployeeID] {
				continue
			}
			seen[a.EmployeeID] = true

			emp, ok := index[a.EmployeeID]
			if !ok {
				emp = &domain.EmployeeWorkloadItem{
					EmployeeID:   a.EmployeeID,
					EmployeeName: a.EmployeeName,
					Tasks:        []domain.AssignedTaskDetail{},
				}
				index[a.EmployeeID] = emp
				employees = append(employees, emp)
			}

			emp.AssignedTaskCount++
			switch task.Status {
			case domain.TaskStatusCompleted:
				emp.CompletedTaskCount++
			case domain.TaskStatusInProgress:
				emp.InProgressTaskCount++
			}
			if overdue {
				emp.OverdueTaskCount++
			}
			emp.Tasks = append(emp.Tasks, domain.AssignedTaskDetail{
				TaskID:    task.ID,
				TaskTitle: task.Title,
				Status:    task.Status.DisplayName(),
				Priority:  task.Priority.String(),
				DueDate:   task.DueDate,
				IsOverdue: overdue,
			})
		}
	}

	if len(employees) == 0 {
		return report
	}

	maxAssigned, totalAssigned := 0, 0
	mostLoaded, leastLoaded := employees[0], employees[0]
	for _, emp := range employees {
		totalAssigned += emp.AssignedTaskCount
		if emp.AssignedTaskCount > maxAssigned {
			maxAssigned = emp.AssignedTaskCount
		}
		if emp.AssignedTaskCount > mostLoaded.AssignedTaskCount {
			mostLoaded = emp
		}
		if emp.AssignedTaskCount < leastLoaded.AssignedTaskCount {
			leastLoaded = emp
		}
	}
	if maxAssigned == 0 {
		maxAssigned = 1
	}

	for _, emp := range employees {
		emp.WorkloadPercentage = percentOf(emp.AssignedTaskCount, maxAssigned)
		if alert, ok := overallocation(emp); ok {
			report.OverallocationAlerts = append(report.OverallocationAlerts, alert)
		}
	}

	report.AverageTasksPerEmployee = decimal.NewFromInt(int64(totalAssigned)).
		Div(decimal.NewFromInt(int64(len(employees))))
	report.MostLoadedEmployee = mostLoaded.EmployeeName
	report.LeastLoadedEmployee = leastLoaded.EmployeeName

	sorted := make([]domain.EmployeeWorkloadItem, len(employees))
	for i, emp := range employees {
		sorted[i] = *emp
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].AssignedTaskCount > sorted[j].AssignedTaskCount
	})
	report.EmployeeWorkloads = sorted

	return report
}

// IsOverallocated reports whether an employee has overdue work or more
// in-progress tasks than the overallocation threshold.
func IsOverallocated(overdue, inProgress int) bool {
	return overdue > 0 || inProgress > domain.OverallocatedInProgressCount
}

// AlertSeverity returns the severity of an overallocation alert.
func AlertSeverity(overdue, inProgress int) domain.Severity {
	if overdue > domain.HighSeverityOverdueCount || inProgress > domain.HighSeverityInProgressCount {
		return domain.SeverityHigh
	}
	return domain.SeverityMedium
}

func overallocation(emp *domain.EmployeeWorkloadItem) (domain.OverallocationAlert, bool) {
	if !IsOverallocated(emp.OverdueTaskCount, emp.InProgressTaskCount) {
		return domain.OverallocationAlert{}, false
	}

	recommendation := fmt.Sprintf("Consider redistributing some of %s's tasks", emp.EmployeeName)
	if emp.OverdueTaskCount > 0 {
		recommendation = fmt.Sprintf("Address %d overdue tasks urgently", emp.OverdueTaskCount)
	}

	return domain.OverallocationAlert{
		EmployeeID:       emp.EmployeeID,
		EmployeeName:     emp.EmployeeName,
		TaskCount:        emp.AssignedTaskCount,
		OverdueTaskCount: emp.OverdueTaskCount,
		SeverityLevel:    AlertSeverity(emp.OverdueTaskCount, emp.InProgressTaskCount),
		Recommendation:   recommendation,
	}, true
}

package services

import (
	"sort"
	"time"

	"github.com/felixgeelhaar/doable/internal/reporting/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type employeeTime struct {
	id    string
	name  string
	hours decimal.Decimal
	tasks map[uuid.UUID]struct{}
}

type periodTime struct {
	start time.Time
	hours decimal.Decimal
	tasks map[uuid.UUID]struct{}
}

// BuildTimeTrackingReport aggregates the hours logged against the project's
// active tasks by task, employee, day and week. Entries for other tasks or
// outside the window are ignored.
func BuildTimeTrackingReport(project *domain.Project, entries []domain.TimeEntry, window domain.TimeWindow, now time.Time) *domain.TimeTrackingReport {
	if project == nil {
		return domain.EmptyTimeTrackingReport(uuid.Nil, window, now)
	}

	report := domain.EmptyTimeTrackingReport(project.ID, window, now)
	report.ProjectName = project.Name

	tasks := project.ActiveTasks()
	known := make(map[uuid.UUID]bool, len(tasks))
	for _, t := range tasks {
		known[t.ID] = true
	}

	taskHours := make(map[uuid.UUID]decimal.Decimal)
	var employees []*employeeTime
	employeeIndex := make(map[string]*employeeTime)
	days := make(map[time.Time]*periodTime)
	weeks := make(map[time.Time]*periodTime)

	for _, entry := range entries {
		if !known[entry.TaskID] || !window.Contains(entry) {
			continue
		}
		hours := entry.Hours()

		taskHours[entry.TaskID] = taskHours[entry.TaskID].Add(hours)

		emp, ok := employeeIndex[entry.EmployeeID]
		if !ok {
			emp = &employeeTime{
				id:    entry.EmployeeID,
				name:  entry.EmployeeName,
				tasks: make(map[uuid.UUID]struct{}),
			}
			employeeIndex[entry.EmployeeID] = emp
			employees = append(employees, emp)
		}
		emp.hours = emp.hours.Add(hours)
		emp.tasks[entry.TaskID] = struct{}{}

		addPeriod(days, domain.Day(entry.StartTime), entry.TaskID, hours)
		addPeriod(weeks, domain.WeekStart(entry.StartTime), entry.TaskID, hours)
	}

	total := decimal.Zero
	for _, t := range tasks {
		hours, ok := taskHours[t.ID]
		if !ok || !hours.IsPositive() {
			continue
		}
		total = total.Add(hours)
		report.TaskTimes = append(report.TaskTimes, domain.TaskTimeItem{
			TaskID:    t.ID,
			TaskTitle: t.Title,
			Hours:     hours,
			Status:    t.Status.DisplayName(),
		})
	}
	sort.SliceStable(report.TaskTimes, func(i, j int) bool {
		return report.TaskTimes[i].Hours.GreaterThan(report.TaskTimes[j].Hours)
	})

	for _, emp := range employees {
		taskCount := len(emp.tasks)
		avg := decimal.Zero
		if taskCount > 0 {
			avg = emp.hours.Div(decimal.NewFromInt(int64(taskCount)))
		}
		report.EmployeeTimes = append(report.EmployeeTimes, domain.EmployeeTimeItem{
			EmployeeID:          emp.id,
			EmployeeName:        emp.name,
			TotalHours:          emp.hours,
			TaskCount:           taskCount,
			AverageHoursPerTask: avg,
		})
	}
	sort.SliceStable(report.EmployeeTimes, func(i, j int) bool {
		return report.EmployeeTimes[i].TotalHours.GreaterThan(report.EmployeeTimes[j].TotalHours)
	})

	for _, day := range sortedPeriods(days) {
		report.DailyBreakdown = append(report.DailyBreakdown, domain.DailyTimeItem{
			Date:      day.start,
			Hours:     day.hours,
			TaskCount: len(day.tasks),
		})
	}

	for _, week := range sortedPeriods(weeks) {
		report.WeeklyBreakdown = append(report.WeeklyBreakdown, domain.WeeklyTimeItem{
			WeekStartDate: week.start,
			WeekEndDate:   week.start.AddDate(0, 0, 6),
			Hours:         week.hours,
			TaskCount:     len(week.tasks),
		})
	}

	report.TotalHours = total
	return report
}

func addPeriod(periods map[time.Time]*periodTime, start time.Time, taskID uuid.UUID, hours decimal.Decimal) {
	p, ok := periods[start]
	if !ok {
		p = &periodTime{start: start, tasks: make(map[uuid.UUID]struct{})}
		periods[start] = p
	}
	p.hours = p.hours.Add(hours)
	p.tasks[taskID] = struct{}{}
}

func sortedPeriods(periods map[time.Time]*periodTime) []*periodTime {
	out := make([]*periodTime, 0, len(periods))
	for _, p := range periods {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].start.Before(out[j].start)
	})
	return out
}

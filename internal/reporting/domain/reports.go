package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReportType identifies one of the four report views.
type ReportType string

const (
	ReportTypeStatus       ReportType = "status"
	ReportTypeTimeTracking ReportType = "time_tracking"
	ReportTypeWorkload     ReportType = "workload"
	ReportTypeProgress     ReportType = "progress"
)

// AllReportTypes lists the report types in display order.
func AllReportTypes() []ReportType {
	return []ReportType{ReportTypeStatus, ReportTypeTimeTracking, ReportTypeWorkload, ReportTypeProgress}
}

// String returns the string representation of the report type.
func (r ReportType) String() string {
	return string(r)
}

// ParseReportType parses a report type name. Separators and case are ignored,
// so "TimeTracking", "time-tracking" and "time_tracking" are equivalent.
func ParseReportType(s string) (ReportType, error) {
	key := strings.NewReplacer("_", "", "-", "", " ", "").Replace(strings.ToLower(strings.TrimSpace(s)))
	switch key {
	case "status":
		return ReportTypeStatus, nil
	case "timetracking", "time":
		return ReportTypeTimeTracking, nil
	case "workload":
		return ReportTypeWorkload, nil
	case "progress":
		return ReportTypeProgress, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidReportType, s)
	}
}

// StatusReport partitions a project's tasks by lifecycle state.
type StatusReport struct {
	ProjectID            uuid.UUID        `json:"project_id" yaml:"project_id"`
	ProjectName          string           `json:"project_name" yaml:"project_name"`
	GeneratedDate        time.Time        `json:"generated_date" yaml:"generated_date"`
	CompletedTasks       []TaskStatusItem `json:"completed_tasks" yaml:"completed_tasks"`
	InProgressTasks      []TaskStatusItem `json:"in_progress_tasks" yaml:"in_progress_tasks"`
	UpcomingTasks        []TaskStatusItem `json:"upcoming_tasks" yaml:"upcoming_tasks"`
	TotalTasks           int              `json:"total_tasks" yaml:"total_tasks"`
	CompletionPercentage decimal.Decimal  `json:"completion_percentage" yaml:"completion_percentage"`
}

// TaskStatusItem is a task as listed in a status report.
type TaskStatusItem struct {
	TaskID      uuid.UUID  `json:"task_id" yaml:"task_id"`
	Title       string     `json:"title" yaml:"title"`
	Priority    string     `json:"priority" yaml:"priority"`
	DueDate     time.Time  `json:"due_date" yaml:"due_date"`
	CompletedAt *time.Time `json:"completed_at,omitempty" yaml:"completed_at,omitempty"`
	AssignedTo  string     `json:"assigned_to" yaml:"assigned_to"`
	Status      string     `json:"status" yaml:"status"`
}

// TimeTrackingReport aggregates logged hours.
type TimeTrackingReport struct {
	ProjectID       uuid.UUID          `json:"project_id" yaml:"project_id"`
	ProjectName     string             `json:"project_name" yaml:"project_name"`
	GeneratedDate   time.Time          `json:"generated_date" yaml:"generated_date"`
	StartDate       *time.Time         `json:"start_date,omitempty" yaml:"start_date,omitempty"`
	EndDate         *time.Time         `json:"end_date,omitempty" yaml:"end_date,omitempty"`
	TaskTimes       []TaskTimeItem     `json:"task_times" yaml:"task_times"`
	EmployeeTimes   []EmployeeTimeItem `json:"employee_times" yaml:"employee_times"`
	DailyBreakdown  []DailyTimeItem    `json:"daily_breakdown" yaml:"daily_breakdown"`
	WeeklyBreakdown []WeeklyTimeItem   `json:"weekly_breakdown" yaml:"weekly_breakdown"`
	TotalHours      decimal.Decimal    `json:"total_hours" yaml:"total_hours"`
}

// TaskTimeItem is the hours logged against one task.
type TaskTimeItem struct {
	TaskID    uuid.UUID       `json:"task_id" yaml:"task_id"`
	TaskTitle string          `json:"task_title" yaml:"task_title"`
	Hours     decimal.Decimal `json:"hours" yaml:"hours"`
	Status    string          `json:"status" yaml:"status"`
}

// EmployeeTimeItem is the hours logged by one employee.
type EmployeeTimeItem struct {
	EmployeeID          string          `json:"employee_id" yaml:"employee_id"`
	EmployeeName        string          `json:"employee_name" yaml:"employee_name"`
	TotalHours          decimal.Decimal `json:"total_hours" yaml:"total_hours"`
	TaskCount           int             `json:"task_count" yaml:"task_count"`
	AverageHoursPerTask decimal.Decimal `json:"average_hours_per_task" yaml:"average_hours_per_task"`
}

// DailyTimeItem is the hours logged on one calendar day.
type DailyTimeItem struct {
	Date      time.Time       `json:"date" yaml:"date"`
	Hours     decimal.Decimal `json:"hours" yaml:"hours"`
	TaskCount int             `json:"task_count" yaml:"task_count"`
}

// WeeklyTimeItem is the hours logged in one Monday-to-Sunday week.
type WeeklyTimeItem struct {
	WeekStartDate time.Time       `json:"week_start_date" yaml:"week_start_date"`
	WeekEndDate   time.Time       `json:"week_end_date" yaml:"week_end_date"`
	Hours         decimal.Decimal `json:"hours" yaml:"hours"`
	TaskCount     int             `json:"task_count" yaml:"task_count"`
}

// WorkloadReport aggregates task assignments per employee.
type WorkloadReport struct {
	ProjectID               uuid.UUID              `json:"project_id" yaml:"project_id"`
	ProjectName             string                 `json:"project_name" yaml:"project_name"`
	GeneratedDate           time.Time              `json:"generated_date" yaml:"generated_date"`
	EmployeeWorkloads       []EmployeeWorkloadItem `json:"employee_workloads" yaml:"employee_workloads"`
	OverallocationAlerts    []OverallocationAlert  `json:"overallocation_alerts" yaml:"overallocation_alerts"`
	AverageTasksPerEmployee decimal.Decimal        `json:"average_tasks_per_employee" yaml:"average_tasks_per_employee"`
	MostLoadedEmployee      string                 `json:"most_loaded_employee" yaml:"most_loaded_employee"`
	LeastLoadedEmployee     string                 `json:"least_loaded_employee" yaml:"least_loaded_employee"`
}

// EmployeeWorkloadItem counts one employee's assigned tasks.
type EmployeeWorkloadItem struct {
	EmployeeID          string               `json:"employee_id" yaml:"employee_id"`
	EmployeeName        string               `json:"employee_name" yaml:"employee_name"`
	AssignedTaskCount   int                  `json:"assigned_task_count" yaml:"assigned_task_count"`
	CompletedTaskCount  int                  `json:"completed_task_count" yaml:"completed_task_count"`
	InProgressTaskCount int                  `json:"in_progress_task_count" yaml:"in_progress_task_count"`
	OverdueTaskCount    int                  `json:"overdue_task_count" yaml:"overdue_task_count"`
	WorkloadPercentage  decimal.Decimal      `json:"workload_percentage" yaml:"workload_percentage"`
	Tasks               []AssignedTaskDetail `json:"tasks" yaml:"tasks"`
}

// AssignedTaskDetail is a task as listed under an employee's workload.
type AssignedTaskDetail struct {
	TaskID    uuid.UUID `json:"task_id" yaml:"task_id"`
	TaskTitle string    `json:"task_title" yaml:"task_title"`
	Status    string    `json:"status" yaml:"status"`
	Priority  string    `json:"priority" yaml:"priority"`
	DueDate   time.Time `json:"due_date" yaml:"due_date"`
	IsOverdue bool      `json:"is_overdue" yaml:"is_overdue"`
}

// OverallocationAlert warns that an employee has too much open work.
type OverallocationAlert struct {
	EmployeeID       string   `json:"employee_id" yaml:"employee_id"`
	EmployeeName     string   `json:"employee_name" yaml:"employee_name"`
	TaskCount        int      `json:"task_count" yaml:"task_count"`
	OverdueTaskCount int      `json:"overdue_task_count" yaml:"overdue_task_count"`
	SeverityLevel    Severity `json:"severity_level" yaml:"severity_level"`
	Recommendation   string   `json:"recommendation" yaml:"recommendation"`
}

// ProgressReport summarizes completion, milestones and project health.
type ProgressReport struct {
	ProjectID              uuid.UUID              `json:"project_id" yaml:"project_id"`
	ProjectName            string                 `json:"project_name" yaml:"project_name"`
	GeneratedDate          time.Time              `json:"generated_date" yaml:"generated_date"`
	CompletionPercentage   decimal.Decimal        `json:"completion_percentage" yaml:"completion_percentage"`
	ProjectStartDate       time.Time              `json:"project_start_date" yaml:"project_start_date"`
	ProjectEndDate         *time.Time             `json:"project_end_date,omitempty" yaml:"project_end_date,omitempty"`
	ProjectExpectedEndDate *time.Time             `json:"project_expected_end_date,omitempty" yaml:"project_expected_end_date,omitempty"`
	ProjectStatus          string                 `json:"project_status" yaml:"project_status"`
	Milestones             []MilestoneItem        `json:"milestones" yaml:"milestones"`
	TaskBreakdown          TaskBreakdown          `json:"task_breakdown" yaml:"task_breakdown"`
	HealthIndicator        ProjectHealthIndicator `json:"health_indicator" yaml:"health_indicator"`
}

// MilestoneItem is a synthesized slice of the due-date ordered task list.
type MilestoneItem struct {
	MilestoneIndex int             `json:"milestone_index" yaml:"milestone_index"`
	Title          string          `json:"title" yaml:"title"`
	TargetDate     time.Time       `json:"target_date" yaml:"target_date"`
	IsCompleted    bool            `json:"is_completed" yaml:"is_completed"`
	CompletedDate  *time.Time      `json:"completed_date,omitempty" yaml:"completed_date,omitempty"`
	Status         MilestoneStatus `json:"status" yaml:"status"`
	Description    string          `json:"description" yaml:"description"`
	TaskCount      int             `json:"task_count" yaml:"task_count"`
}

// TaskBreakdown counts tasks by state.
type TaskBreakdown struct {
	TotalTasks      int `json:"total_tasks" yaml:"total_tasks"`
	CompletedTasks  int `json:"completed_tasks" yaml:"completed_tasks"`
	InProgressTasks int `json:"in_progress_tasks" yaml:"in_progress_tasks"`
	NotStartedTasks int `json:"not_started_tasks" yaml:"not_started_tasks"`
	OverdueTasks    int `json:"overdue_tasks" yaml:"overdue_tasks"`
}

// ProjectHealthIndicator is the qualitative health assessment of a project.
type ProjectHealthIndicator struct {
	OverallHealth  OverallHealth  `json:"overall_health" yaml:"overall_health"`
	ScheduleHealth ScheduleHealth `json:"schedule_health" yaml:"schedule_health"`
	ResourceHealth ResourceHealth `json:"resource_health" yaml:"resource_health"`
	QualityHealth  QualityHealth  `json:"quality_health" yaml:"quality_health"`
	Risks          []string       `json:"risks" yaml:"risks"`
	Achievements   []string       `json:"achievements" yaml:"achievements"`
}

// EmptyStatusReport is returned when the project does not exist.
func EmptyStatusReport(projectID uuid.UUID, now time.Time) *StatusReport {
	return &StatusReport{
		ProjectID:       projectID,
		GeneratedDate:   now.UTC(),
		CompletedTasks:  []TaskStatusItem{},
		InProgressTasks: []TaskStatusItem{},
		UpcomingTasks:   []TaskStatusItem{},
	}
}

// EmptyTimeTrackingReport is returned when the project does not exist.
func EmptyTimeTrackingReport(projectID uuid.UUID, window TimeWindow, now time.Time) *TimeTrackingReport {
	return &TimeTrackingReport{
		ProjectID:       projectID,
		GeneratedDate:   now.UTC(),
		StartDate:       window.Start,
		EndDate:         window.End,
		TaskTimes:       []TaskTimeItem{},
		EmployeeTimes:   []EmployeeTimeItem{},
		DailyBreakdown:  []DailyTimeItem{},
		WeeklyBreakdown: []WeeklyTimeItem{},
	}
}

// EmptyWorkloadReport is returned when the project does not exist.
func EmptyWorkloadReport(projectID uuid.UUID, now time.Time) *WorkloadReport {
	return &WorkloadReport{
		ProjectID:            projectID,
		GeneratedDate:        now.UTC(),
		EmployeeWorkloads:    []EmployeeWorkloadItem{},
		OverallocationAlerts: []OverallocationAlert{},
		MostLoadedEmployee:   NotAvailable,
		LeastLoadedEmployee:  NotAvailable,
	}
}

// EmptyProgressReport is returned when the project does not exist.
func EmptyProgressReport(projectID uuid.UUID, now time.Time) *ProgressReport {
	return &ProgressReport{
		ProjectID:     projectID,
		GeneratedDate: now.UTC(),
		Milestones:    []MilestoneItem{},
		HealthIndicator: ProjectHealthIndicator{
			Risks:        []string{},
			Achievements: []string{},
		},
	}
}

package report

import (
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"

	"github.com/felixgeelhaar/doable/internal/reporting/domain"
)

func formatDate(t time.Time) string {
	return t.Format(dateLayout)
}

func formatOptionalDate(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return formatDate(*t)
}

func hours(d decimal.Decimal) string {
	return d.StringFixed(2) + "h"
}

func percent(d decimal.Decimal) string {
	return d.StringFixed(1) + "%"
}

func header(w io.Writer, title, projectName string, generated time.Time) {
	if projectName == "" {
		projectName = "(unknown project)"
	}
	fmt.Fprintf(w, "%s: %s\n", title, projectName)
	fmt.Fprintf(w, "Generated: %s\n\n", generated.Format(time.RFC3339))
}

func healthIcon(h domain.OverallHealth) string {
	switch h {
	case domain.HealthGreen:
		return "🟢"
	case domain.HealthYellow:
		return "🟡"
	default:
		return "🔴"
	}
}

func statusText(r *domain.StatusReport) func(io.Writer) {
	return func(w io.Writer) {
		header(w, "Status report", r.ProjectName, r.GeneratedDate)
		fmt.Fprintf(w, "Tasks: %d  Completion: %s\n", r.TotalTasks, percent(r.CompletionPercentage))

		sections := []struct {
			title string
			items []domain.TaskStatusItem
		}{
			{"Completed", r.CompletedTasks},
			{"In progress", r.InProgressTasks},
			{"Upcoming", r.UpcomingTasks},
		}
		for _, s := range sections {
			fmt.Fprintf(w, "\n%s (%d)\n", s.title, len(s.items))
			for _, item := range s.items {
				fmt.Fprintf(w, "  • %s [%s] due %s - %s\n", item.Title, item.Priority, formatDate(item.DueDate), item.AssignedTo)
			}
		}
	}
}

func timeTrackingText(r *domain.TimeTrackingReport) func(io.Writer) {
	return func(w io.Writer) {
		header(w, "Time tracking report", r.ProjectName, r.GeneratedDate)
		fmt.Fprintf(w, "Period: %s to %s\n", formatOptionalDate(r.StartDate), formatOptionalDate(r.EndDate))
		fmt.Fprintf(w, "Total: %s\n", hours(r.TotalHours))

		fmt.Fprintf(w, "\nBy task\n")
		for _, t := range r.TaskTimes {
			fmt.Fprintf(w, "  %8s  %s [%s]\n", hours(t.Hours), t.TaskTitle, t.Status)
		}

		fmt.Fprintf(w, "\nBy employee\n")
		for _, e := range r.EmployeeTimes {
			fmt.Fprintf(w, "  %8s  %s (%d tasks, %s per task)\n", hours(e.TotalHours), e.EmployeeName, e.TaskCount, hours(e.AverageHoursPerTask))
		}

		fmt.Fprintf(w, "\nBy day\n")
		for _, d := range r.DailyBreakdown {
			fmt.Fprintf(w, "  %s  %8s  %d tasks\n", formatDate(d.Date), hours(d.Hours), d.TaskCount)
		}

		fmt.Fprintf(w, "\nBy week\n")
		for _, wk := range r.WeeklyBreakdown {
			fmt.Fprintf(w, "  %s - %s  %8s  %d tasks\n", formatDate(wk.WeekStartDate), formatDate(wk.WeekEndDate), hours(wk.Hours), wk.TaskCount)
		}
	}
}

func workloadText(r *domain.WorkloadReport) func(io.Writer) {
	return func(w io.Writer) {
		header(w, "Workload report", r.ProjectName, r.GeneratedDate)
		fmt.Fprintf(w, "Average tasks per employee: %s\n", r.AverageTasksPerEmployee.StringFixed(1))
		fmt.Fprintf(w, "Most loaded: %s  Least loaded: %s\n", r.MostLoadedEmployee, r.LeastLoadedEmployee)

		for _, e := range r.EmployeeWorkloads {
			fmt.Fprintf(w, "\n%s  %s\n", e.EmployeeName, percent(e.WorkloadPercentage))
			fmt.Fprintf(w, "  assigned %d, completed %d, in progress %d, overdue %d\n",
				e.AssignedTaskCount, e.CompletedTaskCount, e.InProgressTaskCount, e.OverdueTaskCount)
			for _, t := range e.Tasks {
				overdue := ""
				if t.IsOverdue {
					overdue = " (OVERDUE)"
				}
				fmt.Fprintf(w, "  • %s [%s] due %s%s\n", t.TaskTitle, t.Status, formatDate(t.DueDate), overdue)
			}
		}

		if len(r.OverallocationAlerts) > 0 {
			fmt.Fprintf(w, "\nAlerts\n")
			for _, a := range r.OverallocationAlerts {
				fmt.Fprintf(w, "  ⚠️  %s [%s] %s\n", a.EmployeeName, a.SeverityLevel, a.Recommendation)
			}
		}
	}
}

func progressText(r *domain.ProgressReport) func(io.Writer) {
	return func(w io.Writer) {
		header(w, "Progress report", r.ProjectName, r.GeneratedDate)
		h := r.HealthIndicator
		fmt.Fprintf(w, "Status: %s  Completion: %s\n", r.ProjectStatus, percent(r.CompletionPercentage))
		fmt.Fprintf(w, "Start: %s  End: %s  Expected end: %s\n",
			formatDate(r.ProjectStartDate), formatOptionalDate(r.ProjectEndDate), formatOptionalDate(r.ProjectExpectedEndDate))
		fmt.Fprintf(w, "Health: %s %s (schedule %s, resources %s, quality %s)\n",
			healthIcon(h.OverallHealth), h.OverallHealth, h.ScheduleHealth, h.ResourceHealth, h.QualityHealth)

		b := r.TaskBreakdown
		fmt.Fprintf(w, "\nTasks: %d total, %d completed, %d in progress, %d not started, %d overdue\n",
			b.TotalTasks, b.CompletedTasks, b.InProgressTasks, b.NotStartedTasks, b.OverdueTasks)

		fmt.Fprintf(w, "\nMilestones\n")
		for _, m := range r.Milestones {
			fmt.Fprintf(w, "  %d. %s [%s] target %s, %d tasks\n", m.MilestoneIndex, m.Title, m.Status, formatDate(m.TargetDate), m.TaskCount)
		}

		for _, risk := range h.Risks {
			fmt.Fprintf(w, "  risk: %s\n", risk)
		}
		for _, a := range h.Achievements {
			fmt.Fprintf(w, "  achievement: %s\n", a)
		}
	}
}

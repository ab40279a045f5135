package services

import (
	"fmt"
	"sort"
	"time"

	"github.com/felixgeelhaar/doable/internal/reporting/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	riskBehindSchedule         = "Project completion significantly behind schedule"
	achievementNearlyComplete  = "Project is 75%+ complete"
	achievementNoOverdueTasks  = "No overdue tasks - good progress!"
	riskOverdueTasksFormat     = "%d overdue tasks detected"
	milestoneTitleFormat       = "Phase %d - %s"
	milestoneDescriptionFormat = "%d tasks"
)

// BuildProgressReport computes completion, synthesized milestones and a
// health assessment for the project's active tasks.
func BuildProgressReport(project *domain.Project, now time.Time) *domain.ProgressReport {
	if project == nil {
		return domain.EmptyProgressReport(uuid.Nil, now)
	}

	tasks := project.ActiveTasks()
	breakdown := CountTasks(tasks, now)
	completion := percentOf(breakdown.CompletedTasks, breakdown.TotalTasks)

	report := domain.EmptyProgressReport(project.ID, now)
	report.ProjectName = project.Name
	report.CompletionPercentage = completion
	report.ProjectStartDate = project.StartDate
	report.ProjectEndDate = project.EndDate
	report.ProjectExpectedEndDate = ExpectedEndDate(project.EndDate, tasks)
	report.ProjectStatus = project.Status
	report.Milestones = BuildMilestones(tasks, now)
	report.TaskBreakdown = breakdown
	report.HealthIndicator = AssessHealth(breakdown, completion)
	return report
}

// CountTasks tallies tasks by state. Overdue counts every non-completed task
// due strictly before now.
func CountTasks(tasks []domain.Task, now time.Time) domain.TaskBreakdown {
	b := domain.TaskBreakdown{TotalTasks: len(tasks)}
	for _, t := range tasks {
		switch t.Status {
		case domain.TaskStatusCompleted:
			b.CompletedTasks++
		case domain.TaskStatusInProgress:
			b.InProgressTasks++
		case domain.TaskStatusNotStarted:
			b.NotStartedTasks++
		}
		if t.IsOverdue(now) {
			b.OverdueTasks++
		}
	}
	return b
}

// MilestoneInterval returns the chunk size used to split n tasks into
// milestones: ceil(n/MilestoneCount), at least 1.
func MilestoneInterval(n int) int {
	interval := (n + domain.MilestoneCount - 1) / domain.MilestoneCount
	if interval < 1 {
		return 1
	}
	return interval
}

// BuildMilestones sorts tasks by due date and splits them into consecutive
// chunks, one milestone per chunk. Tasks sharing a due date keep their
// stored order.
func BuildMilestones(tasks []domain.Task, now time.Time) []domain.MilestoneItem {
	sorted := make([]domain.Task, len(tasks))
	copy(sorted, tasks)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].DueDate.Before(sorted[j].DueDate)
	})

	interval := MilestoneInterval(len(sorted))
	milestones := make([]domain.MilestoneItem, 0, domain.MilestoneCount)

	for start := 0; start < len(sorted); start += interval {
		end := start + interval
		if end > len(sorted) {
			end = len(sorted)
		}
		chunk := sorted[start:end]
		index := start/interval + 1

		status := milestoneStatus(chunk, now)
		milestones = append(milestones, domain.MilestoneItem{
			MilestoneIndex: index,
			Title:          fmt.Sprintf(milestoneTitleFormat, index, chunk[0].Title),
			TargetDate:     chunk[len(chunk)-1].DueDate,
			IsCompleted:    status == domain.MilestoneCompleted,
			CompletedDate:  latestCompletion(chunk),
			Status:         status,
			Description:    fmt.Sprintf(milestoneDescriptionFormat, len(chunk)),
			TaskCount:      len(chunk),
		})
	}

	return milestones
}

func milestoneStatus(chunk []domain.Task, now time.Time) domain.MilestoneStatus {
	completed, overdue := 0, 0
	for _, t := range chunk {
		if t.IsCompleted() {
			completed++
		}
		if t.IsOverdue(now) {
			overdue++
		}
	}

	switch {
	case completed == len(chunk):
		return domain.MilestoneCompleted
	case overdue == len(chunk):
		return domain.MilestoneDelayed
	case overdue > 0:
		return domain.MilestoneAtRisk
	default:
		return domain.MilestoneOnTrack
	}
}

func latestCompletion(chunk []domain.Task) *time.Time {
	var latest *time.Time
	for _, t := range chunk {
		if t.CompletedAt == nil {
			continue
		}
		if latest == nil || t.CompletedAt.After(*latest) {
			c := *t.CompletedAt
			latest = &c
		}
	}
	return latest
}

// ExpectedEndDate returns the later of the stored end date and the latest
// task due date. A project without a stored end date has an open-ended
// schedule, so nil is returned regardless of its tasks.
func ExpectedEndDate(endDate *time.Time, tasks []domain.Task) *time.Time {
	if endDate == nil || len(tasks) == 0 {
		return endDate
	}

	last := tasks[0].DueDate
	for _, t := range tasks[1:] {
		if t.DueDate.After(last) {
			last = t.DueDate
		}
	}

	if !last.After(*endDate) {
		return endDate
	}
	return &last
}

// AssessHealth derives the health indicator from task counts. With no tasks
// every dimension takes its good branch and no risks or achievements are
// reported.
func AssessHealth(b domain.TaskBreakdown, completion decimal.Decimal) domain.ProjectHealthIndicator {
	total := b.TotalTasks

	schedule := domain.ScheduleOnTrack
	switch {
	case exceedsPercent(b.OverdueTasks, total, domain.ScheduleDelayedOverduePercent):
		schedule = domain.ScheduleDelayed
	case exceedsPercent(b.OverdueTasks, total, domain.ScheduleAtRiskOverduePercent):
		schedule = domain.ScheduleAtRisk
	}

	resource := domain.ResourceAdequate
	switch {
	case exceedsPercent(b.InProgressTasks, total, domain.ResourceOverloadedPercent):
		resource = domain.ResourceOverloaded
	case belowPercent(b.InProgressTasks, total, domain.ResourceUnderutilizedPercent):
		resource = domain.ResourceUnderutilized
	}

	quality := domain.QualityPoor
	switch {
	case b.OverdueTasks == 0:
		quality = domain.QualityGood
	case !exceedsPercent(b.OverdueTasks, total, domain.QualityFairOverduePercent):
		quality = domain.QualityFair
	}

	overall := domain.HealthYellow
	switch {
	case schedule == domain.ScheduleOnTrack && resource == domain.ResourceAdequate && quality == domain.QualityGood:
		overall = domain.HealthGreen
	case schedule == domain.ScheduleDelayed || resource == domain.ResourceOverloaded || quality == domain.QualityPoor:
		overall = domain.HealthRed
	}

	health := domain.ProjectHealthIndicator{
		OverallHealth:  overall,
		ScheduleHealth: schedule,
		ResourceHealth: resource,
		QualityHealth:  quality,
		Risks:          []string{},
		Achievements:   []string{},
	}
	if total == 0 {
		return health
	}

	if b.OverdueTasks > 0 {
		health.Risks = append(health.Risks, fmt.Sprintf(riskOverdueTasksFormat, b.OverdueTasks))
	}
	if completion.LessThan(decimal.NewFromInt(domain.BehindScheduleCompletionPercent)) {
		health.Risks = append(health.Risks, riskBehindSchedule)
	}

	if completion.GreaterThan(decimal.NewFromInt(domain.NearlyCompleteCompletionPercent)) {
		health.Achievements = append(health.Achievements, achievementNearlyComplete)
	}
	if b.OverdueTasks == 0 && completion.GreaterThan(decimal.NewFromInt(domain.OnTrackCompletionPercent)) {
		health.Achievements = append(health.Achievements, achievementNoOverdueTasks)
	}

	return health
}

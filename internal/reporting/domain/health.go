package domain

// OverallHealth is the traffic-light summary of a project.
type OverallHealth string

const (
	HealthGreen  OverallHealth = "Green"
	HealthYellow OverallHealth = "Yellow"
	HealthRed    OverallHealth = "Red"
)

// ScheduleHealth describes how overdue work affects the schedule.
type ScheduleHealth string

const (
	ScheduleOnTrack ScheduleHealth = "On Track"
	ScheduleAtRisk  ScheduleHealth = "At Risk"
	ScheduleDelayed ScheduleHealth = "Delayed"
)

// ResourceHealth describes how much of the work is in flight.
type ResourceHealth string

const (
	ResourceAdequate      ResourceHealth = "Adequate"
	ResourceOverloaded    ResourceHealth = "Overloaded"
	ResourceUnderutilized ResourceHealth = "Underutilized"
)

// QualityHealth describes the share of overdue work.
type QualityHealth string

const (
	QualityGood QualityHealth = "Good"
	QualityFair QualityHealth = "Fair"
	QualityPoor QualityHealth = "Poor"
)

// MilestoneStatus is the state of a synthesized milestone.
type MilestoneStatus string

const (
	MilestoneCompleted MilestoneStatus = "Completed"
	MilestoneOnTrack   MilestoneStatus = "On Track"
	MilestoneAtRisk    MilestoneStatus = "At Risk"
	MilestoneDelayed   MilestoneStatus = "Delayed"
)

// Severity is the level of an overallocation alert.
type Severity string

const (
	SeverityMedium Severity = "Medium"
	SeverityHigh   Severity = "High"
)

// Health thresholds. Percent values compare against the total task count.
const (
	// ScheduleDelayedOverduePercent marks the schedule Delayed above this share of overdue tasks.
	ScheduleDelayedOverduePercent = 20
	// ScheduleAtRiskOverduePercent marks the schedule At Risk above this share of overdue tasks.
	ScheduleAtRiskOverduePercent = 10
	// ResourceOverloadedPercent marks resources Overloaded above this share of in-progress tasks.
	ResourceOverloadedPercent = 70
	// ResourceUnderutilizedPercent marks resources Underutilized below this share of in-progress tasks.
	ResourceUnderutilizedPercent = 20
	// QualityFairOverduePercent is the highest overdue share still rated Fair.
	QualityFairOverduePercent = 10

	// BehindScheduleCompletionPercent raises a risk below this completion.
	BehindScheduleCompletionPercent = 25
	// OnTrackCompletionPercent records an achievement above this completion when nothing is overdue.
	OnTrackCompletionPercent = 50
	// NearlyCompleteCompletionPercent records an achievement above this completion.
	NearlyCompleteCompletionPercent = 75
)

// Overallocation thresholds.
const (
	// OverallocatedInProgressCount flags an employee with more in-progress tasks than this.
	OverallocatedInProgressCount = 5
	// HighSeverityInProgressCount raises severity to High above this many in-progress tasks.
	HighSeverityInProgressCount = 8
	// HighSeverityOverdueCount raises severity to High above this many overdue tasks.
	HighSeverityOverdueCount = 3
)

// MilestoneCount is the number of slices the sorted task list is split into.
const MilestoneCount = 4

// NotAvailable names a missing employee in workload summaries.
const NotAvailable = "N/A"

// Unassigned is shown for a task with no assignees.
const Unassigned = "Unassigned"

// Package domain contains the read model and report types for the reporting
// bounded context.
package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// TaskStatus represents the lifecycle state of a task.
type TaskStatus string

const (
	// TaskStatusNotStarted indicates work has not begun.
	TaskStatusNotStarted TaskStatus = "not_started"
	// TaskStatusInProgress indicates the task is being worked on.
	TaskStatusInProgress TaskStatus = "in_progress"
	// TaskStatusForReview indicates the task awaits review.
	TaskStatusForReview TaskStatus = "for_review"
	// TaskStatusNeedsRevision indicates review sent the task back.
	TaskStatusNeedsRevision TaskStatus = "needs_revision"
	// TaskStatusCompleted indicates the task is done.
	TaskStatusCompleted TaskStatus = "completed"
	// TaskStatusPendingApproval indicates the task awaits client approval.
	TaskStatusPendingApproval TaskStatus = "pending_approval"
)

var taskStatusDisplay = map[TaskStatus]string{
	TaskStatusNotStarted:      "Not Started",
	TaskStatusInProgress:      "In Progress",
	TaskStatusForReview:       "For Review",
	TaskStatusNeedsRevision:   "Needs Revision",
	TaskStatusCompleted:       "Completed",
	TaskStatusPendingApproval: "Pending Approval",
}

// String returns the string representation of the status.
func (s TaskStatus) String() string {
	return string(s)
}

// IsValid returns true if the status is a known value.
func (s TaskStatus) IsValid() bool {
	_, ok := taskStatusDisplay[s]
	return ok
}

// DisplayName returns the human-readable form of the status.
func (s TaskStatus) DisplayName() string {
	if name, ok := taskStatusDisplay[s]; ok {
		return name
	}
	return string(s)
}

// ParseTaskStatus normalizes a stored status string.
// Both "in_progress" and "In Progress" map to TaskStatusInProgress.
// Unknown values are kept verbatim so they fall into no report bucket.
func ParseTaskStatus(s string) TaskStatus {
	key := normalizeEnum(s)
	status := TaskStatus(key)
	if status.IsValid() {
		return status
	}
	return TaskStatus(strings.TrimSpace(s))
}

// Priority represents how urgent a task is.
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// String returns the string representation of the priority.
func (p Priority) String() string {
	return string(p)
}

// IsValid returns true if the priority is a known value.
func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	default:
		return false
	}
}

// ParsePriority normalizes a stored priority string.
func ParsePriority(s string) Priority {
	p := Priority(normalizeEnum(s))
	if p.IsValid() {
		return p
	}
	return Priority(strings.TrimSpace(s))
}

func normalizeEnum(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "_", "-", "_").Replace(s)
}

// Task is the reporting view of a project task.
type Task struct {
	ID          uuid.UUID
	ProjectID   uuid.UUID
	Title       string
	Status      TaskStatus
	Priority    Priority
	DueDate     time.Time
	CompletedAt *time.Time
	IsArchived  bool
}

// IsCompleted returns true if the task is completed.
func (t Task) IsCompleted() bool {
	return t.Status == TaskStatusCompleted
}

// IsInProgress returns true if the task is in progress.
func (t Task) IsInProgress() bool {
	return t.Status == TaskStatusInProgress
}

// IsNotStarted returns true if work on the task has not begun.
func (t Task) IsNotStarted() bool {
	return t.Status == TaskStatusNotStarted
}

// IsOverdue returns true if the task is not completed and its due date is
// strictly before now.
func (t Task) IsOverdue(now time.Time) bool {
	return !t.IsCompleted() && t.DueDate.Before(now)
}

package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestParseTaskStatus(t *testing.T) {
	tests := []struct {
		input string
		want  TaskStatus
	}{
		{"not_started", TaskStatusNotStarted},
		{"Not Started", TaskStatusNotStarted},
		{"In Progress", TaskStatusInProgress},
		{"in-progress", TaskStatusInProgress},
		{"FOR REVIEW", TaskStatusForReview},
		{"Needs Revision", TaskStatusNeedsRevision},
		{" Completed ", TaskStatusCompleted},
		{"Pending Approval", TaskStatusPendingApproval},
		{"On Hold", TaskStatus("On Hold")},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseTaskStatus(tt.input))
		})
	}
}

func TestTaskStatus_DisplayName(t *testing.T) {
	assert.Equal(t, "In Progress", TaskStatusInProgress.DisplayName())
	assert.Equal(t, "Completed", TaskStatusCompleted.DisplayName())
	assert.Equal(t, "custom", TaskStatus("custom").DisplayName())
}

func TestParsePriority(t *testing.T) {
	assert.Equal(t, PriorityHigh, ParsePriority("High"))
	assert.Equal(t, PriorityCritical, ParsePriority("critical"))
	assert.Equal(t, Priority("Urgent"), ParsePriority("Urgent"))
	assert.False(t, Priority("Urgent").IsValid())
}

func TestTask_IsOverdue(t *testing.T) {
	now := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		status TaskStatus
		due    time.Time
		want   bool
	}{
		{"past due and open", TaskStatusInProgress, now.Add(-time.Hour), true},
		{"past due but completed", TaskStatusCompleted, now.Add(-time.Hour), false},
		{"due exactly now", TaskStatusNotStarted, now, false},
		{"due in future", TaskStatusForReview, now.Add(time.Hour), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := Task{ID: uuid.New(), Status: tt.status, DueDate: tt.due}
			assert.Equal(t, tt.want, task.IsOverdue(now))
		})
	}
}

func TestProject_ActiveTasks(t *testing.T) {
	a := Task{ID: uuid.New(), Title: "a"}
	b := Task{ID: uuid.New(), Title: "b", IsArchived: true}
	c := Task{ID: uuid.New(), Title: "c"}
	p := &Project{ID: uuid.New(), Tasks: []Task{a, b, c}}

	active := p.ActiveTasks()

	assert.Equal(t, []Task{a, c}, active)
	assert.Equal(t, []uuid.UUID{a.ID, c.ID}, p.TaskIDs())
}

func TestFullName(t *testing.T) {
	assert.Equal(t, "Ada Lovelace", FullName("Ada", "Lovelace"))
	assert.Equal(t, "Ada", FullName("Ada", ""))
}

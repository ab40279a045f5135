package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var nanosPerHour = decimal.NewFromInt(int64(time.Hour))

// TimeEntry is an interval of work logged against a task by an employee.
type TimeEntry struct {
	ID           uuid.UUID
	TaskID       uuid.UUID
	EmployeeID   string
	EmployeeName string
	StartTime    time.Time
	EndTime      time.Time
	Description  string
}

// Duration returns the logged duration. Entries ending before they start
// count as zero.
func (e TimeEntry) Duration() time.Duration {
	d := e.EndTime.Sub(e.StartTime)
	if d < 0 {
		return 0
	}
	return d
}

// Hours returns the logged duration in fractional hours.
// Every aggregate sums this value so totals never drift.
func (e TimeEntry) Hours() decimal.Decimal {
	return HoursFromDuration(e.Duration())
}

// HoursFromDuration converts a duration to decimal hours.
func HoursFromDuration(d time.Duration) decimal.Decimal {
	return decimal.NewFromInt(int64(d)).Div(nanosPerHour)
}

// TimeWindow is an optional, inclusive date range applied at day granularity.
// Start bounds the entry start date, End bounds the entry end date.
type TimeWindow struct {
	Start *time.Time
	End   *time.Time
}

// NewTimeWindow creates a window and validates its bounds.
func NewTimeWindow(start, end *time.Time) (TimeWindow, error) {
	w := TimeWindow{Start: start, End: end}
	if err := w.Validate(); err != nil {
		return TimeWindow{}, err
	}
	return w, nil
}

// DefaultTimeWindow returns the window covering the last month up to now.
func DefaultTimeWindow(now time.Time) TimeWindow {
	start := now.AddDate(0, -1, 0)
	end := now
	return TimeWindow{Start: &start, End: &end}
}

// Validate returns ErrInvalidTimeWindow if Start falls on a later day than End.
func (w TimeWindow) Validate() error {
	if w.Start != nil && w.End != nil && Day(*w.Start).After(Day(*w.End)) {
		return ErrInvalidTimeWindow
	}
	return nil
}

// IsZero returns true if the window has no bounds.
func (w TimeWindow) IsZero() bool {
	return w.Start == nil && w.End == nil
}

// Contains reports whether the entry satisfies both bounds.
func (w TimeWindow) Contains(e TimeEntry) bool {
	if w.Start != nil && Day(e.StartTime).Before(Day(*w.Start)) {
		return false
	}
	if w.End != nil && Day(e.EndTime).After(Day(*w.End)) {
		return false
	}
	return true
}

// Day truncates t to midnight UTC.
func Day(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// WeekStart returns the Monday (midnight UTC) of the week containing t.
func WeekStart(t time.Time) time.Time {
	d := Day(t)
	diff := (int(d.Weekday()) - int(time.Monday) + 7) % 7
	return d.AddDate(0, 0, -diff)
}

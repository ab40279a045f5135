package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(t time.Time) *time.Time { return &t }

func TestTimeEntry_Hours(t *testing.T) {
	start := time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC)

	e := TimeEntry{StartTime: start, EndTime: start.Add(150 * time.Minute)}
	assert.True(t, decimal.RequireFromString("2.5").Equal(e.Hours()))

	backwards := TimeEntry{StartTime: start, EndTime: start.Add(-time.Hour)}
	assert.Equal(t, time.Duration(0), backwards.Duration())
	assert.True(t, backwards.Hours().IsZero())
}

func TestTimeWindow_Contains(t *testing.T) {
	window := TimeWindow{
		Start: ptr(time.Date(2024, 6, 3, 15, 0, 0, 0, time.UTC)),
		End:   ptr(time.Date(2024, 6, 7, 1, 0, 0, 0, time.UTC)),
	}

	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		want  bool
	}{
		{"same start day earlier hour", time.Date(2024, 6, 3, 8, 0, 0, 0, time.UTC), time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC), true},
		{"same end day later hour", time.Date(2024, 6, 7, 20, 0, 0, 0, time.UTC), time.Date(2024, 6, 7, 23, 0, 0, 0, time.UTC), true},
		{"starts the day before", time.Date(2024, 6, 2, 23, 0, 0, 0, time.UTC), time.Date(2024, 6, 3, 1, 0, 0, 0, time.UTC), false},
		{"ends the day after", time.Date(2024, 6, 7, 23, 0, 0, 0, time.UTC), time.Date(2024, 6, 8, 1, 0, 0, 0, time.UTC), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, window.Contains(TimeEntry{StartTime: tt.start, EndTime: tt.end}))
		})
	}

	assert.True(t, TimeWindow{}.Contains(TimeEntry{StartTime: time.Unix(0, 0), EndTime: time.Now()}))
}

func TestNewTimeWindow(t *testing.T) {
	day := time.Date(2024, 6, 3, 18, 0, 0, 0, time.UTC)

	w, err := NewTimeWindow(ptr(day), ptr(day.Add(-2*time.Hour)))
	require.NoError(t, err)
	assert.False(t, w.IsZero())

	_, err = NewTimeWindow(ptr(day), ptr(day.AddDate(0, 0, -1)))
	assert.ErrorIs(t, err, ErrInvalidTimeWindow)
}

func TestDefaultTimeWindow(t *testing.T) {
	now := time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)

	w := DefaultTimeWindow(now)

	require.NotNil(t, w.Start)
	require.NotNil(t, w.End)
	assert.Equal(t, time.Date(2024, 5, 15, 10, 0, 0, 0, time.UTC), *w.Start)
	assert.Equal(t, now, *w.End)
}

func TestWeekStart(t *testing.T) {
	monday := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 7; i++ {
		day := monday.AddDate(0, 0, i).Add(13 * time.Hour)
		ws := WeekStart(day)
		assert.Equal(t, monday, ws, "day %s", day.Weekday())
		assert.Equal(t, time.Monday, ws.Weekday())
	}
}

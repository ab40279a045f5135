// Package persistence provides the SQL data sources reports are loaded from.
package persistence

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/doable/internal/reporting/domain"
)

// dateLayout is the day-granularity format used for window bounds.
const dateLayout = "2006-01-02"

// windowBounds returns the UTC day strings for the window, empty when unbounded.
func windowBounds(window domain.TimeWindow) (from, to string) {
	if window.Start != nil {
		from = domain.Day(*window.Start).Format(dateLayout)
	}
	if window.End != nil {
		to = domain.Day(*window.End).Format(dateLayout)
	}
	return from, to
}

// formatTime stores times as RFC 3339 in UTC so lexical order matches time order.
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func formatNullTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: formatTime(*t), Valid: true}
}

func parseTime(column, value string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02 15:04:05", dateLayout} {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid %s timestamp %q", column, value)
}

func parseNullTime(column string, value sql.NullString) (*time.Time, error) {
	if !value.Valid || value.String == "" {
		return nil, nil
	}
	t, err := parseTime(column, value.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func parseUUID(column, value string) (uuid.UUID, error) {
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid %s %q: %w", column, value, err)
	}
	return id, nil
}

func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}

// placeholders returns "?, ?, ?" for n bind parameters.
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

package mcp

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/doable/adapter/cli"
	"github.com/felixgeelhaar/doable/internal/reporting/domain"
)

const dateLayout = "2006-01-02"

func parseUUID(value string) (uuid.UUID, error) {
	if value == "" {
		return uuid.UUID{}, errors.New("project_id is required")
	}
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.UUID{}, fmt.Errorf("invalid project_id: %w", err)
	}
	return id, nil
}

func parseOptionalDate(field, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	parsed, err := time.Parse(dateLayout, value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s date format, use YYYY-MM-DD: %w", field, err)
	}
	return &parsed, nil
}

// parseWindow builds a time-tracking window from the from/to arguments.
// With neither set the app's default window applies.
func parseWindow(app *cli.App, from, to string) (domain.TimeWindow, error) {
	if from == "" && to == "" {
		return app.DefaultWindow(app.Now()), nil
	}

	start, err := parseOptionalDate("from", from)
	if err != nil {
		return domain.TimeWindow{}, err
	}
	end, err := parseOptionalDate("to", to)
	if err != nil {
		return domain.TimeWindow{}, err
	}
	return domain.NewTimeWindow(start, end)
}

package domain

import "errors"

var (
	// ErrProjectNotFound indicates the requested project was not found.
	ErrProjectNotFound = errors.New("project not found")

	// ErrInvalidTimeWindow indicates the window start is after its end.
	ErrInvalidTimeWindow = errors.New("invalid time window")

	// ErrInvalidReportType indicates an unknown report type was requested.
	ErrInvalidReportType = errors.New("invalid report type")

	// ErrDataSourceUnavailable indicates the data source is rejecting calls
	// (for example while a circuit breaker is open).
	ErrDataSourceUnavailable = errors.New("data source unavailable")
)

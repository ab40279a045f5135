package queries

import (
	"context"
	"errors"
	"fmt"

	"github.com/felixgeelhaar/doable/internal/reporting/application/services"
	"github.com/felixgeelhaar/doable/internal/reporting/domain"
	"github.com/google/uuid"
)

// GetTimeTrackingReportQuery contains the parameters for a time-tracking report.
type GetTimeTrackingReportQuery struct {
	ProjectID uuid.UUID
	Window    domain.TimeWindow
}

// QueryName returns the query name.
func (GetTimeTrackingReportQuery) QueryName() string { return "get_time_tracking_report" }

// GetTimeTrackingReportHandler handles the GetTimeTrackingReportQuery.
type GetTimeTrackingReportHandler struct {
	loader *Loader
}

// NewGetTimeTrackingReportHandler creates a new GetTimeTrackingReportHandler.
func NewGetTimeTrackingReportHandler(loader *Loader) *GetTimeTrackingReportHandler {
	return &GetTimeTrackingReportHandler{loader: loader}
}

// Handle executes the query. A missing project yields an empty report.
func (h *GetTimeTrackingReportHandler) Handle(ctx context.Context, query GetTimeTrackingReportQuery) (*domain.TimeTrackingReport, error) {
	if err := query.Window.Validate(); err != nil {
		return nil, err
	}

	var (
		project *domain.Project
		entries []domain.TimeEntry
	)

	err := h.loader.Run(ctx, func(ctx context.Context) error {
		var err error
		project, err = h.loader.DataSource().LoadProjectWithTasks(ctx, query.ProjectID)
		if err != nil {
			return err
		}
		entries, err = h.loader.DataSource().LoadTimeEntries(ctx, project.TaskIDs(), query.Window)
		if err != nil {
			return fmt.Errorf("failed to load time entries: %w", err)
		}
		return nil
	})

	now := h.loader.Now()
	if errors.Is(err, domain.ErrProjectNotFound) {
		return domain.EmptyTimeTrackingReport(query.ProjectID, query.Window, now), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load time tracking report data: %w", err)
	}

	return services.BuildTimeTrackingReport(project, entries, query.Window, now), nil
}

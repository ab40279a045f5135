package queries

import (
	"context"
	"errors"
	"fmt"

	"github.com/felixgeelhaar/doable/internal/reporting/application/services"
	"github.com/felixgeelhaar/doable/internal/reporting/domain"
	"github.com/google/uuid"
)

// GetStatusReportQuery contains the parameters for a status report.
type GetStatusReportQuery struct {
	ProjectID uuid.UUID
}

// QueryName returns the query name.
func (GetStatusReportQuery) QueryName() string { return "get_status_report" }

// GetStatusReportHandler handles the GetStatusReportQuery.
type GetStatusReportHandler struct {
	loader *Loader
}

// NewGetStatusReportHandler creates a new GetStatusReportHandler.
func NewGetStatusReportHandler(loader *Loader) *GetStatusReportHandler {
	return &GetStatusReportHandler{loader: loader}
}

// Handle executes the query. A missing project yields an empty report.
func (h *GetStatusReportHandler) Handle(ctx context.Context, query GetStatusReportQuery) (*domain.StatusReport, error) {
	var (
		project     *domain.Project
		assignments []domain.TaskAssignment
	)

	err := h.loader.Run(ctx, func(ctx context.Context) error {
		var err error
		project, err = h.loader.DataSource().LoadProjectWithTasks(ctx, query.ProjectID)
		if err != nil {
			return err
		}
		assignments, err = h.loader.DataSource().LoadTaskAssignments(ctx, project.TaskIDs())
		if err != nil {
			return fmt.Errorf("failed to load task assignments: %w", err)
		}
		return nil
	})

	now := h.loader.Now()
	if errors.Is(err, domain.ErrProjectNotFound) {
		return domain.EmptyStatusReport(query.ProjectID, now), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load status report data: %w", err)
	}

	return services.BuildStatusReport(project, assignments, now), nil
}

package queries

import (
	"context"
	"errors"
	"fmt"

	"github.com/felixgeelhaar/doable/internal/reporting/application/services"
	"github.com/felixgeelhaar/doable/internal/reporting/domain"
	"github.com/google/uuid"
)

// GetWorkloadReportQuery contains the parameters for a workload report.
type GetWorkloadReportQuery struct {
	ProjectID uuid.UUID
}

// QueryName returns the query name.
func (GetWorkloadReportQuery) QueryName() string { return "get_workload_report" }

// GetWorkloadReportHandler handles the GetWorkloadReportQuery.
type GetWorkloadReportHandler struct {
	loader *Loader
}

// NewGetWorkloadReportHandler creates a new GetWorkloadReportHandler.
func NewGetWorkloadReportHandler(loader *Loader) *GetWorkloadReportHandler {
	return &GetWorkloadReportHandler{loader: loader}
}

// Handle executes the query. A missing project yields an empty report.
func (h *GetWorkloadReportHandler) Handle(ctx context.Context, query GetWorkloadReportQuery) (*domain.WorkloadReport, error) {
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
		return domain.EmptyWorkloadReport(query.ProjectID, now), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load workload report data: %w", err)
	}

	return services.BuildWorkloadReport(project, assignments, now), nil
}

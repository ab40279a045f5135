package queries

import (
	"context"
	"errors"
	"fmt"

	"github.com/felixgeelhaar/doable/internal/reporting/application/services"
	"github.com/felixgeelhaar/doable/internal/reporting/domain"
	"github.com/google/uuid"
)

// GetProgressReportQuery contains the parameters for a progress report.
type GetProgressReportQuery struct {
	ProjectID uuid.UUID
}

// QueryName returns the query name.
func (GetProgressReportQuery) QueryName() string { return "get_progress_report" }

// GetProgressReportHandler handles the GetProgressReportQuery.
type GetProgressReportHandler struct {
	loader *Loader
}

// NewGetProgressReportHandler creates a new GetProgressReportHandler.
func NewGetProgressReportHandler(loader *Loader) *GetProgressReportHandler {
	return &GetProgressReportHandler{loader: loader}
}

// Handle executes the query. A missing project yields an empty report.
func (h *GetProgressReportHandler) Handle(ctx context.Context, query GetProgressReportQuery) (*domain.ProgressReport, error) {
	var project *domain.Project

	err := h.loader.Run(ctx, func(ctx context.Context) error {
		var err error
		project, err = h.loader.DataSource().LoadProjectWithTasks(ctx, query.ProjectID)
		return err
	})

	now := h.loader.Now()
	if errors.Is(err, domain.ErrProjectNotFound) {
		return domain.EmptyProgressReport(query.ProjectID, now), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load progress report data: %w", err)
	}

	return services.BuildProgressReport(project, now), nil
}

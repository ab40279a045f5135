// Package application contains the application layer for the reporting bounded context.
package application

import (
	"context"
	"log/slog"
	"time"

	"github.com/felixgeelhaar/doable/internal/reporting/application/queries"
	"github.com/felixgeelhaar/doable/internal/reporting/domain"
	"github.com/felixgeelhaar/doable/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/doable/pkg/observability"
	"github.com/google/uuid"
)

// Reporter generates the four project reports.
type Reporter interface {
	StatusReport(ctx context.Context, projectID uuid.UUID) (*domain.StatusReport, error)
	TimeTrackingReport(ctx context.Context, projectID uuid.UUID, window domain.TimeWindow) (*domain.TimeTrackingReport, error)
	WorkloadReport(ctx context.Context, projectID uuid.UUID) (*domain.WorkloadReport, error)
	ProgressReport(ctx context.Context, projectID uuid.UUID) (*domain.ProgressReport, error)
	ListProjects(ctx context.Context) ([]domain.ProjectSummary, error)
}

// Service provides a facade over all reporting handlers.
type Service struct {
	statusHandler       *queries.GetStatusReportHandler
	timeTrackingHandler *queries.GetTimeTrackingReportHandler
	workloadHandler     *queries.GetWorkloadReportHandler
	progressHandler     *queries.GetProgressReportHandler
	listProjectsHandler *queries.ListProjectsHandler

	publisher eventbus.Publisher
	logger    *slog.Logger
	metrics   observability.Metrics
}

var _ Reporter = (*Service)(nil)

// NewService creates a new reporting service. publisher may be nil.
func NewService(
	loader *queries.Loader,
	publisher eventbus.Publisher,
	logger *slog.Logger,
	metrics observability.Metrics,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	return &Service{
		statusHandler:       queries.NewGetStatusReportHandler(loader),
		timeTrackingHandler: queries.NewGetTimeTrackingReportHandler(loader),
		workloadHandler:     queries.NewGetWorkloadReportHandler(loader),
		progressHandler:     queries.NewGetProgressReportHandler(loader),
		listProjectsHandler: queries.NewListProjectsHandler(loader),
		publisher:           publisher,
		logger:              logger,
		metrics:             metrics,
	}
}

// StatusReport returns the status report for a project.
func (s *Service) StatusReport(ctx context.Context, projectID uuid.UUID) (*domain.StatusReport, error) {
	report, err := observability.TimeOperationResult(ctx, s.logger, s.metrics, "reporting.status",
		func() (*domain.StatusReport, error) {
			return s.statusHandler.Handle(ctx, queries.GetStatusReportQuery{ProjectID: projectID})
		})
	if err != nil {
		return nil, err
	}
	s.publishGenerated(ctx, domain.ReportTypeStatus, report.ProjectID, report.GeneratedDate)
	return report, nil
}

// TimeTrackingReport returns the time-tracking report for a project.
func (s *Service) TimeTrackingReport(ctx context.Context, projectID uuid.UUID, window domain.TimeWindow) (*domain.TimeTrackingReport, error) {
	report, err := observability.TimeOperationResult(ctx, s.logger, s.metrics, "reporting.time_tracking",
		func() (*domain.TimeTrackingReport, error) {
			return s.timeTrackingHandler.Handle(ctx, queries.GetTimeTrackingReportQuery{ProjectID: projectID, Window: window})
		})
	if err != nil {
		return nil, err
	}
	s.publishGenerated(ctx, domain.ReportTypeTimeTracking, report.ProjectID, report.GeneratedDate)
	return report, nil
}

// WorkloadReport returns the workload report for a project.
func (s *Service) WorkloadReport(ctx context.Context, projectID uuid.UUID) (*domain.WorkloadReport, error) {
	report, err := observability.TimeOperationResult(ctx, s.logger, s.metrics, "reporting.workload",
		func() (*domain.WorkloadReport, error) {
			return s.workloadHandler.Handle(ctx, queries.GetWorkloadReportQuery{ProjectID: projectID})
		})
	if err != nil {
		return nil, err
	}
	s.publishGenerated(ctx, domain.ReportTypeWorkload, report.ProjectID, report.GeneratedDate)
	return report, nil
}

// ProgressReport returns the progress report for a project.
func (s *Service) ProgressReport(ctx context.Context, projectID uuid.UUID) (*domain.ProgressReport, error) {
	report, err := observability.TimeOperationResult(ctx, s.logger, s.metrics, "reporting.progress",
		func() (*domain.ProgressReport, error) {
			return s.progressHandler.Handle(ctx, queries.GetProgressReportQuery{ProjectID: projectID})
		})
	if err != nil {
		return nil, err
	}
	s.publishGenerated(ctx, domain.ReportTypeProgress, report.ProjectID, report.GeneratedDate)
	return report, nil
}

// ListProjects returns the projects reports can be generated for.
func (s *Service) ListProjects(ctx context.Context) ([]domain.ProjectSummary, error) {
	return observability.TimeOperationResult(ctx, s.logger, s.metrics, "reporting.list_projects",
		func() ([]domain.ProjectSummary, error) {
			return s.listProjectsHandler.Handle(ctx, queries.ListProjectsQuery{})
		})
}

// publishGenerated emits a report.generated event. Failures are logged only.
func (s *Service) publishGenerated(ctx context.Context, reportType domain.ReportType, projectID uuid.UUID, generatedAt time.Time) {
	if s.publisher == nil {
		return
	}

	event := domain.NewReportGenerated(reportType, projectID, generatedAt)
	event.CorrelateWith(observability.CorrelationIDFromContext(ctx))
	payload, err := eventbus.Encode(event)
	if err != nil {
		s.logger.Error("failed to encode report event", "error", err)
		return
	}

	if err := s.publisher.Publish(ctx, event.RoutingKey(), payload); err != nil {
		s.logger.Warn("failed to publish report event",
			"report_type", reportType,
			"project_id", projectID,
			"error", err,
		)
		return
	}
	s.metrics.Counter(observability.MetricEventsPublished, 1, observability.T("routing_key", event.RoutingKey()))
}

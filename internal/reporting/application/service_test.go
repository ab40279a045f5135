package application

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/felixgeelhaar/doable/internal/reporting/application/queries"
	"github.com/felixgeelhaar/doable/internal/reporting/domain"
	"github.com/felixgeelhaar/doable/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/doable/pkg/observability"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubDataSource struct {
	projects map[uuid.UUID]*domain.Project
	err      error
}

func (s *stubDataSource) LoadProjectWithTasks(_ context.Context, id uuid.UUID) (*domain.Project, error) {
	if s.err != nil {
		return nil, s.err
	}
	p, ok := s.projects[id]
	if !ok {
		return nil, domain.ErrProjectNotFound
	}
	return p, nil
}

func (s *stubDataSource) LoadTimeEntries(context.Context, []uuid.UUID, domain.TimeWindow) ([]domain.TimeEntry, error) {
	return nil, nil
}

func (s *stubDataSource) LoadTaskAssignments(context.Context, []uuid.UUID) ([]domain.TaskAssignment, error) {
	return nil, nil
}

func (s *stubDataSource) ListProjects(context.Context) ([]domain.ProjectSummary, error) {
	out := make([]domain.ProjectSummary, 0, len(s.projects))
	for _, p := range s.projects {
		out = append(out, domain.ProjectSummary{ID: p.ID, Name: p.Name, Status: p.Status})
	}
	return out, nil
}

type recordingPublisher struct {
	mu       sync.Mutex
	messages map[string][][]byte
	err      error
}

func (p *recordingPublisher) Publish(_ context.Context, routingKey string, payload []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	if p.messages == nil {
		p.messages = make(map[string][][]byte)
	}
	p.messages[routingKey] = append(p.messages[routingKey], payload)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func newTestService(ds domain.DataSource, pub eventbus.Publisher, metrics observability.Metrics) *Service {
	loader := queries.NewLoader(ds, nil, 0)
	return NewService(loader, pub, nil, metrics)
}

func seededSource() (*stubDataSource, uuid.UUID) {
	id := uuid.New()
	now := time.Now().UTC()
	return &stubDataSource{projects: map[uuid.UUID]*domain.Project{
		id: {
			ID:   id,
			Name: "Website",
			Tasks: []domain.Task{
				{ID: uuid.New(), Title: "a", Status: domain.TaskStatusCompleted, DueDate: now.Add(time.Hour)},
				{ID: uuid.New(), Title: "b", Status: domain.TaskStatusNotStarted, DueDate: now.Add(2 * time.Hour)},
			},
		},
	}}, id
}

func TestService_StatusReport_PublishesEvent(t *testing.T) {
	ds, id := seededSource()
	pub := &recordingPublisher{}
	metrics := observability.NewInMemoryMetrics()
	svc := newTestService(ds, pub, metrics)

	ctx := observability.WithCorrelationID(context.Background(), "corr-1")
	report, err := svc.StatusReport(ctx, id)

	require.NoError(t, err)
	assert.Equal(t, 2, report.TotalTasks)

	msgs := pub.messages[domain.RoutingKeyReportGenerated]
	require.Len(t, msgs, 1)

	var envelope eventbus.ConsumedEvent
	require.NoError(t, json.Unmarshal(msgs[0], &envelope))
	assert.Equal(t, id, envelope.AggregateID)
	assert.Equal(t, "corr-1", envelope.Metadata.CorrelationID)

	var body struct {
		ReportType domain.ReportType `json:"report_type"`
		ProjectID  uuid.UUID         `json:"project_id"`
	}
	require.NoError(t, json.Unmarshal(envelope.Payload, &body))
	assert.Equal(t, domain.ReportTypeStatus, body.ReportType)
	assert.Equal(t, id, body.ProjectID)

	assert.Equal(t, int64(1), metrics.GetCounter(observability.MetricOperationTotal, observability.T("operation", "reporting.status")))
}

func TestService_AllReports(t *testing.T) {
	ds, id := seededSource()
	pub := &recordingPublisher{}
	svc := newTestService(ds, pub, nil)
	ctx := context.Background()

	_, err := svc.TimeTrackingReport(ctx, id, domain.TimeWindow{})
	require.NoError(t, err)
	workload, err := svc.WorkloadReport(ctx, id)
	require.NoError(t, err)
	progress, err := svc.ProgressReport(ctx, id)
	require.NoError(t, err)
	projects, err := svc.ListProjects(ctx)
	require.NoError(t, err)

	assert.Equal(t, domain.NotAvailable, workload.MostLoadedEmployee)
	assert.Len(t, progress.Milestones, 2)
	assert.Len(t, projects, 1)
	assert.Len(t, pub.messages[domain.RoutingKeyReportGenerated], 3)
}

func TestService_PublishFailureIsNotReturned(t *testing.T) {
	ds, id := seededSource()
	svc := newTestService(ds, &recordingPublisher{err: errors.New("broker down")}, nil)

	report, err := svc.ProgressReport(context.Background(), id)

	require.NoError(t, err)
	assert.Equal(t, id, report.ProjectID)
}

func TestService_NotFoundIsEmpty(t *testing.T) {
	ds, _ := seededSource()
	svc := newTestService(ds, nil, nil)
	missing := uuid.New()

	report, err := svc.WorkloadReport(context.Background(), missing)

	require.NoError(t, err)
	assert.Equal(t, missing, report.ProjectID)
	assert.Empty(t, report.EmployeeWorkloads)
}

func TestService_LoadErrorCountsFailure(t *testing.T) {
	metrics := observability.NewInMemoryMetrics()
	svc := newTestService(&stubDataSource{err: domain.ErrDataSourceUnavailable}, nil, metrics)

	_, err := svc.StatusReport(context.Background(), uuid.New())

	assert.ErrorIs(t, err, domain.ErrDataSourceUnavailable)
	assert.Equal(t, int64(1), metrics.GetCounter(observability.MetricOperationErrors, observability.T("operation", "reporting.status")))
}

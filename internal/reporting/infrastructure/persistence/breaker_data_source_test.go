package persistence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/doable/internal/reporting/domain"
	"github.com/felixgeelhaar/doable/pkg/observability"
)

// stubDataSource fails every call with err and counts calls.
type stubDataSource struct {
	err   error
	calls int
}

func (s *stubDataSource) LoadProjectWithTasks(_ context.Context, id uuid.UUID) (*domain.Project, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Project{ID: id, Name: "Website Redesign"}, nil
}

func (s *stubDataSource) LoadTimeEntries(context.Context, []uuid.UUID, domain.TimeWindow) ([]domain.TimeEntry, error) {
	s.calls++
	return []domain.TimeEntry{}, s.err
}

func (s *stubDataSource) LoadTaskAssignments(context.Context, []uuid.UUID) ([]domain.TaskAssignment, error) {
	s.calls++
	return []domain.TaskAssignment{}, s.err
}

func (s *stubDataSource) ListProjects(context.Context) ([]domain.ProjectSummary, error) {
	s.calls++
	return []domain.ProjectSummary{}, s.err
}

func testBreakerConfig() BreakerConfig {
	return BreakerConfig{MaxRequests: 1, Interval: time.Minute, Timeout: time.Hour, FailureThreshold: 3}
}

func TestBreakerDataSource_PassesThrough(t *testing.T) {
	next := &stubDataSource{}
	ds := NewBreakerDataSource(next, testBreakerConfig(), observability.DiscardLogger(), nil)

	id := uuid.New()
	project, err := ds.LoadProjectWithTasks(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, id, project.ID)

	_, err = ds.ListProjects(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, next.calls)
	assert.Equal(t, gobreaker.StateClosed, ds.State())
}

func TestBreakerDataSource_OpensAfterFailures(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("connection refused")
	next := &stubDataSource{err: boom}
	metrics := observability.NewInMemoryMetrics()
	ds := NewBreakerDataSource(next, testBreakerConfig(), observability.DiscardLogger(), metrics)

	for i := 0; i < 3; i++ {
		_, err := ds.LoadTimeEntries(ctx, nil, domain.TimeWindow{})
		assert.ErrorIs(t, err, boom)
	}
	assert.Equal(t, gobreaker.StateOpen, ds.State())

	_, err := ds.LoadTaskAssignments(ctx, nil)
	assert.ErrorIs(t, err, domain.ErrDataSourceUnavailable)
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, 3, next.calls)

	assert.Equal(t, int64(1), metrics.GetCounter(observability.MetricBreakerStateChanges, observability.T("state", "open")))
}

func TestBreakerDataSource_IgnoresExpectedErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"project not found", domain.ErrProjectNotFound},
		{"wrapped not found", errors.Join(errors.New("lookup"), domain.ErrProjectNotFound)},
		{"caller cancelled", context.Canceled},
		{"statement error", &pgconn.PgError{Code: "42P01", Message: "relation \"tasks\" does not exist"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := &stubDataSource{err: tt.err}
			ds := NewBreakerDataSource(next, testBreakerConfig(), observability.DiscardLogger(), nil)

			for i := 0; i < 5; i++ {
				_, err := ds.LoadProjectWithTasks(context.Background(), uuid.New())
				assert.ErrorIs(t, err, tt.err)
			}
			assert.Equal(t, gobreaker.StateClosed, ds.State())
			assert.Equal(t, 5, next.calls)
		})
	}
}

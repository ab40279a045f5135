package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/doable/internal/reporting/domain"
	"github.com/felixgeelhaar/doable/pkg/observability"
)

// mockReporter is a mock implementation of application.Reporter.
type mockReporter struct {
	mock.Mock
}

func (m *mockReporter) StatusReport(ctx context.Context, projectID uuid.UUID) (*domain.StatusReport, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StatusReport), args.Error(1)
}

func (m *mockReporter) TimeTrackingReport(ctx context.Context, projectID uuid.UUID, window domain.TimeWindow) (*domain.TimeTrackingReport, error) {
	args := m.Called(ctx, projectID, window)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TimeTrackingReport), args.Error(1)
}

func (m *mockReporter) WorkloadReport(ctx context.Context, projectID uuid.UUID) (*domain.WorkloadReport, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WorkloadReport), args.Error(1)
}

func (m *mockReporter) ProgressReport(ctx context.Context, projectID uuid.UUID) (*domain.ProgressReport, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProgressReport), args.Error(1)
}

func (m *mockReporter) ListProjects(ctx context.Context) ([]domain.ProjectSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ProjectSummary), args.Error(1)
}

func statusReport(projectID uuid.UUID) *domain.StatusReport {
	report := domain.EmptyStatusReport(projectID, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	report.ProjectName = "Website Redesign"
	report.TotalTasks = 3
	report.CompletionPercentage = decimal.RequireFromString("33.3333333333333333")
	return report
}

func TestCachingReporter_StatusReport(t *testing.T) {
	ctx := context.Background()
	projectID := uuid.New()
	next := new(mockReporter)
	next.On("StatusReport", mock.Anything, projectID).Return(statusReport(projectID), nil).Once()

	metrics := observability.NewInMemoryMetrics()
	reporter := NewCachingReporter(next, NewMemoryStore(), time.Minute, observability.DiscardLogger(), metrics)

	first, err := reporter.StatusReport(ctx, projectID)
	require.NoError(t, err)
	second, err := reporter.StatusReport(ctx, projectID)
	require.NoError(t, err)

	assert.Equal(t, first.ProjectName, second.ProjectName)
	assert.True(t, first.CompletionPercentage.Equal(second.CompletionPercentage))
	assert.True(t, first.GeneratedDate.Equal(second.GeneratedDate))
	assert.Empty(t, second.CompletedTasks)

	tag := observability.T("report", "status")
	assert.Equal(t, int64(1), metrics.GetCounter(observability.MetricCacheMisses, tag))
	assert.Equal(t, int64(1), metrics.GetCounter(observability.MetricCacheHits, tag))
	next.AssertExpectations(t)
}

func TestCachingReporter_TimeTrackingKeyIncludesWindow(t *testing.T) {
	ctx := context.Background()
	projectID := uuid.New()
	jan := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	windows := []domain.TimeWindow{{}, {Start: &jan}, {Start: &jan, End: &feb}}
	next := new(mockReporter)
	for _, w := range windows {
		next.On("TimeTrackingReport", mock.Anything, projectID, w).
			Return(domain.EmptyTimeTrackingReport(projectID, w, feb), nil).Once()
	}

	reporter := NewCachingReporter(next, NewMemoryStore(), time.Minute, nil, nil)
	for i := 0; i < 2; i++ {
		for _, w := range windows {
			report, err := reporter.TimeTrackingReport(ctx, projectID, w)
			require.NoError(t, err)
			assert.Equal(t, projectID, report.ProjectID)
		}
	}
	next.AssertExpectations(t)
}

func TestCachingReporter_ErrorsAreNotCached(t *testing.T) {
	ctx := context.Background()
	projectID := uuid.New()
	boom := errors.New("database down")

	next := new(mockReporter)
	next.On("WorkloadReport", mock.Anything, projectID).Return(nil, boom).Once()
	next.On("WorkloadReport", mock.Anything, projectID).Return(domain.EmptyWorkloadReport(projectID, time.Now()), nil).Once()

	reporter := NewCachingReporter(next, NewMemoryStore(), time.Minute, nil, nil)

	_, err := reporter.WorkloadReport(ctx, projectID)
	assert.ErrorIs(t, err, boom)

	report, err := reporter.WorkloadReport(ctx, projectID)
	require.NoError(t, err)
	assert.Equal(t, domain.NotAvailable, report.MostLoadedEmployee)
	next.AssertExpectations(t)
}

func TestCachingReporter_Invalidation(t *testing.T) {
	ctx := context.Background()
	a, b := uuid.New(), uuid.New()
	now := time.Now()

	next := new(mockReporter)
	next.On("ProgressReport", mock.Anything, a).Return(domain.EmptyProgressReport(a, now), nil).Twice()
	next.On("ProgressReport", mock.Anything, b).Return(domain.EmptyProgressReport(b, now), nil).Once()
	next.On("ListProjects", mock.Anything).Return([]domain.ProjectSummary{{ID: a, Name: "Website Redesign"}}, nil).Twice()

	reporter := NewCachingReporter(next, NewMemoryStore(), 0, nil, nil)
	load := func() {
		_, err := reporter.ProgressReport(ctx, a)
		require.NoError(t, err)
		_, err = reporter.ProgressReport(ctx, b)
		require.NoError(t, err)
		projects, err := reporter.ListProjects(ctx)
		require.NoError(t, err)
		require.Len(t, projects, 1)
	}

	load()
	require.NoError(t, reporter.InvalidateProject(ctx, a))
	load()
	require.NoError(t, reporter.Flush(ctx))
	_, err := reporter.ListProjects(ctx)
	require.NoError(t, err)

	next.AssertExpectations(t)
}

func TestCachingReporter_StoreFailureFallsThrough(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	projectID := uuid.New()
	next := new(mockReporter)
	next.On("StatusReport", mock.Anything, projectID).Return(statusReport(projectID), nil).Twice()

	reporter := NewCachingReporter(next, NewRedisStore(client, ""), time.Minute, observability.DiscardLogger(), nil)
	for i := 0; i < 2; i++ {
		report, err := reporter.StatusReport(context.Background(), projectID)
		require.NoError(t, err)
		assert.Equal(t, "Website Redesign", report.ProjectName)
	}
	next.AssertExpectations(t)
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	require.NoError(t, store.Set(ctx, "a:status", []byte("1"), time.Minute))
	require.NoError(t, store.Set(ctx, "a:progress", []byte("2"), 0))
	require.NoError(t, store.Set(ctx, "b:status", []byte("3"), time.Minute))

	value, err := store.Get(ctx, "a:status")
	require.NoError(t, err)
	assert.Equal(t, []byte("1"), value)

	now = now.Add(time.Minute)
	_, err = store.Get(ctx, "a:status")
	assert.ErrorIs(t, err, ErrCacheMiss)

	value, err = store.Get(ctx, "a:progress")
	require.NoError(t, err)
	assert.Equal(t, []byte("2"), value)

	require.NoError(t, store.DeletePrefix(ctx, "a:"))
	_, err = store.Get(ctx, "a:progress")
	assert.ErrorIs(t, err, ErrCacheMiss)
	_, err = store.Get(ctx, "b:status")
	assert.ErrorIs(t, err, ErrCacheMiss, "b:status expired with the clock")
}

func TestRedisStore_NamespaceKey(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	defer client.Close()

	assert.Equal(t, "doable:reports:projects", NewRedisStore(client, "").namespaceKey("projects"))
	assert.Equal(t, "test:projects", NewRedisStore(client, "test:").namespaceKey("projects"))
}

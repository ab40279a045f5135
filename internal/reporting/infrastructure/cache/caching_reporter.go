package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/doable/internal/reporting/application"
	"github.com/felixgeelhaar/doable/internal/reporting/domain"
	"github.com/felixgeelhaar/doable/pkg/observability"
)

const (
	projectsKey = "projects"
	unbounded   = "-"
)

// CachingReporter serves reports from a Store and falls back to the wrapped
// Reporter on a miss. Store failures are logged and never fail a report.
type CachingReporter struct {
	next    application.Reporter
	store   Store
	ttl     time.Duration
	logger  *slog.Logger
	metrics observability.Metrics
}

var _ application.Reporter = (*CachingReporter)(nil)

// NewCachingReporter creates a caching decorator.
func NewCachingReporter(
	next application.Reporter,
	store Store,
	ttl time.Duration,
	logger *slog.Logger,
	metrics observability.Metrics,
) *CachingReporter {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	return &CachingReporter{
		next:    next,
		store:   store,
		ttl:     ttl,
		logger:  logger,
		metrics: metrics,
	}
}

func projectKey(projectID uuid.UUID, reportType domain.ReportType) string {
	return projectID.String() + ":" + reportType.String()
}

func windowKey(window domain.TimeWindow) string {
	from, to := unbounded, unbounded
	if window.Start != nil {
		from = domain.Day(*window.Start).Format("2006-01-02")
	}
	if window.End != nil {
		to = domain.Day(*window.End).Format("2006-01-02")
	}
	return from + ":" + to
}

// cached returns the stored value for key, or loads and stores it.
func cached[T any](ctx context.Context, c *CachingReporter, kind, key string, load func() (T, error)) (T, error) {
	tag := observability.T("report", kind)

	if data, err := c.store.Get(ctx, key); err == nil {
		var value T
		if err := json.Unmarshal(data, &value); err == nil {
			c.metrics.Counter(observability.MetricCacheHits, 1, tag)
			return value, nil
		}
		c.logger.Warn("discarding undecodable cache entry", "key", key)
	} else if !errors.Is(err, ErrCacheMiss) {
		c.logger.Warn("report cache read failed", "key", key, "error", err)
	}
	c.metrics.Counter(observability.MetricCacheMisses, 1, tag)

	value, err := load()
	if err != nil {
		return value, err
	}

	data, err := json.Marshal(value)
	if err != nil {
		c.logger.Warn("failed to encode report for cache", "key", key, "error", err)
		return value, nil
	}
	if err := c.store.Set(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn("report cache write failed", "key", key, "error", err)
	}
	return value, nil
}

// StatusReport returns the cached status report for a project.
func (c *CachingReporter) StatusReport(ctx context.Context, projectID uuid.UUID) (*domain.StatusReport, error) {
	return cached(ctx, c, domain.ReportTypeStatus.String(), projectKey(projectID, domain.ReportTypeStatus),
		func() (*domain.StatusReport, error) { return c.next.StatusReport(ctx, projectID) })
}

// TimeTrackingReport returns the cached time-tracking report for a project and window.
func (c *CachingReporter) TimeTrackingReport(ctx context.Context, projectID uuid.UUID, window domain.TimeWindow) (*domain.TimeTrackingReport, error) {
	key := projectKey(projectID, domain.ReportTypeTimeTracking) + ":" + windowKey(window)
	return cached(ctx, c, domain.ReportTypeTimeTracking.String(), key,
		func() (*domain.TimeTrackingReport, error) { return c.next.TimeTrackingReport(ctx, projectID, window) })
}

// WorkloadReport returns the cached workload report for a project.
func (c *CachingReporter) WorkloadReport(ctx context.Context, projectID uuid.UUID) (*domain.WorkloadReport, error) {
	return cached(ctx, c, domain.ReportTypeWorkload.String(), projectKey(projectID, domain.ReportTypeWorkload),
		func() (*domain.WorkloadReport, error) { return c.next.WorkloadReport(ctx, projectID) })
}

// ProgressReport returns the cached progress report for a project.
func (c *CachingReporter) ProgressReport(ctx context.Context, projectID uuid.UUID) (*domain.ProgressReport, error) {
	return cached(ctx, c, domain.ReportTypeProgress.String(), projectKey(projectID, domain.ReportTypeProgress),
		func() (*domain.ProgressReport, error) { return c.next.ProgressReport(ctx, projectID) })
}

// ListProjects returns the cached project list.
func (c *CachingReporter) ListProjects(ctx context.Context) ([]domain.ProjectSummary, error) {
	return cached(ctx, c, projectsKey, projectsKey,
		func() ([]domain.ProjectSummary, error) { return c.next.ListProjects(ctx) })
}

// InvalidateProject drops every cached report for a project.
func (c *CachingReporter) InvalidateProject(ctx context.Context, projectID uuid.UUID) error {
	return c.store.DeletePrefix(ctx, projectID.String()+":")
}

// Flush drops every cached report and the project list.
func (c *CachingReporter) Flush(ctx context.Context) error {
	return c.store.DeletePrefix(ctx, "")
}

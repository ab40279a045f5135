package persistence

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker/v2"

	"github.com/felixgeelhaar/doable/internal/reporting/domain"
	"github.com/felixgeelhaar/doable/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/doable/pkg/observability"
)

// BreakerConfig configures the circuit breaker around a data source.
type BreakerConfig struct {
	// MaxRequests is the number of trial requests allowed while half-open.
	MaxRequests uint32
	// Interval is the cyclic period of the closed state that clears counts.
	Interval time.Duration
	// Timeout is how long the breaker stays open.
	Timeout time.Duration
	// FailureThreshold is the consecutive failure count that opens the breaker.
	FailureThreshold uint32
}

// DefaultBreakerConfig returns the default breaker settings.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		MaxRequests:      1,
		Interval:         time.Minute,
		Timeout:          30 * time.Second,
		FailureThreshold: 5,
	}
}

// BreakerDataSource wraps a DataSource with a circuit breaker. A missing
// project and caller cancellation do not count as failures. While the
// breaker is open calls fail fast with domain.ErrDataSourceUnavailable.
type BreakerDataSource struct {
	next    domain.DataSource
	breaker *gobreaker.CircuitBreaker[any]
}

var _ domain.DataSource = (*BreakerDataSource)(nil)

// NewBreakerDataSource creates a breaker-protected data source.
func NewBreakerDataSource(next domain.DataSource, cfg BreakerConfig, logger *slog.Logger, metrics observability.Metrics) *BreakerDataSource {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = DefaultBreakerConfig().FailureThreshold
	}

	settings := gobreaker.Settings{
		Name:        "reporting.data_source",
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		IsSuccessful: func(err error) bool {
			return err == nil ||
				errors.Is(err, domain.ErrProjectNotFound) ||
				errors.Is(err, context.Canceled) ||
				database.IsStatementError(err)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
			metrics.Counter(observability.MetricBreakerStateChanges, 1, observability.T("state", to.String()))
		},
	}

	return &BreakerDataSource{
		next:    next,
		breaker: gobreaker.NewCircuitBreaker[any](settings),
	}
}

// State returns the current breaker state.
func (b *BreakerDataSource) State() gobreaker.State {
	return b.breaker.State()
}

func execute[T any](b *BreakerDataSource, fn func() (T, error)) (T, error) {
	result, err := b.breaker.Execute(func() (any, error) {
		return fn()
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		var zero T
		return zero, fmt.Errorf("%w: %w", domain.ErrDataSourceUnavailable, err)
	}
	if err != nil {
		var zero T
		return zero, err
	}
	return result.(T), nil
}

// LoadProjectWithTasks delegates through the breaker.
func (b *BreakerDataSource) LoadProjectWithTasks(ctx context.Context, projectID uuid.UUID) (*domain.Project, error) {
	return execute(b, func() (*domain.Project, error) {
		return b.next.LoadProjectWithTasks(ctx, projectID)
	})
}

// LoadTimeEntries delegates through the breaker.
func (b *BreakerDataSource) LoadTimeEntries(ctx context.Context, taskIDs []uuid.UUID, window domain.TimeWindow) ([]domain.TimeEntry, error) {
	return execute(b, func() ([]domain.TimeEntry, error) {
		return b.next.LoadTimeEntries(ctx, taskIDs, window)
	})
}

// LoadTaskAssignments delegates through the breaker.
func (b *BreakerDataSource) LoadTaskAssignments(ctx context.Context, taskIDs []uuid.UUID) ([]domain.TaskAssignment, error) {
	return execute(b, func() ([]domain.TaskAssignment, error) {
		return b.next.LoadTaskAssignments(ctx, taskIDs)
	})
}

// ListProjects delegates through the breaker.
func (b *BreakerDataSource) ListProjects(ctx context.Context) ([]domain.ProjectSummary, error) {
	return execute(b, func() ([]domain.ProjectSummary, error) {
		return b.next.ListProjects(ctx)
	})
}

package queries

import (
	"context"
	"time"

	"github.com/felixgeelhaar/doable/internal/reporting/domain"
	sharedApplication "github.com/felixgeelhaar/doable/internal/shared/application"
)

// Loader runs data source reads for a report inside a single unit of work
// so every report is computed from one consistent snapshot.
type Loader struct {
	dataSource  domain.DataSource
	uow         sharedApplication.UnitOfWork
	loadTimeout time.Duration
	now         func() time.Time
}

// NewLoader creates a Loader. uow may be nil, in which case reads run
// without a transaction. A zero loadTimeout disables the timeout.
func NewLoader(dataSource domain.DataSource, uow sharedApplication.UnitOfWork, loadTimeout time.Duration) *Loader {
	return &Loader{
		dataSource:  dataSource,
		uow:         uow,
		loadTimeout: loadTimeout,
		now:         time.Now,
	}
}

// WithClock replaces the clock used as the report reference time.
func (l *Loader) WithClock(now func() time.Time) *Loader {
	l.now = now
	return l
}

// Now returns the reference time in UTC.
func (l *Loader) Now() time.Time {
	return l.now().UTC()
}

// DataSource returns the underlying data source.
func (l *Loader) DataSource() domain.DataSource {
	return l.dataSource
}

// Run executes fn within the load timeout and unit of work.
func (l *Loader) Run(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if l.loadTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.loadTimeout)
		defer cancel()
	}

	return sharedApplication.WithUnitOfWork(ctx, l.uow, fn)
}

var (
	_ sharedApplication.QueryHandler[GetStatusReportQuery, *domain.StatusReport]             = (*GetStatusReportHandler)(nil)
	_ sharedApplication.QueryHandler[GetTimeTrackingReportQuery, *domain.TimeTrackingReport] = (*GetTimeTrackingReportHandler)(nil)
	_ sharedApplication.QueryHandler[GetWorkloadReportQuery, *domain.WorkloadReport]         = (*GetWorkloadReportHandler)(nil)
	_ sharedApplication.QueryHandler[GetProgressReportQuery, *domain.ProgressReport]         = (*GetProgressReportHandler)(nil)
	_ sharedApplication.QueryHandler[ListProjectsQuery, []domain.ProjectSummary]             = (*ListProjectsHandler)(nil)
)

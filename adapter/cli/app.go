package cli

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/doable/internal/reporting/application"
	"github.com/felixgeelhaar/doable/internal/reporting/domain"
	"github.com/felixgeelhaar/doable/internal/reporting/infrastructure/persistence"
	"github.com/felixgeelhaar/doable/pkg/observability"
)

// ErrNotInitialized is returned by commands that need the database when the
// application could not be wired.
var ErrNotInitialized = errors.New("application not initialized - database connection required")

// Maintenance runs database maintenance for the db commands.
type Maintenance interface {
	Migrate(ctx context.Context) ([]string, error)
	Seed(ctx context.Context, now time.Time) (persistence.SeedResult, error)
}

// App holds the CLI application dependencies.
type App struct {
	Reporter    application.Reporter
	Maintenance Maintenance
	Health      *observability.HealthRegistry

	// Refresh drops cached reports for a project before --refresh reads.
	Refresh func(ctx context.Context, projectID uuid.UUID) error

	// DefaultWindow returns the time-tracking window used without --from/--to.
	DefaultWindow func(now time.Time) domain.TimeWindow

	// Now is the CLI clock.
	Now func() time.Time
}

// NewApp creates a new CLI application.
func NewApp(reporter application.Reporter, maintenance Maintenance) *App {
	return &App{
		Reporter:      reporter,
		Maintenance:   maintenance,
		Refresh:       func(context.Context, uuid.UUID) error { return nil },
		DefaultWindow: domain.DefaultTimeWindow,
		Now:           time.Now,
	}
}

// SetHealth updates the health registry.
func (a *App) SetHealth(health *observability.HealthRegistry) {
	a.Health = health
}

// SetRefresh updates the cache refresh hook.
func (a *App) SetRefresh(fn func(ctx context.Context, projectID uuid.UUID) error) {
	a.Refresh = fn
}

// SetDefaultWindow updates the default time-tracking window.
func (a *App) SetDefaultWindow(fn func(now time.Time) domain.TimeWindow) {
	a.DefaultWindow = fn
}

// app is the global CLI application instance
var app *App

// SetApp sets the global CLI application instance.
func SetApp(a *App) {
	app = a
}

// GetApp returns the global CLI application instance.
func GetApp() *App {
	return app
}

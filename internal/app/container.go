// Package app wires the reporting service and its infrastructure.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/felixgeelhaar/doable/internal/reporting/application"
	"github.com/felixgeelhaar/doable/internal/reporting/application/queries"
	"github.com/felixgeelhaar/doable/internal/reporting/application/subscribers"
	"github.com/felixgeelhaar/doable/internal/reporting/domain"
	"github.com/felixgeelhaar/doable/internal/reporting/infrastructure/cache"
	"github.com/felixgeelhaar/doable/internal/reporting/infrastructure/persistence"
	"github.com/felixgeelhaar/doable/internal/shared/infrastructure/database"
	_ "github.com/felixgeelhaar/doable/internal/shared/infrastructure/database/postgres" // Register PostgreSQL driver
	_ "github.com/felixgeelhaar/doable/internal/shared/infrastructure/database/sqlite"   // Register SQLite driver
	"github.com/felixgeelhaar/doable/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/doable/internal/shared/infrastructure/migrations"
	"github.com/felixgeelhaar/doable/pkg/config"
	"github.com/felixgeelhaar/doable/pkg/observability"
)

// Container holds all application dependencies.
type Container struct {
	Config  *config.Config
	Logger  *slog.Logger
	Metrics observability.Metrics
	Health  *observability.HealthRegistry

	// Database
	DBConn   database.Connection
	DBDriver database.Driver

	// Redis
	RedisClient *redis.Client

	// Data access
	DataSource domain.DataSource
	Breaker    *persistence.BreakerDataSource
	Loader     *queries.Loader

	// Events
	EventPublisher    eventbus.Publisher
	InProcessEventBus *eventbus.InProcessEventBus
	ReportActivity    *subscribers.ReportActivitySubscriber

	// Reporting
	ReportService *application.Service
	ReportCache   *cache.CachingReporter
	Reporter      application.Reporter
}

type options struct {
	metrics   observability.Metrics
	publisher eventbus.Publisher
	now       func() time.Time
}

// Option customizes container construction.
type Option func(*options)

// WithMetrics sets the metrics sink. Defaults to NoopMetrics.
func WithMetrics(metrics observability.Metrics) Option {
	return func(o *options) { o.metrics = metrics }
}

// WithPublisher overrides the event publisher chosen from configuration.
func WithPublisher(publisher eventbus.Publisher) Option {
	return func(o *options) { o.publisher = publisher }
}

// WithClock sets the clock used as the report reference time.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// NewContainer creates and wires all dependencies. A SQLite database is
// migrated on startup; PostgreSQL schemas are migrated with `doable db migrate`.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts ...Option) (*Container, error) {
	o := options{metrics: observability.NoopMetrics{}, now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	c := &Container{
		Config:  cfg,
		Logger:  logger,
		Metrics: o.metrics,
		Health:  observability.NewHealthRegistry(),
	}

	conn, err := database.NewConnection(ctx, database.Config{
		URL:              cfg.DatabaseURL,
		SQLitePath:       cfg.SQLitePath,
		MaxConns:         cfg.DatabaseMaxConns,
		ApplicationName:  "doable",
		StatementTimeout: cfg.DataLoadTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	c.DBConn = conn
	c.DBDriver = conn.Driver()
	c.Health.Register("database", observability.DatabaseHealthChecker(conn.Ping))
	logger.Info("connected to database", "driver", c.DBDriver)

	if c.DBDriver == database.DriverSQLite {
		if _, err := c.Migrate(ctx); err != nil {
			c.Close()
			return nil, err
		}
	}

	if err := c.connectRedis(ctx); err != nil {
		c.Close()
		return nil, err
	}

	dataSource, err := NewDataSource(conn)
	if err != nil {
		c.Close()
		return nil, err
	}
	c.DataSource = dataSource
	if cfg.BreakerEnabled {
		c.Breaker = persistence.NewBreakerDataSource(dataSource, persistence.BreakerConfig{
			MaxRequests:      cfg.BreakerMaxRequests,
			Interval:         cfg.BreakerInterval,
			Timeout:          cfg.BreakerTimeout,
			FailureThreshold: cfg.BreakerFailureThreshold,
		}, logger, c.Metrics)
		c.DataSource = c.Breaker
	}

	c.Loader = queries.NewLoader(c.DataSource, database.NewReadOnlyUnitOfWork(conn), cfg.DataLoadTimeout).
		WithClock(o.now)

	if err := c.initEvents(o.publisher); err != nil {
		c.Close()
		return nil, err
	}

	c.ReportService = application.NewService(c.Loader, c.EventPublisher, logger, c.Metrics)
	c.Reporter = c.ReportService
	if cfg.ReportCacheTTL > 0 {
		var store cache.Store
		if c.RedisClient != nil {
			store = cache.NewRedisStore(c.RedisClient, cache.DefaultKeyPrefix)
		} else {
			logger.Warn("Redis not available, report cache will use in-memory store")
			store = cache.NewMemoryStore()
		}
		c.ReportCache = cache.NewCachingReporter(c.ReportService, store, cfg.ReportCacheTTL, logger, c.Metrics)
		c.Reporter = c.ReportCache
	}

	return c, nil
}

func (c *Container) connectRedis(ctx context.Context) error {
	if c.Config.RedisURL == "" {
		return nil
	}

	opt, err := redis.ParseURL(c.Config.RedisURL)
	if err != nil {
		if !c.Config.IsDevelopment() {
			return fmt.Errorf("failed to parse Redis URL: %w", err)
		}
		c.Logger.Warn("invalid Redis URL, report cache disabled", "error", err)
		return nil
	}

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		if !c.Config.IsDevelopment() {
			return fmt.Errorf("failed to connect to Redis: %w", err)
		}
		c.Logger.Warn("Redis not available", "error", err)
		return nil
	}

	c.RedisClient = client
	c.Health.Register("redis", observability.RedisHealthChecker(func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}))
	c.Logger.Info("connected to Redis")
	return nil
}

// initEvents selects the report.generated publisher. Without an override or
// a reachable RabbitMQ the in-process bus feeds the report activity subscriber.
func (c *Container) initEvents(override eventbus.Publisher) error {
	c.ReportActivity = subscribers.NewReportActivitySubscriber(c.Metrics, c.Logger)

	switch {
	case override != nil:
		c.EventPublisher = override
		return nil
	case !c.Config.EventsEnabled:
		c.EventPublisher = eventbus.NewNoopPublisher(c.Logger)
		return nil
	case c.Config.RabbitMQURL != "":
		publisher, err := eventbus.NewRabbitMQPublisher(c.Config.RabbitMQURL, eventbus.DefaultExchange, c.Logger)
		if err == nil {
			c.EventPublisher = publisher
			return nil
		}
		if !c.Config.IsDevelopment() {
			return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
		}
		c.Logger.Warn("RabbitMQ not available, using in-process event bus", "error", err)
	}

	c.InProcessEventBus = eventbus.NewInProcessEventBus(c.Logger)
	c.InProcessEventBus.RegisterConsumer(c.ReportActivity)
	c.EventPublisher = c.InProcessEventBus
	return nil
}

// Migrate applies pending schema migrations.
func (c *Container) Migrate(ctx context.Context) ([]string, error) {
	applied, err := migrations.Run(ctx, c.DBConn)
	if err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	if len(applied) > 0 {
		c.Logger.Info("applied migrations", "versions", applied)
	}
	return applied, nil
}

// Seed writes the demo dataset and drops cached reports.
func (c *Container) Seed(ctx context.Context, now time.Time) (persistence.SeedResult, error) {
	result, err := persistence.NewSeeder(c.DBConn).Seed(ctx, now)
	if err != nil {
		return persistence.SeedResult{}, fmt.Errorf("failed to seed database: %w", err)
	}
	if c.ReportCache != nil && !result.Skipped {
		if err := c.ReportCache.Flush(ctx); err != nil {
			c.Logger.Warn("failed to flush report cache", "error", err)
		}
	}
	return result, nil
}

// Refresh drops cached reports for a project. It is a no-op without a cache.
func (c *Container) Refresh(ctx context.Context, projectID uuid.UUID) error {
	if c.ReportCache == nil {
		return nil
	}
	return c.ReportCache.InvalidateProject(ctx, projectID)
}

// DefaultWindow returns the time-tracking window used when none is given.
func (c *Container) DefaultWindow(now time.Time) domain.TimeWindow {
	if days := c.Config.ReportDefaultWindowDays; days > 0 {
		start := now.AddDate(0, 0, -days)
		return domain.TimeWindow{Start: &start, End: &now}
	}
	return domain.DefaultTimeWindow(now)
}

// Close releases all resources.
func (c *Container) Close() {
	if c.EventPublisher != nil {
		if err := c.EventPublisher.Close(); err != nil {
			c.Logger.Warn("error closing event publisher", "error", err)
		}
	}

	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			c.Logger.Warn("error closing Redis connection", "error", err)
		}
	}

	if c.DBConn != nil {
		if err := c.DBConn.Close(); err != nil {
			c.Logger.Warn("error closing database connection", "error", err)
		} else {
			c.Logger.Info("database connection closed", "driver", c.DBDriver)
		}
	}
}

package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/felixgeelhaar/doable/internal/reporting/application/subscribers"
	"github.com/felixgeelhaar/doable/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/doable/pkg/config"
	"github.com/felixgeelhaar/doable/pkg/observability"
)

func main() {
	logCfg := observability.DefaultLogConfig()
	logCfg.Output = os.Stdout
	logCfg.ServiceName = "doable-worker"
	logger := observability.NewLogger(logCfg)

	logger.Info("starting doable worker")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logCfg.Level = observability.LogLevel(cfg.LogLevel)
	logCfg.Format = observability.LogFormat(cfg.LogFormat)
	logCfg.ServiceVersion = cfg.Version
	logger = observability.NewLogger(logCfg)

	if cfg.RabbitMQURL == "" {
		logger.Error("RABBITMQ_URL is required for the worker")
		os.Exit(1)
	}

	metrics := observability.NewPrometheusMetrics()
	health := observability.NewHealthRegistry()

	consumer, err := eventbus.NewRabbitMQConsumer(eventbus.RabbitMQConsumerConfig{
		URL:    cfg.RabbitMQURL,
		Logger: logger,
	}, eventbus.NewConsumerRegistry(logger))
	if err != nil {
		logger.Error("failed to connect to RabbitMQ", "error", err)
		os.Exit(1)
	}
	defer consumer.Close()

	consumer.RegisterConsumer(subscribers.NewReportActivitySubscriber(metrics, logger))
	health.Register("rabbitmq", observability.PingChecker("rabbitmq", observability.HealthStatusUnhealthy, consumer.Ping))

	if cfg.MetricsAddr != "" {
		go func() {
			handler := observability.NewOpsHandler(health, metrics)
			if err := observability.ServeOps(ctx, cfg.MetricsAddr, handler, logger); err != nil {
				logger.Error("ops server error", "error", err)
			}
		}()
	}

	if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("consumer stopped", "error", err)
		os.Exit(1)
	}
	logger.Info("worker stopped")
}

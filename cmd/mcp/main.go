package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/felixgeelhaar/doable/internal/app"
	mcpinternal "github.com/felixgeelhaar/doable/internal/mcp"
	"github.com/felixgeelhaar/doable/pkg/config"
	"github.com/felixgeelhaar/doable/pkg/observability"
)

func main() {
	logCfg := observability.DefaultLogConfig()
	logCfg.Output = os.Stdout
	logCfg.ServiceName = "doable-mcp"
	logger := observability.NewLogger(logCfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
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

	metrics := observability.NewPrometheusMetrics()
	container, err := app.NewContainer(ctx, cfg, logger, app.WithMetrics(metrics))
	if err != nil {
		logger.Error("failed to initialize container", "error", err)
		os.Exit(1)
	}
	defer container.Close()

	if cfg.MetricsAddr != "" {
		go func() {
			handler := observability.NewOpsHandler(container.Health, metrics)
			if err := observability.ServeOps(ctx, cfg.MetricsAddr, handler, logger); err != nil {
				logger.Error("ops server error", "error", err)
			}
		}()
	}

	cliApp := mcpinternal.NewCLIApp(container)

	if err := mcpinternal.Serve(ctx, cfg, cliApp, logger); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("mcp server error", "error", err)
		os.Exit(1)
	}
}

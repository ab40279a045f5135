package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/felixgeelhaar/doable/adapter/cli"
	"github.com/felixgeelhaar/doable/adapter/cli/db"
	"github.com/felixgeelhaar/doable/adapter/cli/report"
	"github.com/felixgeelhaar/doable/internal/app"
	"github.com/felixgeelhaar/doable/pkg/config"
	"github.com/felixgeelhaar/doable/pkg/observability"
)

func main() {
	logger := observability.NewLogger(observability.DefaultLogConfig())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		cancel()
	}()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logCfg := observability.DefaultLogConfig()
	logCfg.Level = observability.LogLevel(cfg.LogLevel)
	logCfg.Format = observability.LogFormat(cfg.LogFormat)
	logCfg.ServiceVersion = cfg.Version
	logger = observability.NewLogger(logCfg)
	cli.SetLogger(logger)

	// The version and help commands work without a database.
	var cliApp *cli.App
	container, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		if cfg.IsDevelopment() {
			logger.Warn("failed to initialize container, running in limited mode", "error", err)
		} else {
			logger.Error("failed to initialize container", "error", err)
			os.Exit(1)
		}
	} else {
		defer container.Close()

		cliApp = cli.NewApp(container.Reporter, container)
		cliApp.SetRefresh(container.Refresh)
		cliApp.SetDefaultWindow(container.DefaultWindow)
		cliApp.SetHealth(container.Health)
	}

	cli.SetApp(cliApp)

	cli.AddCommand(report.Cmd)
	cli.AddCommand(db.Cmd)

	cli.Execute(ctx)
}

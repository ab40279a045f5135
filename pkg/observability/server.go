package observability

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"
)

// NewOpsHandler serves /healthz from the registry and, for Prometheus
// metrics, /metrics.
func NewOpsHandler(health *HealthRegistry, metrics Metrics) http.Handler {
	mux := http.NewServeMux()
	if health != nil {
		mux.Handle("/healthz", health.Handler())
	}
	if prom, ok := metrics.(*PrometheusMetrics); ok {
		mux.Handle("/metrics", prom.Handler())
	}
	return mux
}

// ServeOps runs the ops endpoint on addr until ctx is canceled.
func ServeOps(ctx context.Context, addr string, handler http.Handler, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("ops server starting", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("ops server shutdown error", "error", err)
		return err
	}
	return nil
}

package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Houeta/employee-gateway/internal/lib/logger/sl"
)

const (
	readHeaderTimeout         = 5 * time.Second
	monitoringShutdownTimeout = 5 * time.Second
)

// NewMonitoringHandler serves /metrics from reg and /healthz for the upstream at upstreamURL.
func NewMonitoringHandler(log *slog.Logger, reg *prometheus.Registry, upstreamURL string) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	mux.Handle("/healthz", NewHealthChecker(upstreamURL, log))

	return mux
}

// StartMonitoringServer runs the monitoring listener until ctx is done.
func StartMonitoringServer(ctx context.Context, log *slog.Logger, reg *prometheus.Registry, port int, upstreamURL string) {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           NewMonitoringHandler(log, reg, upstreamURL),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		log.InfoContext(ctx, "Starting monitoring server", "port", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.ErrorContext(ctx, "Monitoring server failed", sl.Err(err))
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), monitoringShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.ErrorContext(shutdownCtx, "Monitoring server shutdown failed", sl.Err(err))
		return
	}
	log.InfoContext(shutdownCtx, "Monitoring server stopped")
}

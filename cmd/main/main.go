package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	goversion "github.com/caarlos0/go-version"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/Houeta/employee-gateway/internal/client"
	"github.com/Houeta/employee-gateway/internal/config"
	"github.com/Houeta/employee-gateway/internal/lib/logger/sl"
	"github.com/Houeta/employee-gateway/internal/metrics"
	"github.com/Houeta/employee-gateway/internal/server"
	"github.com/Houeta/employee-gateway/internal/services/employees"
)

const (
	envLocal = "local"
	envDev   = "development"
	envProd  = "production"

	appName        = "employee-gateway"
	appDescription = "REST facade over the dummy employee API with search and ranking."
	appWebsite     = "https://github.com/Houeta/employee-gateway"
)

var (
	version   = ""
	commit    = ""
	treeState = ""
	date      = ""
	builtBy   = ""

	showVersion = flag.Bool("version", false, "Print version information and exit")
)

// main is the entry point of the application.
func main() {
	flag.Parse()

	if *showVersion {
		fmt.Println(buildVersion(version, commit, date, builtBy, treeState).String())
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.MustLoad()

	logger := setupLogger(cfg.Env)

	// Create a separate registry for metrics with exemplar
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.NewMetrics(reg)

	httpClient := client.CreateHTTPClient(logger, appMetrics, client.Options{
		Timeout: cfg.Upstream.Timeout,
		Retry: client.RetryPolicy{
			MaxRetries: cfg.Upstream.MaxRetries,
			Delay:      cfg.Upstream.RetryDelay,
		},
		RateLimit: cfg.Upstream.RateLimit,
	})
	requester := client.New(logger, httpClient, appMetrics)

	endpoints := employees.NewEndpoints(cfg.Upstream.BaseURL, cfg.Upstream.APIVersion, cfg.Upstream.Entity)
	service := employees.NewService(logger, requester, appMetrics, endpoints)

	router := server.NewRouter(logger, service, appMetrics)

	var wgr sync.WaitGroup
	wgr.Add(2)

	go func() {
		defer wgr.Done()
		server.StartMonitoringServer(ctx, logger, reg, cfg.Monitoring.Port, cfg.Upstream.BaseURL)
	}()

	go func() {
		defer wgr.Done()
		if err := server.StartAPIServer(ctx, logger, router, cfg.HTTP.Port, cfg.HTTP.ShutdownTimeout); err != nil {
			logger.ErrorContext(ctx, "REST API server stopped with error", sl.Err(err))
			stop()
		}
	}()

	logger.InfoContext(ctx, "Application started. Press Ctrl+C to stop.",
		"upstream", endpoints.Collection(), "max_retries", cfg.Upstream.MaxRetries)

	wgr.Wait()

	logger.InfoContext(ctx, "Application stopped gracefully...")
}

// setupLogger initializes and returns a logger based on the environment provided.
func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			}),
		)
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelInfo,
			}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level:       slog.LevelWarn,
				ReplaceAttr: dropTime,
			}),
		)
	default:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level:       slog.LevelError,
				ReplaceAttr: dropTime,
			}),
		)

		log.Error(
			"The env parameter was not specified, or was invalid. Logging will be minimal, by default." +
				" Please specify the value of `EMPLOYEES_ENV`: local, development, production")
	}

	return log.With(slog.String("app", appName))
}

func dropTime(_ []string, a slog.Attr) slog.Attr {
	if a.Key == slog.TimeKey {
		return slog.Attr{}
	}

	return a
}

func buildVersion(version, commit, date, builtBy, treeState string) goversion.Info {
	return goversion.GetVersionInfo(
		goversion.WithAppDetails(appName, appDescription, appWebsite),
		func(i *goversion.Info) {
			if commit != "" {
				i.GitCommit = commit
			}
			if version != "" {
				i.GitVersion = version
			}
			if treeState != "" {
				i.GitTreeState = treeState
			}
			if date != "" {
				i.BuildDate = date
			}
			if builtBy != "" {
				i.BuiltBy = builtBy
			}
		},
	)
}

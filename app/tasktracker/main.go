package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"time"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/jrazmi/tasktracker/app/tasktracker/config"
	"github.com/jrazmi/tasktracker/app/tasktracker/health"
	"github.com/jrazmi/tasktracker/bridge/scaffolding/metrics"
	"github.com/jrazmi/tasktracker/bridge/scaffolding/mid"
	"github.com/jrazmi/tasktracker/core/cases/taskscase"
	"github.com/jrazmi/tasktracker/core/repositories/tasksrepo"
	"github.com/jrazmi/tasktracker/infrastructure/databases/redisdb"
	"github.com/jrazmi/tasktracker/infrastructure/web"
	"github.com/jrazmi/tasktracker/sdk/environment"
	"github.com/jrazmi/tasktracker/sdk/logger"
	"github.com/jrazmi/tasktracker/sdk/telemetry"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var build = "develop"
var appName = "TASKTRACKER"

const shutdownTimeout = 30 * time.Second

func main() {
	if err := environment.LoadEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "loading .env: %v\n", err)
	}
	ctx := context.Background()

	tel := telemetry.NewTelemetry()
	log, err := logger.NewFromEnv(appName,
		logger.WithService("tasktracker"),
		logger.WithTraceID(tel.GetTraceID),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}

	code, err := run(ctx, log, tel)
	if err != nil {
		log.ErrorContext(ctx, "startup", "err", err)
		os.Exit(1)
	}
	os.Exit(code)
}

func run(ctx context.Context, log *logger.Logger, tel telemetry.Telemetry) (int, error) {
	log.InfoContext(ctx, "startup", "GOMAXPROCS", runtime.GOMAXPROCS(0), "build", build)

	// :*: START DATABASES :*:
	var storeCfg config.Store
	if err := environment.ParseEnvTags(appName, &storeCfg); err != nil {
		return 1, fmt.Errorf("parsing store config: %w", err)
	}
	store, err := openStore(ctx, log, storeCfg.Driver)
	if err != nil {
		return 1, fmt.Errorf("opening %s store: %w", storeCfg.Driver, err)
	}
	probes := []health.Probe{store.probe}

	var limiter mid.Limiter
	rdb, err := redisdb.NewFromEnv(ctx, appName)
	switch {
	case errors.Is(err, redisdb.ErrDisabled):
		log.InfoContext(ctx, "startup", "status", "redis not configured, rate limiting disabled")
	case err != nil:
		store.close(ctx)
		return 1, fmt.Errorf("connecting redis: %w", err)
	default:
		limiter = redisdb.NewLimiter(rdb, "tasktracker:ratelimit:")
		probes = append(probes, health.Probe{Name: "redis", Check: func(ctx context.Context) error {
			return redisdb.StatusCheck(ctx, rdb)
		}})
	}
	// END DATABASES //

	// :*: AUTH & LIMITS :*:
	var authCfg mid.AuthConfig
	if err := environment.ParseEnvTags(appName, &authCfg); err != nil {
		return 1, fmt.Errorf("parsing auth config: %w", err)
	}
	var rateCfg mid.RateLimitConfig
	if err := environment.ParseEnvTags(appName, &rateCfg); err != nil {
		return 1, fmt.Errorf("parsing rate limit config: %w", err)
	}
	if err := rateCfg.Validate(); err != nil {
		return 1, fmt.Errorf("rate limit config: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m, err := metrics.New("tasktracker", reg)
	if err != nil {
		return 1, fmt.Errorf("metrics: %w", err)
	}

	// :*: USE CASES :*:
	log.InfoContext(ctx, "startup", "status", "initializing task service", "store", storeCfg.Driver)
	tasks := taskscase.NewService(log, tasksrepo.NewRepository(log, store.storer))

	cfg := config.TaskTracker{
		Build:     build,
		Logger:    log,
		Telemetry: tel,
		UseCases:  config.UseCases{Tasks: tasks},
		Auth:      mid.NewAuthenticator(authCfg),
		Limiter:   limiter,
		RateLimit: rateCfg,
		Metrics:   m,
		Registry:  reg,
	}

	handler, err := webHandler(cfg, probes)
	if err != nil {
		return 1, fmt.Errorf("web handler: %w", err)
	}
	server, err := web.NewServerFromEnv(appName,
		web.WithHandler(handler),
		web.WithErrorLog(logger.NewStdLogger(log, slog.LevelError)),
	)
	if err != nil {
		return 1, fmt.Errorf("webserver: %w", err)
	}

	stop := func(ctx context.Context) error {
		log.InfoContext(ctx, "shutdown", "status", "stopping api router")
		errs := []error{server.Stop(ctx)}
		if rdb != nil {
			errs = append(errs, rdb.Close())
		}
		log.InfoContext(ctx, "shutdown", "status", "closing store")
		errs = append(errs, store.close(ctx))
		return errors.Join(errs...)
	}

	serverErrors := server.Start()
	log.InfoContext(ctx, "startup", "status", "api router started", "host", server.Addr)

	wait := gfshutdown.GracefulShutdown(ctx, shutdownTimeout, map[string]gfshutdown.Operation{
		"tasktracker": stop,
	})

	select {
	case err := <-serverErrors:
		return 1, abort(ctx, log, err, stop)

	case code := <-wait:
		log.InfoContext(ctx, "shutdown", "status", "shutdown complete", "code", code)
		return code, nil
	}
}

// abort stops the app after the server failed on its own. A failing stop is
// logged and the server error is returned.
func abort(ctx context.Context, log *logger.Logger, serverErr error, stop func(context.Context) error) error {
	stopCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	if err := stop(stopCtx); err != nil {
		log.ErrorContext(ctx, "shutdown", "status", "stop after server error", "err", err)
	}
	return fmt.Errorf("server error: %w", serverErr)
}

package main

import (
	"net/http"

	"github.com/jrazmi/tasktracker/app/tasktracker/config"
	"github.com/jrazmi/tasktracker/app/tasktracker/health"
	"github.com/jrazmi/tasktracker/bridge/cases/taskscasebridge"
	"github.com/jrazmi/tasktracker/bridge/scaffolding/mid"
	"github.com/jrazmi/tasktracker/infrastructure/web"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func webHandler(cfg config.TaskTracker, probes []health.Probe) (http.Handler, error) {

	// INITIALIZATION
	wh, err := web.NewWebHandlerFromEnv(appName,
		web.WithLogging(cfg.Logger.Logger),
		web.WithTelemetry(cfg.Telemetry),
		web.WithDefaultHeaders(map[string]string{
			"X-Content-Type-Options": "nosniff",
			"Cache-Control":          "no-store",
		}),
		web.WithGlobalMiddleware(
			mid.Logger(cfg.Logger),   // Request logging
			mid.Errors(cfg.Logger),   // Error handling
			mid.Metrics(cfg.Metrics), // Metrics collection
			mid.Panics(),             // Panic recovery
		),
	)
	if err != nil {
		return nil, err
	}

	// HEALTH & METRICS
	health.AddHandlers(wh, health.Config{Log: cfg.Logger, Build: cfg.Build, Probes: probes})
	wh.HandleRaw("GET /metrics", promhttp.HandlerFor(cfg.Registry, promhttp.HandlerOpts{}))

	// API
	apiMiddleware := []web.Middleware{mid.Authenticate(cfg.Auth)}
	if cfg.Limiter != nil {
		apiMiddleware = append(apiMiddleware, mid.RateLimit(cfg.Logger, cfg.Limiter, cfg.RateLimit, cfg.Metrics))
	}
	api := wh.Group(config.ApiRoute, apiMiddleware...)

	taskscasebridge.AddHttpRoutes(api, taskscasebridge.Config{
		Log:     cfg.Logger,
		Service: cfg.UseCases.Tasks,
	})

	return wh, nil
}

package config

import (
	"github.com/jrazmi/tasktracker/bridge/scaffolding/metrics"
	"github.com/jrazmi/tasktracker/bridge/scaffolding/mid"
	"github.com/jrazmi/tasktracker/core/cases/taskscase"
	"github.com/jrazmi/tasktracker/sdk/logger"
	"github.com/jrazmi/tasktracker/sdk/telemetry"
	"github.com/prometheus/client_golang/prometheus"
)

// site wide globals.
const (
	ApiRoute = "/api"
)

// Store drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Store selects the task storage backend.
type Store struct {
	Driver string `env:"STORE_DRIVER" default:"postgres"`
}

// UseCases are the services exposed over HTTP.
type UseCases struct {
	Tasks *taskscase.Service
}

// TaskTracker is the overall configuration for the tasktracker application.
type TaskTracker struct {
	Build     string
	Logger    *logger.Logger
	Telemetry telemetry.Telemetry

	UseCases UseCases

	Auth      *mid.Authenticator
	Limiter   mid.Limiter
	RateLimit mid.RateLimitConfig

	Metrics  *metrics.Metrics
	Registry *prometheus.Registry
}

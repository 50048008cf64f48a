// Package health serves the liveness and readiness probes.
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/jrazmi/tasktracker/bridge/scaffolding/errs"
	"github.com/jrazmi/tasktracker/infrastructure/web"
	"github.com/jrazmi/tasktracker/sdk/logger"
	"golang.org/x/sync/errgroup"
)

// Probe checks one dependency.
type Probe struct {
	Name  string
	Check func(ctx context.Context) error
}

// Config holds what the health routes need.
type Config struct {
	Log     *logger.Logger
	Build   string
	Timeout time.Duration
	Probes  []Probe
}

// Status is the body of both probes.
type Status struct {
	Status     string            `json:"status"`
	Build      string            `json:"build,omitempty"`
	Host       string            `json:"host,omitempty"`
	GOMAXPROCS int               `json:"GOMAXPROCS,omitempty"`
	Checks     map[string]string `json:"checks,omitempty"`
	status     int
}

// Encode implements the encoder interface.
func (s Status) Encode() ([]byte, string, error) {
	data, err := json.Marshal(s)
	return data, "application/json", err
}

// HTTPStatus lets a failed readiness check answer 503 without going through
// the error middleware.
func (s Status) HTTPStatus() int {
	if s.status == 0 {
		return http.StatusOK
	}
	return s.status
}

// AddHandlers registers /health/live and /health/ready.
func AddHandlers(wh *web.WebHandler, cfg Config) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 2 * time.Second
	}
	h := handlers{cfg: cfg}

	wh.GET("/health/live", h.live)
	wh.GET("/health/ready", h.ready)
}

type handlers struct {
	cfg Config
}

func (h handlers) live(ctx context.Context, r *http.Request) web.Encoder {
	return Status{
		Status:     "up",
		Build:      h.cfg.Build,
		Host:       r.Host,
		GOMAXPROCS: runtime.GOMAXPROCS(0),
	}
}

func (h handlers) ready(ctx context.Context, r *http.Request) web.Encoder {
	ctx, cancel := context.WithTimeout(ctx, h.cfg.Timeout)
	defer cancel()

	var (
		mu     sync.Mutex
		checks = make(map[string]string, len(h.cfg.Probes))
		failed []string
	)

	g, gctx := errgroup.WithContext(ctx)
	for _, p := range h.cfg.Probes {
		g.Go(func() error {
			err := p.Check(gctx)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				checks[p.Name] = err.Error()
				failed = append(failed, p.Name)
				return nil
			}
			checks[p.Name] = "ok"
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return errs.New(errs.Internal, err)
	}

	if len(failed) > 0 {
		sort.Strings(failed)
		h.cfg.Log.WarnContext(ctx, "readiness failed", "probes", failed)
		return Status{Status: "down", Checks: checks, status: http.StatusServiceUnavailable}
	}

	return Status{Status: "ok", Checks: checks}
}

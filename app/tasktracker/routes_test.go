package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jrazmi/tasktracker/app/tasktracker/config"
	"github.com/jrazmi/tasktracker/app/tasktracker/health"
	"github.com/jrazmi/tasktracker/bridge/scaffolding/metrics"
	"github.com/jrazmi/tasktracker/bridge/scaffolding/mid"
	"github.com/jrazmi/tasktracker/core/cases/taskscase"
	"github.com/jrazmi/tasktracker/core/repositories/tasksrepo"
	"github.com/jrazmi/tasktracker/core/repositories/tasksrepo/stores/tasksgormstore"
	"github.com/jrazmi/tasktracker/infrastructure/databases/redisdb"
	"github.com/jrazmi/tasktracker/infrastructure/databases/sqlitedb"
	"github.com/jrazmi/tasktracker/sdk/logger"
	"github.com/jrazmi/tasktracker/sdk/telemetry"
	"github.com/prometheus/client_golang/prometheus"
)

type budget struct {
	left int
}

func (b *budget) Allow(ctx context.Context, key string, limit int, window time.Duration) (redisdb.LimitResult, error) {
	b.left--
	return redisdb.LimitResult{
		Allowed:   b.left >= 0,
		Remaining: max(b.left, 0),
		Limit:     limit,
		ResetAt:   time.Now().Add(window),
	}, nil
}

func newTestHandler(t *testing.T, limiter mid.Limiter) (http.Handler, *mid.Authenticator) {
	t.Helper()

	db, err := sqlitedb.NewInMemory(t.Name())
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { sqlitedb.Close(db) })

	log := logger.NewDiscard()
	store := tasksgormstore.NewStore(log, db)
	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	reg := prometheus.NewRegistry()
	auth := mid.NewAuthenticator(mid.AuthConfig{Secret: "s3cret", Issuer: "tasktracker", Audience: "tasktracker-api"})
	cfg := config.TaskTracker{
		Build:     "test",
		Logger:    log,
		Telemetry: telemetry.NewTelemetry(),
		UseCases:  config.UseCases{Tasks: taskscase.NewService(log, tasksrepo.NewRepository(log, store))},
		Auth:      auth,
		Limiter:   limiter,
		RateLimit: mid.RateLimitConfig{Requests: 2, Window: time.Minute},
		Metrics:   metrics.MustNew("tasktracker", reg),
		Registry:  reg,
	}

	probes := []health.Probe{{Name: "sqlite", Check: func(ctx context.Context) error {
		return sqlitedb.StatusCheck(ctx, db)
	}}}
	h, err := webHandler(cfg, probes)
	if err != nil {
		t.Fatalf("web handler: %v", err)
	}
	return h, auth
}

func get(h http.Handler, target, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRoutes(t *testing.T) {
	h, auth := newTestHandler(t, nil)
	token, err := auth.Issue("owner-1", time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	tests := []struct {
		name   string
		target string
		token  string
		want   int
	}{
		{name: "live", target: "/health/live", want: http.StatusOK},
		{name: "ready", target: "/health/ready", want: http.StatusOK},
		{name: "tasks without token", target: "/api/tasks", want: http.StatusUnauthorized},
		{name: "tasks", target: "/api/tasks", token: token, want: http.StatusOK},
		{name: "stats", target: "/api/tasks/_stats", token: token, want: http.StatusOK},
		{name: "unknown task", target: "/api/tasks/nope", token: token, want: http.StatusNotFound},
		{name: "unknown route", target: "/nowhere", want: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(h, tt.target, tt.token)
			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d body = %s", rec.Code, tt.want, rec.Body.String())
			}
			if tt.target != "/nowhere" && rec.Header().Get("X-Content-Type-Options") != "nosniff" {
				t.Fatalf("default headers missing: %v", rec.Header())
			}
		})
	}

	rec := get(h, "/metrics", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("metrics status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "tasktracker_http_requests_total") {
		t.Fatalf("request counter missing from /metrics")
	}
}

func TestRateLimitedAPI(t *testing.T) {
	h, auth := newTestHandler(t, &budget{left: 2})
	token, _ := auth.Issue("owner-1", time.Hour)

	for i := 0; i < 2; i++ {
		if rec := get(h, "/api/tasks", token); rec.Code != http.StatusOK {
			t.Fatalf("request %d status = %d", i, rec.Code)
		}
	}

	rec := get(h, "/api/tasks", token)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Fatal("Retry-After not set")
	}

	if rec := get(h, "/health/live", ""); rec.Code != http.StatusOK {
		t.Fatalf("health is rate limited: %d", rec.Code)
	}
}

package health_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jrazmi/tasktracker/app/tasktracker/health"
	"github.com/jrazmi/tasktracker/infrastructure/web"
	"github.com/jrazmi/tasktracker/sdk/logger"
)

func serve(t *testing.T, probes ...health.Probe) func(string) (*httptest.ResponseRecorder, health.Status) {
	t.Helper()

	wh := web.NewWebHandler()
	health.AddHandlers(wh, health.Config{Log: logger.NewDiscard(), Build: "test", Probes: probes})

	return func(target string) (*httptest.ResponseRecorder, health.Status) {
		rec := httptest.NewRecorder()
		wh.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))

		var st health.Status
		if err := json.Unmarshal(rec.Body.Bytes(), &st); err != nil {
			t.Fatalf("decode %s: %v", rec.Body.String(), err)
		}
		return rec, st
	}
}

func ok(context.Context) error { return nil }

func TestLive(t *testing.T) {
	get := serve(t, health.Probe{Name: "db", Check: func(context.Context) error { return errors.New("down") }})

	rec, st := get("/health/live")
	if rec.Code != http.StatusOK || st.Status != "up" || st.Build != "test" {
		t.Fatalf("status = %d body = %+v", rec.Code, st)
	}
}

func TestReady(t *testing.T) {
	tests := []struct {
		name   string
		probes []health.Probe
		code   int
		status string
	}{
		{name: "no probes", code: http.StatusOK, status: "ok"},
		{
			name:   "all healthy",
			probes: []health.Probe{{Name: "db", Check: ok}, {Name: "redis", Check: ok}},
			code:   http.StatusOK,
			status: "ok",
		},
		{
			name: "one failing",
			probes: []health.Probe{
				{Name: "db", Check: ok},
				{Name: "redis", Check: func(context.Context) error { return errors.New("connection refused") }},
			},
			code:   http.StatusServiceUnavailable,
			status: "down",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, st := serve(t, tt.probes...)("/health/ready")
			if rec.Code != tt.code || st.Status != tt.status {
				t.Fatalf("status = %d body = %s", rec.Code, rec.Body.String())
			}
			if len(st.Checks) != len(tt.probes) {
				t.Fatalf("checks = %v", st.Checks)
			}
		})
	}
}

package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jrazmi/tasktracker/sdk/logger"
)

func TestAbortLogsStopFailure(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewDefault(logger.WithOutput(&buf))

	listenErr := errors.New("address already in use")
	var stopped bool
	err := abort(context.Background(), log, listenErr, func(ctx context.Context) error {
		stopped = true
		if _, ok := ctx.Deadline(); !ok {
			t.Error("stop called without a deadline")
		}
		return errors.New("store close: connection reset")
	})

	if !stopped {
		t.Fatal("stop was not called")
	}
	if !errors.Is(err, listenErr) {
		t.Fatalf("err = %v, want the server error", err)
	}
	out := buf.String()
	if !strings.Contains(out, "stop after server error") || !strings.Contains(out, "connection reset") {
		t.Fatalf("stop failure not logged: %s", out)
	}
}

func TestAbortQuietWhenStopSucceeds(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewDefault(logger.WithOutput(&buf))

	err := abort(context.Background(), log, errors.New("boom"), func(context.Context) error { return nil })
	if err == nil || !strings.Contains(err.Error(), "boom") {
		t.Fatalf("err = %v", err)
	}
	if strings.Contains(buf.String(), "stop after server error") {
		t.Fatalf("unexpected log: %s", buf.String())
	}
}

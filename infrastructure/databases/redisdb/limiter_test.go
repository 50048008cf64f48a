package redisdb

import (
	"context"
	"testing"
	"time"
)

func TestWindowKey(t *testing.T) {
	at := time.UnixMilli(125_000)

	if got := windowKey("rl:", "owner-1", at, time.Minute); got != "rl:owner-1:2" {
		t.Fatalf("key = %q", got)
	}
	if got := windowKey("rl:", "owner-1", at.Add(50*time.Second), time.Minute); got != "rl:owner-1:2" {
		t.Fatalf("same window produced %q", got)
	}
	if got := windowKey("rl:", "owner-1", at.Add(56*time.Second), time.Minute); got != "rl:owner-1:3" {
		t.Fatalf("next window produced %q", got)
	}
}

func TestNewLimiterSeparatesPrefix(t *testing.T) {
	for prefix, want := range map[string]string{
		"tasktracker:ratelimit":  "tasktracker:ratelimit:",
		"tasktracker:ratelimit:": "tasktracker:ratelimit:",
		"":                       "",
	} {
		l := NewLimiter(nil, prefix)
		if l.keyPrefix != want {
			t.Fatalf("prefix %q stored as %q, want %q", prefix, l.keyPrefix, want)
		}
	}

	l := NewLimiter(nil, "tasktracker:ratelimit")
	at := time.UnixMilli(125_000)
	if got := windowKey(l.keyPrefix, "owner:alice", at, time.Minute); got != "tasktracker:ratelimit:owner:alice:2" {
		t.Fatalf("key = %q", got)
	}
}

func TestAllowRejectsSubMillisecondWindow(t *testing.T) {
	l := NewLimiter(nil, "rl")
	if _, err := l.Allow(context.Background(), "owner-1", 10, time.Microsecond); err == nil {
		t.Fatal("expected an error for a window below 1ms")
	}
}

func TestNewLimitResult(t *testing.T) {
	now := time.Unix(1_000, 0)

	tests := []struct {
		name      string
		count     int64
		ttl       int64
		allowed   bool
		remaining int
		reset     time.Time
	}{
		{name: "first request", count: 1, ttl: 60_000, allowed: true, remaining: 99, reset: now.Add(time.Minute)},
		{name: "at limit", count: 100, ttl: 1_500, allowed: true, remaining: 0, reset: now.Add(1500 * time.Millisecond)},
		{name: "over limit", count: 101, ttl: 10, allowed: false, remaining: 0, reset: now.Add(10 * time.Millisecond)},
		{name: "missing ttl", count: 5, ttl: -1, allowed: true, remaining: 95, reset: now.Add(time.Minute)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := newLimitResult(tt.count, tt.ttl, 100, now, time.Minute)
			if got.Allowed != tt.allowed || got.Remaining != tt.remaining || !got.ResetAt.Equal(tt.reset) || got.Limit != 100 {
				t.Fatalf("result = %+v", got)
			}
		})
	}
}

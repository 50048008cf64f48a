package redisdb

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// fixedWindow increments the counter of the current window and starts its
// expiry on first use. It returns the count and the remaining ttl in ms.
var fixedWindow = redis.NewScript(`
local current = redis.call('INCR', KEYS[1])
if current == 1 then
	redis.call('PEXPIRE', KEYS[1], ARGV[1])
end
return {current, redis.call('PTTL', KEYS[1])}
`)

// LimitResult is the outcome of a rate limit check.
type LimitResult struct {
	Allowed   bool
	Remaining int
	ResetAt   time.Time
	Limit     int
}

// Limiter implements fixed window rate limiting in Redis. Windows are aligned
// to multiples of the window length, so all instances share one counter per
// key and window.
type Limiter struct {
	client    *redis.Client
	keyPrefix string
	now       func() time.Time
}

// NewLimiter creates a limiter storing its counters under keyPrefix. A ":"
// separator is appended when keyPrefix does not end with one.
func NewLimiter(client *redis.Client, keyPrefix string) *Limiter {
	if keyPrefix != "" && !strings.HasSuffix(keyPrefix, ":") {
		keyPrefix += ":"
	}
	return &Limiter{
		client:    client,
		keyPrefix: keyPrefix,
		now:       time.Now,
	}
}

// Allow counts one request for key and reports whether it fits in limit.
func (l *Limiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (LimitResult, error) {
	if window < time.Millisecond {
		return LimitResult{}, fmt.Errorf("rate limit window %s is below 1ms", window)
	}

	now := l.now()
	redisKey := windowKey(l.keyPrefix, key, now, window)

	res, err := fixedWindow.Run(ctx, l.client, []string{redisKey}, window.Milliseconds()).Int64Slice()
	if err != nil {
		return LimitResult{}, fmt.Errorf("rate limit script: %w", err)
	}
	if len(res) != 2 {
		return LimitResult{}, fmt.Errorf("rate limit script: unexpected reply length %d", len(res))
	}

	return newLimitResult(res[0], res[1], limit, now, window), nil
}

func windowKey(prefix, key string, now time.Time, window time.Duration) string {
	bucket := now.UnixMilli() / window.Milliseconds()
	return fmt.Sprintf("%s%s:%d", prefix, key, bucket)
}

func newLimitResult(count, ttlMillis int64, limit int, now time.Time, window time.Duration) LimitResult {
	reset := time.Duration(ttlMillis) * time.Millisecond
	if ttlMillis < 0 {
		reset = window
	}

	remaining := int64(limit) - count
	if remaining < 0 {
		remaining = 0
	}

	return LimitResult{
		Allowed:   count <= int64(limit),
		Remaining: int(remaining),
		ResetAt:   now.Add(reset),
		Limit:     limit,
	}
}

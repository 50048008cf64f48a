package mid

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/jrazmi/tasktracker/bridge/scaffolding/errs"
	"github.com/jrazmi/tasktracker/bridge/scaffolding/metrics"
	"github.com/jrazmi/tasktracker/infrastructure/databases/redisdb"
	"github.com/jrazmi/tasktracker/infrastructure/web"
	"github.com/jrazmi/tasktracker/sdk/logger"
)

// RateLimitConfig holds the request budget per caller.
type RateLimitConfig struct {
	Requests int           `env:"RATE_LIMIT_REQUESTS" default:"100"`
	Window   time.Duration `env:"RATE_LIMIT_WINDOW" default:"1m"`
}

// Validate reports settings the limiter cannot enforce.
func (c RateLimitConfig) Validate() error {
	if c.Requests < 1 {
		return errors.New("rate limit requests must be at least 1")
	}
	if c.Window < time.Millisecond {
		return errors.New("rate limit window must be at least 1ms")
	}
	return nil
}

// Limiter decides whether a request identified by key fits its budget.
type Limiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (redisdb.LimitResult, error)
}

// RateLimit rejects callers over budget with 429. Callers are keyed by owner
// id when authenticated and by remote address otherwise. Limiter failures let
// the request through.
func RateLimit(log *logger.Logger, limiter Limiter, cfg RateLimitConfig, m *metrics.Metrics) web.Middleware {
	return func(next web.HandlerFunc) web.HandlerFunc {
		return func(ctx context.Context, r *http.Request) web.Encoder {
			key := "ip:" + remoteHost(r)
			if ownerID, err := GetOwnerID(ctx); err == nil {
				key = "owner:" + ownerID
			}

			res, err := limiter.Allow(ctx, key, cfg.Requests, cfg.Window)
			if err != nil {
				log.WarnContext(ctx, "rate limiter unavailable", "err", err)
				return next(ctx, r)
			}

			if w := web.GetWriter(ctx); w != nil {
				w.Header().Set("X-RateLimit-Limit", strconv.Itoa(res.Limit))
				w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
				w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(res.ResetAt.Unix(), 10))
			}

			if !res.Allowed {
				m.AddRateLimited()
				if w := web.GetWriter(ctx); w != nil {
					retry := int(time.Until(res.ResetAt).Round(time.Second).Seconds())
					if retry < 1 {
						retry = 1
					}
					w.Header().Set("Retry-After", strconv.Itoa(retry))
				}
				return errs.Newf(errs.ResourceExhausted, "rate limit exceeded")
			}

			return next(ctx, r)
		}
	}
}

func remoteHost(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

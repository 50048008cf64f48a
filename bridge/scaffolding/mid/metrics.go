package mid

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/jrazmi/tasktracker/bridge/scaffolding/errs"
	"github.com/jrazmi/tasktracker/bridge/scaffolding/metrics"
	"github.com/jrazmi/tasktracker/infrastructure/web"
)

// Metrics updates program counters.
func Metrics(m *metrics.Metrics) web.Middleware {
	return func(next web.HandlerFunc) web.HandlerFunc {
		return func(ctx context.Context, r *http.Request) web.Encoder {
			done := m.Track()
			defer done()

			start := time.Now()
			resp := next(ctx, r)

			route := r.Pattern
			if route == "" {
				route = "unmatched"
			}
			m.ObserveRequest(r.Method, route, web.StatusCode(resp), time.Since(start))

			if err := isError(resp); err != nil {
				code := errs.Internal.String()
				var appErr *errs.Error
				if errors.As(err, &appErr) {
					code = appErr.Code.String()
				}
				m.AddError(code)
			}

			return resp
		}
	}
}

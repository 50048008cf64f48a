package web

import (
	"net/http"
)

func (wh *WebHandler) buildHandlerChain(handler HandlerFunc, middleware ...Middleware) HandlerFunc {
	allMiddleware := make([]Middleware, 0, len(wh.globalMiddleware)+len(middleware))
	allMiddleware = append(allMiddleware, wh.globalMiddleware...)
	allMiddleware = append(allMiddleware, middleware...)

	final := handler
	for i := len(allMiddleware) - 1; i >= 0; i-- {
		final = allMiddleware[i](final)
	}

	return final
}

// writeCORSHeaders echoes an allowed origin. Credentials are only allowed for
// explicitly listed origins, never for the wildcard.
func (wh *WebHandler) writeCORSHeaders(w http.ResponseWriter, r *http.Request) {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return
	}

	for _, allowed := range wh.corsOrigins {
		switch allowed {
		case "*":
			w.Header().Set("Access-Control-Allow-Origin", "*")
		case origin:
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Add("Vary", "Origin")
		default:
			continue
		}

		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Authorization")
		w.Header().Set("Access-Control-Max-Age", "86400")
		return
	}
}

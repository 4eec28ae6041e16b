package middleware

import (
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// HTTPObserver records served requests. *metrics.Metrics satisfies it.
type HTTPObserver interface {
	ObserveHTTP(method, route string, status int, d time.Duration)
}

// NewMetricsHandler returns a middleware that reports every request to obs,
// labelled by its chi route pattern rather than the raw path.
func NewMetricsHandler(obs HTTPObserver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			obs.ObserveHTTP(r.Method, routePattern(r), statusOf(ww), time.Since(start))
		})
	}
}

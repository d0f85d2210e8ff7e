package middleware

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"gymdesk/internal/adapters/http/perf"
)

// DefaultSlowRequest is the threshold used when Timing gets a zero threshold.
const DefaultSlowRequest = 200 * time.Millisecond

// statusWriter wraps http.ResponseWriter to capture the status code.
type statusWriter struct {
	http.ResponseWriter
	status int
}

// WriteHeader captures the status code and delegates to the underlying ResponseWriter.
// PRE: code is a valid HTTP status code
// POST: status stored, header written to underlying ResponseWriter
func (sw *statusWriter) WriteHeader(code int) {
	sw.status = code
	sw.ResponseWriter.WriteHeader(code)
}

// statusWriterPool reduces allocations on the hot path.
var statusWriterPool = sync.Pool{
	New: func() any {
		return &statusWriter{}
	},
}

// Timing returns middleware that logs request duration.
// Normal requests log at DEBUG; slow requests (at or above threshold) log at WARN.
// If collector is non-nil, samples are recorded under "METHOD /route/{pattern}".
func Timing(collector *perf.Collector, threshold time.Duration, logger *slog.Logger) func(http.Handler) http.Handler {
	if threshold <= 0 {
		threshold = DefaultSlowRequest
	}
	if logger == nil {
		logger = slog.Default()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			sw := statusWriterPool.Get().(*statusWriter)
			sw.ResponseWriter = w
			sw.status = http.StatusOK
			defer func() {
				elapsed := time.Since(start)
				durationMs := float64(elapsed.Microseconds()) / 1000.0
				route := routeKey(r)

				attrs := []any{
					"request_id", chimw.GetReqID(r.Context()),
					"method", r.Method,
					"path", r.URL.Path,
					"status", sw.status,
					"duration_ms", durationMs,
				}
				if elapsed >= threshold {
					logger.Warn("slow_request", attrs...)
				} else {
					logger.Debug("request", attrs...)
				}

				collector.Record(perf.Sample{
					Kind:       perf.KindRequest,
					Key:        r.Method + " " + route,
					Status:     sw.status,
					DurationMs: durationMs,
					At:         start,
				})

				sw.ResponseWriter = nil
				statusWriterPool.Put(sw)
			}()

			next.ServeHTTP(sw, r)
		})
	}
}

// routeKey returns the matched chi route pattern, falling back to the raw
// path outside a chi router.
func routeKey(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return r.URL.Path
}

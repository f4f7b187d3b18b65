package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// HTTPRecorder receives one event per served request.
type HTTPRecorder interface {
	RecordHTTPRequest(method, route string, status int, elapsed time.Duration)
}

type responseWriter struct {
	http.ResponseWriter
	status int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

// Logger stores a request scoped logger (carrying the request id) in the
// context, writes one access log line per request and feeds the recorder.
// recorder may be nil.
func Logger(l zerolog.Logger, recorder HTTPRecorder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			reqLog := l.With().Str("request_id", RequestIDFromContext(r.Context())).Logger()
			r = r.WithContext(reqLog.WithContext(r.Context()))

			rw := &responseWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rw, r)

			elapsed := time.Since(start)
			route := "unmatched"
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				route = rctx.RoutePattern()
			}
			reqLog.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", rw.status).
				Dur("elapsed", elapsed).
				Msgf("%s %s %d %s", r.Method, r.URL.Path, rw.status, elapsed)
			if recorder != nil {
				recorder.RecordHTTPRequest(r.Method, route, rw.status, elapsed)
			}
		})
	}
}

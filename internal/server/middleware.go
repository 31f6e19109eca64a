// internal/server/middleware.go
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-ID"

// requestID accepts a caller supplied X-Request-ID or assigns a UUID. The id
// is stored where middleware.GetReqID finds it and echoed on the response.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		ctx := context.WithValue(r.Context(), middleware.RequestIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// accessLog logs each request and records it with the OpenTelemetry meter.
func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		duration := time.Since(start)

		s.obs.RecordRequest(r.Context(), route, status)
		s.obs.RecordRequestDuration(r.Context(), route, duration, status)

		s.logger.Debug("request handled", map[string]interface{}{
			"requestId":  middleware.GetReqID(r.Context()),
			"method":     r.Method,
			"route":      route,
			"status":     status,
			"durationMs": duration.Milliseconds(),
			"bytes":      ww.BytesWritten(),
		})
	})
}

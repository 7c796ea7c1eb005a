package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"mercator-hq/h2scaffold/pkg/telemetry/logging"
)

// Logging logs HTTP requests and responses with structured logging. It also
// stores a request-scoped logger carrying the request ID in the context so
// handlers can log through logging.FromContext.
//
// Completion is logged at error for 5xx, warn for 4xx and info otherwise.
//
// Log format (JSON):
//
//	{
//	  "time": "2026-03-02T10:30:00Z",
//	  "level": "INFO",
//	  "msg": "request completed",
//	  "request_id": "550e8400-e29b-41d4-a716-446655440000",
//	  "method": "GET",
//	  "path": "/http2",
//	  "proto": "HTTP/2.0",
//	  "status": 200,
//	  "bytes": 16,
//	  "latency_ms": 1,
//	  "remote_addr": "192.168.1.100:54321",
//	  "user_agent": "curl/8.5.0"
//	}
func Logging(logger *slog.Logger) Middleware {
	if logger == nil {
		logger = slog.Default()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			startTime := time.Now()

			requestLogger := logger
			if requestID := GetRequestID(r.Context()); requestID != "" {
				requestLogger = logger.With("request_id", requestID)
			}

			ctx := context.WithValue(r.Context(), StartTimeKey, startTime)
			ctx = logging.WithLogger(ctx, requestLogger)

			rw := NewResponseWriter(w)

			requestLogger.DebugContext(ctx, "request started",
				"method", r.Method,
				"path", r.URL.Path,
				"proto", r.Proto,
				"remote_addr", r.RemoteAddr,
				"user_agent", r.UserAgent(),
			)

			next.ServeHTTP(rw, r.WithContext(ctx))

			logLevel := slog.LevelInfo
			if rw.StatusCode() >= 500 {
				logLevel = slog.LevelError
			} else if rw.StatusCode() >= 400 {
				logLevel = slog.LevelWarn
			}

			requestLogger.Log(ctx, logLevel, "request completed",
				"method", r.Method,
				"path", r.URL.Path,
				"proto", r.Proto,
				"status", rw.StatusCode(),
				"bytes", rw.BytesWritten(),
				"latency_ms", time.Since(startTime).Milliseconds(),
				"remote_addr", r.RemoteAddr,
				"user_agent", r.UserAgent(),
			)
		})
	}
}

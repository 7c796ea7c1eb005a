// Package middleware provides HTTP middleware for cross-cutting concerns.
//
// This package implements the request ID, logging and panic recovery layers
// of the application chain, plus the shared pieces other middleware build on:
// the Middleware type, Chain, and a status-capturing ResponseWriter.
//
// # Middleware Chain
//
// Chain applies middleware so that the first argument is the outermost layer:
//
//	handler = middleware.Chain(mux,
//	    collector.RequestTimer(),
//	    middleware.RequestID,
//	    tracer.Middleware(),
//	    middleware.Logging(logger),
//	    middleware.Recovery,
//	)
//
// # Response Capture
//
// NewResponseWriter reuses an existing *ResponseWriter instead of wrapping it
// again, so every layer in a chain reads the same status code. When Recovery
// converts a panic into a 500, the timer and the request log both record 500.
//
// # Request ID
//
// RequestID reuses a printable X-Request-ID of at most 128 bytes supplied by
// the client and otherwise generates a UUID v4:
//
//	X-Request-ID: 550e8400-e29b-41d4-a716-446655440000
//
// # Logging
//
// Logging stores a request-scoped *slog.Logger carrying request_id in the
// context and logs a completion line per request. Handlers log through it:
//
//	logging.FromContext(r.Context()).Info("hello")
//
// # Recovery
//
// Recovery catches panics in handlers and converts them to HTTP 500 errors:
//
//	{"error":"Internal Server Error"}
//
// The panic stack trace is logged but not exposed to clients.
package middleware

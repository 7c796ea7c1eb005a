// Package logging configures structured logging for h2scaffold.
//
// # Overview
//
// The logging package builds a log/slog logger with:
//   - JSON (default) or text output
//   - A minimum level chosen from the deployment environment
//   - trace_id and span_id attached to records logged with a context that
//     carries an active OpenTelemetry span
//   - A request-scoped logger stored in the request context
//
// # Levels
//
// Unless telemetry.logging.level is set explicitly, production logs at info
// and every other environment logs at debug:
//
//	logger, err := logging.New(logging.FromConfig(cfg))
//
// # Request Loggers
//
// HTTP middleware stores a logger carrying the request ID in the request
// context. Handlers retrieve it with FromContext:
//
//	logging.FromContext(r.Context()).InfoContext(r.Context(), "hello")
//
// FromContext falls back to slog.Default() so code outside a request never
// receives nil.
package logging

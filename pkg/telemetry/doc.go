// Package telemetry groups the observability packages of h2scaffold.
//
// # Components
//
//   - logging: slog JSON/text loggers, request-scoped loggers in the context
//   - metrics: Prometheus registry, request timer and certificate metrics
//   - tracing: OpenTelemetry spans for application routes
//   - health: liveness and readiness probes
//
// # Usage
//
//	logger, err := logging.New(logging.FromConfig(cfg))
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, prometheus.NewRegistry())
//	tracer, err := tracing.New(&cfg.Telemetry.Tracing)
//	checker := health.New(cfg.Telemetry.Health.CheckTimeout)
//
// The request timer is installed as the outermost middleware of the
// application chain; the probes and the metrics endpoint are mounted in
// front of it and are never timed.
package telemetry

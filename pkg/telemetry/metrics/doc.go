// Package metrics provides Prometheus metrics collection for h2scaffold.
//
// # Overview
//
// The Collector owns an explicitly constructed *prometheus.Registry and every
// metric the server exports:
//
//   - http_request_duration_seconds: histogram labelled by code, handler and
//     method, fed by the RequestTimer middleware
//   - tls_certificate_expiry_timestamp_seconds: NotAfter of the serving
//     certificate
//   - tls_certificate_reloads_total: certificate reload attempts by result
//   - Go runtime and process collectors (optional)
//
// # Usage
//
//	registry := prometheus.NewRegistry()
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, registry)
//
//	app := middleware.Chain(mux, collector.RequestTimer(), ...)
//	admin.Handle("GET /metrics", collector.Handler())
//
// # Request Timing
//
// RequestTimer starts a PendingTimer when a request enters the chain and
// completes it exactly once when the downstream handler returns or panics.
// The handler label is the request path resolved against the Host header with
// the query string and fragment removed, so /http2?x=1 and /http2 share a
// series. Requests whose target cannot be parsed are served untimed.
//
// Histogram buckets are fixed at construction. The default upper bounds are:
//
//	0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5 (seconds)
//
// # Cardinality Management
//
// Every distinct path creates a new series. The collector caps the number of
// distinct handler values (10,000 by default); paths first seen after the cap
// is reached are recorded under the handler "other".
package metrics

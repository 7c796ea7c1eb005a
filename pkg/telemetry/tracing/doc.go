// Package tracing provides OpenTelemetry distributed tracing for h2scaffold.
//
// # Overview
//
// Tracing is optional and disabled by default. When enabled, every request on
// the timed routes gets a server span exported over OTLP/gRPC. When disabled,
// a noop provider is used but incoming W3C trace context is still extracted,
// so log lines carry the caller's trace ID.
//
// # Trace Context Propagation
//
// The middleware continues traces propagated with W3C Trace Context:
//
//	traceparent: 00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01
//
// # Sampling
//
// Root spans are sampled with probability telemetry.tracing.sample_ratio;
// child spans follow their parent's decision.
//
// # Usage
//
//	tracer, err := tracing.New(&cfg.Telemetry.Tracing, tracing.WithGlobal())
//	if err != nil {
//	    return err
//	}
//	defer tracer.Shutdown(context.Background())
//
//	handler = middleware.Chain(mux, tracer.Middleware())
package tracing

// Package health provides the liveness and readiness probe endpoints.
//
// Both probes always answer 200 with the body {"status":"ok"}. They are
// mounted ahead of the request timer and access log so probe traffic never
// shows up in either.
//
// Readiness runs every registered CheckFunc concurrently, each bounded by the
// configured timeout. Failing checks are logged at warn level and never change
// the response:
//
//	checker := health.New(cfg.Telemetry.Health.CheckTimeout, health.WithLogger(logger))
//	checker.RegisterCheck("tls_certificate", reloader.Check)
//
//	mux.HandleFunc("GET /live", checker.LivenessHandler())
//	mux.HandleFunc("GET /ready", checker.ReadinessHandler())
package health

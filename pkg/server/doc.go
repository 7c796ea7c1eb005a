// Package server runs the plaintext and TLS listeners of h2scaffold.
//
// # Basic Usage
//
//	cfg, err := config.LoadConfigWithEnvOverrides("config.yaml")
//	if err != nil {
//	    return err
//	}
//
//	srv, err := server.NewServer(cfg, server.WithLogger(logger))
//	if err != nil {
//	    return err
//	}
//	if err := srv.Start(ctx); err != nil {
//	    return err
//	}
//
// Start returns an error straight away when the certificate cannot be
// loaded or either address cannot be bound. Otherwise it blocks until ctx
// is cancelled or Shutdown is called. Once Shutdown has been called, Start
// returns http.ErrServerClosed and leaves nothing listening.
//
// # Routes
//
// Admin routes are matched first, on the exact path, and bypass timing and
// request logging:
//
//   - GET /ready    readiness probe, {"status":"ok"}
//   - GET /live     liveness probe, {"status":"ok"}
//   - GET /metrics  Prometheus exposition
//
// Everything else goes through the application chain:
//
//   - GET /http2    {"message":"ok"}
//   - GET /         plain-text greeting
//   - anything else 404 Not Found
//
// # Middleware Chain
//
// Outermost first:
//  1. RequestTimer: records http_request_duration_seconds
//  2. RequestID: assigns X-Request-ID
//  3. Tracing: server span per request
//  4. Logging: request-scoped logger and completion line
//  5. Recovery: converts panics into 500 responses
//
// # Listeners
//
// The plaintext listener serves HTTP/1.1, plus cleartext HTTP/2 when
// server.h2c is set. The TLS listener offers h2 and http/1.1 through ALPN and
// reads its certificate from a reloader, so renewed files are picked up
// without a restart.
package server

package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"mercator-hq/h2scaffold/pkg/config"
	"mercator-hq/h2scaffold/pkg/handlers"
	"mercator-hq/h2scaffold/pkg/middleware"
	sectls "mercator-hq/h2scaffold/pkg/security/tls"
	"mercator-hq/h2scaffold/pkg/telemetry/health"
	"mercator-hq/h2scaffold/pkg/telemetry/metrics"
	"mercator-hq/h2scaffold/pkg/telemetry/tracing"
)

// Server serves the admin routes and the timed application routes on a
// plaintext HTTP/1.1 listener and a TLS listener that negotiates HTTP/2.
type Server struct {
	config    *config.Config
	logger    *slog.Logger
	collector *metrics.Collector
	tracer    *tracing.Tracer
	checker   *health.Checker
	reloader  *sectls.CertificateReloader
	expiry    *sectls.ExpiryMonitor
	handler   http.Handler

	httpServer   *http.Server
	tlsServer    *http.Server
	httpListener net.Listener
	tlsListener  net.Listener

	ready        chan struct{}
	shutdownChan chan struct{}
	shutdownOnce sync.Once
	mu           sync.RWMutex
	isRunning    bool
	started      bool
	closing      bool
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the base logger. Request loggers derive from it.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithCollector injects the metrics collector and thereby its registry.
func WithCollector(c *metrics.Collector) Option {
	return func(s *Server) {
		s.collector = c
	}
}

// WithTracer injects the tracer used for application routes.
func WithTracer(t *tracing.Tracer) Option {
	return func(s *Server) {
		s.tracer = t
	}
}

// WithChecker injects the readiness checker so callers can register checks.
func WithChecker(c *health.Checker) Option {
	return func(s *Server) {
		s.checker = c
	}
}

// NewServer creates a server from cfg. Components not supplied through
// options are built from the configuration, each with a fresh Prometheus
// registry and a noop tracer unless tracing is enabled.
func NewServer(cfg *config.Config, opts ...Option) (*Server, error) {
	if cfg == nil {
		return nil, errors.New("configuration is nil")
	}

	s := &Server{
		config:       cfg,
		ready:        make(chan struct{}),
		shutdownChan: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.collector == nil {
		s.collector = metrics.NewCollector(&cfg.Telemetry.Metrics, prometheus.NewRegistry())
	}
	if s.tracer == nil {
		tracer, err := tracing.New(&cfg.Telemetry.Tracing)
		if err != nil {
			return nil, fmt.Errorf("failed to create tracer: %w", err)
		}
		s.tracer = tracer
	}
	if s.checker == nil {
		s.checker = health.New(cfg.Telemetry.Health.CheckTimeout, health.WithLogger(s.logger))
	}

	tlsCfg := cfg.Security.TLS
	s.reloader = sectls.NewCertificateReloader(tlsCfg.CertFile, tlsCfg.KeyFile,
		sectls.WithLogger(s.logger),
		sectls.WithObserver(s.collector),
	)
	s.expiry = sectls.NewExpiryMonitor(s.reloader, s.collector,
		tlsCfg.ExpiryCheckSchedule, tlsCfg.ExpiryWarningDays, s.logger)

	s.handler = s.setupRoutes()

	return s, nil
}

// Start loads the certificate, binds both listeners and serves until ctx is
// cancelled, Shutdown is called or a listener fails. Errors before serving
// begins (bad certificate, address in use) are returned immediately. Start
// returns http.ErrServerClosed when Shutdown has already been called.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return fmt.Errorf("server is already running")
	}
	if s.started {
		s.mu.Unlock()
		return fmt.Errorf("server cannot be restarted")
	}
	if s.closing {
		s.mu.Unlock()
		return http.ErrServerClosed
	}
	s.isRunning = true
	s.started = true
	s.mu.Unlock()

	if err := s.listen(ctx); err != nil {
		s.expiry.Stop()
		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()
		return err
	}

	// Shutdown may have run while the listeners were being bound, before
	// there was anything for it to stop.
	s.mu.Lock()
	if s.closing {
		s.isRunning = false
		s.mu.Unlock()
		s.closeBound()
		s.expiry.Stop()
		return http.ErrServerClosed
	}
	s.mu.Unlock()

	errChan := make(chan error, 2)
	go s.serve("http", func() error {
		return s.httpServer.Serve(s.httpListener)
	}, errChan)
	go s.serve("tls", func() error {
		// The certificate comes from TLSConfig.GetCertificate.
		return s.tlsServer.ServeTLS(s.tlsListener, "", "")
	}, errChan)

	close(s.ready)

	select {
	case <-ctx.Done():
		s.logger.Info("context cancelled, initiating shutdown")
		return s.Shutdown(context.Background())
	case err := <-errChan:
		_ = s.Shutdown(context.Background())
		return err
	case <-s.shutdownChan:
		return nil
	}
}

// closeBound closes servers and listeners that were bound but never served.
func (s *Server) closeBound() {
	for _, srv := range []*http.Server{s.httpServer, s.tlsServer} {
		if srv != nil {
			_ = srv.Close()
		}
	}
	for _, l := range []net.Listener{s.httpListener, s.tlsListener} {
		if l != nil {
			_ = l.Close()
		}
	}
}

// listen loads TLS material and binds both listeners.
func (s *Server) listen(ctx context.Context) error {
	tlsCfg := &s.config.Security.TLS
	srvCfg := &s.config.Server

	if err := s.reloader.Load(); err != nil {
		return fmt.Errorf("failed to load TLS certificate: %w", err)
	}
	if tlsCfg.Watch {
		if err := s.reloader.Watch(ctx); err != nil {
			return fmt.Errorf("failed to watch TLS certificate: %w", err)
		}
	}
	if err := s.expiry.Start(ctx); err != nil {
		return fmt.Errorf("failed to start certificate expiry monitor: %w", err)
	}

	tlsConfig, err := sectls.NewServerConfig(tlsCfg, s.reloader.GetCertificate)
	if err != nil {
		return fmt.Errorf("failed to configure TLS: %w", err)
	}

	httpListener, err := net.Listen("tcp", srvCfg.HTTPAddress)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", srvCfg.HTTPAddress, err)
	}
	tlsListener, err := net.Listen("tcp", srvCfg.TLSAddress)
	if err != nil {
		_ = httpListener.Close()
		return fmt.Errorf("failed to listen on %s: %w", srvCfg.TLSAddress, err)
	}

	var plain http.Handler = s.handler
	if srvCfg.H2C {
		plain = h2c.NewHandler(s.handler, &http2.Server{MaxConcurrentStreams: srvCfg.MaxConcurrentStreams})
	}

	httpServer := s.newHTTPServer(plain)
	tlsServer := s.newHTTPServer(s.handler)
	tlsServer.TLSConfig = tlsConfig
	if err := http2.ConfigureServer(tlsServer, &http2.Server{
		MaxConcurrentStreams: srvCfg.MaxConcurrentStreams,
		IdleTimeout:          srvCfg.IdleTimeout,
	}); err != nil {
		_ = httpListener.Close()
		_ = tlsListener.Close()
		return fmt.Errorf("failed to configure HTTP/2: %w", err)
	}

	s.mu.Lock()
	s.httpServer = httpServer
	s.tlsServer = tlsServer
	s.httpListener = httpListener
	s.tlsListener = tlsListener
	s.mu.Unlock()

	// Informational: /ready keeps answering 200 and logs the failure.
	s.checker.RegisterCheck("tls_certificate", s.reloader.Check)

	return nil
}

func (s *Server) newHTTPServer(handler http.Handler) *http.Server {
	cfg := &s.config.Server
	return &http.Server{
		Handler:           handler,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
		ErrorLog:          slog.NewLogLogger(s.logger.Handler(), slog.LevelWarn),
	}
}

func (s *Server) serve(name string, run func() error, errChan chan<- error) {
	addr := s.listenerAddr(name)
	switch name {
	case "tls":
		s.logger.Info("HTTP/2 listener started", "address", addr, "protocols", sectls.NextProtos)
	default:
		s.logger.Info("HTTP/1 listener started", "address", addr, "h2c", s.config.Server.H2C)
	}

	if err := run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		errChan <- fmt.Errorf("%s listener error: %w", name, err)
	}
}

// Shutdown gracefully stops both listeners within the configured shutdown
// timeout and flushes pending spans. It is safe to call more than once.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		defer close(s.shutdownChan)

		s.mu.Lock()
		s.closing = true
		running := s.isRunning
		servers := []*http.Server{s.httpServer, s.tlsServer}
		s.mu.Unlock()
		if !running {
			return
		}

		s.logger.Info("initiating graceful shutdown", "timeout", s.config.Server.ShutdownTimeout.String())

		shutdownCtx, cancel := context.WithTimeout(ctx, s.config.Server.ShutdownTimeout)
		defer cancel()

		var errs []error
		for _, srv := range servers {
			if srv == nil {
				continue
			}
			if err := srv.Shutdown(shutdownCtx); err != nil {
				errs = append(errs, err)
			}
		}

		s.expiry.Stop()

		if err := s.tracer.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("tracer shutdown: %w", err))
		}

		if len(errs) > 0 {
			shutdownErr = fmt.Errorf("server shutdown error: %w", errors.Join(errs...))
			s.logger.Error("error during server shutdown", "error", shutdownErr)
		}

		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()

		s.logger.Info("server stopped")
	})

	return shutdownErr
}

// Ready is closed once both listeners are bound.
func (s *Server) Ready() <-chan struct{} {
	return s.ready
}

// HTTPAddr returns the bound plaintext address, or "" before Start.
func (s *Server) HTTPAddr() string {
	return s.listenerAddr("http")
}

// TLSAddr returns the bound TLS address, or "" before Start.
func (s *Server) TLSAddr() string {
	return s.listenerAddr("tls")
}

func (s *Server) listenerAddr(name string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	l := s.httpListener
	if name == "tls" {
		l = s.tlsListener
	}
	if l == nil {
		return ""
	}
	return l.Addr().String()
}

// IsRunning returns true if the server is running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// Handler returns the route tree served on both listeners.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Collector returns the metrics collector.
func (s *Server) Collector() *metrics.Collector {
	return s.collector
}

// Checker returns the readiness checker.
func (s *Server) Checker() *health.Checker {
	return s.checker
}

// setupRoutes mounts the admin routes in front of the application chain.
// Admin routes are matched on the exact path and are neither timed nor
// logged; every other request passes through the chain, outermost first.
func (s *Server) setupRoutes() http.Handler {
	healthCfg := s.config.Telemetry.Health

	admin := map[string]http.Handler{
		healthCfg.ReadinessPath:         s.checker.ReadinessHandler(),
		healthCfg.LivenessPath:          s.checker.LivenessHandler(),
		s.config.Telemetry.Metrics.Path: s.collector.Handler(),
	}

	mux := http.NewServeMux()
	handlers.Register(mux)

	return &router{admin: admin, app: s.chain(mux)}
}

// chain wraps h in the application middleware. The timer is outermost so
// its measurement covers logging and recovery.
func (s *Server) chain(h http.Handler) http.Handler {
	return middleware.Chain(h,
		s.collector.RequestTimer(),
		middleware.RequestID,
		s.tracer.Middleware(),
		middleware.Logging(s.logger),
		middleware.Recovery,
	)
}

type router struct {
	admin map[string]http.Handler
	app   http.Handler
}

func (rt *router) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet || r.Method == http.MethodHead {
		if h, ok := rt.admin[r.URL.Path]; ok {
			h.ServeHTTP(w, r)
			return
		}
	}
	rt.app.ServeHTTP(w, r)
}

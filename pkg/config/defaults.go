package config

import "time"

// Environment names recognised by the logging level selection.
const (
	EnvironmentProduction  = "production"
	EnvironmentDevelopment = "development"
)

// Default values for configuration fields.
const (
	DefaultEnvironment = EnvironmentDevelopment

	// Server defaults
	DefaultHTTPAddress          = ":3000"
	DefaultTLSAddress           = ":3001"
	DefaultReadTimeout          = 30 * time.Second
	DefaultReadHeaderTimeout    = 10 * time.Second
	DefaultWriteTimeout         = 30 * time.Second
	DefaultIdleTimeout          = 120 * time.Second
	DefaultShutdownTimeout      = 15 * time.Second
	DefaultMaxHeaderBytes       = 1048576 // 1MB
	DefaultMaxConcurrentStreams = 250

	// Telemetry defaults
	DefaultLoggingFormat      = "json"
	DefaultMetricsPath        = "/metrics"
	DefaultMaxHandlerLabels   = 10000
	DefaultTracingSampleRatio = 1.0
	DefaultTracingServiceName = "h2scaffold"
	DefaultTracingTimeout     = 10 * time.Second
	DefaultLivenessPath       = "/live"
	DefaultReadinessPath      = "/ready"
	DefaultHealthCheckTimeout = 2 * time.Second

	// Security defaults
	DefaultTLSCertFile         = "certs/server.crt"
	DefaultTLSKeyFile          = "certs/server.key"
	DefaultTLSMinVersion       = "1.2"
	DefaultExpiryCheckSchedule = "0 * * * *"
	DefaultExpiryWarningDays   = 30
)

// DefaultRequestDurationBuckets returns the default upper bounds, in seconds,
// of the request duration histogram.
func DefaultRequestDurationBuckets() []float64 {
	return []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5}
}

// Default returns a configuration with every field set to its default.
func Default() *Config {
	cfg := &Config{
		Telemetry: TelemetryConfig{
			Metrics: MetricsConfig{
				MaxHandlerLabels:  DefaultMaxHandlerLabels,
				DefaultCollectors: true,
			},
			Tracing: TracingConfig{
				Insecure: true,
			},
		},
		Security: SecurityConfig{
			TLS: TLSConfig{
				Watch:               true,
				ExpiryCheckSchedule: DefaultExpiryCheckSchedule,
			},
		},
	}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills zero-valued fields with their defaults. Boolean fields
// cannot be distinguished from an explicit false and are left untouched;
// Default seeds them before a file is decoded on top.
func ApplyDefaults(cfg *Config) {
	if cfg.Environment == "" {
		cfg.Environment = DefaultEnvironment
	}

	applyServerDefaults(&cfg.Server)
	applyTelemetryDefaults(&cfg.Telemetry)
	applySecurityDefaults(&cfg.Security)
}

func applyServerDefaults(cfg *ServerConfig) {
	if cfg.HTTPAddress == "" {
		cfg.HTTPAddress = DefaultHTTPAddress
	}
	if cfg.TLSAddress == "" {
		cfg.TLSAddress = DefaultTLSAddress
	}
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = DefaultReadTimeout
	}
	if cfg.ReadHeaderTimeout == 0 {
		cfg.ReadHeaderTimeout = DefaultReadHeaderTimeout
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.IdleTimeout == 0 {
		cfg.IdleTimeout = DefaultIdleTimeout
	}
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = DefaultShutdownTimeout
	}
	if cfg.MaxHeaderBytes == 0 {
		cfg.MaxHeaderBytes = DefaultMaxHeaderBytes
	}
	if cfg.MaxConcurrentStreams == 0 {
		cfg.MaxConcurrentStreams = DefaultMaxConcurrentStreams
	}
}

func applyTelemetryDefaults(cfg *TelemetryConfig) {
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = DefaultLoggingFormat
	}

	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = DefaultMetricsPath
	}
	if len(cfg.Metrics.RequestDurationBuckets) == 0 {
		cfg.Metrics.RequestDurationBuckets = DefaultRequestDurationBuckets()
	}

	if cfg.Tracing.SampleRatio == 0 {
		cfg.Tracing.SampleRatio = DefaultTracingSampleRatio
	}
	if cfg.Tracing.ServiceName == "" {
		cfg.Tracing.ServiceName = DefaultTracingServiceName
	}
	if cfg.Tracing.Timeout == 0 {
		cfg.Tracing.Timeout = DefaultTracingTimeout
	}

	if cfg.Health.LivenessPath == "" {
		cfg.Health.LivenessPath = DefaultLivenessPath
	}
	if cfg.Health.ReadinessPath == "" {
		cfg.Health.ReadinessPath = DefaultReadinessPath
	}
	if cfg.Health.CheckTimeout == 0 {
		cfg.Health.CheckTimeout = DefaultHealthCheckTimeout
	}
}

func applySecurityDefaults(cfg *SecurityConfig) {
	if cfg.TLS.CertFile == "" {
		cfg.TLS.CertFile = DefaultTLSCertFile
	}
	if cfg.TLS.KeyFile == "" {
		cfg.TLS.KeyFile = DefaultTLSKeyFile
	}
	if cfg.TLS.MinVersion == "" {
		cfg.TLS.MinVersion = DefaultTLSMinVersion
	}
	if cfg.TLS.ExpiryWarningDays == 0 {
		cfg.TLS.ExpiryWarningDays = DefaultExpiryWarningDays
	}
}

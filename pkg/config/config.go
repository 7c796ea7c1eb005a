package config

import "time"

// Config is the root configuration structure for h2scaffold.
// It contains the listener settings, the runtime environment, telemetry
// (logging, metrics, tracing, health) and TLS material.
type Config struct {
	// Environment names the deployment environment. "production" selects
	// info-level logging; every other value selects debug-level logging.
	// Default: "development"
	Environment string `yaml:"environment"`

	// Server contains the plaintext and TLS listener configuration.
	Server ServerConfig `yaml:"server"`

	// Telemetry contains configuration for observability including logging,
	// metrics, tracing and health endpoints.
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Security contains the TLS configuration for the secure listener.
	Security SecurityConfig `yaml:"security"`
}

// IsProduction reports whether the configured environment is "production".
func (c *Config) IsProduction() bool {
	return c.Environment == EnvironmentProduction
}

// ServerConfig contains configuration for the two HTTP listeners.
type ServerConfig struct {
	// HTTPAddress is the plaintext HTTP/1.1 listen address.
	// Default: ":3000"
	HTTPAddress string `yaml:"http_address"`

	// TLSAddress is the TLS listen address. Connections negotiate HTTP/2 or
	// HTTP/1.1 via ALPN.
	// Default: ":3001"
	TLSAddress string `yaml:"tls_address"`

	// H2C enables cleartext HTTP/2 (prior knowledge or Upgrade) on the
	// plaintext listener.
	// Default: false
	H2C bool `yaml:"h2c"`

	// ReadTimeout is the maximum duration for reading the entire request,
	// including the body. A zero value means no timeout.
	// Default: 30s
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// ReadHeaderTimeout is the amount of time allowed to read request headers.
	// Default: 10s
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout"`

	// WriteTimeout is the maximum duration before timing out writes of the
	// response. A zero value means no timeout.
	// Default: 30s
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// IdleTimeout is the maximum amount of time to wait for the next request
	// when keep-alives are enabled.
	// Default: 120s
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// ShutdownTimeout bounds graceful shutdown of both listeners.
	// Default: 15s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// MaxHeaderBytes limits the size of request headers.
	// Default: 1048576 (1MB)
	MaxHeaderBytes int `yaml:"max_header_bytes"`

	// MaxConcurrentStreams caps HTTP/2 streams per connection on the TLS
	// listener. Zero uses the golang.org/x/net/http2 default.
	// Default: 250
	MaxConcurrentStreams uint32 `yaml:"max_concurrent_streams"`
}

// TelemetryConfig contains configuration for observability.
type TelemetryConfig struct {
	// Logging contains logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains request timing and exposition configuration.
	Metrics MetricsConfig `yaml:"metrics"`

	// Tracing contains distributed tracing configuration.
	Tracing TracingConfig `yaml:"tracing"`

	// Health contains probe endpoint configuration.
	Health HealthConfig `yaml:"health"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level overrides the environment-derived level when set.
	// Options: "", "debug", "info", "warn", "error"
	// Default: "" (derived from Environment)
	Level string `yaml:"level"`

	// Format controls the log output format.
	// Options: "json", "text"
	// Default: "json"
	Format string `yaml:"format"`

	// AddSource includes file and line number in log entries.
	// Default: false
	AddSource bool `yaml:"add_source"`
}

// MetricsConfig contains request timing and exposition configuration.
type MetricsConfig struct {
	// Path is the HTTP path of the exposition endpoint.
	// Default: "/metrics"
	Path string `yaml:"path"`

	// Namespace is an optional prefix for the TLS certificate metrics. The
	// request histogram is always exported as http_request_duration_seconds.
	// Default: ""
	Namespace string `yaml:"namespace"`

	// RequestDurationBuckets are the fixed histogram upper bounds in seconds.
	// Default: [0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5]
	RequestDurationBuckets []float64 `yaml:"request_duration_buckets"`

	// MaxHandlerLabels caps the number of distinct handler label values.
	// Requests for unseen paths past the cap are recorded as "other".
	// Zero disables the cap.
	// Default: 10000
	MaxHandlerLabels int `yaml:"max_handler_labels"`

	// DefaultCollectors registers the Go runtime and process collectors.
	// Default: true
	DefaultCollectors bool `yaml:"default_collectors"`
}

// TracingConfig contains distributed tracing configuration.
type TracingConfig struct {
	// Enabled controls whether spans are exported.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Endpoint is the OTLP gRPC collector endpoint (host:port).
	Endpoint string `yaml:"endpoint"`

	// Insecure disables TLS to the collector.
	// Default: true
	Insecure bool `yaml:"insecure"`

	// SampleRatio is the fraction of root spans to sample (0.0 to 1.0).
	// Default: 1.0
	SampleRatio float64 `yaml:"sample_ratio"`

	// ServiceName is reported as the service.name resource attribute.
	// Default: "h2scaffold"
	ServiceName string `yaml:"service_name"`

	// Timeout bounds each export call.
	// Default: 10s
	Timeout time.Duration `yaml:"timeout"`
}

// HealthConfig contains probe endpoint configuration.
type HealthConfig struct {
	// LivenessPath is the path of the liveness probe.
	// Default: "/live"
	LivenessPath string `yaml:"liveness_path"`

	// ReadinessPath is the path of the readiness probe.
	// Default: "/ready"
	ReadinessPath string `yaml:"readiness_path"`

	// CheckTimeout bounds each registered readiness check.
	// Default: 2s
	CheckTimeout time.Duration `yaml:"check_timeout"`
}

// SecurityConfig contains security-related configuration.
type SecurityConfig struct {
	// TLS contains the certificate configuration for the TLS listener.
	TLS TLSConfig `yaml:"tls"`
}

// TLSConfig contains TLS configuration for the secure listener.
type TLSConfig struct {
	// CertFile is the path to the PEM-encoded certificate chain.
	// Default: "certs/server.crt"
	CertFile string `yaml:"cert_file"`

	// KeyFile is the path to the PEM-encoded private key.
	// Default: "certs/server.key"
	KeyFile string `yaml:"key_file"`

	// MinVersion is the minimum TLS version to accept.
	// Options: "1.2", "1.3"
	// Default: "1.2"
	MinVersion string `yaml:"min_version"`

	// CipherSuites restricts TLS 1.2 cipher suites. Empty uses Go's defaults.
	CipherSuites []string `yaml:"cipher_suites"`

	// Watch reloads the certificate when the files change on disk.
	// Default: true
	Watch bool `yaml:"watch"`

	// ExpiryCheckSchedule is a standard cron expression controlling how
	// often certificate expiry is re-evaluated. Empty disables the check.
	// Default: "0 * * * *" (hourly)
	ExpiryCheckSchedule string `yaml:"expiry_check_schedule"`

	// ExpiryWarningDays logs a warning when the certificate expires within
	// this many days.
	// Default: 30
	ExpiryWarningDays int `yaml:"expiry_warning_days"`
}

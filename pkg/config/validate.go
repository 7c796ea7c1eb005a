package config

import (
	"fmt"
	"net"
	"strings"

	"github.com/robfig/cron/v3"
)

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field (e.g., "server.http_address").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a configuration.
type ValidationError struct {
	// Errors contains all validation errors found in the configuration.
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Validate validates the entire configuration and returns a ValidationError
// if any validation rules fail. All validation errors are collected and
// returned together.
func Validate(cfg *Config) error {
	var errs []FieldError

	if cfg.Environment == "" {
		errs = append(errs, FieldError{
			Field:   "environment",
			Message: "environment is required",
		})
	}

	errs = append(errs, validateServer(&cfg.Server)...)
	errs = append(errs, validateTelemetry(&cfg.Telemetry)...)
	errs = append(errs, validateSecurity(&cfg.Security)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}

	return nil
}

func validateServer(cfg *ServerConfig) []FieldError {
	var errs []FieldError

	errs = append(errs, validateAddress("server.http_address", cfg.HTTPAddress)...)
	errs = append(errs, validateAddress("server.tls_address", cfg.TLSAddress)...)

	if cfg.HTTPAddress != "" && cfg.HTTPAddress == cfg.TLSAddress && !ephemeralPort(cfg.HTTPAddress) {
		errs = append(errs, FieldError{
			Field:   "server.tls_address",
			Message: "TLS listener must not share the plaintext listen address",
		})
	}

	if cfg.ReadTimeout < 0 {
		errs = append(errs, FieldError{Field: "server.read_timeout", Message: "read timeout must be positive"})
	}
	if cfg.ReadHeaderTimeout < 0 {
		errs = append(errs, FieldError{Field: "server.read_header_timeout", Message: "read header timeout must be positive"})
	}
	if cfg.WriteTimeout < 0 {
		errs = append(errs, FieldError{Field: "server.write_timeout", Message: "write timeout must be positive"})
	}
	if cfg.IdleTimeout < 0 {
		errs = append(errs, FieldError{Field: "server.idle_timeout", Message: "idle timeout must be positive"})
	}
	if cfg.ShutdownTimeout <= 0 {
		errs = append(errs, FieldError{Field: "server.shutdown_timeout", Message: "shutdown timeout must be positive"})
	}
	if cfg.MaxHeaderBytes < 0 {
		errs = append(errs, FieldError{Field: "server.max_header_bytes", Message: "max header bytes must be non-negative"})
	}

	return errs
}

func validateAddress(field, addr string) []FieldError {
	if addr == "" {
		return []FieldError{{Field: field, Message: "listen address is required"}}
	}
	if _, _, err := net.SplitHostPort(addr); err != nil {
		return []FieldError{{Field: field, Message: fmt.Sprintf("invalid listen address %q: %v", addr, err)}}
	}
	return nil
}

// ephemeralPort reports whether addr asks the kernel to pick the port.
func ephemeralPort(addr string) bool {
	_, port, err := net.SplitHostPort(addr)
	return err == nil && port == "0"
}

func validateTelemetry(cfg *TelemetryConfig) []FieldError {
	var errs []FieldError

	validLevels := map[string]bool{"": true, "debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[cfg.Logging.Level] {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: fmt.Sprintf("invalid logging level %q: must be 'debug', 'info', 'warn', or 'error'", cfg.Logging.Level),
		})
	}

	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[cfg.Logging.Format] {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: fmt.Sprintf("invalid logging format %q: must be 'json' or 'text'", cfg.Logging.Format),
		})
	}

	if !strings.HasPrefix(cfg.Metrics.Path, "/") {
		errs = append(errs, FieldError{
			Field:   "telemetry.metrics.path",
			Message: "metrics path must start with '/'",
		})
	}

	// Bucket upper bounds must be positive and strictly increasing.
	buckets := cfg.Metrics.RequestDurationBuckets
	for i, b := range buckets {
		if b <= 0 {
			errs = append(errs, FieldError{
				Field:   fmt.Sprintf("telemetry.metrics.request_duration_buckets[%d]", i),
				Message: "bucket upper bound must be positive",
			})
			continue
		}
		if i > 0 && b <= buckets[i-1] {
			errs = append(errs, FieldError{
				Field:   fmt.Sprintf("telemetry.metrics.request_duration_buckets[%d]", i),
				Message: "bucket upper bounds must be strictly increasing",
			})
		}
	}

	if cfg.Metrics.MaxHandlerLabels < 0 {
		errs = append(errs, FieldError{
			Field:   "telemetry.metrics.max_handler_labels",
			Message: "max handler labels must be non-negative",
		})
	}

	if cfg.Tracing.Enabled && cfg.Tracing.Endpoint == "" {
		errs = append(errs, FieldError{
			Field:   "telemetry.tracing.endpoint",
			Message: "tracing endpoint is required when tracing is enabled",
		})
	}
	if cfg.Tracing.SampleRatio < 0 || cfg.Tracing.SampleRatio > 1 {
		errs = append(errs, FieldError{
			Field:   "telemetry.tracing.sample_ratio",
			Message: "sample ratio must be between 0.0 and 1.0",
		})
	}

	paths := map[string]string{
		"telemetry.health.liveness_path":  cfg.Health.LivenessPath,
		"telemetry.health.readiness_path": cfg.Health.ReadinessPath,
	}
	for field, path := range paths {
		if !strings.HasPrefix(path, "/") {
			errs = append(errs, FieldError{Field: field, Message: "path must start with '/'"})
		}
		if path == cfg.Metrics.Path {
			errs = append(errs, FieldError{Field: field, Message: "path collides with the metrics path"})
		}
	}

	return errs
}

func validateSecurity(cfg *SecurityConfig) []FieldError {
	var errs []FieldError

	if cfg.TLS.CertFile == "" {
		errs = append(errs, FieldError{
			Field:   "security.tls.cert_file",
			Message: "TLS certificate file is required",
		})
	}
	if cfg.TLS.KeyFile == "" {
		errs = append(errs, FieldError{
			Field:   "security.tls.key_file",
			Message: "TLS key file is required",
		})
	}

	if cfg.TLS.MinVersion != "1.2" && cfg.TLS.MinVersion != "1.3" {
		errs = append(errs, FieldError{
			Field:   "security.tls.min_version",
			Message: fmt.Sprintf("invalid TLS version %q: must be '1.2' or '1.3'", cfg.TLS.MinVersion),
		})
	}

	if cfg.TLS.ExpiryCheckSchedule != "" {
		if _, err := cron.ParseStandard(cfg.TLS.ExpiryCheckSchedule); err != nil {
			errs = append(errs, FieldError{
				Field:   "security.tls.expiry_check_schedule",
				Message: fmt.Sprintf("invalid cron schedule %q: %v", cfg.TLS.ExpiryCheckSchedule, err),
			})
		}
	}

	if cfg.TLS.ExpiryWarningDays < 0 {
		errs = append(errs, FieldError{
			Field:   "security.tls.expiry_warning_days",
			Message: "expiry warning days must be non-negative",
		})
	}

	return errs
}

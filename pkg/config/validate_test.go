package config

import (
	"errors"
	"strings"
	"testing"
)

func TestValidate_ValidConfig(t *testing.T) {
	if err := Validate(Default()); err != nil {
		t.Errorf("expected valid config to pass validation, got error: %v", err)
	}
}

func TestValidate_MultipleErrors(t *testing.T) {
	cfg := &Config{}

	err := Validate(cfg)
	if err == nil {
		t.Fatal("expected validation to fail")
	}

	var validationErr ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %T", err)
	}
	if len(validationErr.Errors) < 2 {
		t.Errorf("expected multiple errors, got %d", len(validationErr.Errors))
	}
	if !strings.Contains(validationErr.Error(), "validation failed with") {
		t.Errorf("error message should mention multiple errors: %s", validationErr.Error())
	}
}

func TestValidate_Rules(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(*Config)
		errorField string
	}{
		{
			name:       "invalid http address",
			mutate:     func(c *Config) { c.Server.HTTPAddress = "3000" },
			errorField: "server.http_address",
		},
		{
			name:       "shared listen address",
			mutate:     func(c *Config) { c.Server.TLSAddress = c.Server.HTTPAddress },
			errorField: "server.tls_address",
		},
		{
			name:       "zero shutdown timeout",
			mutate:     func(c *Config) { c.Server.ShutdownTimeout = 0 },
			errorField: "server.shutdown_timeout",
		},
		{
			name:       "unknown log level",
			mutate:     func(c *Config) { c.Telemetry.Logging.Level = "verbose" },
			errorField: "telemetry.logging.level",
		},
		{
			name:       "unknown log format",
			mutate:     func(c *Config) { c.Telemetry.Logging.Format = "xml" },
			errorField: "telemetry.logging.format",
		},
		{
			name:       "decreasing buckets",
			mutate:     func(c *Config) { c.Telemetry.Metrics.RequestDurationBuckets = []float64{0.1, 0.05} },
			errorField: "telemetry.metrics.request_duration_buckets[1]",
		},
		{
			name:       "non-positive bucket",
			mutate:     func(c *Config) { c.Telemetry.Metrics.RequestDurationBuckets = []float64{0, 1} },
			errorField: "telemetry.metrics.request_duration_buckets[0]",
		},
		{
			name:       "negative handler cap",
			mutate:     func(c *Config) { c.Telemetry.Metrics.MaxHandlerLabels = -1 },
			errorField: "telemetry.metrics.max_handler_labels",
		},
		{
			name:       "tracing without endpoint",
			mutate:     func(c *Config) { c.Telemetry.Tracing.Enabled = true },
			errorField: "telemetry.tracing.endpoint",
		},
		{
			name:       "sample ratio out of range",
			mutate:     func(c *Config) { c.Telemetry.Tracing.SampleRatio = 1.5 },
			errorField: "telemetry.tracing.sample_ratio",
		},
		{
			name:       "health path collides with metrics",
			mutate:     func(c *Config) { c.Telemetry.Health.ReadinessPath = "/metrics" },
			errorField: "telemetry.health.readiness_path",
		},
		{
			name:       "missing cert file",
			mutate:     func(c *Config) { c.Security.TLS.CertFile = "" },
			errorField: "security.tls.cert_file",
		},
		{
			name:       "unsupported tls version",
			mutate:     func(c *Config) { c.Security.TLS.MinVersion = "1.1" },
			errorField: "security.tls.min_version",
		},
		{
			name:       "invalid cron schedule",
			mutate:     func(c *Config) { c.Security.TLS.ExpiryCheckSchedule = "every hour" },
			errorField: "security.tls.expiry_check_schedule",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := Validate(cfg)
			if err == nil {
				t.Fatalf("expected error for field %q", tt.errorField)
			}

			var validationErr ValidationError
			if !errors.As(err, &validationErr) {
				t.Fatalf("expected ValidationError, got %T", err)
			}

			found := false
			for _, fe := range validationErr.Errors {
				if fe.Field == tt.errorField {
					found = true
					break
				}
			}
			if !found {
				t.Errorf("expected error for field %q, got %v", tt.errorField, validationErr.Errors)
			}
		})
	}
}

func TestValidate_EmptyScheduleDisablesExpiryCheck(t *testing.T) {
	cfg := Default()
	cfg.Security.TLS.ExpiryCheckSchedule = ""

	if err := Validate(cfg); err != nil {
		t.Errorf("empty schedule should be accepted: %v", err)
	}
}

func TestFieldError_Error(t *testing.T) {
	err := FieldError{Field: "server.http_address", Message: "listen address is required"}
	if got := err.Error(); got != "server.http_address: listen address is required" {
		t.Errorf("unexpected message %q", got)
	}
}

func TestValidate_EphemeralPortsMayRepeat(t *testing.T) {
	cfg := Default()
	cfg.Server.HTTPAddress = "127.0.0.1:0"
	cfg.Server.TLSAddress = "127.0.0.1:0"

	if err := Validate(cfg); err != nil {
		t.Errorf("ephemeral listen addresses rejected: %v", err)
	}
}

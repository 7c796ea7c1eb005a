package config

import (
	"slices"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Environment != EnvironmentDevelopment {
		t.Errorf("expected environment %q, got %q", EnvironmentDevelopment, cfg.Environment)
	}
	if cfg.Server.HTTPAddress != ":3000" {
		t.Errorf("expected http address :3000, got %q", cfg.Server.HTTPAddress)
	}
	if cfg.Server.TLSAddress != ":3001" {
		t.Errorf("expected tls address :3001, got %q", cfg.Server.TLSAddress)
	}
	if cfg.Server.ShutdownTimeout != 15*time.Second {
		t.Errorf("expected shutdown timeout 15s, got %v", cfg.Server.ShutdownTimeout)
	}

	want := []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5}
	if !slices.Equal(cfg.Telemetry.Metrics.RequestDurationBuckets, want) {
		t.Errorf("expected buckets %v, got %v", want, cfg.Telemetry.Metrics.RequestDurationBuckets)
	}
	if cfg.Telemetry.Metrics.Path != "/metrics" {
		t.Errorf("expected metrics path /metrics, got %q", cfg.Telemetry.Metrics.Path)
	}
	if !cfg.Telemetry.Metrics.DefaultCollectors {
		t.Error("expected default collectors to be enabled")
	}
	if cfg.Telemetry.Health.LivenessPath != "/live" || cfg.Telemetry.Health.ReadinessPath != "/ready" {
		t.Errorf("unexpected health paths %q, %q", cfg.Telemetry.Health.LivenessPath, cfg.Telemetry.Health.ReadinessPath)
	}
	if cfg.Telemetry.Tracing.Enabled {
		t.Error("expected tracing to be disabled by default")
	}
	if !cfg.Security.TLS.Watch {
		t.Error("expected certificate watch to be enabled")
	}

	if err := Validate(cfg); err != nil {
		t.Errorf("default configuration should validate: %v", err)
	}
}

func TestDefaultRequestDurationBuckets_ReturnsCopy(t *testing.T) {
	a := DefaultRequestDurationBuckets()
	a[0] = 42

	b := DefaultRequestDurationBuckets()
	if b[0] != 0.005 {
		t.Errorf("default buckets were mutated through a previous result: %v", b)
	}
}

func TestApplyDefaults_KeepsExplicitValues(t *testing.T) {
	cfg := &Config{
		Environment: EnvironmentProduction,
		Server: ServerConfig{
			HTTPAddress: "127.0.0.1:8080",
			ReadTimeout: 5 * time.Second,
		},
		Telemetry: TelemetryConfig{
			Metrics: MetricsConfig{
				RequestDurationBuckets: []float64{0.1, 1},
			},
		},
	}

	ApplyDefaults(cfg)

	if cfg.Environment != EnvironmentProduction {
		t.Errorf("environment overwritten: %q", cfg.Environment)
	}
	if cfg.Server.HTTPAddress != "127.0.0.1:8080" {
		t.Errorf("http address overwritten: %q", cfg.Server.HTTPAddress)
	}
	if cfg.Server.ReadTimeout != 5*time.Second {
		t.Errorf("read timeout overwritten: %v", cfg.Server.ReadTimeout)
	}
	if cfg.Server.TLSAddress != DefaultTLSAddress {
		t.Errorf("expected tls address default, got %q", cfg.Server.TLSAddress)
	}
	if len(cfg.Telemetry.Metrics.RequestDurationBuckets) != 2 {
		t.Errorf("buckets overwritten: %v", cfg.Telemetry.Metrics.RequestDurationBuckets)
	}
}

package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"

	"mercator-hq/h2scaffold/pkg/config"
)

// Helper function to create test config
func testConfig() *config.MetricsConfig {
	return &config.MetricsConfig{
		Path:                   "/metrics",
		RequestDurationBuckets: config.DefaultRequestDurationBuckets(),
		MaxHandlerLabels:       config.DefaultMaxHandlerLabels,
	}
}

// findFamily returns the gathered family with the given name, or nil.
func findFamily(t *testing.T, registry *prometheus.Registry, name string) *dto.MetricFamily {
	t.Helper()
	families, err := registry.Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}
	for _, mf := range families {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func TestCollector_NewCollector(t *testing.T) {
	cfg := testConfig()
	registry := prometheus.NewRegistry()

	collector := NewCollector(cfg, registry)

	if collector == nil {
		t.Fatal("Expected non-nil collector")
	}
	if collector.Registry() != registry {
		t.Error("Collector registry not set correctly")
	}
	if collector.cardinalityLimiter == nil {
		t.Error("Expected cardinality limiter to be configured")
	}
}

func TestCollector_NilRegistry(t *testing.T) {
	collector := NewCollector(testConfig(), nil)

	if collector.Registry() == nil {
		t.Fatal("Expected a registry to be created")
	}
	if collector.Registry() == prometheus.DefaultRegisterer {
		t.Error("Collector must not use the default registry")
	}
}

func TestCollector_DefaultCollectors(t *testing.T) {
	cfg := testConfig()
	cfg.DefaultCollectors = true
	withDefaults := NewCollector(cfg, prometheus.NewRegistry())

	if findFamily(t, withDefaults.Registry(), "go_goroutines") == nil {
		t.Error("Expected go_goroutines when default collectors are enabled")
	}

	without := NewCollector(testConfig(), prometheus.NewRegistry())
	if findFamily(t, without.Registry(), "go_goroutines") != nil {
		t.Error("Unexpected go_goroutines when default collectors are disabled")
	}
}

func TestCollector_Namespace(t *testing.T) {
	cfg := testConfig()
	cfg.Namespace = "h2s"
	collector := NewCollector(cfg, prometheus.NewRegistry())

	collector.requestMetrics.Observe(Observation{Method: "GET", Handler: "/", StatusCode: 200})
	collector.SetCertificateExpiry("localhost", time.Now().Add(time.Hour))

	if findFamily(t, collector.Registry(), RequestDurationName) == nil {
		t.Error("request histogram must keep its name under a namespace")
	}
	if findFamily(t, collector.Registry(), "h2s_"+RequestDurationName) != nil {
		t.Error("request histogram was namespaced")
	}
	if findFamily(t, collector.Registry(), "h2s_tls_certificate_expiry_timestamp_seconds") == nil {
		t.Error("Expected namespaced certificate gauge")
	}
}

func TestCollector_Buckets(t *testing.T) {
	collector := NewCollector(testConfig(), prometheus.NewRegistry())
	collector.requestMetrics.Observe(Observation{Method: "GET", Handler: "/", StatusCode: 200, Duration: 30 * time.Millisecond})

	mf := findFamily(t, collector.Registry(), "http_request_duration_seconds")
	if mf == nil {
		t.Fatal("histogram not gathered")
	}

	h := mf.GetMetric()[0].GetHistogram()
	want := config.DefaultRequestDurationBuckets()
	if len(h.GetBucket()) != len(want) {
		t.Fatalf("got %d buckets, want %d", len(h.GetBucket()), len(want))
	}

	// Cumulative: every bucket at or above 0.05 contains the 30ms sample.
	for i, b := range h.GetBucket() {
		if b.GetUpperBound() != want[i] {
			t.Errorf("bucket %d upper bound = %v, want %v", i, b.GetUpperBound(), want[i])
		}
		wantCount := uint64(0)
		if b.GetUpperBound() >= 0.03 {
			wantCount = 1
		}
		if b.GetCumulativeCount() != wantCount {
			t.Errorf("bucket le=%v count = %d, want %d", b.GetUpperBound(), b.GetCumulativeCount(), wantCount)
		}
	}
	if h.GetSampleCount() != 1 {
		t.Errorf("sample count = %d, want 1", h.GetSampleCount())
	}
	if h.GetSampleSum() < 0.029 || h.GetSampleSum() > 0.031 {
		t.Errorf("sample sum = %v, want 0.03", h.GetSampleSum())
	}
}

func TestCollector_CertificateMetrics(t *testing.T) {
	collector := NewCollector(testConfig(), prometheus.NewRegistry())

	notAfter := time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)
	collector.SetCertificateExpiry("CN=old", notAfter.Add(-time.Hour))
	collector.SetCertificateExpiry("CN=localhost", notAfter)

	got := testutil.ToFloat64(collector.tlsMetrics.expiry.WithLabelValues("CN=localhost"))
	if got != float64(notAfter.Unix()) {
		t.Errorf("expiry = %v, want %v", got, float64(notAfter.Unix()))
	}
	if n := testutil.CollectAndCount(collector.tlsMetrics.expiry); n != 1 {
		t.Errorf("expected only the latest subject, got %d series", n)
	}

	collector.RecordCertificateReload(nil)
	collector.RecordCertificateReload(nil)
	collector.RecordCertificateReload(errors.New("bad key"))

	if got := testutil.ToFloat64(collector.tlsMetrics.reloads.WithLabelValues("success")); got != 2 {
		t.Errorf("success reloads = %v, want 2", got)
	}
	if got := testutil.ToFloat64(collector.tlsMetrics.reloads.WithLabelValues("failure")); got != 1 {
		t.Errorf("failure reloads = %v, want 1", got)
	}
}

func TestCardinalityLimiter(t *testing.T) {
	limiter := NewCardinalityLimiter(3)

	// First 3 should be allowed
	for _, label := range []string{"/a", "/b", "/c"} {
		if !limiter.Allow(label) {
			t.Errorf("Expected %s to be allowed", label)
		}
	}

	// Fourth should be rejected
	if limiter.Allow("/d") {
		t.Error("Expected fourth label to be rejected")
	}

	// Existing labels should still be allowed
	if !limiter.Allow("/a") {
		t.Error("Expected existing label to be allowed")
	}

	if limiter.Count() != 3 {
		t.Errorf("Expected count=3, got %d", limiter.Count())
	}
}

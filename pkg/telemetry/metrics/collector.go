package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"mercator-hq/h2scaffold/pkg/config"
)

// OtherHandlerLabel replaces handler label values once the cardinality cap is
// reached.
const OtherHandlerLabel = "other"

// Collector owns the Prometheus registry and every metric h2scaffold exports.
// It is the single place the request timer, the exposition endpoint and the
// TLS certificate monitor meet.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	// Request metrics
	requestMetrics *RequestMetrics

	// TLS certificate metrics
	tlsMetrics *TLSMetrics

	// Cardinality tracking; nil when the cap is disabled
	cardinalityLimiter *CardinalityLimiter
}

// NewCollector creates a new metrics collector with the specified configuration
// and Prometheus registry. If registry is nil, a fresh registry is created;
// the process-wide default registry is never used.
//
// Example:
//
//	registry := prometheus.NewRegistry()
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, registry)
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	c := &Collector{
		config:   cfg,
		registry: registry,
	}

	if cfg.MaxHandlerLabels > 0 {
		c.cardinalityLimiter = NewCardinalityLimiter(cfg.MaxHandlerLabels)
	}

	buckets := cfg.RequestDurationBuckets
	if len(buckets) == 0 {
		buckets = config.DefaultRequestDurationBuckets()
	}

	c.requestMetrics = NewRequestMetrics(buckets, registry)
	c.tlsMetrics = NewTLSMetrics(cfg.Namespace, registry)

	if cfg.DefaultCollectors {
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	return c
}

// SetCertificateExpiry records the NotAfter time of the serving certificate.
func (c *Collector) SetCertificateExpiry(subject string, notAfter time.Time) {
	c.tlsMetrics.SetExpiry(subject, notAfter)
}

// RecordCertificateReload counts a certificate reload attempt.
func (c *Collector) RecordCertificateReload(err error) {
	c.tlsMetrics.RecordReload(err)
}

// Registry returns the Prometheus registry used by this collector.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// handlerLabel applies the cardinality cap to a normalized path.
func (c *Collector) handlerLabel(path string) string {
	if c.cardinalityLimiter == nil || c.cardinalityLimiter.Allow(path) {
		return path
	}
	return OtherHandlerLabel
}

// CardinalityLimiter prevents metric cardinality explosion by limiting
// the number of unique handler label values.
type CardinalityLimiter struct {
	maxCardinality int
	current        map[string]struct{}
	mu             sync.RWMutex
}

// NewCardinalityLimiter creates a new cardinality limiter with the specified
// maximum cardinality.
func NewCardinalityLimiter(maxCardinality int) *CardinalityLimiter {
	return &CardinalityLimiter{
		maxCardinality: maxCardinality,
		current:        make(map[string]struct{}),
	}
}

// Allow checks if a label value is allowed. Returns true if the value
// already exists or if we haven't reached the cardinality limit yet.
// Returns false if adding this value would exceed the limit.
func (cl *CardinalityLimiter) Allow(label string) bool {
	cl.mu.RLock()
	if _, exists := cl.current[label]; exists {
		cl.mu.RUnlock()
		return true
	}
	cl.mu.RUnlock()

	cl.mu.Lock()
	defer cl.mu.Unlock()

	// Double-check after acquiring write lock
	if _, exists := cl.current[label]; exists {
		return true
	}

	if len(cl.current) >= cl.maxCardinality {
		return false
	}

	cl.current[label] = struct{}{}
	return true
}

// Count returns the current cardinality.
func (cl *CardinalityLimiter) Count() int {
	cl.mu.RLock()
	defer cl.mu.RUnlock()
	return len(cl.current)
}

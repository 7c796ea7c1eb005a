package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// TLSMetrics tracks the certificate served on the TLS listener.
//
// Metrics:
//   - tls_certificate_expiry_timestamp_seconds: NotAfter of the serving certificate by subject
//   - tls_certificate_reloads_total: Reload attempts by result
type TLSMetrics struct {
	expiry  *prometheus.GaugeVec
	reloads *prometheus.CounterVec
}

// NewTLSMetrics creates and registers TLS metrics with the provided registry.
func NewTLSMetrics(namespace string, registry *prometheus.Registry) *TLSMetrics {
	tm := &TLSMetrics{
		expiry: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "tls_certificate_expiry_timestamp_seconds",
				Help:      "Expiry time of the serving TLS certificate as a Unix timestamp",
			},
			[]string{"subject"},
		),
		reloads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "tls_certificate_reloads_total",
				Help:      "Total number of TLS certificate reload attempts",
			},
			[]string{"result"},
		),
	}

	registry.MustRegister(tm.expiry, tm.reloads)

	return tm
}

// SetExpiry records the certificate expiry. Previous subjects are dropped so
// a replaced certificate does not linger in the exposition.
func (tm *TLSMetrics) SetExpiry(subject string, notAfter time.Time) {
	tm.expiry.Reset()
	tm.expiry.WithLabelValues(subject).Set(float64(notAfter.Unix()))
}

// RecordReload counts a reload attempt as "success" or "failure".
func (tm *TLSMetrics) RecordReload(err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	tm.reloads.WithLabelValues(result).Inc()
}

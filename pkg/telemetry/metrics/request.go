package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// Label names of the request duration histogram.
const (
	LabelCode    = "code"
	LabelHandler = "handler"
	LabelMethod  = "method"
)

// RequestMetrics tracks the duration of requests served by the timed routes.
//
// Metrics:
//   - http_request_duration_seconds: Request duration histogram by code, handler, method
type RequestMetrics struct {
	requestDuration *prometheus.HistogramVec
}

// RequestDurationName is the exported name of the request histogram. It never
// takes a namespace prefix.
const RequestDurationName = "http_request_duration_seconds"

// NewRequestMetrics creates and registers request metrics with the provided
// registry. Buckets are fixed for the lifetime of the process.
func NewRequestMetrics(buckets []float64, registry *prometheus.Registry) *RequestMetrics {
	rm := &RequestMetrics{
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    RequestDurationName,
				Help:    "Duration of HTTP requests in seconds",
				Buckets: buckets,
			},
			[]string{LabelCode, LabelHandler, LabelMethod},
		),
	}

	registry.MustRegister(rm.requestDuration)

	return rm
}

// Observe records a completed request.
func (rm *RequestMetrics) Observe(o Observation) {
	rm.requestDuration.With(prometheus.Labels{
		LabelCode:    strconv.Itoa(o.StatusCode),
		LabelHandler: o.Handler,
		LabelMethod:  o.Method,
	}).Observe(o.DurationSeconds())
}

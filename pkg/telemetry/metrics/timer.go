package metrics

import (
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"mercator-hq/h2scaffold/pkg/middleware"
	"mercator-hq/h2scaffold/pkg/telemetry/logging"
)

// Observation is one completed request, ready to be recorded.
type Observation struct {
	Method     string
	Handler    string
	StatusCode int
	Duration   time.Duration
}

// DurationSeconds returns the duration as fractional seconds.
func (o Observation) DurationSeconds() float64 {
	return o.Duration.Seconds()
}

// PendingTimer is started when a request enters the timer and completed
// exactly once when its response is done.
type PendingTimer struct {
	method  string
	handler string
	start   time.Time

	once    sync.Once
	observe func(Observation)
	now     func() time.Time
}

// StartTimer begins timing r. It fails when the request URL cannot be
// normalized into a handler label; the caller should then serve the request
// untimed.
func (c *Collector) StartTimer(r *http.Request) (*PendingTimer, error) {
	path, err := HandlerLabel(r)
	if err != nil {
		return nil, err
	}

	return &PendingTimer{
		method:  r.Method,
		handler: c.handlerLabel(path),
		start:   time.Now(),
		observe: c.requestMetrics.Observe,
		now:     time.Now,
	}, nil
}

// Handler returns the handler label the timer will record.
func (t *PendingTimer) Handler() string {
	return t.handler
}

// ObserveDuration stops the timer and records the request with the given
// status code. Only the first call records; later calls return false.
func (t *PendingTimer) ObserveDuration(statusCode int) (Observation, bool) {
	var (
		obs      Observation
		recorded bool
	)
	t.once.Do(func() {
		obs = Observation{
			Method:     t.method,
			Handler:    t.handler,
			StatusCode: statusCode,
			Duration:   t.now().Sub(t.start),
		}
		if obs.Duration < 0 {
			obs.Duration = 0
		}
		t.observe(obs)
		recorded = true
	})
	return obs, recorded
}

// HandlerLabel normalizes the request target into the handler label: the
// path of the target resolved against http://<host>, with query and fragment
// removed. Percent-encoding is preserved as received.
func HandlerLabel(r *http.Request) (string, error) {
	target := r.RequestURI
	if target == "" && r.URL != nil {
		target = r.URL.RequestURI()
	}

	base, err := url.Parse("http://" + r.Host)
	if err != nil {
		return "", fmt.Errorf("invalid host %q: %w", r.Host, err)
	}

	ref, err := url.Parse(target)
	if err != nil {
		return "", fmt.Errorf("invalid request target %q: %w", target, err)
	}

	path := base.ResolveReference(ref).EscapedPath()
	if path == "" {
		path = "/"
	}
	return path, nil
}

// RequestTimer returns middleware that records the duration of every request
// into http_request_duration_seconds, labelled by status code, normalized
// path and method.
//
// The timer must be the outermost layer of the chain it measures. Failures
// inside the instrumentation never affect the response: the observation is
// dropped and logged. A panicking handler is recorded with status 500 (or the
// status already sent) and the panic continues to unwind.
func (c *Collector) RequestTimer() middleware.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			timer, err := c.startTimerSafely(r)
			if err != nil {
				logging.FromContext(r.Context()).DebugContext(r.Context(), "request not timed",
					"error", err,
					"method", r.Method,
				)
				next.ServeHTTP(w, r)
				return
			}

			rw := middleware.NewResponseWriter(w)

			defer func() {
				if rec := recover(); rec != nil {
					status := http.StatusInternalServerError
					if rw.Written() {
						status = rw.StatusCode()
					}
					c.completeSafely(r, timer, status)
					panic(rec)
				}
				c.completeSafely(r, timer, rw.StatusCode())
			}()

			next.ServeHTTP(rw, r)
		})
	}
}

// startTimerSafely converts panics raised while starting a timer into errors.
func (c *Collector) startTimerSafely(r *http.Request) (timer *PendingTimer, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			timer, err = nil, fmt.Errorf("timer start panicked: %v", rec)
		}
	}()
	return c.StartTimer(r)
}

// completeSafely records the observation, dropping it if recording panics
// (for example on a label inconsistency in the histogram vector).
func (c *Collector) completeSafely(r *http.Request, timer *PendingTimer, status int) {
	defer func() {
		if rec := recover(); rec != nil {
			logging.FromContext(r.Context()).WarnContext(r.Context(), "request observation dropped",
				"error", fmt.Sprint(rec),
				"method", r.Method,
				"handler", timer.handler,
			)
		}
	}()
	timer.ObserveDuration(status)
}

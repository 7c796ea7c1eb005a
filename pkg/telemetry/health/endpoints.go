package health

import (
	"net/http"
)

// body is the fixed probe response.
var body = []byte(`{"status":"ok"}`)

// LivenessHandler returns an HTTP handler for the liveness probe endpoint.
//
// Response (always 200):
//
//	{"status":"ok"}
func (c *Checker) LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeOK(w, r)
	}
}

// ReadinessHandler returns an HTTP handler for the readiness probe endpoint.
// It runs the registered checks and logs the failing ones at warn level, but
// the response is always 200 with {"status":"ok"}.
func (c *Checker) ReadinessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := c.CheckReadiness(r.Context())
		for name, result := range status.Checks {
			c.logger.Warn("readiness check failed", "check", name, "message", result.Message)
		}
		writeOK(w, r)
	}
}

// writeOK writes the probe body without a trailing newline. HEAD requests
// receive headers only.
func writeOK(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)

	if r.Method != http.MethodHead {
		_, _ = w.Write(body)
	}
}

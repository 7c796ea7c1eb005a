package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"runtime/debug"

	"mercator-hq/h2scaffold/pkg/telemetry/logging"
)

// errorResponse is the JSON body written for recovered panics.
type errorResponse struct {
	Error string `json:"error"`
}

// Recovery recovers from panics in HTTP handlers and returns a 500 Internal
// Server Error. It logs the panic with stack trace but does not expose
// internal details to clients. http.ErrAbortHandler is re-panicked so the
// server aborts the connection as usual.
//
// Example usage:
//
//	handler = Recovery(handler)
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rw := NewResponseWriter(w)

		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if err, ok := rec.(error); ok && errors.Is(err, http.ErrAbortHandler) {
				panic(rec)
			}

			logging.FromContext(r.Context()).ErrorContext(r.Context(), "panic in handler",
				"error", rec,
				"request_id", GetRequestID(r.Context()),
				"method", r.Method,
				"path", r.URL.Path,
				"stack", string(debug.Stack()),
			)

			// Headers already sent; the status cannot be changed.
			if rw.Written() {
				return
			}

			rw.Header().Set("Content-Type", "application/json")
			rw.WriteHeader(http.StatusInternalServerError)
			_ = json.NewEncoder(rw).Encode(errorResponse{Error: http.StatusText(http.StatusInternalServerError)})
		}()

		next.ServeHTTP(rw, r)
	})
}

// Package handlers implements the application routes served behind the
// request timer.
package handlers

import (
	"encoding/json"
	"net/http"

	"mercator-hq/h2scaffold/pkg/telemetry/logging"
)

// HelloMessage is the body of the root route.
const HelloMessage = "Hello from h2scaffold!"

// NotFoundMessage is the body of every unmatched route.
const NotFoundMessage = "Not Found"

type messageResponse struct {
	Message string `json:"message"`
}

// HTTP2 answers GET /http2 with {"message":"ok"}.
func HTTP2(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, messageResponse{Message: "ok"})
}

// Hello answers GET / with a plain-text greeting and logs it through the
// request-scoped logger.
func Hello(w http.ResponseWriter, r *http.Request) {
	logging.FromContext(r.Context()).InfoContext(r.Context(), HelloMessage)

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(HelloMessage))
}

// NotFound answers any unmatched route with 404 Not Found.
func NotFound(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusNotFound)
	_, _ = w.Write([]byte(NotFoundMessage))
}

// Register mounts the application routes on mux.
func Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /http2", HTTP2)
	mux.HandleFunc("GET /{$}", Hello)
	mux.HandleFunc("/", NotFound)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

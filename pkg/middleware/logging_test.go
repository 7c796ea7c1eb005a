package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"mercator-hq/h2scaffold/pkg/telemetry/logging"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var entries []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]any
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("log line is not JSON: %q", line)
		}
		entries = append(entries, entry)
	}
	return entries
}

func TestLogging(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		wantLevel string
	}{
		{"success logs info", http.StatusOK, "INFO"},
		{"not found logs warn", http.StatusNotFound, "WARN"},
		{"server error logs error", http.StatusInternalServerError, "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			logger := slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelInfo}))

			h := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}), RequestID, Logging(logger))

			req := httptest.NewRequest(http.MethodGet, "/path?q=1", nil)
			req.Header.Set(RequestIDHeader, "req-1")
			h.ServeHTTP(httptest.NewRecorder(), req)

			entries := decodeLines(t, buf)
			if len(entries) != 1 {
				t.Fatalf("expected 1 entry at info level, got %d", len(entries))
			}
			entry := entries[0]
			if entry["level"] != tt.wantLevel {
				t.Errorf("level = %v, want %s", entry["level"], tt.wantLevel)
			}
			if entry["msg"] != "request completed" {
				t.Errorf("msg = %v", entry["msg"])
			}
			if entry["status"] != float64(tt.status) {
				t.Errorf("status = %v, want %d", entry["status"], tt.status)
			}
			if entry["path"] != "/path" {
				t.Errorf("path = %v", entry["path"])
			}
			if entry["request_id"] != "req-1" {
				t.Errorf("request_id = %v", entry["request_id"])
			}
		})
	}
}

func TestLogging_RequestLoggerInContext(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logging.FromContext(r.Context()).Info("from handler")
		if GetStartTime(r.Context()).IsZero() {
			t.Error("start time missing from context")
		}
	}), RequestID, Logging(logger))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "req-2")
	h.ServeHTTP(httptest.NewRecorder(), req)

	var found bool
	for _, entry := range decodeLines(t, buf) {
		if entry["msg"] == "from handler" {
			found = true
			if entry["request_id"] != "req-2" {
				t.Errorf("handler line request_id = %v", entry["request_id"])
			}
		}
	}
	if !found {
		t.Error("handler log line not written through the request logger")
	}
}

func TestLogging_RecordsRecoveredPanic(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := slog.New(slog.NewJSONHandler(buf, nil))

	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}), Logging(logger), Recovery)

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	var completed map[string]any
	for _, entry := range decodeLines(t, buf) {
		if entry["msg"] == "request completed" {
			completed = entry
		}
	}
	if completed == nil {
		t.Fatal("no completion line")
	}
	if completed["status"] != float64(http.StatusInternalServerError) {
		t.Errorf("status = %v, want 500", completed["status"])
	}
}

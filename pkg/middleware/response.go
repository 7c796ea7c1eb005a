package middleware

import "net/http"

// ResponseWriter wraps http.ResponseWriter to capture the status code and the
// number of body bytes written.
type ResponseWriter struct {
	http.ResponseWriter
	statusCode   int
	written      bool
	bytesWritten int64
}

// NewResponseWriter wraps w. When w is already a *ResponseWriter it is
// returned unchanged so stacked middleware observe the same status.
func NewResponseWriter(w http.ResponseWriter) *ResponseWriter {
	if rw, ok := w.(*ResponseWriter); ok {
		return rw
	}
	return &ResponseWriter{
		ResponseWriter: w,
		statusCode:     http.StatusOK,
	}
}

// WriteHeader captures the status code before writing. Only the first call
// reaches the underlying writer.
func (rw *ResponseWriter) WriteHeader(code int) {
	if rw.written {
		return
	}
	rw.statusCode = code
	rw.written = true
	rw.ResponseWriter.WriteHeader(code)
}

// Write ensures WriteHeader is called if not already done.
func (rw *ResponseWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.WriteHeader(http.StatusOK)
	}
	n, err := rw.ResponseWriter.Write(b)
	rw.bytesWritten += int64(n)
	return n, err
}

// Flush implements http.Flusher when the underlying writer supports it.
func (rw *ResponseWriter) Flush() {
	if !rw.written {
		rw.WriteHeader(http.StatusOK)
	}
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Unwrap exposes the underlying writer to http.ResponseController.
func (rw *ResponseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

// StatusCode returns the status sent to the client, or 200 when the handler
// has not written anything yet.
func (rw *ResponseWriter) StatusCode() int {
	return rw.statusCode
}

// Written reports whether the header has been sent.
func (rw *ResponseWriter) Written() bool {
	return rw.written
}

// BytesWritten returns the number of body bytes written.
func (rw *ResponseWriter) BytesWritten() int64 {
	return rw.bytesWritten
}

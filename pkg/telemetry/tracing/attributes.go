package tracing

import (
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Span attribute keys. HTTP keys follow the OpenTelemetry HTTP semantic
// conventions; custom keys use the "h2s." namespace.
const (
	AttrHTTPMethod      = "http.request.method"
	AttrHTTPStatusCode  = "http.response.status_code"
	AttrURLPath         = "url.path"
	AttrNetworkProtocol = "network.protocol.version"
	AttrUserAgent       = "user_agent.original"

	AttrRequestID = "h2s.request_id"
)

// SetPanic marks the span as failed because the handler panicked.
func SetPanic(span trace.Span, rec any) {
	msg := fmt.Sprint(rec)
	span.SetAttributes(attribute.Int(AttrHTTPStatusCode, 500))
	span.RecordError(fmt.Errorf("panic: %s", msg))
	span.SetStatus(codes.Error, msg)
}

package tracing

import (
	"fmt"
	"net/http"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"mercator-hq/h2scaffold/pkg/middleware"
)

// Middleware returns middleware that starts a server span per request,
// continuing any trace propagated in the request headers. The span records
// the response status; 5xx responses and panics mark it as failed.
func (t *Tracer) Middleware() middleware.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := t.Extract(r.Context(), r.Header)

			attrs := []attribute.KeyValue{
				attribute.String(AttrHTTPMethod, r.Method),
				attribute.String(AttrURLPath, r.URL.Path),
				attribute.String(AttrNetworkProtocol, fmt.Sprintf("%d.%d", r.ProtoMajor, r.ProtoMinor)),
				attribute.String(AttrUserAgent, r.UserAgent()),
			}
			if requestID := middleware.GetRequestID(ctx); requestID != "" {
				attrs = append(attrs, attribute.String(AttrRequestID, requestID))
			}

			ctx, span := t.tracer.Start(ctx, "HTTP "+r.Method,
				trace.WithSpanKind(trace.SpanKindServer),
				trace.WithAttributes(attrs...),
			)
			defer span.End()

			rw := middleware.NewResponseWriter(w)

			defer func() {
				if rec := recover(); rec != nil {
					SetPanic(span, rec)
					panic(rec)
				}

				status := rw.StatusCode()
				span.SetAttributes(attribute.Int(AttrHTTPStatusCode, status))
				if status >= http.StatusInternalServerError {
					span.SetStatus(codes.Error, http.StatusText(status))
				}
			}()

			next.ServeHTTP(rw, r.WithContext(ctx))
		})
	}
}

package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	semconv "go.opentelemetry.io/otel/semconv/v1.39.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen11/salesflow/internal/platform/telemetry"
)

const tracerName = "github.com/jsamuelsen11/salesflow/internal/adapters/http"

// OpenTelemetry continues the caller's W3C trace (if any) with a server span
// per request and records the request metrics. metrics may be nil.
//
// The span is named "HTTP <method>" until routing finishes and is then
// renamed to the matched chi pattern, so /leads/{id}/convert is a single
// span name. Request, correlation and actor IDs are copied onto the span so
// a trace can be found from a log line.
func OpenTelemetry(metrics *telemetry.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))
			ctx, span := otel.Tracer(tracerName).Start(ctx, "HTTP "+r.Method,
				trace.WithSpanKind(trace.SpanKindServer),
				trace.WithAttributes(
					semconv.HTTPRequestMethodKey.String(r.Method),
					semconv.URLPathKey.String(r.URL.Path),
				),
			)
			defer span.End()
			span.SetAttributes(requestAttrs(r)...)

			rw := newResponseWriter(w)
			next.ServeHTTP(rw, r.WithContext(ctx))

			route := routePattern(r)
			if route != "" {
				span.SetName("HTTP " + r.Method + " " + route)
				span.SetAttributes(semconv.HTTPRouteKey.String(route))
			}

			span.SetAttributes(semconv.HTTPResponseStatusCodeKey.Int(rw.statusCode))
			if rw.statusCode >= http.StatusInternalServerError {
				span.SetStatus(codes.Error, http.StatusText(rw.statusCode))
			}

			recordServerMetrics(ctx, metrics, r.Method, route, time.Since(start), rw.statusCode)
		})
	}
}

func requestAttrs(r *http.Request) []attribute.KeyValue {
	ctx := r.Context()
	attrs := make([]attribute.KeyValue, 0, 3)
	if id := RequestIDFromContext(ctx); id != "" {
		attrs = append(attrs, attribute.String("salesflow.request_id", id))
	}
	if id := CorrelationIDFromContext(ctx); id != "" {
		attrs = append(attrs, attribute.String("salesflow.correlation_id", id))
	}
	if id := r.Header.Get(HeaderActorID); id != "" {
		attrs = append(attrs, attribute.String("salesflow.actor_id", id))
	}
	return attrs
}

// routePattern is the chi pattern that matched r, or "" before routing.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		return rctx.RoutePattern()
	}
	return ""
}

func recordServerMetrics(ctx context.Context, metrics *telemetry.Metrics, method, route string, elapsed time.Duration, status int) {
	if metrics == nil {
		return
	}

	result := "success"
	if status >= http.StatusBadRequest {
		result = "error"
	}
	attrs := metric.WithAttributes(
		telemetry.AttrHTTPMethod.String(method),
		telemetry.AttrHTTPRoute.String(route),
		telemetry.AttrHTTPStatus.Int(status),
		telemetry.AttrResult.String(result),
	)

	metrics.ServerRequestDuration.Record(ctx, elapsed.Seconds(), attrs)
	metrics.ServerRequestTotal.Add(ctx, 1, attrs)
}

package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/jsamuelsen11/salesflow/internal/adapters/http/middleware"
	"github.com/jsamuelsen11/salesflow/internal/platform/telemetry"
)

// These tests replace the global TracerProvider and therefore do not run in
// parallel.

func setupTracer(t *testing.T) *tracetest.InMemoryExporter {
	t.Helper()

	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	t.Cleanup(func() {
		_ = tp.Shutdown(t.Context())
	})

	return exporter
}

func onlySpan(t *testing.T, exporter *tracetest.InMemoryExporter) tracetest.SpanStub {
	t.Helper()
	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("recorded %d spans, want 1", len(spans))
	}
	return spans[0]
}

func spanAttrs(s tracetest.SpanStub) map[string]any {
	attrs := make(map[string]any, len(s.Attributes))
	for _, a := range s.Attributes {
		attrs[string(a.Key)] = a.Value.AsInterface()
	}
	return attrs
}

func TestOpenTelemetry_UnroutedSpan(t *testing.T) {
	exporter := setupTracer(t)

	handler := middleware.OpenTelemetry(nil)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/v1/leads/l-9", http.NoBody))

	span := onlySpan(t, exporter)
	if span.Name != "HTTP POST" {
		t.Errorf("span name = %q, want %q", span.Name, "HTTP POST")
	}

	attrs := spanAttrs(span)
	if attrs["http.request.method"] != "POST" {
		t.Errorf("http.request.method = %v, want POST", attrs["http.request.method"])
	}
	if attrs["url.path"] != "/api/v1/leads/l-9" {
		t.Errorf("url.path = %v, want /api/v1/leads/l-9", attrs["url.path"])
	}
	if attrs["http.response.status_code"] != int64(http.StatusNotFound) {
		t.Errorf("http.response.status_code = %v, want %d", attrs["http.response.status_code"], http.StatusNotFound)
	}
	if _, ok := attrs["http.route"]; ok {
		t.Error("http.route set on a request that never matched a route")
	}
}

func TestOpenTelemetry_SpanStatus(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   codes.Code
	}{
		{name: "created", status: http.StatusCreated, want: codes.Unset},
		{name: "client error stays unset", status: http.StatusUnprocessableEntity, want: codes.Unset},
		{name: "bad gateway", status: http.StatusBadGateway, want: codes.Error},
		{name: "gateway timeout", status: http.StatusGatewayTimeout, want: codes.Error},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exporter := setupTracer(t)

			handler := middleware.OpenTelemetry(nil)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
			}))
			handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/", http.NoBody))

			if got := onlySpan(t, exporter).Status.Code; got != tt.want {
				t.Errorf("span status = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOpenTelemetry_RouteAndRequestIDs(t *testing.T) {
	exporter := setupTracer(t)

	r := chi.NewRouter()
	r.Use(middleware.RequestID(), middleware.CorrelationID(), middleware.OpenTelemetry(nil))
	r.Post("/api/v1/leads/{id}/convert", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/leads/lead-7/convert", http.NoBody)
	req.Header.Set(middleware.HeaderActorID, "rep1")
	req.Header.Set("X-Request-ID", "req-7")
	req.Header.Set("X-Correlation-ID", "corr-7")
	r.ServeHTTP(httptest.NewRecorder(), req)

	span := onlySpan(t, exporter)
	if want := "HTTP POST /api/v1/leads/{id}/convert"; span.Name != want {
		t.Errorf("span name = %q, want %q", span.Name, want)
	}

	attrs := spanAttrs(span)
	for key, want := range map[string]string{
		"http.route":               "/api/v1/leads/{id}/convert",
		"salesflow.actor_id":       "rep1",
		"salesflow.request_id":     "req-7",
		"salesflow.correlation_id": "corr-7",
	} {
		if attrs[key] != want {
			t.Errorf("%s = %v, want %q", key, attrs[key], want)
		}
	}
}

func TestOpenTelemetry_ContinuesCallerTrace(t *testing.T) {
	exporter := setupTracer(t)

	handler := middleware.OpenTelemetry(nil)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/health/ready", http.NoBody)
	req.Header.Set("Traceparent", "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	span := onlySpan(t, exporter)
	if got := span.SpanContext.TraceID().String(); got != "4bf92f3577b34da6a3ce929d0e0e4736" {
		t.Errorf("trace id = %s, want caller's trace id", got)
	}
	if got := span.Parent.SpanID().String(); got != "00f067aa0ba902b7" {
		t.Errorf("parent span id = %s, want caller's span id", got)
	}
}

func TestOpenTelemetry_RecordsMetrics(t *testing.T) {
	metrics, err := telemetry.NewMetrics(noop.NewMeterProvider())
	if err != nil {
		t.Fatalf("NewMetrics() error = %v", err)
	}

	for _, m := range []*telemetry.Metrics{nil, metrics} {
		handler := middleware.OpenTelemetry(m)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusConflict)
		}))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/opportunities", http.NoBody))

		if rec.Code != http.StatusConflict {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusConflict)
		}
	}
}

package telemetry

import (
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	semconv "go.opentelemetry.io/otel/semconv/v1.39.0"
)

const meterName = "github.com/jsamuelsen11/salesflow"

// Metric attribute keys.
var (
	AttrHTTPMethod = semconv.HTTPRequestMethodKey
	AttrHTTPRoute  = semconv.HTTPRouteKey
	AttrHTTPStatus = semconv.HTTPResponseStatusCodeKey
	AttrEventType  = attribute.Key("salesflow.event.type")
	AttrHandler    = attribute.Key("salesflow.handler")
	AttrResult     = attribute.Key("salesflow.result")
)

// Metrics are the instruments recorded by the HTTP middleware, the event bus
// and the broker relay.
type Metrics struct {
	ServerRequestDuration metric.Float64Histogram
	ServerRequestTotal    metric.Int64Counter
	EventsPublished       metric.Int64Counter
	HandlerDuration       metric.Float64Histogram
	HandlerFailures       metric.Int64Counter
	BrokerPublishTotal    metric.Int64Counter
}

// NewMetrics registers every instrument on mp. Tests pass
// noop.NewMeterProvider().
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	meter := mp.Meter(meterName)
	m := &Metrics{}

	histograms := []struct {
		dst              *metric.Float64Histogram
		name, desc, unit string
	}{
		{&m.ServerRequestDuration, "http.server.request.duration", "Duration of inbound HTTP requests", "s"},
		{&m.HandlerDuration, "salesflow.handler.duration", "Duration of one event handler call", "s"},
	}
	for _, h := range histograms {
		inst, err := meter.Float64Histogram(h.name, metric.WithDescription(h.desc), metric.WithUnit(h.unit))
		if err != nil {
			return nil, fmt.Errorf("creating %s: %w", h.name, err)
		}
		*h.dst = inst
	}

	counters := []struct {
		dst              *metric.Int64Counter
		name, desc, unit string
	}{
		{&m.ServerRequestTotal, "http.server.request.total", "Inbound HTTP requests", "{request}"},
		{&m.EventsPublished, "salesflow.events.published", "Domain events appended to the log and queued for dispatch", "{event}"},
		{&m.HandlerFailures, "salesflow.handler.failures", "Event handler calls that failed, panicked or timed out", "{failure}"},
		{&m.BrokerPublishTotal, "salesflow.broker.publish.total", "Domain events relayed to the message broker", "{message}"},
	}
	for _, c := range counters {
		inst, err := meter.Int64Counter(c.name, metric.WithDescription(c.desc), metric.WithUnit(c.unit))
		if err != nil {
			return nil, fmt.Errorf("creating %s: %w", c.name, err)
		}
		*c.dst = inst
	}

	return m, nil
}

// Package telemetry wires OpenTelemetry for the service: a tracer provider,
// a meter provider and the instruments in Metrics. Spans and metrics go to
// stdout in development and to an OTLP/HTTP collector elsewhere.
//
//	p, err := telemetry.Setup(ctx, telemetry.Options{
//	    ServiceName: "salesflow",
//	    Environment: "local",
//	    Exporter:    telemetry.ExporterStdout,
//	    Enabled:     true,
//	})
//	defer p.Shutdown(ctx)
//	bus := eventbus.New(log, eventbus.WithMetrics(p.Metrics))
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.39.0"
)

// Exporter names accepted by Setup.
const (
	ExporterStdout = "stdout"
	ExporterOTLP   = "otlp"
)

var (
	// ErrUnsupportedExporter is returned for an exporter other than
	// ExporterStdout or ExporterOTLP.
	ErrUnsupportedExporter = errors.New("unsupported exporter")

	errMissingEndpoint = errors.New("otlp exporter requires an endpoint")
)

// Options selects what Setup builds. Disabled telemetry still yields usable
// (no-op) Metrics.
type Options struct {
	Enabled     bool
	ServiceName string
	// Environment is the config profile, exported as
	// deployment.environment.name.
	Environment string
	Exporter    string
	Endpoint    string
}

// Providers owns the SDK providers created by Setup. TracerProvider and
// MeterProvider are nil when telemetry is disabled.
type Providers struct {
	TracerProvider *sdktrace.TracerProvider
	MeterProvider  *sdkmetric.MeterProvider
	Metrics        *Metrics
}

// Setup builds the providers, installs them (and the W3C trace context and
// baggage propagators) as the otel globals, and registers Metrics.
func Setup(ctx context.Context, opts Options) (*Providers, error) {
	if !opts.Enabled {
		metrics, err := NewMetrics(noop.NewMeterProvider())
		if err != nil {
			return nil, err
		}
		return &Providers{Metrics: metrics}, nil
	}

	res, err := resource.Merge(resource.Default(), resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(opts.ServiceName),
		attribute.String("deployment.environment.name", opts.Environment),
	))
	if err != nil {
		return nil, fmt.Errorf("building resource: %w", err)
	}

	spans, err := spanExporter(ctx, opts.Exporter, opts.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("creating span exporter: %w", err)
	}
	metricsOut, err := metricExporter(ctx, opts.Exporter, opts.Endpoint)
	if err != nil {
		_ = spans.Shutdown(ctx)
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	p := &Providers{
		TracerProvider: sdktrace.NewTracerProvider(
			sdktrace.WithBatcher(spans),
			sdktrace.WithResource(res),
		),
		MeterProvider: sdkmetric.NewMeterProvider(
			sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricsOut)),
			sdkmetric.WithResource(res),
		),
	}
	if p.Metrics, err = NewMetrics(p.MeterProvider); err != nil {
		_ = p.Shutdown(ctx)
		return nil, err
	}

	otel.SetTracerProvider(p.TracerProvider)
	otel.SetMeterProvider(p.MeterProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return p, nil
}

// Shutdown flushes and stops both providers. Safe on a disabled or nil
// Providers.
func (p *Providers) Shutdown(ctx context.Context) error {
	if p == nil {
		return nil
	}
	var errs []error
	if p.TracerProvider != nil {
		if err := p.TracerProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer shutdown: %w", err))
		}
	}
	if p.MeterProvider != nil {
		if err := p.MeterProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter shutdown: %w", err))
		}
	}
	return errors.Join(errs...)
}

func spanExporter(ctx context.Context, exporter, endpoint string) (sdktrace.SpanExporter, error) {
	switch exporter {
	case ExporterOTLP:
		host, secure, err := collector(endpoint)
		if err != nil {
			return nil, err
		}
		opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(host)}
		if !secure {
			opts = append(opts, otlptracehttp.WithInsecure())
		}
		return otlptracehttp.New(ctx, opts...)
	case ExporterStdout:
		return stdouttrace.New(stdouttrace.WithPrettyPrint())
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedExporter, exporter)
	}
}

func metricExporter(ctx context.Context, exporter, endpoint string) (sdkmetric.Exporter, error) {
	switch exporter {
	case ExporterOTLP:
		host, secure, err := collector(endpoint)
		if err != nil {
			return nil, err
		}
		opts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(host)}
		if !secure {
			opts = append(opts, otlpmetrichttp.WithInsecure())
		}
		return otlpmetrichttp.New(ctx, opts...)
	case ExporterStdout:
		return stdoutmetric.New()
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedExporter, exporter)
	}
}

// collector splits an OTLP endpoint such as "https://otel:4318" into the
// host:port the exporters want and whether TLS is used. A bare host:port is
// taken as plain HTTP.
func collector(endpoint string) (host string, secure bool, err error) {
	if endpoint == "" {
		return "", false, errMissingEndpoint
	}
	u, err := url.Parse(endpoint)
	if err != nil || u.Host == "" {
		return endpoint, false, nil //nolint:nilerr // bare host:port
	}
	return u.Host, u.Scheme == "https", nil
}

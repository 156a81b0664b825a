// Package broker relays committed domain events to RabbitMQ so systems
// outside the process can follow the sales pipeline.
//
// The relay is subscribed to every event type on the in-process bus and
// publishes each event through:
//
//	Circuit Breaker → Rate Limiter → OTEL Span → Retry → AMQP publish
//
// Construction:
//
//	conn, err := broker.Dial(&cfg.Broker)
//	relay := broker.New(conn.Channel(), &cfg.Broker, metrics, logger, broker.WithConnection(conn))
//	bus.SubscribeAll("broker-relay", relay.Handle)
//
// Request metadata set by inbound middleware travels with the message:
//
//	ctx = broker.WithRequestID(ctx, "req-123")
//	ctx = broker.WithCorrelationID(ctx, "corr-456")
package broker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"github.com/jsamuelsen11/salesflow/internal/domain"
	"github.com/jsamuelsen11/salesflow/internal/domain/event"
	"github.com/jsamuelsen11/salesflow/internal/platform/config"
	"github.com/jsamuelsen11/salesflow/internal/platform/telemetry"
)

// Name identifies the relay in health reports.
const Name = "rabbitmq"

// Header names carried on every message.
const (
	HeaderRequestID     = "x-request-id"
	HeaderAggregateType = "x-aggregate-type"
)

// Context key types for request metadata propagation.
type (
	requestIDKey     struct{}
	correlationIDKey struct{}
)

// WithRequestID returns a new context with the given request ID stored in it.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// WithCorrelationID returns a new context with the given correlation ID
// stored in it. It becomes the message's AMQP correlation id.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationIDKey{}, id)
}

// Publisher is the part of *amqp.Channel the relay needs.
type Publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// connection reports whether the underlying AMQP connection has dropped.
type connection interface {
	IsClosed() bool
}

// retryConfig holds the retry policy values extracted from config.RetryConfig.
type retryConfig struct {
	maxAttempts     int
	initialInterval time.Duration
	maxInterval     time.Duration
	multiplier      float64
}

// Relay forwards domain events to a RabbitMQ exchange.
type Relay struct {
	pub      Publisher
	conn     connection // nil when the caller manages the connection
	exchange string
	timeout  time.Duration
	breaker  *gobreaker.CircuitBreaker[struct{}]
	limiter  *rate.Limiter // nil when rate limiting is disabled
	retryCfg retryConfig
	metrics  *telemetry.Metrics
	logger   *slog.Logger
}

// Option configures a Relay.
type Option func(*Relay)

// WithConnection lets HealthCheck report a dropped connection.
func WithConnection(c connection) Option {
	return func(r *Relay) { r.conn = c }
}

// New creates a relay publishing to cfg.Exchange through pub. If metrics is
// nil, metric recording is skipped.
func New(pub Publisher, cfg *config.BrokerConfig, metrics *telemetry.Metrics, logger *slog.Logger, opts ...Option) *Relay {
	cb := gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        Name,
		MaxRequests: toUint32(cfg.CircuitBreaker.HalfOpenLimit),
		Timeout:     cfg.CircuitBreaker.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return int(counts.ConsecutiveFailures) >= cfg.CircuitBreaker.MaxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
		},
	})

	var limiter *rate.Limiter
	if cfg.RateLimit.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit.RequestsPerSecond), cfg.RateLimit.BurstSize)
	}

	r := &Relay{
		pub:      pub,
		exchange: cfg.Exchange,
		timeout:  cfg.PublishTimeout,
		breaker:  cb,
		limiter:  limiter,
		retryCfg: retryConfig{
			maxAttempts:     cfg.Retry.MaxAttempts,
			initialInterval: cfg.Retry.InitialInterval,
			maxInterval:     cfg.Retry.MaxInterval,
			multiplier:      cfg.Retry.Multiplier,
		},
		metrics: metrics,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// message is the JSON body published for each event.
type message struct {
	ID            string         `json:"id"`
	Type          string         `json:"type"`
	AggregateID   string         `json:"aggregateId"`
	AggregateType string         `json:"aggregateType"`
	Payload       map[string]any `json:"payload"`
	OccurredAt    time.Time      `json:"occurredAt"`
}

// RoutingKey returns the topic routing key for an event, e.g.
// "opportunity.OpportunityWon".
func RoutingKey(e event.Event) string {
	return strings.ToLower(string(e.AggregateType)) + "." + string(e.Type)
}

// Handle publishes e. It has the ports.EventHandler signature so it can be
// subscribed to the event bus directly. Errors wrap domain.ErrUnavailable.
func (r *Relay) Handle(ctx context.Context, e event.Event) error {
	body, err := json.Marshal(message{
		ID:            e.ID,
		Type:          string(e.Type),
		AggregateID:   e.AggregateID,
		AggregateType: string(e.AggregateType),
		Payload:       e.Payload,
		OccurredAt:    e.OccurredAt,
	})
	if err != nil {
		return fmt.Errorf("encoding event %s: %w", e.ID, err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    e.ID,
		Type:         string(e.Type),
		Timestamp:    e.OccurredAt,
		Headers:      amqp.Table{HeaderAggregateType: string(e.AggregateType)},
		Body:         body,
	}
	r.injectHeaders(ctx, &msg)

	key := RoutingKey(e)
	_, err = r.breaker.Execute(func() (struct{}, error) {
		if err := r.waitForRateLimit(ctx); err != nil {
			return struct{}{}, err
		}

		spanCtx, span := r.startSpan(ctx, e, key)
		defer span.End()

		otel.GetTextMapPropagator().Inject(spanCtx, tableCarrier(msg.Headers))

		retryErr := r.publishWithRetry(spanCtx, key, msg)
		if retryErr != nil {
			span.RecordError(retryErr)
			span.SetStatus(codes.Error, retryErr.Error())
		}
		return struct{}{}, retryErr
	})

	r.recordMetrics(ctx, e.Type, err)

	if err != nil {
		r.logger.ErrorContext(ctx, "failed to relay event",
			slog.String("operation", "Relay.Handle"),
			slog.String("event_id", e.ID),
			slog.String("event_type", string(e.Type)),
			slog.String("routing_key", key),
			slog.Any("error", err),
		)
		return fmt.Errorf("relaying %s %s: %w: %w", e.Type, e.ID, domain.ErrUnavailable, err)
	}
	return nil
}

// Name returns the health check identifier.
func (r *Relay) Name() string {
	return Name
}

// HealthCheck reports broker availability from the connection and circuit
// breaker state. No message is published.
func (r *Relay) HealthCheck(_ context.Context) error {
	if r.conn != nil && r.conn.IsClosed() {
		return fmt.Errorf("%s: connection closed", Name)
	}

	state := r.breaker.State()
	switch state {
	case gobreaker.StateClosed:
		return nil
	case gobreaker.StateHalfOpen:
		return fmt.Errorf("%s: degraded (circuit breaker half-open)", Name)
	case gobreaker.StateOpen:
		return fmt.Errorf("%s: failing (circuit breaker open)", Name)
	default:
		return fmt.Errorf("%s: unknown circuit breaker state %v", Name, state)
	}
}

func (r *Relay) waitForRateLimit(ctx context.Context) error {
	if r.limiter == nil {
		return nil
	}
	return r.limiter.Wait(ctx)
}

// injectHeaders copies request metadata from the context onto the message.
func (r *Relay) injectHeaders(ctx context.Context, msg *amqp.Publishing) {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok && id != "" {
		msg.Headers[HeaderRequestID] = id
	}
	if id, ok := ctx.Value(correlationIDKey{}).(string); ok && id != "" {
		msg.CorrelationId = id
	}
}

func (r *Relay) startSpan(ctx context.Context, e event.Event, key string) (context.Context, trace.Span) {
	tracer := otel.GetTracerProvider().Tracer("broker")
	return tracer.Start(ctx, "publish "+key,
		trace.WithSpanKind(trace.SpanKindProducer),
		trace.WithAttributes(
			attribute.String("messaging.system", "rabbitmq"),
			attribute.String("messaging.destination.name", r.exchange),
			attribute.String("messaging.rabbitmq.destination.routing_key", key),
			attribute.String("messaging.message.id", e.ID),
		),
	)
}

// recordMetrics counts relayed events by outcome. Circuit-open rejections
// are counted separately. Safe to call with nil metrics.
func (r *Relay) recordMetrics(ctx context.Context, t event.Type, err error) {
	if r.metrics == nil {
		return
	}

	result := "success"
	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		result = "circuit_open"
	case err != nil:
		result = "error"
	}

	r.metrics.BrokerPublishTotal.Add(ctx, 1, metric.WithAttributes(
		telemetry.AttrEventType.String(string(t)),
		telemetry.AttrResult.String(result),
	))
}

// tableCarrier adapts amqp.Table to propagation.TextMapCarrier.
type tableCarrier amqp.Table

var _ propagation.TextMapCarrier = tableCarrier(nil)

func (c tableCarrier) Get(key string) string {
	v, _ := c[key].(string)
	return v
}

func (c tableCarrier) Set(key, value string) {
	c[key] = value
}

func (c tableCarrier) Keys() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	return keys
}

// toUint32 safely converts a non-negative int to uint32, clamping at the
// uint32 maximum. Negative values are treated as zero.
func toUint32(v int) uint32 {
	if v <= 0 {
		return 0
	}
	if v > math.MaxUint32 {
		return math.MaxUint32
	}
	return uint32(v)
}

// Package eventbus is the in-process publish/subscribe backbone. Publish
// durably appends events to the event log and queues them; worker goroutines
// then run every matching handler. Handler failures are isolated, logged and
// counted, and never reach the publisher.
//
//	bus := eventbus.New(trail, eventbus.WithWorkers(4))
//	bus.Subscribe(event.OpportunityWon, "project-cascade", cascade.OnOpportunityWon)
//	err := bus.Publish(ctx, events...)
//	...
//	err = bus.Close(ctx)
package eventbus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen11/salesflow/internal/app/fanout"
	"github.com/jsamuelsen11/salesflow/internal/domain"
	"github.com/jsamuelsen11/salesflow/internal/domain/event"
	"github.com/jsamuelsen11/salesflow/internal/platform/logging"
	"github.com/jsamuelsen11/salesflow/internal/platform/telemetry"
	"github.com/jsamuelsen11/salesflow/internal/ports"
)

// Compile-time interface checks.
var (
	_ ports.EventPublisher   = (*Bus)(nil)
	_ ports.EventReservation = (*Reservation)(nil)
)

// ErrClosed is returned by Publish once Close has been called.
var ErrClosed = errors.New("eventbus: closed")

// ErrReservationExceeded is returned when a reservation is published with
// more events than it holds, or published twice.
var ErrReservationExceeded = errors.New("eventbus: reservation exceeded")

const (
	defaultWorkers        = 4
	defaultQueueSize      = 1024
	defaultHandlerTimeout = 30 * time.Second
)

// EventLog is the durable append-only log written before dispatch.
type EventLog interface {
	AppendEvents(ctx context.Context, events ...event.Event) error
}

type subscription struct {
	name    string
	handler ports.EventHandler
}

type envelope struct {
	ctx context.Context
	ev  event.Event
}

// dispatchKey marks contexts passed to handlers, so that events published
// from inside a handler bypass queue backpressure.
type dispatchKey struct{}

// Bus is an asynchronous, durable-first event bus. Create one per process
// with New and pass it by reference.
type Bus struct {
	log       EventLog
	workers   int
	queueSize int
	metrics   *telemetry.Metrics
	tracer    trace.Tracer

	// handlerTimeout bounds a single handler call; zero means none.
	handlerTimeout time.Duration

	subMu    sync.RWMutex
	byType   map[event.Type][]subscription
	wildcard []subscription

	mu       sync.Mutex
	pending  []envelope
	notEmpty *sync.Cond
	closed   bool
	stopping bool
	// inflight counts events from the moment Publish accepts them until
	// their handlers finish.
	inflight int
	idle     chan struct{}
	space    chan struct{}

	wg sync.WaitGroup
}

// Option configures a Bus.
type Option func(*Bus)

// WithWorkers sets the number of dispatch goroutines.
func WithWorkers(n int) Option {
	return func(b *Bus) {
		if n > 0 {
			b.workers = n
		}
	}
}

// WithQueueSize sets how many events may wait for dispatch before external
// publishers block.
func WithQueueSize(n int) Option {
	return func(b *Bus) {
		if n > 0 {
			b.queueSize = n
		}
	}
}

// WithHandlerTimeout bounds each handler call. Zero removes the bound.
func WithHandlerTimeout(d time.Duration) Option {
	return func(b *Bus) {
		if d >= 0 {
			b.handlerTimeout = d
		}
	}
}

// WithMetrics records publish and handler metrics. Nil disables recording.
func WithMetrics(m *telemetry.Metrics) Option {
	return func(b *Bus) { b.metrics = m }
}

// New creates a Bus and starts its workers.
func New(log EventLog, opts ...Option) *Bus {
	b := &Bus{
		log:            log,
		workers:        defaultWorkers,
		queueSize:      defaultQueueSize,
		handlerTimeout: defaultHandlerTimeout,
		tracer:         otel.Tracer("eventbus"),
		byType:         make(map[event.Type][]subscription),
	}
	for _, opt := range opts {
		opt(b)
	}
	b.notEmpty = sync.NewCond(&b.mu)

	b.wg.Add(b.workers)
	for range b.workers {
		go b.work()
	}
	return b
}

// Subscribe registers handler for one event type. Call at startup, before
// the first Publish.
func (b *Bus) Subscribe(t event.Type, name string, handler ports.EventHandler) {
	b.subMu.Lock()
	defer b.subMu.Unlock()
	b.byType[t] = append(b.byType[t], subscription{name: name, handler: handler})
}

// SubscribeAll registers handler for every event type.
func (b *Bus) SubscribeAll(name string, handler ports.EventHandler) {
	b.subMu.Lock()
	defer b.subMu.Unlock()
	b.wildcard = append(b.wildcard, subscription{name: name, handler: handler})
}

// Publish appends events to the durable log as one batch and queues them for
// dispatch in order. It returns once the append succeeded; handlers run
// later on worker goroutines. When the append fails nothing is dispatched.
func (b *Bus) Publish(ctx context.Context, events ...event.Event) error {
	if len(events) == 0 {
		return nil
	}

	fromHandler := ctx.Value(dispatchKey{}) != nil
	if err := b.reserve(ctx, len(events), fromHandler); err != nil {
		return err
	}
	return b.enqueue(ctx, events)
}

// Reserve claims space for up to n events. Until the reservation is
// published or cancelled the bus counts the events as in flight, so Drain
// and Close wait for it.
func (b *Bus) Reserve(ctx context.Context, n int) (ports.EventReservation, error) {
	if n <= 0 {
		return &Reservation{bus: b}, nil
	}
	if err := b.reserve(ctx, n, ctx.Value(dispatchKey{}) != nil); err != nil {
		return nil, err
	}
	return &Reservation{bus: b, n: n}, nil
}

// Reservation is queue space held by Reserve. It is not safe for concurrent
// use.
type Reservation struct {
	bus  *Bus
	n    int
	used bool
}

// Publish appends and queues events using the reserved space and returns the
// space it did not use.
func (r *Reservation) Publish(ctx context.Context, events ...event.Event) error {
	if r.used || len(events) > r.n {
		return fmt.Errorf("%w: %d events for %d reserved", ErrReservationExceeded, len(events), r.n)
	}
	r.used = true
	if spare := r.n - len(events); spare > 0 {
		r.bus.release(spare)
	}
	if len(events) == 0 {
		return nil
	}
	return r.bus.enqueue(ctx, events)
}

// Cancel releases the reservation if it was never published.
func (r *Reservation) Cancel() {
	if r.used {
		return
	}
	r.used = true
	r.bus.release(r.n)
}

// enqueue appends already reserved events to the log and queues them.
func (b *Bus) enqueue(ctx context.Context, events []event.Event) error {
	if err := b.log.AppendEvents(ctx, events...); err != nil {
		b.release(len(events))
		return fmt.Errorf("appending events to log: %w", err)
	}

	// Handlers outlive the publishing request.
	hctx := context.WithoutCancel(ctx)

	b.mu.Lock()
	for _, ev := range events {
		b.pending = append(b.pending, envelope{ctx: hctx, ev: ev})
	}
	b.notEmpty.Broadcast()
	b.mu.Unlock()

	if b.metrics != nil {
		for _, ev := range events {
			b.metrics.EventsPublished.Add(ctx, 1, metric.WithAttributes(telemetry.AttrEventType.String(string(ev.Type))))
		}
	}
	return nil
}

// reserve counts n events as in flight, waiting for queue space first unless
// the publisher is itself a handler.
func (b *Bus) reserve(ctx context.Context, n int, fromHandler bool) error {
	for {
		b.mu.Lock()
		if b.closed {
			b.mu.Unlock()
			return ErrClosed
		}
		if fromHandler || len(b.pending) < b.queueSize {
			if b.inflight == 0 {
				b.idle = make(chan struct{})
			}
			b.inflight += n
			b.mu.Unlock()
			return nil
		}
		if b.space == nil {
			b.space = make(chan struct{})
		}
		space := b.space
		b.mu.Unlock()

		select {
		case <-space:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// release marks n in-flight events as finished.
func (b *Bus) release(n int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.inflight -= n
	if b.inflight == 0 && b.idle != nil {
		close(b.idle)
		b.idle = nil
	}
}

func (b *Bus) work() {
	defer b.wg.Done()

	for {
		b.mu.Lock()
		for len(b.pending) == 0 && !b.stopping {
			b.notEmpty.Wait()
		}
		if len(b.pending) == 0 {
			b.mu.Unlock()
			return
		}

		env := b.pending[0]
		b.pending[0] = envelope{}
		b.pending = b.pending[1:]
		if b.space != nil && len(b.pending) < b.queueSize {
			close(b.space)
			b.space = nil
		}
		b.mu.Unlock()

		b.dispatch(env)
		b.release(1)
	}
}

func (b *Bus) handlersFor(t event.Type) []subscription {
	b.subMu.RLock()
	defer b.subMu.RUnlock()

	subs := make([]subscription, 0, len(b.byType[t])+len(b.wildcard))
	subs = append(subs, b.byType[t]...)
	return append(subs, b.wildcard...)
}

// dispatch runs every handler for one event concurrently. A failing or
// panicking handler does not affect the others.
func (b *Bus) dispatch(env envelope) {
	subs := b.handlersFor(env.ev.Type)
	if len(subs) == 0 {
		return
	}

	ctx := context.WithValue(env.ctx, dispatchKey{}, struct{}{})
	ev := env.ev

	errs := fanout.Each(ctx, subs, func(ctx context.Context, s subscription) error {
		ctx, span := b.tracer.Start(ctx, "handle "+string(ev.Type),
			trace.WithAttributes(
				attribute.String("event.id", ev.ID),
				attribute.String("handler", s.name),
			),
		)
		defer span.End()

		start := time.Now()
		err := s.handler(ctx, ev)
		if b.metrics != nil {
			b.metrics.HandlerDuration.Record(ctx, time.Since(start).Seconds(), metric.WithAttributes(
				telemetry.AttrEventType.String(string(ev.Type)),
				telemetry.AttrHandler.String(s.name),
			))
		}
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		return err
	}, fanout.WithItemTimeout(b.handlerTimeout))

	logger := logging.FromContext(ctx)
	for i, handlerErr := range errs {
		if handlerErr == nil {
			continue
		}
		err := fmt.Errorf("%w: %s: %w", domain.ErrHandlerFailure, subs[i].name, handlerErr)
		logger.ErrorContext(ctx, "event handler failed",
			slog.String("operation", "Bus.dispatch"),
			slog.String("handler", subs[i].name),
			slog.String("event_id", ev.ID),
			slog.String("event_type", string(ev.Type)),
			slog.String("aggregate_id", ev.AggregateID),
			slog.Any("error", err),
		)
		if b.metrics != nil {
			b.metrics.HandlerFailures.Add(ctx, 1, metric.WithAttributes(
				telemetry.AttrEventType.String(string(ev.Type)),
				telemetry.AttrHandler.String(subs[i].name),
			))
		}
	}
}

// Drain blocks until every accepted event, including events published by
// handlers while draining, has been fully handled, or ctx is done.
func (b *Bus) Drain(ctx context.Context) error {
	b.mu.Lock()
	idle := b.idle
	b.mu.Unlock()

	if idle == nil {
		return nil
	}

	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops accepting events, drains what was accepted and stops the
// workers. Handlers that publish during Close get ErrClosed. If ctx expires
// before the drain completes, workers are still stopped once the queue is
// empty and Close returns the context error.
func (b *Bus) Close(ctx context.Context) error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	b.mu.Unlock()

	drainErr := b.Drain(ctx)

	b.mu.Lock()
	b.stopping = true
	b.notEmpty.Broadcast()
	b.mu.Unlock()

	if drainErr != nil {
		return drainErr
	}
	b.wg.Wait()
	return nil
}

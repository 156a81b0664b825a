// Package workflow implements the sales pipeline: lead intake and
// qualification, lead conversion, opportunity stage changes and the
// won-deal cascade that opens a delivery project.
//
// Every operation authorizes the acting actor against the owner of the
// record it touches, serializes on the record's ID, persists with optimistic
// version checks and publishes domain events only after the write succeeds.
package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen11/salesflow/internal/domain"
	"github.com/jsamuelsen11/salesflow/internal/domain/audit"
	"github.com/jsamuelsen11/salesflow/internal/domain/event"
	"github.com/jsamuelsen11/salesflow/internal/platform/keylock"
	"github.com/jsamuelsen11/salesflow/internal/platform/logging"
	"github.com/jsamuelsen11/salesflow/internal/ports"
)

// Compile-time interface check.
var _ ports.WorkflowService = (*Orchestrator)(nil)

// SystemActorID owns records created by the cascade when no human actor can
// be attributed.
const SystemActorID = "system"

// Repositories groups the stores the workflow writes to.
type Repositories struct {
	Leads         ports.LeadRepository
	Accounts      ports.AccountRepository
	Contacts      ports.ContactRepository
	Opportunities ports.OpportunityRepository
	Projects      ports.ProjectRepository
}

// Orchestrator implements ports.WorkflowService.
type Orchestrator struct {
	repos    Repositories
	authz    ports.Authorizer
	assigner ports.Assigner
	audit    ports.AuditRecorder
	events   ports.EventPublisher

	locks  keylock.Map
	now    func() time.Time
	tracer trace.Tracer
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

// New creates an Orchestrator.
func New(
	repos Repositories,
	authz ports.Authorizer,
	assigner ports.Assigner,
	recorder ports.AuditRecorder,
	events ports.EventPublisher,
	opts ...Option,
) *Orchestrator {
	o := &Orchestrator{
		repos:    repos,
		authz:    authz,
		assigner: assigner,
		audit:    recorder,
		events:   events,
		now:      time.Now,
		tracer:   otel.Tracer("workflow"),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *Orchestrator) clock() time.Time {
	return o.now().UTC()
}

func (o *Orchestrator) startSpan(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return o.tracer.Start(ctx, "workflow."+op, trace.WithAttributes(attrs...))
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// record appends an audit entry. The write it describes has already
// happened, so a failure is logged rather than returned.
func (o *Orchestrator) record(ctx context.Context, actorID string, action audit.Action, resourceType, resourceID string, details map[string]any) {
	entry := &audit.Entry{
		ActorID:      actorID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Details:      details,
	}
	if err := o.audit.Record(ctx, entry); err != nil {
		logging.FromContext(ctx).ErrorContext(ctx, "failed to record audit entry",
			slog.String("operation", "Orchestrator.record"),
			slog.String("action", string(action)),
			slog.String("resource_type", resourceType),
			slog.String("resource_id", resourceID),
			slog.Any("error", err),
		)
	}
}

// reserve claims queue space for an operation that publishes while holding
// an aggregate lock.
func (o *Orchestrator) reserve(ctx context.Context, n int) (ports.EventReservation, error) {
	res, err := o.events.Reserve(ctx, n)
	if err != nil {
		return nil, fmt.Errorf("reserving event queue space: %w: %w", domain.ErrUnavailable, err)
	}
	return res, nil
}

// publishReserved is publish for events covered by a reservation.
func (o *Orchestrator) publishReserved(ctx context.Context, res ports.EventReservation, events ...event.Event) error {
	return o.publishWith(ctx, res.Publish, events)
}

// publish hands events to the bus. The state change is already persisted
// when this runs; a failure means subscribers will not see it, which the
// caller learns through domain.ErrUnavailable.
func (o *Orchestrator) publish(ctx context.Context, events ...event.Event) error {
	return o.publishWith(ctx, o.events.Publish, events)
}

func (o *Orchestrator) publishWith(ctx context.Context, send func(context.Context, ...event.Event) error, events []event.Event) error {
	if err := send(ctx, events...); err != nil {
		logging.FromContext(ctx).ErrorContext(ctx, "failed to publish events",
			slog.String("operation", "Orchestrator.publish"),
			slog.String("aggregate_id", events[0].AggregateID),
			slog.Int("count", len(events)),
			slog.Any("error", err),
		)
		return fmt.Errorf("publishing %s: %w: %w", events[0].Type, domain.ErrUnavailable, err)
	}
	return nil
}

// Package audit implements the append-only audit trail: access and mutation
// records for compliance, plus the durable domain event log the event bus
// writes to before dispatching.
package audit

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/jsamuelsen11/salesflow/internal/domain/audit"
	"github.com/jsamuelsen11/salesflow/internal/domain/event"
	"github.com/jsamuelsen11/salesflow/internal/platform/logging"
	"github.com/jsamuelsen11/salesflow/internal/ports"
)

// Compile-time interface check.
var _ ports.AuditRecorder = (*Trail)(nil)

// RequestMeta identifies the client behind a request.
type RequestMeta struct {
	IPAddress string
	UserAgent string
}

type requestMetaKey struct{}

// WithRequestMeta returns a context carrying client metadata. Inbound
// adapters set it once per request; every entry recorded with the context
// picks it up.
func WithRequestMeta(ctx context.Context, meta RequestMeta) context.Context {
	return context.WithValue(ctx, requestMetaKey{}, meta)
}

// RequestMetaFrom returns the metadata stored by WithRequestMeta.
func RequestMetaFrom(ctx context.Context) RequestMeta {
	meta, _ := ctx.Value(requestMetaKey{}).(RequestMeta)
	return meta
}

// Trail records audit entries and domain events. Entries are never updated
// or deleted through it.
type Trail struct {
	entries ports.AuditStore
	events  ports.EventStore
	now     func() time.Time
}

// Option configures a Trail.
type Option func(*Trail)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(t *Trail) { t.now = now }
}

// New creates a Trail over the given stores.
func New(entries ports.AuditStore, events ports.EventStore, opts ...Option) *Trail {
	t := &Trail{entries: entries, events: events, now: time.Now}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Record stamps the entry with an ID, creation time and request metadata,
// then appends it.
func (t *Trail) Record(ctx context.Context, entry *audit.Entry) error {
	entry.ID = uuid.NewString()
	entry.CreatedAt = t.now().UTC()

	meta := RequestMetaFrom(ctx)
	if entry.IPAddress == "" {
		entry.IPAddress = meta.IPAddress
	}
	if entry.UserAgent == "" {
		entry.UserAgent = meta.UserAgent
	}

	if err := t.entries.Append(ctx, entry); err != nil {
		logging.FromContext(ctx).ErrorContext(ctx, "failed to record audit entry",
			slog.String("operation", "Trail.Record"),
			slog.String("action", string(entry.Action)),
			slog.String("resource_type", entry.ResourceType),
			slog.String("resource_id", entry.ResourceID),
			slog.Any("error", err),
		)
		return fmt.Errorf("appending audit entry: %w", err)
	}
	return nil
}

// RecordDenied records an ACCESS_DENIED entry for the attempted operation.
func (t *Trail) RecordDenied(ctx context.Context, actorID, operation, resourceType, resourceID string) error {
	return t.Record(ctx, &audit.Entry{
		ActorID:      actorID,
		Action:       audit.ActionAccessDenied,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Details:      map[string]any{"operation": operation},
	})
}

// AppendEvents durably appends a batch of domain events.
func (t *Trail) AppendEvents(ctx context.Context, events ...event.Event) error {
	if len(events) == 0 {
		return nil
	}
	if err := t.events.Append(ctx, events...); err != nil {
		return fmt.Errorf("appending %d events: %w", len(events), err)
	}
	return nil
}

// Events returns the durable events of one aggregate in append order, or all
// events when aggregateID is empty.
func (t *Trail) Events(ctx context.Context, aggregateID string) ([]event.Event, error) {
	events, err := t.events.List(ctx, aggregateID)
	if err != nil {
		return nil, fmt.Errorf("listing events: %w", err)
	}
	return events, nil
}

// Entries returns audit entries matching filter in append order.
func (t *Trail) Entries(ctx context.Context, filter audit.Filter) ([]audit.Entry, error) {
	entries, err := t.entries.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("listing audit entries: %w", err)
	}
	return entries, nil
}

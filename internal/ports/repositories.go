package ports

import (
	"context"
	"time"

	"github.com/jsamuelsen11/salesflow/internal/domain/account"
	"github.com/jsamuelsen11/salesflow/internal/domain/actor"
	"github.com/jsamuelsen11/salesflow/internal/domain/audit"
	"github.com/jsamuelsen11/salesflow/internal/domain/contact"
	"github.com/jsamuelsen11/salesflow/internal/domain/event"
	"github.com/jsamuelsen11/salesflow/internal/domain/lead"
	"github.com/jsamuelsen11/salesflow/internal/domain/opportunity"
	"github.com/jsamuelsen11/salesflow/internal/domain/project"
)

// All repositories share the same write contract:
//
//   - Create stores a new aggregate with Version 1. An existing ID returns
//     domain.ErrConflict.
//   - Update succeeds only if the stored Version equals the given Version. On
//     success both the stored copy and the argument carry Version+1. A stale
//     Version returns domain.ErrConflict.
//   - Get and Delete return domain.ErrNotFound for unknown IDs.
//
// Returned aggregates are copies; mutating them never affects stored state.

// ActorRepository persists the actor directory.
type ActorRepository interface {
	Get(ctx context.Context, id string) (*actor.Actor, error)

	// List returns actors matching filter, ordered by ID.
	List(ctx context.Context, filter actor.Filter) ([]actor.Actor, error)

	Create(ctx context.Context, a *actor.Actor) error
	Update(ctx context.Context, a *actor.Actor) error

	// StampAssignment sets LastAssignedAt to at, but only if the stored value
	// still equals prev (nil meaning never assigned). Otherwise it returns
	// domain.ErrConflict and changes nothing.
	StampAssignment(ctx context.Context, id string, prev *time.Time, at time.Time) error
}

// LeadRepository persists leads. Archived leads are still returned by Get.
type LeadRepository interface {
	Get(ctx context.Context, id string) (*lead.Lead, error)
	Create(ctx context.Context, l *lead.Lead) error
	Update(ctx context.Context, l *lead.Lead) error
}

// AccountRepository persists accounts. Delete exists for compensating a
// failed conversion and is not exposed as a business operation.
type AccountRepository interface {
	Get(ctx context.Context, id string) (*account.Account, error)
	Create(ctx context.Context, a *account.Account) error
	Update(ctx context.Context, a *account.Account) error
	Delete(ctx context.Context, id string) error
}

// ContactRepository persists contacts. Creating or updating a second primary
// contact for the same account returns domain.ErrConflict.
type ContactRepository interface {
	Get(ctx context.Context, id string) (*contact.Contact, error)
	ListByAccount(ctx context.Context, accountID string) ([]contact.Contact, error)
	Create(ctx context.Context, c *contact.Contact) error
	Update(ctx context.Context, c *contact.Contact) error
	Delete(ctx context.Context, id string) error
}

// OpportunityRepository persists opportunities.
type OpportunityRepository interface {
	Get(ctx context.Context, id string) (*opportunity.Opportunity, error)
	ListByAccount(ctx context.Context, accountID string) ([]opportunity.Opportunity, error)
	Create(ctx context.Context, o *opportunity.Opportunity) error
	Update(ctx context.Context, o *opportunity.Opportunity) error
}

// ProjectRepository persists projects together with their phases.
type ProjectRepository interface {
	Get(ctx context.Context, id string) (*project.Project, error)

	// ListByOpportunity returns projects spawned from the given opportunity.
	ListByOpportunity(ctx context.Context, opportunityID string) ([]project.Project, error)

	Create(ctx context.Context, p *project.Project) error
	Update(ctx context.Context, p *project.Project) error
	Delete(ctx context.Context, id string) error
}

// EventStore is the durable, append-only domain event log.
type EventStore interface {
	// Append writes all events or none.
	Append(ctx context.Context, events ...event.Event) error

	// List returns events for an aggregate in append order. An empty
	// aggregateID lists every event.
	List(ctx context.Context, aggregateID string) ([]event.Event, error)
}

// AuditStore is the append-only audit log.
type AuditStore interface {
	Append(ctx context.Context, entry *audit.Entry) error

	// List returns entries matching filter in append order.
	List(ctx context.Context, filter audit.Filter) ([]audit.Entry, error)
}

package ports

import (
	"context"

	"github.com/jsamuelsen11/salesflow/internal/domain/account"
	"github.com/jsamuelsen11/salesflow/internal/domain/actor"
	"github.com/jsamuelsen11/salesflow/internal/domain/audit"
	"github.com/jsamuelsen11/salesflow/internal/domain/contact"
	"github.com/jsamuelsen11/salesflow/internal/domain/event"
	"github.com/jsamuelsen11/salesflow/internal/domain/lead"
	"github.com/jsamuelsen11/salesflow/internal/domain/opportunity"
)

// Authorizer decides whether an actor may act on a resource owned by ownerID.
// Implemented by the authorization resolver; called by the workflow.
type Authorizer interface {
	// HasAccess is true for admins, for the owner itself and for any actor
	// the owner reports to, directly or transitively. It fails closed.
	HasAccess(ctx context.Context, a *actor.Actor, ownerID string) bool

	// Authorize returns domain.ErrForbidden when HasAccess is false and
	// records the denial in the audit trail.
	Authorize(ctx context.Context, a *actor.Actor, ownerID, operation, resourceType, resourceID string) error
}

// Directory exposes the actor hierarchy to inbound adapters.
type Directory interface {
	// Lookup returns the actor with the given ID.
	// Returns domain.ErrNotFound if the actor does not exist.
	Lookup(ctx context.Context, id string) (*actor.Actor, error)

	// Reports returns the IDs of every direct and indirect subordinate.
	Reports(ctx context.Context, actorID string) (map[string]struct{}, error)

	// SetManager links actorID under managerID, or clears the link when
	// managerID is empty, and audits the change as by (nil for the
	// boot-time seed). Returns domain.ErrCycle if the link would close a
	// loop in the hierarchy.
	SetManager(ctx context.Context, by *actor.Actor, actorID, managerID string) error
}

// Assigner picks the owner for newly created leads.
type Assigner interface {
	// AssignNextRep returns the least recently assigned active sales rep, an
	// active admin when no rep exists, or "" when nobody can take the lead.
	AssignNextRep(ctx context.Context) (string, error)
}

// EventHandler reacts to a published domain event.
type EventHandler func(ctx context.Context, e event.Event) error

// EventPublisher durably records events and hands them to subscribers.
type EventPublisher interface {
	// Publish returns once the batch is durably appended. Handlers run later.
	Publish(ctx context.Context, events ...event.Event) error

	// Reserve claims queue space for up to n events, waiting for
	// backpressure to clear. Callers that publish while holding a lock
	// reserve before taking it.
	Reserve(ctx context.Context, n int) (EventReservation, error)
}

// EventReservation is queue space claimed by EventPublisher.Reserve.
type EventReservation interface {
	// Publish behaves like EventPublisher.Publish without waiting for
	// space. It may be called once, with at most the reserved number of
	// events; unused space is returned.
	Publish(ctx context.Context, events ...event.Event) error

	// Cancel returns the space if Publish was not called. It is a no-op
	// afterwards.
	Cancel()
}

// AuditRecorder writes audit entries and the durable event log.
type AuditRecorder interface {
	Record(ctx context.Context, entry *audit.Entry) error
	RecordDenied(ctx context.Context, actorID, operation, resourceType, resourceID string) error
	AppendEvents(ctx context.Context, events ...event.Event) error
}

// ConversionResult holds the records created by converting a lead.
type ConversionResult struct {
	Lead    *lead.Lead
	Account *account.Account
	Contact *contact.Contact
}

// WorkflowService defines the service port for the sales workflow.
// Implemented by the workflow orchestrator; called by inbound adapters.
// Every operation authorizes the acting actor before touching state.
type WorkflowService interface {
	// CreateLead validates and stores a new lead. When OwnerID is empty the
	// lead is assigned through the round-robin assigner.
	CreateLead(ctx context.Context, a *actor.Actor, l *lead.Lead) (*lead.Lead, error)

	// QualifyLead marks a lead QUALIFIED with the given rating.
	// Returns domain.ErrAlreadyConverted for converted leads and
	// domain.ErrInvalidTransition for unqualified, lost or archived ones.
	QualifyLead(ctx context.Context, a *actor.Actor, leadID string, rating lead.Rating) (*lead.Lead, error)

	// UpdateLeadStatus moves a lead to CONTACTED, UNQUALIFIED or LOST.
	UpdateLeadStatus(ctx context.Context, a *actor.Actor, leadID string, status lead.Status) (*lead.Lead, error)

	// ArchiveLead soft-deletes a lead.
	ArchiveLead(ctx context.Context, a *actor.Actor, leadID string) error

	// ConvertLead creates an account and a primary contact from the lead and
	// marks it CONVERTED. Either all three writes persist or none do.
	ConvertLead(ctx context.Context, a *actor.Actor, leadID string) (*ConversionResult, error)

	// CreateOpportunity opens an opportunity on an existing account.
	CreateOpportunity(ctx context.Context, a *actor.Actor, o *opportunity.Opportunity) (*opportunity.Opportunity, error)

	// AdvanceStage moves an opportunity to the named stage.
	// Returns domain.ErrInvalidStage for unknown stage names.
	AdvanceStage(ctx context.Context, a *actor.Actor, opportunityID, stage string) (*opportunity.Opportunity, error)
}

// Package memory implements the repository ports with in-process document
// tables. It backs the local profile and the application tests.
package memory

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/jsamuelsen11/salesflow/internal/domain"
	"github.com/jsamuelsen11/salesflow/internal/domain/account"
	"github.com/jsamuelsen11/salesflow/internal/domain/actor"
	"github.com/jsamuelsen11/salesflow/internal/domain/audit"
	"github.com/jsamuelsen11/salesflow/internal/domain/contact"
	"github.com/jsamuelsen11/salesflow/internal/domain/event"
	"github.com/jsamuelsen11/salesflow/internal/domain/lead"
	"github.com/jsamuelsen11/salesflow/internal/domain/opportunity"
	"github.com/jsamuelsen11/salesflow/internal/domain/project"
	"github.com/jsamuelsen11/salesflow/internal/ports"
)

// Compile-time interface checks.
var (
	_ ports.ActorRepository       = (*ActorRepository)(nil)
	_ ports.LeadRepository        = (*LeadRepository)(nil)
	_ ports.AccountRepository     = (*AccountRepository)(nil)
	_ ports.ContactRepository     = (*ContactRepository)(nil)
	_ ports.OpportunityRepository = (*OpportunityRepository)(nil)
	_ ports.ProjectRepository     = (*ProjectRepository)(nil)
	_ ports.EventStore            = (*EventLog)(nil)
	_ ports.AuditStore            = (*AuditLog)(nil)
)

// Store groups every in-memory repository.
type Store struct {
	Actors        *ActorRepository
	Leads         *LeadRepository
	Accounts      *AccountRepository
	Contacts      *ContactRepository
	Opportunities *OpportunityRepository
	Projects      *ProjectRepository
	Events        *EventLog
	Audit         *AuditLog
}

// New creates an empty store.
func New() *Store {
	return &Store{
		Actors:        &ActorRepository{t: newTable("actor", func(a *actor.Actor) string { return a.ID }, func(a *actor.Actor) *int { return &a.Version }, cloneActor)},
		Leads:         &LeadRepository{t: newTable("lead", func(l *lead.Lead) string { return l.ID }, func(l *lead.Lead) *int { return &l.Version }, cloneLead)},
		Accounts:      &AccountRepository{t: newTable("account", func(a *account.Account) string { return a.ID }, func(a *account.Account) *int { return &a.Version }, cloneValue[account.Account])},
		Contacts:      newContactRepository(),
		Opportunities: &OpportunityRepository{t: newTable("opportunity", func(o *opportunity.Opportunity) string { return o.ID }, func(o *opportunity.Opportunity) *int { return &o.Version }, cloneOpportunity)},
		Projects:      &ProjectRepository{t: newTable("project", func(p *project.Project) string { return p.ID }, func(p *project.Project) *int { return &p.Version }, cloneProject)},
		Events:        &EventLog{},
		Audit:         &AuditLog{},
	}
}

// --- actors ---

// ActorRepository is the in-memory actor directory.
type ActorRepository struct {
	t *table[actor.Actor]
}

func (r *ActorRepository) Get(_ context.Context, id string) (*actor.Actor, error) {
	return r.t.get(id)
}

func (r *ActorRepository) List(_ context.Context, filter actor.Filter) ([]actor.Actor, error) {
	return r.t.list(filter.Matches), nil
}

func (r *ActorRepository) Create(_ context.Context, a *actor.Actor) error {
	return r.t.insert(a)
}

func (r *ActorRepository) Update(_ context.Context, a *actor.Actor) error {
	return r.t.update(a)
}

func (r *ActorRepository) StampAssignment(_ context.Context, id string, prev *time.Time, at time.Time) error {
	return r.t.mutate(id, func(a *actor.Actor) error {
		if !sameInstant(a.LastAssignedAt, prev) {
			return fmt.Errorf("actor %q assignment moved: %w", id, domain.ErrConflict)
		}
		a.LastAssignedAt = &at
		a.UpdatedAt = at
		return nil
	})
}

func sameInstant(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}

// --- leads ---

// LeadRepository is the in-memory lead collection.
type LeadRepository struct {
	t *table[lead.Lead]
}

func (r *LeadRepository) Get(_ context.Context, id string) (*lead.Lead, error) {
	return r.t.get(id)
}

func (r *LeadRepository) Create(_ context.Context, l *lead.Lead) error {
	return r.t.insert(l)
}

func (r *LeadRepository) Update(_ context.Context, l *lead.Lead) error {
	return r.t.update(l)
}

// --- accounts ---

// AccountRepository is the in-memory account collection.
type AccountRepository struct {
	t *table[account.Account]
}

func (r *AccountRepository) Get(_ context.Context, id string) (*account.Account, error) {
	return r.t.get(id)
}

func (r *AccountRepository) Create(_ context.Context, a *account.Account) error {
	return r.t.insert(a)
}

func (r *AccountRepository) Update(_ context.Context, a *account.Account) error {
	return r.t.update(a)
}

func (r *AccountRepository) Delete(_ context.Context, id string) error {
	return r.t.remove(id)
}

// --- contacts ---

// ContactRepository is the in-memory contact collection. At most one primary
// contact exists per account.
type ContactRepository struct {
	t *table[contact.Contact]
}

func newContactRepository() *ContactRepository {
	t := newTable("contact", func(c *contact.Contact) string { return c.ID }, func(c *contact.Contact) *int { return &c.Version }, cloneValue[contact.Contact])
	t.guard = func(rows map[string]*contact.Contact, c *contact.Contact) error {
		if !c.IsPrimary {
			return nil
		}
		for _, other := range rows {
			if other.ID != c.ID && other.AccountID == c.AccountID && other.IsPrimary {
				return fmt.Errorf("account %q already has primary contact %q: %w", c.AccountID, other.ID, domain.ErrConflict)
			}
		}
		return nil
	}
	return &ContactRepository{t: t}
}

func (r *ContactRepository) Get(_ context.Context, id string) (*contact.Contact, error) {
	return r.t.get(id)
}

func (r *ContactRepository) ListByAccount(_ context.Context, accountID string) ([]contact.Contact, error) {
	return r.t.list(func(c *contact.Contact) bool { return c.AccountID == accountID }), nil
}

func (r *ContactRepository) Create(_ context.Context, c *contact.Contact) error {
	return r.t.insert(c)
}

func (r *ContactRepository) Update(_ context.Context, c *contact.Contact) error {
	return r.t.update(c)
}

func (r *ContactRepository) Delete(_ context.Context, id string) error {
	return r.t.remove(id)
}

// --- opportunities ---

// OpportunityRepository is the in-memory opportunity collection.
type OpportunityRepository struct {
	t *table[opportunity.Opportunity]
}

func (r *OpportunityRepository) Get(_ context.Context, id string) (*opportunity.Opportunity, error) {
	return r.t.get(id)
}

func (r *OpportunityRepository) ListByAccount(_ context.Context, accountID string) ([]opportunity.Opportunity, error) {
	return r.t.list(func(o *opportunity.Opportunity) bool { return o.AccountID == accountID }), nil
}

func (r *OpportunityRepository) Create(_ context.Context, o *opportunity.Opportunity) error {
	return r.t.insert(o)
}

func (r *OpportunityRepository) Update(_ context.Context, o *opportunity.Opportunity) error {
	return r.t.update(o)
}

// --- projects ---

// ProjectRepository is the in-memory project collection.
type ProjectRepository struct {
	t *table[project.Project]
}

func (r *ProjectRepository) Get(_ context.Context, id string) (*project.Project, error) {
	return r.t.get(id)
}

func (r *ProjectRepository) ListByOpportunity(_ context.Context, opportunityID string) ([]project.Project, error) {
	return r.t.list(func(p *project.Project) bool { return p.OpportunityID == opportunityID }), nil
}

func (r *ProjectRepository) Create(_ context.Context, p *project.Project) error {
	return r.t.insert(p)
}

func (r *ProjectRepository) Update(_ context.Context, p *project.Project) error {
	return r.t.update(p)
}

func (r *ProjectRepository) Delete(_ context.Context, id string) error {
	return r.t.remove(id)
}

// --- logs ---

// EventLog is the in-memory durable event log.
type EventLog struct {
	mu     sync.RWMutex
	events []event.Event
}

func (l *EventLog) Append(_ context.Context, events ...event.Event) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, e := range events {
		e.Payload = maps.Clone(e.Payload)
		l.events = append(l.events, e)
	}
	return nil
}

func (l *EventLog) List(_ context.Context, aggregateID string) ([]event.Event, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]event.Event, 0, len(l.events))
	for _, e := range l.events {
		if aggregateID == "" || e.AggregateID == aggregateID {
			e.Payload = maps.Clone(e.Payload)
			out = append(out, e)
		}
	}
	return out, nil
}

// AuditLog is the in-memory audit log.
type AuditLog struct {
	mu      sync.RWMutex
	entries []audit.Entry
}

func (l *AuditLog) Append(_ context.Context, entry *audit.Entry) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	e := *entry
	e.Details = maps.Clone(entry.Details)
	l.entries = append(l.entries, e)
	return nil
}

func (l *AuditLog) List(_ context.Context, filter audit.Filter) ([]audit.Entry, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]audit.Entry, 0, len(l.entries))
	for i := range l.entries {
		if filter.Matches(&l.entries[i]) {
			e := l.entries[i]
			e.Details = maps.Clone(e.Details)
			out = append(out, e)
		}
	}
	return out, nil
}

// --- cloning ---

func cloneValue[T any](v *T) *T {
	c := *v
	return &c
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

func cloneActor(a *actor.Actor) *actor.Actor {
	c := *a
	c.LastAssignedAt = cloneTime(a.LastAssignedAt)
	return &c
}

func cloneLead(l *lead.Lead) *lead.Lead {
	c := *l
	c.LastContactDate = cloneTime(l.LastContactDate)
	return &c
}

func cloneOpportunity(o *opportunity.Opportunity) *opportunity.Opportunity {
	c := *o
	c.ClosedDate = cloneTime(o.ClosedDate)
	return &c
}

func cloneProject(p *project.Project) *project.Project {
	c := *p
	c.Phases = slices.Clone(p.Phases)
	return &c
}

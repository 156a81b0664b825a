// Package postgres implements the repository ports on PostgreSQL through
// lib/pq. Aggregates are JSONB documents with a version column for
// optimistic concurrency; domain events and audit entries live in
// append-only tables.
package postgres

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq" // registers the "postgres" driver

	"github.com/jsamuelsen11/salesflow/internal/domain"
	"github.com/jsamuelsen11/salesflow/internal/domain/account"
	"github.com/jsamuelsen11/salesflow/internal/domain/actor"
	"github.com/jsamuelsen11/salesflow/internal/domain/contact"
	"github.com/jsamuelsen11/salesflow/internal/domain/lead"
	"github.com/jsamuelsen11/salesflow/internal/domain/opportunity"
	"github.com/jsamuelsen11/salesflow/internal/domain/project"
	"github.com/jsamuelsen11/salesflow/internal/platform/config"
	"github.com/jsamuelsen11/salesflow/internal/ports"
)

//go:embed schema.sql
var schema string

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
	_ ports.HealthChecker         = (*Store)(nil)
)

// Store groups every PostgreSQL repository over one connection pool.
type Store struct {
	db *sql.DB

	Actors        *ActorRepository
	Leads         *LeadRepository
	Accounts      *AccountRepository
	Contacts      *ContactRepository
	Opportunities *OpportunityRepository
	Projects      *ProjectRepository
	Events        *EventLog
	Audit         *AuditLog
}

// pingTimeout bounds the connectivity check in Open.
const pingTimeout = 5 * time.Second

// Open connects using cfg, verifies the connection and applies the schema.
func Open(ctx context.Context, cfg *config.StoreConfig) (*Store, error) {
	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("opening postgres: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}

	s := New(db)
	if err := s.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// New wraps an existing pool. The schema is not applied.
func New(db *sql.DB) *Store {
	return &Store{
		db: db,
		Actors: &ActorRepository{docs: documents[actor.Actor]{
			db: db, kind: "actor",
			id:      func(a *actor.Actor) string { return a.ID },
			version: func(a *actor.Actor) *int { return &a.Version },
		}},
		Leads: &LeadRepository{docs: documents[lead.Lead]{
			db: db, kind: "lead",
			id:      func(l *lead.Lead) string { return l.ID },
			version: func(l *lead.Lead) *int { return &l.Version },
		}},
		Accounts: &AccountRepository{docs: documents[account.Account]{
			db: db, kind: "account",
			id:      func(a *account.Account) string { return a.ID },
			version: func(a *account.Account) *int { return &a.Version },
		}},
		Contacts: &ContactRepository{docs: documents[contact.Contact]{
			db: db, kind: "contact",
			id:      func(c *contact.Contact) string { return c.ID },
			version: func(c *contact.Contact) *int { return &c.Version },
		}},
		Opportunities: &OpportunityRepository{docs: documents[opportunity.Opportunity]{
			db: db, kind: "opportunity",
			id:      func(o *opportunity.Opportunity) string { return o.ID },
			version: func(o *opportunity.Opportunity) *int { return &o.Version },
		}},
		Projects: &ProjectRepository{docs: documents[project.Project]{
			db: db, kind: "project",
			id:      func(p *project.Project) string { return p.ID },
			version: func(p *project.Project) *int { return &p.Version },
		}},
		Events: &EventLog{db: db},
		Audit:  &AuditLog{db: db},
	}
}

// Migrate applies the embedded schema. It is idempotent.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("applying schema: %w", err)
	}
	return nil
}

// Close releases the connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// Name returns the health check identifier.
func (s *Store) Name() string {
	return "postgres"
}

// HealthCheck pings the database.
func (s *Store) HealthCheck(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("postgres: %w", err)
	}
	return nil
}

// ActorRepository stores actors.
type ActorRepository struct {
	docs documents[actor.Actor]
}

func (r *ActorRepository) Get(ctx context.Context, id string) (*actor.Actor, error) {
	return r.docs.get(ctx, id)
}

// List loads every actor and applies filter in process. The actor table is
// small and the filter combines optional fields.
func (r *ActorRepository) List(ctx context.Context, filter actor.Filter) ([]actor.Actor, error) {
	all, err := r.docs.listBy(ctx, "", "")
	if err != nil {
		return nil, err
	}
	out := all[:0]
	for i := range all {
		if filter.Matches(&all[i]) {
			out = append(out, all[i])
		}
	}
	return out, nil
}

func (r *ActorRepository) Create(ctx context.Context, a *actor.Actor) error {
	return r.docs.insert(ctx, a)
}

func (r *ActorRepository) Update(ctx context.Context, a *actor.Actor) error {
	return r.docs.update(ctx, a)
}

// StampAssignment locks the actor row, compares LastAssignedAt with prev and
// writes at when they match.
func (r *ActorRepository) StampAssignment(ctx context.Context, id string, prev *time.Time, at time.Time) (err error) {
	tx, err := r.docs.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning assignment stamp: %w", err)
	}
	defer func() {
		if err != nil {
			err = errors.Join(err, ignoreDone(tx.Rollback()))
		}
	}()

	a, err := r.docs.getWith(ctx, tx, id, true)
	if err != nil {
		return err
	}
	if !sameInstant(a.LastAssignedAt, prev) {
		return fmt.Errorf("actor %q assignment moved: %w", id, domain.ErrConflict)
	}

	a.LastAssignedAt = &at
	a.UpdatedAt = at
	if err := r.docs.updateWith(ctx, tx, a); err != nil {
		return err
	}
	return tx.Commit()
}

func ignoreDone(err error) error {
	if errors.Is(err, sql.ErrTxDone) {
		return nil
	}
	return err
}

func sameInstant(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}

// LeadRepository stores leads.
type LeadRepository struct {
	docs documents[lead.Lead]
}

func (r *LeadRepository) Get(ctx context.Context, id string) (*lead.Lead, error) {
	return r.docs.get(ctx, id)
}

func (r *LeadRepository) Create(ctx context.Context, l *lead.Lead) error {
	return r.docs.insert(ctx, l)
}

func (r *LeadRepository) Update(ctx context.Context, l *lead.Lead) error {
	return r.docs.update(ctx, l)
}

// AccountRepository stores accounts.
type AccountRepository struct {
	docs documents[account.Account]
}

func (r *AccountRepository) Get(ctx context.Context, id string) (*account.Account, error) {
	return r.docs.get(ctx, id)
}

func (r *AccountRepository) Create(ctx context.Context, a *account.Account) error {
	return r.docs.insert(ctx, a)
}

func (r *AccountRepository) Update(ctx context.Context, a *account.Account) error {
	return r.docs.update(ctx, a)
}

func (r *AccountRepository) Delete(ctx context.Context, id string) error {
	return r.docs.remove(ctx, id)
}

// ContactRepository stores contacts. A partial unique index rejects a second
// primary contact for the same account with domain.ErrConflict.
type ContactRepository struct {
	docs documents[contact.Contact]
}

func (r *ContactRepository) Get(ctx context.Context, id string) (*contact.Contact, error) {
	return r.docs.get(ctx, id)
}

func (r *ContactRepository) ListByAccount(ctx context.Context, accountID string) ([]contact.Contact, error) {
	return r.docs.listBy(ctx, "AccountID", accountID)
}

func (r *ContactRepository) Create(ctx context.Context, c *contact.Contact) error {
	return r.docs.insert(ctx, c)
}

func (r *ContactRepository) Update(ctx context.Context, c *contact.Contact) error {
	return r.docs.update(ctx, c)
}

func (r *ContactRepository) Delete(ctx context.Context, id string) error {
	return r.docs.remove(ctx, id)
}

// OpportunityRepository stores opportunities.
type OpportunityRepository struct {
	docs documents[opportunity.Opportunity]
}

func (r *OpportunityRepository) Get(ctx context.Context, id string) (*opportunity.Opportunity, error) {
	return r.docs.get(ctx, id)
}

func (r *OpportunityRepository) ListByAccount(ctx context.Context, accountID string) ([]opportunity.Opportunity, error) {
	return r.docs.listBy(ctx, "AccountID", accountID)
}

func (r *OpportunityRepository) Create(ctx context.Context, o *opportunity.Opportunity) error {
	return r.docs.insert(ctx, o)
}

func (r *OpportunityRepository) Update(ctx context.Context, o *opportunity.Opportunity) error {
	return r.docs.update(ctx, o)
}

// ProjectRepository stores projects.
type ProjectRepository struct {
	docs documents[project.Project]
}

func (r *ProjectRepository) Get(ctx context.Context, id string) (*project.Project, error) {
	return r.docs.get(ctx, id)
}

func (r *ProjectRepository) ListByOpportunity(ctx context.Context, opportunityID string) ([]project.Project, error) {
	return r.docs.listBy(ctx, "OpportunityID", opportunityID)
}

func (r *ProjectRepository) Create(ctx context.Context, p *project.Project) error {
	return r.docs.insert(ctx, p)
}

func (r *ProjectRepository) Update(ctx context.Context, p *project.Project) error {
	return r.docs.update(ctx, p)
}

func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	return r.docs.remove(ctx, id)
}

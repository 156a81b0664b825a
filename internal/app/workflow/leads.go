package workflow

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/jsamuelsen11/salesflow/internal/app/uow"
	"github.com/jsamuelsen11/salesflow/internal/domain"
	"github.com/jsamuelsen11/salesflow/internal/domain/account"
	"github.com/jsamuelsen11/salesflow/internal/domain/actor"
	"github.com/jsamuelsen11/salesflow/internal/domain/audit"
	"github.com/jsamuelsen11/salesflow/internal/domain/contact"
	"github.com/jsamuelsen11/salesflow/internal/domain/event"
	"github.com/jsamuelsen11/salesflow/internal/domain/lead"
	"github.com/jsamuelsen11/salesflow/internal/platform/logging"
	"github.com/jsamuelsen11/salesflow/internal/ports"
)

const resourceLead = "Lead"

func leadKey(id string) string { return "lead:" + id }

// CreateLead stores a new lead in status NEW. An explicit owner must be
// someone the actor may act for; an empty owner is filled by round-robin
// assignment and stays empty when nobody can take the lead.
func (o *Orchestrator) CreateLead(ctx context.Context, a *actor.Actor, l *lead.Lead) (_ *lead.Lead, err error) {
	ctx, span := o.startSpan(ctx, "CreateLead")
	defer func() { endSpan(span, err) }()

	if a == nil {
		return nil, domain.ErrForbidden
	}
	if l == nil {
		return nil, domain.NewValidationError("lead", domain.MsgRequired)
	}

	created := *l
	if created.ID == "" {
		created.ID = uuid.NewString()
	}
	if created.Status == "" {
		created.Status = lead.StatusNew
	}
	if created.Status != lead.StatusNew {
		return nil, domain.NewValidationError("status", fmt.Sprintf("new leads start in %s", lead.StatusNew))
	}
	created.ConvertedAccountID = ""
	created.Deleted = false
	if err := created.Validate(); err != nil {
		return nil, err
	}

	if created.OwnerID != "" {
		if err := o.authz.Authorize(ctx, a, created.OwnerID, "CreateLead", resourceLead, created.ID); err != nil {
			return nil, err
		}
	} else {
		owner, err := o.assigner.AssignNextRep(ctx)
		if err != nil {
			return nil, fmt.Errorf("assigning lead owner: %w", err)
		}
		created.OwnerID = owner
	}

	now := o.clock()
	created.CreatedAt = now
	created.UpdatedAt = now

	if err := o.repos.Leads.Create(ctx, &created); err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("lead.id", created.ID))

	logging.FromContext(ctx).InfoContext(ctx, "lead created",
		slog.String("lead_id", created.ID),
		slog.String("owner_id", created.OwnerID),
	)
	o.record(ctx, a.ID, audit.ActionCreate, resourceLead, created.ID, map[string]any{
		"ownerId": created.OwnerID,
		"source":  created.Source,
	})

	ev := event.New(event.LeadCreated, created.ID, event.AggregateLead, map[string]any{
		event.KeyOwnerID: created.OwnerID,
	}, now)
	if err := o.publish(ctx, ev); err != nil {
		return nil, err
	}
	return &created, nil
}

// loadLeadFor fetches a lead and authorizes the actor against its owner.
func (o *Orchestrator) loadLeadFor(ctx context.Context, a *actor.Actor, id, operation string) (*lead.Lead, error) {
	l, err := o.repos.Leads.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := o.authz.Authorize(ctx, a, l.OwnerID, operation, resourceLead, id); err != nil {
		return nil, err
	}
	return l, nil
}

// QualifyLead implements ports.WorkflowService.
func (o *Orchestrator) QualifyLead(ctx context.Context, a *actor.Actor, leadID string, rating lead.Rating) (_ *lead.Lead, err error) {
	ctx, span := o.startSpan(ctx, "QualifyLead", attribute.String("lead.id", leadID))
	defer func() { endSpan(span, err) }()

	unlock := o.locks.Lock(leadKey(leadID))
	defer unlock()

	l, err := o.loadLeadFor(ctx, a, leadID, "QualifyLead")
	if err != nil {
		return nil, err
	}

	previous := l.Status
	now := o.clock()
	if err := l.Qualify(rating, now); err != nil {
		return nil, err
	}
	if err := o.repos.Leads.Update(ctx, l); err != nil {
		return nil, err
	}

	o.record(ctx, a.ID, audit.ActionUpdate, resourceLead, l.ID, map[string]any{
		"previousStatus": string(previous),
		"status":         string(l.Status),
		"rating":         string(l.Rating),
	})

	ev := event.New(event.LeadQualified, l.ID, event.AggregateLead, map[string]any{
		event.KeyRating:  string(l.Rating),
		event.KeyOwnerID: l.OwnerID,
	}, now)
	if err := o.publish(ctx, ev); err != nil {
		return nil, err
	}
	return l, nil
}

// UpdateLeadStatus implements ports.WorkflowService.
func (o *Orchestrator) UpdateLeadStatus(ctx context.Context, a *actor.Actor, leadID string, status lead.Status) (_ *lead.Lead, err error) {
	ctx, span := o.startSpan(ctx, "UpdateLeadStatus",
		attribute.String("lead.id", leadID),
		attribute.String("lead.status", string(status)),
	)
	defer func() { endSpan(span, err) }()

	unlock := o.locks.Lock(leadKey(leadID))
	defer unlock()

	l, err := o.loadLeadFor(ctx, a, leadID, "UpdateLeadStatus")
	if err != nil {
		return nil, err
	}

	previous := l.Status
	now := o.clock()
	if err := l.Transition(status, now); err != nil {
		return nil, err
	}
	if err := o.repos.Leads.Update(ctx, l); err != nil {
		return nil, err
	}

	o.record(ctx, a.ID, audit.ActionUpdate, resourceLead, l.ID, map[string]any{
		"previousStatus": string(previous),
		"status":         string(l.Status),
	})

	ev := event.New(event.LeadStatusChanged, l.ID, event.AggregateLead, map[string]any{
		event.KeyStatus:         string(l.Status),
		event.KeyPreviousStatus: string(previous),
	}, now)
	if err := o.publish(ctx, ev); err != nil {
		return nil, err
	}
	return l, nil
}

// ArchiveLead implements ports.WorkflowService.
func (o *Orchestrator) ArchiveLead(ctx context.Context, a *actor.Actor, leadID string) (err error) {
	ctx, span := o.startSpan(ctx, "ArchiveLead", attribute.String("lead.id", leadID))
	defer func() { endSpan(span, err) }()

	unlock := o.locks.Lock(leadKey(leadID))
	defer unlock()

	l, err := o.loadLeadFor(ctx, a, leadID, "ArchiveLead")
	if err != nil {
		return err
	}
	if err := l.Archive(o.clock()); err != nil {
		return err
	}
	if err := o.repos.Leads.Update(ctx, l); err != nil {
		return err
	}

	o.record(ctx, a.ID, audit.ActionDelete, resourceLead, l.ID, nil)
	return nil
}

// ConvertLead implements ports.WorkflowService. The account, the primary
// contact and the lead update commit as one unit of work; if any write fails
// the records created before it are deleted again.
func (o *Orchestrator) ConvertLead(ctx context.Context, a *actor.Actor, leadID string) (_ *ports.ConversionResult, err error) {
	ctx, span := o.startSpan(ctx, "ConvertLead", attribute.String("lead.id", leadID))
	defer func() { endSpan(span, err) }()

	unlock := o.locks.Lock(leadKey(leadID))
	defer unlock()

	l, err := o.loadLeadFor(ctx, a, leadID, "ConvertLead")
	if err != nil {
		return nil, err
	}
	if err := l.CanConvert(); err != nil {
		return nil, err
	}

	now := o.clock()
	owner := l.OwnerID
	if owner == "" {
		owner = a.ID
	}

	acct := &account.Account{
		ID:        uuid.NewString(),
		Name:      l.Company,
		Type:      account.TypeProspect,
		Status:    account.StatusActive,
		OwnerID:   owner,
		Phone:     l.Phone,
		Email:     l.Email,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := acct.Validate(); err != nil {
		return nil, err
	}

	primary := &contact.Contact{
		ID:        uuid.NewString(),
		AccountID: acct.ID,
		FirstName: l.FirstName,
		LastName:  l.LastName,
		Email:     l.Email,
		Phone:     l.Phone,
		IsPrimary: true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := primary.Validate(); err != nil {
		return nil, err
	}

	if err := l.MarkConverted(acct.ID, now); err != nil {
		return nil, err
	}

	unit := uow.New()
	steps := []struct {
		desc     string
		do, undo func(context.Context) error
	}{
		{
			desc: "create account " + acct.ID,
			do:   func(ctx context.Context) error { return o.repos.Accounts.Create(ctx, acct) },
			undo: func(ctx context.Context) error { return o.repos.Accounts.Delete(ctx, acct.ID) },
		},
		{
			desc: "create contact " + primary.ID,
			do:   func(ctx context.Context) error { return o.repos.Contacts.Create(ctx, primary) },
			undo: func(ctx context.Context) error { return o.repos.Contacts.Delete(ctx, primary.ID) },
		},
		{
			desc: "mark lead " + l.ID + " converted",
			do:   func(ctx context.Context) error { return o.repos.Leads.Update(ctx, l) },
		},
	}
	for _, s := range steps {
		if err := unit.Add(uow.Step(s.desc, s.do, s.undo)); err != nil {
			return nil, err
		}
	}
	if err := unit.Commit(ctx); err != nil {
		return nil, fmt.Errorf("converting lead %s: %w", l.ID, err)
	}

	logging.FromContext(ctx).InfoContext(ctx, "lead converted",
		slog.String("lead_id", l.ID),
		slog.String("account_id", acct.ID),
		slog.String("contact_id", primary.ID),
	)
	o.record(ctx, a.ID, audit.ActionCreate, "Account", acct.ID, map[string]any{"leadId": l.ID})
	o.record(ctx, a.ID, audit.ActionCreate, "Contact", primary.ID, map[string]any{"accountId": acct.ID})
	o.record(ctx, a.ID, audit.ActionUpdate, resourceLead, l.ID, map[string]any{
		"status":    string(l.Status),
		"accountId": acct.ID,
	})

	ev := event.New(event.LeadConverted, l.ID, event.AggregateLead, map[string]any{
		event.KeyAccountID: acct.ID,
		event.KeyContactID: primary.ID,
	}, now)
	if err := o.publish(ctx, ev); err != nil {
		return nil, err
	}

	return &ports.ConversionResult{Lead: l, Account: acct, Contact: primary}, nil
}

package workflow

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/jsamuelsen11/salesflow/internal/domain"
	"github.com/jsamuelsen11/salesflow/internal/domain/actor"
	"github.com/jsamuelsen11/salesflow/internal/domain/audit"
	"github.com/jsamuelsen11/salesflow/internal/domain/event"
	"github.com/jsamuelsen11/salesflow/internal/domain/opportunity"
	"github.com/jsamuelsen11/salesflow/internal/platform/logging"
)

const resourceOpportunity = "Opportunity"

func opportunityKey(id string) string { return "opportunity:" + id }

// CreateOpportunity opens an opportunity on an existing account. The actor
// must have access to the account's owner. An empty owner defaults to the
// actor and an empty stage to PROSPECTING; deals cannot be opened closed.
func (o *Orchestrator) CreateOpportunity(ctx context.Context, a *actor.Actor, opp *opportunity.Opportunity) (_ *opportunity.Opportunity, err error) {
	ctx, span := o.startSpan(ctx, "CreateOpportunity")
	defer func() { endSpan(span, err) }()

	if a == nil {
		return nil, domain.ErrForbidden
	}
	if opp == nil {
		return nil, domain.NewValidationError("opportunity", domain.MsgRequired)
	}

	created := *opp
	if created.AccountID == "" {
		return nil, domain.NewValidationError("account_id", domain.MsgRequired)
	}
	acct, err := o.repos.Accounts.Get(ctx, created.AccountID)
	if err != nil {
		return nil, err
	}
	if err := o.authz.Authorize(ctx, a, acct.OwnerID, "CreateOpportunity", "Account", acct.ID); err != nil {
		return nil, err
	}

	if created.ID == "" {
		created.ID = uuid.NewString()
	}
	if created.OwnerID == "" {
		created.OwnerID = a.ID
	}
	if created.Stage == "" {
		created.Stage = opportunity.StageProspecting
	}
	if !created.Stage.IsValid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidStage, created.Stage)
	}
	if created.Stage.IsTerminal() {
		return nil, fmt.Errorf("%w: opportunities open in a non-terminal stage", domain.ErrInvalidTransition)
	}
	created.Probability = created.Stage.Probability()
	created.ClosedDate = nil
	created.ProjectID = ""
	if err := created.Validate(); err != nil {
		return nil, err
	}

	now := o.clock()
	created.CreatedAt = now
	created.UpdatedAt = now

	if err := o.repos.Opportunities.Create(ctx, &created); err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("opportunity.id", created.ID))

	o.record(ctx, a.ID, audit.ActionCreate, resourceOpportunity, created.ID, map[string]any{
		"accountId": created.AccountID,
		"stage":     string(created.Stage),
		"amount":    created.Amount.String(),
	})

	ev := event.New(event.OpportunityCreated, created.ID, event.AggregateOpportunity, map[string]any{
		event.KeyAccountID: created.AccountID,
		event.KeyStage:     string(created.Stage),
		event.KeyAmount:    created.Amount.String(),
	}, now)
	if err := o.publish(ctx, ev); err != nil {
		return nil, err
	}
	return &created, nil
}

// stageEventsMax is the largest batch AdvanceStage publishes: the stage
// change plus OpportunityWon.
const stageEventsMax = 2

// AdvanceStage implements ports.WorkflowService. Any stage may follow any
// other. Closing won publishes OpportunityWon in the same batch as the stage
// change, after it.
//
// Queue space is reserved before the opportunity lock is taken. The won
// cascade takes the same lock on a bus worker, so waiting for space while
// holding it could stall every worker.
func (o *Orchestrator) AdvanceStage(ctx context.Context, a *actor.Actor, opportunityID, stage string) (_ *opportunity.Opportunity, err error) {
	ctx, span := o.startSpan(ctx, "AdvanceStage",
		attribute.String("opportunity.id", opportunityID),
		attribute.String("opportunity.stage", stage),
	)
	defer func() { endSpan(span, err) }()

	res, err := o.reserve(ctx, stageEventsMax)
	if err != nil {
		return nil, err
	}
	defer res.Cancel()

	unlock := o.locks.Lock(opportunityKey(opportunityID))
	defer unlock()

	opp, err := o.repos.Opportunities.Get(ctx, opportunityID)
	if err != nil {
		return nil, err
	}
	if err := o.authz.Authorize(ctx, a, opp.OwnerID, "AdvanceStage", resourceOpportunity, opp.ID); err != nil {
		return nil, err
	}

	next, err := opportunity.ParseStage(stage)
	if err != nil {
		return nil, err
	}

	previous := opp.Stage
	now := o.clock()
	if err := opp.AdvanceTo(next, now); err != nil {
		return nil, err
	}
	if err := o.repos.Opportunities.Update(ctx, opp); err != nil {
		return nil, err
	}

	logging.FromContext(ctx).InfoContext(ctx, "opportunity stage changed",
		slog.String("opportunity_id", opp.ID),
		slog.String("previous_stage", string(previous)),
		slog.String("stage", string(opp.Stage)),
	)
	o.record(ctx, a.ID, audit.ActionUpdate, resourceOpportunity, opp.ID, map[string]any{
		"previousStage": string(previous),
		"stage":         string(opp.Stage),
	})

	events := []event.Event{
		event.New(event.OpportunityStageChanged, opp.ID, event.AggregateOpportunity, map[string]any{
			event.KeyStage:         string(opp.Stage),
			event.KeyPreviousStage: string(previous),
			event.KeyProbability:   opp.Probability,
		}, now),
	}
	if opp.IsWon() {
		events = append(events, event.New(event.OpportunityWon, opp.ID, event.AggregateOpportunity, map[string]any{
			event.KeyAccountID: opp.AccountID,
			event.KeyAmount:    opp.Amount.String(),
			event.KeyActorID:   a.ID,
		}, now))
	}
	if err := o.publishReserved(ctx, res, events...); err != nil {
		return nil, err
	}
	return opp, nil
}

package workflow

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"

	"github.com/jsamuelsen11/salesflow/internal/app/uow"
	"github.com/jsamuelsen11/salesflow/internal/domain/audit"
	"github.com/jsamuelsen11/salesflow/internal/domain/event"
	"github.com/jsamuelsen11/salesflow/internal/domain/project"
	"github.com/jsamuelsen11/salesflow/internal/platform/logging"
	"github.com/jsamuelsen11/salesflow/internal/ports"
)

// Compile-time check that the cascade can be subscribed to the bus.
var _ ports.EventHandler = (*Orchestrator)(nil).OnOpportunityWon

// OnOpportunityWon opens a delivery project for a won opportunity. It is
// subscribed to event.OpportunityWon and is safe to run more than once for
// the same opportunity: a project already linked to it is left alone. An
// opportunity that left CLOSED_WON before the event was handled gets no
// project.
func (o *Orchestrator) OnOpportunityWon(ctx context.Context, e event.Event) (err error) {
	ctx, span := o.startSpan(ctx, "OnOpportunityWon",
		attribute.String("opportunity.id", e.AggregateID),
		attribute.String("event.id", e.ID),
	)
	defer func() { endSpan(span, err) }()

	logger := logging.FromContext(ctx).With(
		slog.String("operation", "OnOpportunityWon"),
		slog.String("opportunity_id", e.AggregateID),
		slog.String("event_id", e.ID),
	)

	unlock := o.locks.Lock(opportunityKey(e.AggregateID))
	defer unlock()

	opp, err := o.repos.Opportunities.Get(ctx, e.AggregateID)
	if err != nil {
		return fmt.Errorf("loading won opportunity: %w", err)
	}
	if opp.ProjectID != "" {
		logger.InfoContext(ctx, "project already linked, skipping",
			slog.String("project_id", opp.ProjectID),
		)
		return nil
	}
	if !opp.IsWon() {
		logger.InfoContext(ctx, "opportunity no longer won, skipping",
			slog.String("stage", string(opp.Stage)),
		)
		return nil
	}

	acct, err := o.repos.Accounts.Get(ctx, opp.AccountID)
	if err != nil {
		return fmt.Errorf("loading account of won opportunity: %w", err)
	}

	owner := e.String(event.KeyActorID)
	if owner == "" {
		owner = opp.OwnerID
	}
	if owner == "" {
		owner = SystemActorID
	}

	budget := opp.Amount
	if _, ok := e.Payload[event.KeyAmount]; ok {
		budget = e.Decimal(event.KeyAmount)
	}

	now := o.clock()
	p := &project.Project{
		ID:            uuid.NewString(),
		Name:          projectName(acct.Name, opp.Name),
		AccountID:     acct.ID,
		OpportunityID: opp.ID,
		OwnerID:       owner,
		Status:        project.StatusPlanning,
		Budget:        budgetOrZero(budget),
		Phases:        project.NewPhases(),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := p.Validate(); err != nil {
		return err
	}

	opp.ProjectID = p.ID
	opp.UpdatedAt = now

	unit := uow.New()
	if err := unit.Add(uow.Step("create project "+p.ID,
		func(ctx context.Context) error { return o.repos.Projects.Create(ctx, p) },
		func(ctx context.Context) error { return o.repos.Projects.Delete(ctx, p.ID) },
	)); err != nil {
		return err
	}
	if err := unit.Add(uow.Step("link project to opportunity "+opp.ID,
		func(ctx context.Context) error { return o.repos.Opportunities.Update(ctx, opp) },
		nil,
	)); err != nil {
		return err
	}
	if err := unit.Commit(ctx); err != nil {
		return fmt.Errorf("opening project: %w", err)
	}

	logger.InfoContext(ctx, "project opened for won opportunity",
		slog.String("project_id", p.ID),
		slog.String("owner_id", owner),
	)
	o.record(ctx, owner, audit.ActionCreate, "Project", p.ID, map[string]any{
		"opportunityId": opp.ID,
		"budget":        p.Budget.String(),
	})

	return o.publish(ctx, event.New(event.ProjectCreated, p.ID, event.AggregateProject, map[string]any{
		event.KeyOpportunityID: opp.ID,
		event.KeyAccountID:     acct.ID,
	}, now))
}

func projectName(accountName, opportunityName string) string {
	if accountName == "" {
		return opportunityName
	}
	return accountName + " - " + opportunityName
}

func budgetOrZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

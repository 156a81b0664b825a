// Package authz resolves the manager/report hierarchy and decides whether an
// actor may act on a record. Decisions fail closed: any doubt about the
// owner or the hierarchy denies access.
package authz

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jsamuelsen11/salesflow/internal/domain"
	"github.com/jsamuelsen11/salesflow/internal/domain/actor"
	"github.com/jsamuelsen11/salesflow/internal/domain/audit"
	"github.com/jsamuelsen11/salesflow/internal/platform/logging"
	"github.com/jsamuelsen11/salesflow/internal/ports"
)

// Compile-time interface checks.
var (
	_ ports.Authorizer = (*Resolver)(nil)
	_ ports.Directory  = (*Resolver)(nil)
)

// resourceActor is the audit resource type for directory records.
const resourceActor = "Actor"

// Resolver answers hierarchy and access questions from the actor directory.
// All methods are safe for concurrent use.
type Resolver struct {
	actors ports.ActorRepository
	audit  ports.AuditRecorder
	now    func() time.Time

	// linkMu serializes SetManager so two concurrent links cannot each pass
	// the cycle check and together close a loop.
	linkMu sync.Mutex
}

// New creates a Resolver.
func New(actors ports.ActorRepository, audit ports.AuditRecorder) *Resolver {
	return &Resolver{actors: actors, audit: audit, now: time.Now}
}

// Lookup returns the actor with the given ID.
func (r *Resolver) Lookup(ctx context.Context, id string) (*actor.Actor, error) {
	a, err := r.actors.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("looking up actor: %w", err)
	}
	return a, nil
}

// Reports returns every actor that reports to actorID directly or through
// intermediate managers. actorID itself is never part of the result, and
// cyclic manager data cannot make the walk loop.
func (r *Resolver) Reports(ctx context.Context, actorID string) (map[string]struct{}, error) {
	children, err := r.adjacency(ctx)
	if err != nil {
		return nil, err
	}

	visited := map[string]struct{}{actorID: {}}
	reports := make(map[string]struct{})
	queue := []string{actorID}

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]

		for _, child := range children[id] {
			if _, seen := visited[child]; seen {
				continue
			}
			visited[child] = struct{}{}
			reports[child] = struct{}{}
			queue = append(queue, child)
		}
	}

	return reports, nil
}

// adjacency loads the directory once and indexes it as managerID -> reports.
func (r *Resolver) adjacency(ctx context.Context) (map[string][]string, error) {
	all, err := r.actors.List(ctx, actor.Filter{})
	if err != nil {
		return nil, fmt.Errorf("loading actor directory: %w", err)
	}

	children := make(map[string][]string, len(all))
	for i := range all {
		if m := all[i].ManagerID; m != "" {
			children[m] = append(children[m], all[i].ID)
		}
	}
	return children, nil
}

// HasAccess reports whether a may act on a record owned by ownerID.
func (r *Resolver) HasAccess(ctx context.Context, a *actor.Actor, ownerID string) bool {
	if a == nil {
		return false
	}
	if a.IsAdmin() {
		return true
	}
	if ownerID == "" {
		// Unassigned pool records are reserved for admins.
		return false
	}

	logger := logging.FromContext(ctx)

	if _, err := r.actors.Get(ctx, ownerID); err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			logger.ErrorContext(ctx, "owner lookup failed, denying access",
				slog.String("operation", "Resolver.HasAccess"),
				slog.String("actor_id", a.ID),
				slog.String("owner_id", ownerID),
				slog.Any("error", err),
			)
		}
		return false
	}

	if a.ID == ownerID {
		return true
	}

	reports, err := r.Reports(ctx, a.ID)
	if err != nil {
		logger.ErrorContext(ctx, "hierarchy lookup failed, denying access",
			slog.String("operation", "Resolver.HasAccess"),
			slog.String("actor_id", a.ID),
			slog.String("owner_id", ownerID),
			slog.Any("error", err),
		)
		return false
	}

	_, ok := reports[ownerID]
	return ok
}

// Authorize returns domain.ErrForbidden when a may not perform operation on
// the resource, after recording the denial in the audit trail.
func (r *Resolver) Authorize(ctx context.Context, a *actor.Actor, ownerID, operation, resourceType, resourceID string) error {
	if r.HasAccess(ctx, a, ownerID) {
		return nil
	}

	actorID := ""
	if a != nil {
		actorID = a.ID
	}

	if err := r.audit.RecordDenied(ctx, actorID, operation, resourceType, resourceID); err != nil {
		logging.FromContext(ctx).ErrorContext(ctx, "failed to record access denial",
			slog.String("operation", operation),
			slog.String("actor_id", actorID),
			slog.String("resource_id", resourceID),
			slog.Any("error", err),
		)
	}

	return fmt.Errorf("%s %s %s: %w", operation, resourceType, resourceID, domain.ErrForbidden)
}

// seedActorID attributes directory changes made without a caller, such as
// linking seeded actors at boot.
const seedActorID = "system"

// SetManager links actorID under managerID, or makes actorID a root when
// managerID is empty, and records the change in the audit trail as by.
// A nil by is the boot-time seed. Links that would let the manager chain
// reach actorID are rejected with domain.ErrCycle.
func (r *Resolver) SetManager(ctx context.Context, by *actor.Actor, actorID, managerID string) error {
	r.linkMu.Lock()
	defer r.linkMu.Unlock()

	a, err := r.actors.Get(ctx, actorID)
	if err != nil {
		return fmt.Errorf("loading actor: %w", err)
	}

	if managerID != "" {
		if managerID == actorID {
			return fmt.Errorf("actor %q cannot manage itself: %w", actorID, domain.ErrCycle)
		}
		if _, err := r.actors.Get(ctx, managerID); err != nil {
			return fmt.Errorf("loading manager: %w", err)
		}
		if err := r.checkChain(ctx, actorID, managerID); err != nil {
			return err
		}
	}

	previous := a.ManagerID
	a.ManagerID = managerID
	a.UpdatedAt = r.now().UTC()
	if err := r.actors.Update(ctx, a); err != nil {
		return fmt.Errorf("saving actor: %w", err)
	}

	r.recordLink(ctx, by, actorID, previous, managerID)
	return nil
}

// recordLink audits a saved manager change. The link is already persisted,
// so a failure is logged rather than returned.
func (r *Resolver) recordLink(ctx context.Context, by *actor.Actor, actorID, previous, managerID string) {
	byID := seedActorID
	if by != nil {
		byID = by.ID
	}

	err := r.audit.Record(ctx, &audit.Entry{
		ActorID:      byID,
		Action:       audit.ActionUpdate,
		ResourceType: resourceActor,
		ResourceID:   actorID,
		Details: map[string]any{
			"previousManagerId": previous,
			"managerId":         managerID,
		},
	})
	if err != nil {
		logging.FromContext(ctx).ErrorContext(ctx, "failed to record manager change",
			slog.String("operation", "Resolver.SetManager"),
			slog.String("actor_id", actorID),
			slog.String("manager_id", managerID),
			slog.Any("error", err),
		)
	}
}

// checkChain walks up from managerID and fails if it reaches actorID.
func (r *Resolver) checkChain(ctx context.Context, actorID, managerID string) error {
	all, err := r.actors.List(ctx, actor.Filter{})
	if err != nil {
		return fmt.Errorf("loading actor directory: %w", err)
	}

	parent := make(map[string]string, len(all))
	for i := range all {
		parent[all[i].ID] = all[i].ManagerID
	}

	seen := make(map[string]struct{})
	for id := managerID; id != ""; id = parent[id] {
		if id == actorID {
			return fmt.Errorf("linking %q under %q: %w", actorID, managerID, domain.ErrCycle)
		}
		if _, ok := seen[id]; ok {
			// Pre-existing loop above the new manager that does not include
			// actorID; the new link adds nothing to it.
			return nil
		}
		seen[id] = struct{}{}
	}
	return nil
}

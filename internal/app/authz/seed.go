package authz

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jsamuelsen11/salesflow/internal/domain"
	"github.com/jsamuelsen11/salesflow/internal/domain/actor"
	"github.com/jsamuelsen11/salesflow/internal/platform/logging"
)

// Seed creates the given actors unless an actor with the same ID already
// exists, then links the newly created ones under their managers through
// SetManager. Existing actors are left untouched, so seeding on every boot is
// safe. It returns the number of actors created.
func (r *Resolver) Seed(ctx context.Context, actors []actor.Actor) (int, error) {
	logger := logging.FromContext(ctx)
	now := r.now().UTC()

	var links []actor.Actor
	for i := range actors {
		a := actors[i]
		if a.Status == "" {
			a.Status = actor.StatusActive
		}
		if a.Name == "" {
			a.Name = a.ID
		}
		if err := a.Validate(); err != nil {
			return len(links), fmt.Errorf("seeding actor %q: %w", a.ID, err)
		}

		managerID := a.ManagerID
		a.ManagerID = ""
		a.CreatedAt, a.UpdatedAt = now, now

		err := r.actors.Create(ctx, &a)
		if errors.Is(err, domain.ErrConflict) {
			logger.DebugContext(ctx, "seed actor already exists", slog.String("actor_id", a.ID))
			continue
		}
		if err != nil {
			return len(links), fmt.Errorf("seeding actor %q: %w", a.ID, err)
		}

		a.ManagerID = managerID
		links = append(links, a)
	}

	for _, a := range links {
		if a.ManagerID == "" {
			continue
		}
		if err := r.SetManager(ctx, nil, a.ID, a.ManagerID); err != nil {
			return len(links), fmt.Errorf("linking seed actor %q: %w", a.ID, err)
		}
	}

	if len(links) > 0 {
		logger.InfoContext(ctx, "seeded actor directory", slog.Int("created", len(links)))
	}
	return len(links), nil
}

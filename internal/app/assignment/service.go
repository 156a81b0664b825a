// Package assignment hands new leads to sales reps in least-recently-assigned
// order.
package assignment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/jsamuelsen11/salesflow/internal/domain"
	"github.com/jsamuelsen11/salesflow/internal/domain/actor"
	"github.com/jsamuelsen11/salesflow/internal/platform/logging"
	"github.com/jsamuelsen11/salesflow/internal/ports"
)

// Compile-time interface check.
var _ ports.Assigner = (*Service)(nil)

const defaultMaxAttempts = 5

// Service implements round-robin lead assignment.
//
// Selection and stamping run under a pool-wide mutex so callers in one
// process are strictly serialized. The stamp itself is a compare-and-swap in
// the repository, so a writer in another process that moved the same rep
// forces a re-read instead of a double assignment.
type Service struct {
	actors      ports.ActorRepository
	maxAttempts int
	now         func() time.Time

	mu   sync.Mutex
	last time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithMaxAttempts bounds how often a lost compare-and-swap is retried.
func WithMaxAttempts(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxAttempts = n
		}
	}
}

// New creates an assignment Service.
func New(actors ports.ActorRepository, opts ...Option) *Service {
	s := &Service{actors: actors, maxAttempts: defaultMaxAttempts, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AssignNextRep returns the ID of the active sales rep who was assigned least
// recently (never-assigned reps first, ties broken by ID) and records the
// assignment. With no active rep it falls back to the first active admin,
// who is not stamped. With neither it returns "" and a nil error; the caller
// keeps the lead in the unassigned pool.
func (s *Service) AssignNextRep(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	logger := logging.FromContext(ctx)

	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		reps, err := s.actors.List(ctx, actor.Filter{Role: actor.RoleSalesRep, Status: actor.StatusActive})
		if err != nil {
			return "", fmt.Errorf("listing sales reps: %w", err)
		}
		if len(reps) == 0 {
			return s.fallbackAdmin(ctx)
		}

		sortByLastAssigned(reps)
		pick := reps[0]

		err = s.actors.StampAssignment(ctx, pick.ID, pick.LastAssignedAt, s.nextStamp(reps))
		if err == nil {
			return pick.ID, nil
		}
		if !errors.Is(err, domain.ErrConflict) {
			return "", fmt.Errorf("stamping assignment for %s: %w", pick.ID, err)
		}

		logger.WarnContext(ctx, "assignment stamp lost a race, retrying",
			slog.String("operation", "AssignNextRep"),
			slog.String("rep_id", pick.ID),
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", s.maxAttempts),
		)
	}

	return "", fmt.Errorf("assigning lead after %d attempts: %w", s.maxAttempts, domain.ErrConflict)
}

func (s *Service) fallbackAdmin(ctx context.Context) (string, error) {
	admins, err := s.actors.List(ctx, actor.Filter{Role: actor.RoleAdmin, Status: actor.StatusActive})
	if err != nil {
		return "", fmt.Errorf("listing admins: %w", err)
	}
	if len(admins) == 0 {
		return "", nil
	}
	sort.Slice(admins, func(i, j int) bool { return admins[i].ID < admins[j].ID })
	return admins[0].ID, nil
}

// nextStamp returns a time strictly after both the previous stamp issued by
// this service and every stamp already in the pool, so the picked rep always
// moves to the back of the rotation even with a coarse or skewed clock.
func (s *Service) nextStamp(pool []actor.Actor) time.Time {
	floor := s.last
	for i := range pool {
		if at := pool[i].LastAssignedAt; at != nil && at.After(floor) {
			floor = *at
		}
	}

	t := s.now().UTC()
	if !t.After(floor) {
		t = floor.Add(time.Nanosecond)
	}
	s.last = t
	return t
}

// sortByLastAssigned orders reps oldest assignment first, with never-assigned
// reps ahead of everyone and ties broken by ID.
func sortByLastAssigned(reps []actor.Actor) {
	sort.Slice(reps, func(i, j int) bool {
		a, b := reps[i].LastAssignedAt, reps[j].LastAssignedAt
		switch {
		case a == nil && b == nil:
			return reps[i].ID < reps[j].ID
		case a == nil:
			return true
		case b == nil:
			return false
		case !a.Equal(*b):
			return a.Before(*b)
		default:
			return reps[i].ID < reps[j].ID
		}
	})
}

package assignment_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen11/salesflow/internal/adapters/store/memory"
	"github.com/jsamuelsen11/salesflow/internal/app/assignment"
	"github.com/jsamuelsen11/salesflow/internal/domain"
	"github.com/jsamuelsen11/salesflow/internal/domain/actor"
	"github.com/jsamuelsen11/salesflow/internal/ports"
)

var frozen = time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)

func frozenClock() time.Time { return frozen }

func seed(t *testing.T, actors ...actor.Actor) *memory.Store {
	t.Helper()

	s := memory.New()
	for _, a := range actors {
		if a.Status == "" {
			a.Status = actor.StatusActive
		}
		require.NoError(t, s.Actors.Create(context.Background(), &a))
	}
	return s
}

func rep(id string) actor.Actor { return actor.Actor{ID: id, Role: actor.RoleSalesRep} }

func TestAssignNextRep_RoundRobin(t *testing.T) {
	t.Parallel()

	s := seed(t, rep("r3"), rep("r1"), rep("r2"))
	svc := assignment.New(s.Actors, assignment.WithClock(frozenClock))

	var got []string
	for range 7 {
		id, err := svc.AssignNextRep(context.Background())
		require.NoError(t, err)
		got = append(got, id)
	}

	assert.Equal(t, []string{"r1", "r2", "r3", "r1", "r2", "r3", "r1"}, got)
}

func TestAssignNextRep_PrefersNeverAssigned(t *testing.T) {
	t.Parallel()

	yesterday := frozen.Add(-24 * time.Hour)
	lastWeek := frozen.Add(-7 * 24 * time.Hour)

	a := rep("a")
	a.LastAssignedAt = &yesterday
	b := rep("b")
	b.LastAssignedAt = &lastWeek
	c := rep("c")

	s := seed(t, a, b, c)
	svc := assignment.New(s.Actors, assignment.WithClock(frozenClock))

	var got []string
	for range 3 {
		id, err := svc.AssignNextRep(context.Background())
		require.NoError(t, err)
		got = append(got, id)
	}
	assert.Equal(t, []string{"c", "b", "a"}, got)
}

func TestAssignNextRep_SkipsInactiveAndOtherRoles(t *testing.T) {
	t.Parallel()

	inactive := rep("a-inactive")
	inactive.Status = actor.StatusInactive

	s := seed(t,
		inactive,
		actor.Actor{ID: "b-manager", Role: actor.RoleSalesManager},
		rep("c-rep"),
	)
	svc := assignment.New(s.Actors, assignment.WithClock(frozenClock))

	for range 3 {
		id, err := svc.AssignNextRep(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "c-rep", id)
	}
}

func TestAssignNextRep_AdminFallback(t *testing.T) {
	t.Parallel()

	s := seed(t,
		actor.Actor{ID: "z-admin", Role: actor.RoleAdmin},
		actor.Actor{ID: "a-admin", Role: actor.RoleAdmin},
		actor.Actor{ID: "mgr", Role: actor.RoleSalesManager},
	)
	svc := assignment.New(s.Actors, assignment.WithClock(frozenClock))

	id, err := svc.AssignNextRep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "a-admin", id)

	admin, err := s.Actors.Get(context.Background(), "a-admin")
	require.NoError(t, err)
	assert.Nil(t, admin.LastAssignedAt, "admin fallback must not be stamped")
}

func TestAssignNextRep_NobodyAvailable(t *testing.T) {
	t.Parallel()

	s := seed(t, actor.Actor{ID: "support", Role: actor.RoleSupportStaff})
	svc := assignment.New(s.Actors)

	id, err := svc.AssignNextRep(context.Background())
	require.NoError(t, err)
	assert.Empty(t, id)
}

func TestAssignNextRep_ConcurrentCallsStayFair(t *testing.T) {
	t.Parallel()

	s := seed(t, rep("r1"), rep("r2"), rep("r3"))
	svc := assignment.New(s.Actors, assignment.WithClock(frozenClock))

	const calls = 30
	var (
		mu     sync.Mutex
		counts = make(map[string]int)
		wg     sync.WaitGroup
	)
	for range calls {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, err := svc.AssignNextRep(context.Background())
			assert.NoError(t, err)
			mu.Lock()
			counts[id]++
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, map[string]int{"r1": 10, "r2": 10, "r3": 10}, counts)
}

// racingRepo simulates another process stamping the chosen rep between our
// read and our compare-and-swap.
type racingRepo struct {
	ports.ActorRepository
	mu       sync.Mutex
	races    int
	external func() time.Time
}

func (r *racingRepo) StampAssignment(ctx context.Context, id string, prev *time.Time, at time.Time) error {
	r.mu.Lock()
	if r.races > 0 {
		r.races--
		r.mu.Unlock()
		if err := r.ActorRepository.StampAssignment(ctx, id, prev, r.external()); err != nil {
			return err
		}
		return r.ActorRepository.StampAssignment(ctx, id, prev, at)
	}
	r.mu.Unlock()
	return r.ActorRepository.StampAssignment(ctx, id, prev, at)
}

func TestAssignNextRep_RetriesLostCompareAndSwap(t *testing.T) {
	t.Parallel()

	s := seed(t, rep("r1"), rep("r2"))
	repo := &racingRepo{ActorRepository: s.Actors, races: 1, external: func() time.Time { return frozen.Add(-time.Hour) }}
	svc := assignment.New(repo, assignment.WithClock(frozenClock))

	// r1 is taken by the other process, so this caller must get r2.
	id, err := svc.AssignNextRep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "r2", id)
}

func TestAssignNextRep_GivesUpAfterMaxAttempts(t *testing.T) {
	t.Parallel()

	s := seed(t, rep("r1"))
	tick := frozen
	repo := &racingRepo{ActorRepository: s.Actors, races: 10, external: func() time.Time {
		tick = tick.Add(time.Second)
		return tick
	}}
	svc := assignment.New(repo, assignment.WithClock(frozenClock), assignment.WithMaxAttempts(3))

	_, err := svc.AssignNextRep(context.Background())
	assert.ErrorIs(t, err, domain.ErrConflict)
}

type failingRepo struct {
	ports.ActorRepository
}

func (failingRepo) List(context.Context, actor.Filter) ([]actor.Actor, error) {
	return nil, errors.New("store offline")
}

func TestAssignNextRep_StoreError(t *testing.T) {
	t.Parallel()

	svc := assignment.New(failingRepo{})
	_, err := svc.AssignNextRep(context.Background())
	assert.Error(t, err)
}

// Package uow runs a sequence of writes as one unit of work. Each step pairs
// a write with its compensation; when a step fails, the steps that already
// succeeded are compensated in reverse order.
//
//	u := uow.New()
//	u.Add(uow.Step("create account", createAccount, deleteAccount))
//	u.Add(uow.Step("create contact", createContact, deleteContact))
//	err := u.Commit(ctx)
package uow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/jsamuelsen11/salesflow/internal/domain"
	"github.com/jsamuelsen11/salesflow/internal/platform/logging"
)

// ErrAlreadyCommitted is returned when Add or Commit is called on a Unit that
// has already been committed.
var ErrAlreadyCommitted = errors.New("uow: already committed")

// ErrNilAction is returned when a nil action is added.
var ErrNilAction = errors.New("uow: nil action")

// Unit collects actions and executes them in insertion order on Commit.
// A Unit is single use.
type Unit struct {
	mu        sync.Mutex
	actions   []domain.Action
	committed bool
}

// New returns an empty Unit.
func New() *Unit {
	return &Unit{}
}

// Add stages an action. Safe for concurrent use.
func (u *Unit) Add(action domain.Action) error {
	if action == nil {
		return ErrNilAction
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	if u.committed {
		return ErrAlreadyCommitted
	}
	u.actions = append(u.actions, action)
	return nil
}

// Commit executes the staged actions in order. On the first failure the
// previously completed actions are rolled back in reverse order; rollback
// errors are logged and do not change the returned error, which wraps the
// failing action's error.
func (u *Unit) Commit(ctx context.Context) error {
	u.mu.Lock()
	if u.committed {
		u.mu.Unlock()
		return ErrAlreadyCommitted
	}
	u.committed = true
	actions := u.actions
	u.mu.Unlock()

	logger := logging.FromContext(ctx)

	for i, action := range actions {
		logger.DebugContext(ctx, "executing action",
			slog.String("operation", "Unit.Commit"),
			slog.Int("step", i+1),
			slog.Int("total", len(actions)),
			slog.String("action", action.Description()),
		)

		if err := action.Execute(ctx); err != nil {
			logger.ErrorContext(ctx, "action failed, compensating",
				slog.String("operation", "Unit.Commit"),
				slog.Int("failed_step", i+1),
				slog.String("action", action.Description()),
				slog.Any("error", err),
			)
			compensate(ctx, actions[:i], logger)
			return fmt.Errorf("%s: %w", action.Description(), err)
		}
	}
	return nil
}

func compensate(ctx context.Context, done []domain.Action, logger *slog.Logger) {
	// A cancelled request must not stop compensation.
	ctx = context.WithoutCancel(ctx)

	for i := len(done) - 1; i >= 0; i-- {
		action := done[i]
		if err := action.Rollback(ctx); err != nil {
			logger.ErrorContext(ctx, "rollback failed",
				slog.String("operation", "Unit.Commit"),
				slog.Int("step", i+1),
				slog.String("action", action.Description()),
				slog.Any("error", err),
			)
		}
	}
}

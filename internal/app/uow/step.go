package uow

import (
	"context"

	"github.com/jsamuelsen11/salesflow/internal/domain"
)

// step adapts a pair of functions to domain.Action.
type step struct {
	desc string
	do   func(context.Context) error
	undo func(context.Context) error
}

// Step builds an action from a write and its compensation. A nil undo means
// the write needs no compensation.
func Step(desc string, do, undo func(context.Context) error) domain.Action {
	return &step{desc: desc, do: do, undo: undo}
}

func (s *step) Execute(ctx context.Context) error { return s.do(ctx) }

func (s *step) Rollback(ctx context.Context) error {
	if s.undo == nil {
		return nil
	}
	return s.undo(ctx)
}

func (s *step) Description() string { return s.desc }

package domain

import "context"

// Action is one write in a unit of work, paired with the write that undoes
// it. A unit of work executes its actions in order; when one fails, the
// actions that already succeeded are rolled back newest first.
//
// It lives in the domain package so repositories and entities can hand
// writes to the application layer without importing it.
type Action interface {
	// Execute performs the write and must honor ctx cancellation.
	Execute(ctx context.Context) error

	// Rollback undoes a successful Execute. It is never called for an
	// action whose Execute failed, and ctx may carry a fresh deadline.
	Rollback(ctx context.Context) error

	// Description names the write for logs, e.g. "create account 6f1c...".
	Description() string
}

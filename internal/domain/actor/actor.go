// Package actor defines the users that own and mutate sales records, and the
// manager hierarchy they form.
package actor

import (
	"fmt"
	"strings"
	"time"

	"github.com/jsamuelsen11/salesflow/internal/domain"
)

// Role is the job function of an Actor.
type Role string

const (
	RoleAdmin          Role = "ADMIN"
	RoleSalesManager   Role = "SALES_MANAGER"
	RoleSalesRep       Role = "SALES_REP"
	RoleAccountManager Role = "ACCOUNT_MANAGER"
	RoleProjectManager Role = "PROJECT_MANAGER"
	RoleSupportStaff   Role = "SUPPORT_STAFF"
)

// IsValid returns true if the role is one of the defined constants.
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleSalesManager, RoleSalesRep, RoleAccountManager, RoleProjectManager, RoleSupportStaff:
		return true
	default:
		return false
	}
}

// String implements fmt.Stringer.
func (r Role) String() string {
	return string(r)
}

// Status is the employment state of an Actor. Only active actors receive
// round-robin assignments.
type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusInactive Status = "INACTIVE"
)

// IsValid returns true if the status is one of the defined constants.
func (s Status) IsValid() bool {
	return s == StatusActive || s == StatusInactive
}

// Actor is a user of the system. ManagerID points at the actor's direct
// manager; an empty ManagerID marks a root of the hierarchy forest.
type Actor struct {
	ID             string
	Name           string
	Email          string
	Role           Role
	Status         Status
	ManagerID      string
	LastAssignedAt *time.Time
	Version        int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsAdmin reports whether the actor bypasses ownership checks.
func (a *Actor) IsAdmin() bool {
	return a != nil && a.Role == RoleAdmin
}

// IsActive reports whether the actor is active.
func (a *Actor) IsActive() bool {
	return a != nil && a.Status == StatusActive
}

// Validate checks business rules for the Actor entity.
func (a *Actor) Validate() error {
	fields := make(map[string]string)

	if strings.TrimSpace(a.ID) == "" {
		fields["id"] = domain.MsgRequired
	}
	if strings.TrimSpace(a.Name) == "" {
		fields["name"] = domain.MsgRequired
	}
	if !a.Role.IsValid() {
		fields["role"] = fmt.Sprintf("invalid: %q", a.Role)
	}
	if !a.Status.IsValid() {
		fields["status"] = fmt.Sprintf("invalid: %q", a.Status)
	}
	if a.ManagerID != "" && a.ManagerID == a.ID {
		fields["manager_id"] = "must not reference the actor itself"
	}

	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}

// Filter holds optional criteria for listing actors.
// Zero-value fields mean "no filter" for that dimension.
type Filter struct {
	Role   Role
	Status Status
}

// Matches reports whether a satisfies the filter.
func (f Filter) Matches(a *Actor) bool {
	if f.Role != "" && a.Role != f.Role {
		return false
	}
	if f.Status != "" && a.Status != f.Status {
		return false
	}
	return true
}

// Package account defines the Account aggregate: a customer organization that
// owns contacts, opportunities and projects by reference.
package account

import (
	"fmt"
	"strings"
	"time"

	"github.com/jsamuelsen11/salesflow/internal/domain"
)

// Type classifies the commercial relationship with an account.
type Type string

const (
	TypeProspect Type = "PROSPECT"
	TypeCustomer Type = "CUSTOMER"
	TypePartner  Type = "PARTNER"
)

// IsValid returns true if the type is one of the defined constants.
func (t Type) IsValid() bool {
	return t == TypeProspect || t == TypeCustomer || t == TypePartner
}

// Status is the lifecycle state of an account.
type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusInactive Status = "INACTIVE"
)

// IsValid returns true if the status is one of the defined constants.
func (s Status) IsValid() bool {
	return s == StatusActive || s == StatusInactive
}

// Account is a customer organization.
type Account struct {
	ID        string
	Name      string
	Type      Type
	Status    Status
	OwnerID   string
	Phone     string
	Email     string
	Version   int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks business rules for the Account entity.
func (a *Account) Validate() error {
	fields := make(map[string]string)

	if strings.TrimSpace(a.Name) == "" {
		fields["name"] = domain.MsgRequired
	}
	if !a.Type.IsValid() {
		fields["type"] = fmt.Sprintf("invalid: %q", a.Type)
	}
	if !a.Status.IsValid() {
		fields["status"] = fmt.Sprintf("invalid: %q", a.Status)
	}

	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}

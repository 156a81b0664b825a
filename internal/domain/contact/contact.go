// Package contact defines people attached to an Account. Contacts are scoped
// by their account and are not authorized independently.
package contact

import (
	"strings"
	"time"

	"github.com/jsamuelsen11/salesflow/internal/domain"
)

// Contact is a person at an account. At most one contact per account is
// primary; stores reject a second primary with domain.ErrConflict.
type Contact struct {
	ID        string
	AccountID string
	FirstName string
	LastName  string
	Email     string
	Phone     string
	IsPrimary bool
	Version   int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks business rules for the Contact entity.
func (c *Contact) Validate() error {
	fields := make(map[string]string)

	if strings.TrimSpace(c.AccountID) == "" {
		fields["account_id"] = domain.MsgRequired
	}
	if strings.TrimSpace(c.FirstName) == "" && strings.TrimSpace(c.LastName) == "" {
		fields["name"] = domain.MsgRequired
	}

	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}

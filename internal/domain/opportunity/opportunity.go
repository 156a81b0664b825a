// Package opportunity defines the Opportunity aggregate and its stage machine.
package opportunity

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jsamuelsen11/salesflow/internal/domain"
)

// Opportunity is a potential deal with an account. Probability is derived
// from Stage; ClosedDate is set only while the stage is terminal. ProjectID
// is filled in by the won-deal cascade.
type Opportunity struct {
	ID          string
	Name        string
	AccountID   string
	OwnerID     string
	Stage       Stage
	Amount      decimal.Decimal
	Probability int
	ClosedDate  *time.Time
	ProjectID   string
	Version     int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Validate checks business rules for the Opportunity entity.
func (o *Opportunity) Validate() error {
	fields := make(map[string]string)

	if strings.TrimSpace(o.Name) == "" {
		fields["name"] = domain.MsgRequired
	}
	if strings.TrimSpace(o.AccountID) == "" {
		fields["account_id"] = domain.MsgRequired
	}
	if !o.Stage.IsValid() {
		fields["stage"] = fmt.Sprintf("invalid: %q", o.Stage)
	}
	if o.Amount.IsNegative() {
		fields["amount"] = "must not be negative"
	}

	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}

// AdvanceTo moves the opportunity to stage and derives probability and
// closed date. Jumping or reverting between stages is permitted.
func (o *Opportunity) AdvanceTo(stage Stage, now time.Time) error {
	if !stage.IsValid() {
		return fmt.Errorf("%w: %q", domain.ErrInvalidStage, stage)
	}
	o.Stage = stage
	o.Probability = stage.Probability()
	if stage.IsTerminal() {
		o.ClosedDate = &now
	} else {
		o.ClosedDate = nil
	}
	o.UpdatedAt = now
	return nil
}

// IsWon reports whether the deal closed won.
func (o *Opportunity) IsWon() bool {
	return o.Stage == StageClosedWon
}

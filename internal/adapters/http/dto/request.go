package dto

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jsamuelsen11/salesflow/internal/domain"
	"github.com/jsamuelsen11/salesflow/internal/domain/lead"
	"github.com/jsamuelsen11/salesflow/internal/domain/opportunity"
)

const msgRequired = domain.MsgRequired

// CreateLeadRequest represents the JSON body for capturing a new lead.
// OwnerID is optional; an empty owner routes the lead through round-robin
// assignment.
type CreateLeadRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Company   string `json:"company"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Source    string `json:"source,omitempty"`
	OwnerID   string `json:"owner_id,omitempty"`
}

// Validate checks that required fields are present.
// Returns a *domain.ValidationError if any checks fail.
func (r *CreateLeadRequest) Validate() error {
	fields := make(map[string]string)

	if strings.TrimSpace(r.FirstName) == "" && strings.TrimSpace(r.LastName) == "" {
		fields["name"] = "first_name or last_name " + msgRequired
	}
	if strings.TrimSpace(r.Company) == "" {
		fields["company"] = msgRequired
	}
	if r.Email != "" && !strings.Contains(r.Email, "@") {
		fields["email"] = "must be a valid email address"
	}

	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}

// ToDomain builds a NEW lead from the request.
func (r *CreateLeadRequest) ToDomain() *lead.Lead {
	return &lead.Lead{
		FirstName: strings.TrimSpace(r.FirstName),
		LastName:  strings.TrimSpace(r.LastName),
		Company:   strings.TrimSpace(r.Company),
		Email:     strings.TrimSpace(r.Email),
		Phone:     strings.TrimSpace(r.Phone),
		Source:    strings.TrimSpace(r.Source),
		Status:    lead.StatusNew,
		OwnerID:   strings.TrimSpace(r.OwnerID),
	}
}

// QualifyLeadRequest represents the JSON body for qualifying a lead.
type QualifyLeadRequest struct {
	Rating string `json:"rating"`
}

// Validate checks that the rating is one of HOT, WARM or COLD.
func (r *QualifyLeadRequest) Validate() error {
	switch {
	case r.Rating == "":
		return domain.NewValidationError("rating", msgRequired)
	case !lead.Rating(r.Rating).IsValid():
		return domain.NewValidationError("rating", fmt.Sprintf("invalid: %q", r.Rating))
	}
	return nil
}

// UpdateLeadStatusRequest represents the JSON body for a manual status change.
// Whether the change is allowed is decided by the lead itself.
type UpdateLeadStatusRequest struct {
	Status string `json:"status"`
}

// Validate checks that the status names a known lead status.
func (r *UpdateLeadStatusRequest) Validate() error {
	switch {
	case r.Status == "":
		return domain.NewValidationError("status", msgRequired)
	case !lead.Status(r.Status).IsValid():
		return domain.NewValidationError("status", fmt.Sprintf("invalid: %q", r.Status))
	}
	return nil
}

// CreateOpportunityRequest represents the JSON body for opening an
// opportunity. Amount is a decimal string so currency values survive JSON.
type CreateOpportunityRequest struct {
	Name      string `json:"name"`
	AccountID string `json:"account_id"`
	OwnerID   string `json:"owner_id,omitempty"`
	Stage     string `json:"stage,omitempty"`
	Amount    string `json:"amount,omitempty"`
}

// Validate checks required fields and the amount format. Unknown stages are
// left to the workflow, which reports them as invalid stages.
func (r *CreateOpportunityRequest) Validate() error {
	fields := make(map[string]string)

	if strings.TrimSpace(r.Name) == "" {
		fields["name"] = msgRequired
	}
	if strings.TrimSpace(r.AccountID) == "" {
		fields["account_id"] = msgRequired
	}
	if r.Amount != "" {
		amount, err := decimal.NewFromString(r.Amount)
		switch {
		case err != nil:
			fields["amount"] = fmt.Sprintf("invalid decimal: %q", r.Amount)
		case amount.IsNegative():
			fields["amount"] = "must not be negative"
		}
	}

	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}

// ToDomain builds an opportunity from a validated request.
func (r *CreateOpportunityRequest) ToDomain() *opportunity.Opportunity {
	o := &opportunity.Opportunity{
		Name:      strings.TrimSpace(r.Name),
		AccountID: strings.TrimSpace(r.AccountID),
		OwnerID:   strings.TrimSpace(r.OwnerID),
		Stage:     opportunity.Stage(strings.TrimSpace(r.Stage)),
	}
	if r.Amount != "" {
		o.Amount = decimal.RequireFromString(r.Amount)
	}
	return o
}

// AdvanceStageRequest represents the JSON body for moving an opportunity.
type AdvanceStageRequest struct {
	Stage string `json:"stage"`
}

// Validate checks that a stage was supplied.
func (r *AdvanceStageRequest) Validate() error {
	if strings.TrimSpace(r.Stage) == "" {
		return domain.NewValidationError("stage", msgRequired)
	}
	return nil
}

// SetManagerRequest represents the JSON body for re-parenting an actor.
// An empty manager_id detaches the actor from its manager.
type SetManagerRequest struct {
	ManagerID string `json:"manager_id"`
}

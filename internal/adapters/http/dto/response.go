// Package dto provides HTTP request/response data transfer objects and
// RFC 9457 Problem Details error responses for the inbound HTTP adapter layer.
package dto

import (
	"sort"
	"time"

	"github.com/jsamuelsen11/salesflow/internal/domain/account"
	"github.com/jsamuelsen11/salesflow/internal/domain/actor"
	"github.com/jsamuelsen11/salesflow/internal/domain/contact"
	"github.com/jsamuelsen11/salesflow/internal/domain/lead"
	"github.com/jsamuelsen11/salesflow/internal/domain/opportunity"
	"github.com/jsamuelsen11/salesflow/internal/ports"
)

// LeadResponse represents a single lead in HTTP responses.
type LeadResponse struct {
	ID                 string  `json:"id"`
	FirstName          string  `json:"first_name"`
	LastName           string  `json:"last_name"`
	Company            string  `json:"company"`
	Email              string  `json:"email,omitempty"`
	Phone              string  `json:"phone,omitempty"`
	Source             string  `json:"source,omitempty"`
	Status             string  `json:"status"`
	Rating             string  `json:"rating,omitempty"`
	OwnerID            string  `json:"owner_id,omitempty"`
	ConvertedAccountID string  `json:"converted_account_id,omitempty"`
	LastContactDate    *string `json:"last_contact_date,omitempty"`
	Version            int     `json:"version"`
	CreatedAt          string  `json:"created_at"`
	UpdatedAt          string  `json:"updated_at"`
}

// ToLeadResponse converts a domain Lead to an HTTP response DTO.
func ToLeadResponse(l *lead.Lead) LeadResponse {
	return LeadResponse{
		ID:                 l.ID,
		FirstName:          l.FirstName,
		LastName:           l.LastName,
		Company:            l.Company,
		Email:              l.Email,
		Phone:              l.Phone,
		Source:             l.Source,
		Status:             l.Status.String(),
		Rating:             string(l.Rating),
		OwnerID:            l.OwnerID,
		ConvertedAccountID: l.ConvertedAccountID,
		LastContactDate:    formatOptional(l.LastContactDate),
		Version:            l.Version,
		CreatedAt:          l.CreatedAt.Format(time.RFC3339),
		UpdatedAt:          l.UpdatedAt.Format(time.RFC3339),
	}
}

// AccountResponse represents a single account in HTTP responses.
type AccountResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Type      string `json:"type"`
	Status    string `json:"status"`
	OwnerID   string `json:"owner_id"`
	Phone     string `json:"phone,omitempty"`
	Email     string `json:"email,omitempty"`
	CreatedAt string `json:"created_at"`
}

// ToAccountResponse converts a domain Account to an HTTP response DTO.
func ToAccountResponse(a *account.Account) AccountResponse {
	return AccountResponse{
		ID:        a.ID,
		Name:      a.Name,
		Type:      string(a.Type),
		Status:    string(a.Status),
		OwnerID:   a.OwnerID,
		Phone:     a.Phone,
		Email:     a.Email,
		CreatedAt: a.CreatedAt.Format(time.RFC3339),
	}
}

// ContactResponse represents a single contact in HTTP responses.
type ContactResponse struct {
	ID        string `json:"id"`
	AccountID string `json:"account_id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	IsPrimary bool   `json:"is_primary"`
}

// ToContactResponse converts a domain Contact to an HTTP response DTO.
func ToContactResponse(c *contact.Contact) ContactResponse {
	return ContactResponse{
		ID:        c.ID,
		AccountID: c.AccountID,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Email:     c.Email,
		Phone:     c.Phone,
		IsPrimary: c.IsPrimary,
	}
}

// ConversionResponse holds the three records touched by a lead conversion.
type ConversionResponse struct {
	Lead    LeadResponse    `json:"lead"`
	Account AccountResponse `json:"account"`
	Contact ContactResponse `json:"contact"`
}

// ToConversionResponse converts a ports.ConversionResult to an HTTP response DTO.
func ToConversionResponse(r *ports.ConversionResult) ConversionResponse {
	return ConversionResponse{
		Lead:    ToLeadResponse(r.Lead),
		Account: ToAccountResponse(r.Account),
		Contact: ToContactResponse(r.Contact),
	}
}

// OpportunityResponse represents a single opportunity in HTTP responses.
// Amount is rendered as a decimal string.
type OpportunityResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	AccountID   string  `json:"account_id"`
	OwnerID     string  `json:"owner_id"`
	Stage       string  `json:"stage"`
	Amount      string  `json:"amount"`
	Probability int     `json:"probability"`
	ClosedDate  *string `json:"closed_date,omitempty"`
	ProjectID   string  `json:"project_id,omitempty"`
	Version     int     `json:"version"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

// ToOpportunityResponse converts a domain Opportunity to an HTTP response DTO.
func ToOpportunityResponse(o *opportunity.Opportunity) OpportunityResponse {
	return OpportunityResponse{
		ID:          o.ID,
		Name:        o.Name,
		AccountID:   o.AccountID,
		OwnerID:     o.OwnerID,
		Stage:       o.Stage.String(),
		Amount:      o.Amount.StringFixed(2),
		Probability: o.Probability,
		ClosedDate:  formatOptional(o.ClosedDate),
		ProjectID:   o.ProjectID,
		Version:     o.Version,
		CreatedAt:   o.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   o.UpdatedAt.Format(time.RFC3339),
	}
}

// ActorResponse represents a directory entry in HTTP responses.
type ActorResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	Status    string `json:"status"`
	ManagerID string `json:"manager_id,omitempty"`
}

// ToActorResponse converts a domain Actor to an HTTP response DTO.
func ToActorResponse(a *actor.Actor) ActorResponse {
	return ActorResponse{
		ID:        a.ID,
		Name:      a.Name,
		Role:      a.Role.String(),
		Status:    string(a.Status),
		ManagerID: a.ManagerID,
	}
}

// ReportsResponse lists every direct and indirect subordinate of an actor.
type ReportsResponse struct {
	ActorID string   `json:"actor_id"`
	Reports []string `json:"reports"`
	Count   int      `json:"count"`
}

// ToReportsResponse converts a subordinate set into a sorted response DTO.
func ToReportsResponse(actorID string, reports map[string]struct{}) ReportsResponse {
	ids := make([]string, 0, len(reports))
	for id := range reports {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ReportsResponse{
		ActorID: actorID,
		Reports: ids,
		Count:   len(ids),
	}
}

func formatOptional(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}

// HealthResponse is the body of the liveness and readiness endpoints. Liveness
// leaves Checks nil so the field is dropped; readiness always sends it.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitzero"`
}

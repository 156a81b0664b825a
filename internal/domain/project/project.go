// Package project defines the delivery Project created when a deal is won,
// together with its ordered phases.
package project

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jsamuelsen11/salesflow/internal/domain"
)

// Status is the lifecycle state of a Project.
type Status string

const (
	StatusPlanning  Status = "PLANNING"
	StatusActive    Status = "ACTIVE"
	StatusOnHold    Status = "ON_HOLD"
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
)

// IsValid returns true if the status is one of the defined constants.
func (s Status) IsValid() bool {
	switch s {
	case StatusPlanning, StatusActive, StatusOnHold, StatusCompleted, StatusCancelled:
		return true
	default:
		return false
	}
}

// PhaseStatus is the progress state of a single Phase.
type PhaseStatus string

const (
	PhasePending    PhaseStatus = "PENDING"
	PhaseInProgress PhaseStatus = "IN_PROGRESS"
	PhaseCompleted  PhaseStatus = "COMPLETED"
)

// Phase is one ordered step of a project's delivery plan. Phases belong to
// their project and are not authorized independently.
type Phase struct {
	Name   string
	Order  int
	Status PhaseStatus
}

// TemplatePhases is the fixed phase sequence every new project starts with.
var TemplatePhases = []string{
	"Planning",
	"Data Preparation",
	"Model Development",
	"Validation",
	"Deployment",
}

// Project is a delivery engagement for an account, usually spawned by a won
// opportunity.
type Project struct {
	ID            string
	Name          string
	AccountID     string
	OpportunityID string
	OwnerID       string
	Status        Status
	Budget        decimal.Decimal
	Phases        []Phase
	Version       int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewPhases returns the template phases, all PENDING, numbered from 1.
func NewPhases() []Phase {
	phases := make([]Phase, len(TemplatePhases))
	for i, name := range TemplatePhases {
		phases[i] = Phase{Name: name, Order: i + 1, Status: PhasePending}
	}
	return phases
}

// Validate checks business rules for the Project entity.
func (p *Project) Validate() error {
	fields := make(map[string]string)

	if strings.TrimSpace(p.Name) == "" {
		fields["name"] = domain.MsgRequired
	}
	if strings.TrimSpace(p.AccountID) == "" {
		fields["account_id"] = domain.MsgRequired
	}
	if strings.TrimSpace(p.OwnerID) == "" {
		fields["owner_id"] = domain.MsgRequired
	}
	if !p.Status.IsValid() {
		fields["status"] = fmt.Sprintf("invalid: %q", p.Status)
	}
	if p.Budget.IsNegative() {
		fields["budget"] = "must not be negative"
	}

	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}

// PhaseNames returns the phase names in order.
func (p *Project) PhaseNames() []string {
	names := make([]string, len(p.Phases))
	for i, ph := range p.Phases {
		names[i] = ph.Name
	}
	return names
}

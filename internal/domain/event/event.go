// Package event defines the immutable DomainEvent record and the event types
// published by the workflow.
package event

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Type tags what happened.
type Type string

const (
	LeadCreated             Type = "LeadCreated"
	LeadQualified           Type = "LeadQualified"
	LeadStatusChanged       Type = "LeadStatusChanged"
	LeadConverted           Type = "LeadConverted"
	OpportunityCreated      Type = "OpportunityCreated"
	OpportunityStageChanged Type = "OpportunityStageChanged"
	OpportunityWon          Type = "OpportunityWon"
	ProjectCreated          Type = "ProjectCreated"
)

// AggregateType names the kind of aggregate an event belongs to.
type AggregateType string

const (
	AggregateLead        AggregateType = "Lead"
	AggregateAccount     AggregateType = "Account"
	AggregateOpportunity AggregateType = "Opportunity"
	AggregateProject     AggregateType = "Project"
)

// Payload keys shared between publishers and handlers.
const (
	KeyAccountID      = "accountId"
	KeyContactID      = "contactId"
	KeyOpportunityID  = "opportunityId"
	KeyActorID        = "actorId"
	KeyOwnerID        = "ownerId"
	KeyAmount         = "amount"
	KeyStage          = "newStage"
	KeyPreviousStage  = "previousStage"
	KeyProbability    = "probability"
	KeyRating         = "rating"
	KeyStatus         = "status"
	KeyPreviousStatus = "previousStatus"
)

// Event is a DomainEvent. Once created it is never modified.
type Event struct {
	ID            string
	Type          Type
	AggregateID   string
	AggregateType AggregateType
	Payload       map[string]any
	OccurredAt    time.Time
}

// New creates an event with a fresh ID.
func New(typ Type, aggregateID string, aggregateType AggregateType, payload map[string]any, now time.Time) Event {
	if payload == nil {
		payload = map[string]any{}
	}
	return Event{
		ID:            uuid.NewString(),
		Type:          typ,
		AggregateID:   aggregateID,
		AggregateType: aggregateType,
		Payload:       payload,
		OccurredAt:    now,
	}
}

// String returns the payload value for key if it is a string.
func (e Event) String(key string) string {
	s, _ := e.Payload[key].(string)
	return s
}

// Decimal returns the payload value for key as a decimal. Values that went
// through a JSON store come back as strings or float64.
func (e Event) Decimal(key string) decimal.Decimal {
	switch v := e.Payload[key].(type) {
	case decimal.Decimal:
		return v
	case string:
		d, err := decimal.NewFromString(v)
		if err != nil {
			return decimal.Zero
		}
		return d
	case float64:
		return decimal.NewFromFloat(v)
	case int:
		return decimal.NewFromInt(int64(v))
	default:
		return decimal.Zero
	}
}

package dto_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jsamuelsen11/salesflow/internal/adapters/http/dto"
	"github.com/jsamuelsen11/salesflow/internal/domain/account"
	"github.com/jsamuelsen11/salesflow/internal/domain/contact"
	"github.com/jsamuelsen11/salesflow/internal/domain/lead"
	"github.com/jsamuelsen11/salesflow/internal/domain/opportunity"
	"github.com/jsamuelsen11/salesflow/internal/ports"
)

var testTime = time.Date(2026, 2, 12, 15, 4, 5, 0, time.UTC)

func validLead() lead.Lead {
	return lead.Lead{
		ID:        "lead-1",
		FirstName: "Ada",
		LastName:  "Lovelace",
		Company:   "Analytical",
		Status:    lead.StatusNew,
		OwnerID:   "rep1",
		Version:   1,
		CreatedAt: testTime,
		UpdatedAt: testTime,
	}
}

func TestToLeadResponse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		lead   lead.Lead
		verify func(t *testing.T, got dto.LeadResponse)
	}{
		{
			name: "maps all fields correctly",
			lead: validLead(),
			verify: func(t *testing.T, got dto.LeadResponse) {
				t.Helper()
				if got.ID != "lead-1" {
					t.Errorf("ID = %q, want %q", got.ID, "lead-1")
				}
				if got.Status != "NEW" {
					t.Errorf("Status = %q, want %q", got.Status, "NEW")
				}
				if got.OwnerID != "rep1" {
					t.Errorf("OwnerID = %q, want %q", got.OwnerID, "rep1")
				}
				if got.CreatedAt != "2026-02-12T15:04:05Z" {
					t.Errorf("CreatedAt = %q, want RFC3339", got.CreatedAt)
				}
				if got.LastContactDate != nil {
					t.Errorf("LastContactDate = %v, want nil", *got.LastContactDate)
				}
			},
		},
		{
			name: "qualified lead carries rating and contact date",
			lead: func() lead.Lead {
				l := validLead()
				l.Status = lead.StatusQualified
				l.Rating = lead.RatingHot
				l.LastContactDate = &testTime
				return l
			}(),
			verify: func(t *testing.T, got dto.LeadResponse) {
				t.Helper()
				if got.Rating != "HOT" {
					t.Errorf("Rating = %q, want HOT", got.Rating)
				}
				if got.LastContactDate == nil || *got.LastContactDate != "2026-02-12T15:04:05Z" {
					t.Errorf("LastContactDate = %v, want 2026-02-12T15:04:05Z", got.LastContactDate)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := dto.ToLeadResponse(&tt.lead)
			tt.verify(t, got)
		})
	}
}

func TestToOpportunityResponse(t *testing.T) {
	t.Parallel()

	o := opportunity.Opportunity{
		ID:          "opp-1",
		Name:        "Renewal",
		AccountID:   "acc-1",
		OwnerID:     "rep1",
		Stage:       opportunity.StageClosedWon,
		Amount:      decimal.RequireFromString("75000.5"),
		Probability: 100,
		ClosedDate:  &testTime,
		ProjectID:   "proj-1",
		CreatedAt:   testTime,
		UpdatedAt:   testTime,
	}

	got := dto.ToOpportunityResponse(&o)

	if got.Amount != "75000.50" {
		t.Errorf("Amount = %q, want %q", got.Amount, "75000.50")
	}
	if got.Stage != "CLOSED_WON" {
		t.Errorf("Stage = %q, want CLOSED_WON", got.Stage)
	}
	if got.Probability != 100 {
		t.Errorf("Probability = %d, want 100", got.Probability)
	}
	if got.ClosedDate == nil {
		t.Error("ClosedDate = nil, want set")
	}
	if got.ProjectID != "proj-1" {
		t.Errorf("ProjectID = %q, want proj-1", got.ProjectID)
	}
}

func TestToConversionResponse_JSON(t *testing.T) {
	t.Parallel()

	l := validLead()
	l.Status = lead.StatusConverted
	l.ConvertedAccountID = "acc-1"

	result := &ports.ConversionResult{
		Lead:    &l,
		Account: &account.Account{ID: "acc-1", Name: "Analytical", Type: account.TypeProspect, Status: account.StatusActive, OwnerID: "rep1", CreatedAt: testTime},
		Contact: &contact.Contact{ID: "con-1", AccountID: "acc-1", FirstName: "Ada", LastName: "Lovelace", IsPrimary: true},
	}

	data, err := json.Marshal(dto.ToConversionResponse(result))
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}

	var decoded map[string]map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}

	if got := decoded["lead"]["converted_account_id"]; got != "acc-1" {
		t.Errorf("lead.converted_account_id = %v, want acc-1", got)
	}
	if got := decoded["account"]["type"]; got != "PROSPECT" {
		t.Errorf("account.type = %v, want PROSPECT", got)
	}
	if got := decoded["contact"]["is_primary"]; got != true {
		t.Errorf("contact.is_primary = %v, want true", got)
	}
}

func TestToReportsResponse(t *testing.T) {
	t.Parallel()

	got := dto.ToReportsResponse("mgr", map[string]struct{}{"rep2": {}, "rep1": {}, "rep3": {}})

	if got.Count != 3 {
		t.Fatalf("Count = %d, want 3", got.Count)
	}
	want := []string{"rep1", "rep2", "rep3"}
	for i := range want {
		if got.Reports[i] != want[i] {
			t.Errorf("Reports[%d] = %q, want %q", i, got.Reports[i], want[i])
		}
	}

	empty := dto.ToReportsResponse("rep1", nil)
	if empty.Reports == nil || empty.Count != 0 {
		t.Errorf("empty reports = %+v, want non-nil empty slice", empty)
	}
}

package dto_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/jsamuelsen11/salesflow/internal/adapters/http/dto"
	"github.com/jsamuelsen11/salesflow/internal/domain"
	"github.com/jsamuelsen11/salesflow/internal/domain/lead"
)

// requireValidationField asserts err wraps ErrValidation and the resulting
// ValidationError contains the expected field key.
func requireValidationField(t *testing.T, err error, field string) {
	t.Helper()

	if err == nil {
		t.Fatal("Validate() = nil, want error")
	}
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("errors.Is(err, ErrValidation) = false, got %v", err)
	}

	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("errors.As(err, *ValidationError) = false, got %T", err)
	}
	if _, ok := verr.Fields[field]; !ok {
		t.Errorf("ValidationError.Fields missing key %q, got %v", field, verr.Fields)
	}
}

func TestCreateLeadRequest_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		req       dto.CreateLeadRequest
		wantErr   bool
		wantField string
	}{
		{
			name:    "valid request passes",
			req:     dto.CreateLeadRequest{FirstName: "Ada", LastName: "Lovelace", Company: "Analytical"},
			wantErr: false,
		},
		{
			name:    "last name alone is enough",
			req:     dto.CreateLeadRequest{LastName: "Lovelace", Company: "Analytical"},
			wantErr: false,
		},
		{
			name:      "missing both names fails",
			req:       dto.CreateLeadRequest{FirstName: "  ", Company: "Analytical"},
			wantErr:   true,
			wantField: "name",
		},
		{
			name:      "missing company fails",
			req:       dto.CreateLeadRequest{FirstName: "Ada"},
			wantErr:   true,
			wantField: "company",
		},
		{
			name:      "malformed email fails",
			req:       dto.CreateLeadRequest{FirstName: "Ada", Company: "Analytical", Email: "ada.example.com"},
			wantErr:   true,
			wantField: "email",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.req.Validate()
			if !tt.wantErr {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			requireValidationField(t, err, tt.wantField)
		})
	}
}

func TestCreateLeadRequest_ToDomain(t *testing.T) {
	t.Parallel()

	req := dto.CreateLeadRequest{
		FirstName: " Ada ",
		LastName:  "Lovelace",
		Company:   "Analytical",
		OwnerID:   "rep1",
	}
	got := req.ToDomain()

	if got.FirstName != "Ada" {
		t.Errorf("FirstName = %q, want %q", got.FirstName, "Ada")
	}
	if got.Status != lead.StatusNew {
		t.Errorf("Status = %q, want %q", got.Status, lead.StatusNew)
	}
	if got.OwnerID != "rep1" {
		t.Errorf("OwnerID = %q, want %q", got.OwnerID, "rep1")
	}
	if got.ID != "" {
		t.Errorf("ID = %q, want empty", got.ID)
	}
}

func TestQualifyLeadRequest_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		rating  string
		wantErr bool
	}{
		{"hot", "HOT", false},
		{"warm", "WARM", false},
		{"cold", "COLD", false},
		{"empty", "", true},
		{"lowercase", "hot", true},
		{"unknown", "SCORCHING", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := dto.QualifyLeadRequest{Rating: tt.rating}
			err := req.Validate()
			if !tt.wantErr {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			requireValidationField(t, err, "rating")
		})
	}
}

func TestUpdateLeadStatusRequest_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		status  string
		wantErr bool
	}{
		{"contacted", "CONTACTED", false},
		{"lost", "LOST", false},
		// Known statuses pass here; the lead decides whether they can be set.
		{"converted is well formed", "CONVERTED", false},
		{"empty", "", true},
		{"unknown", "PENDING", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := dto.UpdateLeadStatusRequest{Status: tt.status}
			err := req.Validate()
			if !tt.wantErr {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			requireValidationField(t, err, "status")
		})
	}
}

func TestCreateOpportunityRequest_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		req       dto.CreateOpportunityRequest
		wantErr   bool
		wantField string
	}{
		{
			name:    "valid request passes",
			req:     dto.CreateOpportunityRequest{Name: "Renewal", AccountID: "acc-1", Amount: "1200.50"},
			wantErr: false,
		},
		{
			name:    "unknown stage is not rejected here",
			req:     dto.CreateOpportunityRequest{Name: "Renewal", AccountID: "acc-1", Stage: "WON_ISH"},
			wantErr: false,
		},
		{
			name:      "missing name fails",
			req:       dto.CreateOpportunityRequest{AccountID: "acc-1"},
			wantErr:   true,
			wantField: "name",
		},
		{
			name:      "missing account fails",
			req:       dto.CreateOpportunityRequest{Name: "Renewal"},
			wantErr:   true,
			wantField: "account_id",
		},
		{
			name:      "non-decimal amount fails",
			req:       dto.CreateOpportunityRequest{Name: "Renewal", AccountID: "acc-1", Amount: "lots"},
			wantErr:   true,
			wantField: "amount",
		},
		{
			name:      "negative amount fails",
			req:       dto.CreateOpportunityRequest{Name: "Renewal", AccountID: "acc-1", Amount: "-1"},
			wantErr:   true,
			wantField: "amount",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.req.Validate()
			if !tt.wantErr {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			requireValidationField(t, err, tt.wantField)
		})
	}
}

func TestCreateOpportunityRequest_ToDomain(t *testing.T) {
	t.Parallel()

	req := dto.CreateOpportunityRequest{Name: "Renewal", AccountID: "acc-1", Stage: "PROPOSAL", Amount: "75000.10"}
	got := req.ToDomain()

	if !got.Amount.Equal(decimal.RequireFromString("75000.1")) {
		t.Errorf("Amount = %s, want 75000.1", got.Amount)
	}
	if got.Stage != "PROPOSAL" {
		t.Errorf("Stage = %q, want PROPOSAL", got.Stage)
	}

	empty := dto.CreateOpportunityRequest{Name: "Renewal", AccountID: "acc-1"}
	if !empty.ToDomain().Amount.IsZero() {
		t.Error("Amount should default to zero")
	}
}

func TestAdvanceStageRequest_Validate(t *testing.T) {
	t.Parallel()

	empty := dto.AdvanceStageRequest{Stage: " "}
	requireValidationField(t, empty.Validate(), "stage")

	ok := dto.AdvanceStageRequest{Stage: "NEGOTIATION"}
	if err := ok.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}
}

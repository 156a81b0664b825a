package project

import (
	"errors"
	"slices"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/jsamuelsen11/salesflow/internal/domain"
)

func TestNewPhases(t *testing.T) {
	t.Parallel()

	phases := NewPhases()
	if len(phases) != 5 {
		t.Fatalf("len(NewPhases()) = %d, want 5", len(phases))
	}

	p := Project{Phases: phases}
	want := []string{"Planning", "Data Preparation", "Model Development", "Validation", "Deployment"}
	if got := p.PhaseNames(); !slices.Equal(got, want) {
		t.Errorf("PhaseNames() = %v, want %v", got, want)
	}
	for i, ph := range phases {
		if ph.Order != i+1 {
			t.Errorf("phase %q Order = %d, want %d", ph.Name, ph.Order, i+1)
		}
		if ph.Status != PhasePending {
			t.Errorf("phase %q Status = %s, want PENDING", ph.Name, ph.Status)
		}
	}
}

func TestNewPhases_ReturnsFreshSlice(t *testing.T) {
	t.Parallel()

	a := NewPhases()
	a[0].Status = PhaseInProgress
	if b := NewPhases(); b[0].Status != PhasePending {
		t.Error("NewPhases() shares state between calls")
	}
}

func TestProject_Validate(t *testing.T) {
	t.Parallel()

	p := Project{Name: "Acme rollout", AccountID: "a1", OwnerID: "u1", Status: StatusPlanning, Budget: decimal.NewFromInt(5)}
	if err := p.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}

	p.OwnerID = ""
	p.Status = "DONE"
	if err := p.Validate(); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("Validate() = %v, want ErrValidation", err)
	}
}

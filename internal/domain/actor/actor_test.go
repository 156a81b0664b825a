package actor

import (
	"errors"
	"testing"

	"github.com/jsamuelsen11/salesflow/internal/domain"
)

func TestRole_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		role Role
		want bool
	}{
		{RoleAdmin, true},
		{RoleSalesManager, true},
		{RoleSalesRep, true},
		{RoleAccountManager, true},
		{RoleProjectManager, true},
		{RoleSupportStaff, true},
		{"", false},
		{"sales_rep", false},
		{"OWNER", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			t.Parallel()
			if got := tt.role.IsValid(); got != tt.want {
				t.Errorf("Role(%q).IsValid() = %v, want %v", tt.role, got, tt.want)
			}
		})
	}
}

func TestActor_Validate(t *testing.T) {
	t.Parallel()

	valid := func() Actor {
		return Actor{ID: "u1", Name: "Una", Role: RoleSalesRep, Status: StatusActive}
	}

	tests := []struct {
		name      string
		modify    func(*Actor)
		wantField string
	}{
		{name: "valid actor passes", modify: func(_ *Actor) {}},
		{name: "missing id fails", modify: func(a *Actor) { a.ID = "" }, wantField: "id"},
		{name: "blank name fails", modify: func(a *Actor) { a.Name = "  " }, wantField: "name"},
		{name: "unknown role fails", modify: func(a *Actor) { a.Role = "CEO" }, wantField: "role"},
		{name: "unknown status fails", modify: func(a *Actor) { a.Status = "ON_LEAVE" }, wantField: "status"},
		{name: "self manager fails", modify: func(a *Actor) { a.ManagerID = a.ID }, wantField: "manager_id"},
		{name: "other manager passes", modify: func(a *Actor) { a.ManagerID = "m1" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			a := valid()
			tt.modify(&a)
			err := a.Validate()

			if tt.wantField == "" {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}

			var verr *domain.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Validate() = %v, want *ValidationError", err)
			}
			if _, ok := verr.Fields[tt.wantField]; !ok {
				t.Errorf("ValidationError.Fields missing %q, got %v", tt.wantField, verr.Fields)
			}
		})
	}
}

func TestActor_IsAdmin_NilSafe(t *testing.T) {
	t.Parallel()

	var a *Actor
	if a.IsAdmin() {
		t.Error("nil actor IsAdmin() = true, want false")
	}
	if a.IsActive() {
		t.Error("nil actor IsActive() = true, want false")
	}
}

func TestFilter_Matches(t *testing.T) {
	t.Parallel()

	rep := &Actor{Role: RoleSalesRep, Status: StatusActive}

	if !(Filter{}).Matches(rep) {
		t.Error("zero filter should match everything")
	}
	if !(Filter{Role: RoleSalesRep, Status: StatusActive}).Matches(rep) {
		t.Error("exact filter should match")
	}
	if (Filter{Role: RoleAdmin}).Matches(rep) {
		t.Error("role filter should exclude other roles")
	}
	if (Filter{Status: StatusInactive}).Matches(rep) {
		t.Error("status filter should exclude other statuses")
	}
}

package handlers_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/jsamuelsen11/salesflow/internal/adapters/http/dto"
	"github.com/jsamuelsen11/salesflow/internal/adapters/http/handlers"
	"github.com/jsamuelsen11/salesflow/internal/adapters/http/middleware"
	"github.com/jsamuelsen11/salesflow/internal/domain"
	"github.com/jsamuelsen11/salesflow/internal/domain/account"
	"github.com/jsamuelsen11/salesflow/internal/domain/contact"
	"github.com/jsamuelsen11/salesflow/internal/domain/lead"
	"github.com/jsamuelsen11/salesflow/internal/ports"
	"github.com/jsamuelsen11/salesflow/mocks"
)

func newLeadHandler(t *testing.T) (*handlers.LeadHandler, *mocks.MockWorkflowService) {
	t.Helper()
	svc := mocks.NewMockWorkflowService(t)
	return handlers.NewLeadHandler(svc), svc
}

// --- CreateLead ---

func TestCreateLead_Success(t *testing.T) {
	t.Parallel()
	h, svc := newLeadHandler(t)

	created := validLead()
	svc.EXPECT().CreateLead(mock.Anything, testRep, mock.MatchedBy(func(l *lead.Lead) bool {
		return l.Company == "Analytical Engines" && l.Status == lead.StatusNew && l.OwnerID == ""
	})).Return(&created, nil)

	body := dto.CreateLeadRequest{FirstName: "Ada", LastName: "Lovelace", Company: "Analytical Engines"}
	rec := httptest.NewRecorder()
	h.CreateLead(rec, newRequest(t, http.MethodPost, "/api/v1/leads", testRep, "", body))

	requireStatus(t, rec, http.StatusCreated)
	resp := decodeJSON[dto.LeadResponse](t, rec)
	if resp.ID != "lead-1" {
		t.Errorf("ID = %q, want %q", resp.ID, "lead-1")
	}
	if resp.OwnerID != "rep1" {
		t.Errorf("OwnerID = %q, want %q", resp.OwnerID, "rep1")
	}
}

func TestCreateLead_NoActor(t *testing.T) {
	t.Parallel()
	h, _ := newLeadHandler(t)

	body := dto.CreateLeadRequest{FirstName: "Ada", Company: "Analytical Engines"}
	rec := httptest.NewRecorder()
	h.CreateLead(rec, newRequest(t, http.MethodPost, "/api/v1/leads", nil, "", body))

	requireStatus(t, rec, http.StatusForbidden)
}

func TestCreateLead_MalformedBody(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		body        string
		wantMessage string
	}{
		{name: "empty", body: "", wantMessage: "request body is required"},
		{name: "truncated", body: "{bad", wantMessage: "invalid JSON"},
		{name: "unknown field", body: `{"first_name":"Ada","company":"AE","status":"CONVERTED"}`, wantMessage: "unknown field"},
		{name: "two values", body: `{"first_name":"Ada","company":"AE"} {}`, wantMessage: "unexpected data"},
		{name: "oversized", body: `{"company":"` + strings.Repeat("x", 1<<20) + `"}`, wantMessage: "exceeds 1048576 bytes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			h, _ := newLeadHandler(t)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/leads", strings.NewReader(tt.body))
			req = req.WithContext(middleware.WithActor(req.Context(), testRep))
			rec := httptest.NewRecorder()
			h.CreateLead(rec, req)

			requireStatus(t, rec, http.StatusBadRequest)
			resp := decodeJSON[dto.ErrorResponse](t, rec)
			if len(resp.Errors) != 1 || resp.Errors[0].Location != "body" {
				t.Fatalf("Errors = %+v, want one body error", resp.Errors)
			}
			if !strings.Contains(resp.Errors[0].Message, tt.wantMessage) {
				t.Errorf("message = %q, want it to contain %q", resp.Errors[0].Message, tt.wantMessage)
			}
		})
	}
}

func TestCreateLead_ValidationError(t *testing.T) {
	t.Parallel()
	h, _ := newLeadHandler(t)

	rec := httptest.NewRecorder()
	h.CreateLead(rec, newRequest(t, http.MethodPost, "/api/v1/leads", testRep, "", dto.CreateLeadRequest{}))

	requireStatus(t, rec, http.StatusBadRequest)
	resp := decodeJSON[dto.ErrorResponse](t, rec)
	if len(resp.Errors) != 2 {
		t.Errorf("len(Errors) = %d, want 2 (name, company)", len(resp.Errors))
	}
}

func TestCreateLead_ServiceErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"owner out of reach", fmt.Errorf("create Lead: %w", domain.ErrForbidden), http.StatusForbidden},
		{"event log down", fmt.Errorf("publishing: %w", domain.ErrUnavailable), http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			h, svc := newLeadHandler(t)

			svc.EXPECT().CreateLead(mock.Anything, testRep, mock.AnythingOfType("*lead.Lead")).Return(nil, tt.err)

			body := dto.CreateLeadRequest{FirstName: "Ada", Company: "Analytical Engines", OwnerID: "rep2"}
			rec := httptest.NewRecorder()
			h.CreateLead(rec, newRequest(t, http.MethodPost, "/api/v1/leads", testRep, "", body))

			requireStatus(t, rec, tt.wantStatus)
		})
	}
}

// --- QualifyLead ---

func TestQualifyLead_Success(t *testing.T) {
	t.Parallel()
	h, svc := newLeadHandler(t)

	qualified := validLead()
	qualified.Status = lead.StatusQualified
	qualified.Rating = lead.RatingHot
	svc.EXPECT().QualifyLead(mock.Anything, testRep, "lead-1", lead.RatingHot).Return(&qualified, nil)

	rec := httptest.NewRecorder()
	h.QualifyLead(rec, newRequest(t, http.MethodPost, "/api/v1/leads/lead-1/qualify", testRep, "lead-1",
		dto.QualifyLeadRequest{Rating: "HOT"}))

	requireStatus(t, rec, http.StatusOK)
	resp := decodeJSON[dto.LeadResponse](t, rec)
	if resp.Status != "QUALIFIED" || resp.Rating != "HOT" {
		t.Errorf("status/rating = %s/%s, want QUALIFIED/HOT", resp.Status, resp.Rating)
	}
}

func TestQualifyLead_InvalidRating(t *testing.T) {
	t.Parallel()
	h, _ := newLeadHandler(t)

	rec := httptest.NewRecorder()
	h.QualifyLead(rec, newRequest(t, http.MethodPost, "/api/v1/leads/lead-1/qualify", testRep, "lead-1",
		dto.QualifyLeadRequest{Rating: "LUKEWARM"}))

	requireStatus(t, rec, http.StatusBadRequest)
}

func TestQualifyLead_ConvertedLead(t *testing.T) {
	t.Parallel()
	h, svc := newLeadHandler(t)

	svc.EXPECT().QualifyLead(mock.Anything, testRep, "lead-1", lead.RatingWarm).Return(nil, domain.ErrAlreadyConverted)

	rec := httptest.NewRecorder()
	h.QualifyLead(rec, newRequest(t, http.MethodPost, "/api/v1/leads/lead-1/qualify", testRep, "lead-1",
		dto.QualifyLeadRequest{Rating: "WARM"}))

	requireStatus(t, rec, http.StatusUnprocessableEntity)
}

func TestQualifyLead_MissingID(t *testing.T) {
	t.Parallel()
	h, _ := newLeadHandler(t)

	rec := httptest.NewRecorder()
	h.QualifyLead(rec, newRequest(t, http.MethodPost, "/api/v1/leads//qualify", testRep, "",
		dto.QualifyLeadRequest{Rating: "HOT"}))

	requireStatus(t, rec, http.StatusBadRequest)
}

// --- UpdateLeadStatus ---

func TestUpdateLeadStatus_Success(t *testing.T) {
	t.Parallel()
	h, svc := newLeadHandler(t)

	contacted := validLead()
	contacted.Status = lead.StatusContacted
	contacted.LastContactDate = &testTime
	svc.EXPECT().UpdateLeadStatus(mock.Anything, testRep, "lead-1", lead.StatusContacted).Return(&contacted, nil)

	rec := httptest.NewRecorder()
	h.UpdateLeadStatus(rec, newRequest(t, http.MethodPatch, "/api/v1/leads/lead-1/status", testRep, "lead-1",
		dto.UpdateLeadStatusRequest{Status: "CONTACTED"}))

	requireStatus(t, rec, http.StatusOK)
	resp := decodeJSON[dto.LeadResponse](t, rec)
	if resp.LastContactDate == nil {
		t.Error("LastContactDate = nil, want set after contact")
	}
}

func TestUpdateLeadStatus_InvalidTransition(t *testing.T) {
	t.Parallel()
	h, svc := newLeadHandler(t)

	svc.EXPECT().UpdateLeadStatus(mock.Anything, testRep, "lead-1", lead.StatusConverted).
		Return(nil, fmt.Errorf("%w: status cannot be set directly", domain.ErrInvalidTransition))

	rec := httptest.NewRecorder()
	h.UpdateLeadStatus(rec, newRequest(t, http.MethodPatch, "/api/v1/leads/lead-1/status", testRep, "lead-1",
		dto.UpdateLeadStatusRequest{Status: "CONVERTED"}))

	requireStatus(t, rec, http.StatusUnprocessableEntity)
}

// --- ArchiveLead ---

func TestArchiveLead_Success(t *testing.T) {
	t.Parallel()
	h, svc := newLeadHandler(t)

	svc.EXPECT().ArchiveLead(mock.Anything, testRep, "lead-1").Return(nil)

	rec := httptest.NewRecorder()
	h.ArchiveLead(rec, newRequest(t, http.MethodDelete, "/api/v1/leads/lead-1", testRep, "lead-1", nil))

	requireStatus(t, rec, http.StatusNoContent)
	if rec.Body.Len() != 0 {
		t.Errorf("body = %q, want empty", rec.Body.String())
	}
}

func TestArchiveLead_NotFound(t *testing.T) {
	t.Parallel()
	h, svc := newLeadHandler(t)

	svc.EXPECT().ArchiveLead(mock.Anything, testRep, "missing").Return(domain.ErrNotFound)

	rec := httptest.NewRecorder()
	h.ArchiveLead(rec, newRequest(t, http.MethodDelete, "/api/v1/leads/missing", testRep, "missing", nil))

	requireStatus(t, rec, http.StatusNotFound)
}

// --- ConvertLead ---

func TestConvertLead_Success(t *testing.T) {
	t.Parallel()
	h, svc := newLeadHandler(t)

	converted := validLead()
	converted.Status = lead.StatusConverted
	converted.ConvertedAccountID = "acc-1"
	result := &ports.ConversionResult{
		Lead:    &converted,
		Account: &account.Account{ID: "acc-1", Name: "Analytical Engines", Type: account.TypeProspect, Status: account.StatusActive, OwnerID: "rep1"},
		Contact: &contact.Contact{ID: "con-1", AccountID: "acc-1", FirstName: "Ada", LastName: "Lovelace", IsPrimary: true},
	}
	svc.EXPECT().ConvertLead(mock.Anything, testRep, "lead-1").Return(result, nil)

	rec := httptest.NewRecorder()
	h.ConvertLead(rec, newRequest(t, http.MethodPost, "/api/v1/leads/lead-1/convert", testRep, "lead-1", nil))

	requireStatus(t, rec, http.StatusCreated)
	resp := decodeJSON[dto.ConversionResponse](t, rec)
	if resp.Account.ID != "acc-1" {
		t.Errorf("Account.ID = %q, want acc-1", resp.Account.ID)
	}
	if !resp.Contact.IsPrimary {
		t.Error("Contact.IsPrimary = false, want true")
	}
	if resp.Lead.ConvertedAccountID != "acc-1" {
		t.Errorf("Lead.ConvertedAccountID = %q, want acc-1", resp.Lead.ConvertedAccountID)
	}
}

func TestConvertLead_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"already converted", domain.ErrAlreadyConverted, http.StatusUnprocessableEntity},
		{"peer rep", domain.ErrForbidden, http.StatusForbidden},
		{"concurrent edit", domain.ErrConflict, http.StatusConflict},
		{"missing lead", domain.ErrNotFound, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			h, svc := newLeadHandler(t)

			svc.EXPECT().ConvertLead(mock.Anything, testRep, "lead-1").Return(nil, tt.err)

			rec := httptest.NewRecorder()
			h.ConvertLead(rec, newRequest(t, http.MethodPost, "/api/v1/leads/lead-1/convert", testRep, "lead-1", nil))

			requireStatus(t, rec, tt.wantStatus)
			if ct := rec.Header().Get("Content-Type"); ct != "application/problem+json" {
				t.Errorf("Content-Type = %q, want application/problem+json", ct)
			}
		})
	}
}

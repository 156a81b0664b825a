// Package handlers provides HTTP request handlers for the service's API endpoints.
package handlers

import (
	"net/http"

	"github.com/jsamuelsen11/salesflow/internal/adapters/http/dto"
	"github.com/jsamuelsen11/salesflow/internal/domain/lead"
	"github.com/jsamuelsen11/salesflow/internal/ports"
)

// LeadHandler handles HTTP requests for the lead lifecycle.
type LeadHandler struct {
	svc ports.WorkflowService
}

// NewLeadHandler creates a new LeadHandler with the given service port.
func NewLeadHandler(svc ports.WorkflowService) *LeadHandler {
	return &LeadHandler{svc: svc}
}

// CreateLead handles POST /api/v1/leads.
func (h *LeadHandler) CreateLead(w http.ResponseWriter, r *http.Request) {
	a, err := requestActor(r)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	var req dto.CreateLeadRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	created, err := h.svc.CreateLead(r.Context(), a, req.ToDomain())
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusCreated, dto.ToLeadResponse(created))
}

// QualifyLead handles POST /api/v1/leads/{id}/qualify.
func (h *LeadHandler) QualifyLead(w http.ResponseWriter, r *http.Request) {
	a, id, ok := actorAndID(w, r)
	if !ok {
		return
	}

	var req dto.QualifyLeadRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	l, err := h.svc.QualifyLead(r.Context(), a, id, lead.Rating(req.Rating))
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.ToLeadResponse(l))
}

// UpdateLeadStatus handles PATCH /api/v1/leads/{id}/status.
func (h *LeadHandler) UpdateLeadStatus(w http.ResponseWriter, r *http.Request) {
	a, id, ok := actorAndID(w, r)
	if !ok {
		return
	}

	var req dto.UpdateLeadStatusRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	l, err := h.svc.UpdateLeadStatus(r.Context(), a, id, lead.Status(req.Status))
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.ToLeadResponse(l))
}

// ArchiveLead handles DELETE /api/v1/leads/{id}. Leads are soft-deleted.
func (h *LeadHandler) ArchiveLead(w http.ResponseWriter, r *http.Request) {
	a, id, ok := actorAndID(w, r)
	if !ok {
		return
	}

	if err := h.svc.ArchiveLead(r.Context(), a, id); err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ConvertLead handles POST /api/v1/leads/{id}/convert.
func (h *LeadHandler) ConvertLead(w http.ResponseWriter, r *http.Request) {
	a, id, ok := actorAndID(w, r)
	if !ok {
		return
	}

	result, err := h.svc.ConvertLead(r.Context(), a, id)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusCreated, dto.ToConversionResponse(result))
}

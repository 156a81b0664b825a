package handlers

import (
	"net/http"

	"github.com/jsamuelsen11/salesflow/internal/adapters/http/dto"
	"github.com/jsamuelsen11/salesflow/internal/ports"
)

// OpportunityHandler handles HTTP requests for the opportunity pipeline.
type OpportunityHandler struct {
	svc ports.WorkflowService
}

// NewOpportunityHandler creates a new OpportunityHandler with the given service port.
func NewOpportunityHandler(svc ports.WorkflowService) *OpportunityHandler {
	return &OpportunityHandler{svc: svc}
}

// CreateOpportunity handles POST /api/v1/opportunities.
func (h *OpportunityHandler) CreateOpportunity(w http.ResponseWriter, r *http.Request) {
	a, err := requestActor(r)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	var req dto.CreateOpportunityRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	created, err := h.svc.CreateOpportunity(r.Context(), a, req.ToDomain())
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusCreated, dto.ToOpportunityResponse(created))
}

// AdvanceStage handles POST /api/v1/opportunities/{id}/stage. Unknown stage
// names come back as 422 from the workflow.
func (h *OpportunityHandler) AdvanceStage(w http.ResponseWriter, r *http.Request) {
	a, id, ok := actorAndID(w, r)
	if !ok {
		return
	}

	var req dto.AdvanceStageRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	o, err := h.svc.AdvanceStage(r.Context(), a, id, req.Stage)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.ToOpportunityResponse(o))
}

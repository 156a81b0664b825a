package handlers

import (
	"net/http"
	"strings"

	"github.com/jsamuelsen11/salesflow/internal/adapters/http/dto"
	"github.com/jsamuelsen11/salesflow/internal/ports"
)

// resourceActor is the audit resource type for directory operations.
const resourceActor = "Actor"

// ActorHandler exposes the reporting hierarchy.
type ActorHandler struct {
	dir   ports.Directory
	authz ports.Authorizer
}

// NewActorHandler creates a new ActorHandler.
func NewActorHandler(dir ports.Directory, authz ports.Authorizer) *ActorHandler {
	return &ActorHandler{dir: dir, authz: authz}
}

// SetManager handles PUT /api/v1/actors/{id}/manager. Only admins may
// re-parent actors; denials are audited.
func (h *ActorHandler) SetManager(w http.ResponseWriter, r *http.Request) {
	a, id, ok := actorAndID(w, r)
	if !ok {
		return
	}

	var req dto.SetManagerRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	// An empty owner is reserved for admins.
	if err := h.authz.Authorize(r.Context(), a, "", "SET_MANAGER", resourceActor, id); err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	if err := h.dir.SetManager(r.Context(), a, id, strings.TrimSpace(req.ManagerID)); err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	updated, err := h.dir.Lookup(r.Context(), id)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.ToActorResponse(updated))
}

// Reports handles GET /api/v1/actors/{id}/reports. Callers see the reports
// of actors they themselves have access to.
func (h *ActorHandler) Reports(w http.ResponseWriter, r *http.Request) {
	a, id, ok := actorAndID(w, r)
	if !ok {
		return
	}

	if err := h.authz.Authorize(r.Context(), a, id, "READ_REPORTS", resourceActor, id); err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	reports, err := h.dir.Reports(r.Context(), id)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.ToReportsResponse(id, reports))
}

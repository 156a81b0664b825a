// Package http provides the inbound HTTP adapter including routing and server lifecycle.
package http

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/jsamuelsen11/salesflow/internal/adapters/http/dto"
	"github.com/jsamuelsen11/salesflow/internal/adapters/http/handlers"
	"github.com/jsamuelsen11/salesflow/internal/adapters/http/middleware"
	"github.com/jsamuelsen11/salesflow/internal/domain"
	"github.com/jsamuelsen11/salesflow/internal/ports"
)

// Handlers groups the endpoint handlers mounted by NewRouter.
type Handlers struct {
	Leads         *handlers.LeadHandler
	Opportunities *handlers.OpportunityHandler
	Actors        *handlers.ActorHandler
	Health        *handlers.HealthHandler
}

// corsMaxAge is how long browsers may cache a preflight response, in seconds.
const corsMaxAge = 300

// NewRouter creates an HTTP handler with all application routes registered.
// Middleware is applied globally in the order given. Routes under /api/v1
// additionally resolve the acting actor through dir; health endpoints do not.
// CORS is enabled only when allowedOrigins is non-empty.
func NewRouter(
	h Handlers,
	dir ports.Directory,
	allowedOrigins []string,
	middlewares ...func(http.Handler) http.Handler,
) http.Handler {
	r := chi.NewRouter()

	if len(allowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: allowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
			AllowedHeaders: []string{"Content-Type", middleware.HeaderActorID, "X-Request-ID", "X-Correlation-ID", "Traceparent", "Tracestate"},
			ExposedHeaders: []string{"X-Request-ID", "X-Correlation-ID"},
			MaxAge:         corsMaxAge,
		}))
	}

	for _, mw := range middlewares {
		r.Use(mw)
	}

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		dto.WriteErrorResponse(w, req, fmt.Errorf("no route for %s: %w", req.URL.Path, domain.ErrNotFound))
	})

	// Health endpoints (outside /api/v1 prefix).
	r.Get("/health/live", h.Health.Liveness)
	r.Get("/health/ready", h.Health.Readiness)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Actor(dir))

		r.Post("/leads", h.Leads.CreateLead)
		r.Delete("/leads/{id}", h.Leads.ArchiveLead)
		r.Post("/leads/{id}/qualify", h.Leads.QualifyLead)
		r.Patch("/leads/{id}/status", h.Leads.UpdateLeadStatus)
		r.Post("/leads/{id}/convert", h.Leads.ConvertLead)

		r.Post("/opportunities", h.Opportunities.CreateOpportunity)
		r.Post("/opportunities/{id}/stage", h.Opportunities.AdvanceStage)

		r.Put("/actors/{id}/manager", h.Actors.SetManager)
		r.Get("/actors/{id}/reports", h.Actors.Reports)
	})

	return r
}

package http_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/mock"

	adapthttp "github.com/jsamuelsen11/salesflow/internal/adapters/http"
	"github.com/jsamuelsen11/salesflow/internal/adapters/http/handlers"
	"github.com/jsamuelsen11/salesflow/internal/adapters/http/middleware"
	"github.com/jsamuelsen11/salesflow/internal/domain/actor"
	"github.com/jsamuelsen11/salesflow/internal/domain/opportunity"
	"github.com/jsamuelsen11/salesflow/mocks"
)

type routerDeps struct {
	svc      *mocks.MockWorkflowService
	dir      *mocks.MockDirectory
	authz    *mocks.MockAuthorizer
	registry *mocks.MockHealthRegistry
}

func newTestRouter(t *testing.T, origins []string, mws ...func(http.Handler) http.Handler) (http.Handler, routerDeps) {
	t.Helper()
	d := routerDeps{
		svc:      mocks.NewMockWorkflowService(t),
		dir:      mocks.NewMockDirectory(t),
		authz:    mocks.NewMockAuthorizer(t),
		registry: mocks.NewMockHealthRegistry(t),
	}

	router := adapthttp.NewRouter(adapthttp.Handlers{
		Leads:         handlers.NewLeadHandler(d.svc),
		Opportunities: handlers.NewOpportunityHandler(d.svc),
		Actors:        handlers.NewActorHandler(d.dir, d.authz),
		Health:        handlers.NewHealthHandler(d.registry),
	}, d.dir, origins, mws...)
	return router, d
}

func TestRouter_AllRoutesRegistered(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t, nil)

	expectedRoutes := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/health/live"},
		{http.MethodGet, "/health/ready"},
		{http.MethodPost, "/api/v1/leads"},
		{http.MethodDelete, "/api/v1/leads/{id}"},
		{http.MethodPost, "/api/v1/leads/{id}/qualify"},
		{http.MethodPatch, "/api/v1/leads/{id}/status"},
		{http.MethodPost, "/api/v1/leads/{id}/convert"},
		{http.MethodPost, "/api/v1/opportunities"},
		{http.MethodPost, "/api/v1/opportunities/{id}/stage"},
		{http.MethodPut, "/api/v1/actors/{id}/manager"},
		{http.MethodGet, "/api/v1/actors/{id}/reports"},
	}

	chiRouter, ok := router.(*chi.Mux)
	if !ok {
		t.Fatal("router is not *chi.Mux")
	}

	registered := make(map[string]bool)
	err := chi.Walk(chiRouter, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		registered[method+" "+route] = true
		return nil
	})
	if err != nil {
		t.Fatalf("chi.Walk error: %v", err)
	}

	for _, expected := range expectedRoutes {
		key := expected.method + " " + expected.path
		if !registered[key] {
			t.Errorf("route %s not registered", key)
		}
	}
}

func TestRouter_MiddlewareApplied(t *testing.T) {
	t.Parallel()

	called := false
	testMW := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
			next.ServeHTTP(w, r)
		})
	}

	router, d := newTestRouter(t, nil, testMW)
	d.registry.EXPECT().CheckAll(mock.Anything).Return(map[string]error{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	router.ServeHTTP(rec, req)

	if !called {
		t.Error("middleware was not called")
	}
}

func TestRouter_HealthIsAnonymous(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestRouter_APIRequiresActor(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t, nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/opportunities/opp-1/stage",
		bytes.NewBufferString(`{"stage":"PROPOSAL"}`))
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusForbidden)
	}
}

func TestRouter_IntegrationAdvanceStage(t *testing.T) {
	t.Parallel()

	router, d := newTestRouter(t, nil)

	rep := &actor.Actor{ID: "rep1", Role: actor.RoleSalesRep, Status: actor.StatusActive}
	d.dir.EXPECT().Lookup(mock.Anything, "rep1").Return(rep, nil)
	d.svc.EXPECT().AdvanceStage(mock.Anything, rep, "opp-1", "PROPOSAL").
		Return(&opportunity.Opportunity{ID: "opp-1", Stage: opportunity.StageProposal, Probability: 50}, nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/opportunities/opp-1/stage",
		bytes.NewBufferString(`{"stage":"PROPOSAL"}`))
	req.Header.Set(middleware.HeaderActorID, "rep1")
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d; body = %s", rec.Code, http.StatusOK, rec.Body.String())
	}
}

func TestRouter_CORSPreflight(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t, []string{"https://crm.example.com"})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/leads", nil)
	req.Header.Set("Origin", "https://crm.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", middleware.HeaderActorID)
	router.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://crm.example.com" {
		t.Errorf("Access-Control-Allow-Origin = %q, want the configured origin", got)
	}
}

func TestRouter_NotFoundReturnsProblem(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t, nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/nonexistent", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/problem+json" {
		t.Errorf("Content-Type = %q, want application/problem+json", ct)
	}
}

func TestRouter_MethodNotAllowed(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t, nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/health/live", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusMethodNotAllowed)
	}
}

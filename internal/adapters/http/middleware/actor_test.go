package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/jsamuelsen11/salesflow/internal/adapters/http/middleware"
	"github.com/jsamuelsen11/salesflow/internal/app/audit"
	"github.com/jsamuelsen11/salesflow/internal/domain"
	"github.com/jsamuelsen11/salesflow/internal/domain/actor"
	"github.com/jsamuelsen11/salesflow/mocks"
)

func TestActor_StoresActorAndRequestMeta(t *testing.T) {
	t.Parallel()

	dir := mocks.NewMockDirectory(t)
	rep := &actor.Actor{ID: "rep1", Role: actor.RoleSalesRep, Status: actor.StatusActive}
	dir.EXPECT().Lookup(mock.Anything, "rep1").Return(rep, nil)

	var (
		got  *actor.Actor
		meta audit.RequestMeta
	)
	handler := middleware.Actor(dir)(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		got = middleware.ActorFromContext(r.Context())
		meta = audit.RequestMetaFrom(r.Context())
	}))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/leads", http.NoBody)
	req.Header.Set(middleware.HeaderActorID, "rep1")
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	req.Header.Set("User-Agent", "crm-cli/1.0")
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if got != rep {
		t.Errorf("ActorFromContext() = %v, want %v", got, rep)
	}
	if meta.IPAddress != "203.0.113.7" {
		t.Errorf("IPAddress = %q, want %q", meta.IPAddress, "203.0.113.7")
	}
	if meta.UserAgent != "crm-cli/1.0" {
		t.Errorf("UserAgent = %q, want %q", meta.UserAgent, "crm-cli/1.0")
	}
}

func TestActor_FallsBackToRemoteAddr(t *testing.T) {
	t.Parallel()

	dir := mocks.NewMockDirectory(t)
	dir.EXPECT().Lookup(mock.Anything, "admin").
		Return(&actor.Actor{ID: "admin", Role: actor.RoleAdmin, Status: actor.StatusActive}, nil)

	var meta audit.RequestMeta
	handler := middleware.Actor(dir)(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		meta = audit.RequestMetaFrom(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/test", http.NoBody)
	req.RemoteAddr = "198.51.100.4:52100"
	req.Header.Set(middleware.HeaderActorID, "admin")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if meta.IPAddress != "198.51.100.4" {
		t.Errorf("IPAddress = %q, want %q", meta.IPAddress, "198.51.100.4")
	}
}

func TestActor_Rejections(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		header     string
		setup      func(dir *mocks.MockDirectory)
		wantStatus int
	}{
		{
			name:       "missing header",
			header:     "",
			setup:      func(*mocks.MockDirectory) {},
			wantStatus: http.StatusForbidden,
		},
		{
			name:   "unknown actor",
			header: "ghost",
			setup: func(dir *mocks.MockDirectory) {
				dir.EXPECT().Lookup(mock.Anything, "ghost").Return(nil, domain.ErrNotFound)
			},
			wantStatus: http.StatusForbidden,
		},
		{
			name:   "inactive actor",
			header: "gone",
			setup: func(dir *mocks.MockDirectory) {
				dir.EXPECT().Lookup(mock.Anything, "gone").
					Return(&actor.Actor{ID: "gone", Role: actor.RoleSalesRep, Status: actor.StatusInactive}, nil)
			},
			wantStatus: http.StatusForbidden,
		},
		{
			name:   "directory unavailable",
			header: "rep1",
			setup: func(dir *mocks.MockDirectory) {
				dir.EXPECT().Lookup(mock.Anything, "rep1").Return(nil, domain.ErrUnavailable)
			},
			wantStatus: http.StatusBadGateway,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := mocks.NewMockDirectory(t)
			tt.setup(dir)

			called := false
			handler := middleware.Actor(dir)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
				called = true
			}))

			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/test", http.NoBody)
			if tt.header != "" {
				req.Header.Set(middleware.HeaderActorID, tt.header)
			}
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if called {
				t.Error("next handler ran for a rejected actor")
			}
		})
	}
}

func TestActorFromContext_NilWithoutMiddleware(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/test", http.NoBody)
	if a := middleware.ActorFromContext(req.Context()); a != nil {
		t.Errorf("ActorFromContext() = %v, want nil", a)
	}
}
